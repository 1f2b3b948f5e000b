// Command ynamazon reconciles Amazon purchases against YNAB ledger
// entries and writes itemized memos back.
//
// Subcommands:
//
//	sync          run the reconciliation loop (default)
//	api           serve run history over HTTP
//	transactions  print the ledger entries waiting for memos
//	orders        print the purchase snapshot
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/ynamazon/ynamazon-go/internal/adapters/amazon"
	"github.com/ynamazon/ynamazon-go/internal/adapters/ynab"
	"github.com/ynamazon/ynamazon-go/internal/api"
	"github.com/ynamazon/ynamazon-go/internal/application/sync"
	"github.com/ynamazon/ynamazon-go/internal/cli"
	"github.com/ynamazon/ynamazon-go/internal/domain/summarizer"
	"github.com/ynamazon/ynamazon-go/internal/infrastructure/config"
	"github.com/ynamazon/ynamazon-go/internal/infrastructure/logging"
	"github.com/ynamazon/ynamazon-go/internal/infrastructure/storage"
)

func main() {
	command := "sync"
	args := os.Args[1:]
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		command = args[0]
		args = args[1:]
	}

	var err error
	switch command {
	case "sync":
		err = runSync(args)
	case "api":
		err = runAPI(args)
	case "transactions":
		err = runTransactions(args)
	case "orders":
		err = runOrders(args)
	case "help", "-h", "--help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", command)
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "ynamazon %s: %v\n", command, err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: ynamazon [sync|api|transactions|orders] [flags]")
}

func loadConfig(path string) *config.Config {
	if path != "" {
		return config.LoadOrEnvWithPath(path)
	}
	return config.LoadOrEnv()
}

func newLogger(cfg *config.Config, verbose bool) *slog.Logger {
	logCfg := cfg.Observability.Logging
	if verbose {
		logCfg.Level = "debug"
	}
	return logging.NewLogger(logCfg)
}

func runSync(args []string) error {
	flags, err := cli.ParseSyncFlags(args)
	if err != nil {
		return err
	}

	cfg := loadConfig(flags.ConfigFile)
	logger := newLogger(cfg, flags.Verbose)

	apiKey := cfg.GetAPIKey(cfg.YNAB.APIKey, "YNAB_API_KEY", "YNAB_TOKEN")
	if apiKey == "" {
		return fmt.Errorf("YNAB API key is not configured")
	}
	ynabCfg := cfg.YNAB
	ynabCfg.APIKey = apiKey

	client := ynab.NewClient(ynabCfg, logger)
	needsMemo, err := client.FindPayee(cfg.YNAB.NeedsMemoPayee)
	if err != nil {
		return err
	}
	completed, err := client.FindPayee(cfg.YNAB.CompletedPayee)
	if err != nil {
		return err
	}

	source := amazon.NewSnapshotSource(cfg.Amazon.SnapshotPath, logger)

	var sum *summarizer.Summarizer
	if cfg.Memo.UseAISummary {
		openAIKey := cfg.GetAPIKey(cfg.OpenAI.APIKey, "OPENAI_API_KEY")
		if openAIKey != "" {
			sum = summarizer.New(summarizer.NewHTTPOpenAIClient(openAIKey), cfg.OpenAI.Model)
		} else {
			logger.Warn("AI summaries enabled but no OpenAI key configured, using item lists")
		}
	}

	store, err := storage.NewStorage(cfg.Storage.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer store.Close()

	var decider sync.Decider
	if flags.Interactive {
		decider = cli.NewConsoleDecider(os.Stdin, os.Stdout)
	} else {
		decider = &sync.PolicyDecider{}
	}

	days := cfg.Amazon.TransactionDays
	if flags.Days > 0 {
		days = flags.Days
	}

	orchestrator := sync.NewOrchestrator(client, source, decider, sum, store, logger, sync.Config{
		NeedsMemoPayeeID: needsMemo.ID,
		CompletedPayeeID: completed.ID,
		UseLinkStyle:     cfg.YNAB.UseMarkdown,
		MaxMemoLength:    cfg.Memo.MaxLength,
		UseAISummary:     cfg.Memo.UseAISummary,
		TransactionDays:  days,
		Years:            cfg.Amazon.Years,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.PrintHeader(os.Stdout, flags.DryRun)
	result, err := orchestrator.Run(ctx, flags.ToSyncOptions())
	if err != nil {
		return err
	}
	cli.PrintSyncSummary(os.Stdout, result)
	return nil
}

func runAPI(args []string) error {
	fs := flag.NewFlagSet("api", flag.ContinueOnError)
	configFile := fs.String("config", "", "Configuration file path")
	port := fs.Int("port", 8080, "Listen port")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := loadConfig(*configFile)
	logger := newLogger(cfg, false)

	store, err := storage.NewStorage(cfg.Storage.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer store.Close()

	apiCfg := api.DefaultConfig()
	apiCfg.Port = *port
	server := api.NewServer(apiCfg, store, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func runTransactions(args []string) error {
	fs := flag.NewFlagSet("transactions", flag.ContinueOnError)
	configFile := fs.String("config", "", "Configuration file path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := loadConfig(*configFile)
	logger := newLogger(cfg, false)

	apiKey := cfg.GetAPIKey(cfg.YNAB.APIKey, "YNAB_API_KEY", "YNAB_TOKEN")
	if apiKey == "" {
		return fmt.Errorf("YNAB API key is not configured")
	}
	ynabCfg := cfg.YNAB
	ynabCfg.APIKey = apiKey

	client := ynab.NewClient(ynabCfg, logger)
	needsMemo, err := client.FindPayee(cfg.YNAB.NeedsMemoPayee)
	if err != nil {
		return err
	}
	entries, err := client.TransactionsForPayee(needsMemo.ID)
	if err != nil {
		return err
	}

	cli.PrintLedgerEntries(os.Stdout, entries)
	return nil
}

func runOrders(args []string) error {
	fs := flag.NewFlagSet("orders", flag.ContinueOnError)
	configFile := fs.String("config", "", "Configuration file path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := loadConfig(*configFile)
	logger := newLogger(cfg, false)

	source := amazon.NewSnapshotSource(cfg.Amazon.SnapshotPath, logger)
	years := cfg.Amazon.Years
	if len(years) == 0 {
		years = amazon.FetchYears(time.Now())
	}
	orders, err := source.FetchOrders(context.Background(), years)
	if err != nil {
		return err
	}

	cli.PrintOrders(os.Stdout, orders)
	return nil
}
