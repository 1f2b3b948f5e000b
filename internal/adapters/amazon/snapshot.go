package amazon

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ynamazon/ynamazon-go/internal/domain/model"
)

const snapshotDateLayout = "2006-01-02"

// snapshotFile is the on-disk schema of an account export. Amounts are
// decimal strings so the export never passes through floats.
type snapshotFile struct {
	Orders       []snapshotOrder       `json:"orders"`
	Transactions []snapshotTransaction `json:"transactions"`
}

type snapshotOrder struct {
	OrderNumber      string         `json:"order_number"`
	PlacedDate       string         `json:"placed_date"`
	GrandTotal       string         `json:"grand_total"`
	OrderDetailsLink string         `json:"order_details_link"`
	Recipient        string         `json:"recipient,omitempty"`
	PaymentMethod    string         `json:"payment_method,omitempty"`
	Items            []snapshotItem `json:"items"`
}

type snapshotItem struct {
	Title     string `json:"title"`
	Link      string `json:"link,omitempty"`
	Price     string `json:"price,omitempty"`
	Quantity  int    `json:"quantity,omitempty"`
	Condition string `json:"condition,omitempty"`
	Seller    string `json:"seller,omitempty"`
}

type snapshotTransaction struct {
	CompletedDate string `json:"completed_date"`
	GrandTotal    string `json:"grand_total"`
	OrderNumber   string `json:"order_number"`
	SellerName    string `json:"seller_name,omitempty"`
}

// SnapshotSource reads purchase history from a JSON export file. The
// file is parsed once per call so a long-running process picks up a
// refreshed export without restarting.
type SnapshotSource struct {
	path   string
	logger *slog.Logger
	now    func() time.Time
}

var _ Source = (*SnapshotSource)(nil)

// NewSnapshotSource creates a source reading from the given file path
func NewSnapshotSource(path string, logger *slog.Logger) *SnapshotSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &SnapshotSource{
		path:   path,
		logger: logger.With(slog.String("adapter", "amazon")),
		now:    time.Now,
	}
}

// FetchOrders returns orders placed in any of the given years. An empty
// years slice returns every order in the snapshot.
func (s *SnapshotSource) FetchOrders(ctx context.Context, years []int) ([]*model.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	file, err := s.load()
	if err != nil {
		return nil, err
	}

	wanted := make(map[int]bool, len(years))
	for _, y := range years {
		wanted[y] = true
	}

	orders := make([]*model.Order, 0, len(file.Orders))
	for i, raw := range file.Orders {
		order, err := convertOrder(raw)
		if err != nil {
			return nil, fmt.Errorf("snapshot order %d: %w", i, err)
		}
		if len(wanted) > 0 && !wanted[order.PlacedDate.Year()] {
			continue
		}
		orders = append(orders, order)
	}

	s.logger.Debug("loaded orders from snapshot",
		slog.String("path", s.path),
		slog.Int("count", len(orders)))
	return orders, nil
}

// FetchTransactions returns charge transactions completed within the
// last days days. days <= 0 returns every transaction in the snapshot.
func (s *SnapshotSource) FetchTransactions(ctx context.Context, days int) ([]*model.PurchaseTransaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	file, err := s.load()
	if err != nil {
		return nil, err
	}

	var cutoff time.Time
	if days > 0 {
		cutoff = s.now().AddDate(0, 0, -days)
	}

	txs := make([]*model.PurchaseTransaction, 0, len(file.Transactions))
	for i, raw := range file.Transactions {
		tx, err := convertTransaction(raw)
		if err != nil {
			return nil, fmt.Errorf("snapshot transaction %d: %w", i, err)
		}
		if !cutoff.IsZero() && tx.CompletedDate.Before(cutoff) {
			continue
		}
		txs = append(txs, tx)
	}

	s.logger.Debug("loaded transactions from snapshot",
		slog.String("path", s.path),
		slog.Int("count", len(txs)))
	return txs, nil
}

func (s *SnapshotSource) load() (*snapshotFile, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot %s: %w", s.path, err)
	}
	var file snapshotFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot %s: %w", s.path, err)
	}
	return &file, nil
}

func convertOrder(raw snapshotOrder) (*model.Order, error) {
	if raw.OrderNumber == "" {
		return nil, fmt.Errorf("missing order_number")
	}
	placed, err := time.Parse(snapshotDateLayout, raw.PlacedDate)
	if err != nil {
		return nil, fmt.Errorf("invalid placed_date %q: %w", raw.PlacedDate, err)
	}
	total, err := decimal.NewFromString(raw.GrandTotal)
	if err != nil {
		return nil, fmt.Errorf("invalid grand_total %q: %w", raw.GrandTotal, err)
	}

	items := make([]model.Item, 0, len(raw.Items))
	for _, ri := range raw.Items {
		item := model.Item{
			Title:     ri.Title,
			Link:      ri.Link,
			Quantity:  ri.Quantity,
			Condition: ri.Condition,
			Seller:    ri.Seller,
		}
		if ri.Price != "" {
			price, err := decimal.NewFromString(ri.Price)
			if err != nil {
				return nil, fmt.Errorf("invalid item price %q: %w", ri.Price, err)
			}
			item.Price = &price
		}
		items = append(items, item)
	}

	return &model.Order{
		OrderNumber:      raw.OrderNumber,
		PlacedDate:       placed,
		GrandTotal:       total,
		Items:            items,
		OrderDetailsLink: raw.OrderDetailsLink,
		Recipient:        raw.Recipient,
		PaymentMethod:    raw.PaymentMethod,
	}, nil
}

func convertTransaction(raw snapshotTransaction) (*model.PurchaseTransaction, error) {
	completed, err := time.Parse(snapshotDateLayout, raw.CompletedDate)
	if err != nil {
		return nil, fmt.Errorf("invalid completed_date %q: %w", raw.CompletedDate, err)
	}
	total, err := decimal.NewFromString(raw.GrandTotal)
	if err != nil {
		return nil, fmt.Errorf("invalid grand_total %q: %w", raw.GrandTotal, err)
	}
	return &model.PurchaseTransaction{
		CompletedDate: completed,
		GrandTotal:    total,
		OrderNumber:   raw.OrderNumber,
		SellerName:    raw.SellerName,
	}, nil
}
