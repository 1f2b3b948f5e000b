// Package summarizer produces a concise AI-written description of an
// order's items for use as the memo body.
//
// Summarization is strictly optional: any failure (no API key, transport
// error, empty response) is reported as an error and the caller falls back
// to deterministic truncation. The summarizer never writes memo text
// directly; its output is re-wrapped in the structured memo so the length
// invariant is enforced by the truncator on every path.
package summarizer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ErrUnavailable means summarization cannot run at all (no client or no
// API key configured). Callers treat it the same as a failed call.
var ErrUnavailable = errors.New("summarizer: not configured")

const systemPrompt = "You are a bookkeeping assistant. You write one-line " +
	"summaries of online orders for budgeting memos. Be specific about what " +
	"was purchased, group similar items, and never invent items that are " +
	"not listed."

const plainPrompt = "Summarize the following order items in a single short " +
	"plain-text sentence. Do not use markdown formatting."

const markdownPrompt = "Summarize the following order items in a single " +
	"short sentence. You may use markdown emphasis but no links."

// Request carries everything the model needs to describe an order.
type Request struct {
	ItemTitles       []string
	OrderURL         string
	OrderTotal       string // empty when the charge covers the whole order
	TransactionTotal string
	UseLinkStyle     bool
	MaxLength        int
}

// Summarizer generates order summaries through an OpenAI-compatible chat
// completion client.
type Summarizer struct {
	client OpenAIClient
	model  string
}

// New creates a summarizer. A nil client yields ErrUnavailable on use.
func New(client OpenAIClient, model string) *Summarizer {
	return &Summarizer{client: client, model: model}
}

// Summarize returns a one-line description of the order items, or an error
// when the summary cannot be produced or would exceed the length budget.
func (s *Summarizer) Summarize(ctx context.Context, req Request) (string, error) {
	if s == nil || s.client == nil {
		return "", ErrUnavailable
	}

	prompt := plainPrompt
	if req.UseLinkStyle {
		prompt = markdownPrompt
	}

	var sb strings.Builder
	sb.WriteString(prompt)
	if req.OrderTotal != "" && req.TransactionTotal != "" && req.OrderTotal != req.TransactionTotal {
		fmt.Fprintf(&sb, "\nThis charge of $%s covers part of an order totaling $%s.",
			req.TransactionTotal, req.OrderTotal)
	}
	sb.WriteString("\n\nOrder details:\n")
	for _, title := range req.ItemTitles {
		sb.WriteString("- ")
		sb.WriteString(title)
		sb.WriteString("\n")
	}

	resp, err := s.client.CreateChatCompletion(ctx, ChatCompletionRequest{
		Model: s.model,
		Messages: []Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: sb.String()},
		},
		Temperature: 0.2,
	})
	if err != nil {
		return "", fmt.Errorf("summarizer: %w", err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", errors.New("summarizer: empty response")
	}

	summary := strings.TrimSpace(resp.Choices[0].Message.Content)
	// Collapse any model-introduced newlines; the memo layer owns structure.
	summary = strings.Join(strings.Fields(summary), " ")

	if n := utf8.RuneCountInString(summary); req.MaxLength > 0 && n > req.MaxLength {
		return "", fmt.Errorf("summarizer: summary length %d exceeds budget %d", n, req.MaxLength)
	}
	return summary, nil
}
