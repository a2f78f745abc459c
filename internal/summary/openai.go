package summary

import (
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/facturio/facturio/internal/domain"
)

const systemPrompt = "You are a financial assistant for a small business. " +
	"Summarize the invoicing activity below in a short paragraph: total billed, " +
	"number of invoices, average ticket, and anything notable about unpaid invoices. " +
	"Answer in the language the client names are written in. Do not invent figures."

// chatClient is the slice of the OpenAI client the summarizer uses.
type chatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAISummarizer asks a ChatGPT model for the summary prose.
type OpenAISummarizer struct {
	client  chatClient
	model   string
	timeout time.Duration
}

// NewOpenAISummarizer builds a summarizer against the OpenAI API.
func NewOpenAISummarizer(apiKey, model string, timeout time.Duration) *OpenAISummarizer {
	return &OpenAISummarizer{
		client:  openai.NewClient(apiKey),
		model:   model,
		timeout: timeout,
	}
}

func (s *OpenAISummarizer) Summarize(ctx context.Context, report domain.Report, invoices []domain.Invoice) (string, error) {
	const op = "summary.openai"

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(report, invoices)},
		},
	})
	if err != nil {
		return "", domain.WrapError(err, domain.ECOLLABORATOR, op, "summary service unavailable")
	}
	if len(resp.Choices) == 0 {
		return "", domain.Errorf(domain.ECOLLABORATOR, op, "summary service returned no content")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// buildPrompt renders the aggregates plus a compact per-invoice ledger. The
// model only ever sees data already visible on the dashboard.
func buildPrompt(report domain.Report, invoices []domain.Invoice) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Currency: %s\n", report.Currency)
	fmt.Fprintf(&b, "Total sales: %s\n", report.TotalSales.StringFixed(2))
	fmt.Fprintf(&b, "Invoice count: %d\n", report.InvoiceCount)
	fmt.Fprintf(&b, "Average ticket: %s\n", report.AverageTicket.StringFixed(2))
	b.WriteString("Invoices:\n")
	for _, inv := range invoices {
		fmt.Fprintf(&b, "- %s | %s | %s | %s | %s\n",
			inv.Number,
			inv.Date.Format("2006-01-02"),
			inv.ClientName,
			inv.Total.StringFixed(2),
			inv.Status,
		)
	}
	return b.String()
}
