package summary

import (
	"context"
	"errors"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facturio/facturio/internal/domain"
)

type fakeChatClient struct {
	req  openai.ChatCompletionRequest
	resp openai.ChatCompletionResponse
	err  error
}

func (f *fakeChatClient) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.req = req
	return f.resp, f.err
}

func testReport() (domain.Report, []domain.Invoice) {
	report := domain.Report{
		TotalSales:    decimal.RequireFromString("232.00"),
		InvoiceCount:  1,
		AverageTicket: decimal.RequireFromString("232.00"),
		Currency:      "MXN",
	}
	invoices := []domain.Invoice{{
		Number:     "INV-0001",
		ClientName: "Tornillos del Norte",
		Date:       time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		Total:      decimal.RequireFromString("232.00"),
		Status:     domain.StatusPaid,
	}}
	return report, invoices
}

func TestOpenAISummarizer(t *testing.T) {
	fake := &fakeChatClient{
		resp: openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Content: "  Facturaste 232.00 MXN.  "}},
			},
		},
	}
	s := &OpenAISummarizer{client: fake, model: "gpt-4o-mini", timeout: time.Second}

	report, invoices := testReport()
	text, err := s.Summarize(context.Background(), report, invoices)
	require.NoError(t, err)

	assert.Equal(t, "Facturaste 232.00 MXN.", text)
	assert.Equal(t, "gpt-4o-mini", fake.req.Model)
	require.Len(t, fake.req.Messages, 2)
	assert.Contains(t, fake.req.Messages[1].Content, "INV-0001")
	assert.Contains(t, fake.req.Messages[1].Content, "232.00")
}

func TestOpenAISummarizerFailure(t *testing.T) {
	fake := &fakeChatClient{err: errors.New("connection refused")}
	s := &OpenAISummarizer{client: fake, model: "gpt-4o-mini", timeout: time.Second}

	report, invoices := testReport()
	_, err := s.Summarize(context.Background(), report, invoices)
	require.Error(t, err)
	assert.Equal(t, domain.ECOLLABORATOR, domain.ErrorCode(err))
}

func TestOpenAISummarizerEmptyResponse(t *testing.T) {
	fake := &fakeChatClient{}
	s := &OpenAISummarizer{client: fake, model: "gpt-4o-mini", timeout: time.Second}

	report, invoices := testReport()
	_, err := s.Summarize(context.Background(), report, invoices)
	require.Error(t, err)
	assert.Equal(t, domain.ECOLLABORATOR, domain.ErrorCode(err))
}
