package invoicepdf

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polkiloo/letterdesk/internal/domain/model"
)

func fixtures() (model.Invoice, model.Order, model.Practice) {
	issued := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	invoice := model.Invoice{
		ID:         1,
		OrderID:    7,
		PracticeID: 2,
		Number:     "INV-2026-0003",
		Amount:     decimal.RequireFromString("412.50"),
		Status:     model.InvoiceStatusIssued,
		IssuedAt:   issued,
		DueAt:      issued.Add(model.InvoicePaymentTerm),
	}
	order := model.Order{ID: 7, PracticeID: 2, Title: "Spring recall", Quantity: 500, Cost: invoice.Amount}
	practice := model.Practice{ID: 2, Name: "Smile Dental", Email: "front@smile.example"}
	return invoice, order, practice
}

func TestRenderProducesPDF(t *testing.T) {
	r := NewRenderer("LetterDesk")
	r.compress = false
	invoice, order, practice := fixtures()

	doc, err := r.Render(context.Background(), invoice, order, practice)
	require.NoError(t, err)
	require.True(t, len(doc) > 5)
	assert.Equal(t, "%PDF-", string(doc[:5]))
	for _, want := range []string{"INV-2026-0003", "Smile Dental", "Spring recall", "412.50", "0.8250", "13 Apr 2026"} {
		assert.Contains(t, string(doc), want)
	}
}

func TestRenderIsDeterministic(t *testing.T) {
	r := NewRenderer("LetterDesk")
	invoice, order, practice := fixtures()

	first, err := r.Render(context.Background(), invoice, order, practice)
	require.NoError(t, err)
	second, err := r.Render(context.Background(), invoice, order, practice)
	require.NoError(t, err)
	assert.Equal(t, first, second, "identical input must render identical output")
}

func TestRenderCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	invoice, order, practice := fixtures()

	_, err := NewRenderer("LetterDesk").Render(ctx, invoice, order, practice)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestUnitPrice(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		qty    int
		want   string
	}{
		{name: "per piece", amount: "412.50", qty: 500, want: "0.8250"},
		{name: "rounded", amount: "100", qty: 3, want: "33.3333"},
		{name: "no quantity", amount: "10", qty: 0, want: "-"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, unitPrice(decimal.RequireFromString(tt.amount), tt.qty))
		})
	}
}

func TestModuleRenderer(t *testing.T) {
	assert.IsType(t, &Renderer{}, newInvoiceRenderer())
}
