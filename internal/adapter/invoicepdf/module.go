package invoicepdf

import (
	"go.uber.org/fx"

	"github.com/polkiloo/letterdesk/internal/usecase"
)

const issuerName = "LetterDesk"

// Module exposes the PDF invoice renderer to fx graph.
var Module = fx.Provide(newInvoiceRenderer)

func newInvoiceRenderer() usecase.InvoiceRenderer {
	return NewRenderer(issuerName)
}
