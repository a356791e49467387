package invoicepdf

import (
	"bytes"
	"context"
	"fmt"
	"strconv"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"

	"github.com/polkiloo/letterdesk/internal/domain/model"
)

const dateLayout = "02 Jan 2006"

// Renderer draws invoices as single page A4 documents.
type Renderer struct {
	issuer   string
	compress bool
}

// NewRenderer creates a renderer that prints issuer in the header.
func NewRenderer(issuer string) *Renderer {
	return &Renderer{issuer: issuer, compress: true}
}

// Render produces the PDF bytes for invoice.
func (r *Renderer) Render(ctx context.Context, invoice model.Invoice, order model.Order, practice model.Practice) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(r.compress)
	pdf.SetTitle(invoice.Number, false)
	pdf.SetAuthor(r.issuer, false)
	pdf.SetCreator(r.issuer, false)
	pdf.SetCreationDate(invoice.IssuedAt)
	pdf.SetModificationDate(invoice.IssuedAt)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(120, 10, r.issuer, "", 0, "L", false, 0, "")
	pdf.CellFormat(70, 10, "INVOICE", "", 1, "R", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 11)
	meta := [][2]string{
		{"Invoice number", invoice.Number},
		{"Issue date", invoice.IssuedAt.UTC().Format(dateLayout)},
		{"Due date", invoice.DueAt.UTC().Format(dateLayout)},
		{"Order", "#" + strconv.FormatInt(order.ID, 10)},
	}
	for _, row := range meta {
		pdf.CellFormat(40, 6, row[0], "", 0, "L", false, 0, "")
		pdf.CellFormat(80, 6, row[1], "", 1, "L", false, 0, "")
	}
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 6, "Bill to", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, practice.Name, "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, practice.Email, "", 1, "L", false, 0, "")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetFillColor(235, 235, 235)
	pdf.CellFormat(100, 8, "Description", "1", 0, "L", true, 0, "")
	pdf.CellFormat(25, 8, "Quantity", "1", 0, "R", true, 0, "")
	pdf.CellFormat(30, 8, "Unit price", "1", 0, "R", true, 0, "")
	pdf.CellFormat(35, 8, "Amount", "1", 1, "R", true, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(100, 8, order.Title, "1", 0, "L", false, 0, "")
	pdf.CellFormat(25, 8, strconv.Itoa(order.Quantity), "1", 0, "R", false, 0, "")
	pdf.CellFormat(30, 8, unitPrice(invoice.Amount, order.Quantity), "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 8, invoice.Amount.StringFixed(2), "1", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(155, 8, "Total due", "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 8, invoice.Amount.StringFixed(2), "1", 1, "R", false, 0, "")
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "I", 9)
	pdf.MultiCell(0, 5, fmt.Sprintf("Payment is due by %s. Please quote %s with your payment.",
		invoice.DueAt.UTC().Format(dateLayout), invoice.Number), "", "L", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render invoice %s: %w", invoice.Number, err)
	}
	return buf.Bytes(), nil
}

func unitPrice(amount decimal.Decimal, quantity int) string {
	if quantity <= 0 {
		return "-"
	}
	return amount.DivRound(decimal.NewFromInt(int64(quantity)), 4).StringFixed(4)
}
