package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const pdfContentType = "application/pdf"

// InvoiceHandler exposes invoice generation and download.
type InvoiceHandler struct {
	facade InvoiceFacade
}

// NewInvoiceHandler constructs InvoiceHandler.
func NewInvoiceHandler(facade InvoiceFacade) *InvoiceHandler {
	return &InvoiceHandler{facade: facade}
}

// Generate handles POST /api/orders/:id/invoice.
func (h *InvoiceHandler) Generate(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	invoice, err := h.facade.GenerateInvoice(c.Request.Context(), CurrentActor(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toInvoiceResponse(*invoice))
}

// Get handles GET /api/orders/:id/invoice.
func (h *InvoiceHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	invoice, err := h.facade.Invoice(c.Request.Context(), CurrentActor(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toInvoiceResponse(*invoice))
}

// Document handles GET /api/orders/:id/invoice.pdf.
func (h *InvoiceHandler) Document(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	invoice, rc, err := h.facade.InvoiceDocument(c.Request.Context(), CurrentActor(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	defer rc.Close()

	c.DataFromReader(http.StatusOK, -1, pdfContentType, rc, map[string]string{
		"Content-Disposition": attachment(invoice.Number + ".pdf"),
	})
}
