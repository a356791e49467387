package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/letterdesk/internal/server/http/dto"
	"github.com/polkiloo/letterdesk/internal/usecase"
)

// QuoteHandler manages quote endpoints.
type QuoteHandler struct {
	facade QuoteFacade
}

// NewQuoteHandler constructs QuoteHandler.
func NewQuoteHandler(facade QuoteFacade) *QuoteHandler {
	return &QuoteHandler{facade: facade}
}

// Create handles POST /api/quotes.
func (h *QuoteHandler) Create(c *gin.Context) {
	var req dto.CreateQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "malformed request body")
		return
	}
	quote, err := h.facade.CreateQuote(c.Request.Context(), CurrentActor(c), usecase.CreateQuoteInput{
		PracticeID: req.PracticeID,
		Title:      req.Title,
		Quantity:   req.Quantity,
		UnitPrice:  req.UnitPrice,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toQuoteResponse(*quote))
}

// List handles GET /api/quotes.
func (h *QuoteHandler) List(c *gin.Context) {
	quotes, err := h.facade.Quotes(c.Request.Context(), CurrentActor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	response := make([]dto.QuoteResponse, 0, len(quotes))
	for _, q := range quotes {
		response = append(response, toQuoteResponse(q))
	}
	c.JSON(http.StatusOK, response)
}

// Get handles GET /api/quotes/:id.
func (h *QuoteHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	quote, err := h.facade.Quote(c.Request.Context(), CurrentActor(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toQuoteResponse(*quote))
}

// Convert handles POST /api/quotes/:id/convert.
func (h *QuoteHandler) Convert(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	order, err := h.facade.ConvertQuote(c.Request.Context(), CurrentActor(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toOrderResponse(*order))
}
