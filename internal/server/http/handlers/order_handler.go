package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/letterdesk/internal/domain/model"
	"github.com/polkiloo/letterdesk/internal/server/http/dto"
	"github.com/polkiloo/letterdesk/internal/usecase"
	"github.com/polkiloo/letterdesk/internal/workflow"
)

const maxListLimit = 500

// OrderHandler manages order workflow endpoints.
type OrderHandler struct {
	facade OrderFacade
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(facade OrderFacade) *OrderHandler {
	return &OrderHandler{facade: facade}
}

// Create handles POST /api/orders.
func (h *OrderHandler) Create(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "malformed request body")
		return
	}

	order, err := h.facade.CreateOrder(c.Request.Context(), CurrentActor(c), usecase.CreateOrderInput{
		PracticeID: req.PracticeID,
		Title:      req.Title,
		Quantity:   req.Quantity,
		Cost:       req.Cost,
		Submit:     req.Submit,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toOrderResponse(*order))
}

// List handles GET /api/orders with optional status, practice_id and limit query parameters.
func (h *OrderHandler) List(c *gin.Context) {
	var filter model.OrderFilter
	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		status := model.OrderStatus(raw)
		filter.Status = &status
	}
	if raw := c.Query("practice_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			badRequest(c, "invalid practice_id")
			return
		}
		filter.PracticeID = &id
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 || limit > maxListLimit {
			badRequest(c, "invalid limit")
			return
		}
		filter.Limit = limit
	}

	orders, err := h.facade.Orders(c.Request.Context(), CurrentActor(c), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]dto.OrderResponse, 0, len(orders))
	for _, o := range orders {
		response = append(response, toOrderResponse(o))
	}
	c.JSON(http.StatusOK, response)
}

// Get handles GET /api/orders/:id. The action menu is embedded in the response.
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	order, err := h.facade.Order(c.Request.Context(), CurrentActor(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	resp := toOrderResponse(*order)
	resp.Actions = toActionResponses(workflow.AvailableActions(*order))
	c.JSON(http.StatusOK, resp)
}

// Actions handles GET /api/orders/:id/actions.
func (h *OrderHandler) Actions(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	actions, err := h.facade.OrderActions(c.Request.Context(), CurrentActor(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toActionResponses(actions))
}

// Transitions handles GET /api/orders/:id/transitions.
func (h *OrderHandler) Transitions(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	current, allowed, err := h.facade.AllowedTransitions(c.Request.Context(), CurrentActor(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.TransitionsResponse{Current: string(current), Allowed: toStatusNames(allowed)})
}

// Transition handles POST /api/orders/:id/transitions.
func (h *OrderHandler) Transition(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Status) == "" {
		badRequest(c, "status is required")
		return
	}

	order, err := h.facade.Transition(c.Request.Context(), CurrentActor(c), id, model.OrderStatus(strings.TrimSpace(req.Status)))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(*order))
}

// ProofLink handles GET /api/orders/:id/proof-link.
func (h *OrderHandler) ProofLink(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	link, err := h.facade.ProofLink(c.Request.Context(), CurrentActor(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ProofLinkResponse{OrderID: link.OrderID, Revision: link.Revision, FileID: link.FileID, URL: link.URL})
}

// SendEmail handles POST /api/orders/:id/emails.
func (h *OrderHandler) SendEmail(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "malformed request body")
		return
	}
	if err := h.facade.SendEmail(c.Request.Context(), CurrentActor(c), id, req.Subject, req.Message); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusAccepted)
}

// Bulk handles POST /api/orders/bulk.
func (h *OrderHandler) Bulk(c *gin.Context) {
	var req dto.BulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "malformed request body")
		return
	}
	result, err := h.facade.BulkAction(c.Request.Context(), CurrentActor(c), workflow.AlertCategory(req.Category), req.OrderIDs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBulkResponse(result))
}
