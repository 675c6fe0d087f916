package http

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/supplymatch/backend/internal/domain"
	"github.com/supplymatch/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	match *usecase.MatchService
	cart  *usecase.CartService
	audit *usecase.AuditService
}

// NewHandler creates a new HTTP handler
func NewHandler(match *usecase.MatchService, cart *usecase.CartService, audit *usecase.AuditService) *Handler {
	return &Handler{
		match: match,
		cart:  cart,
		audit: audit,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "supplymatch-backend",
		"version": "1.0.0",
	})
}

// Match resolves one reference item against the catalog and returns ranked
// offers with pack quotes.
func (h *Handler) Match(c *gin.Context) {
	var req usecase.MatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
		return
	}
	if req.RequiredQty < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "requiredQty must not be negative"})
		return
	}

	resp, err := h.match.Match(c.Request.Context(), &req)
	if err != nil {
		log.Printf("[MATCH] request failed: %v", err)
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

type addItemRequest struct {
	Text          string  `json:"text" binding:"required"`
	RequiredQty   float64 `json:"requiredQty"`
	BrandCritical bool    `json:"brandCritical"`
}

// AddItem appends a line intent to a cart, creating the cart on first use.
func (h *Handler) AddItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
		return
	}
	if req.RequiredQty < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "requiredQty must not be negative"})
		return
	}

	cartID := c.Param("id")
	lineID, version, err := h.cart.AddItem(c.Request.Context(), cartID, domain.LineIntent{
		Text:          req.Text,
		RequiredQty:   req.RequiredQty,
		BrandCritical: req.BrandCritical,
	})
	if err != nil {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"cartId":  cartID,
		"lineId":  lineID,
		"version": version,
	})
}

// RemoveItem deletes a line from a cart.
func (h *Handler) RemoveItem(c *gin.Context) {
	cartID := c.Param("id")
	lineID := c.Param("line")

	if err := h.cart.RemoveItem(c.Request.Context(), cartID, lineID); err != nil {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

// GetPlan returns the optimized purchase plan for a cart.
func (h *Handler) GetPlan(c *gin.Context) {
	plan, err := h.cart.BuildPlan(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, plan)
}

type checkoutRequest struct {
	Destination string `json:"destination" binding:"required"`
	Version     int64  `json:"version"`
}

// Checkout submits per-supplier orders for every group that clears its
// minimum. Groups below minimum are reported back, not submitted.
func (h *Handler) Checkout(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "destination is required"})
		return
	}

	result, err := h.cart.Checkout(c.Request.Context(), c.Param("id"), req.Destination, req.Version)
	if err != nil {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// RunAudit sweeps the whole catalog for data-quality issues.
func (h *Handler) RunAudit(c *gin.Context) {
	report, err := h.audit.Run(c.Request.Context())
	if err != nil {
		log.Printf("[AUDIT] run failed: %v", err)
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, report)
}

// errorStatus maps domain sentinel errors to HTTP status codes.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest), errors.Is(err, domain.ErrNoDestination):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrCartNotFound),
		errors.Is(err, domain.ErrLineNotFound),
		errors.Is(err, domain.ErrOfferNotFound),
		errors.Is(err, domain.ErrOrderNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrVersionConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrCatalogUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
