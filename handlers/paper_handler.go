package handlers

import (
	"net/http"

	"github.com/AI-Trading-APP/paper-trading/middleware"
	"github.com/AI-Trading-APP/paper-trading/models"
	"github.com/AI-Trading-APP/paper-trading/service"
	"github.com/AI-Trading-APP/paper-trading/utils"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// PaperHandler serves the simulated trading surface.
type PaperHandler struct {
	Engine    *service.OrderEngine
	Portfolio *service.PortfolioService
	Validator *validator.Validate
}

func NewPaperHandler(engine *service.OrderEngine, portfolio *service.PortfolioService) *PaperHandler {
	return &PaperHandler{
		Engine:    engine,
		Portfolio: portfolio,
		Validator: utils.GetValidator(),
	}
}

// GET /api/paper/account
func (h *PaperHandler) GetAccount(c *gin.Context) {
	resp, err := h.Portfolio.GetAccountSummary(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// POST /api/paper/order
func (h *PaperHandler) PlaceOrder(c *gin.Context) {
	var req models.PlaceOrderRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.Validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"validation_errors": formatValidationError(err)})
		return
	}

	// Rejections come back as terminal order records with HTTP 200; an
	// error here means the order could not even be recorded.
	order, err := h.Engine.SubmitOrder(c.Request.Context(), middleware.UserID(c), &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, models.NewOrderView(*order))
}

// GET /api/paper/orders
func (h *PaperHandler) ListOrders(c *gin.Context) {
	resp, err := h.Portfolio.GetOrders(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}
