package handlers

import (
	"errors"
	"net/http"

	"github.com/AI-Trading-APP/paper-trading/middleware"
	"github.com/AI-Trading-APP/paper-trading/models"
	"github.com/AI-Trading-APP/paper-trading/service"
	"github.com/AI-Trading-APP/paper-trading/utils"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// PortfolioHandler serves the manual portfolio surface.
type PortfolioHandler struct {
	Service   *service.PortfolioService
	Validator *validator.Validate
}

func NewPortfolioHandler(s *service.PortfolioService) *PortfolioHandler {
	return &PortfolioHandler{
		Service:   s,
		Validator: utils.GetValidator(),
	}
}

func formatValidationError(err error) map[string]string {
	errs := make(map[string]string)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, e := range verrs {
			errs[e.Field()] = "failed on tag '" + e.Tag() + "'"
		}
	}
	return errs
}

// ledgerStatus maps ledger failures to HTTP status codes. Precondition
// failures are the caller's problem, not the server's.
func ledgerStatus(err error) int {
	switch {
	case errors.Is(err, models.ErrInsufficientFunds),
		errors.Is(err, models.ErrInsufficientShares),
		errors.Is(err, models.ErrInvalidQuantity),
		errors.Is(err, models.ErrUnknownTicker):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// GET /api/portfolio
func (h *PortfolioHandler) GetPortfolio(c *gin.Context) {
	resp, err := h.Service.GetPortfolio(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// POST /api/portfolio/buy
func (h *PortfolioHandler) Buy(c *gin.Context) {
	var req models.BuyRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.Validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"validation_errors": formatValidationError(err)})
		return
	}

	resp, err := h.Service.Buy(c.Request.Context(), middleware.UserID(c), &req)
	if err != nil {
		c.JSON(ledgerStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GET /api/portfolio/transactions
func (h *PortfolioHandler) GetTransactions(c *gin.Context) {
	resp, err := h.Service.GetTransactions(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}
