package routes

import (
	"github.com/AI-Trading-APP/paper-trading/handlers"
	"github.com/AI-Trading-APP/paper-trading/middleware"
	"github.com/AI-Trading-APP/paper-trading/service"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires the portfolio and paper-trading surfaces onto the
// router. Every route requires a bearer token and sits behind the per-user
// rate limiter.
func RegisterRoutes(router *gin.Engine, engine *service.OrderEngine, portfolio *service.PortfolioService, limiter *middleware.RateLimiter) {
	portfolioHandler := handlers.NewPortfolioHandler(portfolio)
	paperHandler := handlers.NewPaperHandler(engine, portfolio)

	api := router.Group("/api", middleware.Auth(), limiter.Handler())
	{
		api.GET("/portfolio", portfolioHandler.GetPortfolio)
		api.POST("/portfolio/buy", portfolioHandler.Buy)
		api.GET("/portfolio/transactions", portfolioHandler.GetTransactions)

		api.GET("/paper/account", paperHandler.GetAccount)
		api.POST("/paper/order", paperHandler.PlaceOrder)
		api.GET("/paper/orders", paperHandler.ListOrders)
	}
}
