package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"api_reports/internal/inventory"
	"api_reports/internal/prompt"
	"api_reports/internal/report"
	"api_reports/internal/sales"
)

// Dependencies are the services the routes are built on.
type Dependencies struct {
	Sales       *sales.Service
	Reports     *report.Renderer
	Prompts     *prompt.Adapter
	Inventory   *inventory.Service
	AdminTokens []string
	Logger      *zap.Logger
}

// InitRoutes registers the admin report, sales and stock endpoints on the
// given Gin engine. Everything under /admin requires an admin token.
func InitRoutes(e *gin.Engine, deps Dependencies) {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	salesHandler := NewSalesHandler(deps.Sales, logger)
	reportsHandler := NewReportsHandler(deps.Sales, deps.Reports, deps.Prompts, logger)
	stockHandler := NewStockHandler(deps.Inventory, logger)

	e.Use(RequestLogger(logger))

	admin := e.Group("/admin", AdminAuth(deps.AdminTokens, logger))
	admin.GET("/reports/sales", reportsHandler.handleSalesReport)
	admin.POST("/reports/dynamic", reportsHandler.handleDynamicReport)
	admin.GET("/reports/legacy", reportsHandler.handleLegacyReport)
	admin.GET("/sales", salesHandler.handlerGetSales)
	admin.PATCH("/products/:id/stock", stockHandler.handlePatchStock)

	e.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})
}
