package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"api_reports/internal/inventory"
	"api_reports/internal/sales"
)

// salesHandler holds the sales service and implements HTTP handlers for sales operations.
type salesHandler struct {
	salesService *sales.Service
	logger       *zap.Logger
}

// NewSalesHandler creates a new sales handler.
func NewSalesHandler(salesService *sales.Service, logger *zap.Logger) *salesHandler {
	return &salesHandler{
		salesService: salesService,
		logger:       logger,
	}
}

// handlerGetSales handles GET /admin/sales with the same filters as the reports.
func (h *salesHandler) handlerGetSales(ctx *gin.Context) {
	filter, err := sales.ParseFilter(ctx.Request.URL.Query())
	if err != nil {
		writeFilterError(ctx, h.logger, err)
		return
	}

	// Llama al servicio para buscar y obtener metadatos
	salesResults, metadata, err := h.salesService.SearchWithMetadata(ctx.Request.Context(), filter)
	if err != nil {
		h.logger.Error("Error searching sales", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to search sales: " + err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"results": salesResults, "metadata": metadata})
}

// writeFilterError answers 400 with the per-field map for validation errors
// and 500 for anything else.
func writeFilterError(ctx *gin.Context, logger *zap.Logger, err error) {
	var verr *sales.ValidationError
	if errors.As(err, &verr) {
		logger.Warn("invalid report filters", zap.Error(err))
		ctx.JSON(http.StatusBadRequest, verr.Fields)
		return
	}
	logger.Error("failed to parse filters", zap.Error(err))
	ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

// stockHandler exposes stock adjustments.
type stockHandler struct {
	inventoryService *inventory.Service
	logger           *zap.Logger
}

func NewStockHandler(inventoryService *inventory.Service, logger *zap.Logger) *stockHandler {
	return &stockHandler{inventoryService: inventoryService, logger: logger}
}

// handlePatchStock handles PATCH /admin/products/:id/stock.
func (h *stockHandler) handlePatchStock(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}

	var req struct {
		Delta *int `json:"delta" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("failed to bind JSON request", zap.Error(err))
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	product, err := h.inventoryService.AdjustStock(ctx.Request.Context(), id, *req.Delta)
	if err != nil {
		switch {
		case errors.Is(err, inventory.ErrNotFound):
			ctx.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		case errors.Is(err, inventory.ErrInsufficientStock):
			ctx.JSON(http.StatusConflict, gin.H{"error": "insufficient stock"})
		default:
			h.logger.Error("failed to adjust stock", zap.Int64("product_id", id), zap.Error(err))
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return
	}

	ctx.JSON(http.StatusOK, product)
}
