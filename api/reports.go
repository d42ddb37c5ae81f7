package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"api_reports/internal/prompt"
	"api_reports/internal/report"
	"api_reports/internal/sales"
)

const reportTypeParam = "report_type"

// reportsHandler serves the admin report endpoints.
type reportsHandler struct {
	salesService *sales.Service
	renderer     *report.Renderer
	prompts      *prompt.Adapter
	now          func() time.Time
	logger       *zap.Logger
}

func NewReportsHandler(salesService *sales.Service, renderer *report.Renderer, prompts *prompt.Adapter, logger *zap.Logger) *reportsHandler {
	return &reportsHandler{
		salesService: salesService,
		renderer:     renderer,
		prompts:      prompts,
		now:          time.Now,
		logger:       logger,
	}
}

// handleSalesReport handles GET /admin/reports/sales.
func (h *reportsHandler) handleSalesReport(ctx *gin.Context) {
	query := ctx.Request.URL.Query()
	format := strings.ToLower(strings.TrimSpace(query.Get(reportTypeParam)))
	if format == "" {
		format = report.FormatCSV
	}
	query.Del(reportTypeParam)

	h.logger.Info("sales report requested", zap.String("format", format))
	h.render(ctx, format, query,
		"Formato no soportado. Usa report_type=csv, report_type=pdf o report_type=excel.")
}

// handleDynamicReport handles POST /admin/reports/dynamic.
func (h *reportsHandler) handleDynamicReport(ctx *gin.Context) {
	var req struct {
		Prompt string `json:"prompt"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Prompt) == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "No se proporcionó un 'prompt'."})
		return
	}

	h.logger.Info("dynamic report prompt received", zap.String("prompt", req.Prompt))

	translated, err := h.prompts.Translate(ctx.Request.Context(), req.Prompt)
	if err != nil {
		var perr *prompt.Error
		switch {
		case errors.Is(err, prompt.ErrEmptyPrompt):
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "No se proporcionó un 'prompt'."})
		case errors.As(err, &perr) && errors.Is(err, prompt.ErrNotUnderstood):
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Error al interpretar el prompt (IA): " + perr.Detail})
		case errors.As(err, &perr):
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Error crítico al interpretar el prompt: " + perr.Detail})
		default:
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Error crítico al interpretar el prompt: " + err.Error()})
		}
		return
	}

	h.render(ctx, translated.Format, translated.Filters,
		fmt.Sprintf("Formato '%s' no soportado.", translated.Format))
}

// render validates the filters, checks the format, queries and writes the report.
func (h *reportsHandler) render(ctx *gin.Context, format string, values url.Values, unsupported string) {
	filter, err := sales.ParseFilter(values)
	if err != nil {
		writeFilterError(ctx, h.logger, err)
		return
	}

	if !report.IsSupported(format) {
		h.logger.Warn("unsupported report format", zap.String("format", format))
		ctx.JSON(http.StatusBadRequest, gin.H{"error": unsupported})
		return
	}

	list, err := h.salesService.Search(ctx.Request.Context(), filter)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	res, err := h.renderer.Render(format, list)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": unsupported})
		return
	}
	writeResult(ctx, res)
}

// handleLegacyReport handles GET /admin/reports/legacy.
func (h *reportsHandler) handleLegacyReport(ctx *gin.Context) {
	filters := map[string]string{}
	for k, v := range ctx.Request.URL.Query() {
		if len(v) > 0 {
			filters[k] = v[len(v)-1]
		}
	}

	body := h.renderer.RenderTemplate(report.LegacyTemplate, map[string]any{
		"filters":      filters,
		"current_date": h.now().Format("02/01/2006 15:04"),
		"sales_data":   []*sales.Sale{},
	})
	if body == nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"detail": "Error generando PDF"})
		return
	}

	writeResult(ctx, report.Result{
		Status:      http.StatusOK,
		ContentType: "application/pdf",
		Filename:    report.LegacyFilename,
		Body:        body,
	})
}

func writeResult(ctx *gin.Context, res report.Result) {
	if res.Message != "" && len(res.Body) == 0 {
		ctx.JSON(res.Status, gin.H{"error": res.Message})
		return
	}
	if res.Filename != "" {
		ctx.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, res.Filename))
	}
	ctx.Data(res.Status, res.ContentType, res.Body)
}
