package report

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"api_reports/internal/sales"
)

const notAvailable = "N/A"

// CSVHeader is the fixed first row of the CSV report.
var CSVHeader = []string{"ID_Venta", "Fecha", "Cliente", "Email", "Monto_Total", "Estado", "Detalle_Productos"}

var errMissingProduct = errors.New("line item has no product")

// CSV renders one row per sale after the header. A sale whose line items
// cannot be summarised gets N/A in the detail column; other rows are unaffected.
func (r *Renderer) CSV(list []*sales.Sale) Result {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	// Write on a bytes.Buffer only fails on a broken writer; errors surface via w.Error below.
	_ = w.Write(CSVHeader)

	for _, sale := range list {
		_ = w.Write(r.csvRow(sale))
	}

	w.Flush()
	if err := w.Error(); err != nil {
		r.logger.Error("failed to write csv report", zap.Error(err))
		return Result{
			Status:      http.StatusInternalServerError,
			ContentType: "text/plain; charset=utf-8",
			Body:        []byte("Error generando CSV: " + err.Error()),
		}
	}

	r.logger.Info("csv report generated", zap.Int("rows", len(list)))
	return Result{
		Status:      http.StatusOK,
		ContentType: "text/csv",
		Filename:    CSVFilename,
		Body:        buf.Bytes(),
	}
}

func (r *Renderer) csvRow(sale *sales.Sale) []string {
	details := notAvailable
	if sale.Details != nil {
		summary, err := summarizeDetails(sale.Details)
		if err != nil {
			r.logger.Debug("sale details not printable", zap.Int64("sale_id", sale.ID), zap.Error(err))
		} else {
			details = summary
		}
	}

	name, email := notAvailable, notAvailable
	if sale.User != nil {
		name = sale.User.FullName()
		email = sale.User.Email
	}

	return []string{
		strconv.FormatInt(sale.ID, 10),
		sale.CreatedAt.In(r.location).Format("2006-01-02 15:04:05"),
		name,
		email,
		sale.TotalAmount.StringFixed(2),
		string(sale.Status),
		details,
	}
}

// summarizeDetails flattens line items to "2x Widget (Bs. 75.25); 1x ...".
func summarizeDetails(details []*sales.Detail) (string, error) {
	parts := make([]string, 0, len(details))
	for _, d := range details {
		if d == nil || d.Product == nil {
			return "", errMissingProduct
		}
		parts = append(parts, fmt.Sprintf("%dx %s (Bs. %s)", d.Quantity, d.Product.Name, d.PriceAtPurchase.StringFixed(2)))
	}
	return strings.Join(parts, "; "), nil
}
