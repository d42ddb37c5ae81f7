package report

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"api_reports/internal/sales"
)

func TestRender_Dispatch(t *testing.T) {
	r := newTestRenderer(t)
	list := []*sales.Sale{widgetSale()}

	res, err := r.Render("CSV", list)
	require.NoError(t, err)
	assert.Equal(t, "text/csv", res.ContentType, "format is case-insensitive")

	res, err = r.Render("excel", list)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotImplemented, res.Status)
	assert.Empty(t, res.Body, "excel never carries a document")
	assert.NotEmpty(t, res.Message)

	_, err = r.Render("xml", list)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestFormatAmount(t *testing.T) {
	cases := map[string]string{
		"0":       "0.00",
		"150.5":   "150.50",
		"1234.5":  "1,234.50",
		"1000000": "1,000,000.00",
		"99.999":  "100.00",
	}
	for in, want := range cases {
		assert.Equal(t, want, formatAmount(decimalOf(t, in)), in)
	}
}

func TestLongDateES(t *testing.T) {
	assert.Equal(t, "10 de marzo de 2025, 14:05", longDateES(fixedNow))
}

func TestHex(t *testing.T) {
	assert.Equal(t, Color{0x1a, 0x23, 0x7e}, Hex("#1a237e"))
	assert.Equal(t, "#4caf50", Hex("4caf50").String())
	assert.Panics(t, func() { Hex("#12") })
}
