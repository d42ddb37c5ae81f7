package sales

import (
	"net/url"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFilter_Valid(t *testing.T) {
	values := url.Values{
		"start_date": {"2025-01-01"},
		"end_date":   {"2025-01-31"},
		"status":     {"completed"},
		"user_id":    {"7"},
		"customer":   {" ana "},
		"min_amount": {"10.5"},
		"max_amount": {"200"},
		"product":    {"tv"},
		"ignored":    {"whatever"},
	}

	f, err := ParseFilter(values)
	require.NoError(t, err)

	require.NotNil(t, f.StartDate)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), *f.StartDate)
	require.NotNil(t, f.Status)
	assert.Equal(t, StatusCompleted, *f.Status)
	require.NotNil(t, f.UserID)
	assert.Equal(t, int64(7), *f.UserID)
	assert.Equal(t, "ana", f.Customer)
	assert.Equal(t, "10.5", f.MinAmount.String())
	assert.Equal(t, "tv", f.Product)
}

func TestParseFilter_Empty(t *testing.T) {
	f, err := ParseFilter(url.Values{})
	require.NoError(t, err)
	assert.Equal(t, Filter{}, f)
}

func TestParseFilter_CollectsEveryFieldError(t *testing.T) {
	values := url.Values{
		"start_date": {"01/02/2025"},
		"status":     {"SHIPPED"},
		"user_id":    {"abc"},
		"min_amount": {"-3"},
	}

	_, err := ParseFilter(values)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, KeyStartDate)
	assert.Contains(t, verr.Fields, KeyStatus)
	assert.Contains(t, verr.Fields, KeyUserID)
	assert.Contains(t, verr.Fields, KeyMinAmount)
	assert.NotContains(t, verr.Fields, KeyEndDate)
}

func TestParseFilter_RangeChecks(t *testing.T) {
	_, err := ParseFilter(url.Values{
		"start_date": {"2025-02-01"},
		"end_date":   {"2025-01-01"},
		"min_amount": {"100"},
		"max_amount": {"5"},
	})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, KeyEndDate)
	assert.Contains(t, verr.Fields, KeyMaxAmount)
}

func TestFilterMatches(t *testing.T) {
	sale := &Sale{
		ID:          1,
		CreatedAt:   time.Date(2025, 1, 31, 23, 30, 0, 0, time.UTC),
		Status:      StatusPending,
		TotalAmount: decimal.RequireFromString("99.90"),
		User:        &User{ID: 4, FirstName: "Ana", LastName: "Rojas", Email: "ana@example.com"},
		Details: []*Detail{
			{Quantity: 1, Product: &Product{ID: 1, Name: "Smart TV 55"}},
		},
	}

	end := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)
	assert.True(t, Filter{EndDate: &end}.Matches(sale), "end date is inclusive for the whole day")

	assert.True(t, Filter{Customer: "ROJAS"}.Matches(sale))
	assert.True(t, Filter{Product: "tv"}.Matches(sale))
	assert.False(t, Filter{Product: "sofa"}.Matches(sale))

	completed := StatusCompleted
	assert.False(t, Filter{Status: &completed}.Matches(sale))

	noUser := &Sale{ID: 2, Status: StatusPending}
	assert.False(t, Filter{Customer: "ana"}.Matches(noUser))
}
