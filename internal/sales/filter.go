package sales

import (
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Filter keys accepted in report query strings.
const (
	KeyStartDate = "start_date"
	KeyEndDate   = "end_date"
	KeyStatus    = "status"
	KeyUserID    = "user_id"
	KeyCustomer  = "customer"
	KeyMinAmount = "min_amount"
	KeyMaxAmount = "max_amount"
	KeyProduct   = "product"
)

// DateLayout is the format of start_date and end_date.
const DateLayout = "2006-01-02"

// FilterKeys lists every key ParseFilter understands.
var FilterKeys = []string{KeyStartDate, KeyEndDate, KeyStatus, KeyUserID, KeyCustomer, KeyMinAmount, KeyMaxAmount, KeyProduct}

// Filter is a validated set of report constraints. Nil fields do not filter.
type Filter struct {
	StartDate *time.Time
	EndDate   *time.Time // inclusive, whole day
	Status    *Status
	UserID    *int64
	Customer  string
	MinAmount *decimal.Decimal
	MaxAmount *decimal.Decimal
	Product   string
}

// ValidationError carries per-field messages for a rejected filter set.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.Fields[k], " "))
	}
	return "invalid filters: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, msg string) {
	if e.Fields == nil {
		e.Fields = map[string][]string{}
	}
	e.Fields[field] = append(e.Fields[field], msg)
}

// ParseFilter validates query values into a Filter. Unknown keys are ignored.
// On failure it returns a *ValidationError listing every bad field.
func ParseFilter(values url.Values) (Filter, error) {
	var (
		f    Filter
		verr ValidationError
	)

	if v := strings.TrimSpace(values.Get(KeyStartDate)); v != "" {
		if d, err := time.ParseInLocation(DateLayout, v, time.UTC); err != nil {
			verr.add(KeyStartDate, "Introduzca una fecha válida (YYYY-MM-DD).")
		} else {
			f.StartDate = &d
		}
	}

	if v := strings.TrimSpace(values.Get(KeyEndDate)); v != "" {
		if d, err := time.ParseInLocation(DateLayout, v, time.UTC); err != nil {
			verr.add(KeyEndDate, "Introduzca una fecha válida (YYYY-MM-DD).")
		} else {
			f.EndDate = &d
		}
	}

	if f.StartDate != nil && f.EndDate != nil && f.EndDate.Before(*f.StartDate) {
		verr.add(KeyEndDate, "La fecha final no puede ser anterior a la fecha inicial.")
	}

	if v := strings.TrimSpace(values.Get(KeyStatus)); v != "" {
		st := Status(strings.ToUpper(v))
		if !st.Valid() {
			verr.add(KeyStatus, "Escoja una opción válida. "+v+" no es una de las opciones disponibles.")
		} else {
			f.Status = &st
		}
	}

	if v := strings.TrimSpace(values.Get(KeyUserID)); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			verr.add(KeyUserID, "Introduzca un número entero válido.")
		} else {
			f.UserID = &id
		}
	}

	f.Customer = strings.TrimSpace(values.Get(KeyCustomer))
	f.Product = strings.TrimSpace(values.Get(KeyProduct))

	f.MinAmount = parseAmount(values, KeyMinAmount, &verr)
	f.MaxAmount = parseAmount(values, KeyMaxAmount, &verr)
	if f.MinAmount != nil && f.MaxAmount != nil && f.MaxAmount.LessThan(*f.MinAmount) {
		verr.add(KeyMaxAmount, "El monto máximo no puede ser menor al monto mínimo.")
	}

	if len(verr.Fields) > 0 {
		return Filter{}, &verr
	}
	return f, nil
}

func parseAmount(values url.Values, key string, verr *ValidationError) *decimal.Decimal {
	v := strings.TrimSpace(values.Get(key))
	if v == "" {
		return nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil || d.IsNegative() {
		verr.add(key, "Introduzca un número válido.")
		return nil
	}
	return &d
}

// Matches applies the filter to an in-memory sale.
func (f Filter) Matches(s *Sale) bool {
	if f.StartDate != nil && s.CreatedAt.Before(*f.StartDate) {
		return false
	}
	if f.EndDate != nil && !s.CreatedAt.Before(f.EndDate.AddDate(0, 0, 1)) {
		return false
	}
	if f.Status != nil && s.Status != *f.Status {
		return false
	}
	if f.UserID != nil && (s.User == nil || s.User.ID != *f.UserID) {
		return false
	}
	if f.Customer != "" {
		if s.User == nil {
			return false
		}
		needle := strings.ToLower(f.Customer)
		if !strings.Contains(strings.ToLower(s.User.FirstName), needle) &&
			!strings.Contains(strings.ToLower(s.User.LastName), needle) &&
			!strings.Contains(strings.ToLower(s.User.Email), needle) {
			return false
		}
	}
	if f.MinAmount != nil && s.TotalAmount.LessThan(*f.MinAmount) {
		return false
	}
	if f.MaxAmount != nil && s.TotalAmount.GreaterThan(*f.MaxAmount) {
		return false
	}
	if f.Product != "" {
		needle := strings.ToLower(f.Product)
		found := false
		for _, d := range s.Details {
			if d.Product != nil && strings.Contains(strings.ToLower(d.Product.Name), needle) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
