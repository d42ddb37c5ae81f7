package sales

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Status is the lifecycle state of a sale.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Sale represents a sales transaction in the system.
// User is nil when the sale has no customer attached; Details is nil when the
// line items were not loaded.
type Sale struct {
	ID          int64           `json:"id"`
	CreatedAt   time.Time       `json:"created_at"`
	Status      Status          `json:"status"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	User        *User           `json:"user,omitempty"`
	Details     []*Detail       `json:"details,omitempty"`
}

// User is the customer who owns a sale.
type User struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// FullName joins first and last name.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Detail is one line item of a sale. Product is nil when the product row is gone.
type Detail struct {
	ID              int64           `json:"id"`
	Quantity        int             `json:"quantity"`
	PriceAtPurchase decimal.Decimal `json:"price_at_purchase"`
	Product         *Product        `json:"product,omitempty"`
}

// Product is the slice of product data a line item needs.
type Product struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
