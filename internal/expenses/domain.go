// Package expenses manages operating expenses. Like reservations, every
// expense owns a billable entity; abonos pay the supplier down over time.
package expenses

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/villasol-erp/villasol-erp/internal/billing"
	"github.com/villasol-erp/villasol-erp/internal/ledger"
	"github.com/villasol-erp/villasol-erp/internal/shared"
)

// Expense is a cost incurred against a villa owner's account. EntityID
// links it to its abono ledger.
type Expense struct {
	ID           uuid.UUID  `json:"id"`
	EntityID     uuid.UUID  `json:"entityId"`
	VillaID      *uuid.UUID `json:"villaId,omitempty"`
	Category     string     `json:"category"`
	SupplierName string     `json:"supplierName"`
	IncurredOn   time.Time  `json:"incurredOn"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// CreateInput carries a new expense.
type CreateInput struct {
	VillaID      *uuid.UUID
	Category     string
	SupplierName string
	Description  string
	OwnerID      uuid.UUID
	Amount       decimal.Decimal
	Currency     ledger.Currency
	IncurredOn   time.Time
	Notes        string
}

// UpdateInput patches descriptive fields only.
type UpdateInput struct {
	Category     string
	SupplierName string
}

// View is an expense joined with its payment state.
type View struct {
	Expense Expense              `json:"expense"`
	Billing *billing.EntityState `json:"billing,omitempty"`
}

// Page is one page of expenses.
type Page struct {
	Items      []Expense         `json:"items"`
	Pagination shared.Pagination `json:"pagination"`
}

// Repository defines expense data access.
type Repository interface {
	Create(ctx context.Context, exp Expense) error
	Get(ctx context.Context, id uuid.UUID) (*Expense, error)
	List(ctx context.Context, page, perPage int) ([]Expense, int, error)
	Update(ctx context.Context, exp Expense) error
}
