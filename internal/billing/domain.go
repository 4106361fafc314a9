// Package billing persists billable entities with their abono ledgers and
// exposes the REST surface over them. Reservations and expenses create
// their entities through this package; the arithmetic itself lives in
// internal/ledger.
package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/villasol-erp/villasol-erp/internal/ledger"
)

// CreateEntityInput carries the immutable fields of a new billable entity.
type CreateEntityInput struct {
	Kind           ledger.Kind
	Description    string
	OwnerID        uuid.UUID
	OriginalAmount decimal.Decimal
	Currency       ledger.Currency
	ReferenceDate  time.Time
	Notes          string
}

// RegisterEntryInput carries a new abono to be registered.
type RegisterEntryInput struct {
	Amount             decimal.Decimal
	Currency           ledger.Currency
	Method             ledger.PaymentMethod
	PaymentDate        time.Time
	ReferenceNumber    string
	Notes              string
	ConfirmOverpayment bool
}

// EntityState is an entity together with its derived payment state.
type EntityState struct {
	Entity  ledger.Entity  `json:"entity"`
	Derived ledger.Derived `json:"derived"`
}

// EntryResult is the outcome of registering an abono.
type EntryResult struct {
	Entry    ledger.Entry    `json:"entry"`
	Derived  ledger.Derived  `json:"derived"`
	Advisory ledger.Advisory `json:"overpayment"`
}

// OverpaymentError is returned when a registration would push the balance
// negative and the caller has not confirmed the overpayment. The operation
// succeeds once re-submitted with confirmation.
type OverpaymentError struct {
	Amount decimal.Decimal
}

func (e *OverpaymentError) Error() string {
	return fmt.Sprintf("billing: payment exceeds balance due by %s, confirmation required", e.Amount)
}

// Repository defines data access for billable entities and their entries.
// Mutate serializes mutations per entity: it runs fn inside a transaction
// holding a row lock on the entity, so derived totals are never computed
// from a torn read of the entry set.
type Repository interface {
	CreateEntity(ctx context.Context, entity ledger.Entity) error
	GetEntity(ctx context.Context, id uuid.UUID) (*ledger.Entity, error)
	ListEntities(ctx context.Context) ([]ledger.Entity, error)
	UpdateEntityInfo(ctx context.Context, id uuid.UUID, description, notes string) error
	SoftDeleteEntity(ctx context.Context, id uuid.UUID) error
	InsertEntry(ctx context.Context, entry ledger.Entry) error
	DeleteEntry(ctx context.Context, entityID, entryID uuid.UUID) error
	Mutate(ctx context.Context, entityID uuid.UUID, fn func(ctx context.Context, repo Repository) error) error
}

// NumberSource assigns reference numbers when the caller omits one.
type NumberSource interface {
	Next(ctx context.Context, series string) (string, error)
}
