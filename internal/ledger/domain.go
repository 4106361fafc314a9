// Package ledger implements the partial-payment ("abono") ledger for
// billable entities. It is pure computation: persistence and transport
// live in internal/billing.
package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func init() {
	// Money travels as a JSON number, never a string.
	decimal.MarshalJSONWithoutQuotes = true
}

// Currency enumerates the currencies the business operates in.
type Currency string

const (
	CurrencyDOP Currency = "DOP"
	CurrencyUSD Currency = "USD"
)

// Valid reports whether c is a recognised currency code.
func (c Currency) Valid() bool {
	switch c {
	case CurrencyDOP, CurrencyUSD:
		return true
	}
	return false
}

// PaymentMethod enumerates how an abono was settled.
type PaymentMethod string

const (
	MethodCash     PaymentMethod = "cash"
	MethodDeposit  PaymentMethod = "deposit"
	MethodTransfer PaymentMethod = "transfer"
	MethodMixed    PaymentMethod = "mixed"
)

// Valid reports whether m is a recognised payment method.
func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodCash, MethodDeposit, MethodTransfer, MethodMixed:
		return true
	}
	return false
}

// Status is the derived payment state of an entity.
type Status string

const (
	StatusPending  Status = "pending"
	StatusPaid     Status = "paid"
	StatusOverpaid Status = "overpaid"
)

// Kind distinguishes the two billable entity flavours.
type Kind string

const (
	KindReservation Kind = "reservation"
	KindExpense     Kind = "expense"
)

// Entry is one signed payment or correction registered against an entity.
// Positive amounts pay the balance down, negative amounts reverse a prior
// payment. Entries are never edited in place; a correction is a new entry
// with the negated amount.
type Entry struct {
	ID              uuid.UUID       `json:"id"`
	EntityID        uuid.UUID       `json:"entityId"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        Currency        `json:"currency"`
	Method          PaymentMethod   `json:"paymentMethod"`
	PaymentDate     time.Time       `json:"paymentDate"`
	ReferenceNumber string          `json:"referenceNumber"`
	Notes           string          `json:"notes,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// Entity is a reservation or expense carrying an amount to be paid down.
// OriginalAmount and Currency are fixed at creation. Entries keep
// registration order, which is not necessarily payment-date order.
type Entity struct {
	ID             uuid.UUID       `json:"id"`
	Kind           Kind            `json:"kind"`
	Description    string          `json:"description"`
	OwnerID        uuid.UUID       `json:"ownerId"`
	OriginalAmount decimal.Decimal `json:"originalAmount"`
	Currency       Currency        `json:"currency"`
	ReferenceDate  time.Time       `json:"referenceDate"`
	Notes          string          `json:"notes,omitempty"`
	Entries        []Entry         `json:"entries,omitempty"`
	DeletedAt      *time.Time      `json:"deletedAt,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// Deleted reports whether the entity has been soft deleted.
func (e *Entity) Deleted() bool {
	return e.DeletedAt != nil
}

// Derived is the computed payment state of an entity.
type Derived struct {
	TotalPaid  decimal.Decimal `json:"totalPaid"`
	BalanceDue decimal.Decimal `json:"balanceDue"`
	Status     Status          `json:"status"`
}
