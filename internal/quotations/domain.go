// Package quotations manages stay quotes. A quote moves draft -> sent ->
// accepted or rejected; accepting it can convert it into a reservation
// with the quoted total as the agreed price.
package quotations

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/villasol-erp/villasol-erp/internal/ledger"
	"github.com/villasol-erp/villasol-erp/internal/shared"
)

// Quote lifecycle statuses.
const (
	StatusDraft    = "draft"
	StatusSent     = "sent"
	StatusAccepted = "accepted"
	StatusRejected = "rejected"
)

// Errors returned by status-guarded operations.
var (
	ErrInvalidStatus = errors.New("quotations: invalid status transition")
	ErrNotAccepted   = errors.New("quotations: only accepted quotations convert to reservations")
	ErrConverted     = errors.New("quotations: already converted")
)

// Line is one priced component of a quote.
type Line struct {
	ID          uuid.UUID       `json:"id"`
	QuotationID uuid.UUID       `json:"quotationId"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	LineTotal   decimal.Decimal `json:"lineTotal"`
	Order       int             `json:"order"`
}

// Quotation is a priced offer for a stay.
type Quotation struct {
	ID            uuid.UUID       `json:"id"`
	DocNumber     string          `json:"docNumber"`
	VillaID       uuid.UUID       `json:"villaId"`
	GuestName     string          `json:"guestName"`
	GuestPhone    string          `json:"guestPhone,omitempty"`
	Guests        int             `json:"guests"`
	CheckIn       time.Time       `json:"checkIn"`
	CheckOut      time.Time       `json:"checkOut"`
	ValidUntil    time.Time       `json:"validUntil"`
	Status        string          `json:"status"`
	Currency      ledger.Currency `json:"currency"`
	Total         decimal.Decimal `json:"total"`
	Notes         string          `json:"notes,omitempty"`
	ReservationID *uuid.UUID      `json:"reservationId,omitempty"`
	Lines         []Line          `json:"lines,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// LineInput carries one quote line.
type LineInput struct {
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
}

// CreateInput carries a new draft quotation.
type CreateInput struct {
	VillaID    uuid.UUID
	GuestName  string
	GuestPhone string
	Guests     int
	CheckIn    time.Time
	CheckOut   time.Time
	ValidUntil time.Time
	Currency   ledger.Currency
	Notes      string
	Lines      []LineInput
}

// UpdateInput replaces the mutable parts of a draft.
type UpdateInput struct {
	GuestName  string
	GuestPhone string
	Guests     int
	ValidUntil time.Time
	Notes      string
	Lines      []LineInput
}

// Page is one page of quotations.
type Page struct {
	Items      []Quotation       `json:"items"`
	Pagination shared.Pagination `json:"pagination"`
}

// Repository defines quotation data access.
type Repository interface {
	Create(ctx context.Context, q Quotation) error
	Get(ctx context.Context, id uuid.UUID) (*Quotation, error)
	List(ctx context.Context, page, perPage int) ([]Quotation, int, error)
	ReplaceDraft(ctx context.Context, q Quotation) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	MarkConverted(ctx context.Context, id, reservationID uuid.UUID) error
}

// NumberSource assigns document numbers to new quotations.
type NumberSource interface {
	Next(ctx context.Context, series string) (string, error)
}
