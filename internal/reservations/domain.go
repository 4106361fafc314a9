// Package reservations manages villa bookings. Every reservation owns a
// billable entity in internal/billing; abonos against the stay are
// registered there, under the reservation's entity id.
package reservations

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/villasol-erp/villasol-erp/internal/billing"
	"github.com/villasol-erp/villasol-erp/internal/catalog"
	"github.com/villasol-erp/villasol-erp/internal/ledger"
	"github.com/villasol-erp/villasol-erp/internal/shared"
)

// ErrInvalidStay is returned when check-out does not follow check-in.
var ErrInvalidStay = errors.New("reservations: check-out must be after check-in")

// Reservation is a booked stay. EntityID links it to its abono ledger;
// the agreed total and currency live on the entity and never change here.
type Reservation struct {
	ID         uuid.UUID `json:"id"`
	EntityID   uuid.UUID `json:"entityId"`
	VillaID    uuid.UUID `json:"villaId"`
	GuestName  string    `json:"guestName"`
	GuestPhone string    `json:"guestPhone,omitempty"`
	Guests     int       `json:"guests"`
	CheckIn    time.Time `json:"checkIn"`
	CheckOut   time.Time `json:"checkOut"`
	Notes      string    `json:"notes,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// CreateInput carries a new reservation. TotalAmount is the agreed price
// for the stay, not necessarily nights times the villa's nightly rate.
type CreateInput struct {
	VillaID     uuid.UUID
	GuestName   string
	GuestPhone  string
	Guests      int
	CheckIn     time.Time
	CheckOut    time.Time
	TotalAmount decimal.Decimal
	Currency    ledger.Currency
	Notes       string
}

// UpdateInput patches guest-facing fields. Ledger fields are out of reach.
type UpdateInput struct {
	GuestName  string
	GuestPhone string
	Guests     int
	Notes      string
}

// View is a reservation joined with its payment state.
type View struct {
	Reservation Reservation          `json:"reservation"`
	Billing     *billing.EntityState `json:"billing,omitempty"`
}

// Page is one page of reservations.
type Page struct {
	Items      []Reservation     `json:"items"`
	Pagination shared.Pagination `json:"pagination"`
}

// Repository defines reservation data access.
type Repository interface {
	Create(ctx context.Context, res Reservation) error
	Get(ctx context.Context, id uuid.UUID) (*Reservation, error)
	GetByEntity(ctx context.Context, entityID uuid.UUID) (*Reservation, error)
	List(ctx context.Context, page, perPage int) ([]Reservation, int, error)
	Update(ctx context.Context, res Reservation) error
}

// VillaSource resolves villas from the catalog.
type VillaSource interface {
	GetVilla(ctx context.Context, id uuid.UUID) (*catalog.Villa, error)
}
