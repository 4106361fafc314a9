// Package catalog manages the villas and billable service items the rest
// of the system references.
package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/villasol-erp/villasol-erp/internal/ledger"
	"github.com/villasol-erp/villasol-erp/internal/shared"
)

// Villa is a rentable property. OwnerID identifies the villa owner paid
// out through commission settlements.
type Villa struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	OwnerID     uuid.UUID       `json:"ownerId"`
	OwnerName   string          `json:"ownerName"`
	Location    string          `json:"location"`
	Bedrooms    int             `json:"bedrooms"`
	NightlyRate decimal.Decimal `json:"nightlyRate"`
	Currency    ledger.Currency `json:"currency"`
	Notes       string          `json:"notes,omitempty"`
	Active      bool            `json:"active"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// ServiceItem is an extra offered alongside stays, priced per unit.
type ServiceItem struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Currency  ledger.Currency `json:"currency"`
	Active    bool            `json:"active"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// VillaInput carries create/update fields for a villa.
type VillaInput struct {
	Name        string
	OwnerID     uuid.UUID
	OwnerName   string
	Location    string
	Bedrooms    int
	NightlyRate decimal.Decimal
	Currency    ledger.Currency
	Notes       string
}

// ServiceItemInput carries create/update fields for a service item.
type ServiceItemInput struct {
	Name      string
	Category  string
	UnitPrice decimal.Decimal
	Currency  ledger.Currency
}

// VillaPage is one page of villas.
type VillaPage struct {
	Items      []Villa           `json:"items"`
	Pagination shared.Pagination `json:"pagination"`
}

// ServiceItemPage is one page of service items.
type ServiceItemPage struct {
	Items      []ServiceItem     `json:"items"`
	Pagination shared.Pagination `json:"pagination"`
}

// Repository defines catalog data access.
type Repository interface {
	CreateVilla(ctx context.Context, v Villa) error
	GetVilla(ctx context.Context, id uuid.UUID) (*Villa, error)
	ListVillas(ctx context.Context, page, perPage int) ([]Villa, int, error)
	UpdateVilla(ctx context.Context, v Villa) error
	DeactivateVilla(ctx context.Context, id uuid.UUID) error

	CreateServiceItem(ctx context.Context, item ServiceItem) error
	GetServiceItem(ctx context.Context, id uuid.UUID) (*ServiceItem, error)
	ListServiceItems(ctx context.Context, page, perPage int) ([]ServiceItem, int, error)
	UpdateServiceItem(ctx context.Context, item ServiceItem) error
	DeactivateServiceItem(ctx context.Context, id uuid.UUID) error
}
