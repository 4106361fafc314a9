package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/villasol-erp/villasol-erp/internal/ledger"
	"github.com/villasol-erp/villasol-erp/internal/shared"
)

// Service exposes catalog operations over the repository.
type Service struct {
	repo Repository
}

// NewService builds a Service instance.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreateVilla(ctx context.Context, in VillaInput) (*Villa, error) {
	if !in.Currency.Valid() {
		return nil, ledger.ErrInvalidCurrency
	}
	now := time.Now()
	villa := Villa{
		ID:          uuid.New(),
		Name:        in.Name,
		OwnerID:     in.OwnerID,
		OwnerName:   in.OwnerName,
		Location:    in.Location,
		Bedrooms:    in.Bedrooms,
		NightlyRate: in.NightlyRate,
		Currency:    in.Currency,
		Notes:       in.Notes,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.CreateVilla(ctx, villa); err != nil {
		return nil, err
	}
	return &villa, nil
}

func (s *Service) GetVilla(ctx context.Context, id uuid.UUID) (*Villa, error) {
	return s.repo.GetVilla(ctx, id)
}

func (s *Service) ListVillas(ctx context.Context, page, perPage int) (*VillaPage, error) {
	if page <= 0 {
		page = 1
	}
	if perPage <= 0 || perPage > 100 {
		perPage = 20
	}
	villas, total, err := s.repo.ListVillas(ctx, page, perPage)
	if err != nil {
		return nil, err
	}
	return &VillaPage{Items: villas, Pagination: shared.NewPagination(page, perPage, total)}, nil
}

func (s *Service) UpdateVilla(ctx context.Context, id uuid.UUID, in VillaInput) (*Villa, error) {
	if !in.Currency.Valid() {
		return nil, ledger.ErrInvalidCurrency
	}
	existing, err := s.repo.GetVilla(ctx, id)
	if err != nil {
		return nil, err
	}
	existing.Name = in.Name
	existing.OwnerID = in.OwnerID
	existing.OwnerName = in.OwnerName
	existing.Location = in.Location
	existing.Bedrooms = in.Bedrooms
	existing.NightlyRate = in.NightlyRate
	existing.Currency = in.Currency
	existing.Notes = in.Notes
	if err := s.repo.UpdateVilla(ctx, *existing); err != nil {
		return nil, err
	}
	return s.repo.GetVilla(ctx, id)
}

func (s *Service) DeactivateVilla(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeactivateVilla(ctx, id)
}

func (s *Service) CreateServiceItem(ctx context.Context, in ServiceItemInput) (*ServiceItem, error) {
	if !in.Currency.Valid() {
		return nil, ledger.ErrInvalidCurrency
	}
	now := time.Now()
	item := ServiceItem{
		ID:        uuid.New(),
		Name:      in.Name,
		Category:  in.Category,
		UnitPrice: in.UnitPrice,
		Currency:  in.Currency,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.CreateServiceItem(ctx, item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Service) GetServiceItem(ctx context.Context, id uuid.UUID) (*ServiceItem, error) {
	return s.repo.GetServiceItem(ctx, id)
}

func (s *Service) ListServiceItems(ctx context.Context, page, perPage int) (*ServiceItemPage, error) {
	if page <= 0 {
		page = 1
	}
	if perPage <= 0 || perPage > 100 {
		perPage = 20
	}
	items, total, err := s.repo.ListServiceItems(ctx, page, perPage)
	if err != nil {
		return nil, err
	}
	return &ServiceItemPage{Items: items, Pagination: shared.NewPagination(page, perPage, total)}, nil
}

func (s *Service) UpdateServiceItem(ctx context.Context, id uuid.UUID, in ServiceItemInput) (*ServiceItem, error) {
	if !in.Currency.Valid() {
		return nil, ledger.ErrInvalidCurrency
	}
	existing, err := s.repo.GetServiceItem(ctx, id)
	if err != nil {
		return nil, err
	}
	existing.Name = in.Name
	existing.Category = in.Category
	existing.UnitPrice = in.UnitPrice
	existing.Currency = in.Currency
	if err := s.repo.UpdateServiceItem(ctx, *existing); err != nil {
		return nil, err
	}
	return s.repo.GetServiceItem(ctx, id)
}

func (s *Service) DeactivateServiceItem(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeactivateServiceItem(ctx, id)
}
