// Package commissions settles villa owners per half-month. Settlements
// only count entities already paid in full; pending balances roll into a
// later cut once they settle.
package commissions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"

	"github.com/villasol-erp/villasol-erp/internal/ledger"
)

const cacheTTL = 10 * time.Minute

// OwnerSettlement is one owner's cut for a period, per currency.
type OwnerSettlement struct {
	OwnerID     uuid.UUID       `json:"ownerId"`
	Currency    ledger.Currency `json:"currency"`
	Entities    int             `json:"entities"`
	GrossPaid   decimal.Decimal `json:"grossPaid"`
	Commission  decimal.Decimal `json:"commission"`
	OwnerPayout decimal.Decimal `json:"ownerPayout"`
}

// Report is a half-month settlement run.
type Report struct {
	Month       string            `json:"month"`
	HalfMonth   int               `json:"halfMonth"`
	Rate        decimal.Decimal   `json:"rate"`
	Settlements []OwnerSettlement `json:"settlements"`
	GeneratedAt time.Time         `json:"generatedAt"`
}

// SummarySource supplies paid entity summaries.
type SummarySource interface {
	List(ctx context.Context, filter ledger.Filter) ([]ledger.Summary, error)
}

// Service computes settlement reports with a short Redis cache in front.
type Service struct {
	source SummarySource
	rdb    *redis.Client
	rate   decimal.Decimal
	group  singleflight.Group
}

// NewService builds a Service instance. rate is the agency's commission
// fraction, e.g. 0.20.
func NewService(source SummarySource, rdb *redis.Client, rate decimal.Decimal) *Service {
	return &Service{source: source, rdb: rdb, rate: rate}
}

// Report settles the given half-month. Concurrent calls for the same
// period share one computation; results are cached briefly because the
// dashboard polls this endpoint.
func (s *Service) Report(ctx context.Context, month string, halfMonth int) (*Report, error) {
	if _, err := time.Parse("2006-01", month); err != nil {
		return nil, fmt.Errorf("commissions: bad month %q: %w", month, ledger.ErrInvalidDate)
	}
	if halfMonth != 1 && halfMonth != 2 {
		return nil, fmt.Errorf("commissions: half-month must be 1 or 2: %w", ledger.ErrInvalidDate)
	}

	key := fmt.Sprintf("commissions:%s:%d", month, halfMonth)

	cached, err := s.rdb.Get(ctx, key).Bytes()
	if err == nil {
		var report Report
		if err := json.Unmarshal(cached, &report); err == nil {
			return &report, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("commissions: cache get: %w", err)
	}

	// The fill is shared across waiters, so it must outlive whichever
	// request happened to start it.
	fillCtx := context.WithoutCancel(ctx)
	v, err, _ := s.group.Do(key, func() (any, error) {
		report, err := s.compute(fillCtx, month, halfMonth)
		if err != nil {
			return nil, err
		}
		if payload, err := json.Marshal(report); err == nil {
			s.rdb.Set(fillCtx, key, payload, cacheTTL)
		}
		return report, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Report), nil
}

func (s *Service) compute(ctx context.Context, month string, halfMonth int) (*Report, error) {
	summaries, err := s.source.List(ctx, ledger.Filter{
		Status:    ledger.FilterPaid,
		Month:     month,
		HalfMonth: halfMonth,
	})
	if err != nil {
		return nil, fmt.Errorf("commissions: list paid entities: %w", err)
	}

	type bucket struct {
		OwnerID  uuid.UUID
		Currency ledger.Currency
	}
	grouped := make(map[bucket]*OwnerSettlement)
	for _, summary := range summaries {
		// Only reservations generate owner commissions; paid expenses
		// reduce nothing here.
		if summary.Kind != ledger.KindReservation {
			continue
		}
		key := bucket{OwnerID: summary.OwnerID, Currency: summary.Currency}
		settlement, ok := grouped[key]
		if !ok {
			settlement = &OwnerSettlement{
				OwnerID:     summary.OwnerID,
				Currency:    summary.Currency,
				GrossPaid:   decimal.Zero,
				Commission:  decimal.Zero,
				OwnerPayout: decimal.Zero,
			}
			grouped[key] = settlement
		}
		settlement.Entities++
		settlement.GrossPaid = settlement.GrossPaid.Add(summary.TotalPaid)
	}

	settlements := make([]OwnerSettlement, 0, len(grouped))
	for _, settlement := range grouped {
		settlement.Commission = settlement.GrossPaid.Mul(s.rate).Round(2)
		settlement.OwnerPayout = settlement.GrossPaid.Sub(settlement.Commission)
		settlements = append(settlements, *settlement)
	}
	sort.Slice(settlements, func(i, j int) bool {
		if settlements[i].OwnerID != settlements[j].OwnerID {
			return settlements[i].OwnerID.String() < settlements[j].OwnerID.String()
		}
		return settlements[i].Currency < settlements[j].Currency
	})

	return &Report{
		Month:       month,
		HalfMonth:   halfMonth,
		Rate:        s.rate,
		Settlements: settlements,
		GeneratedAt: time.Now(),
	}, nil
}
