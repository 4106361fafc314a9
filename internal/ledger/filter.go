package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status filter values accepted by list views.
const (
	FilterPending = "pending"
	FilterPaid    = "paid"
	FilterAll     = "all"
)

// Summary is the list-view projection of an entity used by dashboards and
// commission reports.
type Summary struct {
	ID             uuid.UUID       `json:"id"`
	Kind           Kind            `json:"kind"`
	Description    string          `json:"description"`
	OwnerID        uuid.UUID       `json:"ownerId"`
	Currency       Currency        `json:"currency"`
	OriginalAmount decimal.Decimal `json:"originalAmount"`
	TotalPaid      decimal.Decimal `json:"totalPaid"`
	BalanceDue     decimal.Decimal `json:"balanceDue"`
	Status         Status          `json:"status"`
	ReferenceDate  time.Time       `json:"referenceDate"`
	Deleted        bool            `json:"deleted"`
}

// Summarize projects an entity and its derived state into a Summary.
func Summarize(e *Entity) Summary {
	derived := ComputeDerived(e)
	return Summary{
		ID:             e.ID,
		Kind:           e.Kind,
		Description:    e.Description,
		OwnerID:        e.OwnerID,
		Currency:       e.Currency,
		OriginalAmount: e.OriginalAmount,
		TotalPaid:      derived.TotalPaid,
		BalanceDue:     derived.BalanceDue,
		Status:         derived.Status,
		ReferenceDate:  e.ReferenceDate,
		Deleted:        e.Deleted(),
	}
}

// Filter narrows a collection of summaries. The zero value is the default
// view: pending entities, every owner, no date bucket, soft-deleted
// parents excluded.
type Filter struct {
	Status    string    // pending (default), paid, all
	OwnerID   uuid.UUID // uuid.Nil matches every owner
	HalfMonth int       // 0 = all, 1 = days 1-14, 2 = day 15 to end of month
	Month     string    // empty = all, otherwise YYYY-MM
	Deleted   bool      // true switches to the deleted-only view
}

// HalfMonthBucket returns 1 for days 1-14 and 2 for day 15 through the end
// of the month.
func HalfMonthBucket(d time.Time) int {
	if d.Day() <= 14 {
		return 1
	}
	return 2
}

// MonthBucket formats the YYYY-MM calendar bucket for a reference date.
func MonthBucket(d time.Time) string {
	return d.Format("2006-01")
}

// Apply filters summaries. Date buckets are derived from the business
// reference date (reservation/expense date), never from the audit
// timestamp. Overpaid entities count as settled for the paid filter.
func Apply(items []Summary, f Filter) []Summary {
	status := f.Status
	if status == "" {
		status = FilterPending
	}

	out := make([]Summary, 0, len(items))
	for _, item := range items {
		if item.Deleted != f.Deleted {
			continue
		}
		switch status {
		case FilterAll:
		case FilterPaid:
			if item.BalanceDue.Sign() > 0 {
				continue
			}
		default:
			if item.BalanceDue.Sign() <= 0 {
				continue
			}
		}
		if f.OwnerID != uuid.Nil && item.OwnerID != f.OwnerID {
			continue
		}
		if f.HalfMonth != 0 && HalfMonthBucket(item.ReferenceDate) != f.HalfMonth {
			continue
		}
		if f.Month != "" && MonthBucket(item.ReferenceDate) != f.Month {
			continue
		}
		out = append(out, item)
	}
	return out
}
