package ledger

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func summary(owner uuid.UUID, balance string, refDate time.Time, deleted bool) Summary {
	due := decimal.RequireFromString(balance)
	status := StatusPending
	switch due.Sign() {
	case 0:
		status = StatusPaid
	case -1:
		status = StatusOverpaid
	}
	return Summary{
		ID:            uuid.New(),
		Kind:          KindReservation,
		OwnerID:       owner,
		Currency:      CurrencyDOP,
		BalanceDue:    due,
		Status:        status,
		ReferenceDate: refDate,
		Deleted:       deleted,
	}
}

func TestHalfMonthBucket(t *testing.T) {
	require.Equal(t, 1, HalfMonthBucket(time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)))
	require.Equal(t, 2, HalfMonthBucket(time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)))
	require.Equal(t, 1, HalfMonthBucket(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)))
	require.Equal(t, 2, HalfMonthBucket(time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)))
}

func TestMonthBucket(t *testing.T) {
	require.Equal(t, "2025-03", MonthBucket(time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)))
}

func TestApplyDefaultsToPending(t *testing.T) {
	refDate := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	items := []Summary{
		summary(uuid.New(), "500", refDate, false),
		summary(uuid.New(), "0", refDate, false),
		summary(uuid.New(), "-50", refDate, false),
	}

	got := Apply(items, Filter{})
	require.Len(t, got, 1)
	require.Equal(t, StatusPending, got[0].Status)
}

func TestApplyPaidIncludesOverpaid(t *testing.T) {
	refDate := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	items := []Summary{
		summary(uuid.New(), "500", refDate, false),
		summary(uuid.New(), "0", refDate, false),
		summary(uuid.New(), "-50", refDate, false),
	}

	got := Apply(items, Filter{Status: FilterPaid})
	require.Len(t, got, 2)
}

func TestApplyOwnerFilter(t *testing.T) {
	refDate := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	owner := uuid.New()
	items := []Summary{
		summary(owner, "100", refDate, false),
		summary(uuid.New(), "100", refDate, false),
	}

	got := Apply(items, Filter{OwnerID: owner})
	require.Len(t, got, 1)
	require.Equal(t, owner, got[0].OwnerID)
}

func TestApplyHalfMonthUsesReferenceDate(t *testing.T) {
	firstHalf := summary(uuid.New(), "100", time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC), false)
	secondHalf := summary(uuid.New(), "100", time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC), false)
	items := []Summary{firstHalf, secondHalf}

	got := Apply(items, Filter{HalfMonth: 1})
	require.Len(t, got, 1)
	require.Equal(t, firstHalf.ID, got[0].ID)

	got = Apply(items, Filter{HalfMonth: 2})
	require.Len(t, got, 1)
	require.Equal(t, secondHalf.ID, got[0].ID)
}

func TestApplyMonthFilter(t *testing.T) {
	march := summary(uuid.New(), "100", time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC), false)
	april := summary(uuid.New(), "100", time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC), false)

	got := Apply([]Summary{march, april}, Filter{Month: "2025-03"})
	require.Len(t, got, 1)
	require.Equal(t, march.ID, got[0].ID)
}

func TestApplyExcludesDeletedUnlessRequested(t *testing.T) {
	refDate := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	live := summary(uuid.New(), "100", refDate, false)
	deleted := summary(uuid.New(), "100", refDate, true)
	items := []Summary{live, deleted}

	got := Apply(items, Filter{})
	require.Len(t, got, 1)
	require.Equal(t, live.ID, got[0].ID)

	got = Apply(items, Filter{Deleted: true})
	require.Len(t, got, 1)
	require.Equal(t, deleted.ID, got[0].ID)
}
