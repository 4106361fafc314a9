package commissions

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/villasol-erp/villasol-erp/internal/ledger"
)

type stubSource struct {
	summaries []ledger.Summary
	calls     int
}

func (s *stubSource) List(_ context.Context, _ ledger.Filter) ([]ledger.Summary, error) {
	s.calls++
	return s.summaries, nil
}

func paidSummary(owner uuid.UUID, currency ledger.Currency, paid string) ledger.Summary {
	amount := decimal.RequireFromString(paid)
	return ledger.Summary{
		ID:             uuid.New(),
		Kind:           ledger.KindReservation,
		OwnerID:        owner,
		Currency:       currency,
		OriginalAmount: amount,
		TotalPaid:      amount,
		BalanceDue:     decimal.Zero,
		Status:         ledger.StatusPaid,
		ReferenceDate:  time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
	}
}

func newTestService(t *testing.T, source *stubSource) *Service {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewService(source, rdb, decimal.RequireFromString("0.20"))
}

func TestReportSplitsGrossByRate(t *testing.T) {
	owner := uuid.New()
	source := &stubSource{summaries: []ledger.Summary{
		paidSummary(owner, ledger.CurrencyDOP, "30000"),
		paidSummary(owner, ledger.CurrencyDOP, "20000"),
	}}
	svc := newTestService(t, source)

	report, err := svc.Report(context.Background(), "2026-03", 1)
	require.NoError(t, err)
	require.Len(t, report.Settlements, 1)

	settlement := report.Settlements[0]
	require.Equal(t, owner, settlement.OwnerID)
	require.Equal(t, 2, settlement.Entities)
	require.True(t, settlement.GrossPaid.Equal(decimal.RequireFromString("50000")))
	require.True(t, settlement.Commission.Equal(decimal.RequireFromString("10000")))
	require.True(t, settlement.OwnerPayout.Equal(decimal.RequireFromString("40000")))
}

func TestReportSeparatesCurrencies(t *testing.T) {
	owner := uuid.New()
	source := &stubSource{summaries: []ledger.Summary{
		paidSummary(owner, ledger.CurrencyDOP, "10000"),
		paidSummary(owner, ledger.CurrencyUSD, "500"),
	}}
	svc := newTestService(t, source)

	report, err := svc.Report(context.Background(), "2026-03", 1)
	require.NoError(t, err)
	require.Len(t, report.Settlements, 2)
}

func TestReportIgnoresExpenses(t *testing.T) {
	expense := paidSummary(uuid.New(), ledger.CurrencyDOP, "5000")
	expense.Kind = ledger.KindExpense
	source := &stubSource{summaries: []ledger.Summary{expense}}
	svc := newTestService(t, source)

	report, err := svc.Report(context.Background(), "2026-03", 2)
	require.NoError(t, err)
	require.Empty(t, report.Settlements)
}

func TestReportUsesCache(t *testing.T) {
	source := &stubSource{summaries: []ledger.Summary{
		paidSummary(uuid.New(), ledger.CurrencyDOP, "10000"),
	}}
	svc := newTestService(t, source)
	ctx := context.Background()

	first, err := svc.Report(ctx, "2026-03", 1)
	require.NoError(t, err)

	second, err := svc.Report(ctx, "2026-03", 1)
	require.NoError(t, err)
	require.Equal(t, 1, source.calls)
	require.Equal(t, first.Settlements, second.Settlements)
}

type cancellingSource struct {
	stubSource
	cancel context.CancelFunc
}

func (s *cancellingSource) List(ctx context.Context, filter ledger.Filter) ([]ledger.Summary, error) {
	s.cancel()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.stubSource.List(ctx, filter)
}

func TestReportSurvivesCallerCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	source := &cancellingSource{
		stubSource: stubSource{summaries: []ledger.Summary{
			paidSummary(uuid.New(), ledger.CurrencyDOP, "10000"),
		}},
		cancel: cancel,
	}
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	svc := NewService(source, rdb, decimal.RequireFromString("0.20"))

	report, err := svc.Report(ctx, "2026-03", 1)
	require.NoError(t, err)
	require.Len(t, report.Settlements, 1)

	// The fill completed and cached despite the caller going away.
	cached, err := svc.Report(context.Background(), "2026-03", 1)
	require.NoError(t, err)
	require.Equal(t, 1, source.calls)
	require.Equal(t, report.Settlements, cached.Settlements)
}

func TestReportValidatesPeriod(t *testing.T) {
	svc := newTestService(t, &stubSource{})

	_, err := svc.Report(context.Background(), "March", 1)
	require.ErrorIs(t, err, ledger.ErrInvalidDate)

	_, err = svc.Report(context.Background(), "2026-03", 3)
	require.ErrorIs(t, err, ledger.ErrInvalidDate)
}
