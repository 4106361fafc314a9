// Package transfer moves ledger data out of the system: CSV exports for
// spreadsheets and JSON snapshots for backups.
package transfer

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/villasol-erp/villasol-erp/internal/ledger"
)

// SummarySource supplies entity summaries for export.
type SummarySource interface {
	List(ctx context.Context, filter ledger.Filter) ([]ledger.Summary, error)
}

var csvHeader = []string{
	"id", "kind", "description", "owner_id", "currency",
	"original_amount", "total_paid", "balance_due", "status",
	"reference_date", "half_month", "display_balance",
}

// WriteCSV streams the filtered summaries as CSV. The display_balance
// column carries the balance formatted for es-DO spreadsheets; the
// numeric columns stay machine-readable.
func WriteCSV(ctx context.Context, w io.Writer, source SummarySource, filter ledger.Filter) error {
	summaries, err := source.List(ctx, filter)
	if err != nil {
		return fmt.Errorf("transfer: list entities: %w", err)
	}

	printer := message.NewPrinter(language.MustParse("es-DO"))
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, s := range summaries {
		record := []string{
			s.ID.String(),
			string(s.Kind),
			s.Description,
			s.OwnerID.String(),
			string(s.Currency),
			s.OriginalAmount.String(),
			s.TotalPaid.String(),
			s.BalanceDue.String(),
			string(s.Status),
			s.ReferenceDate.Format("2006-01-02"),
			strconv.Itoa(ledger.HalfMonthBucket(s.ReferenceDate)),
			displayAmount(printer, s.BalanceDue, s.Currency),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func displayAmount(p *message.Printer, amount decimal.Decimal, currency ledger.Currency) string {
	value, _ := amount.Round(2).Float64()
	return p.Sprintf("%s %.2f", string(currency), value)
}
