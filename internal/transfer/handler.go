package transfer

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/villasol-erp/villasol-erp/internal/auth"
	"github.com/villasol-erp/villasol-erp/internal/ledger"
	"github.com/villasol-erp/villasol-erp/internal/platform/httpx"
)

// Handler exposes export and backup endpoints. Both are admin only.
type Handler struct {
	logger    *slog.Logger
	summaries SummarySource
	entities  EntitySource
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, summaries SummarySource, entities EntitySource) *Handler {
	return &Handler{logger: logger, summaries: summaries, entities: entities}
}

// MountRoutes registers transfer routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Use(auth.RequireRole(auth.RoleAdmin))
	r.Get("/export.csv", h.exportCSV)
	r.Get("/backup.json", h.backup)
	r.Post("/backup/validate", h.validateBackup)
}

func (h *Handler) exportCSV(w http.ResponseWriter, r *http.Request) {
	// Exports default to the full book, not just pending entities.
	filter := ledger.Filter{Status: ledger.FilterAll}
	if month := r.URL.Query().Get("month"); month != "" {
		if _, err := time.Parse("2006-01", month); err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "month must be formatted YYYY-MM")
			return
		}
		filter.Month = month
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="abonos.csv"`)
	if err := WriteCSV(r.Context(), w, h.summaries, filter); err != nil {
		h.logger.Error("csv export", slog.Any("error", err))
	}
}

// validateBackup checks a snapshot file before it is restored by hand.
func (h *Handler) validateBackup(w http.ResponseWriter, r *http.Request) {
	snapshot, err := ReadSnapshot(r.Body)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Snapshot", err.Error())
		return
	}

	entries := 0
	for _, entity := range snapshot.Entities {
		entries += len(entity.Entries)
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"takenAt":  snapshot.TakenAt,
		"entities": len(snapshot.Entities),
		"entries":  entries,
	})
}

func (h *Handler) backup(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="ledger-backup.json"`)
	if _, err := WriteSnapshot(r.Context(), w, h.entities); err != nil {
		h.logger.Error("backup snapshot", slog.Any("error", err))
	}
}
