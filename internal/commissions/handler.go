package commissions

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/villasol-erp/villasol-erp/internal/ledger"
	"github.com/villasol-erp/villasol-erp/internal/platform/httpx"
)

// Handler exposes the settlement report.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers commission routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/report", h.report)
}

func (h *Handler) report(w http.ResponseWriter, r *http.Request) {
	month := r.URL.Query().Get("month")
	halfMonth, _ := strconv.Atoi(r.URL.Query().Get("halfMonth"))

	report, err := h.service.Report(r.Context(), month, halfMonth)
	if err != nil {
		if errors.Is(err, ledger.ErrInvalidDate) {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
			return
		}
		h.logger.Error("commission report", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}
