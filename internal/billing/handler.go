package billing

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/villasol-erp/villasol-erp/internal/auth"
	"github.com/villasol-erp/villasol-erp/internal/ledger"
	"github.com/villasol-erp/villasol-erp/internal/platform/httpx"
)

const dateLayout = "2006-01-02"

// Handler manages the billable-entity endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers the entity and entry routes. Destructive routes
// require the admin role.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.updateInfo)
	r.Get("/{id}/entries", h.listEntries)
	r.Post("/{id}/entries", h.registerEntry)
	r.With(auth.RequireRole(auth.RoleAdmin)).Delete("/{id}", h.softDelete)
	r.With(auth.RequireRole(auth.RoleAdmin)).Delete("/{id}/entries/{entryID}", h.removeEntry)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter, err := filterFromQuery(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}

	summaries, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("list entities", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": summaries})
}

func filterFromQuery(r *http.Request) (ledger.Filter, error) {
	q := r.URL.Query()
	var filter ledger.Filter

	switch status := q.Get("status"); status {
	case "", ledger.FilterPending, ledger.FilterPaid, ledger.FilterAll:
		filter.Status = status
	default:
		return filter, errors.New("status must be pending, paid or all")
	}

	if owner := q.Get("owner"); owner != "" {
		id, err := uuid.Parse(owner)
		if err != nil {
			return filter, errors.New("owner must be a UUID")
		}
		filter.OwnerID = id
	}

	if half := q.Get("halfMonth"); half != "" {
		n, err := strconv.Atoi(half)
		if err != nil || (n != 1 && n != 2) {
			return filter, errors.New("halfMonth must be 1 or 2")
		}
		filter.HalfMonth = n
	}

	if month := q.Get("month"); month != "" {
		if _, err := time.Parse("2006-01", month); err != nil {
			return filter, errors.New("month must be formatted YYYY-MM")
		}
		filter.Month = month
	}

	if deleted := q.Get("deleted"); deleted != "" {
		b, err := strconv.ParseBool(deleted)
		if err != nil {
			return filter, errors.New("deleted must be a boolean")
		}
		filter.Deleted = b
	}
	return filter, nil
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid entity id")
		return
	}

	state, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, state)
}

type updateInfoRequest struct {
	Description string `json:"description" validate:"required,max=300"`
	Notes       string `json:"notes" validate:"max=2000"`
}

func (h *Handler) updateInfo(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid entity id")
		return
	}

	var req updateInfoRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	if err := h.service.UpdateInfo(r.Context(), id, req.Description, req.Notes); err != nil {
		httpx.RespondError(w, err)
		return
	}

	state, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, state)
}

func (h *Handler) softDelete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid entity id")
		return
	}

	if err := h.service.SoftDelete(r.Context(), id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listEntries(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid entity id")
		return
	}

	entries, err := h.service.ListEntries(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": entries})
}

type registerEntryRequest struct {
	Amount             decimal.Decimal `json:"amount" validate:"required"`
	Currency           string          `json:"currency" validate:"required,oneof=DOP USD"`
	Method             string          `json:"paymentMethod" validate:"required,oneof=cash deposit transfer mixed"`
	PaymentDate        string          `json:"paymentDate" validate:"required"`
	ReferenceNumber    string          `json:"referenceNumber" validate:"max=50"`
	Notes              string          `json:"notes" validate:"max=2000"`
	ConfirmOverpayment bool            `json:"confirmOverpayment"`
}

func (h *Handler) registerEntry(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid entity id")
		return
	}

	var req registerEntryRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	paymentDate, err := time.Parse(dateLayout, req.PaymentDate)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "paymentDate must be formatted YYYY-MM-DD")
		return
	}

	result, err := h.service.RegisterEntry(r.Context(), id, RegisterEntryInput{
		Amount:             req.Amount,
		Currency:           ledger.Currency(req.Currency),
		Method:             ledger.PaymentMethod(req.Method),
		PaymentDate:        paymentDate,
		ReferenceNumber:    req.ReferenceNumber,
		Notes:              req.Notes,
		ConfirmOverpayment: req.ConfirmOverpayment,
	})
	if err != nil {
		var overpay *OverpaymentError
		switch {
		case errors.As(err, &overpay):
			httpx.Problem(w, http.StatusConflict, "Overpayment Requires Confirmation", overpay.Error())
		case isLedgerValidation(err):
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		default:
			h.logger.Error("register entry", slog.Any("error", err))
			httpx.RespondError(w, err)
		}
		return
	}
	httpx.JSON(w, http.StatusCreated, result)
}

func (h *Handler) removeEntry(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid entity id")
		return
	}
	entryID, err := uuid.Parse(chi.URLParam(r, "entryID"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid entry id")
		return
	}

	derived, err := h.service.RemoveEntry(r.Context(), id, entryID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, derived)
}

func isLedgerValidation(err error) bool {
	return errors.Is(err, ledger.ErrInvalidAmount) ||
		errors.Is(err, ledger.ErrInvalidCurrency) ||
		errors.Is(err, ledger.ErrInvalidMethod) ||
		errors.Is(err, ledger.ErrInvalidDate)
}
