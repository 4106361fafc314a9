package reservations

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

// Handler manages the reservation endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers reservation routes. Cancellation soft-deletes the
// ledger entity and is admin only.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.With(auth.RequireRole(auth.RoleAdmin)).Delete("/{id}", h.cancel)
}

type createRequest struct {
	VillaID     uuid.UUID       `json:"villaId" validate:"required"`
	GuestName   string          `json:"guestName" validate:"required,max=150"`
	GuestPhone  string          `json:"guestPhone" validate:"max=30"`
	Guests      int             `json:"guests" validate:"gte=1,lte=100"`
	CheckIn     string          `json:"checkIn" validate:"required"`
	CheckOut    string          `json:"checkOut" validate:"required"`
	TotalAmount decimal.Decimal `json:"totalAmount" validate:"required"`
	Currency    string          `json:"currency" validate:"required,oneof=DOP USD"`
	Notes       string          `json:"notes" validate:"max=2000"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	checkIn, err := time.Parse(dateLayout, req.CheckIn)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "checkIn must be formatted YYYY-MM-DD")
		return
	}
	checkOut, err := time.Parse(dateLayout, req.CheckOut)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "checkOut must be formatted YYYY-MM-DD")
		return
	}

	view, err := h.service.Create(r.Context(), CreateInput{
		VillaID:     req.VillaID,
		GuestName:   req.GuestName,
		GuestPhone:  req.GuestPhone,
		Guests:      req.Guests,
		CheckIn:     checkIn,
		CheckOut:    checkOut,
		TotalAmount: req.TotalAmount,
		Currency:    ledger.Currency(req.Currency),
		Notes:       req.Notes,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidStay),
			errors.Is(err, ledger.ErrInvalidAmount),
			errors.Is(err, ledger.ErrInvalidCurrency):
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		default:
			h.logger.Error("create reservation", slog.Any("error", err))
			httpx.RespondError(w, err)
		}
		return
	}
	httpx.JSON(w, http.StatusCreated, view)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid reservation id")
		return
	}

	view, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, view)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("perPage"))

	result, err := h.service.List(r.Context(), page, perPage)
	if err != nil {
		h.logger.Error("list reservations", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}

type updateRequest struct {
	GuestName  string `json:"guestName" validate:"required,max=150"`
	GuestPhone string `json:"guestPhone" validate:"max=30"`
	Guests     int    `json:"guests" validate:"gte=1,lte=100"`
	Notes      string `json:"notes" validate:"max=2000"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid reservation id")
		return
	}

	var req updateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	view, err := h.service.Update(r.Context(), id, UpdateInput{
		GuestName:  req.GuestName,
		GuestPhone: req.GuestPhone,
		Guests:     req.Guests,
		Notes:      req.Notes,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, view)
}

func (h *Handler) cancel(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid reservation id")
		return
	}
	if err := h.service.Cancel(r.Context(), id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
