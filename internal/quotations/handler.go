package quotations

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/villasol-erp/villasol-erp/internal/ledger"
	"github.com/villasol-erp/villasol-erp/internal/platform/httpx"
	"github.com/villasol-erp/villasol-erp/internal/reservations"
)

const dateLayout = "2006-01-02"

// Handler manages the quotation endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers quotation routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Post("/{id}/send", h.send)
	r.Post("/{id}/accept", h.accept)
	r.Post("/{id}/reject", h.reject)
	r.Post("/{id}/convert", h.convert)
}

type lineRequest struct {
	Description string          `json:"description" validate:"required,max=300"`
	Quantity    decimal.Decimal `json:"quantity" validate:"required"`
	UnitPrice   decimal.Decimal `json:"unitPrice" validate:"required"`
}

type createRequest struct {
	VillaID    uuid.UUID     `json:"villaId" validate:"required"`
	GuestName  string        `json:"guestName" validate:"required,max=150"`
	GuestPhone string        `json:"guestPhone" validate:"max=30"`
	Guests     int           `json:"guests" validate:"gte=1,lte=100"`
	CheckIn    string        `json:"checkIn" validate:"required"`
	CheckOut   string        `json:"checkOut" validate:"required"`
	ValidUntil string        `json:"validUntil" validate:"required"`
	Currency   string        `json:"currency" validate:"required,oneof=DOP USD"`
	Notes      string        `json:"notes" validate:"max=2000"`
	Lines      []lineRequest `json:"lines" validate:"required,min=1,dive"`
}

func lineInputs(reqs []lineRequest) []LineInput {
	lines := make([]LineInput, 0, len(reqs))
	for _, req := range reqs {
		lines = append(lines, LineInput{
			Description: req.Description,
			Quantity:    req.Quantity,
			UnitPrice:   req.UnitPrice,
		})
	}
	return lines
}

func parseDate(field, value string) (time.Time, error) {
	d, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, errors.New(field + " must be formatted YYYY-MM-DD")
	}
	return d, nil
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

	checkIn, err := parseDate("checkIn", req.CheckIn)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	checkOut, err := parseDate("checkOut", req.CheckOut)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	validUntil, err := parseDate("validUntil", req.ValidUntil)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	quote, err := h.service.Create(r.Context(), CreateInput{
		VillaID:    req.VillaID,
		GuestName:  req.GuestName,
		GuestPhone: req.GuestPhone,
		Guests:     req.Guests,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		ValidUntil: validUntil,
		Currency:   ledger.Currency(req.Currency),
		Notes:      req.Notes,
		Lines:      lineInputs(req.Lines),
	})
	if err != nil {
		h.respondServiceError(w, "create quotation", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, quote)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid quotation id")
		return
	}
	quote, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, quote)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("perPage"))

	result, err := h.service.List(r.Context(), page, perPage)
	if err != nil {
		h.logger.Error("list quotations", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}

type updateRequest struct {
	GuestName  string        `json:"guestName" validate:"required,max=150"`
	GuestPhone string        `json:"guestPhone" validate:"max=30"`
	Guests     int           `json:"guests" validate:"gte=1,lte=100"`
	ValidUntil string        `json:"validUntil" validate:"required"`
	Notes      string        `json:"notes" validate:"max=2000"`
	Lines      []lineRequest `json:"lines" validate:"required,min=1,dive"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid quotation id")
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

	validUntil, err := parseDate("validUntil", req.ValidUntil)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	quote, err := h.service.Update(r.Context(), id, UpdateInput{
		GuestName:  req.GuestName,
		GuestPhone: req.GuestPhone,
		Guests:     req.Guests,
		ValidUntil: validUntil,
		Notes:      req.Notes,
		Lines:      lineInputs(req.Lines),
	})
	if err != nil {
		h.respondServiceError(w, "update quotation", err)
		return
	}
	httpx.JSON(w, http.StatusOK, quote)
}

func (h *Handler) send(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.Send)
}

func (h *Handler) accept(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.Accept)
}

func (h *Handler) reject(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.Reject)
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, id uuid.UUID) (*Quotation, error)) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid quotation id")
		return
	}
	quote, err := op(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, "transition quotation", err)
		return
	}
	httpx.JSON(w, http.StatusOK, quote)
}

func (h *Handler) convert(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid quotation id")
		return
	}
	view, err := h.service.Convert(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, "convert quotation", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, view)
}

func (h *Handler) respondServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrInvalidStatus), errors.Is(err, ErrNotAccepted), errors.Is(err, ErrConverted):
		httpx.Problem(w, http.StatusConflict, "Conflict", err.Error())
	case errors.Is(err, reservations.ErrInvalidStay),
		errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, ledger.ErrInvalidCurrency),
		errors.Is(err, ledger.ErrInvalidDate):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	default:
		h.logger.Error(op, slog.Any("error", err))
		httpx.RespondError(w, err)
	}
}
