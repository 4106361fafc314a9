package catalog

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/villasol-erp/villasol-erp/internal/ledger"
	"github.com/villasol-erp/villasol-erp/internal/platform/httpx"
)

// Handler manages the catalog endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers villa and service-item routes under the given
// router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/villas", func(r chi.Router) {
		r.Get("/", h.listVillas)
		r.Post("/", h.createVilla)
		r.Get("/{id}", h.getVilla)
		r.Put("/{id}", h.updateVilla)
		r.Delete("/{id}", h.deactivateVilla)
	})
	r.Route("/services", func(r chi.Router) {
		r.Get("/", h.listServiceItems)
		r.Post("/", h.createServiceItem)
		r.Get("/{id}", h.getServiceItem)
		r.Put("/{id}", h.updateServiceItem)
		r.Delete("/{id}", h.deactivateServiceItem)
	})
}

type villaRequest struct {
	Name        string          `json:"name" validate:"required,max=150"`
	OwnerID     uuid.UUID       `json:"ownerId" validate:"required"`
	OwnerName   string          `json:"ownerName" validate:"required,max=150"`
	Location    string          `json:"location" validate:"max=200"`
	Bedrooms    int             `json:"bedrooms" validate:"gte=0,lte=50"`
	NightlyRate decimal.Decimal `json:"nightlyRate" validate:"required"`
	Currency    string          `json:"currency" validate:"required,oneof=DOP USD"`
	Notes       string          `json:"notes" validate:"max=2000"`
}

func (req villaRequest) input() VillaInput {
	return VillaInput{
		Name:        req.Name,
		OwnerID:     req.OwnerID,
		OwnerName:   req.OwnerName,
		Location:    req.Location,
		Bedrooms:    req.Bedrooms,
		NightlyRate: req.NightlyRate,
		Currency:    ledger.Currency(req.Currency),
		Notes:       req.Notes,
	}
}

func (h *Handler) createVilla(w http.ResponseWriter, r *http.Request) {
	var req villaRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	villa, err := h.service.CreateVilla(r.Context(), req.input())
	if err != nil {
		h.logger.Error("create villa", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, villa)
}

func (h *Handler) getVilla(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid villa id")
		return
	}
	villa, err := h.service.GetVilla(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, villa)
}

func (h *Handler) listVillas(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("perPage"))

	result, err := h.service.ListVillas(r.Context(), page, perPage)
	if err != nil {
		h.logger.Error("list villas", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}

func (h *Handler) updateVilla(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid villa id")
		return
	}

	var req villaRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	villa, err := h.service.UpdateVilla(r.Context(), id, req.input())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, villa)
}

func (h *Handler) deactivateVilla(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid villa id")
		return
	}
	if err := h.service.DeactivateVilla(r.Context(), id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type serviceItemRequest struct {
	Name      string          `json:"name" validate:"required,max=150"`
	Category  string          `json:"category" validate:"required,max=100"`
	UnitPrice decimal.Decimal `json:"unitPrice" validate:"required"`
	Currency  string          `json:"currency" validate:"required,oneof=DOP USD"`
}

func (req serviceItemRequest) input() ServiceItemInput {
	return ServiceItemInput{
		Name:      req.Name,
		Category:  req.Category,
		UnitPrice: req.UnitPrice,
		Currency:  ledger.Currency(req.Currency),
	}
}

func (h *Handler) createServiceItem(w http.ResponseWriter, r *http.Request) {
	var req serviceItemRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	item, err := h.service.CreateServiceItem(r.Context(), req.input())
	if err != nil {
		h.logger.Error("create service item", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, item)
}

func (h *Handler) getServiceItem(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid service item id")
		return
	}
	item, err := h.service.GetServiceItem(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, item)
}

func (h *Handler) listServiceItems(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("perPage"))

	result, err := h.service.ListServiceItems(r.Context(), page, perPage)
	if err != nil {
		h.logger.Error("list service items", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}

func (h *Handler) updateServiceItem(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid service item id")
		return
	}

	var req serviceItemRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	item, err := h.service.UpdateServiceItem(r.Context(), id, req.input())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, item)
}

func (h *Handler) deactivateServiceItem(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid service item id")
		return
	}
	if err := h.service.DeactivateServiceItem(r.Context(), id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
