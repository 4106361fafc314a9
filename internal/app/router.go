package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/villasol-erp/villasol-erp/internal/auth"
	"github.com/villasol-erp/villasol-erp/internal/billing"
	"github.com/villasol-erp/villasol-erp/internal/catalog"
	"github.com/villasol-erp/villasol-erp/internal/commissions"
	"github.com/villasol-erp/villasol-erp/internal/expenses"
	"github.com/villasol-erp/villasol-erp/internal/quotations"
	"github.com/villasol-erp/villasol-erp/internal/reservations"
	"github.com/villasol-erp/villasol-erp/internal/transfer"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger              *slog.Logger
	Config              *Config
	AuthHandler         *auth.Handler
	BillingHandler      *billing.Handler
	ReservationsHandler *reservations.Handler
	ExpensesHandler     *expenses.Handler
	CatalogHandler      *catalog.Handler
	QuotationsHandler   *quotations.Handler
	CommissionsHandler  *commissions.Handler
	TransferHandler     *transfer.Handler
}

// NewRouter constructs the chi.Router with Villasol defaults. Everything
// under /api except login requires a bearer token.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger: params.Logger,
		Config: params.Config,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			params.AuthHandler.MountRoutes(r)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireBearer(params.Config.JWTSecret))

			r.Route("/entities", func(r chi.Router) {
				params.BillingHandler.MountRoutes(r)
			})
			r.Route("/reservations", func(r chi.Router) {
				params.ReservationsHandler.MountRoutes(r)
			})
			r.Route("/expenses", func(r chi.Router) {
				params.ExpensesHandler.MountRoutes(r)
			})
			r.Route("/catalog", func(r chi.Router) {
				params.CatalogHandler.MountRoutes(r)
			})
			r.Route("/quotations", func(r chi.Router) {
				params.QuotationsHandler.MountRoutes(r)
			})
			r.Route("/commissions", func(r chi.Router) {
				params.CommissionsHandler.MountRoutes(r)
			})
			r.Route("/transfer", func(r chi.Router) {
				params.TransferHandler.MountRoutes(r)
			})
		})
	})

	return r
}
