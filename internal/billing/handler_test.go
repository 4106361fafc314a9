package billing

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/villasol-erp/villasol-erp/internal/ledger"
)

func newTestRouter(t *testing.T) (*chi.Mux, *Service) {
	t.Helper()
	svc, _ := newTestService()
	handler := NewHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), svc)
	router := chi.NewRouter()
	router.Route("/entities", handler.MountRoutes)
	return router, svc
}

func postEntry(t *testing.T, router *chi.Mux, entityID, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/entities/"+entityID+"/entries", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRegisterEntryEndpointDecodesPaymentMethod(t *testing.T) {
	router, svc := newTestRouter(t)
	state := createEntity(t, svc, "2000")

	rec := postEntry(t, router, state.Entity.ID.String(),
		`{"amount":800,"currency":"DOP","paymentMethod":"cash","paymentDate":"2025-01-05"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var result EntryResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.Equal(t, ledger.MethodCash, result.Entry.Method)
	require.True(t, result.Derived.BalanceDue.Equal(decimal.RequireFromString("1200")))
	require.Contains(t, rec.Body.String(), `"paymentMethod":"cash"`)
}

func TestRegisterEntryEndpointRejectsUnknownFields(t *testing.T) {
	router, svc := newTestRouter(t)
	state := createEntity(t, svc, "2000")

	rec := postEntry(t, router, state.Entity.ID.String(),
		`{"amount":800,"currency":"DOP","paymentMethod":"cash","paymentDate":"2025-01-05","surprise":true}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegisterEntryEndpointOverpaymentConflict(t *testing.T) {
	router, svc := newTestRouter(t)
	state := createEntity(t, svc, "1000")

	rec := postEntry(t, router, state.Entity.ID.String(),
		`{"amount":1500,"currency":"DOP","paymentMethod":"transfer","paymentDate":"2025-01-05"}`)
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = postEntry(t, router, state.Entity.ID.String(),
		`{"amount":1500,"currency":"DOP","paymentMethod":"transfer","paymentDate":"2025-01-05","confirmOverpayment":true}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var result EntryResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.Equal(t, ledger.StatusOverpaid, result.Derived.Status)
	require.True(t, result.Advisory.Amount.Equal(decimal.RequireFromString("500")))
}
