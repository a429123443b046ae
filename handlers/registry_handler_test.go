package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/andres-erbsen/clock"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"github.com/ferreirogomes/quinhao/handlers"
	"github.com/ferreirogomes/quinhao/services"
)

func newRegistryRouter() (*services.RegistryService, *chi.Mux) {
	registry := services.NewRegistryService(new(MockCustody), clock.NewMock(), nil)
	registryHandler := handlers.NewRegistryHandler(registry)

	r := chi.NewRouter()
	r.Post("/registry", registryHandler.Register)
	r.Get("/registry", registryHandler.ListRegistered)
	r.Get("/registry/{owner}", registryHandler.ResolveLedger)
	return registry, r
}

// TestRegisterLedger testa o registro de um ledger via HTTP
func TestRegisterLedger(t *testing.T) {
	_, r := newRegistryRouter()

	body, _ := json.Marshal(map[string]string{"owner": "owner-a"})
	req := httptest.NewRequest("POST", "/registry", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)

	var resp map[string]string
	err := json.Unmarshal(rr.Body.Bytes(), &resp)
	assert.Nil(t, err)
	assert.Equal(t, "owner-a", resp["owner"])
}

// TestRegisterDuplicateLedger testa a rejeição de registro duplicado
func TestRegisterDuplicateLedger(t *testing.T) {
	registry, r := newRegistryRouter()
	registry.Register("owner-a")

	body, _ := json.Marshal(map[string]string{"owner": "owner-a"})
	req := httptest.NewRequest("POST", "/registry", bytes.NewBuffer(body))
	rr := httptest.NewRecorder()

	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "Already deployed")
}

// TestResolveLedger testa a resolução de um ledger registrado
func TestResolveLedger(t *testing.T) {
	registry, r := newRegistryRouter()
	registry.Register("owner-a")

	req := httptest.NewRequest("GET", "/registry/owner-a", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)

	req = httptest.NewRequest("GET", "/registry/owner-b", nil)
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

// TestListRegistered testa a listagem em ordem de registro
func TestListRegistered(t *testing.T) {
	registry, r := newRegistryRouter()
	registry.Register("owner-a")
	registry.Register("owner-b")

	req := httptest.NewRequest("GET", "/registry", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var owners []string
	err := json.Unmarshal(rr.Body.Bytes(), &owners)
	assert.Nil(t, err)
	assert.Equal(t, []string{"owner-a", "owner-b"}, owners)
}
