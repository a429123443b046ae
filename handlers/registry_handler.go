package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ferreirogomes/quinhao/services"
)

// RegistryHandler lida com requisições HTTP do diretório de ledgers.
type RegistryHandler struct {
	Registry *services.RegistryService
}

// NewRegistryHandler cria uma nova instância do handler do diretório.
func NewRegistryHandler(r *services.RegistryService) *RegistryHandler {
	return &RegistryHandler{Registry: r}
}

// Register registra um novo ledger para a identidade informada.
// POST /registry
func (h *RegistryHandler) Register(w http.ResponseWriter, r *http.Request) {
	var requestBody struct {
		Owner string `json:"owner"`
	}
	if err := json.NewDecoder(r.Body).Decode(&requestBody); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if requestBody.Owner == "" {
		http.Error(w, "Identidade do dono é obrigatória", http.StatusBadRequest)
		return
	}

	entry, err := h.Registry.Register(requestBody.Owner)
	if err != nil {
		http.Error(w, err.Error(), statusForError(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{"owner": entry.Owner})
}

// ListRegistered retorna todas as identidades registradas, em ordem.
// GET /registry
func (h *RegistryHandler) ListRegistered(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.Registry.AllRegistered())
}

// ResolveLedger resolve o ledger controlado por uma identidade.
// GET /registry/{owner}
func (h *RegistryHandler) ResolveLedger(w http.ResponseWriter, r *http.Request) {
	owner := chi.URLParam(r, "owner")
	if _, found := h.Registry.Resolve(owner); !found {
		http.Error(w, services.ErrLedgerNotFound.Error(), http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"owner": owner})
}
