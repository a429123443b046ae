package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ferreirogomes/quinhao/services"
)

// LedgerHandler lida com requisições HTTP do ledger de frações. O ledger é
// resolvido pelo diretório a partir do {owner} da rota.
type LedgerHandler struct {
	Registry *services.RegistryService
}

// NewLedgerHandler cria uma nova instância do handler do ledger.
func NewLedgerHandler(r *services.RegistryService) *LedgerHandler {
	return &LedgerHandler{Registry: r}
}

func (h *LedgerHandler) resolve(w http.ResponseWriter, r *http.Request) (*services.RegisteredLedger, bool) {
	owner := chi.URLParam(r, "owner")
	entry, found := h.Registry.Resolve(owner)
	if !found {
		http.Error(w, services.ErrLedgerNotFound.Error(), http.StatusNotFound)
		return nil, false
	}
	return entry, true
}

// Mint emite frações de um novo ativo.
// POST /ledgers/{owner}/mint
func (h *LedgerHandler) Mint(w http.ResponseWriter, r *http.Request) {
	entry, ok := h.resolve(w, r)
	if !ok {
		return
	}

	var requestBody struct {
		Caller      string `json:"caller"`
		AssetID     uint64 `json:"asset_id"` // Zero emite o próximo da sequência
		Quantity    uint64 `json:"quantity"`
		ToHolder    string `json:"to_holder"`
		MetadataURI string `json:"metadata_uri"`
	}
	if err := json.NewDecoder(r.Body).Decode(&requestBody); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	asset, err := entry.Ledger.Mint(requestBody.Caller, requestBody.AssetID,
		requestBody.Quantity, requestBody.ToHolder, requestBody.MetadataURI)
	if err != nil {
		http.Error(w, err.Error(), statusForError(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(asset)
}

// GetAsset obtém metadados e total de frações de um ativo.
// GET /ledgers/{owner}/assets/{assetID}
func (h *LedgerHandler) GetAsset(w http.ResponseWriter, r *http.Request) {
	entry, ok := h.resolve(w, r)
	if !ok {
		return
	}

	assetID, err := strconv.ParseUint(chi.URLParam(r, "assetID"), 10, 64)
	if err != nil {
		http.Error(w, "ID do ativo inválido", http.StatusBadRequest)
		return
	}

	asset, found := entry.Ledger.GetAsset(assetID)
	if !found {
		http.Error(w, services.ErrAssetNotFound.Error(), http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(asset)
}

// GetBalance obtém o saldo de frações de um titular em um ativo.
// GET /ledgers/{owner}/assets/{assetID}/balance/{holder}
func (h *LedgerHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	entry, ok := h.resolve(w, r)
	if !ok {
		return
	}

	assetID, err := strconv.ParseUint(chi.URLParam(r, "assetID"), 10, 64)
	if err != nil {
		http.Error(w, "ID do ativo inválido", http.StatusBadRequest)
		return
	}
	holder := chi.URLParam(r, "holder")

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"asset_id": assetID,
		"holder":   holder,
		"amount":   entry.Ledger.BalanceOf(holder, assetID),
	})
}

// SetApproval autoriza ou revoga um operador para transferências do titular.
// POST /ledgers/{owner}/approvals
func (h *LedgerHandler) SetApproval(w http.ResponseWriter, r *http.Request) {
	entry, ok := h.resolve(w, r)
	if !ok {
		return
	}

	var requestBody struct {
		Holder   string `json:"holder"`
		Operator string `json:"operator"`
		Approved bool   `json:"approved"`
	}
	if err := json.NewDecoder(r.Body).Decode(&requestBody); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if requestBody.Holder == "" || requestBody.Operator == "" {
		http.Error(w, "Titular e operador são obrigatórios", http.StatusBadRequest)
		return
	}

	entry.Ledger.SetApprovalForAll(requestBody.Holder, requestBody.Operator, requestBody.Approved)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(requestBody)
}
