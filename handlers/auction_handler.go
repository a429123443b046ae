package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ferreirogomes/quinhao/services"
)

// AuctionHandler lida com requisições HTTP do motor de leilões. O motor é
// resolvido pelo diretório a partir do {owner} da rota.
type AuctionHandler struct {
	Registry *services.RegistryService
}

// NewAuctionHandler cria uma nova instância do handler de leilões.
func NewAuctionHandler(r *services.RegistryService) *AuctionHandler {
	return &AuctionHandler{Registry: r}
}

func (h *AuctionHandler) resolve(w http.ResponseWriter, r *http.Request) (*services.RegisteredLedger, bool) {
	owner := chi.URLParam(r, "owner")
	entry, found := h.Registry.Resolve(owner)
	if !found {
		http.Error(w, services.ErrLedgerNotFound.Error(), http.StatusNotFound)
		return nil, false
	}
	return entry, true
}

func (h *AuctionHandler) auctionID(w http.ResponseWriter, r *http.Request) (uint64, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, "auctionID"), 10, 64)
	if err != nil {
		http.Error(w, "ID do leilão inválido", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// StartAuction abre um leilão de frações.
// POST /ledgers/{owner}/auctions
func (h *AuctionHandler) StartAuction(w http.ResponseWriter, r *http.Request) {
	entry, ok := h.resolve(w, r)
	if !ok {
		return
	}

	var requestBody struct {
		Seller            string `json:"seller"`
		AssetID           uint64 `json:"asset_id"`
		Quantity          uint64 `json:"quantity"`
		FloorPrice        uint64 `json:"floor_price"`
		DurationSeconds   int64  `json:"duration_seconds"`
		UpfrontFee        uint64 `json:"upfront_fee"`
		SignedTransaction string `json:"signed_transaction"` // Depósito da taxa inicial, assinado pelo vendedor
	}
	if err := json.NewDecoder(r.Body).Decode(&requestBody); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	auction, err := entry.Auction.StartAuction(requestBody.Seller, requestBody.AssetID,
		requestBody.Quantity, requestBody.FloorPrice, requestBody.DurationSeconds,
		requestBody.UpfrontFee, requestBody.SignedTransaction)
	if err != nil {
		http.Error(w, err.Error(), statusForError(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(auction)
}

// PrepareDeposit constrói a transação de depósito (taxa inicial ou lance)
// para assinatura do pagador, no fluxo preparar/completar.
// POST /ledgers/{owner}/auctions/deposits/prepare
func (h *AuctionHandler) PrepareDeposit(w http.ResponseWriter, r *http.Request) {
	entry, ok := h.resolve(w, r)
	if !ok {
		return
	}

	var requestBody struct {
		Payer  string `json:"payer"`
		Amount uint64 `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&requestBody); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	serializedTx, err := entry.Auction.Custody.PrepareDeposit(requestBody.Payer, requestBody.Amount)
	if err != nil {
		http.Error(w, err.Error(), statusForError(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"serialized_transaction": serializedTx})
}

// Bid registra um lance com o depósito já assinado pelo licitante.
// POST /ledgers/{owner}/auctions/{auctionID}/bids
func (h *AuctionHandler) Bid(w http.ResponseWriter, r *http.Request) {
	entry, ok := h.resolve(w, r)
	if !ok {
		return
	}
	id, ok := h.auctionID(w, r)
	if !ok {
		return
	}

	var requestBody struct {
		Bidder            string `json:"bidder"`
		Amount            uint64 `json:"amount"`
		SignedTransaction string `json:"signed_transaction"`
	}
	if err := json.NewDecoder(r.Body).Decode(&requestBody); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	auction, err := entry.Auction.Bid(requestBody.Bidder, id, requestBody.Amount, requestBody.SignedTransaction)
	if err != nil {
		http.Error(w, err.Error(), statusForError(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(auction)
}

// EndAuction liquida um leilão cujo prazo terminou. Qualquer um pode chamar.
// POST /ledgers/{owner}/auctions/{auctionID}/end
func (h *AuctionHandler) EndAuction(w http.ResponseWriter, r *http.Request) {
	entry, ok := h.resolve(w, r)
	if !ok {
		return
	}
	id, ok := h.auctionID(w, r)
	if !ok {
		return
	}

	auction, err := entry.Auction.EndAuction(id)
	if err != nil {
		http.Error(w, err.Error(), statusForError(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(auction)
}

// GetAuction obtém o registro completo de um leilão.
// GET /ledgers/{owner}/auctions/{auctionID}
func (h *AuctionHandler) GetAuction(w http.ResponseWriter, r *http.Request) {
	entry, ok := h.resolve(w, r)
	if !ok {
		return
	}
	id, ok := h.auctionID(w, r)
	if !ok {
		return
	}

	auction, err := entry.Auction.GetAuction(id)
	if err != nil {
		http.Error(w, err.Error(), statusForError(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(auction)
}
