package models

import "time"

// Auction representa um leilão de frações de um ativo. O registro é
// append-only: o id é a posição na sequência de leilões do ledger e nunca
// muda; a marcação Settled é o único estado terminal.
type Auction struct {
	ID            uint64    `json:"id" db:"id"` // Posição na sequência, a partir de 0
	LedgerOwner   string    `json:"ledger_owner" db:"ledger_owner"`
	Seller        string    `json:"seller" db:"seller"`
	AssetID       uint64    `json:"asset_id" db:"asset_id"`
	Quantity      uint64    `json:"quantity" db:"quantity"`         // Frações ofertadas no lote
	FloorPrice    uint64    `json:"floor_price" db:"floor_price"`   // Em lamports, pelo lote inteiro
	UpfrontFee    uint64    `json:"upfront_fee" db:"upfront_fee"`   // Valor anexado na criação, creditado ao vendedor na liquidação
	HighestBid    uint64    `json:"highest_bid" db:"highest_bid"`   // Zero enquanto não houver lance
	HighestBidder string    `json:"highest_bidder" db:"highest_bidder"` // Vazio enquanto não houver lance
	StartTime     time.Time `json:"start_time" db:"start_time"`
	EndTime       time.Time `json:"end_time" db:"end_time"` // Fixado na criação, nunca estendido
	Settled       bool      `json:"settled" db:"settled"`
}
