package models

import "time"

// Tipos de movimentação de fundos custodiados pelo motor de leilões.
const (
	EscrowKindDeposit = "deposit" // Taxa inicial ou lance recolhido do pagador
	EscrowKindRefund  = "refund"  // Devolução integral ao licitante superado
	EscrowKindPayout  = "payout"  // Repasse ao vendedor na liquidação
)

// Status de uma movimentação até a confirmação on-chain pelo listener.
const (
	EscrowStatusPending   = "pending"
	EscrowStatusConfirmed = "confirmed"
	EscrowStatusFailed    = "failed"
)

// EscrowMovement é o registro interno de uma movimentação de fundos sob
// escrow. A fonte de verdade é a blockchain; o listener reconcilia o status.
type EscrowMovement struct {
	ID            string    `json:"id" db:"id"` // UUID do registro interno
	LedgerOwner   string    `json:"ledger_owner" db:"ledger_owner"`
	AuctionID     uint64    `json:"auction_id" db:"auction_id"`
	Kind          string    `json:"kind" db:"kind"`
	Counterparty  string    `json:"counterparty" db:"counterparty"` // Pagador (deposit) ou recebedor (refund/payout)
	Amount        uint64    `json:"amount" db:"amount"`
	TransactionID string    `json:"transaction_id" db:"transaction_id"`
	Status        string    `json:"status" db:"status"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}
