package models

// Balance registra quantas frações de um ativo um titular possui.
type Balance struct {
	LedgerOwner string `json:"ledger_owner" db:"ledger_owner"`
	AssetID     uint64 `json:"asset_id" db:"asset_id"`
	Holder      string `json:"holder" db:"holder"`
	Amount      uint64 `json:"amount" db:"amount"`
}
