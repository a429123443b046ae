package models

import "time"

// Asset representa um ativo do mundo real registrado como frações fungíveis.
type Asset struct {
	ID             uint64    `json:"id" db:"id"`                           // Sequencial por ledger, a partir de 1
	LedgerOwner    string    `json:"ledger_owner" db:"ledger_owner"`       // Dono do ledger que emitiu o ativo
	MetadataURI    string    `json:"metadata_uri" db:"metadata_uri"`       // Referência descritiva, imutável após a emissão
	TotalFractions uint64    `json:"total_fractions" db:"total_fractions"` // Total emitido, fixado na emissão
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}
