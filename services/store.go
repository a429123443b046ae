package services

import "github.com/ferreirogomes/quinhao/models"

// Store é o registro interno persistido das operações do ledger e dos
// leilões. A fonte de verdade é o estado em memória dos serviços; o Store
// existe para consulta e para a reconciliação feita pelo listener.
type Store interface {
	SaveLedger(owner string) error
	SaveAsset(asset models.Asset) error
	SaveBalance(balance models.Balance) error
	SaveAuction(auction models.Auction) error
	UpdateAuction(auction models.Auction) error
	SaveEscrowMovement(m models.EscrowMovement) error
}
