package services

import (
	"log"
	"sync"
	"time"

	"github.com/ferreirogomes/quinhao/models"
)

// LedgerService mantém o ledger de frações de um único registrante: saldos
// por (ativo, titular), total emitido e metadados por ativo, e autorizações
// de transferência por operador. Cada mutação executa inteira sob o mutex,
// com todos os seus efeitos, antes da próxima começar.
type LedgerService struct {
	Owner string // Identidade que registrou este ledger; única autorizada a emitir

	mu          sync.Mutex
	assets      map[uint64]*models.Asset
	balances    map[uint64]map[string]uint64 // assetID -> titular -> frações
	approvals   map[string]map[string]bool   // titular -> operador -> autorizado
	nextAssetID uint64

	store Store
}

// NewLedgerService cria um ledger vazio pertencente a owner. O store pode
// ser nulo; nesse caso nenhum registro interno é espelhado.
func NewLedgerService(owner string, store Store) *LedgerService {
	return &LedgerService{
		Owner:       owner,
		assets:      make(map[uint64]*models.Asset),
		balances:    make(map[uint64]map[string]uint64),
		approvals:   make(map[string]map[string]bool),
		nextAssetID: 1,
		store:       store,
	}
}

// Mint emite quantity novas frações do ativo assetID, creditadas a toHolder.
// Somente o dono do ledger pode emitir, e cada ativo é emitido uma única
// vez: total de frações e metadataURI ficam imutáveis. Usar assetID igual a
// zero emite o próximo ativo da sequência.
func (s *LedgerService) Mint(caller string, assetID, quantity uint64, toHolder, metadataURI string) (models.Asset, error) {
	if caller != s.Owner {
		return models.Asset{}, ErrUnauthorized
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if assetID == 0 {
		assetID = s.nextAssetID
	}
	if _, exists := s.assets[assetID]; exists {
		return models.Asset{}, ErrAssetAlreadyMinted
	}

	asset := &models.Asset{
		ID:             assetID,
		LedgerOwner:    s.Owner,
		MetadataURI:    metadataURI,
		TotalFractions: quantity,
		CreatedAt:      time.Now(),
	}
	s.assets[assetID] = asset
	s.balances[assetID] = map[string]uint64{toHolder: quantity}
	if assetID >= s.nextAssetID {
		s.nextAssetID = assetID + 1
	}

	s.mirrorAsset(*asset)
	s.mirrorBalance(assetID, toHolder, quantity)
	return *asset, nil
}

// BalanceOf retorna o saldo de frações do titular no ativo. Leitura pura:
// ativos ou titulares desconhecidos têm saldo zero.
func (s *LedgerService) BalanceOf(holder string, assetID uint64) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.balances[assetID][holder]
}

// TotalFractions retorna o total de frações emitido para o ativo.
func (s *LedgerService) TotalFractions(assetID uint64) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if asset, ok := s.assets[assetID]; ok {
		return asset.TotalFractions
	}
	return 0
}

// MetadataOf retorna a referência de metadados registrada na emissão.
func (s *LedgerService) MetadataOf(assetID uint64) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if asset, ok := s.assets[assetID]; ok {
		return asset.MetadataURI
	}
	return ""
}

// GetAsset retorna o registro completo do ativo, se emitido.
func (s *LedgerService) GetAsset(assetID uint64) (models.Asset, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if asset, ok := s.assets[assetID]; ok {
		return *asset, true
	}
	return models.Asset{}, false
}

// SetApprovalForAll autoriza (ou revoga) um operador a transferir frações de
// qualquer ativo deste ledger em nome do titular.
func (s *LedgerService) SetApprovalForAll(holder, operator string, approved bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.approvals[holder] == nil {
		s.approvals[holder] = make(map[string]bool)
	}
	s.approvals[holder][operator] = approved
}

// IsApprovedForAll informa se o operador está autorizado pelo titular.
func (s *LedgerService) IsApprovedForAll(holder, operator string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.approvals[holder][operator]
}

// TransferShares move quantity frações do ativo de from para to, de forma
// atômica: ou os dois saldos mudam, ou nenhum. O operador precisa ser o
// próprio titular de origem ou estar autorizado via SetApprovalForAll.
func (s *LedgerService) TransferShares(operator, from, to string, assetID, quantity uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if operator != from && !s.approvals[from][operator] {
		return ErrNotAuthorized
	}
	holders := s.balances[assetID]
	if holders == nil {
		return ErrAssetNotFound
	}
	if holders[from] < quantity {
		return ErrInsufficientBalance
	}

	holders[from] -= quantity
	if holders[from] == 0 {
		delete(holders, from)
	}
	holders[to] += quantity

	s.mirrorBalance(assetID, from, holders[from])
	s.mirrorBalance(assetID, to, holders[to])
	return nil
}

// mirrorAsset espelha o ativo no registro interno. Chamado com o mutex
// tomado; uma falha de espelhamento não desfaz a operação já aplicada.
func (s *LedgerService) mirrorAsset(asset models.Asset) {
	if s.store == nil {
		return
	}
	if err := s.store.SaveAsset(asset); err != nil {
		log.Printf("Falha ao espelhar ativo %d do ledger %s: %v", asset.ID, s.Owner, err)
	}
}

func (s *LedgerService) mirrorBalance(assetID uint64, holder string, amount uint64) {
	if s.store == nil {
		return
	}
	balance := models.Balance{
		LedgerOwner: s.Owner,
		AssetID:     assetID,
		Holder:      holder,
		Amount:      amount,
	}
	if err := s.store.SaveBalance(balance); err != nil {
		log.Printf("Falha ao espelhar saldo de %s no ativo %d: %v", holder, assetID, err)
	}
}
