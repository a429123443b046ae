package services

import (
	"log"
	"sync"

	"github.com/andres-erbsen/clock"
)

// RegisteredLedger agrupa o ledger de frações de um registrante e o motor de
// leilões vinculado a ele.
type RegisteredLedger struct {
	Owner   string
	Ledger  *LedgerService
	Auction *AuctionService
}

// RegistryService é o diretório de ledgers: cria um par ledger+motor por
// registrante, rejeita registro duplicado e resolve a instância que uma
// identidade controla.
type RegistryService struct {
	custody Custody
	clk     clock.Clock
	store   Store

	mu      sync.RWMutex
	entries map[string]*RegisteredLedger
	order   []string // Ordem de registro
}

// NewRegistryService cria um diretório vazio. Custody, relógio e store são
// compartilhados por todos os ledgers registrados.
func NewRegistryService(custody Custody, clk clock.Clock, store Store) *RegistryService {
	return &RegistryService{
		custody: custody,
		clk:     clk,
		store:   store,
		entries: make(map[string]*RegisteredLedger),
	}
}

// Register cria o ledger da identidade owner e o motor de leilões vinculado.
// Cada identidade registra no máximo um ledger.
func (r *RegistryService) Register(owner string) (*RegisteredLedger, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[owner]; exists {
		return nil, ErrAlreadyRegistered
	}

	ledger := NewLedgerService(owner, r.store)
	entry := &RegisteredLedger{
		Owner:   owner,
		Ledger:  ledger,
		Auction: NewAuctionService(ledger, r.custody, r.clk, r.store),
	}
	r.entries[owner] = entry
	r.order = append(r.order, owner)

	if r.store != nil {
		if err := r.store.SaveLedger(owner); err != nil {
			log.Printf("Falha ao registrar ledger de %s no banco interno: %v", owner, err)
		}
	}
	return entry, nil
}

// Resolve retorna o par ledger+motor registrado pela identidade owner.
func (r *RegistryService) Resolve(owner string) (*RegisteredLedger, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, found := r.entries[owner]
	return entry, found
}

// AllRegistered retorna as identidades registradas, em ordem de registro.
func (r *RegistryService) AllRegistered() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	owners := make([]string, len(r.order))
	copy(owners, r.order)
	return owners
}
