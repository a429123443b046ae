package services_test

import (
	"testing"

	"github.com/andres-erbsen/clock"
	"github.com/stretchr/testify/assert"

	"github.com/ferreirogomes/quinhao/services"
)

// TestRegisterAndResolve verifica o registro e a resolução de um ledger
func TestRegisterAndResolve(t *testing.T) {
	registry := services.NewRegistryService(new(MockCustody), clock.NewMock(), nil)

	entry, err := registry.Register("owner-a")

	assert.Nil(t, err)
	assert.Equal(t, "owner-a", entry.Owner)
	assert.Equal(t, "owner-a", entry.Ledger.Owner)
	assert.NotNil(t, entry.Auction)

	resolved, found := registry.Resolve("owner-a")
	assert.True(t, found)
	assert.Same(t, entry, resolved)

	_, found = registry.Resolve("owner-b")
	assert.False(t, found)
}

// TestDuplicateRegistrationFails verifica que cada identidade registra um só ledger
func TestDuplicateRegistrationFails(t *testing.T) {
	registry := services.NewRegistryService(new(MockCustody), clock.NewMock(), nil)

	_, err := registry.Register("owner-a")
	assert.Nil(t, err)

	_, err = registry.Register("owner-a")
	assert.ErrorIs(t, err, services.ErrAlreadyRegistered)
}

// TestAllRegisteredOrder verifica a listagem em ordem de registro
func TestAllRegisteredOrder(t *testing.T) {
	registry := services.NewRegistryService(new(MockCustody), clock.NewMock(), nil)

	registry.Register("owner-a")
	registry.Register("owner-b")

	assert.Equal(t, []string{"owner-a", "owner-b"}, registry.AllRegistered())
}

// TestRegisteredLedgersAreIndependent verifica que cada ledger tem estado próprio
func TestRegisteredLedgersAreIndependent(t *testing.T) {
	registry := services.NewRegistryService(new(MockCustody), clock.NewMock(), nil)

	entryA, _ := registry.Register("owner-a")
	entryB, _ := registry.Register("owner-b")

	entryA.Ledger.Mint("owner-a", 0, 100, "owner-a", "URL A")

	assert.Equal(t, uint64(100), entryA.Ledger.BalanceOf("owner-a", 1))
	assert.Equal(t, uint64(0), entryB.Ledger.TotalFractions(1))
}
