package services_test

import (
	"github.com/stretchr/testify/mock"

	"github.com/ferreirogomes/quinhao/models"
)

// MockStore é uma implementação mock de services.Store para testes de unidade
type MockStore struct {
	mock.Mock
}

func (m *MockStore) SaveLedger(owner string) error {
	args := m.Called(owner)
	return args.Error(0)
}

func (m *MockStore) SaveAsset(asset models.Asset) error {
	args := m.Called(asset)
	return args.Error(0)
}

func (m *MockStore) SaveBalance(balance models.Balance) error {
	args := m.Called(balance)
	return args.Error(0)
}

func (m *MockStore) SaveAuction(auction models.Auction) error {
	args := m.Called(auction)
	return args.Error(0)
}

func (m *MockStore) UpdateAuction(auction models.Auction) error {
	args := m.Called(auction)
	return args.Error(0)
}

func (m *MockStore) SaveEscrowMovement(movement models.EscrowMovement) error {
	args := m.Called(movement)
	return args.Error(0)
}

// MockCustody é uma implementação mock de services.Custody
type MockCustody struct {
	mock.Mock
}

func (m *MockCustody) PrepareDeposit(payer string, amount uint64) (string, error) {
	args := m.Called(payer, amount)
	return args.String(0), args.Error(1)
}

func (m *MockCustody) Collect(payer string, amount uint64, signedTxBase64 string) (string, error) {
	args := m.Called(payer, amount, signedTxBase64)
	return args.String(0), args.Error(1)
}

func (m *MockCustody) Release(recipient string, amount uint64) (string, error) {
	args := m.Called(recipient, amount)
	return args.String(0), args.Error(1)
}
