package handlers_test

import (
	"github.com/stretchr/testify/mock"
)

// MockCustody é uma implementação mock de services.Custody para testes de handlers
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
