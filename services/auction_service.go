package services

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/andres-erbsen/clock"
	"github.com/google/uuid"

	"github.com/ferreirogomes/quinhao/models"
)

// EngineOperator é a identidade do motor de leilões nas autorizações de
// transferência do ledger (o equivalente ao endereço do contrato de leilão).
// Um vendedor precisa autorizar este operador via SetApprovalForAll antes de
// abrir um leilão.
const EngineOperator = "auction-engine"

// AuctionService é o motor de leilões de um ledger. Mantém a sequência
// append-only de leilões, valida lances sob a regra de aumento estrito com
// devolução integral do lance superado, e liquida trocando frações por
// fundos ao fim do prazo. Cada operação executa inteira sob o mutex, com
// seus efeitos de fundos e de ledger, antes da próxima começar; o relógio é
// compartilhado por todas as verificações de prazo.
type AuctionService struct {
	Ledger  *LedgerService
	Custody Custody
	Clock   clock.Clock

	mu       sync.Mutex
	auctions []*models.Auction

	store Store
}

// NewAuctionService cria o motor de leilões vinculado a um ledger.
func NewAuctionService(ledger *LedgerService, custody Custody, clk clock.Clock, store Store) *AuctionService {
	return &AuctionService{
		Ledger:  ledger,
		Custody: custody,
		Clock:   clk,
		store:   store,
	}
}

// StartAuction abre um leilão de quantity frações do ativo assetID. O
// vendedor precisa ter saldo suficiente e ter autorizado o EngineOperator no
// ledger. A taxa inicial (upfrontFee) é recolhida como depósito pré-assinado
// e creditada ao vendedor na liquidação, junto com o lance vencedor. O prazo
// é fixado agora + durationSeconds e nunca é estendido.
func (s *AuctionService) StartAuction(seller string, assetID, quantity, floorPrice uint64, durationSeconds int64, upfrontFee uint64, signedFeeTxBase64 string) (models.Auction, error) {
	if quantity == 0 {
		return models.Auction{}, ErrInvalidQuantity
	}
	if _, found := s.Ledger.GetAsset(assetID); !found {
		return models.Auction{}, ErrAssetNotFound
	}
	if s.Ledger.BalanceOf(seller, assetID) < quantity {
		return models.Auction{}, ErrInsufficientBalance
	}
	if !s.Ledger.IsApprovedForAll(seller, EngineOperator) {
		return models.Auction{}, ErrNotAuthorized
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	feeTxID := ""
	if upfrontFee > 0 {
		txID, err := s.Custody.Collect(seller, upfrontFee, signedFeeTxBase64)
		if err != nil {
			return models.Auction{}, fmt.Errorf("falha ao recolher a taxa inicial: %w", err)
		}
		feeTxID = txID
	}

	now := s.Clock.Now()
	auction := &models.Auction{
		ID:          uint64(len(s.auctions)),
		LedgerOwner: s.Ledger.Owner,
		Seller:      seller,
		AssetID:     assetID,
		Quantity:    quantity,
		FloorPrice:  floorPrice,
		UpfrontFee:  upfrontFee,
		StartTime:   now,
		EndTime:     now.Add(time.Duration(durationSeconds) * time.Second),
	}
	s.auctions = append(s.auctions, auction)

	s.mirrorAuction(*auction, false)
	if upfrontFee > 0 {
		s.mirrorMovement(*auction, models.EscrowKindDeposit, seller, upfrontFee, feeTxID)
	}
	return *auction, nil
}

// Bid registra um lance de amount lamports no leilão. O lance precisa
// alcançar o preço mínimo do lote e superar estritamente o maior lance
// atual. O depósito do novo lance é recolhido antes de qualquer mudança de
// registro; em seguida o lance superado é devolvido integralmente. Se a
// devolução falhar, o depósito recém-recolhido é devolvido ao novo licitante
// e o lance é abortado sem mudança de estado.
func (s *AuctionService) Bid(bidder string, auctionID, amount uint64, signedTxBase64 string) (models.Auction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	auction, err := s.auctionLocked(auctionID)
	if err != nil {
		return models.Auction{}, err
	}
	if auction.Settled || !s.Clock.Now().Before(auction.EndTime) {
		return models.Auction{}, ErrAuctionEnded
	}
	if amount < auction.FloorPrice || amount <= auction.HighestBid {
		return models.Auction{}, ErrBidTooLow
	}

	depositTxID, err := s.Custody.Collect(bidder, amount, signedTxBase64)
	if err != nil {
		return models.Auction{}, fmt.Errorf("falha ao recolher o depósito do lance: %w", err)
	}

	refundTxID := ""
	if auction.HighestBidder != "" {
		refundTxID, err = s.Custody.Release(auction.HighestBidder, auction.HighestBid)
		if err != nil {
			// Devolve o depósito recém-recolhido: a devolução do lance
			// superado aborta o novo lance, nunca é descartada.
			if _, releaseErr := s.Custody.Release(bidder, amount); releaseErr != nil {
				log.Printf("ERRO: depósito %s recolhido de %s, mas a devolução de compensação falhou: %v", depositTxID, bidder, releaseErr)
			}
			return models.Auction{}, fmt.Errorf("falha ao devolver o lance superado: %w", err)
		}
	}

	previousBidder := auction.HighestBidder
	previousBid := auction.HighestBid
	auction.HighestBid = amount
	auction.HighestBidder = bidder

	s.mirrorAuction(*auction, true)
	s.mirrorMovement(*auction, models.EscrowKindDeposit, bidder, amount, depositTxID)
	if previousBidder != "" {
		s.mirrorMovement(*auction, models.EscrowKindRefund, previousBidder, previousBid, refundTxID)
	}
	return *auction, nil
}

// EndAuction liquida o leilão: qualquer um pode chamar a partir do prazo
// final, exatamente uma vez. Havendo lance vencedor, as frações vão do
// vendedor ao vencedor e os fundos sob escrow (lance + taxa inicial) vão ao
// vendedor; sem lances, as frações ficam com o vendedor e a taxa inicial é
// devolvida a ele. A marcação Settled é aplicada antes do movimento externo
// de fundos; uma falha no repasse fica registrada como movimentação pendente
// e é reconciliada pelo listener.
//
// As frações NÃO ficam reservadas durante o leilão: o vendedor pode listar o
// mesmo saldo em mais de um leilão e, se as frações já tiverem sido
// transferidas quando a liquidação chegar, EndAuction falha com
// ErrInsufficientBalance e o leilão permanece não liquidado.
func (s *AuctionService) EndAuction(auctionID uint64) (models.Auction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	auction, err := s.auctionLocked(auctionID)
	if err != nil {
		return models.Auction{}, err
	}
	if auction.Settled {
		return models.Auction{}, ErrAlreadySettled
	}
	if s.Clock.Now().Before(auction.EndTime) {
		return models.Auction{}, ErrAuctionStillActive
	}

	if auction.HighestBidder != "" {
		err := s.Ledger.TransferShares(EngineOperator, auction.Seller, auction.HighestBidder, auction.AssetID, auction.Quantity)
		if err != nil {
			return models.Auction{}, fmt.Errorf("falha ao transferir frações ao vencedor: %w", err)
		}
	}

	auction.Settled = true
	s.mirrorAuction(*auction, true)

	payout := auction.UpfrontFee
	if auction.HighestBidder != "" {
		payout += auction.HighestBid
	}
	if payout > 0 {
		txID, err := s.Custody.Release(auction.Seller, payout)
		if err != nil {
			s.mirrorMovement(*auction, models.EscrowKindPayout, auction.Seller, payout, "")
			return *auction, fmt.Errorf("leilão liquidado, mas falha ao repassar fundos ao vendedor: %w", err)
		}
		s.mirrorMovement(*auction, models.EscrowKindPayout, auction.Seller, payout, txID)
	}
	return *auction, nil
}

// GetAuction retorna o registro completo do leilão.
func (s *AuctionService) GetAuction(auctionID uint64) (models.Auction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	auction, err := s.auctionLocked(auctionID)
	if err != nil {
		return models.Auction{}, err
	}
	return *auction, nil
}

// auctionLocked resolve o id na sequência. Chamado com o mutex tomado.
func (s *AuctionService) auctionLocked(auctionID uint64) (*models.Auction, error) {
	if auctionID >= uint64(len(s.auctions)) {
		return nil, ErrAuctionNotFound
	}
	return s.auctions[auctionID], nil
}

// mirrorAuction espelha o registro do leilão no Store. Chamado com o mutex
// tomado; uma falha de espelhamento não desfaz a operação já aplicada.
func (s *AuctionService) mirrorAuction(auction models.Auction, update bool) {
	if s.store == nil {
		return
	}
	var err error
	if update {
		err = s.store.UpdateAuction(auction)
	} else {
		err = s.store.SaveAuction(auction)
	}
	if err != nil {
		log.Printf("Falha ao espelhar leilão %d do ledger %s: %v", auction.ID, auction.LedgerOwner, err)
	}
}

func (s *AuctionService) mirrorMovement(auction models.Auction, kind, counterparty string, amount uint64, txID string) {
	if s.store == nil {
		return
	}
	movement := models.EscrowMovement{
		ID:            uuid.New().String(),
		LedgerOwner:   auction.LedgerOwner,
		AuctionID:     auction.ID,
		Kind:          kind,
		Counterparty:  counterparty,
		Amount:        amount,
		TransactionID: txID,
		Status:        models.EscrowStatusPending,
		CreatedAt:     time.Now(),
	}
	if err := s.store.SaveEscrowMovement(movement); err != nil {
		log.Printf("Falha ao registrar movimentação de escrow do leilão %d: %v", auction.ID, err)
	}
}
