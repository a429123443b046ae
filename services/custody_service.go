package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/rpc"
)

// Custody guarda e movimenta os fundos nativos sob escrow do motor de
// leilões. O valor de um lance "anexado à chamada" vira um depósito
// pré-assinado pelo pagador: PrepareDeposit constrói a transação, o pagador
// assina fora do backend e Collect a envia. Release paga a partir da
// carteira de custódia (devolução de lance superado ou repasse ao vendedor).
type Custody interface {
	PrepareDeposit(payer string, amount uint64) (string, error)
	Collect(payer string, amount uint64, signedTxBase64 string) (string, error)
	Release(recipient string, amount uint64) (string, error)
}

// SolanaCustodyService implementa Custody movendo lamports via instruções de
// transferência do system program. A carteira de escrow assina como pagadora
// das taxas de rede e é a contraparte de todos os depósitos e pagamentos.
type SolanaCustodyService struct {
	RPCClient *rpc.Client
	EscrowKey solana.PrivateKey
}

// NewSolanaCustodyService conecta ao RPC e carrega a chave da carteira de
// escrow a partir de sua representação Base58.
func NewSolanaCustodyService(rpcEndpoint, escrowKeyBase58 string) (*SolanaCustodyService, error) {
	escrowKey, err := solana.PrivateKeyFromBase58(escrowKeyBase58)
	if err != nil {
		return nil, fmt.Errorf("falha ao carregar chave privada da carteira de escrow: %w", err)
	}
	return &SolanaCustodyService{
		RPCClient: rpc.New(rpcEndpoint),
		EscrowKey: escrowKey,
	}, nil
}

// PrepareDeposit constrói uma transação transferindo amount lamports do
// pagador para a carteira de escrow. A transação NÃO é assinada com a chave
// do pagador; a carteira de escrow assina apenas como pagadora das taxas. O
// resultado é a transação serializada em Base64, para assinatura externa.
func (s *SolanaCustodyService) PrepareDeposit(payer string, amount uint64) (string, error) {
	payerPubKey, err := solana.PublicKeyFromBase58(payer)
	if err != nil {
		return "", fmt.Errorf("chave pública do pagador: %w", ErrInvalidPublicKey)
	}

	resp, err := s.RPCClient.GetRecentBlockhash(context.Background(), rpc.CommitmentFinalized)
	if err != nil {
		return "", fmt.Errorf("falha ao obter blockhash: %w", err)
	}

	transferInstruction := system.NewTransferInstruction(
		amount,
		payerPubKey,
		s.EscrowKey.PublicKey(),
	).Build()

	tx, err := solana.NewTransaction(
		[]solana.Instruction{transferInstruction},
		resp.Value.Blockhash,
		solana.TransactionPayer(s.EscrowKey.PublicKey()),
	)
	if err != nil {
		return "", fmt.Errorf("falha ao criar transação de depósito: %w", err)
	}

	// A carteira de escrow assina como pagadora; o pagador assinará fora.
	_, err = tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(s.EscrowKey.PublicKey()) {
			return &s.EscrowKey
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("falha ao assinar transação pela carteira de escrow: %w", err)
	}

	serializedTx, err := tx.MarshalBinary()
	if err != nil {
		return "", fmt.Errorf("falha ao serializar transação de depósito: %w", err)
	}
	return base64.StdEncoding.EncodeToString(serializedTx), nil
}

// Collect recebe o depósito já assinado pelo pagador e o envia para a rede.
// Retorna a assinatura da transação, usada pelo listener para reconciliar o
// registro interno da movimentação.
func (s *SolanaCustodyService) Collect(payer string, amount uint64, signedTxBase64 string) (string, error) {
	signedTxBytes, err := base64.StdEncoding.DecodeString(signedTxBase64)
	if err != nil {
		return "", fmt.Errorf("falha ao decodificar depósito assinado: %w", err)
	}

	tx, err := solana.TransactionFromDecoder(bin.NewBinDecoder(signedTxBytes))
	if err != nil {
		return "", fmt.Errorf("falha ao deserializar depósito assinado: %w", err)
	}

	txID, err := s.RPCClient.SendTransactionWithOpts(context.Background(), tx, rpc.TransactionOpts{
		SkipPreflight:       false,
		PreflightCommitment: rpc.CommitmentConfirmed,
	})
	if err != nil {
		return "", fmt.Errorf("falha ao enviar depósito de %d lamports de %s: %w", amount, payer, err)
	}
	log.Printf("Depósito de %d lamports recolhido de %s: %s", amount, payer, txID)

	return txID.String(), nil
}

// Release transfere amount lamports da carteira de escrow para o recebedor.
// A transação é assinada integralmente pela chave de escrow.
func (s *SolanaCustodyService) Release(recipient string, amount uint64) (string, error) {
	recipientPubKey, err := solana.PublicKeyFromBase58(recipient)
	if err != nil {
		return "", fmt.Errorf("chave pública do recebedor: %w", ErrInvalidPublicKey)
	}

	resp, err := s.RPCClient.GetRecentBlockhash(context.Background(), rpc.CommitmentFinalized)
	if err != nil {
		return "", fmt.Errorf("falha ao obter blockhash: %w", err)
	}

	transferInstruction := system.NewTransferInstruction(
		amount,
		s.EscrowKey.PublicKey(),
		recipientPubKey,
	).Build()

	tx, err := solana.NewTransaction(
		[]solana.Instruction{transferInstruction},
		resp.Value.Blockhash,
		solana.TransactionPayer(s.EscrowKey.PublicKey()),
	)
	if err != nil {
		return "", fmt.Errorf("falha ao criar transação de pagamento: %w", err)
	}

	_, err = tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(s.EscrowKey.PublicKey()) {
			return &s.EscrowKey
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("falha ao assinar pagamento pela carteira de escrow: %w", err)
	}

	txID, err := s.RPCClient.SendTransactionWithOpts(context.Background(), tx, rpc.TransactionOpts{
		SkipPreflight:       false,
		PreflightCommitment: rpc.CommitmentConfirmed,
	})
	if err != nil {
		return "", fmt.Errorf("falha ao pagar %d lamports a %s: %w", amount, recipient, err)
	}
	log.Printf("Pagamento de %d lamports enviado a %s: %s", amount, recipient, txID)

	return txID.String(), nil
}
