package blockchain_listener

import (
	"context"
	"log"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/ws"

	"github.com/ferreirogomes/quinhao/models"
	"github.com/ferreirogomes/quinhao/storage"
)

// EscrowListener escuta a carteira de escrow na Solana para manter o
// registro interno de movimentações sincronizado: depósitos recolhidos,
// devoluções e repasses ficam pendentes até a confirmação on-chain, e é o
// listener que os marca como confirmados ou falhos.
type EscrowListener struct {
	RPCClient *rpc.Client
	WSClient  *ws.Client
	DB        *storage.DB
	EscrowPub solana.PublicKey
}

// NewEscrowListener cria uma nova instância do listener.
func NewEscrowListener(rpcEndpoint, wsEndpoint string, db *storage.DB, escrowKeyBase58 string) *EscrowListener {
	rpcClient := rpc.New(rpcEndpoint)
	wsClient, err := ws.Connect(context.Background(), wsEndpoint)
	if err != nil {
		log.Fatalf("Falha ao conectar ao WebSocket Solana: %v", err)
	}

	escrowKey, err := solana.PrivateKeyFromBase58(escrowKeyBase58)
	if err != nil {
		log.Fatalf("Falha ao carregar chave da carteira de escrow para o listener: %v", err)
	}

	return &EscrowListener{
		RPCClient: rpcClient,
		WSClient:  wsClient,
		DB:        db,
		EscrowPub: escrowKey.PublicKey(),
	}
}

// StartListening inicia a escuta por transações que mencionam a carteira de
// escrow e uma varredura periódica das movimentações pendentes.
func (l *EscrowListener) StartListening() {
	log.Println("Iniciando listener de escrow...")

	go l.sweepPending()

	sub, err := l.WSClient.LogsSubscribeMentions(l.EscrowPub, rpc.CommitmentFinalized)
	if err != nil {
		log.Printf("Falha ao subscrever a logs da carteira de escrow: %v", err)
		return
	}
	defer sub.Unsubscribe()

	for {
		got, err := sub.Recv(context.Background())
		if err != nil {
			log.Printf("Erro ao receber log de transação: %v", err)
			time.Sleep(5 * time.Second)
			continue
		}

		if got.Value.Err == nil {
			l.reconcileSignature(got.Value.Signature, models.EscrowStatusConfirmed)
		} else {
			log.Printf("Transação %s falhou on-chain: %v", got.Value.Signature, got.Value.Err)
			l.reconcileSignature(got.Value.Signature, models.EscrowStatusFailed)
		}
	}
}

// reconcileSignature atualiza a movimentação associada a uma assinatura.
func (l *EscrowListener) reconcileSignature(signature solana.Signature, status string) {
	movement, found, err := l.DB.GetEscrowMovementByTransactionID(signature.String())
	if err != nil {
		log.Printf("Erro ao buscar movimentação da transação %s: %v", signature, err)
		return
	}
	if !found {
		// Transação que menciona a carteira de escrow mas não foi originada
		// pelo motor (ex.: depósito externo). Apenas registrada no log.
		log.Printf("Transação %s sem movimentação interna correspondente. Ignorando.", signature)
		return
	}
	if movement.Status == status {
		return
	}

	if err := l.DB.UpdateEscrowMovementStatus(movement.ID, status); err != nil {
		log.Printf("Falha ao atualizar movimentação %s para %s: %v", movement.ID, status, err)
		return
	}
	log.Printf("Movimentação %s (%s de %d lamports, leilão %d) marcada como %s.",
		movement.ID, movement.Kind, movement.Amount, movement.AuctionID, status)
}

// sweepPending varre periodicamente as movimentações pendentes e consulta o
// status das assinaturas, cobrindo notificações perdidas pelo WebSocket.
func (l *EscrowListener) sweepPending() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		movements, err := l.DB.GetPendingEscrowMovements()
		if err != nil {
			log.Printf("Erro ao buscar movimentações pendentes: %v", err)
			continue
		}

		for _, movement := range movements {
			if movement.TransactionID == "" {
				// Repasse que falhou antes do envio; precisa ser refeito
				// manualmente a partir do registro interno.
				continue
			}
			signature, err := solana.SignatureFromBase58(movement.TransactionID)
			if err != nil {
				log.Printf("Assinatura inválida na movimentação %s: %v", movement.ID, err)
				continue
			}

			statuses, err := l.RPCClient.GetSignatureStatuses(context.Background(), true, signature)
			if err != nil {
				log.Printf("Erro ao consultar status da transação %s: %v", signature, err)
				continue
			}
			if len(statuses.Value) == 0 || statuses.Value[0] == nil {
				continue
			}

			status := statuses.Value[0]
			switch {
			case status.Err != nil:
				l.reconcileSignature(signature, models.EscrowStatusFailed)
			case status.ConfirmationStatus == rpc.ConfirmationStatusFinalized:
				l.reconcileSignature(signature, models.EscrowStatusConfirmed)
			}
		}
	}
}
