package storage

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	migrate "github.com/rubenv/sql-migrate"

	"github.com/ferreirogomes/quinhao/models"
)

// DB representa a conexão com o banco de dados PostgreSQL usado como
// registro interno. A fonte de verdade é o estado dos serviços; o banco
// existe para consulta e para a reconciliação do listener.
type DB struct {
	*sqlx.DB
}

// NewDB conecta-se ao PostgreSQL e executa as migrações.
func NewDB(dataSourceName string) (*DB, error) {
	db, err := sqlx.Connect("postgres", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("falha ao conectar ao banco de dados: %w", err)
	}

	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("falha ao pingar o banco de dados: %w", err)
	}
	log.Println("Conexão com PostgreSQL estabelecida com sucesso.")

	if err := runMigrations(db.DB); err != nil {
		return nil, fmt.Errorf("falha ao executar migrações: %w", err)
	}

	return &DB{db}, nil
}

// runMigrations executa as migrações usando sql-migrate.
func runMigrations(db *sql.DB) error {
	migrations := &migrate.FileMigrationSource{
		Dir: "./storage/migrations",
	}

	n, err := migrate.Exec(db, "postgres", migrations, migrate.Up)
	if err != nil {
		return fmt.Errorf("erro ao aplicar migrações: %w", err)
	}
	if n > 0 {
		log.Printf("Aplicadas %d migrações ao banco de dados.", n)
	} else {
		log.Println("Nenhuma migração nova para aplicar.")
	}
	return nil
}

// SaveLedger registra um ledger recém-criado pelo diretório.
func (d *DB) SaveLedger(owner string) error {
	query := `INSERT INTO ledgers (owner, created_at) VALUES ($1, $2)
		ON CONFLICT (owner) DO NOTHING`
	if _, err := d.Exec(query, owner, time.Now()); err != nil {
		return fmt.Errorf("falha ao salvar ledger: %w", err)
	}
	return nil
}

// SaveAsset registra um ativo emitido. Ativos são imutáveis após a emissão.
func (d *DB) SaveAsset(asset models.Asset) error {
	query := `INSERT INTO assets (ledger_owner, id, metadata_uri, total_fractions, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (ledger_owner, id) DO NOTHING`
	_, err := d.Exec(query, asset.LedgerOwner, asset.ID, asset.MetadataURI, asset.TotalFractions, asset.CreatedAt)
	if err != nil {
		return fmt.Errorf("falha ao salvar ativo: %w", err)
	}
	return nil
}

// SaveBalance espelha o saldo atual de um titular em um ativo.
func (d *DB) SaveBalance(balance models.Balance) error {
	query := `INSERT INTO balances (ledger_owner, asset_id, holder, amount)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (ledger_owner, asset_id, holder) DO UPDATE SET amount = EXCLUDED.amount`
	_, err := d.Exec(query, balance.LedgerOwner, balance.AssetID, balance.Holder, balance.Amount)
	if err != nil {
		return fmt.Errorf("falha ao salvar saldo: %w", err)
	}
	return nil
}

// SaveAuction registra um leilão recém-aberto.
func (d *DB) SaveAuction(auction models.Auction) error {
	query := `INSERT INTO auctions (ledger_owner, id, seller, asset_id, quantity, floor_price,
		upfront_fee, highest_bid, highest_bidder, start_time, end_time, settled)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := d.Exec(query, auction.LedgerOwner, auction.ID, auction.Seller, auction.AssetID,
		auction.Quantity, auction.FloorPrice, auction.UpfrontFee, auction.HighestBid,
		auction.HighestBidder, auction.StartTime, auction.EndTime, auction.Settled)
	if err != nil {
		return fmt.Errorf("falha ao salvar leilão: %w", err)
	}
	return nil
}

// UpdateAuction espelha lance aceito ou liquidação de um leilão.
func (d *DB) UpdateAuction(auction models.Auction) error {
	query := `UPDATE auctions SET highest_bid = $1, highest_bidder = $2, settled = $3
		WHERE ledger_owner = $4 AND id = $5`
	_, err := d.Exec(query, auction.HighestBid, auction.HighestBidder, auction.Settled,
		auction.LedgerOwner, auction.ID)
	if err != nil {
		return fmt.Errorf("falha ao atualizar leilão: %w", err)
	}
	return nil
}

// SaveEscrowMovement registra uma movimentação de fundos sob escrow.
func (d *DB) SaveEscrowMovement(m models.EscrowMovement) error {
	query := `INSERT INTO escrow_movements (id, ledger_owner, auction_id, kind, counterparty,
		amount, transaction_id, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := d.Exec(query, m.ID, m.LedgerOwner, m.AuctionID, m.Kind, m.Counterparty,
		m.Amount, m.TransactionID, m.Status, m.CreatedAt)
	if err != nil {
		return fmt.Errorf("falha ao salvar movimentação de escrow: %w", err)
	}
	return nil
}

// UpdateEscrowMovementStatus atualiza o status de uma movimentação após a
// reconciliação do listener.
func (d *DB) UpdateEscrowMovementStatus(id, status string) error {
	query := `UPDATE escrow_movements SET status = $1 WHERE id = $2`
	if _, err := d.Exec(query, status, id); err != nil {
		return fmt.Errorf("falha ao atualizar movimentação de escrow: %w", err)
	}
	return nil
}

// GetEscrowMovementByTransactionID busca a movimentação associada a uma
// assinatura de transação on-chain.
func (d *DB) GetEscrowMovementByTransactionID(txID string) (models.EscrowMovement, bool, error) {
	var m models.EscrowMovement
	err := d.Get(&m, `SELECT * FROM escrow_movements WHERE transaction_id = $1`, txID)
	if err == sql.ErrNoRows {
		return models.EscrowMovement{}, false, nil
	}
	if err != nil {
		return models.EscrowMovement{}, false, fmt.Errorf("falha ao buscar movimentação por transação: %w", err)
	}
	return m, true, nil
}

// GetPendingEscrowMovements retorna as movimentações ainda não confirmadas
// on-chain, em ordem de criação.
func (d *DB) GetPendingEscrowMovements() ([]models.EscrowMovement, error) {
	var movements []models.EscrowMovement
	err := d.Select(&movements, `SELECT * FROM escrow_movements WHERE status = $1 ORDER BY created_at`,
		models.EscrowStatusPending)
	if err != nil {
		return nil, fmt.Errorf("falha ao buscar movimentações pendentes: %w", err)
	}
	return movements, nil
}
