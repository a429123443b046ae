package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/andres-erbsen/clock"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ferreirogomes/quinhao/blockchain_listener"
	"github.com/ferreirogomes/quinhao/handlers"
	"github.com/ferreirogomes/quinhao/services"
	"github.com/ferreirogomes/quinhao/storage"
)

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func main() {
	dataSourceName := envOr("DATABASE_URL",
		"host=localhost port=5432 user=quinhao password=quinhao dbname=quinhao sslmode=disable")
	solanaRPCURL := envOr("SOLANA_RPC_URL", "https://api.devnet.solana.com")
	solanaWSURL := envOr("SOLANA_WS_URL", "wss://api.devnet.solana.com")
	escrowPrivateKey := os.Getenv("ESCROW_PRIVATE_KEY")

	db, err := storage.NewDB(dataSourceName)
	if err != nil {
		log.Fatalf("Falha fatal ao conectar ao banco de dados e aplicar migrações: %v", err)
	}
	defer db.Close()

	custody, err := services.NewSolanaCustodyService(solanaRPCURL, escrowPrivateKey)
	if err != nil {
		log.Fatalf("Falha ao inicializar custódia de fundos: %v", err)
	}

	registry := services.NewRegistryService(custody, clock.New(), db)

	registryHandler := handlers.NewRegistryHandler(registry)
	ledgerHandler := handlers.NewLedgerHandler(registry)
	auctionHandler := handlers.NewAuctionHandler(registry)

	// Inicializa e inicia o listener de escrow em uma goroutine separada
	listener := blockchain_listener.NewEscrowListener(solanaRPCURL, solanaWSURL, db, escrowPrivateKey)
	go listener.StartListening()
	log.Println("Listener de escrow iniciado.")

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.URLFormat)

	r.Route("/registry", func(r chi.Router) {
		r.Post("/", registryHandler.Register)
		r.Get("/", registryHandler.ListRegistered)
		r.Get("/{owner}", registryHandler.ResolveLedger)
	})

	r.Route("/ledgers/{owner}", func(r chi.Router) {
		r.Post("/mint", ledgerHandler.Mint)
		r.Get("/assets/{assetID}", ledgerHandler.GetAsset)
		r.Get("/assets/{assetID}/balance/{holder}", ledgerHandler.GetBalance)
		r.Post("/approvals", ledgerHandler.SetApproval)

		r.Route("/auctions", func(r chi.Router) {
			r.Post("/", auctionHandler.StartAuction)
			r.Post("/deposits/prepare", auctionHandler.PrepareDeposit)
			r.Get("/{auctionID}", auctionHandler.GetAuction)
			r.Post("/{auctionID}/bids", auctionHandler.Bid)
			r.Post("/{auctionID}/end", auctionHandler.EndAuction)
		})
	})

	port := ":8080"
	fmt.Printf("Servidor backend rodando na porta %s...\n", port)
	log.Fatal(http.ListenAndServe(port, r))
}
