// Command verify-db connects to the configured database, ensures the engine
// schema exists, and prints the trial balance column totals as a closure
// check. Intended for development and deployment verification.
package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"bookledger/internal/app"
	"bookledger/internal/config"
	"bookledger/internal/db"
)

func main() {
	_ = godotenv.Load()

	ctx := context.Background()
	pool, err := db.NewPool(ctx)
	if err != nil {
		log.Fatalf("[CONNECT] %v", err)
	}
	defer pool.Close()
	log.Println("[CONNECT] success")

	if err := db.EnsureSchema(ctx, pool); err != nil {
		log.Fatalf("[SCHEMA] %v", err)
	}
	log.Println("[SCHEMA] all tables present")

	cfg, err := config.Load("bookledger.yaml")
	if err != nil {
		log.Fatalf("[CONFIG] %v", err)
	}

	svc := app.New(pool, cfg)
	tb, err := svc.TrialBalance(ctx)
	if err != nil {
		log.Fatalf("[TRIAL BALANCE] %v", err)
	}

	log.Printf("[TRIAL BALANCE] %d accounts, Dr %s / Cr %s",
		len(tb.Rows), tb.TotalDr.StringFixed(2), tb.TotalCr.StringFixed(2))
	if !tb.Balanced {
		log.Fatalf("[TRIAL BALANCE] NOT BALANCED: double-entry closure violated")
	}
	log.Println("[DONE] ledger is balanced")
}
