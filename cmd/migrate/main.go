// Command migrate is a one-time import of the legacy bills database into
// the inventory file. Every line item of every bill is appended as its own
// lot with fresh timestamps; nothing is merged, duplicate (name, batch)
// pairs are reconciled by later commits.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"strings"
	"time"

	"medibill/backend/internal/domain"
	filestore "medibill/backend/internal/store/file"
)

type legacyBill struct {
	Party  string            `json:"party"`
	BillNo string            `json:"bill_no"`
	Items  []domain.LineItem `json:"items"`
}

func main() {
	billsPath := flag.String("bills", "data/bills_database.json", "path to the legacy bills database")
	dataDir := flag.String("data", "data", "inventory data directory")
	flag.Parse()

	raw, err := os.ReadFile(*billsPath)
	if err != nil {
		log.Fatalf("[migrate] read bills: %v", err)
	}

	var bills []legacyBill
	if err := json.Unmarshal(raw, &bills); err != nil {
		log.Fatalf("[migrate] parse bills: %v", err)
	}
	log.Printf("[migrate] found %d bills", len(bills))

	repo, err := filestore.New(*dataDir)
	if err != nil {
		log.Fatalf("[migrate] open store: %v", err)
	}

	ctx := context.Background()
	lots, err := repo.LoadLots(ctx)
	if err != nil {
		log.Fatalf("[migrate] load inventory: %v", err)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	migrated := 0
	for _, bill := range bills {
		for _, item := range bill.Items {
			lots = append(lots, domain.LotRecord{
				ItemName:    strings.TrimSpace(item.ItemName),
				Unit:        strings.TrimSpace(item.Unit),
				Batch:       strings.TrimSpace(item.Batch),
				ExpDt:       strings.TrimSpace(item.ExpDt),
				MRP:         strings.TrimSpace(item.MRP),
				PTR:         strings.TrimSpace(item.PTR),
				GSTPercent:  strings.TrimSpace(item.GSTPercent),
				Qty:         strings.TrimSpace(item.Qty),
				AddedAt:     now,
				LastUpdated: now,
			})
			migrated++
		}
	}

	if err := repo.ReplaceLots(ctx, lots); err != nil {
		log.Fatalf("[migrate] save inventory: %v", err)
	}
	log.Printf("[migrate] migrated %d items into %s", migrated, repo.Path())
}
