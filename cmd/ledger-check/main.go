// Command ledger-check verifies the Google Sheets ledger is reachable with
// the configured credentials, so export problems surface before deploying
// the worker.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"pitaka/internal/export/google"
)

func main() {
	_ = godotenv.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := google.NewFromEnv(ctx)
	if err != nil {
		log.Fatalf("initialize sheets client: %v", err)
	}

	if err := client.Ping(ctx); err != nil {
		log.Fatalf("ledger check failed: %v", err)
	}

	fmt.Printf("Ledger reachable: spreadsheet %s\n", os.Getenv("GOOGLE_SPREADSHEET_ID"))
}
