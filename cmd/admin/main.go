package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"

	"civicchain/backend/internal/complaint"
	"civicchain/backend/internal/config"
	"civicchain/backend/internal/logging"
	"civicchain/backend/internal/storage"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const usage = `Usage: admin <command> [args]

Commands:
  set-status <complaint_id> <status>
  grant <wallet> <amount>
  resolve <complaint_id> <lawyer_wallet>
  leaderboard`

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required for the admin CLI")
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	logger := logging.Must(cfg.IsDevelopment())
	defer logger.Sync()

	// No validator or feed: admin changes are not reviewed or broadcast.
	svc := complaint.NewService(storage.NewStorageService(db), nil, nil, logger)

	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(1)
	}

	ctx := context.Background()
	command := os.Args[1]

	switch command {
	case "set-status":
		if len(os.Args) != 4 {
			fmt.Println("Usage: admin set-status <complaint_id> <status>")
			os.Exit(1)
		}
		id := parseID(os.Args[2])
		updated, err := svc.UpdateStatus(ctx, id, os.Args[3])
		if err != nil {
			log.Fatalf("Error updating complaint: %v", err)
		}
		fmt.Printf("Complaint %d is now %q.\n", updated.ID, updated.Status)
	case "grant":
		if len(os.Args) != 4 {
			fmt.Println("Usage: admin grant <wallet> <amount>")
			os.Exit(1)
		}
		amount, err := strconv.ParseInt(os.Args[3], 10, 64)
		if err != nil {
			fmt.Println("Invalid amount. Please provide an integer.")
			os.Exit(1)
		}
		user, err := svc.Grant(ctx, os.Args[2], amount)
		if err != nil {
			log.Fatalf("Error granting tokens: %v", err)
		}
		fmt.Printf("User %s now holds %d tokens.\n", user.WalletAddress, user.Tokens)
	case "resolve":
		if len(os.Args) != 4 {
			fmt.Println("Usage: admin resolve <complaint_id> <lawyer_wallet>")
			os.Exit(1)
		}
		id := parseID(os.Args[2])
		updated, lawyer, err := svc.Resolve(ctx, id, os.Args[3])
		if err != nil {
			log.Fatalf("Error resolving complaint: %v", err)
		}
		fmt.Printf("Complaint %d resolved by %s (%d cases).\n", updated.ID, lawyer.WalletAddress, lawyer.CasesResolved)
	case "leaderboard":
		users, err := svc.Leaderboard(ctx)
		if err != nil {
			log.Fatalf("Error loading leaderboard: %v", err)
		}
		for i, u := range users {
			fmt.Printf("%2d. %-44s %6d tokens\n", i+1, u.WalletAddress, u.Tokens)
		}
	default:
		fmt.Println("Unknown command")
		fmt.Println(usage)
		os.Exit(1)
	}
}

func parseID(raw string) int64 {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		fmt.Println("Invalid complaint ID. Please provide a positive integer.")
		os.Exit(1)
	}
	return id
}
