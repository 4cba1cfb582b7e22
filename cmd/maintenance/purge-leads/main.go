package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/eliaselmokadem/guide2umrahfrontend/internal/config"
	"github.com/eliaselmokadem/guide2umrahfrontend/internal/database"
	"github.com/joho/godotenv"
)

func main() {
	var (
		dbURLFlag string
		days      int
		dryRun    bool
	)
	flag.StringVar(&dbURLFlag, "database-url", "", "PostgreSQL connection string (overrides DATABASE_URL)")
	flag.IntVar(&days, "days", 365, "delete journal entries older than this many days")
	flag.BoolVar(&dryRun, "dry-run", false, "only print the cutoff, delete nothing")
	flag.Parse()

	// Try loading .env from current working directory (optional)
	_ = godotenv.Load()

	dbURL := dbURLFlag
	if dbURL == "" {
		dbURL = os.Getenv("DATABASE_URL")
	}
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set and -database-url was not provided")
	}
	if days < 1 {
		log.Fatal("-days must be at least 1")
	}

	cutoff := time.Now().AddDate(0, 0, -days)
	fmt.Printf("Purging leads created before %s\n", cutoff.Format(time.RFC3339))
	if dryRun {
		fmt.Println("Dry run, nothing deleted.")
		return
	}

	db, err := database.NewConnection(config.DatabaseConfig{
		URL:                dbURL,
		MaxConnections:     2,
		MaxIdleConnections: 1,
	})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	removed, err := database.NewLeadRepository(db).PurgeOlderThan(cutoff)
	if err != nil {
		log.Fatalf("purge failed: %v", err)
	}

	fmt.Printf("Done. Removed %d lead(s).\n", removed)
}
