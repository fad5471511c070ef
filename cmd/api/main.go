package main

import (
	"log"
	"os"
	"time"

	"github.com/ayoubkr/maalem-market/internal/ai"
	"github.com/ayoubkr/maalem-market/internal/database"
	"github.com/ayoubkr/maalem-market/internal/handlers"
	"github.com/ayoubkr/maalem-market/internal/routes"
	"github.com/joho/godotenv"
)

func main() {
	// 0. --- Load Environment Variables (.env) ---
	if err := godotenv.Load(); err != nil {
		log.Println("WARNING: Could not find or load .env file. Relying on system environment variables.")
	}

	// 1. --- Main Database Connection (Read/Write) ---
	db, err := database.OpenDB()
	if err != nil {
		log.Fatalf("Failed to connect to primary database: %v", err)
	}
	defer db.Close()

	app := &handlers.Handlers{
		DB: db,
	}

	// 2. --- Analysis Assistant (optional) ---
	// Needs both a read-only DSN and a Gemini key; without them the admin
	// analysis endpoint answers 503 and everything else runs normally.
	readOnlyDSN := os.Getenv("DB_DSN_READONLY")
	geminiKey := os.Getenv("GEMINI_API_KEY")
	if readOnlyDSN != "" && geminiKey != "" {
		dbReadOnly, err := database.OpenDBWithDSN(readOnlyDSN)
		if err != nil {
			log.Fatalf("Failed to connect to read-only database: %v", err)
		}
		defer dbReadOnly.Close()

		analysis, err := ai.NewAnalysisService(geminiKey, dbReadOnly)
		if err != nil {
			log.Fatalf("Failed to initialize analysis service: %v", err)
		}
		app.DBReadOnly = dbReadOnly
		app.Analysis = analysis
	} else {
		log.Println("Analysis assistant disabled (set DB_DSN_READONLY and GEMINI_API_KEY to enable)")
	}

	// 3. --- Background Worker ---
	// Sweeps offers that sat pending past their TTL and auto-rejects them.
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		log.Println("Background worker started: monitoring for stale pending offers...")

		for range ticker.C {
			app.SweepStaleOffers()
		}
	}()

	// --- Router Setup ---
	router := routes.SetupRouter(app)

	// --- Start Server ---
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Starting Maalem Market API server on port %s...", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
