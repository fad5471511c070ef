package handlers

import (
	"database/sql"

	"github.com/ayoubkr/maalem-market/internal/ai"
)

// Handlers struct holds all dependencies for our handlers.
type Handlers struct {
	DB         *sql.DB             // Primary Read/Write connection
	DBReadOnly *sql.DB             // Read-Only connection (analysis assistant)
	Analysis   *ai.AnalysisService // Admin analysis assistant
}
