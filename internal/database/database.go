package database

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// OpenDB initializes and returns the primary Read/Write connection pool.
// The DSN comes from the DB_DSN_PRIMARY environment variable.
func OpenDB() (*sql.DB, error) {
	dsn := os.Getenv("DB_DSN_PRIMARY")
	if dsn == "" {
		return nil, fmt.Errorf("DB_DSN_PRIMARY environment variable is not set")
	}
	return OpenDBWithDSN(dsn)
}

// OpenDBWithDSN creates and configures a DB connection pool using any
// provided DSN string. Used for both the primary and the read-only pools.
func OpenDBWithDSN(dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		log.Printf("Error connecting to database: %v", err)
		return nil, err
	}

	log.Println("Database connection pool established successfully")
	return db, nil
}
