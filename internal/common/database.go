package common

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

// Handle to the postgres database shared by the packages
// that persist something
type Database struct {
	DB *sql.DB
}

// Open the database and check it answers before returning
func OpenDatabase(ctx context.Context, dsn string) (Database, error) {

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return Database{}, fmt.Errorf("could not open database: %w", err)
	}
	db.SetMaxOpenConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return Database{}, fmt.Errorf("could not reach database: %w", err)
	}

	log.Info().Msg("Connected to database")
	return Database{DB: db}, nil
}

func (database *Database) Close() error {
	if database.DB == nil {
		return nil
	}
	return database.DB.Close()
}
