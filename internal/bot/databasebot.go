package bot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"overseer/internal/common"
)

const MaxIgnLength = 64

var (
	ErrNotRegistered = errors.New("no ign registered")
	ErrIgnEmpty      = errors.New("ign is empty")
	ErrIgnTooLong    = fmt.Errorf("ign is longer than %d characters", MaxIgnLength)
)

// IGN registered by a discord user
type Entry struct {
	UserId      string
	Ign         string
	LastUpdated time.Time
}

// Where the bot keeps the IGN of every member
type Registry interface {
	SetIgn(ctx context.Context, userId string, ign string) error
	GetIgn(ctx context.Context, userId string) (Entry, error)
	RemoveIgn(ctx context.Context, userId string) (bool, error)
}

type DatabaseBot struct {
	common.Database
}

func NewDatabaseBot(database common.Database) *DatabaseBot {
	return &DatabaseBot{database}
}

const createTableQuery = `
CREATE TABLE IF NOT EXISTS user_igns (
	user_id TEXT PRIMARY KEY,
	ign TEXT NOT NULL,
	last_updated TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
)`

const upsertIgnQuery = `
INSERT INTO user_igns (user_id, ign) VALUES ($1, $2)
ON CONFLICT (user_id) DO UPDATE SET ign = EXCLUDED.ign, last_updated = CURRENT_TIMESTAMP`

const selectIgnQuery = `SELECT ign, last_updated FROM user_igns WHERE user_id = $1`

const deleteIgnQuery = `DELETE FROM user_igns WHERE user_id = $1`

func (db *DatabaseBot) EnsureSchema(ctx context.Context) error {
	if _, err := db.DB.ExecContext(ctx, createTableQuery); err != nil {
		return fmt.Errorf("could not create table user_igns: %w", err)
	}
	return nil
}

// Clean an IGN typed by a user and check it can be stored
func NormaliseIgn(ign string) (string, error) {
	ign = strings.Join(strings.Fields(ign), " ")
	if ign == "" {
		return "", ErrIgnEmpty
	}
	if utf8.RuneCountInString(ign) > MaxIgnLength {
		return "", ErrIgnTooLong
	}
	return ign, nil
}

func (db *DatabaseBot) SetIgn(ctx context.Context, userId string, ign string) error {
	ign, err := NormaliseIgn(ign)
	if err != nil {
		return err
	}
	if _, err := db.DB.ExecContext(ctx, upsertIgnQuery, userId, ign); err != nil {
		return fmt.Errorf("could not save ign of user %s: %w", userId, err)
	}
	return nil
}

func (db *DatabaseBot) GetIgn(ctx context.Context, userId string) (Entry, error) {
	entry := Entry{UserId: userId}
	var lastUpdated sql.NullTime
	err := db.DB.QueryRowContext(ctx, selectIgnQuery, userId).Scan(&entry.Ign, &lastUpdated)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, ErrNotRegistered
	}
	if err != nil {
		return Entry{}, fmt.Errorf("could not read ign of user %s: %w", userId, err)
	}
	entry.LastUpdated = lastUpdated.Time
	return entry, nil
}

// Remove the IGN of the user, reporting if there was one
func (db *DatabaseBot) RemoveIgn(ctx context.Context, userId string) (bool, error) {
	result, err := db.DB.ExecContext(ctx, deleteIgnQuery, userId)
	if err != nil {
		return false, fmt.Errorf("could not remove ign of user %s: %w", userId, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("could not count removed rows: %w", err)
	}
	return rows > 0, nil
}
