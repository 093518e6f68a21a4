package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MilchZocker/UCC-DreamPacket/internal/models"
)

// SQLStore persists session records in the sessions table, one flat record
// per client key. Works against sqlite and mysql via database/sql.
type SQLStore struct {
	db     *sql.DB
	upsert string
}

// NewSQLStore wraps an opened and migrated database handle. The driver name
// selects the upsert dialect; it must match the one passed to storage.Open.
func NewSQLStore(db *sql.DB, driver string) *SQLStore {
	// mysql's RowsAffected counts changed rows, not matched ones, so an
	// UPDATE-then-INSERT upsert misfires on byte-identical rewrites. Use
	// each driver's native conflict clause instead.
	upsert := `INSERT INTO sessions (client_key, record, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(client_key) DO UPDATE SET record = excluded.record, updated_at = excluded.updated_at`
	if strings.ToLower(driver) == "mysql" {
		upsert = `INSERT INTO sessions (client_key, record, updated_at) VALUES (?, ?, ?)
			ON DUPLICATE KEY UPDATE record = VALUES(record), updated_at = VALUES(updated_at)`
	}
	return &SQLStore{db: db, upsert: upsert}
}

func (s *SQLStore) Get(ctx context.Context, clientKey string) (models.Session, error) {
	if clientKey == "" {
		return models.DefaultSession(), errors.New("client key required")
	}
	var record string
	err := s.db.QueryRowContext(ctx,
		`SELECT record FROM sessions WHERE client_key = ?`, clientKey,
	).Scan(&record)
	if errors.Is(err, sql.ErrNoRows) {
		return models.DefaultSession(), nil
	}
	if err != nil {
		return models.DefaultSession(), fmt.Errorf("load session: %w", err)
	}
	return models.DecodeRecord(record), nil
}

func (s *SQLStore) Put(ctx context.Context, clientKey string, sess models.Session) error {
	if clientKey == "" {
		return errors.New("client key required")
	}
	record := sess.EncodeRecord()
	now := time.Now().UTC()
	if _, err := s.db.ExecContext(ctx, s.upsert, clientKey, record, now); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}
