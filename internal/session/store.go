// Package session persists the per-client canvas records behind a small
// keyed store interface so the backend can be swapped between sqlite/mysql,
// redis, and an in-memory map for tests.
package session

import (
	"context"

	"github.com/MilchZocker/UCC-DreamPacket/internal/models"
)

// Store defines how per-client sessions are stored and retrieved.
// A key with no stored record resolves to models.DefaultSession; reading
// never distinguishes "missing" from "fresh". Writes are last-writer-wins
// with no cross-call atomicity.
type Store interface {
	Get(ctx context.Context, clientKey string) (models.Session, error)
	Put(ctx context.Context, clientKey string, s models.Session) error
}
