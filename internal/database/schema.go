package database

import (
	"context"
	"log/slog"

	"github.com/KirkDiggler/dungeon-master/internal/errors"
)

// Entities are stored as JSON documents next to the columns they are looked up by.
const commonSchema = `
CREATE TABLE IF NOT EXISTS campaigns (
	id         TEXT PRIMARY KEY,
	user_id    TEXT NOT NULL,
	created_at TEXT NOT NULL,
	data       TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_campaigns_user ON campaigns (user_id);

CREATE TABLE IF NOT EXISTS characters (
	id          TEXT PRIMARY KEY,
	campaign_id TEXT NOT NULL,
	user_id     TEXT NOT NULL DEFAULT '',
	version     BIGINT NOT NULL,
	created_at  TEXT NOT NULL,
	data        TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_characters_campaign ON characters (campaign_id);
CREATE INDEX IF NOT EXISTS idx_characters_user ON characters (user_id);

CREATE TABLE IF NOT EXISTS sessions (
	id          TEXT PRIMARY KEY,
	campaign_id TEXT NOT NULL,
	created_at  TEXT NOT NULL,
	data        TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sessions_campaign ON sessions (campaign_id);
`

const sqliteMessages = `
CREATE TABLE IF NOT EXISTS messages (
	seq        INTEGER PRIMARY KEY AUTOINCREMENT,
	id         TEXT NOT NULL UNIQUE,
	session_id TEXT NOT NULL,
	data       TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_messages_session ON messages (session_id, seq);
`

const postgresMessages = `
CREATE TABLE IF NOT EXISTS messages (
	seq        BIGSERIAL PRIMARY KEY,
	id         TEXT NOT NULL UNIQUE,
	session_id TEXT NOT NULL,
	data       TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_messages_session ON messages (session_id, seq);
`

// Migrate creates any missing tables and indexes
func (db *DB) Migrate(ctx context.Context) error {
	messages := sqliteMessages
	if db.Driver == DriverPostgres {
		messages = postgresMessages
	}

	for _, stmt := range []string{commonSchema, messages} {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return errors.Store(err, "failed to migrate schema")
		}
	}

	slog.InfoContext(ctx, "database schema ready", "driver", db.Driver)
	return nil
}
