package db

import (
	"context"
	"fmt"
)

// applicationsDDL is idempotent so EnsureSchema can run on every startup.
const applicationsDDL = `
CREATE TABLE IF NOT EXISTS applications (
    id TEXT PRIMARY KEY,
    company TEXT NOT NULL,
    position TEXT NOT NULL,
    location TEXT NOT NULL DEFAULT '',
    salary TEXT NOT NULL DEFAULT '',
    contract_type TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL DEFAULT 'submitted',
    applied_date TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    match_score INTEGER NOT NULL DEFAULT 0,
    description TEXT NOT NULL DEFAULT '',
    url TEXT NOT NULL DEFAULT '',
    cv_path TEXT NOT NULL DEFAULT '',
    cover_path TEXT NOT NULL DEFAULT '',
    logo_url TEXT NOT NULL DEFAULT '',
    language TEXT NOT NULL DEFAULT 'fr',
    cv_data JSONB,
    cover_data JSONB,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS applications_status_idx ON applications (status);
CREATE INDEX IF NOT EXISTS applications_created_at_idx ON applications (created_at DESC);
`

// EnsureSchema creates the applications table and its indexes when missing
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, applicationsDDL); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}
