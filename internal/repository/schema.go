package repository

import "context"

// Schema holds the DDL for every table the repositories touch. Applied on
// startup; all statements are idempotent.
const Schema = `
CREATE TABLE IF NOT EXISTS users (
    id uuid PRIMARY KEY,
    name text NOT NULL DEFAULT '',
    leetcode_id text,
    github_username text,
    gfg_id text,
    created_at timestamptz NOT NULL DEFAULT now(),
    updated_at timestamptz NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_users_leetcode_id ON users (leetcode_id);
CREATE INDEX IF NOT EXISTS idx_users_github_username ON users (github_username);

CREATE TABLE IF NOT EXISTS heatmap_records (
    user_id uuid NOT NULL REFERENCES users (id) ON DELETE CASCADE,
    platform text NOT NULL,
    username text NOT NULL,
    active_years bigint[] NOT NULL DEFAULT '{}',
    years jsonb NOT NULL DEFAULT '{}',
    total_active_days integer NOT NULL DEFAULT 0,
    total_submissions integer NOT NULL DEFAULT 0,
    max_streak integer NOT NULL DEFAULT 0,
    last_updated timestamptz NOT NULL DEFAULT now(),
    PRIMARY KEY (user_id, platform)
);

CREATE INDEX IF NOT EXISTS idx_heatmap_records_last_updated ON heatmap_records (last_updated);
`

// EnsureSchema applies the DDL against the given connection.
func EnsureSchema(ctx context.Context, conn PgConnection) error {
	_, err := conn.Exec(ctx, Schema)
	return err
}
