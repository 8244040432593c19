package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"codeboard/internal/models"
)

// ErrNotFound is returned when a record or user does not exist.
var ErrNotFound = errors.New("not found")

type HeatmapRepositoryI interface {
	// Get loads the full record for one (user, platform) pair.
	Get(ctx context.Context, userID uuid.UUID, platform models.Platform) (*models.HeatmapRecord, error)
	// UpsertYear replaces a single year entry wholesale, merges activeYears
	// and recomputes the record-level totals, all as one atomic write.
	// Replaying identical inputs produces the same stored data.
	UpsertYear(ctx context.Context, userID uuid.UUID, platform models.Platform, username string, year int, entry *models.YearEntry, activeYears []int) (*models.HeatmapRecord, error)
	// PutActiveYears records the known years without storing any calendar,
	// creating the record if needed.
	PutActiveYears(ctx context.Context, userID uuid.UUID, platform models.Platform, username string, years []int) (*models.HeatmapRecord, error)
	// ListYears is a cheap projection of activeYears, without calendar payloads.
	ListYears(ctx context.Context, userID uuid.UUID, platform models.Platform) ([]int, error)
	// ListAll loads every record, for the backup exporter.
	ListAll(ctx context.Context) ([]*models.HeatmapRecord, error)
	// DeleteStale removes records whose last successful fetch is older than
	// the cutoff. Returns the number of removed records.
	DeleteStale(ctx context.Context, cutoff time.Time) (int64, error)
}

type UsersRepositoryI interface {
	// FindByHandle resolves the local user owning the given platform handle.
	FindByHandle(ctx context.Context, platform models.Platform, handle string) (*models.User, error)
	// FindByID looks up a user by primary key.
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// PgConnection is the subset of pgxpool.Pool the repositories need.
// pgxmock pools satisfy it too, which keeps repository tests database-free.
type PgConnection interface {
	Ping(ctx context.Context) error
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}
