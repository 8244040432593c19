package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/spf13/cast"

	"codeboard/internal/models"
	"codeboard/internal/providers"
)

const heatmapColumns = "username, active_years, years, total_active_days, total_submissions, max_streak, last_updated"

type HeatmapRepository struct {
	conn   PgConnection
	logger providers.Logger
	locks  sync.Map // "userID|platform" → *sync.Mutex
	now    func() time.Time
}

func NewHeatmapRepo(conn PgConnection, logger providers.Logger) HeatmapRepositoryI {
	return &HeatmapRepository{
		conn:   conn,
		logger: logger,
		now:    time.Now,
	}
}

func (r *HeatmapRepository) Get(ctx context.Context, userID uuid.UUID, platform models.Platform) (*models.HeatmapRecord, error) {
	row := r.conn.QueryRow(ctx,
		`SELECT `+heatmapColumns+` FROM heatmap_records WHERE user_id = $1 AND platform = $2;`,
		userID, string(platform))
	return r.scanRecord(row, userID, platform)
}

// UpsertYear serializes writes per (user, platform) with an in-process lock
// and a row lock, so concurrent year writes for the same user cannot lose
// each other's contribution to the totals.
func (r *HeatmapRepository) UpsertYear(ctx context.Context, userID uuid.UUID, platform models.Platform, username string, year int, entry *models.YearEntry, activeYears []int) (*models.HeatmapRecord, error) {
	return r.updateLocked(ctx, userID, platform, username, func(rec *models.HeatmapRecord) {
		rec.PutYear(year, entry)
		rec.MergeActiveYears(activeYears)
	})
}

func (r *HeatmapRepository) PutActiveYears(ctx context.Context, userID uuid.UUID, platform models.Platform, username string, years []int) (*models.HeatmapRecord, error) {
	return r.updateLocked(ctx, userID, platform, username, func(rec *models.HeatmapRecord) {
		rec.MergeActiveYears(years)
	})
}

func (r *HeatmapRepository) updateLocked(ctx context.Context, userID uuid.UUID, platform models.Platform, username string, mutate func(*models.HeatmapRecord)) (*models.HeatmapRecord, error) {
	lock := r.lockFor(userID, platform)
	lock.Lock()
	defer lock.Unlock()

	tx, err := r.conn.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning heatmap upsert: %w", err)
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx,
		`SELECT `+heatmapColumns+` FROM heatmap_records WHERE user_id = $1 AND platform = $2 FOR UPDATE;`,
		userID, string(platform))
	rec, err := r.scanRecord(row, userID, platform)
	if errors.Is(err, ErrNotFound) {
		rec = models.NewHeatmapRecord(userID, platform, username)
	} else if err != nil {
		return nil, err
	}

	rec.Username = username
	mutate(rec)
	rec.LastUpdated = r.now().UTC()

	yearsJSON, err := encodeYears(rec.Years)
	if err != nil {
		return nil, fmt.Errorf("encoding year entries: %w", err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO heatmap_records (user_id, platform, username, active_years, years, total_active_days, total_submissions, max_streak, last_updated)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (user_id, platform) DO UPDATE SET
			username = EXCLUDED.username,
			active_years = EXCLUDED.active_years,
			years = EXCLUDED.years,
			total_active_days = EXCLUDED.total_active_days,
			total_submissions = EXCLUDED.total_submissions,
			max_streak = EXCLUDED.max_streak,
			last_updated = EXCLUDED.last_updated;`,
		userID, string(platform), rec.Username, toInt64s(rec.ActiveYears), yearsJSON,
		rec.TotalActiveDays, rec.TotalSubmissions, rec.MaxStreak, rec.LastUpdated)
	if err != nil {
		return nil, fmt.Errorf("upserting heatmap record: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing heatmap upsert: %w", err)
	}
	return rec, nil
}

func (r *HeatmapRepository) ListYears(ctx context.Context, userID uuid.UUID, platform models.Platform) ([]int, error) {
	var activeYears []int64
	row := r.conn.QueryRow(ctx,
		`SELECT active_years FROM heatmap_records WHERE user_id = $1 AND platform = $2;`,
		userID, string(platform))
	if err := row.Scan(&activeYears); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("listing heatmap years: %w", err)
	}
	return toInts(activeYears), nil
}

func (r *HeatmapRepository) ListAll(ctx context.Context) ([]*models.HeatmapRecord, error) {
	rows, err := r.conn.Query(ctx,
		`SELECT user_id, platform, `+heatmapColumns+` FROM heatmap_records ORDER BY user_id, platform;`)
	if err != nil {
		return nil, fmt.Errorf("listing heatmap records: %w", err)
	}
	defer rows.Close()

	var records []*models.HeatmapRecord
	for rows.Next() {
		var (
			userID      uuid.UUID
			platform    string
			username    string
			activeYears []int64
			yearsJSON   []byte
			rec         models.HeatmapRecord
		)
		err := rows.Scan(&userID, &platform, &username, &activeYears, &yearsJSON,
			&rec.TotalActiveDays, &rec.TotalSubmissions, &rec.MaxStreak, &rec.LastUpdated)
		if err != nil {
			return nil, fmt.Errorf("scanning heatmap record: %w", err)
		}
		rec.UserID = userID
		rec.Platform = models.Platform(platform)
		rec.Username = username
		rec.ActiveYears = toInts(activeYears)
		rec.Years = r.decodeYears(yearsJSON)
		records = append(records, &rec)
	}
	return records, rows.Err()
}

func (r *HeatmapRepository) DeleteStale(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.conn.Exec(ctx, `DELETE FROM heatmap_records WHERE last_updated < $1;`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("deleting stale heatmap records: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *HeatmapRepository) scanRecord(row pgx.Row, userID uuid.UUID, platform models.Platform) (*models.HeatmapRecord, error) {
	var (
		activeYears []int64
		yearsJSON   []byte
	)
	rec := models.NewHeatmapRecord(userID, platform, "")
	err := row.Scan(&rec.Username, &activeYears, &yearsJSON,
		&rec.TotalActiveDays, &rec.TotalSubmissions, &rec.MaxStreak, &rec.LastUpdated)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning heatmap record: %w", err)
	}
	rec.ActiveYears = toInts(activeYears)
	rec.Years = r.decodeYears(yearsJSON)
	return rec, nil
}

func (r *HeatmapRepository) lockFor(userID uuid.UUID, platform models.Platform) *sync.Mutex {
	key := userID.String() + "|" + string(platform)
	lock, _ := r.locks.LoadOrStore(key, &sync.Mutex{})
	return lock.(*sync.Mutex)
}

func encodeYears(years map[int]*models.YearEntry) ([]byte, error) {
	out := make(map[string]*models.YearEntry, len(years))
	for year, entry := range years {
		out[strconv.Itoa(year)] = entry
	}
	return json.Marshal(out)
}

// decodeYears parses the stored year map. Non-integer year keys are rejected
// at this boundary: logged and dropped, never propagated.
func (r *HeatmapRepository) decodeYears(data []byte) map[int]*models.YearEntry {
	result := make(map[int]*models.YearEntry)
	if len(data) == 0 {
		return result
	}
	var raw map[string]*models.YearEntry
	if err := json.Unmarshal(data, &raw); err != nil {
		r.logger.Warnf(providers.TypeStore, "Dropping unreadable years payload: %s", err)
		return result
	}
	for key, entry := range raw {
		year, err := cast.ToIntE(key)
		if err != nil {
			r.logger.Warnf(providers.TypeStore, "Dropping non-integer year key %q", key)
			continue
		}
		result[year] = entry
	}
	return result
}

func toInt64s(years []int) []int64 {
	out := make([]int64, len(years))
	for i, y := range years {
		out[i] = int64(y)
	}
	return out
}

func toInts(years []int64) []int {
	out := make([]int, len(years))
	for i, y := range years {
		out[i] = int(y)
	}
	return out
}
