package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"location-api/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrPoolExhausted is returned when no pooled connection becomes available
// within the acquire timeout. Callers should treat it as retryable.
var ErrPoolExhausted = errors.New("repository: connection pool exhausted")

const selectColumns = `
	postcode,
	latitude,
	longitude,
	town,
	county,
	street1,
	street2,
	district1,
	district2`

// Repository executes indexed lookups against the locations table. Every
// query checks a connection out of the pool for its duration and returns it
// on all paths; acquisition waits at most acquireTimeout.
type Repository struct {
	db             *pgxpool.Pool
	acquireTimeout time.Duration
}

// NewRepository creates a new PostgreSQL repository.
func NewRepository(db *pgxpool.Pool, acquireTimeout time.Duration) *Repository {
	return &Repository{db: db, acquireTimeout: acquireTimeout}
}

// acquire checks a connection out of the pool, waiting at most
// acquireTimeout. The caller must Release the returned connection.
func (r *Repository) acquire(ctx context.Context) (*pgxpool.Conn, error) {
	acquireCtx, cancel := context.WithTimeout(ctx, r.acquireTimeout)
	defer cancel()

	conn, err := r.db.Acquire(acquireCtx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return nil, ErrPoolExhausted
		}
		return nil, fmt.Errorf("repository: failed to acquire connection: %w", err)
	}
	return conn, nil
}

// LookupPostcode returns the single record matching the canonical postcode
// exactly, or nil when the postcode is not present.
func (r *Repository) LookupPostcode(ctx context.Context, postcode string) (*models.Location, error) {
	conn, err := r.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	sql := `
		SELECT` + selectColumns + `
		FROM locations
		WHERE postcode = $1
		LIMIT 1
	`

	var loc models.Location
	err = conn.QueryRow(ctx, sql, postcode).Scan(
		&loc.Postcode,
		&loc.Latitude,
		&loc.Longitude,
		&loc.Town,
		&loc.County,
		&loc.Street1,
		&loc.Street2,
		&loc.District1,
		&loc.District2,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("repository: failed to execute postcode lookup: %w", err)
	}
	return &loc, nil
}

// SearchExact performs an indexed text lookup for the given mode. The value
// must already be normalized to uppercase. Postcode lookups match by prefix;
// town lookups also match the district columns; county lookups match the
// county column. Rows come back ordered by postcode so truncation at the
// limit matches the router's alphabetical ordering.
func (r *Repository) SearchExact(ctx context.Context, mode models.SearchMode, value string, limit int) ([]models.Location, error) {
	var where string
	switch mode {
	case models.ModePostcode:
		where = `postcode LIKE $1 || '%'`
	case models.ModeTown:
		where = `(upper(town) = $1 OR upper(district1) = $1 OR upper(district2) = $1)`
	case models.ModeCounty:
		where = `upper(county) = $1`
	default:
		return nil, fmt.Errorf("repository: mode %s has no exact index", mode)
	}

	sql := `
		SELECT` + selectColumns + `
		FROM locations
		WHERE ` + where + `
		ORDER BY postcode
		LIMIT $2
	`

	conn, err := r.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, sql, value, limit)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to execute %s search: %w", mode, err)
	}
	return scanLocations(rows)
}

// SearchBoundingBox returns rows inside the latitude/longitude rectangle,
// nearest-first by squared planar degree offset from the center. The box is
// a coarse pre-filter over the (latitude, longitude) index; callers discard
// false positives with an exact geodesic check and re-sort by true distance.
func (r *Repository) SearchBoundingBox(ctx context.Context, minLat, maxLat, minLon, maxLon, centerLat, centerLon float64, limit int) ([]models.Location, error) {
	conn, err := r.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	sql := `
		SELECT` + selectColumns + `
		FROM locations
		WHERE latitude BETWEEN $1 AND $2
		  AND longitude BETWEEN $3 AND $4
		ORDER BY (latitude - $5) * (latitude - $5) + (longitude - $6) * (longitude - $6)
		LIMIT $7
	`

	rows, err := conn.Query(ctx, sql, minLat, maxLat, minLon, maxLon, centerLat, centerLon, limit)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to execute spatial search: %w", err)
	}
	return scanLocations(rows)
}

// Count returns the total number of location records, used by health checks.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	conn, err := r.acquire(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Release()

	var count int64
	if err := conn.QueryRow(ctx, "SELECT COUNT(*) FROM locations").Scan(&count); err != nil {
		return 0, fmt.Errorf("repository: failed to count records: %w", err)
	}
	return count, nil
}

func scanLocations(rows pgx.Rows) ([]models.Location, error) {
	defer rows.Close()

	var locations []models.Location
	for rows.Next() {
		var loc models.Location
		err := rows.Scan(
			&loc.Postcode,
			&loc.Latitude,
			&loc.Longitude,
			&loc.Town,
			&loc.County,
			&loc.Street1,
			&loc.Street2,
			&loc.District1,
			&loc.District2,
		)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan location: %w", err)
		}
		locations = append(locations, loc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating rows: %w", err)
	}
	return locations, nil
}
