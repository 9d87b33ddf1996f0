package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"location-api/internal/cache"
	"location-api/internal/geo"
	"location-api/internal/models"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// ErrInvalidQuery marks validation failures. Handlers map it to a 400 and
// surface the wrapped message to the caller.
var ErrInvalidQuery = errors.New("invalid query")

const (
	// DefaultLimit applies when a request does not specify one.
	DefaultLimit = 1000
	// MaxLimit is the result ceiling; larger requested limits are silently
	// capped rather than rejected.
	MaxLimit = 5000
	// MaxRadiusMeters bounds the geofence radius.
	MaxRadiusMeters = 50000

	// Spatially filtered queries over-fetch so the exact distance filter and
	// final ordering are applied before truncation, not after.
	overfetchFactor = 4
	maxFetch        = 20000
)

var (
	postcodeQueryPattern = regexp.MustCompile(`^[A-Z0-9 ]+$`)
	placeQueryPattern    = regexp.MustCompile(`^[A-Za-z \-'.]+$`)
	whitespaceRun        = regexp.MustCompile(`\s+`)
)

// SearchRepository is the storage interface the search service depends on.
type SearchRepository interface {
	SearchExact(ctx context.Context, mode models.SearchMode, value string, limit int) ([]models.Location, error)
	SearchBoundingBox(ctx context.Context, minLat, maxLat, minLon, maxLon, centerLat, centerLon float64, limit int) ([]models.Location, error)
}

// SearchService routes search requests: it validates and normalizes the
// query, consults the result cache, and on a miss runs the storage lookup,
// distance annotation and ordering before caching the outcome. Concurrent
// identical misses are coalesced into a single storage round trip.
type SearchService struct {
	repo  SearchRepository
	cache *cache.ResultCache
	group singleflight.Group
}

// NewSearchService creates a new search service.
func NewSearchService(repo SearchRepository, c *cache.ResultCache) *SearchService {
	return &SearchService{repo: repo, cache: c}
}

// Search executes a validated search and returns records in deterministic
// order: distance ascending with postcode tie-break when a spatial filter is
// present, postcode ascending otherwise. The result is capped at the
// (ceiling-adjusted) query limit.
func (s *SearchService) Search(ctx context.Context, query models.SearchQuery) ([]models.Location, error) {
	q, err := normalizeQuery(query)
	if err != nil {
		return nil, err
	}

	key := cacheKey(q)
	if cached, ok := s.cache.Get(key); ok {
		log.Debug().Str("key", key).Msg("search cache hit")
		return cached, nil
	}

	result, err, _ := s.group.Do(key, func() (interface{}, error) {
		locations, err := s.fetch(ctx, q)
		if err != nil {
			return nil, err
		}
		// Only successful results are cached, so a transient storage
		// failure cannot poison future lookups.
		s.cache.Put(key, locations)
		return locations, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]models.Location), nil
}

// fetch runs the storage lookup and post-processing for a cache miss.
func (s *SearchService) fetch(ctx context.Context, q models.SearchQuery) ([]models.Location, error) {
	if q.Mode == models.ModeSpatial {
		minLat, maxLat, minLon, maxLon := geo.BoundingBox(*q.CenterLat, *q.CenterLon, *q.RadiusMeters)
		rows, err := s.repo.SearchBoundingBox(ctx, minLat, maxLat, minLon, maxLon, *q.CenterLat, *q.CenterLon, fetchLimit(q.Limit))
		if err != nil {
			return nil, fmt.Errorf("service: spatial search failed: %w", err)
		}
		return finalizeSpatial(rows, q), nil
	}

	limit := q.Limit
	if q.HasSpatialFilter() {
		limit = fetchLimit(q.Limit)
	}
	rows, err := s.repo.SearchExact(ctx, q.Mode, q.Value, limit)
	if err != nil {
		return nil, fmt.Errorf("service: %s search failed: %w", q.Mode, err)
	}

	if q.HasSpatialFilter() {
		return finalizeSpatial(rows, q), nil
	}

	// Rows with both coordinates at exactly zero mark an unknown location.
	// They are excluded from town and county results but kept for postcode
	// searches, where they act as a data-quality signal.
	if q.Mode != models.ModePostcode {
		rows = dropUnknownCoordinates(rows)
	}
	if len(rows) > q.Limit {
		rows = rows[:q.Limit]
	}
	if rows == nil {
		rows = []models.Location{}
	}
	return rows, nil
}

// finalizeSpatial annotates candidate rows with exact geodesic distance,
// discards bounding-box false positives and unknown-coordinate sentinels,
// sorts ascending by distance with postcode as the tie-break, and truncates
// to the query limit.
func finalizeSpatial(rows []models.Location, q models.SearchQuery) []models.Location {
	centerLat, centerLon, radius := *q.CenterLat, *q.CenterLon, *q.RadiusMeters

	kept := make([]models.Location, 0, len(rows))
	for _, loc := range rows {
		if loc.Latitude == 0 && loc.Longitude == 0 && q.Mode != models.ModePostcode {
			continue
		}
		d := geo.Distance(loc.Latitude, loc.Longitude, centerLat, centerLon)
		if d > radius {
			continue
		}
		within := true
		loc.Distance = &d
		loc.WithinGeofence = &within
		kept = append(kept, loc)
	}

	sort.Slice(kept, func(i, j int) bool {
		if *kept[i].Distance != *kept[j].Distance {
			return *kept[i].Distance < *kept[j].Distance
		}
		return kept[i].Postcode < kept[j].Postcode
	})

	if len(kept) > q.Limit {
		kept = kept[:q.Limit]
	}
	return kept
}

func dropUnknownCoordinates(rows []models.Location) []models.Location {
	kept := rows[:0]
	for _, loc := range rows {
		if loc.Latitude == 0 && loc.Longitude == 0 {
			continue
		}
		kept = append(kept, loc)
	}
	return kept
}

func fetchLimit(limit int) int {
	n := limit * overfetchFactor
	if n > maxFetch {
		n = maxFetch
	}
	return n
}

// normalizeQuery validates the request and returns a copy with the value
// case-folded for matching and the limit defaulted and capped. Two
// semantically identical queries normalize to the same result, which keeps
// the cache fingerprint deterministic.
func normalizeQuery(q models.SearchQuery) (models.SearchQuery, error) {
	if q.Limit == 0 {
		q.Limit = DefaultLimit
	}
	if q.Limit < 0 {
		return q, fmt.Errorf("%w: limit must be positive", ErrInvalidQuery)
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}

	if err := validateSpatialFields(q); err != nil {
		return q, err
	}

	value := whitespaceRun.ReplaceAllString(strings.TrimSpace(q.Value), " ")
	switch q.Mode {
	case models.ModePostcode:
		value = strings.ToUpper(value)
		if value == "" {
			return q, fmt.Errorf("%w: postcode must not be empty", ErrInvalidQuery)
		}
		if !postcodeQueryPattern.MatchString(value) {
			return q, fmt.Errorf("%w: postcode can only contain letters, numbers, and spaces", ErrInvalidQuery)
		}
		if len(strings.ReplaceAll(value, " ", "")) > 7 {
			return q, fmt.Errorf("%w: postcode is too long", ErrInvalidQuery)
		}
	case models.ModeTown, models.ModeCounty:
		if value == "" {
			return q, fmt.Errorf("%w: %s must not be empty", ErrInvalidQuery, q.Mode)
		}
		if !placeQueryPattern.MatchString(value) {
			return q, fmt.Errorf("%w: %s can only contain letters, spaces, hyphens, apostrophes, and periods", ErrInvalidQuery, q.Mode)
		}
		if len(value) > 100 {
			return q, fmt.Errorf("%w: %s name is too long", ErrInvalidQuery, q.Mode)
		}
		value = strings.ToUpper(value)
	case models.ModeSpatial:
		if !q.HasSpatialFilter() {
			return q, fmt.Errorf("%w: spatial search requires center_lat, center_lon and radius_meters", ErrInvalidQuery)
		}
		value = ""
	default:
		return q, fmt.Errorf("%w: unknown search mode", ErrInvalidQuery)
	}
	q.Value = value
	return q, nil
}

// validateSpatialFields enforces coordinate ranges and the all-or-nothing
// rule: a partial spatial filter is a validation error, not silently ignored.
func validateSpatialFields(q models.SearchQuery) error {
	present := 0
	for _, f := range []*float64{q.CenterLat, q.CenterLon, q.RadiusMeters} {
		if f != nil {
			present++
		}
	}
	if present == 0 {
		return nil
	}
	if present < 3 {
		return fmt.Errorf("%w: center_lat, center_lon and radius_meters must be supplied together", ErrInvalidQuery)
	}
	if *q.CenterLat < -90 || *q.CenterLat > 90 {
		return fmt.Errorf("%w: latitude must be between -90 and 90 degrees", ErrInvalidQuery)
	}
	if *q.CenterLon < -180 || *q.CenterLon > 180 {
		return fmt.Errorf("%w: longitude must be between -180 and 180 degrees", ErrInvalidQuery)
	}
	if *q.RadiusMeters < 0 || *q.RadiusMeters > MaxRadiusMeters {
		return fmt.Errorf("%w: radius must be between 0 and %d meters", ErrInvalidQuery, MaxRadiusMeters)
	}
	return nil
}

// cacheKey builds the deterministic fingerprint for a normalized query.
// Coordinates are rounded to five decimals (about a meter) and the radius to
// whole meters so float noise cannot split semantically identical queries.
func cacheKey(q models.SearchQuery) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s|%s|%d", q.Mode, q.Value, q.Limit)
	if q.HasSpatialFilter() {
		fmt.Fprintf(&b, "|%.5f|%.5f|%.0f", *q.CenterLat, *q.CenterLon, *q.RadiusMeters)
	} else {
		b.WriteString("|-")
	}
	return b.String()
}
