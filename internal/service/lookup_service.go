package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"location-api/internal/cache"
	"location-api/internal/models"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// Full UK postcode, e.g. "SW1A 1AA". The internal space is optional on input
// and restored during canonicalization.
var postcodePattern = regexp.MustCompile(`^[A-Z]{1,2}[0-9][A-Z0-9]? ?[0-9][A-Z]{2}$`)

// LookupRepository is the storage interface the lookup service depends on.
type LookupRepository interface {
	LookupPostcode(ctx context.Context, postcode string) (*models.Location, error)
}

// LookupService resolves a single full postcode to its location record,
// serving repeats from the shared result cache.
type LookupService struct {
	repo  LookupRepository
	cache *cache.ResultCache
	group singleflight.Group
}

// NewLookupService creates a new postcode lookup service.
func NewLookupService(repo LookupRepository, c *cache.ResultCache) *LookupService {
	return &LookupService{repo: repo, cache: c}
}

// Lookup returns the record for a full postcode, or nil when the postcode is
// not present. The postcode may be supplied with or without its internal
// space; coordinates at exactly (0, 0) are returned as-is rather than
// suppressed, since for an exact lookup they signal a data-quality problem.
func (s *LookupService) Lookup(ctx context.Context, postcode string) (*models.Location, error) {
	canonical, err := CanonicalPostcode(postcode)
	if err != nil {
		return nil, err
	}

	key := "location|" + canonical
	if cached, ok := s.cache.Get(key); ok {
		log.Debug().Str("postcode", canonical).Msg("lookup cache hit")
		if len(cached) == 0 {
			return nil, nil
		}
		loc := cached[0]
		return &loc, nil
	}

	result, err, _ := s.group.Do(key, func() (interface{}, error) {
		loc, err := s.repo.LookupPostcode(ctx, canonical)
		if err != nil {
			return nil, fmt.Errorf("service: postcode lookup failed: %w", err)
		}
		// "Not found" is a valid outcome and is cached as an empty result.
		if loc == nil {
			s.cache.Put(key, []models.Location{})
		} else {
			s.cache.Put(key, []models.Location{*loc})
		}
		return loc, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*models.Location), nil
}

// CanonicalPostcode validates a full UK postcode and returns its canonical
// form: uppercase with a single space before the three-character inward code.
func CanonicalPostcode(postcode string) (string, error) {
	v := strings.ToUpper(strings.TrimSpace(postcode))
	v = whitespaceRun.ReplaceAllString(v, " ")
	if !postcodePattern.MatchString(v) {
		return "", fmt.Errorf("%w: invalid postcode format", ErrInvalidQuery)
	}
	compact := strings.ReplaceAll(v, " ", "")
	return compact[:len(compact)-3] + " " + compact[len(compact)-3:], nil
}
