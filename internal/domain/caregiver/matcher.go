package caregiver

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"maternity/internal/cache"
	"maternity/internal/domain"
)

const (
	DefaultRecommendLimit = 3
	MaxRecommendLimit     = 20

	recommendNamespace = "recommend"
)

// CandidateStore returns available caregivers ordered by rating descending
// then id ascending.
type CandidateStore interface {
	AvailableInCity(ctx context.Context, city string, limit int) ([]domain.Caregiver, error)
	AvailableInState(ctx context.Context, state string, exclude []int64, limit int) ([]domain.Caregiver, error)
}

// Matcher picks caregivers near a location: same city first, then the
// rest of the state. Results are cached per generation; any rating or
// availability change bumps the generation.
type Matcher struct {
	store CandidateStore
	cache cache.Store
	log   zerolog.Logger
}

func NewMatcher(store CandidateStore, c cache.Store, log zerolog.Logger) *Matcher {
	if c == nil {
		c = cache.Noop{}
	}
	return &Matcher{store: store, cache: c, log: log}
}

func NormalizeLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultRecommendLimit
	case limit > MaxRecommendLimit:
		return MaxRecommendLimit
	}
	return limit
}

func (m *Matcher) Recommend(ctx context.Context, city, state string, limit int) ([]domain.Caregiver, error) {
	city = strings.TrimSpace(city)
	state = strings.TrimSpace(state)
	limit = NormalizeLimit(limit)
	if city == "" && state == "" {
		return []domain.Caregiver{}, nil
	}

	key, cacheable := m.cacheKey(ctx, city, state, limit)
	if cacheable {
		var cached []domain.Caregiver
		hit, err := m.cache.Get(ctx, key, &cached)
		if err != nil {
			m.log.Warn().Err(err).Str("key", key).Msg("recommendation cache read failed")
		} else if hit {
			return cached, nil
		}
	}

	picked, err := m.rank(ctx, city, state, limit)
	if err != nil {
		return nil, err
	}

	if cacheable {
		if err := m.cache.Set(ctx, key, picked); err != nil {
			m.log.Warn().Err(err).Str("key", key).Msg("recommendation cache write failed")
		}
	}
	return picked, nil
}

func (m *Matcher) rank(ctx context.Context, city, state string, limit int) ([]domain.Caregiver, error) {
	picked := make([]domain.Caregiver, 0, limit)
	if city != "" {
		rows, err := m.store.AvailableInCity(ctx, city, limit)
		if err != nil {
			return nil, err
		}
		picked = append(picked, rows...)
	}

	if len(picked) < limit && state != "" {
		exclude := make([]int64, 0, len(picked))
		for _, cg := range picked {
			exclude = append(exclude, cg.ID)
		}
		rows, err := m.store.AvailableInState(ctx, state, exclude, limit-len(picked))
		if err != nil {
			return nil, err
		}
		picked = append(picked, rows...)
	}
	return picked, nil
}

func (m *Matcher) cacheKey(ctx context.Context, city, state string, limit int) (string, bool) {
	gen, err := m.cache.Generation(ctx, recommendNamespace)
	if err != nil {
		m.log.Warn().Err(err).Msg("recommendation cache generation unavailable")
		return "", false
	}
	return fmt.Sprintf("%s:%d:%s:%s:%d", recommendNamespace, gen, strings.ToLower(city), strings.ToLower(state), limit), true
}

// RatingChanged invalidates cached recommendations.
func (m *Matcher) RatingChanged(ctx context.Context, caregiverID int64) {
	m.invalidate(ctx, caregiverID)
}

// ProfileChanged invalidates cached recommendations.
func (m *Matcher) ProfileChanged(ctx context.Context, caregiverID int64) {
	m.invalidate(ctx, caregiverID)
}

func (m *Matcher) invalidate(ctx context.Context, caregiverID int64) {
	if err := m.cache.Bump(ctx, recommendNamespace); err != nil {
		m.log.Warn().Err(err).Int64("caregiver_id", caregiverID).Msg("recommendation cache invalidation failed")
	}
}
