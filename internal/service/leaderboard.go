package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/deppfellow/rowboard/internal/lib/cache"
	"github.com/deppfellow/rowboard/internal/model"
)

type LeaderboardService struct {
	leaderboard LeaderboardStore
	cache       cache.LeaderboardCache
	logger      *zerolog.Logger
}

func NewLeaderboardService(leaderboard LeaderboardStore, leaderboardCache cache.LeaderboardCache, logger *zerolog.Logger) *LeaderboardService {
	return &LeaderboardService{
		leaderboard: leaderboard,
		cache:       leaderboardCache,
		logger:      logger,
	}
}

// ForMonth returns the month's leaderboard, from the cache when possible.
// Cache failures are logged and never fail the request.
//
// The cache version is read before the query. If a write invalidates the
// month while the query runs, the result is returned but not cached.
func (s *LeaderboardService) ForMonth(ctx context.Context, req *model.LeaderboardRequest) ([]model.LeaderboardEntry, error) {
	log := loggerFrom(ctx, s.logger)

	entries, ok, err := s.cache.Get(ctx, req.Year, req.Month)
	if err != nil {
		log.Warn().Err(err).Msg("failed to read cached leaderboard")
	}
	if ok {
		return entries, nil
	}

	version, versionErr := s.cache.Version(ctx, req.Year, req.Month)
	if versionErr != nil {
		log.Warn().Err(versionErr).Msg("failed to read leaderboard cache version")
	}

	entries, err = s.leaderboard.ForMonth(ctx, req.Year, req.Month)
	if err != nil {
		return nil, err
	}

	if versionErr != nil {
		return entries, nil
	}

	err = s.cache.Set(ctx, req.Year, req.Month, version, entries)
	switch {
	case errors.Is(err, cache.ErrStale):
		log.Debug().
			Int("year", req.Year).
			Int("month", req.Month).
			Msg("leaderboard changed during read, not caching")
	case err != nil:
		log.Warn().Err(err).Msg("failed to cache leaderboard")
	}
	return entries, nil
}
