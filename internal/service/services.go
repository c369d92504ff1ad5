package service

import (
	"github.com/deppfellow/rowboard/internal/lib/cache"
	"github.com/deppfellow/rowboard/internal/repository"
	"github.com/deppfellow/rowboard/internal/server"
)

type Services struct {
	Rows          *RowService
	Registrations *RegistrationService
	Leaderboard   *LeaderboardService
}

// NewService wires every service. The leaderboard cache is backed by
// Redis when the server has a client and is a no-op otherwise.
func NewService(s *server.Server, repos *repository.Repositories) (*Services, error) {
	var leaderboardCache cache.LeaderboardCache = cache.Nop{}
	if s.Redis != nil {
		leaderboardCache = cache.NewRedisLeaderboardCache(s.Redis, s.Config.Redis.LeaderboardTTL)
	}

	return &Services{
		Rows:          NewRowService(repos.Rows, leaderboardCache, s.Logger),
		Registrations: NewRegistrationService(repos.Registrations, leaderboardCache, s.Logger),
		Leaderboard:   NewLeaderboardService(repos.Leaderboard, leaderboardCache, s.Logger),
	}, nil
}
