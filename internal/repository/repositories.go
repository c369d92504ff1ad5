package repository

import (
	"github.com/deppfellow/rowboard/internal/server"
)

// Repositories is a container for all repository instances.
type Repositories struct {
	Rows          *RowRepository
	Registrations *RegistrationRepository
	Leaderboard   *LeaderboardRepository
}

// NewRepositories builds every repository on top of the shared pool.
func NewRepositories(s *server.Server) *Repositories {
	return NewRepositoriesWithDB(s.DB.Pool)
}

// NewRepositoriesWithDB builds every repository on top of db.
func NewRepositoriesWithDB(db DBTX) *Repositories {
	return &Repositories{
		Rows:          NewRowRepository(db),
		Registrations: NewRegistrationRepository(db),
		Leaderboard:   NewLeaderboardRepository(db),
	}
}
