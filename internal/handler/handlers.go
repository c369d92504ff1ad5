package handler

import (
	"github.com/deppfellow/rowboard/internal/server"
	"github.com/deppfellow/rowboard/internal/service"
)

// Handlers groups every HTTP handler so the router receives one object.
type Handlers struct {
	Health        *HealthHandler
	OpenAPI       *OpenAPIHandler
	Rows          *RowHandler
	Registrations *RegistrationHandler
	Leaderboard   *LeaderboardHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:        NewHealthHandler(s),
		OpenAPI:       NewOpenAPIHandler(s),
		Rows:          NewRowHandler(s, services.Rows),
		Registrations: NewRegistrationHandler(s, services.Registrations),
		Leaderboard:   NewLeaderboardHandler(s, services.Leaderboard),
	}
}
