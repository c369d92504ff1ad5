package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/rowboard/internal/model"
	"github.com/deppfellow/rowboard/internal/server"
	"github.com/deppfellow/rowboard/internal/service"
)

type LeaderboardHandler struct {
	Handler
	leaderboard *service.LeaderboardService
}

func NewLeaderboardHandler(s *server.Server, leaderboard *service.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{
		Handler:     NewHandler(s),
		leaderboard: leaderboard,
	}
}

func (h *LeaderboardHandler) GetLeaderboard(c echo.Context, req *model.LeaderboardRequest) ([]model.LeaderboardEntry, error) {
	return h.leaderboard.ForMonth(c.Request().Context(), req)
}
