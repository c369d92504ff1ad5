package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/rowboard/internal/handler"
	"github.com/deppfellow/rowboard/internal/model"
)

func registerAPIRoutes(r *echo.Echo, h *handler.Handlers) {
	rows := r.Group("/rows")
	rows.GET("", handler.Handle(h.Rows.Handler, h.Rows.ListRows, http.StatusOK, &model.ListRowsRequest{}))
	rows.POST("", handler.Handle(h.Rows.Handler, h.Rows.CreateRow, http.StatusOK, &model.CreateRowRequest{}))
	rows.PUT("/:id", handler.Handle(h.Rows.Handler, h.Rows.UpdateRow, http.StatusOK, &model.UpdateRowRequest{}))
	rows.DELETE("/:id", handler.Handle(h.Rows.Handler, h.Rows.DeleteRow, http.StatusOK, &model.DeleteRowRequest{}))

	registrations := r.Group("/registrations")
	registrations.POST("", handler.Handle(h.Registrations.Handler, h.Registrations.CreateRegistration, http.StatusCreated, &model.CreateRegistrationRequest{}))
	registrations.DELETE("", handler.Handle(h.Registrations.Handler, h.Registrations.DeleteRegistration, http.StatusOK, &model.DeleteRegistrationRequest{}))

	r.GET("/leaderboard", handler.Handle(h.Leaderboard.Handler, h.Leaderboard.GetLeaderboard, http.StatusOK, &model.LeaderboardRequest{}))
}
