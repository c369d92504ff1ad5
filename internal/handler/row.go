package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/rowboard/internal/model"
	"github.com/deppfellow/rowboard/internal/server"
	"github.com/deppfellow/rowboard/internal/service"
)

type RowHandler struct {
	Handler
	rows *service.RowService
}

func NewRowHandler(s *server.Server, rows *service.RowService) *RowHandler {
	return &RowHandler{
		Handler: NewHandler(s),
		rows:    rows,
	}
}

func (h *RowHandler) ListRows(c echo.Context, _ *model.ListRowsRequest) ([]model.RowWithRegistrations, error) {
	return h.rows.List(c.Request().Context())
}

func (h *RowHandler) CreateRow(c echo.Context, req *model.CreateRowRequest) (model.Row, error) {
	return h.rows.Create(c.Request().Context(), req)
}

func (h *RowHandler) UpdateRow(c echo.Context, req *model.UpdateRowRequest) (model.Row, error) {
	return h.rows.Update(c.Request().Context(), req)
}

func (h *RowHandler) DeleteRow(c echo.Context, req *model.DeleteRowRequest) (model.MessageResponse, error) {
	if err := h.rows.Delete(c.Request().Context(), req); err != nil {
		return model.MessageResponse{}, err
	}
	return model.MessageResponse{Message: model.MessageRowDeleted}, nil
}
