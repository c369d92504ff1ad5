package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/rowboard/internal/model"
	"github.com/deppfellow/rowboard/internal/server"
	"github.com/deppfellow/rowboard/internal/service"
)

type RegistrationHandler struct {
	Handler
	registrations *service.RegistrationService
}

func NewRegistrationHandler(s *server.Server, registrations *service.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{
		Handler:       NewHandler(s),
		registrations: registrations,
	}
}

func (h *RegistrationHandler) CreateRegistration(c echo.Context, req *model.CreateRegistrationRequest) (model.MessageResponse, error) {
	if err := h.registrations.Create(c.Request().Context(), req); err != nil {
		return model.MessageResponse{}, err
	}
	return model.MessageResponse{Message: model.MessageRegistrationCreated}, nil
}

func (h *RegistrationHandler) DeleteRegistration(c echo.Context, req *model.DeleteRegistrationRequest) (model.SuccessResponse, error) {
	if err := h.registrations.Delete(c.Request().Context(), req); err != nil {
		return model.SuccessResponse{}, err
	}
	return model.SuccessResponse{Success: true}, nil
}
