package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/projecthub/account-entry/internal/core/domain"
	"github.com/projecthub/account-entry/internal/core/ports"
)

type LoginHandler struct {
	service ports.LoginService
}

func NewLoginHandler(service ports.LoginService) *LoginHandler {
	return &LoginHandler{service: service}
}

// Login resolves a sign-in against the demo accounts. Missing credentials are
// ignored and answered with 204.
//
// @Summary      Sign in
// @Tags         login
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  domain.AccountRecord
// @Success      204
// @Failure      400   {object}  errorResponse
// @Router       /v1/login [post]
func (h *LoginHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	role := domain.DefaultRole
	if req.Role != "" {
		role = domain.Role(req.Role)
	}

	record, ok := h.service.Authenticate(req.Email, req.Password, role)
	if !ok {
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusOK, record)
}
