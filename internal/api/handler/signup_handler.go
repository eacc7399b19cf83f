package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/projecthub/account-entry/internal/core/domain"
	"github.com/projecthub/account-entry/internal/core/ports"
)

// SignupHandler exposes sign-up form sessions and one-shot registration.
type SignupHandler struct {
	service ports.SignupService
}

func NewSignupHandler(service ports.SignupService) *SignupHandler {
	return &SignupHandler{service: service}
}

// Departments lists the selectable departments.
//
// @Summary      List departments
// @Tags         signup
// @Produce      json
// @Success      200  {object}  departmentsResponse
// @Router       /v1/departments [get]
func (h *SignupHandler) Departments(c echo.Context) error {
	return c.JSON(http.StatusOK, departmentsResponse{Departments: domain.Departments})
}

// CreateForm opens a sign-up form session.
//
// @Summary      Open a sign-up form
// @Tags         signup
// @Produce      json
// @Success      201  {object}  formResponse
// @Router       /v1/signup/forms [post]
func (h *SignupHandler) CreateForm(c echo.Context) error {
	snap := h.service.NewForm()
	c.Response().Header().Set(echo.HeaderLocation, "/v1/signup/forms/"+snap.ID)
	return c.JSON(http.StatusCreated, toFormResponse(snap))
}

// GetForm returns the current state of a form. Password values are omitted.
//
// @Summary      Get a sign-up form
// @Tags         signup
// @Produce      json
// @Param        id   path      string  true  "Form ID"
// @Success      200  {object}  formResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/signup/forms/{id} [get]
func (h *SignupHandler) GetForm(c echo.Context) error {
	snap, err := h.service.Snapshot(c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toFormResponse(snap))
}

// SetField applies a field edit. An existing error on that field is cleared.
//
// @Summary      Edit a form field
// @Tags         signup
// @Accept       json
// @Produce      json
// @Param        id     path      string        true  "Form ID"
// @Param        field  path      string        true  "Field name"
// @Param        body   body      fieldRequest  true  "New value"
// @Success      200    {object}  formResponse
// @Failure      400    {object}  errorResponse
// @Failure      404    {object}  errorResponse
// @Router       /v1/signup/forms/{id}/fields/{field} [put]
func (h *SignupHandler) SetField(c echo.Context) error {
	var req fieldRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	snap, err := h.service.SetField(c.Param("id"), domain.Field(c.Param("field")), req.Value)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toFormResponse(snap))
}

// SelectRole switches the form role. Existing errors are kept.
//
// @Summary      Select the form role
// @Tags         signup
// @Accept       json
// @Produce      json
// @Param        id    path      string       true  "Form ID"
// @Param        body  body      roleRequest  true  "Role"
// @Success      200   {object}  formResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/signup/forms/{id}/role [put]
func (h *SignupHandler) SelectRole(c echo.Context) error {
	var req roleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	snap, err := h.service.SelectRole(c.Param("id"), domain.Role(req.Role))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toFormResponse(snap))
}

// Submit validates the form and schedules the account commit.
//
// @Summary      Submit a sign-up form
// @Tags         signup
// @Produce      json
// @Param        id   path      string  true  "Form ID"
// @Success      202  {object}  formResponse
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Failure      422  {object}  validationErrorResponse
// @Router       /v1/signup/forms/{id}/submit [post]
func (h *SignupHandler) Submit(c echo.Context) error {
	id := c.Param("id")
	out, err := h.service.Submit(c.Request().Context(), id)
	if err != nil {
		return err
	}
	if !out.Accepted {
		return out.Errors
	}

	snap, err := h.service.Snapshot(id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusAccepted, toFormResponse(snap))
}

// DiscardForm closes a form session.
//
// @Summary      Discard a sign-up form
// @Tags         signup
// @Param        id   path  string  true  "Form ID"
// @Success      204
// @Router       /v1/signup/forms/{id} [delete]
func (h *SignupHandler) DiscardForm(c echo.Context) error {
	h.service.Discard(c.Param("id"))
	return c.NoContent(http.StatusNoContent)
}

// Register runs a whole sign-up in one request and waits for the commit.
//
// @Summary      Sign up
// @Tags         signup
// @Accept       json
// @Produce      json
// @Param        body  body      signupRequest  true  "Sign-up form"
// @Success      201   {object}  domain.AccountRecord
// @Failure      400   {object}  errorResponse
// @Failure      422   {object}  validationErrorResponse
// @Failure      503   {object}  errorResponse
// @Router       /v1/signup [post]
func (h *SignupHandler) Register(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	record, err := h.service.Register(c.Request().Context(), req.fieldSet())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, record)
}
