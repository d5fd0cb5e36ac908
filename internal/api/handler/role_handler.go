package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/agileworks/backlog-api/internal/core/ports"
)

type RoleHandler struct {
	roleService ports.RoleService
}

func NewRoleHandler(roleService ports.RoleService) *RoleHandler {
	return &RoleHandler{roleService: roleService}
}

type roleRequest struct {
	Name        string `json:"name" validate:"required,notblank,max=80"`
	Description string `json:"description" validate:"max=2000"`
}

func (r roleRequest) input() ports.RoleInput {
	return ports.RoleInput{Name: r.Name, Description: r.Description}
}

// Create adds a role to the caller's project.
//
// @Summary      Create role
// @Tags         roles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      roleRequest  true  "Role"
// @Success      201   {object}  domain.Role
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/roles [post]
func (h *RoleHandler) Create(c echo.Context) error {
	user, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	var req roleRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	role, err := h.roleService.CreateRole(c.Request().Context(), user, req.input())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, role)
}

// List returns the roles of the caller's project.
//
// @Summary      List roles
// @Tags         roles
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.Role
// @Router       /api/roles [get]
func (h *RoleHandler) List(c echo.Context) error {
	user, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	roles, err := h.roleService.ListRoles(c.Request().Context(), user)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, roles)
}

// Get returns a role.
//
// @Summary      Get role
// @Tags         roles
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Role ID"
// @Success      200  {object}  domain.Role
// @Failure      404  {object}  map[string]string
// @Router       /api/roles/{id} [get]
func (h *RoleHandler) Get(c echo.Context) error {
	user, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	role, err := h.roleService.GetRole(c.Request().Context(), user, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, role)
}

// Update edits a role.
//
// @Summary      Update role
// @Tags         roles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string       true  "Role ID"
// @Param        body  body      roleRequest  true  "Role"
// @Success      200   {object}  domain.Role
// @Failure      409   {object}  map[string]string
// @Router       /api/roles/{id} [put]
func (h *RoleHandler) Update(c echo.Context) error {
	user, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	var req roleRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	role, err := h.roleService.UpdateRole(c.Request().Context(), user, c.Param("id"), req.input())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, role)
}

// Delete removes a role that no user story references.
//
// @Summary      Delete role
// @Tags         roles
// @Security     BearerAuth
// @Param        id   path  string  true  "Role ID"
// @Success      204
// @Failure      409  {object}  map[string]string
// @Router       /api/roles/{id} [delete]
func (h *RoleHandler) Delete(c echo.Context) error {
	user, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	if err := h.roleService.DeleteRole(c.Request().Context(), user, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
