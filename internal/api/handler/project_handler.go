package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/agileworks/backlog-api/internal/core/domain"
	"github.com/agileworks/backlog-api/internal/core/ports"
)

type ProjectHandler struct {
	projectService ports.ProjectService
}

func NewProjectHandler(projectService ports.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

type projectRequest struct {
	Name        string `json:"name" validate:"required,notblank,max=120"`
	Description string `json:"description" validate:"max=2000"`
}

type inviteRequest struct {
	FullName  string `json:"fullName" validate:"required,notblank,max=120"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6,max=72"`
	Privilege string `json:"privilege" validate:"required,oneof=PRODUCT_OWNER DEVELOPER QUALITY_ASSURANCE SCRUM_MASTER"`
}

type projectResponse struct {
	*domain.Project
	Members []*domain.User `json:"members"`
}

func (r projectRequest) input() ports.ProjectInput {
	return ports.ProjectInput{Name: r.Name, Description: r.Description}
}

// Create creates a project owned by the caller.
//
// @Summary      Create project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      projectRequest  true  "Project"
// @Success      201   {object}  domain.Project
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/projects [post]
func (h *ProjectHandler) Create(c echo.Context) error {
	user, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	var req projectRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	project, err := h.projectService.CreateProject(c.Request().Context(), user, req.input())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, project)
}

// Get returns the caller's project with its members.
//
// @Summary      Get project
// @Tags         projects
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  projectResponse
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/projects [get]
func (h *ProjectHandler) Get(c echo.Context) error {
	user, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	detail, err := h.projectService.GetProject(c.Request().Context(), user)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, projectResponse{Project: detail.Project, Members: detail.Members})
}

// Update edits the caller's project.
//
// @Summary      Update project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      projectRequest  true  "Project"
// @Success      200   {object}  domain.Project
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /api/projects [put]
func (h *ProjectHandler) Update(c echo.Context) error {
	user, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	var req projectRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	project, err := h.projectService.UpdateProject(c.Request().Context(), user, req.input())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, project)
}

// Delete removes the caller's project and everything below it.
//
// @Summary      Delete project
// @Tags         projects
// @Security     BearerAuth
// @Success      204
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/projects [delete]
func (h *ProjectHandler) Delete(c echo.Context) error {
	user, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	if err := h.projectService.DeleteProject(c.Request().Context(), user); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Invite creates an account attached to the caller's project.
//
// @Summary      Invite member
// @Tags         projects
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      inviteRequest  true  "New member"
// @Success      201   {object}  domain.User
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/projects/invite [post]
func (h *ProjectHandler) Invite(c echo.Context) error {
	user, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	var req inviteRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	member, err := h.projectService.InviteUser(c.Request().Context(), user, ports.InviteUserInput{
		FullName:  req.FullName,
		Email:     req.Email,
		Password:  req.Password,
		Privilege: domain.Privilege(req.Privilege),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, member)
}
