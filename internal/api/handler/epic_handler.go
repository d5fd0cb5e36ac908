package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/agileworks/backlog-api/internal/core/domain"
	"github.com/agileworks/backlog-api/internal/core/ports"
)

type EpicHandler struct {
	epicService ports.EpicService
}

func NewEpicHandler(epicService ports.EpicService) *EpicHandler {
	return &EpicHandler{epicService: epicService}
}

type epicRequest struct {
	Name        string     `json:"name" validate:"required,notblank,max=120"`
	Description string     `json:"description" validate:"max=2000"`
	Priority    string     `json:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH CRITICAL"`
	Status      string     `json:"status" validate:"omitempty,oneof=NOT_STARTED IN_PROGRESS DONE"`
	DueDate     *time.Time `json:"dueDate"`
}

type epicResponse struct {
	*domain.Epic
	UserStories []*domain.UserStory `json:"userStories"`
}

func (r epicRequest) input() ports.EpicInput {
	return ports.EpicInput{
		Name:        r.Name,
		Description: r.Description,
		Priority:    domain.Priority(r.Priority),
		Status:      domain.WorkStatus(r.Status),
		DueDate:     r.DueDate,
	}
}

// Create adds an epic to the product backlog of the caller's project.
//
// @Summary      Create epic
// @Tags         epics
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      epicRequest  true  "Epic"
// @Success      201   {object}  domain.Epic
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/epics [post]
func (h *EpicHandler) Create(c echo.Context) error {
	user, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	var req epicRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	epic, err := h.epicService.CreateEpic(c.Request().Context(), user, req.input())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, epic)
}

// List returns the epics of the caller's product backlog.
//
// @Summary      List epics
// @Tags         epics
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.Epic
// @Router       /api/epics [get]
func (h *EpicHandler) List(c echo.Context) error {
	user, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	epics, err := h.epicService.ListEpics(c.Request().Context(), user)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, epics)
}

// Get returns an epic with its user stories.
//
// @Summary      Get epic
// @Tags         epics
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Epic ID"
// @Success      200  {object}  epicResponse
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/epics/{id} [get]
func (h *EpicHandler) Get(c echo.Context) error {
	user, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	detail, err := h.epicService.GetEpic(c.Request().Context(), user, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, epicResponse{Epic: detail.Epic, UserStories: detail.UserStories})
}

// Update edits an epic.
//
// @Summary      Update epic
// @Tags         epics
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string       true  "Epic ID"
// @Param        body  body      epicRequest  true  "Epic"
// @Success      200   {object}  domain.Epic
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/epics/{id} [put]
func (h *EpicHandler) Update(c echo.Context) error {
	user, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	var req epicRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	epic, err := h.epicService.UpdateEpic(c.Request().Context(), user, c.Param("id"), req.input())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, epic)
}

// Delete removes an epic. Its user stories stay in the backlog, unlinked.
//
// @Summary      Delete epic
// @Tags         epics
// @Security     BearerAuth
// @Param        id   path  string  true  "Epic ID"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /api/epics/{id} [delete]
func (h *EpicHandler) Delete(c echo.Context) error {
	user, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	if err := h.epicService.DeleteEpic(c.Request().Context(), user, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Link schedules an epic into a sprint backlog.
//
// @Summary      Link epic to sprint backlog
// @Tags         epics
// @Produce      json
// @Security     BearerAuth
// @Param        epicId           path      string  true  "Epic ID"
// @Param        sprintBacklogId  path      string  true  "Sprint backlog ID"
// @Success      200  {object}  domain.Epic
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /api/epics/{epicId}/link/sprint-backlog/{sprintBacklogId} [post]
func (h *EpicHandler) Link(c echo.Context) error {
	user, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	epic, err := h.epicService.LinkToSprintBacklog(c.Request().Context(), user, c.Param("sprintBacklogId"), c.Param("epicId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, epic)
}

// Unlink removes an epic from its sprint backlog.
//
// @Summary      Unlink epic
// @Tags         epics
// @Produce      json
// @Security     BearerAuth
// @Param        epicId  path      string  true  "Epic ID"
// @Success      200     {object}  domain.Epic
// @Failure      404     {object}  map[string]string
// @Router       /api/epics/{epicId}/unlink [post]
func (h *EpicHandler) Unlink(c echo.Context) error {
	user, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	epic, err := h.epicService.Unlink(c.Request().Context(), user, c.Param("epicId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, epic)
}
