package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/agileworks/backlog-api/internal/core/domain"
	"github.com/agileworks/backlog-api/internal/core/ports"
)

type UserStoryHandler struct {
	storyService ports.UserStoryService
}

func NewUserStoryHandler(storyService ports.UserStoryService) *UserStoryHandler {
	return &UserStoryHandler{storyService: storyService}
}

type createUserStoryRequest struct {
	Title       string `json:"title" validate:"required,notblank,max=200"`
	Description string `json:"description" validate:"max=4000"`
	Priority    string `json:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH CRITICAL"`
	RoleID      string `json:"roleId" validate:"required"`
}

// updateUserStoryRequest has no status: it is derived from the test cases.
type updateUserStoryRequest struct {
	Title       string `json:"title" validate:"required,notblank,max=200"`
	Description string `json:"description" validate:"max=4000"`
	Priority    string `json:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH CRITICAL"`
}

// Create adds a user story to the caller's product backlog.
//
// @Summary      Create user story
// @Tags         user-stories
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createUserStoryRequest  true  "User story"
// @Success      201   {object}  domain.UserStory
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/user-stories [post]
func (h *UserStoryHandler) Create(c echo.Context) error {
	user, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	var req createUserStoryRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	story, err := h.storyService.CreateUserStory(c.Request().Context(), user, ports.UserStoryInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    domain.Priority(req.Priority),
		RoleID:      req.RoleID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, story)
}

// List returns every user story of the caller's product backlog.
//
// @Summary      List user stories
// @Tags         user-stories
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.UserStory
// @Router       /api/user-stories [get]
func (h *UserStoryHandler) List(c echo.Context) error {
	user, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	stories, err := h.storyService.ListUserStories(c.Request().Context(), user)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stories)
}

// ListByRole returns the user stories written for a role.
//
// @Summary      List user stories by role
// @Tags         user-stories
// @Produce      json
// @Security     BearerAuth
// @Param        roleId  path     string  true  "Role ID"
// @Success      200     {array}  domain.UserStory
// @Failure      404     {object} map[string]string
// @Router       /api/user-stories/roles/{roleId} [get]
func (h *UserStoryHandler) ListByRole(c echo.Context) error {
	user, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	stories, err := h.storyService.ListByRole(c.Request().Context(), user, c.Param("roleId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stories)
}

// ListByEpic returns the user stories linked to an epic.
//
// @Summary      List user stories by epic
// @Tags         user-stories
// @Produce      json
// @Security     BearerAuth
// @Param        epicId  path     string  true  "Epic ID"
// @Success      200     {array}  domain.UserStory
// @Failure      404     {object} map[string]string
// @Router       /api/user-stories/epics/{epicId} [get]
func (h *UserStoryHandler) ListByEpic(c echo.Context) error {
	user, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	stories, err := h.storyService.ListByEpic(c.Request().Context(), user, c.Param("epicId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stories)
}

// Get returns a user story.
//
// @Summary      Get user story
// @Tags         user-stories
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User story ID"
// @Success      200  {object}  domain.UserStory
// @Failure      404  {object}  map[string]string
// @Router       /api/user-stories/{id} [get]
func (h *UserStoryHandler) Get(c echo.Context) error {
	user, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	story, err := h.storyService.GetUserStory(c.Request().Context(), user, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, story)
}

// Update edits a user story.
//
// @Summary      Update user story
// @Tags         user-stories
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                  true  "User story ID"
// @Param        body  body      updateUserStoryRequest  true  "User story"
// @Success      200   {object}  domain.UserStory
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /api/user-stories/{id} [put]
func (h *UserStoryHandler) Update(c echo.Context) error {
	user, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	var req updateUserStoryRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	story, err := h.storyService.UpdateUserStory(c.Request().Context(), user, c.Param("id"), ports.UserStoryUpdateInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    domain.Priority(req.Priority),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, story)
}

// Delete removes a user story and its test cases.
//
// @Summary      Delete user story
// @Tags         user-stories
// @Security     BearerAuth
// @Param        id   path  string  true  "User story ID"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /api/user-stories/{id} [delete]
func (h *UserStoryHandler) Delete(c echo.Context) error {
	user, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	if err := h.storyService.DeleteUserStory(c.Request().Context(), user, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Link attaches a user story to an epic of the same product backlog.
//
// @Summary      Link user story to epic
// @Tags         user-stories
// @Produce      json
// @Security     BearerAuth
// @Param        userStoryId  path      string  true  "User story ID"
// @Param        epicId       path      string  true  "Epic ID"
// @Success      200  {object}  domain.UserStory
// @Failure      400  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /api/user-stories/{userStoryId}/link/epic/{epicId} [post]
func (h *UserStoryHandler) Link(c echo.Context) error {
	user, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	story, err := h.storyService.LinkToEpic(c.Request().Context(), user, c.Param("userStoryId"), c.Param("epicId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, story)
}

// Unlink detaches a user story from its epic.
//
// @Summary      Unlink user story
// @Tags         user-stories
// @Produce      json
// @Security     BearerAuth
// @Param        userStoryId  path      string  true  "User story ID"
// @Success      200          {object}  domain.UserStory
// @Failure      404          {object}  map[string]string
// @Router       /api/user-stories/{userStoryId}/unlink [post]
func (h *UserStoryHandler) Unlink(c echo.Context) error {
	user, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	story, err := h.storyService.UnlinkFromEpic(c.Request().Context(), user, c.Param("userStoryId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, story)
}
