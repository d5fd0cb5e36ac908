package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/agileworks/backlog-api/internal/core/domain"
	"github.com/agileworks/backlog-api/internal/core/ports"
)

type ProductBacklogHandler struct {
	backlogService ports.ProductBacklogService
}

func NewProductBacklogHandler(backlogService ports.ProductBacklogService) *ProductBacklogHandler {
	return &ProductBacklogHandler{backlogService: backlogService}
}

type productBacklogRequest struct {
	Name string `json:"name" validate:"required,notblank,max=120"`
}

// Create creates the product backlog of the caller's project.
//
// @Summary      Create product backlog
// @Tags         product-backlogs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      productBacklogRequest  true  "Product backlog"
// @Success      201   {object}  domain.ProductBacklog
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/product-backlogs [post]
func (h *ProductBacklogHandler) Create(c echo.Context) error {
	user, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	var req productBacklogRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	backlog, err := h.backlogService.CreateProductBacklog(c.Request().Context(), user, ports.ProductBacklogInput{Name: req.Name})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, backlog)
}

// Get returns the product backlog of the caller's project.
//
// @Summary      Get product backlog
// @Tags         product-backlogs
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.ProductBacklog
// @Failure      404  {object}  map[string]string
// @Router       /api/product-backlogs [get]
func (h *ProductBacklogHandler) Get(c echo.Context) error {
	user, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	backlog, err := h.backlogService.GetProductBacklog(c.Request().Context(), user)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, backlog)
}

// Update renames the product backlog.
//
// @Summary      Update product backlog
// @Tags         product-backlogs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      productBacklogRequest  true  "Product backlog"
// @Success      200   {object}  domain.ProductBacklog
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/product-backlogs [put]
func (h *ProductBacklogHandler) Update(c echo.Context) error {
	user, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	var req productBacklogRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	backlog, err := h.backlogService.UpdateProductBacklog(c.Request().Context(), user, ports.ProductBacklogInput{Name: req.Name})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, backlog)
}

// Delete removes the product backlog with its epics, user stories and test cases.
//
// @Summary      Delete product backlog
// @Tags         product-backlogs
// @Security     BearerAuth
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /api/product-backlogs [delete]
func (h *ProductBacklogHandler) Delete(c echo.Context) error {
	user, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	if err := h.backlogService.DeleteProductBacklog(c.Request().Context(), user); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

type SprintBacklogHandler struct {
	sprintService ports.SprintBacklogService
}

func NewSprintBacklogHandler(sprintService ports.SprintBacklogService) *SprintBacklogHandler {
	return &SprintBacklogHandler{sprintService: sprintService}
}

type sprintBacklogRequest struct {
	Name        string `json:"name" validate:"required,notblank,max=120"`
	Description string `json:"description" validate:"max=2000"`
}

type sprintBacklogResponse struct {
	*domain.SprintBacklog
	Epics []*domain.Epic `json:"epics"`
}

func (r sprintBacklogRequest) input() ports.SprintBacklogInput {
	return ports.SprintBacklogInput{Name: r.Name, Description: r.Description}
}

// Create creates a sprint backlog in the caller's project.
//
// @Summary      Create sprint backlog
// @Tags         sprint-backlogs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      sprintBacklogRequest  true  "Sprint backlog"
// @Success      201   {object}  domain.SprintBacklog
// @Failure      400   {object}  map[string]string
// @Router       /api/sprint-backlogs [post]
func (h *SprintBacklogHandler) Create(c echo.Context) error {
	user, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	var req sprintBacklogRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	sprint, err := h.sprintService.CreateSprintBacklog(c.Request().Context(), user, req.input())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, sprint)
}

// List returns the sprint backlogs of the caller's project.
//
// @Summary      List sprint backlogs
// @Tags         sprint-backlogs
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.SprintBacklog
// @Router       /api/sprint-backlogs [get]
func (h *SprintBacklogHandler) List(c echo.Context) error {
	user, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	sprints, err := h.sprintService.ListSprintBacklogs(c.Request().Context(), user)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sprints)
}

// Get returns a sprint backlog with its linked epics.
//
// @Summary      Get sprint backlog
// @Tags         sprint-backlogs
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Sprint backlog ID"
// @Success      200  {object}  sprintBacklogResponse
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/sprint-backlogs/{id} [get]
func (h *SprintBacklogHandler) Get(c echo.Context) error {
	user, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	detail, err := h.sprintService.GetSprintBacklog(c.Request().Context(), user, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sprintBacklogResponse{SprintBacklog: detail.SprintBacklog, Epics: detail.Epics})
}

// Update edits a sprint backlog.
//
// @Summary      Update sprint backlog
// @Tags         sprint-backlogs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Sprint backlog ID"
// @Param        body  body      sprintBacklogRequest  true  "Sprint backlog"
// @Success      200   {object}  domain.SprintBacklog
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/sprint-backlogs/{id} [put]
func (h *SprintBacklogHandler) Update(c echo.Context) error {
	user, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	var req sprintBacklogRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	sprint, err := h.sprintService.UpdateSprintBacklog(c.Request().Context(), user, c.Param("id"), req.input())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sprint)
}

// Delete removes a sprint backlog. Its epics stay in the product backlog.
//
// @Summary      Delete sprint backlog
// @Tags         sprint-backlogs
// @Security     BearerAuth
// @Param        id   path  string  true  "Sprint backlog ID"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /api/sprint-backlogs/{id} [delete]
func (h *SprintBacklogHandler) Delete(c echo.Context) error {
	user, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	if err := h.sprintService.DeleteSprintBacklog(c.Request().Context(), user, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
