package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/agileworks/backlog-api/internal/core/domain"
	"github.com/agileworks/backlog-api/internal/core/ports"
)

type TestCaseHandler struct {
	testCaseService ports.TestCaseService
}

func NewTestCaseHandler(testCaseService ports.TestCaseService) *TestCaseHandler {
	return &TestCaseHandler{testCaseService: testCaseService}
}

type testCaseRequest struct {
	Title       string `json:"title" validate:"required,notblank,max=200"`
	Description string `json:"description" validate:"max=4000"`
	Result      string `json:"result" validate:"omitempty,oneof=PASS FAIL BLOCKED SKIPPED"`
}

func (r testCaseRequest) input() ports.TestCaseInput {
	return ports.TestCaseInput{
		Title:       r.Title,
		Description: r.Description,
		Result:      domain.TestResult(r.Result),
	}
}

// Create adds a test case to a user story and recomputes the story status.
//
// @Summary      Create test case
// @Tags         test-cases
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        userStoryId  path      string           true  "User story ID"
// @Param        body         body      testCaseRequest  true  "Test case"
// @Success      201  {object}  domain.TestCase
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/test-cases/user-stories/{userStoryId} [post]
func (h *TestCaseHandler) Create(c echo.Context) error {
	user, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	var req testCaseRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	tc, err := h.testCaseService.CreateTestCase(c.Request().Context(), user, c.Param("userStoryId"), req.input())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, tc)
}

// ListByUserStory returns the test cases of a user story.
//
// @Summary      List test cases
// @Tags         test-cases
// @Produce      json
// @Security     BearerAuth
// @Param        userStoryId  path     string  true  "User story ID"
// @Success      200          {array}  domain.TestCase
// @Failure      404          {object} map[string]string
// @Router       /api/test-cases/user-stories/{userStoryId} [get]
func (h *TestCaseHandler) ListByUserStory(c echo.Context) error {
	user, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	cases, err := h.testCaseService.ListByUserStory(c.Request().Context(), user, c.Param("userStoryId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cases)
}

// Get returns a test case.
//
// @Summary      Get test case
// @Tags         test-cases
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Test case ID"
// @Success      200  {object}  domain.TestCase
// @Failure      404  {object}  map[string]string
// @Router       /api/test-cases/{id} [get]
func (h *TestCaseHandler) Get(c echo.Context) error {
	user, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	tc, err := h.testCaseService.GetTestCase(c.Request().Context(), user, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tc)
}

// Update edits a test case and recomputes the story status.
//
// @Summary      Update test case
// @Tags         test-cases
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string           true  "Test case ID"
// @Param        body  body      testCaseRequest  true  "Test case"
// @Success      200   {object}  domain.TestCase
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/test-cases/{id} [put]
func (h *TestCaseHandler) Update(c echo.Context) error {
	user, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	var req testCaseRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	tc, err := h.testCaseService.UpdateTestCase(c.Request().Context(), user, c.Param("id"), req.input())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tc)
}

// Delete removes a test case and recomputes the story status.
//
// @Summary      Delete test case
// @Tags         test-cases
// @Security     BearerAuth
// @Param        id   path  string  true  "Test case ID"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /api/test-cases/{id} [delete]
func (h *TestCaseHandler) Delete(c echo.Context) error {
	user, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	if err := h.testCaseService.DeleteTestCase(c.Request().Context(), user, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
