package domain

import "errors"

// Error kinds. Every domain error wraps exactly one of these so transport
// layers can map a failure to a status without knowing the entity.
var (
	ErrNotFound        = errors.New("not found")
	ErrBadRequest      = errors.New("bad request")
	ErrConflict        = errors.New("conflict")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("access forbidden")
	ErrTooManyRequests = errors.New("too many requests")
)

// Error is a domain failure with a client-safe message and a kind.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Authentication and authorization.
var (
	ErrInvalidCredentials = newError(ErrUnauthenticated, "invalid credentials")
	ErrNoPrincipal        = newError(ErrUnauthenticated, "authentication required")
	ErrAccessDenied       = newError(ErrForbidden, "access forbidden")
	ErrTooManyAttempts    = newError(ErrTooManyRequests, "too many failed login attempts, try again later")
)

// Users and projects.
var (
	ErrUserNotFound      = newError(ErrNotFound, "user not found")
	ErrUserExists        = newError(ErrConflict, "user already exists")
	ErrAlreadyInvited    = newError(ErrConflict, "user already invited to this project")
	ErrProjectNotFound   = newError(ErrNotFound, "project not found")
	ErrNoProject         = newError(ErrNotFound, "user does not belong to any project")
	ErrAlreadyInProject  = newError(ErrConflict, "user already belongs to a project")
	ErrInvalidPrivilege  = newError(ErrBadRequest, "invalid privilege")
	ErrIncompleteAccount = newError(ErrBadRequest, "full name, email and password are required")
)

// Backlogs.
var (
	ErrProductBacklogNotFound = newError(ErrNotFound, "product backlog not found")
	ErrProductBacklogExists   = newError(ErrConflict, "project already has a product backlog")
	ErrSprintBacklogNotFound  = newError(ErrNotFound, "sprint backlog not found")
)

// Epics and user stories.
var (
	ErrEpicNotFound           = newError(ErrNotFound, "epic not found")
	ErrEpicAlreadyLinked      = newError(ErrConflict, "epic is already linked to a sprint backlog")
	ErrEpicHasNoUserStories   = newError(ErrBadRequest, "epic has no user stories")
	ErrUserStoryNotFound      = newError(ErrNotFound, "user story not found")
	ErrUserStoryAlreadyLinked = newError(ErrConflict, "user story is already linked to an epic")
	ErrBacklogMismatch        = newError(ErrBadRequest, "epic and user story belong to different product backlogs")
	ErrRoleProjectMismatch    = newError(ErrForbidden, "role does not belong to the product backlog's project")
)

// Roles and test cases.
var (
	ErrRoleNotFound     = newError(ErrNotFound, "role not found")
	ErrRoleExists       = newError(ErrConflict, "role name already exists in this project")
	ErrRoleInUse        = newError(ErrConflict, "role is referenced by user stories")
	ErrTestCaseNotFound = newError(ErrNotFound, "test case not found")
)
