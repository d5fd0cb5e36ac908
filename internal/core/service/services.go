package service

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/agileworks/backlog-api/internal/core/ports"
)

// Services is the set of use cases exposed over HTTP.
type Services struct {
	Access          *AccessService
	Auth            *AuthService
	Projects        *ProjectService
	Roles           *RoleService
	ProductBacklogs *ProductBacklogService
	SprintBacklogs  *SprintBacklogService
	Epics           *EpicService
	UserStories     *UserStoryService
	TestCases       *TestCaseService
}

// AuthOptions configures token issuing and login throttling. Throttle may be
// nil.
type AuthOptions struct {
	JWTSecret string
	TokenTTL  time.Duration
	Throttle  LoginThrottle
}

// NewServices wires every service over one repository set and transactor.
func NewServices(repos Repositories, tx ports.Transactor, auth AuthOptions, log zerolog.Logger) *Services {
	access := NewAccessService(repos.Users, repos.Projects, log.With().Str("component", "access").Logger())
	stories := NewUserStoryService(repos, tx, access, log.With().Str("component", "user_stories").Logger())

	return &Services{
		Access:          access,
		Auth:            NewAuthService(repos.Users, auth.Throttle, auth.JWTSecret, auth.TokenTTL, log.With().Str("component", "auth").Logger()),
		Projects:        NewProjectService(repos, tx, access, log.With().Str("component", "projects").Logger()),
		Roles:           NewRoleService(repos.Roles, repos.UserStories, access, log.With().Str("component", "roles").Logger()),
		ProductBacklogs: NewProductBacklogService(repos, tx, access, log.With().Str("component", "product_backlogs").Logger()),
		SprintBacklogs:  NewSprintBacklogService(repos, tx, access, log.With().Str("component", "sprint_backlogs").Logger()),
		Epics:           NewEpicService(repos, tx, access, log.With().Str("component", "epics").Logger()),
		UserStories:     stories,
		TestCases:       NewTestCaseService(repos, tx, access, stories, log.With().Str("component", "test_cases").Logger()),
	}
}
