// Package metrics defines and registers all custom Prometheus metrics for the
// backlog API. It is the single source of truth for metric names, labels, and
// help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation through promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "backlog"

// Entity labels shared by the lifecycle counters.
const (
	EntityProject        = "project"
	EntityProductBacklog = "product_backlog"
	EntitySprintBacklog  = "sprint_backlog"
	EntityEpic           = "epic"
	EntityUserStory      = "user_story"
	EntityRole           = "role"
	EntityTestCase       = "test_case"
	EntityUser           = "user"
)

// ── Domain lifecycle ─────────────────────────────────────────────────────────

// EntitiesCreatedTotal counts created entities.
// Label:
//   - entity: one of the Entity* constants
var EntitiesCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "entities_created_total",
		Help:      "Total number of backlog entities created, by entity.",
	},
	[]string{"entity"},
)

// EntitiesDeletedTotal counts explicitly deleted entities. Cascaded deletes
// are not counted individually.
var EntitiesDeletedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "entities_deleted_total",
		Help:      "Total number of backlog entities deleted, by entity.",
	},
	[]string{"entity"},
)

// LinksTotal counts link and unlink operations.
// Labels:
//   - kind: "epic_sprint" or "story_epic"
//   - action: "link" or "unlink"
var LinksTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "links_total",
		Help:      "Total number of link/unlink operations between backlog items.",
	},
	[]string{"kind", "action"},
)

// UserStoryStatusTotal counts derived status recomputations by resulting status.
var UserStoryStatusTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "user_story_status_total",
		Help:      "Total number of user story status recomputations, by resulting status.",
	},
	[]string{"status"},
)

// ── Security ─────────────────────────────────────────────────────────────────

// AccessDeniedTotal counts authorization failures.
// Label:
//   - check: "owner", "member", or "privilege"
var AccessDeniedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "access_denied_total",
		Help:      "Total number of denied project access checks.",
	},
	[]string{"check"},
)

// LoginAttemptsTotal counts login attempts.
// Label:
//   - result: "success", "invalid_credentials", or "throttled"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)
