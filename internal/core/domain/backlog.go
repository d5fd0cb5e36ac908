package domain

import "time"

// Priority orders epics and user stories inside a backlog.
type Priority string

const (
	PriorityLow      Priority = "LOW"
	PriorityMedium   Priority = "MEDIUM"
	PriorityHigh     Priority = "HIGH"
	PriorityCritical Priority = "CRITICAL"
)

// WorkStatus is the progress state shared by epics and user stories.
type WorkStatus string

const (
	StatusNotStarted WorkStatus = "NOT_STARTED"
	StatusInProgress WorkStatus = "IN_PROGRESS"
	StatusDone       WorkStatus = "DONE"
)

// ProductBacklog holds every epic and user story of a project. A project has
// at most one.
type ProductBacklog struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	ProjectID string    `json:"projectId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SprintBacklog is a time-boxed subset of the product backlog. Epics join a
// sprint by pointing at it.
type SprintBacklog struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	ProjectID   string    `json:"projectId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Epic groups user stories and can be scheduled into one sprint backlog.
type Epic struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	Description      string     `json:"description"`
	Priority         Priority   `json:"priority"`
	Status           WorkStatus `json:"status"`
	DueDate          *time.Time `json:"dueDate,omitempty"`
	ProductBacklogID string     `json:"productBacklogId"`
	SprintBacklogID  string     `json:"sprintBacklogId,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

// IsLinked reports whether the epic is scheduled into a sprint backlog.
func (e *Epic) IsLinked() bool {
	return e.SprintBacklogID != ""
}
