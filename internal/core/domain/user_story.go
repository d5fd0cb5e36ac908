package domain

import "time"

// TestResult is the outcome of the last run of a test case. The empty value
// means the case has not been executed.
type TestResult string

const (
	ResultPass    TestResult = "PASS"
	ResultFail    TestResult = "FAIL"
	ResultBlocked TestResult = "BLOCKED"
	ResultSkipped TestResult = "SKIPPED"
)

// UserStory is a unit of backlog work written for a project role.
type UserStory struct {
	ID               string     `json:"id"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	Priority         Priority   `json:"priority"`
	Status           WorkStatus `json:"status"`
	ProductBacklogID string     `json:"productBacklogId"`
	RoleID           string     `json:"roleId"`
	EpicID           string     `json:"epicId,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

// HasEpic reports whether the story is linked to an epic.
func (s *UserStory) HasEpic() bool {
	return s.EpicID != ""
}

// TestCase verifies one aspect of a user story.
type TestCase struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Result      TestResult `json:"result,omitempty"`
	UserStoryID string     `json:"userStoryId"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// DeriveStoryStatus computes a user story's status from its test cases:
// no cases is NOT_STARTED, all passing is DONE, anything else is IN_PROGRESS.
func DeriveStoryStatus(cases []*TestCase) WorkStatus {
	if len(cases) == 0 {
		return StatusNotStarted
	}
	for _, tc := range cases {
		if tc.Result != ResultPass {
			return StatusInProgress
		}
	}
	return StatusDone
}
