package domain

import "time"

// Privilege is the global permission tier of a user.
type Privilege string

const (
	PrivilegeProductOwner     Privilege = "PRODUCT_OWNER"
	PrivilegeDeveloper        Privilege = "DEVELOPER"
	PrivilegeQualityAssurance Privilege = "QUALITY_ASSURANCE"
	PrivilegeScrumMaster      Privilege = "SCRUM_MASTER"
)

// privilegeLevels ranks privileges; a lower level is a higher privilege.
var privilegeLevels = map[Privilege]int{
	PrivilegeProductOwner:     0,
	PrivilegeDeveloper:        1,
	PrivilegeQualityAssurance: 2,
	PrivilegeScrumMaster:      3,
}

// Valid reports whether p is a known privilege.
func (p Privilege) Valid() bool {
	_, ok := privilegeLevels[p]
	return ok
}

// Level returns the rank of p. Unknown privileges rank below every known one.
func (p Privilege) Level() int {
	if lvl, ok := privilegeLevels[p]; ok {
		return lvl
	}
	return len(privilegeLevels)
}

// AtLeast reports whether p ranks the same as or higher than min.
func (p Privilege) AtLeast(min Privilege) bool {
	return p.Valid() && p.Level() <= min.Level()
}

// User models an authenticated actor in the system.
type User struct {
	ID           string    `json:"id"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Privilege    Privilege `json:"privilege"`
	ProjectID    string    `json:"projectId,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// HasProject reports whether the user currently belongs to a project.
func (u *User) HasProject() bool {
	return u.ProjectID != ""
}
