package auth

// Role represents a named authorization level assigned to a user.
// It is immutable once assigned and drives all authorization decisions.
type Role string

const (
	// RoleAdmin has unrestricted access to every resource.
	RoleAdmin Role = "admin"
	// RoleCoordinator manages convocatorias, approves projects and runs reports.
	RoleCoordinator Role = "coordinator"
	// RolePresenter submits and maintains their own projects.
	RolePresenter Role = "presenter"
	// RoleReviewer writes peer reviews for submitted projects.
	RoleReviewer Role = "reviewer"
	// RoleGuest may only view public project information.
	RoleGuest Role = "guest"
)

// Roles lists every valid role. The order is fixed and used wherever a
// deterministic enumeration is needed.
func Roles() []Role {
	return []Role{RoleAdmin, RoleCoordinator, RolePresenter, RoleReviewer, RoleGuest}
}

// Valid reports whether r is one of the defined roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleCoordinator, RolePresenter, RoleReviewer, RoleGuest:
		return true
	}

	return false
}
