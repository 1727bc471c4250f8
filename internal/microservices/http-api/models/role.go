package models

// Role is the single role attached to every user.
type Role string

const (
	RoleUser      Role = "user"
	RoleOrganizer Role = "organizer"
	RoleAdmin     Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleOrganizer, RoleAdmin:
		return true
	}
	return false
}

// Permission names a capability checked by middleware and services.
type Permission string

const (
	PermParticipate      Permission = "participate" // rate, comment, report, follow
	PermViewDashboard    Permission = "dashboard:view"
	PermManageCampsites  Permission = "campsites:manage"
	PermModerateComments Permission = "comments:moderate"
	PermResolveReports   Permission = "reports:resolve"
	PermManageUsers      Permission = "users:manage"
)

// Permissions is the explicit role -> capability table. Roles do not inherit
// from each other; every grant is listed.
var Permissions = map[Role]map[Permission]bool{
	RoleUser: {
		PermParticipate: true,
	},
	RoleOrganizer: {
		PermParticipate:     true,
		PermViewDashboard:   true,
		PermManageCampsites: true,
	},
	RoleAdmin: {
		PermParticipate:      true,
		PermViewDashboard:    true,
		PermManageCampsites:  true,
		PermModerateComments: true,
		PermResolveReports:   true,
		PermManageUsers:      true,
	},
}

// Can reports whether the role holds the permission. Unknown roles hold nothing.
func (r Role) Can(p Permission) bool {
	return Permissions[r][p]
}
