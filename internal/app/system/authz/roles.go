// internal/app/system/authz/roles.go
package authz

// Application roles. Every profile record carries exactly one of these.
const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
	RoleViewer = "viewer"
)

// AllRoles lists the valid roles in display order.
var AllRoles = []string{RoleAdmin, RoleEditor, RoleViewer}

// IsValidRole reports whether role is one of the fixed role values.
func IsValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleEditor, RoleViewer:
		return true
	}
	return false
}
