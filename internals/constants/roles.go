package constants

import "fmt"

const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
	RoleViewer = "viewer"
)

// Role error message templates
const (
	ErrOnlyEditorsCanAccess = "❌ Solo administradores o editores pueden acceder a %s."
	ErrOnlyAdminsCanAccess  = "❌ Solo administradores pueden acceder a %s."
)

func RoleErrorEditor(feature string) string {
	return fmt.Sprintf(ErrOnlyEditorsCanAccess, feature)
}

func RoleErrorAdmin(feature string) string {
	return fmt.Sprintf(ErrOnlyAdminsCanAccess, feature)
}

// ==========================
// ✅ Grouped Role Slices
// ==========================
var (
	AllRoles = []string{
		RoleAdmin,
		RoleEditor,
		RoleViewer,
	}

	EditorAndAbove = []string{
		RoleAdmin,
		RoleEditor,
	}

	AdminOnly = []string{
		RoleAdmin,
	}
)

func IsValidRole(r string) bool {
	for _, x := range AllRoles {
		if x == r {
			return true
		}
	}
	return false
}
