package constants

// Role yang dikenal oleh auth gate
const (
	RoleEditor = "editor"
	RoleViewer = "viewer"
)

var (
	AllRoles = []string{
		RoleEditor,
		RoleViewer,
	}

	EditorOnly = []string{
		RoleEditor,
	}
)

// IsKnownRole dipakai saat membaca role dari token / tabel users.
func IsKnownRole(role string) bool {
	for _, r := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}
