package constants

import "fmt"

// Role slugs (selaras dengan kolom role di service auth eksternal)
const (
	RoleUser       = "user"
	RoleParent     = "parent"
	RoleTeacher    = "teacher"
	RoleBursar     = "bursar"
	RoleAccountant = "accountant"
	RoleAdmin      = "admin"
	RoleOwner      = "owner"
)

// Template pesan error role
const (
	ErrOnlyAdminsCanAccess  = "❌ Hanya admin yang boleh mengakses fitur %s."
	ErrOnlyFinanceCanAccess = "❌ Hanya bursar, accountant, admin, atau owner yang boleh mengakses fitur %s."
)

func RoleErrorAdmin(feature string) string {
	return fmt.Sprintf(ErrOnlyAdminsCanAccess, feature)
}

func RoleErrorFinance(feature string) string {
	return fmt.Sprintf(ErrOnlyFinanceCanAccess, feature)
}

// ==========================
// ✅ Grouped Role Slices
// ==========================
var (
	AllRoles = []string{
		RoleUser,
		RoleParent,
		RoleTeacher,
		RoleBursar,
		RoleAccountant,
		RoleAdmin,
		RoleOwner,
	}

	// ReceiptStaffRoles: satu-satunya role yang boleh membuat/void kuitansi.
	ReceiptStaffRoles = []string{
		RoleBursar,
		RoleAccountant,
		RoleAdmin,
		RoleOwner,
	}

	AdminAndAbove = []string{
		RoleAdmin,
		RoleOwner,
	}
)

func RoleAllowed(role string, allowed []string) bool {
	for _, a := range allowed {
		if a == role {
			return true
		}
	}
	return false
}
