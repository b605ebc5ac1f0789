package rbac

import "strings"

// Roles granted by the backend.
const (
	RoleAdmin      = "ADMIN"
	RoleManager    = "MANAGER"
	RolePharmacist = "PHARMACIST"
	RoleUser       = "USER"
)

// Permissions checked by the web client. The backend enforces its own rules;
// these only decide which screens are offered.
const (
	PermUsersView     = "users.view"
	PermReportsExport = "reports.export"
	PermRecordsEdit   = "records.edit"
)

var rolePermissions = map[string][]string{
	RoleAdmin:      {PermUsersView, PermReportsExport, PermRecordsEdit},
	RoleManager:    {PermReportsExport, PermRecordsEdit},
	RolePharmacist: {PermReportsExport, PermRecordsEdit},
	RoleUser:       {PermReportsExport, PermRecordsEdit},
}

// NormalizeRole upper-cases role and strips a ROLE_ prefix.
func NormalizeRole(role string) string {
	role = strings.ToUpper(strings.TrimSpace(role))
	return strings.TrimPrefix(role, "ROLE_")
}
