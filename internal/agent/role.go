package agent

import "fmt"

// Role names one specialized agent. The set is closed.
type Role string

const (
	RoleGreeter      Role = "greeter"
	RoleReservation  Role = "reservation"
	RoleTakeaway     Role = "takeaway"
	RoleCheckout     Role = "checkout"
	RoleReceptionist Role = "receptionist"
	RoleStudentInfo  Role = "student_info"
	RoleClinicDesk   Role = "clinic_desk"
	RoleMedical      Role = "medical"
	RoleAutoDesk     Role = "auto_desk"
	RoleAssistant    Role = "assistant"
)

var allRoles = []Role{
	RoleGreeter,
	RoleReservation,
	RoleTakeaway,
	RoleCheckout,
	RoleReceptionist,
	RoleStudentInfo,
	RoleClinicDesk,
	RoleMedical,
	RoleAutoDesk,
	RoleAssistant,
}

// Roles returns every known role.
func Roles() []Role {
	out := make([]Role, len(allRoles))
	copy(out, allRoles)
	return out
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	for _, known := range allRoles {
		if r == known {
			return true
		}
	}
	return false
}

// ParseRole converts s to a Role.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("unknown agent role: %q", s)
	}
	return r, nil
}

func (r Role) String() string {
	return string(r)
}
