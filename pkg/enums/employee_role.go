package enums

import "fmt"

// EmployeeRole represents a staff member's function within the garage.
type EmployeeRole string

const (
	EmployeeRoleOwner          EmployeeRole = "owner"
	EmployeeRoleManager        EmployeeRole = "manager"
	EmployeeRoleServiceAdvisor EmployeeRole = "service_advisor"
	EmployeeRoleMechanic       EmployeeRole = "mechanic"
	EmployeeRoleStorekeeper    EmployeeRole = "storekeeper"
	EmployeeRoleAccountant     EmployeeRole = "accountant"
)

var validEmployeeRoles = []EmployeeRole{
	EmployeeRoleOwner,
	EmployeeRoleManager,
	EmployeeRoleServiceAdvisor,
	EmployeeRoleMechanic,
	EmployeeRoleStorekeeper,
	EmployeeRoleAccountant,
}

// String implements fmt.Stringer.
func (r EmployeeRole) String() string {
	return string(r)
}

// IsValid reports whether the value is a known EmployeeRole.
func (r EmployeeRole) IsValid() bool {
	for _, candidate := range validEmployeeRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseEmployeeRole converts raw input into an EmployeeRole.
func ParseEmployeeRole(value string) (EmployeeRole, error) {
	for _, candidate := range validEmployeeRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid employee role %q", value)
}
