package enums

// UserRole is the platform role carried in access tokens.
type UserRole string

const (
	UserRoleCustomer UserRole = "customer"
	UserRoleAdmin    UserRole = "admin"
	UserRoleRider    UserRole = "rider"
)

var userRoles = []UserRole{UserRoleCustomer, UserRoleAdmin, UserRoleRider}

func (r UserRole) String() string { return string(r) }

func (r UserRole) IsValid() bool {
	_, err := ParseUserRole(string(r))
	return err == nil
}

func ParseUserRole(value string) (UserRole, error) {
	return parse(userRoles, value, "user role")
}
