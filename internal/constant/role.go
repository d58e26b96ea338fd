package constant

type UserRole string

const (
	UserRoleStudent UserRole = "student"
	UserRoleAdmin   UserRole = "admin"
)

func (r UserRole) Valid() bool {
	return r == UserRoleStudent || r == UserRoleAdmin
}
