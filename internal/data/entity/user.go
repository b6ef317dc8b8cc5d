package entity

type UserRole string

const (
	RoleCustomer UserRole = "customer"
	RoleProvider UserRole = "provider"
	RoleAdmin    UserRole = "admin"
)

func (r UserRole) Valid() bool {
	switch r {
	case RoleCustomer, RoleProvider, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	Base
	Name         string   `db:"name"`
	Email        string   `db:"email"`
	Phone        *string  `db:"phone"`
	ProfileImage *string  `db:"profile_image"`
	Role         UserRole `db:"role"`
	IsActive     bool     `db:"is_active"`
}
