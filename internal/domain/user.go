package domain

import "time"

// User is a back-office user: an administrator or a cashier operating a
// drawer.
type User struct {
	ID        string
	Email     string
	Name      string
	Role      Role
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Role represents a user's access level.
type Role string

const (
	// RoleAdmin can manage drawers and issue balance adjustments.
	RoleAdmin Role = "admin"

	// RoleOperator can settle exchanges and close their own drawer.
	RoleOperator Role = "operator"
)

var validRoles = map[Role]bool{
	RoleAdmin:    true,
	RoleOperator: true,
}

// IsValid checks if the role is a known role.
func (r Role) IsValid() bool {
	return validRoles[r]
}

// CanAdjust reports whether the role may set absolute balances.
func (r Role) CanAdjust() bool {
	return r == RoleAdmin
}

// CanManageDrawers reports whether the role may create or reconfigure drawers.
func (r Role) CanManageDrawers() bool {
	return r == RoleAdmin
}

// Actor is the authenticated identity performing an operation.
type Actor struct {
	ID   string
	Role Role
}
