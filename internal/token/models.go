package token

// Role is the advisory role read from a credential's claims. It only picks
// which screen to mount; the API enforces authorization on its own.
type Role string

const (
	RoleNone  Role = ""
	RoleAdmin Role = "Admin"
	RoleUser  Role = "User"
)

const (
	roleClaim           = "role"
	namespacedRoleClaim = "http://schemas.microsoft.com/ws/2008/06/identity/claims/role"
)

func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}
