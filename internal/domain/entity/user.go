package entity

// Role rol del usuario autenticado.
type Role string

// Roles válidos para User.
const (
	RoleAdmin    Role = "ADMIN"
	RoleEmployee Role = "EMPLOYEE"
)

// Valid indica si el rol pertenece a la enumeración.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleEmployee:
		return true
	default:
		return false
	}
}

// User usuario autenticado. Se serializa tal cual bajo la clave de sesión.
type User struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role Role   `json:"role"`
}

// IsAdmin indica si el usuario tiene rol administrador.
func (u User) IsAdmin() bool { return u.Role == RoleAdmin }
