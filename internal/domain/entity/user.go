package entity

import "time"

// Roles válidos para User.
const (
	RoleSales   = "sales"   // vendedor
	RoleCSR     = "csr"     // servicio a clientes
	RoleManager = "manager" // gerente
	RoleAdmin   = "admin"   // administrador
)

// User es el actor autenticado del sistema. Las capacidades de rol se consultan
// vía predicados explícitos, resueltos una vez por petición.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt, nunca en claro después de persistir
	FirstName    string
	LastName     string
	Role         string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsSales indica si el usuario es vendedor.
func (u *User) IsSales() bool { return u.Role == RoleSales }

// IsCSR indica si el usuario es de servicio a clientes.
func (u *User) IsCSR() bool { return u.Role == RoleCSR }

// IsManager indica si el usuario es gerente.
func (u *User) IsManager() bool { return u.Role == RoleManager }

// IsAdmin indica si el usuario es administrador.
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

// FullName nombre completo del usuario.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
