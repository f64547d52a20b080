package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin = "ADMIN"
	RoleStaff = "STAFF"
)

// User representa un usuario del sistema.
type User struct {
	ID                 string
	Email              string
	PasswordHash       string // bcrypt hash, nunca plano en dominio después de persistir
	Name               string
	Role               string // ADMIN, STAFF
	IsApproved         bool
	DefaultWarehouseID string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
