package entity

import "time"

// Papéis de usuário.
const (
	RoleAdmin      = "admin"
	RoleMarceneiro = "marceneiro"
	RoleVendedor   = "vendedor"
)

// User representa um usuário do sistema.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         string // admin, marceneiro, vendedor
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
