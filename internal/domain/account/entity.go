// internal/domain/account/entity.go
package account

import (
	"time"
)

type Role string

const (
	RoleEmployee Role = "employee"
	RoleClient   Role = "client"
	RoleAdmin    Role = "admin"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusDisabled Status = "disabled"
)

// Account is an authenticatable principal: internal staff (employee/admin)
// or a vendor-side user (client, bound to a client company).
type Account struct {
	ID           int64     `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Name         string    `json:"name" db:"name"`
	Role         Role      `json:"role" db:"role"`
	ClientID     *int64    `json:"client_id,omitempty" db:"client_id"`
	Status       Status    `json:"status" db:"status"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// Principal is the authenticated identity resolved once at the HTTP boundary
// and passed explicitly into every service call.
type Principal struct {
	AccountID int64
	Role      Role
	ClientID  *int64
}

func (p Principal) IsEmployee() bool {
	return p.Role == RoleEmployee || p.Role == RoleAdmin
}

func (p Principal) IsClient() bool {
	return p.Role == RoleClient
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}
