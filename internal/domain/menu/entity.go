// internal/domain/menu/entity.go
package menu

import (
	"time"

	"worklink-service/internal/domain/account"
)

// MenuPermission controls which portal menus a role can see.
type MenuPermission struct {
	ID        int64        `json:"id" db:"id"`
	Role      account.Role `json:"role" db:"role"`
	MenuCode  string       `json:"menu_code" db:"menu_code"`
	Allowed   bool         `json:"allowed" db:"allowed"`
	UpdatedAt time.Time    `json:"updated_at" db:"updated_at"`
}

type UpsertRequest struct {
	Role     account.Role `json:"role" binding:"required,oneof=employee client admin"`
	MenuCode string       `json:"menu_code" binding:"required,max=50"`
	Allowed  bool         `json:"allowed"`
}
