// internal/domain/client/entity.go
package client

import (
	"database/sql"
	"time"
)

type Status string

const (
	StatusActive Status = "active"
	StatusEnded  Status = "ended"
)

// Client is a vendor company: it owns managed subscriptions and its users
// approve work requests.
type Client struct {
	ID                int64          `json:"id" db:"id"`
	CompanyName       string         `json:"company_name" db:"company_name"`
	BusinessNo        sql.NullString `json:"business_no,omitempty" db:"business_no"`
	ContactName       string         `json:"contact_name" db:"contact_name"`
	ContactPhone      sql.NullString `json:"contact_phone,omitempty" db:"contact_phone"`
	ContactEmail      sql.NullString `json:"contact_email,omitempty" db:"contact_email"`
	ManagerEmployeeID sql.NullInt64  `json:"manager_employee_id,omitempty" db:"manager_employee_id"`
	Status            Status         `json:"status" db:"status"`
	Memo              sql.NullString `json:"memo,omitempty" db:"memo"`
	CreatedAt         time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at" db:"updated_at"`
}
