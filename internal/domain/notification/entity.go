// internal/domain/notification/entity.go
package notification

import (
	"database/sql"
	"time"

	"worklink-service/internal/domain/account"
)

type Type string

const (
	TypeWorkRequested Type = "work_requested"
	TypeWorkStarted   Type = "work_started"
	TypeWorkCompleted Type = "work_completed"
	TypeWorkApproved  Type = "work_approved"
	TypeWorkRejected  Type = "work_rejected"
)

// Notification is addressed to exactly one account on either side of the
// workflow. It is a best-effort side effect of a work-request transition.
type Notification struct {
	ID            int64         `json:"id" db:"id"`
	RecipientRole account.Role  `json:"recipient_role" db:"recipient_role"`
	RecipientID   int64         `json:"recipient_id" db:"recipient_id"`
	WorkRequestID sql.NullInt64 `json:"work_request_id,omitempty" db:"work_request_id"`
	Type          Type          `json:"type" db:"type"`
	Message       string        `json:"message" db:"message"`
	IsRead        bool          `json:"is_read" db:"is_read"`
	CreatedAt     time.Time     `json:"created_at" db:"created_at"`
	ReadAt        sql.NullTime  `json:"read_at,omitempty" db:"read_at"`
}
