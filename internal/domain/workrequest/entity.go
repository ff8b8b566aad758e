// internal/domain/workrequest/entity.go
package workrequest

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"worklink-service/internal/domain/subscription"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusApproved   Status = "approved"
	StatusRejected   Status = "rejected"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusDeleted    Status = "deleted"
)

// CanProgress reports whether an employee may advance a request from one
// status to another. Only approved -> in_progress and
// in_progress -> completed are legal.
func CanProgress(from, to Status) bool {
	switch to {
	case StatusInProgress:
		return from == StatusApproved
	case StatusCompleted:
		return from == StatusInProgress
	}
	return false
}

// DateRangeSeparator joins the start and end dates of a request period.
const DateRangeSeparator = " ~ "

// ValidateDateRange checks the "YYYY-MM-DD ~ YYYY-MM-DD" period string.
func ValidateDateRange(s string) error {
	parts := strings.Split(s, DateRangeSeparator)
	if len(parts) != 2 {
		return fmt.Errorf("date range must be \"YYYY-MM-DD ~ YYYY-MM-DD\", got %q", s)
	}

	start, err := time.Parse("2006-01-02", parts[0])
	if err != nil {
		return fmt.Errorf("invalid start date %q: %w", parts[0], err)
	}
	end, err := time.Parse("2006-01-02", parts[1])
	if err != nil {
		return fmt.Errorf("invalid end date %q: %w", parts[1], err)
	}

	if end.Before(start) {
		return fmt.Errorf("end date %s precedes start date %s", parts[1], parts[0])
	}
	return nil
}

// ApprovalSnapshot is the point-in-time copy of the subscription's balance
// and counters captured when a request is approved, so historical views stay
// accurate as the live subscription keeps changing.
type ApprovalSnapshot struct {
	DeductedAmount  sql.NullInt64 `json:"approval_deducted_amount" db:"approval_deducted_amount"`
	RemainingAmount sql.NullInt64 `json:"approval_remaining_amount" db:"approval_remaining_amount"`
	TextEditCount   sql.NullInt32 `json:"approval_text_edit_count" db:"approval_text_edit_count"`
	CodingEditCount sql.NullInt32 `json:"approval_coding_edit_count" db:"approval_coding_edit_count"`
	ImageEditCount  sql.NullInt32 `json:"approval_image_edit_count" db:"approval_image_edit_count"`
	PopupCount      sql.NullInt32 `json:"approval_popup_design_count" db:"approval_popup_design_count"`
	BannerCount     sql.NullInt32 `json:"approval_banner_design_count" db:"approval_banner_design_count"`
}

// SnapshotOf captures the post-deduction state of a subscription.
func SnapshotOf(sub *subscription.ManagedSubscription, deducted int64) ApprovalSnapshot {
	snap := ApprovalSnapshot{}
	if sub.ProductType == subscription.ProductDeduct {
		snap.DeductedAmount = sql.NullInt64{Int64: deducted, Valid: true}
		snap.RemainingAmount = sql.NullInt64{Int64: sub.TotalAmount, Valid: true}
		return snap
	}
	snap.TextEditCount = sql.NullInt32{Int32: int32(sub.Detail.TextEdit), Valid: true}
	snap.CodingEditCount = sql.NullInt32{Int32: int32(sub.Detail.CodingEdit), Valid: true}
	snap.ImageEditCount = sql.NullInt32{Int32: int32(sub.Detail.ImageEdit), Valid: true}
	snap.PopupCount = sql.NullInt32{Int32: int32(sub.Detail.PopupDesign), Valid: true}
	snap.BannerCount = sql.NullInt32{Int32: int32(sub.Detail.BannerDesign), Valid: true}
	return snap
}

// WorkRequest is a unit of billable or creditable work filed against a
// managed subscription.
type WorkRequest struct {
	ID             int64                    `json:"id" db:"id"`
	SubscriptionID int64                    `json:"subscription_id" db:"subscription_id"`
	ClientID       int64                    `json:"client_id" db:"client_id"`
	EmployeeID     int64                    `json:"employee_id" db:"employee_id"`
	ProductType    subscription.ProductType `json:"product_type" db:"product_type"`

	Brand          string         `json:"brand" db:"brand"`
	Manager        string         `json:"manager" db:"manager"`
	RequestDate    string         `json:"request_date" db:"request_date"`
	Content        string         `json:"content" db:"content"`
	AttachmentURL  sql.NullString `json:"attachment_url,omitempty" db:"attachment_url"`
	AttachmentName sql.NullString `json:"attachment_name,omitempty" db:"attachment_name"`

	// Deduct-type requests carry a monetary cost.
	Cost int64 `json:"cost" db:"cost"`

	// Maintenance-type requests consume count units from one counter;
	// DeductedCount records the units actually removed (the counter floors
	// at zero) so deletion restores exactly what was taken.
	WorkTypeDetail sql.NullString `json:"work_type_detail,omitempty" db:"work_type_detail"`
	Count          int            `json:"count" db:"count"`
	DeductedCount  int            `json:"deducted_count" db:"deducted_count"`

	Status          Status         `json:"status" db:"status"`
	RejectionReason sql.NullString `json:"rejection_reason,omitempty" db:"rejection_reason"`
	ApprovedBy      sql.NullInt64  `json:"approved_by,omitempty" db:"approved_by"`
	ApprovedAt      sql.NullTime   `json:"approved_at,omitempty" db:"approved_at"`
	RejectedAt      sql.NullTime   `json:"rejected_at,omitempty" db:"rejected_at"`

	Approval ApprovalSnapshot `json:"approval"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Category returns the credit counter a maintenance request consumes.
func (w *WorkRequest) Category() subscription.WorkCategory {
	if !w.WorkTypeDetail.Valid {
		return ""
	}
	return subscription.WorkCategory(w.WorkTypeDetail.String)
}

// Row is a listing row enriched with joined display names.
type Row struct {
	WorkRequest
	EmployeeName string `json:"employee_name" db:"employee_name"`
	ClientName   string `json:"client_name" db:"client_name"`
}
