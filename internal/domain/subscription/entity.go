// internal/domain/subscription/entity.go
package subscription

import (
	"database/sql"
	"time"
)

type ProductType string

const (
	// ProductDeduct bills against a prepaid monetary balance.
	ProductDeduct ProductType = "deduct"
	// ProductMaintenance consumes monthly credit counters.
	ProductMaintenance ProductType = "maintenance"
)

type Status string

const (
	StatusWait    Status = "wait"
	StatusOngoing Status = "ongoing"
	StatusEnd     Status = "end"
	StatusUnpaid  Status = "unpaid"
)

// WorkCategory identifies one of the five maintenance credit counters.
type WorkCategory string

const (
	CategoryTextEdit     WorkCategory = "textEdit"
	CategoryCodingEdit   WorkCategory = "codingEdit"
	CategoryImageEdit    WorkCategory = "imageEdit"
	CategoryPopupDesign  WorkCategory = "popupDesign"
	CategoryBannerDesign WorkCategory = "bannerDesign"
)

// ValidCategory reports whether c names one of the five credit counters.
func ValidCategory(c WorkCategory) bool {
	switch c {
	case CategoryTextEdit, CategoryCodingEdit, CategoryImageEdit,
		CategoryPopupDesign, CategoryBannerDesign:
		return true
	}
	return false
}

// CreditCounters holds the five independent maintenance allowances.
type CreditCounters struct {
	TextEdit     int `json:"text_edit"`
	CodingEdit   int `json:"coding_edit"`
	ImageEdit    int `json:"image_edit"`
	PopupDesign  int `json:"popup_design"`
	BannerDesign int `json:"banner_design"`
}

// Get returns the counter value for a category.
func (cc CreditCounters) Get(c WorkCategory) int {
	switch c {
	case CategoryTextEdit:
		return cc.TextEdit
	case CategoryCodingEdit:
		return cc.CodingEdit
	case CategoryImageEdit:
		return cc.ImageEdit
	case CategoryPopupDesign:
		return cc.PopupDesign
	case CategoryBannerDesign:
		return cc.BannerDesign
	}
	return 0
}

func (cc *CreditCounters) set(c WorkCategory, v int) {
	switch c {
	case CategoryTextEdit:
		cc.TextEdit = v
	case CategoryCodingEdit:
		cc.CodingEdit = v
	case CategoryImageEdit:
		cc.ImageEdit = v
	case CategoryPopupDesign:
		cc.PopupDesign = v
	case CategoryBannerDesign:
		cc.BannerDesign = v
	}
}

// Plan is a purchasable product definition. Maintenance plans carry the
// credit defaults every subscription resets to each month.
type Plan struct {
	ID          int64          `json:"id" db:"id"`
	Code        string         `json:"code" db:"code"`
	Name        string         `json:"name" db:"name"`
	ProductType ProductType    `json:"product_type" db:"product_type"`
	Grade       string         `json:"grade" db:"grade"`
	Price       int64          `json:"price" db:"price"`
	Defaults    CreditCounters `json:"defaults"`
	CreatedAt   time.Time      `json:"created_at" db:"created_at"`
}

// ManagedSubscription is a vendor's purchased product instance.
type ManagedSubscription struct {
	ID          int64       `json:"id" db:"id"`
	ClientID    int64       `json:"client_id" db:"client_id"`
	PlanID      int64       `json:"plan_id" db:"plan_id"`
	ProductType ProductType `json:"product_type" db:"product_type"`
	Grade       string      `json:"grade" db:"grade"`

	// Remaining prepaid balance for deduct-type subscriptions.
	TotalAmount int64 `json:"total_amount" db:"total_amount"`

	// Live counters and the plan defaults they reset to.
	Detail   CreditCounters `json:"detail"`
	Defaults CreditCounters `json:"defaults"`

	Status Status `json:"status" db:"status"`

	// ProgressStartedDate anchors the monthly credit reset; stamped when the
	// first work request arrives.
	ProgressStartedDate *time.Time `json:"progress_started_date,omitempty" db:"progress_started_date"`

	// LastCreditResetMonth holds "YYYY-MM" of the last reset, guarding
	// against double resets within a month.
	LastCreditResetMonth sql.NullString `json:"last_credit_reset_month,omitempty" db:"last_credit_reset_month"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// MarkOngoing flips the subscription to ongoing when the first work request
// arrives, unless it is unpaid, and stamps the reset anchor if unset.
// Returns true when anything changed.
func (s *ManagedSubscription) MarkOngoing(now time.Time) bool {
	if s.Status == StatusOngoing || s.Status == StatusUnpaid {
		return false
	}
	s.Status = StatusOngoing
	if s.ProgressStartedDate == nil {
		d := now
		s.ProgressStartedDate = &d
	}
	return true
}

// CreditResetDue reports whether the monthly reset should fire: today's
// day-of-month equals the anchor day and the current month differs from the
// last reset month. Anchors on day 29-31 skip shorter months; that matches
// the shipped behavior and changing it needs product sign-off.
func (s *ManagedSubscription) CreditResetDue(now time.Time) bool {
	if s.ProductType != ProductMaintenance || s.ProgressStartedDate == nil {
		return false
	}
	if now.Day() != s.ProgressStartedDate.Day() {
		return false
	}
	month := now.Format("2006-01")
	return !s.LastCreditResetMonth.Valid || s.LastCreditResetMonth.String != month
}

// ResetCredits restores all five counters to their plan defaults and records
// the reset month.
func (s *ManagedSubscription) ResetCredits(now time.Time) {
	s.Detail = s.Defaults
	s.LastCreditResetMonth = sql.NullString{String: now.Format("2006-01"), Valid: true}
}

// DeductCredit subtracts count units from the selected counter, flooring at
// zero, and returns the units actually removed.
func (s *ManagedSubscription) DeductCredit(c WorkCategory, count int) int {
	cur := s.Detail.Get(c)
	applied := count
	if applied > cur {
		applied = cur
	}
	s.Detail.set(c, cur-applied)
	return applied
}

// RestoreCredit adds previously deducted units back to a counter.
func (s *ManagedSubscription) RestoreCredit(c WorkCategory, count int) {
	s.Detail.set(c, s.Detail.Get(c)+count)
}
