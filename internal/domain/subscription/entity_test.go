package subscription

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func maintenanceSub(detail, defaults CreditCounters) *ManagedSubscription {
	return &ManagedSubscription{
		ID:          1,
		ClientID:    10,
		PlanID:      100,
		ProductType: ProductMaintenance,
		Detail:      detail,
		Defaults:    defaults,
		Status:      StatusWait,
	}
}

func TestDeductCredit(t *testing.T) {
	t.Run("full deduction", func(t *testing.T) {
		sub := maintenanceSub(CreditCounters{TextEdit: 3}, CreditCounters{TextEdit: 3})
		applied := sub.DeductCredit(CategoryTextEdit, 2)
		assert.Equal(t, 2, applied)
		assert.Equal(t, 1, sub.Detail.TextEdit)
	})

	t.Run("floors at zero when count exceeds balance", func(t *testing.T) {
		sub := maintenanceSub(CreditCounters{ImageEdit: 2}, CreditCounters{ImageEdit: 5})
		applied := sub.DeductCredit(CategoryImageEdit, 7)
		assert.Equal(t, 2, applied)
		assert.Equal(t, 0, sub.Detail.ImageEdit)
	})

	t.Run("zero balance deducts nothing", func(t *testing.T) {
		sub := maintenanceSub(CreditCounters{}, CreditCounters{BannerDesign: 4})
		applied := sub.DeductCredit(CategoryBannerDesign, 1)
		assert.Equal(t, 0, applied)
		assert.Equal(t, 0, sub.Detail.BannerDesign)
	})

	t.Run("counters are independent", func(t *testing.T) {
		sub := maintenanceSub(CreditCounters{TextEdit: 3, CodingEdit: 5}, CreditCounters{})
		sub.DeductCredit(CategoryCodingEdit, 2)
		assert.Equal(t, 3, sub.Detail.TextEdit)
		assert.Equal(t, 3, sub.Detail.CodingEdit)
	})
}

func TestRestoreCredit(t *testing.T) {
	sub := maintenanceSub(CreditCounters{PopupDesign: 1}, CreditCounters{})
	sub.RestoreCredit(CategoryPopupDesign, 2)
	assert.Equal(t, 3, sub.Detail.PopupDesign)
}

func TestMarkOngoing(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	t.Run("wait becomes ongoing and stamps anchor", func(t *testing.T) {
		sub := maintenanceSub(CreditCounters{}, CreditCounters{})
		sub.Status = StatusWait

		changed := sub.MarkOngoing(now)
		require.True(t, changed)
		assert.Equal(t, StatusOngoing, sub.Status)
		require.NotNil(t, sub.ProgressStartedDate)
		assert.Equal(t, now, *sub.ProgressStartedDate)
	})

	t.Run("end becomes ongoing", func(t *testing.T) {
		sub := maintenanceSub(CreditCounters{}, CreditCounters{})
		sub.Status = StatusEnd

		assert.True(t, sub.MarkOngoing(now))
		assert.Equal(t, StatusOngoing, sub.Status)
	})

	t.Run("unpaid stays unpaid", func(t *testing.T) {
		sub := maintenanceSub(CreditCounters{}, CreditCounters{})
		sub.Status = StatusUnpaid

		assert.False(t, sub.MarkOngoing(now))
		assert.Equal(t, StatusUnpaid, sub.Status)
		assert.Nil(t, sub.ProgressStartedDate)
	})

	t.Run("ongoing keeps existing anchor", func(t *testing.T) {
		earlier := now.AddDate(0, -1, 0)
		sub := maintenanceSub(CreditCounters{}, CreditCounters{})
		sub.Status = StatusOngoing
		sub.ProgressStartedDate = &earlier

		assert.False(t, sub.MarkOngoing(now))
		assert.Equal(t, earlier, *sub.ProgressStartedDate)
	})
}

func TestCreditResetDue(t *testing.T) {
	anchor := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)

	newSub := func() *ManagedSubscription {
		sub := maintenanceSub(CreditCounters{TextEdit: 1}, CreditCounters{TextEdit: 3})
		sub.Status = StatusOngoing
		sub.ProgressStartedDate = &anchor
		return sub
	}

	t.Run("due on anchor day in a new month", func(t *testing.T) {
		sub := newSub()
		assert.True(t, sub.CreditResetDue(time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC)))
	})

	t.Run("not due on other days", func(t *testing.T) {
		sub := newSub()
		assert.False(t, sub.CreditResetDue(time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC)))
		assert.False(t, sub.CreditResetDue(time.Date(2026, 2, 16, 0, 0, 0, 0, time.UTC)))
	})

	t.Run("not due twice in the same month", func(t *testing.T) {
		sub := newSub()
		sub.LastCreditResetMonth = sql.NullString{String: "2026-02", Valid: true}
		assert.False(t, sub.CreditResetDue(time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC)))
	})

	t.Run("day 31 anchor skips shorter months", func(t *testing.T) {
		day31 := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
		sub := newSub()
		sub.ProgressStartedDate = &day31

		// February has no day 31, so no reset fires that month.
		assert.False(t, sub.CreditResetDue(time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)))
		assert.True(t, sub.CreditResetDue(time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)))
	})

	t.Run("never due without an anchor", func(t *testing.T) {
		sub := newSub()
		sub.ProgressStartedDate = nil
		assert.False(t, sub.CreditResetDue(time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC)))
	})

	t.Run("never due for deduct subscriptions", func(t *testing.T) {
		sub := newSub()
		sub.ProductType = ProductDeduct
		assert.False(t, sub.CreditResetDue(time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC)))
	})
}

func TestResetCredits(t *testing.T) {
	sub := maintenanceSub(
		CreditCounters{TextEdit: 0, CodingEdit: 1},
		CreditCounters{TextEdit: 3, CodingEdit: 5, ImageEdit: 2},
	)

	now := time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC)
	sub.ResetCredits(now)

	assert.Equal(t, sub.Defaults, sub.Detail)
	require.True(t, sub.LastCreditResetMonth.Valid)
	assert.Equal(t, "2026-02", sub.LastCreditResetMonth.String)
}
