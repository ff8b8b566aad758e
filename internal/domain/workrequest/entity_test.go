package workrequest

import (
	"testing"

	"worklink-service/internal/domain/subscription"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanProgress(t *testing.T) {
	tests := []struct {
		name string
		from Status
		to   Status
		want bool
	}{
		{"approved to in_progress", StatusApproved, StatusInProgress, true},
		{"in_progress to completed", StatusInProgress, StatusCompleted, true},
		{"pending to in_progress", StatusPending, StatusInProgress, false},
		{"pending to completed", StatusPending, StatusCompleted, false},
		{"approved to completed skips in_progress", StatusApproved, StatusCompleted, false},
		{"rejected to in_progress", StatusRejected, StatusInProgress, false},
		{"completed to in_progress", StatusCompleted, StatusInProgress, false},
		{"in_progress to approved", StatusInProgress, StatusApproved, false},
		{"deleted to in_progress", StatusDeleted, StatusInProgress, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanProgress(tt.from, tt.to))
		})
	}
}

func TestSnapshotOf(t *testing.T) {
	t.Run("deduct captures amounts and leaves counters null", func(t *testing.T) {
		sub := &subscription.ManagedSubscription{
			ProductType: subscription.ProductDeduct,
			TotalAmount: 70000,
		}

		snap := SnapshotOf(sub, 30000)

		require.True(t, snap.DeductedAmount.Valid)
		assert.Equal(t, int64(30000), snap.DeductedAmount.Int64)
		require.True(t, snap.RemainingAmount.Valid)
		assert.Equal(t, int64(70000), snap.RemainingAmount.Int64)

		assert.False(t, snap.TextEditCount.Valid)
		assert.False(t, snap.CodingEditCount.Valid)
		assert.False(t, snap.ImageEditCount.Valid)
		assert.False(t, snap.PopupCount.Valid)
		assert.False(t, snap.BannerCount.Valid)
	})

	t.Run("maintenance captures counters and leaves amounts null", func(t *testing.T) {
		sub := &subscription.ManagedSubscription{
			ProductType: subscription.ProductMaintenance,
			Detail: subscription.CreditCounters{
				TextEdit:     1,
				CodingEdit:   2,
				ImageEdit:    3,
				PopupDesign:  4,
				BannerDesign: 5,
			},
		}

		snap := SnapshotOf(sub, 0)

		assert.False(t, snap.DeductedAmount.Valid)
		assert.False(t, snap.RemainingAmount.Valid)

		require.True(t, snap.TextEditCount.Valid)
		assert.Equal(t, int32(1), snap.TextEditCount.Int32)
		assert.Equal(t, int32(2), snap.CodingEditCount.Int32)
		assert.Equal(t, int32(3), snap.ImageEditCount.Int32)
		assert.Equal(t, int32(4), snap.PopupCount.Int32)
		assert.Equal(t, int32(5), snap.BannerCount.Int32)
	})
}

func TestValidateDateRange(t *testing.T) {
	t.Run("valid range", func(t *testing.T) {
		require.NoError(t, ValidateDateRange("2026-03-01 ~ 2026-03-15"))
	})

	t.Run("single day range", func(t *testing.T) {
		require.NoError(t, ValidateDateRange("2026-03-01 ~ 2026-03-01"))
	})

	t.Run("missing separator", func(t *testing.T) {
		require.Error(t, ValidateDateRange("2026-03-01 - 2026-03-15"))
	})

	t.Run("end before start", func(t *testing.T) {
		require.Error(t, ValidateDateRange("2026-03-15 ~ 2026-03-01"))
	})

	t.Run("malformed date", func(t *testing.T) {
		require.Error(t, ValidateDateRange("03/01/2026 ~ 03/15/2026"))
	})

	t.Run("empty", func(t *testing.T) {
		require.Error(t, ValidateDateRange(""))
	})
}
