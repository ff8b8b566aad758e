package workrequest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"worklink-service/internal/domain/account"
	"worklink-service/internal/domain/notification"
	"worklink-service/internal/domain/subscription"
	"worklink-service/internal/domain/workrequest"
	xerrors "worklink-service/internal/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeStore mirrors the transactional store against an in-memory
// subscription, applying the same domain mutations the real store does.
type fakeStore struct {
	sub       *subscription.ManagedSubscription
	requests  *fakeRequestRepo
	nextID    int64
	submitErr error
}

func (f *fakeStore) Submit(_ context.Context, w *workrequest.WorkRequest, now time.Time) error {
	if f.submitErr != nil {
		return f.submitErr
	}
	if f.sub.ID != w.SubscriptionID {
		return xerrors.ErrNotFound
	}

	f.sub.MarkOngoing(now)
	if f.sub.CreditResetDue(now) {
		f.sub.ResetCredits(now)
	}
	if f.sub.ProductType == subscription.ProductMaintenance {
		w.DeductedCount = f.sub.DeductCredit(w.Category(), w.Count)
	}

	f.nextID++
	w.ID = f.nextID
	f.requests.store[w.ID] = w
	return nil
}

func (f *fakeStore) Approve(_ context.Context, requestID, clientID, approverID int64) (int64, error) {
	w, ok := f.requests.store[requestID]
	if !ok || w.Status == workrequest.StatusDeleted {
		return 0, xerrors.ErrNotFound
	}
	if w.ClientID != clientID {
		return 0, xerrors.ErrForbidden
	}
	if w.Status != workrequest.StatusPending {
		return 0, fmt.Errorf("%w: request is not pending", xerrors.ErrInvalidTransition)
	}
	var deducted int64
	if f.sub.ProductType == subscription.ProductDeduct {
		if f.sub.TotalAmount < w.Cost {
			return 0, xerrors.ErrInsufficientCredit
		}
		f.sub.TotalAmount -= w.Cost
		deducted = w.Cost
	}
	w.Approval = workrequest.SnapshotOf(f.sub, deducted)
	w.Status = workrequest.StatusApproved
	return w.EmployeeID, nil
}

func (f *fakeStore) Delete(_ context.Context, requestID, employeeID int64) error {
	w, ok := f.requests.store[requestID]
	if !ok || w.Status == workrequest.StatusDeleted {
		return xerrors.ErrNotFound
	}
	if w.EmployeeID != employeeID {
		return xerrors.ErrForbidden
	}
	if f.sub.ProductType == subscription.ProductMaintenance && w.DeductedCount > 0 {
		f.sub.RestoreCredit(w.Category(), w.DeductedCount)
	}
	if f.sub.ProductType == subscription.ProductDeduct && w.Approval.DeductedAmount.Valid {
		f.sub.TotalAmount += w.Approval.DeductedAmount.Int64
	}
	w.Status = workrequest.StatusDeleted
	return nil
}

type fakeRequestRepo struct {
	store map[int64]*workrequest.WorkRequest
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{store: make(map[int64]*workrequest.WorkRequest)}
}

func (f *fakeRequestRepo) FindByID(_ context.Context, id int64) (*workrequest.WorkRequest, error) {
	w, ok := f.store[id]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	return w, nil
}

func (f *fakeRequestRepo) Reject(_ context.Context, id, approverID int64, reason string) (bool, error) {
	w, ok := f.store[id]
	if !ok || w.Status != workrequest.StatusPending {
		return false, nil
	}
	w.Status = workrequest.StatusRejected
	w.RejectionReason.String = reason
	w.RejectionReason.Valid = true
	w.ApprovedBy.Int64 = approverID
	w.ApprovedBy.Valid = true
	return true, nil
}

func (f *fakeRequestRepo) UpdateStatus(_ context.Context, id int64, from, to workrequest.Status) (bool, error) {
	w, ok := f.store[id]
	if !ok || w.Status != from {
		return false, nil
	}
	w.Status = to
	return true, nil
}

func (f *fakeRequestRepo) List(_ context.Context, filters *workrequest.ListFilters) ([]workrequest.Row, int64, error) {
	var rows []workrequest.Row
	for _, w := range f.store {
		if w.Status == workrequest.StatusDeleted {
			continue
		}
		if filters.ClientID != nil && w.ClientID != *filters.ClientID {
			continue
		}
		rows = append(rows, workrequest.Row{WorkRequest: *w})
	}
	return rows, int64(len(rows)), nil
}

type fakeSubRepo struct {
	sub *subscription.ManagedSubscription
}

func (f *fakeSubRepo) FindByID(_ context.Context, id int64) (*subscription.ManagedSubscription, error) {
	if f.sub == nil || f.sub.ID != id {
		return nil, xerrors.ErrNotFound
	}
	return f.sub, nil
}

type sentNotification struct {
	recipientID int64
	requestID   int64
	typ         notification.Type
	message     string
}

type fakeNotifier struct {
	toClient   []sentNotification
	toEmployee []sentNotification
}

func (f *fakeNotifier) NotifyClient(_ context.Context, clientID, workRequestID int64, typ notification.Type, message string) {
	f.toClient = append(f.toClient, sentNotification{clientID, workRequestID, typ, message})
}

func (f *fakeNotifier) NotifyEmployee(_ context.Context, employeeID, workRequestID int64, typ notification.Type, message string) {
	f.toEmployee = append(f.toEmployee, sentNotification{employeeID, workRequestID, typ, message})
}

type fixture struct {
	svc      *WorkRequestService
	sub      *subscription.ManagedSubscription
	requests *fakeRequestRepo
	notifier *fakeNotifier
}

func newFixture(sub *subscription.ManagedSubscription) *fixture {
	requests := newFakeRequestRepo()
	notifier := &fakeNotifier{}
	store := &fakeStore{sub: sub, requests: requests}
	svc := NewWorkRequestService(store, requests, &fakeSubRepo{sub: sub}, notifier, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC) }
	return &fixture{svc: svc, sub: sub, requests: requests, notifier: notifier}
}

func maintenanceSub() *subscription.ManagedSubscription {
	return &subscription.ManagedSubscription{
		ID:          1,
		ClientID:    10,
		PlanID:      100,
		ProductType: subscription.ProductMaintenance,
		Detail:      subscription.CreditCounters{TextEdit: 3, CodingEdit: 2},
		Defaults:    subscription.CreditCounters{TextEdit: 3, CodingEdit: 2},
		Status:      subscription.StatusWait,
	}
}

func deductSub(balance int64) *subscription.ManagedSubscription {
	return &subscription.ManagedSubscription{
		ID:          1,
		ClientID:    10,
		PlanID:      100,
		ProductType: subscription.ProductDeduct,
		TotalAmount: balance,
		Status:      subscription.StatusWait,
	}
}

func employee(id int64) account.Principal {
	return account.Principal{AccountID: id, Role: account.RoleEmployee}
}

func vendor(accountID, clientID int64) account.Principal {
	return account.Principal{AccountID: accountID, Role: account.RoleClient, ClientID: &clientID}
}

func submitReq() *workrequest.SubmitRequest {
	return &workrequest.SubmitRequest{
		SubscriptionID: 1,
		ClientID:       10,
		Brand:          "Acme",
		Manager:        "Kim",
		RequestDate:    "2026-03-10 ~ 2026-03-12",
		Content:        "Replace the hero banner copy",
		WorkTypeDetail: subscription.CategoryTextEdit,
		Count:          2,
	}
}

func TestSubmitMaintenanceRequest(t *testing.T) {
	f := newFixture(maintenanceSub())

	w, err := f.svc.Submit(context.Background(), employee(7), submitReq())
	require.NoError(t, err)

	assert.Equal(t, workrequest.StatusPending, w.Status)
	assert.Equal(t, 2, w.DeductedCount)
	assert.Equal(t, 1, f.sub.Detail.TextEdit)
	assert.Equal(t, subscription.StatusOngoing, f.sub.Status)
	require.NotNil(t, f.sub.ProgressStartedDate)

	require.Len(t, f.notifier.toClient, 1)
	sent := f.notifier.toClient[0]
	assert.Equal(t, int64(10), sent.recipientID)
	assert.Equal(t, notification.TypeWorkRequested, sent.typ)
	assert.Contains(t, sent.message, fmt.Sprintf("#%d", w.ID))
}

func TestSubmitDeductsPartiallyWhenCreditLow(t *testing.T) {
	sub := maintenanceSub()
	sub.Detail.TextEdit = 1
	f := newFixture(sub)

	req := submitReq()
	req.Count = 5

	w, err := f.svc.Submit(context.Background(), employee(7), req)
	require.NoError(t, err)

	// Only what was available gets recorded; the counter floors at zero.
	assert.Equal(t, 1, w.DeductedCount)
	assert.Equal(t, 0, f.sub.Detail.TextEdit)
	assert.Equal(t, workrequest.StatusPending, w.Status)
}

func TestSubmitValidation(t *testing.T) {
	t.Run("clients cannot submit", func(t *testing.T) {
		f := newFixture(maintenanceSub())
		_, err := f.svc.Submit(context.Background(), vendor(20, 10), submitReq())
		assert.ErrorIs(t, err, xerrors.ErrForbidden)
	})

	t.Run("bad date range", func(t *testing.T) {
		f := newFixture(maintenanceSub())
		req := submitReq()
		req.RequestDate = "2026-03-12 ~ 2026-03-10"
		_, err := f.svc.Submit(context.Background(), employee(7), req)
		assert.ErrorIs(t, err, xerrors.ErrInvalidInput)
	})

	t.Run("client mismatch", func(t *testing.T) {
		f := newFixture(maintenanceSub())
		req := submitReq()
		req.ClientID = 99
		_, err := f.svc.Submit(context.Background(), employee(7), req)
		assert.ErrorIs(t, err, xerrors.ErrInvalidInput)
	})

	t.Run("unknown work category", func(t *testing.T) {
		f := newFixture(maintenanceSub())
		req := submitReq()
		req.WorkTypeDetail = "logoDesign"
		_, err := f.svc.Submit(context.Background(), employee(7), req)
		assert.ErrorIs(t, err, xerrors.ErrInvalidInput)
	})

	t.Run("deduct type requires cost", func(t *testing.T) {
		f := newFixture(deductSub(100000))
		req := submitReq()
		req.Cost = 0
		_, err := f.svc.Submit(context.Background(), employee(7), req)
		assert.ErrorIs(t, err, xerrors.ErrInvalidInput)
	})

	t.Run("unpaid subscription never flips to ongoing", func(t *testing.T) {
		sub := maintenanceSub()
		sub.Status = subscription.StatusUnpaid
		f := newFixture(sub)

		_, err := f.svc.Submit(context.Background(), employee(7), submitReq())
		require.NoError(t, err)
		assert.Equal(t, subscription.StatusUnpaid, f.sub.Status)
	})
}

func TestApprove(t *testing.T) {
	t.Run("deduct approval charges the balance", func(t *testing.T) {
		f := newFixture(deductSub(100000))
		req := submitReq()
		req.Cost = 30000

		w, err := f.svc.Submit(context.Background(), employee(7), req)
		require.NoError(t, err)

		require.NoError(t, f.svc.Approve(context.Background(), vendor(20, 10), w.ID))
		assert.Equal(t, int64(70000), f.sub.TotalAmount)
		assert.Equal(t, workrequest.StatusApproved, w.Status)

		// The snapshot keeps the historical view accurate even after the
		// live balance moves again.
		require.True(t, w.Approval.DeductedAmount.Valid)
		assert.Equal(t, int64(30000), w.Approval.DeductedAmount.Int64)
		require.True(t, w.Approval.RemainingAmount.Valid)
		assert.Equal(t, int64(70000), w.Approval.RemainingAmount.Int64)
		assert.False(t, w.Approval.TextEditCount.Valid)

		require.Len(t, f.notifier.toEmployee, 1)
		assert.Equal(t, notification.TypeWorkApproved, f.notifier.toEmployee[0].typ)
		assert.Equal(t, int64(7), f.notifier.toEmployee[0].recipientID)
	})

	t.Run("maintenance approval snapshots the counters", func(t *testing.T) {
		f := newFixture(maintenanceSub())
		w, err := f.svc.Submit(context.Background(), employee(7), submitReq())
		require.NoError(t, err)

		require.NoError(t, f.svc.Approve(context.Background(), vendor(20, 10), w.ID))

		require.True(t, w.Approval.TextEditCount.Valid)
		assert.Equal(t, int32(1), w.Approval.TextEditCount.Int32)
		assert.Equal(t, int32(2), w.Approval.CodingEditCount.Int32)
		assert.False(t, w.Approval.DeductedAmount.Valid)
		assert.False(t, w.Approval.RemainingAmount.Valid)
	})

	t.Run("insufficient balance blocks approval", func(t *testing.T) {
		f := newFixture(deductSub(10000))
		req := submitReq()
		req.Cost = 30000

		w, err := f.svc.Submit(context.Background(), employee(7), req)
		require.NoError(t, err)

		err = f.svc.Approve(context.Background(), vendor(20, 10), w.ID)
		assert.ErrorIs(t, err, xerrors.ErrInsufficientCredit)
		assert.Equal(t, int64(10000), f.sub.TotalAmount)
		assert.Equal(t, workrequest.StatusPending, w.Status)
		assert.Empty(t, f.notifier.toEmployee)
	})

	t.Run("employees cannot approve", func(t *testing.T) {
		f := newFixture(maintenanceSub())
		err := f.svc.Approve(context.Background(), employee(7), 1)
		assert.ErrorIs(t, err, xerrors.ErrForbidden)
	})

	t.Run("other vendors cannot approve", func(t *testing.T) {
		f := newFixture(maintenanceSub())
		w, err := f.svc.Submit(context.Background(), employee(7), submitReq())
		require.NoError(t, err)

		err = f.svc.Approve(context.Background(), vendor(30, 99), w.ID)
		assert.ErrorIs(t, err, xerrors.ErrForbidden)
	})
}

func TestReject(t *testing.T) {
	t.Run("stores the reason verbatim in the notification", func(t *testing.T) {
		f := newFixture(maintenanceSub())
		w, err := f.svc.Submit(context.Background(), employee(7), submitReq())
		require.NoError(t, err)

		reason := "불명확한 작업내용"
		require.NoError(t, f.svc.Reject(context.Background(), vendor(20, 10), w.ID, reason))

		assert.Equal(t, workrequest.StatusRejected, w.Status)
		assert.Equal(t, reason, w.RejectionReason.String)

		// Rejection does not hand credits back.
		assert.Equal(t, 1, f.sub.Detail.TextEdit)

		require.Len(t, f.notifier.toEmployee, 1)
		sent := f.notifier.toEmployee[0]
		assert.Equal(t, notification.TypeWorkRejected, sent.typ)
		assert.Contains(t, sent.message, reason)
	})

	t.Run("reason is mandatory", func(t *testing.T) {
		f := newFixture(maintenanceSub())
		err := f.svc.Reject(context.Background(), vendor(20, 10), 1, "")
		assert.ErrorIs(t, err, xerrors.ErrInvalidInput)
	})

	t.Run("only pending requests can be rejected", func(t *testing.T) {
		f := newFixture(maintenanceSub())
		w, err := f.svc.Submit(context.Background(), employee(7), submitReq())
		require.NoError(t, err)
		require.NoError(t, f.svc.Approve(context.Background(), vendor(20, 10), w.ID))

		err = f.svc.Reject(context.Background(), vendor(20, 10), w.ID, "changed my mind")
		assert.ErrorIs(t, err, xerrors.ErrInvalidTransition)
	})
}

func TestChangeStatus(t *testing.T) {
	setupApproved := func(t *testing.T) (*fixture, *workrequest.WorkRequest) {
		t.Helper()
		f := newFixture(maintenanceSub())
		w, err := f.svc.Submit(context.Background(), employee(7), submitReq())
		require.NoError(t, err)
		require.NoError(t, f.svc.Approve(context.Background(), vendor(20, 10), w.ID))
		f.notifier.toClient = nil
		return f, w
	}

	t.Run("walks approved through completed", func(t *testing.T) {
		f, w := setupApproved(t)

		require.NoError(t, f.svc.ChangeStatus(context.Background(), employee(7), w.ID, workrequest.StatusInProgress))
		assert.Equal(t, workrequest.StatusInProgress, w.Status)

		require.NoError(t, f.svc.ChangeStatus(context.Background(), employee(7), w.ID, workrequest.StatusCompleted))
		assert.Equal(t, workrequest.StatusCompleted, w.Status)

		require.Len(t, f.notifier.toClient, 2)
		assert.Equal(t, notification.TypeWorkStarted, f.notifier.toClient[0].typ)
		assert.Equal(t, notification.TypeWorkCompleted, f.notifier.toClient[1].typ)
	})

	t.Run("cannot skip in_progress", func(t *testing.T) {
		f, w := setupApproved(t)
		err := f.svc.ChangeStatus(context.Background(), employee(7), w.ID, workrequest.StatusCompleted)
		assert.ErrorIs(t, err, xerrors.ErrInvalidTransition)
	})

	t.Run("only the owning employee can advance", func(t *testing.T) {
		f, w := setupApproved(t)
		err := f.svc.ChangeStatus(context.Background(), employee(8), w.ID, workrequest.StatusInProgress)
		assert.ErrorIs(t, err, xerrors.ErrForbidden)
	})

	t.Run("pending requests cannot start", func(t *testing.T) {
		f := newFixture(maintenanceSub())
		w, err := f.svc.Submit(context.Background(), employee(7), submitReq())
		require.NoError(t, err)

		err = f.svc.ChangeStatus(context.Background(), employee(7), w.ID, workrequest.StatusInProgress)
		assert.ErrorIs(t, err, xerrors.ErrInvalidTransition)
	})
}

func TestDelete(t *testing.T) {
	t.Run("restores deducted credits", func(t *testing.T) {
		f := newFixture(maintenanceSub())
		w, err := f.svc.Submit(context.Background(), employee(7), submitReq())
		require.NoError(t, err)
		require.Equal(t, 1, f.sub.Detail.TextEdit)

		require.NoError(t, f.svc.Delete(context.Background(), employee(7), w.ID))
		assert.Equal(t, workrequest.StatusDeleted, w.Status)
		assert.Equal(t, 3, f.sub.Detail.TextEdit)
	})

	t.Run("returns the charged amount for approved deduct requests", func(t *testing.T) {
		f := newFixture(deductSub(100000))
		req := submitReq()
		req.Cost = 30000

		w, err := f.svc.Submit(context.Background(), employee(7), req)
		require.NoError(t, err)
		require.NoError(t, f.svc.Approve(context.Background(), vendor(20, 10), w.ID))
		require.Equal(t, int64(70000), f.sub.TotalAmount)

		require.NoError(t, f.svc.Delete(context.Background(), employee(7), w.ID))
		assert.Equal(t, workrequest.StatusDeleted, w.Status)
		assert.Equal(t, int64(100000), f.sub.TotalAmount)
	})

	t.Run("only the owning employee can delete", func(t *testing.T) {
		f := newFixture(maintenanceSub())
		w, err := f.svc.Submit(context.Background(), employee(7), submitReq())
		require.NoError(t, err)

		err = f.svc.Delete(context.Background(), employee(8), w.ID)
		assert.ErrorIs(t, err, xerrors.ErrForbidden)
	})

	t.Run("deleted requests are hidden", func(t *testing.T) {
		f := newFixture(maintenanceSub())
		w, err := f.svc.Submit(context.Background(), employee(7), submitReq())
		require.NoError(t, err)
		require.NoError(t, f.svc.Delete(context.Background(), employee(7), w.ID))

		_, err = f.svc.Get(context.Background(), employee(7), w.ID)
		assert.ErrorIs(t, err, xerrors.ErrNotFound)
	})
}

func TestListScoping(t *testing.T) {
	f := newFixture(maintenanceSub())
	w, err := f.svc.Submit(context.Background(), employee(7), submitReq())
	require.NoError(t, err)

	t.Run("vendor is forced onto their own company", func(t *testing.T) {
		otherCompany := int64(99)
		resp, err := f.svc.List(context.Background(), vendor(20, otherCompany), &workrequest.ListFilters{})
		require.NoError(t, err)
		assert.Empty(t, resp.Requests)
	})

	t.Run("owning vendor sees the request", func(t *testing.T) {
		resp, err := f.svc.List(context.Background(), vendor(20, 10), &workrequest.ListFilters{})
		require.NoError(t, err)
		require.Len(t, resp.Requests, 1)
		assert.Equal(t, w.ID, resp.Requests[0].ID)
	})

	t.Run("vendor cannot read another company's request", func(t *testing.T) {
		_, err := f.svc.Get(context.Background(), vendor(30, 99), w.ID)
		assert.ErrorIs(t, err, xerrors.ErrForbidden)
	})
}
