// internal/repository/postgres/work_request_store.go
package postgres

import (
	"context"
	"fmt"
	"time"

	"worklink-service/internal/domain/subscription"
	"worklink-service/internal/domain/workrequest"
	xerrors "worklink-service/internal/pkg/errors"
)

// WorkRequestStore runs the multi-row workflow mutations. Each method is a
// single transaction locking the affected work-request and subscription rows
// with SELECT ... FOR UPDATE, so concurrent submissions or approvals against
// the same subscription serialize instead of losing updates.
type WorkRequestStore struct {
	db            *DB
	requests      *WorkRequestRepository
	subscriptions *SubscriptionRepository
}

func NewWorkRequestStore(db *DB, requests *WorkRequestRepository, subscriptions *SubscriptionRepository) *WorkRequestStore {
	return &WorkRequestStore{
		db:            db,
		requests:      requests,
		subscriptions: subscriptions,
	}
}

// Submit inserts a pending work request and applies the submission-time
// subscription changes: wait/end flips to ongoing (never from unpaid), the
// reset anchor is stamped, a due monthly credit reset fires, and maintenance
// credits are provisionally deducted with the applied units recorded on the
// request.
func (s *WorkRequestStore) Submit(ctx context.Context, w *workrequest.WorkRequest, now time.Time) error {
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	sub, err := s.subscriptions.FindByIDForUpdate(ctx, tx, w.SubscriptionID)
	if err != nil {
		return err
	}
	if sub.ClientID != w.ClientID {
		return fmt.Errorf("%w: subscription does not belong to client %d", xerrors.ErrInvalidInput, w.ClientID)
	}

	w.ProductType = sub.ProductType
	sub.MarkOngoing(now)

	if sub.ProductType == subscription.ProductMaintenance {
		if sub.CreditResetDue(now) {
			sub.ResetCredits(now)
		}
		w.DeductedCount = sub.DeductCredit(w.Category(), w.Count)
	}

	if err := s.requests.CreateWithTx(ctx, tx, w); err != nil {
		return err
	}
	if err := s.subscriptions.SaveStateWithTx(ctx, tx, sub); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// Approve finalizes a pending request on behalf of a vendor user:
// deduct-type requests charge their cost against the prepaid balance, the
// post-deduction state is captured as the approval snapshot, and the request
// flips to approved. Returns the owning employee id.
func (s *WorkRequestStore) Approve(ctx context.Context, requestID, clientID, approverID int64) (int64, error) {
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	w, err := s.requests.FindByIDForUpdate(ctx, tx, requestID)
	if err != nil {
		return 0, err
	}
	if w.Status == workrequest.StatusDeleted {
		return 0, xerrors.ErrNotFound
	}
	if w.ClientID != clientID {
		return 0, xerrors.ErrForbidden
	}
	if w.Status != workrequest.StatusPending {
		return 0, fmt.Errorf("%w: cannot approve a %s request", xerrors.ErrInvalidTransition, w.Status)
	}

	sub, err := s.subscriptions.FindByIDForUpdate(ctx, tx, w.SubscriptionID)
	if err != nil {
		return 0, err
	}

	var deducted int64
	if sub.ProductType == subscription.ProductDeduct {
		if sub.TotalAmount < w.Cost {
			return 0, fmt.Errorf("%w: cost %d exceeds remaining amount %d",
				xerrors.ErrInsufficientCredit, w.Cost, sub.TotalAmount)
		}
		sub.TotalAmount -= w.Cost
		deducted = w.Cost
		if err := s.subscriptions.SaveStateWithTx(ctx, tx, sub); err != nil {
			return 0, err
		}
	}

	snap := workrequest.SnapshotOf(sub, deducted)
	if err := s.requests.ApproveWithTx(ctx, tx, requestID, approverID, snap); err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit approval: %w", err)
	}
	return w.EmployeeID, nil
}

// Delete soft-deletes a request and restores whatever submission or approval
// had deducted: provisional maintenance credits and, for approved
// deduct-type requests, the charged amount.
func (s *WorkRequestStore) Delete(ctx context.Context, requestID, employeeID int64) error {
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	w, err := s.requests.FindByIDForUpdate(ctx, tx, requestID)
	if err != nil {
		return err
	}
	if w.Status == workrequest.StatusDeleted {
		return xerrors.ErrNotFound
	}
	if w.EmployeeID != employeeID {
		return xerrors.ErrForbidden
	}

	sub, err := s.subscriptions.FindByIDForUpdate(ctx, tx, w.SubscriptionID)
	if err != nil {
		return err
	}

	changed := false
	if sub.ProductType == subscription.ProductMaintenance && w.DeductedCount > 0 {
		sub.RestoreCredit(w.Category(), w.DeductedCount)
		changed = true
	}
	if sub.ProductType == subscription.ProductDeduct && w.Approval.DeductedAmount.Valid {
		sub.TotalAmount += w.Approval.DeductedAmount.Int64
		changed = true
	}
	if changed {
		if err := s.subscriptions.SaveStateWithTx(ctx, tx, sub); err != nil {
			return err
		}
	}

	if err := s.requests.MarkDeletedWithTx(ctx, tx, requestID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
