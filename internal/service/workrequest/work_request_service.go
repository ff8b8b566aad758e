// internal/service/workrequest/work_request_service.go
package workrequest

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"worklink-service/internal/domain/account"
	"worklink-service/internal/domain/notification"
	"worklink-service/internal/domain/subscription"
	"worklink-service/internal/domain/workrequest"
	xerrors "worklink-service/internal/pkg/errors"
	"worklink-service/internal/pkg/metrics"

	"go.uber.org/zap"
)

// Store runs the transactional workflow mutations. The postgres
// implementation locks the affected rows; fakes stand in for tests.
type Store interface {
	Submit(ctx context.Context, w *workrequest.WorkRequest, now time.Time) error
	Approve(ctx context.Context, requestID, clientID, approverID int64) (int64, error)
	Delete(ctx context.Context, requestID, employeeID int64) error
}

// RequestRepo covers the non-transactional request reads and guarded writes.
type RequestRepo interface {
	FindByID(ctx context.Context, id int64) (*workrequest.WorkRequest, error)
	Reject(ctx context.Context, id, approverID int64, reason string) (bool, error)
	UpdateStatus(ctx context.Context, id int64, from, to workrequest.Status) (bool, error)
	List(ctx context.Context, filters *workrequest.ListFilters) ([]workrequest.Row, int64, error)
}

// SubscriptionRepo provides the pre-write subscription read used for payload
// validation.
type SubscriptionRepo interface {
	FindByID(ctx context.Context, id int64) (*subscription.ManagedSubscription, error)
}

// Notifier delivers workflow notifications. Delivery is best effort: the
// implementation logs and swallows failures, it never propagates them.
type Notifier interface {
	NotifyClient(ctx context.Context, clientID, workRequestID int64, typ notification.Type, message string)
	NotifyEmployee(ctx context.Context, employeeID, workRequestID int64, typ notification.Type, message string)
}

type WorkRequestService struct {
	store    Store
	requests RequestRepo
	subs     SubscriptionRepo
	notifier Notifier
	logger   *zap.Logger
	now      func() time.Time
}

func NewWorkRequestService(store Store, requests RequestRepo, subs SubscriptionRepo, notifier Notifier, logger *zap.Logger) *WorkRequestService {
	return &WorkRequestService{
		store:    store,
		requests: requests,
		subs:     subs,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// Submit files a new work request against a subscription. Employee only.
func (s *WorkRequestService) Submit(ctx context.Context, p account.Principal, req *workrequest.SubmitRequest) (*workrequest.WorkRequest, error) {
	if !p.IsEmployee() {
		return nil, fmt.Errorf("%w: only employees can file work requests", xerrors.ErrForbidden)
	}

	if err := workrequest.ValidateDateRange(req.RequestDate); err != nil {
		return nil, fmt.Errorf("%w: %s", xerrors.ErrInvalidInput, err.Error())
	}

	sub, err := s.subs.FindByID(ctx, req.SubscriptionID)
	if err != nil {
		return nil, err
	}
	if sub.ClientID != req.ClientID {
		return nil, fmt.Errorf("%w: subscription %d does not belong to client %d",
			xerrors.ErrInvalidInput, req.SubscriptionID, req.ClientID)
	}

	w := &workrequest.WorkRequest{
		SubscriptionID: req.SubscriptionID,
		ClientID:       req.ClientID,
		EmployeeID:     p.AccountID,
		ProductType:    sub.ProductType,
		Brand:          req.Brand,
		Manager:        req.Manager,
		RequestDate:    req.RequestDate,
		Content:        req.Content,
		Status:         workrequest.StatusPending,
	}
	if req.AttachmentURL != "" {
		w.AttachmentURL = sql.NullString{String: req.AttachmentURL, Valid: true}
		w.AttachmentName = sql.NullString{String: req.AttachmentName, Valid: true}
	}

	switch sub.ProductType {
	case subscription.ProductDeduct:
		if req.Cost <= 0 {
			return nil, fmt.Errorf("%w: cost is required for deduct-type subscriptions", xerrors.ErrInvalidInput)
		}
		w.Cost = req.Cost
	case subscription.ProductMaintenance:
		if !subscription.ValidCategory(req.WorkTypeDetail) {
			return nil, fmt.Errorf("%w: unknown work type detail %q", xerrors.ErrInvalidInput, req.WorkTypeDetail)
		}
		if req.Count <= 0 {
			return nil, fmt.Errorf("%w: count is required for maintenance-type subscriptions", xerrors.ErrInvalidInput)
		}
		w.WorkTypeDetail = sql.NullString{String: string(req.WorkTypeDetail), Valid: true}
		w.Count = req.Count
	}

	if err := s.store.Submit(ctx, w, s.now()); err != nil {
		return nil, err
	}

	metrics.WorkRequestTransitions.WithLabelValues("submitted").Inc()
	s.logger.Info("work request submitted",
		zap.Int64("work_request_id", w.ID),
		zap.Int64("subscription_id", w.SubscriptionID),
		zap.Int64("employee_id", w.EmployeeID))
	s.notifier.NotifyClient(ctx, w.ClientID, w.ID, notification.TypeWorkRequested,
		fmt.Sprintf("New work request #%d is awaiting your approval.", w.ID))

	return w, nil
}

// Approve marks a pending request approved on behalf of a vendor user.
func (s *WorkRequestService) Approve(ctx context.Context, p account.Principal, requestID int64) error {
	if !p.IsClient() || p.ClientID == nil {
		return fmt.Errorf("%w: only vendor users can approve work requests", xerrors.ErrForbidden)
	}

	employeeID, err := s.store.Approve(ctx, requestID, *p.ClientID, p.AccountID)
	if err != nil {
		return err
	}

	metrics.WorkRequestTransitions.WithLabelValues("approved").Inc()
	s.notifier.NotifyEmployee(ctx, employeeID, requestID, notification.TypeWorkApproved,
		fmt.Sprintf("Work request #%d has been approved.", requestID))

	return nil
}

// Reject declines a pending request with a mandatory reason.
func (s *WorkRequestService) Reject(ctx context.Context, p account.Principal, requestID int64, reason string) error {
	if !p.IsClient() || p.ClientID == nil {
		return fmt.Errorf("%w: only vendor users can reject work requests", xerrors.ErrForbidden)
	}
	if reason == "" {
		return fmt.Errorf("%w: rejection reason is required", xerrors.ErrInvalidInput)
	}

	w, err := s.requests.FindByID(ctx, requestID)
	if err != nil {
		return err
	}
	if w.Status == workrequest.StatusDeleted {
		return xerrors.ErrNotFound
	}
	if w.ClientID != *p.ClientID {
		return xerrors.ErrForbidden
	}
	if w.Status != workrequest.StatusPending {
		return fmt.Errorf("%w: cannot reject a %s request", xerrors.ErrInvalidTransition, w.Status)
	}

	applied, err := s.requests.Reject(ctx, requestID, p.AccountID, reason)
	if err != nil {
		return err
	}
	if !applied {
		// Lost the race with another transition.
		return fmt.Errorf("%w: request is no longer pending", xerrors.ErrInvalidTransition)
	}

	metrics.WorkRequestTransitions.WithLabelValues("rejected").Inc()
	s.notifier.NotifyEmployee(ctx, w.EmployeeID, requestID, notification.TypeWorkRejected,
		fmt.Sprintf("Work request #%d has been rejected: %s", requestID, reason))

	return nil
}

// ChangeStatus advances an approved request through in_progress and
// completed. Only the owning employee may do this.
func (s *WorkRequestService) ChangeStatus(ctx context.Context, p account.Principal, requestID int64, target workrequest.Status) error {
	if !p.IsEmployee() {
		return fmt.Errorf("%w: only employees can change work request status", xerrors.ErrForbidden)
	}

	w, err := s.requests.FindByID(ctx, requestID)
	if err != nil {
		return err
	}
	if w.Status == workrequest.StatusDeleted {
		return xerrors.ErrNotFound
	}
	if w.EmployeeID != p.AccountID {
		return fmt.Errorf("%w: only the assigned employee can change this request", xerrors.ErrForbidden)
	}
	if !workrequest.CanProgress(w.Status, target) {
		return fmt.Errorf("%w: %s -> %s", xerrors.ErrInvalidTransition, w.Status, target)
	}

	applied, err := s.requests.UpdateStatus(ctx, requestID, w.Status, target)
	if err != nil {
		return err
	}
	if !applied {
		return fmt.Errorf("%w: request status changed concurrently", xerrors.ErrInvalidTransition)
	}

	metrics.WorkRequestTransitions.WithLabelValues(string(target)).Inc()

	typ := notification.TypeWorkStarted
	msg := fmt.Sprintf("Work on request #%d has started.", requestID)
	if target == workrequest.StatusCompleted {
		typ = notification.TypeWorkCompleted
		msg = fmt.Sprintf("Work on request #%d has been completed.", requestID)
	}
	s.notifier.NotifyClient(ctx, w.ClientID, requestID, typ, msg)

	return nil
}

// Delete soft-deletes a request and reverses its deductions. Only the owning
// employee may do this.
func (s *WorkRequestService) Delete(ctx context.Context, p account.Principal, requestID int64) error {
	if !p.IsEmployee() {
		return fmt.Errorf("%w: only employees can delete work requests", xerrors.ErrForbidden)
	}

	if err := s.store.Delete(ctx, requestID, p.AccountID); err != nil {
		return err
	}

	metrics.WorkRequestTransitions.WithLabelValues("deleted").Inc()
	s.logger.Info("work request deleted",
		zap.Int64("work_request_id", requestID),
		zap.Int64("employee_id", p.AccountID))
	return nil
}

// Get retrieves a single request, scoped to the caller.
func (s *WorkRequestService) Get(ctx context.Context, p account.Principal, requestID int64) (*workrequest.WorkRequest, error) {
	w, err := s.requests.FindByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if w.Status == workrequest.StatusDeleted {
		return nil, xerrors.ErrNotFound
	}
	if p.IsClient() {
		if p.ClientID == nil || w.ClientID != *p.ClientID {
			return nil, xerrors.ErrForbidden
		}
	}
	return w, nil
}

// List retrieves work requests. Vendor users are always scoped to their own
// company; employees may filter freely.
func (s *WorkRequestService) List(ctx context.Context, p account.Principal, filters *workrequest.ListFilters) (*workrequest.ListResponse, error) {
	if p.IsClient() {
		if p.ClientID == nil {
			return nil, xerrors.ErrForbidden
		}
		filters.ClientID = p.ClientID
	}

	rows, total, err := s.requests.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list work requests: %w", err)
	}

	return &workrequest.ListResponse{
		Requests: rows,
		Total:    total,
		Page:     filters.Page,
		PageSize: filters.PageSize,
	}, nil
}
