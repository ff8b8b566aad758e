// internal/service/subscription/subscription_service.go
package subscription

import (
	"context"
	"fmt"

	"worklink-service/internal/domain/account"
	"worklink-service/internal/domain/client"
	"worklink-service/internal/domain/subscription"
	xerrors "worklink-service/internal/pkg/errors"
	"worklink-service/internal/repository/postgres"

	"go.uber.org/zap"
)

// SubscriptionService manages the plan catalog and each client's managed
// subscriptions. Balance and credit mutations never happen here; they run
// inside the work-request transactions.
type SubscriptionService struct {
	plans   *postgres.PlanRepository
	subs    *postgres.SubscriptionRepository
	clients *postgres.ClientRepository
	logger  *zap.Logger
}

func NewSubscriptionService(plans *postgres.PlanRepository, subs *postgres.SubscriptionRepository, clients *postgres.ClientRepository, logger *zap.Logger) *SubscriptionService {
	return &SubscriptionService{
		plans:   plans,
		subs:    subs,
		clients: clients,
		logger:  logger,
	}
}

func (s *SubscriptionService) CreatePlan(ctx context.Context, p account.Principal, req *subscription.CreatePlanRequest) (*subscription.Plan, error) {
	if !p.IsAdmin() {
		return nil, fmt.Errorf("%w: only admins can create plans", xerrors.ErrForbidden)
	}

	plan := &subscription.Plan{
		Code:        req.Code,
		Name:        req.Name,
		ProductType: req.ProductType,
		Grade:       req.Grade,
		Price:       req.Price,
		Defaults: subscription.CreditCounters{
			TextEdit:     req.TextEditCount,
			CodingEdit:   req.CodingEditCount,
			ImageEdit:    req.ImageEditCount,
			PopupDesign:  req.PopupDesignCount,
			BannerDesign: req.BannerDesignCount,
		},
	}
	if err := s.plans.Create(ctx, plan); err != nil {
		if xerrors.Is(err, xerrors.ErrConflict) {
			return nil, fmt.Errorf("%w: plan code is already in use", xerrors.ErrConflict)
		}
		return nil, fmt.Errorf("create plan: %w", err)
	}

	s.logger.Info("plan created",
		zap.Int64("plan_id", plan.ID),
		zap.String("code", plan.Code),
	)
	return plan, nil
}

func (s *SubscriptionService) GetPlan(ctx context.Context, id int64) (*subscription.Plan, error) {
	return s.plans.FindByID(ctx, id)
}

func (s *SubscriptionService) ListPlans(ctx context.Context) ([]subscription.Plan, error) {
	return s.plans.List(ctx)
}

// Create opens a subscription for a client. The plan's product type, grade,
// and credit defaults are copied onto the subscription so later plan edits
// never rewrite running contracts. New subscriptions start in wait.
func (s *SubscriptionService) Create(ctx context.Context, p account.Principal, req *subscription.CreateSubscriptionRequest) (*subscription.ManagedSubscription, error) {
	if !p.IsEmployee() {
		return nil, fmt.Errorf("%w: only staff can open subscriptions", xerrors.ErrForbidden)
	}

	cl, err := s.clients.FindByID(ctx, req.ClientID)
	if err != nil {
		return nil, fmt.Errorf("find client: %w", err)
	}
	if cl.Status != client.StatusActive {
		return nil, fmt.Errorf("%w: client contract has ended", xerrors.ErrInvalidInput)
	}

	plan, err := s.plans.FindByID(ctx, req.PlanID)
	if err != nil {
		return nil, fmt.Errorf("find plan: %w", err)
	}

	sub := &subscription.ManagedSubscription{
		ClientID:    req.ClientID,
		PlanID:      plan.ID,
		ProductType: plan.ProductType,
		Grade:       plan.Grade,
		TotalAmount: req.TotalAmount,
		Detail:      plan.Defaults,
		Defaults:    plan.Defaults,
		Status:      subscription.StatusWait,
	}
	if plan.ProductType == subscription.ProductDeduct {
		sub.Detail = subscription.CreditCounters{}
		sub.Defaults = subscription.CreditCounters{}
	}

	if err := s.subs.Create(ctx, sub); err != nil {
		return nil, fmt.Errorf("create subscription: %w", err)
	}

	s.logger.Info("subscription opened",
		zap.Int64("subscription_id", sub.ID),
		zap.Int64("client_id", sub.ClientID),
		zap.String("product_type", string(sub.ProductType)),
	)
	return sub, nil
}

func (s *SubscriptionService) Get(ctx context.Context, p account.Principal, id int64) (*subscription.ManagedSubscription, error) {
	sub, err := s.subs.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.IsClient() && (p.ClientID == nil || *p.ClientID != sub.ClientID) {
		return nil, fmt.Errorf("%w: subscription belongs to another client", xerrors.ErrForbidden)
	}
	return sub, nil
}

// UpdateStatus applies a manual status change such as marking a contract
// unpaid or ended. Staff only.
func (s *SubscriptionService) UpdateStatus(ctx context.Context, p account.Principal, id int64, req *subscription.UpdateSubscriptionStatusRequest) error {
	if !p.IsEmployee() {
		return fmt.Errorf("%w: only staff can change subscription status", xerrors.ErrForbidden)
	}

	if _, err := s.subs.FindByID(ctx, id); err != nil {
		return err
	}

	if err := s.subs.UpdateStatus(ctx, id, req.Status); err != nil {
		return fmt.Errorf("update subscription status: %w", err)
	}

	s.logger.Info("subscription status changed",
		zap.Int64("subscription_id", id),
		zap.String("status", string(req.Status)),
	)
	return nil
}

func (s *SubscriptionService) List(ctx context.Context, p account.Principal, filters *subscription.SubscriptionListFilters) (*subscription.SubscriptionListResponse, error) {
	// Clients only ever see their own subscriptions.
	if p.IsClient() {
		if p.ClientID == nil {
			return nil, fmt.Errorf("%w: client account has no company binding", xerrors.ErrForbidden)
		}
		filters.ClientID = p.ClientID
	}

	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 || filters.PageSize > 100 {
		filters.PageSize = 20
	}

	items, total, err := s.subs.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}

	return &subscription.SubscriptionListResponse{
		Subscriptions: items,
		Total:         total,
		Page:          filters.Page,
		PageSize:      filters.PageSize,
	}, nil
}
