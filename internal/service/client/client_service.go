// internal/service/client/client_service.go
package client

import (
	"context"
	"database/sql"
	"fmt"

	"worklink-service/internal/domain/account"
	"worklink-service/internal/domain/client"
	xerrors "worklink-service/internal/pkg/errors"
	"worklink-service/internal/repository/postgres"

	"go.uber.org/zap"
)

// ClientService manages vendor companies. All write operations are staff
// only; a client-role caller may read their own company record.
type ClientService struct {
	clients *postgres.ClientRepository
	logger  *zap.Logger
}

func NewClientService(clients *postgres.ClientRepository, logger *zap.Logger) *ClientService {
	return &ClientService{clients: clients, logger: logger}
}

func (s *ClientService) Create(ctx context.Context, p account.Principal, req *client.CreateClientRequest) (*client.Client, error) {
	if !p.IsEmployee() {
		return nil, fmt.Errorf("%w: only staff can register clients", xerrors.ErrForbidden)
	}

	c := &client.Client{
		CompanyName:  req.CompanyName,
		BusinessNo:   nullString(req.BusinessNo),
		ContactName:  req.ContactName,
		ContactPhone: nullString(req.ContactPhone),
		ContactEmail: nullString(req.ContactEmail),
		Status:       client.StatusActive,
		Memo:         nullString(req.Memo),
	}
	if req.ManagerEmployeeID != nil {
		c.ManagerEmployeeID = sql.NullInt64{Int64: *req.ManagerEmployeeID, Valid: true}
	}

	if err := s.clients.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}

	s.logger.Info("client registered",
		zap.Int64("client_id", c.ID),
		zap.String("company", c.CompanyName),
	)
	return c, nil
}

func (s *ClientService) Get(ctx context.Context, p account.Principal, id int64) (*client.Client, error) {
	if p.IsClient() && (p.ClientID == nil || *p.ClientID != id) {
		return nil, fmt.Errorf("%w: clients can only view their own company", xerrors.ErrForbidden)
	}
	return s.clients.FindByID(ctx, id)
}

func (s *ClientService) Update(ctx context.Context, p account.Principal, id int64, req *client.UpdateClientRequest) (*client.Client, error) {
	if !p.IsEmployee() {
		return nil, fmt.Errorf("%w: only staff can update clients", xerrors.ErrForbidden)
	}

	updated, err := s.clients.Update(ctx, id, req)
	if err != nil {
		return nil, err
	}

	s.logger.Info("client updated", zap.Int64("client_id", id))
	return updated, nil
}

func (s *ClientService) List(ctx context.Context, p account.Principal, filters *client.ClientListFilters) (*client.ClientListResponse, error) {
	if !p.IsEmployee() {
		return nil, fmt.Errorf("%w: only staff can list clients", xerrors.ErrForbidden)
	}

	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 || filters.PageSize > 100 {
		filters.PageSize = 20
	}

	items, total, err := s.clients.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}

	return &client.ClientListResponse{
		Clients:  items,
		Total:    total,
		Page:     filters.Page,
		PageSize: filters.PageSize,
	}, nil
}

func nullString(v string) sql.NullString {
	return sql.NullString{String: v, Valid: v != ""}
}
