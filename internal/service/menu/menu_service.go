// internal/service/menu/menu_service.go
package menu

import (
	"context"
	"fmt"

	"worklink-service/internal/domain/account"
	"worklink-service/internal/domain/menu"
	xerrors "worklink-service/internal/pkg/errors"
	"worklink-service/internal/repository/postgres"

	"go.uber.org/zap"
)

// MenuService exposes the role-based menu visibility matrix the frontend
// renders its navigation from.
type MenuService struct {
	menus  *postgres.MenuRepository
	logger *zap.Logger
}

func NewMenuService(menus *postgres.MenuRepository, logger *zap.Logger) *MenuService {
	return &MenuService{menus: menus, logger: logger}
}

// MyMenus returns the menu codes visible to the caller's role.
func (s *MenuService) MyMenus(ctx context.Context, p account.Principal) ([]string, error) {
	return s.menus.ListAllowedByRole(ctx, p.Role)
}

// ListAll returns the full permission matrix. Admin only.
func (s *MenuService) ListAll(ctx context.Context, p account.Principal) ([]menu.MenuPermission, error) {
	if !p.IsAdmin() {
		return nil, fmt.Errorf("%w: only admins can inspect menu permissions", xerrors.ErrForbidden)
	}
	return s.menus.ListAll(ctx)
}

// Upsert sets one role/menu flag. Admin only.
func (s *MenuService) Upsert(ctx context.Context, p account.Principal, req *menu.UpsertRequest) (*menu.MenuPermission, error) {
	if !p.IsAdmin() {
		return nil, fmt.Errorf("%w: only admins can edit menu permissions", xerrors.ErrForbidden)
	}

	perm := &menu.MenuPermission{
		Role:     req.Role,
		MenuCode: req.MenuCode,
		Allowed:  req.Allowed,
	}
	if err := s.menus.Upsert(ctx, perm); err != nil {
		return nil, fmt.Errorf("upsert menu permission: %w", err)
	}

	s.logger.Info("menu permission updated",
		zap.String("role", string(req.Role)),
		zap.String("menu_code", req.MenuCode),
		zap.Bool("allowed", req.Allowed),
	)
	return perm, nil
}
