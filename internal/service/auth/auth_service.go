// internal/service/auth/auth_service.go
package auth

import (
	"context"
	"fmt"
	"time"

	"worklink-service/internal/domain/account"
	xerrors "worklink-service/internal/pkg/errors"
	"worklink-service/internal/pkg/jwt"
	"worklink-service/internal/pkg/session"
	"worklink-service/internal/repository/postgres"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	accounts  *postgres.AccountRepository
	sessions  *session.Manager
	limiter   *session.RateLimiter
	tokens    *jwt.Manager
	accessTTL time.Duration
	logger    *zap.Logger
}

func NewAuthService(accounts *postgres.AccountRepository, sessions *session.Manager, limiter *session.RateLimiter, tokens *jwt.Manager, accessTTL time.Duration, logger *zap.Logger) *AuthService {
	return &AuthService{
		accounts:  accounts,
		sessions:  sessions,
		limiter:   limiter,
		tokens:    tokens,
		accessTTL: accessTTL,
		logger:    logger,
	}
}

// Login verifies credentials and issues an access token with a backing
// Redis session. Failed attempts are rate limited per IP and email.
func (s *AuthService) Login(ctx context.Context, req *account.LoginRequest, ip, userAgent string) (*account.LoginResponse, error) {
	allowed, remaining, err := s.limiter.CheckLoginAttempt(ctx, ip, req.Email)
	if err != nil {
		return nil, fmt.Errorf("check login rate limit: %w", err)
	}
	if !allowed {
		s.logger.Warn("login rate limited",
			zap.String("email", req.Email),
			zap.String("ip", ip),
		)
		return nil, fmt.Errorf("%w: too many login attempts, try again later", xerrors.ErrRateLimited)
	}

	acct, err := s.accounts.FindByEmail(ctx, req.Email)
	if err != nil {
		if xerrors.Is(err, xerrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid email or password", xerrors.ErrUnauthorized)
		}
		return nil, fmt.Errorf("find account: %w", err)
	}

	if acct.Status != account.StatusActive {
		return nil, fmt.Errorf("%w: account is disabled", xerrors.ErrForbidden)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Info("login failed",
			zap.String("email", req.Email),
			zap.Int64("attempts_remaining", remaining),
		)
		return nil, fmt.Errorf("%w: invalid email or password", xerrors.ErrUnauthorized)
	}

	token, jti, err := s.tokens.Generator.GenerateAccessToken(acct.ID, string(acct.Role), acct.ClientID)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	now := time.Now()
	expiresAt := now.Add(s.accessTTL)
	sess := &session.SessionData{
		JTI:            jti,
		AccountID:      acct.ID,
		Email:          acct.Email,
		Role:           string(acct.Role),
		ClientID:       acct.ClientID,
		IPAddress:      ip,
		UserAgent:      userAgent,
		LoginAt:        now,
		LastActivityAt: now,
		ExpiresAt:      expiresAt,
	}
	if err := s.sessions.CreateSession(ctx, sess); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	if err := s.limiter.ResetLoginAttempts(ctx, ip, req.Email); err != nil {
		s.logger.Warn("failed to reset login attempts", zap.Error(err))
	}

	s.logger.Info("login succeeded",
		zap.Int64("account_id", acct.ID),
		zap.String("role", string(acct.Role)),
	)

	return &account.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		Account:   acct,
	}, nil
}

// Logout revokes the current session and blacklists the token until it
// would have expired on its own.
func (s *AuthService) Logout(ctx context.Context, accountID int64, jti string, tokenExpiry time.Time) error {
	if err := s.sessions.RevokeSession(ctx, accountID, jti, tokenExpiry); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

// Me returns the authenticated account's profile.
func (s *AuthService) Me(ctx context.Context, p account.Principal) (*account.Account, error) {
	return s.accounts.FindByID(ctx, p.AccountID)
}

// ChangePassword verifies the current password, stores the new hash, and
// revokes every session so stolen tokens die with the old password.
func (s *AuthService) ChangePassword(ctx context.Context, p account.Principal, req *account.ChangePasswordRequest) error {
	acct, err := s.accounts.FindByID(ctx, p.AccountID)
	if err != nil {
		return fmt.Errorf("find account: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return fmt.Errorf("%w: current password is incorrect", xerrors.ErrUnauthorized)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.accounts.UpdatePassword(ctx, p.AccountID, string(hash)); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	if err := s.sessions.RevokeAllSessions(ctx, p.AccountID); err != nil {
		s.logger.Warn("failed to revoke sessions after password change",
			zap.Int64("account_id", p.AccountID),
			zap.Error(err),
		)
	}
	return nil
}

// CreateAccount registers a new account. Admin only. Client-role accounts
// must be bound to a client company.
func (s *AuthService) CreateAccount(ctx context.Context, p account.Principal, req *account.CreateAccountRequest) (*account.Account, error) {
	if !p.IsAdmin() {
		return nil, fmt.Errorf("%w: only admins can create accounts", xerrors.ErrForbidden)
	}

	if req.Role == account.RoleClient && req.ClientID == nil {
		return nil, fmt.Errorf("%w: client accounts require a client_id", xerrors.ErrInvalidInput)
	}
	if req.Role != account.RoleClient && req.ClientID != nil {
		return nil, fmt.Errorf("%w: only client accounts may carry a client_id", xerrors.ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	acct := &account.Account{
		Email:        req.Email,
		PasswordHash: string(hash),
		Name:         req.Name,
		Role:         req.Role,
		ClientID:     req.ClientID,
		Status:       account.StatusActive,
	}
	if err := s.accounts.Create(ctx, acct); err != nil {
		if xerrors.Is(err, xerrors.ErrConflict) {
			return nil, fmt.Errorf("%w: email is already registered", xerrors.ErrConflict)
		}
		return nil, fmt.Errorf("create account: %w", err)
	}

	s.logger.Info("account created",
		zap.Int64("account_id", acct.ID),
		zap.String("role", string(acct.Role)),
		zap.Int64("created_by", p.AccountID),
	)
	return acct, nil
}

// EnsureAdminExists bootstraps the first admin account from configuration
// when the accounts table has none. Idempotent across restarts.
func (s *AuthService) EnsureAdminExists(ctx context.Context, email, password, name string) error {
	count, err := s.accounts.CountByRole(ctx, account.RoleAdmin)
	if err != nil {
		return fmt.Errorf("count admin accounts: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash bootstrap password: %w", err)
	}

	acct := &account.Account{
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		Role:         account.RoleAdmin,
		Status:       account.StatusActive,
	}
	if err := s.accounts.Create(ctx, acct); err != nil {
		if xerrors.Is(err, xerrors.ErrConflict) {
			return nil
		}
		return fmt.Errorf("create bootstrap admin: %w", err)
	}

	s.logger.Info("bootstrap admin created", zap.String("email", email))
	return nil
}
