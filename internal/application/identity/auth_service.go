package identity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/tradedocs/backend/internal/domain/identity"
	"github.com/tradedocs/backend/internal/domain/shared"
	"github.com/tradedocs/backend/internal/domain/trade"
	"github.com/tradedocs/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// AuthServiceConfig contains configuration for the auth service
type AuthServiceConfig struct {
	MaxLoginAttempts int           // failed attempts before the account locks
	LockDuration     time.Duration // how long a lock lasts
	RefreshTTL       time.Duration // lifetime of refresh tokens, used for revocation entries
}

// DefaultAuthServiceConfig returns default configuration
func DefaultAuthServiceConfig() AuthServiceConfig {
	return AuthServiceConfig{
		MaxLoginAttempts: 5,
		LockDuration:     15 * time.Minute,
		RefreshTTL:       7 * 24 * time.Hour,
	}
}

var errInvalidCredentials = shared.NewDomainError(shared.CodeUnauthorized, "Invalid username or password.")

// AuthService handles authentication operations
type AuthService struct {
	users     identity.UserRepository
	tokens    *auth.JWTService
	blacklist auth.TokenBlacklist
	config    AuthServiceConfig
	logger    *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	users identity.UserRepository,
	tokens *auth.JWTService,
	blacklist auth.TokenBlacklist,
	config AuthServiceConfig,
	logger *zap.Logger,
) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if blacklist == nil {
		blacklist = auth.NewInMemoryTokenBlacklist()
	}
	return &AuthService{
		users:     users,
		tokens:    tokens,
		blacklist: blacklist,
		config:    config,
		logger:    logger,
	}
}

// Login authenticates a user and returns tokens
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	user, err := s.users.FindByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("Login for unknown user", zap.String("username", input.Username))
			return nil, errInvalidCredentials
		}
		return nil, err
	}

	if !user.CanLogin() {
		if user.IsLocked() {
			s.logger.Warn("Login attempt for locked account", zap.String("username", user.Username))
			return nil, shared.NewDomainError(shared.CodeUnauthorized, "Account is locked. Please try again later.")
		}
		s.logger.Warn("Login attempt for deactivated account", zap.String("username", user.Username))
		return nil, shared.NewDomainError(shared.CodeUnauthorized, "Account has been deactivated.")
	}

	if !user.VerifyPassword(input.Password) {
		locked := user.RecordLoginFailure(s.config.MaxLoginAttempts, s.config.LockDuration)
		if err := s.users.Save(ctx, user); err != nil {
			s.logger.Error("Failed to record login failure", zap.Error(err))
		}
		if locked {
			s.logger.Warn("Account locked after too many failed attempts",
				zap.String("username", user.Username),
				zap.Int("attempts", user.FailedAttempts))
			return nil, shared.NewDomainError(shared.CodeUnauthorized, "Too many failed login attempts. Account has been locked.")
		}
		s.logger.Warn("Invalid password attempt",
			zap.String("username", user.Username),
			zap.Int("failed_attempts", user.FailedAttempts))
		return nil, errInvalidCredentials
	}

	pair, err := s.issue(user)
	if err != nil {
		return nil, err
	}

	user.RecordLoginSuccess()
	if err := s.users.Save(ctx, user); err != nil {
		// the tokens are already valid, so a bookkeeping failure does not fail the login
		s.logger.Error("Failed to record login success", zap.Error(err))
	}

	s.logger.Info("User logged in", zap.String("username", user.Username), zap.String("user_id", user.ID.String()))
	return &LoginResult{TokenResult: *pair, User: ToUserResponse(user)}, nil
}

// RefreshToken rotates a refresh token. Roles are reloaded so changes take
// effect without a new login.
func (s *AuthService) RefreshToken(ctx context.Context, input RefreshTokenInput) (*TokenResult, error) {
	claims, err := s.tokens.ParseRefresh(input.RefreshToken)
	if err != nil {
		s.logger.Warn("Refresh token rejected", zap.Error(err))
		if errors.Is(err, auth.ErrExpiredToken) {
			return nil, shared.NewDomainError(shared.CodeUnauthorized, "Refresh token has expired.")
		}
		return nil, shared.NewDomainError(shared.CodeUnauthorized, "Invalid refresh token.")
	}
	if err := s.checkRevoked(ctx, claims); err != nil {
		return nil, err
	}

	userID, err := claims.UserUUID()
	if err != nil {
		return nil, shared.NewDomainError(shared.CodeUnauthorized, "Invalid refresh token.")
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError(shared.CodeUnauthorized, "User no longer exists.")
		}
		return nil, err
	}
	if !user.CanLogin() {
		return nil, shared.NewDomainError(shared.CodeUnauthorized, "Account is no longer active.")
	}

	// single use: the presented refresh token is revoked before a new pair is issued
	if err := s.blacklist.Revoke(ctx, claims.ID, claims.RemainingTTL()); err != nil {
		return nil, err
	}
	pair, err := s.issue(user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Token refreshed", zap.String("user_id", user.ID.String()))
	return pair, nil
}

// Logout revokes the access token and, when given, the refresh token
func (s *AuthService) Logout(ctx context.Context, input LogoutInput) error {
	if input.AccessJTI != "" {
		if err := s.blacklist.Revoke(ctx, input.AccessJTI, input.AccessTTL); err != nil {
			return err
		}
	}
	if input.RefreshToken != "" {
		claims, err := s.tokens.ParseRefresh(input.RefreshToken)
		if err == nil && claims.UserID == input.UserID.String() {
			if err := s.blacklist.Revoke(ctx, claims.ID, claims.RemainingTTL()); err != nil {
				return err
			}
		}
	}
	s.logger.Info("User logged out", zap.String("user_id", input.UserID.String()))
	return nil
}

// Authenticate validates an access token and resolves the caller's capabilities
func (s *AuthService) Authenticate(ctx context.Context, token string) (*auth.Claims, trade.Actor, error) {
	claims, err := s.tokens.ParseAccess(token)
	if err != nil {
		if errors.Is(err, auth.ErrExpiredToken) {
			return nil, trade.Actor{}, shared.NewDomainError(shared.CodeUnauthorized, "Token has expired.")
		}
		return nil, trade.Actor{}, shared.NewDomainError(shared.CodeUnauthorized, "Invalid token.")
	}
	if err := s.checkRevoked(ctx, claims); err != nil {
		return nil, trade.Actor{}, err
	}
	userID, err := claims.UserUUID()
	if err != nil {
		return nil, trade.Actor{}, shared.NewDomainError(shared.CodeUnauthorized, "Invalid token.")
	}
	return claims, trade.Actor{
		ID:       userID,
		Username: claims.Username,
		Maker:    claims.HasRole(string(identity.RoleMaker)),
		Checker:  claims.HasRole(string(identity.RoleChecker)),
		Admin:    claims.Admin,
	}, nil
}

// Me returns the profile of the authenticated user
func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewNotFoundError("User")
		}
		return nil, err
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

// ChangePassword replaces the caller's password after checking the old one
func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, input ChangePasswordInput) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewNotFoundError("User")
		}
		return err
	}
	if !user.VerifyPassword(input.OldPassword) {
		return shared.NewValidationError("old_password", "Current password is incorrect")
	}
	if err := user.SetPassword(input.NewPassword); err != nil {
		return err
	}
	if err := s.users.Save(ctx, user); err != nil {
		return err
	}
	s.logger.Info("User password changed", zap.String("user_id", userID.String()))
	return nil
}

func (s *AuthService) issue(user *identity.User) (*TokenResult, error) {
	pair, err := s.tokens.IssuePair(auth.TokenSubject{
		UserID:   user.ID,
		Username: user.Username,
		Roles:    user.RoleNames(),
		Admin:    user.IsAdmin,
	})
	if err != nil {
		s.logger.Error("Failed to generate token pair", zap.Error(err))
		return nil, err
	}
	return &TokenResult{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		TokenType:             pair.TokenType,
	}, nil
}

// checkRevoked rejects tokens revoked individually or by a role change
func (s *AuthService) checkRevoked(ctx context.Context, claims *auth.Claims) error {
	revoked, err := s.blacklist.IsRevoked(ctx, claims.ID)
	if err != nil {
		return err
	}
	if revoked {
		return shared.NewDomainError(shared.CodeUnauthorized, "Token has been revoked.")
	}
	invalidated, err := s.blacklist.IsUserRevoked(ctx, claims.UserID, claims.IssuedAtTime())
	if err != nil {
		return err
	}
	if invalidated {
		return shared.NewDomainError(shared.CodeUnauthorized, "Session is no longer valid. Please log in again.")
	}
	return nil
}
