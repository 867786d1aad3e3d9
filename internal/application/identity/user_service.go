package identity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tradedocs/backend/internal/domain/identity"
	"github.com/tradedocs/backend/internal/domain/shared"
	"github.com/tradedocs/backend/internal/domain/trade"
	"github.com/tradedocs/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// UserService manages operator accounts and their workflow groups.
// Every operation requires an admin.
type UserService struct {
	users      identity.UserRepository
	blacklist  auth.TokenBlacklist
	refreshTTL time.Duration
	logger     *zap.Logger
}

// NewUserService creates a new UserService. refreshTTL bounds how long a
// forced logout has to be remembered.
func NewUserService(users identity.UserRepository, blacklist auth.TokenBlacklist, refreshTTL time.Duration, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if blacklist == nil {
		blacklist = auth.NewInMemoryTokenBlacklist()
	}
	return &UserService{users: users, blacklist: blacklist, refreshTTL: refreshTTL, logger: logger}
}

// List returns a page of users
func (s *UserService) List(ctx context.Context, actor trade.Actor, f UserListFilter) ([]UserResponse, int64, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, 0, err
	}
	filter := f.toDomain()
	users, err := s.users.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.users.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]UserResponse, len(users))
	for i := range users {
		out[i] = ToUserResponse(&users[i])
	}
	return out, total, nil
}

// Create adds a user with its initial roles
func (s *UserService) Create(ctx context.Context, actor trade.Actor, req CreateUserRequest) (*UserResponse, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	taken, err := s.users.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, shared.NewDomainError(shared.CodeAlreadyExists, "A user with this username already exists.")
	}

	user, err := identity.NewUser(req.Username, req.Password)
	if err != nil {
		return nil, err
	}
	if err := user.SetEmail(req.Email); err != nil {
		return nil, err
	}
	user.DisplayName = strings.TrimSpace(req.DisplayName)
	if err := user.SetRoles(toRoles(req.Roles), req.IsAdmin); err != nil {
		return nil, err
	}
	if err := s.users.Save(ctx, user); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil, shared.NewDomainError(shared.CodeAlreadyExists, "A user with this username already exists.")
		}
		return nil, err
	}

	s.logger.Info("User created",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username),
		zap.Strings("roles", user.RoleNames()),
		zap.Bool("admin", user.IsAdmin),
		zap.String("by", actor.Username))
	resp := ToUserResponse(user)
	return &resp, nil
}

// SetRoles replaces the user's groups and ends its existing sessions so
// the new capabilities apply immediately
func (s *UserService) SetRoles(ctx context.Context, actor trade.Actor, id uuid.UUID, req SetRolesRequest) (*UserResponse, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if id == actor.ID && !req.IsAdmin {
		return nil, shared.NewValidationError("is_admin", "You cannot remove your own administrator rights")
	}
	user, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := user.SetRoles(toRoles(req.Roles), req.IsAdmin); err != nil {
		return nil, err
	}
	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}
	s.revokeSessions(ctx, user)

	s.logger.Info("User roles changed",
		zap.String("user_id", user.ID.String()),
		zap.Strings("roles", user.RoleNames()),
		zap.Bool("admin", user.IsAdmin),
		zap.String("by", actor.Username))
	resp := ToUserResponse(user)
	return &resp, nil
}

// Deactivate disables an account and ends its sessions
func (s *UserService) Deactivate(ctx context.Context, actor trade.Actor, id uuid.UUID) (*UserResponse, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if id == actor.ID {
		return nil, shared.NewDomainError(shared.CodeInvalidState, "You cannot deactivate your own account.")
	}
	user, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := user.Deactivate(); err != nil {
		return nil, err
	}
	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}
	s.revokeSessions(ctx, user)

	s.logger.Info("User deactivated", zap.String("user_id", user.ID.String()), zap.String("by", actor.Username))
	resp := ToUserResponse(user)
	return &resp, nil
}

// EnsureAdmin creates the first administrator when no user exists yet.
// It reports whether a user was created.
func (s *UserService) EnsureAdmin(ctx context.Context, username, password string) (bool, error) {
	if username == "" || password == "" {
		return false, nil
	}
	count, err := s.users.Count(ctx, shared.Filter{})
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	user, err := identity.NewUser(username, password)
	if err != nil {
		return false, err
	}
	if err := user.SetRoles([]identity.Role{identity.RoleMaker, identity.RoleChecker}, true); err != nil {
		return false, err
	}
	if err := s.users.Save(ctx, user); err != nil {
		return false, err
	}
	s.logger.Info("Bootstrap administrator created", zap.String("username", user.Username))
	return true, nil
}

func (s *UserService) load(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewNotFoundError("User")
		}
		return nil, err
	}
	return user, nil
}

// revokeSessions invalidates tokens issued before now. A failure is logged;
// the tokens then simply live until they expire.
func (s *UserService) revokeSessions(ctx context.Context, user *identity.User) {
	if err := s.blacklist.RevokeUser(ctx, user.ID.String(), s.refreshTTL); err != nil {
		s.logger.Warn("Failed to revoke user sessions", zap.String("user_id", user.ID.String()), zap.Error(err))
	}
}

func requireAdmin(actor trade.Actor) error {
	if !trade.IsAdmin(actor) {
		return shared.NewForbiddenError("Only administrators can manage users.")
	}
	return nil
}
