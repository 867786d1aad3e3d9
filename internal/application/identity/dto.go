package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/tradedocs/backend/internal/domain/identity"
	"github.com/tradedocs/backend/internal/domain/shared"
)

// LoginInput contains the input for user login
type LoginInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// TokenResult contains an issued token pair
type TokenResult struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
}

// LoginResult contains the result of a successful login
type LoginResult struct {
	TokenResult
	User UserResponse `json:"user"`
}

// RefreshTokenInput contains the input for token refresh
type RefreshTokenInput struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// LogoutInput identifies the session being closed
type LogoutInput struct {
	UserID       uuid.UUID
	AccessJTI    string
	AccessTTL    time.Duration
	RefreshToken string
}

// ChangePasswordInput contains the input for password change
type ChangePasswordInput struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=128"`
}

// UserResponse represents a user in API responses
type UserResponse struct {
	ID          uuid.UUID  `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email,omitempty"`
	DisplayName string     `json:"display_name"`
	Roles       []string   `json:"roles"`
	IsAdmin     bool       `json:"is_admin"`
	Status      string     `json:"status"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// ToUserResponse maps a user to its API shape
func ToUserResponse(u *identity.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		DisplayName: u.Name(),
		Roles:       u.RoleNames(),
		IsAdmin:     u.IsAdmin,
		Status:      string(u.Status),
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}

// CreateUserRequest is the payload for creating a user
type CreateUserRequest struct {
	Username    string   `json:"username" binding:"required,min=3,max=150"`
	Password    string   `json:"password" binding:"required,min=8,max=128"`
	Email       string   `json:"email" binding:"omitempty,email"`
	DisplayName string   `json:"display_name" binding:"max=150"`
	Roles       []string `json:"roles" binding:"dive,oneof=maker checker"`
	IsAdmin     bool     `json:"is_admin"`
}

// SetRolesRequest replaces the workflow groups of a user
type SetRolesRequest struct {
	Roles   []string `json:"roles" binding:"dive,oneof=maker checker"`
	IsAdmin bool     `json:"is_admin"`
}

func toRoles(names []string) []identity.Role {
	roles := make([]identity.Role, len(names))
	for i, n := range names {
		roles[i] = identity.Role(n)
	}
	return roles
}

// UserListFilter holds query parameters for listing users
type UserListFilter struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	Search   string `form:"search"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir"`
}

func (f UserListFilter) toDomain() shared.Filter {
	filter := shared.Filter{
		Page:     f.Page,
		PageSize: f.PageSize,
		Search:   f.Search,
		OrderBy:  f.OrderBy,
		OrderDir: f.OrderDir,
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "asc"
	}
	filter.Normalize(20, 100)
	return filter
}
