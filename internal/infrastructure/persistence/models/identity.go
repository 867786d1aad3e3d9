package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/tradedocs/backend/internal/domain/identity"
)

// UserModel is a row of users. Roles live in user_roles and are written by
// the repository after the user row.
type UserModel struct {
	AggregateModel
	Username       string              `gorm:"type:varchar(150);not null;uniqueIndex:idx_users_username"`
	Email          string              `gorm:"type:varchar(200)"`
	DisplayName    string              `gorm:"type:varchar(200)"`
	PasswordHash   string              `gorm:"type:varchar(255);not null"`
	Status         identity.UserStatus `gorm:"type:varchar(20);not null"`
	IsAdmin        bool                `gorm:"not null"`
	LastLoginAt    *time.Time          `gorm:"index"`
	FailedAttempts int                 `gorm:"not null"`
	LockedUntil    *time.Time
	Roles          []UserRoleModel `gorm:"foreignKey:UserID;references:ID"`
}

func (UserModel) TableName() string { return "users" }

// ToDomain needs Roles preloaded, otherwise the user comes back without roles.
func (m *UserModel) ToDomain() *identity.User {
	roles := make([]identity.Role, len(m.Roles))
	for i, r := range m.Roles {
		roles[i] = r.Role
	}
	return &identity.User{
		BaseAggregateRoot: m.aggregate(),
		Username:          m.Username,
		Email:             m.Email,
		DisplayName:       m.DisplayName,
		PasswordHash:      m.PasswordHash,
		Status:            m.Status,
		Roles:             roles,
		IsAdmin:           m.IsAdmin,
		LastLoginAt:       m.LastLoginAt,
		FailedAttempts:    m.FailedAttempts,
		LockedUntil:       m.LockedUntil,
	}
}

func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{
		Username:       u.Username,
		Email:          u.Email,
		DisplayName:    u.DisplayName,
		PasswordHash:   u.PasswordHash,
		Status:         u.Status,
		IsAdmin:        u.IsAdmin,
		LastLoginAt:    u.LastLoginAt,
		FailedAttempts: u.FailedAttempts,
		LockedUntil:    u.LockedUntil,
		Roles:          make([]UserRoleModel, len(u.Roles)),
	}
	m.setAggregate(u.BaseAggregateRoot)
	for i, r := range u.Roles {
		m.Roles[i] = UserRoleModel{UserID: u.ID, Role: r, CreatedAt: u.UpdatedAt}
	}
	return m
}

// UserRoleModel is one role held by a user.
type UserRoleModel struct {
	UserID    uuid.UUID     `gorm:"type:uuid;primaryKey"`
	Role      identity.Role `gorm:"type:varchar(20);primaryKey"`
	CreatedAt time.Time     `gorm:"not null"`
}

func (UserRoleModel) TableName() string { return "user_roles" }

// IdentityModels lists the identity tables for AutoMigrate in tests.
func IdentityModels() []any {
	return []any{&UserModel{}, &UserRoleModel{}}
}
