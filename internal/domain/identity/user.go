// Package identity models the operators of the tool and their workflow roles.
package identity

import (
	"regexp"
	"slices"
	"strings"
	"time"
	"unicode"

	"github.com/tradedocs/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

type UserStatus string

const (
	UserStatusActive      UserStatus = "active"
	UserStatusLocked      UserStatus = "locked"
	UserStatusDeactivated UserStatus = "deactivated"
)

// Role is a workflow group. Makers draft documents, checkers approve them.
type Role string

const (
	RoleMaker   Role = "maker"
	RoleChecker Role = "checker"
)

func (r Role) IsValid() bool {
	return r == RoleMaker || r == RoleChecker
}

const (
	bcryptCost        = 12
	minUsernameLength = 3
	maxUsernameLength = 150
	minPasswordLength = 8
	maxPasswordLength = 128
)

var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_\-.@]+$`)
	emailPattern    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

const codePasswordHash = "PASSWORD_HASH_ERROR"

// User is an operator. An admin is a superuser and holds every role.
type User struct {
	shared.BaseAggregateRoot
	Username       string
	Email          string
	DisplayName    string
	PasswordHash   string
	Status         UserStatus
	Roles          []Role
	IsAdmin        bool
	LastLoginAt    *time.Time
	FailedAttempts int
	LockedUntil    *time.Time
}

// NewUser returns an active user without roles. The username is stored
// trimmed and lower-cased.
func NewUser(username, password string) (*User, error) {
	username = strings.TrimSpace(username)
	if err := checkUsername(username); err != nil {
		return nil, err
	}
	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}
	return &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Username:          strings.ToLower(username),
		PasswordHash:      hash,
		Status:            UserStatusActive,
		Roles:             []Role{},
	}, nil
}

// changed stamps a modification that other sessions must not overwrite.
func (u *User) changed() {
	u.UpdatedAt = time.Now()
	u.BumpVersion()
}

// SetEmail accepts an empty address, which clears it.
func (u *User) SetEmail(email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email != "" && !emailPattern.MatchString(email) {
		return shared.NewValidationError("email", "Invalid email format")
	}
	u.Email = email
	u.UpdatedAt = time.Now()
	return nil
}

func (u *User) SetPassword(password string) error {
	hash, err := hashPassword(password)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	u.changed()
	return nil
}

func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// SetRoles replaces the role set, dropping duplicates, and the admin flag.
func (u *User) SetRoles(roles []Role, admin bool) error {
	set := make([]Role, 0, len(roles))
	for _, r := range roles {
		if !r.IsValid() {
			return shared.NewValidationError("roles", "Unknown role "+string(r))
		}
		if !slices.Contains(set, r) {
			set = append(set, r)
		}
	}
	u.Roles = set
	u.IsAdmin = admin
	u.changed()
	return nil
}

func (u *User) HasRole(role Role) bool {
	return u.IsAdmin || slices.Contains(u.Roles, role)
}

// RoleNames lists the roles in token claim form.
func (u *User) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		names = append(names, string(r))
	}
	return names
}

// Name is the display name, or the username when none is set.
func (u *User) Name() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Username
}

func (u *User) Deactivate() error {
	if u.Status == UserStatusDeactivated {
		return shared.NewDomainError(shared.CodeInvalidState, "User is already deactivated")
	}
	u.Status = UserStatusDeactivated
	u.changed()
	return nil
}

// Activate lifts a deactivation or a lock and clears the failure count.
func (u *User) Activate() error {
	if u.Status == UserStatusActive {
		return shared.NewDomainError(shared.CodeInvalidState, "User is already active")
	}
	u.Status = UserStatusActive
	u.FailedAttempts = 0
	u.LockedUntil = nil
	u.changed()
	return nil
}

func (u *User) RecordLoginSuccess() {
	now := time.Now()
	u.LastLoginAt = &now
	u.FailedAttempts = 0
	if u.Status == UserStatusLocked {
		u.Status = UserStatusActive
		u.LockedUntil = nil
	}
	u.UpdatedAt = now
}

// RecordLoginFailure counts a bad password and locks an active account for
// lockFor once maxAttempts is reached. It reports whether the lock was set.
// A non-positive maxAttempts never locks.
func (u *User) RecordLoginFailure(maxAttempts int, lockFor time.Duration) bool {
	now := time.Now()
	u.FailedAttempts++
	u.UpdatedAt = now
	if maxAttempts <= 0 || u.FailedAttempts < maxAttempts || u.Status != UserStatusActive {
		return false
	}
	until := now.Add(lockFor)
	u.Status = UserStatusLocked
	u.LockedUntil = &until
	return true
}

// IsLocked holds while a lock has not expired. A lock without an end is
// permanent until an admin activates the user.
func (u *User) IsLocked() bool {
	if u.Status != UserStatusLocked {
		return false
	}
	return u.LockedUntil == nil || time.Now().Before(*u.LockedUntil)
}

func (u *User) CanLogin() bool {
	return u.Status != UserStatusDeactivated && !u.IsLocked()
}

func checkUsername(username string) error {
	switch {
	case len(username) < minUsernameLength:
		return shared.NewValidationError("username", "Username must be at least 3 characters")
	case len(username) > maxUsernameLength:
		return shared.NewValidationError("username", "Username cannot exceed 150 characters")
	case !usernamePattern.MatchString(username):
		return shared.NewValidationError("username", "Username can only contain letters, numbers, and _ - . @")
	}
	return nil
}

// hashPassword enforces the password policy before hashing.
func hashPassword(password string) (string, error) {
	switch {
	case len(password) < minPasswordLength:
		return "", shared.NewValidationError("password", "Password must be at least 8 characters")
	case len(password) > maxPasswordLength:
		return "", shared.NewValidationError("password", "Password cannot exceed 128 characters")
	case !strings.ContainsFunc(password, isASCIILetter) || !strings.ContainsFunc(password, unicode.IsDigit):
		return "", shared.NewValidationError("password", "Password must contain at least one letter and one number")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", shared.NewDomainError(codePasswordHash, "Failed to hash password")
	}
	return string(hash), nil
}

func isASCIILetter(r rune) bool {
	return ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z')
}
