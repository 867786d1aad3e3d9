package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/tradedocs/backend/internal/domain/identity"
	"github.com/tradedocs/backend/internal/domain/shared"
	"github.com/tradedocs/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var userSearchColumns = []string{"username", "email", "display_name"}

// GormUserRepository stores users with their role rows. Usernames are
// matched case-insensitively.
type GormUserRepository struct {
	db *gorm.DB
}

var _ identity.UserRepository = (*GormUserRepository)(nil)

func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	return r.first(ctx, func(q *gorm.DB) *gorm.DB { return q.Where("id = ?", id) })
}

func (r *GormUserRepository) FindByUsername(ctx context.Context, username string) (*identity.User, error) {
	return r.first(ctx, usernameIs(username))
}

func (r *GormUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.UserModel{}).Scopes(usernameIs(username)).Count(&n).Error
	return n > 0, err
}

// FindAll lists one page of users. Without an explicit sort users come back
// by username ascending.
func (r *GormUserRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.User, error) {
	dir := "ASC"
	if filter.OrderBy != "" {
		dir = ValidateSortOrder(filter.OrderDir)
	}
	order := ValidateSortField(filter.OrderBy, UserSortFields, "username") + " " + dir

	var rows []models.UserModel
	err := r.db.WithContext(ctx).
		Scopes(userFilter(filter)).
		Scopes(func(q *gorm.DB) *gorm.DB { return paginate(q, filter) }).
		Preload("Roles").
		Order(order).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	users := make([]identity.User, 0, len(rows))
	for i := range rows {
		users = append(users, *rows[i].ToDomain())
	}
	return users, nil
}

func (r *GormUserRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.UserModel{}).Scopes(userFilter(filter)).Count(&n).Error
	return n, err
}

// Save upserts the user row and rewrites its role set in one transaction.
func (r *GormUserRepository) Save(ctx context.Context, user *identity.User) error {
	row := models.UserModelFromDomain(user)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(row).Error; err != nil {
			return translateError(err)
		}
		if err := tx.Delete(&models.UserRoleModel{}, "user_id = ?", user.ID).Error; err != nil {
			return err
		}
		if len(row.Roles) == 0 {
			return nil
		}
		return tx.Create(&row.Roles).Error
	})
}

func (r *GormUserRepository) first(ctx context.Context, scope func(*gorm.DB) *gorm.DB) (*identity.User, error) {
	var row models.UserModel
	if err := r.db.WithContext(ctx).Scopes(scope).Preload("Roles").First(&row).Error; err != nil {
		return nil, translateError(err)
	}
	return row.ToDomain(), nil
}

func usernameIs(username string) func(*gorm.DB) *gorm.DB {
	name := strings.ToLower(strings.TrimSpace(username))
	return func(q *gorm.DB) *gorm.DB { return q.Where("LOWER(username) = ?", name) }
}

// userFilter applies the free-text search plus the status and role filters.
func userFilter(filter shared.Filter) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		if filter.Search != "" {
			q = q.Where(likeAny(userSearchColumns), repeatArg(searchPattern(filter.Search), len(userSearchColumns))...)
		}
		if status, ok := filter.Filters["status"]; ok {
			q = q.Where("status = ?", status)
		}
		if role, ok := filter.Filters["role"]; ok {
			q = q.Where("id IN (SELECT user_id FROM user_roles WHERE role = ?)", role)
		}
		return q
	}
}
