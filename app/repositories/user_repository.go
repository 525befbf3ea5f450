package repositories

import (
	"context"
	"strings"

	"github.com/PascalSeth/trendiwear/app/models"
	"github.com/PascalSeth/trendiwear/pkg/orm"
)

// UserRepository handles database access for User.
type UserRepository struct{}

func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

// FindByEmail matches case-insensitively; emails are stored lowercased.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	err := orm.WithContext(ctx).Model(&models.User{}).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&user)
	return user, err
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (models.User, error) {
	var user models.User
	err := orm.WithContext(ctx).Preload("ProfessionalProfile").First(&user, id)
	return user, err
}

func (r *UserRepository) EmailTaken(ctx context.Context, email string) (bool, error) {
	return orm.WithContext(ctx).Model(&models.User{}).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		Exists()
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	return orm.WithContext(ctx).Create(user)
}

type UserFilter struct {
	Search string
	Role   string
	Active *bool
}

// Paginate lists users newest first.
func (r *UserRepository) Paginate(ctx context.Context, f UserFilter, page, limit int) ([]models.User, orm.Pagination, error) {
	q := orm.WithContext(ctx).Model(&models.User{})
	if s := strings.TrimSpace(f.Search); s != "" {
		pattern := orm.Contains(strings.ToLower(s))
		q = q.Where("LOWER(name) LIKE ? ESCAPE '!' OR LOWER(email) LIKE ? ESCAPE '!'", pattern, pattern)
	}
	if f.Role != "" {
		q = q.Where("role = ?", f.Role)
	}
	if f.Active != nil {
		q = q.Where("is_active = ?", *f.Active)
	}

	var users []models.User
	p, err := q.Order("created_at DESC").Order("id DESC").Paginate(&users, page, limit)
	return users, p, err
}

// CountByRole returns the number of users per role.
func (r *UserRepository) CountByRole(ctx context.Context, role string) (int64, error) {
	return orm.WithContext(ctx).Model(&models.User{}).Where("role = ?", role).Count()
}
