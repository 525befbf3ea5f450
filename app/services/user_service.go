package services

import (
	"context"

	"github.com/PascalSeth/trendiwear/app/models"
	"github.com/PascalSeth/trendiwear/app/repositories"
	"github.com/PascalSeth/trendiwear/pkg/apperr"
	"github.com/PascalSeth/trendiwear/pkg/auth"
	"github.com/PascalSeth/trendiwear/pkg/orm"
)

type UserService struct {
	users *repositories.UserRepository
}

func NewUserService() *UserService {
	return &UserService{users: repositories.NewUserRepository()}
}

func (s *UserService) List(ctx context.Context, f repositories.UserFilter, p Page) ([]models.User, orm.Pagination, error) {
	page, limit := p.normalized()
	users, pg, err := s.users.Paginate(ctx, f, page, limit)
	if err != nil {
		return nil, orm.Pagination{}, apperr.Internal(err)
	}
	return users, pg, nil
}

func (s *UserService) Find(ctx context.Context, actor auth.Principal, id uint) (*models.User, error) {
	if err := ownerOr403(actor, id, "You can only view your own account"); err != nil {
		return nil, err
	}
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.FromDB(err, "User not found")
	}
	return &user, nil
}

type UpdateUserInput struct {
	Name      *string `json:"name"      validate:"nullable,min=2,max=120"`
	Phone     *string `json:"phone"     validate:"nullable,phone"`
	AvatarURL *string `json:"avatarUrl" validate:"nullable,url"`
	IsActive  *bool   `json:"isActive"`
	Role      *string `json:"role"      validate:"nullable,in=CUSTOMER,PROFESSIONAL,ADMIN,SUPER_ADMIN"`
}

// Update lets users edit their own profile fields. Status and role are
// admin-only, and only a super admin may grant or touch admin roles.
func (s *UserService) Update(ctx context.Context, actor auth.Principal, id uint, in UpdateUserInput) (*models.User, error) {
	if err := ownerOr403(actor, id, "You can only update your own account"); err != nil {
		return nil, err
	}
	if (in.IsActive != nil || in.Role != nil) && !actor.IsAdmin() {
		return nil, apperr.Forbidden("Only administrators can change status or role")
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.FromDB(err, "User not found")
	}

	superOnly := func(role string) bool { return role == auth.RoleAdmin || role == auth.RoleSuperAdmin }
	if in.Role != nil && *in.Role != user.Role {
		if (superOnly(*in.Role) || superOnly(user.Role)) && actor.Role != auth.RoleSuperAdmin {
			return nil, apperr.Forbidden("Only a super admin can grant or revoke admin roles")
		}
		if actor.UserID == id {
			return nil, apperr.BadRequest("You cannot change your own role")
		}
	}
	if in.IsActive != nil && !*in.IsActive && actor.UserID == id {
		return nil, apperr.BadRequest("You cannot deactivate your own account")
	}
	if in.IsActive != nil && user.Role == auth.RoleSuperAdmin && actor.Role != auth.RoleSuperAdmin {
		return nil, apperr.Forbidden("Only a super admin can change another super admin")
	}

	changes := map[string]any{}
	if in.Name != nil {
		changes["name"] = *in.Name
	}
	if in.Phone != nil {
		changes["phone"] = *in.Phone
	}
	if in.AvatarURL != nil {
		changes["avatar_url"] = *in.AvatarURL
	}
	if in.IsActive != nil && *in.IsActive != user.IsActive {
		changes["is_active"] = *in.IsActive
	}
	if in.Role != nil && *in.Role != user.Role {
		changes["role"] = *in.Role
	}
	if len(changes) == 0 {
		return &user, nil
	}

	err = orm.Transaction(ctx, func(tx *orm.Query) error {
		if _, err := tx.Model(&models.User{}).Where("id = ?", id).Updates(changes); err != nil {
			return err
		}
		_, roleChanged := changes["role"]
		_, activeChanged := changes["is_active"]
		if roleChanged || activeChanged {
			Audit(ctx, tx, actor, "user.updated", "User", id, map[string]any{
				"role":     changes["role"],
				"isActive": changes["is_active"],
			})
		}
		return nil
	})
	if err != nil {
		return nil, apperr.FromDB(err, "User not found")
	}
	forgetPrincipal(ctx, id)

	updated, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.FromDB(err, "User not found")
	}
	return &updated, nil
}

// Delete removes an account with no order, booking or professional
// history; such accounts must be deactivated instead.
func (s *UserService) Delete(ctx context.Context, actor auth.Principal, id uint) error {
	if actor.UserID == id {
		return apperr.BadRequest("You cannot delete your own account")
	}
	if _, err := s.users.FindByID(ctx, id); err != nil {
		return apperr.FromDB(err, "User not found")
	}

	for _, guard := range []struct {
		model any
		where string
		msg   string
	}{
		{&models.Order{}, "user_id = ?", "Cannot delete user with existing orders; deactivate the account instead"},
		{&models.Booking{}, "customer_id = ?", "Cannot delete user with existing bookings; deactivate the account instead"},
		{&models.ProfessionalProfile{}, "user_id = ?", "Cannot delete user with a professional profile; delete the profile first"},
		{&models.Blog{}, "author_id = ?", "Cannot delete user who authored blogs"},
	} {
		found, err := exists(ctx, guard.model, guard.where, id)
		if err != nil {
			return err
		}
		if found {
			return apperr.BadRequest(guard.msg)
		}
	}

	err := orm.Transaction(ctx, func(tx *orm.Query) error {
		for _, m := range []any{&models.CartItem{}, &models.Address{}, &models.Review{}, &models.ReportedContent{}} {
			col := "user_id"
			if _, ok := m.(*models.ReportedContent); ok {
				col = "reporter_id"
			}
			if _, err := tx.Fresh().Where(col+" = ?", id).Delete(m); err != nil {
				return err
			}
		}
		if _, err := tx.Fresh().Delete(&models.User{}, id); err != nil {
			return err
		}
		Audit(ctx, tx, actor, "user.deleted", "User", id, nil)
		return nil
	})
	if err != nil {
		return apperr.FromDB(err, "User not found")
	}
	forgetPrincipal(ctx, id)
	invalidateShowcase(ctx)
	return nil
}
