package services

import (
	"context"
	"strings"

	"github.com/PascalSeth/trendiwear/app/models"
	"github.com/PascalSeth/trendiwear/pkg/apperr"
	"github.com/PascalSeth/trendiwear/pkg/auth"
	"github.com/PascalSeth/trendiwear/pkg/orm"
)

type ProfessionalService struct{}

func NewProfessionalService() *ProfessionalService { return &ProfessionalService{} }

type ProfessionalFilter struct {
	TypeID   uint
	Verified *bool
	Search   string
}

func (s *ProfessionalService) List(ctx context.Context, f ProfessionalFilter, p Page) ([]models.ProfessionalProfile, orm.Pagination, error) {
	q := orm.WithContext(ctx).Model(&models.ProfessionalProfile{})
	if f.TypeID != 0 {
		q = q.Where("professional_type_id = ?", f.TypeID)
	}
	if f.Verified != nil {
		q = q.Where("is_verified = ?", *f.Verified)
	}
	if pattern := like(f.Search); pattern != "" {
		q = q.Where("LOWER(business_name) LIKE ? ESCAPE '!' OR LOWER(location) LIKE ? ESCAPE '!'", pattern, pattern)
	}

	page, limit := p.normalized()
	var out []models.ProfessionalProfile
	pg, err := q.Preload("User").Preload("ProfessionalType").
		Order("is_verified DESC, created_at DESC").
		Paginate(&out, page, limit)
	if err != nil {
		return nil, orm.Pagination{}, apperr.Internal(err)
	}
	if err := rateProfessionals(ctx, out); err != nil {
		return nil, orm.Pagination{}, err
	}
	return out, pg, nil
}

func (s *ProfessionalService) Find(ctx context.Context, id uint) (*models.ProfessionalProfile, error) {
	var p models.ProfessionalProfile
	if err := orm.WithContext(ctx).Preload("User").Preload("ProfessionalType").First(&p, id); err != nil {
		return nil, apperr.FromDB(err, "Professional not found")
	}
	one := []models.ProfessionalProfile{p}
	if err := rateProfessionals(ctx, one); err != nil {
		return nil, err
	}
	return &one[0], nil
}

type ProfessionalInput struct {
	ProfessionalTypeID uint     `json:"professionalTypeId" validate:"required"`
	BusinessName       string   `json:"businessName"       validate:"required,min=2,max=160"`
	Bio                string   `json:"bio"                validate:"nullable,max=5000"`
	Location           string   `json:"location"           validate:"nullable,max=160"`
	ExperienceYears    int      `json:"experienceYears"    validate:"nullable,min=0,max=80"`
	Portfolio          []string `json:"portfolio"`
	IsVerified         *bool    `json:"isVerified"`
}

type ProfessionalResult struct {
	Profile *models.ProfessionalProfile `json:"profile"`
	// Token is reissued when the caller's role changed.
	Token string `json:"token,omitempty"`
}

// Create opens a profile for the caller. A customer is promoted to
// PROFESSIONAL in the same transaction and gets a fresh token.
func (s *ProfessionalService) Create(ctx context.Context, actor auth.Principal, in ProfessionalInput) (*ProfessionalResult, error) {
	if in.IsVerified != nil && !actor.IsAdmin() {
		return nil, apperr.Forbidden("Only administrators can verify professionals")
	}
	has, err := exists(ctx, &models.ProfessionalProfile{}, "user_id = ?", actor.UserID)
	if err != nil {
		return nil, err
	}
	if has {
		return nil, apperr.Conflict("Professional profile already exists")
	}
	var pt models.ProfessionalType
	if err := mustExist(ctx, &pt, in.ProfessionalTypeID, "Professional type not found"); err != nil {
		return nil, err
	}
	if !pt.IsActive {
		return nil, apperr.BadRequest("Professional type is not active")
	}

	profile := models.ProfessionalProfile{
		UserID:             actor.UserID,
		ProfessionalTypeID: pt.ID,
		BusinessName:       strings.TrimSpace(in.BusinessName),
		Bio:                sanitizeText(in.Bio),
		Location:           in.Location,
		ExperienceYears:    in.ExperienceYears,
		Portfolio:          in.Portfolio,
		IsVerified:         in.IsVerified != nil && *in.IsVerified,
	}
	promote := actor.Role == auth.RoleCustomer

	err = orm.Transaction(ctx, func(tx *orm.Query) error {
		if err := tx.Create(&profile); err != nil {
			return err
		}
		if promote {
			if _, err := tx.Fresh().Model(&models.User{}).Where("id = ?", actor.UserID).
				Update("role", auth.RoleProfessional); err != nil {
				return err
			}
			Audit(ctx, tx, actor, "user.promoted", "User", actor.UserID, map[string]any{"role": auth.RoleProfessional})
		}
		return nil
	})
	if err != nil {
		return nil, apperr.FromDB(err, "")
	}

	res := &ProfessionalResult{Profile: &profile}
	if promote {
		forgetPrincipal(ctx, actor.UserID)
		if res.Token, err = auth.GenerateToken(actor.UserID, auth.RoleProfessional); err != nil {
			return nil, apperr.Internal(err)
		}
	}
	return res, nil
}

func (s *ProfessionalService) Update(ctx context.Context, actor auth.Principal, id uint, in ProfessionalInput) (*models.ProfessionalProfile, error) {
	var p models.ProfessionalProfile
	if err := orm.WithContext(ctx).First(&p, id); err != nil {
		return nil, apperr.FromDB(err, "Professional not found")
	}
	if err := ownerOr403(actor, p.UserID, "You can only update your own profile"); err != nil {
		return nil, err
	}
	if in.IsVerified != nil && *in.IsVerified != p.IsVerified && !actor.IsAdmin() {
		return nil, apperr.Forbidden("Only administrators can verify professionals")
	}
	if in.ProfessionalTypeID != p.ProfessionalTypeID {
		var pt models.ProfessionalType
		if err := mustExist(ctx, &pt, in.ProfessionalTypeID, "Professional type not found"); err != nil {
			return nil, err
		}
	}

	verifiedChanged := in.IsVerified != nil && *in.IsVerified != p.IsVerified
	p.ProfessionalTypeID = in.ProfessionalTypeID
	p.BusinessName = strings.TrimSpace(in.BusinessName)
	p.Bio = sanitizeText(in.Bio)
	p.Location = in.Location
	p.ExperienceYears = in.ExperienceYears
	if in.Portfolio != nil {
		p.Portfolio = in.Portfolio
	}
	if in.IsVerified != nil {
		p.IsVerified = *in.IsVerified
	}

	err := orm.Transaction(ctx, func(tx *orm.Query) error {
		if err := tx.Save(&p); err != nil {
			return err
		}
		if verifiedChanged {
			Audit(ctx, tx, actor, "professional.verification_changed", "ProfessionalProfile", p.ID,
				map[string]any{"isVerified": p.IsVerified})
		}
		return nil
	})
	if err != nil {
		return nil, apperr.FromDB(err, "Professional not found")
	}
	return s.Find(ctx, p.ID)
}

func (s *ProfessionalService) Delete(ctx context.Context, actor auth.Principal, id uint) error {
	var p models.ProfessionalProfile
	if err := orm.WithContext(ctx).First(&p, id); err != nil {
		return apperr.FromDB(err, "Professional not found")
	}
	if err := ownerOr403(actor, p.UserID, "You can only delete your own profile"); err != nil {
		return err
	}

	hasProducts, err := exists(ctx, &models.Product{}, "professional_id = ?", id)
	if err != nil {
		return err
	}
	if hasProducts {
		return apperr.BadRequest("Cannot delete professional profile with existing products")
	}
	hasServices, err := exists(ctx, &models.Service{}, "professional_id = ?", id)
	if err != nil {
		return err
	}
	if hasServices {
		return apperr.BadRequest("Cannot delete professional profile with existing services")
	}

	return apperr.FromDB(orm.Transaction(ctx, func(tx *orm.Query) error {
		if _, err := tx.Where("professional_id = ?", id).Delete(&models.Review{}); err != nil {
			return err
		}
		if _, err := tx.Fresh().Delete(&models.ProfessionalProfile{}, id); err != nil {
			return err
		}
		Audit(ctx, tx, actor, "professional.deleted", "ProfessionalProfile", id, map[string]any{"userId": p.UserID})
		return nil
	}), "Professional not found")
}
