package services

import (
	"context"

	"github.com/PascalSeth/trendiwear/app/models"
	"github.com/PascalSeth/trendiwear/pkg/apperr"
	"github.com/PascalSeth/trendiwear/pkg/auth"
	"github.com/PascalSeth/trendiwear/pkg/orm"
)

type ReviewService struct{}

func NewReviewService() *ReviewService { return &ReviewService{} }

type ReviewFilter struct {
	ProductID      uint
	ProfessionalID uint
}

func (s *ReviewService) List(ctx context.Context, f ReviewFilter, p Page) ([]models.Review, orm.Pagination, error) {
	q := orm.WithContext(ctx).Model(&models.Review{})
	if f.ProductID != 0 {
		q = q.Where("product_id = ?", f.ProductID)
	}
	if f.ProfessionalID != 0 {
		q = q.Where("professional_id = ?", f.ProfessionalID)
	}
	page, limit := p.normalized()
	var out []models.Review
	pg, err := q.Preload("User").Order("created_at DESC").Paginate(&out, page, limit)
	if err != nil {
		return nil, orm.Pagination{}, apperr.Internal(err)
	}
	return out, pg, nil
}

type ReviewInput struct {
	ProductID      *uint  `json:"productId"`
	ProfessionalID *uint  `json:"professionalId"`
	Rating         int    `json:"rating"  validate:"required,between=1,5"`
	Comment        string `json:"comment" validate:"nullable,max=2000"`
}

// Create records one review per user per target.
func (s *ReviewService) Create(ctx context.Context, actor auth.Principal, in ReviewInput) (*models.Review, error) {
	if (in.ProductID == nil) == (in.ProfessionalID == nil) {
		return nil, apperr.BadRequest("Provide exactly one of productId or professionalId")
	}
	if in.Rating < 1 || in.Rating > 5 {
		return nil, apperr.BadRequest("Rating must be between 1 and 5")
	}

	r := models.Review{UserID: actor.UserID, Rating: in.Rating, Comment: sanitizeText(in.Comment)}
	var dup bool
	var err error
	if in.ProductID != nil {
		var p models.Product
		if err := mustExist(ctx, &p, *in.ProductID, "Product not found"); err != nil {
			return nil, err
		}
		var own bool
		if own, err = exists(ctx, &models.ProfessionalProfile{}, "id = ? AND user_id = ?", p.ProfessionalID, actor.UserID); err != nil {
			return nil, err
		}
		if own {
			return nil, apperr.BadRequest("You cannot review your own product")
		}
		r.ProductID = &p.ID
		dup, err = exists(ctx, &models.Review{}, "user_id = ? AND product_id = ?", actor.UserID, p.ID)
	} else {
		var pp models.ProfessionalProfile
		if err := mustExist(ctx, &pp, *in.ProfessionalID, "Professional not found"); err != nil {
			return nil, err
		}
		if pp.UserID == actor.UserID {
			return nil, apperr.BadRequest("You cannot review yourself")
		}
		r.ProfessionalID = &pp.ID
		dup, err = exists(ctx, &models.Review{}, "user_id = ? AND professional_id = ?", actor.UserID, pp.ID)
	}
	if err != nil {
		return nil, err
	}
	if dup {
		return nil, apperr.Conflict("You have already reviewed this item")
	}

	if err := orm.WithContext(ctx).Create(&r); err != nil {
		return nil, apperr.FromDB(err, "")
	}
	invalidateShowcase(ctx)
	return &r, nil
}

func (s *ReviewService) Delete(ctx context.Context, actor auth.Principal, id uint) error {
	var r models.Review
	if err := orm.WithContext(ctx).First(&r, id); err != nil {
		return apperr.FromDB(err, "Review not found")
	}
	if err := ownerOr403(actor, r.UserID, "You can only delete your own reviews"); err != nil {
		return err
	}
	err := orm.Transaction(ctx, func(tx *orm.Query) error {
		if _, err := tx.Delete(&models.Review{}, id); err != nil {
			return err
		}
		if actor.UserID != r.UserID {
			Audit(ctx, tx, actor, "review.deleted", "Review", id, map[string]any{"authorId": r.UserID})
		}
		return nil
	})
	if err != nil {
		return apperr.FromDB(err, "Review not found")
	}
	invalidateShowcase(ctx)
	return nil
}
