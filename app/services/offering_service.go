package services

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/PascalSeth/trendiwear/app/models"
	"github.com/PascalSeth/trendiwear/pkg/apperr"
	"github.com/PascalSeth/trendiwear/pkg/auth"
	"github.com/PascalSeth/trendiwear/pkg/orm"
)

// OfferingService manages the bookable services professionals offer.
type OfferingService struct{}

func NewOfferingService() *OfferingService { return &OfferingService{} }

type OfferingFilter struct {
	CategoryID     uint
	ProfessionalID uint
	Search         string
}

func (s *OfferingService) List(ctx context.Context, f OfferingFilter, p Page) ([]models.Service, orm.Pagination, error) {
	q := orm.WithContext(ctx).Model(&models.Service{}).Where("is_active = ?", true)
	if f.CategoryID != 0 {
		q = q.Where("service_category_id = ?", f.CategoryID)
	}
	if f.ProfessionalID != 0 {
		q = q.Where("professional_id = ?", f.ProfessionalID)
	}
	if pattern := like(f.Search); pattern != "" {
		q = q.Where("LOWER(name) LIKE ? ESCAPE '!'", pattern)
	}

	page, limit := p.normalized()
	var out []models.Service
	pg, err := q.Preload("ServiceCategory").Preload("Professional").
		Order("created_at DESC").
		Paginate(&out, page, limit)
	if err != nil {
		return nil, orm.Pagination{}, apperr.Internal(err)
	}
	return out, pg, nil
}

func (s *OfferingService) Find(ctx context.Context, id uint) (*models.Service, error) {
	var svc models.Service
	err := orm.WithContext(ctx).Preload("ServiceCategory").Preload("Professional").First(&svc, id)
	if err != nil {
		return nil, apperr.FromDB(err, "Service not found")
	}
	return &svc, nil
}

type OfferingInput struct {
	ServiceCategoryID uint            `json:"serviceCategoryId" validate:"required"`
	Name              string          `json:"name"              validate:"required,min=2,max=160"`
	Description       string          `json:"description"       validate:"nullable,max=5000"`
	Price             decimal.Decimal `json:"price"`
	DurationMinutes   int             `json:"durationMinutes"   validate:"nullable,min=5,max=1440"`
	IsActive          *bool           `json:"isActive"`
}

func (s *OfferingService) Create(ctx context.Context, actor auth.Principal, in OfferingInput) (*models.Service, error) {
	if actor.Role != auth.RoleProfessional {
		return nil, apperr.Forbidden("Only professionals can create services")
	}
	if in.Price.IsNegative() {
		return nil, apperr.BadRequest("Price cannot be negative")
	}
	prof, err := professionalOf(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	var sc models.ServiceCategory
	if err := mustExist(ctx, &sc, in.ServiceCategoryID, "Service category not found"); err != nil {
		return nil, err
	}

	svc := models.Service{
		ProfessionalID:    prof.ID,
		ServiceCategoryID: sc.ID,
		Name:              strings.TrimSpace(in.Name),
		Description:       sanitizeText(in.Description),
		Price:             in.Price.Round(2),
		DurationMinutes:   in.DurationMinutes,
		IsActive:          in.IsActive == nil || *in.IsActive,
	}
	if svc.DurationMinutes == 0 {
		svc.DurationMinutes = 60
	}
	if err := orm.WithContext(ctx).Create(&svc); err != nil {
		return nil, apperr.FromDB(err, "")
	}
	return &svc, nil
}

func (s *OfferingService) Update(ctx context.Context, actor auth.Principal, id uint, in OfferingInput) (*models.Service, error) {
	svc, err := s.owned(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if in.Price.IsNegative() {
		return nil, apperr.BadRequest("Price cannot be negative")
	}
	if in.ServiceCategoryID != svc.ServiceCategoryID {
		var sc models.ServiceCategory
		if err := mustExist(ctx, &sc, in.ServiceCategoryID, "Service category not found"); err != nil {
			return nil, err
		}
	}

	svc.ServiceCategoryID = in.ServiceCategoryID
	svc.Name = strings.TrimSpace(in.Name)
	svc.Description = sanitizeText(in.Description)
	svc.Price = in.Price.Round(2)
	if in.DurationMinutes != 0 {
		svc.DurationMinutes = in.DurationMinutes
	}
	if in.IsActive != nil {
		svc.IsActive = *in.IsActive
	}
	if err := orm.WithContext(ctx).Save(svc); err != nil {
		return nil, apperr.FromDB(err, "Service not found")
	}
	return s.Find(ctx, id)
}

// Delete is refused while bookings reference the service.
func (s *OfferingService) Delete(ctx context.Context, actor auth.Principal, id uint) error {
	svc, err := s.owned(ctx, actor, id)
	if err != nil {
		return err
	}
	booked, err := exists(ctx, &models.Booking{}, "service_id = ?", id)
	if err != nil {
		return err
	}
	if booked {
		return apperr.BadRequest("Cannot delete service with existing bookings")
	}

	return apperr.FromDB(orm.Transaction(ctx, func(tx *orm.Query) error {
		if _, err := tx.Delete(&models.Service{}, id); err != nil {
			return err
		}
		if actor.IsAdmin() {
			Audit(ctx, tx, actor, "service.deleted", "Service", id, map[string]any{"name": svc.Name})
		}
		return nil
	}), "Service not found")
}

func (s *OfferingService) owned(ctx context.Context, actor auth.Principal, id uint) (*models.Service, error) {
	var svc models.Service
	if err := orm.WithContext(ctx).Preload("Professional").First(&svc, id); err != nil {
		return nil, apperr.FromDB(err, "Service not found")
	}
	var owner uint
	if svc.Professional != nil {
		owner = svc.Professional.UserID
	}
	if err := ownerOr403(actor, owner, "You can only modify your own services"); err != nil {
		return nil, err
	}
	svc.Professional = nil
	return &svc, nil
}
