package services

import (
	"context"
	"strings"

	"github.com/PascalSeth/trendiwear/app/models"
	"github.com/PascalSeth/trendiwear/pkg/apperr"
	"github.com/PascalSeth/trendiwear/pkg/auth"
	"github.com/PascalSeth/trendiwear/pkg/orm"
)

type ServiceCategoryService struct{}

func NewServiceCategoryService() *ServiceCategoryService { return &ServiceCategoryService{} }

type ServiceCategoryInput struct {
	Name        string `json:"name"        validate:"required,min=2,max=120"`
	Description string `json:"description" validate:"nullable,max=2000"`
	IsActive    *bool  `json:"isActive"`
}

// List is unpaged; callers render it as a picker.
func (s *ServiceCategoryService) List(ctx context.Context, activeOnly bool) ([]models.ServiceCategory, error) {
	q := orm.WithContext(ctx).Model(&models.ServiceCategory{})
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	var out []models.ServiceCategory
	if err := q.Order("name ASC").Get(&out); err != nil {
		return nil, apperr.Internal(err)
	}
	return out, nil
}

func (s *ServiceCategoryService) Create(ctx context.Context, actor auth.Principal, in ServiceCategoryInput) (*models.ServiceCategory, error) {
	t := models.ServiceCategory{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		IsActive:    in.IsActive == nil || *in.IsActive,
	}
	if err := s.nameFree(ctx, t.Name, 0); err != nil {
		return nil, err
	}
	err := orm.Transaction(ctx, func(tx *orm.Query) error {
		if err := tx.Create(&t); err != nil {
			return err
		}
		Audit(ctx, tx, actor, "service_category.created", "ServiceCategory", t.ID, map[string]any{"name": t.Name})
		return nil
	})
	if err != nil {
		return nil, apperr.FromDB(err, "")
	}
	return &t, nil
}

func (s *ServiceCategoryService) Update(ctx context.Context, actor auth.Principal, id uint, in ServiceCategoryInput) (*models.ServiceCategory, error) {
	var t models.ServiceCategory
	if err := orm.WithContext(ctx).First(&t, id); err != nil {
		return nil, apperr.FromDB(err, "Service category not found")
	}
	name := strings.TrimSpace(in.Name)
	if !strings.EqualFold(name, t.Name) {
		if err := s.nameFree(ctx, name, id); err != nil {
			return nil, err
		}
	}
	t.Name = name
	t.Description = in.Description
	if in.IsActive != nil {
		t.IsActive = *in.IsActive
	}

	err := orm.Transaction(ctx, func(tx *orm.Query) error {
		if err := tx.Save(&t); err != nil {
			return err
		}
		Audit(ctx, tx, actor, "service_category.updated", "ServiceCategory", t.ID, map[string]any{"name": t.Name})
		return nil
	})
	if err != nil {
		return nil, apperr.FromDB(err, "Service category not found")
	}
	return &t, nil
}

func (s *ServiceCategoryService) Delete(ctx context.Context, actor auth.Principal, id uint) error {
	var t models.ServiceCategory
	if err := orm.WithContext(ctx).First(&t, id); err != nil {
		return apperr.FromDB(err, "Service category not found")
	}
	inUse, err := exists(ctx, &models.Service{}, "service_category_id = ?", id)
	if err != nil {
		return err
	}
	if inUse {
		return apperr.BadRequest("Cannot delete service category with existing services")
	}

	return apperr.FromDB(orm.Transaction(ctx, func(tx *orm.Query) error {
		if _, err := tx.Delete(&models.ServiceCategory{}, id); err != nil {
			return err
		}
		Audit(ctx, tx, actor, "service_category.deleted", "ServiceCategory", id, map[string]any{"name": t.Name})
		return nil
	}), "Service category not found")
}

func (s *ServiceCategoryService) nameFree(ctx context.Context, name string, except uint) error {
	taken, err := exists(ctx, &models.ServiceCategory{}, "LOWER(name) = ? AND id <> ?", strings.ToLower(name), except)
	if err != nil {
		return err
	}
	if taken {
		return apperr.Conflict("Service category already exists")
	}
	return nil
}
