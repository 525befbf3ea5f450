package services

import (
	"context"
	"strings"

	"github.com/PascalSeth/trendiwear/app/models"
	"github.com/PascalSeth/trendiwear/pkg/apperr"
	"github.com/PascalSeth/trendiwear/pkg/auth"
	"github.com/PascalSeth/trendiwear/pkg/orm"
)

type ProfessionalTypeService struct{}

func NewProfessionalTypeService() *ProfessionalTypeService { return &ProfessionalTypeService{} }

type ProfessionalTypeInput struct {
	Name        string `json:"name"        validate:"required,min=2,max=120"`
	Description string `json:"description" validate:"nullable,max=2000"`
	IsActive    *bool  `json:"isActive"`
}

// List returns every type; the set is small enough to skip paging.
func (s *ProfessionalTypeService) List(ctx context.Context, activeOnly bool) ([]models.ProfessionalType, error) {
	q := orm.WithContext(ctx).Model(&models.ProfessionalType{})
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	var out []models.ProfessionalType
	if err := q.Order("name ASC").Get(&out); err != nil {
		return nil, apperr.Internal(err)
	}
	return out, nil
}

func (s *ProfessionalTypeService) Create(ctx context.Context, actor auth.Principal, in ProfessionalTypeInput) (*models.ProfessionalType, error) {
	t := models.ProfessionalType{
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
		Audit(ctx, tx, actor, "professional_type.created", "ProfessionalType", t.ID, map[string]any{"name": t.Name})
		return nil
	})
	if err != nil {
		return nil, apperr.FromDB(err, "")
	}
	return &t, nil
}

func (s *ProfessionalTypeService) Update(ctx context.Context, actor auth.Principal, id uint, in ProfessionalTypeInput) (*models.ProfessionalType, error) {
	var t models.ProfessionalType
	if err := orm.WithContext(ctx).First(&t, id); err != nil {
		return nil, apperr.FromDB(err, "Professional type not found")
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
		Audit(ctx, tx, actor, "professional_type.updated", "ProfessionalType", t.ID, map[string]any{"name": t.Name})
		return nil
	})
	if err != nil {
		return nil, apperr.FromDB(err, "Professional type not found")
	}
	return &t, nil
}

func (s *ProfessionalTypeService) Delete(ctx context.Context, actor auth.Principal, id uint) error {
	var t models.ProfessionalType
	if err := orm.WithContext(ctx).First(&t, id); err != nil {
		return apperr.FromDB(err, "Professional type not found")
	}
	inUse, err := exists(ctx, &models.ProfessionalProfile{}, "professional_type_id = ?", id)
	if err != nil {
		return err
	}
	if inUse {
		return apperr.BadRequest("Cannot delete professional type with existing professionals")
	}

	return apperr.FromDB(orm.Transaction(ctx, func(tx *orm.Query) error {
		if _, err := tx.Delete(&models.ProfessionalType{}, id); err != nil {
			return err
		}
		Audit(ctx, tx, actor, "professional_type.deleted", "ProfessionalType", id, map[string]any{"name": t.Name})
		return nil
	}), "Professional type not found")
}

func (s *ProfessionalTypeService) nameFree(ctx context.Context, name string, except uint) error {
	taken, err := exists(ctx, &models.ProfessionalType{}, "LOWER(name) = ? AND id <> ?", strings.ToLower(name), except)
	if err != nil {
		return err
	}
	if taken {
		return apperr.Conflict("Professional type already exists")
	}
	return nil
}
