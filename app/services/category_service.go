package services

import (
	"context"
	"strings"

	"github.com/PascalSeth/trendiwear/app/models"
	"github.com/PascalSeth/trendiwear/pkg/apperr"
	"github.com/PascalSeth/trendiwear/pkg/auth"
	"github.com/PascalSeth/trendiwear/pkg/orm"
)

type CategoryService struct{}

func NewCategoryService() *CategoryService { return &CategoryService{} }

type CategoryFilter struct {
	ParentID *uint
	RootOnly bool
	Search   string
	// Featured restricts the list to active categories.
	Featured *bool
}

func (s *CategoryService) List(ctx context.Context, f CategoryFilter, p Page) ([]models.Category, orm.Pagination, error) {
	q := orm.WithContext(ctx).Model(&models.Category{})
	switch {
	case f.ParentID != nil:
		q = q.Where("parent_id = ?", *f.ParentID)
	case f.RootOnly:
		q = q.Where("parent_id IS NULL")
	}
	if pattern := like(f.Search); pattern != "" {
		q = q.Where("LOWER(name) LIKE ? ESCAPE '!'", pattern)
	}
	if f.Featured != nil && *f.Featured {
		q = q.Where("is_active = ?", true)
	}

	page, limit := p.normalized()
	var cats []models.Category
	pg, err := q.Preload("Children").Order("name ASC").Paginate(&cats, page, limit)
	if err != nil {
		return nil, orm.Pagination{}, apperr.Internal(err)
	}
	if err := attachProductCounts(ctx, cats); err != nil {
		return nil, orm.Pagination{}, err
	}
	return cats, pg, nil
}

func attachProductCounts(ctx context.Context, cats []models.Category) error {
	if len(cats) == 0 {
		return nil
	}
	ids := make([]uint, len(cats))
	for i, c := range cats {
		ids[i] = c.ID
	}
	var rows []struct {
		CategoryID uint
		N          int64
	}
	err := orm.WithContext(ctx).Model(&models.Product{}).
		Select("category_id, COUNT(*) AS n").
		Where("category_id IN ?", ids).
		Group("category_id").
		Scan(&rows)
	if err != nil {
		return apperr.Internal(err)
	}
	counts := make(map[uint]int64, len(rows))
	for _, r := range rows {
		counts[r.CategoryID] = r.N
	}
	for i := range cats {
		cats[i].ProductCount = counts[cats[i].ID]
	}
	return nil
}

func (s *CategoryService) Find(ctx context.Context, id uint) (*models.Category, error) {
	var c models.Category
	if err := orm.WithContext(ctx).Preload("Parent").Preload("Children").First(&c, id); err != nil {
		return nil, apperr.FromDB(err, "Category not found")
	}
	one := []models.Category{c}
	if err := attachProductCounts(ctx, one); err != nil {
		return nil, err
	}
	return &one[0], nil
}

type CategoryInput struct {
	Name        string `json:"name"        validate:"required,min=2,max=120"`
	Slug        string `json:"slug"        validate:"nullable,slug,max=160"`
	Description string `json:"description" validate:"nullable,max=2000"`
	ImageURL    string `json:"imageUrl"    validate:"nullable,url"`
	ParentID    *uint  `json:"parentId"`
	IsActive    *bool  `json:"isActive"`
}

func (s *CategoryService) Create(ctx context.Context, actor auth.Principal, in CategoryInput) (*models.Category, error) {
	c := models.Category{
		Name:        strings.TrimSpace(in.Name),
		Slug:        in.Slug,
		Description: in.Description,
		ImageURL:    in.ImageURL,
		ParentID:    in.ParentID,
		IsActive:    in.IsActive == nil || *in.IsActive,
	}
	if c.Slug == "" {
		c.Slug = slugify(c.Name)
	}
	if c.ParentID != nil {
		if err := s.requireParent(ctx, *c.ParentID, 0); err != nil {
			return nil, err
		}
	}
	if err := s.slugFree(ctx, c.Slug, 0); err != nil {
		return nil, err
	}

	err := orm.Transaction(ctx, func(tx *orm.Query) error {
		if err := tx.Create(&c); err != nil {
			return err
		}
		Audit(ctx, tx, actor, "category.created", "Category", c.ID, map[string]any{"name": c.Name})
		return nil
	})
	if err != nil {
		return nil, apperr.FromDB(err, "")
	}
	return &c, nil
}

func (s *CategoryService) Update(ctx context.Context, actor auth.Principal, id uint, in CategoryInput) (*models.Category, error) {
	var c models.Category
	if err := orm.WithContext(ctx).First(&c, id); err != nil {
		return nil, apperr.FromDB(err, "Category not found")
	}

	c.Name = strings.TrimSpace(in.Name)
	c.Description = in.Description
	c.ImageURL = in.ImageURL
	if in.Slug != "" && in.Slug != c.Slug {
		if err := s.slugFree(ctx, in.Slug, id); err != nil {
			return nil, err
		}
		c.Slug = in.Slug
	}
	if in.IsActive != nil {
		c.IsActive = *in.IsActive
	}
	if in.ParentID != nil {
		if err := s.requireParent(ctx, *in.ParentID, id); err != nil {
			return nil, err
		}
	}
	c.ParentID = in.ParentID
	c.Parent, c.Children = nil, nil

	err := orm.Transaction(ctx, func(tx *orm.Query) error {
		if err := tx.Save(&c); err != nil {
			return err
		}
		Audit(ctx, tx, actor, "category.updated", "Category", c.ID, map[string]any{"name": c.Name})
		return nil
	})
	if err != nil {
		return nil, apperr.FromDB(err, "Category not found")
	}
	return &c, nil
}

// Delete refuses while products or child categories still point here.
func (s *CategoryService) Delete(ctx context.Context, actor auth.Principal, id uint) error {
	var c models.Category
	if err := orm.WithContext(ctx).First(&c, id); err != nil {
		return apperr.FromDB(err, "Category not found")
	}

	hasProducts, err := exists(ctx, &models.Product{}, "category_id = ?", id)
	if err != nil {
		return err
	}
	if hasProducts {
		return apperr.BadRequest("Cannot delete category with existing products")
	}
	hasChildren, err := exists(ctx, &models.Category{}, "parent_id = ?", id)
	if err != nil {
		return err
	}
	if hasChildren {
		return apperr.BadRequest("Cannot delete category with subcategories")
	}

	return apperr.FromDB(orm.Transaction(ctx, func(tx *orm.Query) error {
		if _, err := tx.Delete(&models.Category{}, id); err != nil {
			return err
		}
		Audit(ctx, tx, actor, "category.deleted", "Category", id, map[string]any{"name": c.Name})
		return nil
	}), "Category not found")
}

// requireParent checks the parent exists and, when self is set, that it
// is not self or one of self's descendants.
func (s *CategoryService) requireParent(ctx context.Context, parentID, self uint) error {
	if self != 0 && parentID == self {
		return apperr.BadRequest("A category cannot be its own parent")
	}
	cur := parentID
	for depth := 0; cur != 0; depth++ {
		if depth > 32 {
			return apperr.BadRequest("Category hierarchy is too deep")
		}
		var c models.Category
		if err := orm.WithContext(ctx).Select("id", "parent_id").First(&c, cur); err != nil {
			if cur == parentID {
				return apperr.BadRequest("Parent category not found")
			}
			return apperr.FromDB(err, "Parent category not found")
		}
		if self != 0 && c.ParentID != nil && *c.ParentID == self {
			return apperr.BadRequest("A category cannot be moved under its own subcategory")
		}
		if c.ParentID == nil {
			break
		}
		cur = *c.ParentID
	}
	return nil
}

func (s *CategoryService) slugFree(ctx context.Context, slug string, except uint) error {
	taken, err := exists(ctx, &models.Category{}, "slug = ? AND id <> ?", slug, except)
	if err != nil {
		return err
	}
	if taken {
		return apperr.Conflict("Category slug already exists")
	}
	return nil
}
