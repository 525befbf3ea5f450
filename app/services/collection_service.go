package services

import (
	"context"
	"strings"

	"github.com/PascalSeth/trendiwear/app/models"
	"github.com/PascalSeth/trendiwear/pkg/apperr"
	"github.com/PascalSeth/trendiwear/pkg/auth"
	"github.com/PascalSeth/trendiwear/pkg/orm"
)

type CollectionService struct{}

func NewCollectionService() *CollectionService { return &CollectionService{} }

type CollectionFilter struct {
	Featured *bool
	Season   string
	Search   string
	// ActiveOnly hides deactivated collections from the storefront.
	ActiveOnly bool
}

func (s *CollectionService) List(ctx context.Context, f CollectionFilter, p Page) ([]models.Collection, orm.Pagination, error) {
	q := orm.WithContext(ctx).Model(&models.Collection{})
	if f.Featured != nil {
		q = q.Where("is_featured = ?", *f.Featured)
	}
	if f.Season != "" {
		q = q.Where("season = ?", f.Season)
	}
	if pattern := like(f.Search); pattern != "" {
		q = q.Where("LOWER(name) LIKE ? ESCAPE '!'", pattern)
	}
	if f.ActiveOnly {
		q = q.Where("is_active = ?", true)
	}

	page, limit := p.normalized()
	var out []models.Collection
	pg, err := q.Order("created_at DESC").Paginate(&out, page, limit)
	if err != nil {
		return nil, orm.Pagination{}, apperr.Internal(err)
	}
	return out, pg, nil
}

func (s *CollectionService) Find(ctx context.Context, id uint) (*models.Collection, error) {
	var c models.Collection
	err := orm.WithContext(ctx).
		Preload("Products", "is_active = ?", true).
		First(&c, id)
	if err != nil {
		return nil, apperr.FromDB(err, "Collection not found")
	}
	return &c, nil
}

type CollectionInput struct {
	Name        string `json:"name"        validate:"required,min=2,max=160"`
	Slug        string `json:"slug"        validate:"nullable,slug,max=191"`
	Description string `json:"description" validate:"nullable,max=2000"`
	ImageURL    string `json:"imageUrl"    validate:"nullable,url"`
	Season      string `json:"season"      validate:"nullable,max=40"`
	IsFeatured  bool   `json:"isFeatured"`
	IsActive    *bool  `json:"isActive"`
}

func (s *CollectionService) Create(ctx context.Context, actor auth.Principal, in CollectionInput) (*models.Collection, error) {
	c := models.Collection{
		Name:        strings.TrimSpace(in.Name),
		Slug:        in.Slug,
		Description: in.Description,
		ImageURL:    in.ImageURL,
		Season:      in.Season,
		IsFeatured:  in.IsFeatured,
		IsActive:    in.IsActive == nil || *in.IsActive,
	}
	if c.Slug == "" {
		c.Slug = slugify(c.Name)
	}
	taken, err := exists(ctx, &models.Collection{}, "slug = ?", c.Slug)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperr.Conflict("Collection slug already exists")
	}

	err = orm.Transaction(ctx, func(tx *orm.Query) error {
		if err := tx.Create(&c); err != nil {
			return err
		}
		Audit(ctx, tx, actor, "collection.created", "Collection", c.ID, map[string]any{"name": c.Name})
		return nil
	})
	if err != nil {
		return nil, apperr.FromDB(err, "")
	}
	return &c, nil
}

func (s *CollectionService) Update(ctx context.Context, actor auth.Principal, id uint, in CollectionInput) (*models.Collection, error) {
	var c models.Collection
	if err := orm.WithContext(ctx).First(&c, id); err != nil {
		return nil, apperr.FromDB(err, "Collection not found")
	}
	if in.Slug != "" && in.Slug != c.Slug {
		taken, err := exists(ctx, &models.Collection{}, "slug = ? AND id <> ?", in.Slug, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperr.Conflict("Collection slug already exists")
		}
		c.Slug = in.Slug
	}
	c.Name = strings.TrimSpace(in.Name)
	c.Description = in.Description
	c.ImageURL = in.ImageURL
	c.Season = in.Season
	c.IsFeatured = in.IsFeatured
	if in.IsActive != nil {
		c.IsActive = *in.IsActive
	}

	err := orm.Transaction(ctx, func(tx *orm.Query) error {
		if err := tx.Save(&c); err != nil {
			return err
		}
		Audit(ctx, tx, actor, "collection.updated", "Collection", c.ID, map[string]any{"name": c.Name})
		return nil
	})
	if err != nil {
		return nil, apperr.FromDB(err, "Collection not found")
	}
	return &c, nil
}

func (s *CollectionService) Delete(ctx context.Context, actor auth.Principal, id uint) error {
	var c models.Collection
	if err := orm.WithContext(ctx).First(&c, id); err != nil {
		return apperr.FromDB(err, "Collection not found")
	}
	return apperr.FromDB(orm.Transaction(ctx, func(tx *orm.Query) error {
		if err := tx.Gorm().Model(&c).Association("Products").Clear(); err != nil {
			return err
		}
		if _, err := tx.Fresh().Delete(&models.Collection{}, id); err != nil {
			return err
		}
		Audit(ctx, tx, actor, "collection.deleted", "Collection", id, map[string]any{"name": c.Name})
		return nil
	}), "Collection not found")
}

// AddProduct is idempotent; adding a member twice is not an error.
func (s *CollectionService) AddProduct(ctx context.Context, actor auth.Principal, id, productID uint) (*models.Collection, error) {
	var c models.Collection
	if err := orm.WithContext(ctx).First(&c, id); err != nil {
		return nil, apperr.FromDB(err, "Collection not found")
	}
	var p models.Product
	if err := mustExist(ctx, &p, productID, "Product not found"); err != nil {
		return nil, err
	}

	err := orm.Transaction(ctx, func(tx *orm.Query) error {
		if err := tx.Gorm().Model(&c).Association("Products").Append(&p); err != nil {
			return err
		}
		Audit(ctx, tx, actor, "collection.product_added", "Collection", id, map[string]any{"productId": productID})
		return nil
	})
	if err != nil {
		return nil, apperr.FromDB(err, "Collection not found")
	}
	return s.Find(ctx, id)
}

func (s *CollectionService) RemoveProduct(ctx context.Context, actor auth.Principal, id, productID uint) error {
	var c models.Collection
	if err := orm.WithContext(ctx).First(&c, id); err != nil {
		return apperr.FromDB(err, "Collection not found")
	}
	member, err := exists(ctx, &collectionProduct{}, "collection_id = ? AND product_id = ?", id, productID)
	if err != nil {
		return err
	}
	if !member {
		return apperr.NotFound("Product is not in this collection")
	}

	return apperr.FromDB(orm.Transaction(ctx, func(tx *orm.Query) error {
		p := models.Product{Base: models.Base{ID: productID}}
		if err := tx.Gorm().Model(&c).Association("Products").Delete(&p); err != nil {
			return err
		}
		Audit(ctx, tx, actor, "collection.product_removed", "Collection", id, map[string]any{"productId": productID})
		return nil
	}), "Collection not found")
}

// collectionProduct maps the many2many join table for membership checks.
type collectionProduct struct {
	CollectionID uint
	ProductID    uint
}

func (collectionProduct) TableName() string { return "collection_products" }
