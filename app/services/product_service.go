package services

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/PascalSeth/trendiwear/app/models"
	"github.com/PascalSeth/trendiwear/pkg/apperr"
	"github.com/PascalSeth/trendiwear/pkg/auth"
	"github.com/PascalSeth/trendiwear/pkg/cache"
	"github.com/PascalSeth/trendiwear/pkg/orm"
)

type ProductService struct{}

func NewProductService() *ProductService { return &ProductService{} }

type ProductFilter struct {
	CategoryID     uint
	CollectionID   uint
	ProfessionalID uint
	Search         string
	MinPrice       *decimal.Decimal
	MaxPrice       *decimal.Decimal
	// IncludeInactive is honoured for admins only.
	IncludeInactive bool
}

func (s *ProductService) List(ctx context.Context, f ProductFilter, p Page) ([]models.Product, orm.Pagination, error) {
	q := orm.WithContext(ctx).Model(&models.Product{})
	if !f.IncludeInactive {
		q = q.Where("products.is_active = ?", true)
	}
	if f.CategoryID != 0 {
		q = q.Where("products.category_id = ?", f.CategoryID)
	}
	if f.ProfessionalID != 0 {
		q = q.Where("products.professional_id = ?", f.ProfessionalID)
	}
	if f.CollectionID != 0 {
		q = q.Where("products.id IN (SELECT product_id FROM collection_products WHERE collection_id = ?)", f.CollectionID)
	}
	if pattern := like(f.Search); pattern != "" {
		q = q.Where("LOWER(products.name) LIKE ? ESCAPE '!' OR LOWER(products.description) LIKE ? ESCAPE '!'", pattern, pattern)
	}
	if f.MinPrice != nil {
		q = q.Where("products.price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("products.price <= ?", *f.MaxPrice)
	}

	page, limit := p.normalized()
	var out []models.Product
	pg, err := q.Preload("Category").Order("products.created_at DESC").Paginate(&out, page, limit)
	if err != nil {
		return nil, orm.Pagination{}, apperr.Internal(err)
	}
	if err := rateProducts(ctx, out); err != nil {
		return nil, orm.Pagination{}, err
	}
	return out, pg, nil
}

type ShowcasePage struct {
	Items      []models.Product `json:"items"`
	Pagination orm.Pagination   `json:"pagination"`
}

// Showcase lists approved products with their rating rollup. Pages are
// cached until a review or showcase flag changes.
func (s *ProductService) Showcase(ctx context.Context, p Page) (ShowcasePage, error) {
	page, limit := p.normalized()
	return cache.Remember(showcaseKey(page, limit), cache.DefaultTTL(), func() (ShowcasePage, error) {
		var out []models.Product
		pg, err := orm.WithContext(ctx).Model(&models.Product{}).
			Where("is_showcase_approved = ? AND is_active = ?", true, true).
			Preload("Professional").
			Order("updated_at DESC").
			Paginate(&out, page, limit)
		if err != nil {
			return ShowcasePage{}, apperr.Internal(err)
		}
		if err := rateProducts(ctx, out); err != nil {
			return ShowcasePage{}, err
		}
		return ShowcasePage{Items: out, Pagination: pg}, nil
	})
}

func (s *ProductService) Find(ctx context.Context, id uint) (*models.Product, error) {
	var p models.Product
	err := orm.WithContext(ctx).Preload("Category").Preload("Professional").First(&p, id)
	if err != nil {
		return nil, apperr.FromDB(err, "Product not found")
	}
	one := []models.Product{p}
	if err := rateProducts(ctx, one); err != nil {
		return nil, err
	}
	return &one[0], nil
}

type ProductInput struct {
	Name          string          `json:"name"          validate:"required,min=2,max=200"`
	Description   string          `json:"description"   validate:"nullable,max=5000"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stockQuantity" validate:"min=0"`
	CategoryID    uint            `json:"categoryId"    validate:"required"`
	Images        []string        `json:"images"`
	Sizes         []string        `json:"sizes"`
	Colors        []string        `json:"colors"`
	IsActive      *bool           `json:"isActive"`
	IsFeatured    bool            `json:"isFeatured"`
}

func (in ProductInput) check() error {
	if !in.Price.IsPositive() {
		return apperr.BadRequest("Price must be greater than zero")
	}
	return nil
}

// Create lists a product under the caller's professional profile.
func (s *ProductService) Create(ctx context.Context, actor auth.Principal, in ProductInput) (*models.Product, error) {
	if actor.Role != auth.RoleProfessional {
		return nil, apperr.Forbidden("Only professionals can create products")
	}
	if err := in.check(); err != nil {
		return nil, err
	}
	prof, err := professionalOf(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	var cat models.Category
	if err := mustExist(ctx, &cat, in.CategoryID, "Category not found"); err != nil {
		return nil, err
	}

	p := models.Product{
		Name:           strings.TrimSpace(in.Name),
		Description:    sanitizeText(in.Description),
		Price:          in.Price.Round(2),
		StockQuantity:  in.StockQuantity,
		CategoryID:     cat.ID,
		ProfessionalID: prof.ID,
		Images:         in.Images,
		Sizes:          in.Sizes,
		Colors:         in.Colors,
		IsActive:       in.IsActive == nil || *in.IsActive,
		IsFeatured:     in.IsFeatured,
	}
	if err := orm.WithContext(ctx).Create(&p); err != nil {
		return nil, apperr.FromDB(err, "")
	}
	return &p, nil
}

func (s *ProductService) Update(ctx context.Context, actor auth.Principal, id uint, in ProductInput) (*models.Product, error) {
	p, err := s.owned(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := in.check(); err != nil {
		return nil, err
	}
	if in.CategoryID != p.CategoryID {
		var cat models.Category
		if err := mustExist(ctx, &cat, in.CategoryID, "Category not found"); err != nil {
			return nil, err
		}
	}

	p.Name = strings.TrimSpace(in.Name)
	p.Description = sanitizeText(in.Description)
	p.Price = in.Price.Round(2)
	p.StockQuantity = in.StockQuantity
	p.CategoryID = in.CategoryID
	p.Images, p.Sizes, p.Colors = in.Images, in.Sizes, in.Colors
	p.IsFeatured = in.IsFeatured
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}

	err = orm.Transaction(ctx, func(tx *orm.Query) error {
		if err := tx.Save(p); err != nil {
			return err
		}
		if actor.IsAdmin() {
			Audit(ctx, tx, actor, "product.updated", "Product", p.ID, map[string]any{"name": p.Name})
		}
		return nil
	})
	if err != nil {
		return nil, apperr.FromDB(err, "Product not found")
	}
	if p.IsShowcaseApproved {
		invalidateShowcase(ctx)
	}
	return s.Find(ctx, p.ID)
}

// Delete removes the product. Order items keep their snapshots.
func (s *ProductService) Delete(ctx context.Context, actor auth.Principal, id uint) error {
	p, err := s.owned(ctx, actor, id)
	if err != nil {
		return err
	}

	err = orm.Transaction(ctx, func(tx *orm.Query) error {
		if _, err := tx.Where("product_id = ?", id).Delete(&models.CartItem{}); err != nil {
			return err
		}
		if _, err := tx.Fresh().Where("product_id = ?", id).Delete(&models.Review{}); err != nil {
			return err
		}
		if _, err := tx.Fresh().Where("product_id = ?", id).Delete(&collectionProduct{}); err != nil {
			return err
		}
		if _, err := tx.Fresh().Delete(&models.Product{}, id); err != nil {
			return err
		}
		if actor.IsAdmin() {
			Audit(ctx, tx, actor, "product.deleted", "Product", id, map[string]any{"name": p.Name})
		}
		return nil
	})
	if err != nil {
		return apperr.FromDB(err, "Product not found")
	}
	if p.IsShowcaseApproved {
		invalidateShowcase(ctx)
	}
	return nil
}

// SetShowcase approves or withdraws a product from the showcase.
func (s *ProductService) SetShowcase(ctx context.Context, actor auth.Principal, id uint, approved bool) (*models.Product, error) {
	if actor.Role != auth.RoleSuperAdmin {
		return nil, apperr.Forbidden("Only a super admin can approve showcase products")
	}
	var p models.Product
	if err := orm.WithContext(ctx).First(&p, id); err != nil {
		return nil, apperr.FromDB(err, "Product not found")
	}

	err := orm.Transaction(ctx, func(tx *orm.Query) error {
		if _, err := tx.Model(&p).Update("is_showcase_approved", approved); err != nil {
			return err
		}
		action := "product.showcase_approved"
		if !approved {
			action = "product.showcase_revoked"
		}
		Audit(ctx, tx, actor, action, "Product", id, map[string]any{"name": p.Name})
		return nil
	})
	if err != nil {
		return nil, apperr.FromDB(err, "Product not found")
	}
	invalidateShowcase(ctx)
	return s.Find(ctx, id)
}

// owned loads a product the caller may change: its professional or an admin.
func (s *ProductService) owned(ctx context.Context, actor auth.Principal, id uint) (*models.Product, error) {
	var p models.Product
	if err := orm.WithContext(ctx).Preload("Professional").First(&p, id); err != nil {
		return nil, apperr.FromDB(err, "Product not found")
	}
	var owner uint
	if p.Professional != nil {
		owner = p.Professional.UserID
	}
	if err := ownerOr403(actor, owner, "You can only modify your own products"); err != nil {
		return nil, err
	}
	p.Professional = nil
	return &p, nil
}
