package services

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/PascalSeth/trendiwear/app/models"
	"github.com/PascalSeth/trendiwear/pkg/apperr"
	"github.com/PascalSeth/trendiwear/pkg/auth"
	"github.com/PascalSeth/trendiwear/pkg/collection"
	"github.com/PascalSeth/trendiwear/pkg/orm"
)

type CartService struct{}

func NewCartService() *CartService { return &CartService{} }

type Cart struct {
	Items     []models.CartItem `json:"items"`
	Subtotal  decimal.Decimal   `json:"subtotal"`
	ItemCount int               `json:"itemCount"`
}

func lineTotal(i models.CartItem) decimal.Decimal {
	if i.Product == nil {
		return decimal.Zero
	}
	return i.Product.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

func (s *CartService) Get(ctx context.Context, actor auth.Principal) (*Cart, error) {
	var items []models.CartItem
	err := orm.WithContext(ctx).Where("user_id = ?", actor.UserID).
		Preload("Product").
		Order("created_at ASC").
		Get(&items)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &Cart{
		Items:     items,
		Subtotal:  collection.SumDecimal(items, lineTotal),
		ItemCount: collection.Reduce(items, 0, func(n int, i models.CartItem) int { return n + i.Quantity }),
	}, nil
}

type AddToCartInput struct {
	ProductID uint   `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity"  validate:"required,min=1"`
	Size      string `json:"size"      validate:"nullable,max=20"`
	Color     string `json:"color"     validate:"nullable,max=40"`
}

// Add merges into an existing line for the same product, size and color.
func (s *CartService) Add(ctx context.Context, actor auth.Principal, in AddToCartInput) (*models.CartItem, error) {
	if in.Quantity < 1 {
		return nil, apperr.BadRequest("Quantity must be at least 1")
	}
	var p models.Product
	if err := mustExist(ctx, &p, in.ProductID, "Product not found"); err != nil {
		return nil, err
	}
	if !p.IsActive {
		return nil, apperr.BadRequest("Product is not available")
	}

	var item models.CartItem
	err := orm.Transaction(ctx, func(tx *orm.Query) error {
		err := tx.Where("user_id = ? AND product_id = ? AND size = ? AND color = ?",
			actor.UserID, p.ID, in.Size, in.Color).ForUpdate().First(&item)
		switch {
		case isMissing(err):
			item = models.CartItem{UserID: actor.UserID, ProductID: p.ID, Size: in.Size, Color: in.Color}
		case err != nil:
			return err
		}

		want := item.Quantity + in.Quantity
		if want > p.StockQuantity {
			return apperr.BadRequest(fmt.Sprintf("Only %d in stock", p.StockQuantity))
		}
		item.Quantity = want
		return tx.Fresh().Save(&item)
	})
	if err != nil {
		return nil, apperr.FromDB(err, "Cart item not found")
	}
	item.Product = &p
	return &item, nil
}

// UpdateQuantity rejects values below 1 or above stock and leaves the
// line untouched in that case.
func (s *CartService) UpdateQuantity(ctx context.Context, actor auth.Principal, id uint, qty int) (*models.CartItem, error) {
	item, err := s.line(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if qty < 1 {
		return nil, apperr.BadRequest("Quantity must be at least 1")
	}
	if item.Product == nil || qty > item.Product.StockQuantity {
		stock := 0
		if item.Product != nil {
			stock = item.Product.StockQuantity
		}
		return nil, apperr.BadRequest(fmt.Sprintf("Only %d in stock", stock))
	}

	if _, err := orm.WithContext(ctx).Model(&models.CartItem{}).Where("id = ?", id).Update("quantity", qty); err != nil {
		return nil, apperr.FromDB(err, "Cart item not found")
	}
	item.Quantity = qty
	return item, nil
}

func (s *CartService) Remove(ctx context.Context, actor auth.Principal, id uint) error {
	if _, err := s.line(ctx, actor, id); err != nil {
		return err
	}
	_, err := orm.WithContext(ctx).Delete(&models.CartItem{}, id)
	return apperr.FromDB(err, "Cart item not found")
}

func (s *CartService) Clear(ctx context.Context, actor auth.Principal) error {
	_, err := orm.WithContext(ctx).Where("user_id = ?", actor.UserID).Delete(&models.CartItem{})
	return apperr.FromDB(err, "")
}

func (s *CartService) line(ctx context.Context, actor auth.Principal, id uint) (*models.CartItem, error) {
	var item models.CartItem
	if err := orm.WithContext(ctx).Preload("Product").First(&item, id); err != nil {
		return nil, apperr.FromDB(err, "Cart item not found")
	}
	if item.UserID != actor.UserID {
		return nil, apperr.NotFound("Cart item not found")
	}
	return &item, nil
}
