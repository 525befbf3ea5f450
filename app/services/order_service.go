package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/PascalSeth/trendiwear/app/events"
	"github.com/PascalSeth/trendiwear/app/models"
	"github.com/PascalSeth/trendiwear/pkg/apperr"
	"github.com/PascalSeth/trendiwear/pkg/auth"
	"github.com/PascalSeth/trendiwear/pkg/event"
	"github.com/PascalSeth/trendiwear/pkg/metrics"
	"github.com/PascalSeth/trendiwear/pkg/orm"
)

var orderMoves = map[string][]string{
	models.OrderPending:    {models.OrderProcessing, models.OrderCancelled},
	models.OrderProcessing: {models.OrderShipped, models.OrderCancelled},
	models.OrderShipped:    {models.OrderDelivered},
}

func CanMoveOrder(from, to string) bool {
	for _, s := range orderMoves[from] {
		if s == to {
			return true
		}
	}
	return false
}

// OrderStatusChange is the payload of events.OrderStatusChanged.
type OrderStatusChange struct {
	Order *models.Order
	From  string
}

type OrderService struct {
	settings *SettingService
}

func NewOrderService() *OrderService {
	return &OrderService{settings: NewSettingService()}
}

type CheckoutInput struct {
	AddressID *uint `json:"addressId"`
}

// Checkout turns the caller's cart into an order in one transaction:
// stock is decremented with a guarded update, prices are snapshotted and
// the cart is emptied. Any failure leaves everything as it was.
func (s *OrderService) Checkout(ctx context.Context, actor auth.Principal, in CheckoutInput) (*models.Order, error) {
	addr, err := s.shippingAddress(ctx, actor.UserID, in.AddressID)
	if err != nil {
		return nil, err
	}
	fee := s.shippingFee(ctx)

	order := models.Order{
		OrderNumber:     newOrderNumber(time.Now()),
		UserID:          actor.UserID,
		AddressID:       &addr.ID,
		ShippingAddress: addr.OneLine(),
		Status:          models.OrderPending,
		ShippingFee:     fee,
	}

	err = orm.Transaction(ctx, func(tx *orm.Query) error {
		var lines []models.CartItem
		if err := tx.Where("user_id = ?", actor.UserID).Preload("Product").Order("id ASC").Get(&lines); err != nil {
			return err
		}
		if len(lines) == 0 {
			return apperr.BadRequest("Cart is empty")
		}

		subtotal := decimal.Zero
		for _, l := range lines {
			p := l.Product
			if p == nil || !p.IsActive {
				return apperr.BadRequest(fmt.Sprintf("Product %d is no longer available", l.ProductID))
			}
			n, err := tx.Fresh().Model(&models.Product{}).
				Where("id = ? AND stock_quantity >= ?", p.ID, l.Quantity).
				Update("stock_quantity", gorm.Expr("stock_quantity - ?", l.Quantity))
			if err != nil {
				return err
			}
			if n == 0 {
				return apperr.BadRequest(fmt.Sprintf("Insufficient stock for %s", p.Name))
			}

			line := p.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
			subtotal = subtotal.Add(line)
			order.Items = append(order.Items, models.OrderItem{
				ProductID:   p.ID,
				ProductName: p.Name,
				Price:       p.Price,
				Quantity:    l.Quantity,
				Size:        l.Size,
				Color:       l.Color,
				Subtotal:    line,
			})
		}
		order.Subtotal = subtotal
		order.Total = subtotal.Add(fee)

		if err := tx.Fresh().Create(&order); err != nil {
			return err
		}
		_, err := tx.Fresh().Where("user_id = ?", actor.UserID).Delete(&models.CartItem{})
		return err
	})
	if err != nil {
		return nil, apperr.FromDB(err, "")
	}

	metrics.OrdersPlaced.Inc()
	placed := order
	event.FireAsync(ctx, events.OrderPlaced, &placed)
	return &order, nil
}

type OrderFilter struct {
	Status string
}

func (s *OrderService) List(ctx context.Context, actor auth.Principal, f OrderFilter, p Page) ([]models.Order, orm.Pagination, error) {
	q := orm.WithContext(ctx).Model(&models.Order{})
	if !actor.IsAdmin() {
		q = q.Where("user_id = ?", actor.UserID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	page, limit := p.normalized()
	var out []models.Order
	pg, err := q.Preload("Items").Order("created_at DESC").Paginate(&out, page, limit)
	if err != nil {
		return nil, orm.Pagination{}, apperr.Internal(err)
	}
	return out, pg, nil
}

func (s *OrderService) Find(ctx context.Context, actor auth.Principal, id uint) (*models.Order, error) {
	var o models.Order
	if err := orm.WithContext(ctx).Preload("Items").Preload("User").First(&o, id); err != nil {
		return nil, apperr.FromDB(err, "Order not found")
	}
	if !actor.Owns(o.UserID) {
		return nil, apperr.NotFound("Order not found")
	}
	return &o, nil
}

// UpdateStatus moves an order along its lifecycle. Admins may make any
// legal move; a customer may only cancel their own PENDING order.
// Cancelling puts the items back in stock.
func (s *OrderService) UpdateStatus(ctx context.Context, actor auth.Principal, id uint, status string) (*models.Order, error) {
	var o models.Order
	if err := orm.WithContext(ctx).Preload("Items").First(&o, id); err != nil {
		return nil, apperr.FromDB(err, "Order not found")
	}
	if !actor.IsAdmin() {
		if o.UserID != actor.UserID {
			return nil, apperr.Forbidden("You can only change your own orders")
		}
		if status != models.OrderCancelled || o.Status != models.OrderPending {
			return nil, apperr.Forbidden("Customers can only cancel pending orders")
		}
	}
	if !CanMoveOrder(o.Status, status) {
		return nil, apperr.BadRequest("Cannot change order from " + o.Status + " to " + status)
	}

	from := o.Status
	err := orm.Transaction(ctx, func(tx *orm.Query) error {
		n, err := tx.Model(&models.Order{}).
			Where("id = ? AND status = ?", id, from).
			Update("status", status)
		if err != nil {
			return err
		}
		if n == 0 {
			return apperr.Conflict("Order status changed concurrently, reload and retry")
		}
		if status == models.OrderCancelled {
			for _, it := range o.Items {
				if _, err := tx.Fresh().Model(&models.Product{}).Where("id = ?", it.ProductID).
					Update("stock_quantity", gorm.Expr("stock_quantity + ?", it.Quantity)); err != nil {
					return err
				}
			}
		}
		Audit(ctx, tx, actor, "order.status_changed", "Order", id,
			map[string]any{"from": from, "to": status, "orderNumber": o.OrderNumber})
		return nil
	})
	if err != nil {
		return nil, apperr.FromDB(err, "Order not found")
	}

	o.Status = status
	changed := o
	event.FireAsync(ctx, events.OrderStatusChanged, OrderStatusChange{Order: &changed, From: from})
	return &o, nil
}

// shippingAddress resolves the chosen address, or the caller's default.
func (s *OrderService) shippingAddress(ctx context.Context, userID uint, id *uint) (*models.Address, error) {
	var a models.Address
	q := orm.WithContext(ctx).Where("user_id = ?", userID)
	if id != nil {
		q = q.Where("id = ?", *id)
	} else {
		q = q.Where("is_default = ?", true)
	}
	if err := q.First(&a); err != nil {
		if isMissing(err) {
			return nil, apperr.BadRequest("A shipping address is required")
		}
		return nil, apperr.FromDB(err, "")
	}
	return &a, nil
}

// shippingFee reads the flat "shipping_fee" setting; missing or malformed
// values mean free shipping.
func (s *OrderService) shippingFee(ctx context.Context) decimal.Decimal {
	raw, ok := s.settings.Value(ctx, "shipping_fee")
	if !ok {
		return decimal.Zero
	}
	fee, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil || fee.IsNegative() {
		return decimal.Zero
	}
	return fee.Round(2)
}

func newOrderNumber(now time.Time) string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return "TW-" + now.UTC().Format("20060102") + "-" + id[:10]
}
