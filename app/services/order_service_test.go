package services

import (
	"net/http"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PascalSeth/trendiwear/app/models"
	"github.com/PascalSeth/trendiwear/pkg/auth"
)

func TestCanMoveOrder(t *testing.T) {
	assert.True(t, CanMoveOrder(models.OrderPending, models.OrderProcessing))
	assert.True(t, CanMoveOrder(models.OrderProcessing, models.OrderCancelled))
	assert.True(t, CanMoveOrder(models.OrderShipped, models.OrderDelivered))
	assert.False(t, CanMoveOrder(models.OrderShipped, models.OrderCancelled))
	assert.False(t, CanMoveOrder(models.OrderDelivered, models.OrderPending))
	assert.False(t, CanMoveOrder(models.OrderCancelled, models.OrderProcessing))
}

func TestCheckoutSnapshotsAndDecrementsStock(t *testing.T) {
	db := newDB(t)
	_, prof := makeProfessional(t, db)
	dress := makeProduct(t, db, prof, "150.00", 5)
	scarf := makeProduct(t, db, prof, "25.50", 10)
	u := makeUser(t, db, auth.RoleCustomer)
	makeAddress(t, db, u.ID, true)
	require.NoError(t, db.Create(&models.SystemSetting{Key: "shipping_fee", Value: "10"}).Error)

	cart := NewCartService()
	_, err := cart.Add(bg, as(u), AddToCartInput{ProductID: dress.ID, Quantity: 2, Size: "M"})
	require.NoError(t, err)
	_, err = cart.Add(bg, as(u), AddToCartInput{ProductID: scarf.ID, Quantity: 1})
	require.NoError(t, err)

	o, err := NewOrderService().Checkout(bg, as(u), CheckoutInput{})
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^TW-\d{8}-[0-9A-F]{10}$`), o.OrderNumber)
	assert.Equal(t, models.OrderPending, o.Status)
	assert.Equal(t, "325.5", o.Subtotal.String())
	assert.Equal(t, "10", o.ShippingFee.String())
	assert.Equal(t, "335.5", o.Total.String())
	require.Len(t, o.Items, 2)
	assert.Equal(t, dress.Name, o.Items[0].ProductName)
	assert.Contains(t, o.ShippingAddress, "Accra")

	assert.Equal(t, 3, stockOf(t, db, dress.ID))
	assert.Equal(t, 9, stockOf(t, db, scarf.ID))

	var left int64
	db.Model(&models.CartItem{}).Where("user_id = ?", u.ID).Count(&left)
	assert.Zero(t, left)
}

func TestCheckoutInsufficientStockRollsBack(t *testing.T) {
	db := newDB(t)
	_, prof := makeProfessional(t, db)
	a := makeProduct(t, db, prof, "40.00", 5)
	b := makeProduct(t, db, prof, "60.00", 2)
	u := makeUser(t, db, auth.RoleCustomer)
	makeAddress(t, db, u.ID, true)

	cart := NewCartService()
	_, err := cart.Add(bg, as(u), AddToCartInput{ProductID: a.ID, Quantity: 3})
	require.NoError(t, err)
	_, err = cart.Add(bg, as(u), AddToCartInput{ProductID: b.ID, Quantity: 2})
	require.NoError(t, err)

	// stock sold elsewhere after the item was carted
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", b.ID).Update("stock_quantity", 1).Error)

	_, err = NewOrderService().Checkout(bg, as(u), CheckoutInput{})
	requireStatus(t, err, http.StatusBadRequest)
	assert.Contains(t, err.Error(), "Insufficient stock for "+b.Name)

	assert.Equal(t, 5, stockOf(t, db, a.ID))
	assert.Equal(t, 1, stockOf(t, db, b.ID))
	var orders, lines int64
	db.Model(&models.Order{}).Count(&orders)
	db.Model(&models.CartItem{}).Where("user_id = ?", u.ID).Count(&lines)
	assert.Zero(t, orders)
	assert.Equal(t, int64(2), lines)
}

func TestCheckoutRequiresCartAndAddress(t *testing.T) {
	db := newDB(t)
	u := makeUser(t, db, auth.RoleCustomer)
	svc := NewOrderService()

	_, err := svc.Checkout(bg, as(u), CheckoutInput{})
	requireStatus(t, err, http.StatusBadRequest)
	assert.Contains(t, err.Error(), "shipping address")

	makeAddress(t, db, u.ID, true)
	_, err = svc.Checkout(bg, as(u), CheckoutInput{})
	requireStatus(t, err, http.StatusBadRequest)
	assert.Contains(t, err.Error(), "Cart is empty")
}

func TestCustomerCancelRestoresStock(t *testing.T) {
	db := newDB(t)
	_, prof := makeProfessional(t, db)
	p := makeProduct(t, db, prof, "99.00", 4)
	u := makeUser(t, db, auth.RoleCustomer)
	other := makeUser(t, db, auth.RoleCustomer)
	makeAddress(t, db, u.ID, true)

	_, err := NewCartService().Add(bg, as(u), AddToCartInput{ProductID: p.ID, Quantity: 3})
	require.NoError(t, err)
	svc := NewOrderService()
	o, err := svc.Checkout(bg, as(u), CheckoutInput{})
	require.NoError(t, err)
	assert.Equal(t, 1, stockOf(t, db, p.ID))

	_, err = svc.UpdateStatus(bg, as(other), o.ID, models.OrderCancelled)
	requireStatus(t, err, http.StatusForbidden)
	_, err = svc.UpdateStatus(bg, as(u), o.ID, models.OrderProcessing)
	requireStatus(t, err, http.StatusForbidden)

	cancelled, err := svc.UpdateStatus(bg, as(u), o.ID, models.OrderCancelled)
	require.NoError(t, err)
	assert.Equal(t, models.OrderCancelled, cancelled.Status)
	assert.Equal(t, 4, stockOf(t, db, p.ID))
}

func TestAdminOrderTransitionsAreAudited(t *testing.T) {
	db := newDB(t)
	_, prof := makeProfessional(t, db)
	p := makeProduct(t, db, prof, "99.00", 4)
	u := makeUser(t, db, auth.RoleCustomer)
	admin := makeUser(t, db, auth.RoleAdmin)
	makeAddress(t, db, u.ID, true)

	_, err := NewCartService().Add(bg, as(u), AddToCartInput{ProductID: p.ID, Quantity: 1})
	require.NoError(t, err)
	svc := NewOrderService()
	o, err := svc.Checkout(bg, as(u), CheckoutInput{})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(bg, as(admin), o.ID, models.OrderDelivered)
	requireStatus(t, err, http.StatusBadRequest)

	for _, next := range []string{models.OrderProcessing, models.OrderShipped, models.OrderDelivered} {
		_, err = svc.UpdateStatus(bg, as(admin), o.ID, next)
		require.NoError(t, err)
	}

	var n int64
	db.Model(&models.AuditLog{}).Where("action = ? AND entity_id = ?", "order.status_changed", o.ID).Count(&n)
	assert.Equal(t, int64(3), n)
}

func TestOrdersAreScopedToOwner(t *testing.T) {
	db := newDB(t)
	u := makeUser(t, db, auth.RoleCustomer)
	other := makeUser(t, db, auth.RoleCustomer)
	admin := makeUser(t, db, auth.RoleAdmin)
	o := models.Order{OrderNumber: "TW-20260101-AAAAAAAAAA", UserID: u.ID, Status: models.OrderPending}
	require.NoError(t, db.Create(&o).Error)
	svc := NewOrderService()

	_, err := svc.Find(bg, as(other), o.ID)
	requireStatus(t, err, http.StatusNotFound)

	mine, _, err := svc.List(bg, as(other), OrderFilter{}, Page{})
	require.NoError(t, err)
	assert.Empty(t, mine)

	all, pg, err := svc.List(bg, as(admin), OrderFilter{}, Page{})
	require.NoError(t, err)
	assert.Len(t, all, 1)
	assert.Equal(t, int64(1), pg.Total)
}
