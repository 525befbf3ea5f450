package services

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PascalSeth/trendiwear/app/models"
	"github.com/PascalSeth/trendiwear/pkg/auth"
)

func TestProfessionalTypeDeleteGuard(t *testing.T) {
	db := newDB(t)
	admin := makeUser(t, db, auth.RoleAdmin)
	_, prof := makeProfessional(t, db)
	types := NewProfessionalTypeService()

	err := types.Delete(bg, as(admin), prof.ProfessionalTypeID)
	requireStatus(t, err, http.StatusBadRequest)
	assert.Contains(t, err.Error(), "existing professionals")
	var n int64
	require.NoError(t, db.Model(&models.ProfessionalType{}).Where("id = ?", prof.ProfessionalTypeID).Count(&n).Error)
	assert.EqualValues(t, 1, n)

	unused := models.ProfessionalType{Name: "Stylist", IsActive: true}
	require.NoError(t, db.Create(&unused).Error)
	require.NoError(t, types.Delete(bg, as(admin), unused.ID))
	requireStatus(t, types.Delete(bg, as(admin), unused.ID), http.StatusNotFound)
}

func TestServiceCategoryDeleteGuard(t *testing.T) {
	db := newDB(t)
	admin := makeUser(t, db, auth.RoleAdmin)
	_, prof := makeProfessional(t, db)
	svc := makeService(t, db, prof, true)
	cats := NewServiceCategoryService()

	err := cats.Delete(bg, as(admin), svc.ServiceCategoryID)
	requireStatus(t, err, http.StatusBadRequest)
	assert.Contains(t, err.Error(), "existing services")
	var n int64
	require.NoError(t, db.Model(&models.ServiceCategory{}).Where("id = ?", svc.ServiceCategoryID).Count(&n).Error)
	assert.EqualValues(t, 1, n)

	empty := models.ServiceCategory{Name: "Styling", IsActive: true}
	require.NoError(t, db.Create(&empty).Error)
	require.NoError(t, cats.Delete(bg, as(admin), empty.ID))
}

func TestOfferingDeleteGuard(t *testing.T) {
	db := newDB(t)
	proUser, prof := makeProfessional(t, db)
	otherPro, _ := makeProfessional(t, db)
	customer := makeUser(t, db, auth.RoleCustomer)
	booked := makeService(t, db, prof, true)
	free := makeService(t, db, prof, true)
	require.NoError(t, db.Create(&models.Booking{
		CustomerID: customer.ID, ServiceID: booked.ID, ProfessionalID: prof.ID,
		ScheduledAt: time.Now().Add(48 * time.Hour), Status: models.BookingPending, Price: booked.Price,
	}).Error)
	offerings := NewOfferingService()

	err := offerings.Delete(bg, as(proUser), booked.ID)
	requireStatus(t, err, http.StatusBadRequest)
	assert.Contains(t, err.Error(), "existing bookings")
	var n int64
	require.NoError(t, db.Model(&models.Service{}).Where("id = ?", booked.ID).Count(&n).Error)
	assert.EqualValues(t, 1, n)

	requireStatus(t, offerings.Delete(bg, as(otherPro), free.ID), http.StatusForbidden)
	require.NoError(t, offerings.Delete(bg, as(proUser), free.ID))
	requireStatus(t, offerings.Delete(bg, as(proUser), free.ID), http.StatusNotFound)
}
