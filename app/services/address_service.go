package services

import (
	"context"

	"github.com/PascalSeth/trendiwear/app/models"
	"github.com/PascalSeth/trendiwear/pkg/apperr"
	"github.com/PascalSeth/trendiwear/pkg/auth"
	"github.com/PascalSeth/trendiwear/pkg/orm"
)

type AddressService struct{}

func NewAddressService() *AddressService { return &AddressService{} }

type AddressInput struct {
	Label      string `json:"label"      validate:"nullable,max=60"`
	FullName   string `json:"fullName"   validate:"required,max=120"`
	Phone      string `json:"phone"      validate:"required,phone"`
	Street     string `json:"street"     validate:"required,max=255"`
	City       string `json:"city"       validate:"required,max=120"`
	Region     string `json:"region"     validate:"nullable,max=120"`
	PostalCode string `json:"postalCode" validate:"nullable,max=20"`
	Country    string `json:"country"    validate:"required,max=80"`
	IsDefault  bool   `json:"isDefault"`
}

func (in AddressInput) apply(a *models.Address) {
	a.Label = in.Label
	a.FullName = in.FullName
	a.Phone = in.Phone
	a.Street = in.Street
	a.City = in.City
	a.Region = in.Region
	a.PostalCode = in.PostalCode
	a.Country = in.Country
}

func (s *AddressService) List(ctx context.Context, actor auth.Principal) ([]models.Address, error) {
	var out []models.Address
	err := orm.WithContext(ctx).Where("user_id = ?", actor.UserID).
		Order("is_default DESC, created_at DESC").
		Get(&out)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return out, nil
}

// Create stores a new address. The user's first address is always the
// default.
func (s *AddressService) Create(ctx context.Context, actor auth.Principal, in AddressInput) (*models.Address, error) {
	a := models.Address{UserID: actor.UserID}
	in.apply(&a)

	err := orm.Transaction(ctx, func(tx *orm.Query) error {
		var existing []models.Address
		if err := lockAddresses(tx, actor.UserID, &existing); err != nil {
			return err
		}
		a.IsDefault = in.IsDefault || len(existing) == 0
		if a.IsDefault {
			if err := clearDefault(tx, actor.UserID); err != nil {
				return err
			}
		}
		return tx.Fresh().Create(&a)
	})
	if err != nil {
		return nil, apperr.FromDB(err, "")
	}
	return &a, nil
}

// Update edits the address. isDefault=true moves the default here;
// unsetting the only default is ignored so the user keeps one.
func (s *AddressService) Update(ctx context.Context, actor auth.Principal, id uint, in AddressInput) (*models.Address, error) {
	var a models.Address
	err := orm.Transaction(ctx, func(tx *orm.Query) error {
		var mine []models.Address
		if err := lockAddresses(tx, actor.UserID, &mine); err != nil {
			return err
		}
		found := false
		for _, m := range mine {
			if m.ID == id {
				a, found = m, true
				break
			}
		}
		if !found {
			return apperr.NotFound("Address not found")
		}

		in.apply(&a)
		if in.IsDefault && !a.IsDefault {
			if err := clearDefault(tx, actor.UserID); err != nil {
				return err
			}
			a.IsDefault = true
		}
		return tx.Fresh().Save(&a)
	})
	if err != nil {
		return nil, apperr.FromDB(err, "Address not found")
	}
	return &a, nil
}

func (s *AddressService) SetDefault(ctx context.Context, actor auth.Principal, id uint) (*models.Address, error) {
	var a models.Address
	err := orm.Transaction(ctx, func(tx *orm.Query) error {
		var mine []models.Address
		if err := lockAddresses(tx, actor.UserID, &mine); err != nil {
			return err
		}
		for _, m := range mine {
			if m.ID == id {
				a = m
			}
		}
		if a.ID == 0 {
			return apperr.NotFound("Address not found")
		}
		if err := clearDefault(tx, actor.UserID); err != nil {
			return err
		}
		a.IsDefault = true
		_, err := tx.Fresh().Model(&models.Address{}).Where("id = ?", id).Update("is_default", true)
		return err
	})
	if err != nil {
		return nil, apperr.FromDB(err, "Address not found")
	}
	return &a, nil
}

// Delete removes the address. When it was the default, the most recently
// created remaining address takes over.
func (s *AddressService) Delete(ctx context.Context, actor auth.Principal, id uint) error {
	return apperr.FromDB(orm.Transaction(ctx, func(tx *orm.Query) error {
		var mine []models.Address
		if err := lockAddresses(tx, actor.UserID, &mine); err != nil {
			return err
		}
		var target *models.Address
		var next *models.Address
		for i := range mine {
			m := &mine[i]
			if m.ID == id {
				target = m
				continue
			}
			if next == nil || m.CreatedAt.After(next.CreatedAt) ||
				(m.CreatedAt.Equal(next.CreatedAt) && m.ID > next.ID) {
				next = m
			}
		}
		if target == nil {
			return apperr.NotFound("Address not found")
		}

		if _, err := tx.Fresh().Delete(&models.Address{}, id); err != nil {
			return err
		}
		if target.IsDefault && next != nil {
			_, err := tx.Fresh().Model(&models.Address{}).Where("id = ?", next.ID).Update("is_default", true)
			return err
		}
		return nil
	}), "Address not found")
}

// lockAddresses reads every address of userID with row locks held until
// the transaction ends.
func lockAddresses(tx *orm.Query, userID uint, dest *[]models.Address) error {
	return tx.Fresh().Where("user_id = ?", userID).ForUpdate().Get(dest)
}

func clearDefault(tx *orm.Query, userID uint) error {
	_, err := tx.Fresh().Model(&models.Address{}).
		Where("user_id = ? AND is_default = ?", userID, true).
		Update("is_default", false)
	return err
}
