package seeders

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/PascalSeth/trendiwear/app/models"
	"github.com/PascalSeth/trendiwear/config"
	"github.com/PascalSeth/trendiwear/pkg/auth"
)

func init() {
	Register("super_admin", SuperAdmin)
	Register("professional_types", ProfessionalTypes)
	Register("service_categories", ServiceCategories)
	Register("categories", Categories)
	Register("system_settings", Settings)
}

// SuperAdmin creates the account named by SEED_ADMIN_EMAIL. The password
// must be supplied; an existing account is left untouched.
func SuperAdmin(db *gorm.DB) error {
	email := strings.ToLower(config.Get("SEED_ADMIN_EMAIL", "admin@trendiwear.local"))
	var n int64
	if err := db.Model(&models.User{}).Where("email = ?", email).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	pass := config.Get("SEED_ADMIN_PASSWORD", "")
	if len(pass) < 8 {
		return errors.New("SEED_ADMIN_PASSWORD must be at least 8 characters")
	}
	hash, err := auth.HashPassword(pass)
	if err != nil {
		return err
	}
	return db.Create(&models.User{
		Name:     "Super Admin",
		Email:    email,
		Password: hash,
		Role:     auth.RoleSuperAdmin,
		IsActive: true,
	}).Error
}

func ProfessionalTypes(db *gorm.DB) error {
	for name, desc := range map[string]string{
		"Fashion Designer": "Designs and produces original garments",
		"Tailor":           "Alterations and made-to-measure clothing",
		"Stylist":          "Personal and editorial styling",
		"Makeup Artist":    "Bridal, editorial and event makeup",
		"Boutique":         "Curated retail of designer pieces",
	} {
		row := models.ProfessionalType{Name: name}
		if err := db.Where("name = ?", name).
			Attrs(models.ProfessionalType{Description: desc, IsActive: true}).
			FirstOrCreate(&row).Error; err != nil {
			return err
		}
	}
	return nil
}

func ServiceCategories(db *gorm.DB) error {
	for name, desc := range map[string]string{
		"Alterations":      "Hemming, resizing and repairs",
		"Custom Tailoring": "Garments made to measure",
		"Styling Session":  "One-to-one wardrobe consultation",
		"Makeup":           "Makeup for events and shoots",
	} {
		row := models.ServiceCategory{Name: name}
		if err := db.Where("name = ?", name).
			Attrs(models.ServiceCategory{Description: desc, IsActive: true}).
			FirstOrCreate(&row).Error; err != nil {
			return err
		}
	}
	return nil
}

func Categories(db *gorm.DB) error {
	for slug, name := range map[string]string{
		"women":       "Women",
		"men":         "Men",
		"kids":        "Kids",
		"accessories": "Accessories",
		"footwear":    "Footwear",
	} {
		row := models.Category{Slug: slug}
		if err := db.Where("slug = ?", slug).
			Attrs(models.Category{Name: name, IsActive: true}).
			FirstOrCreate(&row).Error; err != nil {
			return err
		}
	}
	return nil
}

// Settings inserts defaults without overwriting values an admin changed.
func Settings(db *gorm.DB) error {
	defaults := []models.SystemSetting{
		{Key: "site_name", Value: "TrendiWear", Description: "Storefront display name", IsPublic: true},
		{Key: "currency", Value: "GHS", Description: "Display currency code", IsPublic: true},
		{Key: "shipping_fee", Value: "0.00", Description: "Flat shipping fee added at checkout", IsPublic: true},
		{Key: "support_email", Value: "support@trendiwear.local", Description: "Customer support address", IsPublic: true},
		{Key: "audit_retention_days", Value: "180", Description: "Days of audit history kept"},
	}
	for _, s := range defaults {
		var n int64
		if err := db.Model(&models.SystemSetting{}).Where(map[string]any{"key": s.Key}).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			continue
		}
		row := s
		if err := db.Create(&row).Error; err != nil {
			return err
		}
	}
	return nil
}
