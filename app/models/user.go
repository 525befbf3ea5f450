package models

import "github.com/PascalSeth/trendiwear/pkg/auth"

type User struct {
	Base
	Name      string `gorm:"size:120;not null"             json:"name"`
	Email     string `gorm:"size:191;uniqueIndex;not null" json:"email"`
	Password  string `gorm:"size:255;not null"             json:"-"`
	Role      string `gorm:"size:20;not null;default:CUSTOMER;index" json:"role"`
	Phone     string `gorm:"size:40"                       json:"phone,omitempty"`
	AvatarURL string `gorm:"size:500"                      json:"avatarUrl,omitempty"`
	IsActive  bool   `gorm:"not null"         json:"isActive"`

	ProfessionalProfile *ProfessionalProfile `gorm:"foreignKey:UserID" json:"professionalProfile,omitempty"`
}

func (u User) Principal() auth.Principal {
	return auth.Principal{UserID: u.ID, Role: u.Role}
}

type Address struct {
	Base
	UserID     uint   `gorm:"not null;index"    json:"userId"`
	Label      string `gorm:"size:60"           json:"label,omitempty"`
	FullName   string `gorm:"size:120;not null" json:"fullName"`
	Phone      string `gorm:"size:40;not null"  json:"phone"`
	Street     string `gorm:"size:255;not null" json:"street"`
	City       string `gorm:"size:120;not null" json:"city"`
	Region     string `gorm:"size:120"          json:"region,omitempty"`
	PostalCode string `gorm:"size:20"           json:"postalCode,omitempty"`
	Country    string `gorm:"size:80;not null"  json:"country"`
	IsDefault  bool   `gorm:"not null;default:false" json:"isDefault"`
}

// OneLine renders the address for an order snapshot.
func (a Address) OneLine() string {
	s := a.FullName + ", " + a.Street + ", " + a.City
	if a.Region != "" {
		s += ", " + a.Region
	}
	if a.PostalCode != "" {
		s += " " + a.PostalCode
	}
	return s + ", " + a.Country + " (" + a.Phone + ")"
}
