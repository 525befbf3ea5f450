package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Category struct {
	Base
	Name        string     `gorm:"size:120;not null"             json:"name"`
	Slug        string     `gorm:"size:160;uniqueIndex;not null" json:"slug"`
	Description string     `gorm:"type:text"                     json:"description,omitempty"`
	ImageURL    string     `gorm:"size:500"                      json:"imageUrl,omitempty"`
	ParentID    *uint      `gorm:"index"                         json:"parentId"`
	Parent      *Category  `json:"parent,omitempty"`
	Children    []Category `gorm:"foreignKey:ParentID"           json:"children,omitempty"`
	IsActive    bool       `gorm:"not null"         json:"isActive"`

	ProductCount int64 `gorm:"-" json:"productCount"`
}

type Collection struct {
	Base
	Name        string    `gorm:"size:160;not null"             json:"name"`
	Slug        string    `gorm:"size:191;uniqueIndex;not null" json:"slug"`
	Description string    `gorm:"type:text"                     json:"description,omitempty"`
	ImageURL    string    `gorm:"size:500"                      json:"imageUrl,omitempty"`
	Season      string    `gorm:"size:40;index"                 json:"season,omitempty"`
	IsFeatured  bool      `gorm:"not null;default:false;index"  json:"isFeatured"`
	IsActive    bool      `gorm:"not null"         json:"isActive"`
	Products    []Product `gorm:"many2many:collection_products" json:"products,omitempty"`
}

type Product struct {
	Base
	Name               string               `gorm:"size:200;not null;index"      json:"name"`
	Description        string               `gorm:"type:text"                    json:"description,omitempty"`
	Price              decimal.Decimal      `gorm:"type:decimal(12,2);not null"  json:"price"`
	StockQuantity      int                  `gorm:"not null;default:0"           json:"stockQuantity"`
	CategoryID         uint                 `gorm:"not null;index"               json:"categoryId"`
	Category           *Category            `json:"category,omitempty"`
	ProfessionalID     uint                 `gorm:"not null;index"               json:"professionalId"`
	Professional       *ProfessionalProfile `json:"professional,omitempty"`
	Images             StringList           `gorm:"type:text"                    json:"images"`
	Sizes              StringList           `gorm:"type:text"                    json:"sizes"`
	Colors             StringList           `gorm:"type:text"                    json:"colors"`
	IsActive           bool                 `gorm:"not null"        json:"isActive"`
	IsFeatured         bool                 `gorm:"not null;default:false"       json:"isFeatured"`
	IsShowcaseApproved bool                 `gorm:"not null;default:false;index" json:"isShowcaseApproved"`

	AverageRating float64 `gorm:"-" json:"averageRating"`
	ReviewCount   int64   `gorm:"-" json:"reviewCount"`
}

type Review struct {
	Base
	UserID         uint   `gorm:"not null;index" json:"userId"`
	User           *User  `json:"user,omitempty"`
	ProductID      *uint  `gorm:"index"          json:"productId"`
	ProfessionalID *uint  `gorm:"index"          json:"professionalId"`
	Rating         int    `gorm:"not null"       json:"rating"`
	Comment        string `gorm:"type:text"      json:"comment,omitempty"`
}

type Blog struct {
	Base
	AuthorID    uint       `gorm:"not null;index"                json:"authorId"`
	Author      *User      `json:"author,omitempty"`
	Title       string     `gorm:"size:200;not null"             json:"title"`
	Slug        string     `gorm:"size:191;uniqueIndex;not null" json:"slug"`
	Excerpt     string     `gorm:"size:500"                      json:"excerpt,omitempty"`
	Content     string     `gorm:"type:text;not null"            json:"content"`
	CoverImage  string     `gorm:"size:500"                      json:"coverImage,omitempty"`
	Tags        StringList `gorm:"type:text"                     json:"tags"`
	IsPublished bool       `gorm:"not null;default:false;index"  json:"isPublished"`
	PublishedAt *time.Time `json:"publishedAt"`
	Views       int64      `gorm:"not null;default:0"            json:"views"`
}
