package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	BookingPending   = "PENDING"
	BookingConfirmed = "CONFIRMED"
	BookingCompleted = "COMPLETED"
	BookingCancelled = "CANCELLED"
)

const (
	OrderPending    = "PENDING"
	OrderProcessing = "PROCESSING"
	OrderShipped    = "SHIPPED"
	OrderDelivered  = "DELIVERED"
	OrderCancelled  = "CANCELLED"
)

type ServiceCategory struct {
	Base
	Name        string `gorm:"size:120;uniqueIndex;not null" json:"name"`
	Description string `gorm:"type:text"                     json:"description,omitempty"`
	IsActive    bool   `gorm:"not null"         json:"isActive"`
}

type Service struct {
	Base
	ProfessionalID    uint                 `gorm:"not null;index"              json:"professionalId"`
	Professional      *ProfessionalProfile `json:"professional,omitempty"`
	ServiceCategoryID uint                 `gorm:"not null;index"              json:"serviceCategoryId"`
	ServiceCategory   *ServiceCategory     `json:"serviceCategory,omitempty"`
	Name              string               `gorm:"size:160;not null"           json:"name"`
	Description       string               `gorm:"type:text"                   json:"description,omitempty"`
	Price             decimal.Decimal      `gorm:"type:decimal(12,2);not null" json:"price"`
	DurationMinutes   int                  `gorm:"not null;default:60"         json:"durationMinutes"`
	IsActive          bool                 `gorm:"not null"       json:"isActive"`
}

type Booking struct {
	Base
	CustomerID     uint            `gorm:"not null;index"                        json:"customerId"`
	Customer       *User           `json:"customer,omitempty"`
	ServiceID      uint            `gorm:"not null;index"                        json:"serviceId"`
	Service        *Service        `json:"service,omitempty"`
	ProfessionalID uint            `gorm:"not null;index"                        json:"professionalId"`
	ScheduledAt    time.Time       `gorm:"not null;index"                        json:"scheduledAt"`
	Status         string          `gorm:"size:20;not null;default:PENDING;index" json:"status"`
	Price          decimal.Decimal `gorm:"type:decimal(12,2);not null"           json:"price"`
	Notes          string          `gorm:"type:text"                             json:"notes,omitempty"`
}

type CartItem struct {
	Base
	UserID    uint     `gorm:"not null;uniqueIndex:idx_cart_line"         json:"userId"`
	ProductID uint     `gorm:"not null;uniqueIndex:idx_cart_line"         json:"productId"`
	Product   *Product `json:"product,omitempty"`
	Quantity  int      `gorm:"not null"                                   json:"quantity"`
	Size      string   `gorm:"size:20;not null;default:'';uniqueIndex:idx_cart_line" json:"size"`
	Color     string   `gorm:"size:40;not null;default:'';uniqueIndex:idx_cart_line" json:"color"`
}

type Order struct {
	Base
	OrderNumber     string          `gorm:"size:40;uniqueIndex;not null"            json:"orderNumber"`
	UserID          uint            `gorm:"not null;index"                          json:"userId"`
	User            *User           `json:"user,omitempty"`
	AddressID       *uint           `json:"addressId"`
	ShippingAddress string          `gorm:"size:600"                                json:"shippingAddress"`
	Status          string          `gorm:"size:20;not null;default:PENDING;index"  json:"status"`
	Subtotal        decimal.Decimal `gorm:"type:decimal(12,2);not null"             json:"subtotal"`
	ShippingFee     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"   json:"shippingFee"`
	Total           decimal.Decimal `gorm:"type:decimal(12,2);not null"             json:"total"`
	Items           []OrderItem     `gorm:"constraint:OnDelete:CASCADE"             json:"items,omitempty"`
}

type OrderItem struct {
	Base
	OrderID     uint            `gorm:"not null;index"              json:"orderId"`
	ProductID   uint            `gorm:"not null;index"              json:"productId"`
	ProductName string          `gorm:"size:200;not null"           json:"productName"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	Quantity    int             `gorm:"not null"                    json:"quantity"`
	Size        string          `gorm:"size:20"                     json:"size,omitempty"`
	Color       string          `gorm:"size:40"                     json:"color,omitempty"`
	Subtotal    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"subtotal"`
}
