// Package models holds the gorm models of the marketplace. Rows are hard
// deleted; JSON field names are camelCase.
package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

type Base struct {
	ID        uint      `gorm:"primaryKey"     json:"id"`
	CreatedAt time.Time `gorm:"index"          json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// StringList is stored as a JSON array in a text column.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	return string(b), err
}

func (l *StringList) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("models: cannot scan %T into StringList", src)
	}
	if len(raw) == 0 {
		*l = nil
		return nil
	}
	return json.Unmarshal(raw, (*[]string)(l))
}

// All lists every model in migration order.
func All() []any {
	return []any{
		&User{},
		&ProfessionalType{},
		&ProfessionalProfile{},
		&Category{},
		&Product{},
		&Collection{},
		&Review{},
		&ServiceCategory{},
		&Service{},
		&Booking{},
		&CartItem{},
		&Address{},
		&Order{},
		&OrderItem{},
		&Blog{},
		&ReportedContent{},
		&SystemSetting{},
		&AuditLog{},
	}
}
