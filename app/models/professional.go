package models

type ProfessionalType struct {
	Base
	Name        string `gorm:"size:120;uniqueIndex;not null" json:"name"`
	Description string `gorm:"type:text"                     json:"description,omitempty"`
	IsActive    bool   `gorm:"not null"         json:"isActive"`
}

type ProfessionalProfile struct {
	Base
	UserID             uint              `gorm:"not null;uniqueIndex" json:"userId"`
	User               *User             `json:"user,omitempty"`
	ProfessionalTypeID uint              `gorm:"not null;index"       json:"professionalTypeId"`
	ProfessionalType   *ProfessionalType `json:"professionalType,omitempty"`
	BusinessName       string            `gorm:"size:160;not null"    json:"businessName"`
	Bio                string            `gorm:"type:text"            json:"bio,omitempty"`
	Location           string            `gorm:"size:160"             json:"location,omitempty"`
	ExperienceYears    int               `gorm:"not null;default:0"   json:"experienceYears"`
	Portfolio          StringList        `gorm:"type:text"            json:"portfolio"`
	IsVerified         bool              `gorm:"not null;default:false;index" json:"isVerified"`

	AverageRating float64 `gorm:"-" json:"averageRating"`
	ReviewCount   int64   `gorm:"-" json:"reviewCount"`
}
