package models

import "time"

const DefaultLogoPath = "/images/default-logo.png"

type EmployerProfile struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	CompanyName string  `json:"company_name" gorm:"not null;size:200"`
	Description *string `json:"description" gorm:"type:text"`
	ContactInfo *string `json:"contact_info" gorm:"size:500"`
	Logo        string  `json:"logo" gorm:"size:500;default:/images/default-logo.png"`

	UserID uint  `json:"user_id" gorm:"not null;uniqueIndex"`
	User   *User `json:"-" gorm:"foreignKey:UserID"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Jobs []Job `json:"jobs,omitempty" gorm:"foreignKey:EmployerProfileID;constraint:OnDelete:CASCADE"`
}

func (EmployerProfile) TableName() string {
	return "employer_profiles"
}
