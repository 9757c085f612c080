package models

import (
	"strings"
	"time"
)

// JobType is one of the standard posting types, or free text when the
// poster picked JobTypeOther and supplied their own label.
type JobType string

const (
	JobTypeFullTime JobType = "Full-Time"
	JobTypePartTime JobType = "Part-Time"
	JobTypeRemote   JobType = "Remote"
	JobTypeOnSite   JobType = "On-Site"
	JobTypeContract JobType = "Contract"
	JobTypeOther    JobType = "Other"
)

// StandardJobTypes is the vocabulary offered by the job forms, in display order.
var StandardJobTypes = []JobType{
	JobTypeFullTime,
	JobTypePartTime,
	JobTypeRemote,
	JobTypeOnSite,
	JobTypeContract,
	JobTypeOther,
}

func (t JobType) IsStandard() bool {
	for _, s := range StandardJobTypes {
		if t == s {
			return true
		}
	}
	return false
}

// ResolveJobType returns the type to store: a non-blank custom label replaces
// JobTypeOther, every other selection is kept as is.
func ResolveJobType(selected JobType, custom *string) JobType {
	if selected == JobTypeOther && custom != nil {
		if c := strings.TrimSpace(*custom); c != "" {
			return JobType(c)
		}
	}
	return selected
}

type Job struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	Title          string    `json:"title" gorm:"not null;size:200;index"`
	Description    string    `json:"description" gorm:"not null;type:text"`
	Location       string    `json:"location" gorm:"not null;size:200"`
	Salary         string    `json:"salary" gorm:"not null;size:100"`
	Company        string    `json:"company" gorm:"not null;size:200"`
	CompanyLogoURL string    `json:"company_logo_url" gorm:"size:500"`
	Type           JobType   `json:"type" gorm:"not null;size:100"`
	PostedDate     time.Time `json:"posted_date" gorm:"not null;index"`
	IsApproved     bool      `json:"is_approved" gorm:"not null;default:false;index"`

	EmployerProfileID *uint            `json:"employer_profile_id" gorm:"index"`
	Employer          *EmployerProfile `json:"employer,omitempty" gorm:"foreignKey:EmployerProfileID"`

	// Relations
	Applications []Application `json:"applications,omitempty" gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE"`
}

func (Job) TableName() string {
	return "jobs"
}

// OwnedBy reports whether the job belongs to the given employer profile.
func (j *Job) OwnedBy(profileID uint) bool {
	return j.EmployerProfileID != nil && *j.EmployerProfileID == profileID
}
