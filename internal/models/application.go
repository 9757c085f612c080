package models

import "time"

// ApplicationStatus is an open set of review outcomes. Pending is the only
// initial value; reviewers may set any non-blank status at any time.
type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "Pending"
	ApplicationAccepted ApplicationStatus = "Accepted"
	ApplicationApproved ApplicationStatus = "Approved"
	ApplicationRejected ApplicationStatus = "Rejected"
)

type Application struct {
	ID uint `json:"id" gorm:"primaryKey"`

	JobID uint `json:"job_id" gorm:"not null;uniqueIndex:idx_applications_job_user"`
	Job   *Job `json:"job,omitempty" gorm:"foreignKey:JobID"`

	UserID uint  `json:"user_id" gorm:"not null;uniqueIndex:idx_applications_job_user;index"`
	User   *User `json:"user,omitempty" gorm:"foreignKey:UserID"`

	Status      ApplicationStatus `json:"status" gorm:"not null;size:50;default:Pending;index"`
	AppliedDate time.Time         `json:"applied_date" gorm:"not null;index"`
	CVFileName  *string           `json:"cv_file_name" gorm:"size:255"`
}

func (Application) TableName() string {
	return "applications"
}

func (a *Application) HasCV() bool {
	return a.CVFileName != nil && *a.CVFileName != ""
}
