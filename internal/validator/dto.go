package validator

import "github.com/SAP-F-2025/jobboard-service/internal/models"

// RegisterRequest is the self-registration form. Company fields are only
// read when Role resolves to Employer.
type RegisterRequest struct {
	Email       string  `form:"email" json:"email" validate:"required,email,max=255"`
	Username    string  `form:"username" json:"username" validate:"required,max=100"`
	Password    string  `form:"password" json:"password" validate:"required,min=6,max=72"`
	Role        string  `form:"role" json:"role"`
	CompanyName *string `form:"company_name" json:"company_name" validate:"omitempty,max=200"`
	Description *string `form:"description" json:"description" validate:"omitempty,max=4000"`
	ContactInfo *string `form:"contact_info" json:"contact_info" validate:"omitempty,max=500"`
}

type LoginRequest struct {
	Email      string `form:"email" json:"email" validate:"required,email"`
	Password   string `form:"password" json:"password" validate:"required"`
	RememberMe bool   `form:"remember_me" json:"remember_me"`
}

type AdminRegisterRequest struct {
	Email    string `form:"email" json:"email" validate:"required,email,max=255"`
	Username string `form:"username" json:"username" validate:"required,max=100"`
	Password string `form:"password" json:"password" validate:"required,min=6,max=72"`
}

// JobRequest backs both job creation and editing. ID is only compared
// against the path id on edit; EmployerProfileID is only read for admins.
type JobRequest struct {
	ID                *uint          `form:"id" json:"id"`
	Title             string         `form:"title" json:"title" validate:"required,max=200"`
	Description       string         `form:"description" json:"description" validate:"required"`
	Location          string         `form:"location" json:"location" validate:"required,max=200"`
	Salary            string         `form:"salary" json:"salary" validate:"required,max=100"`
	Company           string         `form:"company" json:"company" validate:"required,max=200"`
	Type              models.JobType `form:"type" json:"type" validate:"required,job_type"`
	CustomType        *string        `form:"custom_type" json:"custom_type" validate:"omitempty,max=100"`
	EmployerProfileID *uint          `form:"employer_profile_id" json:"employer_profile_id"`
}

type ProfileUpdateRequest struct {
	CompanyName *string `form:"company_name" json:"company_name" validate:"omitempty,min=1,max=200"`
	Description *string `form:"description" json:"description" validate:"omitempty,max=4000"`
	ContactInfo *string `form:"contact_info" json:"contact_info" validate:"omitempty,max=500"`
}

type ApplyRequest struct {
	JobID uint `form:"job_id" json:"job_id" validate:"required"`
}

type ReviewRequest struct {
	ApplicationID uint                     `form:"application_id" json:"application_id" validate:"required"`
	Status        models.ApplicationStatus `form:"status" json:"status" validate:"required,application_status"`
}
