package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/jobboard-service/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

type JobFilters struct {
	IsApproved        *bool `json:"is_approved"`
	EmployerProfileID *uint `json:"employer_profile_id"`
	Limit             int   `json:"limit"`
	Offset            int   `json:"offset"`
}

type ApplicationFilters struct {
	UserID            *uint                     `json:"user_id"`
	JobID             *uint                     `json:"job_id"`
	EmployerProfileID *uint                     `json:"employer_profile_id"`
	Status            *models.ApplicationStatus `json:"status"`
	Limit             int                       `json:"limit"`
	Offset            int                       `json:"offset"`
}

// ===== REPOSITORY INTERFACES =====

type EmployerProfileRepository interface {
	Create(ctx context.Context, tx *gorm.DB, profile *models.EmployerProfile) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.EmployerProfile, error)
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uint) (*models.EmployerProfile, error)
	Update(ctx context.Context, tx *gorm.DB, profile *models.EmployerProfile) error
	List(ctx context.Context, tx *gorm.DB) ([]*models.EmployerProfile, error)
}

// JobRepository lists are ordered by posted date, newest first. A zero
// Limit means no limit.
type JobRepository interface {
	Create(ctx context.Context, tx *gorm.DB, job *models.Job) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Job, error)
	// UpdateDetails writes only title, description, location, salary and type
	UpdateDetails(ctx context.Context, tx *gorm.DB, job *models.Job) error
	Approve(ctx context.Context, tx *gorm.DB, id uint) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error

	List(ctx context.Context, tx *gorm.DB, filters JobFilters) ([]*models.Job, int64, error)
}

// ApplicationRepository lists are ordered by applied date, newest first, with
// the job, its employer and the applicant preloaded.
type ApplicationRepository interface {
	Create(ctx context.Context, tx *gorm.DB, application *models.Application) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Application, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, id uint, status models.ApplicationStatus) error
	SetCVFileName(ctx context.Context, tx *gorm.DB, id uint, fileName string) error

	List(ctx context.Context, tx *gorm.DB, filters ApplicationFilters) ([]*models.Application, int64, error)
}
