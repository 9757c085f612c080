package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/jobboard-service/internal/models"
)

// DashboardRepository interface for admin analytics over jobs and applications
type DashboardRepository interface {
	// Overview counts
	CountUsersByRole(ctx context.Context, tx *gorm.DB) ([]RoleCountData, error)
	CountJobs(ctx context.Context, tx *gorm.DB) (total int64, approved int64, err error)
	CountApplications(ctx context.Context, tx *gorm.DB) (int64, error)

	// Entity created within [from, to); entity is "jobs" or "applications"
	CountCreatedBetween(ctx context.Context, tx *gorm.DB, entity string, from, to time.Time) (int64, error)

	// Status distribution over all applications
	GetStatusDistribution(ctx context.Context, tx *gorm.DB) ([]StatusDistributionData, error)

	// Most recent applications with job and applicant
	GetRecentApplications(ctx context.Context, tx *gorm.DB, limit int) ([]*models.Application, error)

	// Jobs ranked by application count
	GetTopJobs(ctx context.Context, tx *gorm.DB, limit int) ([]JobPopularityData, error)
}

// Data structures for dashboard responses

type RoleCountData struct {
	Role  models.UserRole `json:"role"`
	Count int64           `json:"count"`
}

type StatusDistributionData struct {
	Status models.ApplicationStatus `json:"status"`
	Count  int64                    `json:"count"`
}

type JobPopularityData struct {
	JobID        uint   `json:"job_id"`
	Title        string `json:"title"`
	Company      string `json:"company"`
	IsApproved   bool   `json:"is_approved"`
	Applications int64  `json:"applications" gorm:"column:application_count"`
}
