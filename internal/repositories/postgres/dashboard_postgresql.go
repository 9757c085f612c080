package postgres

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/jobboard-service/internal/models"
	"github.com/SAP-F-2025/jobboard-service/internal/repositories"
)

type dashboardRepository struct {
	db *gorm.DB
}

func NewDashboardRepository(db *gorm.DB) repositories.DashboardRepository {
	return &dashboardRepository{db: db}
}

// ===== OVERVIEW =====

func (r *dashboardRepository) CountUsersByRole(ctx context.Context, tx *gorm.DB) ([]repositories.RoleCountData, error) {
	db := getDB(r.db, tx)
	var rows []repositories.RoleCountData

	if err := db.WithContext(ctx).
		Model(&models.User{}).
		Select("role, COUNT(*) AS count").
		Group("role").
		Order("role").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to count users by role: %w", err)
	}

	return rows, nil
}

func (r *dashboardRepository) CountJobs(ctx context.Context, tx *gorm.DB) (int64, int64, error) {
	db := getDB(r.db, tx)
	var total, approved int64

	if err := db.WithContext(ctx).Model(&models.Job{}).Count(&total).Error; err != nil {
		return 0, 0, fmt.Errorf("failed to count jobs: %w", err)
	}
	if total == 0 {
		return 0, 0, nil
	}

	if err := db.WithContext(ctx).
		Model(&models.Job{}).
		Where("is_approved = ?", true).
		Count(&approved).Error; err != nil {
		return 0, 0, fmt.Errorf("failed to count approved jobs: %w", err)
	}

	return total, approved, nil
}

func (r *dashboardRepository) CountApplications(ctx context.Context, tx *gorm.DB) (int64, error) {
	db := getDB(r.db, tx)
	var count int64

	if err := db.WithContext(ctx).Model(&models.Application{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count applications: %w", err)
	}

	return count, nil
}

// ===== TRENDS =====

func (r *dashboardRepository) CountCreatedBetween(ctx context.Context, tx *gorm.DB, entity string, from, to time.Time) (int64, error) {
	db := getDB(r.db, tx)

	var (
		model  interface{}
		column string
	)
	switch entity {
	case "jobs":
		model, column = &models.Job{}, "posted_date"
	case "applications":
		model, column = &models.Application{}, "applied_date"
	default:
		return 0, fmt.Errorf("unsupported entity: %s", entity)
	}

	var count int64
	if err := db.WithContext(ctx).
		Model(model).
		Where(column+" >= ? AND "+column+" < ?", from, to).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count %s in period: %w", entity, err)
	}

	return count, nil
}

// ===== DISTRIBUTION =====

func (r *dashboardRepository) GetStatusDistribution(ctx context.Context, tx *gorm.DB) ([]repositories.StatusDistributionData, error) {
	db := getDB(r.db, tx)
	var rows []repositories.StatusDistributionData

	if err := db.WithContext(ctx).
		Model(&models.Application{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Order("count DESC, status").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to get status distribution: %w", err)
	}

	return rows, nil
}

// ===== ACTIVITY =====

func (r *dashboardRepository) GetRecentApplications(ctx context.Context, tx *gorm.DB, limit int) ([]*models.Application, error) {
	db := getDB(r.db, tx)
	var applications []*models.Application

	if err := db.WithContext(ctx).
		Preload("Job").
		Preload("Job.Employer").
		Preload("User").
		Order("applied_date DESC, id DESC").
		Limit(limit).
		Find(&applications).Error; err != nil {
		return nil, fmt.Errorf("failed to get recent applications: %w", err)
	}

	return applications, nil
}

func (r *dashboardRepository) GetTopJobs(ctx context.Context, tx *gorm.DB, limit int) ([]repositories.JobPopularityData, error) {
	db := getDB(r.db, tx)
	var rows []repositories.JobPopularityData

	if err := db.WithContext(ctx).
		Table("jobs").
		Select("jobs.id AS job_id, jobs.title, jobs.company, jobs.is_approved, COUNT(applications.id) AS application_count").
		Joins("LEFT JOIN applications ON applications.job_id = jobs.id").
		Group("jobs.id, jobs.title, jobs.company, jobs.is_approved").
		Order("application_count DESC, jobs.id").
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to get top jobs: %w", err)
	}

	return rows, nil
}
