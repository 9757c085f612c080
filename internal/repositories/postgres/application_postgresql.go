package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/jobboard-service/internal/models"
	"github.com/SAP-F-2025/jobboard-service/internal/repositories"
)

type ApplicationPostgreSQL struct {
	db *gorm.DB
}

func NewApplicationPostgreSQL(db *gorm.DB) repositories.ApplicationRepository {
	return &ApplicationPostgreSQL{db: db}
}

func (a *ApplicationPostgreSQL) Create(ctx context.Context, tx *gorm.DB, application *models.Application) error {
	db := getDB(a.db, tx)
	if err := db.WithContext(ctx).Omit("Job", "User").Create(application).Error; err != nil {
		return handleDBError(err, "create application")
	}
	return nil
}

func (a *ApplicationPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Application, error) {
	db := getDB(a.db, tx)
	var application models.Application

	if err := db.WithContext(ctx).
		Preload("Job").
		Preload("Job.Employer").
		Preload("User").
		First(&application, id).Error; err != nil {
		return nil, handleDBError(err, "get application by id")
	}

	return &application, nil
}

func (a *ApplicationPostgreSQL) UpdateStatus(ctx context.Context, tx *gorm.DB, id uint, status models.ApplicationStatus) error {
	db := getDB(a.db, tx)
	result := db.WithContext(ctx).
		Model(&models.Application{}).
		Where("id = ?", id).
		Update("status", status)
	return requireRowsAffected(result, "update application status")
}

func (a *ApplicationPostgreSQL) SetCVFileName(ctx context.Context, tx *gorm.DB, id uint, fileName string) error {
	db := getDB(a.db, tx)
	result := db.WithContext(ctx).
		Model(&models.Application{}).
		Where("id = ?", id).
		Update("cv_file_name", fileName)
	return requireRowsAffected(result, "set application cv")
}

func (a *ApplicationPostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.ApplicationFilters) ([]*models.Application, int64, error) {
	db := getDB(a.db, tx)
	var applications []*models.Application
	var total int64

	query := db.WithContext(ctx).Model(&models.Application{})

	if filters.EmployerProfileID != nil {
		query = query.
			Joins("JOIN jobs ON jobs.id = applications.job_id").
			Where("jobs.employer_profile_id = ?", *filters.EmployerProfileID)
	}
	if filters.UserID != nil {
		query = query.Where("applications.user_id = ?", *filters.UserID)
	}
	if filters.JobID != nil {
		query = query.Where("applications.job_id = ?", *filters.JobID)
	}
	if filters.Status != nil {
		query = query.Where("applications.status = ?", *filters.Status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, handleDBError(err, "count applications")
	}

	query = query.
		Preload("Job").
		Preload("Job.Employer").
		Preload("User").
		Order("applications.applied_date DESC").
		Order("applications.id DESC")
	query = applyPagination(query, filters.Limit, filters.Offset)

	if err := query.Find(&applications).Error; err != nil {
		return nil, 0, handleDBError(err, "list applications")
	}

	return applications, total, nil
}
