package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/jobboard-service/internal/models"
	"github.com/SAP-F-2025/jobboard-service/internal/repositories"
)

// editableJobColumns are the only columns an edit may change
var editableJobColumns = []string{"title", "description", "location", "salary", "type"}

type JobPostgreSQL struct {
	db *gorm.DB
}

func NewJobPostgreSQL(db *gorm.DB) repositories.JobRepository {
	return &JobPostgreSQL{db: db}
}

func (j *JobPostgreSQL) Create(ctx context.Context, tx *gorm.DB, job *models.Job) error {
	db := getDB(j.db, tx)
	if err := db.WithContext(ctx).Omit("Employer", "Applications").Create(job).Error; err != nil {
		return handleDBError(err, "create job")
	}
	return nil
}

func (j *JobPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Job, error) {
	db := getDB(j.db, tx)
	var job models.Job

	if err := db.WithContext(ctx).
		Preload("Employer").
		First(&job, id).Error; err != nil {
		return nil, handleDBError(err, "get job by id")
	}

	return &job, nil
}

func (j *JobPostgreSQL) UpdateDetails(ctx context.Context, tx *gorm.DB, job *models.Job) error {
	db := getDB(j.db, tx)
	result := db.WithContext(ctx).
		Model(&models.Job{ID: job.ID}).
		Select(editableJobColumns).
		Updates(job)
	return requireRowsAffected(result, "update job")
}

func (j *JobPostgreSQL) Approve(ctx context.Context, tx *gorm.DB, id uint) error {
	db := getDB(j.db, tx)
	result := db.WithContext(ctx).
		Model(&models.Job{}).
		Where("id = ?", id).
		Update("is_approved", true)
	return requireRowsAffected(result, "approve job")
}

// Delete removes the job; the store cascades its applications
func (j *JobPostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	db := getDB(j.db, tx)
	return requireRowsAffected(db.WithContext(ctx).Delete(&models.Job{}, id), "delete job")
}

func (j *JobPostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.JobFilters) ([]*models.Job, int64, error) {
	db := getDB(j.db, tx)
	var jobs []*models.Job
	var total int64

	query := db.WithContext(ctx).Model(&models.Job{})

	if filters.IsApproved != nil {
		query = query.Where("is_approved = ?", *filters.IsApproved)
	}
	if filters.EmployerProfileID != nil {
		query = query.Where("employer_profile_id = ?", *filters.EmployerProfileID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, handleDBError(err, "count jobs")
	}

	query = applyPagination(query.Preload("Employer").Order("posted_date DESC").Order("id DESC"), filters.Limit, filters.Offset)

	if err := query.Find(&jobs).Error; err != nil {
		return nil, 0, handleDBError(err, "list jobs")
	}

	return jobs, total, nil
}
