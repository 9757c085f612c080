package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/jobboard-service/internal/models"
	"github.com/SAP-F-2025/jobboard-service/internal/repositories"
	"github.com/SAP-F-2025/jobboard-service/internal/storage"
	"github.com/SAP-F-2025/jobboard-service/internal/utils"
	"github.com/SAP-F-2025/jobboard-service/internal/validator"
)

type applicationService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
	uploads   *uploadHandler
}

func NewApplicationService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator, uploads *uploadHandler) ApplicationService {
	return &applicationService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: validator,
		uploads:   uploads,
	}
}

// Apply submits the actor's application to an approved job. The row and the
// stored CV commit together; a second application to the same job is
// rejected by the store's unique index.
func (s *applicationService) Apply(ctx context.Context, actor Actor, req *ApplyRequest, cv *Upload) (*models.Application, error) {
	if err := Authorize(actor, PermApply); err != nil {
		return nil, err
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if err := s.uploads.validate("cv", cv, false); err != nil {
		return nil, err
	}

	job, err := s.repo.Job().GetByID(ctx, nil, req.JobID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrJobNotFound
		}
		return nil, persistenceError(ctx, s.logger, "get job", err)
	}
	if !job.IsApproved {
		return nil, ErrJobNotFound
	}

	application := &models.Application{
		JobID:       job.ID,
		UserID:      actor.UserID,
		Status:      models.ApplicationPending,
		AppliedDate: time.Now().UTC(),
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Application().Create(ctx, tx, application); err != nil {
			if repositories.IsDuplicateError(err) {
				return ErrDuplicateApplication
			}
			return persistenceError(ctx, s.logger, "create application", err)
		}

		if !cv.present() {
			return nil
		}

		name, err := s.uploads.save(ctx, "cv", storage.FolderCVs, cv, false)
		if err != nil {
			return err
		}
		if err := s.repo.Application().SetCVFileName(ctx, tx, application.ID, name); err != nil {
			return persistenceError(ctx, s.logger, "record cv file name", err)
		}
		application.CVFileName = &name
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrDuplicateApplication) {
			s.logger.Info("Duplicate application rejected", "job_id", job.ID, "user_id", actor.UserID)
		}
		return nil, err
	}

	application.Job = job
	s.logger.Info("Application submitted",
		"application_id", application.ID,
		"job_id", job.ID,
		"user_id", actor.UserID,
		"has_cv", application.HasCV())
	return application, nil
}

func (s *applicationService) ListMine(ctx context.Context, actor Actor) ([]*models.Application, error) {
	if err := Authorize(actor, PermViewOwnApplications); err != nil {
		return nil, err
	}

	applications, _, err := s.repo.Application().List(ctx, nil, repositories.ApplicationFilters{UserID: &actor.UserID})
	if err != nil {
		return nil, persistenceError(ctx, s.logger, "list own applications", err)
	}
	return applications, nil
}

// ListForEmployer is the employer dashboard: every application across the
// employer's jobs, one page at a time.
func (s *applicationService) ListForEmployer(ctx context.Context, actor Actor, page int) (*models.EmployerDashboard, error) {
	if err := Authorize(actor, PermViewEmployerApplications); err != nil {
		return nil, err
	}

	profile, err := s.repo.EmployerProfile().GetByUserID(ctx, nil, actor.UserID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrProfileRequired
		}
		return nil, persistenceError(ctx, s.logger, "find employer profile", err)
	}

	applications, err := s.listPage(ctx, repositories.ApplicationFilters{EmployerProfileID: &profile.ID}, page)
	if err != nil {
		return nil, err
	}

	return &models.EmployerDashboard{
		Employer:     profile,
		Applications: applications,
	}, nil
}

func (s *applicationService) ListForJob(ctx context.Context, actor Actor, jobID uint) ([]*models.Application, error) {
	if err := Authorize(actor, PermReviewApplication); err != nil {
		return nil, err
	}

	job, err := s.repo.Job().GetByID(ctx, nil, jobID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrJobNotFound
		}
		return nil, persistenceError(ctx, s.logger, "get job", err)
	}

	owner, err := ownsJob(ctx, s.repo, actor, job)
	if err != nil {
		return nil, persistenceError(ctx, s.logger, "check job ownership", err)
	}
	if !owner {
		return nil, NewPermissionError(actor.UserID, jobID, "job", "list applications of", "job belongs to another employer")
	}

	applications, _, err := s.repo.Application().List(ctx, nil, repositories.ApplicationFilters{JobID: &jobID})
	if err != nil {
		return nil, persistenceError(ctx, s.logger, "list job applications", err)
	}
	return applications, nil
}

// ListPending is the admin dashboard of applications awaiting review
func (s *applicationService) ListPending(ctx context.Context, actor Actor, page int) (*models.ApplicationPage, error) {
	if err := Authorize(actor, PermViewAllApplications); err != nil {
		return nil, err
	}

	status := models.ApplicationPending
	return s.listPage(ctx, repositories.ApplicationFilters{Status: &status}, page)
}

func (s *applicationService) ListAll(ctx context.Context, actor Actor) ([]*models.Application, error) {
	if err := Authorize(actor, PermViewAllApplications); err != nil {
		return nil, err
	}

	applications, _, err := s.repo.Application().List(ctx, nil, repositories.ApplicationFilters{})
	if err != nil {
		return nil, persistenceError(ctx, s.logger, "list applications", err)
	}
	return applications, nil
}

// Review overwrites the status. Any non-blank status is accepted from any
// current status.
func (s *applicationService) Review(ctx context.Context, actor Actor, req *ReviewRequest) (*models.Application, error) {
	if err := Authorize(actor, PermReviewApplication); err != nil {
		return nil, err
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	application, err := s.getOwnedApplication(ctx, actor, req.ApplicationID, "review")
	if err != nil {
		return nil, err
	}

	if err := s.repo.Application().UpdateStatus(ctx, nil, application.ID, req.Status); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrApplicationNotFound
		}
		return nil, persistenceError(ctx, s.logger, "update application status", err)
	}

	s.logger.Info("Application reviewed",
		"application_id", application.ID,
		"from", application.Status,
		"to", req.Status,
		"reviewer_id", actor.UserID)

	application.Status = req.Status
	return application, nil
}

func (s *applicationService) DownloadCV(ctx context.Context, actor Actor, applicationID uint) (*CVFile, error) {
	if err := Authorize(actor, PermDownloadCV); err != nil {
		return nil, err
	}

	application, err := s.getOwnedApplication(ctx, actor, applicationID, "download cv of")
	if err != nil {
		return nil, err
	}
	if !application.HasCV() {
		return nil, ErrCVNotFound
	}

	content, size, err := s.uploads.files.Open(storage.FolderCVs, *application.CVFileName)
	if err != nil {
		if errors.Is(err, storage.ErrFileNotFound) || errors.Is(err, storage.ErrInvalidName) {
			s.logger.Warn("CV recorded but missing on disk", "application_id", applicationID, "file", *application.CVFileName)
			return nil, ErrCVNotFound
		}
		return nil, storageError(ctx, s.logger, "open cv", err)
	}

	return &CVFile{
		Name:    *application.CVFileName,
		Size:    size,
		Content: content,
	}, nil
}

// ===== HELPERS =====

func (s *applicationService) listPage(ctx context.Context, filters repositories.ApplicationFilters, page int) (*models.ApplicationPage, error) {
	window := utils.Paginate(0, page, utils.DefaultPageSize)
	filters.Limit = window.Take
	filters.Offset = window.Skip

	applications, total, err := s.repo.Application().List(ctx, nil, filters)
	if err != nil {
		return nil, persistenceError(ctx, s.logger, "list applications", err)
	}

	return &models.ApplicationPage{
		Applications: applications,
		PageInfo:     utils.Paginate(total, page, utils.DefaultPageSize).Info(),
	}, nil
}

func (s *applicationService) getOwnedApplication(ctx context.Context, actor Actor, id uint, action string) (*models.Application, error) {
	application, err := s.repo.Application().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrApplicationNotFound
		}
		return nil, persistenceError(ctx, s.logger, "get application", err)
	}

	owner, err := ownsJob(ctx, s.repo, actor, application.Job)
	if err != nil {
		return nil, persistenceError(ctx, s.logger, "check job ownership", err)
	}
	if !owner {
		return nil, NewPermissionError(actor.UserID, id, "application", action, "job belongs to another employer")
	}
	return application, nil
}
