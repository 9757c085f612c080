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

type jobService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
	uploads   *uploadHandler
}

func NewJobService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator, uploads *uploadHandler) JobService {
	return &jobService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: validator,
		uploads:   uploads,
	}
}

// ===== CORE CRUD OPERATIONS =====

// Create posts a job. Employers post to their own profile and wait for
// approval; admins pick the employer and the job is approved at once.
func (s *jobService) Create(ctx context.Context, actor Actor, req *JobRequest, logo *Upload) (*models.Job, error) {
	if err := Authorize(actor, PermManageJobs); err != nil {
		return nil, err
	}
	if errs := s.validator.GetBusinessValidator().ValidateJobRequest(req); len(errs) > 0 {
		return nil, errs
	}
	if err := s.uploads.validate("company_logo", logo, true); err != nil {
		return nil, err
	}

	var (
		profile  *models.EmployerProfile
		approved bool
		err      error
	)
	if actor.Can(PermAssignEmployer) {
		profile, err = s.assignedProfile(ctx, req.EmployerProfileID)
		approved = true
	} else {
		profile, err = s.actorProfile(ctx, actor)
		if errors.Is(err, ErrProfileNotFound) {
			err = ErrProfileRequired
		}
	}
	if err != nil {
		return nil, err
	}

	job := &models.Job{
		Title:             req.Title,
		Description:       req.Description,
		Location:          req.Location,
		Salary:            req.Salary,
		Company:           req.Company,
		CompanyLogoURL:    profile.Logo,
		Type:              models.ResolveJobType(req.Type, req.CustomType),
		PostedDate:        time.Now().UTC(),
		IsApproved:        approved,
		EmployerProfileID: &profile.ID,
	}

	if logo.present() {
		name, err := s.uploads.save(ctx, "company_logo", storage.FolderLogos, logo, true)
		if err != nil {
			return nil, err
		}
		job.CompanyLogoURL = storage.PublicPath(storage.FolderLogos, name)
	}

	if err := s.repo.Job().Create(ctx, nil, job); err != nil {
		return nil, persistenceError(ctx, s.logger, "create job", err)
	}
	job.Employer = profile

	s.logger.Info("Job created", "job_id", job.ID, "profile_id", profile.ID, "approved", approved, "user_id", actor.UserID)
	return job, nil
}

// ListApproved is the public listing, newest first
func (s *jobService) ListApproved(ctx context.Context, page int) (*models.JobPage, error) {
	window := utils.Paginate(0, page, utils.DefaultPageSize)
	approved := true

	jobs, total, err := s.repo.Job().List(ctx, nil, repositories.JobFilters{
		IsApproved: &approved,
		Limit:      window.Take,
		Offset:     window.Skip,
	})
	if err != nil {
		return nil, persistenceError(ctx, s.logger, "list approved jobs", err)
	}

	return &models.JobPage{
		Jobs:     jobs,
		PageInfo: utils.Paginate(total, page, utils.DefaultPageSize).Info(),
	}, nil
}

// GetDetails returns a job with the applications the actor may see. Pending
// jobs are hidden from everyone but admins and the owner.
func (s *jobService) GetDetails(ctx context.Context, actor Actor, id uint) (*models.Job, error) {
	job, err := s.getJob(ctx, id)
	if err != nil {
		return nil, err
	}

	owner, err := ownsJob(ctx, s.repo, actor, job)
	if err != nil {
		return nil, persistenceError(ctx, s.logger, "check job ownership", err)
	}
	if !job.IsApproved && !owner {
		return nil, ErrJobNotFound
	}

	filters := repositories.ApplicationFilters{JobID: &job.ID}
	switch {
	case owner:
	case actor.IsAuthenticated() && actor.Can(PermApply):
		filters.UserID = &actor.UserID
	default:
		return job, nil
	}

	applications, _, err := s.repo.Application().List(ctx, nil, filters)
	if err != nil {
		return nil, persistenceError(ctx, s.logger, "list job applications", err)
	}
	job.Applications = make([]models.Application, 0, len(applications))
	for _, a := range applications {
		job.Applications = append(job.Applications, *a)
	}

	return job, nil
}

// ListManageable returns every job for admins and the actor's own otherwise
func (s *jobService) ListManageable(ctx context.Context, actor Actor) ([]*models.Job, error) {
	if err := Authorize(actor, PermManageJobs); err != nil {
		return nil, err
	}

	var filters repositories.JobFilters
	if !actor.Can(PermBypassOwnership) {
		profile, err := s.actorProfile(ctx, actor)
		if errors.Is(err, ErrProfileNotFound) {
			return []*models.Job{}, nil
		}
		if err != nil {
			return nil, err
		}
		filters.EmployerProfileID = &profile.ID
	}

	jobs, _, err := s.repo.Job().List(ctx, nil, filters)
	if err != nil {
		return nil, persistenceError(ctx, s.logger, "list manageable jobs", err)
	}
	return jobs, nil
}

func (s *jobService) Approve(ctx context.Context, actor Actor, id uint) error {
	if err := Authorize(actor, PermApproveJob); err != nil {
		return err
	}

	if err := s.repo.Job().Approve(ctx, nil, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrJobNotFound
		}
		return persistenceError(ctx, s.logger, "approve job", err)
	}

	s.logger.Info("Job approved", "job_id", id, "admin_id", actor.UserID)
	return nil
}

// GetForEdit loads a job the actor may edit or delete
func (s *jobService) GetForEdit(ctx context.Context, actor Actor, id uint) (*models.Job, error) {
	if err := Authorize(actor, PermManageJobs); err != nil {
		return nil, err
	}
	return s.getOwnedJob(ctx, actor, id, "edit")
}

// Update changes title, description, location, salary and type only
func (s *jobService) Update(ctx context.Context, actor Actor, id uint, req *JobRequest) (*models.Job, error) {
	if err := Authorize(actor, PermManageJobs); err != nil {
		return nil, err
	}
	if req.ID != nil && *req.ID != id {
		return nil, NewPermissionError(actor.UserID, id, "job", "edit", "submitted id does not match")
	}
	if errs := s.validator.GetBusinessValidator().ValidateJobRequest(req); len(errs) > 0 {
		return nil, errs
	}

	job, err := s.getOwnedJob(ctx, actor, id, "edit")
	if err != nil {
		return nil, err
	}

	job.Title = req.Title
	job.Description = req.Description
	job.Location = req.Location
	job.Salary = req.Salary
	job.Type = models.ResolveJobType(req.Type, req.CustomType)

	if err := s.repo.Job().UpdateDetails(ctx, nil, job); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrJobNotFound
		}
		return nil, persistenceError(ctx, s.logger, "update job", err)
	}

	s.logger.Info("Job updated", "job_id", id, "user_id", actor.UserID)
	return job, nil
}

// Delete removes the job and, through the store, its applications
func (s *jobService) Delete(ctx context.Context, actor Actor, id uint) error {
	if err := Authorize(actor, PermManageJobs); err != nil {
		return err
	}
	if _, err := s.getOwnedJob(ctx, actor, id, "delete"); err != nil {
		return err
	}

	if err := s.repo.Job().Delete(ctx, nil, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrJobNotFound
		}
		return persistenceError(ctx, s.logger, "delete job", err)
	}

	s.logger.Info("Job deleted", "job_id", id, "user_id", actor.UserID)
	return nil
}

// FormOptions lists job types, and companies for actors who pick one
func (s *jobService) FormOptions(ctx context.Context, actor Actor) (*models.JobFormOptions, error) {
	if err := Authorize(actor, PermManageJobs); err != nil {
		return nil, err
	}

	opts := &models.JobFormOptions{JobTypes: models.StandardJobTypes}
	if !actor.Can(PermAssignEmployer) {
		return opts, nil
	}

	profiles, err := s.repo.EmployerProfile().List(ctx, nil)
	if err != nil {
		return nil, persistenceError(ctx, s.logger, "list employer profiles", err)
	}
	opts.Companies = make([]models.CompanyOption, 0, len(profiles))
	for _, p := range profiles {
		opts.Companies = append(opts.Companies, models.CompanyOption{ID: p.ID, CompanyName: p.CompanyName})
	}
	return opts, nil
}

// ===== HELPERS =====

func (s *jobService) getJob(ctx context.Context, id uint) (*models.Job, error) {
	job, err := s.repo.Job().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrJobNotFound
		}
		return nil, persistenceError(ctx, s.logger, "get job", err)
	}
	return job, nil
}

func (s *jobService) getOwnedJob(ctx context.Context, actor Actor, id uint, action string) (*models.Job, error) {
	job, err := s.getJob(ctx, id)
	if err != nil {
		return nil, err
	}

	owner, err := ownsJob(ctx, s.repo, actor, job)
	if err != nil {
		return nil, persistenceError(ctx, s.logger, "check job ownership", err)
	}
	if !owner {
		return nil, NewPermissionError(actor.UserID, id, "job", action, "job belongs to another employer")
	}
	return job, nil
}

func (s *jobService) actorProfile(ctx context.Context, actor Actor) (*models.EmployerProfile, error) {
	profile, err := s.repo.EmployerProfile().GetByUserID(ctx, nil, actor.UserID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrProfileNotFound
		}
		return nil, persistenceError(ctx, s.logger, "find employer profile", err)
	}
	return profile, nil
}

func (s *jobService) assignedProfile(ctx context.Context, profileID *uint) (*models.EmployerProfile, error) {
	if profileID == nil || *profileID == 0 {
		return nil, ErrEmployerRequired
	}

	profile, err := s.repo.EmployerProfile().GetByID(ctx, nil, *profileID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrEmployerRequired
		}
		return nil, persistenceError(ctx, s.logger, "find employer profile", err)
	}
	return profile, nil
}
