package services

import (
	"context"
	"errors"
	"log/slog"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/jobboard-service/internal/models"
	"github.com/SAP-F-2025/jobboard-service/internal/repositories"
	"github.com/SAP-F-2025/jobboard-service/internal/storage"
	"github.com/SAP-F-2025/jobboard-service/internal/validator"
)

// Placeholder values for a profile materialized on first visit
const (
	placeholderCompanyName = "Your Company Name"
	placeholderContactInfo = "Contact Information"
)

type employerService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
	uploads   *uploadHandler
}

func NewEmployerService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator, uploads *uploadHandler) EmployerService {
	return &employerService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: validator,
		uploads:   uploads,
	}
}

func (s *employerService) FindProfile(ctx context.Context, userID uint) (*models.EmployerProfile, error) {
	profile, err := s.repo.EmployerProfile().GetByUserID(ctx, nil, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrProfileNotFound
		}
		return nil, persistenceError(ctx, s.logger, "find employer profile", err)
	}
	return profile, nil
}

func (s *employerService) CreateDefaultProfile(ctx context.Context, userID uint) (*models.EmployerProfile, error) {
	profile := &models.EmployerProfile{
		UserID:      userID,
		CompanyName: placeholderCompanyName,
		ContactInfo: stringPtr(placeholderContactInfo),
		Logo:        models.DefaultLogoPath,
	}

	if err := s.repo.EmployerProfile().Create(ctx, nil, profile); err != nil {
		// lost a race with a concurrent first visit
		if repositories.IsDuplicateError(err) {
			return s.FindProfile(ctx, userID)
		}
		return nil, persistenceError(ctx, s.logger, "create default profile", err)
	}

	s.logger.Info("Created placeholder employer profile", "user_id", userID, "profile_id", profile.ID)
	return profile, nil
}

// GetOrCreateProfile is a read that may write: a missing profile is created
// with placeholder values and persisted before it is returned.
func (s *employerService) GetOrCreateProfile(ctx context.Context, actor Actor) (*models.EmployerProfile, error) {
	if err := Authorize(actor, PermManageProfile); err != nil {
		return nil, err
	}

	profile, err := s.FindProfile(ctx, actor.UserID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, ErrProfileNotFound) {
		return nil, err
	}

	return s.CreateDefaultProfile(ctx, actor.UserID)
}

// UpdateProfile merges the supplied fields. A new logo replaces the path;
// the previous file stays on disk.
func (s *employerService) UpdateProfile(ctx context.Context, actor Actor, req *ProfileUpdateRequest, logo *Upload) (*models.EmployerProfile, error) {
	if err := Authorize(actor, PermManageProfile); err != nil {
		return nil, err
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if err := s.uploads.validate("logo", logo, true); err != nil {
		return nil, err
	}

	profile, err := s.GetOrCreateProfile(ctx, actor)
	if err != nil {
		return nil, err
	}

	if req.CompanyName != nil {
		profile.CompanyName = *req.CompanyName
	}
	if req.Description != nil {
		profile.Description = req.Description
	}
	if req.ContactInfo != nil {
		profile.ContactInfo = req.ContactInfo
	}

	if logo.present() {
		name, err := s.uploads.save(ctx, "logo", storage.FolderLogos, logo, true)
		if err != nil {
			return nil, err
		}
		profile.Logo = storage.PublicPath(storage.FolderLogos, name)
	}

	if err := s.repo.EmployerProfile().Update(ctx, nil, profile); err != nil {
		return nil, persistenceError(ctx, s.logger, "update employer profile", err)
	}

	s.logger.Info("Employer profile updated", "profile_id", profile.ID, "user_id", actor.UserID)
	return profile, nil
}

// ListProfiles lists the companies an admin can post a job for
func (s *employerService) ListProfiles(ctx context.Context, actor Actor) ([]*models.EmployerProfile, error) {
	if err := Authorize(actor, PermAssignEmployer); err != nil {
		return nil, err
	}

	profiles, err := s.repo.EmployerProfile().List(ctx, nil)
	if err != nil {
		return nil, persistenceError(ctx, s.logger, "list employer profiles", err)
	}
	return profiles, nil
}
