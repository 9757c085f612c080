package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/SAP-F-2025/jobboard-service/internal/config"
	"github.com/SAP-F-2025/jobboard-service/internal/models"
	"github.com/SAP-F-2025/jobboard-service/internal/repositories"
	"github.com/SAP-F-2025/jobboard-service/internal/storage"
	"github.com/SAP-F-2025/jobboard-service/internal/validator"
)

// Defaults for company fields left blank at employer registration
const (
	defaultRegisteredCompany     = "New Company"
	defaultRegisteredDescription = "Company description"
	defaultRegisteredContact     = "Contact info"
)

type authService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
	uploads   *uploadHandler
}

func NewAuthService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator, uploads *uploadHandler) AuthService {
	return &authService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: validator,
		uploads:   uploads,
	}
}

// Register creates a User or an Employer with its profile in one transaction
func (s *authService) Register(ctx context.Context, req *RegisterRequest, logo *Upload) (*models.User, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	role := models.ParseRoleHint(req.Role)
	if role == models.RoleEmployer {
		if err := s.uploads.validate("logo", logo, true); err != nil {
			return nil, err
		}
	}

	exists, err := s.repo.User().ExistsByEmail(ctx, nil, req.Email)
	if err != nil {
		return nil, persistenceError(ctx, s.logger, "check email", err)
	}
	if exists {
		return nil, ErrDuplicateEmail
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:    req.Email,
		Username: req.Username,
		Password: hash,
		Role:     role,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.User().Create(ctx, tx, user); err != nil {
			if repositories.IsDuplicateError(err) {
				return ErrDuplicateEmail
			}
			return persistenceError(ctx, s.logger, "create user", err)
		}

		if role != models.RoleEmployer {
			return nil
		}

		logoPath := models.DefaultLogoPath
		if logo.present() {
			name, err := s.uploads.save(ctx, "logo", storage.FolderRegistrationLogos, logo, true)
			if err != nil {
				return err
			}
			logoPath = storage.PublicPath(storage.FolderRegistrationLogos, name)
		}

		profile := &models.EmployerProfile{
			UserID:      user.ID,
			CompanyName: valueOr(req.CompanyName, defaultRegisteredCompany),
			Description: stringPtr(valueOr(req.Description, defaultRegisteredDescription)),
			ContactInfo: stringPtr(valueOr(req.ContactInfo, defaultRegisteredContact)),
			Logo:        logoPath,
		}
		if err := s.repo.EmployerProfile().Create(ctx, tx, profile); err != nil {
			return persistenceError(ctx, s.logger, "create employer profile", err)
		}
		user.EmployerProfile = profile
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("User registered", "user_id", user.ID, "role", user.Role)
	return user, nil
}

func (s *authService) Authenticate(ctx context.Context, req *LoginRequest) (*models.User, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.repo.User().GetByEmail(ctx, nil, req.Email)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, persistenceError(ctx, s.logger, "find user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// AuthenticateAdmin succeeds only for Admin accounts
func (s *authService) AuthenticateAdmin(ctx context.Context, req *LoginRequest) (*models.User, error) {
	user, err := s.Authenticate(ctx, req)
	if err != nil {
		return nil, err
	}
	if user.Role != models.RoleAdmin {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *authService) RegisterAdmin(ctx context.Context, actor Actor, req *AdminRegisterRequest) (*models.User, error) {
	if err := Authorize(actor, PermRegisterAdmin); err != nil {
		return nil, err
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.createAdmin(ctx, req.Email, req.Username, req.Password)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Admin registered", "user_id", user.ID, "registered_by", actor.UserID)
	return user, nil
}

// SeedAdmin creates the configured admin when no admin exists yet
func (s *authService) SeedAdmin(ctx context.Context, admin config.AdminConfig) error {
	exists, err := s.repo.User().ExistsByRole(ctx, nil, models.RoleAdmin)
	if err != nil {
		return fmt.Errorf("failed to check for admin: %w", err)
	}
	if exists {
		return nil
	}

	user, err := s.createAdmin(ctx, admin.Email, admin.Username, admin.Password)
	if err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return fmt.Errorf("seed admin email %q belongs to a non-admin account", admin.Email)
		}
		return fmt.Errorf("failed to seed admin: %w", err)
	}

	s.logger.Info("Seeded admin account", "user_id", user.ID, "email", user.Email)
	return nil
}

func (s *authService) createAdmin(ctx context.Context, email, username, password string) (*models.User, error) {
	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:    email,
		Username: username,
		Password: hash,
		Role:     models.RoleAdmin,
	}
	if err := s.repo.User().Create(ctx, nil, user); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, persistenceError(ctx, s.logger, "create admin", err)
	}
	return user, nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// valueOr returns the trimmed *v, or def when v is nil or blank
func valueOr(v *string, def string) string {
	if v == nil {
		return def
	}
	if t := strings.TrimSpace(*v); t != "" {
		return t
	}
	return def
}

func stringPtr(s string) *string {
	return &s
}
