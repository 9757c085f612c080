package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/jobboard-service/internal/repositories"
	"github.com/SAP-F-2025/jobboard-service/internal/validator"
)

// ServiceManagerConfig holds configuration for the service manager
type ServiceManagerConfig struct {
	// MaxUploadSize bounds CV and logo uploads in bytes; zero disables the check
	MaxUploadSize int64
}

// serviceManager implements ServiceManager interface
type serviceManager struct {
	// Dependencies
	db        *gorm.DB
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	files     FileStore
	config    ServiceManagerConfig

	// Service instances
	authService        AuthService
	employerService    EmployerService
	jobService         JobService
	applicationService ApplicationService
	exportService      ExportService
	dashboardService   DashboardService

	// Lifecycle management
	initialized bool
	shutdown    bool
	mu          sync.RWMutex
}

func NewServiceManager(db *gorm.DB, repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, files FileStore, config ServiceManagerConfig) ServiceManager {
	return &serviceManager{
		db:        db,
		repo:      repo,
		logger:    logger,
		validator: validator,
		files:     files,
		config:    config,
	}
}

// NewDefaultServiceManager uses a 10 MiB upload limit
func NewDefaultServiceManager(db *gorm.DB, repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, files FileStore) ServiceManager {
	return NewServiceManager(db, repo, logger, validator, files, ServiceManagerConfig{
		MaxUploadSize: 10 << 20,
	})
}

// Initialize sets up all services and their dependencies
func (sm *serviceManager) Initialize(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	sm.logger.Info("Initializing service manager")

	if sm.db == nil || sm.repo == nil || sm.validator == nil || sm.files == nil {
		return errors.New("service manager is missing a dependency")
	}

	uploads := newUploadHandler(sm.files, sm.validator, sm.logger, sm.config.MaxUploadSize)

	sm.employerService = NewEmployerService(sm.repo, sm.db, sm.logger, sm.validator, uploads)
	sm.authService = NewAuthService(sm.repo, sm.db, sm.logger, sm.validator, uploads)
	sm.jobService = NewJobService(sm.repo, sm.db, sm.logger, sm.validator, uploads)
	sm.applicationService = NewApplicationService(sm.repo, sm.db, sm.logger, sm.validator, uploads)
	sm.exportService = NewExportService(sm.repo, sm.logger)
	sm.dashboardService = NewDashboardService(sm.repo, sm.logger)

	sm.initialized = true
	sm.logger.Info("Service manager initialized successfully")

	return nil
}

func (sm *serviceManager) Auth() AuthService {
	sm.mustBeInitialized()
	return sm.authService
}

func (sm *serviceManager) Employer() EmployerService {
	sm.mustBeInitialized()
	return sm.employerService
}

func (sm *serviceManager) Job() JobService {
	sm.mustBeInitialized()
	return sm.jobService
}

func (sm *serviceManager) Application() ApplicationService {
	sm.mustBeInitialized()
	return sm.applicationService
}

func (sm *serviceManager) Export() ExportService {
	sm.mustBeInitialized()
	return sm.exportService
}

func (sm *serviceManager) Dashboard() DashboardService {
	sm.mustBeInitialized()
	return sm.dashboardService
}

func (sm *serviceManager) mustBeInitialized() {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
}

// Health and lifecycle
func (sm *serviceManager) HealthCheck(ctx context.Context) error {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		return errors.New("service manager not initialized")
	}

	if sm.shutdown {
		return errors.New("service manager is shut down")
	}

	if err := sm.repo.Ping(ctx); err != nil {
		return fmt.Errorf("repository health check failed: %w", err)
	}

	return nil
}

func (sm *serviceManager) Shutdown(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.shutdown {
		return nil
	}

	sm.logger.Info("Shutting down service manager")

	sm.shutdown = true
	sm.logger.Info("Service manager shut down completed")

	return nil
}
