package services

import (
	"context"
	"io"

	"github.com/SAP-F-2025/jobboard-service/internal/config"
	"github.com/SAP-F-2025/jobboard-service/internal/models"
	"github.com/SAP-F-2025/jobboard-service/internal/validator"
)

// ===== REQUEST TYPES =====

type RegisterRequest = validator.RegisterRequest
type LoginRequest = validator.LoginRequest
type AdminRegisterRequest = validator.AdminRegisterRequest
type JobRequest = validator.JobRequest
type ProfileUpdateRequest = validator.ProfileUpdateRequest
type ApplyRequest = validator.ApplyRequest
type ReviewRequest = validator.ReviewRequest

// Upload is an optional file attached to a request
type Upload struct {
	FileName string
	Size     int64
	Open     func() (io.ReadCloser, error)
}

// CVFile is a stored CV ready to stream. The caller closes Content.
type CVFile struct {
	Name    string
	Size    int64
	Content io.ReadCloser
}

// FileStore is the blob storage the services write uploads to
type FileStore interface {
	Save(folder, originalName string, r io.Reader) (string, error)
	SaveImage(folder, originalName string, r io.Reader, maxDim int) (string, error)
	Open(folder, name string) (io.ReadCloser, int64, error)
}

// ===== SERVICE INTERFACES =====

type AuthService interface {
	Register(ctx context.Context, req *RegisterRequest, logo *Upload) (*models.User, error)
	Authenticate(ctx context.Context, req *LoginRequest) (*models.User, error)
	AuthenticateAdmin(ctx context.Context, req *LoginRequest) (*models.User, error)
	RegisterAdmin(ctx context.Context, actor Actor, req *AdminRegisterRequest) (*models.User, error)
	SeedAdmin(ctx context.Context, admin config.AdminConfig) error
}

type EmployerService interface {
	// FindProfile never creates anything; ErrProfileNotFound when absent
	FindProfile(ctx context.Context, userID uint) (*models.EmployerProfile, error)
	CreateDefaultProfile(ctx context.Context, userID uint) (*models.EmployerProfile, error)
	// GetOrCreateProfile persists a placeholder profile when none exists
	GetOrCreateProfile(ctx context.Context, actor Actor) (*models.EmployerProfile, error)
	UpdateProfile(ctx context.Context, actor Actor, req *ProfileUpdateRequest, logo *Upload) (*models.EmployerProfile, error)
	ListProfiles(ctx context.Context, actor Actor) ([]*models.EmployerProfile, error)
}

type JobService interface {
	Create(ctx context.Context, actor Actor, req *JobRequest, logo *Upload) (*models.Job, error)
	ListApproved(ctx context.Context, page int) (*models.JobPage, error)
	GetDetails(ctx context.Context, actor Actor, id uint) (*models.Job, error)
	ListManageable(ctx context.Context, actor Actor) ([]*models.Job, error)
	Approve(ctx context.Context, actor Actor, id uint) error
	GetForEdit(ctx context.Context, actor Actor, id uint) (*models.Job, error)
	Update(ctx context.Context, actor Actor, id uint, req *JobRequest) (*models.Job, error)
	Delete(ctx context.Context, actor Actor, id uint) error
	FormOptions(ctx context.Context, actor Actor) (*models.JobFormOptions, error)
}

type ApplicationService interface {
	Apply(ctx context.Context, actor Actor, req *ApplyRequest, cv *Upload) (*models.Application, error)
	ListMine(ctx context.Context, actor Actor) ([]*models.Application, error)
	ListForEmployer(ctx context.Context, actor Actor, page int) (*models.EmployerDashboard, error)
	ListForJob(ctx context.Context, actor Actor, jobID uint) ([]*models.Application, error)
	ListPending(ctx context.Context, actor Actor, page int) (*models.ApplicationPage, error)
	ListAll(ctx context.Context, actor Actor) ([]*models.Application, error)
	Review(ctx context.Context, actor Actor, req *ReviewRequest) (*models.Application, error)
	DownloadCV(ctx context.Context, actor Actor, applicationID uint) (*CVFile, error)
}

type ExportService interface {
	// ExportApplications writes every application as an .xlsx workbook
	ExportApplications(ctx context.Context, actor Actor, w io.Writer) error
}

// ServiceManager interface
type ServiceManager interface {
	Auth() AuthService
	Employer() EmployerService
	Job() JobService
	Application() ApplicationService
	Export() ExportService
	Dashboard() DashboardService

	// Health and lifecycle
	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
