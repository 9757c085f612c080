package services

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/SAP-F-2025/jobboard-service/internal/config"
	"github.com/SAP-F-2025/jobboard-service/internal/models"
	"github.com/SAP-F-2025/jobboard-service/internal/repositories"
	"github.com/SAP-F-2025/jobboard-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/jobboard-service/internal/storage"
	"github.com/SAP-F-2025/jobboard-service/internal/validator"
	"github.com/SAP-F-2025/jobboard-service/pkg"
)

type testEnv struct {
	db    *gorm.DB
	repo  repositories.Repository
	files *storage.LocalStore
	sm    ServiceManager
}

// newTestEnv wires the real repositories and services over a file-backed
// SQLite database with foreign keys enforced.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dir := t.TempDir()
	dsn := "file:" + filepath.Join(dir, "jobboard.db") + "?_pragma=foreign_keys(1)"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	if err := pkg.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	files, err := storage.NewLocalStore(filepath.Join(dir, "wwwroot"))
	if err != nil {
		t.Fatalf("local store: %v", err)
	}

	repo := postgres.NewPostgreSQLRepository(postgres.RepositoryConfig{DB: db})
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	sm := NewServiceManager(db, repo, log, validator.New(), files, ServiceManagerConfig{MaxUploadSize: 1 << 20})
	if err := sm.Initialize(context.Background()); err != nil {
		t.Fatalf("initialize services: %v", err)
	}

	return &testEnv{db: db, repo: repo, files: files, sm: sm}
}

func actorOf(u *models.User) Actor {
	return Actor{UserID: u.ID, Username: u.Username, Role: u.Role}
}

func (e *testEnv) register(t *testing.T, email, role string) Actor {
	t.Helper()
	u, err := e.sm.Auth().Register(context.Background(), &RegisterRequest{
		Email:    email,
		Username: email,
		Password: "secret123",
		Role:     role,
	}, nil)
	if err != nil {
		t.Fatalf("register %s: %v", email, err)
	}
	return actorOf(u)
}

func (e *testEnv) admin(t *testing.T) Actor {
	t.Helper()
	ctx := context.Background()
	admin := config.AdminConfig{Email: "admin@jobportal.com", Username: "admin", Password: "Admin@1234"}
	if err := e.sm.Auth().SeedAdmin(ctx, admin); err != nil {
		t.Fatalf("seed admin: %v", err)
	}
	u, err := e.sm.Auth().AuthenticateAdmin(ctx, &LoginRequest{Email: admin.Email, Password: admin.Password})
	if err != nil {
		t.Fatalf("admin login: %v", err)
	}
	return actorOf(u)
}

func jobRequest(title string) *JobRequest {
	return &JobRequest{
		Title:       title,
		Description: "Build and run services",
		Location:    "Remote",
		Salary:      "100k",
		Company:     "Acme Co",
		Type:        models.JobTypeFullTime,
	}
}

// postApprovedJob creates a job as employer and approves it as admin
func (e *testEnv) postApprovedJob(t *testing.T, employer, admin Actor, title string) *models.Job {
	t.Helper()
	ctx := context.Background()
	job, err := e.sm.Job().Create(ctx, employer, jobRequest(title), nil)
	if err != nil {
		t.Fatalf("create job: %v", err)
	}
	if err := e.sm.Job().Approve(ctx, admin, job.ID); err != nil {
		t.Fatalf("approve job: %v", err)
	}
	return job
}

func textUpload(name, content string) *Upload {
	return &Upload{
		FileName: name,
		Size:     int64(len(content)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader([]byte(content))), nil
		},
	}
}
