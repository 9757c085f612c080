package services

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"io"
	"path"
	"strings"
	"testing"

	"github.com/SAP-F-2025/jobboard-service/internal/models"
	"github.com/SAP-F-2025/jobboard-service/internal/storage"
)

func pngUpload(t *testing.T, w, h int) *Upload {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	data := buf.Bytes()
	return &Upload{
		FileName: "logo.png",
		Size:     int64(len(data)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

func TestEmployerService_GetOrCreateProfile(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	employer := env.register(t, "acme@x.com", "Employer")
	if err := env.db.Where("user_id = ?", employer.UserID).Delete(&models.EmployerProfile{}).Error; err != nil {
		t.Fatalf("delete profile: %v", err)
	}

	if _, err := env.sm.Employer().FindProfile(ctx, employer.UserID); !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("FindProfile() error = %v, want ErrProfileNotFound", err)
	}

	created, err := env.sm.Employer().GetOrCreateProfile(ctx, employer)
	if err != nil {
		t.Fatalf("GetOrCreateProfile() error = %v", err)
	}
	if created.CompanyName != placeholderCompanyName || created.Logo != models.DefaultLogoPath {
		t.Errorf("placeholder profile = %+v", created)
	}

	again, err := env.sm.Employer().GetOrCreateProfile(ctx, employer)
	if err != nil {
		t.Fatalf("second GetOrCreateProfile() error = %v", err)
	}
	if again.ID != created.ID {
		t.Errorf("second call created profile %d, want %d", again.ID, created.ID)
	}

	seeker := env.register(t, "sam@x.com", "User")
	if _, err := env.sm.Employer().GetOrCreateProfile(ctx, seeker); !errors.Is(err, ErrForbidden) {
		t.Errorf("seeker GetOrCreateProfile() error = %v, want ErrForbidden", err)
	}
}

func TestEmployerService_UpdateProfile(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	employer := env.register(t, "acme@x.com", "Employer")

	before, err := env.sm.Employer().FindProfile(ctx, employer.UserID)
	if err != nil {
		t.Fatalf("FindProfile() error = %v", err)
	}

	contact := "hr@acme.test"
	updated, err := env.sm.Employer().UpdateProfile(ctx, employer, &ProfileUpdateRequest{ContactInfo: &contact}, pngUpload(t, 1024, 256))
	if err != nil {
		t.Fatalf("UpdateProfile() error = %v", err)
	}
	if updated.CompanyName != before.CompanyName {
		t.Errorf("CompanyName = %q, nil field must leave it unchanged", updated.CompanyName)
	}
	if updated.ContactInfo == nil || *updated.ContactInfo != contact {
		t.Errorf("ContactInfo = %v, want %q", updated.ContactInfo, contact)
	}
	prefix := storage.PublicPath(storage.FolderLogos, "")
	if !strings.HasPrefix(updated.Logo, prefix) || !strings.HasSuffix(updated.Logo, ".png") {
		t.Fatalf("Logo = %q, want a stored logo under %q", updated.Logo, prefix)
	}

	rc, _, err := env.files.Open(storage.FolderLogos, path.Base(updated.Logo))
	if err != nil {
		t.Fatalf("open stored logo: %v", err)
	}
	defer rc.Close()
	cfg, err := png.DecodeConfig(rc)
	if err != nil {
		t.Fatalf("decode stored logo: %v", err)
	}
	if cfg.Width != storage.LogoMaxDimension || cfg.Height != storage.LogoMaxDimension/4 {
		t.Errorf("logo size = %dx%d, want %dx%d", cfg.Width, cfg.Height, storage.LogoMaxDimension, storage.LogoMaxDimension/4)
	}

	blank := ""
	if _, err := env.sm.Employer().UpdateProfile(ctx, employer, &ProfileUpdateRequest{CompanyName: &blank}, nil); !errors.Is(err, ErrValidationFailed) {
		t.Errorf("blank company name error = %v, want validation failure", err)
	}

	bad := textUpload("logo.exe", "MZ")
	if _, err := env.sm.Employer().UpdateProfile(ctx, employer, &ProfileUpdateRequest{}, bad); !errors.Is(err, ErrValidationFailed) {
		t.Errorf("non-image logo error = %v, want validation failure", err)
	}
}

func TestEmployerService_ListProfiles(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	employer := env.register(t, "acme@x.com", "Employer")
	env.register(t, "beta@x.com", "Employer")
	admin := env.admin(t)

	if _, err := env.sm.Employer().ListProfiles(ctx, employer); !errors.Is(err, ErrForbidden) {
		t.Errorf("employer ListProfiles() error = %v, want ErrForbidden", err)
	}
	profiles, err := env.sm.Employer().ListProfiles(ctx, admin)
	if err != nil {
		t.Fatalf("ListProfiles() error = %v", err)
	}
	if len(profiles) != 2 {
		t.Errorf("ListProfiles() = %d, want 2", len(profiles))
	}
}
