package services

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/SAP-F-2025/jobboard-service/internal/models"
)

func TestJobService_CreateByRole(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	employer := env.register(t, "acme@x.com", "Employer")
	admin := env.admin(t)
	seeker := env.register(t, "sam@x.com", "User")

	before := time.Now().UTC().Add(-time.Second)
	job, err := env.sm.Job().Create(ctx, employer, jobRequest("Backend Engineer"), nil)
	if err != nil {
		t.Fatalf("employer Create() error = %v", err)
	}
	if job.IsApproved {
		t.Error("employer job approved on creation")
	}
	if job.PostedDate.Before(before) {
		t.Errorf("PostedDate = %v, want server time", job.PostedDate)
	}
	if job.CompanyLogoURL != models.DefaultLogoPath {
		t.Errorf("CompanyLogoURL = %q, want profile logo", job.CompanyLogoURL)
	}

	if _, err := env.sm.Job().Create(ctx, admin, jobRequest("Ops"), nil); !errors.Is(err, ErrEmployerRequired) {
		t.Fatalf("admin Create() without employer error = %v, want ErrEmployerRequired", err)
	}
	zero := uint(0)
	req := jobRequest("Ops")
	req.EmployerProfileID = &zero
	if _, err := env.sm.Job().Create(ctx, admin, req, nil); !errors.Is(err, ErrEmployerRequired) {
		t.Fatalf("admin Create() with zero employer error = %v, want ErrEmployerRequired", err)
	}

	req.EmployerProfileID = job.EmployerProfileID
	adminJob, err := env.sm.Job().Create(ctx, admin, req, nil)
	if err != nil {
		t.Fatalf("admin Create() error = %v", err)
	}
	if !adminJob.IsApproved {
		t.Error("admin job not approved on creation")
	}

	if _, err := env.sm.Job().Create(ctx, seeker, jobRequest("Nope"), nil); !errors.Is(err, ErrForbidden) {
		t.Fatalf("seeker Create() error = %v, want ErrForbidden", err)
	}
}

func TestJobService_CreateResolvesCustomType(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	employer := env.register(t, "acme@x.com", "Employer")

	custom := "Internship"
	tests := []struct {
		name     string
		typ      models.JobType
		custom   *string
		want     models.JobType
		wantFail bool
	}{
		{name: "standard", typ: models.JobTypeRemote, want: models.JobTypeRemote},
		{name: "other with label", typ: models.JobTypeOther, custom: &custom, want: "Internship"},
		{name: "other without label", typ: models.JobTypeOther, want: models.JobTypeOther},
		{name: "label without other", typ: models.JobTypeContract, custom: &custom, wantFail: true},
		{name: "unknown type", typ: "Gig", wantFail: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := jobRequest(tt.name)
			req.Type = tt.typ
			req.CustomType = tt.custom

			job, err := env.sm.Job().Create(ctx, employer, req, nil)
			if tt.wantFail {
				if !errors.Is(err, ErrValidationFailed) {
					t.Fatalf("Create() error = %v, want validation failure", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Create() error = %v", err)
			}
			if job.Type != tt.want {
				t.Errorf("Type = %q, want %q", job.Type, tt.want)
			}
		})
	}
}

func TestJobService_CreateRequiresProfile(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	employer := env.register(t, "acme@x.com", "Employer")

	if err := env.db.Where("user_id = ?", employer.UserID).Delete(&models.EmployerProfile{}).Error; err != nil {
		t.Fatalf("delete profile: %v", err)
	}

	if _, err := env.sm.Job().Create(ctx, employer, jobRequest("Backend Engineer"), nil); !errors.Is(err, ErrProfileRequired) {
		t.Fatalf("Create() error = %v, want ErrProfileRequired", err)
	}

	jobs, err := env.sm.Job().ListManageable(ctx, employer)
	if err != nil {
		t.Fatalf("ListManageable() error = %v", err)
	}
	if len(jobs) != 0 {
		t.Errorf("ListManageable() = %d jobs, want none", len(jobs))
	}
}

func TestJobService_ApprovalAndListing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	employer := env.register(t, "acme@x.com", "Employer")
	admin := env.admin(t)

	pending, err := env.sm.Job().Create(ctx, employer, jobRequest("Backend Engineer"), nil)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	page, err := env.sm.Job().ListApproved(ctx, 1)
	if err != nil {
		t.Fatalf("ListApproved() error = %v", err)
	}
	if len(page.Jobs) != 0 || page.TotalItems != 0 {
		t.Fatalf("pending job listed: %+v", page.PageInfo)
	}

	if _, err := env.sm.Job().GetDetails(ctx, Actor{}, pending.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("anonymous GetDetails(pending) error = %v, want ErrNotFound", err)
	}
	if _, err := env.sm.Job().GetDetails(ctx, employer, pending.ID); err != nil {
		t.Errorf("owner GetDetails(pending) error = %v", err)
	}

	if err := env.sm.Job().Approve(ctx, employer, pending.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("employer Approve() error = %v, want ErrForbidden", err)
	}
	if err := env.sm.Job().Approve(ctx, admin, 9999); !errors.Is(err, ErrJobNotFound) {
		t.Fatalf("Approve(missing) error = %v, want ErrJobNotFound", err)
	}
	if err := env.sm.Job().Approve(ctx, admin, pending.ID); err != nil {
		t.Fatalf("Approve() error = %v", err)
	}

	page, err = env.sm.Job().ListApproved(ctx, 1)
	if err != nil {
		t.Fatalf("ListApproved() error = %v", err)
	}
	if len(page.Jobs) != 1 || page.Jobs[0].Title != "Backend Engineer" {
		t.Fatalf("ListApproved() = %+v, want the approved job", page.Jobs)
	}
	if page.Jobs[0].Employer == nil {
		t.Error("listed job has no employer loaded")
	}
}

func TestJobService_ListApprovedPaginates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	employer := env.register(t, "acme@x.com", "Employer")
	admin := env.admin(t)

	for i := 0; i < 25; i++ {
		env.postApprovedJob(t, employer, admin, "Job")
	}

	tests := []struct {
		page      int
		wantItems int
	}{
		{page: 1, wantItems: 10},
		{page: 2, wantItems: 10},
		{page: 3, wantItems: 5},
		{page: 4, wantItems: 0},
		{page: math.MaxInt / 2, wantItems: 0},
	}
	for _, tt := range tests {
		got, err := env.sm.Job().ListApproved(ctx, tt.page)
		if err != nil {
			t.Fatalf("ListApproved(%d) error = %v", tt.page, err)
		}
		if len(got.Jobs) != tt.wantItems {
			t.Errorf("page %d: %d jobs, want %d", tt.page, len(got.Jobs), tt.wantItems)
		}
		if got.TotalPages != 3 || got.TotalItems != 25 {
			t.Errorf("page %d: TotalPages = %d TotalItems = %d, want 3 and 25", tt.page, got.TotalPages, got.TotalItems)
		}
	}
}

func TestJobService_OwnershipIsEnforced(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.register(t, "acme@x.com", "Employer")
	rival := env.register(t, "rival@x.com", "Employer")
	admin := env.admin(t)

	job := env.postApprovedJob(t, owner, admin, "Backend Engineer")

	if _, err := env.sm.Job().GetForEdit(ctx, rival, job.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("rival GetForEdit() error = %v, want ErrForbidden", err)
	}
	if _, err := env.sm.Job().Update(ctx, rival, job.ID, jobRequest("Stolen")); !errors.Is(err, ErrForbidden) {
		t.Errorf("rival Update() error = %v, want ErrForbidden", err)
	}
	if err := env.sm.Job().Delete(ctx, rival, job.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("rival Delete() error = %v, want ErrForbidden", err)
	}

	other := job.ID + 1
	req := jobRequest("Mismatch")
	req.ID = &other
	if _, err := env.sm.Job().Update(ctx, owner, job.ID, req); !errors.Is(err, ErrForbidden) {
		t.Errorf("Update() with mismatched id error = %v, want ErrForbidden", err)
	}

	rivalJobs, err := env.sm.Job().ListManageable(ctx, rival)
	if err != nil {
		t.Fatalf("ListManageable(rival) error = %v", err)
	}
	if len(rivalJobs) != 0 {
		t.Errorf("rival manages %d jobs, want 0", len(rivalJobs))
	}
	adminJobs, err := env.sm.Job().ListManageable(ctx, admin)
	if err != nil {
		t.Fatalf("ListManageable(admin) error = %v", err)
	}
	if len(adminJobs) != 1 {
		t.Errorf("admin manages %d jobs, want 1", len(adminJobs))
	}
}

func TestJobService_UpdateChangesOnlyDetails(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.register(t, "acme@x.com", "Employer")
	admin := env.admin(t)
	job := env.postApprovedJob(t, owner, admin, "Backend Engineer")

	req := jobRequest("Senior Backend Engineer")
	req.Company = "Renamed Co"
	req.Type = models.JobTypeContract
	if _, err := env.sm.Job().Update(ctx, owner, job.ID, req); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	got, err := env.sm.Job().GetForEdit(ctx, admin, job.ID)
	if err != nil {
		t.Fatalf("GetForEdit() error = %v", err)
	}
	if got.Title != "Senior Backend Engineer" || got.Type != models.JobTypeContract {
		t.Errorf("details not updated: %q %q", got.Title, got.Type)
	}
	if got.Company != "Acme Co" {
		t.Errorf("Company = %q, edit must not change it", got.Company)
	}
	if !got.IsApproved {
		t.Error("edit reset approval")
	}
	if d := got.PostedDate.Sub(job.PostedDate); d > time.Second || d < -time.Second {
		t.Errorf("PostedDate = %v, want %v", got.PostedDate, job.PostedDate)
	}
}

func TestJobService_DeleteCascadesApplications(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.register(t, "acme@x.com", "Employer")
	seeker := env.register(t, "sam@x.com", "User")
	admin := env.admin(t)
	job := env.postApprovedJob(t, owner, admin, "Backend Engineer")

	app, err := env.sm.Application().Apply(ctx, seeker, &ApplyRequest{JobID: job.ID}, nil)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	if err := env.sm.Job().Delete(ctx, owner, job.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if _, err := env.sm.Job().GetDetails(ctx, admin, job.ID); !errors.Is(err, ErrJobNotFound) {
		t.Errorf("GetDetails(deleted) error = %v, want ErrJobNotFound", err)
	}
	if _, err := env.repo.Application().GetByID(ctx, nil, app.ID); err == nil {
		t.Error("application survived its job")
	}
	mine, err := env.sm.Application().ListMine(ctx, seeker)
	if err != nil {
		t.Fatalf("ListMine() error = %v", err)
	}
	if len(mine) != 0 {
		t.Errorf("ListMine() = %d, want 0", len(mine))
	}
}

func TestJobService_FormOptions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	employer := env.register(t, "acme@x.com", "Employer")
	admin := env.admin(t)

	opts, err := env.sm.Job().FormOptions(ctx, employer)
	if err != nil {
		t.Fatalf("FormOptions(employer) error = %v", err)
	}
	if len(opts.JobTypes) != len(models.StandardJobTypes) || len(opts.Companies) != 0 {
		t.Errorf("employer options = %+v", opts)
	}

	opts, err = env.sm.Job().FormOptions(ctx, admin)
	if err != nil {
		t.Fatalf("FormOptions(admin) error = %v", err)
	}
	if len(opts.Companies) != 1 {
		t.Errorf("admin sees %d companies, want 1", len(opts.Companies))
	}
}
