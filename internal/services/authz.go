package services

import (
	"context"

	"github.com/SAP-F-2025/jobboard-service/internal/models"
	"github.com/SAP-F-2025/jobboard-service/internal/repositories"
)

// Actor is the authenticated caller. The zero Actor is anonymous and holds
// no permissions.
type Actor struct {
	UserID   uint
	Username string
	Role     models.UserRole
}

type Permission string

const (
	PermApply                    Permission = "application:create"
	PermViewOwnApplications      Permission = "application:list_own"
	PermViewEmployerApplications Permission = "application:list_employer"
	PermViewAllApplications      Permission = "application:list_all"
	PermReviewApplication        Permission = "application:review"
	PermDownloadCV               Permission = "application:download_cv"
	PermExportApplications       Permission = "application:export"
	PermManageJobs               Permission = "job:manage"
	PermApproveJob               Permission = "job:approve"
	PermAssignEmployer           Permission = "job:assign_employer"
	PermManageProfile            Permission = "profile:manage"
	PermRegisterAdmin            Permission = "user:register_admin"
	PermViewStats                Permission = "stats:view"
	// PermBypassOwnership lets the holder act on jobs and applications it does not own
	PermBypassOwnership Permission = "ownership:bypass"
)

var rolePermissions = map[models.UserRole]map[Permission]bool{
	models.RoleUser: {
		PermApply:               true,
		PermViewOwnApplications: true,
	},
	models.RoleEmployer: {
		PermViewEmployerApplications: true,
		PermReviewApplication:        true,
		PermDownloadCV:               true,
		PermManageJobs:               true,
		PermManageProfile:            true,
	},
	models.RoleAdmin: {
		PermViewAllApplications: true,
		PermReviewApplication:   true,
		PermDownloadCV:          true,
		PermExportApplications:  true,
		PermManageJobs:          true,
		PermApproveJob:          true,
		PermAssignEmployer:      true,
		PermRegisterAdmin:       true,
		PermViewStats:           true,
		PermBypassOwnership:     true,
	},
}

func (a Actor) Can(p Permission) bool {
	return rolePermissions[a.Role][p]
}

func (a Actor) IsAuthenticated() bool {
	return a.UserID != 0 && a.Role.IsValid()
}

// Authorize returns ErrUnauthorized for anonymous callers and a
// PermissionError when the role lacks p.
func Authorize(actor Actor, p Permission) error {
	if !actor.IsAuthenticated() {
		return ErrUnauthorized
	}
	if !actor.Can(p) {
		return NewPermissionError(actor.UserID, 0, string(p), "access", "role "+string(actor.Role)+" lacks permission")
	}
	return nil
}

// ownsJob reports whether actor may act on job as its owner. Holders of
// PermBypassOwnership always may.
func ownsJob(ctx context.Context, repo repositories.Repository, actor Actor, job *models.Job) (bool, error) {
	if actor.Can(PermBypassOwnership) {
		return true, nil
	}
	if job == nil || actor.Role != models.RoleEmployer {
		return false, nil
	}

	profile, err := repo.EmployerProfile().GetByUserID(ctx, nil, actor.UserID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return false, nil
		}
		return false, err
	}

	return job.OwnedBy(profile.ID), nil
}
