package handlers

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/jobboard-service/internal/services"
	"github.com/SAP-F-2025/jobboard-service/internal/session"
	"github.com/SAP-F-2025/jobboard-service/internal/utils"
)

type HandlerManager struct {
	userHandler     *UserHandler
	adminHandler    *AdminHandler
	employerHandler *EmployerHandler
	jobHandler      *JobHandler
	statsHandler    *DashboardHandler
	authMiddleware  *AuthMiddleware

	serviceManager services.ServiceManager
	uploadRoot     string
}

// NewHandlerManager wires handlers to an initialized service manager.
// uploadRoot is served read-only under /uploads and /images; empty disables it.
func NewHandlerManager(
	serviceManager services.ServiceManager,
	sessions *session.Manager,
	logger utils.Logger,
	uploadRoot string,
) *HandlerManager {
	return &HandlerManager{
		userHandler:     NewUserHandler(serviceManager.Auth(), serviceManager.Application(), sessions, logger),
		adminHandler:    NewAdminHandler(serviceManager.Auth(), serviceManager.Application(), serviceManager.Export(), sessions, logger),
		employerHandler: NewEmployerHandler(serviceManager.Employer(), serviceManager.Application(), logger),
		jobHandler:      NewJobHandler(serviceManager.Job(), serviceManager.Application(), logger),
		statsHandler:    NewDashboardHandler(serviceManager.Dashboard(), logger),
		authMiddleware:  NewAuthMiddleware(sessions, logger),
		serviceManager:  serviceManager,
		uploadRoot:      uploadRoot,
	}
}

// SetupRoutes sets up all routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	am := hm.authMiddleware
	router.Use(am.Authenticate())

	user := router.Group("/user")
	{
		user.GET("/register", hm.userHandler.RegisterForm)
		user.POST("/register", hm.userHandler.Register)
		user.GET("/login", hm.userHandler.LoginForm)
		user.POST("/login", hm.userHandler.Login)
		user.POST("/logout", am.RequireAuth(), hm.userHandler.Logout)
		user.GET("/applications", am.RequirePermission(services.PermViewOwnApplications), hm.userHandler.MyApplications)
	}

	admin := router.Group("/admin")
	{
		admin.GET("/login", hm.adminHandler.LoginForm)
		admin.POST("/login", hm.adminHandler.Login)

		// Admin only
		admin.GET("/dashboard", am.RequirePermission(services.PermViewAllApplications), hm.adminHandler.Dashboard)
		admin.GET("/register", am.RequirePermission(services.PermRegisterAdmin), hm.adminHandler.RegisterForm)
		admin.POST("/register", am.RequirePermission(services.PermRegisterAdmin), hm.adminHandler.Register)
		admin.GET("/applications", am.RequirePermission(services.PermViewAllApplications), hm.adminHandler.Applications)
		admin.GET("/applications/export", am.RequirePermission(services.PermExportApplications), hm.adminHandler.Export)
		admin.POST("/updatestatus", am.RequirePermission(services.PermViewAllApplications), hm.adminHandler.UpdateStatus)

		stats := admin.Group("/stats")
		stats.Use(am.RequirePermission(services.PermViewStats))
		{
			stats.GET("", hm.statsHandler.GetDashboardStats)
			stats.GET("/recent", hm.statsHandler.GetRecentActivities)
			stats.GET("/status", hm.statsHandler.GetStatusDistribution)
			stats.GET("/top-jobs", hm.statsHandler.GetTopJobs)
		}
	}

	employer := router.Group("/employer")
	employer.Use(am.RequirePermission(services.PermManageProfile))
	{
		employer.GET("/dashboard", hm.employerHandler.Dashboard)
		employer.GET("/profile", hm.employerHandler.Profile)
		employer.POST("/profile", hm.employerHandler.UpdateProfile)
		employer.GET("/applications", hm.employerHandler.JobApplications)
		employer.POST("/updateapplicationstatus", hm.employerHandler.UpdateApplicationStatus)
	}

	job := router.Group("/job")
	{
		// Public
		job.GET("/index", hm.jobHandler.Index)
		job.GET("/details/:id", hm.jobHandler.Details)

		job.POST("/apply", am.RequirePermission(services.PermApply), hm.jobHandler.Apply)
		job.POST("/approve/:id", am.RequirePermission(services.PermApproveJob), hm.jobHandler.Approve)

		// Admin and Employer; ownership is checked per job
		manage := job.Group("")
		manage.Use(am.RequirePermission(services.PermManageJobs))
		{
			manage.GET("/managejobs", hm.jobHandler.ManageJobs)
			manage.GET("/create", hm.jobHandler.CreateForm)
			manage.POST("/create", hm.jobHandler.Create)
			manage.GET("/edit/:id", hm.jobHandler.EditForm)
			manage.POST("/edit/:id", hm.jobHandler.Edit)
			manage.GET("/delete/:id", hm.jobHandler.DeleteForm)
			manage.POST("/deleteconfirmed/:id", hm.jobHandler.DeleteConfirmed)
		}

		job.POST("/reviewapplication", am.RequirePermission(services.PermReviewApplication), hm.jobHandler.ReviewApplication)
		job.GET("/downloadcv/:applicationId", am.RequirePermission(services.PermDownloadCV), hm.jobHandler.DownloadCV)
	}

	if hm.uploadRoot != "" {
		// only top-level registration logos; CVs live below uploads/ and are
		// reachable through /job/downloadcv alone
		router.GET("/uploads/:name", hm.serveRegistrationLogo)
		router.Static("/images", filepath.Join(hm.uploadRoot, "images"))
	}

	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, redirectHome)
	})

	// Health check endpoint
	router.GET("/health", hm.health)
}

func (hm *HandlerManager) serveRegistrationLogo(c *gin.Context) {
	name := c.Param("name")
	full := filepath.Join(hm.uploadRoot, "uploads", name)
	info, err := os.Stat(full)
	if strings.Contains(name, "..") || err != nil || !info.Mode().IsRegular() {
		c.Status(http.StatusNotFound)
		return
	}
	c.File(full)
}

func (hm *HandlerManager) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	if err := hm.serviceManager.HealthCheck(ctx); err != nil {
		hm.userHandler.LogError(c, err, "Health check failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "unhealthy",
			"service": "jobboard-service",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "jobboard-service",
	})
}
