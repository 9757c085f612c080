package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/SAP-F-2025/jobboard-service/internal/models"
	"github.com/SAP-F-2025/jobboard-service/internal/repositories"
)

// ===== RESPONSE DTOs =====

type DashboardStatsResponse struct {
	Overview DashboardOverview `json:"overview"`
	Metrics  DashboardMetrics  `json:"metrics"`
	Trends   DashboardTrends   `json:"trends"`
}

type DashboardOverview struct {
	TotalJobs         int64                     `json:"total_jobs"`
	ApprovedJobs      int64                     `json:"approved_jobs"`
	PendingJobs       int64                     `json:"pending_jobs"`
	TotalApplications int64                     `json:"total_applications"`
	UsersByRole       map[models.UserRole]int64 `json:"users_by_role"`
}

type DashboardMetrics struct {
	ApprovalRate       float64 `json:"approval_rate"`
	AcceptanceRate     float64 `json:"acceptance_rate"`
	ApplicationsPerJob float64 `json:"applications_per_job"`
}

// DashboardTrends compares the last period days with the period before it, in percent
type DashboardTrends struct {
	PeriodDays         int     `json:"period_days"`
	JobsChange         float64 `json:"jobs_change"`
	ApplicationsChange float64 `json:"applications_change"`
}

type RecentActivityResponse struct {
	ApplicationID uint                     `json:"application_id"`
	JobID         uint                     `json:"job_id"`
	JobTitle      string                   `json:"job_title"`
	Company       string                   `json:"company"`
	Applicant     string                   `json:"applicant"`
	Status        models.ApplicationStatus `json:"status"`
	AppliedDate   time.Time                `json:"applied_date"`
	TimeAgo       string                   `json:"time_ago"`
}

type StatusDistributionResponse struct {
	Status     models.ApplicationStatus `json:"status"`
	Count      int64                    `json:"count"`
	Percentage float64                  `json:"percentage"`
}

// ===== SERVICE INTERFACE =====

type DashboardService interface {
	GetDashboardStats(ctx context.Context, actor Actor, period int) (*DashboardStatsResponse, error)
	GetRecentActivities(ctx context.Context, actor Actor, limit int) ([]RecentActivityResponse, error)
	GetStatusDistribution(ctx context.Context, actor Actor) ([]StatusDistributionResponse, error)
	GetTopJobs(ctx context.Context, actor Actor, limit int) ([]repositories.JobPopularityData, error)
}

// ===== SERVICE IMPLEMENTATION =====

type dashboardService struct {
	repo   repositories.Repository
	logger *slog.Logger
	now    func() time.Time
}

func NewDashboardService(repo repositories.Repository, logger *slog.Logger) DashboardService {
	return &dashboardService{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

func (s *dashboardService) GetDashboardStats(ctx context.Context, actor Actor, period int) (*DashboardStatsResponse, error) {
	if err := Authorize(actor, PermViewStats); err != nil {
		return nil, err
	}

	// Default: 30 days for trends
	if period <= 0 {
		period = 30
	}

	roles, err := s.repo.Dashboard().CountUsersByRole(ctx, nil)
	if err != nil {
		return nil, persistenceError(ctx, s.logger, "count users by role", err)
	}

	totalJobs, approvedJobs, err := s.repo.Dashboard().CountJobs(ctx, nil)
	if err != nil {
		return nil, persistenceError(ctx, s.logger, "count jobs", err)
	}

	totalApplications, err := s.repo.Dashboard().CountApplications(ctx, nil)
	if err != nil {
		return nil, persistenceError(ctx, s.logger, "count applications", err)
	}

	distribution, err := s.repo.Dashboard().GetStatusDistribution(ctx, nil)
	if err != nil {
		return nil, persistenceError(ctx, s.logger, "status distribution", err)
	}

	var accepted int64
	for _, d := range distribution {
		if d.Status == models.ApplicationAccepted || d.Status == models.ApplicationApproved {
			accepted += d.Count
		}
	}

	jobsChange, err := s.trendChange(ctx, "jobs", period)
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to get jobs trend", "error", err)
		jobsChange = 0
	}

	applicationsChange, err := s.trendChange(ctx, "applications", period)
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to get applications trend", "error", err)
		applicationsChange = 0
	}

	usersByRole := make(map[models.UserRole]int64, len(roles))
	for _, r := range roles {
		usersByRole[r.Role] = r.Count
	}

	return &DashboardStatsResponse{
		Overview: DashboardOverview{
			TotalJobs:         totalJobs,
			ApprovedJobs:      approvedJobs,
			PendingJobs:       totalJobs - approvedJobs,
			TotalApplications: totalApplications,
			UsersByRole:       usersByRole,
		},
		Metrics: DashboardMetrics{
			ApprovalRate:       roundFloat(percentage(approvedJobs, totalJobs), 1),
			AcceptanceRate:     roundFloat(percentage(accepted, totalApplications), 1),
			ApplicationsPerJob: roundFloat(ratio(totalApplications, totalJobs), 1),
		},
		Trends: DashboardTrends{
			PeriodDays:         period,
			JobsChange:         roundFloat(jobsChange, 1),
			ApplicationsChange: roundFloat(applicationsChange, 1),
		},
	}, nil
}

// trendChange is the percent change between the last days and the window before it
func (s *dashboardService) trendChange(ctx context.Context, entity string, days int) (float64, error) {
	now := s.now().UTC()
	currentStart := now.AddDate(0, 0, -days)
	previousStart := now.AddDate(0, 0, -days*2)

	current, err := s.repo.Dashboard().CountCreatedBetween(ctx, nil, entity, currentStart, now.Add(time.Second))
	if err != nil {
		return 0, err
	}
	previous, err := s.repo.Dashboard().CountCreatedBetween(ctx, nil, entity, previousStart, currentStart)
	if err != nil {
		return 0, err
	}

	if previous == 0 {
		if current > 0 {
			return 100, nil
		}
		return 0, nil
	}

	return float64(current-previous) / float64(previous) * 100, nil
}

func (s *dashboardService) GetRecentActivities(ctx context.Context, actor Actor, limit int) ([]RecentActivityResponse, error) {
	if err := Authorize(actor, PermViewStats); err != nil {
		return nil, err
	}

	if limit <= 0 || limit > 50 {
		limit = 10
	}

	applications, err := s.repo.Dashboard().GetRecentApplications(ctx, nil, limit)
	if err != nil {
		return nil, persistenceError(ctx, s.logger, "recent applications", err)
	}

	now := s.now()
	response := make([]RecentActivityResponse, len(applications))
	for i, a := range applications {
		item := RecentActivityResponse{
			ApplicationID: a.ID,
			JobID:         a.JobID,
			Status:        a.Status,
			AppliedDate:   a.AppliedDate,
			TimeAgo:       formatTimeAgo(now.Sub(a.AppliedDate)),
		}
		if a.Job != nil {
			item.JobTitle = a.Job.Title
			item.Company = a.Job.Company
			if a.Job.Employer != nil && a.Job.Employer.CompanyName != "" {
				item.Company = a.Job.Employer.CompanyName
			}
		}
		if a.User != nil {
			item.Applicant = a.User.Username
		}
		response[i] = item
	}

	return response, nil
}

func (s *dashboardService) GetStatusDistribution(ctx context.Context, actor Actor) ([]StatusDistributionResponse, error) {
	if err := Authorize(actor, PermViewStats); err != nil {
		return nil, err
	}

	distribution, err := s.repo.Dashboard().GetStatusDistribution(ctx, nil)
	if err != nil {
		return nil, persistenceError(ctx, s.logger, "status distribution", err)
	}

	var total int64
	for _, d := range distribution {
		total += d.Count
	}

	response := make([]StatusDistributionResponse, len(distribution))
	for i, d := range distribution {
		response[i] = StatusDistributionResponse{
			Status:     d.Status,
			Count:      d.Count,
			Percentage: roundFloat(percentage(d.Count, total), 1),
		}
	}

	return response, nil
}

func (s *dashboardService) GetTopJobs(ctx context.Context, actor Actor, limit int) ([]repositories.JobPopularityData, error) {
	if err := Authorize(actor, PermViewStats); err != nil {
		return nil, err
	}

	if limit <= 0 || limit > 20 {
		limit = 5
	}

	jobs, err := s.repo.Dashboard().GetTopJobs(ctx, nil, limit)
	if err != nil {
		return nil, persistenceError(ctx, s.logger, "top jobs", err)
	}

	return jobs, nil
}

// ===== HELPER FUNCTIONS =====

func percentage(part, total int64) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

func ratio(a, b int64) float64 {
	if b == 0 {
		return 0
	}
	return float64(a) / float64(b)
}

func roundFloat(val float64, precision int) float64 {
	p := math.Pow(10, float64(precision))
	return math.Round(val*p) / p
}

func formatTimeAgo(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return plural(int(d.Minutes()), "minute")
	case d < 24*time.Hour:
		return plural(int(d.Hours()), "hour")
	case d < 7*24*time.Hour:
		return plural(int(d.Hours()/24), "day")
	case d < 30*24*time.Hour:
		return plural(int(d.Hours()/(24*7)), "week")
	case d < 365*24*time.Hour:
		return plural(int(d.Hours()/(24*30)), "month")
	default:
		return plural(int(d.Hours()/(24*365)), "year")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}
