package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"github.com/SAP-F-2025/jobboard-service/internal/models"
	"github.com/SAP-F-2025/jobboard-service/internal/repositories"
)

const (
	exportSheet      = "Applications"
	exportDateLayout = "2006-01-02 15:04"
)

var exportHeaders = []string{"ID", "Job", "Company", "Applicant", "Email", "Status", "Applied", "CV"}

type exportService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewExportService(repo repositories.Repository, logger *slog.Logger) ExportService {
	return &exportService{
		repo:   repo,
		logger: logger,
	}
}

func (s *exportService) ExportApplications(ctx context.Context, actor Actor, w io.Writer) error {
	if err := Authorize(actor, PermExportApplications); err != nil {
		return err
	}

	applications, _, err := s.repo.Application().List(ctx, nil, repositories.ApplicationFilters{})
	if err != nil {
		return persistenceError(ctx, s.logger, "list applications for export", err)
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.Warn("Failed to close workbook", "error", err)
		}
	}()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	sw, err := f.NewStreamWriter(exportSheet)
	if err != nil {
		return fmt.Errorf("open stream writer: %w", err)
	}

	header := make([]interface{}, len(exportHeaders))
	for i, h := range exportHeaders {
		header[i] = h
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, a := range applications {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, exportRow(a)); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flush sheet: %w", err)
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}

	s.logger.Info("Applications exported", "rows", len(applications), "admin_id", actor.UserID)
	return nil
}

func exportRow(a *models.Application) []interface{} {
	var jobTitle, company, applicant, email, cv string
	if a.Job != nil {
		jobTitle = a.Job.Title
		company = a.Job.Company
		if a.Job.Employer != nil {
			company = a.Job.Employer.CompanyName
		}
	}
	if a.User != nil {
		applicant = a.User.Username
		email = a.User.Email
	}
	if a.HasCV() {
		cv = *a.CVFileName
	}

	return []interface{}{
		a.ID,
		jobTitle,
		company,
		applicant,
		email,
		string(a.Status),
		a.AppliedDate.UTC().Format(exportDateLayout),
		cv,
	}
}
