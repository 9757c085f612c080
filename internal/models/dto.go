package models

import "time"

// ===== ERROR RESPONSES =====

// ErrorResponse is returned for every failed request. Redirect names the safe
// page a browser client should return to.
type ErrorResponse struct {
	Error     string      `json:"error,omitempty"`
	Message   string      `json:"message"`
	Details   interface{} `json:"details,omitempty"`
	Redirect  string      `json:"redirect,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Path      string      `json:"path,omitempty"`
}

type SuccessResponse struct {
	Message   string      `json:"message,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Redirect  string      `json:"redirect,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// ===== LIST DTOs =====

type PageInfo struct {
	CurrentPage int   `json:"current_page"`
	PageSize    int   `json:"page_size"`
	TotalItems  int64 `json:"total_items"`
	TotalPages  int   `json:"total_pages"`
}

type JobPage struct {
	Jobs []*Job `json:"jobs"`
	PageInfo
}

type ApplicationPage struct {
	Applications []*Application `json:"applications"`
	PageInfo
}

type EmployerDashboard struct {
	Employer     *EmployerProfile `json:"employer"`
	Applications *ApplicationPage `json:"applications"`
}

type CompanyOption struct {
	ID          uint   `json:"id"`
	CompanyName string `json:"company_name"`
}

type JobFormOptions struct {
	JobTypes  []JobType       `json:"job_types"`
	Companies []CompanyOption `json:"companies,omitempty"`
}
