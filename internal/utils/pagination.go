package utils

import (
	"math"

	"github.com/SAP-F-2025/jobboard-service/internal/models"
)

const DefaultPageSize = 10

// Page is the skip/take window for one 1-based page of a listing.
type Page struct {
	Skip        int
	Take        int
	TotalPages  int
	CurrentPage int
	PageSize    int
	TotalItems  int64
}

// Paginate computes the window for page over totalItems rows. Out-of-range
// pages are not clamped: a page past the end simply selects nothing.
func Paginate(totalItems int64, page, pageSize int) Page {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	// saturate rather than wrap for absurd page numbers
	skip := math.MaxInt
	if page-1 <= math.MaxInt/pageSize {
		skip = (page - 1) * pageSize
	}

	return Page{
		Skip:        skip,
		Take:        pageSize,
		TotalPages:  int((totalItems + int64(pageSize) - 1) / int64(pageSize)),
		CurrentPage: page,
		PageSize:    pageSize,
		TotalItems:  totalItems,
	}
}

func (p Page) Info() models.PageInfo {
	return models.PageInfo{
		CurrentPage: p.CurrentPage,
		PageSize:    p.PageSize,
		TotalItems:  p.TotalItems,
		TotalPages:  p.TotalPages,
	}
}
