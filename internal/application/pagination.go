package application

import (
	"github.com/platebook/platebook/internal/domain/apperr"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 50
)

// Page is a validated 1-based pagination request.
type Page struct {
	Number int
	Limit  int
}

// NewPage validates raw pagination values. Zero values take the defaults;
// negative or oversized values are rejected.
func NewPage(page, limit int) (Page, error) {
	if page == 0 {
		page = 1
	}
	if limit == 0 {
		limit = defaultPageLimit
	}
	if page < 1 {
		return Page{}, apperr.New(apperr.KindValidation, "page must be 1 or greater")
	}
	if limit < 1 || limit > maxPageLimit {
		return Page{}, apperr.New(apperr.KindValidation, "limit must be between 1 and %d", maxPageLimit)
	}
	return Page{Number: page, Limit: limit}, nil
}

func (p Page) Offset() int {
	return (p.Number - 1) * p.Limit
}

// TotalPages computes the page count for a total at this page size.
func (p Page) TotalPages(total int) int {
	if total <= 0 {
		return 0
	}
	return (total + p.Limit - 1) / p.Limit
}
