package feed

import (
	"strconv"
	"strings"
)

const (
	DefaultLimit = 10
	MaxLimit     = 50
)

// Pagination is a resolved page request.
type Pagination struct {
	Page   int
	Limit  int
	Offset int
}

// Paginate resolves raw page/limit values. page < 1 becomes 1 and a limit above MaxLimit
// becomes MaxLimit. Missing, non-numeric or non-positive values fall back to 1 and DefaultLimit.
func Paginate(pageRaw, limitRaw string) Pagination {
	page, err := strconv.Atoi(strings.TrimSpace(pageRaw))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(strings.TrimSpace(limitRaw))
	switch {
	case err != nil || limit < 1:
		limit = DefaultLimit
	case limit > MaxLimit:
		limit = MaxLimit
	}
	return Pagination{Page: page, Limit: limit, Offset: (page - 1) * limit}
}

// PageInfo describes where a page sits in the full result set.
type PageInfo struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
	HasNext    bool  `json:"hasNext"`
	HasPrev    bool  `json:"hasPrev"`
}

// NewPageInfo computes page counts from the total number of matches.
func NewPageInfo(p Pagination, total int64) PageInfo {
	totalPages := int((total + int64(p.Limit) - 1) / int64(p.Limit))
	return PageInfo{
		Page:       p.Page,
		Limit:      p.Limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    p.Page < totalPages,
		HasPrev:    p.Page > 1,
	}
}
