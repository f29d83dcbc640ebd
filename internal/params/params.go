package params

import (
	"net/url"
	"strconv"
	"strings"
)

const (
	DefaultLimit = 15
	MaxLimit     = 30
)

// Pagination describes one page of a listing. Limit, Page and Offset come
// from the query string; the rest is filled by ComputeMeta once the total is
// known.
type Pagination struct {
	Limit      int  `json:"limit"`
	Offset     int  `json:"offset"`
	Page       int  `json:"page"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

// ParsePagination reads ?limit=&page= (case sensitive). Bad values fall back
// to the defaults; limit is capped at MaxLimit.
func ParsePagination(q url.Values) Pagination {
	p := Pagination{
		Limit: DefaultLimit,
		Page:  1,
	}

	if limitStr := strings.TrimSpace(q.Get("limit")); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil {
			switch {
			case limit <= 0:
				p.Limit = DefaultLimit
			case limit > MaxLimit:
				p.Limit = MaxLimit
			default:
				p.Limit = limit
			}
		}
	}

	if pageStr := strings.TrimSpace(q.Get("page")); pageStr != "" {
		if page, err := strconv.Atoi(pageStr); err == nil && page > 0 {
			p.Page = page
		}
	}

	p.Offset = (p.Page - 1) * p.Limit
	return p
}

// ComputeMeta updates pagination after fetching total count.
func (p *Pagination) ComputeMeta(total int) {
	p.Total = total
	if p.Limit > 0 {
		p.TotalPages = (total + p.Limit - 1) / p.Limit
	}
	p.HasPrev = p.Page > 1
	p.HasNext = p.Page*p.Limit < total
}
