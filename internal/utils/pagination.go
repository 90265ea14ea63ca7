package utils

import (
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/club-backoffice/internal/constants"
)

// PaginationParams is a page window over a list query. A zero Limit means
// the whole list.
type PaginationParams struct {
	Page   int
	Limit  int
	Offset int
}

// PaginationResponse is the "pagination" block of list responses.
type PaginationResponse struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

type pageQuery struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}

// GetPaginationParams reads ?page= and ?limit=. Values that do not parse or
// fall out of range are replaced by the defaults.
func GetPaginationParams(c *gin.Context) PaginationParams {
	var q pageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		q = pageQuery{}
	}
	return NewPaginationParams(q.Page, q.Limit)
}

// NewPaginationParams clamps page and limit and computes the offset.
func NewPaginationParams(page, limit int) PaginationParams {
	if page < 1 {
		page = 1
	}
	if limit < constants.MinPageSize || limit > constants.MaxPageSize {
		limit = constants.DefaultPageSize
	}
	return PaginationParams{Page: page, Limit: limit, Offset: (page - 1) * limit}
}

// Response describes the page params selected out of total rows.
func (p PaginationParams) Response(total int64) PaginationResponse {
	resp := PaginationResponse{Page: p.Page, Limit: p.Limit, Total: total}
	if p.Limit > 0 {
		resp.TotalPages = int((total + int64(p.Limit) - 1) / int64(p.Limit))
		resp.HasNext = int64(p.Offset+p.Limit) < total
	}
	return resp
}
