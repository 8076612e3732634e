package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const MaxLimit = 1000

// PaginationParams pages by ascending segment id. Limit 0 means no paging.
type PaginationParams struct {
	Limit int
	After *int64
}

type CursorResponse struct {
	NextCursor string `json:"next_cursor,omitempty"`
	HasMore    bool   `json:"has_more"`
}

func ParsePagination(c *gin.Context) PaginationParams {
	var p PaginationParams

	if limitStr := c.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			p.Limit = l
		}
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}

	if afterStr := c.Query("after"); afterStr != "" {
		if id, err := strconv.ParseInt(afterStr, 10, 64); err == nil {
			p.After = &id
		}
	}

	return p
}
