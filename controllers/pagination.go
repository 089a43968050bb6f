package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// PostsPerPage is the fixed page size for every feed listing.
const PostsPerPage = 10

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// requestedPage reads ?page= leniently: absent, non-numeric or sub-1 values
// all mean page 1.
func requestedPage(c *gin.Context) int {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	return page
}

// paginate clamps the requested page into the valid range and returns the
// offset to fetch plus the page metadata. Out-of-range requests land on the
// last page instead of erroring; an empty result set still has a valid
// page 1.
func paginate(total int64, page, limit int) (int, Pagination) {
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}
	offset := (page - 1) * limit

	return offset, Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
	}
}
