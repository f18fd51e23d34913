package pagination

import (
	"strconv"

	"github.com/ecoexplorer/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

const (
	DefaultPage = 1
	DefaultSize = 10
	MaxSize     = 100
)

// Query holds parsed pagination parameters.
type Query struct {
	Page int
	Size int
}

// FromContext extracts and validates pagination params from the request.
// defSize is used when the request has no usable size.
func FromContext(c *gin.Context, defSize int) Query {
	if defSize < 1 {
		defSize = DefaultSize
	}
	return Normalize(
		parseIntOr(c.Query("page"), DefaultPage),
		parseIntOr(c.Query("size"), defSize),
		defSize,
	)
}

// Normalize clamps page and size into their valid ranges.
func Normalize(page, size, defSize int) Query {
	if page < 1 {
		page = DefaultPage
	}
	if size < 1 {
		size = defSize
	}
	if size > MaxSize {
		size = MaxSize
	}
	return Query{Page: page, Size: size}
}

// Slice returns the page of items selected by q along with its metadata.
// A page past the end yields an empty slice.
func Slice[T any](items []T, q Query) ([]T, response.Pagination) {
	q = Normalize(q.Page, q.Size, DefaultSize)
	total := len(items)
	totalPage := (total + q.Size - 1) / q.Size

	start := (q.Page - 1) * q.Size
	if start > total {
		start = total
	}
	end := start + q.Size
	if end > total {
		end = total
	}

	page := make([]T, end-start)
	copy(page, items[start:end])
	return page, response.Pagination{
		Total:       int64(total),
		CurrentPage: q.Page,
		TotalPage:   totalPage,
		Size:        q.Size,
		HasNextPage: q.Page < totalPage,
	}
}

func parseIntOr(s string, def int) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
