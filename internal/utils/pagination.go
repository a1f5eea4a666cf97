// internal/utils/pagination.go
package utils

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
)

// ReservedQueryKeys never reach the attribute filter.
var ReservedQueryKeys = map[string]bool{
	"page":  true,
	"limit": true,
	"sort":  true,
	"q":     true,
}

type PaginationParams struct {
	Page   int    `json:"page"`
	Limit  int    `json:"limit"`
	Sort   string `json:"sort"`
	Search string `json:"q"`
}

type PaginationResult struct {
	Items      interface{} `json:"items"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	Limit      int         `json:"limit"`
	TotalPages int         `json:"total_pages"`
}

// GetPaginationParams reads page/limit/sort/q. Missing, non-numeric or
// non-positive values fall back to the defaults. Limit has no upper bound.
func GetPaginationParams(c *gin.Context) PaginationParams {
	return PaginationParams{
		Page:   parsePositive(c.Query("page"), DefaultPage),
		Limit:  parsePositive(c.Query("limit"), DefaultLimit),
		Sort:   c.Query("sort"),
		Search: c.Query("q"),
	}
}

func (p PaginationParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

func parsePositive(raw string, def int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return def
	}
	return n
}

func ApplyPagination(db *gorm.DB, params PaginationParams) *gorm.DB {
	return db.Offset(params.Offset()).Limit(params.Limit)
}

// ApplySort orders by a whitelisted expression keyed by the sort name,
// falling back to fallback when the name is unknown.
func ApplySort(db *gorm.DB, sort string, allowed map[string]string, fallback string) *gorm.DB {
	order, ok := allowed[sort]
	if !ok {
		order = allowed[fallback]
	}
	return db.Order(order)
}

func CreatePaginationResult(items interface{}, total int64, params PaginationParams) PaginationResult {
	totalPages := 0
	if params.Limit > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(params.Limit)))
	}

	return PaginationResult{
		Items:      items,
		Total:      total,
		Page:       params.Page,
		Limit:      params.Limit,
		TotalPages: totalPages,
	}
}

func SetPaginationHeaders(c *gin.Context, result PaginationResult) {
	c.Header("X-Total-Count", strconv.FormatInt(result.Total, 10))
	c.Header("X-Page", strconv.Itoa(result.Page))
	c.Header("X-Per-Page", strconv.Itoa(result.Limit))
	c.Header("X-Total-Pages", strconv.Itoa(result.TotalPages))
}
