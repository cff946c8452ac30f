// pkg/pagination/pagination.go
package helper

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

const (
	DefaultPage = 1
)

type Options struct {
	DefaultPerPage int
	MaxPerPage     int
}

// ===== Preset =====
var (
	DefaultOpts = Options{DefaultPerPage: 50, MaxPerPage: 200}
	ExportOpts  = Options{DefaultPerPage: 10_000, MaxPerPage: 10_000}
)

type Paging struct {
	Page     int
	PageSize int
}

func (p Paging) Limit() int  { return p.PageSize }
func (p Paging) Offset() int { return (p.Page - 1) * p.PageSize }

// Meta untuk response: {page,pageSize,total,totalPages}
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

func atoiDefault(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return n
}

// ResolvePaging membaca ?page= & ?pageSize= (alias lama ?per_page=) lalu normalisasi.
func ResolvePaging(c *fiber.Ctx, opt Options) Paging {
	page := atoiDefault(c.Query("page"), DefaultPage)
	if page < 1 {
		page = DefaultPage
	}

	raw := c.Query("pageSize")
	if strings.TrimSpace(raw) == "" {
		raw = c.Query("per_page")
	}
	size := atoiDefault(raw, opt.DefaultPerPage)
	if size < 1 {
		size = opt.DefaultPerPage
	}
	if opt.MaxPerPage > 0 && size > opt.MaxPerPage {
		size = opt.MaxPerPage
	}
	return Paging{Page: page, PageSize: size}
}

// BuildPagination: totalPages = ceil(total / pageSize), 0 kalau kosong
func BuildPagination(total int64, p Paging) Pagination {
	totalPages := 0
	if total > 0 && p.PageSize > 0 {
		totalPages = int((total + int64(p.PageSize) - 1) / int64(p.PageSize))
	}
	return Pagination{
		Page:       p.Page,
		PageSize:   p.PageSize,
		Total:      total,
		TotalPages: totalPages,
	}
}
