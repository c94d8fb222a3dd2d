// file: internals/helpers/pagination.go
package helper

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

const DefaultPage = 1

type Options struct {
	DefaultPerPage int
	MaxPerPage     int
}

// ===== Preset =====
var (
	DefaultOpts = Options{DefaultPerPage: 25, MaxPerPage: 200}
	AdminOpts   = Options{DefaultPerPage: 50, MaxPerPage: 500}
)

type Params struct {
	Page      int
	PerPage   int
	SortBy    string
	SortOrder string // asc|desc
}

// ParseFiber membaca ?page= &per_page= (alias ?limit=) + sort dari query string.
func ParseFiber(c *fiber.Ctx, defaultSortBy, defaultSortOrder string, opt Options) Params {
	page := atoiDefault(c.Query("page"), DefaultPage)
	if page < 1 {
		page = DefaultPage
	}

	per := opt.DefaultPerPage
	perRaw := strings.TrimSpace(firstNonEmpty(c.Query("per_page"), c.Query("limit")))
	if n, err := strconv.Atoi(perRaw); err == nil && n > 0 {
		per = n
	}
	if per > opt.MaxPerPage {
		per = opt.MaxPerPage
	}
	if per < 1 {
		per = opt.DefaultPerPage
	}

	sortBy := strings.TrimSpace(c.Query("sort_by"))
	if sortBy == "" {
		sortBy = defaultSortBy
	}
	order := strings.ToLower(strings.TrimSpace(firstNonEmpty(c.Query("order"), c.Query("sort"))))
	if order != "asc" && order != "desc" {
		order = strings.ToLower(defaultSortOrder)
		if order != "asc" && order != "desc" {
			order = "desc"
		}
	}

	return Params{Page: page, PerPage: per, SortBy: sortBy, SortOrder: order}
}

func (p Params) Limit() int  { return p.PerPage }
func (p Params) Offset() int { return (p.Page - 1) * p.PerPage }

// ORDER BY aman (kolom dari whitelist). sort_by di luar whitelist jatuh ke
// defaultKey; error hanya kalau defaultKey sendiri tidak terdaftar.
func (p Params) SafeOrderClause(allowed map[string]string, defaultKey string) (string, error) {
	key := p.SortBy
	if key == "" {
		key = defaultKey
	}
	col, ok := allowed[key]
	if !ok {
		col, ok = allowed[defaultKey]
		if !ok {
			return "", fmt.Errorf("no valid default sort key")
		}
	}
	dir := "DESC"
	if strings.ToLower(p.SortOrder) == "asc" {
		dir = "ASC"
	}
	return "ORDER BY " + col + " " + dir, nil
}

type Meta struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

func BuildMeta(total int64, p Params) Meta {
	pages := int(math.Ceil(float64(total) / float64(p.PerPage)))
	if pages < 1 {
		pages = 1
	}
	return Meta{
		Page:       p.Page,
		PerPage:    p.PerPage,
		Total:      total,
		TotalPages: pages,
		HasNext:    p.Page < pages,
		HasPrev:    p.Page > 1,
	}
}

func atoiDefault(s string, def int) int {
	if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
		return n
	}
	return def
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
