package util

import (
	"math"
	"strconv"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100

	// MaxPage keeps (page-1)*limit inside an int32 for any allowed limit.
	MaxPage = math.MaxInt32 / MaxPageSize
)

type Page struct {
	Page  int
	Limit int
}

func ParseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

// Clamp forces page into [1, MaxPage] and limit into [1, MaxPageSize].
func Clamp(page, limit int) Page {
	if page < 1 {
		page = 1
	}
	if page > MaxPage {
		page = MaxPage
	}
	if limit < 1 {
		limit = 1
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return Page{Page: page, Limit: limit}
}

// FromQuery clamps raw query values; empty or non-numeric values use the defaults.
func FromQuery(page, limit string) Page {
	return Clamp(ParseIntDefault(page, DefaultPage), ParseIntDefault(limit, DefaultPageSize))
}

func (p Page) Offset() int {
	return (p.Page - 1) * p.Limit
}

func (p Page) TotalPages(total int64) int64 {
	if total == 0 {
		return 0
	}
	return (total + int64(p.Limit) - 1) / int64(p.Limit)
}
