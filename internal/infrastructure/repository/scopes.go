package repository

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// ILikeAnyScope matches term as a substring of any of the given columns.
// An empty term leaves the query unfiltered.
func ILikeAnyScope(term string, columns ...string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		trimmed := strings.TrimSpace(term)
		if trimmed == "" || len(columns) == 0 {
			return db
		}

		like := "%" + trimmed + "%"
		clauses := make([]string, len(columns))
		args := make([]interface{}, len(columns))
		for i, col := range columns {
			clauses[i] = col + " ILIKE ?"
			args[i] = like
		}
		return db.Where("("+strings.Join(clauses, " OR ")+")", args...)
	}
}

// DateRangeScope bounds column by start and end, both inclusive. Nil bounds are open.
func DateRangeScope(column string, start, end *time.Time) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if start != nil {
			db = db.Where(column+" >= ?", *start)
		}
		if end != nil {
			db = db.Where(column+" <= ?", *end)
		}
		return db
	}
}
