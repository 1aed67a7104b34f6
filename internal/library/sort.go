package library

import (
	"strings"

	"github.com/jwulff/cinedex/internal/db"
)

// SortLabel is the user-facing name of a sort field.
func (l *Library) SortLabel(f db.SortField) string {
	switch f {
	case db.SortTitle:
		return "Title"
	case db.SortRatingA:
		return l.reviewers[0] + " rating"
	case db.SortRatingB:
		return l.reviewers[1] + " rating"
	}
	return "Added"
}

// ParseSortLabel maps a user-facing label or a column name to a sort field.
func (l *Library) ParseSortLabel(label string) (db.SortField, error) {
	for _, f := range []db.SortField{db.SortTitle, db.SortRatingA, db.SortRatingB} {
		if strings.EqualFold(strings.TrimSpace(label), l.SortLabel(f)) {
			return f, nil
		}
	}
	return db.ParseSortField(label)
}
