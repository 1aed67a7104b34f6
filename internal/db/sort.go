package db

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidSortField is returned for a sort name that maps to no column.
var ErrInvalidSortField = errors.New("invalid sort field")

// SortField selects the column a listing is ordered by.
type SortField int

const (
	SortDefault SortField = iota // primary-key order
	SortTitle
	SortRatingA
	SortRatingB
)

var sortColumns = map[SortField]string{
	SortDefault: "id",
	SortTitle:   "title",
	SortRatingA: "rating_a",
	SortRatingB: "rating_b",
}

// String returns the column name, or "" for SortDefault.
func (f SortField) String() string {
	if f == SortDefault {
		return ""
	}
	return sortColumns[f]
}

// Next cycles title -> rating_a -> rating_b -> title.
func (f SortField) Next() SortField {
	switch f {
	case SortTitle:
		return SortRatingA
	case SortRatingA:
		return SortRatingB
	default:
		return SortTitle
	}
}

// ParseSortField maps a column name to a SortField. An empty name is SortDefault.
func ParseSortField(name string) (SortField, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return SortDefault, nil
	}
	for f, col := range sortColumns {
		if f != SortDefault && col == name {
			return f, nil
		}
	}
	return SortDefault, fmt.Errorf("%w: %q", ErrInvalidSortField, name)
}

// SortOrder is the listing direction.
type SortOrder int

const (
	Ascending SortOrder = iota
	Descending
)

func (o SortOrder) String() string {
	if o == Descending {
		return "DESC"
	}
	return "ASC"
}

// Toggle flips the direction.
func (o SortOrder) Toggle() SortOrder {
	if o == Descending {
		return Ascending
	}
	return Descending
}

// ParseSortOrder accepts asc/desc in any case. Empty means Ascending.
func ParseSortOrder(s string) (SortOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "asc", "ascending":
		return Ascending, nil
	case "desc", "descending":
		return Descending, nil
	}
	return Ascending, fmt.Errorf("invalid sort order %q", s)
}

// Sort combines field and direction for List.
type Sort struct {
	Field SortField
	Order SortOrder
}

// orderBy builds the ORDER BY clause. The column comes from a fixed map,
// never from caller input. id breaks ties so equal keys list stably.
func (s Sort) orderBy() (string, error) {
	col, ok := sortColumns[s.Field]
	if !ok {
		return "", fmt.Errorf("%w: %d", ErrInvalidSortField, int(s.Field))
	}
	if s.Field == SortDefault {
		return fmt.Sprintf("ORDER BY id %s", s.Order), nil
	}
	return fmt.Sprintf("ORDER BY %s %s, id ASC", col, s.Order), nil
}
