// Package db provides SQLite storage for the media catalog.
package db

// Media is one cataloged entry of the watched folder: a movie file or a show folder.
type Media struct {
	ID       int64
	Title    string
	Filename string
	RatingA  float64
	RatingB  float64
	WatchedA bool
	WatchedB bool
	Link     string
}

// NewMedia carries the values for an insert. Zero values match the column defaults.
type NewMedia struct {
	Title    string
	Filename string
	Link     string
	RatingA  float64
	RatingB  float64
	WatchedA bool
	WatchedB bool
}

// Edit is a sparse update. Nil fields are left unchanged.
type Edit struct {
	Title    *string
	RatingA  *float64
	RatingB  *float64
	WatchedA *bool
	WatchedB *bool
	Link     *string
}

// IsEmpty reports whether the edit sets no fields.
func (e Edit) IsEmpty() bool {
	return e.Title == nil && e.RatingA == nil && e.RatingB == nil &&
		e.WatchedA == nil && e.WatchedB == nil && e.Link == nil
}

// Ptr returns a pointer to v. Convenience for building edits.
func Ptr[T any](v T) *T { return &v }
