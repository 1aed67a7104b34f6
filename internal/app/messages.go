package app

import "github.com/jwulff/cinedex/internal/db"

// MediaLoadedMsg carries a fresh listing from the store.
type MediaLoadedMsg struct {
	Media []db.Media
}

// StoreErrorMsg is sent when a catalog operation fails.
type StoreErrorMsg struct {
	Op  string
	Err error
}

// SavedMsg is sent after an add, edit or delete succeeds.
type SavedMsg struct {
	Status string
}

// OpenErrorMsg is sent when the system opener cannot launch an entry.
type OpenErrorMsg struct {
	Err error
}

// ClearTransientErrorMsg clears a transient error after a timeout.
type ClearTransientErrorMsg struct{}
