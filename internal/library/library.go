// Package library ties the catalog store and folder reconciler together for
// the front ends: the TUI, the CLI subcommands and the MCP server.
package library

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/jwulff/cinedex/internal/db"
	"github.com/jwulff/cinedex/internal/scan"
)

var (
	ErrEmptyTitle      = errors.New("title is required")
	ErrEmptyFilename   = errors.New("filename is required")
	ErrInvalidFilename = errors.New("filename must name an entry directly inside the watched folder")
	ErrEntryMissing    = errors.New("entry not found in watched folder")
)

// Options configures a Library.
type Options struct {
	Folder      string
	Placeholder string
	Reviewers   [2]string
	Logger      *slog.Logger
}

// Library is the catalog as the user sees it: a store plus the watched folder.
type Library struct {
	store     *db.Store
	scanner   *scan.Reconciler
	folder    string
	reviewers [2]string
	logger    *slog.Logger
	opener    func(path string) error
}

// New creates the watched folder if needed and returns a Library over it.
func New(store *db.Store, opts Options) (*Library, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	scanner, err := scan.ForFolder(opts.Folder, store, opts.Placeholder, logger.With("component", "scan"))
	if err != nil {
		return nil, err
	}
	return &Library{
		store:     store,
		scanner:   scanner,
		folder:    opts.Folder,
		reviewers: opts.Reviewers,
		logger:    logger,
		opener:    openPath,
	}, nil
}

// Folder returns the watched folder path.
func (l *Library) Folder() string { return l.folder }

// Reviewers returns the two reviewer display names.
func (l *Library) Reviewers() [2]string { return l.reviewers }

// Scan reconciles the watched folder once.
func (l *Library) Scan() (scan.Result, error) {
	return l.scanner.Reconcile()
}

// Refresh reconciles the watched folder and returns the sorted listing.
// Front ends call it at startup, on manual refresh and after every edit.
func (l *Library) Refresh(sort db.Sort) ([]db.Media, error) {
	if _, err := l.Scan(); err != nil {
		return nil, err
	}
	return l.store.List(sort)
}

// List returns the sorted listing without scanning.
func (l *Library) List(sort db.Sort) ([]db.Media, error) {
	return l.store.List(sort)
}

// Get returns a record by id, or nil.
func (l *Library) Get(id int64) (*db.Media, error) {
	return l.store.GetByID(id)
}

// Add validates the form values, creates an empty file for the entry when
// nothing of that name exists in the watched folder, then inserts the record.
func (l *Library) Add(title, filename, link string) (int64, error) {
	title = strings.TrimSpace(title)
	filename = strings.TrimSpace(filename)
	link = strings.TrimSpace(link)

	if title == "" {
		return 0, ErrEmptyTitle
	}
	if filename == "" {
		return 0, ErrEmptyFilename
	}
	if !validEntryName(filename) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidFilename, filename)
	}

	if err := l.touch(filename); err != nil {
		return 0, err
	}

	id, err := l.store.Create(db.NewMedia{Title: title, Filename: filename, Link: link})
	if err != nil {
		return 0, err
	}
	l.logger.Info("added media", "id", id, "filename", filename)
	return id, nil
}

func (l *Library) touch(filename string) error {
	f, err := os.OpenFile(l.Path(filename), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil
		}
		return fmt.Errorf("create entry %q: %w", filename, err)
	}
	return f.Close()
}

func validEntryName(name string) bool {
	return name != "." && name != ".." && filepath.Base(name) == name && !strings.ContainsAny(name, `/\`)
}

// Save applies an edit. A set title must not be blank.
func (l *Library) Save(id int64, e db.Edit) error {
	if e.Title != nil {
		t := strings.TrimSpace(*e.Title)
		if t == "" {
			return ErrEmptyTitle
		}
		e.Title = &t
	}
	if e.Link != nil {
		link := strings.TrimSpace(*e.Link)
		e.Link = &link
	}
	return l.store.Update(id, e)
}

// Delete removes the record only; the entry on disk stays.
func (l *Library) Delete(id int64) error {
	if err := l.store.Delete(id); err != nil {
		return err
	}
	l.logger.Info("deleted media record", "id", id)
	return nil
}

// DefaultLink is the record's link, or its path relative to the folder's
// parent when no link was set.
func (l *Library) DefaultLink(m db.Media) string {
	if m.Link != "" {
		return m.Link
	}
	return filepath.Join(filepath.Base(l.folder), m.Filename)
}

// Path returns the on-disk location of an entry in the watched folder.
func (l *Library) Path(filename string) string {
	return filepath.Join(l.folder, filename)
}

// Open launches the system handler for the record's file or folder.
func (l *Library) Open(m db.Media) error {
	path := l.Path(m.Filename)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrEntryMissing, path)
		}
		return fmt.Errorf("stat %s: %w", path, err)
	}
	return l.opener(path)
}
