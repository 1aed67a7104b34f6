// Package scan keeps the catalog in step with the watched folder.
//
// Reconciliation is additive only: entries that vanish from the folder keep
// their records, and records that already exist are never rewritten, so user
// edits survive every rescan.
package scan

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/jwulff/cinedex/internal/db"
)

// DefaultPlaceholder is skipped during scans; it only keeps an empty folder in version control.
const DefaultPlaceholder = ".gitkeep"

// Catalog is the part of the store the reconciler needs.
type Catalog interface {
	GetByFilename(filename string) (*db.Media, error)
	Create(m db.NewMedia) (int64, error)
}

// Reconciler inserts a record for every top-level entry of a folder that has none.
type Reconciler struct {
	fsys        fs.FS
	catalog     Catalog
	placeholder string
	logger      *slog.Logger
}

// Result summarizes one reconciliation pass.
type Result struct {
	Scanned  int      // entries considered, placeholder excluded
	Added    []string // filenames that got a new record
	Existing int      // entries that already had a record
}

// New creates a Reconciler over fsys. A nil logger discards output.
func New(fsys fs.FS, catalog Catalog, placeholder string, logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Reconciler{
		fsys:        fsys,
		catalog:     catalog,
		placeholder: placeholder,
		logger:      logger,
	}
}

// ForFolder creates the folder if needed and returns a Reconciler over it.
func ForFolder(folder string, catalog Catalog, placeholder string, logger *slog.Logger) (*Reconciler, error) {
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return nil, fmt.Errorf("create watched folder: %w", err)
	}
	return New(os.DirFS(folder), catalog, placeholder, logger), nil
}

// Reconcile scans the folder's direct children and creates records for new ones.
func (r *Reconciler) Reconcile() (Result, error) {
	var res Result

	entries, err := fs.ReadDir(r.fsys, ".")
	if err != nil {
		return res, fmt.Errorf("read watched folder: %w", err)
	}

	for _, e := range entries {
		name := e.Name()
		if name == r.placeholder {
			continue
		}
		res.Scanned++

		existing, err := r.catalog.GetByFilename(name)
		if err != nil {
			return res, fmt.Errorf("lookup %q: %w", name, err)
		}
		if existing != nil {
			res.Existing++
			continue
		}

		title := DefaultTitle(name, r.isDir(e))
		if _, err := r.catalog.Create(db.NewMedia{Title: title, Filename: name}); err != nil {
			return res, fmt.Errorf("add %q: %w", name, err)
		}
		res.Added = append(res.Added, name)
		r.logger.Info("cataloged new entry", "filename", name, "title", title)
	}

	r.logger.Debug("reconciled watched folder",
		"scanned", res.Scanned, "added", len(res.Added), "existing", res.Existing)
	return res, nil
}

// isDir follows symlinks so a linked show folder counts as a folder.
func (r *Reconciler) isDir(e fs.DirEntry) bool {
	if e.Type()&fs.ModeSymlink == 0 {
		return e.IsDir()
	}
	info, err := fs.Stat(r.fsys, e.Name())
	if err != nil {
		return false
	}
	return info.IsDir()
}

// DefaultTitle derives a record title from an entry name. Files lose their
// extension; folders keep their name. Leading dots never count as an extension.
func DefaultTitle(name string, isDir bool) string {
	if isDir {
		return name
	}
	ext := filepath.Ext(strings.TrimLeft(name, "."))
	if ext == "" {
		return name
	}
	return strings.TrimSuffix(name, ext)
}
