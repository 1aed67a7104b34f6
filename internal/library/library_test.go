package library

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jwulff/cinedex/internal/db"
)

func newTestLibrary(t *testing.T) (*Library, *db.Store) {
	t.Helper()

	root := t.TempDir()
	store, err := db.Open(filepath.Join(root, "catalog.sqlite"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	lib, err := New(store, Options{
		Folder:      filepath.Join(root, "movie"),
		Placeholder: ".gitkeep",
		Reviewers:   [2]string{"Li", "Peng"},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return lib, store
}

func TestRefreshScansThenLists(t *testing.T) {
	lib, _ := newTestLibrary(t)

	os.WriteFile(lib.Path("b.mkv"), nil, 0o644)
	os.WriteFile(lib.Path("a.mkv"), nil, 0o644)
	os.WriteFile(lib.Path(".gitkeep"), nil, 0o644)

	media, err := lib.Refresh(db.Sort{Field: db.SortTitle})
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if len(media) != 2 {
		t.Fatalf("got %d records, want 2", len(media))
	}
	if media[0].Title != "a" || media[1].Title != "b" {
		t.Errorf("titles = %q, %q; want a, b", media[0].Title, media[1].Title)
	}
}

func TestAddCreatesEmptyFile(t *testing.T) {
	lib, store := newTestLibrary(t)

	id, err := lib.Add("  Solaris ", "solaris.mkv", " https://example.com ")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	info, err := os.Stat(lib.Path("solaris.mkv"))
	if err != nil {
		t.Fatalf("entry not created: %v", err)
	}
	if info.Size() != 0 {
		t.Errorf("size = %d, want 0", info.Size())
	}

	m, _ := store.GetByID(id)
	if m == nil || m.Title != "Solaris" || m.Link != "https://example.com" {
		t.Errorf("record = %+v", m)
	}

	// A rescan must not add a second record for the created file.
	if _, err := lib.Refresh(db.Sort{}); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if n, _ := store.Count(); n != 1 {
		t.Errorf("count = %d, want 1", n)
	}
}

func TestAddKeepsExistingEntry(t *testing.T) {
	lib, _ := newTestLibrary(t)

	if err := os.WriteFile(lib.Path("real.mkv"), []byte("data"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := lib.Add("Real", "real.mkv", ""); err != nil {
		t.Fatalf("Add: %v", err)
	}
	data, _ := os.ReadFile(lib.Path("real.mkv"))
	if string(data) != "data" {
		t.Errorf("existing file overwritten: %q", data)
	}
}

func TestAddValidation(t *testing.T) {
	lib, store := newTestLibrary(t)

	tests := []struct {
		title, filename string
		want            error
	}{
		{"", "a.mkv", ErrEmptyTitle},
		{"   ", "a.mkv", ErrEmptyTitle},
		{"A", "", ErrEmptyFilename},
		{"A", "../escape.mkv", ErrInvalidFilename},
		{"A", "sub/dir.mkv", ErrInvalidFilename},
		{"A", "..", ErrInvalidFilename},
	}
	for _, tt := range tests {
		if _, err := lib.Add(tt.title, tt.filename, ""); !errors.Is(err, tt.want) {
			t.Errorf("Add(%q, %q) err = %v, want %v", tt.title, tt.filename, err, tt.want)
		}
	}
	if n, _ := store.Count(); n != 0 {
		t.Errorf("count = %d, want 0 after rejected adds", n)
	}
}

func TestSave(t *testing.T) {
	lib, store := newTestLibrary(t)

	id, _ := store.Create(db.NewMedia{Title: "T", Filename: "t.mkv"})

	if err := lib.Save(id, db.Edit{Title: db.Ptr("  ")}); !errors.Is(err, ErrEmptyTitle) {
		t.Errorf("blank title err = %v, want ErrEmptyTitle", err)
	}

	err := lib.Save(id, db.Edit{Title: db.Ptr(" New "), RatingA: db.Ptr(6.5), WatchedA: db.Ptr(true)})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	m, _ := store.GetByID(id)
	if m.Title != "New" || m.RatingA != 6.5 || !m.WatchedA || m.RatingB != 0 {
		t.Errorf("record = %+v", *m)
	}
}

func TestDeleteLeavesFile(t *testing.T) {
	lib, store := newTestLibrary(t)

	id, err := lib.Add("Keep me", "keep.mkv", "")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := lib.Delete(id); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if m, _ := store.GetByID(id); m != nil {
		t.Error("record still present")
	}
	if _, err := os.Stat(lib.Path("keep.mkv")); err != nil {
		t.Errorf("file removed: %v", err)
	}
}

func TestDefaultLink(t *testing.T) {
	lib, _ := newTestLibrary(t)

	if got := lib.DefaultLink(db.Media{Filename: "a.mkv"}); got != filepath.Join("movie", "a.mkv") {
		t.Errorf("DefaultLink = %q", got)
	}
	if got := lib.DefaultLink(db.Media{Filename: "a.mkv", Link: "http://x"}); got != "http://x" {
		t.Errorf("DefaultLink with link = %q", got)
	}
}

func TestOpen(t *testing.T) {
	lib, _ := newTestLibrary(t)

	var opened string
	lib.opener = func(path string) error {
		opened = path
		return nil
	}

	err := lib.Open(db.Media{Filename: "missing.mkv"})
	if !errors.Is(err, ErrEntryMissing) {
		t.Errorf("err = %v, want ErrEntryMissing", err)
	}

	os.Mkdir(lib.Path("showA"), 0o755)
	if err := lib.Open(db.Media{Filename: "showA"}); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if opened != lib.Path("showA") {
		t.Errorf("opened %q, want %q", opened, lib.Path("showA"))
	}
}

func TestSortLabels(t *testing.T) {
	lib, _ := newTestLibrary(t)

	if got := lib.SortLabel(db.SortRatingB); got != "Peng rating" {
		t.Errorf("SortLabel(rating_b) = %q", got)
	}

	tests := map[string]db.SortField{
		"Title":       db.SortTitle,
		"li rating":   db.SortRatingA,
		"Peng rating": db.SortRatingB,
		"rating_a":    db.SortRatingA,
		"":            db.SortDefault,
	}
	for label, want := range tests {
		got, err := lib.ParseSortLabel(label)
		if err != nil {
			t.Errorf("ParseSortLabel(%q): %v", label, err)
			continue
		}
		if got != want {
			t.Errorf("ParseSortLabel(%q) = %v, want %v", label, got, want)
		}
	}
	if _, err := lib.ParseSortLabel("Runtime"); !errors.Is(err, db.ErrInvalidSortField) {
		t.Errorf("err = %v, want ErrInvalidSortField", err)
	}
}
