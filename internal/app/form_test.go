package app

import (
	"errors"
	"testing"

	"github.com/jwulff/cinedex/internal/db"
	"github.com/jwulff/cinedex/internal/library"
)

func TestParseRating(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"", 0, false},
		{"7", 7, false},
		{"8.25", 8.25, false},
		{"-1", -1, false},
		{"great", 0, true},
		{"NaN", 0, true},
		{"inf", 0, true},
		{"-Inf", 0, true},
	}
	for _, tt := range tests {
		got, err := parseRating("Li rating", tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseRating(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parseRating(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestEditFormPrefill(t *testing.T) {
	rec := db.Media{ID: 7, Title: "Ran", Filename: "ran.mkv", RatingA: 9.5, WatchedB: true}
	f := newEditForm(rec, "movie/ran.mkv", [2]string{"Li", "Peng"})

	if f.value(editTitle) != "Ran" || f.value(editRatingA) != "9.5" || f.value(editRatingB) != "0" {
		t.Errorf("prefill = %q/%q/%q", f.value(editTitle), f.value(editRatingA), f.value(editRatingB))
	}
	if f.fields[editWatchedA].checked || !f.fields[editWatchedB].checked {
		t.Error("watched checkboxes not prefilled")
	}
	if f.fields[editRatingA].label != "Li rating" {
		t.Errorf("label = %q", f.fields[editRatingA].label)
	}

	e, err := f.edit()
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if *e.Title != "Ran" || *e.RatingA != 9.5 || !*e.WatchedB || *e.Link != "movie/ran.mkv" {
		t.Errorf("edit = %+v", e)
	}
}

func TestEditFormBlankTitle(t *testing.T) {
	f := newEditForm(db.Media{Title: "x"}, "", [2]string{"A", "B"})
	f.fields[editTitle].input.SetValue("   ")

	if _, err := f.edit(); !errors.Is(err, library.ErrEmptyTitle) {
		t.Errorf("err = %v, want ErrEmptyTitle", err)
	}
}

func TestFormFocusWraps(t *testing.T) {
	f := newAddForm()
	f.prev()
	if f.focus != addLink {
		t.Errorf("prev from first field = %d, want %d", f.focus, addLink)
	}
	f.next()
	if f.focus != addTitle {
		t.Errorf("next from last field = %d, want %d", f.focus, addTitle)
	}
	if f.toggle() {
		t.Error("toggle on a text field should report false")
	}
}
