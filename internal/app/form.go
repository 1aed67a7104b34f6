package app

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/jwulff/cinedex/internal/db"
	"github.com/jwulff/cinedex/internal/library"
	"github.com/jwulff/cinedex/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
)

type fieldKind int

const (
	textField fieldKind = iota
	checkField
)

type formField struct {
	label   string
	kind    fieldKind
	input   textinput.Model
	checked bool
}

// Edit form field order.
const (
	editTitle = iota
	editRatingA
	editRatingB
	editWatchedA
	editWatchedB
	editLink
)

// Add form field order.
const (
	addTitle = iota
	addFilename
	addLink
)

// form is the modal add/edit dialog.
type form struct {
	adding   bool
	id       int64
	filename string // read-only when editing
	fields   []formField
	focus    int
	err      string
}

func newTextField(label, value, placeholder string) formField {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = placeholder
	ti.CharLimit = 512
	ti.SetValue(value)
	return formField{label: label, kind: textField, input: ti}
}

func newCheckField(label string, checked bool) formField {
	return formField{label: label, kind: checkField, checked: checked}
}

func newEditForm(m db.Media, link string, reviewers [2]string) form {
	f := form{
		id:       m.ID,
		filename: m.Filename,
		fields: []formField{
			editTitle:    newTextField("Title", m.Title, ""),
			editRatingA:  newTextField(reviewers[0]+" rating", formatRating(m.RatingA), "0"),
			editRatingB:  newTextField(reviewers[1]+" rating", formatRating(m.RatingB), "0"),
			editWatchedA: newCheckField(reviewers[0]+" watched", m.WatchedA),
			editWatchedB: newCheckField(reviewers[1]+" watched", m.WatchedB),
			editLink:     newTextField("Link", link, ""),
		},
	}
	f.focusField(editTitle)
	return f
}

func newAddForm() form {
	f := form{
		adding: true,
		fields: []formField{
			addTitle:    newTextField("Title", "", ""),
			addFilename: newTextField("Filename", "", "movie.mp4"),
			addLink:     newTextField("Link", "", "optional"),
		},
	}
	f.focusField(addTitle)
	return f
}

func (f *form) focusField(i int) {
	for j := range f.fields {
		f.fields[j].input.Blur()
	}
	f.focus = i
	if f.fields[i].kind == textField {
		f.fields[i].input.Focus()
	}
}

func (f *form) next() {
	f.focusField((f.focus + 1) % len(f.fields))
}

func (f *form) prev() {
	f.focusField((f.focus - 1 + len(f.fields)) % len(f.fields))
}

// toggle flips the focused checkbox. It reports false when a text field has focus.
func (f *form) toggle() bool {
	field := &f.fields[f.focus]
	if field.kind != checkField {
		return false
	}
	field.checked = !field.checked
	return true
}

// update forwards a message to the focused text input.
func (f form) update(msg tea.Msg) (form, tea.Cmd) {
	field := &f.fields[f.focus]
	if field.kind != textField {
		return f, nil
	}
	var cmd tea.Cmd
	field.input, cmd = field.input.Update(msg)
	return f, cmd
}

func (f form) value(i int) string {
	return strings.TrimSpace(f.fields[i].input.Value())
}

// edit builds a full edit from the form, as the dialog saves every field.
func (f form) edit() (db.Edit, error) {
	title := f.value(editTitle)
	if title == "" {
		return db.Edit{}, library.ErrEmptyTitle
	}
	ratingA, err := parseRating(f.fields[editRatingA].label, f.value(editRatingA))
	if err != nil {
		return db.Edit{}, err
	}
	ratingB, err := parseRating(f.fields[editRatingB].label, f.value(editRatingB))
	if err != nil {
		return db.Edit{}, err
	}
	return db.Edit{
		Title:    db.Ptr(title),
		RatingA:  db.Ptr(ratingA),
		RatingB:  db.Ptr(ratingB),
		WatchedA: db.Ptr(f.fields[editWatchedA].checked),
		WatchedB: db.Ptr(f.fields[editWatchedB].checked),
		Link:     db.Ptr(f.value(editLink)),
	}, nil
}

func (f form) addValues() (title, filename, link string, err error) {
	title, filename, link = f.value(addTitle), f.value(addFilename), f.value(addLink)
	if title == "" || filename == "" {
		return "", "", "", fmt.Errorf("title and filename are required")
	}
	return title, filename, link, nil
}

// parseRating treats an empty input as 0 and rejects NaN and infinities.
func parseRating(label, s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%s must be a number", label)
	}
	return v, nil
}

func formatRating(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func (f form) view(width int) string {
	var lines []string
	if f.adding {
		lines = append(lines, ui.PanelTitleStyle.Render("Add media"))
	} else {
		lines = append(lines, ui.PanelTitleStyle.Render("Edit media"))
	}
	lines = append(lines, "")

	for i, field := range f.fields {
		label := ui.LabelStyle.Render(field.label)
		if i == f.focus {
			label = ui.SelectedStyle.Width(16).Render(field.label)
		}
		var value string
		switch field.kind {
		case checkField:
			value = "[ ]"
			if field.checked {
				value = "[x]"
			}
			if i == f.focus {
				value = ui.SelectedStyle.Render(value)
			}
		default:
			value = field.input.View()
		}
		lines = append(lines, label+value)

		// The filename is shown read-only right after the title when editing.
		if !f.adding && i == editTitle {
			lines = append(lines, ui.LabelStyle.Render("Filename")+ui.DimStyle.Render(f.filename))
		}
	}

	if f.err != "" {
		lines = append(lines, "", ui.ErrorTextStyle.Render(f.err))
	}

	boxWidth := max(40, min(width-4, 80))
	return ui.FormStyle.Width(boxWidth).Render(strings.Join(lines, "\n"))
}
