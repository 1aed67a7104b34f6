package app

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/jwulff/cinedex/internal/db"
	"github.com/jwulff/cinedex/internal/library"
	"github.com/jwulff/cinedex/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
)

// Mode tracks which view has keyboard focus.
type Mode int

const (
	ModeBrowse Mode = iota
	ModeForm
	ModeConfirmDelete
)

// Model is the root bubbletea model for the cinedex TUI.
type Model struct {
	lib  *library.Library
	keys keyMap

	// Listing
	table table.Model
	media []db.Media
	sort  db.Sort

	// Dialogs
	mode    Mode
	form    form
	pending *db.Media // delete target awaiting confirmation

	// UI state
	width   int
	height  int
	loading bool

	// Status and errors
	statusText     string
	lastAction     string // save/add/delete result shown with the next listing
	statusSuccess  bool
	errorMessage   string
	errorTransient bool
}

// New creates a Model over lib, sorted by title ascending.
func New(lib *library.Library) Model {
	t := table.New(
		table.WithColumns(columns(lib.Reviewers(), 80)),
		table.WithFocused(true),
		table.WithHeight(20),
	)
	t.SetStyles(ui.TableStyles())

	return Model{
		lib:        lib,
		keys:       defaultKeyMap(),
		table:      t,
		sort:       db.Sort{Field: db.SortTitle, Order: db.Ascending},
		loading:    true,
		statusText: "Scanning " + lib.Folder() + "...",
	}
}

// Init scans the watched folder and loads the listing.
func (m Model) Init() tea.Cmd {
	return refreshCmd(m.lib, m.sort)
}

// refreshCmd reconciles the watched folder, then lists.
func refreshCmd(lib *library.Library, sort db.Sort) tea.Cmd {
	return func() tea.Msg {
		media, err := lib.Refresh(sort)
		if err != nil {
			return StoreErrorMsg{Op: "refresh", Err: err}
		}
		return MediaLoadedMsg{Media: media}
	}
}

// listCmd reloads the listing without scanning, for sort changes.
func listCmd(lib *library.Library, sort db.Sort) tea.Cmd {
	return func() tea.Msg {
		media, err := lib.List(sort)
		if err != nil {
			return StoreErrorMsg{Op: "list", Err: err}
		}
		return MediaLoadedMsg{Media: media}
	}
}

func saveCmd(lib *library.Library, id int64, e db.Edit) tea.Cmd {
	return func() tea.Msg {
		if err := lib.Save(id, e); err != nil {
			return StoreErrorMsg{Op: "save", Err: err}
		}
		return SavedMsg{Status: "Saved"}
	}
}

func addCmd(lib *library.Library, title, filename, link string) tea.Cmd {
	return func() tea.Msg {
		if _, err := lib.Add(title, filename, link); err != nil {
			return StoreErrorMsg{Op: "add", Err: err}
		}
		return SavedMsg{Status: fmt.Sprintf("Added %q", title)}
	}
}

func deleteCmd(lib *library.Library, rec db.Media) tea.Cmd {
	return func() tea.Msg {
		if err := lib.Delete(rec.ID); err != nil {
			return StoreErrorMsg{Op: "delete", Err: err}
		}
		return SavedMsg{Status: fmt.Sprintf("Deleted %q (file kept)", rec.Title)}
	}
}

func openCmd(lib *library.Library, rec db.Media) tea.Cmd {
	return func() tea.Msg {
		if err := lib.Open(rec); err != nil {
			return OpenErrorMsg{Err: err}
		}
		return nil
	}
}

// clearTransientErrorCmd fires after a delay to clear transient errors.
func clearTransientErrorCmd() tea.Cmd {
	return tea.Tick(5*time.Second, func(time.Time) tea.Msg {
		return ClearTransientErrorMsg{}
	})
}

// Update processes messages and returns the updated model and any commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetColumns(columns(m.lib.Reviewers(), m.width))
		m.table.SetWidth(m.width)
		m.table.SetHeight(m.tableHeight())
		return m, nil

	case MediaLoadedMsg:
		m.loading = false
		m.media = msg.Media
		m.table.SetRows(rows(m.media))
		if m.table.Cursor() >= len(m.media) {
			m.table.SetCursor(max(0, len(m.media)-1))
		}
		m.statusText = fmt.Sprintf("%d entries", len(m.media))
		m.statusSuccess = m.lastAction != ""
		if m.statusSuccess {
			m.statusText = m.lastAction + " · " + m.statusText
			m.lastAction = ""
		}
		return m, nil

	case SavedMsg:
		m.mode = ModeBrowse
		m.pending = nil
		m.lastAction = msg.Status
		m.statusText = msg.Status
		m.statusSuccess = true
		return m, refreshCmd(m.lib, m.sort)

	case StoreErrorMsg:
		m.loading = false
		if m.mode == ModeForm {
			// Keep the dialog open so the user can correct the input.
			m.form.err = msg.Err.Error()
			return m, nil
		}
		m.mode = ModeBrowse
		m.pending = nil
		m.errorMessage = fmt.Sprintf("%s: %v", msg.Op, msg.Err)
		m.errorTransient = false
		return m, nil

	case OpenErrorMsg:
		m.errorMessage = msg.Err.Error()
		m.errorTransient = true
		return m, clearTransientErrorCmd()

	case ClearTransientErrorMsg:
		if m.errorTransient {
			m.errorMessage = ""
			m.errorTransient = false
		}
		return m, nil
	}

	if m.mode == ModeForm {
		var cmd tea.Cmd
		m.form, cmd = m.form.update(msg)
		return m, cmd
	}
	return m, nil
}

// handleKey routes key presses to the active mode.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	switch m.mode {
	case ModeForm:
		return m.handleFormKey(msg)
	case ModeConfirmDelete:
		return m.handleConfirmKey(msg)
	}
	return m.handleBrowseKey(msg)
}

func (m Model) handleBrowseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Refresh):
		m.errorMessage = ""
		m.statusText = "Scanning " + m.lib.Folder() + "..."
		m.statusSuccess = false
		return m, refreshCmd(m.lib, m.sort)

	case key.Matches(msg, m.keys.Sort):
		m.sort.Field = m.sort.Field.Next()
		return m, listCmd(m.lib, m.sort)

	case key.Matches(msg, m.keys.Order):
		m.sort.Order = m.sort.Order.Toggle()
		return m, listCmd(m.lib, m.sort)

	case key.Matches(msg, m.keys.Add):
		m.form = newAddForm()
		m.mode = ModeForm
		return m, nil

	case key.Matches(msg, m.keys.Edit):
		rec, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.form = newEditForm(rec, m.lib.DefaultLink(rec), m.lib.Reviewers())
		m.mode = ModeForm
		return m, nil

	case key.Matches(msg, m.keys.Delete):
		rec, ok := m.selected()
		if !ok {
			m.errorMessage = "Select an entry to delete first"
			m.errorTransient = true
			return m, clearTransientErrorCmd()
		}
		m.pending = &rec
		m.mode = ModeConfirmDelete
		return m, nil

	case key.Matches(msg, m.keys.Open):
		rec, ok := m.selected()
		if !ok {
			return m, nil
		}
		return m, openCmd(m.lib, rec)
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Yes):
		rec := *m.pending
		return m, deleteCmd(m.lib, rec)
	case key.Matches(msg, m.keys.No):
		m.mode = ModeBrowse
		m.pending = nil
	}
	return m, nil
}

func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.mode = ModeBrowse
		return m, nil

	case key.Matches(msg, m.keys.Next):
		m.form.next()
		return m, nil

	case key.Matches(msg, m.keys.Prev):
		m.form.prev()
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		return m.submitForm()

	case key.Matches(msg, m.keys.Toggle):
		if m.form.toggle() {
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.form, cmd = m.form.update(msg)
	return m, cmd
}

func (m Model) submitForm() (tea.Model, tea.Cmd) {
	m.form.err = ""
	if m.form.adding {
		title, filename, link, err := m.form.addValues()
		if err != nil {
			m.form.err = err.Error()
			return m, nil
		}
		return m, addCmd(m.lib, title, filename, link)
	}

	e, err := m.form.edit()
	if err != nil {
		m.form.err = err.Error()
		return m, nil
	}
	return m, saveCmd(m.lib, m.form.id, e)
}

// selected returns the record under the table cursor.
func (m Model) selected() (db.Media, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.media) {
		return db.Media{}, false
	}
	return m.media[i], true
}

func (m Model) tableHeight() int {
	if m.height == 0 {
		return 20
	}
	// Reserve: header(1) + status(1) + divider(2) + error(1) + footer(1)
	return max(5, m.height-6)
}

func columns(reviewers [2]string, width int) []table.Column {
	const idW, ratingW, watchedW = 5, 10, 10
	fixed := idW + 2*ratingW + 2*watchedW + 7*2 // cell padding
	flex := max(20, width-fixed)
	titleW := flex / 2
	fileW := flex - titleW

	return []table.Column{
		{Title: "ID", Width: idW},
		{Title: "Title", Width: titleW},
		{Title: "Filename", Width: fileW},
		{Title: reviewers[0] + " rating", Width: ratingW},
		{Title: reviewers[1] + " rating", Width: ratingW},
		{Title: reviewers[0] + " seen", Width: watchedW},
		{Title: reviewers[1] + " seen", Width: watchedW},
	}
}

func rows(media []db.Media) []table.Row {
	out := make([]table.Row, 0, len(media))
	for _, r := range media {
		out = append(out, table.Row{
			strconv.FormatInt(r.ID, 10),
			r.Title,
			r.Filename,
			formatRating(r.RatingA),
			formatRating(r.RatingB),
			checkMark(r.WatchedA),
			checkMark(r.WatchedB),
		})
	}
	return out
}

func checkMark(b bool) string {
	if b {
		return "✓"
	}
	return ""
}

// View renders the full TUI.
func (m Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	var sections []string

	sections = append(sections, m.renderHeader())
	sections = append(sections, ui.DividerStyle.Render(strings.Repeat("─", m.width)))

	switch m.mode {
	case ModeForm:
		sections = append(sections, m.form.view(m.width))
	default:
		sections = append(sections, m.renderTable())
	}

	sections = append(sections, ui.DividerStyle.Render(strings.Repeat("─", m.width)))

	if m.mode == ModeConfirmDelete && m.pending != nil {
		sections = append(sections, ui.ConfirmStyle.Render(
			fmt.Sprintf("Delete %q? Only the catalog record is removed, not the file. (y/n)", m.pending.Title)))
	}

	if m.errorMessage != "" {
		sections = append(sections, m.renderErrorBar())
	}

	sections = append(sections, m.renderFooter())

	return strings.Join(sections, "\n")
}

func (m Model) renderHeader() string {
	title := ui.TitleStyle.Render("CINEDEX")
	folder := ui.DimStyle.Render(" — " + m.lib.Folder())

	arrow := "↑"
	if m.sort.Order == db.Descending {
		arrow = "↓"
	}
	sortBadge := ui.SortBadgeStyle.Render(fmt.Sprintf("  %s %s", m.lib.SortLabel(m.sort.Field), arrow))
	statusStyle := ui.StatusStyle
	if m.statusSuccess {
		statusStyle = ui.SuccessStyle
	}
	status := statusStyle.Render("  " + m.statusText)

	return title + folder + sortBadge + status
}

func (m Model) renderTable() string {
	if m.loading {
		return ui.DimStyle.Render("  Loading...")
	}
	if len(m.media) == 0 {
		return ui.DimStyle.Render("  Nothing cataloged yet. Drop files or folders into " +
			m.lib.Folder() + " and press r.")
	}
	return m.table.View()
}

func (m Model) renderErrorBar() string {
	return ui.ErrorStyle.Render("Error: ") + ui.ErrorTextStyle.Render(m.errorMessage)
}

func (m Model) renderFooter() string {
	var bindings []key.Binding
	switch m.mode {
	case ModeForm:
		bindings = []key.Binding{m.keys.Next, m.keys.Toggle, m.keys.Submit, m.keys.Cancel}
	case ModeConfirmDelete:
		return ui.FooterKeyStyle.Render("y") + ui.FooterDescStyle.Render(" Delete") + "  " +
			ui.FooterKeyStyle.Render("n") + ui.FooterDescStyle.Render(" Cancel")
	default:
		bindings = []key.Binding{
			m.keys.Edit, m.keys.Add, m.keys.Delete, m.keys.Open,
			m.keys.Sort, m.keys.Order, m.keys.Refresh, m.keys.Quit,
		}
	}

	var parts []string
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, ui.FooterKeyStyle.Render(h.Key)+ui.FooterDescStyle.Render(" "+h.Desc))
	}
	return strings.Join(parts, "  ")
}
