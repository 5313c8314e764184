package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/thesavant42/recordsearch/internal/models"
	"github.com/thesavant42/recordsearch/internal/search"
	"github.com/thesavant42/recordsearch/internal/viewer"
)

// focusArea is the form element receiving keys
type focusArea int

const (
	focusStart focusArea = iota
	focusEnd
	focusFilter
	focusValue
	focusSubmit
	focusResults
)

// recordsLoadedMsg carries a finished fetch back into Update
type recordsLoadedMsg struct {
	result viewer.Result
}

// SearchOptions configures the interactive search page
type SearchOptions struct {
	Form    search.FormOptions
	Fetcher viewer.Fetcher
	Logger  *log.Logger
	// ExportDir receives markdown exports; "" means the working directory
	ExportDir string
}

// SearchModel is the bubbletea model for the record search page:
// a form on top and the results area below it.
type SearchModel struct {
	PageState

	form   *search.Form
	viewer *viewer.Viewer
	logger *log.Logger

	startInput textinput.Model
	endInput   textinput.Model
	valueInput textinput.Model
	filters    []models.FilterField
	filterIdx  int
	focus      focusArea

	spinner   spinner.Model
	table     table.Model
	snapshot  viewer.Snapshot
	exportDir string
}

// NewSearchModel creates the search page with an empty form and idle results
func NewSearchModel(opts SearchOptions) SearchModel {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	layout := DefaultLayout()

	m := SearchModel{
		PageState:  NewPageState(layout),
		form:       search.NewForm(opts.Form),
		viewer:     viewer.New(opts.Fetcher, logger),
		logger:     logger,
		startInput: newDateTimeInput(),
		endInput:   newDateTimeInput(),
		valueInput: newValueInput(),
		filters:    models.FilterFields(),
		spinner:    NewAppSpinner(),
		exportDir:  opts.ExportDir,
	}
	m.table = InitTable(tableColumnsFor(RecordColumns(), layout), nil, layout)
	m.setFocus(focusStart)
	return m
}

func newDateTimeInput() textinput.Model {
	ti := textinput.New()
	ti.Placeholder = search.DateTimeLayout
	ti.CharLimit = 32
	ti.Width = 24
	ti.Prompt = "> "
	return ti
}

func newValueInput() textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "value"
	ti.CharLimit = 128
	ti.Width = 40
	ti.Prompt = "> "
	return ti
}

// Form exposes the underlying search form
func (m SearchModel) Form() *search.Form { return m.form }

// Results returns the current results snapshot
func (m SearchModel) Results() viewer.Snapshot { return m.snapshot }

// Init implements tea.Model
func (m SearchModel) Init() tea.Cmd {
	return tea.Batch(StandardInit(), textinput.Blink)
}

// Update implements tea.Model
func (m SearchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m.ClearExpiredStatus()

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if m.UpdateLayout(msg.Width, msg.Height) {
			m.resizeTable()
		}
		return m, nil

	case recordsLoadedMsg:
		if m.viewer.Apply(msg.result) {
			m.refreshResults()
		}
		return m, nil

	case spinner.TickMsg:
		if m.snapshot.State != viewer.Loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m SearchModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if quit, cmd := HandleQuitKeysNoQ(key); quit {
		m.viewer.Reset()
		m.Quitting = true
		return m, cmd
	}

	switch key {
	case "tab":
		m.setFocus(m.nextFocus(1))
		return m, nil
	case "shift+tab":
		m.setFocus(m.nextFocus(-1))
		return m, nil
	case "up", "down":
		if m.focus != focusResults {
			step := 1
			if key == "up" {
				step = -1
			}
			m.setFocus(m.nextFocus(step))
			return m, nil
		}
	case "enter":
		if m.focus != focusResults {
			cmd := m.submit()
			return m, cmd
		}
		return m, nil
	case "ctrl+s":
		m.exportResults()
		return m, nil
	}

	var cmd tea.Cmd
	switch m.focus {
	case focusStart:
		cmd = m.updateInput(&m.startInput, msg, m.form.SetStart)
	case focusEnd:
		cmd = m.updateInput(&m.endInput, msg, m.form.SetEnd)
	case focusValue:
		cmd = m.updateInput(&m.valueInput, msg, m.form.SetFilterValue)
	case focusFilter:
		switch key {
		case "left", "h":
			m.cycleFilter(-1)
		case "right", "l", " ":
			m.cycleFilter(1)
		}
	case focusResults:
		m.table, cmd = m.table.Update(msg)
	}
	return m, cmd
}

// updateInput forwards a key to a text input and pushes any change into the form.
// Any edit hides the results of the previous submit.
func (m *SearchModel) updateInput(ti *textinput.Model, msg tea.KeyMsg, set func(string)) tea.Cmd {
	before := ti.Value()
	var cmd tea.Cmd
	*ti, cmd = ti.Update(msg)
	if ti.Value() != before {
		set(ti.Value())
		m.hideResults()
	}
	return cmd
}

func (m *SearchModel) cycleFilter(step int) {
	if !m.form.AllowFilter() {
		return
	}
	m.filterIdx = (m.filterIdx + step + len(m.filters)) % len(m.filters)
	m.form.SetFilterField(m.filters[m.filterIdx])
	m.hideResults()
}

// hideResults un-mounts the results area; a late response for it is discarded
func (m *SearchModel) hideResults() {
	if m.snapshot.State == viewer.Idle {
		return
	}
	m.viewer.Reset()
	m.refreshResults()
	if m.focus == focusResults {
		m.setFocus(focusStart)
	}
}

// submit validates the form and, on success, starts exactly one fetch when the query changed
func (m *SearchModel) submit() tea.Cmd {
	q, err := m.form.Submit()
	if err != nil {
		m.logger.Debug("submit rejected", "errors", len(m.form.Errors()))
		m.viewer.Reset()
		m.refreshResults()
		return nil
	}

	// the shown results already belong to this query
	if m.snapshot.State != viewer.Idle && m.snapshot.Query.Equal(q) {
		m.logger.Debug("query unchanged, keeping results", "query", q.String())
		return nil
	}

	m.logger.Info("search submitted", "query", q.String())
	wasLoading := m.snapshot.State == viewer.Loading
	ticket := m.viewer.Begin(q)
	m.refreshResults()
	if wasLoading {
		// the spinner is already ticking
		return fetchRecordsCmd(m.viewer, ticket)
	}
	return tea.Batch(m.spinner.Tick, fetchRecordsCmd(m.viewer, ticket))
}

// fetchRecordsCmd runs the fetch off the update loop
func fetchRecordsCmd(v *viewer.Viewer, t viewer.Ticket) tea.Cmd {
	return func() tea.Msg {
		return recordsLoadedMsg{result: v.Fetch(t)}
	}
}

func (m *SearchModel) refreshResults() {
	m.snapshot = m.viewer.Snapshot()
	if m.snapshot.State == viewer.Populated {
		rows := make([]table.Row, 0, len(m.snapshot.Records))
		for _, r := range m.snapshot.Records {
			rows = append(rows, table.Row(r.Row()))
		}
		m.table.SetRows(rows)
		m.table.GotoTop()
	} else {
		m.table.SetRows(nil)
	}
}

func (m *SearchModel) resizeTable() {
	m.table.SetColumns(tableColumnsFor(RecordColumns(), m.Layout))
	m.table.SetHeight(m.Layout.TableHeight)
	m.table.SetWidth(m.Layout.TableWidth)
}

func (m *SearchModel) exportResults() {
	if m.snapshot.State != viewer.Populated && m.snapshot.State != viewer.Empty {
		m.SetStatus("Nothing to export", 3*time.Second)
		return
	}
	filename, err := ExportRecordsToMarkdown(m.exportDir, m.snapshot.Query, m.snapshot.Records, m.form.Location())
	if err != nil {
		m.logger.Error("export failed", "err", err)
		m.SetStatus("Export failed: "+err.Error(), 5*time.Second)
		return
	}
	m.logger.Info("results exported", "file", filename)
	m.SetStatus("Exported to "+filename, 5*time.Second)
}

// visible reports whether a focus area is currently shown
func (m SearchModel) visible(f focusArea) bool {
	switch f {
	case focusFilter:
		return m.form.AllowFilter()
	case focusValue:
		return m.form.AllowFilter() && m.currentFilter() != models.FilterNone
	case focusResults:
		return m.snapshot.State == viewer.Populated
	}
	return true
}

func (m SearchModel) nextFocus(step int) focusArea {
	const areas = int(focusResults) + 1
	f := m.focus
	for i := 0; i < areas; i++ {
		f = focusArea((int(f) + step + areas) % areas)
		if m.visible(f) {
			return f
		}
	}
	return m.focus
}

func (m *SearchModel) setFocus(f focusArea) {
	m.focus = f
	m.startInput.Blur()
	m.endInput.Blur()
	m.valueInput.Blur()
	m.table.Blur()

	switch f {
	case focusStart:
		m.startInput.Focus()
	case focusEnd:
		m.endInput.Focus()
	case focusValue:
		m.valueInput.Focus()
	case focusResults:
		m.table.Focus()
	}
}

func (m SearchModel) currentFilter() models.FilterField {
	return m.form.Draft().FilterField
}

// View implements tea.Model
func (m SearchModel) View() string {
	if m.Quitting {
		return ""
	}

	page := NewPageView(m.Layout).
		Title("Record Search").
		Subtitle(fmt.Sprintf("Times are %s local time (%s) or epoch seconds", m.form.Location(), search.DateTimeLayout)).
		Divider().
		Spacing(1).
		CustomContent(m.renderForm())

	switch m.snapshot.State {
	case viewer.Loading:
		page.Spacing(1).Text(m.spinner.View() + " Loading records...")
	case viewer.Error:
		page.Spacing(1).CustomContent(RenderError(m.snapshot.Message) + "\n")
	case viewer.Empty:
		page.Spacing(1).CustomContent(RenderWarning(viewer.MsgNoRecords) + "\n")
	case viewer.Populated:
		page.Spacing(1).
			QueryInfo(fmt.Sprintf("%d records for %s", len(m.snapshot.Records), search.DescribeQuery(m.snapshot.Query, m.form.Location()))).
			Table(m.table)
	}

	return page.
		Status(m.StatusMsg).
		Help(m.helpText()).
		Build()
}

func (m SearchModel) renderForm() string {
	var b strings.Builder

	writeField := func(label string, view string, field search.Field) {
		b.WriteString(LabelStyle.Render(label))
		b.WriteString(view)
		b.WriteString("\n")
		if msg := m.form.Error(field); msg != "" {
			b.WriteString(LabelStyle.Render(""))
			b.WriteString(RenderFieldError(msg))
			b.WriteString("\n")
		}
	}

	writeField(search.LabelStart, m.startInput.View(), search.FieldStart)
	writeField(search.LabelEnd, m.endInput.View(), search.FieldEnd)

	if m.form.AllowFilter() {
		writeField(search.LabelFilterField, m.renderFilterSelector(), search.FieldFilterField)
		if m.currentFilter() != models.FilterNone {
			writeField(search.LabelFilterValue, m.valueInput.View(), search.FieldFilterValue)
		}
	}

	b.WriteString("\n")
	if m.focus == focusSubmit {
		b.WriteString(ButtonFocusedStyle.Render("Submit"))
	} else {
		b.WriteString(ButtonStyle.Render("Submit"))
	}
	b.WriteString("\n")

	if banner := m.form.Banner(); banner != "" {
		b.WriteString("\n")
		b.WriteString(RenderError(banner))
		b.WriteString("\n")
	}
	return b.String()
}

func (m SearchModel) renderFilterSelector() string {
	current := m.currentFilter()
	parts := make([]string, 0, len(m.filters))
	for _, f := range m.filters {
		label := " " + f.Label() + " "
		switch {
		case f == current && m.focus == focusFilter:
			parts = append(parts, SelectedStyle.Render(label))
		case f == current:
			parts = append(parts, RenderAccent(label))
		default:
			parts = append(parts, DimStyle.Render(label))
		}
	}
	return strings.Join(parts, " ")
}

func (m SearchModel) helpText() string {
	switch m.focus {
	case focusFilter:
		return "left/right: change parameter | tab: next | enter: submit | esc: quit"
	case focusResults:
		return "up/down: scroll | tab: back to form | ctrl+s: export | esc: quit"
	}
	return "tab/shift+tab: move | enter: submit | ctrl+s: export | esc: quit"
}

// RunSearchTUI runs the interactive search page until the user quits
func RunSearchTUI(opts SearchOptions) error {
	m := NewSearchModel(opts)
	p := tea.NewProgram(m, tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("search TUI error: %w", err)
	}
	if fm, ok := final.(SearchModel); ok {
		fm.viewer.Reset()
	}
	return nil
}
