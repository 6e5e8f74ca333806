// Command lattice is a terminal table viewer demonstrating the engine: it
// renders view rows, forwards edit/sort/filter/select intents, and reports
// scroll proximity so the engine loads pages incrementally.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jacentio/lattice/dynamo"
	"github.com/jacentio/lattice/engine"
	"github.com/jacentio/lattice/source"
)

// styles
var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("8"))
	cursorStyle = lipgloss.NewStyle().Background(lipgloss.Color("4")).Foreground(lipgloss.Color("15"))
	newStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	editedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// nearBottomRows is the scroll-trigger threshold: when the cursor is within
// this many rows of the end of the loaded view, the next page is requested.
const nearBottomRows = 5

var columnWidths = map[engine.Field]int{
	engine.FieldName:        22,
	engine.FieldAddress:     24,
	engine.FieldLanguage:    10,
	engine.FieldVersion:     8,
	engine.FieldState:       6,
	engine.FieldCreatedDate: 12,
}

type mode int

const (
	modeNormal mode = iota
	modeEdit
	modeFilter
)

type model struct {
	eng    *engine.Engine
	width  int
	height int

	mode      mode
	cy, cx    int // cursor row (in view) and column
	scrollY   int
	editBuf   string
	filterBuf string
}

type changedMsg struct{}
type opDoneMsg struct{ err error }

func newModel(eng *engine.Engine) model {
	return model{eng: eng}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.listenChanges(), m.fetchNext())
}

// listenChanges waits for the engine's coalescing change signal.
func (m model) listenChanges() tea.Cmd {
	return func() tea.Msg {
		<-m.eng.Changes()
		return changedMsg{}
	}
}

func (m model) fetchNext() tea.Cmd {
	return func() tea.Msg {
		return opDoneMsg{err: m.eng.FetchNext(context.Background())}
	}
}

func (m model) retry() tea.Cmd {
	return func() tea.Msg {
		return opDoneMsg{err: m.eng.Retry(context.Background())}
	}
}

func (m model) scrollHint(rows int) tea.Cmd {
	near := rows-m.cy <= nearBottomRows
	return func() tea.Msg {
		return opDoneMsg{err: m.eng.ScrollNearBottom(context.Background(), near)}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case changedMsg:
		return m, m.listenChanges()
	case opDoneMsg:
		// Fetch failures surface through the engine status line.
		return m, nil
	case tea.KeyMsg:
		switch m.mode {
		case modeEdit:
			return m.updateEdit(msg)
		case modeFilter:
			return m.updateFilter(msg)
		}
		return m.updateNormal(msg)
	}
	return m, nil
}

func (m model) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	rows := m.eng.ViewRows()

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cy > 0 {
			m.cy--
		}
	case "down", "j":
		if m.cy < len(rows)-1 {
			m.cy++
		}
		return m, m.scrollHint(len(rows))
	case "left", "h":
		if m.cx > 0 {
			m.cx--
		}
	case "right", "l":
		if m.cx < len(engine.Fields)-1 {
			m.cx++
		}
	case "g":
		m.cy = 0
	case "G":
		m.cy = len(rows) - 1
		if m.cy < 0 {
			m.cy = 0
		}
		return m, m.scrollHint(len(rows))
	case "1", "2", "3", "4", "5", "6":
		idx := int(msg.String()[0] - '1')
		_ = m.eng.ToggleSort(engine.Fields[idx])
	case "0":
		m.eng.ClearSort()
	case "/":
		m.mode = modeFilter
		m.filterBuf = m.eng.FilterText()
	case " ":
		if m.cy < len(rows) {
			m.eng.ToggleSelect(rows[m.cy].ID)
		}
	case "a":
		m.eng.ToggleSelectAll()
	case "n":
		if _, err := m.eng.AddRow(map[engine.Field]string{}); err == nil {
			m.cy = len(rows) // land on the appended row
		}
	case "r":
		if m.eng.Status() == engine.StatusErrored {
			return m, m.retry()
		}
	case "enter":
		if m.cy < len(rows) {
			f := engine.Fields[m.cx]
			if err := m.eng.BeginEdit(rows[m.cy].ID, f); err == nil {
				m.mode = modeEdit
				m.editBuf = rows[m.cy].Get(f)
			}
		}
	}
	return m, nil
}

func (m model) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		if id, f, ok := m.eng.Editing(); ok {
			_ = m.eng.CommitEdit(id, f, m.editBuf)
		}
		m.mode = modeNormal
	case "esc":
		m.eng.CancelEdit()
		m.mode = modeNormal
	case "backspace":
		if len(m.editBuf) > 0 {
			m.editBuf = m.editBuf[:len(m.editBuf)-1]
		}
	default:
		if len(msg.String()) == 1 || msg.String() == " " {
			m.editBuf += msg.String()
		}
	}
	return m, nil
}

func (m model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.mode = modeNormal
	case "esc":
		m.filterBuf = ""
		m.eng.SetFilterText("")
		m.mode = modeNormal
	case "backspace":
		if len(m.filterBuf) > 0 {
			m.filterBuf = m.filterBuf[:len(m.filterBuf)-1]
			m.eng.SetFilterText(m.filterBuf)
		}
	default:
		if len(msg.String()) == 1 || msg.String() == " " {
			m.filterBuf += msg.String()
			m.eng.SetFilterText(m.filterBuf)
		}
	}
	return m, nil
}

func (m model) View() string {
	if m.width == 0 {
		return "loading..."
	}
	rows := m.eng.ViewRows()
	if m.cy >= len(rows) && len(rows) > 0 {
		m.cy = len(rows) - 1
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(" Lattice"))
	if f, dir := m.eng.Sort(); f != "" {
		b.WriteString(dimStyle.Render(fmt.Sprintf("  sort:%s %s", f, dir)))
	}
	if t := m.eng.FilterText(); t != "" || m.mode == modeFilter {
		marker := ""
		if m.mode == modeFilter {
			marker = "_"
		}
		b.WriteString(statusStyle.Render("  /" + m.filterBuf + marker))
	}
	b.WriteString("\n")

	if err := m.eng.FetchErr(); err != nil {
		b.WriteString(errorStyle.Render(" error: "+err.Error()+"  (r to retry)") + "\n")
	}

	// header
	var hdr strings.Builder
	hdr.WriteString("   ")
	for _, f := range engine.Fields {
		label := string(f)
		if sf, dir := m.eng.Sort(); sf == f {
			if dir == engine.Ascending {
				label += " ^"
			} else {
				label += " v"
			}
		}
		hdr.WriteString(fmt.Sprintf(" %-*s", columnWidths[f], clip(label, columnWidths[f])))
	}
	b.WriteString(headerStyle.Render(hdr.String()))
	b.WriteString("\n")

	dataHeight := m.height - 5
	if dataHeight < 1 {
		dataHeight = 1
	}
	if m.cy < m.scrollY {
		m.scrollY = m.cy
	}
	if m.cy >= m.scrollY+dataHeight {
		m.scrollY = m.cy - dataHeight + 1
	}

	end := m.scrollY + dataHeight
	if end > len(rows) {
		end = len(rows)
	}
	editID, editField, editActive := m.eng.Editing()

	for ri := m.scrollY; ri < end; ri++ {
		r := rows[ri]
		mark := " "
		if m.eng.Selected(r.ID) {
			mark = "*"
		}
		b.WriteString(" " + mark + " ")
		for ci, f := range engine.Fields {
			w := columnWidths[f]
			val := r.Get(f)
			if editActive && m.mode == modeEdit && r.ID == editID && f == editField {
				val = m.editBuf + "_"
			}
			cell := fmt.Sprintf(" %-*s", w, clip(val, w))
			switch {
			case ri == m.cy && ci == m.cx:
				b.WriteString(cursorStyle.Render(cell))
			case r.IsNew:
				b.WriteString(newStyle.Render(cell))
			case r.IsEdited:
				b.WriteString(editedStyle.Render(cell))
			default:
				b.WriteString(cell)
			}
		}
		b.WriteString("\n")
	}

	status := fmt.Sprintf(" %s  %d/%d rows  %d selected",
		m.eng.Status(), len(rows), m.eng.RowCount(), m.eng.SelectedCount())
	b.WriteString(statusStyle.Render(status))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(" hjkl move  enter edit  / filter  1-6 sort  space select  a all  n add  r retry  q quit"))
	return b.String()
}

func clip(s string, w int) string {
	if len(s) <= w {
		return s
	}
	if w <= 1 {
		return s[:w]
	}
	return s[:w-1] + "."
}

func buildSource(ctx context.Context, kind, httpURL, table, dbPath string, pageSize, seedRows int) (engine.DataSource, error) {
	switch kind {
	case "seed":
		return source.NewSeed(seedRows, pageSize, 42), nil
	case "http":
		if httpURL == "" {
			return nil, fmt.Errorf("-url is required with -source http")
		}
		return source.NewHTTP(httpURL, nil), nil
	case "sqlite":
		if dbPath == "" {
			return nil, fmt.Errorf("-db is required with -source sqlite")
		}
		src, err := source.OpenSQLite(dbPath, table, pageSize)
		if err != nil {
			return nil, err
		}
		return src, nil
	case "dynamo":
		if table == "" {
			return nil, fmt.Errorf("-table is required with -source dynamo")
		}
		src, err := dynamo.NewFromDefaultConfig(ctx, table, int32(pageSize))
		if err != nil {
			return nil, err
		}
		return src, nil
	}
	return nil, fmt.Errorf("unknown source %q", kind)
}

func main() {
	kind := flag.String("source", "seed", "data source: seed, http, sqlite, dynamo")
	httpURL := flag.String("url", "", "page API base URL (http source)")
	table := flag.String("table", "rows", "table name (sqlite and dynamo sources)")
	dbPath := flag.String("db", "", "database path (sqlite source)")
	pageSize := flag.Int("page-size", source.DefaultPageSize, "rows per page")
	seedRows := flag.Int("rows", 120, "dataset size (seed source)")
	locale := flag.String("locale", "en", "BCP 47 tag for sort collation")
	flag.Parse()

	src, err := buildSource(context.Background(), *kind, *httpURL, *table, *dbPath, *pageSize, *seedRows)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	cfg := engine.DefaultConfig()
	cfg.Locale = *locale
	eng := engine.New(src, cfg)

	p := tea.NewProgram(newModel(eng), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
