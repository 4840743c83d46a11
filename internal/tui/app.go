// Package tui is the interactive front-end: a list view with search, sort
// and pagination, a shared create/edit form, and a delete confirmation,
// all backed by the items API.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/joaosp7/items-manager/internal/model"
	"github.com/joaosp7/items-manager/internal/query"
)

// Sortable columns, named as the API expects them.
const (
	sortName    = "name"
	sortCreated = "createdAt"
	sortUpdated = "updatedAt"
)

type mode int

const (
	modeBrowse mode = iota
	modeSearch
	modeForm
	modeConfirm
)

type keyMap struct {
	Search  key.Binding
	ByName  key.Binding
	ByCre   key.Binding
	ByUpd   key.Binding
	Prev    key.Binding
	Next    key.Binding
	Up      key.Binding
	Down    key.Binding
	Add     key.Binding
	Edit    key.Binding
	Delete  key.Binding
	Refresh key.Binding
	Quit    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Search:  key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		ByName:  key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "sort name")),
		ByCre:   key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "sort created")),
		ByUpd:   key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "sort updated")),
		Prev:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "prev page")),
		Next:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "next page")),
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓", "down")),
		Add:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Edit:    key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		Delete:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Search, k.Add, k.Edit, k.Delete, k.Prev, k.Next, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Search, k.Add, k.Edit, k.Delete, k.Refresh},
		{k.ByName, k.ByCre, k.ByUpd, k.Prev, k.Next},
		{k.Up, k.Down, k.Quit},
	}
}

// Model is the root controller. It owns the query state and the transient
// dialog state; everything below it renders from read-only copies.
type Model struct {
	svc    Service
	fetch  *fetcher
	params query.Params

	search textinput.Model
	spin   spinner.Model
	cursor int
	mode   mode

	form    *formModel
	confirm *confirmModel

	keys keyMap
	help help.Model

	width, height int
}

func NewModel(svc Service, initial query.Params) Model {
	search := textinput.New()
	search.Prompt = "🔍 "
	search.Placeholder = "Search by name..."
	search.CharLimit = 200
	search.SetValue(initial.Search)

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		svc:    svc,
		fetch:  newFetcher(svc, initial),
		params: initial,
		search: search,
		spin:   sp,
		keys:   defaultKeyMap(),
		help:   help.New(),
	}
}

// Run starts the interactive view seeded with initial.
func Run(svc Service, initial query.Params) error {
	p := tea.NewProgram(NewModel(svc, initial), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.fetch.start(), m.spin.Tick)
}

// setParams swaps in a new query value; the fetcher decides whether that
// means a new fetch.
func (m *Model) setParams(p query.Params) tea.Cmd {
	m.params = p
	if cmd := m.fetch.setQuery(p); cmd != nil {
		return tea.Batch(cmd, m.spin.Tick)
	}
	return nil
}

func (m *Model) selected() *model.Item {
	if m.cursor < 0 || m.cursor >= len(m.fetch.items) {
		return nil
	}
	return &m.fetch.items[m.cursor]
}

func (m *Model) clampCursor() {
	if n := len(m.fetch.items); m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil

	case spinner.TickMsg:
		if !m.fetch.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case itemsFetchedMsg, fetchFailedMsg:
		m.fetch.update(msg)
		m.clampCursor()
		return m, nil

	case itemSavedMsg:
		m.form = nil
		m.mode = modeBrowse
		// unconditional refresh: timestamps and ordering changed server-side
		return m, tea.Batch(m.fetch.refetch(), m.spin.Tick)

	case saveFailedMsg:
		if m.form != nil {
			m.form.saving = false
			m.form.submitErr = errorMessage(msg.err, "error saving item")
		}
		return m, nil

	case itemDeletedMsg:
		m.confirm = nil
		m.mode = modeBrowse
		return m, tea.Batch(m.fetch.refetch(), m.spin.Tick)

	case deleteFailedMsg:
		if m.confirm != nil {
			m.confirm.deleting = false
			m.confirm.err = errorMessage(msg.err, "error deleting item")
		}
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case modeSearch:
			return m.updateSearch(msg)
		case modeForm:
			return m.updateForm(msg)
		case modeConfirm:
			return m.updateConfirm(msg)
		default:
			return m.updateBrowse(msg)
		}
	}
	return m, nil
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keys
	switch {
	case key.Matches(msg, k.Quit):
		return m, tea.Quit

	case key.Matches(msg, k.Search):
		m.mode = modeSearch
		m.search.Focus()
		return m, nil

	case key.Matches(msg, k.ByName):
		return m, m.setParams(m.params.WithSort(sortName))
	case key.Matches(msg, k.ByCre):
		return m, m.setParams(m.params.WithSort(sortCreated))
	case key.Matches(msg, k.ByUpd):
		return m, m.setParams(m.params.WithSort(sortUpdated))

	case key.Matches(msg, k.Prev):
		if m.params.Page > 1 {
			return m, m.setParams(m.params.WithPage(m.params.Page - 1))
		}
		return m, nil
	case key.Matches(msg, k.Next):
		if m.params.Page < m.fetch.lastPage() {
			return m, m.setParams(m.params.WithPage(m.params.Page + 1))
		}
		return m, nil

	case key.Matches(msg, k.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case key.Matches(msg, k.Down):
		if m.cursor < len(m.fetch.items)-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, k.Add):
		f := newForm(nil)
		m.form = &f
		m.mode = modeForm
		return m, nil
	case key.Matches(msg, k.Edit):
		if it := m.selected(); it != nil {
			f := newForm(it)
			m.form = &f
			m.mode = modeForm
		}
		return m, nil
	case key.Matches(msg, k.Delete):
		if it := m.selected(); it != nil {
			c := newConfirm(*it)
			m.confirm = &c
			m.mode = modeConfirm
		}
		return m, nil

	case key.Matches(msg, k.Refresh):
		return m, tea.Batch(m.fetch.refetch(), m.spin.Tick)
	}
	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter":
		m.search.Blur()
		m.mode = modeBrowse
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	// every keystroke fetches immediately; the search transition also
	// resets the page to 1
	if v := m.search.Value(); v != m.params.Search {
		return m, tea.Batch(cmd, m.setParams(m.params.WithSearch(v)))
	}
	return m, cmd
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.form == nil {
		m.mode = modeBrowse
		return m, nil
	}
	if m.form.saving {
		return m, nil
	}

	s := msg.String()
	if s == "esc" {
		// cancel discards the draft, nothing was sent
		m.form = nil
		m.mode = modeBrowse
		return m, nil
	}
	if s == "ctrl+s" || (s == "enter" && m.form.focus != fieldDesc) {
		m.form.submitErr = ""
		if !m.form.validate() {
			return m, nil
		}
		m.form.saving = true
		return m, m.saveCmd(m.form.data(), m.form.editing)
	}

	nf, cmd := m.form.update(msg)
	*m.form = nf
	return m, cmd
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.confirm == nil {
		m.mode = modeBrowse
		return m, nil
	}
	if m.confirm.deleting {
		// both buttons stay disabled while the request is in flight
		return m, nil
	}

	switch msg.String() {
	case "esc":
		m.confirm = nil
		m.mode = modeBrowse
		return m, nil
	case "enter":
		m.confirm.deleting = true
		m.confirm.err = ""
		return m, m.deleteCmd(m.confirm.item.ID)
	}
	return m, nil
}

// saveCmd dispatches to create or update depending on whether an item is
// being edited.
func (m Model) saveCmd(data model.FormData, editing *model.Item) tea.Cmd {
	svc := m.svc
	var id string
	if editing != nil {
		id = editing.ID
	}
	return func() tea.Msg {
		var err error
		if id != "" {
			patch := model.Patch{
				Name:        &data.Name,
				Status:      &data.Status,
				Description: &data.Description,
			}
			_, err = svc.Update(context.Background(), id, patch)
		} else {
			_, err = svc.Create(context.Background(), data)
		}
		if err != nil {
			return saveFailedMsg{err: err}
		}
		return itemSavedMsg{}
	}
}

func (m Model) deleteCmd(id string) tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		if err := svc.Delete(context.Background(), id); err != nil {
			return deleteFailedMsg{err: err}
		}
		return itemDeletedMsg{}
	}
}

// ------------------------------ view ------------------------------

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("📋 Items Manager"))
	b.WriteString("  ")
	b.WriteString(m.search.View())
	b.WriteString("\n\n")

	switch m.mode {
	case modeForm:
		if m.form != nil {
			b.WriteString(m.form.view())
		}
	case modeConfirm:
		if m.confirm != nil {
			b.WriteString(m.confirm.view())
		}
	default:
		b.WriteString(m.listView())
	}

	b.WriteString("\n\n")
	b.WriteString(m.footer())
	return b.String()
}

func (m Model) listView() string {
	f := m.fetch
	if f.loading {
		return m.spin.View() + " Loading items..."
	}
	if f.err != "" {
		return errorStyle.Render("✖ " + f.err)
	}
	if len(f.items) == 0 {
		return mutedStyle.Render("📭 No items found")
	}

	var b strings.Builder
	b.WriteString("  " + headerStyle.Render(m.headerRow()) + "\n")
	for i, it := range f.items {
		prefix := "  "
		if i == m.cursor {
			prefix = selectedStyle.Render("> ")
		}
		b.WriteString(prefix + m.itemRow(it) + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

const (
	colName = 24
	colStat = 8
	colDesc = 32
	colDate = 12
)

func (m Model) headerRow() string {
	return fmt.Sprintf("%-*s %-*s %-*s %-*s %-*s",
		colName, "Name "+m.sortIcon(sortName),
		colStat, "Status",
		colDesc, "Description",
		colDate, "Created "+m.sortIcon(sortCreated),
		colDate, "Updated "+m.sortIcon(sortUpdated),
	)
}

func (m Model) itemRow(it model.Item) string {
	return fmt.Sprintf("%-*s %s %-*s %-*s %-*s",
		colName, truncate(it.Name, colName-1),
		statusBadge(it.Status),
		colDesc, truncate(it.Description, colDesc-1),
		colDate, it.CreatedAt.Format("2006-01-02"),
		colDate, it.UpdatedAt.Format("2006-01-02"),
	)
}

func (m Model) sortIcon(field string) string {
	if m.params.Sort != field {
		return "↕"
	}
	if m.params.Order == query.OrderAsc {
		return "↑"
	}
	return "↓"
}

// statusBadge pads before styling so ANSI codes don't skew the column.
func statusBadge(s model.Status) string {
	label := fmt.Sprintf("%-*s", colStat, s.Label())
	switch s {
	case model.StatusDoing:
		return badgeDoing.Render(label)
	case model.StatusDone:
		return badgeDone.Render(label)
	default:
		return badgeTodo.Render(label)
	}
}

func (m Model) footer() string {
	var b strings.Builder
	f := m.fetch

	if !f.loading && len(f.items) > 0 {
		last := f.lastPage()
		prev, next := "← prev", "next →"
		if m.params.Page <= 1 {
			prev = mutedStyle.Render(prev)
		} else {
			prev = accentStyle.Render(prev)
		}
		if m.params.Page >= last {
			next = mutedStyle.Render(next)
		} else {
			next = accentStyle.Render(next)
		}
		b.WriteString(fmt.Sprintf("%s  Page %d of %d (%d items)  %s\n",
			prev, m.params.Page, last, f.total, next))
	}

	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}
