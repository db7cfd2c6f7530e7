package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	catalogdto "shelfmate/internal/modules/catalog/dto"
	librarydto "shelfmate/internal/modules/library/dto"
	"shelfmate/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

// Port is the minimal interface this view needs from the catalog use-case.
type Port interface {
	Search(ctx context.Context, input catalogdto.SearchInput) ([]catalogdto.BookResult, error)
	ListPlugins(ctx context.Context) ([]catalogdto.PluginInfo, error)
	Doctor(ctx context.Context) ([]catalogdto.DoctorResult, error)
}

// Shelf adds a picked result to the user's shelf.
type Shelf interface {
	AddBook(ctx context.Context, input librarydto.AddBookInput) (librarydto.BookOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type ResultsMsg struct {
	Query   string
	Results []catalogdto.BookResult
	Err     error
}

// AddedMsg is also observed by the parent so the shelf can refresh.
type AddedMsg struct {
	Book librarydto.BookOutput
	Err  error
}

type PluginsMsg struct {
	Plugins []catalogdto.PluginInfo
	Doctor  []catalogdto.DoctorResult
	Err     error
}

// ─── list item ───────────────────────────────────────────────────────────────

type resultItem struct{ book catalogdto.BookResult }

func (i resultItem) Title() string { return i.book.Title }
func (i resultItem) Description() string {
	return strings.Join(i.book.Authors, ", ") + "  " + i.book.ISBN + "  [" + i.book.Provider + "]"
}
func (i resultItem) FilterValue() string { return i.book.Title + " " + i.book.ISBN }

// ─── pane ────────────────────────────────────────────────────────────────────

type pane int

const (
	paneInput   pane = iota // user types a query
	paneResults             // user picks a book
	paneOutput              // plugin report is displayed
)

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the self-contained Bubble Tea model for the Catalog tab.
type Model struct {
	port    Port
	shelf   Shelf
	pane    pane
	query   textinput.Model
	results list.Model
	output  viewport.Model
	spinner spinner.Model
	status  string
	loading bool
	width   int
	height  int
}

func New(port Port, shelf Shelf) Model {
	ti := textinput.New()
	ti.Placeholder = "title, author or ISBN"
	ti.Focus()
	ti.CharLimit = 120

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Results"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().
		Background(theme.Mantle).
		Foreground(theme.Text).
		Padding(1)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	return Model{
		port:    port,
		shelf:   shelf,
		pane:    paneInput,
		query:   ti,
		results: l,
		output:  vp,
		spinner: sp,
	}
}

// Editing reports whether the tab owns the keyboard.
func (m Model) Editing() bool {
	return m.pane == paneInput || m.results.FilterState() == list.Filtering
}

// ShowPlugins loads the plugin report, e.g. from the command palette.
func (m *Model) ShowPlugins() tea.Cmd {
	m.loading = true
	return tea.Batch(m.pluginsCmd(), m.spinner.Tick)
}

func (m Model) Init() tea.Cmd { return textinput.Blink }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case ResultsMsg:
		m.loading = false
		if msg.Err != nil {
			m.status = msg.Err.Error()
			return m, nil
		}
		items := make([]list.Item, len(msg.Results))
		for i, r := range msg.Results {
			items[i] = resultItem{book: r}
		}
		m.results.Title = fmt.Sprintf("Results for %q", msg.Query)
		cmds = append(cmds, m.results.SetItems(items))
		m.status = ""
		m.pane = paneResults
		m.query.Blur()

	case AddedMsg:
		m.loading = false
		if msg.Err != nil {
			m.status = "add failed: " + msg.Err.Error()
		} else {
			m.status = "added " + msg.Book.Title
		}

	case PluginsMsg:
		m.loading = false
		if msg.Err != nil {
			m.output.SetContent(theme.Hot.Render("Error: " + msg.Err.Error()))
		} else {
			m.output.SetContent(renderPlugins(msg.Plugins, msg.Doctor))
		}
		m.output.GotoTop()
		m.pane = paneOutput
		m.query.Blur()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case tea.KeyMsg:
		switch m.pane {
		case paneInput:
			switch msg.String() {
			case "enter":
				q := strings.TrimSpace(m.query.Value())
				if q != "" {
					m.loading = true
					cmds = append(cmds, m.searchCmd(q), m.spinner.Tick)
				}
			case "esc":
				if len(m.results.Items()) > 0 {
					m.pane = paneResults
					m.query.Blur()
				}
			default:
				var cmd tea.Cmd
				m.query, cmd = m.query.Update(msg)
				cmds = append(cmds, cmd)
			}

		case paneResults:
			if m.results.FilterState() == list.Filtering {
				var lCmd tea.Cmd
				m.results, lCmd = m.results.Update(msg)
				return m, lCmd
			}
			switch msg.String() {
			case "a", "enter":
				if item, ok := m.results.SelectedItem().(resultItem); ok && m.shelf != nil {
					m.loading = true
					cmds = append(cmds, m.addCmd(item.book), m.spinner.Tick)
				}
			case "p":
				cmds = append(cmds, m.ShowPlugins())
			case "esc":
				m.pane = paneInput
				cmds = append(cmds, m.query.Focus())
			default:
				var lCmd tea.Cmd
				m.results, lCmd = m.results.Update(msg)
				cmds = append(cmds, lCmd)
			}

		case paneOutput:
			switch msg.String() {
			case "esc":
				m.pane = paneInput
				cmds = append(cmds, m.query.Focus())
			default:
				var vCmd tea.Cmd
				m.output, vCmd = m.output.Update(msg)
				cmds = append(cmds, vCmd)
			}
		}
		return m, tea.Batch(cmds...)
	}

	// Non-key messages pass through to the active pane component.
	switch m.pane {
	case paneInput:
		var cmd tea.Cmd
		m.query, cmd = m.query.Update(msg)
		cmds = append(cmds, cmd)
	case paneResults:
		var lCmd tea.Cmd
		m.results, lCmd = m.results.Update(msg)
		cmds = append(cmds, lCmd)
	case paneOutput:
		var vCmd tea.Cmd
		m.output, vCmd = m.output.Update(msg)
		cmds = append(cmds, vCmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if m.loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Working…")
	}

	header := theme.Title.Render("Catalog")
	if m.status != "" {
		header += "  " + theme.Muted.Render(m.status)
	}
	header += "\n"
	bodyH := max(1, m.height-lipgloss.Height(header))

	var body string
	switch m.pane {
	case paneInput:
		hint := theme.Muted.Render("Search the catalog and press enter.\n\n")
		input := lipgloss.NewStyle().Width(m.width - 4).Render(m.query.View())
		body = lipgloss.Place(m.width, bodyH, lipgloss.Left, lipgloss.Center, hint+input)

	case paneResults:
		listW := m.width * 6 / 10
		detailW := m.width - listW
		listPane := lipgloss.NewStyle().Width(listW).Height(bodyH).Render(m.results.View())
		detail := theme.Muted.Render("a: add to shelf  p: plugins  esc: new search")
		if item, ok := m.results.SelectedItem().(resultItem); ok {
			detail = renderResult(item.book) + "\n\n" + detail
		}
		detailPane := lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).BorderForeground(theme.Surface1).
			Background(theme.Mantle).Width(detailW - 2).Height(bodyH - 2).
			Render(detail)
		body = lipgloss.JoinHorizontal(lipgloss.Top, listPane, detailPane)

	case paneOutput:
		hint := theme.Muted.Render("esc: back to search  ↑/↓: scroll\n")
		m.output.Height = max(1, bodyH-lipgloss.Height(hint))
		body = lipgloss.JoinVertical(lipgloss.Left, hint, m.output.View())
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, body)
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m *Model) resize() {
	m.results.SetSize(m.width*6/10, m.height-3)
	m.output.Width = m.width - 4
	m.output.Height = m.height - 4
}

func renderResult(b catalogdto.BookResult) string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render(b.Title) + "\n")
	if b.Publisher != "" {
		sb.WriteString(theme.Muted.Render(b.Publisher) + "\n")
	}
	if b.Contents != "" {
		sb.WriteString("\n" + b.Contents + "\n")
	}
	return sb.String()
}

func renderPlugins(plugins []catalogdto.PluginInfo, doctor []catalogdto.DoctorResult) string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Catalog plugins") + "\n\n")
	if len(plugins) == 0 {
		sb.WriteString(theme.Muted.Render("no plugins installed") + "\n")
	}
	for _, p := range plugins {
		state := "disabled"
		if p.Enabled {
			state = "enabled"
		}
		sb.WriteString(fmt.Sprintf("%s %s (%s)  %s\n", p.Name, p.Version, state, strings.Join(p.Capabilities, ",")))
	}
	if len(doctor) > 0 {
		sb.WriteString("\n" + theme.Title.Render("Doctor") + "\n\n")
	}
	for _, d := range doctor {
		mark := theme.Good.Render("ok")
		if !d.ChecksumValid || !d.BinaryReachable || !d.LifecycleOK {
			mark = theme.Bad.Render("fail")
		}
		sb.WriteString(fmt.Sprintf("%-20s %s", d.Name, mark))
		if d.Error != "" {
			sb.WriteString("  " + theme.Muted.Render(d.Error))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func (m Model) searchCmd(query string) tea.Cmd {
	return func() tea.Msg {
		results, err := m.port.Search(context.Background(), catalogdto.SearchInput{Query: query, Limit: 20})
		return ResultsMsg{Query: query, Results: results, Err: err}
	}
}

func (m Model) addCmd(b catalogdto.BookResult) tea.Cmd {
	return func() tea.Msg {
		out, err := m.shelf.AddBook(context.Background(), librarydto.AddBookInput{
			ISBN:      b.ISBN,
			Title:     b.Title,
			Authors:   b.Authors,
			Publisher: b.Publisher,
			Thumbnail: b.Thumbnail,
			Contents:  b.Contents,
		})
		return AddedMsg{Book: out, Err: err}
	}
}

func (m Model) pluginsCmd() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		plugins, err := m.port.ListPlugins(ctx)
		if err != nil {
			return PluginsMsg{Err: err}
		}
		doctor, err := m.port.Doctor(ctx)
		return PluginsMsg{Plugins: plugins, Doctor: doctor, Err: err}
	}
}
