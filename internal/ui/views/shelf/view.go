package shelf

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	librarydto "shelfmate/internal/modules/library/dto"
	"shelfmate/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type Port interface {
	ListBooks(ctx context.Context) ([]librarydto.BookOutput, error)
	GetBook(ctx context.Context, isbn string) (librarydto.BookOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type BooksLoadedMsg struct {
	Books []librarydto.BookOutput
	Err   error
}

type DetailLoadedMsg struct {
	Book librarydto.BookOutput
	Err  error
}

// ─── list item ───────────────────────────────────────────────────────────────

type bookItem struct {
	book librarydto.BookOutput
}

func (i bookItem) Title() string {
	if i.book.Favorite {
		return "★ " + i.book.Title
	}
	return i.book.Title
}

func (i bookItem) Description() string {
	return fmt.Sprintf("%d/%d pages  %d%%", i.book.ReadPages, i.book.TotalPages, i.book.Percent)
}

func (i bookItem) FilterValue() string { return i.book.Title + " " + i.book.ISBN }

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port    Port
	list    list.Model
	detail  librarydto.BookOutput
	preview viewport.Model
	spinner spinner.Model
	loading bool
	width   int
	height  int
}

func New(port Port) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Shelf"
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
		list:    l,
		preview: vp,
		spinner: sp,
		loading: true,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.Reload(), m.spinner.Tick)
}

// Reload refetches the shelf, e.g. after a session credited pages.
func (m Model) Reload() tea.Cmd {
	return func() tea.Msg {
		books, err := m.port.ListBooks(context.Background())
		return BooksLoadedMsg{Books: books, Err: err}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case BooksLoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.list.Title = "Shelf: " + msg.Err.Error()
			return m, nil
		}
		m.list.Title = "Shelf"
		items := make([]list.Item, len(msg.Books))
		for i, b := range msg.Books {
			items[i] = bookItem{book: b}
		}
		cmds = append(cmds, m.list.SetItems(items))
		if item, ok := m.list.SelectedItem().(bookItem); ok {
			cmds = append(cmds, m.loadDetailCmd(item.book.ISBN))
		} else if len(msg.Books) > 0 {
			cmds = append(cmds, m.loadDetailCmd(msg.Books[0].ISBN))
		}

	case DetailLoadedMsg:
		if msg.Err == nil {
			m.detail = msg.Book
			m.preview.SetContent(m.renderDetail())
		}

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	if !m.loading {
		var lCmd tea.Cmd
		prevIdx := m.list.Index()
		m.list, lCmd = m.list.Update(msg)
		cmds = append(cmds, lCmd)
		if m.list.Index() != prevIdx {
			if item, ok := m.list.SelectedItem().(bookItem); ok {
				cmds = append(cmds, m.loadDetailCmd(item.book.ISBN))
			}
		}

		var vCmd tea.Cmd
		m.preview, vCmd = m.preview.Update(msg)
		cmds = append(cmds, vCmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if m.loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Loading shelf…")
	}

	listW := m.width * 4 / 10
	detailW := m.width - listW

	listPane := lipgloss.NewStyle().
		Width(listW).
		Height(m.height).
		Render(m.list.View())

	detailPane := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Surface1).
		Background(theme.Mantle).
		Width(detailW - 2).
		Height(m.height - 2).
		Render(m.preview.View())

	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, detailPane)
}

// Selected returns the highlighted book, if any.
func (m Model) Selected() (librarydto.BookOutput, bool) {
	if item, ok := m.list.SelectedItem().(bookItem); ok {
		return item.book, true
	}
	return librarydto.BookOutput{}, false
}

// Filtering reports whether the list's search filter is currently active.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m *Model) resize() {
	listW := m.width * 4 / 10
	detailW := m.width - listW
	m.list.SetSize(listW, m.height)
	m.preview.Width = detailW - 4
	m.preview.Height = m.height - 4
}

func (m Model) renderDetail() string {
	b := m.detail
	if b.ISBN == "" {
		return theme.Muted.Render("Select a book to see details")
	}
	var sb strings.Builder
	sb.WriteString(theme.Title.Render(b.Title) + "\n\n")
	sb.WriteString(theme.Muted.Render("isbn:    ") + b.ISBN + "\n")
	if len(b.Authors) > 0 {
		sb.WriteString(theme.Muted.Render("authors: ") + strings.Join(b.Authors, ", ") + "\n")
	}
	if b.Publisher != "" {
		sb.WriteString(theme.Muted.Render("pub:     ") + b.Publisher + "\n")
	}
	sb.WriteString(fmt.Sprintf("%s%d / %d (%d left)\n", theme.Muted.Render("pages:   "), b.ReadPages, b.TotalPages, b.LeftPages))
	sb.WriteString(theme.Muted.Render("bar:     ") + progressBar(b.Percent, 24) + fmt.Sprintf(" %d%%\n", b.Percent))
	if b.Rating > 0 {
		sb.WriteString(theme.Muted.Render("rating:  ") + strings.Repeat("★", b.Rating) + strings.Repeat("☆", 5-b.Rating) + "\n")
	}
	if b.Finished {
		sb.WriteString(theme.Hot.Render("finished") + "\n")
	}
	if b.Summary != "" {
		sb.WriteString("\n" + b.Summary + "\n")
	}
	if b.NotePath != "" {
		sb.WriteString("\n" + theme.Muted.Render("note:    ") + b.NotePath + "\n")
	}
	sb.WriteString("\n" + theme.Muted.Render("s: start reading session"))
	return sb.String()
}

func progressBar(percent, width int) string {
	filled := max(0, min(width, percent*width/100))
	return lipgloss.NewStyle().Foreground(theme.Green).Render(strings.Repeat("█", filled)) +
		theme.Muted.Render(strings.Repeat("░", width-filled))
}

func (m Model) loadDetailCmd(isbn string) tea.Cmd {
	return func() tea.Msg {
		book, err := m.port.GetBook(context.Background(), isbn)
		return DetailLoadedMsg{Book: book, Err: err}
	}
}
