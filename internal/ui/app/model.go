package app

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	catalogdto "shelfmate/internal/modules/catalog/dto"
	identitydto "shelfmate/internal/modules/identity/dto"
	librarydto "shelfmate/internal/modules/library/dto"
	"shelfmate/internal/platform/calendar"
	"shelfmate/internal/ui/components"
	"shelfmate/internal/ui/theme"
	catalogview "shelfmate/internal/ui/views/catalog"
	missionsview "shelfmate/internal/ui/views/missions"
	sessionview "shelfmate/internal/ui/views/session"
	shelfview "shelfmate/internal/ui/views/shelf"
)

// ─── ports ───────────────────────────────────────────────────────────────────
// Each port is the minimal interface that this orchestration layer requires.
// Sub-view ports are defined in their own packages and narrowed further.

type libraryPort interface {
	ListBooks(ctx context.Context) ([]librarydto.BookOutput, error)
	GetBook(ctx context.Context, isbn string) (librarydto.BookOutput, error)
	AddBook(ctx context.Context, input librarydto.AddBookInput) (librarydto.BookOutput, error)
	SetTotalPages(ctx context.Context, isbn string, pages int) (librarydto.BookOutput, error)
	SetRating(ctx context.Context, isbn string, rating int) (librarydto.BookOutput, error)
	ToggleFavorite(ctx context.Context, isbn string) (librarydto.BookOutput, error)
}

type catalogPort interface {
	Search(ctx context.Context, input catalogdto.SearchInput) ([]catalogdto.BookResult, error)
	ListPlugins(ctx context.Context) ([]catalogdto.PluginInfo, error)
	Doctor(ctx context.Context) ([]catalogdto.DoctorResult, error)
}

type identityPort interface {
	Profile(ctx context.Context) (identitydto.ProfileOutput, error)
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabShelf tabID = iota
	tabSession
	tabMissions
	tabCatalog
	tabCount
)

var tabLabels = [tabCount]string{
	"Shelf", "Session", "Missions", "Catalog",
}

// ─── async messages ───────────────────────────────────────────────────────────

type profileLoadedMsg struct {
	profile identitydto.ProfileOutput
	err     error
}

type bookChangedMsg struct {
	book librarydto.BookOutput
	err  error
}

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Tab      key.Binding
	Help     key.Binding
	Palette  key.Binding
	Quit     key.Binding
	Session  key.Binding
	Finish   key.Binding
	Favorite key.Binding
	New      key.Binding
	Delete   key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette:  key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:     key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		Session:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "start session")),
		Finish:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "finish session")),
		Favorite: key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "favorite")),
		New:      key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new mission")),
		Delete:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete mission")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Help, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.Session, k.Favorite},
		{k.Finish, k.New, k.Delete},
		{k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It owns tab routing, the profile header,
// the global help overlay, and the command palette. All business logic is
// delegated to port interfaces; all rendering is delegated to sub-views.
type Model struct {
	// ports used at this orchestration level only
	library  libraryPort
	missions missionsview.Port
	identity identityPort
	today    func() calendar.Date

	// sub-views (one per tab)
	shelfView   shelfview.Model
	sessionView sessionview.Model
	missionView missionsview.Model
	catalogView catalogview.Model

	// global UI state
	activeTab tabID
	keys      keyMap
	help      help.Model
	showHelp  bool
	palette   components.Palette
	profile   identitydto.ProfileOutput
	signedIn  bool
	status    string
	width     int
	height    int
}

// ─── constructor ─────────────────────────────────────────────────────────────

func NewModel(
	library libraryPort,
	session sessionview.Port,
	missions missionsview.Port,
	catalog catalogPort,
	identity identityPort,
	today func() calendar.Date,
) Model {
	return Model{
		library:     library,
		missions:    missions,
		identity:    identity,
		today:       today,
		shelfView:   shelfview.New(library),
		sessionView: sessionview.New(session),
		missionView: missionsview.New(missions),
		catalogView: catalogview.New(catalog, library),
		activeTab:   tabShelf,
		keys:        defaultKeys(),
		help:        help.New(),
		palette:     components.NewPalette(),
		status:      "ready",
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.shelfView.Init(),
		m.sessionView.Init(),
		m.missionView.Init(),
		m.catalogView.Init(),
		m.loadProfileCmd(),
	)
}

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// The palette intercepts all input while open.
	if m.palette.Visible() {
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.propagateSize()
		return m, nil

	case profileLoadedMsg:
		m.signedIn = msg.err == nil
		if msg.err == nil {
			m.profile = msg.profile
		}
		return m, nil

	case bookChangedMsg:
		if msg.err != nil {
			m.status = "book: " + msg.err.Error()
			return m, nil
		}
		m.status = fmt.Sprintf("%s: %d/%d pages", msg.book.Title, msg.book.ReadPages, msg.book.TotalPages)
		return m, m.shelfView.Reload()

	// Session results fan out to the shelf, missions and profile header.
	case sessionview.StartedMsg:
		if msg.Err != nil {
			m.status = "session start failed: " + msg.Err.Error()
		} else {
			m.status = "session started: " + msg.Out.BookTitle
			m.activeTab = tabSession
		}
		var cmd tea.Cmd
		m.sessionView, cmd = m.sessionView.Update(msg)
		return m, cmd

	case sessionview.EndedMsg:
		var cmd tea.Cmd
		m.sessionView, cmd = m.sessionView.Update(msg)
		if msg.Err != nil {
			m.status = "session end failed: " + msg.Err.Error()
			return m, cmd
		}
		m.status = fmt.Sprintf("session ended (+%d pages)", msg.Out.AcceptedDelta)
		return m, tea.Batch(cmd, m.shelfView.Reload(), m.missionView.Reload(), m.loadProfileCmd())

	case sessionview.ActiveLoadedMsg, sessionview.CancelledMsg:
		var cmd tea.Cmd
		m.sessionView, cmd = m.sessionView.Update(msg)
		return m, cmd

	case shelfview.BooksLoadedMsg, shelfview.DetailLoadedMsg:
		var cmd tea.Cmd
		m.shelfView, cmd = m.shelfView.Update(msg)
		return m, cmd

	case missionsview.LoadedMsg, missionsview.UpdatedMsg:
		var cmd tea.Cmd
		m.missionView, cmd = m.missionView.Update(msg)
		return m, tea.Batch(cmd, m.loadProfileCmd())

	case catalogview.AddedMsg:
		var cmd tea.Cmd
		m.catalogView, cmd = m.catalogView.Update(msg)
		if msg.Err == nil {
			cmds = append(cmds, m.shelfView.Reload())
		}
		return m, tea.Batch(append(cmds, cmd)...)

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}

		// Yield to sub-view when it is capturing free text.
		if m.subViewEditing() {
			break
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
			return m, nil
		case "shift+tab":
			m.activeTab = (m.activeTab + tabCount - 1) % tabCount
			return m, nil
		case "?":
			m.showHelp = !m.showHelp
			return m, nil
		case ":":
			return m, m.palette.Open()
		case "s":
			if m.activeTab == tabShelf {
				if book, ok := m.shelfView.Selected(); ok {
					return m, m.sessionView.StartCmd(book.ISBN)
				}
			}
		case "f":
			if m.activeTab == tabShelf {
				if book, ok := m.shelfView.Selected(); ok {
					return m, m.toggleFavoriteCmd(book.ISBN)
				}
			}
		case "n":
			if m.activeTab == tabMissions {
				var cmd tea.Cmd
				m.missionView, cmd = m.missionView.OpenForm(m.today())
				return m, cmd
			}
		}
	}

	// Propagate the message to the active tab's sub-view.
	var tabCmd tea.Cmd
	switch m.activeTab {
	case tabShelf:
		m.shelfView, tabCmd = m.shelfView.Update(msg)
	case tabSession:
		m.sessionView, tabCmd = m.sessionView.Update(msg)
	case tabMissions:
		m.missionView, tabCmd = m.missionView.Update(msg)
	case tabCatalog:
		m.catalogView, tabCmd = m.catalogView.Update(msg)
	}
	cmds = append(cmds, tabCmd)

	return m, tea.Batch(cmds...)
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	contentH := max(1, m.height-lipgloss.Height(tabBar)-lipgloss.Height(statusBar))

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).
			Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH,
			lipgloss.Center, lipgloss.Center, m.palette.View())
	default:
		content = m.activeView()
	}

	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) activeView() string {
	switch m.activeTab {
	case tabShelf:
		return m.shelfView.View()
	case tabSession:
		return m.sessionView.View()
	case tabMissions:
		return m.missionView.View()
	case tabCatalog:
		return m.catalogView.View()
	}
	return ""
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		label := tabLabels[i]
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + label + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + label + " ")
		}
	}
	sep := theme.Muted.Render(" │ ")
	left := "shelfmate  " + strings.Join(parts, sep)
	right := theme.Muted.Render("signed out")
	if m.signedIn {
		right = fmt.Sprintf("%s  %s  %d pts", m.profile.Nickname, theme.Title.Render(m.profile.Rank), m.profile.TotalPoints)
	}
	gap := max(1, m.width-lipgloss.Width(left)-lipgloss.Width(right))
	bar := left + strings.Repeat(" ", gap) + right
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	if m.sessionView.Running() {
		left = theme.Hot.Render("● reading") + "  " + left
	}
	right := theme.Muted.Render("?:help  tab:switch  :::palette  q:quit")
	gap := max(1, m.width-lipgloss.Width(left)-lipgloss.Width(right))
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

// ─── palette execution ────────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	if strings.TrimSpace(input) == "" {
		return m, nil
	}
	parts := strings.Fields(input)
	selected := ""
	if book, ok := m.shelfView.Selected(); ok {
		selected = book.ISBN
	}

	switch parts[0] {
	case "session:start":
		isbn := selected
		if len(parts) >= 2 {
			isbn = parts[1]
		}
		if isbn == "" {
			m.status = "no book selected"
			return m, nil
		}
		return m, m.sessionView.StartCmd(isbn)

	case "session:end":
		if len(parts) < 2 {
			m.status = "usage: session:end <final-page>"
			return m, nil
		}
		page, err := strconv.Atoi(parts[1])
		if err != nil {
			m.status = "invalid final page"
			return m, nil
		}
		m.activeTab = tabSession
		return m, m.sessionView.EndCmd(page)

	case "session:cancel":
		return m, m.sessionView.CancelCmd()

	case "mission:new":
		m.activeTab = tabMissions
		var cmd tea.Cmd
		m.missionView, cmd = m.missionView.OpenForm(m.today())
		return m, cmd

	case "mission:delete":
		if len(parts) < 2 {
			m.status = "usage: mission:delete <id>"
			return m, nil
		}
		m.activeTab = tabMissions
		return m, m.missionView.DeleteCmd(parts[1])

	case "book:add":
		if len(parts) < 2 {
			m.status = "usage: book:add <isbn> [total-pages]"
			return m, nil
		}
		in := librarydto.AddBookInput{ISBN: parts[1]}
		if len(parts) >= 3 {
			total, err := strconv.Atoi(parts[2])
			if err != nil {
				m.status = "invalid total pages"
				return m, nil
			}
			in.TotalPages = total
		}
		return m, m.bookCmd(func(ctx context.Context) (librarydto.BookOutput, error) {
			return m.library.AddBook(ctx, in)
		})

	case "book:pages":
		if len(parts) < 3 {
			m.status = "usage: book:pages <isbn> <total>"
			return m, nil
		}
		total, err := strconv.Atoi(parts[2])
		if err != nil {
			m.status = "invalid total pages"
			return m, nil
		}
		return m, m.bookCmd(func(ctx context.Context) (librarydto.BookOutput, error) {
			return m.library.SetTotalPages(ctx, parts[1], total)
		})

	case "book:favorite":
		isbn := selected
		if len(parts) >= 2 {
			isbn = parts[1]
		}
		if isbn == "" {
			m.status = "no book selected"
			return m, nil
		}
		return m, m.toggleFavoriteCmd(isbn)

	case "book:rate":
		if len(parts) < 3 {
			m.status = "usage: book:rate <isbn> <1-5>"
			return m, nil
		}
		rating, err := strconv.Atoi(parts[2])
		if err != nil {
			m.status = "invalid rating"
			return m, nil
		}
		return m, m.bookCmd(func(ctx context.Context) (librarydto.BookOutput, error) {
			return m.library.SetRating(ctx, parts[1], rating)
		})

	case "plugin:doctor":
		m.activeTab = tabCatalog
		return m, m.catalogView.ShowPlugins()

	case "account:profile":
		return m, m.loadProfileCmd()

	default:
		m.status = "unknown command: " + parts[0]
	}
	return m, nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

// subViewEditing reports whether the active tab is capturing free text,
// in which case global key bindings must yield to allow typing.
func (m Model) subViewEditing() bool {
	switch m.activeTab {
	case tabShelf:
		return m.shelfView.Filtering()
	case tabSession:
		return m.sessionView.Editing()
	case tabMissions:
		return m.missionView.Editing()
	case tabCatalog:
		return m.catalogView.Editing()
	}
	return false
}

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.height - 3}
	m.shelfView, _ = m.shelfView.Update(sz)
	m.sessionView, _ = m.sessionView.Update(sz)
	m.missionView, _ = m.missionView.Update(sz)
	m.catalogView, _ = m.catalogView.Update(sz)
}

// ─── async commands ───────────────────────────────────────────────────────────

func (m Model) loadProfileCmd() tea.Cmd {
	return func() tea.Msg {
		profile, err := m.identity.Profile(context.Background())
		return profileLoadedMsg{profile: profile, err: err}
	}
}

func (m Model) toggleFavoriteCmd(isbn string) tea.Cmd {
	return m.bookCmd(func(ctx context.Context) (librarydto.BookOutput, error) {
		return m.library.ToggleFavorite(ctx, isbn)
	})
}

func (m Model) bookCmd(fn func(ctx context.Context) (librarydto.BookOutput, error)) tea.Cmd {
	return func() tea.Msg {
		book, err := fn(context.Background())
		return bookChangedMsg{book: book, err: err}
	}
}
