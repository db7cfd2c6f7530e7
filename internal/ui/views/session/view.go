package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	sessiondto "shelfmate/internal/modules/session/dto"
	apperrors "shelfmate/internal/platform/errors"
	"shelfmate/internal/ui/theme"
)

type Port interface {
	Start(ctx context.Context, input sessiondto.StartInput) (sessiondto.StartOutput, error)
	End(ctx context.Context, input sessiondto.EndInput) (sessiondto.EndOutput, error)
	Cancel(ctx context.Context) error
	GetActive(ctx context.Context) (sessiondto.ActiveSessionOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type tickMsg time.Time

type ActiveLoadedMsg struct {
	Active sessiondto.ActiveSessionOutput
	Err    error
}

type StartedMsg struct {
	Out sessiondto.StartOutput
	Err error
}

// EndedMsg is also observed by the parent so the shelf and missions can refresh.
type EndedMsg struct {
	Out sessiondto.EndOutput
	Err error
}

type CancelledMsg struct{ Err error }

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port      Port
	active    *sessiondto.ActiveSessionOutput
	elapsed   time.Duration
	pageInput textinput.Model
	last      *sessiondto.EndOutput
	err       error
	width     int
	height    int
}

func New(port Port) Model {
	ti := textinput.New()
	ti.Placeholder = "final page"
	ti.CharLimit = 6
	ti.Width = 12
	ti.Validate = func(s string) error {
		if s == "" {
			return nil
		}
		if _, err := strconv.Atoi(s); err != nil {
			return errors.New("digits only")
		}
		return nil
	}
	return Model{port: port, pageInput: ti}
}

func (m Model) Init() tea.Cmd {
	return m.loadActive()
}

// Running reports whether a timer is active.
func (m Model) Running() bool { return m.active != nil }

// Editing reports whether the final-page input has focus.
func (m Model) Editing() bool { return m.pageInput.Focused() }

// StartCmd begins a session on isbn.
func (m Model) StartCmd(isbn string) tea.Cmd {
	return func() tea.Msg {
		out, err := m.port.Start(context.Background(), sessiondto.StartInput{ISBN: isbn, Device: "tui"})
		return StartedMsg{Out: out, Err: err}
	}
}

// EndCmd closes the running session with the claimed final page.
func (m Model) EndCmd(finalPage int) tea.Cmd {
	return func() tea.Msg {
		out, err := m.port.End(context.Background(), sessiondto.EndInput{ClaimedFinalPages: finalPage})
		return EndedMsg{Out: out, Err: err}
	}
}

func (m Model) CancelCmd() tea.Cmd {
	return func() tea.Msg {
		return CancelledMsg{Err: m.port.Cancel(context.Background())}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case ActiveLoadedMsg:
		if msg.Err != nil {
			m.active = nil
			if !errors.Is(msg.Err, apperrors.ErrNoActiveSession) && !errors.Is(msg.Err, apperrors.ErrUnauthenticated) {
				m.err = msg.Err
			}
			return m, nil
		}
		active := msg.Active
		m.active = &active
		m.elapsed = active.Elapsed
		return m, tick()

	case StartedMsg:
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.err = nil
		m.last = nil
		m.active = &sessiondto.ActiveSessionOutput{
			SessionID:      msg.Out.SessionID,
			ISBN:           msg.Out.ISBN,
			BookTitle:      msg.Out.BookTitle,
			StartReadPages: msg.Out.StartReadPages,
			StartedAt:      msg.Out.StartedAt,
		}
		m.elapsed = 0
		return m, tick()

	case EndedMsg:
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		out := msg.Out
		m.last = &out
		m.active = nil
		m.err = nil
		return m, nil

	case CancelledMsg:
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.active = nil
		m.err = nil
		return m, nil

	case tickMsg:
		if m.active == nil {
			return m, nil
		}
		m.elapsed = time.Time(msg).Sub(m.active.StartedAt)
		return m, tick()

	case tea.KeyMsg:
		if m.pageInput.Focused() {
			switch msg.String() {
			case "esc":
				m.pageInput.Blur()
				m.pageInput.SetValue("")
				return m, nil
			case "enter":
				page, err := strconv.Atoi(strings.TrimSpace(m.pageInput.Value()))
				m.pageInput.Blur()
				m.pageInput.SetValue("")
				if err != nil {
					m.err = apperrors.Invalid("final page must be a number")
					return m, nil
				}
				return m, m.EndCmd(page)
			}
			var cmd tea.Cmd
			m.pageInput, cmd = m.pageInput.Update(msg)
			return m, cmd
		}
		switch msg.String() {
		case "e", "enter":
			if m.active != nil {
				return m, m.pageInput.Focus()
			}
		case "x":
			if m.active != nil {
				return m, m.CancelCmd()
			}
		}
	}
	return m, nil
}

func (m Model) View() string {
	var sb strings.Builder
	if m.active != nil {
		sb.WriteString(theme.Title.Render("Reading: "+m.active.BookTitle) + "\n\n")
		sb.WriteString(lipgloss.NewStyle().Foreground(theme.Yellow).Bold(true).Render(formatElapsed(m.elapsed)) + "\n\n")
		sb.WriteString(theme.Muted.Render(fmt.Sprintf("started at page %d, %s", m.active.StartReadPages, m.active.StartedAt.Local().Format("15:04"))) + "\n\n")
		if m.pageInput.Focused() {
			sb.WriteString("Final page: " + m.pageInput.View() + "\n")
			sb.WriteString(theme.Muted.Render("enter: finish  esc: back") + "\n")
		} else {
			sb.WriteString(theme.Muted.Render("e: finish  x: cancel") + "\n")
		}
	} else {
		sb.WriteString(theme.Title.Render("No session running") + "\n\n")
		sb.WriteString(theme.Muted.Render("pick a book on the Shelf tab and press s") + "\n")
	}
	if m.last != nil {
		sb.WriteString("\n" + renderVerdict(*m.last))
	}
	if m.err != nil {
		sb.WriteString("\n" + theme.Bad.Render("error: ") + m.err.Error() + "\n")
	}
	return lipgloss.NewStyle().Width(m.width).Height(m.height).Padding(1, 2).Render(sb.String())
}

// ─── private ─────────────────────────────────────────────────────────────────

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) loadActive() tea.Cmd {
	return func() tea.Msg {
		active, err := m.port.GetActive(context.Background())
		return ActiveLoadedMsg{Active: active, Err: err}
	}
}

func renderVerdict(out sessiondto.EndOutput) string {
	var sb strings.Builder
	head := theme.Good.Render(fmt.Sprintf("+%d pages", out.AcceptedDelta))
	if out.AcceptedDelta == 0 {
		head = theme.Bad.Render("no pages credited")
	}
	sb.WriteString(head + "  " + theme.Muted.Render(out.BookTitle) + "\n")
	sb.WriteString(theme.Muted.Render(fmt.Sprintf("%s read, claimed %d, cap %d, daily left %d, reason %s",
		formatElapsed(time.Duration(out.ElapsedSeconds)*time.Second), out.RawDelta, out.SpeedCap, out.DailyLeft, out.Reason)) + "\n")
	sb.WriteString(fmt.Sprintf("progress %d → %d / %d\n", out.ReadPagesBefore, out.ReadPagesAfter, out.TotalPages))
	if out.MissionsUpdated > 0 {
		sb.WriteString(fmt.Sprintf("%d mission(s) advanced\n", out.MissionsUpdated))
	}
	if out.MissionsPending {
		sb.WriteString(theme.Hot.Render("missions will update on next refresh") + "\n")
	}
	for _, r := range out.Rewards {
		sb.WriteString(theme.Hot.Render(fmt.Sprintf("mission complete: %s +%d points", r.Title, r.Points)) + "\n")
	}
	return sb.String()
}

func formatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Seconds())
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, total%3600/60, total%60)
}
