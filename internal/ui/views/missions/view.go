package missions

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	missiondto "shelfmate/internal/modules/mission/dto"
	"shelfmate/internal/platform/calendar"
	"shelfmate/internal/ui/theme"
)

type Port interface {
	Create(ctx context.Context, input missiondto.CreateInput) (missiondto.MissionOutput, error)
	Delete(ctx context.Context, missionID string) error
	List(ctx context.Context) ([]missiondto.MissionOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type LoadedMsg struct {
	Missions []missiondto.MissionOutput
	Err      error
}

// UpdatedMsg carries a pushed snapshot from the mission subscription.
type UpdatedMsg struct {
	Missions []missiondto.MissionOutput
}

type createdMsg struct {
	Mission missiondto.MissionOutput
	Err     error
}

type deletedMsg struct{ Err error }

// formFields survives value copies of Model.
type formFields struct {
	title  string
	start  string
	end    string
	goal   string
	reward string
}

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port     Port
	missions []missiondto.MissionOutput
	cursor   int
	bar      progress.Model
	form     *huh.Form
	fields   *formFields
	status   string
	err      error
	loading  bool
	width    int
	height   int
}

func New(port Port) Model {
	return Model{
		port:    port,
		bar:     progress.New(progress.WithGradient(string(theme.Sapphire), string(theme.Green))),
		fields:  &formFields{},
		loading: true,
	}
}

func (m Model) Init() tea.Cmd { return m.Reload() }

func (m Model) Reload() tea.Cmd {
	return func() tea.Msg {
		missions, err := m.port.List(context.Background())
		return LoadedMsg{Missions: missions, Err: err}
	}
}

// Editing reports whether the create form owns the keyboard.
func (m Model) Editing() bool { return m.form != nil }

// OpenForm shows the create form with today's date prefilled.
func (m Model) OpenForm(today calendar.Date) (Model, tea.Cmd) {
	*m.fields = formFields{start: today.String(), end: today.String(), goal: "100", reward: "100"}
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Title").Value(&m.fields.title).Validate(required),
			huh.NewInput().Title("Start (YYYY-MM-DD)").Value(&m.fields.start).Validate(validDate),
			huh.NewInput().Title("End (YYYY-MM-DD)").Value(&m.fields.end).Validate(validDate),
			huh.NewInput().Title("Goal pages").Value(&m.fields.goal).Validate(positive),
			huh.NewInput().Title("Reward points").Value(&m.fields.reward).Validate(positive),
		),
	).WithShowHelp(true).WithShowErrors(true)
	return m, m.form.Init()
}

// DeleteCmd removes the mission with id.
func (m Model) DeleteCmd(id string) tea.Cmd {
	return func() tea.Msg {
		return deletedMsg{Err: m.port.Delete(context.Background(), id)}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form != nil {
		return m.updateForm(msg)
	}
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.bar.Width = max(10, min(40, m.width/3))

	case LoadedMsg:
		m.loading = false
		m.err = msg.Err
		if msg.Err == nil {
			m.setMissions(msg.Missions)
		}

	case UpdatedMsg:
		m.loading = false
		m.setMissions(msg.Missions)

	case createdMsg:
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.err = nil
		m.status = "created " + msg.Mission.Title
		return m, m.Reload()

	case deletedMsg:
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.status = "mission deleted"
		return m, m.Reload()

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.missions)-1 {
				m.cursor++
			}
		case "d":
			if sel, ok := m.Selected(); ok {
				return m, m.DeleteCmd(sel.ID)
			}
		}
	}
	return m, nil
}

func (m Model) View() string {
	if m.form != nil {
		content := lipgloss.JoinVertical(lipgloss.Left, theme.Title.Render("New Mission"), "", m.form.View())
		return theme.Pane.Width(max(20, m.width-4)).Render(content)
	}
	if m.loading {
		return theme.Muted.Render("Loading missions…")
	}

	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Missions") + "\n\n")
	if len(m.missions) == 0 {
		sb.WriteString(theme.Muted.Render("no missions yet, press n to create one") + "\n")
	}
	for i, mission := range m.missions {
		cursor := "  "
		if i == m.cursor {
			cursor = lipgloss.NewStyle().Foreground(theme.Lavender).Render("▸ ")
		}
		title := mission.Title
		if mission.Completed {
			title = theme.Good.Render("✓ " + title)
		}
		sb.WriteString(cursor + title + theme.Muted.Render(fmt.Sprintf("  %s → %s  (%s)", mission.StartDate, mission.EndDate, mission.Difficulty)) + "\n")
		sb.WriteString("  " + m.bar.ViewAs(min(1, mission.Progress/100)) +
			theme.Muted.Render(fmt.Sprintf("  %d/%d pages  +%d pts", mission.PagesRead, mission.Goal, mission.Reward)) + "\n\n")
	}
	if m.status != "" {
		sb.WriteString(theme.Muted.Render(m.status) + "\n")
	}
	if m.err != nil {
		sb.WriteString(theme.Bad.Render("error: ") + m.err.Error() + "\n")
	}
	sb.WriteString(theme.Muted.Render("n: new  d: delete  j/k: move"))
	return lipgloss.NewStyle().Width(m.width).Height(m.height).Render(sb.String())
}

func (m Model) Selected() (missiondto.MissionOutput, bool) {
	if m.cursor < 0 || m.cursor >= len(m.missions) {
		return missiondto.MissionOutput{}, false
	}
	return m.missions[m.cursor], true
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m *Model) setMissions(missions []missiondto.MissionOutput) {
	m.missions = missions
	if m.cursor >= len(missions) {
		m.cursor = max(0, len(missions)-1)
	}
}

func (m Model) updateForm(msg tea.Msg) (Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		m.form = nil
		return m, nil
	}
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	switch m.form.State {
	case huh.StateCompleted:
		m.form = nil
		input, err := m.fields.input()
		if err != nil {
			m.err = err
			return m, nil
		}
		return m, func() tea.Msg {
			out, err := m.port.Create(context.Background(), input)
			return createdMsg{Mission: out, Err: err}
		}
	case huh.StateAborted:
		m.form = nil
		return m, nil
	}
	return m, cmd
}

func (f formFields) input() (missiondto.CreateInput, error) {
	start, err := calendar.Parse(f.start)
	if err != nil {
		return missiondto.CreateInput{}, err
	}
	end, err := calendar.Parse(f.end)
	if err != nil {
		return missiondto.CreateInput{}, err
	}
	goal, err := strconv.Atoi(strings.TrimSpace(f.goal))
	if err != nil {
		return missiondto.CreateInput{}, err
	}
	reward, err := strconv.Atoi(strings.TrimSpace(f.reward))
	if err != nil {
		return missiondto.CreateInput{}, err
	}
	return missiondto.CreateInput{Title: strings.TrimSpace(f.title), StartDate: start, EndDate: end, Goal: goal, Reward: reward}, nil
}

func required(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("required")
	}
	return nil
}

func validDate(s string) error {
	_, err := calendar.Parse(strings.TrimSpace(s))
	return err
}

func positive(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return fmt.Errorf("must be a positive number")
	}
	return nil
}
