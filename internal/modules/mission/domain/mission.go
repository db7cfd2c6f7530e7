package domain

import (
	"strings"
	"time"

	"shelfmate/internal/platform/calendar"
	apperrors "shelfmate/internal/platform/errors"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyNormal Difficulty = "normal"
	DifficultyHard   Difficulty = "hard"
	DifficultyCustom Difficulty = "custom"
)

// Mission is a time-boxed page goal. Progress is a percentage of Goal in [0, 100].
type Mission struct {
	ID        string
	UserID    string
	Title     string
	StartDate calendar.Date
	EndDate   calendar.Date
	Goal      int
	Progress  float64
	Reward    int
	Completed bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Draft carries the fields a user supplies when creating a mission. Zero Reward means one point per goal page.
type Draft struct {
	Title     string
	StartDate calendar.Date
	EndDate   calendar.Date
	Goal      int
	Reward    int
}

func NewMission(id, userID string, draft Draft, now time.Time) (Mission, error) {
	title := strings.TrimSpace(draft.Title)
	switch {
	case strings.TrimSpace(id) == "":
		return Mission{}, apperrors.Invalid("mission id is required")
	case strings.TrimSpace(userID) == "":
		return Mission{}, apperrors.Invalid("mission owner is required")
	case title == "":
		return Mission{}, apperrors.Invalid("mission title is required")
	case draft.StartDate.IsZero() || draft.EndDate.IsZero():
		return Mission{}, apperrors.Invalid("mission start and end dates are required")
	case draft.EndDate.Before(draft.StartDate):
		return Mission{}, apperrors.Invalid("mission end date must not be before start date")
	case draft.Goal <= 0:
		return Mission{}, apperrors.Invalid("mission goal must be positive")
	case draft.Reward < 0:
		return Mission{}, apperrors.Invalid("mission reward must be positive")
	}
	reward := draft.Reward
	if reward == 0 {
		reward = draft.Goal
	}
	return Mission{
		ID:        id,
		UserID:    userID,
		Title:     title,
		StartDate: draft.StartDate,
		EndDate:   draft.EndDate,
		Goal:      draft.Goal,
		Reward:    reward,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// ActiveOn reports whether the mission accrues pages read on today.
func (m Mission) ActiveOn(today calendar.Date) bool {
	return !m.Completed && !today.Before(m.StartDate) && !today.After(m.EndDate)
}

func (m Mission) PeriodDays() int {
	return calendar.DaysInclusive(m.StartDate, m.EndDate)
}

func (m Mission) Difficulty() Difficulty {
	return Classify(m.StartDate, m.EndDate, m.Goal)
}

// Classify grades daily and weekly missions by goal size. Longer periods are not graded.
func Classify(start, end calendar.Date, goal int) Difficulty {
	days := calendar.DaysInclusive(start, end)
	switch {
	case days <= 1:
		return grade(goal, 150, 300)
	case days <= 7:
		return grade(goal, 300, 600)
	default:
		return DifficultyCustom
	}
}

func grade(goal, normalAt, hardAt int) Difficulty {
	switch {
	case goal >= hardAt:
		return DifficultyHard
	case goal >= normalAt:
		return DifficultyNormal
	default:
		return DifficultyEasy
	}
}

// PagesRead converts progress back to pages, rounded down.
func (m Mission) PagesRead() int {
	return int(m.Progress / 100 * float64(m.Goal))
}
