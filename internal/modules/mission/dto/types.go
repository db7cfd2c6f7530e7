package dto

import (
	"time"

	"shelfmate/internal/platform/calendar"
)

// CreateInput leaves StartDate zero for today and EndDate zero for a single-day mission.
type CreateInput struct {
	Title     string
	StartDate calendar.Date
	EndDate   calendar.Date
	Goal      int
	Reward    int
}

// DeltaInput names its user explicitly because it is issued by other modules mid-transaction.
type DeltaInput struct {
	UserID string
	Delta  int
	Origin string
}

type MissionOutput struct {
	ID         string
	Title      string
	StartDate  calendar.Date
	EndDate    calendar.Date
	PeriodDays int
	Goal       int
	Progress   float64
	PagesRead  int
	Reward     int
	Completed  bool
	Difficulty string
	UpdatedAt  time.Time
}

type RewardOutput struct {
	MissionID string
	Title     string
	Points    int
	Credited  bool
}

type ApplyOutput struct {
	Applied  int
	Updated  []MissionOutput
	Rewards  []RewardOutput
	Missions []MissionOutput
}
