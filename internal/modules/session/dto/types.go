package dto

import "time"

type StartInput struct {
	ISBN   string
	Device string
}

type StartOutput struct {
	SessionID      string
	ISBN           string
	BookTitle      string
	StartReadPages int
	StartedAt      time.Time
}

type EndInput struct {
	// ClaimedFinalPages is the page the reader says they reached; it is clamped, never rejected.
	ClaimedFinalPages int
}

type RewardOutput struct {
	MissionID string
	Title     string
	Points    int
}

type EndOutput struct {
	SessionID       string
	ISBN            string
	BookTitle       string
	ElapsedSeconds  int
	RawDelta        int
	SpeedCap        int
	DailyLeft       int
	AcceptedDelta   int
	Reason          string
	ReadPagesBefore int
	ReadPagesAfter  int
	TotalPages      int
	NotePath        string
	// MissionsPending is set when the delta was recorded but applying it to missions failed.
	MissionsPending bool
	MissionsUpdated int
	Rewards         []RewardOutput
}

type ActiveSessionOutput struct {
	SessionID      string
	ISBN           string
	BookTitle      string
	StartReadPages int
	StartedAt      time.Time
	Elapsed        time.Duration
}

type SessionOutput struct {
	SessionID         string
	ISBN              string
	BookTitle         string
	StartedAt         time.Time
	EndedAt           time.Time
	ElapsedSeconds    int
	StartReadPages    int
	ClaimedFinalPages int
	RawDelta          int
	AcceptedDelta     int
	Reason            string
}
