package domain

import "time"

const SchemaVersion = 1

const (
	SourceTimer   = "timer"
	DefaultDevice = "cli"
)

// ActiveSession is the running timer for one user, persisted between CLI invocations.
type ActiveSession struct {
	SessionID      string    `json:"session_id"`
	UserID         string    `json:"user_id"`
	ISBN           string    `json:"isbn"`
	BookTitle      string    `json:"book_title"`
	StartReadPages int       `json:"start_read_pages"`
	StartedAt      time.Time `json:"started_at"`
	Device         string    `json:"device"`
}

// Session is the audit record written when a timer ends, whether or not pages were accepted.
type Session struct {
	ID                string
	UserID            string
	ISBN              string
	BookTitle         string
	Source            string
	Device            string
	StartedAt         time.Time
	EndedAt           time.Time
	StartReadPages    int
	ClaimedFinalPages int
	TotalPages        int
	ElapsedSeconds    int
	RawDelta          int
	AcceptedDelta     int
	Note              Reason
}

func (s Session) ReadPagesAfter() int {
	return s.StartReadPages + s.AcceptedDelta
}
