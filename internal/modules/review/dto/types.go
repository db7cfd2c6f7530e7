package dto

import "time"

type SaveReviewInput struct {
	ISBN   string
	Rating int
	Text   string
}

type ReviewOutput struct {
	ISBN      string
	UserID    string
	Nickname  string
	Rating    int
	Text      string
	Mine      bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ReviewListOutput carries HasAverage=false when no review has a positive rating.
type ReviewListOutput struct {
	Reviews    []ReviewOutput
	Average    float64
	HasAverage bool
	Count      int
}

type AddMemoInput struct {
	ISBN string
	Text string
}

type MemoOutput struct {
	ID        string
	ISBN      string
	Text      string
	PagesAt   int
	CreatedAt time.Time
}
