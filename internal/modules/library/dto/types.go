package dto

import "time"

type AddBookInput struct {
	ISBN       string
	Title      string
	Authors    []string
	Publisher  string
	Thumbnail  string
	Contents   string
	TotalPages int
}

type ReadingDeltaInput struct {
	UserID string
	ISBN   string
	Delta  int
}

type BookOutput struct {
	ISBN       string
	Title      string
	Authors    []string
	Publisher  string
	Thumbnail  string
	Contents   string
	TotalPages int
	ReadPages  int
	LeftPages  int
	Percent    int
	Summary    string
	Rating     int
	Favorite   bool
	Finished   bool
	NotePath   string
	UpdatedAt  time.Time
}
