package dto

import "time"

type RegisterInput struct {
	Email    string
	Nickname string
	Password string
}

type LoginInput struct {
	Email    string
	Password string
}

type CreditInput struct {
	UserID    string
	MissionID string
	Points    int
}

type LoginOutput struct {
	UserID    string
	Email     string
	Nickname  string
	ExpiresAt time.Time
}

type ProfileOutput struct {
	UserID         string
	Email          string
	Nickname       string
	TotalPoints    int
	BooksReadCount int
	Rank           string
	NextRank       string
	PointsToNext   int
	PercentToNext  float64
}
