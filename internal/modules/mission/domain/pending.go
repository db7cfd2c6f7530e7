package domain

import "time"

// PendingDelta is an accepted page increase waiting to be applied to missions.
// It is consumed exactly once by a transactional read-and-clear.
type PendingDelta struct {
	Seq       int64
	UserID    string
	Delta     int
	Origin    string
	CreatedAt time.Time
}
