package domain

import "shelfmate/internal/platform/calendar"

// Progress within completionEpsilon of 100 counts as complete.
const completionEpsilon = 1e-9

// Reward is emitted once, on the call that completes a mission.
type Reward struct {
	MissionID string
	UserID    string
	Title     string
	Points    int
}

// Result holds every mission (updated or not), the subset to persist, and new rewards.
type Result struct {
	Missions []Mission
	Touched  []Mission
	Rewards  []Reward
}

// ApplyDelta credits delta pages to every mission active on today. Each mission
// receives the full delta independently. The input slice is never modified.
// The engine keeps no memory of applied deltas: callers apply each delta once.
func ApplyDelta(today calendar.Date, delta int, missions []Mission) Result {
	out := Result{Missions: make([]Mission, len(missions))}
	copy(out.Missions, missions)
	if delta <= 0 {
		return out
	}
	for i, m := range out.Missions {
		if !m.ActiveOn(today) {
			continue
		}
		added := float64(delta) / float64(m.Goal) * 100
		next := min(100, m.Progress+added)
		if next >= 100-completionEpsilon {
			next = 100
		}
		m.Progress = next
		if next >= 100 && !m.Completed {
			m.Completed = true
			out.Rewards = append(out.Rewards, Reward{MissionID: m.ID, UserID: m.UserID, Title: m.Title, Points: m.Reward})
		}
		out.Missions[i] = m
		out.Touched = append(out.Touched, m)
	}
	return out
}
