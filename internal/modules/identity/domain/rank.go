package domain

type Tier struct {
	Name      string
	MinPoints int
}

// Tiers are ordered by threshold.
var Tiers = []Tier{
	{Name: "Knocking on the Door", MinPoints: 0},
	{Name: "First Page Turned", MinPoints: 1000},
	{Name: "Learning the Shelves", MinPoints: 2000},
	{Name: "Steady Reader", MinPoints: 3000},
	{Name: "Friend of Books", MinPoints: 4000},
	{Name: "Everyday Reader", MinPoints: 5000},
	{Name: "Joy of Print", MinPoints: 6000},
	{Name: "Lost in Letters", MinPoints: 7000},
	{Name: "Reached the Last Page", MinPoints: 8000},
}

type Rank struct {
	Tier          Tier
	Next          *Tier
	ToNext        int
	PercentToNext float64
}

// RankFor places points on the tier ladder. At the top tier ToNext is 0 and PercentToNext is 100.
func RankFor(points int) Rank {
	if points < 0 {
		points = 0
	}
	idx := 0
	for i, tier := range Tiers {
		if points >= tier.MinPoints {
			idx = i
		}
	}
	rank := Rank{Tier: Tiers[idx], PercentToNext: 100}
	if idx+1 < len(Tiers) {
		next := Tiers[idx+1]
		span := next.MinPoints - rank.Tier.MinPoints
		rank.Next = &next
		rank.ToNext = next.MinPoints - points
		rank.PercentToNext = float64(points-rank.Tier.MinPoints) / float64(span) * 100
	}
	return rank
}
