package domain

import "fmt"

type Reason string

const (
	ReasonAccepted       Reason = "accepted"
	ReasonTooShort       Reason = "too_short"
	ReasonNothingApplied Reason = "nothing_applied"
)

// Rules bounds how many pages a timed session may credit.
type Rules struct {
	MinSessionSeconds int
	MaxPagesPerMinute int
	DailyPagesCap     int
}

func DefaultRules() Rules {
	return Rules{MinSessionSeconds: 180, MaxPagesPerMinute: 5, DailyPagesCap: 300}
}

func (r Rules) Validate() error {
	if r.MinSessionSeconds < 0 {
		return fmt.Errorf("min session seconds must not be negative")
	}
	if r.MaxPagesPerMinute <= 0 {
		return fmt.Errorf("max pages per minute must be positive")
	}
	if r.DailyPagesCap < 0 {
		return fmt.Errorf("daily pages cap must not be negative")
	}
	return nil
}

// Verdict is the outcome of Judge. A zero Accepted is a normal result, not a failure.
type Verdict struct {
	ElapsedSeconds int
	RawDelta       int
	SpeedCap       int
	DailyLeft      int
	Accepted       int
	Reason         Reason
}

func (v Verdict) Applied() bool {
	return v.Accepted > 0
}

// Judge turns a claimed page increase over a timed session into the accepted increase.
// Out-of-range inputs are clamped rather than rejected.
func (r Rules) Judge(elapsedSeconds, rawDelta, dailyUsed int) Verdict {
	if elapsedSeconds < 1 {
		elapsedSeconds = 1
	}
	if rawDelta < 0 {
		rawDelta = 0
	}
	if dailyUsed < 0 {
		dailyUsed = 0
	}
	v := Verdict{ElapsedSeconds: elapsedSeconds, RawDelta: rawDelta}
	if elapsedSeconds < r.MinSessionSeconds {
		v.Reason = ReasonTooShort
		return v
	}

	// ceil(elapsed/60 * rate) in integers
	v.SpeedCap = (elapsedSeconds*r.MaxPagesPerMinute + 59) / 60
	v.DailyLeft = max(0, r.DailyPagesCap-dailyUsed)
	v.Accepted = max(0, min(rawDelta, v.SpeedCap, v.DailyLeft))
	if v.Accepted == 0 {
		v.Reason = ReasonNothingApplied
		return v
	}
	v.Reason = ReasonAccepted
	return v
}

// ClampClaim bounds the page a reader claims to have reached and derives the raw delta.
// The claim cannot go below what is already recorded nor past the end of the book.
func ClampClaim(claimedFinal, readPages, totalPages, startReadPages int) (final, rawDelta int) {
	final = max(readPages, min(totalPages, claimedFinal))
	rawDelta = min(final-startReadPages, totalPages-readPages)
	return final, max(0, rawDelta)
}
