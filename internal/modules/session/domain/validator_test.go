package domain_test

import (
	"testing"

	"shelfmate/internal/modules/session/domain"
)

func TestJudgeScenarios(t *testing.T) {
	t.Parallel()
	rules := domain.DefaultRules()
	cases := []struct {
		name      string
		elapsed   int
		raw       int
		used      int
		accepted  int
		speedCap  int
		dailyLeft int
		reason    domain.Reason
	}{
		{name: "speed cap binds", elapsed: 400, raw: 50, used: 0, accepted: 34, speedCap: 34, dailyLeft: 300, reason: domain.ReasonAccepted},
		{name: "too short", elapsed: 120, raw: 50, used: 0, accepted: 0, reason: domain.ReasonTooShort},
		{name: "daily cap binds", elapsed: 1200, raw: 50, used: 290, accepted: 10, speedCap: 100, dailyLeft: 10, reason: domain.ReasonAccepted},
		{name: "raw delta binds", elapsed: 600, raw: 12, used: 0, accepted: 12, speedCap: 50, dailyLeft: 300, reason: domain.ReasonAccepted},
		{name: "zero raw delta", elapsed: 600, raw: 0, used: 0, accepted: 0, speedCap: 50, dailyLeft: 300, reason: domain.ReasonNothingApplied},
		{name: "daily cap exhausted", elapsed: 600, raw: 20, used: 300, accepted: 0, speedCap: 50, dailyLeft: 0, reason: domain.ReasonNothingApplied},
		{name: "over cap usage clamps", elapsed: 600, raw: 20, used: 450, accepted: 0, speedCap: 50, dailyLeft: 0, reason: domain.ReasonNothingApplied},
		{name: "exact minimum", elapsed: 180, raw: 40, used: 0, accepted: 15, speedCap: 15, dailyLeft: 300, reason: domain.ReasonAccepted},
	}
	for _, tc := range cases {
		v := rules.Judge(tc.elapsed, tc.raw, tc.used)
		if v.Accepted != tc.accepted || v.Reason != tc.reason {
			t.Fatalf("%s: expected %d/%s, got %d/%s", tc.name, tc.accepted, tc.reason, v.Accepted, v.Reason)
		}
		if tc.reason != domain.ReasonTooShort && (v.SpeedCap != tc.speedCap || v.DailyLeft != tc.dailyLeft) {
			t.Fatalf("%s: expected caps %d/%d, got %d/%d", tc.name, tc.speedCap, tc.dailyLeft, v.SpeedCap, v.DailyLeft)
		}
	}
}

func TestJudgeZeroElapsedIsFlooredWithoutPanic(t *testing.T) {
	t.Parallel()
	rules := domain.Rules{MinSessionSeconds: 0, MaxPagesPerMinute: 5, DailyPagesCap: 300}
	v := rules.Judge(0, 10, 0)
	if v.ElapsedSeconds != 1 {
		t.Fatalf("expected elapsed floored to 1, got %d", v.ElapsedSeconds)
	}
	if v.SpeedCap != 1 || v.Accepted != 1 {
		t.Fatalf("expected one page at one second, got cap=%d accepted=%d", v.SpeedCap, v.Accepted)
	}
	if neg := rules.Judge(-30, -4, -1); neg.Accepted != 0 || neg.RawDelta != 0 {
		t.Fatalf("negative inputs must clamp to zero, got %+v", neg)
	}
}

func TestJudgeBoundsHoldAcrossInputs(t *testing.T) {
	t.Parallel()
	rules := domain.DefaultRules()
	for elapsed := 0; elapsed <= 7200; elapsed += 37 {
		for raw := 0; raw <= 400; raw += 23 {
			for used := 0; used <= 320; used += 40 {
				v := rules.Judge(elapsed, raw, used)
				if elapsed < rules.MinSessionSeconds && v.Accepted != 0 {
					t.Fatalf("short session accepted pages: elapsed=%d %+v", elapsed, v)
				}
				if v.Accepted < 0 || v.Accepted > raw {
					t.Fatalf("accepted outside [0, raw]: %+v", v)
				}
				if v.Reason != domain.ReasonTooShort && (v.Accepted > v.SpeedCap || v.Accepted > v.DailyLeft) {
					t.Fatalf("accepted exceeds caps: %+v", v)
				}
				if v.Applied() != (v.Reason == domain.ReasonAccepted) {
					t.Fatalf("applied flag disagrees with reason: %+v", v)
				}
			}
		}
	}
}

func TestClampClaim(t *testing.T) {
	t.Parallel()
	cases := []struct {
		claim, read, total, start int
		final, raw                int
	}{
		{claim: 80, read: 40, total: 320, start: 40, final: 80, raw: 40},
		{claim: 10, read: 40, total: 320, start: 40, final: 40, raw: 0},
		{claim: 999, read: 300, total: 320, start: 300, final: 320, raw: 20},
		{claim: 60, read: 50, total: 320, start: 40, final: 60, raw: 20},
		{claim: 45, read: 30, total: 320, start: 40, final: 45, raw: 5},
		{claim: 20, read: 10, total: 320, start: 40, final: 20, raw: 0},
	}
	for _, tc := range cases {
		final, raw := domain.ClampClaim(tc.claim, tc.read, tc.total, tc.start)
		if final != tc.final || raw != tc.raw {
			t.Fatalf("ClampClaim(%d,%d,%d,%d) = %d,%d want %d,%d", tc.claim, tc.read, tc.total, tc.start, final, raw, tc.final, tc.raw)
		}
	}
}

func TestRulesValidate(t *testing.T) {
	t.Parallel()
	if err := domain.DefaultRules().Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
	if err := (domain.Rules{MaxPagesPerMinute: 0}).Validate(); err == nil {
		t.Fatalf("expected error for zero rate")
	}
	if err := (domain.Rules{MinSessionSeconds: -1, MaxPagesPerMinute: 1}).Validate(); err == nil {
		t.Fatalf("expected error for negative minimum")
	}
}
