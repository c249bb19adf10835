package config // nolint:testpackage

import "testing"

func TestExpandFromEnv(t *testing.T) {
	t.Setenv("MATCHDAY_LISTEN_ADDR", "0.0.0.0:8080")
	t.Setenv("MATCHDAY_RATING_ROUNDING", "ceil")
	t.Setenv("MATCHDAY_STREAK_GAP_DAYS", "10")

	c := Config{SQLitePath: "./test.db"}
	c.expandFromEnv()

	if c.ListenAddr != "0.0.0.0:8080" {
		t.Errorf("expected env listen addr, got '%s'", c.ListenAddr)
	}

	if c.SQLitePath != "./test.db" {
		t.Errorf("expected unset env var to leave value alone, got '%s'", c.SQLitePath)
	}

	if c.RatingRounding != "ceil" {
		t.Errorf("expected env rounding policy, got '%s'", c.RatingRounding)
	}

	if c.StreakGapDays != 10 {
		t.Errorf("expected env streak gap of 10 days, got %d", c.StreakGapDays)
	}
}

func TestExpandFromEnvIgnoresBadStreakGap(t *testing.T) {
	t.Setenv("MATCHDAY_STREAK_GAP_DAYS", "next tuesday")

	c := Config{StreakGapDays: 5}
	c.expandFromEnv()

	if c.StreakGapDays != 5 {
		t.Errorf("expected unparseable value to be ignored, got %d", c.StreakGapDays)
	}
}
