package stats // nolint:testpackage

import (
	"strings"
	"testing"
	"time"

	"matchday/internal/util"
)

func uid(b byte) util.UUIDAsBlob {
	return util.UUIDAsBlob([16]byte{15: b})
}

func day(d int) time.Time {
	return time.Date(2024, 1, d, 18, 0, 0, 0, time.UTC)
}

func game(id byte, startsAt time.Time) GameRecord {
	return GameRecord{ID: uid(id), GroupID: uid(0xF0), StartsAt: startsAt}
}

func attended(gameID, playerID byte, name string, outcome Outcome) GamePlayerRecord {
	return GamePlayerRecord{
		GameID:   uid(gameID),
		PlayerID: uid(playerID),
		Name:     name,
		Outcome:  outcome,
	}
}

func rated(gameID, playerID, raterID byte, value int) RatingRecord {
	return RatingRecord{
		GameID:   uid(gameID),
		PlayerID: uid(playerID),
		RaterID:  uid(raterID),
		Value:    value,
	}
}

func TestMostGamesPlayed(t *testing.T) {
	cases := []struct {
		name     string
		input    []GamePlayerRecord
		expected *PlayerStat
	}{
		{"empty", nil, nil},
		{
			"no valid name",
			[]GamePlayerRecord{attended(1, 1, "", OutcomeWin)},
			nil,
		},
		{
			"single leader",
			[]GamePlayerRecord{
				attended(1, 1, "Ayla", OutcomeWin),
				attended(2, 1, "Ayla", OutcomeLoss),
				attended(3, 1, "Ayla", OutcomeLoss),
				attended(1, 2, "Brett", OutcomeLoss),
			},
			&PlayerStat{PlayerID: uid(1), Name: "Ayla", Value: 3},
		},
		{
			// Equal counts resolve by name ascending, whatever the input order.
			"tie broken by name",
			[]GamePlayerRecord{
				attended(1, 2, "Brett", OutcomeWin),
				attended(2, 2, "Brett", OutcomeWin),
				attended(3, 2, "Brett", OutcomeWin),
				attended(1, 1, "Ayla", OutcomeLoss),
				attended(2, 1, "Ayla", OutcomeLoss),
				attended(3, 1, "Ayla", OutcomeLoss),
			},
			&PlayerStat{PlayerID: uid(1), Name: "Ayla", Value: 3},
		},
	}

	e := NewEngine()
	for _, v := range cases {
		t.Run(v.name, func(t *testing.T) {
			assertStat(t, v.expected, e.MostGamesPlayed(v.input))
		})
	}
}

func TestMostGamesPlayedIsIdempotent(t *testing.T) {
	input := []GamePlayerRecord{
		attended(1, 1, "Ayla", OutcomeWin),
		attended(2, 1, "Ayla", OutcomeLoss),
		attended(1, 2, "Brett", OutcomeLoss),
	}

	e := NewEngine()
	first := e.MostGamesPlayed(input)
	for i := 0; i < 10; i++ {
		assertStat(t, first, e.MostGamesPlayed(input))
	}
}

func TestBestPlayer(t *testing.T) {
	players := []PlayerRef{
		{ID: uid(1), Name: "Ayla"},
		{ID: uid(2), Name: "Brett"},
		{ID: uid(3), Name: "Chidi"},
	}

	cases := []struct {
		name     string
		ratings  []RatingRecord
		expected *PlayerStat
	}{
		{"no ratings", nil, nil},
		{
			// 5,5,4 across three games -> mean 4.67, rounded to the nearest
			// half step. A player with zero ratings never appears.
			"mean is rounded half-step",
			[]RatingRecord{
				rated(1, 1, 2, 5),
				rated(2, 1, 3, 5),
				rated(3, 1, 2, 4),
				rated(1, 2, 1, 3),
			},
			&PlayerStat{PlayerID: uid(1), Name: "Ayla", Value: 4.5},
		},
		{
			"dangling ratee is skipped",
			[]RatingRecord{
				rated(1, 9, 1, 5),
				rated(1, 2, 1, 2),
			},
			&PlayerStat{PlayerID: uid(2), Name: "Brett", Value: 2},
		},
	}

	e := NewEngine()
	for _, v := range cases {
		t.Run(v.name, func(t *testing.T) {
			actual, err := e.BestPlayer(v.ratings, players)
			if err != nil {
				t.Fatal(err)
			}

			assertStat(t, v.expected, actual)
		})
	}
}

func TestBestPlayerCeilPolicy(t *testing.T) {
	e := NewEngine()
	e.Round = RoundCeil

	actual, err := e.BestPlayer(
		[]RatingRecord{
			rated(1, 1, 2, 5),
			rated(2, 1, 3, 5),
			rated(3, 1, 2, 4),
		},
		[]PlayerRef{{ID: uid(1), Name: "Ayla"}},
	)
	if err != nil {
		t.Fatal(err)
	}

	assertStat(t, &PlayerStat{PlayerID: uid(1), Name: "Ayla", Value: 5}, actual)
}

func TestBestPlayerRejectsOutOfRangeRating(t *testing.T) {
	e := NewEngine()
	for _, value := range []int{0, 6, -1} {
		_, err := e.BestPlayer(
			[]RatingRecord{rated(1, 1, 2, value)},
			[]PlayerRef{{ID: uid(1), Name: "Ayla"}},
		)
		if err == nil {
			t.Errorf("expected an error for rating value %d", value)
		} else if !strings.Contains(err.Error(), "out of the 1-5 range") {
			t.Errorf("unexpected error: %s", err)
		}
	}
}

func TestLongestWinStreak(t *testing.T) {
	games := []GameRecord{
		game(1, day(1)),
		game(2, day(8)),
		game(3, day(20)),
	}

	cases := []struct {
		name        string
		gamePlayers []GamePlayerRecord
		expected    *PlayerStat
	}{
		{"empty", nil, nil},
		{
			"nobody won",
			[]GamePlayerRecord{attended(1, 1, "Ayla", OutcomeLoss)},
			nil,
		},
		{
			// Player A wins twice then loses, player B wins once: the third
			// game breaks A's run so the streak is 2, not 3.
			"loss breaks the run",
			[]GamePlayerRecord{
				attended(1, 1, "Ayla", OutcomeWin),
				attended(2, 1, "Ayla", OutcomeWin),
				attended(3, 1, "Ayla", OutcomeLoss),
				attended(1, 2, "Brett", OutcomeWin),
			},
			&PlayerStat{PlayerID: uid(1), Name: "Ayla", Value: 2},
		},
		{
			"tie breaks the run too",
			[]GamePlayerRecord{
				attended(1, 1, "Ayla", OutcomeWin),
				attended(2, 1, "Ayla", OutcomeTie),
				attended(3, 1, "Ayla", OutcomeWin),
			},
			&PlayerStat{PlayerID: uid(1), Name: "Ayla", Value: 1},
		},
		{
			// Ayla skipped the second game entirely, attendance gaps do not
			// break a win streak, only a non-win outcome does.
			"attendance gap does not break the run",
			[]GamePlayerRecord{
				attended(1, 1, "Ayla", OutcomeWin),
				attended(3, 1, "Ayla", OutcomeWin),
				attended(2, 2, "Brett", OutcomeWin),
			},
			&PlayerStat{PlayerID: uid(1), Name: "Ayla", Value: 2},
		},
	}

	e := NewEngine()
	for _, v := range cases {
		t.Run(v.name, func(t *testing.T) {
			assertStat(t, v.expected, e.LongestWinStreak(games, v.gamePlayers))
		})
	}
}

func TestLongestWinStreakMonotonicity(t *testing.T) {
	games := []GameRecord{game(1, day(1)), game(2, day(8))}
	gamePlayers := []GamePlayerRecord{
		attended(1, 1, "Ayla", OutcomeWin),
		attended(2, 1, "Ayla", OutcomeWin),
	}

	e := NewEngine()
	before := e.LongestWinStreak(games, gamePlayers)

	// Appending a win never decreases the leader's streak.
	games = append(games, game(3, day(15)))
	after := e.LongestWinStreak(games, append(gamePlayers, attended(3, 1, "Ayla", OutcomeWin)))
	if after == nil || after.Value < before.Value {
		t.Errorf("streak decreased after a win: %v -> %v", before, after)
	}

	// Appending a loss resets the current run but keeps the longest.
	after = e.LongestWinStreak(games, append(gamePlayers, attended(3, 1, "Ayla", OutcomeLoss)))
	if after == nil || after.Value != before.Value {
		t.Errorf("expected longest streak %v after a loss, got %v", before, after)
	}
}

func TestCurrentStreakLeader(t *testing.T) {
	cases := []struct {
		name     string
		days     []int
		expected float64
	}{
		{"single game", []int{1}, 1},
		// Exactly 7 days apart is still consecutive, 8 days resets to 1.
		{"exact threshold", []int{1, 8}, 2},
		{"one day over threshold", []int{1, 9}, 1},
		{"reset then rebuild", []int{1, 2, 20, 25, 27}, 3},
	}

	e := NewEngine()
	for _, v := range cases {
		t.Run(v.name, func(t *testing.T) {
			games := make([]GameRecord, 0, len(v.days))
			gamePlayers := make([]GamePlayerRecord, 0, len(v.days))
			for k, d := range v.days {
				games = append(games, game(byte(k+1), day(d)))
				gamePlayers = append(gamePlayers, attended(byte(k+1), 1, "Ayla", OutcomeWin))
			}

			assertStat(
				t,
				&PlayerStat{PlayerID: uid(1), Name: "Ayla", Value: v.expected},
				e.CurrentStreakLeader(games, gamePlayers),
			)
		})
	}
}

func TestMostImproved(t *testing.T) {
	games := []GameRecord{
		game(1, day(1)),
		game(2, day(8)),
		game(3, day(15)),
	}
	players := []PlayerRef{
		{ID: uid(1), Name: "Ayla"},
		{ID: uid(2), Name: "Brett"},
	}

	cases := []struct {
		name     string
		ratings  []RatingRecord
		expected *PlayerStat
	}{
		{"no ratings", nil, nil},
		{
			"fewer than two rated games is excluded",
			[]RatingRecord{rated(1, 1, 2, 5)},
			nil,
		},
		{
			"negative trend is excluded",
			[]RatingRecord{
				rated(1, 1, 2, 5),
				rated(2, 1, 2, 2),
			},
			nil,
		},
		{
			// Earliest 2, latest 5 -> +3 even though the ratings arrive in
			// reverse order: the game date decides, not submission order.
			"delta between earliest and latest",
			[]RatingRecord{
				rated(3, 1, 2, 5),
				rated(1, 1, 2, 2),
			},
			&PlayerStat{PlayerID: uid(1), Name: "Ayla", Value: 3},
		},
		{
			"ratings on the same game are averaged first",
			[]RatingRecord{
				rated(1, 1, 2, 2),
				rated(1, 1, 3, 3),
				rated(3, 1, 2, 5),
				rated(3, 1, 3, 4),
			},
			&PlayerStat{PlayerID: uid(1), Name: "Ayla", Value: 2},
		},
	}

	e := NewEngine()
	for _, v := range cases {
		t.Run(v.name, func(t *testing.T) {
			actual, err := e.MostImproved(games, v.ratings, players)
			if err != nil {
				t.Fatal(err)
			}

			assertStat(t, v.expected, actual)
		})
	}
}

func TestMostImprovedSignedFormat(t *testing.T) {
	stat := PlayerStat{PlayerID: uid(1), Name: "Ayla", Value: 3}
	if actual := stat.Signed(); actual != "+3.0" {
		t.Errorf("expected '+3.0', got '%s'", actual)
	}

	stat.Value = 1.5
	if actual := stat.Signed(); actual != "+1.5" {
		t.Errorf("expected '+1.5', got '%s'", actual)
	}
}

func TestEndToEndScenario(t *testing.T) {
	// Player A: 2024-01-01 (win), 2024-01-08 (win), 2024-01-20 (lose).
	// Player B: 2024-01-01 (win) only.
	games := []GameRecord{
		game(1, day(1)),
		game(2, day(8)),
		game(3, day(20)),
	}
	gamePlayers := []GamePlayerRecord{
		attended(1, 1, "Ayla", OutcomeWin),
		attended(2, 1, "Ayla", OutcomeWin),
		attended(3, 1, "Ayla", OutcomeLoss),
		attended(1, 2, "Brett", OutcomeWin),
	}

	e := NewEngine()

	assertStat(
		t,
		&PlayerStat{PlayerID: uid(1), Name: "Ayla", Value: 2},
		e.LongestWinStreak(games, gamePlayers),
	)
	assertStat(
		t,
		&PlayerStat{PlayerID: uid(1), Name: "Ayla", Value: 3},
		e.MostGamesPlayed(gamePlayers),
	)
}

func assertStat(t *testing.T, expected, actual *PlayerStat) {
	t.Helper()

	if expected == nil {
		if actual != nil {
			t.Errorf("expected no stat, got %+v", *actual)
		}

		return
	}

	if actual == nil {
		t.Errorf("expected %+v, got no stat", *expected)
		return
	}

	if *expected != *actual {
		t.Errorf("expected %+v, got %+v", *expected, *actual)
	}
}
