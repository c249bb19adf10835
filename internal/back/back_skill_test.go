package back // nolint:testpackage

import (
	"testing"
	"time"

	"matchday/internal/stats"
	"matchday/internal/util"

	glicko "github.com/zelenin/go-glicko2"
	"gopkg.in/guregu/null.v4"
)

func TestPeriodCompute(t *testing.T) {
	type entry struct {
		fn              func(time.Time) time.Time
		input, expected string
	}

	cases := []entry{
		{currentPeriodStart, "2020-05-15 02:00 CET", "2020-05-11"},
		{currentPeriodStart, "2020-05-11 02:00 CET", "2020-05-11"},
		{currentPeriodStart, "2020-05-10 02:00 CET", "2020-05-04"},

		{previousPeriodStart, "2020-05-15 02:00 CET", "2020-05-04"},
		{previousPeriodStart, "2020-05-11 02:00 CET", "2020-05-04"},
		{previousPeriodStart, "2020-05-10 02:00 CET", "2020-04-27"},

		{nextPeriodStart, "2020-05-15 02:00 CET", "2020-05-18"},
		{nextPeriodStart, "2020-05-11 02:00 CET", "2020-05-18"},
		{nextPeriodStart, "2020-05-10 02:00 CET", "2020-05-11"},

		// The tricky cases, where intepreting dow in the wrong TZ could mess
		// up the results.
		{currentPeriodStart, "2020-05-15 00:00 CET", "2020-05-11"},
		{currentPeriodStart, "2020-05-11 00:00 CET", "2020-05-04"},
		{currentPeriodStart, "2020-05-10 00:00 CET", "2020-05-04"},
	}

	for k, v := range cases {
		input, err := time.Parse("2006-01-02 15:04 MST", v.input)
		if err != nil {
			t.Fatal(err)
		}

		actual := v.fn(input).Format("2006-01-02")
		if actual != v.expected {
			t.Errorf("case #%d: expected %s got %s", k, v.expected, actual)
		}
	}
}

func TestComputePeriodRanksWinnersAboveLosers(t *testing.T) {
	groupID := util.NewUUIDAsBlob()
	winner := util.NewUUIDAsBlob()
	loser := util.NewUUIDAsBlob()

	roster := []GamePlayer{
		{PlayerID: winner, Team: null.IntFrom(TeamA), Outcome: stats.OutcomeWin},
		{PlayerID: loser, Team: null.IntFrom(TeamB), Outcome: stats.OutcomeLoss},
	}

	glickoPlayers := map[util.UUIDAsBlob]*glicko.Player{}
	computePeriod(groupID, [][]GamePlayer{roster, roster, roster}, glickoPlayers)

	if len(glickoPlayers) != 2 {
		t.Fatalf("expected 2 rated players, got %d", len(glickoPlayers))
	}

	winnerR := glickoPlayers[winner].Rating().R()
	loserR := glickoPlayers[loser].Rating().R()
	if winnerR <= loserR {
		t.Errorf("expected winner rating (%f) above loser rating (%f)", winnerR, loserR)
	}
}

func TestComputePeriodIgnoresUnassignedPlayers(t *testing.T) {
	groupID := util.NewUUIDAsBlob()
	benched := util.NewUUIDAsBlob()

	roster := []GamePlayer{
		{PlayerID: util.NewUUIDAsBlob(), Team: null.IntFrom(TeamA), Outcome: stats.OutcomeWin},
		{PlayerID: util.NewUUIDAsBlob(), Team: null.IntFrom(TeamB), Outcome: stats.OutcomeLoss},
		{PlayerID: benched, Outcome: stats.OutcomeTie},
	}

	glickoPlayers := map[util.UUIDAsBlob]*glicko.Player{}
	computePeriod(groupID, [][]GamePlayer{roster}, glickoPlayers)

	if _, ok := glickoPlayers[benched]; ok {
		t.Error("expected player without a team to stay unrated")
	}
}

func TestDeriveOutcome(t *testing.T) {
	cases := []struct {
		team           null.Int
		scoreA, scoreB int64
		expected       stats.Outcome
	}{
		{null.IntFrom(TeamA), 3, 1, stats.OutcomeWin},
		{null.IntFrom(TeamA), 1, 3, stats.OutcomeLoss},
		{null.IntFrom(TeamB), 1, 3, stats.OutcomeWin},
		{null.IntFrom(TeamB), 3, 1, stats.OutcomeLoss},
		{null.IntFrom(TeamA), 2, 2, stats.OutcomeTie},
		{null.IntFrom(TeamB), 0, 0, stats.OutcomeTie},
		{null.Int{}, 3, 1, stats.OutcomeTie},
	}

	for k, v := range cases {
		if actual := deriveOutcome(v.team, v.scoreA, v.scoreB); actual != v.expected {
			t.Errorf("case #%d: expected outcome %d got %d", k, v.expected, actual)
		}
	}
}
