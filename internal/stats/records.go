package stats

import (
	"fmt"
	"time"

	"matchday/internal/util"
)

// Outcome is what a single game meant for a single player. It is derived
// from the team assignment and the final score when the score is submitted,
// never inside this package.
type Outcome int

const ( // this is stored in DB, don't change values
	OutcomeLoss Outcome = -1
	OutcomeTie  Outcome = 0
	OutcomeWin  Outcome = 1
)

// A GameRecord identifies a single played game of a group.
type GameRecord struct {
	ID       util.UUIDAsBlob
	GroupID  util.UUIDAsBlob
	StartsAt time.Time
}

// A GamePlayerRecord links a player to a game they attended.
// A given (GameID, PlayerID) pair appears at most once.
type GamePlayerRecord struct {
	GameID   util.UUIDAsBlob
	PlayerID util.UUIDAsBlob
	Name     string
	Team     int
	Outcome  Outcome
}

// A RatingRecord is a single 1-5 performance rating given by RaterID to
// PlayerID for one game.
type RatingRecord struct {
	GameID   util.UUIDAsBlob
	PlayerID util.UUIDAsBlob
	RaterID  util.UUIDAsBlob
	Value    int
}

// A PlayerRef is the minimal player identity needed to resolve names on
// computed metrics.
type PlayerRef struct {
	ID   util.UUIDAsBlob
	Name string
}

// A PlayerStat is the winner of a single metric. A nil *PlayerStat means the
// metric had no qualifying data, which is not an error.
type PlayerStat struct {
	PlayerID util.UUIDAsBlob
	Name     string
	Value    float64
}

// Signed formats the value with one decimal and an explicit sign (eg. "+1.5")
// so callers keep the directional meaning of delta metrics.
func (s PlayerStat) Signed() string {
	return fmt.Sprintf("%+.1f", s.Value)
}
