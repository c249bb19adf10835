// Package stats computes leaderboard metrics over the played games of a
// single group: most games played, best mean rating, longest win streak,
// current attendance streak, and most improved player.
//
// The engine is pure computation: it owns no storage, does no I/O, and is
// deterministic for identical inputs. The caller scopes the record slices to
// one group before invocation. Dangling references (a rating for a player or
// game the caller did not supply) are dropped from aggregation, never fatal.
package stats

import (
	"fmt"
	"math"
	"sort"
	"time"

	"matchday/internal/util"
)

// DefaultGapThreshold is the largest gap between two games that still counts
// as "consecutive" attendance.
const DefaultGapThreshold = 7 * 24 * time.Hour

type Engine struct {
	GapThreshold time.Duration
	Round        RoundingPolicy
}

func NewEngine() *Engine {
	return &Engine{
		GapThreshold: DefaultGapThreshold,
		Round:        RoundHalfStep,
	}
}

// MostGamesPlayed returns the player with the most game attendances, or nil
// if no attendance carries a usable player name.
func (e *Engine) MostGamesPlayed(gamePlayers []GamePlayerRecord) *PlayerStat {
	counts := make(map[util.UUIDAsBlob]int, len(gamePlayers))
	names := make(map[util.UUIDAsBlob]string, len(gamePlayers))

	for k := range gamePlayers {
		if gamePlayers[k].Name == "" {
			continue
		}

		counts[gamePlayers[k].PlayerID]++
		names[gamePlayers[k].PlayerID] = gamePlayers[k].Name
	}

	var best *PlayerStat
	for id, count := range counts {
		best = better(best, PlayerStat{
			PlayerID: id,
			Name:     names[id],
			Value:    float64(count),
		})
	}

	return best
}

// BestPlayer returns the player with the highest mean rating, rounded by the
// engine policy. Players without a single rating are excluded. A rating
// outside the 1-5 range is an upstream data-integrity fault and returns an
// error rather than being skipped.
func (e *Engine) BestPlayer(ratings []RatingRecord, players []PlayerRef) (*PlayerStat, error) {
	names := namesByID(players)

	sums := make(map[util.UUIDAsBlob]int, len(players))
	counts := make(map[util.UUIDAsBlob]int, len(players))

	for k := range ratings {
		if err := validateRating(ratings[k]); err != nil {
			return nil, err
		}

		if _, ok := names[ratings[k].PlayerID]; !ok {
			continue // dangling ratee, skip
		}

		sums[ratings[k].PlayerID] += ratings[k].Value
		counts[ratings[k].PlayerID]++
	}

	var best *PlayerStat
	for id, sum := range sums {
		best = better(best, PlayerStat{
			PlayerID: id,
			Name:     names[id],
			Value:    e.Round(float64(sum) / float64(counts[id])),
		})
	}

	return best, nil
}

// LongestWinStreak returns the player with the longest contiguous run of win
// outcomes over their own games in date order. A loss or a tie breaks the
// run, a gap in attendance does not. Returns nil when nobody won a game.
func (e *Engine) LongestWinStreak(games []GameRecord, gamePlayers []GamePlayerRecord) *PlayerStat {
	var best *PlayerStat
	for id, seq := range attendances(games, gamePlayers) {
		var run, longest int
		for k := range seq.games {
			if seq.games[k].outcome == OutcomeWin {
				run++
			} else {
				run = 0
			}

			if run > longest {
				longest = run
			}
		}

		if longest == 0 {
			continue
		}

		best = better(best, PlayerStat{
			PlayerID: id,
			Name:     seq.name,
			Value:    float64(longest),
		})
	}

	return best
}

// CurrentStreakLeader returns the player with the longest trailing run of
// consecutive games, where consecutive means no more than GapThreshold after
// the previous game in that player's own sequence. A larger gap resets the
// count to 1, the game after the gap still counts.
func (e *Engine) CurrentStreakLeader(games []GameRecord, gamePlayers []GamePlayerRecord) *PlayerStat {
	var best *PlayerStat
	for id, seq := range attendances(games, gamePlayers) {
		var streak int
		for k := range seq.games {
			if k == 0 || seq.games[k].at.Sub(seq.games[k-1].at) > e.GapThreshold {
				streak = 1
				continue
			}

			streak++
		}

		if streak == 0 {
			continue
		}

		best = better(best, PlayerStat{
			PlayerID: id,
			Name:     seq.name,
			Value:    float64(streak),
		})
	}

	return best
}

// MostImproved returns the player with the largest positive delta between
// their earliest and latest per-game mean rating, ordered by the game's
// start time, not rating submission order. Players with fewer than two rated
// games are excluded rather than counted as zero improvement.
func (e *Engine) MostImproved(
	games []GameRecord,
	ratings []RatingRecord,
	players []PlayerRef,
) (*PlayerStat, error) {
	names := namesByID(players)
	starts := startsByGame(games)

	type gameMean struct {
		sum, count int
	}

	perPlayer := make(map[util.UUIDAsBlob]map[util.UUIDAsBlob]*gameMean)
	for k := range ratings {
		if err := validateRating(ratings[k]); err != nil {
			return nil, err
		}

		if _, ok := names[ratings[k].PlayerID]; !ok {
			continue
		}
		if _, ok := starts[ratings[k].GameID]; !ok {
			continue
		}

		perGame, ok := perPlayer[ratings[k].PlayerID]
		if !ok {
			perGame = make(map[util.UUIDAsBlob]*gameMean)
			perPlayer[ratings[k].PlayerID] = perGame
		}

		mean, ok := perGame[ratings[k].GameID]
		if !ok {
			mean = &gameMean{}
			perGame[ratings[k].GameID] = mean
		}

		mean.sum += ratings[k].Value
		mean.count++
	}

	var best *PlayerStat
	for id, perGame := range perPlayer {
		if len(perGame) < 2 {
			continue // can't compute a delta from fewer than 2 points
		}

		type observation struct {
			at     time.Time
			gameID util.UUIDAsBlob
			rating float64
		}

		observations := make([]observation, 0, len(perGame))
		for gameID, mean := range perGame {
			observations = append(observations, observation{
				at:     starts[gameID],
				gameID: gameID,
				rating: e.Round(float64(mean.sum) / float64(mean.count)),
			})
		}

		sort.Slice(observations, func(i, j int) bool {
			if observations[i].at.Equal(observations[j].at) {
				return observations[i].gameID.String() < observations[j].gameID.String()
			}

			return observations[i].at.Before(observations[j].at)
		})

		delta := observations[len(observations)-1].rating - observations[0].rating
		if delta <= 0 {
			continue
		}

		best = better(best, PlayerStat{
			PlayerID: id,
			Name:     names[id],
			Value:    math.Round(delta*10) / 10,
		})
	}

	return best, nil
}

func validateRating(r RatingRecord) error {
	if r.Value < 1 || r.Value > 5 {
		return fmt.Errorf(
			"rating %d given by %s to %s on game %s is out of the 1-5 range",
			r.Value, r.RaterID, r.PlayerID, r.GameID,
		)
	}

	return nil
}

// better picks the stat with the highest value; ties are broken by player
// name ascending then player ID ascending so the result never depends on
// input or map iteration order.
func better(best *PlayerStat, candidate PlayerStat) *PlayerStat {
	if best == nil {
		return &candidate
	}

	switch {
	case candidate.Value > best.Value:
		return &candidate
	case candidate.Value < best.Value:
		return best
	}

	if candidate.Name != best.Name {
		if candidate.Name < best.Name {
			return &candidate
		}

		return best
	}

	if candidate.PlayerID.String() < best.PlayerID.String() {
		return &candidate
	}

	return best
}

func namesByID(players []PlayerRef) map[util.UUIDAsBlob]string {
	ret := make(map[util.UUIDAsBlob]string, len(players))
	for k := range players {
		if players[k].Name == "" {
			continue
		}

		ret[players[k].ID] = players[k].Name
	}

	return ret
}

func startsByGame(games []GameRecord) map[util.UUIDAsBlob]time.Time {
	ret := make(map[util.UUIDAsBlob]time.Time, len(games))
	for k := range games {
		ret[games[k].ID] = games[k].StartsAt
	}

	return ret
}

type attendedGame struct {
	at      time.Time
	outcome Outcome
}

type attendance struct {
	name  string
	games []attendedGame // ordered by game start, not insertion
}

// attendances groups the game attendances by player and orders each player's
// games by start time. Attendances of games the caller did not supply are
// dropped.
func attendances(games []GameRecord, gamePlayers []GamePlayerRecord) map[util.UUIDAsBlob]*attendance {
	starts := startsByGame(games)

	ret := make(map[util.UUIDAsBlob]*attendance)
	for k := range gamePlayers {
		at, ok := starts[gamePlayers[k].GameID]
		if !ok || gamePlayers[k].Name == "" {
			continue
		}

		seq, ok := ret[gamePlayers[k].PlayerID]
		if !ok {
			seq = &attendance{name: gamePlayers[k].Name}
			ret[gamePlayers[k].PlayerID] = seq
		}

		seq.games = append(seq.games, attendedGame{
			at:      at,
			outcome: gamePlayers[k].Outcome,
		})
	}

	for _, seq := range ret {
		sort.Slice(seq.games, func(i, j int) bool {
			return seq.games[i].at.Before(seq.games[j].at)
		})
	}

	return ret
}
