package back

import (
	"time"

	"matchday/internal/stats"
	"matchday/internal/util"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"gopkg.in/guregu/null.v4"
)

type GameStatus int

const ( // this is stored in DB, don't change values
	GameStatusScheduled GameStatus = 0
	GameStatusPlayed    GameStatus = 1
	GameStatusCanceled  GameStatus = 2
)

type Game struct {
	ID        util.UUIDAsBlob
	CreatedAt util.TimeAsTimestamp
	GroupID   util.UUIDAsBlob
	StartsAt  util.TimeAsDateTimeTZ
	Location  string
	Status    GameStatus

	// ScoreA and ScoreB are the final team scores, null until the game was
	// played.
	ScoreA null.Int
	ScoreB null.Int
}

func NewGame(groupID util.UUIDAsBlob, startsAt time.Time, location string) Game {
	return Game{
		ID:        util.NewUUIDAsBlob(),
		CreatedAt: util.TimeAsTimestamp(time.Now()),
		GroupID:   groupID,
		StartsAt:  util.TimeAsDateTimeTZ(startsAt),
		Location:  location,
		Status:    GameStatusScheduled,
	}
}

func (g *Game) insert(tx *sqlx.Tx) error {
	query, args, err := squirrel.Insert("Game").SetMap(squirrel.Eq{
		"ID":        g.ID,
		"CreatedAt": g.CreatedAt,
		"GroupID":   g.GroupID,
		"StartsAt":  g.StartsAt,
		"Location":  g.Location,
		"Status":    g.Status,
		"ScoreA":    g.ScoreA,
		"ScoreB":    g.ScoreB,
	}).ToSql()
	if err != nil {
		return err
	}

	if _, err := tx.Exec(query, args...); err != nil {
		return err
	}

	return nil
}

func (g *Game) update(tx *sqlx.Tx) error {
	query, args, err := squirrel.Update("Game").SetMap(squirrel.Eq{
		"StartsAt": g.StartsAt,
		"Location": g.Location,
		"Status":   g.Status,
		"ScoreA":   g.ScoreA,
		"ScoreB":   g.ScoreB,
	}).Where("ID = ?", g.ID).ToSql()
	if err != nil {
		return err
	}

	if _, err := tx.Exec(query, args...); err != nil {
		return err
	}

	return nil
}

func getGameByID(tx *sqlx.Tx, id util.UUIDAsBlob) (Game, error) {
	var ret Game
	query := `SELECT * FROM "Game" WHERE "Game"."ID" = ? LIMIT 1`
	if err := tx.Get(&ret, query, id); err != nil {
		return Game{}, err
	}

	return ret, nil
}

// getGameByStartDate fetches the game of a group starting at an exact point
// in time, this is how the periodic scheduler avoids creating duplicates.
func getGameByStartDate(tx *sqlx.Tx, groupID util.UUIDAsBlob, startsAt time.Time) (Game, error) {
	var ret Game
	query := `SELECT * FROM "Game" WHERE "Game"."GroupID" = ? AND "Game"."StartsAt" = ? LIMIT 1`
	if err := tx.Get(&ret, query, groupID, util.TimeAsDateTimeTZ(startsAt)); err != nil {
		return Game{}, err
	}

	return ret, nil
}

func getGamesByGroup(tx *sqlx.Tx, groupID util.UUIDAsBlob, status GameStatus) ([]Game, error) {
	var ret []Game
	query := `SELECT * FROM "Game"
        WHERE "Game"."GroupID" = ? AND "Game"."Status" = ?
        ORDER BY "Game"."StartsAt" ASC`
	if err := tx.Select(&ret, query, groupID, status); err != nil {
		return nil, err
	}

	return ret, nil
}

func (b *Back) GetGamesByShortcode(shortCode string, status GameStatus) (ret []Game, _ error) {
	return ret, b.transaction(func(tx *sqlx.Tx) error {
		group, err := getGroupByShortCode(tx, shortCode)
		if err != nil {
			return err
		}

		ret, err = getGamesByGroup(tx, group.ID, status)
		return err
	})
}

func (b *Back) ScheduleGame(shortCode string, startsAt time.Time, location string) (Game, error) {
	var game Game

	return game, b.transaction(func(tx *sqlx.Tx) error {
		group, err := getGroupByShortCode(tx, shortCode)
		if err != nil {
			return util.ErrPublic("no group with this shortcode exists")
		}

		if _, err := getGameByStartDate(tx, group.ID, startsAt); err == nil {
			return util.ErrPublic("a game already starts at this date")
		}

		game = NewGame(group.ID, startsAt, location)
		return game.insert(tx)
	})
}

func (b *Back) CancelGame(gameID util.UUIDAsBlob) error {
	return b.transaction(func(tx *sqlx.Tx) error {
		game, err := getGameByID(tx, gameID)
		if err != nil {
			return util.ErrPublic("no game with this ID exists")
		}

		if game.Status == GameStatusPlayed {
			return util.ErrPublic("you can't cancel a game that was played")
		}

		game.Status = GameStatusCanceled
		return game.update(tx)
	})
}

// deriveOutcome computes the per-player outcome from the team scores. A
// player left without a team gets a tie so their streaks break without
// counting as a loss.
func deriveOutcome(team null.Int, scoreA, scoreB int64) stats.Outcome {
	if !team.Valid {
		return stats.OutcomeTie
	}

	own, other := scoreA, scoreB
	if team.Int64 == TeamB {
		own, other = scoreB, scoreA
	}

	switch {
	case own > other:
		return stats.OutcomeWin
	case own < other:
		return stats.OutcomeLoss
	default:
		return stats.OutcomeTie
	}
}

// SubmitScore closes a game with its final score, computes every attendee's
// outcome, and refreshes the group rankings.
func (b *Back) SubmitScore(gameID util.UUIDAsBlob, scoreA, scoreB int64) error {
	if scoreA < 0 || scoreB < 0 {
		return util.ErrPublic("scores can't be negative")
	}

	return b.transaction(func(tx *sqlx.Tx) error {
		game, err := getGameByID(tx, gameID)
		if err != nil {
			return util.ErrPublic("no game with this ID exists")
		}

		if game.Status == GameStatusCanceled {
			return util.ErrPublic("you can't submit a score for a canceled game")
		}

		game.ScoreA = null.IntFrom(scoreA)
		game.ScoreB = null.IntFrom(scoreB)
		game.Status = GameStatusPlayed
		if err := game.update(tx); err != nil {
			return err
		}

		gamePlayers, err := getGamePlayers(tx, game.ID)
		if err != nil {
			return err
		}

		for k := range gamePlayers {
			gamePlayers[k].Outcome = deriveOutcome(gamePlayers[k].Team, scoreA, scoreB)
			if err := gamePlayers[k].update(tx); err != nil {
				return err
			}
		}

		return b.updateGroupRankings(tx, game.GroupID)
	})
}
