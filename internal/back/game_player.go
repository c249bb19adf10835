package back

import (
	"time"

	"matchday/internal/stats"
	"matchday/internal/util"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"gopkg.in/guregu/null.v4"
)

const ( // this is stored in DB, don't change values
	TeamA int64 = 0
	TeamB int64 = 1
)

// GamePlayer records the attendance of one player at one game, with the team
// they played on and how the game went for them.
type GamePlayer struct {
	GameID    util.UUIDAsBlob
	PlayerID  util.UUIDAsBlob
	CreatedAt util.TimeAsTimestamp

	// Team is null until the organizer assigns one.
	Team    null.Int
	Outcome stats.Outcome
}

func NewGamePlayer(gameID, playerID util.UUIDAsBlob) GamePlayer {
	return GamePlayer{
		GameID:    gameID,
		PlayerID:  playerID,
		CreatedAt: util.TimeAsTimestamp(time.Now()),
		Outcome:   stats.OutcomeTie,
	}
}

func (g *GamePlayer) insert(tx *sqlx.Tx) error {
	query, args, err := squirrel.Insert("GamePlayer").SetMap(squirrel.Eq{
		"GameID":    g.GameID,
		"PlayerID":  g.PlayerID,
		"CreatedAt": g.CreatedAt,
		"Team":      g.Team,
		"Outcome":   g.Outcome,
	}).ToSql()
	if err != nil {
		return err
	}

	if _, err := tx.Exec(query, args...); err != nil {
		return err
	}

	return nil
}

func (g *GamePlayer) update(tx *sqlx.Tx) error {
	query, args, err := squirrel.Update("GamePlayer").SetMap(squirrel.Eq{
		"Team":    g.Team,
		"Outcome": g.Outcome,
	}).Where(squirrel.Eq{
		"GameID":   g.GameID,
		"PlayerID": g.PlayerID,
	}).ToSql()
	if err != nil {
		return err
	}

	if _, err := tx.Exec(query, args...); err != nil {
		return err
	}

	return nil
}

func getGamePlayers(tx *sqlx.Tx, gameID util.UUIDAsBlob) ([]GamePlayer, error) {
	var ret []GamePlayer
	query := `SELECT * FROM "GamePlayer" WHERE "GamePlayer"."GameID" = ?`
	if err := tx.Select(&ret, query, gameID); err != nil {
		return nil, err
	}

	return ret, nil
}

func getGamePlayer(tx *sqlx.Tx, gameID, playerID util.UUIDAsBlob) (GamePlayer, error) {
	var ret GamePlayer
	query := `SELECT * FROM "GamePlayer" WHERE "GameID" = ? AND "PlayerID" = ? LIMIT 1`
	if err := tx.Get(&ret, query, gameID, playerID); err != nil {
		return GamePlayer{}, err
	}

	return ret, nil
}

// AddPlayerToGame marks an approved group member as attending a game.
func (b *Back) AddPlayerToGame(gameID util.UUIDAsBlob, playerName string) error {
	return b.transaction(func(tx *sqlx.Tx) error {
		game, err := getGameByID(tx, gameID)
		if err != nil {
			return util.ErrPublic("no game with this ID exists")
		}

		if game.Status != GameStatusScheduled {
			return util.ErrPublic("you can only join upcoming games")
		}

		player, err := getPlayerByName(tx, playerName)
		if err != nil {
			return util.ErrPublic("no player with this name exists")
		}

		member, err := getMember(tx, game.GroupID, player.ID)
		if err != nil || member.Status != MemberStatusApproved {
			return util.ErrPublic("you are not an approved member of this group")
		}

		if _, err := getGamePlayer(tx, game.ID, player.ID); err == nil {
			return util.ErrPublic("you already joined this game")
		}

		gamePlayer := NewGamePlayer(game.ID, player.ID)
		return gamePlayer.insert(tx)
	})
}

func (b *Back) AssignTeam(gameID util.UUIDAsBlob, playerName string, team int64) error {
	if team != TeamA && team != TeamB {
		return util.ErrPublic("there are only two teams, 0 and 1")
	}

	return b.transaction(func(tx *sqlx.Tx) error {
		player, err := getPlayerByName(tx, playerName)
		if err != nil {
			return util.ErrPublic("no player with this name exists")
		}

		gamePlayer, err := getGamePlayer(tx, gameID, player.ID)
		if err != nil {
			return util.ErrPublic("this player did not join this game")
		}

		gamePlayer.Team = null.IntFrom(team)
		return gamePlayer.update(tx)
	})
}
