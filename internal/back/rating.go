package back

import (
	"time"

	"matchday/internal/util"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

// Rating is one player's 1-5 score of another player's performance during a
// single game. Rating again overwrites the previous value.
type Rating struct {
	GameID    util.UUIDAsBlob
	PlayerID  util.UUIDAsBlob
	RaterID   util.UUIDAsBlob
	CreatedAt util.TimeAsTimestamp
	UpdatedAt util.NullTimeAsTimestamp
	Value     int
}

func NewRating(gameID, playerID, raterID util.UUIDAsBlob, value int) Rating {
	return Rating{
		GameID:    gameID,
		PlayerID:  playerID,
		RaterID:   raterID,
		CreatedAt: util.TimeAsTimestamp(time.Now()),
		Value:     value,
	}
}

func (r *Rating) insert(tx *sqlx.Tx) error {
	query, args, err := squirrel.Insert("Rating").SetMap(squirrel.Eq{
		"GameID":    r.GameID,
		"PlayerID":  r.PlayerID,
		"RaterID":   r.RaterID,
		"CreatedAt": r.CreatedAt,
		"UpdatedAt": r.UpdatedAt,
		"Value":     r.Value,
	}).ToSql()
	if err != nil {
		return err
	}

	if _, err := tx.Exec(query, args...); err != nil {
		return err
	}

	return nil
}

func (r *Rating) update(tx *sqlx.Tx) error {
	query, args, err := squirrel.Update("Rating").SetMap(squirrel.Eq{
		"UpdatedAt": util.NewNullTimeAsTimestamp(time.Now()),
		"Value":     r.Value,
	}).Where(squirrel.Eq{
		"GameID":   r.GameID,
		"PlayerID": r.PlayerID,
		"RaterID":  r.RaterID,
	}).ToSql()
	if err != nil {
		return err
	}

	if _, err := tx.Exec(query, args...); err != nil {
		return err
	}

	return nil
}

func getRating(tx *sqlx.Tx, gameID, playerID, raterID util.UUIDAsBlob) (Rating, error) {
	var ret Rating
	query := `SELECT * FROM "Rating" WHERE "GameID" = ? AND "PlayerID" = ? AND "RaterID" = ? LIMIT 1`
	if err := tx.Get(&ret, query, gameID, playerID, raterID); err != nil {
		return Rating{}, err
	}

	return ret, nil
}

// RatePlayer stores a peer rating for a played game. Both the rater and the
// rated player must have attended the game.
func (b *Back) RatePlayer(gameID util.UUIDAsBlob, raterName, playerName string, value int) error {
	if value < 1 || value > 5 {
		return util.ErrPublic("ratings go from 1 to 5")
	}

	if raterName == playerName {
		return util.ErrPublic("you can't rate yourself")
	}

	return b.transaction(func(tx *sqlx.Tx) error {
		game, err := getGameByID(tx, gameID)
		if err != nil {
			return util.ErrPublic("no game with this ID exists")
		}

		if game.Status != GameStatusPlayed {
			return util.ErrPublic("you can only rate players of a played game")
		}

		rater, err := getPlayerByName(tx, raterName)
		if err != nil {
			return util.ErrPublic("no player with this name exists")
		}

		player, err := getPlayerByName(tx, playerName)
		if err != nil {
			return util.ErrPublic("no player with this name exists")
		}

		if _, err := getGamePlayer(tx, game.ID, rater.ID); err != nil {
			return util.ErrPublic("you can only rate games you attended")
		}

		if _, err := getGamePlayer(tx, game.ID, player.ID); err != nil {
			return util.ErrPublic("you can only rate players who attended the game")
		}

		rating, err := getRating(tx, game.ID, player.ID, rater.ID)
		if err != nil {
			rating = NewRating(game.ID, player.ID, rater.ID, value)
			return rating.insert(tx)
		}

		rating.Value = value
		return rating.update(tx)
	})
}
