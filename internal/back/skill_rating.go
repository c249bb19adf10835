package back

import (
	"database/sql"
	"time"

	"matchday/internal/util"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	glicko "github.com/zelenin/go-glicko2"
)

// DeviationThreshold is the deviation above which a ranking is considered
// too uncertain to be shown on the leaderboard.
const DeviationThreshold = 200.0

// SkillRating is the long-term Glicko-2 ranking of a player within a group,
// computed from game outcomes. It is unrelated to the 1-5 peer ratings.
type SkillRating struct {
	PlayerID  util.UUIDAsBlob
	GroupID   util.UUIDAsBlob
	CreatedAt util.TimeAsTimestamp

	// Glicko-2
	Rating     float64
	Deviation  float64
	Volatility float64
}

func NewSkillRating(playerID, groupID util.UUIDAsBlob) SkillRating {
	return SkillRating{
		PlayerID:  playerID,
		GroupID:   groupID,
		CreatedAt: util.TimeAsTimestamp(time.Now()),

		Rating:     glicko.RATING_BASE_R,
		Deviation:  glicko.RATING_BASE_RD,
		Volatility: glicko.RATING_BASE_SIGMA,
	}
}

func (r SkillRating) GlickoRating() *glicko.Rating {
	return glicko.NewRating(r.Rating, r.Deviation, r.Volatility)
}

func (r *SkillRating) SetRating(rating *glicko.Rating) {
	r.Rating = rating.R()
	r.Deviation = rating.Rd()
	r.Volatility = rating.Sigma()
}

// getSkillRating gets the current rating of a player in a group or creates
// and returns a default rating on the fly.
func getSkillRating(
	tx *sqlx.Tx, playerID util.UUIDAsBlob, groupID util.UUIDAsBlob,
) (SkillRating, error) {
	var ret SkillRating
	query := `SELECT * FROM "SkillRating" WHERE "PlayerID" = ? AND "GroupID" = ? LIMIT 1`
	err := tx.Get(&ret, query, playerID, groupID)
	if err != nil {
		if err == sql.ErrNoRows {
			return NewSkillRating(playerID, groupID), nil
		}
		return SkillRating{}, err
	}

	return ret, nil
}

func (r *SkillRating) upsert(tx *sqlx.Tx) error {
	res, err := tx.Exec(
		`UPDATE "SkillRating" SET "Rating" = ?, "Deviation" = ?, "Volatility" = ?
        WHERE "PlayerID" = ? AND "GroupID" = ?`,
		r.Rating, r.Deviation, r.Volatility,
		r.PlayerID, r.GroupID,
	)
	if err != nil {
		return err
	}

	if count, err := res.RowsAffected(); err != nil {
		return err
	} else if count > 0 {
		return nil
	}

	query, args, err := squirrel.Insert("SkillRating").SetMap(squirrel.Eq{
		"PlayerID":   r.PlayerID,
		"GroupID":    r.GroupID,
		"CreatedAt":  r.CreatedAt,
		"Rating":     r.Rating,
		"Deviation":  r.Deviation,
		"Volatility": r.Volatility,
	}).ToSql()
	if err != nil {
		return err
	}

	if _, err := tx.Exec(query, args...); err != nil {
		return err
	}

	return nil
}

func (r *SkillRating) upsertHistory(tx *sqlx.Tx, periodStart util.TimeAsTimestamp) error {
	res, err := tx.Exec(
		`UPDATE "SkillRatingHistory" SET "Rating" = ?, "Deviation" = ?, "Volatility" = ?
        WHERE "PlayerID" = ? AND "GroupID" = ? AND "RatingPeriodStartedAt" = ?`,
		r.Rating, r.Deviation, r.Volatility,
		r.PlayerID, r.GroupID, periodStart,
	)
	if err != nil {
		return err
	}

	if count, err := res.RowsAffected(); err != nil {
		return err
	} else if count > 0 {
		return nil
	}

	query, args, err := squirrel.Insert("SkillRatingHistory").SetMap(squirrel.Eq{
		"PlayerID":              r.PlayerID,
		"GroupID":               r.GroupID,
		"RatingPeriodStartedAt": periodStart,
		"Rating":                r.Rating,
		"Deviation":             r.Deviation,
		"Volatility":            r.Volatility,
	}).ToSql()
	if err != nil {
		return err
	}

	if _, err := tx.Exec(query, args...); err != nil {
		return err
	}

	return nil
}

// getGlickoPlayersForGroup seeds the Glicko-2 computation with the ratings
// every player had at the end of the previous period, so reranking a period
// twice stays idempotent.
func getGlickoPlayersForGroup(
	tx *sqlx.Tx,
	groupID util.UUIDAsBlob,
	previousPeriodStart util.TimeAsTimestamp,
) (map[util.UUIDAsBlob]*glicko.Player, error) {
	var ratings []SkillRating
	query := `SELECT "PlayerID", "GroupID", "Rating", "Deviation", "Volatility"
        FROM "SkillRatingHistory"
        WHERE "GroupID" = ? AND "RatingPeriodStartedAt" = ?`
	if err := tx.Select(&ratings, query, groupID, previousPeriodStart); err != nil {
		return nil, err
	}

	ret := make(map[util.UUIDAsBlob]*glicko.Player, len(ratings))
	for k := range ratings {
		ret[ratings[k].PlayerID] = glicko.NewPlayer(ratings[k].GlickoRating())
	}

	return ret, nil
}
