package back

import (
	"database/sql"
	"log"
	"time"

	"matchday/internal/util"

	"github.com/jmoiron/sqlx"
)

// StatsMisc holds miscellaneous stats about a group.
type StatsMisc struct {
	ApprovedMembers, PendingMembers           int
	GamesPlayed, GamesCanceled                int
	RatingsCast                               int
	FirstGame                                 util.TimeAsDateTimeTZ
	AveragePlayersPerGame, MostPlayersInAGame int
}

func (b *Back) GetMiscStats(shortcode string) (misc StatsMisc, _ error) {
	start := time.Now()
	defer func() { log.Printf("info: computed misc stats in %s", time.Since(start)) }()

	if err := b.transaction(func(tx *sqlx.Tx) error {
		group, err := getGroupByShortCode(tx, shortcode)
		if err != nil {
			return err
		}

		queries := []struct {
			Dst   interface{}
			Query string
			Args  []interface{}
		}{
			{
				&misc.ApprovedMembers,
				`SELECT COUNT(*) FROM GroupMember WHERE GroupID = ? AND Status = ?`,
				[]interface{}{group.ID, MemberStatusApproved},
			},
			{
				&misc.PendingMembers,
				`SELECT COUNT(*) FROM GroupMember WHERE GroupID = ? AND Status = ?`,
				[]interface{}{group.ID, MemberStatusPending},
			},
			{
				&misc.GamesPlayed,
				`SELECT COUNT(*) FROM Game WHERE GroupID = ? AND Status = ?`,
				[]interface{}{group.ID, GameStatusPlayed},
			},
			{
				&misc.GamesCanceled,
				`SELECT COUNT(*) FROM Game WHERE GroupID = ? AND Status = ?`,
				[]interface{}{group.ID, GameStatusCanceled},
			},
			{
				&misc.RatingsCast,
				`SELECT COUNT(*) FROM Rating
                INNER JOIN Game ON (Rating.GameID = Game.ID)
                WHERE Game.GroupID = ?`,
				[]interface{}{group.ID},
			},
			{
				&misc.FirstGame,
				`SELECT StartsAt FROM Game
                WHERE GroupID = ? AND Status = ?
                ORDER BY StartsAt ASC LIMIT 1`,
				[]interface{}{group.ID, GameStatusPlayed},
			},
			{
				&misc.AveragePlayersPerGame,
				`SELECT COALESCE(round(avg(cnt)), 0) FROM (
                    SELECT COUNT(*) AS cnt FROM GamePlayer
                    INNER JOIN Game ON (GamePlayer.GameID = Game.ID)
                    WHERE Game.GroupID = ? AND Game.Status = ?
                    GROUP BY GamePlayer.GameID
                )`,
				[]interface{}{group.ID, GameStatusPlayed},
			},
			{
				&misc.MostPlayersInAGame,
				`SELECT COALESCE(max(cnt), 0) FROM (
                    SELECT COUNT(*) AS cnt FROM GamePlayer
                    INNER JOIN Game ON (GamePlayer.GameID = Game.ID)
                    WHERE Game.GroupID = ? AND Game.Status = ?
                    GROUP BY GamePlayer.GameID
                )`,
				[]interface{}{group.ID, GameStatusPlayed},
			},
		}

		for _, v := range queries {
			if err := tx.Get(v.Dst, v.Query, v.Args...); err != nil {
				// Ignore empty results, that's just a group with no games.
				if err != sql.ErrNoRows {
					return err
				}
			}
		}

		return nil
	}); err != nil {
		return StatsMisc{}, err
	}

	return misc, nil
}
