package back

import (
	"database/sql"
	"log"

	"github.com/jmoiron/sqlx"
)

func (b *Back) runPeriodicTasks() error {
	return b.createNextScheduledGames()
}

// createNextScheduledGames looks for groups with a schedule and creates the
// Game for the very next date.
func (b *Back) createNextScheduledGames() error {
	return b.transaction(func(tx *sqlx.Tx) error {
		groups, err := getGroups(tx)
		if err != nil {
			return err
		}

		for _, group := range groups {
			next := group.Scheduler().Next()
			if next.IsZero() {
				continue
			}

			if _, err := getGameByStartDate(tx, group.ID, next); err != sql.ErrNoRows {
				if err == nil {
					continue // Game already exists
				}

				return err
			}

			log.Printf("info: creating Game for group %s at %s", group.ShortCode, next)
			game := NewGame(group.ID, next, "")
			if err := game.insert(tx); err != nil {
				return err
			}
		}

		return nil
	})
}
