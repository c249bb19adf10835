package back

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"matchday/internal/back/schedule"
	"matchday/internal/config"
	"matchday/internal/stats"
	"matchday/internal/util"

	"github.com/jmoiron/sqlx"
	"gopkg.in/guregu/null.v4"
)

type Back struct {
	db     *sqlx.DB
	config *config.Config
	engine *stats.Engine
}

func New(sqlDriver string, sqlDSN string, conf *config.Config) (*Back, error) {
	// Why even bother converting names? A single greppable string across all
	// your source code is better than any odd conversion scheme you could ever
	// come up with.
	// HACK: This is global but putting this in init() makes test ugly.
	// As only the Back relies on the DB, this seems like an okay-ish place.
	sqlx.NameMapper = func(v string) string { return v }

	db, err := sqlx.Connect(sqlDriver, sqlDSN)
	if err != nil {
		return nil, err
	}

	engine := stats.NewEngine()
	engine.Round = stats.PolicyByName(conf.RatingRounding)
	if conf.StreakGapDays > 0 {
		engine.GapThreshold = time.Duration(conf.StreakGapDays) * 24 * time.Hour
	}

	b := &Back{
		db:     db,
		config: conf,
		engine: engine,
	}

	if err := b.ensureSchema(); err != nil {
		return nil, fmt.Errorf("unable to ensure schema: %w", err)
	}

	return b, nil
}

func (b *Back) Run(wg *sync.WaitGroup, done <-chan struct{}) {
	wg.Add(1)
	defer wg.Done()
	log.Print("info: starting Back dæmon")

	for {
		if err := b.runPeriodicTasks(); err != nil {
			log.Printf("error: runPeriodicTasks: %s", err)
		}

		select {
		case <-time.After(1 * time.Minute):
		case <-done:
			return
		}
	}
}

func (b *Back) transaction(cb util.TransactionCallback) error {
	return util.Transaction(context.Background(), b.db, cb)
}

func (b *Back) LoadFixtures() error {
	group := NewGroup("Sunday Five-a-side", "sunday-5s", "football")

	weekly := schedule.NewDayOfWeekScheduler()
	weekly.Sun = []string{"18:00 Europe/Paris"}
	if err := group.SetSchedule(&weekly); err != nil {
		return err
	}

	players := []Player{
		NewPlayer("Ayla"),
		NewPlayer("Brett"),
		NewPlayer("Chidi"),
		NewPlayer("Dolores"),
	}
	players[0].PhoneNumber = null.StringFrom("+33600000001")

	if err := b.transaction(func(tx *sqlx.Tx) error {
		if err := group.insert(tx); err != nil {
			return err
		}

		for k := range players {
			if err := players[k].insert(tx); err != nil {
				return err
			}

			member := NewGroupMember(group.ID, players[k].ID)
			member.Status = MemberStatusApproved
			if err := member.insert(tx); err != nil {
				return err
			}
		}

		return nil
	}); err != nil {
		return err
	}

	if err := b.loadGameFixtures(group.ShortCode, players); err != nil {
		return err
	}

	return b.Rerank(group.ShortCode)
}

// loadGameFixtures plays out a few past games through the public operations
// so a dev database has scores, outcomes, and peer ratings to look at.
func (b *Back) loadGameFixtures(shortCode string, players []Player) error {
	scores := [][2]int64{{3, 2}, {1, 1}, {0, 4}}

	for week, score := range scores {
		startsAt := time.Now().AddDate(0, 0, -7*(len(scores)-week)).Truncate(time.Hour)

		game, err := b.ScheduleGame(shortCode, startsAt, "Stade des Glycines")
		if err != nil {
			return err
		}

		for k := range players {
			if err := b.AddPlayerToGame(game.ID, players[k].Name); err != nil {
				return err
			}

			if err := b.AssignTeam(game.ID, players[k].Name, int64(k)%2); err != nil {
				return err
			}
		}

		if err := b.SubmitScore(game.ID, score[0], score[1]); err != nil {
			return err
		}

		for i := range players {
			for j := range players {
				if i == j {
					continue
				}

				value := 1 + (i+j+week)%5
				if err := b.RatePlayer(game.ID, players[i].Name, players[j].Name, value); err != nil {
					return err
				}
			}
		}
	}

	// One rained-out game so canceled counts show up in the stats.
	rainedOut, err := b.ScheduleGame(shortCode, time.Now().AddDate(0, 0, 1).Truncate(time.Hour), "Stade des Glycines")
	if err != nil {
		return err
	}

	return b.CancelGame(rainedOut.ID)
}
