package back

import (
	"encoding/json"
	"time"

	"matchday/internal/back/schedule"
	"matchday/internal/util"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

// Group is a set of players who regularly get together to play one sport.
type Group struct {
	ID        util.UUIDAsBlob
	CreatedAt util.TimeAsTimestamp
	Name      string
	ShortCode string
	Sport     string

	Schedule schedule.Config
}

func NewGroup(name string, shortCode string, sport string) Group {
	return Group{
		ID:        util.NewUUIDAsBlob(),
		CreatedAt: util.TimeAsTimestamp(time.Now()),
		Name:      name,
		ShortCode: shortCode,
		Sport:     sport,
		Schedule:  schedule.Config{},
	}
}

// SetSchedule stores the given scheduler as the group schedule, games will be
// created automatically on its dates.
func (g *Group) SetSchedule(s *schedule.DayOfWeekScheduler) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return err
	}

	g.Schedule = schedule.Config{
		Type:    schedule.TypeDayOfWeek,
		Payload: payload,
	}

	return nil
}

func (g *Group) Scheduler() schedule.Scheduler {
	return schedule.New(g.Schedule)
}

func (g *Group) insert(tx *sqlx.Tx) error {
	query, args, err := squirrel.Insert(`"PlayerGroup"`).SetMap(squirrel.Eq{
		"ID":        g.ID,
		"CreatedAt": g.CreatedAt,
		"Name":      g.Name,
		"ShortCode": g.ShortCode,
		"Sport":     g.Sport,
		"Schedule":  g.Schedule,
	}).ToSql()
	if err != nil {
		return err
	}

	if _, err := tx.Exec(query, args...); err != nil {
		return err
	}

	return nil
}

func (g *Group) update(tx *sqlx.Tx) error {
	query, args, err := squirrel.Update(`"PlayerGroup"`).SetMap(squirrel.Eq{
		"Name":     g.Name,
		"Sport":    g.Sport,
		"Schedule": g.Schedule,
	}).Where("ID = ?", g.ID).ToSql()
	if err != nil {
		return err
	}

	if _, err := tx.Exec(query, args...); err != nil {
		return err
	}

	return nil
}

func getGroups(tx *sqlx.Tx) ([]Group, error) {
	var ret []Group
	if err := tx.Select(&ret, `SELECT * FROM "PlayerGroup" ORDER BY "PlayerGroup"."Name" ASC`); err != nil {
		return nil, err
	}

	return ret, nil
}

func getGroupByShortCode(tx *sqlx.Tx, shortCode string) (Group, error) {
	var ret Group
	query := `SELECT * FROM "PlayerGroup" WHERE "PlayerGroup"."ShortCode" = ? LIMIT 1`
	if err := tx.Get(&ret, query, shortCode); err != nil {
		return Group{}, err
	}

	return ret, nil
}

// CreateGroup creates an empty group, its shortcode becomes the URL handle
// so it must be unique.
func (b *Back) CreateGroup(name, shortCode, sport string) (Group, error) {
	if name == "" || shortCode == "" {
		return Group{}, util.ErrPublic("a group needs a name and a shortcode")
	}

	group := NewGroup(name, shortCode, sport)

	return group, b.transaction(func(tx *sqlx.Tx) error {
		if _, err := getGroupByShortCode(tx, shortCode); err == nil {
			return util.ErrPublic("this shortcode is taken already")
		}

		return group.insert(tx)
	})
}

// SetGroupSchedule replaces the weekly schedule of a group, the periodic
// task picks it up on its next tick.
func (b *Back) SetGroupSchedule(shortCode string, s *schedule.DayOfWeekScheduler) error {
	return b.transaction(func(tx *sqlx.Tx) error {
		group, err := getGroupByShortCode(tx, shortCode)
		if err != nil {
			return util.ErrPublic("no group with this shortcode exists")
		}

		if err := group.SetSchedule(s); err != nil {
			return err
		}

		return group.update(tx)
	})
}

func (b *Back) GetGroups() (ret []Group, _ error) {
	return ret, b.transaction(func(tx *sqlx.Tx) (err error) {
		ret, err = getGroups(tx)
		return err
	})
}

func (b *Back) GetGroupByShortcode(shortCode string) (ret Group, _ error) {
	return ret, b.transaction(func(tx *sqlx.Tx) (err error) {
		ret, err = getGroupByShortCode(tx, shortCode)
		return err
	})
}
