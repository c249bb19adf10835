package back

import (
	"time"

	"matchday/internal/util"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"gopkg.in/guregu/null.v4"
)

type Player struct {
	ID        util.UUIDAsBlob
	CreatedAt util.TimeAsTimestamp
	Name      string

	// PhoneNumber is kept for game reminders, it is never exposed over the
	// API.
	PhoneNumber null.String
}

func NewPlayer(name string) Player {
	return Player{
		ID:        util.NewUUIDAsBlob(),
		CreatedAt: util.TimeAsTimestamp(time.Now()),
		Name:      name,
	}
}

func (p *Player) insert(tx *sqlx.Tx) error {
	query, args, err := squirrel.Insert("Player").SetMap(squirrel.Eq{
		"ID":          p.ID,
		"CreatedAt":   p.CreatedAt,
		"Name":        p.Name,
		"PhoneNumber": p.PhoneNumber,
	}).ToSql()
	if err != nil {
		return err
	}

	if _, err := tx.Exec(query, args...); err != nil {
		return err
	}

	return nil
}

func (p *Player) update(tx *sqlx.Tx) error {
	query, args, err := squirrel.Update("Player").SetMap(squirrel.Eq{
		"Name":        p.Name,
		"PhoneNumber": p.PhoneNumber,
	}).Where("ID = ?", p.ID).ToSql()
	if err != nil {
		return err
	}

	if _, err := tx.Exec(query, args...); err != nil {
		return err
	}

	return nil
}

func getPlayerByName(tx *sqlx.Tx, name string) (Player, error) {
	var ret Player
	query := `SELECT * FROM "Player" WHERE "Player"."Name" = ? LIMIT 1`
	if err := tx.Get(&ret, query, name); err != nil {
		return Player{}, err
	}

	return ret, nil
}

func validatePlayerName(name string) error {
	if len(name) < 3 || len(name) > 32 {
		return util.ErrPublic("your name must be between 3 and 32 characters")
	}

	return nil
}

func (b *Back) RegisterPlayer(name string) (Player, error) {
	if err := validatePlayerName(name); err != nil {
		return Player{}, err
	}

	player := NewPlayer(name)

	return player, b.transaction(func(tx *sqlx.Tx) error {
		if _, err := getPlayerByName(tx, name); err == nil {
			return util.ErrPublic("this name is taken already")
		}

		return player.insert(tx)
	})
}

func (b *Back) RenamePlayer(oldName, newName string) error {
	if err := validatePlayerName(newName); err != nil {
		return err
	}

	return b.transaction(func(tx *sqlx.Tx) error {
		if _, err := getPlayerByName(tx, newName); err == nil {
			return util.ErrPublic("this name is taken already")
		}

		player, err := getPlayerByName(tx, oldName)
		if err != nil {
			return util.ErrPublic("no player with this name exists")
		}

		player.Name = newName
		return player.update(tx)
	})
}

func (b *Back) GetPlayerByName(name string) (ret Player, _ error) {
	return ret, b.transaction(func(tx *sqlx.Tx) (err error) {
		ret, err = getPlayerByName(tx, name)
		return err
	})
}
