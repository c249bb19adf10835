package back

import (
	"fmt"
	"log"
	"time"

	"matchday/internal/stats"
	"matchday/internal/util"

	"github.com/jmoiron/sqlx"
	glicko "github.com/zelenin/go-glicko2"
)

// updateGroupRankings recomputes the Glicko-2 ranking of every player in a
// group from the games played during the rating period containing now.
func (b *Back) updateGroupRankings(tx *sqlx.Tx, groupID util.UUIDAsBlob) error {
	return b.updateGroupRankingsAt(tx, groupID, time.Now())
}

func (b *Back) updateGroupRankingsAt(tx *sqlx.Tx, groupID util.UUIDAsBlob, now time.Time) error {
	previousPeriodStart := util.TimeAsTimestamp(previousPeriodStart(now))
	currentPeriodStart := util.TimeAsTimestamp(currentPeriodStart(now))
	nextPeriodStart := util.TimeAsTimestamp(nextPeriodStart(now))
	log.Printf("debug: update group rankings for period %s to %s", currentPeriodStart.Time(), nextPeriodStart.Time())

	glickoPlayers, err := getGlickoPlayersForGroup(tx, groupID, previousPeriodStart)
	if err != nil {
		return fmt.Errorf("unable to fetch ratings: %w", err)
	}
	log.Printf("debug: got %d ratings from previous period", len(glickoPlayers))

	games, err := getPlayedGamesByPeriod(tx, groupID, currentPeriodStart.Time(), nextPeriodStart.Time())
	if err != nil {
		return fmt.Errorf("unable to fetch games for period: %w", err)
	}

	rosters := make([][]GamePlayer, len(games))
	for k := range games {
		rosters[k], err = getGamePlayers(tx, games[k].ID)
		if err != nil {
			return fmt.Errorf("unable to fetch game players: %w", err)
		}

		// Players absent from the previous period's history still carry
		// their running rating, don't reset them to the Glicko-2 base.
		for _, gamePlayer := range rosters[k] {
			if _, ok := glickoPlayers[gamePlayer.PlayerID]; ok {
				continue
			}

			rating, err := getSkillRating(tx, gamePlayer.PlayerID, groupID)
			if err != nil {
				return fmt.Errorf("unable to fetch running rating: %w", err)
			}

			glickoPlayers[gamePlayer.PlayerID] = glicko.NewPlayer(rating.GlickoRating())
		}
	}

	computePeriod(groupID, rosters, glickoPlayers)
	if err := b.updateRunningPeriodRatings(tx, groupID, glickoPlayers); err != nil {
		return err
	}

	return b.closeRatingPeriod(tx, currentPeriodStart, groupID, glickoPlayers)
}

func getPlayedGamesByPeriod(
	tx *sqlx.Tx,
	groupID util.UUIDAsBlob,
	from, to time.Time,
) ([]Game, error) {
	games, err := getGamesByGroup(tx, groupID, GameStatusPlayed)
	if err != nil {
		return nil, err
	}

	// StartsAt is stored as an RFC 3339 string, filtering on the SQL side
	// would compare apples to oranges.
	ret := games[:0]
	for k := range games {
		startsAt := games[k].StartsAt.Time()
		if startsAt.Before(from) || !startsAt.Before(to) {
			continue
		}

		ret = append(ret, games[k])
	}

	return ret, nil
}

func (b *Back) updateRunningPeriodRatings(
	tx *sqlx.Tx,
	groupID util.UUIDAsBlob,
	glickoPlayers map[util.UUIDAsBlob]*glicko.Player,
) error {
	log.Printf("debug: updating %d SkillRating entries", len(glickoPlayers))
	for playerID, glickoPlayer := range glickoPlayers {
		rating := NewSkillRating(playerID, groupID)
		rating.SetRating(glickoPlayer.Rating())

		if err := rating.upsert(tx); err != nil {
			return fmt.Errorf("unable to update rating: %w", err)
		}
	}

	return nil
}

// computePeriod runs one Glicko-2 rating period over team games. Glicko-2 is
// a 1v1 algorithm so every cross-team pair of players counts as one match
// with the game's outcome.
func computePeriod(
	groupID util.UUIDAsBlob,
	rosters [][]GamePlayer,
	glickoPlayers map[util.UUIDAsBlob]*glicko.Player,
) {
	getGlickoPlayer := func(playerID util.UUIDAsBlob) *glicko.Player {
		p, ok := glickoPlayers[playerID]
		if !ok {
			p = glicko.NewPlayer(NewSkillRating(playerID, groupID).GlickoRating())
			glickoPlayers[playerID] = p
		}
		return p
	}

	period := glicko.NewRatingPeriod()
	// Add players so Glicko-2 know to ensure inactive players decay.
	for k := range glickoPlayers {
		period.AddPlayer(glickoPlayers[k])
	}

	var matches int
	for _, roster := range rosters {
		for i := range roster {
			if !roster[i].Team.Valid || roster[i].Team.Int64 != TeamA {
				continue
			}

			for j := range roster {
				if !roster[j].Team.Valid || roster[j].Team.Int64 != TeamB {
					continue
				}

				p1 := getGlickoPlayer(roster[i].PlayerID)
				p2 := getGlickoPlayer(roster[j].PlayerID)
				matches++

				switch roster[i].Outcome {
				case stats.OutcomeWin:
					period.AddMatch(p1, p2, glicko.MATCH_RESULT_WIN)
				case stats.OutcomeTie:
					period.AddMatch(p1, p2, glicko.MATCH_RESULT_DRAW)
				case stats.OutcomeLoss:
					period.AddMatch(p1, p2, glicko.MATCH_RESULT_LOSS)
				}
			}
		}
	}

	start := time.Now()
	period.Calculate()
	log.Printf(
		"info: recalculated rankings for %d pairings and %d players in %s",
		matches, len(glickoPlayers),
		time.Since(start),
	)
}

// currentPeriodStart returns the previous monday at 00:00 UTC.
func currentPeriodStart(t time.Time) time.Time {
	t = t.UTC()

	if wd := t.Weekday(); wd == time.Sunday {
		t = t.AddDate(0, 0, -6)
	} else {
		t = t.AddDate(0, 0, -int(wd)+1)
	}

	return t.Truncate(24 * time.Hour)
}

// nextPeriodStart returns the next monday at 00:00 UTC.
func nextPeriodStart(t time.Time) time.Time {
	return currentPeriodStart(t).AddDate(0, 0, 7)
}

// previousPeriodStart returns the monday before the previous one.
func previousPeriodStart(t time.Time) time.Time {
	return currentPeriodStart(t).AddDate(0, 0, -7)
}

// deleteGroupRankings removes all the rankings and ranking history of a
// given group.
func deleteGroupRankings(tx *sqlx.Tx, groupID util.UUIDAsBlob) error {
	if _, err := tx.Exec(
		`DELETE FROM "SkillRatingHistory" WHERE GroupID = ?`,
		groupID,
	); err != nil {
		return err
	}

	if _, err := tx.Exec(
		`DELETE FROM "SkillRating" WHERE GroupID = ?`,
		groupID,
	); err != nil {
		return err
	}

	return nil
}

// closeRatingPeriod writes the current rankings to SkillRatingHistory, it
// can be called at any point in a period as rankings are upserted.
func (b *Back) closeRatingPeriod(
	tx *sqlx.Tx,
	currentPeriodStart util.TimeAsTimestamp,
	groupID util.UUIDAsBlob,
	glickoPlayers map[util.UUIDAsBlob]*glicko.Player,
) error {
	log.Printf(
		"debug: closing period starting at %s, upsert history for %d players",
		currentPeriodStart.Time(),
		len(glickoPlayers),
	)

	for playerID, glickoPlayer := range glickoPlayers {
		rating := NewSkillRating(playerID, groupID)
		rating.SetRating(glickoPlayer.Rating())

		if err := rating.upsertHistory(tx, currentPeriodStart); err != nil {
			return fmt.Errorf("unable to insert rating history: %w", err)
		}
	}

	return nil
}

// Rerank wipes the rankings of a group and recomputes them from its full
// game history, one rating period at a time.
func (b *Back) Rerank(shortcode string) error {
	var (
		group     Group
		firstGame Game
	)
	start := time.Now()

	if err := b.transaction(func(tx *sqlx.Tx) (err error) {
		group, err = getGroupByShortCode(tx, shortcode)
		if err != nil {
			return fmt.Errorf("unable to find group with shortcode '%s': %w", shortcode, err)
		}

		if err := deleteGroupRankings(tx, group.ID); err != nil {
			return fmt.Errorf("unable to prune rankings: %w", err)
		}

		firstGame, err = getFirstPlayedGame(tx, group.ID)
		if err != nil {
			return fmt.Errorf("unable to find first game of group: %w", err)
		}

		return nil
	}); err != nil {
		return err
	}

	firstPeriodStart := currentPeriodStart(firstGame.StartsAt.Time())
	curPeriodEnd := nextPeriodStart(time.Now())
	log.Printf("debug: first game: %s (period %s)", firstGame.StartsAt.Time(), firstPeriodStart)

	for i := firstPeriodStart; i.Before(curPeriodEnd); i = i.AddDate(0, 0, 7) {
		j := i // get out of range scope

		if err := b.transaction(func(tx *sqlx.Tx) (err error) {
			if err := b.updateGroupRankingsAt(tx, group.ID, j); err != nil {
				return fmt.Errorf("unable to update group rankings: %w", err)
			}

			return nil
		}); err != nil {
			return err
		}
	}

	log.Printf("info: recomputed rankings in %s", time.Since(start))

	return nil
}

func getFirstPlayedGame(tx *sqlx.Tx, groupID util.UUIDAsBlob) (Game, error) {
	var ret Game
	query := `SELECT * FROM "Game"
        WHERE "Game"."GroupID" = ? AND "Game"."Status" = ?
        ORDER BY "Game"."StartsAt" ASC LIMIT 1`
	if err := tx.Get(&ret, query, groupID, GameStatusPlayed); err != nil {
		return Game{}, err
	}

	return ret, nil
}
