package back

import (
	"sync"

	"matchday/internal/stats"
	"matchday/internal/util"

	"github.com/jmoiron/sqlx"
)

// RankingEntry is one row of the Glicko-2 leaderboard of a group.
type RankingEntry struct {
	PlayerName string
	Rating     float64
	Deviation  float64
	Wins       int
	Losses     int
	Ties       int
}

// Leaderboard aggregates every per-group highlight stat plus the Glicko-2
// rankings, this is the main payload of the API.
type Leaderboard struct {
	GroupID util.UUIDAsBlob

	// Highlights are nil when no player qualifies for them.
	MostGamesPlayed  *stats.PlayerStat
	BestPlayer       *stats.PlayerStat
	LongestWinStreak *stats.PlayerStat
	CurrentStreak    *stats.PlayerStat
	MostImproved     *stats.PlayerStat

	Rankings []RankingEntry
}

// gamePlayerRow is a GamePlayer augmented with the player name, as the stat
// computations need names both for display and tie-breaking.
type gamePlayerRow struct {
	GamePlayer
	Name string
}

// GetLeaderboard computes the full leaderboard of a group. Everything is
// loaded in one transaction then the five highlight stats are computed
// concurrently on the in-memory snapshot.
func (b *Back) GetLeaderboard(shortcode string) (Leaderboard, error) {
	var (
		group      Group
		games      []Game
		playerRows []gamePlayerRow
		ratingRows []stats.RatingRecord
		players    []Player
		rankings   []RankingEntry
	)

	if err := b.transaction(func(tx *sqlx.Tx) (err error) {
		group, err = getGroupByShortCode(tx, shortcode)
		if err != nil {
			return err
		}

		if games, err = getGamesByGroup(tx, group.ID, GameStatusPlayed); err != nil {
			return err
		}

		if playerRows, err = getPlayedGamePlayerRows(tx, group.ID); err != nil {
			return err
		}

		if ratingRows, err = getRatingRecords(tx, group.ID); err != nil {
			return err
		}

		if players, err = getApprovedPlayers(tx, group.ID); err != nil {
			return err
		}

		rankings, err = getRankings(tx, group.ID, DeviationThreshold)
		return err
	}); err != nil {
		return Leaderboard{}, err
	}

	gameRecords := make([]stats.GameRecord, 0, len(games))
	for k := range games {
		gameRecords = append(gameRecords, stats.GameRecord{
			ID:       games[k].ID,
			GroupID:  games[k].GroupID,
			StartsAt: games[k].StartsAt.Time(),
		})
	}

	playerRecords := make([]stats.GamePlayerRecord, 0, len(playerRows))
	for k := range playerRows {
		team := -1
		if playerRows[k].Team.Valid {
			team = int(playerRows[k].Team.Int64)
		}

		playerRecords = append(playerRecords, stats.GamePlayerRecord{
			GameID:   playerRows[k].GameID,
			PlayerID: playerRows[k].PlayerID,
			Name:     playerRows[k].Name,
			Team:     team,
			Outcome:  playerRows[k].Outcome,
		})
	}

	refs := make([]stats.PlayerRef, 0, len(players))
	for k := range players {
		refs = append(refs, stats.PlayerRef{
			ID:   players[k].ID,
			Name: players[k].Name,
		})
	}

	ret := Leaderboard{
		GroupID:  group.ID,
		Rankings: rankings,
	}

	var (
		wg   sync.WaitGroup
		errs [2]error
	)

	wg.Add(5)

	go func() {
		defer wg.Done()
		ret.MostGamesPlayed = b.engine.MostGamesPlayed(playerRecords)
	}()

	go func() {
		defer wg.Done()
		ret.BestPlayer, errs[0] = b.engine.BestPlayer(ratingRows, refs)
	}()

	go func() {
		defer wg.Done()
		ret.LongestWinStreak = b.engine.LongestWinStreak(gameRecords, playerRecords)
	}()

	go func() {
		defer wg.Done()
		ret.CurrentStreak = b.engine.CurrentStreakLeader(gameRecords, playerRecords)
	}()

	go func() {
		defer wg.Done()
		ret.MostImproved, errs[1] = b.engine.MostImproved(gameRecords, ratingRows, refs)
	}()

	wg.Wait()

	if err := util.ConcatErrors(errs[:]); err != nil {
		return Leaderboard{}, err
	}

	return ret, nil
}

// getPlayedGamePlayerRows returns the attendance rows of every played game
// of a group, with player names resolved. Rows pointing at deleted players
// come back with an empty name and are skipped by the stat computations.
func getPlayedGamePlayerRows(tx *sqlx.Tx, groupID util.UUIDAsBlob) ([]gamePlayerRow, error) {
	var ret []gamePlayerRow
	query := `
        SELECT GamePlayer.*, IFNULL("Player"."Name", '') AS "Name"
        FROM "GamePlayer"
        INNER JOIN "Game" ON ("Game"."ID" = "GamePlayer"."GameID")
        LEFT JOIN "Player" ON ("Player"."ID" = "GamePlayer"."PlayerID")
        WHERE "Game"."GroupID" = ? AND "Game"."Status" = ?`

	if err := tx.Select(&ret, query, groupID, GameStatusPlayed); err != nil {
		return nil, err
	}

	return ret, nil
}

func getRatingRecords(tx *sqlx.Tx, groupID util.UUIDAsBlob) ([]stats.RatingRecord, error) {
	var ret []stats.RatingRecord
	query := `
        SELECT "Rating"."GameID", "Rating"."PlayerID", "Rating"."RaterID", "Rating"."Value"
        FROM "Rating"
        INNER JOIN "Game" ON ("Game"."ID" = "Rating"."GameID")
        WHERE "Game"."GroupID" = ? AND "Game"."Status" = ?`

	if err := tx.Select(&ret, query, groupID, GameStatusPlayed); err != nil {
		return nil, err
	}

	return ret, nil
}

func getRankings(tx *sqlx.Tx, groupID util.UUIDAsBlob, maxDeviation float64) ([]RankingEntry, error) {
	var ret []RankingEntry
	query := `
        SELECT
            Player.Name AS PlayerName,
            SkillRating.Rating AS Rating,
            SkillRating.Deviation AS Deviation,
            SUM(CASE WHEN Game.Status = ? AND GamePlayer.Outcome = ? THEN 1 ELSE 0 END) AS Wins,
            SUM(CASE WHEN Game.Status = ? AND GamePlayer.Outcome = ? THEN 1 ELSE 0 END) AS Losses,
            SUM(CASE WHEN Game.Status = ? AND GamePlayer.Outcome = ? THEN 1 ELSE 0 END) AS Ties
        FROM SkillRating
        INNER JOIN Player ON(SkillRating.PlayerID = Player.ID)
        LEFT JOIN GamePlayer ON(SkillRating.PlayerID = GamePlayer.PlayerID)
        LEFT JOIN Game ON(Game.ID = GamePlayer.GameID AND Game.GroupID = SkillRating.GroupID)
        WHERE
            SkillRating.GroupID = ?
            AND SkillRating.Deviation < ?
        GROUP BY Player.ID
        ORDER BY (SkillRating.Rating - (2*SkillRating.Deviation)) DESC`

	if err := tx.Select(
		&ret, query,
		GameStatusPlayed, stats.OutcomeWin,
		GameStatusPlayed, stats.OutcomeLoss,
		GameStatusPlayed, stats.OutcomeTie,
		groupID, maxDeviation,
	); err != nil {
		return nil, err
	}

	return ret, nil
}
