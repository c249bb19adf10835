package back

// The schema is created in full on startup, there is no migration system:
// every statement must stay idempotent.
var schemaDDL = []string{
	// "Group" is a reserved word, hence the PlayerGroup table name.
	`CREATE TABLE IF NOT EXISTS "PlayerGroup" (
        "ID" blob(16) NOT NULL PRIMARY KEY,
        "CreatedAt" integer NOT NULL,
        "Name" text NOT NULL,
        "ShortCode" text NOT NULL UNIQUE,
        "Sport" text NOT NULL,
        "Schedule" text NOT NULL
    )`,
	`CREATE TABLE IF NOT EXISTS "Player" (
        "ID" blob(16) NOT NULL PRIMARY KEY,
        "CreatedAt" integer NOT NULL,
        "Name" text NOT NULL UNIQUE,
        "PhoneNumber" text
    )`,
	`CREATE TABLE IF NOT EXISTS "GroupMember" (
        "GroupID" blob(16) NOT NULL REFERENCES "PlayerGroup"("ID"),
        "PlayerID" blob(16) NOT NULL REFERENCES "Player"("ID"),
        "CreatedAt" integer NOT NULL,
        "Status" integer NOT NULL,
        PRIMARY KEY ("GroupID", "PlayerID")
    )`,
	`CREATE TABLE IF NOT EXISTS "Game" (
        "ID" blob(16) NOT NULL PRIMARY KEY,
        "CreatedAt" integer NOT NULL,
        "GroupID" blob(16) NOT NULL REFERENCES "PlayerGroup"("ID"),
        "StartsAt" text NOT NULL,
        "Location" text NOT NULL,
        "Status" integer NOT NULL,
        "ScoreA" integer,
        "ScoreB" integer
    )`,
	`CREATE TABLE IF NOT EXISTS "GamePlayer" (
        "GameID" blob(16) NOT NULL REFERENCES "Game"("ID"),
        "PlayerID" blob(16) NOT NULL REFERENCES "Player"("ID"),
        "CreatedAt" integer NOT NULL,
        "Team" integer,
        "Outcome" integer NOT NULL,
        PRIMARY KEY ("GameID", "PlayerID")
    )`,
	`CREATE TABLE IF NOT EXISTS "Rating" (
        "GameID" blob(16) NOT NULL REFERENCES "Game"("ID"),
        "PlayerID" blob(16) NOT NULL REFERENCES "Player"("ID"),
        "RaterID" blob(16) NOT NULL REFERENCES "Player"("ID"),
        "CreatedAt" integer NOT NULL,
        "UpdatedAt" integer,
        "Value" integer NOT NULL,
        PRIMARY KEY ("GameID", "PlayerID", "RaterID")
    )`,
	`CREATE TABLE IF NOT EXISTS "SkillRating" (
        "PlayerID" blob(16) NOT NULL REFERENCES "Player"("ID"),
        "GroupID" blob(16) NOT NULL REFERENCES "PlayerGroup"("ID"),
        "CreatedAt" integer NOT NULL,
        "Rating" real NOT NULL,
        "Deviation" real NOT NULL,
        "Volatility" real NOT NULL,
        PRIMARY KEY ("PlayerID", "GroupID")
    )`,
	`CREATE TABLE IF NOT EXISTS "SkillRatingHistory" (
        "PlayerID" blob(16) NOT NULL REFERENCES "Player"("ID"),
        "GroupID" blob(16) NOT NULL REFERENCES "PlayerGroup"("ID"),
        "RatingPeriodStartedAt" integer NOT NULL,
        "Rating" real NOT NULL,
        "Deviation" real NOT NULL,
        "Volatility" real NOT NULL,
        PRIMARY KEY ("PlayerID", "GroupID", "RatingPeriodStartedAt")
    )`,
	`CREATE INDEX IF NOT EXISTS "GameGroupIDStartsAt" ON "Game" ("GroupID", "StartsAt")`,
}

func (b *Back) ensureSchema() error {
	for _, ddl := range schemaDDL {
		if _, err := b.db.Exec(ddl); err != nil {
			return err
		}
	}

	return nil
}
