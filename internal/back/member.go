package back

import (
	"time"

	"matchday/internal/util"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

type MemberStatus int

const ( // this is stored in DB, don't change values
	MemberStatusPending  MemberStatus = 0
	MemberStatusApproved MemberStatus = 1
)

// GroupMember ties a player to a group, nothing group-related is visible to
// the player until an organizer approves the membership.
type GroupMember struct {
	GroupID   util.UUIDAsBlob
	PlayerID  util.UUIDAsBlob
	CreatedAt util.TimeAsTimestamp
	Status    MemberStatus
}

func NewGroupMember(groupID, playerID util.UUIDAsBlob) GroupMember {
	return GroupMember{
		GroupID:   groupID,
		PlayerID:  playerID,
		CreatedAt: util.TimeAsTimestamp(time.Now()),
		Status:    MemberStatusPending,
	}
}

func (m *GroupMember) insert(tx *sqlx.Tx) error {
	query, args, err := squirrel.Insert("GroupMember").SetMap(squirrel.Eq{
		"GroupID":   m.GroupID,
		"PlayerID":  m.PlayerID,
		"CreatedAt": m.CreatedAt,
		"Status":    m.Status,
	}).ToSql()
	if err != nil {
		return err
	}

	if _, err := tx.Exec(query, args...); err != nil {
		return err
	}

	return nil
}

func (m *GroupMember) update(tx *sqlx.Tx) error {
	query, args, err := squirrel.Update("GroupMember").SetMap(squirrel.Eq{
		"Status": m.Status,
	}).Where(squirrel.Eq{
		"GroupID":  m.GroupID,
		"PlayerID": m.PlayerID,
	}).ToSql()
	if err != nil {
		return err
	}

	if _, err := tx.Exec(query, args...); err != nil {
		return err
	}

	return nil
}

func getMember(tx *sqlx.Tx, groupID, playerID util.UUIDAsBlob) (GroupMember, error) {
	var ret GroupMember
	query := `SELECT * FROM "GroupMember" WHERE "GroupID" = ? AND "PlayerID" = ? LIMIT 1`
	if err := tx.Get(&ret, query, groupID, playerID); err != nil {
		return GroupMember{}, err
	}

	return ret, nil
}

// getApprovedPlayers returns every approved member of a group, sorted by
// name for stable output.
func getApprovedPlayers(tx *sqlx.Tx, groupID util.UUIDAsBlob) ([]Player, error) {
	var ret []Player
	query := `
        SELECT Player.* FROM "Player"
        INNER JOIN "GroupMember" ON ("GroupMember"."PlayerID" = "Player"."ID")
        WHERE "GroupMember"."GroupID" = ? AND "GroupMember"."Status" = ?
        ORDER BY "Player"."Name" ASC`

	if err := tx.Select(&ret, query, groupID, MemberStatusApproved); err != nil {
		return nil, err
	}

	return ret, nil
}

// JoinGroup files a membership request, the player sees nothing until an
// organizer approves it.
func (b *Back) JoinGroup(shortCode string, playerName string) error {
	return b.transaction(func(tx *sqlx.Tx) error {
		group, err := getGroupByShortCode(tx, shortCode)
		if err != nil {
			return util.ErrPublic("no group with this shortcode exists")
		}

		player, err := getPlayerByName(tx, playerName)
		if err != nil {
			return util.ErrPublic("no player with this name exists")
		}

		if _, err := getMember(tx, group.ID, player.ID); err == nil {
			return util.ErrPublic("you already are a member of this group")
		}

		member := NewGroupMember(group.ID, player.ID)
		return member.insert(tx)
	})
}

func (b *Back) ApproveMember(shortCode string, playerName string) error {
	return b.transaction(func(tx *sqlx.Tx) error {
		group, err := getGroupByShortCode(tx, shortCode)
		if err != nil {
			return util.ErrPublic("no group with this shortcode exists")
		}

		player, err := getPlayerByName(tx, playerName)
		if err != nil {
			return util.ErrPublic("no player with this name exists")
		}

		member, err := getMember(tx, group.ID, player.ID)
		if err != nil {
			return util.ErrPublic("this player did not request to join the group")
		}

		member.Status = MemberStatusApproved
		return member.update(tx)
	})
}
