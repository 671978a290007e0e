package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eosyam/scrum-game/internal/models"
	"github.com/eosyam/scrum-game/internal/services"
)

// pokerRoom builds a room with a facilitator ("master") plus one voting
// participant per entry, keyed conn-1, conn-2, ... in entry order.
func pokerRoom(votes ...string) *models.Room {
	room := models.NewRoom("sprint")
	room.Users["master"] = models.NewParticipant("master", "Facilitator", true, models.DefaultAvatar)
	room.Master = "master"

	for i, v := range votes {
		id := "conn-" + string(rune('1'+i))
		room.Users[id] = models.NewParticipant(id, "Voter "+id, false, models.DefaultAvatar)
		room.Users[id].Vote = v
	}
	return room
}

func TestCastVote(t *testing.T) {
	voting := services.NewVotingEngine()

	t.Run("records vote and reports a plain update", func(t *testing.T) {
		room := pokerRoom("")

		event, ok := voting.CastVote(room, "conn-1", "5")
		require.True(t, ok)
		assert.Equal(t, models.MsgTypeUpdateUsers, event)
		assert.Equal(t, "5", room.Users["conn-1"].Vote)
	})

	t.Run("vote after reveal withdraws the reveal", func(t *testing.T) {
		room := pokerRoom("3")
		room.VotesRevealed = true

		event, ok := voting.CastVote(room, "conn-1", "8")
		require.True(t, ok)
		assert.Equal(t, models.MsgTypeHideVotes, event)
		assert.False(t, room.VotesRevealed)
		assert.Equal(t, "8", room.Users["conn-1"].Vote, "recorded votes stay intact")
	})

	t.Run("unknown room or participant is rejected", func(t *testing.T) {
		_, ok := voting.CastVote(nil, "conn-1", "5")
		assert.False(t, ok)

		room := pokerRoom()
		_, ok = voting.CastVote(room, "ghost", "5")
		assert.False(t, ok)
	})
}

func TestReveal(t *testing.T) {
	voting := services.NewVotingEngine()

	t.Run("computes average mode and consensus", func(t *testing.T) {
		room := pokerRoom("1", "2", "2", "3")

		stats, total, ok := voting.Reveal(room, "master")
		require.True(t, ok)
		assert.True(t, room.VotesRevealed)
		assert.Equal(t, 4, total)
		assert.Equal(t, "2.0", stats.Average)
		assert.Equal(t, "2", stats.Mode)
		assert.Equal(t, "50%", stats.Consensus)
	})

	t.Run("mode ties are joined in first-occurrence order", func(t *testing.T) {
		room := pokerRoom("1", "1", "2", "2")

		stats, total, ok := voting.Reveal(room, "master")
		require.True(t, ok)
		assert.Equal(t, 4, total)
		assert.Equal(t, "1, 2", stats.Mode)
		assert.Equal(t, "50%", stats.Consensus)
	})

	t.Run("equivalent numeric forms tally together", func(t *testing.T) {
		room := pokerRoom("2", "2.0", "3")

		stats, total, ok := voting.Reveal(room, "master")
		require.True(t, ok)
		assert.Equal(t, 3, total)
		assert.Equal(t, "2", stats.Mode)
		assert.Equal(t, "67%", stats.Consensus)
	})

	t.Run("coffee away empty and non-numeric votes do not qualify", func(t *testing.T) {
		room := pokerRoom(models.VoteCoffee, "", "abc", "4")
		room.Users["conn-5"] = models.NewParticipant("conn-5", "Away Voter", false, models.DefaultAvatar)
		room.Users["conn-5"].Vote = "8"
		room.Users["conn-5"].IsAway = true

		stats, total, ok := voting.Reveal(room, "master")
		require.True(t, ok)
		assert.Equal(t, 1, total)
		assert.Equal(t, "4.0", stats.Average)
		assert.Equal(t, "4", stats.Mode)
		assert.Equal(t, "100%", stats.Consensus)
	})

	t.Run("facilitator vote is excluded", func(t *testing.T) {
		room := pokerRoom("5")
		room.Users["master"].Vote = "13"

		stats, total, ok := voting.Reveal(room, "master")
		require.True(t, ok)
		assert.Equal(t, 1, total)
		assert.Equal(t, "5.0", stats.Average)
	})

	t.Run("no qualifying votes renders placeholders", func(t *testing.T) {
		room := pokerRoom(models.VoteCoffee, "")

		stats, total, ok := voting.Reveal(room, "master")
		require.True(t, ok)
		assert.Equal(t, 0, total)
		assert.Equal(t, services.StatPlaceholder, stats.Average)
		assert.Equal(t, services.StatPlaceholder, stats.Mode)
		assert.Equal(t, services.StatPlaceholder, stats.Consensus)
	})

	t.Run("only the facilitator may reveal", func(t *testing.T) {
		room := pokerRoom("3")

		_, _, ok := voting.Reveal(room, "conn-1")
		assert.False(t, ok)
		assert.False(t, room.VotesRevealed)
	})

	t.Run("rooms without a facilitator cannot reveal", func(t *testing.T) {
		room := models.NewRoom("sprint")
		room.Users["conn-1"] = models.NewParticipant("conn-1", "Solo", false, models.DefaultAvatar)

		_, _, ok := voting.Reveal(room, "conn-1")
		assert.False(t, ok)
	})
}

func TestResetAndClear(t *testing.T) {
	voting := services.NewVotingEngine()

	t.Run("reset hides votes and wipes every vote", func(t *testing.T) {
		room := pokerRoom("3", "5")
		room.VotesRevealed = true

		require.True(t, voting.Reset(room))
		assert.False(t, room.VotesRevealed)
		for _, u := range room.Users {
			assert.Empty(t, u.Vote)
		}
	})

	t.Run("clear wipes votes without touching the revealed flag", func(t *testing.T) {
		room := pokerRoom("3", "5")
		room.VotesRevealed = true

		require.True(t, voting.Clear(room))
		assert.True(t, room.VotesRevealed)
		for _, u := range room.Users {
			assert.Empty(t, u.Vote)
		}
	})

	t.Run("nil room is rejected", func(t *testing.T) {
		assert.False(t, voting.Reset(nil))
		assert.False(t, voting.Clear(nil))
	})
}
