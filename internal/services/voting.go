package services

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/eosyam/scrum-game/internal/models"
)

// StatPlaceholder is rendered for average/mode/consensus when no vote
// qualifies.
const StatPlaceholder = "-"

// VotingEngine mutates a room's vote state and computes the reveal-time
// aggregate. It holds no state of its own; callers synchronize through the
// Session mutex.
type VotingEngine struct{}

func NewVotingEngine() *VotingEngine {
	return &VotingEngine{}
}

// CastVote records a sanitized vote for a known participant. When the room's
// votes were already revealed the reveal is withdrawn: votesRevealed flips
// back to false and the caller must broadcast hideVotes instead of a normal
// update, leaving every recorded value intact. Returns the out-event to
// broadcast and false if the room or participant is unknown.
func (v *VotingEngine) CastVote(room *models.Room, connID, vote string) (string, bool) {
	if room == nil || !room.HasUser(connID) {
		return "", false
	}

	room.Users[connID].Vote = vote

	if room.VotesRevealed {
		room.VotesRevealed = false
		return models.MsgTypeHideVotes, true
	}
	return models.MsgTypeUpdateUsers, true
}

// Reveal marks votes as revealed and computes the aggregate statistics.
// Only the room's facilitator may reveal; any other requester is a no-op.
func (v *VotingEngine) Reveal(room *models.Room, requesterID string) (models.Statistics, int, bool) {
	if room == nil || room.Master == "" || requesterID != room.Master {
		return models.Statistics{}, 0, false
	}

	room.VotesRevealed = true
	stats, total := computeStatistics(room)
	return stats, total, true
}

// Reset hides votes and clears every participant's vote.
func (v *VotingEngine) Reset(room *models.Room) bool {
	if room == nil {
		return false
	}
	room.VotesRevealed = false
	for _, u := range room.Users {
		u.Vote = ""
	}
	return true
}

// Clear wipes all votes without a facilitator check and without touching
// votesRevealed. Broadcast under its own event so clients can tell it apart
// from a reset.
func (v *VotingEngine) Clear(room *models.Room) bool {
	if room == nil {
		return false
	}
	for _, u := range room.Users {
		u.Vote = ""
	}
	return true
}

// computeStatistics aggregates the qualifying votes: finite numeric values
// from present, non-away, non-facilitator participants, excluding the coffee
// marker. Participants are scanned in ascending connection-id order so mode
// ties come out in a stable first-occurrence order.
func computeStatistics(room *models.Room) (models.Statistics, int) {
	votes := qualifyingVotes(room)
	if len(votes) == 0 {
		return models.Statistics{
			Average:   StatPlaceholder,
			Mode:      StatPlaceholder,
			Consensus: StatPlaceholder,
		}, 0
	}

	var sum float64
	for _, v := range votes {
		sum += v
	}
	average := strconv.FormatFloat(sum/float64(len(votes)), 'f', 1, 64)

	// Tally on the normalized numeric value so "2" and "2.0" count together.
	counts := make(map[string]int)
	var order []string
	for _, v := range votes {
		key := strconv.FormatFloat(v, 'f', -1, 64)
		if counts[key] == 0 {
			order = append(order, key)
		}
		counts[key]++
	}

	maxCount := 0
	for _, n := range counts {
		if n > maxCount {
			maxCount = n
		}
	}

	var tied []string
	for _, key := range order {
		if counts[key] == maxCount {
			tied = append(tied, key)
		}
	}
	mode := strings.Join(tied, ", ")

	consensus := strconv.Itoa(int(math.Round(float64(maxCount)/float64(len(votes))*100))) + "%"

	return models.Statistics{
		Average:   average,
		Mode:      mode,
		Consensus: consensus,
	}, len(votes)
}

func qualifyingVotes(room *models.Room) []float64 {
	ids := make([]string, 0, len(room.Users))
	for id := range room.Users {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var votes []float64
	for _, id := range ids {
		u := room.Users[id]
		if u.IsAway || u.IsMaster || u.Vote == "" || u.Vote == models.VoteCoffee {
			continue
		}
		n, err := strconv.ParseFloat(u.Vote, 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
			continue
		}
		votes = append(votes, n)
	}
	return votes
}
