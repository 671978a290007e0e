package services

import (
	"encoding/json"
	"log"
	"sort"
	"sync"

	"github.com/eosyam/scrum-game/internal/models"
	"github.com/eosyam/scrum-game/internal/security"
)

// Gateway delivers room-scoped and connection-scoped messages. The Hub is the
// production implementation; tests use a recorder.
type Gateway interface {
	// Subscribe adds a connection to a room's broadcast channel.
	Subscribe(connID, room string)
	// BroadcastToRoom delivers to every connection subscribed to the room.
	BroadcastToRoom(room string, msg *models.OutMessage)
	// SendToConnection delivers to exactly one connection.
	SendToConnection(connID string, msg *models.OutMessage)
}

// Session maps inbound real-time events to registry/voting/presence
// operations and instructs the gateway to push the resulting state to the
// affected room. A single mutex serializes every inbound event and every
// fired grace timer, so room state is never mutated concurrently. Broadcasts
// are enqueued while the mutex is still held: the gateway enqueue is a
// buffered-channel send that never calls back into the session, and doing it
// under the lock keeps delivery order equal to mutation order.
type Session struct {
	mu       sync.Mutex
	registry *Registry
	voting   *VotingEngine
	presence *Presence
	gateway  Gateway
}

func NewSession(registry *Registry, voting *VotingEngine, presence *Presence, gateway Gateway) *Session {
	return &Session{
		registry: registry,
		voting:   voting,
		presence: presence,
		gateway:  gateway,
	}
}

// HandleMessage dispatches one decoded frame from a connection. Unknown
// message types are dropped by the caller's allowlist; malformed payloads
// degrade to zero values rather than failing.
func (s *Session) HandleMessage(connID string, msg *models.WSMessage) {
	switch msg.Type {
	case models.MsgTypeJoinRoom:
		var p models.JoinRoomPayload
		decodePayload(msg.Payload, &p)
		s.Join(connID, p)
	case models.MsgTypeVote:
		var p models.VotePayload
		decodePayload(msg.Payload, &p)
		s.CastVote(connID, p)
	case models.MsgTypeShowVotes:
		var p models.RoomPayload
		decodePayload(msg.Payload, &p)
		s.ShowVotes(connID, p.Room)
	case models.MsgTypeResetVotes:
		var p models.RoomPayload
		decodePayload(msg.Payload, &p)
		s.ResetVotes(p.Room)
	case models.MsgTypeClearVotes:
		var p models.RoomPayload
		decodePayload(msg.Payload, &p)
		s.ClearVotes(p.Room)
	case models.MsgTypeBreakRequest:
		var p models.BreakRequestPayload
		decodePayload(msg.Payload, &p)
		s.SetBreakRequest(connID, p)
	case models.MsgTypeQuestion:
		var p models.QuestionPayload
		decodePayload(msg.Payload, &p)
		s.SetQuestion(connID, p)
	case models.MsgTypeAutoAway:
		var p models.AutoAwayPayload
		decodePayload(msg.Payload, &p)
		s.SetAway(connID, p)
	case models.MsgTypeSendVibration:
		var p models.SendVibrationPayload
		decodePayload(msg.Payload, &p)
		s.SendVibration(connID, p)
	case models.MsgTypePulseDetect:
		var p models.RoomPayload
		decodePayload(msg.Payload, &p)
		s.PulseDetect(p.Room)
	}
}

// decodePayload tolerates missing or malformed payloads: whatever fields
// decode are used, the rest stay at their zero values.
func decodePayload(raw json.RawMessage, dst interface{}) {
	if len(raw) == 0 {
		return
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		log.Printf("malformed payload, using defaults: %v", err)
	}
}

// Join handles a join request: reconnection by display name re-keys the
// existing participant record to the new connection id (preserving its vote
// and flags, cancelling any pending removal); otherwise a fresh participant
// is inserted. A joining facilitator always takes over facilitation.
func (s *Session) Join(connID string, p models.JoinRoomPayload) {
	roomName := security.Sanitize(p.Room)
	name := security.Sanitize(p.Name)
	avatar := p.Avatar
	if avatar == "" {
		avatar = models.DefaultAvatar
	}
	avatar = security.Sanitize(avatar)

	s.mu.Lock()
	defer s.mu.Unlock()

	room := s.registry.GetOrCreate(roomName)

	// Reconnection scan: first participant with the same sanitized display
	// name, in ascending connection-id order.
	oldID := ""
	ids := make([]string, 0, len(room.Users))
	for id := range room.Users {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if room.Users[id].Name == name {
			oldID = id
			break
		}
	}

	if oldID != "" {
		s.presence.Cancel(oldID)

		user := room.Users[oldID]
		delete(room.Users, oldID)

		user.SocketID = connID
		user.IsAway = false
		user.IsMaster = p.IsMaster
		user.Avatar = avatar
		room.Users[connID] = user

		log.Printf("user %s reconnected to room %s", name, roomName)
	} else {
		room.Users[connID] = models.NewParticipant(connID, name, p.IsMaster, avatar)
	}

	if p.IsMaster {
		room.Master = connID
	}

	s.gateway.Subscribe(connID, roomName)
	s.gateway.BroadcastToRoom(roomName, &models.OutMessage{
		Type:    models.MsgTypeUpdateUsers,
		Payload: room.Snapshot(),
	})
}

// CastVote records a vote. If votes were revealed, the reveal is withdrawn
// and hideVotes is broadcast with all recorded values retained.
func (s *Session) CastVote(connID string, p models.VotePayload) {
	roomName := security.Sanitize(p.Room)
	vote := security.Sanitize(p.Vote)

	s.mu.Lock()
	defer s.mu.Unlock()

	room := s.registry.Get(roomName)
	event, ok := s.voting.CastVote(room, connID, vote)
	if !ok {
		return
	}

	s.gateway.BroadcastToRoom(roomName, &models.OutMessage{
		Type:    event,
		Payload: room.Snapshot(),
	})
}

// ShowVotes reveals votes and broadcasts the aggregate statistics.
// Facilitator only; anyone else is silently ignored.
func (s *Session) ShowVotes(connID, roomName string) {
	roomName = security.Sanitize(roomName)

	s.mu.Lock()
	defer s.mu.Unlock()

	room := s.registry.Get(roomName)
	stats, total, ok := s.voting.Reveal(room, connID)
	if !ok {
		if room != nil {
			log.Printf("unauthorized showVotes by %s in room %s", connID, roomName)
		}
		return
	}

	s.gateway.BroadcastToRoom(roomName, &models.OutMessage{
		Type: models.MsgTypeUpdateVotes,
		Payload: models.UpdateVotesPayload{
			Users:      room.Snapshot(),
			TotalVotes: total,
			Statistics: stats,
		},
	})
}

// ResetVotes hides and clears all votes, broadcasting under votesReset so
// clients can distinguish a reset from a vote change.
func (s *Session) ResetVotes(roomName string) {
	roomName = security.Sanitize(roomName)

	s.mu.Lock()
	defer s.mu.Unlock()

	room := s.registry.Get(roomName)
	if !s.voting.Reset(room) {
		return
	}

	s.gateway.BroadcastToRoom(roomName, &models.OutMessage{
		Type:    models.MsgTypeVotesReset,
		Payload: room.Snapshot(),
	})
}

// ClearVotes wipes all votes without a facilitator check and without
// resetting the revealed flag.
func (s *Session) ClearVotes(roomName string) {
	roomName = security.Sanitize(roomName)

	s.mu.Lock()
	defer s.mu.Unlock()

	room := s.registry.Get(roomName)
	if !s.voting.Clear(room) {
		return
	}

	s.gateway.BroadcastToRoom(roomName, &models.OutMessage{
		Type:    models.MsgTypeVotesCleared,
		Payload: room.Snapshot(),
	})
}

// SetBreakRequest toggles the participant's break flag.
func (s *Session) SetBreakRequest(connID string, p models.BreakRequestPayload) {
	s.setFlag(connID, p.Room, func(u *models.Participant) {
		u.RequestBreak = p.RequestBreak
	})
}

// SetQuestion toggles the participant's question flag.
func (s *Session) SetQuestion(connID string, p models.QuestionPayload) {
	s.setFlag(connID, p.Room, func(u *models.Participant) {
		u.HasQuestion = p.HasQuestion
	})
}

// SetAway is the client-driven away toggle (idle detection). It overwrites
// the flag directly; no timer is involved.
func (s *Session) SetAway(connID string, p models.AutoAwayPayload) {
	s.setFlag(connID, p.Room, func(u *models.Participant) {
		u.IsAway = p.IsAway
	})
}

func (s *Session) setFlag(connID, roomName string, apply func(*models.Participant)) {
	roomName = security.Sanitize(roomName)

	s.mu.Lock()
	defer s.mu.Unlock()

	room := s.registry.Get(roomName)
	if room == nil || !room.HasUser(connID) {
		return
	}
	apply(room.Users[connID])

	s.gateway.BroadcastToRoom(roomName, &models.OutMessage{
		Type:    models.MsgTypeUpdateUsers,
		Payload: room.Snapshot(),
	})
}

// SendVibration is the facilitator-only point-to-point attention signal.
// Unauthorized attempts are logged and dropped with no state change.
func (s *Session) SendVibration(connID string, p models.SendVibrationPayload) {
	roomName := security.Sanitize(p.Room)
	target := security.Sanitize(p.TargetSocketID)

	s.mu.Lock()
	room := s.registry.Get(roomName)
	authorized := room != nil && room.Master == connID
	s.mu.Unlock()

	if !authorized {
		log.Printf("unauthorized vibration attempt by %s in room %s", connID, roomName)
		return
	}

	s.gateway.SendToConnection(target, &models.OutMessage{
		Type: models.MsgTypeReceiveVibration,
		Payload: models.ReceiveVibrationPayload{
			From: connID,
			Room: roomName,
		},
	})
	log.Printf("facilitator sent vibration to %s in room %s", target, roomName)
}

// PulseDetect is a pure relay to the room; no state changes.
func (s *Session) PulseDetect(roomName string) {
	roomName = security.Sanitize(roomName)
	s.gateway.BroadcastToRoom(roomName, &models.OutMessage{
		Type: models.MsgTypePulseDetected,
	})
}

// Disconnect marks the connection's participant away in every room that
// contains it, broadcasts immediately, and schedules a single removal timer
// for the grace period. Reconnecting under the same display name cancels it.
func (s *Session) Disconnect(connID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rooms := s.registry.RoomsWith(connID)
	for _, room := range rooms {
		user := room.Users[connID]
		user.IsAway = true
		log.Printf("user %s disconnected from room %s, starting grace period", user.Name, room.Name)

		s.gateway.BroadcastToRoom(room.Name, &models.OutMessage{
			Type:    models.MsgTypeUpdateUsers,
			Payload: room.Snapshot(),
		})
	}

	if len(rooms) > 0 {
		s.presence.Schedule(connID, func() {
			s.removeExpired(connID)
		})
	}
}

// removeExpired runs when a grace timer fires: if the connection id was not
// re-keyed away by a reconnection, the participant is deleted and the update
// broadcast. Already-removed ids are a no-op.
func (s *Session) removeExpired(connID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, room := range s.registry.RoomsWith(connID) {
		name := room.Users[connID].Name
		delete(room.Users, connID)
		log.Printf("grace period expired for %s, removed from room %s", name, room.Name)

		s.gateway.BroadcastToRoom(room.Name, &models.OutMessage{
			Type:    models.MsgTypeUpdateUsers,
			Payload: room.Snapshot(),
		})
	}
}
