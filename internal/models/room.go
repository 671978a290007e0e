package models

// Room is an isolated voting session identified by its sanitized name.
// Master holds the connection id of the current facilitator, or "" when no
// facilitator has claimed the room. All state lives in process memory for the
// lifetime of the server.
type Room struct {
	Name          string
	Master        string
	Users         map[string]*Participant
	VotesRevealed bool
}

func NewRoom(name string) *Room {
	return &Room{
		Name:  name,
		Users: make(map[string]*Participant),
	}
}

// HasUser reports whether a connection id is a known participant of the room.
func (r *Room) HasUser(connID string) bool {
	_, ok := r.Users[connID]
	return ok
}

// Snapshot returns a value copy of the participant mapping, safe to hand to
// the broadcast gateway's asynchronous deliver queue while the live map keeps
// mutating.
func (r *Room) Snapshot() map[string]Participant {
	users := make(map[string]Participant, len(r.Users))
	for id, u := range r.Users {
		users[id] = *u
	}
	return users
}
