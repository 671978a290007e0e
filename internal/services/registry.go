package services

import (
	"sort"

	"github.com/eosyam/scrum-game/internal/models"
)

// Registry is the keyed store of rooms. Rooms are created lazily on first
// join and never deleted; the map holds one small struct per room name ever
// used, which is acceptable for the lifetime of the process.
//
// Registry does no locking of its own: every caller goes through the
// Session mutex.
type Registry struct {
	rooms map[string]*models.Room
}

func NewRegistry() *Registry {
	return &Registry{
		rooms: make(map[string]*models.Room),
	}
}

// GetOrCreate returns the room for the given sanitized name, creating it
// with empty participants, no facilitator and votes hidden if it does not
// exist. Lookup is case-sensitive exact match.
func (r *Registry) GetOrCreate(name string) *models.Room {
	room, ok := r.rooms[name]
	if !ok {
		room = models.NewRoom(name)
		r.rooms[name] = room
	}
	return room
}

// Get returns the room for the given name, or nil if it was never created.
func (r *Registry) Get(name string) *models.Room {
	return r.rooms[name]
}

// RoomsWith returns every room containing the connection id as a participant,
// in ascending room-name order so the disconnect path is deterministic.
func (r *Registry) RoomsWith(connID string) []*models.Room {
	var names []string
	for name, room := range r.rooms {
		if room.HasUser(connID) {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	rooms := make([]*models.Room, 0, len(names))
	for _, name := range names {
		rooms = append(rooms, r.rooms[name])
	}
	return rooms
}

// Len reports the number of rooms ever created.
func (r *Registry) Len() int {
	return len(r.rooms)
}
