package models

// Vote markers with special meaning to the voting engine.
const (
	VoteCoffee = "☕"

	DefaultAvatar = "👤"
)

// Participant is one member of a room, keyed by its transport connection id.
// The connection id changes on reconnect; the record is re-keyed, not recreated.
type Participant struct {
	Name         string `json:"name"`
	Vote         string `json:"vote"`
	RequestBreak bool   `json:"requestBreak"`
	HasQuestion  bool   `json:"hasQuestion"`
	IsAway       bool   `json:"isAway"`
	IsMaster     bool   `json:"isMaster"`
	Avatar       string `json:"avatar"`
	SocketID     string `json:"socketId"`
}

func NewParticipant(connID, name string, isMaster bool, avatar string) *Participant {
	return &Participant{
		Name:     name,
		IsMaster: isMaster,
		Avatar:   avatar,
		SocketID: connID,
	}
}
