package models

import "encoding/json"

// WSMessage is the JSON frame exchanged over the WebSocket. Payload stays raw
// until the type is known, then decodes into one of the typed payload structs
// below.
type WSMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// OutMessage is a server-to-client frame with an already-built payload.
type OutMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// Client → Server message types
const (
	MsgTypeJoinRoom      = "joinRoom"
	MsgTypeVote          = "vote"
	MsgTypeShowVotes     = "showVotes"
	MsgTypeResetVotes    = "resetVotes"
	MsgTypeClearVotes    = "a"
	MsgTypeBreakRequest  = "breakRequest"
	MsgTypeQuestion      = "question"
	MsgTypeAutoAway      = "autoAway"
	MsgTypeSendVibration = "sendVibration"
	MsgTypePulseDetect   = "pulseDetect"
)

// Server → Client message types
const (
	MsgTypeConnected        = "connected" // tells the client its connection id
	MsgTypeUpdateUsers      = "updateUsers"
	MsgTypeHideVotes        = "hideVotes"
	MsgTypeUpdateVotes      = "updateVotes"
	MsgTypeVotesReset       = "votesReset"
	MsgTypeVotesCleared     = "a"
	MsgTypePulseDetected    = "pulseDetected"
	MsgTypeReceiveVibration = "receiveVibration"
	MsgTypeError            = "error"
)

type JoinRoomPayload struct {
	Room     string `json:"room"`
	Name     string `json:"name"`
	IsMaster bool   `json:"isMaster"`
	Avatar   string `json:"avatar"`
}

type VotePayload struct {
	Room string `json:"room"`
	Vote string `json:"vote"`
}

// RoomPayload covers showVotes, resetVotes, a and pulseDetect, which carry
// only the room name.
type RoomPayload struct {
	Room string `json:"room"`
}

type BreakRequestPayload struct {
	Room         string `json:"room"`
	RequestBreak bool   `json:"requestBreak"`
}

type QuestionPayload struct {
	Room        string `json:"room"`
	HasQuestion bool   `json:"hasQuestion"`
}

type AutoAwayPayload struct {
	Room   string `json:"room"`
	IsAway bool   `json:"isAway"`
}

type SendVibrationPayload struct {
	Room           string `json:"room"`
	TargetSocketID string `json:"targetSocketId"`
}

type ConnectedPayload struct {
	SocketID string `json:"socketId"`
}

type ReceiveVibrationPayload struct {
	From string `json:"from"`
	Room string `json:"room"`
}

// Statistics is the reveal-time vote aggregate. All three fields render as
// "-" when no vote qualifies.
type Statistics struct {
	Average   string `json:"average"`
	Mode      string `json:"mode"`
	Consensus string `json:"consensus"`
}

// UpdateVotesPayload is broadcast on reveal.
type UpdateVotesPayload struct {
	Users      map[string]Participant `json:"users"`
	TotalVotes int                    `json:"totalVotes"`
	Statistics Statistics             `json:"statistics"`
}
