package messages

import (
	"encoding/json"
	"fmt"

	gametypes "github.com/cbodonnell/tetrafall/pkg/game/types"
	"github.com/google/uuid"
)

const (
	// MessageBufferSize represents the maximum size of a message
	MessageBufferSize = 1024
)

// MessageType identifies the payload carried by a Message.
type MessageType uint8

// Message types
const (
	MessageTypeClientStart MessageType = iota + 1
	MessageTypeClientReset
	MessageTypeClientMove
	MessageTypeClientRotate
	MessageTypeClientHardDrop
	MessageTypeClientTogglePause
	MessageTypeServerSessionCreated
	MessageTypeServerGameUpdate
	MessageTypeServerError
)

var messageTypeNames = map[MessageType]string{
	MessageTypeClientStart:          "start",
	MessageTypeClientReset:          "reset",
	MessageTypeClientMove:           "move",
	MessageTypeClientRotate:         "rotate",
	MessageTypeClientHardDrop:       "hard_drop",
	MessageTypeClientTogglePause:    "toggle_pause",
	MessageTypeServerSessionCreated: "session_created",
	MessageTypeServerGameUpdate:     "game_update",
	MessageTypeServerError:          "error",
}

func (t MessageType) String() string {
	if name, ok := messageTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("unknown(%d)", uint8(t))
}

// ParseMessageType returns the MessageType with the given wire name.
func ParseMessageType(name string) (MessageType, error) {
	for t, n := range messageTypeNames {
		if n == name {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown message type: %s", name)
}

// IsClient reports whether clients are allowed to send this type.
func (t MessageType) IsClient() bool {
	return t >= MessageTypeClientStart && t <= MessageTypeClientTogglePause
}

func (t MessageType) MarshalText() ([]byte, error) {
	if _, ok := messageTypeNames[t]; !ok {
		return nil, fmt.Errorf("unknown message type: %d", uint8(t))
	}
	return []byte(t.String()), nil
}

func (t *MessageType) UnmarshalText(text []byte) error {
	parsed, err := ParseMessageType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Message represents a generic message for serialization/deserialization
type Message struct {
	SessionID uuid.UUID       `json:"sessionID"`
	Type      MessageType     `json:"type"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// ClientMove asks for the active piece to be translated by DX columns and
// DY rows.
type ClientMove struct {
	DX int `json:"dx"`
	DY int `json:"dy"`
}

type ServerSessionCreated struct {
	SessionID uuid.UUID `json:"sessionID"`
}

type ServerError struct {
	Reason string `json:"reason"`
}

// ServerGameUpdate is the wire form of a session snapshot. Cells holds the
// board in row-major order, one byte per cell (base64 in JSON).
type ServerGameUpdate struct {
	Timestamp   int64             `json:"timestamp"`
	Status      gametypes.Status  `json:"status"`
	Width       int               `json:"width"`
	Height      int               `json:"height"`
	Cells       []uint8           `json:"cells"`
	Piece       *PieceUpdate      `json:"piece,omitempty"`
	Progression ProgressionUpdate `json:"progression"`
}

// PieceUpdate carries the active piece. Shape is Rows x Cols occupancy in
// row-major order, 1 for a filled cell.
type PieceUpdate struct {
	Kind  uint8   `json:"kind"`
	X     int     `json:"x"`
	Y     int     `json:"y"`
	Rows  int     `json:"rows"`
	Cols  int     `json:"cols"`
	Shape []uint8 `json:"shape"`
}

type ProgressionUpdate struct {
	Score            int    `json:"score"`
	Level            int    `json:"level"`
	Energy           int    `json:"energy"`
	EnergyThreshold  int    `json:"energyThreshold"`
	LinesCleared     int    `json:"linesCleared"`
	DropInterval     int    `json:"dropInterval"`
	TreasureUnlocked bool   `json:"treasureUnlocked"`
	TreasureCode     string `json:"treasureCode,omitempty"`
}

// ServerMessage is an outbound message addressed to every client attached
// to a session. Message holds the typed payload, e.g. *ServerGameUpdate.
type ServerMessage struct {
	SessionID uuid.UUID
	Type      MessageType
	Message   interface{}
}
