package messages

import (
	"encoding/json"
	"fmt"

	gamestatefb "github.com/cbodonnell/tetrafall/flatbuffers/gamestate"
	messagefb "github.com/cbodonnell/tetrafall/flatbuffers/message"
	gametypes "github.com/cbodonnell/tetrafall/pkg/game/types"
	flatbuffers "github.com/google/flatbuffers/go"
	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
)

// The encoder and decoder are safe for concurrent EncodeAll/DecodeAll calls.
var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		panic(fmt.Sprintf("failed to create zstd encoder: %v", err))
	}
	zstdDecoder, err = zstd.NewReader(nil, zstd.WithDecoderMaxMemory(16<<20))
	if err != nil {
		panic(fmt.Sprintf("failed to create zstd decoder: %v", err))
	}
}

// EncodeMessage frames m for a client using enc.
func EncodeMessage(m *Message, enc Encoding) ([]byte, error) {
	switch enc {
	case EncodingJSON:
		b, err := json.Marshal(m)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal message: %v", err)
		}
		return b, nil
	case EncodingBinary:
		return SerializeMessage(m)
	default:
		return nil, fmt.Errorf("unknown encoding: %v", enc)
	}
}

// DecodeMessage parses a frame produced by EncodeMessage with enc.
func DecodeMessage(data []byte, enc Encoding) (*Message, error) {
	switch enc {
	case EncodingJSON:
		m := &Message{}
		if err := json.Unmarshal(data, m); err != nil {
			return nil, fmt.Errorf("failed to unmarshal message: %v", err)
		}
		return m, nil
	case EncodingBinary:
		return DeserializeMessage(data)
	default:
		return nil, fmt.Errorf("unknown encoding: %v", enc)
	}
}

// NewMessage builds the envelope for a server message. Game updates are
// flatbuffers under EncodingBinary; every other payload is JSON.
func NewMessage(sm ServerMessage, enc Encoding) (*Message, error) {
	var payload []byte
	var err error
	if update, ok := sm.Message.(*ServerGameUpdate); ok && enc == EncodingBinary {
		payload, err = SerializeGameState(update)
	} else if sm.Message != nil {
		payload, err = json.Marshal(sm.Message)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to serialize %s payload: %v", sm.Type, err)
	}

	return &Message{
		SessionID: sm.SessionID,
		Type:      sm.Type,
		Payload:   payload,
	}, nil
}

// ParseServerGameUpdate reads the payload of a game_update message that was
// framed with enc.
func ParseServerGameUpdate(m *Message, enc Encoding) (*ServerGameUpdate, error) {
	if m.Type != MessageTypeServerGameUpdate {
		return nil, fmt.Errorf("message is not a game update: %s", m.Type)
	}
	if enc == EncodingBinary {
		return DeserializeGameState(m.Payload)
	}
	update := &ServerGameUpdate{}
	if err := json.Unmarshal(m.Payload, update); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game update: %v", err)
	}
	return update, nil
}

func SerializeMessage(m *Message) ([]byte, error) {
	b, err := SerializeMessageFlatbuffer(m)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize message: %v", err)
	}

	return zstdEncoder.EncodeAll(b, nil), nil
}

func DeserializeMessage(data []byte) (*Message, error) {
	b, err := zstdDecoder.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress message: %v", err)
	}

	message, err := DeserializeMessageFlatbuffer(b)
	if err != nil {
		return nil, fmt.Errorf("failed to deserialize message: %v", err)
	}

	return message, nil
}

func SerializeMessageFlatbuffer(m *Message) ([]byte, error) {
	builder := flatbuffers.NewBuilder(0)

	sessionID := builder.CreateByteVector(m.SessionID[:])
	payload := builder.CreateByteVector(m.Payload)

	messagefb.MessageStart(builder)
	messagefb.MessageAddSessionId(builder, sessionID)
	messagefb.MessageAddType(builder, byte(m.Type))
	messagefb.MessageAddPayload(builder, payload)
	messageOffset := messagefb.MessageEnd(builder)
	builder.Finish(messageOffset)
	b := builder.FinishedBytes()

	return b, nil
}

func DeserializeMessageFlatbuffer(b []byte) (message *Message, err error) {
	if len(b) < flatbuffers.SizeUOffsetT {
		return nil, fmt.Errorf("buffer too short: %d bytes", len(b))
	}
	// malformed buffers make the generated accessors index out of range
	defer func() {
		if r := recover(); r != nil {
			message, err = nil, fmt.Errorf("malformed message buffer: %v", r)
		}
	}()

	message = &Message{}
	messageFlatbuffer := messagefb.GetRootAsMessage(b, 0)
	if sessionID := messageFlatbuffer.SessionIdBytes(); len(sessionID) > 0 {
		message.SessionID, err = uuid.FromBytes(sessionID)
		if err != nil {
			return nil, fmt.Errorf("failed to parse session id: %v", err)
		}
	}
	message.Type = MessageType(messageFlatbuffer.Type())
	if payload := messageFlatbuffer.PayloadBytes(); len(payload) > 0 {
		// the accessor aliases b
		message.Payload = append(json.RawMessage(nil), payload...)
	}

	return message, nil
}

func SerializeGameState(state *ServerGameUpdate) ([]byte, error) {
	builder := flatbuffers.NewBuilder(0)
	gameState := SerializeGameStateFlatbuffer(builder, state)
	builder.Finish(gameState)
	return builder.FinishedBytes(), nil
}

func DeserializeGameState(b []byte) (*ServerGameUpdate, error) {
	gameState, err := DeserializeGameStateFlatbuffer(b)
	if err != nil {
		return nil, fmt.Errorf("failed to deserialize game state: %v", err)
	}

	return gameState, nil
}

func SerializeGameStateFlatbuffer(builder *flatbuffers.Builder, state *ServerGameUpdate) flatbuffers.UOffsetT {
	cells := builder.CreateByteVector(state.Cells)

	var piece flatbuffers.UOffsetT
	if state.Piece != nil {
		piece = SerializePieceFlatbuffer(builder, state.Piece)
	}
	progression := SerializeProgressionFlatbuffer(builder, &state.Progression)

	gamestatefb.GameStateStart(builder)
	gamestatefb.GameStateAddTimestamp(builder, state.Timestamp)
	gamestatefb.GameStateAddStatus(builder, byte(state.Status))
	gamestatefb.GameStateAddWidth(builder, int32(state.Width))
	gamestatefb.GameStateAddHeight(builder, int32(state.Height))
	gamestatefb.GameStateAddCells(builder, cells)
	if state.Piece != nil {
		gamestatefb.GameStateAddPiece(builder, piece)
	}
	gamestatefb.GameStateAddProgression(builder, progression)
	gameState := gamestatefb.GameStateEnd(builder)

	return gameState
}

func SerializePieceFlatbuffer(builder *flatbuffers.Builder, piece *PieceUpdate) flatbuffers.UOffsetT {
	shape := builder.CreateByteVector(piece.Shape)

	gamestatefb.PieceStart(builder)
	gamestatefb.PieceAddKind(builder, piece.Kind)
	gamestatefb.PieceAddX(builder, int32(piece.X))
	gamestatefb.PieceAddY(builder, int32(piece.Y))
	gamestatefb.PieceAddRows(builder, int32(piece.Rows))
	gamestatefb.PieceAddCols(builder, int32(piece.Cols))
	gamestatefb.PieceAddShape(builder, shape)
	return gamestatefb.PieceEnd(builder)
}

func SerializeProgressionFlatbuffer(builder *flatbuffers.Builder, progression *ProgressionUpdate) flatbuffers.UOffsetT {
	treasureCode := builder.CreateString(progression.TreasureCode)

	gamestatefb.ProgressionStart(builder)
	gamestatefb.ProgressionAddScore(builder, int64(progression.Score))
	gamestatefb.ProgressionAddLevel(builder, int32(progression.Level))
	gamestatefb.ProgressionAddEnergy(builder, int64(progression.Energy))
	gamestatefb.ProgressionAddEnergyThreshold(builder, int64(progression.EnergyThreshold))
	gamestatefb.ProgressionAddLinesCleared(builder, int32(progression.LinesCleared))
	gamestatefb.ProgressionAddDropInterval(builder, int32(progression.DropInterval))
	gamestatefb.ProgressionAddTreasureUnlocked(builder, progression.TreasureUnlocked)
	gamestatefb.ProgressionAddTreasureCode(builder, treasureCode)
	return gamestatefb.ProgressionEnd(builder)
}

func DeserializeGameStateFlatbuffer(b []byte) (state *ServerGameUpdate, err error) {
	if len(b) < flatbuffers.SizeUOffsetT {
		return nil, fmt.Errorf("buffer too short: %d bytes", len(b))
	}
	defer func() {
		if r := recover(); r != nil {
			state, err = nil, fmt.Errorf("malformed game state buffer: %v", r)
		}
	}()

	gameStateFlatbuffer := gamestatefb.GetRootAsGameState(b, 0)
	state = &ServerGameUpdate{
		Timestamp: gameStateFlatbuffer.Timestamp(),
		Status:    gametypes.Status(gameStateFlatbuffer.Status()),
		Width:     int(gameStateFlatbuffer.Width()),
		Height:    int(gameStateFlatbuffer.Height()),
		Cells:     append([]uint8(nil), gameStateFlatbuffer.CellsBytes()...),
	}
	if piece := gameStateFlatbuffer.Piece(nil); piece != nil {
		state.Piece = PieceFlatbufferToPieceUpdate(piece)
	}
	if progression := gameStateFlatbuffer.Progression(nil); progression != nil {
		state.Progression = ProgressionFlatbufferToProgressionUpdate(progression)
	}

	return state, nil
}

func PieceFlatbufferToPieceUpdate(fb *gamestatefb.Piece) *PieceUpdate {
	return &PieceUpdate{
		Kind:  fb.Kind(),
		X:     int(fb.X()),
		Y:     int(fb.Y()),
		Rows:  int(fb.Rows()),
		Cols:  int(fb.Cols()),
		Shape: append([]uint8(nil), fb.ShapeBytes()...),
	}
}

func ProgressionFlatbufferToProgressionUpdate(fb *gamestatefb.Progression) ProgressionUpdate {
	return ProgressionUpdate{
		Score:            int(fb.Score()),
		Level:            int(fb.Level()),
		Energy:           int(fb.Energy()),
		EnergyThreshold:  int(fb.EnergyThreshold()),
		LinesCleared:     int(fb.LinesCleared()),
		DropInterval:     int(fb.DropInterval()),
		TreasureUnlocked: fb.TreasureUnlocked(),
		TreasureCode:     string(fb.TreasureCode()),
	}
}
