package messages

import (
	"encoding/json"
	"testing"

	gametypes "github.com/cbodonnell/tetrafall/pkg/game/types"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGameUpdate() *ServerGameUpdate {
	cells := make([]uint8, 200)
	cells[199] = uint8(gametypes.I)
	cells[190] = uint8(gametypes.L)
	return &ServerGameUpdate{
		Timestamp: 1718000000000,
		Status:    gametypes.StatusRunning,
		Width:     10,
		Height:    20,
		Cells:     cells,
		Piece: &PieceUpdate{
			Kind:  uint8(gametypes.T),
			X:     4,
			Y:     -1,
			Rows:  2,
			Cols:  3,
			Shape: []uint8{0, 1, 0, 1, 1, 1},
		},
		Progression: ProgressionUpdate{
			Score:            5120,
			Level:            6,
			Energy:           5120,
			EnergyThreshold:  5000,
			LinesCleared:     14,
			DropInterval:     500,
			TreasureUnlocked: true,
			TreasureCode:     "AB12CD34",
		},
	}
}

func TestSerializeDeserializeGameState(t *testing.T) {
	withoutPiece := testGameUpdate()
	withoutPiece.Piece = nil
	withoutPiece.Status = gametypes.StatusGameOver

	tests := []struct {
		name  string
		state *ServerGameUpdate
	}{
		{name: "running with piece", state: testGameUpdate()},
		{name: "no active piece", state: withoutPiece},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := SerializeGameState(tt.state)
			require.NoError(t, err)

			got, err := DeserializeGameState(b)
			require.NoError(t, err)
			assert.Equal(t, tt.state, got)
		})
	}
}

func TestDeserializeGameState_Malformed(t *testing.T) {
	_, err := DeserializeGameState([]byte{1})
	assert.Error(t, err)

	_, err = DeserializeGameState([]byte{0xff, 0xff, 0xff, 0x7f, 0, 0, 0, 0})
	assert.Error(t, err)
}

func TestEncodeDecodeMessage(t *testing.T) {
	sessionID := uuid.MustParse("6b3c7f5e-3f5a-4c59-9d7f-0b1e2f3a4b5c")
	move, err := json.Marshal(ClientMove{DX: -1, DY: 0})
	require.NoError(t, err)

	tests := []struct {
		name    string
		message *Message
	}{
		{name: "move", message: &Message{SessionID: sessionID, Type: MessageTypeClientMove, Payload: move}},
		{name: "no payload", message: &Message{SessionID: sessionID, Type: MessageTypeClientRotate}},
		{name: "no session", message: &Message{Type: MessageTypeClientStart}},
	}
	for _, tt := range tests {
		for _, enc := range []Encoding{EncodingJSON, EncodingBinary} {
			t.Run(tt.name+"/"+enc.String(), func(t *testing.T) {
				b, err := EncodeMessage(tt.message, enc)
				require.NoError(t, err)

				got, err := DecodeMessage(b, enc)
				require.NoError(t, err)
				assert.Equal(t, tt.message.SessionID, got.SessionID)
				assert.Equal(t, tt.message.Type, got.Type)
				if len(tt.message.Payload) == 0 {
					assert.Empty(t, got.Payload)
				} else {
					assert.JSONEq(t, string(tt.message.Payload), string(got.Payload))
				}
			})
		}
	}
}

func TestDecodeMessage_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		enc  Encoding
	}{
		{name: "json garbage", data: []byte("{"), enc: EncodingJSON},
		{name: "json unknown type", data: []byte(`{"type":"fly"}`), enc: EncodingJSON},
		{name: "binary not zstd", data: []byte("hello world"), enc: EncodingBinary},
		{name: "unknown encoding", data: []byte("{}"), enc: Encoding(9)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeMessage(tt.data, tt.enc)
			assert.Error(t, err)
		})
	}
}

func TestMessageJSONUsesTypeNames(t *testing.T) {
	b, err := json.Marshal(&Message{Type: MessageTypeClientHardDrop})
	require.NoError(t, err)
	assert.Contains(t, string(b), `"type":"hard_drop"`)
}

func TestNewMessageAndParseServerGameUpdate(t *testing.T) {
	sessionID := uuid.New()
	update := testGameUpdate()

	for _, enc := range []Encoding{EncodingJSON, EncodingBinary} {
		t.Run(enc.String(), func(t *testing.T) {
			m, err := NewMessage(ServerMessage{
				SessionID: sessionID,
				Type:      MessageTypeServerGameUpdate,
				Message:   update,
			}, enc)
			require.NoError(t, err)

			b, err := EncodeMessage(m, enc)
			require.NoError(t, err)
			decoded, err := DecodeMessage(b, enc)
			require.NoError(t, err)

			got, err := ParseServerGameUpdate(decoded, enc)
			require.NoError(t, err)
			assert.Equal(t, update, got)
		})
	}
}

func TestNewMessage_JSONPayloadForOtherTypes(t *testing.T) {
	m, err := NewMessage(ServerMessage{
		Type:    MessageTypeServerError,
		Message: &ServerError{Reason: "nope"},
	}, EncodingBinary)
	require.NoError(t, err)
	assert.JSONEq(t, `{"reason":"nope"}`, string(m.Payload))

	_, err = ParseServerGameUpdate(m, EncodingBinary)
	assert.Error(t, err)
}

func TestParseEncoding(t *testing.T) {
	tests := []struct {
		name    string
		want    Encoding
		wantErr bool
	}{
		{name: "", want: EncodingJSON},
		{name: "json", want: EncodingJSON},
		{name: "binary", want: EncodingBinary},
		{name: "xml", want: EncodingJSON, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseEncoding(tt.name)
			assert.Equal(t, tt.wantErr, err != nil)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseMessageType(t *testing.T) {
	for mt := MessageTypeClientStart; mt <= MessageTypeServerError; mt++ {
		got, err := ParseMessageType(mt.String())
		require.NoError(t, err)
		assert.Equal(t, mt, got)
		assert.Equal(t, mt <= MessageTypeClientTogglePause, mt.IsClient())
	}
	_, err := ParseMessageType("teleport")
	assert.Error(t, err)
}
