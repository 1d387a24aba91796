package network

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gametypes "github.com/cbodonnell/tetrafall/pkg/game/types"
	"github.com/cbodonnell/tetrafall/pkg/messages"
	"github.com/cbodonnell/tetrafall/pkg/queue"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"nhooyr.io/websocket"
)

type wsFixture struct {
	server        *httptest.Server
	clientManager *ClientManager
	commands      *queue.InMemoryQueue
	events        *queue.InMemoryQueue
}

func newWSFixture(t *testing.T) *wsFixture {
	f := &wsFixture{
		clientManager: NewClientManager(),
		commands:      queue.NewInMemoryQueue(16),
		events:        queue.NewInMemoryQueue(16),
	}
	f.server = httptest.NewServer(NewWSHandler(NewWSHandlerOptions{
		ClientManager:     f.clientManager,
		CommandQueue:      f.commands,
		SessionEventQueue: f.events,
	}))
	t.Cleanup(f.server.Close)
	return f
}

func (f *wsFixture) dial(t *testing.T, ctx context.Context, query string) *websocket.Conn {
	url := "ws" + strings.TrimPrefix(f.server.URL, "http") + "/ws" + query
	conn, _, err := websocket.Dial(ctx, url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close(websocket.StatusNormalClosure, "") })
	return conn
}

// collect polls q until want items have been read or the deadline passes.
func collect(t *testing.T, q queue.Queue, want int) []interface{} {
	var items []interface{}
	assert.Eventually(t, func() bool {
		read, err := q.ReadAllMessages()
		if err != nil {
			return false
		}
		items = append(items, read...)
		return len(items) >= want
	}, 2*time.Second, 10*time.Millisecond)
	return items
}

func readSessionCreated(t *testing.T, ctx context.Context, conn *websocket.Conn) uuid.UUID {
	msg, err := ReadMessageFromWS(ctx, conn)
	require.NoError(t, err)
	require.Equal(t, messages.MessageTypeServerSessionCreated, msg.Type)

	created := &messages.ServerSessionCreated{}
	require.NoError(t, json.Unmarshal(msg.Payload, created))
	assert.Equal(t, msg.SessionID, created.SessionID)
	return created.SessionID
}

func TestWSHandler_createsSessionAndForwardsCommands(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	f := newWSFixture(t)

	conn := f.dial(t, ctx, "?start=true")
	sessionID := readSessionCreated(t, ctx, conn)

	events := collect(t, f.events, 1)
	require.Len(t, events, 1)
	assert.Equal(t, &gametypes.CreateSessionEvent{SessionID: sessionID, Start: true}, events[0])
	assert.Len(t, f.clientManager.GetSessionClients(sessionID), 1)

	// the session id in the frame is ignored in favor of the connection's
	frame := `{"sessionID":"` + uuid.NewString() + `","type":"move","payload":{"dx":1,"dy":0}}`
	require.NoError(t, conn.Write(ctx, websocket.MessageText, []byte(frame)))

	commands := collect(t, f.commands, 1)
	require.Len(t, commands, 1)
	command, ok := commands[0].(*messages.Message)
	require.True(t, ok)
	assert.Equal(t, sessionID, command.SessionID)
	assert.Equal(t, messages.MessageTypeClientMove, command.Type)
	assert.JSONEq(t, `{"dx":1,"dy":0}`, string(command.Payload))

	require.NoError(t, conn.Close(websocket.StatusNormalClosure, ""))
	events = collect(t, f.events, 1)
	require.Len(t, events, 1)
	assert.Equal(t, &gametypes.CloseSessionEvent{SessionID: sessionID}, events[0])
	assert.Eventually(t, func() bool {
		return len(f.clientManager.GetClients()) == 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestWSHandler_binaryEncoding(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	f := newWSFixture(t)

	conn := f.dial(t, ctx, "?encoding=binary")
	messageType, _, err := conn.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, websocket.MessageBinary, messageType)

	events := collect(t, f.events, 1)
	require.Len(t, events, 1)
	create := events[0].(*gametypes.CreateSessionEvent)
	assert.False(t, create.Start)

	require.NoError(t, WriteMessageToWS(ctx, conn, &messages.Message{Type: messages.MessageTypeClientRotate}, messages.EncodingBinary))
	commands := collect(t, f.commands, 1)
	require.Len(t, commands, 1)
	assert.Equal(t, create.SessionID, commands[0].(*messages.Message).SessionID)
	assert.Equal(t, messages.MessageTypeClientRotate, commands[0].(*messages.Message).Type)
	assert.Equal(t, messages.EncodingBinary, f.clientManager.GetSessionClients(create.SessionID)[0].Encoding)
}

func TestWSHandler_attachToExistingSession(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	f := newWSFixture(t)
	sessionID := uuid.New()

	conn := f.dial(t, ctx, "?session="+sessionID.String())
	assert.Equal(t, sessionID, readSessionCreated(t, ctx, conn))
	events := collect(t, f.events, 1)
	require.Len(t, events, 1)
	assert.Equal(t, &gametypes.AttachSessionEvent{SessionID: sessionID}, events[0])
	assert.Len(t, f.clientManager.GetSessionClients(sessionID), 1)

	// a viewer leaving does not close the session
	require.NoError(t, conn.Close(websocket.StatusNormalClosure, ""))
	assert.Eventually(t, func() bool {
		return len(f.clientManager.GetClients()) == 0
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 0, f.events.Size())
}

func TestWSHandler_sessionClosedByServer(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	f := newWSFixture(t)

	owner := f.dial(t, ctx, "")
	sessionID := readSessionCreated(t, ctx, owner)
	viewer := f.dial(t, ctx, "?session="+sessionID.String())
	readSessionCreated(t, ctx, viewer)
	collect(t, f.events, 2)

	assert.Equal(t, 2, f.clientManager.CloseSession(sessionID, "session deleted"))

	for _, conn := range []*websocket.Conn{owner, viewer} {
		_, _, err := conn.Read(ctx)
		require.Error(t, err)
		assert.Equal(t, websocket.StatusNormalClosure, websocket.CloseStatus(err))
	}
	assert.Empty(t, f.clientManager.GetClients())
	// the session is already gone, the owner does not ask to close it again
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 0, f.events.Size())
}

func TestWSHandler_rejectsBadFrames(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	f := newWSFixture(t)
	conn := f.dial(t, ctx, "")
	readSessionCreated(t, ctx, conn)

	tests := []struct {
		name  string
		frame string
	}{
		{name: "garbage", frame: `{`},
		{name: "unknown type", frame: `{"type":"teleport"}`},
		{name: "server type", frame: `{"type":"game_update"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, conn.Write(ctx, websocket.MessageText, []byte(tt.frame)))
			msg, err := ReadMessageFromWS(ctx, conn)
			require.NoError(t, err)
			assert.Equal(t, messages.MessageTypeServerError, msg.Type)
		})
	}
	assert.Equal(t, 0, f.commands.Size())
}

func TestWSHandler_badQuery(t *testing.T) {
	f := newWSFixture(t)

	tests := []struct {
		name  string
		query string
	}{
		{name: "encoding", query: "?encoding=xml"},
		{name: "session", query: "?session=nope"},
		{name: "start", query: "?start=maybe"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Get(f.server.URL + "/ws" + tt.query)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}
