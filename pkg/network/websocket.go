package network

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	gametypes "github.com/cbodonnell/tetrafall/pkg/game/types"
	"github.com/cbodonnell/tetrafall/pkg/log"
	"github.com/cbodonnell/tetrafall/pkg/messages"
	"github.com/cbodonnell/tetrafall/pkg/queue"
	"github.com/google/uuid"
	"nhooyr.io/websocket"
)

const (
	// WriteTimeout bounds a single websocket write
	WriteTimeout = 5 * time.Second
)

// ErrMalformedMessage is returned by ReadMessageFromWS when a frame arrived
// but could not be decoded. The connection is still usable.
var ErrMalformedMessage = errors.New("malformed message")

// WSHandler upgrades requests to websockets and bridges them to the game
// loop: frames become commands on the command queue and the socket is
// registered with the ClientManager to receive server messages.
//
// Query parameters: session attaches to an existing session instead of
// creating one (the game loop answers with the current snapshot, or an
// error frame when the session does not exist), encoding selects json (default) or binary server frames and
// start=true starts a newly created session right away.
type WSHandler struct {
	clientManager     *ClientManager
	commandQueue      queue.Queue
	sessionEventQueue queue.Queue
}

type NewWSHandlerOptions struct {
	ClientManager     *ClientManager
	CommandQueue      queue.Queue
	SessionEventQueue queue.Queue
}

func NewWSHandler(opts NewWSHandlerOptions) *WSHandler {
	return &WSHandler{
		clientManager:     opts.ClientManager,
		commandQueue:      opts.CommandQueue,
		sessionEventQueue: opts.SessionEventQueue,
	}
}

func (h *WSHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	encoding, err := messages.ParseEncoding(query.Get("encoding"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	start := false
	if s := query.Get("start"); s != "" {
		if start, err = strconv.ParseBool(s); err != nil {
			http.Error(w, fmt.Sprintf("invalid start: %v", err), http.StatusBadRequest)
			return
		}
	}
	sessionID, owner := uuid.New(), true
	if s := query.Get("session"); s != "" {
		if sessionID, err = uuid.Parse(s); err != nil {
			http.Error(w, fmt.Sprintf("invalid session: %v", err), http.StatusBadRequest)
			return
		}
		owner = false
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		log.Error("Failed to accept WebSocket: %v", err)
		return
	}
	conn.SetReadLimit(messages.MessageBufferSize)
	log.Debug("New WebSocket connection from %s for session %s", r.RemoteAddr, sessionID)

	h.handleWSConnection(r.Context(), conn, sessionID, owner, start, encoding)
}

// handleWSConnection serves one websocket until it closes. A connection that
// created its session closes the session when it goes away.
func (h *WSHandler) handleWSConnection(ctx context.Context, conn *websocket.Conn, sessionID uuid.UUID, owner, start bool, encoding messages.Encoding) {
	logger := log.With("session", sessionID.String())

	// session_created goes out before the client can receive any update
	created, err := messages.NewMessage(messages.ServerMessage{
		SessionID: sessionID,
		Type:      messages.MessageTypeServerSessionCreated,
		Message:   &messages.ServerSessionCreated{SessionID: sessionID},
	}, encoding)
	if err != nil {
		logger.Error("Failed to build session created message: %v", err)
		conn.Close(websocket.StatusInternalError, "")
		return
	}
	if err := WriteMessageToWS(ctx, conn, created, encoding); err != nil {
		logger.Error("Failed to send session created message: %v", err)
		conn.Close(websocket.StatusInternalError, "")
		return
	}

	client := h.clientManager.ConnectClient(ctx, sessionID, conn, encoding)
	var event interface{} = &gametypes.AttachSessionEvent{SessionID: sessionID}
	if owner {
		event = &gametypes.CreateSessionEvent{SessionID: sessionID, Start: start}
	}
	if err := h.sessionEventQueue.Enqueue(event); err != nil {
		logger.Error("Failed to enqueue session event: %v", err)
		h.clientManager.DisconnectClient(client.ID)
		conn.Close(websocket.StatusTryAgainLater, "server busy")
		return
	}
	defer func() {
		// a client closed together with its session is already gone
		if h.clientManager.DisconnectClient(client.ID) && owner {
			if err := h.sessionEventQueue.Enqueue(&gametypes.CloseSessionEvent{SessionID: sessionID}); err != nil {
				logger.Error("Failed to enqueue close session event: %v", err)
			}
		}
		conn.Close(websocket.StatusNormalClosure, "")
		logger.Debug("Client %s disconnected", client.ID)
	}()

	for {
		message, err := ReadMessageFromWS(ctx, conn)
		if errors.Is(err, ErrMalformedMessage) {
			h.sendError(ctx, conn, sessionID, encoding, err.Error())
			continue
		}
		if err != nil {
			if websocket.CloseStatus(err) == -1 && ctx.Err() == nil {
				logger.Warn("Error reading WebSocket message: %v", err)
			}
			return
		}

		if !message.Type.IsClient() {
			h.sendError(ctx, conn, sessionID, encoding, fmt.Sprintf("unsupported message type %s", message.Type))
			continue
		}
		message.SessionID = sessionID
		if err := h.commandQueue.Enqueue(message); err != nil {
			logger.Error("Failed to enqueue message: %v", err)
			h.sendError(ctx, conn, sessionID, encoding, "server busy")
		}
	}
}

func (h *WSHandler) sendError(ctx context.Context, conn *websocket.Conn, sessionID uuid.UUID, encoding messages.Encoding, reason string) {
	msg, err := messages.NewMessage(messages.ServerMessage{
		SessionID: sessionID,
		Type:      messages.MessageTypeServerError,
		Message:   &messages.ServerError{Reason: reason},
	}, encoding)
	if err != nil {
		log.Error("Failed to build error message: %v", err)
		return
	}
	if err := WriteMessageToWS(ctx, conn, msg, encoding); err != nil {
		log.Error("Failed to send error message: %v", err)
	}
}

// WriteMessageToWS writes a Message to a WebSocket connection. JSON goes out
// as a text frame, binary as a binary frame.
func WriteMessageToWS(ctx context.Context, conn *websocket.Conn, msg *messages.Message, encoding messages.Encoding) error {
	b, err := messages.EncodeMessage(msg, encoding)
	if err != nil {
		return fmt.Errorf("failed to serialize message: %v", err)
	}

	messageType := websocket.MessageText
	if encoding == messages.EncodingBinary {
		messageType = websocket.MessageBinary
	}

	ctx, cancel := context.WithTimeout(ctx, WriteTimeout)
	defer cancel()
	if err := conn.Write(ctx, messageType, b); err != nil {
		return fmt.Errorf("failed to write message to WebSocket connection: %v", err)
	}

	return nil
}

// ReadMessageFromWS reads a Message from a WebSocket connection, decoding it
// according to the frame type.
func ReadMessageFromWS(ctx context.Context, conn *websocket.Conn) (*messages.Message, error) {
	messageType, b, err := conn.Read(ctx)
	if err != nil {
		return nil, err
	}

	encoding := messages.EncodingJSON
	if messageType == websocket.MessageBinary {
		encoding = messages.EncodingBinary
	}
	msg, err := messages.DecodeMessage(b, encoding)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}

	return msg, nil
}
