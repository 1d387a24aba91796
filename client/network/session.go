package network

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sync"

	"github.com/cbodonnell/tetrafall/pkg/game"
	gametypes "github.com/cbodonnell/tetrafall/pkg/game/types"
	"github.com/cbodonnell/tetrafall/pkg/log"
	"github.com/cbodonnell/tetrafall/pkg/messages"
	pkgnetwork "github.com/cbodonnell/tetrafall/pkg/network"
	"github.com/google/uuid"
	"nhooyr.io/websocket"
)

// RemoteSession plays a session hosted by a tetrafall server. Commands are
// sent as they happen and the latest game update is kept for drawing.
type RemoteSession struct {
	conn      *websocket.Conn
	sessionID uuid.UUID
	encoding  messages.Encoding
	cancel    context.CancelFunc

	mu        sync.RWMutex
	snapshot  *gametypes.Snapshot
	lastError string

	errChan chan error
}

// DialSession connects to the server's websocket endpoint and waits for the
// session to be created. serverURL is the base ws:// or wss:// address.
func DialSession(ctx context.Context, serverURL string, encoding messages.Encoding) (*RemoteSession, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse server url: %v", err)
	}
	if u.Path == "" || u.Path == "/" {
		u.Path = "/ws"
	}
	query := u.Query()
	query.Set("encoding", encoding.String())
	u.RawQuery = query.Encode()

	log.Info("Connecting to server at %s", u.String())
	conn, _, err := websocket.Dial(ctx, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to server: %v", err)
	}

	msg, err := pkgnetwork.ReadMessageFromWS(ctx, conn)
	if err != nil {
		conn.Close(websocket.StatusInternalError, "handshake failed")
		return nil, fmt.Errorf("failed to read session: %v", err)
	}
	if msg.Type != messages.MessageTypeServerSessionCreated {
		conn.Close(websocket.StatusInternalError, "handshake failed")
		return nil, fmt.Errorf("unexpected handshake message: %s", msg.Type)
	}

	readCtx, cancel := context.WithCancel(context.Background())
	s := &RemoteSession{
		conn:      conn,
		sessionID: msg.SessionID,
		encoding:  encoding,
		cancel:    cancel,
		errChan:   make(chan error, 1),
	}
	go s.readLoop(readCtx)

	log.Info("Joined session %s", s.sessionID)
	return s, nil
}

func (s *RemoteSession) SessionID() uuid.UUID {
	return s.sessionID
}

func (s *RemoteSession) readLoop(ctx context.Context) {
	for {
		msg, err := pkgnetwork.ReadMessageFromWS(ctx, s.conn)
		if err != nil {
			if errors.Is(err, pkgnetwork.ErrMalformedMessage) {
				log.Warn("Dropping malformed message: %v", err)
				continue
			}
			if ctx.Err() != nil {
				return
			}
			if status := websocket.CloseStatus(err); status != -1 {
				err = &ErrConnectionClosedByServer{Reason: status.String()}
			}
			s.errChan <- err
			return
		}
		if err := s.handleMessage(msg); err != nil {
			log.Error("Failed to handle message: %v", err)
		}
	}
}

func (s *RemoteSession) handleMessage(msg *messages.Message) error {
	switch msg.Type {
	case messages.MessageTypeServerGameUpdate:
		update, err := messages.ParseServerGameUpdate(msg, s.encoding)
		if err != nil {
			return fmt.Errorf("failed to parse game update: %v", err)
		}
		snapshot, err := game.SnapshotFromServerUpdate(update)
		if err != nil {
			return fmt.Errorf("failed to read game update: %v", err)
		}
		s.mu.Lock()
		s.snapshot = snapshot
		s.mu.Unlock()
	case messages.MessageTypeServerError:
		serverError := &messages.ServerError{}
		if err := json.Unmarshal(msg.Payload, serverError); err != nil {
			return fmt.Errorf("failed to unmarshal server error: %v", err)
		}
		log.Warn("Server rejected command: %s", serverError.Reason)
		s.mu.Lock()
		s.lastError = serverError.Reason
		s.mu.Unlock()
	default:
		return fmt.Errorf("unexpected message type from server: %s", msg.Type)
	}
	return nil
}

// Snapshot returns the latest game update, or nil before the first one.
func (s *RemoteSession) Snapshot() *gametypes.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot.Copy()
}

// LastError returns the reason of the most recent rejected command.
func (s *RemoteSession) LastError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastError
}

// Err delivers the error that ended the connection.
func (s *RemoteSession) Err() <-chan error {
	return s.errChan
}

func (s *RemoteSession) Start() error {
	return s.send(messages.MessageTypeClientStart, nil)
}

func (s *RemoteSession) Reset() error {
	return s.send(messages.MessageTypeClientReset, nil)
}

func (s *RemoteSession) TogglePause() error {
	return s.send(messages.MessageTypeClientTogglePause, nil)
}

func (s *RemoteSession) Move(dx, dy int) error {
	return s.send(messages.MessageTypeClientMove, &messages.ClientMove{DX: dx, DY: dy})
}

func (s *RemoteSession) Rotate() error {
	return s.send(messages.MessageTypeClientRotate, nil)
}

func (s *RemoteSession) HardDrop() error {
	return s.send(messages.MessageTypeClientHardDrop, nil)
}

func (s *RemoteSession) send(t messages.MessageType, payload interface{}) error {
	msg := &messages.Message{
		SessionID: s.sessionID,
		Type:      t,
	}
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal payload: %v", err)
		}
		msg.Payload = b
	}
	return pkgnetwork.WriteMessageToWS(context.Background(), s.conn, msg, s.encoding)
}

// Close leaves the session. The server discards it since this connection
// created it.
func (s *RemoteSession) Close() error {
	s.cancel()
	return s.conn.Close(websocket.StatusNormalClosure, "")
}
