package network

import (
	"context"
	"sync"

	"github.com/cbodonnell/tetrafall/pkg/log"
	"github.com/cbodonnell/tetrafall/pkg/messages"
	"github.com/google/uuid"
	"nhooyr.io/websocket"
)

// ClientOutboxSize is how many messages may wait for a client's writer
// before the client is considered too slow and disconnected.
const ClientOutboxSize = 64

// Client represents a connected websocket client
type Client struct {
	ID        uuid.UUID
	SessionID uuid.UUID
	Encoding  messages.Encoding
	WSConn    *websocket.Conn

	outbox chan *messages.Message
	done   chan struct{}
}

// Send queues msg for the client's writer without blocking. It reports
// false when the outbox is full.
func (c *Client) Send(msg *messages.Message) bool {
	select {
	case c.outbox <- msg:
		return true
	default:
		return false
	}
}

// writeLoop writes queued messages in order until the client is
// disconnected. A failed write closes the connection.
func (c *Client) writeLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-c.done:
			return
		case msg := <-c.outbox:
			if err := WriteMessageToWS(ctx, c.WSConn, msg, c.Encoding); err != nil {
				log.Warn("Failed to write message to client %s: %v", c.ID, err)
				c.WSConn.Close(websocket.StatusInternalError, "write failed")
				return
			}
		}
	}
}

// ClientManager manages connected clients
type ClientManager struct {
	clients     map[uuid.UUID]*Client
	clientsLock sync.RWMutex
}

// NewClientManager creates a new ClientManager
func NewClientManager() *ClientManager {
	return &ClientManager{
		clients: make(map[uuid.UUID]*Client),
	}
}

// ConnectClient registers a websocket attached to a session and starts its
// writer, which runs until ctx is done or the client is disconnected.
func (cm *ClientManager) ConnectClient(ctx context.Context, sessionID uuid.UUID, conn *websocket.Conn, encoding messages.Encoding) *Client {
	cm.clientsLock.Lock()
	defer cm.clientsLock.Unlock()

	client := &Client{
		ID:        uuid.New(),
		SessionID: sessionID,
		Encoding:  encoding,
		WSConn:    conn,
		outbox:    make(chan *messages.Message, ClientOutboxSize),
		done:      make(chan struct{}),
	}
	cm.clients[client.ID] = client
	go client.writeLoop(ctx)
	return client
}

// DisconnectClient removes a client from the manager and stops its writer.
// It reports whether the client was still registered.
func (cm *ClientManager) DisconnectClient(clientID uuid.UUID) bool {
	cm.clientsLock.Lock()
	defer cm.clientsLock.Unlock()
	client, ok := cm.clients[clientID]
	if !ok {
		return false
	}
	close(client.done)
	delete(cm.clients, clientID)
	return true
}

// CloseSession disconnects every client of a session and closes their
// sockets with reason. It returns how many clients were closed.
func (cm *ClientManager) CloseSession(sessionID uuid.UUID, reason string) int {
	cm.clientsLock.Lock()
	var closed []*Client
	for id, client := range cm.clients {
		if client.SessionID == sessionID {
			close(client.done)
			delete(cm.clients, id)
			closed = append(closed, client)
		}
	}
	cm.clientsLock.Unlock()

	for _, client := range closed {
		// Close waits for the peer's close frame
		go client.WSConn.Close(websocket.StatusNormalClosure, reason)
	}
	return len(closed)
}

// GetClients returns a slice with a copy of all connected clients.
func (cm *ClientManager) GetClients() []*Client {
	cm.clientsLock.RLock()
	defer cm.clientsLock.RUnlock()
	clients := make([]*Client, 0, len(cm.clients))
	for _, client := range cm.clients {
		copy := *client
		clients = append(clients, &copy)
	}
	return clients
}

// GetSessionClients returns copies of the clients attached to a session.
// Copies share the original's outbox.
func (cm *ClientManager) GetSessionClients(sessionID uuid.UUID) []*Client {
	cm.clientsLock.RLock()
	defer cm.clientsLock.RUnlock()
	var clients []*Client
	for _, client := range cm.clients {
		if client.SessionID == sessionID {
			copy := *client
			clients = append(clients, &copy)
		}
	}
	return clients
}

func (cm *ClientManager) Exists(clientID uuid.UUID) bool {
	cm.clientsLock.RLock()
	defer cm.clientsLock.RUnlock()
	_, ok := cm.clients[clientID]
	return ok
}
