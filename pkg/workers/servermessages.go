package workers

import (
	"context"
	"fmt"

	"github.com/cbodonnell/tetrafall/pkg/log"
	"github.com/cbodonnell/tetrafall/pkg/messages"
	"github.com/cbodonnell/tetrafall/pkg/network"
	"nhooyr.io/websocket"
)

// ServerMessageWorker delivers messages from the game loop to the websocket
// clients attached to each session.
type ServerMessageWorker struct {
	clientManager     *network.ClientManager
	serverMessageChan <-chan messages.ServerMessage
}

type NewServerMessageWorkerOptions struct {
	ClientManager     *network.ClientManager
	ServerMessageChan <-chan messages.ServerMessage
}

func NewServerMessageWorker(opts NewServerMessageWorkerOptions) *ServerMessageWorker {
	return &ServerMessageWorker{
		clientManager:     opts.ClientManager,
		serverMessageChan: opts.ServerMessageChan,
	}
}

func (w *ServerMessageWorker) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-w.serverMessageChan:
			switch msg.Type {
			case messages.MessageTypeServerGameUpdate, messages.MessageTypeServerError, messages.MessageTypeServerSessionCreated:
				if err := w.handleServerMessage(ctx, msg); err != nil {
					log.Error("Failed to handle server %s message: %v", msg.Type, err)
				}
			default:
				log.Error("Unknown server message type: %v", msg.Type)
				continue
			}
		}
	}
}

// handleServerMessage encodes msg once per encoding in use and queues it for
// every client of the session.
func (w *ServerMessageWorker) handleServerMessage(ctx context.Context, msg messages.ServerMessage) error {
	clients := w.clientManager.GetSessionClients(msg.SessionID)
	if len(clients) == 0 {
		log.Trace("No clients attached to session %s", msg.SessionID)
		return nil
	}

	encoded := make(map[messages.Encoding]*messages.Message)
	for _, client := range clients {
		message, ok := encoded[client.Encoding]
		if !ok {
			var err error
			message, err = messages.NewMessage(msg, client.Encoding)
			if err != nil {
				return fmt.Errorf("failed to build %s message: %v", client.Encoding, err)
			}
			encoded[client.Encoding] = message
		}

		// writes happen on the client's own writer, a stalled socket only
		// backs up its outbox
		if !client.Send(message) {
			// the connection's handler unregisters the client once its read fails
			log.Warn("Outbox full for client %s, closing connection", client.ID)
			go client.WSConn.Close(websocket.StatusPolicyViolation, "client too slow")
		}
	}

	return nil
}
