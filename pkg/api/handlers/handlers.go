package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	gametypes "github.com/cbodonnell/tetrafall/pkg/game/types"
	"github.com/cbodonnell/tetrafall/pkg/log"
	"github.com/cbodonnell/tetrafall/pkg/messages"
	"github.com/cbodonnell/tetrafall/pkg/queue"
	"github.com/cbodonnell/tetrafall/pkg/state"
	"github.com/cbodonnell/tetrafall/pkg/version"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// maxBodySize bounds request bodies; commands are tiny.
const maxBodySize = 4096

type CreateSessionRequest struct {
	// Start begins play immediately instead of waiting for a start command
	Start bool `json:"start"`
}

type CreateSessionResponse struct {
	SessionID uuid.UUID `json:"sessionID"`
}

type CommandRequest struct {
	Type    messages.MessageType `json:"type"`
	Payload json.RawMessage      `json:"payload,omitempty"`
}

// SessionClients closes the websockets attached to a session.
type SessionClients interface {
	CloseSession(sessionID uuid.UUID, reason string) int
}

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

func HandleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Version: version.Get()})
	}
}

// HandleCreateSession enqueues a new session. It becomes readable through
// HandleGetSession once the game loop has processed the event.
func HandleCreateSession(sessionEventQueue queue.Queue) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := CreateSessionRequest{}
		body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
		if err != nil {
			log.Error("failed to read request body: %v", err)
			http.Error(w, "Failed to read request body", http.StatusBadRequest)
			return
		}
		if len(body) > 0 {
			if err := json.Unmarshal(body, &req); err != nil {
				http.Error(w, "Invalid request body", http.StatusBadRequest)
				return
			}
		}

		sessionID := uuid.New()
		if err := sessionEventQueue.Enqueue(&gametypes.CreateSessionEvent{SessionID: sessionID, Start: req.Start}); err != nil {
			enqueueError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, CreateSessionResponse{SessionID: sessionID})
	}
}

func HandleGetSession(stateManager state.StateManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, ok := parseSessionID(w, r)
		if !ok {
			return
		}

		snapshot, err := stateManager.Get(r.Context(), sessionID)
		if err != nil {
			if state.IsNotFound(err) {
				http.Error(w, "Session not found", http.StatusNotFound)
				return
			}
			log.Error("failed to get session %s: %v", sessionID, err)
			http.Error(w, "Failed to get session", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, snapshot)
	}
}

// HandleSessionCommand enqueues a client command for the game loop. Commands
// for unknown sessions are rejected by the loop, not here, since a freshly
// created session is not visible until the next tick.
func HandleSessionCommand(commandQueue queue.Queue) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, ok := parseSessionID(w, r)
		if !ok {
			return
		}

		req := CommandRequest{}
		if err := json.NewDecoder(io.LimitReader(r.Body, maxBodySize)).Decode(&req); err != nil {
			http.Error(w, "Invalid command", http.StatusBadRequest)
			return
		}
		if !req.Type.IsClient() {
			http.Error(w, "Unsupported command type", http.StatusBadRequest)
			return
		}
		if req.Type == messages.MessageTypeClientMove {
			move := messages.ClientMove{}
			if err := json.Unmarshal(req.Payload, &move); err != nil {
				http.Error(w, "Invalid move payload", http.StatusBadRequest)
				return
			}
		}

		message := &messages.Message{
			SessionID: sessionID,
			Type:      req.Type,
			Payload:   req.Payload,
		}
		if err := commandQueue.Enqueue(message); err != nil {
			enqueueError(w, err)
			return
		}

		w.WriteHeader(http.StatusAccepted)
	}
}

// HandleDeleteSession closes a session and, when clients is set, every
// websocket attached to it.
func HandleDeleteSession(stateManager state.StateManager, sessionEventQueue queue.Queue, clients SessionClients) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, ok := parseSessionID(w, r)
		if !ok {
			return
		}

		if _, err := stateManager.Get(r.Context(), sessionID); err != nil {
			if state.IsNotFound(err) {
				http.Error(w, "Session not found", http.StatusNotFound)
				return
			}
			log.Error("failed to get session %s: %v", sessionID, err)
			http.Error(w, "Failed to get session", http.StatusInternalServerError)
			return
		}

		if err := sessionEventQueue.Enqueue(&gametypes.CloseSessionEvent{SessionID: sessionID}); err != nil {
			enqueueError(w, err)
			return
		}
		if clients != nil {
			if n := clients.CloseSession(sessionID, "session deleted"); n > 0 {
				log.Debug("Closed %d connections of session %s", n, sessionID)
			}
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func parseSessionID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	sessionID, err := uuid.Parse(mux.Vars(r)["sessionID"])
	if err != nil {
		http.Error(w, "Invalid session ID", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return sessionID, true
}

func enqueueError(w http.ResponseWriter, err error) {
	if errors.Is(err, queue.ErrQueueFull) {
		http.Error(w, "Server busy", http.StatusServiceUnavailable)
		return
	}
	log.Error("failed to enqueue: %v", err)
	http.Error(w, "Failed to enqueue", http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("failed to encode response: %v", err)
	}
}
