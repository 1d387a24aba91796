package game

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"reflect"
	"time"

	"github.com/cbodonnell/tetrafall/pkg/game/types"
	"github.com/cbodonnell/tetrafall/pkg/log"
	"github.com/cbodonnell/tetrafall/pkg/messages"
	"github.com/cbodonnell/tetrafall/pkg/queue"
	"github.com/cbodonnell/tetrafall/pkg/state"
	"github.com/google/uuid"
)

// GameManager owns every served session and is the only goroutine that
// touches them. Everything else talks to it through queues and reads the
// snapshots it publishes.
type GameManager struct {
	commandQueue      queue.Queue
	sessionEventQueue queue.Queue
	stateManager      state.StateManager
	serverMessageChan chan<- messages.ServerMessage
	gameLoopInterval  time.Duration
	seed              uint64

	sessions     map[uuid.UUID]*managedSession
	sessionCount uint64
	lastTick     time.Time
}

type managedSession struct {
	session *Session
	// published is the last snapshot sent out, nil before the first one
	published *types.Snapshot
}

// NewGameManagerOptions contains options for creating a new GameManager.
type NewGameManagerOptions struct {
	// CommandQueue carries *messages.Message values from clients.
	CommandQueue queue.Queue
	// SessionEventQueue carries *types.CreateSessionEvent,
	// *types.AttachSessionEvent and *types.CloseSessionEvent values.
	SessionEventQueue queue.Queue
	StateManager      state.StateManager
	ServerMessageChan chan<- messages.ServerMessage
	GameLoopInterval  time.Duration
	// Seed makes piece selection reproducible. Zero seeds from the clock.
	Seed uint64
}

func NewGameManager(opts NewGameManagerOptions) *GameManager {
	return &GameManager{
		commandQueue:      opts.CommandQueue,
		sessionEventQueue: opts.SessionEventQueue,
		stateManager:      opts.StateManager,
		serverMessageChan: opts.ServerMessageChan,
		gameLoopInterval:  opts.GameLoopInterval,
		seed:              opts.Seed,
		sessions:          make(map[uuid.UUID]*managedSession),
	}
}

// Start starts the game loop.
func (gm *GameManager) Start(ctx context.Context) error {
	if gm.gameLoopInterval <= 0 {
		return fmt.Errorf("invalid game loop interval: %v", gm.gameLoopInterval)
	}

	ticker := time.NewTicker(gm.gameLoopInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case t := <-ticker.C:
			if err := gm.gameTick(ctx, t); err != nil {
				log.Error("Failed to run game tick: %v", err)
			}
		}
	}
}

// gameTick runs one iteration of the game loop.
func (gm *GameManager) gameTick(ctx context.Context, t time.Time) error {
	elapsed := gm.gameLoopInterval
	if !gm.lastTick.IsZero() {
		elapsed = t.Sub(gm.lastTick)
	}
	gm.lastTick = t

	gm.processSessionEvents(ctx)
	gm.processCommands()
	for _, ms := range gm.sessions {
		ms.session.Tick(elapsed)
	}
	if err := gm.publishSnapshots(ctx, t); err != nil {
		return fmt.Errorf("failed to publish snapshots: %v", err)
	}

	return nil
}

// processSessionEvents opens and closes sessions requested since the last tick.
func (gm *GameManager) processSessionEvents(ctx context.Context) {
	pendingEvents, err := gm.sessionEventQueue.ReadAllMessages()
	if err != nil {
		log.Error("Failed to read session events: %v", err)
		return
	}
	for _, item := range pendingEvents {
		switch event := item.(type) {
		case *types.CreateSessionEvent:
			if _, ok := gm.sessions[event.SessionID]; ok {
				log.Warn("Session %s already exists", event.SessionID)
				continue
			}
			session := NewSession(event.SessionID, gm.newEngine())
			if event.Start {
				session.Start()
			}
			gm.sessions[event.SessionID] = &managedSession{session: session}
			log.Info("Session %s created", event.SessionID)
		case *types.AttachSessionEvent:
			ms, ok := gm.sessions[event.SessionID]
			if !ok {
				log.Warn("Attach requested for unknown session %s", event.SessionID)
				gm.sendMessage(messages.ServerMessage{
					SessionID: event.SessionID,
					Type:      messages.MessageTypeServerError,
					Message:   &messages.ServerError{Reason: fmt.Sprintf("unknown session %s", event.SessionID)},
				})
				continue
			}
			// republished to every client of the session on this tick
			ms.published = nil
		case *types.CloseSessionEvent:
			if _, ok := gm.sessions[event.SessionID]; !ok {
				log.Warn("Close requested for unknown session %s", event.SessionID)
				continue
			}
			delete(gm.sessions, event.SessionID)
			if err := gm.stateManager.Delete(ctx, event.SessionID); err != nil && !state.IsNotFound(err) {
				log.Error("Failed to delete state for session %s: %v", event.SessionID, err)
			}
			log.Info("Session %s closed", event.SessionID)
			gm.sendMessage(messages.ServerMessage{
				SessionID: event.SessionID,
				Type:      messages.MessageTypeServerError,
				Message:   &messages.ServerError{Reason: "session closed"},
			})
		default:
			log.Error("Unknown session event type: %T", item)
		}
	}
}

func (gm *GameManager) newEngine() *Engine {
	opts := NewEngineOptions{}
	if gm.seed != 0 {
		gm.sessionCount++
		opts.Rand = rand.New(rand.NewPCG(gm.seed, gm.sessionCount))
	}
	return NewEngine(opts)
}

// processCommands applies client commands in arrival order.
func (gm *GameManager) processCommands() {
	pendingMessages, err := gm.commandQueue.ReadAllMessages()
	if err != nil {
		log.Error("Failed to read commands: %v", err)
		return
	}
	for _, item := range pendingMessages {
		message, ok := item.(*messages.Message)
		if !ok {
			log.Error("Unknown command type: %T", item)
			continue
		}
		if err := gm.applyCommand(message); err != nil {
			log.Warn("Rejected %s from session %s: %v", message.Type, message.SessionID, err)
			gm.sendMessage(messages.ServerMessage{
				SessionID: message.SessionID,
				Type:      messages.MessageTypeServerError,
				Message:   &messages.ServerError{Reason: err.Error()},
			})
		}
	}
}

func (gm *GameManager) applyCommand(message *messages.Message) error {
	ms, ok := gm.sessions[message.SessionID]
	if !ok {
		return fmt.Errorf("unknown session %s", message.SessionID)
	}
	session := ms.session

	switch message.Type {
	case messages.MessageTypeClientStart:
		session.Start()
	case messages.MessageTypeClientReset:
		session.Reset()
	case messages.MessageTypeClientMove:
		move := &messages.ClientMove{}
		if err := json.Unmarshal(message.Payload, move); err != nil {
			return fmt.Errorf("failed to unmarshal move: %v", err)
		}
		// single steps only, a longer jump would pass through locked cells
		if move.DX < -1 || move.DX > 1 || move.DY < 0 || move.DY > 1 {
			return fmt.Errorf("invalid move: dx=%d dy=%d", move.DX, move.DY)
		}
		session.Move(move.DX, move.DY)
	case messages.MessageTypeClientRotate:
		session.Rotate()
	case messages.MessageTypeClientHardDrop:
		session.HardDrop()
	case messages.MessageTypeClientTogglePause:
		session.TogglePause()
	default:
		return fmt.Errorf("unsupported message type %s", message.Type)
	}
	return nil
}

// publishSnapshots stores and broadcasts the snapshot of every session that
// changed since it was last published.
func (gm *GameManager) publishSnapshots(ctx context.Context, t time.Time) error {
	for id, ms := range gm.sessions {
		snapshot := ms.session.Snapshot(t)
		if !snapshotChanged(ms.published, snapshot) {
			continue
		}
		if err := gm.stateManager.Set(ctx, id, snapshot); err != nil {
			return fmt.Errorf("failed to set state for session %s: %v", id, err)
		}
		// a dropped update is retried on the next tick
		if gm.sendMessage(messages.ServerMessage{
			SessionID: id,
			Type:      messages.MessageTypeServerGameUpdate,
			Message:   ServerGameUpdateFromSnapshot(snapshot),
		}) {
			ms.published = snapshot
		}
	}
	return nil
}

// sendMessage never blocks the game loop. It reports false when the channel
// is full and the message was dropped.
func (gm *GameManager) sendMessage(msg messages.ServerMessage) bool {
	select {
	case gm.serverMessageChan <- msg:
		return true
	default:
		log.Warn("Server message channel full, dropping %s for session %s", msg.Type, msg.SessionID)
		return false
	}
}

// snapshotChanged compares everything but the timestamp.
func snapshotChanged(prev, next *types.Snapshot) bool {
	if prev == nil {
		return true
	}
	return prev.Status != next.Status ||
		prev.Progression != next.Progression ||
		!reflect.DeepEqual(prev.Piece, next.Piece) ||
		!reflect.DeepEqual(prev.Board, next.Board)
}
