package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/cbodonnell/tetrafall/pkg/api/handlers"
	"github.com/cbodonnell/tetrafall/pkg/api/middleware"
	"github.com/cbodonnell/tetrafall/pkg/log"
	"github.com/cbodonnell/tetrafall/pkg/queue"
	"github.com/cbodonnell/tetrafall/pkg/state"
	"github.com/gorilla/mux"
)

type APIServer struct {
	server *http.Server
	tls    *TLSConfig
}

type TLSConfig struct {
	CertFile string
	KeyFile  string
}

type NewAPIServerOptions struct {
	Port              int
	TLS               *TLSConfig
	CommandQueue      queue.Queue
	SessionEventQueue queue.Queue
	StateManager      state.StateManager
	// WSHandler serves /ws. Leave nil to disable websockets.
	WSHandler http.Handler
	// SessionClients is told to close the sockets of deleted sessions.
	SessionClients handlers.SessionClients
}

// NewAPIServer creates a new http.Server for handling API requests
func NewAPIServer(opts NewAPIServerOptions) *APIServer {
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", opts.Port),
		Handler: NewHandler(opts),
	}
	return &APIServer{
		server: server,
		tls:    opts.TLS,
	}
}

// NewHandler returns the routed API with CORS and request logging applied.
func NewHandler(opts NewAPIServerOptions) http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", handlers.HandleHealth()).Methods(http.MethodGet)
	r.HandleFunc("/sessions", handlers.HandleCreateSession(opts.SessionEventQueue)).Methods(http.MethodPost)
	r.HandleFunc("/sessions/{sessionID}", handlers.HandleGetSession(opts.StateManager)).Methods(http.MethodGet)
	r.HandleFunc("/sessions/{sessionID}", handlers.HandleDeleteSession(opts.StateManager, opts.SessionEventQueue, opts.SessionClients)).Methods(http.MethodDelete)
	r.HandleFunc("/sessions/{sessionID}/commands", handlers.HandleSessionCommand(opts.CommandQueue)).Methods(http.MethodPost)
	if opts.WSHandler != nil {
		r.Handle("/ws", opts.WSHandler).Methods(http.MethodGet)
	}

	return middleware.CORS(middleware.Logging(r))
}

// Start starts the APIServer
func (s *APIServer) Start() {
	var listenAndServe func() error
	if s.tls != nil {
		log.Info("API server listening on %s with TLS", s.server.Addr)
		listenAndServe = func() error {
			return s.server.ListenAndServeTLS(s.tls.CertFile, s.tls.KeyFile)
		}
	} else {
		log.Info("API server listening on %s", s.server.Addr)
		listenAndServe = s.server.ListenAndServe
	}
	if err := listenAndServe(); err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			log.Info("API server closed")
			return
		}
		log.Error("API server error: %v", err)
	}
}

// Stop stops the APIServer
func (s *APIServer) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
