package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/cbodonnell/tetrafall/pkg/api"
	"github.com/cbodonnell/tetrafall/pkg/game"
	"github.com/cbodonnell/tetrafall/pkg/log"
	"github.com/cbodonnell/tetrafall/pkg/messages"
	"github.com/cbodonnell/tetrafall/pkg/network"
	"github.com/cbodonnell/tetrafall/pkg/queue"
	"github.com/cbodonnell/tetrafall/pkg/state"
	"github.com/cbodonnell/tetrafall/pkg/version"
	"github.com/cbodonnell/tetrafall/pkg/workers"
)

func main() {
	port := flag.Int("port", envInt("TETRAFALL_PORT", 8080), "port to listen on")
	logLevel := flag.String("log-level", envString("TETRAFALL_LOG_LEVEL", "info"), "Log level")
	tickInterval := flag.Duration("tick-interval", 16*time.Millisecond, "game loop interval")
	queueSize := flag.Int("queue-size", queue.QueueBufferSize, "capacity of the command and session event queues")
	seed := flag.Uint64("seed", 0, "seed for piece selection, 0 seeds from the clock")
	tlsCertFile := flag.String("tls-cert", os.Getenv("TETRAFALL_TLS_CERT"), "TLS certificate file")
	tlsKeyFile := flag.String("tls-key", os.Getenv("TETRAFALL_TLS_KEY"), "TLS key file")
	flag.Parse()

	parsedLogLevel, err := log.ParseLogLevel(*logLevel)
	if err != nil {
		panic(fmt.Sprintf("Failed to parse log level: %v", err))
	}

	logger := log.New(os.Stdout, "", log.DefaultLoggerFlag, parsedLogLevel)
	log.SetDefaultLogger(logger)
	log.Info("Log level set to %s", parsedLogLevel)

	log.Info("Starting tetrafall server version %s", version.Get())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	commandQueue := queue.NewInMemoryQueue(*queueSize)
	sessionEventQueue := queue.NewInMemoryQueue(*queueSize)
	stateManager := state.NewInMemoryStateManager()
	clientManager := network.NewClientManager()

	serverMessageChannelSize := 1000
	serverMessageChan := make(chan messages.ServerMessage, serverMessageChannelSize)

	serverMessageWorker := workers.NewServerMessageWorker(workers.NewServerMessageWorkerOptions{
		ClientManager:     clientManager,
		ServerMessageChan: serverMessageChan,
	})
	go serverMessageWorker.Start(ctx)

	wsHandler := network.NewWSHandler(network.NewWSHandlerOptions{
		ClientManager:     clientManager,
		CommandQueue:      commandQueue,
		SessionEventQueue: sessionEventQueue,
	})

	apiServerOpts := api.NewAPIServerOptions{
		Port:              *port,
		CommandQueue:      commandQueue,
		SessionEventQueue: sessionEventQueue,
		StateManager:      stateManager,
		WSHandler:         wsHandler,
		SessionClients:    clientManager,
	}
	if *tlsCertFile != "" && *tlsKeyFile != "" {
		apiServerOpts.TLS = &api.TLSConfig{
			CertFile: *tlsCertFile,
			KeyFile:  *tlsKeyFile,
		}
	}
	server := api.NewAPIServer(apiServerOpts)
	go server.Start()

	gameManager := game.NewGameManager(game.NewGameManagerOptions{
		CommandQueue:      commandQueue,
		SessionEventQueue: sessionEventQueue,
		StateManager:      stateManager,
		ServerMessageChan: serverMessageChan,
		GameLoopInterval:  *tickInterval,
		Seed:              *seed,
	})

	gameErr := make(chan error, 1)
	go func() {
		log.Info("Starting game manager")
		gameErr <- gameManager.Start(ctx)
	}()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	select {
	case sig := <-interrupt:
		log.Info("Received signal %v, shutting down", sig)
	case err := <-gameErr:
		if err != nil {
			log.Error("Game manager stopped: %v", err)
		}
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Stop(shutdownCtx); err != nil {
		log.Error("Failed to stop server: %v", err)
	}
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		panic(fmt.Sprintf("Invalid %s: %v", key, err))
	}
	return n
}
