package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/cbodonnell/tetrafall/client/game"
	"github.com/cbodonnell/tetrafall/client/scenes"
	"github.com/cbodonnell/tetrafall/pkg/log"
	"github.com/cbodonnell/tetrafall/pkg/messages"
	"github.com/cbodonnell/tetrafall/pkg/version"
	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	logLevel := flag.String("log-level", "info", "Log level")
	seed := flag.Uint64("seed", 0, "seed for piece selection, 0 seeds from the clock")
	scale := flag.Float64("scale", 1, "window scale")
	serverURL := flag.String("server", os.Getenv("TETRAFALL_SERVER_URL"), "websocket address of a tetrafall server for online play, e.g. ws://localhost:8080/ws")
	encoding := flag.String("encoding", "binary", "wire encoding for online play (json or binary)")
	debug := flag.Bool("debug", false, "show the debug overlay")
	flag.Parse()

	parsedLogLevel, err := log.ParseLogLevel(*logLevel)
	if err != nil {
		panic(fmt.Sprintf("Failed to parse log level: %v", err))
	}

	logger := log.New(os.Stdout, "", log.DefaultLoggerFlag, parsedLogLevel)
	log.SetDefaultLogger(logger)
	log.Info("Log level set to %s", parsedLogLevel)

	log.Info("Starting client version %s", version.Get())

	parsedEncoding, err := messages.ParseEncoding(*encoding)
	if err != nil {
		panic(fmt.Sprintf("Failed to parse encoding: %v", err))
	}
	if *scale <= 0 {
		panic(fmt.Sprintf("Invalid scale: %v", *scale))
	}

	g, err := game.NewGame(game.NewGameOptions{
		Debug:     *debug,
		Seed:      *seed,
		ServerURL: *serverURL,
		Encoding:  parsedEncoding,
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to create game: %v", err))
	}

	ebiten.SetWindowSize(int(float64(scenes.ScreenWidth)**scale), int(float64(scenes.ScreenHeight)**scale))
	ebiten.SetWindowTitle("Tetrafall")
	if err := ebiten.RunGame(g); err != nil && err != ebiten.Termination {
		panic(fmt.Sprintf("Failed to run game: %v", err))
	}
}
