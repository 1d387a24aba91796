package game

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/cbodonnell/tetrafall/client/flow"
	"github.com/cbodonnell/tetrafall/client/network"
	"github.com/cbodonnell/tetrafall/client/scenes"
	"github.com/cbodonnell/tetrafall/client/ui"
	gamecore "github.com/cbodonnell/tetrafall/pkg/game"
	"github.com/cbodonnell/tetrafall/pkg/log"
	"github.com/cbodonnell/tetrafall/pkg/messages"
	"github.com/google/uuid"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// DialTimeout bounds how long joining a server session may take.
const DialTimeout = 5 * time.Second

// Game implements ebiten.Game interface, which has Update, Draw and Layout methods.
type Game struct {
	// debug is a boolean value indicating whether debug mode is enabled.
	debug bool
	// seed makes local piece selection reproducible when non-zero.
	seed uint64
	// serverURL is the websocket address used for online play. Empty disables it.
	serverURL string
	// encoding is the wire encoding requested from the server.
	encoding messages.Encoding
	// remote is the server session while playing online.
	remote *network.RemoteSession
	// mode is the current game mode.
	mode flow.GameMode
	// scene is the current scene.
	scene scenes.Scene
}

type NewGameOptions struct {
	Debug     bool
	Seed      uint64
	ServerURL string
	Encoding  messages.Encoding
}

func NewGame(opts NewGameOptions) (ebiten.Game, error) {
	g := &Game{
		debug:     opts.Debug,
		seed:      opts.Seed,
		serverURL: opts.ServerURL,
		encoding:  opts.Encoding,
	}

	if err := g.loadMenu(""); err != nil {
		return nil, fmt.Errorf("failed to load menu scene: %v", err)
	}

	return g, nil
}

func (g *Game) SetScene(scene scenes.Scene) error {
	if g.scene != nil {
		if err := g.scene.Destroy(); err != nil {
			return fmt.Errorf("failed to destroy previous scene: %v", err)
		}
	}

	g.scene = scene
	if err := g.scene.Init(); err != nil {
		return fmt.Errorf("failed to initialize scene: %v", err)
	}

	return nil
}

func (g *Game) loadMenu(errMessage string) error {
	opts := scenes.MenuSceneOptions{
		OnPlay: g.playLocal,
		Err:    errMessage,
	}
	if g.serverURL != "" {
		opts.OnOnline = g.playOnline
	}
	menu, err := scenes.NewMenuScene(opts)
	if err != nil {
		return fmt.Errorf("failed to create menu scene: %v", err)
	}
	if err := g.SetScene(menu); err != nil {
		return fmt.Errorf("failed to set menu scene: %v", err)
	}
	g.remote = nil
	g.mode = flow.GameModeMenu
	return nil
}

func (g *Game) newEngine() *gamecore.Engine {
	opts := gamecore.NewEngineOptions{}
	if g.seed != 0 {
		opts.Rand = rand.New(rand.NewPCG(g.seed, g.seed+1))
	}
	return gamecore.NewEngine(opts)
}

func (g *Game) playLocal() error {
	session := gamecore.NewSession(uuid.New(), g.newEngine())
	gameScene, err := scenes.NewGameScene(scenes.GameSceneOptions{
		Controller: scenes.NewLocalController(session),
		OnQuit:     g.quitToMenu,
	})
	if err != nil {
		return fmt.Errorf("failed to create game scene: %v", err)
	}
	if err := g.SetScene(gameScene); err != nil {
		return fmt.Errorf("failed to set game scene: %v", err)
	}
	g.mode = flow.GameModeLocalPlay
	log.Info("Started local session %s", session.ID())
	return nil
}

func (g *Game) playOnline() error {
	ctx, cancel := context.WithTimeout(context.Background(), DialTimeout)
	defer cancel()
	remote, err := network.DialSession(ctx, g.serverURL, g.encoding)
	if err != nil {
		log.Error("Failed to join server session: %v", err)
		return &ui.ActionableError{Message: "Could not reach the server."}
	}

	gameScene, err := scenes.NewGameScene(scenes.GameSceneOptions{
		Controller: remote,
		OnQuit:     g.quitToMenu,
		Message:    remote.LastError,
	})
	if err != nil {
		remote.Close()
		return fmt.Errorf("failed to create game scene: %v", err)
	}
	if err := g.SetScene(gameScene); err != nil {
		return fmt.Errorf("failed to set game scene: %v", err)
	}
	g.remote = remote
	g.mode = flow.GameModeRemotePlay
	return nil
}

func (g *Game) quitToMenu() {
	if err := g.loadMenu(""); err != nil {
		log.Error("Failed to load menu: %v", err)
	}
}

func (g *Game) Update() error {
	if err := g.checkRemoteErrors(); err != nil {
		log.Error("Server session error: %v", err)
		if err := g.loadMenu("Lost connection to the server."); err != nil {
			return fmt.Errorf("failed to load menu scene: %v", err)
		}
	}

	// Update the current scene
	if err := g.scene.Update(); err != nil {
		if err == ebiten.Termination {
			return err
		}
		return fmt.Errorf("failed to update scene: %v", err)
	}

	return nil
}

// checkRemoteErrors returns the error that ended the server session, if any.
func (g *Game) checkRemoteErrors() error {
	if g.mode != flow.GameModeRemotePlay || g.remote == nil {
		return nil
	}
	select {
	case err := <-g.remote.Err():
		return err
	default:
		return nil
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.scene.Draw(screen)
	if g.debug {
		g.drawDebugOverlay(screen)
	}
}

func (g *Game) drawDebugOverlay(screen *ebiten.Image) {
	ebitenutil.DebugPrint(screen, fmt.Sprintf("   FPS: %0.1f", ebiten.ActualFPS()))
	ebitenutil.DebugPrint(screen, fmt.Sprintf("\n   TPS: %0.1f", ebiten.ActualTPS()))
	ebitenutil.DebugPrint(screen, fmt.Sprintf("\n\n   Mode: %s", g.mode))
	if g.remote != nil {
		ebitenutil.DebugPrint(screen, fmt.Sprintf("\n\n\n   Session: %s", g.remote.SessionID()))
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	return scenes.ScreenWidth, scenes.ScreenHeight
}
