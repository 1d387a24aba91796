package scenes

import (
	"fmt"
	"image/color"
	"time"

	"github.com/cbodonnell/tetrafall/client/input"
	"github.com/cbodonnell/tetrafall/client/objects"
	"github.com/cbodonnell/tetrafall/client/ui"
	"github.com/cbodonnell/tetrafall/pkg/game/constants"
	gametypes "github.com/cbodonnell/tetrafall/pkg/game/types"
	"github.com/cbodonnell/tetrafall/pkg/log"
	"github.com/hajimehoshi/ebiten/v2"
)

const (
	// CellSize is the side of one board cell in pixels.
	CellSize = 24
	// BoardX and BoardY place the top-left corner of the well.
	BoardX = 40
	BoardY = 40
	// HUDLeft is where the HUD column starts.
	HUDLeft = BoardX + constants.BoardWidth*CellSize + 40
	// ScreenWidth and ScreenHeight fit the well and the HUD.
	ScreenWidth  = 640
	ScreenHeight = BoardY*2 + constants.BoardHeight*CellSize
)

// Controls is the key reference shown by the HUD.
var Controls = []string{
	"Left/Right  move",
	"Down        soft drop",
	"Up/X        rotate",
	"Space       hard drop",
	"P           pause",
	"Enter       start",
	"R           reset",
	"Esc         menu",
}

var (
	pointsColor   = color.NRGBA{R: 120, G: 255, B: 140, A: 255}
	treasureColor = color.NRGBA{R: 255, G: 210, B: 60, A: 255}
)

type GameScene struct {
	*BaseScene

	controller Controller
	onQuit     func()
	message    func() string

	hud      *ui.HUD
	current  *gametypes.Snapshot
	effectID int
}

type GameSceneOptions struct {
	// Controller is the session being played.
	Controller Controller
	// OnQuit is called when the player leaves the game.
	OnQuit func()
	// Message returns a line of status text for the HUD, e.g. the last
	// command the server rejected. Optional.
	Message func() string
}

var _ Scene = &GameScene{}

func NewGameScene(opts GameSceneOptions) (*GameScene, error) {
	if opts.Controller == nil {
		return nil, fmt.Errorf("controller is required")
	}
	message := opts.Message
	if message == nil {
		message = func() string { return "" }
	}
	return &GameScene{
		BaseScene:  NewBaseScene(objects.NewSortedZIndexObject("game-root")),
		controller: opts.Controller,
		onQuit:     opts.OnQuit,
		message:    message,
	}, nil
}

func (g *GameScene) Init() error {
	g.current = g.controller.Snapshot()
	g.hud = ui.NewHUD(ui.NewHUDOptions{
		Left:     HUDLeft,
		Top:      BoardY,
		Controls: Controls,
	})

	root := g.GetRoot()
	board := objects.NewBoardObject("board", objects.NewBoardObjectOptions{
		X:        BoardX,
		Y:        BoardY,
		CellSize: CellSize,
		Snapshot: func() *gametypes.Snapshot { return g.current },
	})
	if err := root.AddChild("board", board); err != nil {
		return fmt.Errorf("failed to add board: %v", err)
	}
	if err := root.AddChild("hud", objects.NewUIObject("hud", g.hud.UI, 5)); err != nil {
		return fmt.Errorf("failed to add hud: %v", err)
	}
	overlay := objects.NewTextOverlayObject("overlay", objects.NewTextOverlayObjectOptions{
		X:      BoardX,
		Y:      BoardY,
		W:      float32(constants.BoardWidth * CellSize),
		H:      float32(constants.BoardHeight * CellSize),
		Text:   func() string { return overlayText(g.current) },
		ZIndex: 10,
	})
	if err := root.AddChild("overlay", overlay); err != nil {
		return fmt.Errorf("failed to add overlay: %v", err)
	}

	return g.BaseScene.Init()
}

func (g *GameScene) Update() error {
	for _, action := range input.Actions() {
		if action == input.ActionQuit {
			if g.onQuit != nil {
				g.onQuit()
			}
			return nil
		}
		if _, err := applyAction(g.controller, action); err != nil {
			log.Error("Failed to apply %s: %v", action, err)
		}
	}

	if ticker, ok := g.controller.(Ticker); ok {
		ticker.Tick(time.Second / time.Duration(ebiten.TPS()))
	}

	next := g.controller.Snapshot()
	for i, e := range effectsBetween(g.current, next) {
		if err := g.addEffect(e, i); err != nil {
			log.Error("Failed to add effect: %v", err)
		}
	}
	g.current = next
	g.hud.Update(g.current, g.message())

	return g.BaseScene.Update()
}

// addEffect shows e as the row-th caption of this frame.
func (g *GameScene) addEffect(e effect, row int) error {
	g.effectID++
	id := fmt.Sprintf("effect-%d", g.effectID)
	clr := pointsColor
	if e.treasure {
		clr = treasureColor
	}
	return g.GetRoot().AddChild(id, objects.NewTextEffect(id, objects.NewTextEffectOptions{
		Text:   e.text,
		X:      float64(BoardX + constants.BoardWidth*CellSize/2),
		Y:      float64(BoardY + constants.BoardHeight*CellSize/3 + row*32),
		Color:  clr,
		Scroll: true,
		TTL:    1200,
		ZIndex: 20,
	}))
}

// Destroy releases the controller along with the object tree.
func (g *GameScene) Destroy() error {
	if err := g.controller.Close(); err != nil {
		log.Warn("Failed to close controller: %v", err)
	}
	return g.BaseScene.Destroy()
}

func overlayText(snapshot *gametypes.Snapshot) string {
	if snapshot == nil {
		return "Connecting"
	}
	switch snapshot.Status {
	case gametypes.StatusPaused:
		return "Paused"
	case gametypes.StatusGameOver:
		return "Game over"
	}
	return ""
}

type effect struct {
	text     string
	treasure bool
}

// effectsBetween returns the captions to show for what changed from prev to
// next: points for line clears and the treasure code once it unlocks. A
// reset in between shows nothing.
func effectsBetween(prev, next *gametypes.Snapshot) []effect {
	if prev == nil || next == nil {
		return nil
	}
	p, n := prev.Progression, next.Progression
	effects := []effect{}
	if n.LinesCleared > p.LinesCleared && n.Score > p.Score {
		lines := n.LinesCleared - p.LinesCleared
		effects = append(effects, effect{text: fmt.Sprintf("%d lines +%d", lines, n.Score-p.Score)})
		if lines == 1 {
			effects[0].text = fmt.Sprintf("+%d", n.Score-p.Score)
		}
	}
	if n.TreasureUnlocked && !p.TreasureUnlocked {
		effects = append(effects, effect{text: "Treasure " + n.TreasureCode, treasure: true})
	}
	return effects
}
