package scenes

import (
	"time"

	"github.com/cbodonnell/tetrafall/client/input"
	"github.com/cbodonnell/tetrafall/pkg/game"
	gametypes "github.com/cbodonnell/tetrafall/pkg/game/types"
)

// Controller is the session a GameScene plays: an in-process session or one
// hosted by a server.
type Controller interface {
	Start() error
	Reset() error
	TogglePause() error
	Move(dx, dy int) error
	Rotate() error
	HardDrop() error
	// Snapshot returns the state to draw, nil when none is known yet.
	Snapshot() *gametypes.Snapshot
	Close() error
}

// Ticker is implemented by controllers that run gravity themselves.
type Ticker interface {
	Tick(elapsed time.Duration) bool
}

// LocalController plays a game.Session in process.
type LocalController struct {
	session *game.Session
}

var (
	_ Controller = &LocalController{}
	_ Ticker     = &LocalController{}
)

func NewLocalController(session *game.Session) *LocalController {
	return &LocalController{session: session}
}

func (c *LocalController) Start() error {
	c.session.Start()
	return nil
}

func (c *LocalController) Reset() error {
	c.session.Reset()
	return nil
}

func (c *LocalController) TogglePause() error {
	c.session.TogglePause()
	return nil
}

func (c *LocalController) Move(dx, dy int) error {
	c.session.Move(dx, dy)
	return nil
}

func (c *LocalController) Rotate() error {
	c.session.Rotate()
	return nil
}

func (c *LocalController) HardDrop() error {
	c.session.HardDrop()
	return nil
}

func (c *LocalController) Tick(elapsed time.Duration) bool {
	return c.session.Tick(elapsed)
}

func (c *LocalController) Snapshot() *gametypes.Snapshot {
	return c.session.Snapshot(time.Now())
}

func (c *LocalController) Close() error {
	return nil
}

// applyAction forwards a gameplay action to the controller. It reports false
// for actions that are not gameplay commands.
func applyAction(c Controller, a input.Action) (bool, error) {
	switch a {
	case input.ActionLeft:
		return true, c.Move(-1, 0)
	case input.ActionRight:
		return true, c.Move(1, 0)
	case input.ActionSoftDrop:
		return true, c.Move(0, 1)
	case input.ActionRotate:
		return true, c.Rotate()
	case input.ActionHardDrop:
		return true, c.HardDrop()
	case input.ActionTogglePause:
		return true, c.TogglePause()
	case input.ActionStart:
		return true, c.Start()
	case input.ActionReset:
		return true, c.Reset()
	}
	return false, nil
}
