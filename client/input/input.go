package input

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Action is a player intent independent of the key that produced it.
type Action int

const (
	ActionLeft Action = iota + 1
	ActionRight
	ActionSoftDrop
	ActionRotate
	ActionHardDrop
	ActionTogglePause
	ActionStart
	ActionReset
	ActionQuit
)

func (a Action) String() string {
	switch a {
	case ActionLeft:
		return "left"
	case ActionRight:
		return "right"
	case ActionSoftDrop:
		return "soft_drop"
	case ActionRotate:
		return "rotate"
	case ActionHardDrop:
		return "hard_drop"
	case ActionTogglePause:
		return "toggle_pause"
	case ActionStart:
		return "start"
	case ActionReset:
		return "reset"
	case ActionQuit:
		return "quit"
	}
	return "unknown"
}

// Binding maps a key to an action. Repeating bindings fire again while the
// key is held.
type Binding struct {
	Key    ebiten.Key
	Action Action
	Repeat bool
}

// Bindings lists the keyboard layout in the order actions are reported.
var Bindings = []Binding{
	{Key: ebiten.KeyEnter, Action: ActionStart},
	{Key: ebiten.KeyR, Action: ActionReset},
	{Key: ebiten.KeyP, Action: ActionTogglePause},
	{Key: ebiten.KeyEscape, Action: ActionQuit},
	{Key: ebiten.KeyUp, Action: ActionRotate},
	{Key: ebiten.KeyX, Action: ActionRotate},
	{Key: ebiten.KeyLeft, Action: ActionLeft, Repeat: true},
	{Key: ebiten.KeyRight, Action: ActionRight, Repeat: true},
	{Key: ebiten.KeyDown, Action: ActionSoftDrop, Repeat: true},
	{Key: ebiten.KeySpace, Action: ActionHardDrop},
}

const (
	// RepeatDelay is how many ticks a key must be held before it repeats
	RepeatDelay = 10
	// RepeatInterval is the number of ticks between repeats
	RepeatInterval = 3
)

// Repeats reports whether a key held for duration ticks fires on this tick.
// It fires on the first tick, then every interval ticks once delay has
// passed.
func Repeats(duration, delay, interval int) bool {
	if duration <= 0 {
		return false
	}
	if duration == 1 {
		return true
	}
	if duration <= delay || interval <= 0 {
		return false
	}
	return (duration-delay)%interval == 0
}

// Actions returns the actions triggered on this tick, each at most once.
func Actions() []Action {
	return collect(Bindings, inpututil.KeyPressDuration)
}

// collect resolves bindings against a per-key press duration in ticks.
func collect(bindings []Binding, pressDuration func(ebiten.Key) int) []Action {
	actions := []Action{}
	seen := map[Action]bool{}
	for _, b := range bindings {
		if seen[b.Action] {
			continue
		}
		d := pressDuration(b.Key)
		fired := d == 1
		if b.Repeat {
			fired = Repeats(d, RepeatDelay, RepeatInterval)
		}
		if fired {
			seen[b.Action] = true
			actions = append(actions, b.Action)
		}
	}
	return actions
}

// IsConfirmJustPressed returns a boolean value indicating whether the generic confirm input is just pressed.
// This is used to handle both keyboard and gamepad inputs. Mouse clicks are
// left to the menu buttons.
func IsConfirmJustPressed() bool {
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		return true
	}
	gamepadIDs := ebiten.AppendGamepadIDs(nil)
	for _, g := range gamepadIDs {
		if ebiten.IsStandardGamepadLayoutAvailable(g) {
			if inpututil.IsStandardGamepadButtonJustPressed(g, ebiten.StandardGamepadButtonRightBottom) {
				return true
			}
			if inpututil.IsStandardGamepadButtonJustPressed(g, ebiten.StandardGamepadButtonRightRight) {
				return true
			}
		} else {
			// The button 0/1 might not be A/B buttons.
			if inpututil.IsGamepadButtonJustPressed(g, ebiten.GamepadButton0) {
				return true
			}
			if inpututil.IsGamepadButtonJustPressed(g, ebiten.GamepadButton1) {
				return true
			}
		}
	}
	return false
}

// IsNegativeJustPressed returns a boolean value indicating whether the generic negative input is just pressed.
func IsNegativeJustPressed() bool {
	return inpututil.IsKeyJustPressed(ebiten.KeyEscape)
}
