package ui

import (
	"fmt"
	"image/color"

	"github.com/cbodonnell/tetrafall/client/fonts"
	gametypes "github.com/cbodonnell/tetrafall/pkg/game/types"
	"github.com/ebitenui/ebitenui"
	"github.com/ebitenui/ebitenui/widget"
	"golang.org/x/image/font"
)

var (
	labelColor    = color.NRGBA{R: 220, G: 220, B: 230, A: 255}
	treasureColor = color.NRGBA{R: 255, G: 210, B: 60, A: 255}
	messageColor  = color.NRGBA{R: 255, G: 90, B: 90, A: 255}
)

// Labels is the text shown by the HUD for one snapshot.
type Labels struct {
	Status   string
	Score    string
	Level    string
	Lines    string
	Energy   string
	Interval string
	Treasure string
}

// FormatLabels renders a snapshot into HUD text. A nil snapshot reads as a
// session that has not started.
func FormatLabels(snapshot *gametypes.Snapshot) Labels {
	if snapshot == nil {
		snapshot = &gametypes.Snapshot{Status: gametypes.StatusNotStarted}
	}
	p := snapshot.Progression
	labels := Labels{
		Status:   statusText(snapshot.Status),
		Score:    fmt.Sprintf("Score    %d", p.Score),
		Level:    fmt.Sprintf("Level    %d", p.Level),
		Lines:    fmt.Sprintf("Lines    %d", p.LinesCleared),
		Energy:   fmt.Sprintf("Energy   %d / %d", p.Energy, p.EnergyThreshold),
		Interval: fmt.Sprintf("Gravity  %d ms", p.DropInterval),
		Treasure: "Treasure locked",
	}
	if p.TreasureUnlocked {
		labels.Treasure = "Treasure " + p.TreasureCode
	}
	return labels
}

func statusText(s gametypes.Status) string {
	switch s {
	case gametypes.StatusNotStarted:
		return "Press Enter to start"
	case gametypes.StatusRunning:
		return "Running"
	case gametypes.StatusPaused:
		return "Paused"
	case gametypes.StatusGameOver:
		return "Game over"
	}
	return s.String()
}

// HUD shows the progression of a session next to the board.
type HUD struct {
	UI *ebitenui.UI

	status   *widget.Text
	score    *widget.Text
	level    *widget.Text
	lines    *widget.Text
	energy   *widget.Text
	interval *widget.Text
	treasure *widget.Text
	message  *widget.Text
}

type NewHUDOptions struct {
	// Left is the distance from the left edge of the screen to the HUD.
	Left int
	// Top is the distance from the top edge of the screen to the HUD.
	Top int
	// Controls is shown below the progression as a key reference.
	Controls []string
}

func NewHUD(opts NewHUDOptions) *HUD {
	rootContainer := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(8),
			widget.RowLayoutOpts.Padding(widget.Insets{
				Top:  opts.Top,
				Left: opts.Left,
			}))),
	)

	h := &HUD{}
	h.status = addText(rootContainer, fonts.TTFLargeFont, labelColor)
	h.score = addText(rootContainer, fonts.TTFNormalFont, labelColor)
	h.level = addText(rootContainer, fonts.TTFNormalFont, labelColor)
	h.lines = addText(rootContainer, fonts.TTFNormalFont, labelColor)
	h.energy = addText(rootContainer, fonts.TTFNormalFont, labelColor)
	h.interval = addText(rootContainer, fonts.TTFNormalFont, labelColor)
	h.treasure = addText(rootContainer, fonts.TTFMonoFont, treasureColor)
	h.message = addText(rootContainer, fonts.TTFSmallFont, messageColor)
	for _, line := range opts.Controls {
		addText(rootContainer, fonts.TTFSmallFont, labelColor).Label = line
	}

	h.UI = &ebitenui.UI{
		Container: rootContainer,
	}
	h.Update(nil, "")
	return h
}

func addText(container *widget.Container, face font.Face, clr color.Color) *widget.Text {
	t := widget.NewText(
		widget.TextOpts.Text("", face, clr),
		widget.TextOpts.WidgetOpts(
			widget.WidgetOpts.LayoutData(widget.RowLayoutData{
				Position: widget.RowLayoutPositionStart,
			}),
		),
	)
	container.AddChild(t)
	return t
}

// Update refreshes every label from snapshot. message is shown below the
// progression, e.g. the reason a server rejected a command.
func (h *HUD) Update(snapshot *gametypes.Snapshot, message string) {
	labels := FormatLabels(snapshot)
	h.status.Label = labels.Status
	h.score.Label = labels.Score
	h.level.Label = labels.Level
	h.lines.Label = labels.Lines
	h.energy.Label = labels.Energy
	h.interval.Label = labels.Interval
	h.treasure.Label = labels.Treasure
	h.message.Label = message
}
