package scenes

import (
	"errors"
	"image/color"

	"github.com/cbodonnell/tetrafall/client/fonts"
	"github.com/cbodonnell/tetrafall/client/input"
	"github.com/cbodonnell/tetrafall/client/objects"
	"github.com/cbodonnell/tetrafall/client/ui"
	"github.com/cbodonnell/tetrafall/pkg/log"
	"github.com/ebitenui/ebitenui"
	"github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2"
)

type MenuScene struct {
	*BaseScene

	onPlay   func() error
	onOnline func() error
	ui       *ebitenui.UI
	playErr  string
}

type MenuSceneOptions struct {
	// OnPlay is called when a local game is requested.
	OnPlay func() error
	// OnOnline is called when a game on the server is requested. The online
	// button is hidden when nil.
	OnOnline func() error
	// Err is shown below the buttons, e.g. why the last game ended.
	Err string
}

var _ Scene = &MenuScene{}

func NewMenuScene(opts MenuSceneOptions) (*MenuScene, error) {
	if opts.OnPlay == nil {
		return nil, errors.New("OnPlay is required")
	}
	return &MenuScene{
		BaseScene: NewBaseScene(objects.NewBaseObject("menu-root", nil)),
		onPlay:    opts.OnPlay,
		onOnline:  opts.OnOnline,
		playErr:   opts.Err,
	}, nil
}

func (s *MenuScene) Init() error {
	s.renderUI()
	return s.BaseScene.Init()
}

func (s *MenuScene) renderUI() {
	buttonImage := &widget.ButtonImage{
		Idle:    image.NewNineSliceColor(color.NRGBA{R: 170, G: 170, B: 180, A: 255}),
		Hover:   image.NewNineSliceColor(color.NRGBA{R: 135, G: 135, B: 150, A: 255}),
		Pressed: image.NewNineSliceColor(color.NRGBA{R: 100, G: 100, B: 120, A: 255}),
	}

	fontFace := fonts.TTFNormalFont

	rootContainer := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(image.NewNineSliceColor(objects.BackgroundColor)),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(20),
			widget.RowLayoutOpts.Padding(widget.Insets{
				Top:    120,
				Left:   160,
				Right:  160,
				Bottom: 90,
			}))),
	)

	rootContainer.AddChild(widget.NewText(
		widget.TextOpts.Text("TETRAFALL", fonts.MPlusTitleFont, color.NRGBA{R: 254, G: 255, B: 255, A: 255}),
		widget.TextOpts.WidgetOpts(
			widget.WidgetOpts.LayoutData(widget.RowLayoutData{
				Position: widget.RowLayoutPositionCenter,
			}),
		),
	))

	newButton := func(label string, handler func() error) *widget.Button {
		button := widget.NewButton(
			widget.ButtonOpts.WidgetOpts(
				widget.WidgetOpts.LayoutData(widget.RowLayoutData{
					Position: widget.RowLayoutPositionCenter,
					Stretch:  true,
				}),
			),
			widget.ButtonOpts.Image(buttonImage),
			widget.ButtonOpts.Text(label, fontFace, &widget.ButtonTextColor{
				Idle:     color.NRGBA{254, 255, 255, 255},
				Disabled: color.NRGBA{R: 200, G: 200, B: 200, A: 255},
			}),
			widget.ButtonOpts.TextPadding(widget.Insets{
				Left:   30,
				Right:  30,
				Top:    5,
				Bottom: 5,
			}),
			widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
				s.start(handler)
			}),
		)
		rootContainer.AddChild(button)
		return button
	}
	newButton("Play", s.onPlay)
	if s.onOnline != nil {
		newButton("Play online", s.onOnline)
	}

	if s.playErr != "" {
		rootContainer.AddChild(widget.NewText(
			widget.TextOpts.Text(s.playErr, fonts.TTFSmallFont, color.NRGBA{R: 255, G: 0, B: 0, A: 255}),
			widget.TextOpts.WidgetOpts(
				widget.WidgetOpts.LayoutData(widget.RowLayoutData{
					Position: widget.RowLayoutPositionCenter,
				}),
			),
		))
		s.playErr = ""
	}

	s.ui = &ebitenui.UI{
		Container: rootContainer,
	}
}

// start runs a play handler and shows its error, if any, on a fresh menu.
func (s *MenuScene) start(handler func() error) {
	err := handler()
	if err == nil {
		return
	}
	log.Error("Failed to start game: %v", err)
	var actionableErr *ui.ActionableError
	if errors.As(err, &actionableErr) {
		s.playErr = actionableErr.Message
	} else {
		s.playErr = "Failed to start the game. Please try again."
	}
	s.renderUI()
}

func (s *MenuScene) Update() error {
	if input.IsNegativeJustPressed() {
		return ebiten.Termination
	}
	if input.IsConfirmJustPressed() {
		s.start(s.onPlay)
		return nil
	}
	s.ui.Update()
	return s.BaseScene.Update()
}

func (s *MenuScene) Draw(screen *ebiten.Image) {
	s.ui.Draw(screen)
	s.BaseScene.Draw(screen)
}
