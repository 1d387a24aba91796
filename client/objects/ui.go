package objects

import (
	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
)

// UIObject places an ebitenui tree in the object tree.
type UIObject struct {
	*BaseObject

	ui *ebitenui.UI
}

func NewUIObject(id string, ui *ebitenui.UI, zIndex int) *UIObject {
	return &UIObject{
		BaseObject: NewBaseObject(id, &NewBaseObjectOpts{
			ZIndex: zIndex,
		}),
		ui: ui,
	}
}

func (o *UIObject) Update() error {
	o.ui.Update()
	return nil
}

func (o *UIObject) Draw(screen *ebiten.Image) {
	o.ui.Draw(screen)
}
