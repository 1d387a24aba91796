package objects

import (
	"image/color"
	"strings"

	"github.com/cbodonnell/tetrafall/client/fonts"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font"
)

// TextOverlayObject dims the area it covers and centers a caption on it
// whenever its text source returns something.
type TextOverlayObject struct {
	*BaseObject

	x, y, w, h float32
	text       func() string
}

type NewTextOverlayObjectOptions struct {
	X, Y, W, H float32
	// Text returns the caption. An empty caption hides the overlay.
	Text   func() string
	ZIndex int
}

func NewTextOverlayObject(id string, opts NewTextOverlayObjectOptions) *TextOverlayObject {
	return &TextOverlayObject{
		BaseObject: NewBaseObject(id, &NewBaseObjectOpts{
			ZIndex: opts.ZIndex,
		}),
		x:    opts.X,
		y:    opts.Y,
		w:    opts.W,
		h:    opts.H,
		text: opts.Text,
	}
}

func (o *TextOverlayObject) Draw(screen *ebiten.Image) {
	t := strings.ToUpper(o.text())
	if t == "" {
		return
	}
	vector.DrawFilledRect(screen, o.x, o.y, o.w, o.h, color.RGBA{A: 160}, false)

	f := fonts.TTFLargeFont
	bounds, _ := font.BoundString(f, t)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(o.x+o.w/2)-float64(bounds.Max.X>>6)/2, float64(o.y+o.h/2)-float64(bounds.Max.Y>>6)/2)
	op.ColorScale.ScaleWithColor(color.White)
	text.DrawWithOptions(screen, t, f, op)
}
