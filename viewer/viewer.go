// Package viewer shows an indexed image in a window, playing animations.
package viewer

import (
	"errors"
	"image/color"
	"time"

	icitools "github.com/emmabritton/ici-tools"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

var background = color.White

type game struct {
	m      *icitools.IndexedImage
	player *icitools.Player
	frames []*ebiten.Image
	width  int
	height int
}

func newGame(m *icitools.IndexedImage) *game {
	g := &game{m: m}
	g.width, g.height = m.Size()

	switch m.Kind() {
	case icitools.KindStatic:
		s, _ := m.Static()
		g.frames = []*ebiten.Image{ebiten.NewImageFromImage(s.Paletted())}
	case icitools.KindAnimated:
		a, _ := m.Animated()
		g.player = icitools.NewPlayer(a)
		g.frames = make([]*ebiten.Image, len(a.Frames))
	}

	return g
}

func (g *game) frame() *ebiten.Image {
	if g.player == nil {
		return g.frames[0]
	}
	i := g.player.Frame()
	if g.frames[i] == nil {
		a, _ := g.m.Animated()
		g.frames[i] = ebiten.NewImageFromImage(a.Frame(i))
	}
	return g.frames[i]
}

func (g *game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if g.player != nil {
		g.player.Advance(time.Second / time.Duration(ebiten.TPS()))
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	screen.Fill(background)
	screen.DrawImage(g.frame(), nil)
}

func (g *game) Layout(int, int) (int, int) {
	return g.width, g.height
}

// Run opens a window titled title showing m at scale times its size and
// blocks until the window is closed or Escape is pressed.
func Run(m *icitools.IndexedImage, title string, scale int) error {
	if scale < 1 {
		return errors.New("viewer: scale must be at least 1")
	}

	if w, h := m.Size(); w == 0 || h == 0 {
		return errors.New("viewer: image is empty")
	}

	g := newGame(m)

	ebiten.SetWindowSize(g.width*scale, g.height*scale)
	ebiten.SetWindowTitle(title)

	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}
