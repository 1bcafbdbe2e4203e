// Package debugrender draws physics debug lines onto an ebiten image.
package debugrender

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/plus3/physync/physics"
)

// Camera maps world coordinates (y up) to screen pixels (y down).
// Center is the world point drawn at the middle of the screen.
type Camera struct {
	Center physics.Vector3
	Zoom   float64
}

// ToScreen projects a world position onto a screen of the given size.
func (c Camera) ToScreen(p physics.Vector3, screenWidth, screenHeight int) (x, y float32) {
	zoom := c.Zoom
	if zoom == 0 {
		zoom = 1
	}
	sx := (p.X-c.Center.X)*zoom + float64(screenWidth)/2
	sy := float64(screenHeight)/2 - (p.Y-c.Center.Y)*zoom
	return float32(sx), float32(sy)
}

type Renderer struct {
	Camera Camera
}

func NewRenderer(camera Camera) *Renderer {
	return &Renderer{Camera: camera}
}

// Draw strokes every line onto dst.
func (r *Renderer) Draw(dst *ebiten.Image, lines []physics.DebugLine) {
	bounds := dst.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	for _, line := range lines {
		x0, y0 := r.Camera.ToScreen(line.Start, w, h)
		x1, y1 := r.Camera.ToScreen(line.End, w, h)
		vector.StrokeLine(dst, x0, y0, x1, y1, r.strokeWidth(line.Width), line.Color, true)
	}
}

func (r *Renderer) strokeWidth(width float64) float32 {
	zoom := r.Camera.Zoom
	if zoom == 0 {
		zoom = 1
	}
	return float32(max(width*zoom, 1))
}
