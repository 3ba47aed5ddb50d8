// Package still renders single frames on the CPU through the reference
// displacement and shading stages. It needs no GL context, which makes it
// usable for previews on headless machines and for checking the stages
// against a full image.
package still

import (
	"image"
	"image/color"

	"github.com/chewxy/math32"

	"github.com/Faultbox/seascape/internal/engine/camera"
	"github.com/Faultbox/seascape/internal/engine/surface"
	"github.com/Faultbox/seascape/internal/engine/wave"
	"github.com/Faultbox/seascape/internal/params"
)

// Renderer rasterizes the displaced grid with a depth buffer.
type Renderer struct {
	Width, Height int
	Grid          *surface.Grid
	Camera        *camera.Camera
	// Background is stretched over the frame when set; otherwise Clear fills it.
	Background *image.RGBA
	Clear      color.RGBA
}

type vertex struct {
	x, y, z float32 // screen space, z in NDC
	invW    float32
	elev    float32
	visible bool
}

// Render draws one frame with the given parameter snapshot.
func (r *Renderer) Render(v params.Values) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, r.Width, r.Height))
	r.fillBackground(img)

	depth := make([]float32, r.Width*r.Height)
	for i := range depth {
		depth[i] = math32.Inf(1)
	}

	viewProj := r.Camera.Projection().Mul(r.Camera.View())
	verts := make([]vertex, r.Grid.VertexCount())
	for i := range verts {
		pos, elev := wave.Displace(r.Grid.Vertex(i), v.Time, &v)
		ndc, w := viewProj.Project(pos)
		verts[i] = vertex{
			x:       (ndc.X*0.5 + 0.5) * float32(r.Width),
			y:       (0.5 - ndc.Y*0.5) * float32(r.Height),
			z:       ndc.Z,
			elev:    elev,
			visible: w > r.Camera.Near,
		}
		if verts[i].visible {
			verts[i].invW = 1 / w
		}
	}

	idx := r.Grid.Indices
	for i := 0; i+2 < len(idx); i += 3 {
		a, b, c := verts[idx[i]], verts[idx[i+1]], verts[idx[i+2]]
		// No near-plane clipping; triangles crossing it are dropped.
		if !a.visible || !b.visible || !c.visible {
			continue
		}
		r.triangle(img, depth, a, b, c, &v)
	}
	return img
}

func (r *Renderer) fillBackground(img *image.RGBA) {
	if r.Background == nil || r.Background.Bounds().Empty() {
		for i := 0; i < len(img.Pix); i += 4 {
			img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = r.Clear.R, r.Clear.G, r.Clear.B, 255
		}
		return
	}
	bb := r.Background.Bounds()
	for y := 0; y < r.Height; y++ {
		sy := bb.Min.Y + y*bb.Dy()/r.Height
		for x := 0; x < r.Width; x++ {
			sx := bb.Min.X + x*bb.Dx()/r.Width
			c := r.Background.RGBAAt(sx, sy)
			c.A = 255
			img.SetRGBA(x, y, c)
		}
	}
}

// edgeEpsilon keeps pixel centres on a shared edge from falling through both
// triangles.
const edgeEpsilon = 1e-5

func edge(ax, ay, bx, by, px, py float32) float32 {
	return (bx-ax)*(py-ay) - (by-ay)*(px-ax)
}

func (r *Renderer) triangle(img *image.RGBA, depth []float32, a, b, c vertex, v *params.Values) {
	area := edge(a.x, a.y, b.x, b.y, c.x, c.y)
	if area == 0 {
		return
	}

	minX := max(int(math32.Floor(min(a.x, b.x, c.x))), 0)
	maxX := min(int(math32.Ceil(max(a.x, b.x, c.x))), r.Width-1)
	minY := max(int(math32.Floor(min(a.y, b.y, c.y))), 0)
	maxY := min(int(math32.Ceil(max(a.y, b.y, c.y))), r.Height-1)

	for y := minY; y <= maxY; y++ {
		py := float32(y) + 0.5
		for x := minX; x <= maxX; x++ {
			px := float32(x) + 0.5
			w0 := edge(b.x, b.y, c.x, c.y, px, py) / area
			w1 := edge(c.x, c.y, a.x, a.y, px, py) / area
			w2 := 1 - w0 - w1
			// Either winding; the plane is seen from both sides.
			if w0 < -edgeEpsilon || w1 < -edgeEpsilon || w2 < -edgeEpsilon {
				continue
			}

			z := w0*a.z + w1*b.z + w2*c.z
			di := y*r.Width + x
			if z < -1 || z > 1 || z >= depth[di] {
				continue
			}
			depth[di] = z

			// Perspective-correct elevation, as the GPU interpolates vElevation.
			q := w0*a.invW + w1*b.invW + w2*c.invW
			elev := (w0*a.elev*a.invW + w1*b.elev*b.invW + w2*c.elev*c.invW) / q

			img.SetRGBA(x, y, toRGBA(wave.Shade(elev, v)))
		}
	}
}

// toRGBA clamps like a fixed-point framebuffer does.
func toRGBA(c params.Color) color.RGBA {
	ch := func(f float32) uint8 {
		return uint8(math32.Round(min(max(f, 0), 1) * 255))
	}
	return color.RGBA{R: ch(c.R), G: ch(c.G), B: ch(c.B), A: 255}
}
