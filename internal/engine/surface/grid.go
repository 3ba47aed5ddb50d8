// Package surface builds the static grid mesh the water surface is drawn
// from. Only the vertex shader moves vertices; the grid itself never changes
// after it is built.
package surface

import (
	"fmt"

	"github.com/Faultbox/seascape/pkg/math"
)

// Default grid dimensions.
const (
	DefaultSize     = 8.0
	DefaultSegments = 128
)

// Grid holds base vertex positions and triangle indices for a square plane
// centred on the origin and lying in the XZ plane.
type Grid struct {
	Size     float32
	Segments int

	// Positions is a flat x,y,z array, one triple per vertex, row-major in Z.
	Positions []float32
	// UVs is a flat u,v array matching Positions.
	UVs     []float32
	Indices []uint32
}

// NewGrid builds a size x size plane subdivided into segments x segments
// quads.
func NewGrid(size float32, segments int) (*Grid, error) {
	if segments < 1 {
		return nil, fmt.Errorf("grid segments must be positive, got %d", segments)
	}
	if size <= 0 {
		return nil, fmt.Errorf("grid size must be positive, got %f", size)
	}

	row := segments + 1
	g := &Grid{
		Size:      size,
		Segments:  segments,
		Positions: make([]float32, 0, row*row*3),
		UVs:       make([]float32, 0, row*row*2),
		Indices:   make([]uint32, 0, segments*segments*6),
	}

	half := size / 2
	cell := size / float32(segments)
	for iz := 0; iz < row; iz++ {
		z := -half + float32(iz)*cell
		for ix := 0; ix < row; ix++ {
			x := -half + float32(ix)*cell
			g.Positions = append(g.Positions, x, 0, z)
			g.UVs = append(g.UVs, float32(ix)/float32(segments), 1-float32(iz)/float32(segments))
		}
	}

	for iz := 0; iz < segments; iz++ {
		for ix := 0; ix < segments; ix++ {
			a := uint32(iz*row + ix)
			b := a + 1
			c := a + uint32(row)
			d := c + 1
			// Counter-clockwise seen from +Y.
			g.Indices = append(g.Indices, a, c, b, b, c, d)
		}
	}

	return g, nil
}

// VertexCount returns the number of vertices.
func (g *Grid) VertexCount() int {
	return len(g.Positions) / 3
}

// TriangleCount returns the number of triangles.
func (g *Grid) TriangleCount() int {
	return len(g.Indices) / 3
}

// Vertex returns the base position of vertex i.
func (g *Grid) Vertex(i int) math.Vec3 {
	return math.Vec3{X: g.Positions[i*3], Y: g.Positions[i*3+1], Z: g.Positions[i*3+2]}
}
