package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"cyberwalk/core"
)

// CreateGrid builds a flat grid mesh rendered as GL_LINES at height y.
//
//	size      total world-space extent (grid goes from -size/2 to +size/2)
//	divisions number of cells along each axis
//
// Every line uses color; the material is unlit so the grid glows through
// the dark ground.
func CreateGrid(size float32, divisions int, y float32, color core.Color) *Mesh {
	if divisions < 1 {
		divisions = 1
	}

	half := size / 2
	step := size / float32(divisions)

	var vertices []core.Vertex
	var indices []uint32

	addLine := func(a, b mgl32.Vec3) {
		base := uint32(len(vertices))
		vertices = append(vertices,
			core.Vertex{Position: a, Normal: core.Up, Color: color},
			core.Vertex{Position: b, Normal: core.Up, Color: color},
		)
		indices = append(indices, base, base+1)
	}

	for i := 0; i <= divisions; i++ {
		t := -half + float32(i)*step
		addLine(mgl32.Vec3{t, y, -half}, mgl32.Vec3{t, y, half})
		addLine(mgl32.Vec3{-half, y, t}, mgl32.Vec3{half, y, t})
	}

	m := CreateMeshFromData("Grid", vertices, indices)
	m.DrawMode = DrawLines

	mat := DefaultMaterial()
	mat.Name = "GridMaterial"
	mat.Unlit = true
	m.Material = mat

	return m
}
