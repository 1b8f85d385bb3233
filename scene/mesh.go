package scene

import (
	"github.com/chewxy/math32"

	"cyberwalk/core"
)

// DrawMode controls the OpenGL primitive type used when rendering a mesh.
type DrawMode int

const (
	DrawTriangles DrawMode = iota // gl.TRIANGLES (default)
	DrawLines                     // gl.LINES, pairs of indices form segments
)

// Mesh holds CPU-side vertex/index data.
// GPU upload is managed by the renderer backend.
type Mesh struct {
	Name       string
	Vertices   []core.Vertex
	Indices    []uint32
	IndexCount uint32
	DrawMode   DrawMode

	// Cached local-space AABB (computed by CreateMeshFromData).
	LocalAABB    AABB
	HasLocalAABB bool

	// Material holds surface shading properties. If nil, DefaultMaterial() is used.
	Material *Material

	// GPUData is set by the renderer backend (e.g. *opengl.GPUMesh).
	GPUData interface{}
}

// CreateMeshFromData builds a Mesh and pre-computes its local-space AABB.
func CreateMeshFromData(name string, vertices []core.Vertex, indices []uint32) *Mesh {
	m := &Mesh{
		Name:       name,
		Vertices:   vertices,
		Indices:    indices,
		IndexCount: uint32(len(indices)),
	}
	if len(vertices) > 0 {
		m.LocalAABB = computeLocalAABB(vertices)
		m.HasLocalAABB = true
	}
	return m
}

func computeLocalAABB(vertices []core.Vertex) AABB {
	box := AABB{Min: vertices[0].Position, Max: vertices[0].Position}
	for _, v := range vertices[1:] {
		for axis := 0; axis < 3; axis++ {
			box.Min[axis] = math32.Min(box.Min[axis], v.Position[axis])
			box.Max[axis] = math32.Max(box.Max[axis], v.Position[axis])
		}
	}
	return box
}

// MaterialOrDefault never returns nil.
func (m *Mesh) MaterialOrDefault() *Material {
	if m.Material != nil {
		return m.Material
	}
	return DefaultMaterial()
}
