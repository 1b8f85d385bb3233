package scene

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"cyberwalk/core"
)

// Primitive meshes are white; color comes from the material. All are
// centred on the origin unless noted.

// CreateBox generates an axis-aligned box with per-face normals.
func CreateBox(width, height, depth float32) *Mesh {
	x, y, z := width/2, height/2, depth/2

	type face struct {
		normal  mgl32.Vec3
		corners [4]mgl32.Vec3 // counter-clockwise seen from outside
	}
	faces := []face{
		{mgl32.Vec3{0, 0, 1}, [4]mgl32.Vec3{{-x, -y, z}, {x, -y, z}, {x, y, z}, {-x, y, z}}},
		{mgl32.Vec3{0, 0, -1}, [4]mgl32.Vec3{{x, -y, -z}, {-x, -y, -z}, {-x, y, -z}, {x, y, -z}}},
		{mgl32.Vec3{0, 1, 0}, [4]mgl32.Vec3{{-x, y, z}, {x, y, z}, {x, y, -z}, {-x, y, -z}}},
		{mgl32.Vec3{0, -1, 0}, [4]mgl32.Vec3{{-x, -y, -z}, {x, -y, -z}, {x, -y, z}, {-x, -y, z}}},
		{mgl32.Vec3{1, 0, 0}, [4]mgl32.Vec3{{x, -y, z}, {x, -y, -z}, {x, y, -z}, {x, y, z}}},
		{mgl32.Vec3{-1, 0, 0}, [4]mgl32.Vec3{{-x, -y, -z}, {-x, -y, z}, {-x, y, z}, {-x, y, -z}}},
	}
	uvs := [4]mgl32.Vec2{{0, 1}, {1, 1}, {1, 0}, {0, 0}}

	vertices := make([]core.Vertex, 0, 24)
	indices := make([]uint32, 0, 36)
	for _, f := range faces {
		base := uint32(len(vertices))
		for i, c := range f.corners {
			vertices = append(vertices, core.Vertex{Position: c, Normal: f.normal, UV: uvs[i], Color: core.ColorWhite})
		}
		indices = append(indices, base, base+1, base+2, base+2, base+3, base)
	}
	return CreateMeshFromData("Box", vertices, indices)
}

// CreatePlane generates a horizontal plane at y = 0 facing +Y.
func CreatePlane(width, depth float32) *Mesh {
	x, z := width/2, depth/2
	up := core.Up
	vertices := []core.Vertex{
		{Position: mgl32.Vec3{-x, 0, z}, Normal: up, UV: mgl32.Vec2{0, 1}, Color: core.ColorWhite},
		{Position: mgl32.Vec3{x, 0, z}, Normal: up, UV: mgl32.Vec2{1, 1}, Color: core.ColorWhite},
		{Position: mgl32.Vec3{x, 0, -z}, Normal: up, UV: mgl32.Vec2{1, 0}, Color: core.ColorWhite},
		{Position: mgl32.Vec3{-x, 0, -z}, Normal: up, UV: mgl32.Vec2{0, 0}, Color: core.ColorWhite},
	}
	return CreateMeshFromData("Plane", vertices, []uint32{0, 1, 2, 2, 3, 0})
}

// CreatePanel generates a vertical quad in the XY plane facing +Z. UV (0,0)
// is the top-left corner so image rows map top to bottom.
func CreatePanel(width, height float32) *Mesh {
	x, y := width/2, height/2
	n := mgl32.Vec3{0, 0, 1}
	vertices := []core.Vertex{
		{Position: mgl32.Vec3{-x, -y, 0}, Normal: n, UV: mgl32.Vec2{0, 1}, Color: core.ColorWhite},
		{Position: mgl32.Vec3{x, -y, 0}, Normal: n, UV: mgl32.Vec2{1, 1}, Color: core.ColorWhite},
		{Position: mgl32.Vec3{x, y, 0}, Normal: n, UV: mgl32.Vec2{1, 0}, Color: core.ColorWhite},
		{Position: mgl32.Vec3{-x, y, 0}, Normal: n, UV: mgl32.Vec2{0, 0}, Color: core.ColorWhite},
	}
	return CreateMeshFromData("Panel", vertices, []uint32{0, 1, 2, 2, 3, 0})
}

// CreateSphere generates a UV-sphere mesh
func CreateSphere(radius float32, segments, rings int) *Mesh {
	if segments < 3 {
		segments = 3
	}
	if rings < 2 {
		rings = 2
	}

	var vertices []core.Vertex
	var indices []uint32

	for ring := 0; ring <= rings; ring++ {
		phi := float32(ring) * math32.Pi / float32(rings)
		sinPhi, cosPhi := math32.Sincos(phi)

		for seg := 0; seg <= segments; seg++ {
			theta := float32(seg) * 2 * math32.Pi / float32(segments)
			sinTheta, cosTheta := math32.Sincos(theta)

			normal := mgl32.Vec3{sinPhi * cosTheta, cosPhi, sinPhi * sinTheta}
			vertices = append(vertices, core.Vertex{
				Position: normal.Mul(radius),
				Normal:   normal,
				UV:       mgl32.Vec2{float32(seg) / float32(segments), float32(ring) / float32(rings)},
				Color:    core.ColorWhite,
			})
		}
	}

	for ring := 0; ring < rings; ring++ {
		for seg := 0; seg < segments; seg++ {
			current := uint32(ring*(segments+1) + seg)
			next := current + uint32(segments+1)
			indices = append(indices, current, current+1, next)
			indices = append(indices, current+1, next+1, next)
		}
	}

	return CreateMeshFromData("Sphere", vertices, indices)
}

// CreateCylinder generates a capped cylinder along Y.
func CreateCylinder(radius, height float32, segments int) *Mesh {
	if segments < 3 {
		segments = 3
	}

	var vertices []core.Vertex
	var indices []uint32
	halfHeight := height / 2

	// Side
	for i := 0; i <= segments; i++ {
		theta := float32(i) * 2 * math32.Pi / float32(segments)
		sinT, cosT := math32.Sincos(theta)
		normal := mgl32.Vec3{cosT, 0, sinT}
		u := float32(i) / float32(segments)

		vertices = append(vertices,
			core.Vertex{Position: mgl32.Vec3{cosT * radius, -halfHeight, sinT * radius}, Normal: normal, UV: mgl32.Vec2{u, 1}, Color: core.ColorWhite},
			core.Vertex{Position: mgl32.Vec3{cosT * radius, halfHeight, sinT * radius}, Normal: normal, UV: mgl32.Vec2{u, 0}, Color: core.ColorWhite},
		)
	}
	for i := 0; i < segments; i++ {
		base := uint32(i * 2)
		indices = append(indices, base, base+1, base+2)
		indices = append(indices, base+2, base+1, base+3)
	}

	// Caps
	for _, y := range []float32{halfHeight, -halfHeight} {
		normal := mgl32.Vec3{0, 1, 0}
		if y < 0 {
			normal = mgl32.Vec3{0, -1, 0}
		}
		center := uint32(len(vertices))
		vertices = append(vertices, core.Vertex{Position: mgl32.Vec3{0, y, 0}, Normal: normal, UV: mgl32.Vec2{0.5, 0.5}, Color: core.ColorWhite})
		for i := 0; i <= segments; i++ {
			theta := float32(i) * 2 * math32.Pi / float32(segments)
			sinT, cosT := math32.Sincos(theta)
			vertices = append(vertices, core.Vertex{
				Position: mgl32.Vec3{cosT * radius, y, sinT * radius},
				Normal:   normal,
				UV:       mgl32.Vec2{cosT*0.5 + 0.5, sinT*0.5 + 0.5},
				Color:    core.ColorWhite,
			})
		}
		for i := uint32(0); i < uint32(segments); i++ {
			if y > 0 {
				indices = append(indices, center, center+2+i, center+1+i)
			} else {
				indices = append(indices, center, center+1+i, center+2+i)
			}
		}
	}

	return CreateMeshFromData("Cylinder", vertices, indices)
}
