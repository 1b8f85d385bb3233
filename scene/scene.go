package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"cyberwalk/core"
)

// Scene manages a collection of nodes and the active camera
type Scene struct {
	Root     *Node
	Camera   *Camera
	Lights   []*Light
	Ambient  core.Color
	SkyColor core.Color // clear color
	Fog      Fog
}

// Light types
const (
	LightTypeDirectional = iota
	LightTypePoint
)

// Light represents a light source. Direction is where a directional light
// shines toward; Range is the point light's falloff distance.
type Light struct {
	Type      int
	Position  mgl32.Vec3
	Direction mgl32.Vec3
	Color     core.Color
	Intensity float32
	Range     float32
}

// Fog is exponential-squared distance fog: factor = exp(-(density*d)^2).
type Fog struct {
	Enabled bool
	Color   core.Color
	Density float32
}

func NewScene() *Scene {
	return &Scene{
		Root:     NewNode("Root"),
		Lights:   make([]*Light, 0),
		Ambient:  core.Color{R: 0.2, G: 0.2, B: 0.2, A: 1.0},
		SkyColor: core.ColorBlack,
	}
}

func (s *Scene) SetCamera(camera *Camera) {
	s.Camera = camera
}

func (s *Scene) AddNode(node *Node) {
	s.Root.AddChild(node)
}

func (s *Scene) AddLight(light *Light) {
	s.Lights = append(s.Lights, light)
}

// GetVisibleNodes returns all nodes with meshes whose whole ancestor chain
// is visible.
func (s *Scene) GetVisibleNodes() []*Node {
	var visible []*Node
	var walk func(n *Node)
	walk = func(n *Node) {
		if !n.Visible {
			return
		}
		if n.Mesh != nil {
			visible = append(visible, n)
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(s.Root)
	return visible
}
