package scene

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"cyberwalk/core"
)

func vecNear(a, b mgl32.Vec3, eps float32) bool {
	return a.ApproxEqualThreshold(b, eps)
}

func TestCameraAspectRatio(t *testing.T) {
	c := NewCamera(75, 1, 0.1, 1000)
	w, h := float32(800), float32(600)
	c.UpdateAspectRatio(w, h)
	if c.AspectRatio != w/h {
		t.Errorf("expected aspect exactly 800/600, got %v", c.AspectRatio)
	}

	c.UpdateAspectRatio(800, 0)
	if c.AspectRatio != w/h {
		t.Errorf("zero height should keep the aspect, got %v", c.AspectRatio)
	}

	before := c.GetProjectionMatrix()
	c.UpdateAspectRatio(1600, 600)
	if c.GetProjectionMatrix() == before {
		t.Error("projection should be rebuilt after an aspect change")
	}
}

func TestCameraLookAt(t *testing.T) {
	c := NewCamera(75, 16.0/9.0, 0.1, 1000)
	c.SetPosition(mgl32.Vec3{0, 5, 10})
	c.LookAt(mgl32.Vec3{})

	want := mgl32.Vec3{0, -5, -10}.Normalize()
	if !vecNear(c.GetForward(), want, 1e-5) {
		t.Errorf("forward: expected %v, got %v", want, c.GetForward())
	}
	if math.Abs(float64(c.GetRight().Y())) > 1e-5 {
		t.Errorf("look-at must not roll, right vector %v", c.GetRight())
	}

	// The target lands on the view axis.
	v := mgl32.TransformCoordinate(mgl32.Vec3{}, c.GetViewMatrix())
	if math.Abs(float64(v.X())) > 1e-4 || math.Abs(float64(v.Y())) > 1e-4 || v.Z() >= 0 {
		t.Errorf("target should be straight ahead in view space, got %v", v)
	}
}

func TestCameraLookAtSideways(t *testing.T) {
	c := NewCamera(75, 1, 0.1, 1000)
	c.LookAt(mgl32.Vec3{3, 0, 0})
	if !vecNear(c.GetForward(), mgl32.Vec3{1, 0, 0}, 1e-5) {
		t.Errorf("expected forward +X, got %v", c.GetForward())
	}

	c.LookAt(c.Position)
	if !vecNear(c.GetForward(), mgl32.Vec3{1, 0, 0}, 1e-5) {
		t.Error("looking at its own position should keep the rotation")
	}
}

func TestScreenRayCentre(t *testing.T) {
	c := NewCamera(75, 1, 0.1, 100)
	origin, dir := c.ScreenRay(0, 0)
	if !vecNear(dir, mgl32.Vec3{0, 0, -1}, 1e-4) {
		t.Errorf("centre ray direction: expected -Z, got %v", dir)
	}
	if !vecNear(origin, mgl32.Vec3{0, 0, -0.1}, 1e-4) {
		t.Errorf("centre ray should start on the near plane, got %v", origin)
	}

	_, right := c.ScreenRay(1, 0)
	if right.X() <= 0 {
		t.Errorf("ray at the right edge should point right, got %v", right)
	}
}

func TestFrustumCulling(t *testing.T) {
	c := NewCamera(75, 1, 0.1, 100)
	f := FrustumFromVP(c.GetViewProjectionMatrix())

	tests := []struct {
		name string
		box  AABB
		want bool
	}{
		{"ahead", AABB{Min: mgl32.Vec3{-1, -1, -11}, Max: mgl32.Vec3{1, 1, -9}}, true},
		{"behind", AABB{Min: mgl32.Vec3{-1, -1, 9}, Max: mgl32.Vec3{1, 1, 11}}, false},
		{"beyond far plane", AABB{Min: mgl32.Vec3{-1, -1, -210}, Max: mgl32.Vec3{1, 1, -200}}, false},
		{"far to the left", AABB{Min: mgl32.Vec3{-100, -1, -6}, Max: mgl32.Vec3{-90, 1, -5}}, false},
		{"straddling near plane", AABB{Min: mgl32.Vec3{-1, -1, -1}, Max: mgl32.Vec3{1, 1, 1}}, true},
	}
	for _, tt := range tests {
		if got := tt.box.IntersectsFrustum(&f); got != tt.want {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.want, got)
		}
	}
}

func TestComputeAABB(t *testing.T) {
	m := CreateBox(2, 4, 6)
	world := mgl32.Translate3D(10, 0, 0).Mul4(mgl32.HomogRotate3DY(math.Pi / 2))
	box := ComputeAABB(m, world)

	if !vecNear(box.Min, mgl32.Vec3{7, -2, -1}, 1e-4) || !vecNear(box.Max, mgl32.Vec3{13, 2, 1}, 1e-4) {
		t.Errorf("rotated box bounds: got %v..%v", box.Min, box.Max)
	}
	if !vecNear(box.Center(), mgl32.Vec3{10, 0, 0}, 1e-4) {
		t.Errorf("center: got %v", box.Center())
	}
}

func TestNodeWorldMatrix(t *testing.T) {
	parent := NewNode("parent")
	parent.SetPosition(mgl32.Vec3{1, 0, 0})
	parent.SetRotation(mgl32.QuatRotate(math.Pi/2, mgl32.Vec3{0, 1, 0}))

	child := NewNode("child")
	child.SetPosition(mgl32.Vec3{0, 0, -1})
	parent.AddChild(child)

	if !vecNear(child.WorldPosition(), mgl32.Vec3{0, 0, 0}, 1e-5) {
		t.Errorf("child world position: expected origin, got %v", child.WorldPosition())
	}

	parent.SetPosition(mgl32.Vec3{1, 3, 0})
	if !vecNear(child.WorldPosition(), mgl32.Vec3{0, 3, 0}, 1e-5) {
		t.Errorf("moving the parent should dirty the child, got %v", child.WorldPosition())
	}

	if parent.Find("child") != child {
		t.Error("Find should locate the child by name")
	}
}

func TestVisibleNodesSkipHiddenSubtrees(t *testing.T) {
	s := NewScene()
	group := NewNode("group")
	body := NewMeshNode("body", CreateCylinder(0.5, 1.5, 8))
	group.AddChild(body)
	s.AddNode(group)
	s.AddNode(NewMeshNode("ground", CreatePlane(10, 10)))

	if n := len(s.GetVisibleNodes()); n != 2 {
		t.Fatalf("expected 2 visible meshes, got %d", n)
	}
	group.Visible = false
	visible := s.GetVisibleNodes()
	if len(visible) != 1 || visible[0].Name != "ground" {
		t.Errorf("hidden group should hide its children, got %d nodes", len(visible))
	}
}

func TestPrimitiveBounds(t *testing.T) {
	tests := []struct {
		name     string
		mesh     *Mesh
		min, max mgl32.Vec3
	}{
		{"box", CreateBox(2, 4, 6), mgl32.Vec3{-1, -2, -3}, mgl32.Vec3{1, 2, 3}},
		{"plane", CreatePlane(100, 50), mgl32.Vec3{-50, 0, -25}, mgl32.Vec3{50, 0, 25}},
		{"panel", CreatePanel(5, 2.5), mgl32.Vec3{-2.5, -1.25, 0}, mgl32.Vec3{2.5, 1.25, 0}},
		{"cylinder", CreateCylinder(0.5, 1.5, 16), mgl32.Vec3{-0.5, -0.75, -0.5}, mgl32.Vec3{0.5, 0.75, 0.5}},
		{"sphere", CreateSphere(0.4, 16, 12), mgl32.Vec3{-0.4, -0.4, -0.4}, mgl32.Vec3{0.4, 0.4, 0.4}},
	}
	for _, tt := range tests {
		if !tt.mesh.HasLocalAABB {
			t.Errorf("%s: missing local AABB", tt.name)
			continue
		}
		if !vecNear(tt.mesh.LocalAABB.Min, tt.min, 1e-4) || !vecNear(tt.mesh.LocalAABB.Max, tt.max, 1e-4) {
			t.Errorf("%s: expected %v..%v, got %v..%v", tt.name, tt.min, tt.max, tt.mesh.LocalAABB.Min, tt.mesh.LocalAABB.Max)
		}
		if tt.mesh.IndexCount == 0 || tt.mesh.IndexCount%3 != 0 {
			t.Errorf("%s: bad triangle index count %d", tt.name, tt.mesh.IndexCount)
		}
		for _, idx := range tt.mesh.Indices {
			if int(idx) >= len(tt.mesh.Vertices) {
				t.Errorf("%s: index %d out of range", tt.name, idx)
				break
			}
		}
	}
}

func TestPanelUVTopLeft(t *testing.T) {
	m := CreatePanel(2, 1)
	for _, v := range m.Vertices {
		if v.Position.X() < 0 && v.Position.Y() > 0 && v.UV != (mgl32.Vec2{0, 0}) {
			t.Errorf("top-left corner should map to UV (0,0), got %v", v.UV)
		}
	}
}

func TestGrid(t *testing.T) {
	m := CreateGrid(100, 20, 0.01, core.ColorCyan)
	if m.DrawMode != DrawLines {
		t.Error("grid should draw lines")
	}
	if want := uint32(4 * 21); m.IndexCount != want {
		t.Errorf("expected %d indices, got %d", want, m.IndexCount)
	}
	if !m.Material.Unlit {
		t.Error("grid material should be unlit")
	}
}
