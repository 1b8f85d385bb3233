package core

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func vecNear(a, b mgl32.Vec3, eps float32) bool {
	return a.ApproxEqualThreshold(b, eps)
}

func TestColorHex(t *testing.T) {
	c := ColorHex(0x00ffff)
	if c != ColorCyan {
		t.Errorf("ColorHex(0x00ffff): expected %v, got %v", ColorCyan, c)
	}

	c = ColorHex(0x404040)
	want := float32(0x40) / 255
	if math.Abs(float64(c.R-want)) > 1e-6 || c.R != c.G || c.G != c.B {
		t.Errorf("ColorHex(0x404040): expected grey %v, got %v", want, c)
	}
}

func TestTransformMatrix(t *testing.T) {
	tr := NewTransform()
	tr.Position = mgl32.Vec3{1, 2, 3}
	tr.Scale = mgl32.Vec3{2, 2, 2}
	tr.Rotation = mgl32.QuatRotate(math.Pi/2, Up)

	// (1,0,0) scaled to (2,0,0), turned a quarter about +Y to (0,0,-2), then moved.
	got := mgl32.TransformCoordinate(mgl32.Vec3{1, 0, 0}, tr.GetMatrix())
	want := mgl32.Vec3{1, 2, 1}
	if !vecNear(got, want, 1e-5) {
		t.Errorf("GetMatrix: expected %v, got %v", want, got)
	}
}

func TestTransformDirections(t *testing.T) {
	tr := NewTransform()
	if !vecNear(tr.GetForward(), Forward, 1e-6) {
		t.Errorf("identity forward: expected %v, got %v", Forward, tr.GetForward())
	}

	tr.Rotation = mgl32.QuatRotate(-math.Pi/2, Up)
	if !vecNear(tr.GetForward(), Right, 1e-5) {
		t.Errorf("turned right: expected forward %v, got %v", Right, tr.GetForward())
	}
	if !vecNear(tr.GetUp(), Up, 1e-5) {
		t.Errorf("yaw must keep up: expected %v, got %v", Up, tr.GetUp())
	}
}
