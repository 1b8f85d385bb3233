package core

import (
	"github.com/go-gl/mathgl/mgl32"
)

type Color struct {
	R, G, B, A float32
}

var (
	ColorWhite = Color{1, 1, 1, 1}
	ColorBlack = Color{0, 0, 0, 1}
	ColorCyan  = Color{0, 1, 1, 1}
)

// ColorHex converts a 0xRRGGBB value to an opaque Color.
func ColorHex(hex uint32) Color {
	return Color{
		R: float32((hex>>16)&0xff) / 255,
		G: float32((hex>>8)&0xff) / 255,
		B: float32(hex&0xff) / 255,
		A: 1,
	}
}

// Vec3 returns the RGB channels as a vector (shader uniform order).
func (c Color) Vec3() mgl32.Vec3 {
	return mgl32.Vec3{c.R, c.G, c.B}
}

// Vertex is the interleaved GPU vertex layout shared by every mesh.
type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	UV       mgl32.Vec2
	Color    Color
}

var (
	Up      = mgl32.Vec3{0, 1, 0}
	Forward = mgl32.Vec3{0, 0, -1}
	Right   = mgl32.Vec3{1, 0, 0}
)

type Transform struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
}

func NewTransform() Transform {
	return Transform{
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

// GetMatrix returns translation * rotation * scale (column vectors).
func (t Transform) GetMatrix() mgl32.Mat4 {
	translation := mgl32.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z())
	scale := mgl32.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z())
	return translation.Mul4(t.Rotation.Mat4()).Mul4(scale)
}

func (t Transform) GetForward() mgl32.Vec3 {
	return t.Rotation.Rotate(Forward)
}

func (t Transform) GetRight() mgl32.Vec3 {
	return t.Rotation.Rotate(Right)
}

func (t Transform) GetUp() mgl32.Vec3 {
	return t.Rotation.Rotate(Up)
}
