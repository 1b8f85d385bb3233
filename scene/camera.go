package scene

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"cyberwalk/core"
)

// Camera represents a view camera. FOV is the vertical field of view in degrees.
type Camera struct {
	Position    mgl32.Vec3
	Rotation    mgl32.Quat
	FOV         float32
	AspectRatio float32
	NearPlane   float32
	FarPlane    float32

	// Cached matrices
	viewMatrix       mgl32.Mat4
	projectionMatrix mgl32.Mat4
	viewProjMatrix   mgl32.Mat4
	dirty            bool
}

func NewCamera(fov, aspectRatio, nearPlane, farPlane float32) *Camera {
	return &Camera{
		Rotation:    mgl32.QuatIdent(),
		FOV:         fov,
		AspectRatio: aspectRatio,
		NearPlane:   nearPlane,
		FarPlane:    farPlane,
		dirty:       true,
	}
}

// UpdateAspectRatio sets the aspect from a surface size. A zero height
// (minimised window) leaves it unchanged.
func (c *Camera) UpdateAspectRatio(width, height float32) {
	if height > 0 {
		c.AspectRatio = width / height
		c.dirty = true
	}
}

func (c *Camera) SetPosition(pos mgl32.Vec3) {
	c.Position = pos
	c.dirty = true
}

func (c *Camera) SetRotation(rot mgl32.Quat) {
	c.Rotation = rot.Normalize()
	c.dirty = true
}

// LookAt turns the camera toward target, keeping the horizon level.
func (c *Camera) LookAt(target mgl32.Vec3) {
	dir := target.Sub(c.Position)
	if dir.Len() < 1e-6 {
		return
	}
	c.Rotation = levelRotation(dir.Normalize())
	c.dirty = true
}

// levelRotation returns the yaw-then-pitch rotation whose -Z axis is dir.
func levelRotation(dir mgl32.Vec3) mgl32.Quat {
	yaw := math32.Atan2(-dir.X(), -dir.Z())
	pitch := math32.Asin(mgl32.Clamp(dir.Y(), -1, 1))
	return mgl32.QuatRotate(yaw, core.Up).Mul(mgl32.QuatRotate(pitch, core.Right))
}

func (c *Camera) GetViewMatrix() mgl32.Mat4 {
	if c.dirty {
		c.updateMatrices()
	}
	return c.viewMatrix
}

func (c *Camera) GetProjectionMatrix() mgl32.Mat4 {
	if c.dirty {
		c.updateMatrices()
	}
	return c.projectionMatrix
}

func (c *Camera) GetViewProjectionMatrix() mgl32.Mat4 {
	if c.dirty {
		c.updateMatrices()
	}
	return c.viewProjMatrix
}

func (c *Camera) GetForward() mgl32.Vec3 {
	return c.Rotation.Rotate(core.Forward)
}

func (c *Camera) GetRight() mgl32.Vec3 {
	return c.Rotation.Rotate(core.Right)
}

func (c *Camera) GetUp() mgl32.Vec3 {
	return c.Rotation.Rotate(core.Up)
}

func (c *Camera) updateMatrices() {
	eye := c.Position
	c.viewMatrix = mgl32.LookAtV(eye, eye.Add(c.GetForward()), c.GetUp())
	c.projectionMatrix = mgl32.Perspective(mgl32.DegToRad(c.FOV), c.AspectRatio, c.NearPlane, c.FarPlane)
	c.viewProjMatrix = c.projectionMatrix.Mul4(c.viewMatrix)
	c.dirty = false
}

// ScreenRay returns a world-space ray through a point given in normalised
// device coordinates (x right, y up, both in [-1, 1]).
func (c *Camera) ScreenRay(ndcX, ndcY float32) (origin, dir mgl32.Vec3) {
	inv := c.GetViewProjectionMatrix().Inv()
	near := mgl32.TransformCoordinate(mgl32.Vec3{ndcX, ndcY, -1}, inv)
	far := mgl32.TransformCoordinate(mgl32.Vec3{ndcX, ndcY, 1}, inv)
	return near, far.Sub(near).Normalize()
}
