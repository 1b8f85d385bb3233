package player

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"cyberwalk/internal/input"
)

// Turn consumes the frame's mouse delta into Yaw. The facing is rebuilt from
// the absolute angle each frame, never composed incrementally, and the
// physics body's own orientation is pinned to identity so it stays upright.
//
// Yaw decreases as the mouse moves right, so the avatar turns right. The
// first version of the demo added the delta instead and turned left.
func (c *Controller) Turn(in *input.State) {
	dx, _ := in.ConsumeMouseDelta()
	if dx != 0 {
		// Moving the mouse right turns right.
		c.Yaw = wrapAngle(c.Yaw - dx*c.cfg.MouseSensitivity)
	}
	c.Body.Orientation = mgl32.QuatIdent()
}

// wrapAngle maps a to [-pi, pi).
func wrapAngle(a float32) float32 {
	a = math32.Mod(a+math32.Pi, 2*math32.Pi)
	if a < 0 {
		a += 2 * math32.Pi
	}
	return a - math32.Pi
}
