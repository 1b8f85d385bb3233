package player

import (
	"github.com/go-gl/mathgl/mgl32"

	"cyberwalk/core"
	"cyberwalk/internal/input"
	"cyberwalk/internal/physics"
)

// intent is the directional part of one frame's input.
type intent struct {
	forward, back, left, right bool
	sprint                     bool
}

func intentFrom(in *input.State) intent {
	return intent{
		forward: in.Held(input.MoveForward),
		back:    in.Held(input.MoveBack),
		left:    in.Held(input.StrafeLeft),
		right:   in.Held(input.StrafeRight),
		sprint:  in.Held(input.Sprint),
	}
}

// mover is one movement strategy.
type mover interface {
	move(b *physics.Body, in intent, facing mgl32.Quat)
	jump(b *physics.Body)
}

// Move applies one frame of movement input to the body and handles jumping.
func (c *Controller) Move(in *input.State) {
	c.refreshGround()

	it := intentFrom(in)
	c.Sprinting = it.sprint
	c.mover.move(c.Body, it, c.Orientation())

	if in.JustPressed(input.Jump) && c.CanJump {
		c.mover.jump(c.Body)
		c.CanJump = false
		c.log.WithField("y", c.Body.Position.Y()).Debug("jump")
	}
}

// refreshGround re-enables jumping once the body is low and not rising.
func (c *Controller) refreshGround() {
	if c.CanJump {
		return
	}
	if c.Body.Position.Y() < c.cfg.GroundThreshold && c.Body.Velocity.Y() < c.cfg.RestVelocity {
		c.CanJump = true
	}
}

// velocityMover overwrites horizontal velocity every frame.
type velocityMover struct {
	walk, sprint float32
	jumpSpeed    float32
}

func (m *velocityMover) move(b *physics.Body, in intent, facing mgl32.Quat) {
	var local mgl32.Vec3
	if in.forward {
		local[2]--
	}
	if in.back {
		local[2]++
	}
	if in.left {
		local[0]--
	}
	if in.right {
		local[0]++
	}

	var world mgl32.Vec3
	if local.Len() > 0 {
		speed := m.walk
		if in.sprint {
			speed = m.sprint
		}
		world = facing.Rotate(local.Normalize().Mul(speed))
	}
	b.Velocity[0] = world.X()
	b.Velocity[2] = world.Z()
}

func (m *velocityMover) jump(b *physics.Body) {
	b.Velocity[1] = m.jumpSpeed
}

// impulseMover pushes the body once per held key and then damps horizontal
// velocity. Opposing keys both apply.
type impulseMover struct {
	strength    float32
	damping     float32 // per-frame factor on X and Z
	jumpImpulse float32
}

func (m *impulseMover) move(b *physics.Body, in intent, facing mgl32.Quat) {
	forward := facing.Rotate(core.Forward).Mul(m.strength)
	right := facing.Rotate(core.Right).Mul(m.strength)

	push := func(held bool, dir mgl32.Vec3) {
		if held {
			b.ApplyImpulse(mgl32.Vec3{dir.X(), 0, dir.Z()})
		}
	}
	push(in.forward, forward)
	push(in.back, forward.Mul(-1))
	push(in.left, right.Mul(-1))
	push(in.right, right)

	b.Velocity[0] *= m.damping
	b.Velocity[2] *= m.damping
}

func (m *impulseMover) jump(b *physics.Body) {
	b.ApplyImpulse(mgl32.Vec3{0, m.jumpImpulse, 0})
}
