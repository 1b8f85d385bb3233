// Package player drives the avatar: movement and jumping on the physics body,
// mouse-look yaw, the first/third-person camera rig and the body-to-node sync.
//
// The frame driver calls, in order: Move, Turn, Sync, then CameraRig.Place.
package player

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/sirupsen/logrus"

	"cyberwalk/config"
	"cyberwalk/core"
	"cyberwalk/internal/physics"
)

// Controller owns the player state that is not stored on the physics body.
type Controller struct {
	Body      *physics.Body
	Yaw       float32 // radians about +Y, 0 faces -Z
	CanJump   bool
	Sprinting bool

	cfg   config.PlayerConfig
	mover mover
	log   logrus.FieldLogger
}

// NewController binds a controller to body. The movement strategy is fixed
// for the controller's lifetime.
func NewController(body *physics.Body, cfg config.PlayerConfig, log logrus.FieldLogger) (*Controller, error) {
	var m mover
	switch cfg.Strategy {
	case config.StrategyVelocity:
		m = &velocityMover{walk: cfg.WalkSpeed, sprint: cfg.SprintSpeed, jumpSpeed: cfg.JumpSpeed}
	case config.StrategyImpulse:
		m = &impulseMover{strength: cfg.ImpulseStrength, damping: cfg.Damping, jumpImpulse: cfg.JumpImpulse}
	default:
		return nil, fmt.Errorf("%w: movement strategy %q", config.ErrInvalid, cfg.Strategy)
	}
	log.WithField("strategy", cfg.Strategy).Debug("player controller ready")
	return &Controller{
		Body:    body,
		CanJump: true,
		cfg:     cfg,
		mover:   m,
		log:     log,
	}, nil
}

// Orientation is the avatar facing, rebuilt from Yaw on every call.
func (c *Controller) Orientation() mgl32.Quat {
	return mgl32.QuatRotate(c.Yaw, core.Up)
}

// Forward is the horizontal facing direction, -Z at yaw 0.
func (c *Controller) Forward() mgl32.Vec3 {
	return c.Orientation().Rotate(core.Forward)
}

// Right is the horizontal strafe direction, +X at yaw 0.
func (c *Controller) Right() mgl32.Vec3 {
	return c.Orientation().Rotate(core.Right)
}
