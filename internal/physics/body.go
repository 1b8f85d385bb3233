package physics

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/solarlune/resolv"
)

// Body is an upright cylinder. Position is the cylinder centre.
type Body struct {
	Position    mgl32.Vec3
	Velocity    mgl32.Vec3
	Orientation mgl32.Quat

	Mass          float32
	Radius        float32
	Height        float32
	LinearDamping float32 // fraction of velocity lost per second

	OnGround bool

	footprint *resolv.Object
}

func NewBody(position mgl32.Vec3, mass, radius, height, linearDamping float32) *Body {
	return &Body{
		Position:      position,
		Orientation:   mgl32.QuatIdent(),
		Mass:          mass,
		Radius:        radius,
		Height:        height,
		LinearDamping: linearDamping,
	}
}

// ApplyImpulse changes velocity by impulse / mass, immediately.
func (b *Body) ApplyImpulse(impulse mgl32.Vec3) {
	if b.Mass <= 0 {
		return
	}
	b.Velocity = b.Velocity.Add(impulse.Mul(1 / b.Mass))
}

func (b *Body) HalfHeight() float32 {
	return b.Height / 2
}
