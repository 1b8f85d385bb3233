// Package physics is a minimal rigid-body proxy: gravity, linear damping, a
// ground plane at y = 0 and static XZ obstacles resolved with resolv.
package physics

import (
	"math"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/solarlune/resolv"
)

const (
	tagSolid = "solid"
	tagBody  = "body"

	cellSize = 2
)

// World steps every body with a fixed timestep.
type World struct {
	Gravity     mgl32.Vec3
	FixedStep   float32
	MaxSubSteps int
	Bodies      []*Body

	space       *resolv.Space
	origin      float64 // world X/Z of space coordinate 0 is -origin
	accumulator float32
}

// NewWorld creates a world whose obstacle space covers a square of side
// extent centred on the origin.
func NewWorld(extent float32, gravity mgl32.Vec3, fixedStep float32, maxSubSteps int) *World {
	size := int(math32.Ceil(extent))
	if size < cellSize {
		size = cellSize
	}
	return &World{
		Gravity:     gravity,
		FixedStep:   fixedStep,
		MaxSubSteps: maxSubSteps,
		space:       resolv.NewSpace(size, size, cellSize, cellSize),
		origin:      float64(size) / 2,
	}
}

func (w *World) AddBody(b *Body) {
	d := float64(b.Radius * 2)
	b.footprint = resolv.NewObject(0, 0, d, d, tagBody)
	b.footprint.SetShape(resolv.NewRectangle(0, 0, d, d))
	w.space.Add(b.footprint)
	w.placeFootprint(b)
	w.Bodies = append(w.Bodies, b)
}

// AddObstacle registers a static XZ rectangle that bodies cannot enter.
func (w *World) AddObstacle(minX, minZ, maxX, maxZ float32) {
	width := float64(maxX - minX)
	depth := float64(maxZ - minZ)
	obj := resolv.NewObject(float64(minX)+w.origin, float64(minZ)+w.origin, width, depth, tagSolid)
	obj.SetShape(resolv.NewRectangle(0, 0, width, depth))
	w.space.Add(obj)
}

// Step advances the simulation by dt using whole fixed steps. At most
// MaxSubSteps run per call; a larger backlog is dropped. Returns the number
// of steps taken.
func (w *World) Step(dt float32) int {
	if dt <= 0 {
		return 0
	}
	w.accumulator += dt
	steps := 0
	for w.accumulator >= w.FixedStep && steps < w.MaxSubSteps {
		for _, b := range w.Bodies {
			w.integrate(b, w.FixedStep)
		}
		w.accumulator -= w.FixedStep
		steps++
	}
	if w.accumulator >= w.FixedStep {
		w.accumulator = 0
	}
	return steps
}

func (w *World) integrate(b *Body, h float32) {
	b.Velocity = b.Velocity.Add(w.Gravity.Mul(h))
	if b.LinearDamping > 0 {
		b.Velocity = b.Velocity.Mul(math32.Pow(1-b.LinearDamping, h))
	}

	w.moveHorizontal(b, b.Velocity.X()*h, b.Velocity.Z()*h)

	b.Position[1] += b.Velocity.Y() * h
	floor := b.HalfHeight()
	if b.Position.Y() <= floor {
		b.Position[1] = floor
		if b.Velocity.Y() < 0 {
			b.Velocity[1] = 0
		}
		b.OnGround = true
	} else {
		b.OnGround = false
	}
}

// moveHorizontal moves the footprint one axis at a time, stopping at the
// first solid it would enter and zeroing velocity on that axis.
func (w *World) moveHorizontal(b *Body, dx, dz float32) {
	if b.footprint == nil {
		b.Position[0] += dx
		b.Position[2] += dz
		return
	}
	w.placeFootprint(b)
	obj := b.footprint

	if dx != 0 {
		move := float64(dx)
		if check := obj.Check(move, 0, tagSolid); check != nil {
			for _, solid := range check.ObjectsByTags(tagSolid) {
				if !overlapsAfter(obj, solid, move, 0) {
					continue
				}
				contact := check.ContactWithObject(solid).X()
				if math.Abs(contact) < math.Abs(move) {
					move = contact
				}
				b.Velocity[0] = 0
			}
		}
		obj.X += move
	}

	if dz != 0 {
		move := float64(dz)
		if check := obj.Check(0, move, tagSolid); check != nil {
			for _, solid := range check.ObjectsByTags(tagSolid) {
				if !overlapsAfter(obj, solid, 0, move) {
					continue
				}
				contact := check.ContactWithObject(solid).Y()
				if math.Abs(contact) < math.Abs(move) {
					move = contact
				}
				b.Velocity[2] = 0
			}
		}
		obj.Y += move
	}

	obj.Update()
	b.Position[0] = float32(obj.X + obj.W/2 - w.origin)
	b.Position[2] = float32(obj.Y + obj.H/2 - w.origin)
}

func (w *World) placeFootprint(b *Body) {
	obj := b.footprint
	obj.X = float64(b.Position.X()) + w.origin - obj.W/2
	obj.Y = float64(b.Position.Z()) + w.origin - obj.H/2
	obj.Update()
}

// overlapsAfter reports whether a, moved by (dx, dy), overlaps b. Check works
// on grid cells, so sharing a cell is not enough.
func overlapsAfter(a, b *resolv.Object, dx, dy float64) bool {
	ax, ay := a.X+dx, a.Y+dy
	return ax < b.X+b.W && ax+a.W > b.X && ay < b.Y+b.H && ay+a.H > b.Y
}
