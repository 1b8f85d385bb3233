// Package city lays out the procedural neon city: ground, buildings, lights
// and fog. Layout is a pure function of the config, so the same seed always
// yields the same streets.
package city

import (
	"math/rand"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/sirupsen/logrus"
	"github.com/zeebo/xxh3"

	"cyberwalk/config"
	"cyberwalk/core"
	"cyberwalk/internal/physics"
	"cyberwalk/scene"
)

const (
	groundColor   = 0x1a1a1a
	buildingColor = 0x333333
	buildingGlow  = 0x111111
	ambientColor  = 0x404040
	fogColor      = 0x112233

	maxRerolls   = 64
	gridDivision = 2 // world units per grid cell
)

var neonPalette = []core.Color{
	core.ColorHex(0x00ffff),
	core.ColorHex(0xff00ff),
	core.ColorHex(0x8a2be2),
	core.ColorHex(0xffd700),
}

// Building is a box standing on the ground with a square footprint.
type Building struct {
	X, Z   float32 // footprint centre
	Width  float32
	Height float32
}

// Footprint returns the XZ rectangle covered by the building.
func (b Building) Footprint() (minX, minZ, maxX, maxZ float32) {
	h := b.Width / 2
	return b.X - h, b.Z - h, b.X + h, b.Z + h
}

// DistanceTo is the XZ distance from (x, z) to the nearest point of the footprint.
func (b Building) DistanceTo(x, z float32) float32 {
	dx := math32.Max(math32.Abs(b.X-x)-b.Width/2, 0)
	dz := math32.Max(math32.Abs(b.Z-z)-b.Width/2, 0)
	return math32.Hypot(dx, dz)
}

// Layout is the generated content before it is turned into nodes.
type Layout struct {
	Seed      uint64
	Buildings []Building
	Lights    []scene.Light
}

// SeedOf hashes a seed string.
func SeedOf(s string) uint64 {
	return xxh3.HashString(s)
}

// Generate rolls the buildings and their rooftop neon lights.
func Generate(cfg config.CityConfig) Layout {
	seed := SeedOf(cfg.Seed)
	rng := rand.New(rand.NewSource(int64(seed)))

	between := func(lo, hi float32) float32 {
		return lo + rng.Float32()*(hi-lo)
	}

	layout := Layout{Seed: seed}
	for i := 0; i < cfg.Buildings; i++ {
		var b Building
		for attempt := 0; attempt < maxRerolls; attempt++ {
			b = Building{
				Height: between(cfg.MinHeight, cfg.MaxHeight),
				Width:  between(cfg.MinWidth, cfg.MaxWidth),
				X:      between(-cfg.Spread, cfg.Spread),
				Z:      between(-cfg.Spread, cfg.Spread),
			}
			if b.DistanceTo(0, 0) >= cfg.SpawnClearance {
				break
			}
		}
		layout.Buildings = append(layout.Buildings, b)
	}

	for i := 0; i < cfg.NeonLights && i < len(layout.Buildings); i++ {
		b := layout.Buildings[i]
		layout.Lights = append(layout.Lights, scene.Light{
			Type:      scene.LightTypePoint,
			Position:  mgl32.Vec3{b.X, b.Height + 1, b.Z},
			Color:     neonPalette[i%len(neonPalette)],
			Intensity: 1.5,
			Range:     25,
		})
	}
	return layout
}

// Build adds the layout to the scene and registers every building as a
// static obstacle in world.
func Build(sc *scene.Scene, world *physics.World, layout Layout, cfg config.CityConfig, log logrus.FieldLogger) {
	sc.Ambient = core.ColorHex(ambientColor)
	sc.AddLight(&scene.Light{
		Type:      scene.LightTypeDirectional,
		Direction: mgl32.Vec3{-5, -10, -5}.Normalize(),
		Color:     core.ColorWhite,
		Intensity: 0.8,
	})
	for i := range layout.Lights {
		sc.AddLight(&layout.Lights[i])
	}

	sc.SkyColor = core.ColorHex(fogColor)
	sc.Fog = scene.Fog{Enabled: cfg.FogDensity > 0, Color: core.ColorHex(fogColor), Density: cfg.FogDensity}

	groundMesh := scene.CreatePlane(cfg.GroundSize, cfg.GroundSize)
	groundMat := scene.NewMaterial("ground", core.ColorHex(groundColor))
	groundMat.Shininess = 10
	groundMat.Specular = core.Color{R: 0.1, G: 0.1, B: 0.1, A: 1}
	groundMesh.Material = groundMat
	sc.AddNode(scene.NewMeshNode("ground", groundMesh))

	divisions := int(cfg.GroundSize / gridDivision)
	grid := scene.CreateGrid(cfg.GroundSize, divisions, 0.01, core.Color{R: 0, G: 0.35, B: 0.45, A: 1})
	sc.AddNode(scene.NewMeshNode("grid", grid))

	// One unit box shared by every building, scaled per node.
	box := scene.CreateBox(1, 1, 1)
	mat := scene.NewMaterial("building", core.ColorHex(buildingColor))
	mat.Emissive = core.ColorHex(buildingGlow)
	mat.Shininess = 50
	box.Material = mat

	buildings := scene.NewNode("buildings")
	for i, b := range layout.Buildings {
		n := scene.NewMeshNode("building", box)
		n.SetPosition(mgl32.Vec3{b.X, b.Height / 2, b.Z})
		n.SetScale(mgl32.Vec3{b.Width, b.Height, b.Width})
		buildings.AddChild(n)
		world.AddObstacle(b.Footprint())

		log.WithFields(logrus.Fields{
			"index": i, "x": b.X, "z": b.Z, "width": b.Width, "height": b.Height,
		}).Trace("building")
	}
	sc.AddNode(buildings)

	log.WithFields(logrus.Fields{
		"seed":      cfg.Seed,
		"buildings": len(layout.Buildings),
		"lights":    len(layout.Lights),
	}).Info("city generated")
}
