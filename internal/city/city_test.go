package city

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"cyberwalk/config"
	"cyberwalk/internal/logging"
	"cyberwalk/internal/physics"
	"cyberwalk/scene"
)

func TestGenerateRanges(t *testing.T) {
	cfg := config.Default().City
	layout := Generate(cfg)

	if len(layout.Buildings) != cfg.Buildings {
		t.Fatalf("expected %d buildings, got %d", cfg.Buildings, len(layout.Buildings))
	}
	for i, b := range layout.Buildings {
		if b.Height < cfg.MinHeight || b.Height >= cfg.MaxHeight {
			t.Errorf("building %d: height %v outside [%v, %v)", i, b.Height, cfg.MinHeight, cfg.MaxHeight)
		}
		if b.Width < cfg.MinWidth || b.Width >= cfg.MaxWidth {
			t.Errorf("building %d: width %v outside [%v, %v)", i, b.Width, cfg.MinWidth, cfg.MaxWidth)
		}
		if b.X < -cfg.Spread || b.X >= cfg.Spread || b.Z < -cfg.Spread || b.Z >= cfg.Spread {
			t.Errorf("building %d: centre (%v, %v) outside the spread", i, b.X, b.Z)
		}
		if d := b.DistanceTo(0, 0); d < cfg.SpawnClearance {
			t.Errorf("building %d: %v from spawn, want at least %v", i, d, cfg.SpawnClearance)
		}
	}
	if len(layout.Lights) != cfg.NeonLights {
		t.Errorf("expected %d neon lights, got %d", cfg.NeonLights, len(layout.Lights))
	}
}

func TestGenerateDeterministic(t *testing.T) {
	cfg := config.Default().City
	a := Generate(cfg)
	b := Generate(cfg)
	for i := range a.Buildings {
		if a.Buildings[i] != b.Buildings[i] {
			t.Fatalf("building %d differs between runs with the same seed", i)
		}
	}

	cfg.Seed = "another night"
	c := Generate(cfg)
	if c.Seed == a.Seed {
		t.Fatal("different seed strings should hash differently")
	}
	same := true
	for i := range a.Buildings {
		if a.Buildings[i] != c.Buildings[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("different seeds produced the same city")
	}
}

func TestSpawnClearanceIsHonouredWhenCrowded(t *testing.T) {
	cfg := config.Default().City
	cfg.Spread = 10
	cfg.SpawnClearance = 4
	cfg.Buildings = 50
	for _, b := range Generate(cfg).Buildings {
		if b.DistanceTo(0, 0) < cfg.SpawnClearance {
			t.Fatalf("building at (%v, %v) width %v intrudes on spawn", b.X, b.Z, b.Width)
		}
	}
}

func TestBuildingDistance(t *testing.T) {
	b := Building{X: 10, Z: 0, Width: 4}
	tests := []struct {
		x, z, want float32
	}{
		{0, 0, 8},
		{10, 0, 0},
		{12, 0, 0},
		{15, 0, 3},
		{15, 6, 5},
	}
	for _, tt := range tests {
		if got := b.DistanceTo(tt.x, tt.z); math.Abs(float64(got-tt.want)) > 1e-5 {
			t.Errorf("DistanceTo(%v, %v): expected %v, got %v", tt.x, tt.z, tt.want, got)
		}
	}
}

func TestBuildPopulatesSceneAndWorld(t *testing.T) {
	cfg := config.Default().City
	layout := Layout{
		Buildings: []Building{{X: 5, Z: 0, Width: 2, Height: 8}},
	}

	sc := scene.NewScene()
	world := physics.NewWorld(cfg.GroundSize, mgl32.Vec3{}, 1.0/60, 10)
	Build(sc, world, layout, cfg, logging.Discard())

	if sc.Root.Find("ground") == nil || sc.Root.Find("grid") == nil {
		t.Error("ground and grid should be in the scene")
	}
	buildings := sc.Root.Find("buildings")
	if buildings == nil || len(buildings.Children) != 1 {
		t.Fatal("expected one building node")
	}
	n := buildings.Children[0]
	if n.Transform.Position != (mgl32.Vec3{5, 4, 0}) || n.Transform.Scale != (mgl32.Vec3{2, 8, 2}) {
		t.Errorf("building transform: pos %v scale %v", n.Transform.Position, n.Transform.Scale)
	}
	if len(sc.Lights) != 1 || sc.Lights[0].Type != scene.LightTypeDirectional {
		t.Errorf("expected only the directional light, got %d lights", len(sc.Lights))
	}
	if !sc.Fog.Enabled || sc.Fog.Density != cfg.FogDensity {
		t.Errorf("fog not configured: %+v", sc.Fog)
	}

	// Walking +X from the origin stops at the building's west face (x = 4).
	body := physics.NewBody(mgl32.Vec3{0, 0.75, 0}, 5, 0.5, 1.5, 0)
	body.Velocity = mgl32.Vec3{5, 0, 0}
	world.AddBody(body)
	for i := 0; i < 120; i++ {
		world.Step(1.0 / 60)
	}
	if x := body.Position.X(); x > 3.5+1e-4 {
		t.Errorf("body passed into the building: x %v", x)
	}
}
