// Package config holds every tunable of the demo. Defaults reproduce the
// stock scene; an optional TOML file overrides any subset of them.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pelletier/go-toml"
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid config")

// Movement strategy names accepted in player.strategy.
const (
	StrategyVelocity = "velocity"
	StrategyImpulse  = "impulse"
)

// Vec3 is a TOML-friendly vector.
type Vec3 struct {
	X float32 `toml:"x"`
	Y float32 `toml:"y"`
	Z float32 `toml:"z"`
}

func (v Vec3) Mgl() mgl32.Vec3 {
	return mgl32.Vec3{v.X, v.Y, v.Z}
}

type Config struct {
	Window  WindowConfig  `toml:"window"`
	Log     LogConfig     `toml:"log"`
	Player  PlayerConfig  `toml:"player"`
	Camera  CameraConfig  `toml:"camera"`
	Physics PhysicsConfig `toml:"physics"`
	City    CityConfig    `toml:"city"`
	Avatar  AvatarConfig  `toml:"avatar"`
	Posts   []PostConfig  `toml:"posts"`
}

type WindowConfig struct {
	Width      int    `toml:"width"`
	Height     int    `toml:"height"`
	Title      string `toml:"title"`
	VSync      bool   `toml:"vsync"`
	Fullscreen bool   `toml:"fullscreen"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

// PlayerConfig contains the avatar body and controller tuning.
type PlayerConfig struct {
	// Movement
	Strategy        string  `toml:"strategy"`
	WalkSpeed       float32 `toml:"walk_speed"`
	SprintSpeed     float32 `toml:"sprint_speed"`
	JumpSpeed       float32 `toml:"jump_speed"`
	ImpulseStrength float32 `toml:"impulse_strength"`
	JumpImpulse     float32 `toml:"jump_impulse"`
	Damping         float32 `toml:"damping"` // horizontal velocity factor per frame, impulse mode

	// Jump re-enable condition
	GroundThreshold float32 `toml:"ground_threshold"`
	RestVelocity    float32 `toml:"rest_velocity"`

	MouseSensitivity float32 `toml:"mouse_sensitivity"` // radians per pixel

	// Body
	Spawn         Vec3    `toml:"spawn"`
	Mass          float32 `toml:"mass"`
	Radius        float32 `toml:"radius"`
	Height        float32 `toml:"height"`
	LinearDamping float32 `toml:"linear_damping"`
}

type CameraConfig struct {
	FOV          float32 `toml:"fov"` // vertical, degrees
	Near         float32 `toml:"near"`
	Far          float32 `toml:"far"`
	Start        Vec3    `toml:"start"`
	HeadHeight   float32 `toml:"head_height"`
	FollowOffset Vec3    `toml:"follow_offset"`
	Smoothing    float32 `toml:"smoothing"`
}

type PhysicsConfig struct {
	Gravity     float32 `toml:"gravity"`
	FixedStep   float32 `toml:"fixed_step"`
	MaxSubSteps int     `toml:"max_sub_steps"`
}

type CityConfig struct {
	Seed           string  `toml:"seed"`
	GroundSize     float32 `toml:"ground_size"`
	Buildings      int     `toml:"buildings"`
	Spread         float32 `toml:"spread"` // centres fall in [-spread, spread)
	MinHeight      float32 `toml:"min_height"`
	MaxHeight      float32 `toml:"max_height"`
	MinWidth       float32 `toml:"min_width"`
	MaxWidth       float32 `toml:"max_width"`
	SpawnClearance float32 `toml:"spawn_clearance"`
	NeonLights     int     `toml:"neon_lights"`
	FogDensity     float32 `toml:"fog_density"`
}

type AvatarConfig struct {
	Model string  `toml:"model"` // optional .glb / .gltf
	Scale float32 `toml:"scale"`
}

type PostConfig struct {
	Text     string `toml:"text"`
	Position Vec3   `toml:"position"`
}

func Default() Config {
	return Config{
		Window: WindowConfig{
			Width:  1280,
			Height: 720,
			Title:  "cyberwalk",
			VSync:  true,
		},
		Log: LogConfig{Level: "info"},
		Player: PlayerConfig{
			Strategy:         StrategyVelocity,
			WalkSpeed:        5,
			SprintSpeed:      10,
			JumpSpeed:        8,
			ImpulseStrength:  10,
			JumpImpulse:      40,
			Damping:          0.9,
			GroundThreshold:  0.85,
			RestVelocity:     0.1,
			MouseSensitivity: 0.01,
			Spawn:            Vec3{0, 2, 0},
			Mass:             5,
			Radius:           0.5,
			Height:           1.5,
			LinearDamping:    0.1,
		},
		Camera: CameraConfig{
			FOV:          75,
			Near:         0.1,
			Far:          1000,
			Start:        Vec3{0, 5, 10},
			HeadHeight:   1.2,
			FollowOffset: Vec3{0, 2, 5},
			Smoothing:    0.1,
		},
		Physics: PhysicsConfig{
			Gravity:     -9.82,
			FixedStep:   1.0 / 60.0,
			MaxSubSteps: 10,
		},
		City: CityConfig{
			Seed:           "cyberwalk",
			GroundSize:     100,
			Buildings:      20,
			Spread:         40,
			MinHeight:      5,
			MaxHeight:      15,
			MinWidth:       2,
			MaxWidth:       6,
			SpawnClearance: 3,
			NeonLights:     4,
			FogDensity:     0.02,
		},
		Avatar: AvatarConfig{Scale: 1},
		Posts: []PostConfig{
			{Text: "Welcome to CyberSpace!", Position: Vec3{5, 2, -5}},
			{Text: "Latest Neon Tech Drop", Position: Vec3{-5, 2, -5}},
		},
	}
}

// Load reads a TOML file and lays it over Default(). Keys absent from the
// file keep their default values; the posts array is replaced as a whole.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %q: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("config %q: %w", path, err)
	}
	return cfg, nil
}

// Parse is Load without the file.
func Parse(data []byte) (Config, error) {
	user, err := toml.LoadBytes(data)
	if err != nil {
		return Config{}, fmt.Errorf("decode: %w", err)
	}

	defaults, err := toml.Marshal(Default())
	if err != nil {
		return Config{}, fmt.Errorf("encode defaults: %w", err)
	}
	base, err := toml.LoadBytes(defaults)
	if err != nil {
		return Config{}, fmt.Errorf("decode defaults: %w", err)
	}
	mergeTree(base, user)

	var cfg Config
	if err := base.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// mergeTree copies every key of src into dst, descending into tables present
// on both sides.
func mergeTree(dst, src *toml.Tree) {
	for _, key := range src.Keys() {
		path := []string{key}
		sv := src.GetPath(path)
		if st, ok := sv.(*toml.Tree); ok {
			if dt, ok := dst.GetPath(path).(*toml.Tree); ok {
				mergeTree(dt, st)
				continue
			}
		}
		dst.SetPath(path, sv)
	}
}

// Save writes cfg as TOML.
func Save(path string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config %q: %w", path, err)
	}
	return nil
}

func (c Config) Validate() error {
	p := c.Player
	switch p.Strategy {
	case StrategyVelocity, StrategyImpulse:
	default:
		return fmt.Errorf("%w: player.strategy %q (want %q or %q)", ErrInvalid, p.Strategy, StrategyVelocity, StrategyImpulse)
	}

	positive := []struct {
		name  string
		value float32
	}{
		{"player.walk_speed", p.WalkSpeed},
		{"player.sprint_speed", p.SprintSpeed},
		{"player.jump_speed", p.JumpSpeed},
		{"player.mass", p.Mass},
		{"player.radius", p.Radius},
		{"player.height", p.Height},
		{"camera.fov", c.Camera.FOV},
		{"camera.near", c.Camera.Near},
		{"physics.fixed_step", c.Physics.FixedStep},
		{"city.ground_size", c.City.GroundSize},
		{"city.min_height", c.City.MinHeight},
		{"city.min_width", c.City.MinWidth},
	}
	for _, f := range positive {
		if f.value <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %v", ErrInvalid, f.name, f.value)
		}
	}

	if p.Damping < 0 || p.Damping > 1 {
		return fmt.Errorf("%w: player.damping must be in [0,1], got %v", ErrInvalid, p.Damping)
	}
	if p.LinearDamping < 0 || p.LinearDamping >= 1 {
		return fmt.Errorf("%w: player.linear_damping must be in [0,1), got %v", ErrInvalid, p.LinearDamping)
	}
	if c.Camera.Smoothing <= 0 || c.Camera.Smoothing > 1 {
		return fmt.Errorf("%w: camera.smoothing must be in (0,1], got %v", ErrInvalid, c.Camera.Smoothing)
	}
	if c.Camera.Far <= c.Camera.Near {
		return fmt.Errorf("%w: camera.far must exceed camera.near", ErrInvalid)
	}
	if c.Physics.MaxSubSteps < 1 {
		return fmt.Errorf("%w: physics.max_sub_steps must be at least 1", ErrInvalid)
	}
	if c.City.Buildings < 0 || c.City.NeonLights < 0 {
		return fmt.Errorf("%w: city counts must not be negative", ErrInvalid)
	}
	if c.City.MaxHeight < c.City.MinHeight || c.City.MaxWidth < c.City.MinWidth {
		return fmt.Errorf("%w: city max dimensions must not be below the minimums", ErrInvalid)
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("%w: window size must be positive", ErrInvalid)
	}
	return nil
}
