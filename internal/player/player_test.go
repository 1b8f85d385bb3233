package player

import (
	"errors"
	"math"
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"cyberwalk/config"
	"cyberwalk/internal/input"
	"cyberwalk/internal/logging"
	"cyberwalk/internal/physics"
	"cyberwalk/scene"
)

const dt = float32(1.0 / 60.0)

func near(a, b, eps float32) bool {
	return math.Abs(float64(a-b)) <= float64(eps)
}

func newTestController(t *testing.T, strategy string) (*Controller, *input.State) {
	t.Helper()
	cfg := config.Default().Player
	cfg.Strategy = strategy
	body := physics.NewBody(mgl32.Vec3{0, 0.75, 0}, cfg.Mass, cfg.Radius, cfg.Height, 0)
	ctl, err := NewController(body, cfg, logging.Discard())
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}
	return ctl, input.NewState(nil)
}

func TestNewControllerRejectsUnknownStrategy(t *testing.T) {
	cfg := config.Default().Player
	cfg.Strategy = "teleport"
	_, err := NewController(physics.NewBody(mgl32.Vec3{}, 5, 0.5, 1.5, 0), cfg, logging.Discard())
	if !errors.Is(err, config.ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}
}

// ── Orientation ──

func TestOrientationStaysYawOnly(t *testing.T) {
	ctl, in := newTestController(t, config.StrategyVelocity)
	in.SetPointerLocked(true)
	in.CursorMoved(0, 0)

	rng := rand.New(rand.NewSource(7))
	x, y := 0.0, 0.0
	for frame := 0; frame < 500; frame++ {
		x += rng.Float64()*200 - 100
		y += rng.Float64()*200 - 100
		in.CursorMoved(x, y)
		ctl.Body.Orientation = mgl32.QuatRotate(0.3, mgl32.Vec3{1, 0, 0})

		ctl.Turn(in)

		q := ctl.Orientation()
		if q.V.X() != 0 || q.V.Z() != 0 {
			t.Fatalf("frame %d: orientation has pitch or roll: %v", frame, q)
		}
		if !near(q.Len(), 1, 1e-5) {
			t.Fatalf("frame %d: orientation not unit: %v", frame, q.Len())
		}
		if !near(ctl.Forward().Y(), 0, 1e-6) {
			t.Fatalf("frame %d: forward leaves the ground plane: %v", frame, ctl.Forward())
		}
		if ctl.Body.Orientation != mgl32.QuatIdent() {
			t.Fatalf("frame %d: body orientation not reset: %v", frame, ctl.Body.Orientation)
		}
		if math.Abs(float64(ctl.Yaw)) > math.Pi+1e-6 {
			t.Fatalf("frame %d: yaw %v not wrapped", frame, ctl.Yaw)
		}
	}
}

func TestMouseRightTurnsRight(t *testing.T) {
	ctl, in := newTestController(t, config.StrategyVelocity)
	in.SetPointerLocked(true)
	in.CursorMoved(100, 100)
	in.CursorMoved(110, 80)

	ctl.Turn(in)
	if !near(ctl.Yaw, -0.1, 1e-6) {
		t.Errorf("10px right at 0.01 rad/px: expected yaw -0.1, got %v", ctl.Yaw)
	}
	if ctl.Forward().X() <= 0 {
		t.Errorf("turning right should swing forward toward +X, got %v", ctl.Forward())
	}
	if r := ctl.Right(); !near(r.Dot(ctl.Forward()), 0, 1e-6) || r.Z() <= 0 {
		t.Errorf("right should stay perpendicular and swing toward +Z, got %v", r)
	}

	if dx, dy := in.ConsumeMouseDelta(); dx != 0 || dy != 0 {
		t.Errorf("Turn should consume the delta, left %v,%v", dx, dy)
	}
}

func TestMouseIgnoredWithoutPointerLock(t *testing.T) {
	ctl, in := newTestController(t, config.StrategyVelocity)
	in.CursorMoved(0, 0)
	in.CursorMoved(500, 0)
	ctl.Turn(in)
	if ctl.Yaw != 0 {
		t.Errorf("unlocked mouse should not turn, got yaw %v", ctl.Yaw)
	}
}

func TestWrapAngle(t *testing.T) {
	tests := []struct{ in, want float32 }{
		{0, 0},
		{1, 1},
		{math.Pi + 0.5, -math.Pi + 0.5},
		{-math.Pi - 0.5, math.Pi - 0.5},
		{3*math.Pi + 0.5, -math.Pi + 0.5},
	}
	for _, tt := range tests {
		if got := wrapAngle(tt.in); !near(got, tt.want, 1e-5) {
			t.Errorf("wrapAngle(%v): expected %v, got %v", tt.in, tt.want, got)
		}
	}
}

// ── Movement ──

func TestVelocityModeStopsImmediately(t *testing.T) {
	ctl, in := newTestController(t, config.StrategyVelocity)
	ctl.Body.Velocity = mgl32.Vec3{3, -1, 4}

	ctl.Move(in)
	if ctl.Body.Velocity.X() != 0 || ctl.Body.Velocity.Z() != 0 {
		t.Errorf("no input: expected zero horizontal velocity, got %v", ctl.Body.Velocity)
	}
	if ctl.Body.Velocity.Y() != -1 {
		t.Errorf("vertical velocity must be left alone, got %v", ctl.Body.Velocity.Y())
	}
}

func TestVelocityModeSpeeds(t *testing.T) {
	tests := []struct {
		name   string
		keys   []int
		yaw    float32
		want   mgl32.Vec3
		sprint bool
	}{
		{"forward", []int{input.KeyW}, 0, mgl32.Vec3{0, 0, -5}, false},
		{"back", []int{input.KeyS}, 0, mgl32.Vec3{0, 0, 5}, false},
		{"strafe left", []int{input.KeyA}, 0, mgl32.Vec3{-5, 0, 0}, false},
		{"forward turned right", []int{input.KeyW}, -math.Pi / 2, mgl32.Vec3{5, 0, 0}, false},
		{"diagonal", []int{input.KeyW, input.KeyD}, 0, mgl32.Vec3{5 / math.Sqrt2, 0, -5 / math.Sqrt2}, false},
		{"opposing cancel", []int{input.KeyW, input.KeyS}, 0, mgl32.Vec3{}, false},
		{"sprint", []int{input.KeyW, input.KeyLeftShift}, 0, mgl32.Vec3{0, 0, -10}, true},
		{"sprint alone", []int{input.KeyRightShift}, 0, mgl32.Vec3{}, true},
	}
	for _, tt := range tests {
		ctl, in := newTestController(t, config.StrategyVelocity)
		ctl.Yaw = tt.yaw
		for _, k := range tt.keys {
			in.KeyDown(k)
		}
		ctl.Move(in)

		got := mgl32.Vec3{ctl.Body.Velocity.X(), 0, ctl.Body.Velocity.Z()}
		if !got.ApproxEqualThreshold(tt.want, 1e-5) {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.want, got)
		}
		if ctl.Sprinting != tt.sprint {
			t.Errorf("%s: expected Sprinting %v", tt.name, tt.sprint)
		}
	}
}

func TestImpulseModeOpposingKeysBothApply(t *testing.T) {
	ctl, in := newTestController(t, config.StrategyImpulse)
	in.KeyDown(input.KeyW)
	ctl.Move(in)

	// 10 / mass 5 = 2, then damped by 0.9.
	if !near(ctl.Body.Velocity.Z(), -1.8, 1e-5) {
		t.Errorf("forward impulse: expected vz -1.8, got %v", ctl.Body.Velocity.Z())
	}

	ctl.Body.Velocity = mgl32.Vec3{}
	in.KeyDown(input.KeyS)
	ctl.Move(in)
	if !near(ctl.Body.Velocity.Z(), 0, 1e-6) {
		t.Errorf("W and S together should cancel, got vz %v", ctl.Body.Velocity.Z())
	}
}

func TestImpulseModeDecays(t *testing.T) {
	ctl, in := newTestController(t, config.StrategyImpulse)
	ctl.Body.Velocity = mgl32.Vec3{10, 0, -10}

	frames := 0
	for ; frames < 200; frames++ {
		h := mgl32.Vec2{ctl.Body.Velocity.X(), ctl.Body.Velocity.Z()}
		if h.Len() < 0.01 {
			break
		}
		ctl.Move(in)
	}
	if frames >= 200 {
		t.Fatalf("horizontal velocity did not decay: %v", ctl.Body.Velocity)
	}
	// 14.14 * 0.9^n < 0.01 needs n = 69.
	if frames != 69 {
		t.Errorf("expected decay below 0.01 after 69 frames, took %d", frames)
	}
}

func TestMoveForwardDisplacement(t *testing.T) {
	cfg := config.Default()
	ctl, in := newTestController(t, config.StrategyVelocity)
	ctl.Yaw = 0.6
	world := physics.NewWorld(cfg.City.GroundSize, mgl32.Vec3{0, cfg.Physics.Gravity, 0}, dt, cfg.Physics.MaxSubSteps)
	world.AddBody(ctl.Body)

	start := ctl.Body.Position
	in.KeyDown(input.KeyW)
	const frames = 90
	for i := 0; i < frames; i++ {
		ctl.Move(in)
		ctl.Turn(in)
		world.Step(dt)
		in.EndFrame()
	}

	want := ctl.Forward().Mul(cfg.Player.WalkSpeed * frames * dt)
	got := ctl.Body.Position.Sub(start)
	if !got.ApproxEqualThreshold(want, 1e-3) {
		t.Errorf("expected displacement %v, got %v", want, got)
	}
}

// ── Jumping ──

func TestJumpOncePerPress(t *testing.T) {
	for _, strategy := range []string{config.StrategyVelocity, config.StrategyImpulse} {
		ctl, in := newTestController(t, strategy)

		in.KeyDown(input.KeySpace)
		ctl.Move(in)
		if !near(ctl.Body.Velocity.Y(), 8, 1e-5) {
			t.Errorf("%s: expected jump vy 8, got %v", strategy, ctl.Body.Velocity.Y())
		}
		if ctl.CanJump {
			t.Errorf("%s: CanJump must be false right after a jump", strategy)
		}
		in.EndFrame()

		// Land while the key is still held.
		ctl.Body.Velocity[1] = 0
		for i := 0; i < 5; i++ {
			ctl.Move(in)
			in.EndFrame()
		}
		if ctl.Body.Velocity.Y() != 0 {
			t.Errorf("%s: holding jump must not jump again, vy %v", strategy, ctl.Body.Velocity.Y())
		}
		if !ctl.CanJump {
			t.Errorf("%s: CanJump should be restored on the ground", strategy)
		}

		in.KeyUp(input.KeySpace)
		in.KeyDown(input.KeySpace)
		ctl.Move(in)
		if !near(ctl.Body.Velocity.Y(), 8, 1e-5) {
			t.Errorf("%s: a fresh press on the ground should jump, vy %v", strategy, ctl.Body.Velocity.Y())
		}
	}
}

func TestJumpIgnoredWhileCanJumpFalse(t *testing.T) {
	ctl, in := newTestController(t, config.StrategyVelocity)
	ctl.Body.Position[1] = 3
	ctl.Body.Velocity[1] = 2
	ctl.CanJump = false

	in.KeyDown(input.KeySpace)
	ctl.Move(in)
	if ctl.Body.Velocity.Y() != 2 {
		t.Errorf("jump while airborne changed vy to %v", ctl.Body.Velocity.Y())
	}
}

func TestCanJumpWaitsForGroundCondition(t *testing.T) {
	cfg := config.Default()
	ctl, in := newTestController(t, config.StrategyVelocity)
	world := physics.NewWorld(cfg.City.GroundSize, mgl32.Vec3{0, cfg.Physics.Gravity, 0}, dt, cfg.Physics.MaxSubSteps)
	world.AddBody(ctl.Body)

	in.KeyDown(input.KeySpace)
	ctl.Move(in)
	in.EndFrame()
	in.KeyUp(input.KeySpace)

	landed := false
	for i := 0; i < 180; i++ {
		world.Step(dt)
		grounded := ctl.Body.Position.Y() < cfg.Player.GroundThreshold && ctl.Body.Velocity.Y() < cfg.Player.RestVelocity
		ctl.Move(in)
		if ctl.CanJump != grounded && !landed {
			t.Fatalf("frame %d: CanJump %v but ground condition %v (y %v vy %v)",
				i, ctl.CanJump, grounded, ctl.Body.Position.Y(), ctl.Body.Velocity.Y())
		}
		if ctl.CanJump {
			landed = true
		}
		in.EndFrame()
	}
	if !landed {
		t.Error("CanJump never came back after landing")
	}
}

// ── Camera ──

func TestCameraToggle(t *testing.T) {
	rig := NewCameraRig(config.Default().Camera, logging.Discard())
	if rig.Mode != ThirdPerson {
		t.Fatalf("initial mode should be third person, got %v", rig.Mode)
	}

	for i := 1; i <= 6; i++ {
		rig.Toggle()
		want := ThirdPerson
		if i%2 == 1 {
			want = FirstPerson
		}
		if rig.Mode != want {
			t.Errorf("after %d toggles: expected %v, got %v", i, want, rig.Mode)
		}
	}
}

func TestCameraToggleOnEdgeOnly(t *testing.T) {
	rig := NewCameraRig(config.Default().Camera, logging.Discard())
	in := input.NewState(nil)

	in.KeyDown(input.KeyF)
	for i := 0; i < 10; i++ {
		rig.HandleInput(in)
		in.EndFrame()
	}
	if rig.Mode != FirstPerson {
		t.Errorf("held toggle key should flip once, got %v", rig.Mode)
	}
	if rig.AvatarVisible() {
		t.Error("avatar should be hidden in first person")
	}
}

func TestFirstPersonPlacement(t *testing.T) {
	rig := NewCameraRig(config.Default().Camera, logging.Discard())
	rig.Toggle()
	cam := scene.NewCamera(75, 1, 0.1, 1000)

	avatar := mgl32.Vec3{2, 0.75, -3}
	facing := mgl32.QuatRotate(0.4, mgl32.Vec3{0, 1, 0})
	rig.Place(cam, avatar, facing)

	if !cam.Position.ApproxEqualThreshold(mgl32.Vec3{2, 1.95, -3}, 1e-5) {
		t.Errorf("expected camera at head height, got %v", cam.Position)
	}
	if !cam.Rotation.ApproxEqualThreshold(facing, 1e-5) {
		t.Errorf("expected camera rotation to match facing, got %v", cam.Rotation)
	}
}

func TestThirdPersonSmoothing(t *testing.T) {
	cfg := config.Default().Camera
	rig := NewCameraRig(cfg, logging.Discard())
	cam := scene.NewCamera(75, 1, 0.1, 1000)
	cam.SetPosition(cfg.Start.Mgl())

	avatar := mgl32.Vec3{0, 0.75, 0}
	facing := mgl32.QuatIdent()
	rig.Place(cam, avatar, facing)

	// (0,5,10) toward (0,2.75,5) by 0.1.
	if !cam.Position.ApproxEqualThreshold(mgl32.Vec3{0, 4.775, 9.5}, 1e-5) {
		t.Errorf("first smoothed step: got %v", cam.Position)
	}
	toAvatar := avatar.Sub(cam.Position).Normalize()
	if !cam.GetForward().ApproxEqualThreshold(toAvatar, 1e-4) {
		t.Errorf("camera should look at the avatar: forward %v, want %v", cam.GetForward(), toAvatar)
	}

	turned := mgl32.QuatRotate(math.Pi/2, mgl32.Vec3{0, 1, 0})
	for i := 0; i < 300; i++ {
		rig.Place(cam, avatar, turned)
	}
	want := avatar.Add(turned.Rotate(cfg.FollowOffset.Mgl()))
	if !cam.Position.ApproxEqualThreshold(want, 1e-3) {
		t.Errorf("camera should settle behind the avatar at %v, got %v", want, cam.Position)
	}
}

// ── Sync ──

func TestSyncCopiesBodyToNode(t *testing.T) {
	ctl, _ := newTestController(t, config.StrategyVelocity)
	ctl.Body.Position = mgl32.Vec3{1, 2, 3}
	ctl.Yaw = 1.2

	node := scene.NewNode("avatar")
	ctl.Sync(node)
	if node.Transform.Position != ctl.Body.Position {
		t.Errorf("node position %v, body %v", node.Transform.Position, ctl.Body.Position)
	}
	if !node.Transform.Rotation.ApproxEqualThreshold(ctl.Orientation(), 1e-6) {
		t.Errorf("node rotation %v, facing %v", node.Transform.Rotation, ctl.Orientation())
	}

	node.SetPosition(mgl32.Vec3{9, 9, 9})
	if ctl.Body.Position != (mgl32.Vec3{1, 2, 3}) {
		t.Error("moving the node must not move the body")
	}
}

// ── Avatar ──

func TestAvatarPrimitives(t *testing.T) {
	cfg := config.Default()
	avatar := NewAvatar(cfg.Player, cfg.Avatar, logging.Discard())
	if len(avatar.Children) != 2 {
		t.Fatalf("expected body and head, got %d children", len(avatar.Children))
	}
	head := avatar.Find("avatar_head")
	if head == nil || head.Transform.Position.Y() != 1.2 {
		t.Errorf("head should sit at y 1.2")
	}
}

func TestAvatarMissingModelFallsBack(t *testing.T) {
	cfg := config.Default()
	cfg.Avatar.Model = "testdata/does-not-exist.glb"
	avatar := NewAvatar(cfg.Player, cfg.Avatar, logging.Discard())
	if avatar.Find("avatar_body") == nil {
		t.Error("failed model load should keep the primitive body")
	}
}

func TestAvatarLoadsModel(t *testing.T) {
	doc := gltf.NewDocument()
	pos := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 2, 0}})
	doc.Meshes = []*gltf.Mesh{{Name: "suit", Primitives: []*gltf.Primitive{
		{Attributes: gltf.PrimitiveAttributes{gltf.POSITION: pos}},
	}}}
	doc.Nodes = []*gltf.Node{{Name: "suit", Mesh: gltf.Index(0)}}
	doc.Scenes[0].Nodes = []int{0}
	path := filepath.Join(t.TempDir(), "suit.glb")
	if err := gltf.SaveBinary(doc, path); err != nil {
		t.Fatalf("save model: %v", err)
	}

	cfg := config.Default()
	cfg.Avatar.Model = path
	cfg.Avatar.Scale = 0.5
	avatar := NewAvatar(cfg.Player, cfg.Avatar, logging.Discard())

	if avatar.Find("avatar_body") != nil || avatar.Find("avatar_head") != nil {
		t.Error("a loaded model should replace the primitives")
	}
	holder := avatar.Find("avatar_model")
	if holder == nil || holder.Parent != avatar {
		t.Fatal("expected an avatar_model holder under the avatar group")
	}
	if holder.Transform.Scale != (mgl32.Vec3{0.5, 0.5, 0.5}) {
		t.Errorf("holder scale: expected 0.5, got %v", holder.Transform.Scale)
	}
	if want := -cfg.Player.Height / 2; holder.Transform.Position != (mgl32.Vec3{0, want, 0}) {
		t.Errorf("holder offset: expected feet at y %v, got %v", want, holder.Transform.Position)
	}
	suit := holder.Find("suit")
	if suit == nil || suit.Mesh == nil || len(suit.Mesh.Indices) != 3 {
		t.Fatal("model root should be attached with its triangle")
	}

	// The feet of the model sit at the bottom of the physics body.
	avatar.SetPosition(mgl32.Vec3{0, cfg.Player.Height / 2, 0})
	feet := mgl32.TransformCoordinate(mgl32.Vec3{0, 0, 0}, suit.GetWorldMatrix())
	if !near(feet.Y(), 0, 1e-6) {
		t.Errorf("model origin should land on the ground, got %v", feet)
	}
}
