package player

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/sirupsen/logrus"

	"cyberwalk/config"
	"cyberwalk/internal/input"
	"cyberwalk/scene"
)

type CameraMode int

const (
	ThirdPerson CameraMode = iota
	FirstPerson
)

func (m CameraMode) String() string {
	if m == FirstPerson {
		return "first person"
	}
	return "third person"
}

// CameraRig places the view camera relative to the avatar.
type CameraRig struct {
	Mode         CameraMode
	HeadHeight   float32
	FollowOffset mgl32.Vec3 // behind and above, in avatar space
	Smoothing    float32    // lerp factor per frame, third person only

	log logrus.FieldLogger
}

func NewCameraRig(cfg config.CameraConfig, log logrus.FieldLogger) *CameraRig {
	return &CameraRig{
		Mode:         ThirdPerson,
		HeadHeight:   cfg.HeadHeight,
		FollowOffset: cfg.FollowOffset.Mgl(),
		Smoothing:    cfg.Smoothing,
		log:          log,
	}
}

// HandleInput toggles the mode on the rising edge of ToggleCamera.
func (r *CameraRig) HandleInput(in *input.State) {
	if in.JustPressed(input.ToggleCamera) {
		r.Toggle()
	}
}

func (r *CameraRig) Toggle() CameraMode {
	if r.Mode == FirstPerson {
		r.Mode = ThirdPerson
	} else {
		r.Mode = FirstPerson
	}
	r.log.WithField("mode", r.Mode).Info("camera mode")
	return r.Mode
}

// AvatarVisible is false in first person, where the head would fill the view.
func (r *CameraRig) AvatarVisible() bool {
	return r.Mode != FirstPerson
}

// Place moves cam for this frame given the avatar position and facing.
func (r *CameraRig) Place(cam *scene.Camera, avatar mgl32.Vec3, facing mgl32.Quat) {
	switch r.Mode {
	case FirstPerson:
		cam.SetPosition(avatar.Add(mgl32.Vec3{0, r.HeadHeight, 0}))
		cam.SetRotation(facing)
	default:
		target := avatar.Add(facing.Rotate(r.FollowOffset))
		cam.SetPosition(lerp(cam.Position, target, r.Smoothing))
		cam.LookAt(avatar)
	}
}

func lerp(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}
