// Package input turns raw key and cursor events into per-frame action state.
// Event callbacks only set flags and accumulate deltas; the frame driver
// reads the state and calls EndFrame once per frame.
package input

// Action is a logical player action.
type Action int

const (
	MoveForward Action = iota
	MoveBack
	StrafeLeft
	StrafeRight
	Sprint
	Jump
	ToggleCamera
	ActionCount // must be last
)

var actionNames = [ActionCount]string{
	MoveForward:  "MoveForward",
	MoveBack:     "MoveBack",
	StrafeLeft:   "StrafeLeft",
	StrafeRight:  "StrafeRight",
	Sprint:       "Sprint",
	Jump:         "Jump",
	ToggleCamera: "ToggleCamera",
}

func (a Action) String() string {
	if a < 0 || a >= ActionCount {
		return "Unknown"
	}
	return actionNames[a]
}

// Key codes use GLFW's numbering so window callbacks pass through unchanged.
const (
	KeySpace      = 32
	KeyA          = 65
	KeyD          = 68
	KeyF          = 70
	KeyS          = 83
	KeyW          = 87
	KeyEscape     = 256
	KeyLeftShift  = 340
	KeyRightShift = 344

	MouseButtonLeft = 0
)

// Bindings maps physical keys to actions. Several keys may share an action.
type Bindings map[int]Action

func DefaultBindings() Bindings {
	return Bindings{
		KeyW:          MoveForward,
		KeyS:          MoveBack,
		KeyA:          StrafeLeft,
		KeyD:          StrafeRight,
		KeyLeftShift:  Sprint,
		KeyRightShift: Sprint,
		KeySpace:      Jump,
		KeyF:          ToggleCamera,
	}
}

// State is the input snapshot owned by the frame driver.
type State struct {
	Bindings Bindings

	Current  [ActionCount]bool
	Previous [ActionCount]bool

	// pressed latches a press seen since the last EndFrame, so a tap that
	// starts and ends between two frames still yields one rising edge.
	pressed [ActionCount]bool
	keyDown map[int]bool

	pointerLocked bool
	primed        bool
	lastX, lastY  float64
	mouseDX       float64
	mouseDY       float64
}

func NewState(b Bindings) *State {
	if b == nil {
		b = DefaultBindings()
	}
	return &State{
		Bindings: b,
		keyDown:  make(map[int]bool),
	}
}

// KeyDown records a key press. Auto-repeat must not be forwarded here.
func (s *State) KeyDown(key int) {
	action, ok := s.Bindings[key]
	if !ok || s.keyDown[key] {
		return
	}
	s.keyDown[key] = true
	if !s.Current[action] {
		s.pressed[action] = true
	}
	s.Current[action] = true
}

func (s *State) KeyUp(key int) {
	action, ok := s.Bindings[key]
	if !ok || !s.keyDown[key] {
		return
	}
	delete(s.keyDown, key)
	s.Current[action] = s.anyKeyDown(action)
}

func (s *State) anyKeyDown(action Action) bool {
	for key := range s.keyDown {
		if s.Bindings[key] == action {
			return true
		}
	}
	return false
}

// Held reports whether the action is currently held.
func (s *State) Held(a Action) bool {
	return s.Current[a]
}

// JustPressed reports a rising edge since the previous frame.
func (s *State) JustPressed(a Action) bool {
	return s.pressed[a] || (s.Current[a] && !s.Previous[a])
}

// HeldActions returns the held actions in declaration order.
func (s *State) HeldActions() []Action {
	var held []Action
	for a := Action(0); a < ActionCount; a++ {
		if s.Current[a] {
			held = append(held, a)
		}
	}
	return held
}

// SetPointerLocked switches mouse-look capture. The next cursor sample after
// locking only primes the reference position.
func (s *State) SetPointerLocked(locked bool) {
	if locked && !s.pointerLocked {
		s.primed = false
	}
	if !locked {
		s.mouseDX, s.mouseDY = 0, 0
	}
	s.pointerLocked = locked
}

func (s *State) PointerLocked() bool {
	return s.pointerLocked
}

// CursorMoved accumulates relative motion while the pointer is locked and
// ignores it otherwise.
func (s *State) CursorMoved(x, y float64) {
	if !s.pointerLocked {
		return
	}
	if !s.primed {
		s.lastX, s.lastY = x, y
		s.primed = true
		return
	}
	s.mouseDX += x - s.lastX
	s.mouseDY += y - s.lastY
	s.lastX, s.lastY = x, y
}

// ConsumeMouseDelta returns the motion accumulated since the last call and
// resets it to zero.
func (s *State) ConsumeMouseDelta() (dx, dy float32) {
	dx, dy = float32(s.mouseDX), float32(s.mouseDY)
	s.mouseDX, s.mouseDY = 0, 0
	return dx, dy
}

// EndFrame rolls Current into Previous and clears press latches.
func (s *State) EndFrame() {
	s.Previous = s.Current
	s.pressed = [ActionCount]bool{}
}
