package window

import (
	"fmt"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
)

func init() {
	runtime.LockOSThread()
}

// KeyAction mirrors glfw.Action without leaking the glfw type to callers.
type KeyAction int

const (
	Release KeyAction = KeyAction(glfw.Release)
	Press   KeyAction = KeyAction(glfw.Press)
	Repeat  KeyAction = KeyAction(glfw.Repeat)
)

type Window struct {
	Handle *glfw.Window
	Width  int
	Height int
	Title  string

	pointerLocked bool

	onKey    func(key int, action KeyAction)
	onButton func(button int, pressed bool)
	onCursor func(x, y float64)
	onResize func(width, height int)
}

type Config struct {
	Width      int
	Height     int
	Title      string
	Resizable  bool
	VSync      bool
	Fullscreen bool
}

// New creates a window with a current OpenGL 4.1 core context.
func New(config Config) (*Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize GLFW: %w", err)
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, boolToInt(config.Resizable))
	glfw.WindowHint(glfw.Samples, 4)

	monitor := (*glfw.Monitor)(nil)
	if config.Fullscreen {
		monitor = glfw.GetPrimaryMonitor()
	}

	handle, err := glfw.CreateWindow(config.Width, config.Height, config.Title, monitor, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("failed to create window: %w", err)
	}
	handle.MakeContextCurrent()
	if config.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	w := &Window{
		Handle: handle,
		Title:  config.Title,
	}
	w.Width, w.Height = handle.GetFramebufferSize()

	handle.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if w.onKey != nil {
			w.onKey(int(key), KeyAction(action))
		}
	})
	handle.SetMouseButtonCallback(func(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
		if w.onButton != nil {
			w.onButton(int(button), action == glfw.Press)
		}
	})
	handle.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		if w.onCursor != nil {
			w.onCursor(x, y)
		}
	})
	handle.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		w.Width = width
		w.Height = height
		if w.onResize != nil {
			w.onResize(width, height)
		}
	})

	return w, nil
}

func (w *Window) ShouldClose() bool {
	return w.Handle.ShouldClose()
}

func (w *Window) SetShouldClose(v bool) {
	w.Handle.SetShouldClose(v)
}

func (w *Window) PollEvents() {
	glfw.PollEvents()
}

func (w *Window) SwapBuffers() {
	w.Handle.SwapBuffers()
}

func (w *Window) Destroy() {
	w.Handle.Destroy()
	glfw.Terminate()
}

// Size returns the window size in screen coordinates, the space cursor
// positions are reported in. It differs from the framebuffer size on HiDPI
// displays.
func (w *Window) Size() (int, int) {
	return w.Handle.GetSize()
}

// SetPointerLock hides and captures the cursor so motion is reported as
// unbounded relative movement. Raw motion is used where the platform has it.
func (w *Window) SetPointerLock(locked bool) {
	if locked {
		w.Handle.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
		if glfw.RawMouseMotionSupported() {
			w.Handle.SetInputMode(glfw.RawMouseMotion, glfw.True)
		}
	} else {
		w.Handle.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
	}
	w.pointerLocked = locked
}

func (w *Window) PointerLocked() bool {
	return w.pointerLocked
}

func (w *Window) OnKey(cb func(key int, action KeyAction)) {
	w.onKey = cb
}

func (w *Window) OnMouseButton(cb func(button int, pressed bool)) {
	w.onButton = cb
}

func (w *Window) OnCursorMove(cb func(x, y float64)) {
	w.onCursor = cb
}

func (w *Window) OnResize(cb func(width, height int)) {
	w.onResize = cb
}

func boolToInt(b bool) int {
	if b {
		return glfw.True
	}
	return glfw.False
}
