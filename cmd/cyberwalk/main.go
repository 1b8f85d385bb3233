package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/sirupsen/logrus"

	"cyberwalk/config"
	"cyberwalk/internal/city"
	"cyberwalk/internal/input"
	"cyberwalk/internal/logging"
	"cyberwalk/internal/physics"
	"cyberwalk/internal/player"
	"cyberwalk/internal/ui"
	"cyberwalk/renderer"
	"cyberwalk/scene"
	"cyberwalk/window"
)

const (
	maxFrameTime = 0.05 // seconds; longer frames are clamped
	readoutX     = 10
	readoutY     = 10
)

func main() {
	configPath := flag.String("config", "", "optional TOML config file")
	writeConfig := flag.String("write-config", "", "write the default config to this path and exit")
	logLevel := flag.String("log-level", "", "log level (overrides the config file)")
	seed := flag.String("seed", "", "city seed (overrides the config file)")
	flag.Parse()

	if *writeConfig != "" {
		if err := config.Save(*writeConfig, config.Default()); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	if *seed != "" {
		cfg.City.Seed = *seed
	}

	log, err := logging.New(cfg.Log.Level)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("invalid config")
	}

	if err := run(cfg, log); err != nil {
		log.WithError(err).Fatal("cyberwalk")
	}
}

func run(cfg config.Config, log *logrus.Logger) error {
	win, err := window.New(window.Config{
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Title:      cfg.Window.Title,
		Resizable:  true,
		VSync:      cfg.Window.VSync,
		Fullscreen: cfg.Window.Fullscreen,
	})
	if err != nil {
		return fmt.Errorf("window: %w", err)
	}
	defer win.Destroy()

	renderEngine, err := renderer.NewRenderEngine(win, log)
	if err != nil {
		return err
	}
	defer renderEngine.Destroy()

	// ── Scene setup ───────────────────────────────────────────────────────────
	sc := scene.NewScene()
	camera := scene.NewCamera(cfg.Camera.FOV, float32(win.Width)/float32(win.Height), cfg.Camera.Near, cfg.Camera.Far)
	camera.SetPosition(cfg.Camera.Start.Mgl())
	sc.SetCamera(camera)

	world := physics.NewWorld(cfg.City.GroundSize, mgl32.Vec3{0, cfg.Physics.Gravity, 0}, cfg.Physics.FixedStep, cfg.Physics.MaxSubSteps)

	layout := city.Generate(cfg.City)
	city.Build(sc, world, layout, cfg.City, log)

	pc := cfg.Player
	body := physics.NewBody(pc.Spawn.Mgl(), pc.Mass, pc.Radius, pc.Height, pc.LinearDamping)
	world.AddBody(body)

	controller, err := player.NewController(body, pc, log)
	if err != nil {
		return err
	}
	avatar := player.NewAvatar(pc, cfg.Avatar, log)
	sc.AddNode(avatar)
	rig := player.NewCameraRig(cfg.Camera, log)

	board, err := ui.NewBoard(cfg.Posts, log)
	if err != nil {
		return err
	}
	sc.AddNode(board.Root())

	readout, err := ui.NewReadout()
	if err != nil {
		return err
	}

	renderEngine.SetScene(sc)

	// ── Input wiring ──────────────────────────────────────────────────────────
	in := input.NewState(input.DefaultBindings())
	var cursorX, cursorY float64

	setPointerLock := func(locked bool) {
		win.SetPointerLock(locked)
		in.SetPointerLocked(locked)
		log.WithField("locked", locked).Debug("pointer lock")
	}

	win.OnKey(func(key int, action window.KeyAction) {
		switch action {
		case window.Press:
			if key == input.KeyEscape {
				if in.PointerLocked() {
					setPointerLock(false)
				} else {
					win.SetShouldClose(true)
				}
				return
			}
			in.KeyDown(key)
		case window.Release:
			in.KeyUp(key)
		}
	})
	win.OnMouseButton(func(button int, pressed bool) {
		if button != input.MouseButtonLeft || !pressed {
			return
		}
		if board.Hovered() != nil {
			board.Click()
		}
		if !in.PointerLocked() {
			setPointerLock(true)
		}
	})
	win.OnCursorMove(func(x, y float64) {
		cursorX, cursorY = x, y
		in.CursorMoved(x, y)
	})
	win.OnResize(func(width, height int) {
		renderEngine.Resize(width, height)
	})

	log.WithFields(logrus.Fields{
		"seed":      cfg.City.Seed,
		"buildings": len(layout.Buildings),
		"strategy":  pc.Strategy,
	}).Info("cyberwalk started, click to capture the mouse")

	// ── Main loop ─────────────────────────────────────────────────────────────
	lastTime := time.Now()
	fps := 0.0
	fpsCounter := 0
	fpsLastTime := lastTime

	for !win.ShouldClose() {
		now := time.Now()
		deltaTime := float32(now.Sub(lastTime).Seconds())
		lastTime = now
		if deltaTime > maxFrameTime {
			deltaTime = maxFrameTime
		}

		win.PollEvents()

		world.Step(deltaTime)

		controller.Move(in)
		controller.Turn(in)
		controller.Sync(avatar)

		rig.HandleInput(in)
		avatar.Visible = rig.AvatarVisible()
		rig.Place(camera, body.Position, controller.Orientation())

		rayOrigin, rayDir := pickRay(camera, in.PointerLocked(), win, cursorX, cursorY)
		board.Update(deltaTime, camera, rayOrigin, rayDir)

		updateReadout(readout, in, controller, rig, fps)
		readout.Refresh()

		if err := renderEngine.Render(); err != nil {
			return err
		}
		renderEngine.DrawOverlay(readout.Texture, readoutX, readoutY)
		renderEngine.Present()

		in.EndFrame()

		fpsCounter++
		if elapsed := now.Sub(fpsLastTime); elapsed >= time.Second {
			fps = float64(fpsCounter) / elapsed.Seconds()
			objects, _, triangles, culled := renderEngine.DrawStats()
			log.WithFields(logrus.Fields{
				"fps":       fmt.Sprintf("%.1f", fps),
				"objects":   objects,
				"triangles": triangles,
				"culled":    culled,
			}).Debug("frame stats")
			fpsCounter = 0
			fpsLastTime = now
		}
	}
	return nil
}

// pickRay aims through the screen centre while the pointer is locked and
// through the cursor otherwise.
func pickRay(cam *scene.Camera, locked bool, win *window.Window, x, y float64) (mgl32.Vec3, mgl32.Vec3) {
	if locked {
		return cam.ScreenRay(0, 0)
	}
	w, h := win.Size()
	if w == 0 || h == 0 {
		return cam.ScreenRay(0, 0)
	}
	ndcX := float32(x/float64(w))*2 - 1
	ndcY := 1 - float32(y/float64(h))*2
	return cam.ScreenRay(ndcX, ndcY)
}
