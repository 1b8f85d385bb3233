package main

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"cyberwalk/internal/input"
	"cyberwalk/internal/player"
	"cyberwalk/internal/ui"
)

// updateReadout copies the frame's player state into the debug readout.
func updateReadout(r *ui.Readout, in *input.State, c *player.Controller, rig *player.CameraRig, fps float64) {
	held := in.HeldActions()
	names := make([]string, len(held))
	for i, a := range held {
		names[i] = a.String()
	}
	keys := strings.Join(names, ", ")
	if keys == "" {
		keys = "none"
	}

	r.Set(ui.FieldKeys, keys)
	r.Set(ui.FieldPosition, ui.FormatVec(c.Body.Position))
	r.Set(ui.FieldVelocity, ui.FormatVec(c.Body.Velocity))
	r.Set(ui.FieldCamera, rig.Mode.String())
	r.Set(ui.FieldCanJump, fmt.Sprintf("%t", c.CanJump))
	r.Set(ui.FieldYaw, fmt.Sprintf("%.0f deg", mgl32.RadToDeg(c.Yaw)))
	r.Set(ui.FieldFPS, fmt.Sprintf("%.0f", fps))
}
