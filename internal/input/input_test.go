package input

import "testing"

func TestHeldAndEdges(t *testing.T) {
	s := NewState(nil)

	s.KeyDown(KeyW)
	if !s.Held(MoveForward) {
		t.Fatal("W should hold MoveForward")
	}
	if !s.JustPressed(MoveForward) {
		t.Error("first frame of W should be a rising edge")
	}
	s.EndFrame()

	if s.JustPressed(MoveForward) {
		t.Error("held W must not produce a second edge")
	}
	if !s.Held(MoveForward) {
		t.Error("MoveForward should stay held across frames")
	}

	s.KeyUp(KeyW)
	if s.Held(MoveForward) {
		t.Error("MoveForward should be released")
	}
}

func TestTapBetweenFramesIsLatched(t *testing.T) {
	s := NewState(nil)
	s.KeyDown(KeySpace)
	s.KeyUp(KeySpace)

	if s.Held(Jump) {
		t.Error("Jump should not be held after release")
	}
	if !s.JustPressed(Jump) {
		t.Error("a tap inside one frame should still be a rising edge")
	}
	s.EndFrame()
	if s.JustPressed(Jump) {
		t.Error("latch should clear at EndFrame")
	}
}

func TestSharedBinding(t *testing.T) {
	s := NewState(nil)
	s.KeyDown(KeyLeftShift)
	s.KeyDown(KeyRightShift)
	s.KeyUp(KeyLeftShift)

	if !s.Held(Sprint) {
		t.Error("Sprint should stay held while the right shift is down")
	}
	s.KeyUp(KeyRightShift)
	if s.Held(Sprint) {
		t.Error("Sprint should release with both shifts up")
	}
}

func TestRepeatedKeyDownIsIgnored(t *testing.T) {
	s := NewState(nil)
	s.KeyDown(KeyF)
	s.EndFrame()
	s.KeyDown(KeyF)

	if s.JustPressed(ToggleCamera) {
		t.Error("a second KeyDown without KeyUp must not create an edge")
	}
}

func TestUnboundKeys(t *testing.T) {
	s := NewState(nil)
	s.KeyDown(KeyEscape)
	s.KeyUp(KeyEscape)
	if len(s.HeldActions()) != 0 {
		t.Errorf("unbound key changed state: %v", s.HeldActions())
	}
}

func TestMouseDeltaOnlyWhileLocked(t *testing.T) {
	s := NewState(nil)

	s.CursorMoved(100, 100)
	s.CursorMoved(150, 90)
	if dx, dy := s.ConsumeMouseDelta(); dx != 0 || dy != 0 {
		t.Errorf("unlocked motion should be ignored, got (%v, %v)", dx, dy)
	}

	s.SetPointerLocked(true)
	s.CursorMoved(150, 90) // primes
	s.CursorMoved(160, 95)
	s.CursorMoved(175, 85)

	dx, dy := s.ConsumeMouseDelta()
	if dx != 25 || dy != -5 {
		t.Errorf("expected delta (25, -5), got (%v, %v)", dx, dy)
	}
	if dx, dy := s.ConsumeMouseDelta(); dx != 0 || dy != 0 {
		t.Errorf("delta should reset after consume, got (%v, %v)", dx, dy)
	}
}

func TestRelockDoesNotJump(t *testing.T) {
	s := NewState(nil)
	s.SetPointerLocked(true)
	s.CursorMoved(0, 0)
	s.CursorMoved(10, 0)
	s.SetPointerLocked(false)

	if dx, _ := s.ConsumeMouseDelta(); dx != 0 {
		t.Errorf("unlock should drop pending motion, got %v", dx)
	}

	s.SetPointerLocked(true)
	s.CursorMoved(500, 0)
	if dx, _ := s.ConsumeMouseDelta(); dx != 0 {
		t.Errorf("first sample after relock should only prime, got %v", dx)
	}
}

func TestHeldActionsOrder(t *testing.T) {
	s := NewState(nil)
	s.KeyDown(KeyF)
	s.KeyDown(KeyD)
	s.KeyDown(KeyW)

	got := s.HeldActions()
	want := []Action{MoveForward, StrafeRight, ToggleCamera}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d: expected %v, got %v", i, want[i], got[i])
		}
	}
	if MoveForward.String() != "MoveForward" || Action(99).String() != "Unknown" {
		t.Error("Action.String mismatch")
	}
}
