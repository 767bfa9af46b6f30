package controller

import (
	gomath "math"
	"testing"

	"github.com/Faultbox/hallucination/internal/visualizer"
	"github.com/Faultbox/hallucination/pkg/math"
)

func TestModeKeys(t *testing.T) {
	tests := []struct {
		key  Key
		want visualizer.Mode
	}{
		{KeyBeat, visualizer.BeatReactive},
		{KeyScan, visualizer.SequentialScan},
		{KeyAmbient, visualizer.Ambient},
	}

	c := New(visualizer.Ambient, 60)
	for _, tt := range tests {
		if !c.HandleKey(tt.key) {
			t.Errorf("HandleKey(%d) not handled", tt.key)
		}
		if c.Mode() != tt.want {
			t.Errorf("after key %d mode = %s, want %s", tt.key, c.Mode(), tt.want)
		}
	}
}

func TestLightsToggle(t *testing.T) {
	c := New(visualizer.Ambient, 60)
	if !c.LightsOn() {
		t.Fatal("lights start off")
	}
	c.HandleKey(KeyLights)
	if c.LightsOn() {
		t.Error("lights still on after toggle")
	}
	c.HandleKey(KeyLights)
	if !c.LightsOn() {
		t.Error("lights off after second toggle")
	}
}

func TestMoveKeys(t *testing.T) {
	c := New(visualizer.Ambient, 60)
	start := c.Camera.Position

	c.HandleKey(KeyForward)
	c.HandleKey(KeyForward)
	moved := c.Camera.Position.Distance(start)
	if gomath.Abs(float64(moved-0.2)) > 1e-5 {
		t.Errorf("two forward steps moved %f, want 0.2", moved)
	}
	// Forward is towards -Z from the starting pose.
	if c.Camera.Position.Z >= start.Z {
		t.Errorf("forward did not move towards the model: %+v", c.Camera.Position)
	}
	c.HandleKey(KeyBackward)
	c.HandleKey(KeyBackward)
	if d := c.Camera.Position.Distance(start); d > 1e-5 {
		t.Errorf("camera is %f from start after returning", d)
	}
}

func TestSpinSettles(t *testing.T) {
	c := New(visualizer.Ambient, 60)

	c.HandleKey(KeySpinRight)
	c.HandleKey(KeySpinRight)
	c.HandleKey(KeySpinLeft)
	c.HandleKey(KeySpinRight)
	want := float32(0.2)
	if gomath.Abs(float64(c.TargetAngle()-want)) > 1e-6 {
		t.Fatalf("TargetAngle() = %f, want %f", c.TargetAngle(), want)
	}

	c.Update()
	if first := c.ModelAngle(); first <= 0 || first >= want {
		t.Errorf("after one frame angle = %f, want between 0 and %f", first, want)
	}

	for i := 0; i < 600; i++ {
		c.Update()
	}
	if c.ModelAngle() != c.TargetAngle() {
		t.Errorf("ModelAngle() = %f after settling, want %f", c.ModelAngle(), c.TargetAngle())
	}
}

func TestUnknownKey(t *testing.T) {
	c := New(visualizer.BeatReactive, 60)
	if c.HandleKey(KeyNone) {
		t.Error("KeyNone reported handled")
	}
	if c.ShouldQuit() {
		t.Error("ShouldQuit() before quit key")
	}
	c.HandleKey(KeyQuit)
	if !c.ShouldQuit() {
		t.Error("ShouldQuit() = false after quit key")
	}
}

func TestScreenshotRequest(t *testing.T) {
	c := New(visualizer.Ambient, 60)
	if c.TakeScreenshot() {
		t.Fatal("screenshot pending before any key")
	}
	c.HandleKey(KeyScreenshot)
	c.HandleKey(KeyScreenshot)
	if !c.TakeScreenshot() {
		t.Fatal("screenshot not pending after key")
	}
	if c.TakeScreenshot() {
		t.Error("second TakeScreenshot() = true, want one capture per request")
	}
}

func TestComputeMatrices(t *testing.T) {
	c := New(visualizer.Ambient, 60)
	m := c.ComputeMatrices(800, 600)

	if m.Model != math.Identity() {
		t.Errorf("unrotated model matrix = %v, want identity", m.Model)
	}
	if m.View != c.Camera.ViewMatrix() {
		t.Error("view matrix does not come from the camera")
	}
	if m.Projection != c.Camera.ProjectionMatrix(800, 600) {
		t.Error("projection does not match the camera")
	}
}
