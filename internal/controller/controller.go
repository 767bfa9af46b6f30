// Package controller holds the viewer state that keyboard and mouse
// change: the visualizer mode, the camera, the model spin and lighting.
package controller

import (
	"github.com/charmbracelet/harmonica"
	"go.uber.org/zap"

	"github.com/Faultbox/hallucination/internal/engine/camera"
	"github.com/Faultbox/hallucination/internal/logger"
	"github.com/Faultbox/hallucination/internal/visualizer"
	"github.com/Faultbox/hallucination/pkg/math"
)

// Key is an input the controller reacts to.
type Key int

const (
	KeyNone Key = iota
	KeyForward
	KeyBackward
	KeySpinLeft
	KeySpinRight
	KeyLights
	KeyAmbient
	KeyBeat
	KeyScan
	KeyScreenshot
	KeyQuit
)

// Spring tuning for the model spin.
const (
	spinFrequency = 6.0
	spinDamping   = 1.0
	spinSettle    = 1e-4
)

// Controller is owned by the app and read by the renderer and visualizer
// engine each frame.
type Controller struct {
	Camera *camera.FlyCamera

	mode     visualizer.Mode
	lightsOn bool
	quit     bool
	shot     bool

	// Model spin: target is where the keys put it, angle follows on a
	// spring.
	spin      harmonica.Spring
	target    float64
	angle     float64
	angleVel  float64
	spinSpeed float64

	log *zap.Logger
}

// New creates a controller starting in mode, with a spin spring stepped
// at fps updates per second.
func New(mode visualizer.Mode, fps int) *Controller {
	if fps <= 0 {
		fps = 60
	}
	c := &Controller{
		Camera:   camera.NewFlyCamera(),
		mode:     mode,
		lightsOn: true,
		spin:     harmonica.NewSpring(harmonica.FPS(fps), spinFrequency, spinDamping),
		log:      logger.Named("controller"),
	}
	c.spinSpeed = float64(c.Camera.MoveSpeed)
	return c
}

// Mode returns the current visualizer mode.
func (c *Controller) Mode() visualizer.Mode {
	return c.mode
}

// SetMode switches the visualizer mode.
func (c *Controller) SetMode(m visualizer.Mode) {
	if m != c.mode {
		c.log.Info("visualizer mode", zap.Stringer("mode", m))
	}
	c.mode = m
}

// LightsOn reports whether diffuse lighting is enabled.
func (c *Controller) LightsOn() bool {
	return c.lightsOn
}

// ShouldQuit reports whether the quit key was pressed.
func (c *Controller) ShouldQuit() bool {
	return c.quit
}

// HandleKey applies a key press or repeat. It reports whether the key
// did anything.
func (c *Controller) HandleKey(k Key) bool {
	switch k {
	case KeyForward:
		c.Camera.Move(1)
	case KeyBackward:
		c.Camera.Move(-1)
	case KeySpinRight:
		c.target += c.spinSpeed
	case KeySpinLeft:
		c.target -= c.spinSpeed
	case KeyLights:
		c.lightsOn = !c.lightsOn
		c.log.Debug("lights", zap.Bool("on", c.lightsOn))
	case KeyAmbient:
		c.SetMode(visualizer.Ambient)
	case KeyBeat:
		c.SetMode(visualizer.BeatReactive)
	case KeyScan:
		c.SetMode(visualizer.SequentialScan)
	case KeyScreenshot:
		c.shot = true
	case KeyQuit:
		c.quit = true
	default:
		return false
	}
	return true
}

// TakeScreenshot reports whether a screenshot was requested since the
// last call.
func (c *Controller) TakeScreenshot() bool {
	shot := c.shot
	c.shot = false
	return shot
}

// HandleCursor turns the camera for a cursor at (x, y) in a window of the
// given size.
func (c *Controller) HandleCursor(x, y float64, width, height int) {
	c.Camera.HandleCursor(x, y, width, height)
}

// Update advances the spin spring by one frame.
func (c *Controller) Update() {
	c.angle, c.angleVel = c.spin.Update(c.angle, c.angleVel, c.target)
	if d := c.target - c.angle; d < spinSettle && d > -spinSettle && c.angleVel < spinSettle && c.angleVel > -spinSettle {
		c.angle, c.angleVel = c.target, 0
	}
}

// ModelAngle returns the displayed model rotation about Y, in radians.
func (c *Controller) ModelAngle() float32 {
	return float32(c.angle)
}

// TargetAngle returns the rotation the spin is heading towards.
func (c *Controller) TargetAngle() float32 {
	return float32(c.target)
}

// Matrices holds the transforms for one frame.
type Matrices struct {
	Projection math.Mat4
	View       math.Mat4
	Model      math.Mat4
}

// ComputeMatrices returns the frame's transforms for a viewport.
func (c *Controller) ComputeMatrices(width, height int) Matrices {
	return Matrices{
		Projection: c.Camera.ProjectionMatrix(width, height),
		View:       c.Camera.ViewMatrix(),
		Model:      math.RotateY(c.ModelAngle()),
	}
}
