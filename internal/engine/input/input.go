// Package input translates SDL2 events into controller commands.
package input

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/hallucination/internal/controller"
)

// EventType classifies a processed event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKey
	EventMouseMove
)

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Key    controller.Key
	Width  int
	Height int
	MouseX int
	MouseY int
}

// Input handles all input processing.
type Input struct {
	events []Event
}

// New creates a new input handler.
func New() *Input {
	return &Input{
		events: make([]Event, 0, 16),
	}
}

// KeyFor maps a scancode to a controller key. Unbound keys map to KeyNone.
func KeyFor(sc sdl.Scancode) controller.Key {
	switch sc {
	case sdl.SCANCODE_UP, sdl.SCANCODE_W:
		return controller.KeyForward
	case sdl.SCANCODE_DOWN, sdl.SCANCODE_S:
		return controller.KeyBackward
	case sdl.SCANCODE_LEFT, sdl.SCANCODE_A:
		return controller.KeySpinLeft
	case sdl.SCANCODE_RIGHT, sdl.SCANCODE_D:
		return controller.KeySpinRight
	case sdl.SCANCODE_L:
		return controller.KeyLights
	case sdl.SCANCODE_1:
		return controller.KeyAmbient
	case sdl.SCANCODE_2:
		return controller.KeyBeat
	case sdl.SCANCODE_3:
		return controller.KeyScan
	case sdl.SCANCODE_P, sdl.SCANCODE_F12:
		return controller.KeyScreenshot
	case sdl.SCANCODE_ESCAPE, sdl.SCANCODE_Q:
		return controller.KeyQuit
	}
	return controller.KeyNone
}

// Update polls SDL events. Key repeats are delivered as separate
// presses so holding an arrow keeps moving the camera.
// Returns true if the window was closed.
func (i *Input) Update() bool {
	i.events = i.events[:0]

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			i.events = append(i.events, Event{Type: EventQuit})
			return true

		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_RESIZED || e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
				i.events = append(i.events, Event{
					Type:   EventWindowResize,
					Width:  int(e.Data1),
					Height: int(e.Data2),
				})
			}

		case *sdl.KeyboardEvent:
			if e.Type != sdl.KEYDOWN {
				continue
			}
			if k := KeyFor(e.Keysym.Scancode); k != controller.KeyNone {
				i.events = append(i.events, Event{Type: EventKey, Key: k})
			}

		case *sdl.MouseMotionEvent:
			i.events = append(i.events, Event{
				Type:   EventMouseMove,
				MouseX: int(e.X),
				MouseY: int(e.Y),
			})
		}
	}

	return false
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

// Apply forwards the last Update's events to the controller. The cursor
// is interpreted against a window of the given size in screen
// coordinates. It reports whether the window was resized.
func (i *Input) Apply(c *controller.Controller, width, height int) (resized bool) {
	for _, e := range i.events {
		switch e.Type {
		case EventKey:
			c.HandleKey(e.Key)
		case EventMouseMove:
			c.HandleCursor(float64(e.MouseX), float64(e.MouseY), width, height)
		case EventWindowResize:
			resized = true
			width, height = e.Width, e.Height
		case EventQuit:
			c.HandleKey(controller.KeyQuit)
		}
	}
	return resized
}
