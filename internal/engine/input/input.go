// Package input converts SDL2 events into viewer input events and tracks mouse drags.
package input

import (
	"github.com/veandco/go-sdl2/sdl"
)

// EventType classifies an input event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
	EventMouseMove
	EventMouseDown
	EventMouseUp
	EventMouseWheel
	EventText
)

// Mouse buttons.
const (
	ButtonLeft   = uint8(sdl.BUTTON_LEFT)
	ButtonMiddle = uint8(sdl.BUTTON_MIDDLE)
	ButtonRight  = uint8(sdl.BUTTON_RIGHT)
)

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Key    sdl.Scancode
	Repeat bool
	Width  int
	Height int
	MouseX int
	MouseY int
	DeltaX int
	DeltaY int
	Wheel  float32
	Button uint8
	Text   string
}

// Translate converts one SDL event. ok is false for events the viewer ignores.
func Translate(event sdl.Event) (Event, bool) {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		return Event{Type: EventQuit}, true

	case *sdl.WindowEvent:
		if e.Event == sdl.WINDOWEVENT_RESIZED || e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
			return Event{Type: EventWindowResize, Width: int(e.Data1), Height: int(e.Data2)}, true
		}

	case *sdl.KeyboardEvent:
		ev := Event{Key: e.Keysym.Scancode, Repeat: e.Repeat != 0}
		switch e.Type {
		case sdl.KEYDOWN:
			ev.Type = EventKeyDown
			return ev, true
		case sdl.KEYUP:
			ev.Type = EventKeyUp
			return ev, true
		}

	case *sdl.MouseMotionEvent:
		return Event{
			Type:   EventMouseMove,
			MouseX: int(e.X),
			MouseY: int(e.Y),
			DeltaX: int(e.XRel),
			DeltaY: int(e.YRel),
		}, true

	case *sdl.MouseButtonEvent:
		ev := Event{MouseX: int(e.X), MouseY: int(e.Y), Button: e.Button}
		switch e.Type {
		case sdl.MOUSEBUTTONDOWN:
			ev.Type = EventMouseDown
			return ev, true
		case sdl.MOUSEBUTTONUP:
			ev.Type = EventMouseUp
			return ev, true
		}

	case *sdl.MouseWheelEvent:
		y := float32(e.Y)
		if e.Direction == sdl.MOUSEWHEEL_FLIPPED {
			y = -y
		}
		return Event{Type: EventMouseWheel, Wheel: y}, true

	case *sdl.TextInputEvent:
		return Event{Type: EventText, Text: e.GetText()}, true
	}
	return Event{}, false
}

// Input collects the events of one frame and the current mouse state.
type Input struct {
	events []Event

	mouseX, mouseY int
	buttons        map[uint8]bool
}

// New creates a new input handler.
func New() *Input {
	return &Input{
		events:  make([]Event, 0, 16),
		buttons: make(map[uint8]bool),
	}
}

// Update polls SDL events. It reports whether a quit was requested.
func (i *Input) Update() bool {
	i.events = i.events[:0]
	quit := false
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		ev, ok := Translate(event)
		if !ok {
			continue
		}
		i.Push(ev)
		if ev.Type == EventQuit {
			quit = true
		}
	}
	return quit
}

// Push records an event and updates mouse state.
func (i *Input) Push(ev Event) {
	switch ev.Type {
	case EventMouseMove:
		i.mouseX, i.mouseY = ev.MouseX, ev.MouseY
	case EventMouseDown:
		i.mouseX, i.mouseY = ev.MouseX, ev.MouseY
		i.buttons[ev.Button] = true
	case EventMouseUp:
		i.mouseX, i.mouseY = ev.MouseX, ev.MouseY
		i.buttons[ev.Button] = false
	}
	i.events = append(i.events, ev)
}

// Reset drops the events of the current frame.
func (i *Input) Reset() {
	i.events = i.events[:0]
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

// IsKeyPressed reports whether scancode went down this frame, ignoring key repeat.
func (i *Input) IsKeyPressed(scancode sdl.Scancode) bool {
	for _, e := range i.events {
		if e.Type == EventKeyDown && e.Key == scancode && !e.Repeat {
			return true
		}
	}
	return false
}

// MousePosition returns the last known cursor position.
func (i *Input) MousePosition() (int, int) {
	return i.mouseX, i.mouseY
}

// ButtonDown reports whether a mouse button is held.
func (i *Input) ButtonDown(button uint8) bool {
	return i.buttons[button]
}

// ButtonPressed reports whether a mouse button went down this frame.
func (i *Input) ButtonPressed(button uint8) bool {
	for _, e := range i.events {
		if e.Type == EventMouseDown && e.Button == button {
			return true
		}
	}
	return false
}

// ButtonReleased reports whether a mouse button went up this frame.
func (i *Input) ButtonReleased(button uint8) bool {
	for _, e := range i.events {
		if e.Type == EventMouseUp && e.Button == button {
			return true
		}
	}
	return false
}

// MouseDelta returns the summed motion of this frame.
func (i *Input) MouseDelta() (dx, dy int) {
	for _, e := range i.events {
		if e.Type == EventMouseMove {
			dx += e.DeltaX
			dy += e.DeltaY
		}
	}
	return dx, dy
}

// Wheel returns the summed scroll of this frame.
func (i *Input) Wheel() float32 {
	var w float32
	for _, e := range i.events {
		if e.Type == EventMouseWheel {
			w += e.Wheel
		}
	}
	return w
}

// Resized returns the last window size reported this frame.
func (i *Input) Resized() (width, height int, ok bool) {
	for _, e := range i.events {
		if e.Type == EventWindowResize {
			width, height, ok = e.Width, e.Height, true
		}
	}
	return width, height, ok
}
