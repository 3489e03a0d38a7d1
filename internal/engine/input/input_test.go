package input

import (
	"testing"

	"github.com/veandco/go-sdl2/sdl"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		name  string
		event sdl.Event
		want  EventType
		ok    bool
	}{
		{"quit", &sdl.QuitEvent{Type: sdl.QUIT}, EventQuit, true},
		{"resize", &sdl.WindowEvent{Type: sdl.WINDOWEVENT, Event: sdl.WINDOWEVENT_RESIZED, Data1: 800, Data2: 600}, EventWindowResize, true},
		{"window moved", &sdl.WindowEvent{Type: sdl.WINDOWEVENT, Event: sdl.WINDOWEVENT_MOVED}, EventNone, false},
		{"key down", &sdl.KeyboardEvent{Type: sdl.KEYDOWN, Keysym: sdl.Keysym{Scancode: sdl.SCANCODE_R}}, EventKeyDown, true},
		{"key up", &sdl.KeyboardEvent{Type: sdl.KEYUP, Keysym: sdl.Keysym{Scancode: sdl.SCANCODE_R}}, EventKeyUp, true},
		{"motion", &sdl.MouseMotionEvent{Type: sdl.MOUSEMOTION, X: 5, Y: 6, XRel: 1, YRel: 2}, EventMouseMove, true},
		{"button", &sdl.MouseButtonEvent{Type: sdl.MOUSEBUTTONDOWN, Button: sdl.BUTTON_LEFT}, EventMouseDown, true},
		{"wheel", &sdl.MouseWheelEvent{Type: sdl.MOUSEWHEEL, Y: 1}, EventMouseWheel, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Translate(tt.event)
			if ok != tt.ok {
				t.Fatalf("expected ok=%v, got %v", tt.ok, ok)
			}
			if got.Type != tt.want {
				t.Errorf("expected type %d, got %d", tt.want, got.Type)
			}
		})
	}
}

func TestWheelFlipped(t *testing.T) {
	ev, _ := Translate(&sdl.MouseWheelEvent{Type: sdl.MOUSEWHEEL, Y: 2, Direction: sdl.MOUSEWHEEL_FLIPPED})
	if ev.Wheel != -2 {
		t.Errorf("expected -2, got %v", ev.Wheel)
	}
}

func TestMouseState(t *testing.T) {
	in := New()
	in.Push(Event{Type: EventMouseDown, Button: ButtonLeft, MouseX: 10, MouseY: 20})
	in.Push(Event{Type: EventMouseMove, MouseX: 13, MouseY: 24, DeltaX: 3, DeltaY: 4})
	in.Push(Event{Type: EventMouseMove, MouseX: 15, MouseY: 25, DeltaX: 2, DeltaY: 1})
	in.Push(Event{Type: EventMouseWheel, Wheel: 1.5})

	if !in.ButtonDown(ButtonLeft) || !in.ButtonPressed(ButtonLeft) {
		t.Error("expected left button down and pressed")
	}
	if dx, dy := in.MouseDelta(); dx != 5 || dy != 5 {
		t.Errorf("expected delta (5,5), got (%d,%d)", dx, dy)
	}
	if x, y := in.MousePosition(); x != 15 || y != 25 {
		t.Errorf("expected position (15,25), got (%d,%d)", x, y)
	}
	if w := in.Wheel(); w != 1.5 {
		t.Errorf("expected wheel 1.5, got %v", w)
	}

	in.Reset()
	in.Push(Event{Type: EventMouseUp, Button: ButtonLeft})
	if in.ButtonDown(ButtonLeft) {
		t.Error("expected left button released")
	}
	if in.ButtonPressed(ButtonLeft) {
		t.Error("expected no press after reset")
	}
	if !in.ButtonReleased(ButtonLeft) {
		t.Error("expected release this frame")
	}
}

func TestKeyRepeatIgnored(t *testing.T) {
	in := New()
	in.Push(Event{Type: EventKeyDown, Key: sdl.SCANCODE_T, Repeat: true})
	if in.IsKeyPressed(sdl.SCANCODE_T) {
		t.Error("expected repeated key to be ignored")
	}
	in.Push(Event{Type: EventKeyDown, Key: sdl.SCANCODE_T})
	if !in.IsKeyPressed(sdl.SCANCODE_T) {
		t.Error("expected key press")
	}
}
