package ui2d

// InputState holds the current input state for the UI.
type InputState struct {
	// Mouse state
	MouseX      float32
	MouseY      float32
	MouseDeltaX float32
	MouseDeltaY float32

	// Mouse buttons (current frame)
	MouseLeftDown  bool
	MouseRightDown bool

	// Mouse buttons (edges this frame)
	MouseLeftPressed   bool
	MouseLeftReleased  bool
	MouseRightPressed  bool
	MouseRightReleased bool

	// Scroll
	ScrollY float32

	// Previous frame state for edge detection
	prevMouseLeft  bool
	prevMouseRight bool
	prevMouseX     float32
	prevMouseY     float32
}

// Update prepares input state for a new frame.
// Call this at the start of each frame after updating raw input values.
func (i *InputState) Update() {
	i.MouseDeltaX = i.MouseX - i.prevMouseX
	i.MouseDeltaY = i.MouseY - i.prevMouseY

	i.MouseLeftPressed = i.MouseLeftDown && !i.prevMouseLeft
	i.MouseLeftReleased = !i.MouseLeftDown && i.prevMouseLeft
	i.MouseRightPressed = i.MouseRightDown && !i.prevMouseRight
	i.MouseRightReleased = !i.MouseRightDown && i.prevMouseRight

	i.prevMouseLeft = i.MouseLeftDown
	i.prevMouseRight = i.MouseRightDown
	i.prevMouseX = i.MouseX
	i.prevMouseY = i.MouseY
}

// EndFrame clears per-frame input state.
func (i *InputState) EndFrame() {
	i.ScrollY = 0
}
