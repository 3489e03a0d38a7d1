package ui2d

import (
	"fmt"
	"strings"
)

const (
	windowPadding = 8
	titleBarH     = 25
	itemSpacing   = 4
)

// Context is the main UI context that manages rendering and input.
type Context struct {
	renderer *Renderer
	input    *InputState
	theme    Theme
	scale    float32

	// Active/hot widget tracking for interaction
	hotWidget    string
	activeWidget string

	windows       map[string]*WindowState
	currentWindow *WindowState

	// Layout state
	cursorX float32
	cursorY float32
	rowH    float32

	// Hover state of the last widget, for Tooltip.
	lastRect    Rect
	lastHovered bool
	tooltip     string
}

// WindowState holds state for a UI window.
type WindowState struct {
	ID     string
	X, Y   float32
	W, H   float32
	Open   bool
	Moving bool

	// Auto-sized windows (h == 0) use the content height of the previous frame.
	autoSize bool
	contentH float32

	// drawn is set by BeginWindow and cleared by Begin.
	drawn bool
}

// NewContext creates a new UI context. Requires a current GL context.
func NewContext(width, height int) (*Context, error) {
	r, err := New(width, height)
	if err != nil {
		return nil, fmt.Errorf("create renderer: %w", err)
	}

	return &Context{
		renderer: r,
		input:    &InputState{},
		theme:    LightTheme,
		scale:    1,
		windows:  make(map[string]*WindowState),
	}, nil
}

// Close releases resources.
func (c *Context) Close() {
	if c.renderer != nil {
		c.renderer.Close()
	}
}

// Renderer returns the underlying renderer.
func (c *Context) Renderer() *Renderer {
	return c.renderer
}

// Resize updates the screen size.
func (c *Context) Resize(width, height int) {
	c.renderer.Resize(width, height)
}

// Input returns the input state for modification.
func (c *Context) Input() *InputState {
	return c.input
}

// SetTheme changes the palette used from the next widget on.
func (c *Context) SetTheme(t Theme) {
	c.theme = t
}

// Theme returns the current palette.
func (c *Context) Theme() Theme {
	return c.theme
}

// SetTextScale sets the glyph scale. Non-positive values are ignored.
func (c *Context) SetTextScale(scale float32) {
	if scale > 0 {
		c.scale = scale
	}
}

// LineHeight is the height of one line of text at the current scale.
func (c *Context) LineHeight() float32 {
	return c.lineHeight()
}

func (c *Context) lineHeight() float32 {
	_, h := c.renderer.MeasureText("M", c.scale)
	return h
}

// Begin starts a new UI frame.
func (c *Context) Begin() {
	c.input.Update()
	c.renderer.Begin()
	c.hotWidget = ""
	c.tooltip = ""
	c.lastHovered = false
	for _, ws := range c.windows {
		ws.drawn = false
	}
}

// End finishes the UI frame.
func (c *Context) End() {
	if c.tooltip != "" {
		c.drawTooltip()
	}
	c.renderer.End()
	c.input.EndFrame()
}

// WantsMouse reports whether the pointer is over a window or a widget is
// being dragged, so the caller should not forward the mouse to the scene.
func (c *Context) WantsMouse() bool {
	if c.activeWidget != "" {
		return true
	}
	for _, ws := range c.windows {
		if ws.Open && ws.drawn && ws.rect().Contains(c.input.MouseX, c.input.MouseY) {
			return true
		}
	}
	return false
}

func (ws *WindowState) rect() Rect {
	return Rect{ws.X, ws.Y, ws.W, ws.H}
}

// BeginWindow starts a new window. A zero height sizes the window to its content.
// Returns false if the window is closed.
func (c *Context) BeginWindow(id string, x, y, w, h float32, title string) bool {
	ws, ok := c.windows[id]
	if !ok {
		ws = &WindowState{ID: id, X: x, Y: y, W: w, Open: true}
		c.windows[id] = ws
	} else if !ws.Moving {
		ws.X = x
		ws.Y = y
		ws.W = w
	}
	ws.autoSize = h == 0
	ws.H = h
	if ws.autoSize {
		ws.H = max(ws.contentH, titleBarH+windowPadding)
	}

	if !ws.Open {
		return false
	}

	c.currentWindow = ws
	ws.drawn = true

	if title != "" {
		titleRect := Rect{ws.X, ws.Y, ws.W, titleBarH}
		if c.input.MouseLeftPressed && titleRect.Contains(c.input.MouseX, c.input.MouseY) {
			ws.Moving = true
			c.activeWidget = id + "_titlebar"
		}
		if ws.Moving && c.input.MouseLeftDown {
			ws.X += c.input.MouseDeltaX
			ws.Y += c.input.MouseDeltaY
		}
		if c.input.MouseLeftReleased {
			ws.Moving = false
			if c.activeWidget == id+"_titlebar" {
				c.activeWidget = ""
			}
		}
	}

	c.renderer.DrawPanel(ws.X, ws.Y, ws.W, ws.H, c.theme.PanelBg, c.theme.PanelBorder)

	c.cursorX = ws.X + windowPadding
	c.cursorY = ws.Y + windowPadding
	if title != "" {
		c.renderer.DrawRect(ws.X+1, ws.Y+1, ws.W-2, titleBarH-1, c.theme.ButtonNormal)
		_, textH := c.renderer.MeasureText(title, c.scale)
		c.renderer.DrawText(ws.X+windowPadding, ws.Y+(titleBarH-textH)/2, title, c.scale, c.theme.Text)
		c.cursorY = ws.Y + titleBarH + windowPadding
	}
	c.rowH = 0

	return true
}

// EndWindow ends the current window.
func (c *Context) EndWindow() {
	if ws := c.currentWindow; ws != nil && ws.autoSize {
		ws.contentH = c.cursorY + c.rowH + windowPadding - ws.Y
	}
	c.currentWindow = nil
}

// contentWidth is the usable width inside the current window.
func (c *Context) contentWidth() float32 {
	return c.currentWindow.W - 2*windowPadding
}

// Row starts a new row with the given height. Zero uses one text line.
func (c *Context) Row(height float32) {
	if c.currentWindow == nil {
		return
	}
	if height == 0 {
		height = c.lineHeight()
	}
	c.cursorX = c.currentWindow.X + windowPadding
	c.cursorY += c.rowH + itemSpacing
	c.rowH = height
}

// track records the last widget rect and whether the mouse is over it.
func (c *Context) track(r Rect) bool {
	c.lastRect = r
	c.lastHovered = r.Contains(c.input.MouseX, c.input.MouseY)
	return c.lastHovered
}

// Button draws a button and returns true if clicked.
func (c *Context) Button(id string, width float32, label string) bool {
	if c.currentWindow == nil {
		return false
	}

	x := c.cursorX
	y := c.cursorY
	h := c.rowH
	if h == 0 {
		h = c.lineHeight() + 10
	}
	if width == 0 {
		width = c.currentWindow.X + c.currentWindow.W - windowPadding - x
	}

	fullID := c.currentWindow.ID + "_" + id
	hovered := c.track(Rect{x, y, width, h})
	clicked := false

	if hovered {
		c.hotWidget = fullID
		if c.input.MouseLeftPressed {
			c.activeWidget = fullID
		}
	}
	if c.activeWidget == fullID && c.input.MouseLeftReleased {
		clicked = hovered
		c.activeWidget = ""
	}

	color := c.theme.ButtonNormal
	if c.activeWidget == fullID {
		color = c.theme.ButtonActive
	} else if hovered {
		color = c.theme.ButtonHover
	}

	c.renderer.DrawRect(x, y, width, h, color)
	c.renderer.DrawRectOutline(x, y, width, h, 1, c.theme.PanelBorder)

	textW, textH := c.renderer.MeasureText(label, c.scale)
	c.renderer.DrawText(x+(width-textW)/2, y+(h-textH)/2, label, c.scale, c.theme.Text)

	c.cursorX += width + itemSpacing
	return clicked
}

// Label draws a text label.
func (c *Context) Label(text string) {
	c.LabelColored(text, c.theme.Text)
}

// LabelDim draws a label in the secondary text color.
func (c *Context) LabelDim(text string) {
	c.LabelColored(text, c.theme.TextDim)
}

// LabelColored draws a text label with a specific color.
func (c *Context) LabelColored(text string, color Color) {
	if c.currentWindow == nil {
		return
	}
	w, h := c.renderer.MeasureText(text, c.scale)
	c.track(Rect{c.cursorX, c.cursorY, w, h})
	c.renderer.DrawText(c.cursorX, c.cursorY, text, c.scale, color)
	c.cursorX += w + itemSpacing
}

// LabelRight draws text flush with the right edge of the window.
func (c *Context) LabelRight(text string) {
	if c.currentWindow == nil {
		return
	}
	w, h := c.renderer.MeasureText(text, c.scale)
	x := max(c.currentWindow.X+c.currentWindow.W-windowPadding-w, c.cursorX)
	c.track(Rect{x, c.cursorY, w, h})
	c.renderer.DrawText(x, c.cursorY, text, c.scale, c.theme.Text)
	c.cursorX = x + w + itemSpacing
}

// LabelCentered draws centered text.
func (c *Context) LabelCentered(text string) {
	if c.currentWindow == nil {
		return
	}
	textW, _ := c.renderer.MeasureText(text, c.scale)
	x := c.currentWindow.X + windowPadding + (c.contentWidth()-textW)/2
	x = max(x, c.currentWindow.X+windowPadding)
	c.renderer.DrawText(x, c.cursorY, text, c.scale, c.theme.Text)
}

// Header draws a bold-looking section title: the text underlined in the highlight color.
func (c *Context) Header(text string) {
	if c.currentWindow == nil {
		return
	}
	w, h := c.renderer.MeasureText(text, c.scale)
	c.track(Rect{c.cursorX, c.cursorY, w, h})
	c.renderer.DrawText(c.cursorX, c.cursorY, text, c.scale, c.theme.Text)
	c.renderer.DrawRect(c.cursorX, c.cursorY+h+1, w, 1, c.theme.Highlight)
	c.cursorX += w + itemSpacing
}

// Banner draws text wrapped to the window width on a colored background and
// consumes as many rows as it needs.
func (c *Context) Banner(text string) {
	if c.currentWindow == nil || text == "" {
		return
	}
	gw, _ := c.renderer.MeasureText("M", c.scale)
	lines := WrapText(text, c.contentWidth()-8, gw)
	lh := c.lineHeight()
	h := float32(len(lines))*lh + 8

	x := c.currentWindow.X + windowPadding
	c.cursorY += c.rowH + itemSpacing
	c.rowH = h
	c.renderer.DrawRect(x, c.cursorY, c.contentWidth(), h, c.theme.ErrorBg)
	c.renderer.DrawRectOutline(x, c.cursorY, c.contentWidth(), h, 1, c.theme.ErrorText)
	for i, line := range lines {
		c.renderer.DrawText(x+4, c.cursorY+4+float32(i)*lh, line, c.scale, c.theme.ErrorText)
	}
	c.cursorX = x
}

// Spacer adds vertical space.
func (c *Context) Spacer(height float32) {
	c.cursorY += height
}

// Separator draws a horizontal separator line.
func (c *Context) Separator() {
	if c.currentWindow == nil {
		return
	}
	c.cursorY += c.rowH + itemSpacing
	c.rowH = 0
	x := c.currentWindow.X + windowPadding
	c.renderer.DrawRect(x, c.cursorY, c.contentWidth(), 1, c.theme.PanelBorder)
	c.cursorY += windowPadding
	c.cursorX = x
}

// SameLine keeps the cursor on the same line (for horizontal layouts).
func (c *Context) SameLine() {
	// Don't advance Y; cursorX is already updated by previous widget
}

// Slider draws a horizontal slider over [lo, hi] filling the rest of the row.
// Returns the new value and whether it changed this frame.
func (c *Context) Slider(id string, value, lo, hi float32) (float32, bool) {
	if c.currentWindow == nil || hi <= lo {
		return value, false
	}

	x := c.cursorX
	y := c.cursorY
	w := c.currentWindow.X + c.currentWindow.W - windowPadding - x
	h := c.lineHeight() + 2

	fullID := c.currentWindow.ID + "_" + id
	hovered := c.track(Rect{x, y, w, h})

	if hovered && c.input.MouseLeftPressed {
		c.activeWidget = fullID
	}
	changed := false
	if c.activeWidget == fullID {
		if c.input.MouseLeftDown {
			next := SliderValue(c.input.MouseX, x, w, lo, hi)
			changed = next != value
			value = next
		} else {
			c.activeWidget = ""
		}
	}

	trackH := float32(4)
	c.renderer.DrawRect(x, y+(h-trackH)/2, w, trackH, c.theme.InputBg)
	t := (min(max(value, lo), hi) - lo) / (hi - lo)
	c.renderer.DrawRect(x, y+(h-trackH)/2, w*t, trackH, c.theme.Highlight)

	knob := h
	knobColor := c.theme.ButtonNormal
	if c.activeWidget == fullID {
		knobColor = c.theme.ButtonActive
	} else if hovered {
		knobColor = c.theme.ButtonHover
	}
	kx := x + (w-knob)*t
	c.renderer.DrawRect(kx, y, knob, knob, knobColor)
	c.renderer.DrawRectOutline(kx, y, knob, knob, 1, c.theme.PanelBorder)

	c.cursorX += w + itemSpacing
	return value, changed
}

// SliderValue maps a mouse x coordinate on a track to a value in [lo, hi].
func SliderValue(mouseX, trackX, trackW, lo, hi float32) float32 {
	if trackW <= 0 {
		return lo
	}
	t := min(max((mouseX-trackX)/trackW, 0), 1)
	return lo + t*(hi-lo)
}

// Tooltip shows text near the mouse if the previous widget is hovered.
func (c *Context) Tooltip(text string) {
	if c.lastHovered && c.activeWidget == "" {
		c.tooltip = text
	}
}

func (c *Context) drawTooltip() {
	c.renderer.SetLayer(LayerOverlay)
	defer c.renderer.SetLayer(LayerBase)

	w, h := c.renderer.MeasureText(c.tooltip, c.scale)
	pad := float32(6)
	x := c.input.MouseX + 14
	y := c.input.MouseY + 18

	sw, sh := c.renderer.ScreenSize()
	if x+w+2*pad > float32(sw) {
		x = float32(sw) - w - 2*pad
	}
	if y+h+2*pad > float32(sh) {
		y = c.input.MouseY - h - 2*pad
	}

	c.renderer.DrawRect(x, y, w+2*pad, h+2*pad, c.theme.TooltipBg)
	c.renderer.DrawText(x+pad, y+pad, c.tooltip, c.scale, c.theme.TooltipText())
}

// ScreenSize returns the current screen dimensions.
func (c *Context) ScreenSize() (float32, float32) {
	w, h := c.renderer.ScreenSize()
	return float32(w), float32(h)
}

// WrapText breaks text into lines no wider than maxWidth for a fixed glyph
// width. Words longer than a line are split.
func WrapText(text string, maxWidth, glyphWidth float32) []string {
	if glyphWidth <= 0 {
		return []string{text}
	}
	perLine := max(int(maxWidth/glyphWidth), 1)

	var lines []string
	for _, para := range strings.Split(text, "\n") {
		var line strings.Builder
		for _, word := range strings.Fields(para) {
			for len(word) > perLine {
				if line.Len() > 0 {
					lines = append(lines, line.String())
					line.Reset()
				}
				lines = append(lines, word[:perLine])
				word = word[perLine:]
			}
			switch {
			case line.Len() == 0:
				line.WriteString(word)
			case line.Len()+1+len(word) <= perLine:
				line.WriteByte(' ')
				line.WriteString(word)
			default:
				lines = append(lines, line.String())
				line.Reset()
				line.WriteString(word)
			}
		}
		lines = append(lines, line.String())
	}
	return lines
}

// Rect is a simple rectangle struct.
type Rect struct {
	X, Y, W, H float32
}

// Contains checks if a point is inside the rectangle.
func (r Rect) Contains(x, y float32) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}
