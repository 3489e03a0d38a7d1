package viewer

import (
	"fmt"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/objviewer/internal/engine/framebuffer"
	"github.com/Faultbox/objviewer/internal/engine/input"
	"github.com/Faultbox/objviewer/internal/engine/renderer"
	"github.com/Faultbox/objviewer/internal/engine/ui2d"
	"github.com/Faultbox/objviewer/internal/engine/window"
)

// doubleClickInterval is the longest gap between the clicks of a double click.
const doubleClickInterval = 300 * time.Millisecond

// ui2dTextScale turns the 7x13 atlas into roughly 10x20 glyphs at scale 1.
const ui2dTextScale = 1.5

var ui2dKeys = []struct {
	code sdl.Scancode
	key  Key
}{
	{sdl.SCANCODE_ESCAPE, KeyQuit},
	{sdl.SCANCODE_F12, KeyScreenshot},
	{sdl.SCANCODE_F11, KeyDumpState},
	{sdl.SCANCODE_R, KeyResetCamera},
	{sdl.SCANCODE_T, KeyTheme},
	{sdl.SCANCODE_S, KeyStats},
}

// ui2dChrome draws the viewer with the in-house immediate mode UI on a plain
// SDL window. Layout happens in window points, the scene in drawable pixels.
type ui2dChrome struct {
	v   *Viewer
	win *window.Window
	in  *input.Input
	ctx *ui2d.Context

	width, height     int // points
	fbWidth, fbHeight int // pixels
	scale             float32
	canvasFBWidth     int
	lastClick         time.Time
	title             string
}

func runUI2D(v *Viewer) error {
	cfg := v.Config()
	win, err := window.New(window.Config{
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
	})
	if err != nil {
		return err
	}
	defer win.Close()

	if err := renderer.InitGL(); err != nil {
		return err
	}

	c := &ui2dChrome{v: v, win: win, in: input.New()}
	c.width, c.height = win.Size()
	c.fbWidth, c.fbHeight = win.DrawableSize()

	if err := v.InitGPU(c.fbWidth, c.fbHeight); err != nil {
		return err
	}
	c.ctx, err = ui2d.NewContext(c.width, c.height)
	if err != nil {
		return fmt.Errorf("create ui2d context: %w", err)
	}
	defer c.ctx.Close()
	c.scale = cfg.UI.TextScale * ui2dTextScale
	c.ctx.SetTextScale(c.scale)

	var frameBudget time.Duration
	if cfg.Window.FPSLimit > 0 {
		frameBudget = time.Second / time.Duration(cfg.Window.FPSLimit)
	}

	for !v.ShouldQuit() {
		start := time.Now()
		if c.in.Update() {
			v.RequestQuit()
		}
		screenshot := c.frame()
		if screenshot {
			v.SaveScreenshot(framebuffer.ReadScreen(c.fbWidth, c.fbHeight, false))
		}
		win.SwapBuffers()

		if frameBudget > 0 {
			if rest := frameBudget - time.Since(start); rest > 0 {
				time.Sleep(rest)
			}
		}
	}
	return nil
}

// frame draws one frame and reports whether a screenshot was requested.
func (c *ui2dChrome) frame() bool {
	v := c.v
	if _, _, ok := c.in.Resized(); ok {
		c.width, c.height = c.win.Size()
		c.fbWidth, c.fbHeight = c.win.DrawableSize()
		c.ctx.Resize(c.width, c.height)
	}

	v.Poll()
	screenshot := v.PollCommands()

	c.syncMouse()
	screenshot = c.handleKeys() || screenshot

	if title := v.Title(); title != c.title {
		c.title = title
		c.win.SetTitle(title)
	}
	if v.State.DarkMode {
		c.ctx.SetTheme(ui2d.DarkTheme)
	} else {
		c.ctx.SetTheme(ui2d.LightTheme)
	}

	panelW := min(v.Config().UI.PanelWidth, float32(c.width)*0.5)
	canvasW := float32(c.width) - panelW
	scaleX := float32(c.fbWidth) / float32(max(c.width, 1))

	c.canvasFBWidth = int(canvasW * scaleX)
	tex := v.RenderScene(c.canvasFBWidth, c.fbHeight)

	bg := v.State.Background()
	gl.Viewport(0, 0, int32(c.fbWidth), int32(c.fbHeight))
	gl.ClearColor(bg[0], bg[1], bg[2], bg[3])
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	c.ctx.Renderer().DrawImage(0, 0, canvasW, float32(c.height), tex)

	c.ctx.Begin()
	c.drawCanvasOverlays(canvasW)
	c.drawPanel(canvasW, panelW)
	c.ctx.End()

	if !c.ctx.WantsMouse() {
		c.handleCamera(canvasW)
	}
	return screenshot
}

// syncMouse copies the SDL mouse state into the UI input.
func (c *ui2dChrome) syncMouse() {
	ui := c.ctx.Input()
	x, y := c.in.MousePosition()
	ui.MouseX, ui.MouseY = float32(x), float32(y)
	ui.MouseLeftDown = c.in.ButtonDown(input.ButtonLeft)
	ui.MouseRightDown = c.in.ButtonDown(input.ButtonRight)
	ui.ScrollY = c.in.Wheel()
}

func (c *ui2dChrome) handleKeys() bool {
	screenshot := false
	for _, k := range ui2dKeys {
		if c.in.IsKeyPressed(k.code) && c.v.handleKey(k.key) {
			screenshot = true
		}
	}
	return screenshot
}

func (c *ui2dChrome) handleCamera(canvasW float32) {
	x, y := c.in.MousePosition()
	if float32(x) >= canvasW {
		return
	}
	scale := float32(c.fbWidth) / float32(max(c.width, 1))
	dx, dy := c.in.MouseDelta()
	fx, fy := float32(dx)*scale, float32(dy)*scale

	var p Pointer
	if c.in.ButtonDown(input.ButtonLeft) {
		p.RotateX, p.RotateY = fx, fy
	}
	if c.in.ButtonDown(input.ButtonRight) || c.in.ButtonDown(input.ButtonMiddle) {
		p.PanX, p.PanY = fx, fy
	}
	p.Wheel = c.in.Wheel()
	c.v.Scene.Handle(p)

	if c.in.ButtonPressed(input.ButtonLeft) {
		now := time.Now()
		if now.Sub(c.lastClick) < doubleClickInterval {
			scaleY := float32(c.fbHeight) / float32(max(c.height, 1))
			c.v.FocusAt(float32(x)*scale, float32(y)*scaleY, c.canvasFBWidth, c.fbHeight)
			now = time.Time{}
		}
		c.lastClick = now
	}
}

func (c *ui2dChrome) drawCanvasOverlays(canvasW float32) {
	v := c.v
	ctx := c.ctx
	h := float32(c.height)

	if !v.Loaded() && v.Loading() {
		if ctx.BeginWindow("loading", canvasW/2-110, h/2-20, 220, 0, "") {
			ctx.Row(0)
			ctx.LabelCentered(LoadingIndicator)
			ctx.EndWindow()
		}
	}

	if v.State.ShowStats {
		if ctx.BeginWindow("stats", 10, 10, 260, 0, "") {
			for _, line := range v.Stats().Lines() {
				ctx.Row(0)
				ctx.LabelColored(line, ctx.Theme().Highlight)
			}
			ctx.EndWindow()
		}
	}

	if msg := v.Notice(); msg != "" {
		tw, _ := ctx.Renderer().MeasureText(msg, c.scale)
		w := min(tw+2*8, canvasW-20)
		if ctx.BeginWindow("notice", canvasW-w-10, 10, w, 0, "") {
			ctx.Row(0)
			ctx.Label(msg)
			ctx.EndWindow()
		}
	}

	toolbarW := float32(120)
	if v.Config().Viewer.ZoomControls {
		toolbarW = 220
	}
	if ctx.BeginWindow("toolbar", canvasW/2-toolbarW/2, h-70, toolbarW, 0, "") {
		ctx.Row(c.buttonHeight())
		btnW := float32(0)
		if v.Config().Viewer.ZoomControls {
			btnW = 100
		}
		if ctx.Button("theme", btnW, v.State.ThemeLabel()) {
			v.ToggleDarkMode()
		}
		if v.Config().Viewer.ZoomControls {
			if ctx.Button("zoom_in", 44, "+") {
				v.ZoomIn()
			}
			ctx.Tooltip("Zoom in")
			if ctx.Button("zoom_out", 44, "-") {
				v.ZoomOut()
			}
			ctx.Tooltip("Zoom out")
		}
		ctx.EndWindow()
	}
}

func (c *ui2dChrome) buttonHeight() float32 {
	return c.ctx.LineHeight() + 10
}

func (c *ui2dChrome) drawPanel(x, w float32) {
	v := c.v
	ctx := c.ctx
	if !ctx.BeginWindow("panel", x, 0, w, float32(c.height), PanelTitle) {
		return
	}
	defer ctx.EndWindow()

	if v.State.ErrorMessage != "" && v.Config().Viewer.ErrorBanner {
		ctx.Banner(v.State.ErrorMessage)
	}

	ctx.Row(0)
	ctx.Header(InfoHeader)
	ctx.Tooltip(InfoTooltip)
	ctx.Spacer(4)

	for _, e := range v.Metadata.Entries() {
		ctx.Row(0)
		ctx.LabelDim(e.Label)
		ctx.LabelRight(e.Value)
	}
	ctx.Separator()

	ctx.Row(0)
	ctx.Label("Light Intensity")
	ctx.LabelRight(fmt.Sprintf("%.2f", v.State.LightIntensity))
	ctx.Row(0)
	if value, changed := ctx.Slider("light", v.State.LightIntensity, 0, 1); changed {
		v.SetLightIntensity(value)
	}

	ctx.Spacer(4)
	ctx.Row(c.buttonHeight())
	if ctx.Button("reset", 0, "Reset Camera") {
		v.ResetCamera()
	}
	ctx.Row(c.buttonHeight())
	if ctx.Button("stats", 0, v.State.StatsLabel()) {
		v.ToggleStats()
	}
	if v.CanOpen() {
		ctx.Row(c.buttonHeight())
		if ctx.Button("open", 0, "Open...") {
			v.ShowOpenDialog()
		}
	}
	ctx.Separator()

	gw, _ := ctx.Renderer().MeasureText("M", c.scale)
	for _, line := range ui2d.WrapText(ControlsHint, w-2*8, gw) {
		ctx.Row(0)
		ctx.LabelDim(line)
	}
}
