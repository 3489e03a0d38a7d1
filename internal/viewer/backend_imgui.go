package viewer

import (
	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/Faultbox/objviewer/internal/engine/framebuffer"
	"github.com/Faultbox/objviewer/internal/engine/ui"
)

var (
	errorTextColor = imgui.NewVec4(0.86, 0.15, 0.15, 1)
	statsTextColor = imgui.NewVec4(0.2, 0.9, 0.4, 1)
)

// imguiChrome draws the viewer with Dear ImGui.
type imguiChrome struct {
	v       *Viewer
	backend *ui.Backend

	pendingScreenshot bool
	title             string
}

func runImGui(v *Viewer) error {
	cfg := v.Config()
	b, err := ui.NewBackend(cfg.Window.Title, cfg.Window.Width, cfg.Window.Height)
	if err != nil {
		return err
	}
	if err := v.InitGPU(cfg.Window.Width, cfg.Window.Height); err != nil {
		return err
	}

	c := &imguiChrome{v: v, backend: b}
	b.Run(c.render)
	return nil
}

func (c *imguiChrome) render() {
	v := c.v

	// The previous frame is on the front buffer now.
	if c.pendingScreenshot {
		c.pendingScreenshot = false
		io := imgui.CurrentIO()
		size, scale := io.DisplaySize(), io.DisplayFramebufferScale()
		v.SaveScreenshot(framebuffer.ReadScreen(int(size.X*scale.X), int(size.Y*scale.Y), true))
	}

	v.Poll()
	if v.PollCommands() {
		c.pendingScreenshot = true
	}
	c.handleKeys()

	if title := v.Title(); title != c.title {
		c.title = title
		c.backend.SetWindowTitle(title)
	}
	c.backend.SetDarkStyle(v.State.DarkMode)
	c.backend.SetBackground(v.State.Background())

	x, y, w, h := ui.Viewport()
	panelW := min(v.Config().UI.PanelWidth, w*0.5)
	canvasW := w - panelW

	c.drawCanvas(x, y, canvasW, h)
	c.drawToolbar(x, y, canvasW, h)
	if v.State.ShowStats {
		c.drawStats(x, y)
	}
	if msg := v.Notice(); msg != "" {
		c.drawNotice(x, y, canvasW)
	}
	c.drawPanel(x+canvasW, y, panelW, h)

	if v.ShouldQuit() {
		c.backend.Close()
	}
}

func (c *imguiChrome) handleKeys() {
	if imgui.IsAnyItemActive() {
		return
	}
	keys := []struct {
		key imgui.Key
		to  Key
	}{
		{imgui.KeyEscape, KeyQuit},
		{imgui.KeyF12, KeyScreenshot},
		{imgui.KeyF11, KeyDumpState},
		{imgui.KeyR, KeyResetCamera},
		{imgui.KeyT, KeyTheme},
		{imgui.KeyS, KeyStats},
	}
	for _, k := range keys {
		if ui.IsKeyPressed(k.key) && c.v.handleKey(k.to) {
			c.pendingScreenshot = true
		}
	}
}

// drawCanvas renders the scene into the viewport framebuffer and shows it
// as a borderless background window.
func (c *imguiChrome) drawCanvas(x, y, w, h float32) {
	v := c.v
	flags := imgui.WindowFlagsNoDecoration | imgui.WindowFlagsNoMove |
		imgui.WindowFlagsNoBringToFrontOnFocus | imgui.WindowFlagsNoSavedSettings |
		imgui.WindowFlagsNoBackground

	imgui.SetNextWindowPos(imgui.NewVec2(x, y))
	imgui.SetNextWindowSize(imgui.NewVec2(w, h))
	imgui.PushStyleVarVec2(imgui.StyleVarWindowPadding, imgui.NewVec2(0, 0))
	defer imgui.PopStyleVar()

	if !imgui.BeginV("##Canvas", nil, flags) {
		imgui.End()
		return
	}
	defer imgui.End()

	scale := imgui.CurrentIO().DisplayFramebufferScale()
	fbW, fbH := int(w*scale.X), int(h*scale.Y)

	tex := v.RenderScene(fbW, fbH)
	if tex == 0 {
		return
	}
	origin := imgui.CursorScreenPos()
	ui.Image(tex, w, h)

	if imgui.IsItemHovered() {
		io := imgui.CurrentIO()
		delta := io.MouseDelta()
		dx, dy := delta.X*scale.X, delta.Y*scale.Y

		var p Pointer
		if imgui.IsMouseDragging(imgui.MouseButtonLeft) {
			p.RotateX, p.RotateY = dx, dy
		}
		if imgui.IsMouseDragging(imgui.MouseButtonRight) || imgui.IsMouseDragging(imgui.MouseButtonMiddle) {
			p.PanX, p.PanY = dx, dy
		}
		p.Wheel = io.MouseWheel()
		v.Scene.Handle(p)

		if imgui.IsMouseDoubleClicked(imgui.MouseButtonLeft) {
			mouse := imgui.MousePos()
			v.FocusAt((mouse.X-origin.X)*scale.X, (mouse.Y-origin.Y)*scale.Y, fbW, fbH)
		}
	}

	if !v.Loaded() && v.Loading() {
		textSize := imgui.CalcTextSize(LoadingIndicator)
		imgui.SetCursorPosX((w - textSize.X) / 2)
		imgui.SetCursorPosY((h - textSize.Y) / 2)
		imgui.TextDisabled(LoadingIndicator)
	}
}

// drawToolbar places the theme toggle, and the zoom buttons when enabled,
// at the bottom center of the canvas.
func (c *imguiChrome) drawToolbar(x, y, w, h float32) {
	v := c.v
	flags := imgui.WindowFlagsNoDecoration | imgui.WindowFlagsAlwaysAutoResize |
		imgui.WindowFlagsNoMove | imgui.WindowFlagsNoSavedSettings |
		imgui.WindowFlagsNoFocusOnAppearing

	imgui.SetNextWindowPosV(imgui.NewVec2(x+w/2, y+h-20), imgui.CondAlways, imgui.NewVec2(0.5, 1))
	imgui.SetNextWindowBgAlpha(0.85)
	if imgui.BeginV("##Toolbar", nil, flags) {
		if imgui.Button(v.State.ThemeLabel()) {
			v.ToggleDarkMode()
		}
		if v.Config().Viewer.ZoomControls {
			imgui.SameLine()
			if imgui.Button("+") {
				v.ZoomIn()
			}
			if imgui.IsItemHovered() {
				imgui.SetTooltip("Zoom in")
			}
			imgui.SameLine()
			if imgui.Button("-") {
				v.ZoomOut()
			}
			if imgui.IsItemHovered() {
				imgui.SetTooltip("Zoom out")
			}
		}
	}
	imgui.End()
}

func (c *imguiChrome) drawStats(x, y float32) {
	flags := imgui.WindowFlagsNoDecoration | imgui.WindowFlagsAlwaysAutoResize |
		imgui.WindowFlagsNoMove | imgui.WindowFlagsNoSavedSettings |
		imgui.WindowFlagsNoFocusOnAppearing | imgui.WindowFlagsNoInputs

	imgui.SetNextWindowPos(imgui.NewVec2(x+10, y+10))
	imgui.SetNextWindowBgAlpha(0.6)
	if imgui.BeginV("##Stats", nil, flags) {
		for _, line := range c.v.Stats().Lines() {
			imgui.TextColored(statsTextColor, line)
		}
	}
	imgui.End()
}

func (c *imguiChrome) drawNotice(x, y, w float32) {
	flags := imgui.WindowFlagsNoDecoration | imgui.WindowFlagsAlwaysAutoResize |
		imgui.WindowFlagsNoMove | imgui.WindowFlagsNoSavedSettings |
		imgui.WindowFlagsNoFocusOnAppearing | imgui.WindowFlagsNoInputs

	imgui.SetNextWindowPosV(imgui.NewVec2(x+w-10, y+10), imgui.CondAlways, imgui.NewVec2(1, 0))
	imgui.SetNextWindowBgAlpha(0.85)
	if imgui.BeginV("##Notice", nil, flags) {
		imgui.Text(c.v.Notice())
	}
	imgui.End()
}

func (c *imguiChrome) drawPanel(x, y, w, h float32) {
	v := c.v
	flags := imgui.WindowFlagsNoMove | imgui.WindowFlagsNoResize |
		imgui.WindowFlagsNoCollapse | imgui.WindowFlagsNoSavedSettings

	imgui.SetNextWindowPos(imgui.NewVec2(x, y))
	imgui.SetNextWindowSize(imgui.NewVec2(w, h))
	if !imgui.BeginV(PanelTitle, nil, flags) {
		imgui.End()
		return
	}
	defer imgui.End()

	if v.State.ErrorMessage != "" && v.Config().Viewer.ErrorBanner {
		imgui.PushStyleColorVec4(imgui.ColText, errorTextColor)
		imgui.TextWrapped(v.State.ErrorMessage)
		imgui.PopStyleColor()
		imgui.Separator()
	}

	imgui.Text(InfoHeader)
	imgui.SameLine()
	imgui.TextDisabled("(i)")
	if imgui.IsItemHovered() {
		imgui.SetTooltip(InfoTooltip)
	}

	if imgui.BeginTable("metadata", 2) {
		imgui.TableSetupColumnV("Label", imgui.TableColumnFlagsWidthFixed, 110, 0)
		imgui.TableSetupColumnV("Value", imgui.TableColumnFlagsWidthStretch, 0, 0)
		for _, e := range v.Metadata.Entries() {
			imgui.TableNextRow()
			imgui.TableNextColumn()
			imgui.TextDisabled(e.Label)
			imgui.TableNextColumn()
			imgui.Text(e.Value)
		}
		imgui.EndTable()
	}
	imgui.Separator()

	intensity := v.State.LightIntensity
	imgui.Text("Light Intensity")
	imgui.SetNextItemWidth(-1)
	if imgui.SliderFloatV("##LightIntensity", &intensity, 0, 1, "%.2f", imgui.SliderFlagsAlwaysClamp) {
		v.SetLightIntensity(intensity)
	}

	full := imgui.NewVec2(-1, 0)
	if imgui.ButtonV("Reset Camera", full) {
		v.ResetCamera()
	}
	if imgui.ButtonV(v.State.StatsLabel(), full) {
		v.ToggleStats()
	}
	if v.CanOpen() {
		if imgui.ButtonV("Open...", full) {
			v.ShowOpenDialog()
		}
	}

	imgui.Separator()
	imgui.TextDisabled(ControlsHint)
	if v.Loading() {
		imgui.TextDisabled(LoadingIndicator)
	}
}
