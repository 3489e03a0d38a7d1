package viewer

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/objviewer/internal/assets"
	"github.com/Faultbox/objviewer/internal/config"
	"github.com/Faultbox/objviewer/internal/engine/debug"
	"github.com/Faultbox/objviewer/internal/engine/picking"
	"github.com/Faultbox/objviewer/internal/engine/renderer"
	"github.com/Faultbox/objviewer/internal/engine/scene"
	"github.com/Faultbox/objviewer/internal/engine/texture"
	"github.com/Faultbox/objviewer/internal/logger"
	"github.com/Faultbox/objviewer/internal/model"
)

// noticeDuration is how long a notification stays on screen.
const noticeDuration = 3 * time.Second

// boundsPadding pads the stats bounding box so it does not z-fight the mesh.
const boundsPadding = 0.01

// Viewer is the shell. All methods must be called from the render thread.
type Viewer struct {
	cfg *config.Config

	State    State
	Metadata *Metadata
	Scene    *Scene
	camera   CameraHandle

	manager *assets.Manager
	loader  *model.Loader
	binder  model.Binder
	paths   model.Paths // files of the model on screen
	request model.Paths // files of the latest load request

	ctx        context.Context
	cancel     context.CancelFunc
	loadCancel context.CancelFunc
	loadID     uuid.UUID
	pending    <-chan model.Result

	assets  *model.Assets
	display *scene.Node // model plus the bounds overlay
	bounds  *scene.Node
	bound   int

	watcher *assets.Watcher

	renderer    *renderer.Renderer
	stats       FrameStats
	screenshots *debug.ScreenshotCapture
	commands    *CommandFile
	dialog      *OpenDialog

	notice      string
	noticeUntil time.Time
	quit        bool
	now         func() time.Time
}

// New creates the viewer and composes its scene. It does not touch GL.
func New(cfg *config.Config) *Viewer {
	v := &Viewer{
		cfg:      cfg,
		State:    NewState(cfg.Viewer),
		Metadata: NewMetadata(cfg.Viewer.Metadata, cfg.Viewer.ExtendedMetadata),
		manager:  assets.NewManager(cfg.Assets.SearchPaths...),
		screenshots: debug.NewScreenshotCapture(cfg.Screenshot.Dir, "objviewer"),
		now:         time.Now,
	}

	v.paths = v.configuredPaths()

	texOpts := texture.DefaultOptions()
	texOpts.MaxSize = cfg.Assets.MaxTextureSize
	v.loader = model.NewLoader(v.manager, texOpts)

	v.Scene, v.camera = Compose(cfg.Scene)
	v.Scene.ApplyIntensity(v.State.LightIntensity)

	if cfg.Automation.CommandFile != "" {
		v.commands = NewCommandFile(cfg.Automation.CommandFile, config.AutomationPollInterval)
	}
	if cfg.Viewer.OpenDialog {
		v.dialog = NewOpenDialog()
	}
	return v
}

// configuredPaths returns the configured model files. With no library
// configured, the library and texture come from the model's mtllib and
// map_Kd. An explicit texture is kept.
func (v *Viewer) configuredPaths() model.Paths {
	p := model.Paths{
		Model:     v.cfg.Assets.Model,
		Materials: v.cfg.Assets.Materials,
		Texture:   v.cfg.Assets.Texture,
	}
	if p.Model == "" || p.Materials != "" {
		return p
	}
	resolved, err := v.manager.Resolve(p.Model)
	if err != nil {
		// Load reports the missing model.
		return p
	}
	derived, err := model.Companions(resolved, p.Texture)
	if err != nil {
		logger.Warn("deriving model companions", zap.String("model", resolved), zap.Error(err))
		return p
	}
	if p.Texture != "" {
		derived.Texture = p.Texture
	}
	return derived
}

// Camera returns the handle received from the scene composer.
func (v *Viewer) Camera() CameraHandle {
	return v.camera
}

// Config returns the viewer configuration.
func (v *Viewer) Config() *config.Config {
	return v.cfg
}

// Mount starts loading the configured model.
func (v *Viewer) Mount(ctx context.Context) {
	v.ctx, v.cancel = context.WithCancel(ctx)
	v.startLoad(v.paths)
}

// InitGPU creates the renderer. Requires a current GL context.
func (v *Viewer) InitGPU(width, height int) error {
	r, err := renderer.New(int32(width), int32(height))
	if err != nil {
		return fmt.Errorf("create renderer: %w", err)
	}
	v.renderer = r
	return nil
}

func (v *Viewer) startLoad(paths model.Paths) {
	if v.ctx == nil {
		return
	}
	v.request = paths
	// A newer request supersedes one still in flight.
	if v.loadCancel != nil {
		v.loadCancel()
	}
	var ctx context.Context
	ctx, v.loadCancel = context.WithCancel(v.ctx)
	v.loadID, v.pending = v.loader.Start(ctx, paths)
	logger.Info("loading model",
		zap.String("load_id", v.loadID.String()),
		zap.String("model", paths.Model),
		zap.String("materials", paths.Materials),
		zap.String("texture", paths.Texture))
}

// Loading reports whether a load is in flight.
func (v *Viewer) Loading() bool {
	return v.pending != nil
}

// Loaded reports whether a model is on screen.
func (v *Viewer) Loaded() bool {
	return v.assets != nil
}

// Assets returns the current model, or nil.
func (v *Viewer) Assets() *model.Assets {
	return v.assets
}

// Title is the window title: the configured title plus the model file name.
func (v *Viewer) Title() string {
	if v.assets == nil {
		return v.cfg.Window.Title
	}
	return v.cfg.Window.Title + " - " + filepath.Base(v.paths.Model)
}

// Paths returns the files of the model on screen, or the configured files
// before the first load resolves.
func (v *Viewer) Paths() model.Paths {
	return v.paths
}

// Requested returns the files of the latest load request.
func (v *Viewer) Requested() model.Paths {
	return v.request
}

// Poll applies a finished load, a file change or a dialog pick. It never blocks.
func (v *Viewer) Poll() {
	if v.pending != nil {
		select {
		case r := <-v.pending:
			if r.ID == v.loadID {
				v.pending = nil
				v.apply(r)
			}
		default:
		}
	}

	if v.watcher != nil {
		select {
		case <-v.watcher.Changes():
			logger.Info("model files changed, reloading")
			v.Reload()
		default:
		}
	}

	if v.dialog != nil {
		if path := v.dialog.Poll(); path != "" {
			if err := v.Open(path); err != nil {
				v.fail(err)
			}
		}
	}
}

// Wait blocks until the pending load finishes or ctx is done, then applies it.
func (v *Viewer) Wait(ctx context.Context) error {
	if v.pending == nil {
		return nil
	}
	select {
	case r := <-v.pending:
		v.pending = nil
		v.apply(r)
		return r.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (v *Viewer) apply(r model.Result) {
	model.LogResult(r)
	if r.Err != nil {
		v.fail(r.Err)
		return
	}

	v.releaseModel()
	v.assets = r.Assets
	v.paths = r.Paths
	v.bound, _ = v.binder.Bind(r.Assets)
	v.Metadata.SetCounts(r.Assets.Vertices, r.Assets.Faces)
	v.State.ClearError()

	v.display = scene.NewGroup("display")
	v.display.Add(r.Assets.Mesh)
	if box, ok := r.Assets.Mesh.Bounds(); ok {
		v.bounds = debug.BoundsNode(box, boundsPadding)
		v.display.Add(v.bounds)
	}

	logger.Debug("texture bound",
		zap.String("load_id", r.ID.String()),
		zap.Int("materials", v.bound))

	if v.cfg.Assets.Watch {
		v.watch(r.Assets.Files)
	}
}

// fail records err. The model on screen keeps its counts.
func (v *Viewer) fail(err error) {
	if v.assets != nil {
		v.Metadata.SetCounts(v.assets.Vertices, v.assets.Faces)
	}
	v.State.SetError(err.Error())
	logger.Error("viewer error", zap.Error(err))
}

func (v *Viewer) watch(files []string) {
	if v.watcher != nil {
		if err := v.watcher.Close(); err != nil {
			logger.Warn("closing watcher", zap.Error(err))
		}
		v.watcher = nil
	}
	w, err := assets.NewWatcher(v.manager, files, assets.DefaultDebounce)
	if err != nil {
		logger.Warn("hot reload disabled", zap.Error(err))
		return
	}
	v.watcher = w
}

// releaseModel frees the GPU copy of the current model.
func (v *Viewer) releaseModel() {
	if v.display != nil && v.renderer != nil {
		v.renderer.Release(v.display)
	}
	v.display, v.bounds, v.assets = nil, nil, nil
	v.bound = 0
}

// Reload loads the current paths again. The old model stays on screen until
// the new one resolves.
func (v *Viewer) Reload() {
	v.startLoad(v.paths)
}

// Open loads another OBJ, finding its library and texture next to it. The
// current model and the title stay until the load succeeds. If it fails the
// counts go back to the current model's.
func (v *Viewer) Open(objPath string) error {
	paths, err := model.Companions(objPath, v.cfg.Assets.Texture)
	if err != nil {
		return err
	}
	v.Metadata.ResetCounts()
	v.startLoad(paths)
	return nil
}

// ShowOpenDialog opens the native file picker when enabled.
func (v *Viewer) ShowOpenDialog() {
	if v.dialog != nil {
		v.dialog.Show()
	}
}

// CanOpen reports whether the Open button is enabled.
func (v *Viewer) CanOpen() bool {
	return v.dialog != nil
}

// ToggleDarkMode flips the theme.
func (v *Viewer) ToggleDarkMode() {
	v.State.ToggleDarkMode()
}

// ToggleStats flips the stats overlay and the bounds box.
func (v *Viewer) ToggleStats() {
	v.State.ToggleStats()
}

// SetLightIntensity clamps and applies the light intensity.
func (v *Viewer) SetLightIntensity(x float32) {
	v.Scene.ApplyIntensity(v.State.SetLightIntensity(x))
}

// ResetCamera restores the camera through the composer's handle.
func (v *Viewer) ResetCamera() {
	v.camera.Reset()
}

// ZoomIn dollies the camera toward the target by the configured step.
func (v *Viewer) ZoomIn() {
	v.camera.DollyIn(v.cfg.Viewer.ZoomStep)
}

// ZoomOut dollies the camera away from the target.
func (v *Viewer) ZoomOut() {
	v.camera.DollyOut(v.cfg.Viewer.ZoomStep)
}

// FocusAt moves the orbit center to the model surface under viewport pixel
// (x, y) of a width x height viewport. It reports whether the model was hit.
func (v *Viewer) FocusAt(x, y float32, width, height int) bool {
	if v.assets == nil || width <= 0 || height <= 0 {
		return false
	}
	v.Scene.SetViewport(width, height)
	ray := picking.ScreenToRay(x, y, float32(width), float32(height), v.Scene.Camera.ViewProjection().Inv())
	hit, ok := picking.Pick(v.assets.Mesh, ray)
	if !ok {
		return false
	}
	v.Scene.Controls.Focus(hit.Point)
	logger.Debug("focus", zap.Float32s("point", hit.Point[:]), zap.Float32("distance", hit.Distance))
	return true
}

// RequestQuit asks the backend to exit after this frame.
func (v *Viewer) RequestQuit() {
	v.quit = true
}

// ShouldQuit reports whether a quit was requested or the mount context ended.
func (v *Viewer) ShouldQuit() bool {
	return v.quit || (v.ctx != nil && v.ctx.Err() != nil)
}

// Notify shows a short message over the viewport.
func (v *Viewer) Notify(msg string) {
	v.notice = msg
	v.noticeUntil = v.now().Add(noticeDuration)
}

// Notice returns the active notification, or "".
func (v *Viewer) Notice() string {
	if v.notice == "" || v.now().After(v.noticeUntil) {
		return ""
	}
	return v.notice
}

// RenderScene steps the controls and draws the scene into the viewport
// framebuffer at the given size. It returns the color texture.
func (v *Viewer) RenderScene(width, height int) uint32 {
	if v.renderer == nil {
		return 0
	}
	v.Scene.SetViewport(width, height)
	v.Scene.Update()
	v.renderer.Resize(int32(width), int32(height))

	if v.bounds != nil {
		v.bounds.Visible = v.State.ShowStats
	}

	frame := v.Scene.Frame(v.display, v.State.Background())
	tex := v.renderer.Render(frame)
	v.stats.Tick(v.now(), v.renderer.Stats())
	return tex
}

// Stats returns the frame statistics.
func (v *Viewer) Stats() *FrameStats {
	return &v.stats
}

// CaptureCanvas reads the last rendered viewport without the UI chrome.
// It returns nil before the renderer exists.
func (v *Viewer) CaptureCanvas() *image.RGBA {
	if v.renderer == nil {
		return nil
	}
	return v.renderer.Framebuffer().CaptureImage()
}

// SaveScreenshot writes img and reports the result as a notification.
func (v *Viewer) SaveScreenshot(img *image.RGBA) {
	if img == nil {
		v.Notify("Screenshot failed: invalid viewport")
		return
	}
	path, err := v.screenshots.Capture(img)
	if err != nil {
		logger.Warn("screenshot failed", zap.Error(err))
		v.Notify("Screenshot failed: " + err.Error())
		return
	}
	logger.Info("screenshot saved", zap.String("path", path))
	v.Notify("Saved: " + filepath.Base(path))
}

// Execute runs one automation command. Screenshots are returned as pending
// for the backend, which owns the window pixels.
func (v *Viewer) Execute(cmd Command) (screenshot bool, err error) {
	logger.Debug("automation command", zap.String("action", cmd.Action))
	switch cmd.Action {
	case ActionToggleTheme:
		v.ToggleDarkMode()
	case ActionToggleStats:
		v.ToggleStats()
	case ActionSetLight:
		x, err := cmd.Float()
		if err != nil {
			return false, err
		}
		v.SetLightIntensity(x)
	case ActionResetCamera:
		v.ResetCamera()
	case ActionZoomIn:
		v.ZoomIn()
	case ActionZoomOut:
		v.ZoomOut()
	case ActionScreenshot:
		if cmd.Value == ScreenshotCanvas {
			v.SaveScreenshot(v.CaptureCanvas())
			return false, nil
		}
		return true, nil
	case ActionDumpState:
		path, err := v.WriteState()
		if err != nil {
			return false, err
		}
		v.Notify("State saved: " + filepath.Base(path))
	case ActionReload:
		v.Reload()
	case ActionOpen:
		if cmd.Path == "" {
			return false, fmt.Errorf("%s: missing path", cmd.Action)
		}
		return false, v.Open(cmd.Path)
	case ActionQuit:
		v.RequestQuit()
	default:
		return false, fmt.Errorf("unknown action %q", cmd.Action)
	}
	return false, nil
}

// PollCommands runs pending automation commands. It reports whether a
// screenshot was requested.
func (v *Viewer) PollCommands() bool {
	if v.commands == nil {
		return false
	}
	cmds, err := v.commands.Poll(v.now())
	if err != nil {
		logger.Warn("automation", zap.Error(err))
		return false
	}
	screenshot := false
	for _, cmd := range cmds {
		shot, err := v.Execute(cmd)
		if err != nil {
			logger.Warn("automation command failed", zap.String("action", cmd.Action), zap.Error(err))
			continue
		}
		screenshot = screenshot || shot
	}
	return screenshot
}

// Dump returns a snapshot of the viewer for automation.
func (v *Viewer) Dump() StateDump {
	cam := v.Scene.Camera
	return StateDump{
		Timestamp: v.now().Format(time.RFC3339),
		State:     v.State,
		Metadata:  v.Metadata.Entries(),
		Camera: CameraDump{
			Position: cam.Position,
			Target:   cam.Target,
			Distance: v.Scene.Controls.Distance(),
		},
		Model:   v.paths.Model,
		Loading: v.Loading(),
		Bound:   v.bound,
	}
}

// WriteState writes Dump as JSON to the configured state file.
func (v *Viewer) WriteState() (string, error) {
	path := v.cfg.Automation.StateFile
	if path == "" {
		path = filepath.Join(v.cfg.Screenshot.Dir, "state.json")
	}
	data, err := json.MarshalIndent(v.Dump(), "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding state: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("creating state dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing state: %w", err)
	}
	logger.Info("state saved", zap.String("path", path))
	return path, nil
}

// Unmount cancels loading, stops the watcher and frees GPU resources.
func (v *Viewer) Unmount() error {
	var err error
	if v.cancel != nil {
		v.cancel()
	}
	v.pending = nil
	v.binder.Reset()
	if v.watcher != nil {
		err = multierr.Append(err, v.watcher.Close())
		v.watcher = nil
	}
	v.releaseModel()
	if v.renderer != nil {
		v.renderer.Destroy()
		v.renderer = nil
	}
	v.manager.Close()
	return err
}
