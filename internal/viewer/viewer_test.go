package viewer

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/objviewer/internal/config"
	"github.com/Faultbox/objviewer/internal/engine/lighting"
	"github.com/Faultbox/objviewer/internal/engine/renderer"
)

const testOBJ = `mtllib capsule.mtl
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vt 0 0
vt 1 0
vt 1 1
vt 0 1
usemtl skin
f 1/1 2/2 3/3 4/4
`

const testMTL = `newmtl skin
Kd 1 1 1
map_Kd capsule0.png
`

func writeModel(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(1, 1, color.RGBA{0, 0, 255, 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding png: %v", err)
	}

	files := map[string][]byte{
		"capsule.obj":  []byte(testOBJ),
		"capsule.mtl":  []byte(testMTL),
		"capsule0.png": buf.Bytes(),
	}
	for name, data := range files {
		if err := os.WriteFile(filepath.Join(dir, name), data, 0644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
	return dir
}

func testConfig(dir string) *config.Config {
	cfg := config.Default()
	cfg.Assets.SearchPaths = []string{dir}
	cfg.Assets.Model = "capsule.obj"
	cfg.Assets.Materials = "capsule.mtl"
	cfg.Assets.Texture = "capsule0.png"
	cfg.Screenshot.Dir = filepath.Join(dir, "shots")
	return cfg
}

func mountAndWait(t *testing.T, v *Viewer) error {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	v.Mount(context.Background())
	return v.Wait(ctx)
}

func TestStateDefaults(t *testing.T) {
	s := NewState(config.Default().Viewer)

	if s.DarkMode {
		t.Error("expected light mode at startup")
	}
	if s.LightIntensity != 0.5 {
		t.Errorf("expected light intensity 0.5, got %v", s.LightIntensity)
	}
	if s.ShowStats {
		t.Error("expected stats hidden at startup")
	}
	if s.ErrorMessage != "" {
		t.Errorf("expected no error, got %q", s.ErrorMessage)
	}
	if s.Background() != LightBackground {
		t.Errorf("expected light background, got %v", s.Background())
	}
	if s.ThemeLabel() != "Dark" {
		t.Errorf("expected toggle to offer Dark, got %q", s.ThemeLabel())
	}
	if s.StatsLabel() != "Show Stats" {
		t.Errorf("expected Show Stats, got %q", s.StatsLabel())
	}
}

func TestStateToggles(t *testing.T) {
	s := NewState(config.Default().Viewer)

	s.ToggleDarkMode()
	if !s.DarkMode || s.Background() != DarkBackground {
		t.Errorf("expected dark background after toggle, got %v", s.Background())
	}
	if s.ThemeLabel() != "Light" {
		t.Errorf("expected toggle to offer Light, got %q", s.ThemeLabel())
	}
	s.ToggleDarkMode()
	if s.DarkMode {
		t.Error("expected two toggles to restore light mode")
	}

	s.ToggleStats()
	if !s.ShowStats || s.StatsLabel() != "Hide Stats" {
		t.Errorf("expected stats shown with Hide Stats, got %v %q", s.ShowStats, s.StatsLabel())
	}
}

func TestSetLightIntensityClamps(t *testing.T) {
	tests := []struct {
		in, want float32
	}{
		{0.25, 0.25},
		{0, 0},
		{1, 1},
		{-0.5, 0},
		{3, 1},
	}
	for _, tt := range tests {
		s := State{}
		if got := s.SetLightIntensity(tt.in); got != tt.want {
			t.Errorf("SetLightIntensity(%v): expected %v, got %v", tt.in, tt.want, got)
		}
		if s.LightIntensity != tt.want {
			t.Errorf("SetLightIntensity(%v): expected stored %v, got %v", tt.in, tt.want, s.LightIntensity)
		}
	}

	cfg := config.Default().Viewer
	cfg.LightIntensity = 7
	if s := NewState(cfg); s.LightIntensity != 1 {
		t.Errorf("expected configured intensity clamped to 1, got %v", s.LightIntensity)
	}
}

func TestMetadataOrder(t *testing.T) {
	m := NewMetadata(config.DefaultMetadata(), false)

	want := []string{"Format", "Source", "Model", "Materials"}
	entries := m.Entries()
	if len(entries) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(entries))
	}
	for i, label := range want {
		if entries[i].Label != label {
			t.Errorf("entry %d: expected %q, got %q", i, label, entries[i].Label)
		}
	}
	if entries[0].Value != "OBJ" {
		t.Errorf("expected Format=OBJ, got %q", entries[0].Value)
	}

	m.SetCounts(10, 20)
	if m.Len() != len(want) {
		t.Errorf("expected counts ignored without extended metadata, got %d entries", m.Len())
	}

	entries[0].Value = "changed"
	if m.Entries()[0].Value != "OBJ" {
		t.Error("expected Entries to return a copy")
	}
}

func TestMetadataCounts(t *testing.T) {
	m := NewMetadata(config.DefaultMetadata(), true)
	if !m.Extended() || m.Len() != 6 {
		t.Fatalf("expected 6 extended entries, got %d", m.Len())
	}

	entries := m.Entries()
	if entries[4].Label != LabelVertices || entries[5].Label != LabelFaces {
		t.Errorf("expected count rows last, got %q %q", entries[4].Label, entries[5].Label)
	}
	if entries[4].Value != "Loading..." {
		t.Errorf("expected loading placeholder, got %q", entries[4].Value)
	}

	m.SetCounts(1234, 56789)
	entries = m.Entries()
	if entries[4].Value != "1,234" {
		t.Errorf("expected 1,234, got %q", entries[4].Value)
	}
	if entries[5].Value != "56,789" {
		t.Errorf("expected 56,789, got %q", entries[5].Value)
	}

	m.ResetCounts()
	if v := m.Entries()[5].Value; v != "Loading..." {
		t.Errorf("expected reset placeholder, got %q", v)
	}
}

func TestComposeDefaults(t *testing.T) {
	s, handle := Compose(config.Default().Scene)

	if got := handle.Position(); got != (mgl32.Vec3{0, 0, 5}) {
		t.Errorf("expected camera at (0,0,5), got %v", got)
	}
	if s.Camera.FOV != 75 {
		t.Errorf("expected fov 75, got %v", s.Camera.FOV)
	}
	if s.Ambient.Intensity != 0.5 {
		t.Errorf("expected ambient 0.5, got %v", s.Ambient.Intensity)
	}
	if s.Lights.Count() != 1 {
		t.Fatalf("expected one point light, got %d", s.Lights.Count())
	}
	pos := s.Lights.Positions()
	if pos[0] != 10 || pos[1] != 10 || pos[2] != 10 {
		t.Errorf("expected point light at (10,10,10), got %v", pos[:3])
	}
	if !s.Controls.EnableDamping || s.Controls.DampingFactor != 0.05 {
		t.Errorf("expected damping 0.05, got %v %v", s.Controls.EnableDamping, s.Controls.DampingFactor)
	}
	if s.Environment.Name != "sunset" {
		t.Errorf("expected sunset environment, got %q", s.Environment.Name)
	}
	if s.LightScale() != 1 {
		t.Errorf("expected light scale 1, got %v", s.LightScale())
	}
}

func TestComposeUnknownEnvironment(t *testing.T) {
	cfg := config.Default().Scene
	cfg.Environment = "moonbase"
	s, _ := Compose(cfg)
	if s.Environment.Name != lighting.Neutral {
		t.Errorf("expected neutral fallback, got %q", s.Environment.Name)
	}
}

func TestApplyIntensity(t *testing.T) {
	tests := []struct {
		name        string
		intensity   float32
		wantAmbient float32
		wantScale   float32
	}{
		{"default", 0.5, 0.5, 1},
		{"full", 1, 1, 2},
		{"off", 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := Compose(config.Default().Scene)
			s.ApplyIntensity(tt.intensity)
			if s.Ambient.Intensity != tt.wantAmbient {
				t.Errorf("expected ambient %v, got %v", tt.wantAmbient, s.Ambient.Intensity)
			}
			if s.LightScale() != tt.wantScale {
				t.Errorf("expected scale %v, got %v", tt.wantScale, s.LightScale())
			}
			if f := s.Frame(nil, LightBackground); f.LightScale != tt.wantScale {
				t.Errorf("expected frame scale %v, got %v", tt.wantScale, f.LightScale)
			}
		})
	}
}

func TestCameraHandleReset(t *testing.T) {
	s, handle := Compose(config.Default().Scene)

	s.Handle(Pointer{RotateX: 120, RotateY: -40, Wheel: 3})
	for range 10 {
		s.Update()
	}
	if handle.Position() == (mgl32.Vec3{0, 0, 5}) {
		t.Fatal("expected camera to move")
	}

	handle.Reset()
	if got := handle.Position(); got != (mgl32.Vec3{0, 0, 5}) {
		t.Errorf("expected reset to (0,0,5), got %v", got)
	}
	if !s.Controls.Idle() {
		t.Error("expected no pending motion after reset")
	}
}

func TestCameraHandleDolly(t *testing.T) {
	s, handle := Compose(config.Default().Scene)

	handle.DollyIn(0.5)
	s.Update()
	if d := s.Controls.Distance(); mgl32.Abs(d-2.5) > 1e-4 {
		t.Errorf("expected distance 2.5, got %v", d)
	}
	handle.DollyOut(0.5)
	s.Update()
	if d := s.Controls.Distance(); mgl32.Abs(d-5) > 1e-4 {
		t.Errorf("expected distance 5, got %v", d)
	}
}

func TestParseCommands(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []string
		wantErr bool
	}{
		{"single", `{"action":"toggle_theme"}`, []string{ActionToggleTheme}, false},
		{"array", `[{"action":"zoom_in"},{"action":"set_light","value":"0.8"}]`, []string{ActionZoomIn, ActionSetLight}, false},
		{"empty", "  \n", nil, false},
		{"invalid", `{"action":`, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmds, err := ParseCommands([]byte(tt.input))
			if tt.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(cmds) != len(tt.want) {
				t.Fatalf("expected %d commands, got %d", len(tt.want), len(cmds))
			}
			for i, action := range tt.want {
				if cmds[i].Action != action {
					t.Errorf("command %d: expected %q, got %q", i, action, cmds[i].Action)
				}
			}
		})
	}
}

func TestCommandFilePoll(t *testing.T) {
	path := filepath.Join(t.TempDir(), "commands.json")
	f := NewCommandFile(path, 100*time.Millisecond)
	now := time.Now()

	cmds, err := f.Poll(now)
	if err != nil || cmds != nil {
		t.Fatalf("expected nothing without a file, got %v %v", cmds, err)
	}

	if err := os.WriteFile(path, []byte(`{"action":"quit"}`), 0644); err != nil {
		t.Fatal(err)
	}
	if cmds, _ := f.Poll(now.Add(50 * time.Millisecond)); cmds != nil {
		t.Error("expected poll throttled inside the interval")
	}

	cmds, err = f.Poll(now.Add(150 * time.Millisecond))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cmds) != 1 || cmds[0].Action != ActionQuit {
		t.Errorf("expected one quit command, got %v", cmds)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("expected command file removed after reading")
	}
}

func TestViewerLoadsModel(t *testing.T) {
	dir := writeModel(t)
	cfg := testConfig(dir)
	cfg.Viewer.ExtendedMetadata = true

	v := New(cfg)
	defer v.Unmount()

	if v.Loading() || v.Loaded() {
		t.Fatal("expected nothing loaded before mount")
	}
	if err := mountAndWait(t, v); err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if !v.Loaded() || v.Loading() {
		t.Fatalf("expected loaded and idle, got loaded=%v loading=%v", v.Loaded(), v.Loading())
	}
	if v.State.ErrorMessage != "" {
		t.Errorf("expected no error, got %q", v.State.ErrorMessage)
	}
	if v.bound != 1 {
		t.Errorf("expected texture bound to 1 material, got %d", v.bound)
	}
	if v.bounds == nil {
		t.Error("expected bounds overlay")
	}

	if v.Title() != "3D Model Viewer - capsule.obj" {
		t.Errorf("expected model in title, got %q", v.Title())
	}

	entries := v.Metadata.Entries()
	if entries[4].Value != "4" || entries[5].Value != "2" {
		t.Errorf("expected 4 vertices and 2 faces, got %q %q", entries[4].Value, entries[5].Value)
	}
}

func TestViewerLoadFailure(t *testing.T) {
	dir := writeModel(t)
	cfg := testConfig(dir)
	cfg.Assets.Model = "missing.obj"

	v := New(cfg)
	defer v.Unmount()

	if err := mountAndWait(t, v); err == nil {
		t.Fatal("expected load error")
	}
	if v.Loaded() {
		t.Error("expected nothing loaded")
	}
	if !strings.Contains(v.State.ErrorMessage, "missing.obj") {
		t.Errorf("expected error naming missing.obj, got %q", v.State.ErrorMessage)
	}

	// The next successful load clears the error.
	if err := v.Open(filepath.Join(dir, "capsule.obj")); err != nil {
		t.Fatalf("open failed: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := v.Wait(ctx); err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if v.State.ErrorMessage != "" {
		t.Errorf("expected error cleared, got %q", v.State.ErrorMessage)
	}
}

func TestViewerOpenFailureKeepsModel(t *testing.T) {
	dir := writeModel(t)
	cfg := testConfig(dir)
	cfg.Viewer.ExtendedMetadata = true
	bad := "mtllib nope.mtl\nv 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n"
	if err := os.WriteFile(filepath.Join(dir, "bad.obj"), []byte(bad), 0644); err != nil {
		t.Fatalf("failed to write bad.obj: %v", err)
	}

	v := New(cfg)
	defer v.Unmount()
	if err := mountAndWait(t, v); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	loaded := v.Assets()

	if err := v.Open(filepath.Join(dir, "bad.obj")); err != nil {
		t.Fatalf("open failed: %v", err)
	}
	if got := filepath.Base(v.Requested().Model); got != "bad.obj" {
		t.Errorf("expected bad.obj requested, got %q", got)
	}
	if v.Title() != "3D Model Viewer - capsule.obj" {
		t.Errorf("expected title to keep capsule.obj while loading, got %q", v.Title())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := v.Wait(ctx); err == nil {
		t.Fatal("expected load error")
	}

	if !strings.Contains(v.State.ErrorMessage, "nope.mtl") {
		t.Errorf("expected error naming nope.mtl, got %q", v.State.ErrorMessage)
	}
	if v.Assets() != loaded {
		t.Error("expected the previous model to stay on screen")
	}
	if v.Title() != "3D Model Viewer - capsule.obj" {
		t.Errorf("expected title capsule.obj, got %q", v.Title())
	}
	if got := filepath.Base(v.Paths().Model); got != "capsule.obj" {
		t.Errorf("expected paths of capsule.obj, got %q", got)
	}
	entries := v.Metadata.Entries()
	if entries[4].Value != "4" || entries[5].Value != "2" {
		t.Errorf("expected counts 4 and 2, got %q %q", entries[4].Value, entries[5].Value)
	}
}

func TestViewerDerivesCompanions(t *testing.T) {
	tests := []struct {
		name        string
		texture     string
		wantTexture string
	}{
		{"from map_Kd", "", "capsule0.png"},
		{"explicit texture kept", "other.png", "other.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := writeModel(t)
			cfg := testConfig(dir)
			cfg.Assets.Materials = ""
			cfg.Assets.Texture = tt.texture

			v := New(cfg)
			defer v.Unmount()
			p := v.Paths()
			if filepath.Base(p.Materials) != "capsule.mtl" {
				t.Errorf("expected capsule.mtl, got %q", p.Materials)
			}
			if filepath.Base(p.Texture) != tt.wantTexture {
				t.Errorf("expected texture %s, got %q", tt.wantTexture, p.Texture)
			}
		})
	}
}

func TestViewerExecute(t *testing.T) {
	dir := writeModel(t)
	v := New(testConfig(dir))
	defer v.Unmount()

	tests := []struct {
		cmd        Command
		screenshot bool
		wantErr    bool
	}{
		{Command{Action: ActionToggleTheme}, false, false},
		{Command{Action: ActionToggleStats}, false, false},
		{Command{Action: ActionSetLight, Value: "0.75"}, false, false},
		{Command{Action: ActionSetLight, Value: "bright"}, false, true},
		{Command{Action: ActionZoomIn}, false, false},
		{Command{Action: ActionScreenshot}, true, false},
		{Command{Action: ActionScreenshot, Value: ScreenshotCanvas}, false, false},
		{Command{Action: ActionOpen}, false, true},
		{Command{Action: "explode"}, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.cmd.Action+tt.cmd.Value, func(t *testing.T) {
			shot, err := v.Execute(tt.cmd)
			if (err != nil) != tt.wantErr {
				t.Errorf("expected error %v, got %v", tt.wantErr, err)
			}
			if shot != tt.screenshot {
				t.Errorf("expected screenshot %v, got %v", tt.screenshot, shot)
			}
		})
	}

	if !v.State.DarkMode || !v.State.ShowStats {
		t.Errorf("expected dark mode and stats on, got %+v", v.State)
	}
	if v.State.LightIntensity != 0.75 {
		t.Errorf("expected light 0.75, got %v", v.State.LightIntensity)
	}
	if v.Scene.LightScale() != 1.5 {
		t.Errorf("expected light scale 1.5, got %v", v.Scene.LightScale())
	}

	if _, err := v.Execute(Command{Action: ActionQuit}); err != nil || !v.ShouldQuit() {
		t.Errorf("expected quit requested, got %v", err)
	}
}

func TestViewerWriteState(t *testing.T) {
	dir := writeModel(t)
	cfg := testConfig(dir)
	cfg.Automation.StateFile = filepath.Join(dir, "out", "state.json")

	v := New(cfg)
	defer v.Unmount()
	if err := mountAndWait(t, v); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	v.ToggleStats()

	path, err := v.WriteState()
	if err != nil {
		t.Fatalf("write state: %v", err)
	}
	if path != cfg.Automation.StateFile {
		t.Errorf("expected %s, got %s", cfg.Automation.StateFile, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var dump StateDump
	if err := json.Unmarshal(data, &dump); err != nil {
		t.Fatalf("decoding dump: %v", err)
	}
	if !dump.State.ShowStats {
		t.Error("expected showStats in dump")
	}
	if dump.Camera.Position != [3]float32{0, 0, 5} {
		t.Errorf("expected camera at (0,0,5), got %v", dump.Camera.Position)
	}
	if dump.Model != "capsule.obj" || dump.Bound != 1 {
		t.Errorf("expected capsule.obj with 1 bound material, got %q %d", dump.Model, dump.Bound)
	}
	if len(dump.Metadata) != 4 {
		t.Errorf("expected 4 metadata rows, got %d", len(dump.Metadata))
	}
}

func TestViewerCommandFile(t *testing.T) {
	dir := writeModel(t)
	cfg := testConfig(dir)
	cfg.Automation.CommandFile = filepath.Join(dir, "commands.json")

	v := New(cfg)
	defer v.Unmount()

	cmds := `[{"action":"toggle_theme"},{"action":"screenshot"}]`
	if err := os.WriteFile(cfg.Automation.CommandFile, []byte(cmds), 0644); err != nil {
		t.Fatal(err)
	}
	if !v.PollCommands() {
		t.Error("expected screenshot requested")
	}
	if !v.State.DarkMode {
		t.Error("expected dark mode after command")
	}
}

func TestViewerNotice(t *testing.T) {
	v := New(testConfig(t.TempDir()))
	now := time.Now()
	v.now = func() time.Time { return now }

	v.Notify("Saved: shot.png")
	if v.Notice() != "Saved: shot.png" {
		t.Errorf("expected notice, got %q", v.Notice())
	}
	now = now.Add(4 * time.Second)
	if v.Notice() != "" {
		t.Errorf("expected notice expired, got %q", v.Notice())
	}
}

func TestViewerScreenshot(t *testing.T) {
	dir := t.TempDir()
	v := New(testConfig(dir))

	v.SaveScreenshot(image.NewRGBA(image.Rect(0, 0, 4, 4)))
	if !strings.HasPrefix(v.Notice(), "Saved: objviewer") {
		t.Errorf("expected saved notice, got %q", v.Notice())
	}
	matches, _ := filepath.Glob(filepath.Join(dir, "shots", "*.png"))
	if len(matches) != 1 {
		t.Errorf("expected one screenshot, got %d", len(matches))
	}

	v.SaveScreenshot(nil)
	if !strings.HasPrefix(v.Notice(), "Screenshot failed") {
		t.Errorf("expected failure notice, got %q", v.Notice())
	}
}

func TestHandleKey(t *testing.T) {
	v := New(testConfig(t.TempDir()))

	if !v.handleKey(KeyScreenshot) {
		t.Error("expected screenshot key to request a capture")
	}
	v.handleKey(KeyTheme)
	v.handleKey(KeyStats)
	if !v.State.DarkMode || !v.State.ShowStats {
		t.Errorf("expected theme and stats toggled, got %+v", v.State)
	}
	v.handleKey(KeyQuit)
	if !v.ShouldQuit() {
		t.Error("expected quit")
	}
}

func TestFrameStats(t *testing.T) {
	var s FrameStats
	start := time.Now()
	render := renderer.Stats{DrawCalls: 2, Triangles: 12}

	s.Tick(start, render)
	for i := 1; i <= 30; i++ {
		s.Tick(start.Add(time.Duration(i)*20*time.Millisecond), render)
	}

	if s.FrameTime != 20*time.Millisecond {
		t.Errorf("expected 20ms frame time, got %v", s.FrameTime)
	}
	if s.FPS < 49 || s.FPS > 51 {
		t.Errorf("expected ~50 FPS, got %v", s.FPS)
	}
	if s.HeapBytes == 0 {
		t.Error("expected heap sampled")
	}

	lines := s.Lines()
	if len(lines) != 4 || lines[3] != "2 draws, 12 tris" {
		t.Errorf("unexpected lines %v", lines)
	}
}

func TestViewerFocusAt(t *testing.T) {
	dir := writeModel(t)
	v := New(testConfig(dir))
	defer v.Unmount()

	if v.FocusAt(50, 50, 100, 100) {
		t.Error("expected no focus without a model")
	}
	if err := mountAndWait(t, v); err != nil {
		t.Fatalf("load failed: %v", err)
	}

	// (56.52, 43.48) projects onto (0.5, 0.5, 0) for the default camera.
	if !v.FocusAt(56.52, 43.48, 100, 100) {
		t.Fatal("expected the quad to be hit")
	}
	target := v.Scene.Camera.Target
	if mgl32.Abs(target[0]-0.5) > 0.01 || mgl32.Abs(target[1]-0.5) > 0.01 || mgl32.Abs(target[2]) > 0.01 {
		t.Errorf("expected target near (0.5,0.5,0), got %v", target)
	}
	if d := v.Scene.Controls.Distance(); mgl32.Abs(d-5) > 0.01 {
		t.Errorf("expected distance kept at 5, got %v", d)
	}

	if v.FocusAt(0, 0, 100, 100) {
		t.Error("expected corner click to miss")
	}
}
