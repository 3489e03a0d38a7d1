package viewer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"
)

// Automation actions.
const (
	ActionToggleTheme = "toggle_theme"
	ActionToggleStats = "toggle_stats"
	ActionSetLight    = "set_light"
	ActionResetCamera = "reset_camera"
	ActionZoomIn      = "zoom_in"
	ActionZoomOut     = "zoom_out"
	ActionScreenshot  = "screenshot"
	ActionDumpState   = "dump_state"
	ActionReload      = "reload"
	ActionOpen        = "open"
	ActionQuit        = "quit"
)

// ScreenshotCanvas as a screenshot value captures the 3D viewport only.
const ScreenshotCanvas = "canvas"

// Command is one automation request.
type Command struct {
	Action string `json:"action"`
	Value  string `json:"value,omitempty"`
	Path   string `json:"path,omitempty"`
}

// Float parses Value.
func (c Command) Float() (float32, error) {
	v, err := strconv.ParseFloat(c.Value, 32)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid value %q: %w", c.Action, c.Value, err)
	}
	return float32(v), nil
}

// ParseCommands accepts a single command object or an array of them.
func ParseCommands(data []byte) ([]Command, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}
	if data[0] == '[' {
		var cmds []Command
		if err := json.Unmarshal(data, &cmds); err != nil {
			return nil, fmt.Errorf("parsing commands: %w", err)
		}
		return cmds, nil
	}
	var cmd Command
	if err := json.Unmarshal(data, &cmd); err != nil {
		return nil, fmt.Errorf("parsing command: %w", err)
	}
	return []Command{cmd}, nil
}

// CommandFile polls a JSON file for commands. Commands are single-shot: the
// file is removed once read.
type CommandFile struct {
	path     string
	interval time.Duration
	next     time.Time
}

// NewCommandFile watches path, checking at most once per interval.
func NewCommandFile(path string, interval time.Duration) *CommandFile {
	return &CommandFile{path: path, interval: interval}
}

// Poll returns the pending commands, if any.
func (f *CommandFile) Poll(now time.Time) ([]Command, error) {
	if now.Before(f.next) {
		return nil, nil
	}
	f.next = now.Add(f.interval)

	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading command file: %w", err)
	}
	// Remove first so a bad file is not retried every frame.
	if err := os.Remove(f.path); err != nil {
		return nil, fmt.Errorf("removing command file: %w", err)
	}
	return ParseCommands(data)
}

// CameraDump is the camera part of a state dump.
type CameraDump struct {
	Position [3]float32 `json:"position"`
	Target   [3]float32 `json:"target"`
	Distance float32    `json:"distance"`
}

// StateDump is the JSON written by dump_state.
type StateDump struct {
	Timestamp string          `json:"timestamp"`
	State     State           `json:"state"`
	Metadata  []MetadataEntry `json:"metadata"`
	Camera    CameraDump      `json:"camera"`
	Model     string          `json:"model"`
	Loading   bool            `json:"loading"`
	Bound     int             `json:"boundMaterials"`
}
