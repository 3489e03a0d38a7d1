package formats

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

const capsuleMTL = `# capsule materials
newmtl Body
Ka 0.1 0.1 0.1
Kd 0.8 0.6 0.4
Ks 0.5 0.5 0.5
Ns 96
d 1
illum 2
map_Kd textures/capsule0.jpg

newmtl Glass
Kd 0.2 0.2 0.2
d 0.25
map_bump glass_n.png

newmtl Plain
`

func TestParseMTL(t *testing.T) {
	lib, err := ParseMTL([]byte(capsuleMTL))
	if err != nil {
		t.Fatalf("ParseMTL failed: %v", err)
	}

	if len(lib.Order) != 3 {
		t.Fatalf("expected 3 materials, got %d", len(lib.Order))
	}
	if lib.Order[0] != "Body" || lib.Order[1] != "Glass" || lib.Order[2] != "Plain" {
		t.Errorf("unexpected order %v", lib.Order)
	}

	body := lib.Get("Body")
	if body == nil {
		t.Fatal("expected material Body")
	}
	if body.Name != "Body" {
		t.Errorf("expected name Body, got %q", body.Name)
	}
	if body.Diffuse != [3]float32{0.8, 0.6, 0.4} {
		t.Errorf("expected Kd (0.8,0.6,0.4), got %v", body.Diffuse)
	}
	if body.Shininess != 96 {
		t.Errorf("expected Ns 96, got %f", body.Shininess)
	}
	if body.Illum != 2 {
		t.Errorf("expected illum 2, got %d", body.Illum)
	}
	if body.DiffuseMap != "textures/capsule0.jpg" {
		t.Errorf("expected map_Kd textures/capsule0.jpg, got %q", body.DiffuseMap)
	}

	glass := lib.Get("Glass")
	if glass.Opacity != 0.25 {
		t.Errorf("expected opacity 0.25, got %f", glass.Opacity)
	}

	// Missing statements fall back to opaque with the usual highlight
	plain := lib.Get("Plain")
	if plain.Opacity != 1 || plain.Shininess != 30 {
		t.Errorf("expected opacity 1 and shininess 30, got %+v", plain)
	}
	if plain.DiffuseMap != "" {
		t.Error("expected no diffuse map")
	}

	found := false
	for _, w := range lib.Warnings {
		if strings.HasSuffix(w, ": map_bump") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a warning for map_bump, got %v", lib.Warnings)
	}

	if lib.FirstDiffuseMap() != "textures/capsule0.jpg" {
		t.Errorf("expected first diffuse map textures/capsule0.jpg, got %q", lib.FirstDiffuseMap())
	}
	if lib.Get("Missing") != nil {
		t.Error("expected nil for unknown material")
	}
}

func TestParseMTL_DiffuseMapDefaults(t *testing.T) {
	tests := []struct {
		name        string
		data        string
		wantMap     string
		wantDiffuse [3]float32
		wantWarning bool
	}{
		{
			name:        "map without Kd is white",
			data:        "newmtl A\nmap_Kd skin.png\n",
			wantMap:     "skin.png",
			wantDiffuse: [3]float32{1, 1, 1},
		},
		{
			name:        "map keeps explicit Kd",
			data:        "newmtl A\nKd 0.5 0.5 0.5\nmap_Kd skin.png\n",
			wantMap:     "skin.png",
			wantDiffuse: [3]float32{0.5, 0.5, 0.5},
		},
		{
			name:        "map options are dropped",
			data:        "newmtl A\nKd 0.5 0.5 0.5\nmap_Kd -s 2 2 skin.png\n",
			wantDiffuse: [3]float32{0.5, 0.5, 0.5},
			wantWarning: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lib, err := ParseMTL([]byte(tt.data))
			if err != nil {
				t.Fatalf("ParseMTL failed: %v", err)
			}
			m := lib.Get("A")
			if m.DiffuseMap != tt.wantMap {
				t.Errorf("expected map %q, got %q", tt.wantMap, m.DiffuseMap)
			}
			if m.Diffuse != tt.wantDiffuse {
				t.Errorf("expected diffuse %v, got %v", tt.wantDiffuse, m.Diffuse)
			}
			warned := false
			for _, w := range lib.Warnings {
				if strings.Contains(w, "map_Kd options") {
					warned = true
				}
			}
			if warned != tt.wantWarning {
				t.Errorf("expected options warning %v, got %v", tt.wantWarning, lib.Warnings)
			}
		})
	}
}

func TestMTL_ResolvePaths(t *testing.T) {
	data := capsuleMTL + "newmtl Abs\nmap_Kd " + filepath.Join(string(filepath.Separator), "tex", "abs.png") + "\n"
	lib, err := ParseMTL([]byte(data))
	if err != nil {
		t.Fatalf("ParseMTL failed: %v", err)
	}

	lib.ResolvePaths(filepath.Join("assets", "models"))

	want := filepath.Join("assets", "models", "textures", "capsule0.jpg")
	if got := lib.Get("Body").DiffuseMap; got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
	if got := lib.Get("Abs").DiffuseMap; !filepath.IsAbs(got) {
		t.Errorf("expected absolute path to be kept, got %s", got)
	}
	if got := lib.Get("Plain").DiffuseMap; got != "" {
		t.Errorf("expected empty map to stay empty, got %s", got)
	}
}

func TestMTL_Preload(t *testing.T) {
	data := "newmtl Hot\nKd 2 -1 0.5\nd 1.5\nNs -3\n"
	lib, err := ParseMTL([]byte(data))
	if err != nil {
		t.Fatalf("ParseMTL failed: %v", err)
	}

	lib.Preload()

	m := lib.Get("Hot")
	if m.Diffuse != [3]float32{1, 0, 0.5} {
		t.Errorf("expected clamped diffuse (1,0,0.5), got %v", m.Diffuse)
	}
	if m.Opacity != 1 {
		t.Errorf("expected clamped opacity 1, got %f", m.Opacity)
	}
	if m.Shininess != 0 {
		t.Errorf("expected shininess 0, got %f", m.Shininess)
	}
}

func TestParseMTL_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"statement before newmtl", "Kd 1 1 1\n"},
		{"bad color", "newmtl A\nKd red green blue\n"},
		{"newmtl without name", "newmtl\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseMTL([]byte(tt.data))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, ErrMalformed) {
				t.Errorf("expected %v, got %v", ErrMalformed, err)
			}
			var perr *ParseError
			if !errors.As(err, &perr) || perr.Format != "mtl" {
				t.Errorf("expected mtl ParseError, got %v", err)
			}
		})
	}
}

func TestParseMTL_DuplicateAndUnknown(t *testing.T) {
	data := "newmtl A\nKd 1 0 0\nnewmtl A\nKd 0 1 0\nPr 0.5\n"
	lib, err := ParseMTL([]byte(data))
	if err != nil {
		t.Fatalf("ParseMTL failed: %v", err)
	}
	if len(lib.Order) != 1 {
		t.Errorf("expected one material name, got %v", lib.Order)
	}
	if lib.Get("A").Diffuse != [3]float32{0, 1, 0} {
		t.Errorf("expected later definition to win, got %v", lib.Get("A").Diffuse)
	}
	found := false
	for _, w := range lib.Warnings {
		if strings.HasSuffix(w, ": Pr") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a warning for Pr, got %v", lib.Warnings)
	}
}
