package formats

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const quadOBJ = `# a textured quad
mtllib quad.mtl
o Quad
v -1 -1 0
v  1 -1 0
v  1  1 0
v -1  1 0
vt 0 0
vt 1 0
vt 1 1
vt 0 1
vn 0 0 1
usemtl Skin
s 1
f 1/1/1 2/2/1 3/3/1 4/4/1
`

func TestParseOBJ_Quad(t *testing.T) {
	obj, err := ParseOBJ([]byte(quadOBJ))
	if err != nil {
		t.Fatalf("ParseOBJ failed: %v", err)
	}

	if len(obj.MaterialLibs) != 1 || obj.MaterialLibs[0] != "quad.mtl" {
		t.Errorf("expected mtllib quad.mtl, got %v", obj.MaterialLibs)
	}
	if obj.VertexCount() != 4 {
		t.Errorf("expected 4 vertices, got %d", obj.VertexCount())
	}
	if len(obj.TexCoords) != 4 {
		t.Errorf("expected 4 texcoords, got %d", len(obj.TexCoords))
	}
	if len(obj.Objects) != 1 || obj.Objects[0].Name != "Quad" {
		t.Fatalf("expected one object named Quad, got %+v", obj.Objects)
	}

	// Quad is fan-triangulated into (0,1,2) and (0,2,3)
	faces := obj.Objects[0].Faces
	if len(faces) != 2 {
		t.Fatalf("expected 2 triangles, got %d", len(faces))
	}
	want := [2][3]int{{0, 1, 2}, {0, 2, 3}}
	for i, f := range faces {
		for j, c := range f.Corners {
			if c.V != want[i][j] {
				t.Errorf("face %d corner %d: expected v=%d, got %d", i, j, want[i][j], c.V)
			}
			if c.VT != want[i][j] {
				t.Errorf("face %d corner %d: expected vt=%d, got %d", i, j, want[i][j], c.VT)
			}
			if c.VN != 0 {
				t.Errorf("face %d corner %d: expected vn=0, got %d", i, j, c.VN)
			}
		}
		if f.Material != "Skin" {
			t.Errorf("expected material Skin, got %q", f.Material)
		}
		if !f.Smooth {
			t.Error("expected smooth shading")
		}
	}

	if obj.TriangleCount() != 2 {
		t.Errorf("expected TriangleCount 2, got %d", obj.TriangleCount())
	}

	lo, hi := obj.Bounds()
	if lo != [3]float32{-1, -1, 0} || hi != [3]float32{1, 1, 0} {
		t.Errorf("unexpected bounds %v %v", lo, hi)
	}
}

func TestParseOBJ_NegativeIndices(t *testing.T) {
	data := `
v 0 0 0
v 1 0 0
v 0 1 0
f -3 -2 -1
v 0 0 1
f 1 2 -1
`
	obj, err := ParseOBJ([]byte(data))
	if err != nil {
		t.Fatalf("ParseOBJ failed: %v", err)
	}

	faces := obj.Objects[0].Faces
	if len(faces) != 2 {
		t.Fatalf("expected 2 faces, got %d", len(faces))
	}
	if got := faces[0].Corners; got[0].V != 0 || got[1].V != 1 || got[2].V != 2 {
		t.Errorf("expected first face (0,1,2), got %+v", got)
	}
	// -1 refers to the vertex defined right before the face
	if got := faces[1].Corners[2].V; got != 3 {
		t.Errorf("expected relative index to resolve to 3, got %d", got)
	}
	if faces[0].Corners[0].VT != NoIndex || faces[0].Corners[0].VN != NoIndex {
		t.Error("expected missing texcoord and normal to be NoIndex")
	}
	if obj.Objects[0].Name == "" {
		t.Error("expected faces outside any object to get a generated name")
	}
	if faces[0].Material != "" {
		t.Errorf("expected no material outside usemtl, got %q", faces[0].Material)
	}
}

func TestParseOBJ_CornerForms(t *testing.T) {
	data := `
v 0 0 0
v 1 0 0
v 0 1 0
vt 0 0
vn 0 0 1
f 1//1 2//1 3//1
f 1/1 2/1 3/1
`
	obj, err := ParseOBJ([]byte(data))
	if err != nil {
		t.Fatalf("ParseOBJ failed: %v", err)
	}
	faces := obj.Objects[0].Faces
	if c := faces[0].Corners[0]; c.VT != NoIndex || c.VN != 0 {
		t.Errorf("v//vn: expected vt=NoIndex vn=0, got %+v", c)
	}
	if c := faces[1].Corners[0]; c.VT != 0 || c.VN != NoIndex {
		t.Errorf("v/vt: expected vt=0 vn=NoIndex, got %+v", c)
	}
}

func TestParseOBJ_GroupsAndMaterials(t *testing.T) {
	data := `
v 0 0 0
v 1 0 0
v 0 1 0
v 1 1 0
g body
usemtl Red
f 1 2 3
usemtl Blue
f 2 4 3
g empty
g
f 1 2 4
`
	obj, err := ParseOBJ([]byte(data))
	if err != nil {
		t.Fatalf("ParseOBJ failed: %v", err)
	}

	// "empty" never received faces and is dropped; the bare "g" gets a name
	if len(obj.Objects) != 2 {
		t.Fatalf("expected 2 objects, got %d", len(obj.Objects))
	}
	if obj.Objects[0].Name != "body" {
		t.Errorf("expected first object body, got %q", obj.Objects[0].Name)
	}
	if obj.Objects[1].Name == "" {
		t.Error("expected nameless group to get a generated name")
	}
	if obj.Objects[0].Faces[0].Material != "Red" || obj.Objects[0].Faces[1].Material != "Blue" {
		t.Error("expected usemtl ranges to follow faces")
	}

	names := obj.MaterialNames()
	if strings.Join(names, ",") != "Red,Blue" {
		t.Errorf("expected materials Red,Blue, got %v", names)
	}
}

func TestParseOBJ_ContinuationAndComments(t *testing.T) {
	tests := []struct {
		name      string
		data      string
		triangles int
	}{
		{"joined", "v 0 0 0 # origin\nv 1 0 0\nv 0 1 0\nf 1 \\\n 2 3\n", 1},
		{"trailing at end of input", "v 0 0 0\nv 1 0 0\nv 0 1 0\nv 1 1 0\nf 1 2 3\nf 2 4 3 \\", 2},
		{"crlf", "v 0 0 0\r\nv 1 0 0\r\nv 0 1 0\r\nf 1 2 3\r\n", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obj, err := ParseOBJ([]byte(tt.data))
			if err != nil {
				t.Fatalf("ParseOBJ failed: %v", err)
			}
			if obj.TriangleCount() != tt.triangles {
				t.Errorf("expected %d triangles, got %d", tt.triangles, obj.TriangleCount())
			}
		})
	}
}

func TestNormalizeKeepsLineNumbers(t *testing.T) {
	got := strings.Split(string(normalize([]byte("a \\\nb\nc # note\nd \\"))), "\n")
	want := []string{"a  b", "", "c ", "d  ", ""}
	if len(got) != len(want) {
		t.Fatalf("expected %q, got %q", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d: expected %q, got %q", i+1, want[i], got[i])
		}
	}
}

func TestParseOBJ_Warnings(t *testing.T) {
	data := "v 0 0 0\nv 1 0 0\nv 0 1 0\nvp 0.5\nl 1 2\nf 1 2 3\n"
	obj, err := ParseOBJ([]byte(data))
	if err != nil {
		t.Fatalf("ParseOBJ failed: %v", err)
	}
	for _, keyword := range []string{"vp", "l"} {
		found := false
		for _, w := range obj.Warnings {
			if strings.HasSuffix(w, ": "+keyword) {
				found = true
			}
		}
		if !found {
			t.Errorf("expected a warning for %s, got %v", keyword, obj.Warnings)
		}
	}
}

func TestParseOBJ_Errors(t *testing.T) {
	tests := []struct {
		name       string
		data       string
		wantErr    error
		parseError bool
		wantLine   int
	}{
		{
			name:    "empty",
			data:    "# nothing here\n",
			wantErr: ErrEmptyMesh,
		},
		{
			name:    "vertices only",
			data:    "v 0 0 0\nv 1 1 1\n",
			wantErr: ErrEmptyMesh,
		},
		{
			name:       "zero index",
			data:       "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 0 1 2\n",
			parseError: true,
			wantLine:   4,
		},
		{
			name:       "zero index after continuation",
			data:       "v 0 0 0\nv 1 0 \\\n0\nv 0 1 0\nf 0 1 2\n",
			parseError: true,
			wantLine:   5,
		},
		{
			name:       "index out of range",
			data:       "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 9\n",
			wantErr:    ErrInvalidIndex,
			parseError: true,
		},
		{
			name:       "relative index before start",
			data:       "v 0 0 0\nf -1 -2 -3\n",
			wantErr:    ErrInvalidIndex,
			parseError: true,
		},
		{
			name:       "texcoord out of range",
			data:       "v 0 0 0\nv 1 0 0\nv 0 1 0\nvt 0 0\nf 1/1 2/2 3/1\n",
			wantErr:    ErrInvalidIndex,
			parseError: true,
		},
		{
			name:       "two vertex face",
			data:       "v 0 0 0\nv 1 0 0\nf 1 2\n",
			parseError: true,
		},
		{
			name:       "bad vertex",
			data:       "v 0 zero 0\n",
			parseError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseOBJ([]byte(tt.data))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
			if !tt.parseError {
				return
			}
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("expected ParseError, got %T", err)
			}
			if perr.Format != "obj" {
				t.Errorf("expected format obj, got %q", perr.Format)
			}
			if tt.wantLine > 0 && perr.Line != tt.wantLine {
				t.Errorf("expected line %d, got %d", tt.wantLine, perr.Line)
			}
		})
	}
}

func TestParseErrorMessage(t *testing.T) {
	withLine := &ParseError{Format: "obj", Line: 7, Err: ErrInvalidIndex}
	if got := withLine.Error(); got != "obj line 7: invalid element index" {
		t.Errorf("unexpected message %q", got)
	}
	noLine := &ParseError{Format: "mtl", Err: ErrMalformed}
	if got := noLine.Error(); got != "mtl: malformed input" {
		t.Errorf("unexpected message %q", got)
	}
	if !errors.Is(withLine, ErrInvalidIndex) {
		t.Error("expected ParseError to unwrap")
	}
}

func TestErrorLine(t *testing.T) {
	tests := []struct {
		msg  string
		want int
	}{
		{"Face line with less 3 fields in line:12", 12},
		{"strconv.ParseFloat: parsing \"x\": invalid syntax", 0},
		{"bad in line:abc", 0},
	}
	for _, tt := range tests {
		if got := errorLine(errors.New(tt.msg)); got != tt.want {
			t.Errorf("%q: expected %d, got %d", tt.msg, tt.want, got)
		}
	}
}

func TestParseOBJFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quad.obj")
	if err := os.WriteFile(path, []byte(quadOBJ), 0644); err != nil {
		t.Fatalf("failed to write obj: %v", err)
	}

	obj, err := ParseOBJFile(path)
	if err != nil {
		t.Fatalf("ParseOBJFile failed: %v", err)
	}
	if obj.TriangleCount() != 2 {
		t.Errorf("expected 2 triangles, got %d", obj.TriangleCount())
	}

	if _, err := ParseOBJFile(filepath.Join(t.TempDir(), "missing.obj")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}
