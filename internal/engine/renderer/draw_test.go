package renderer

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/objviewer/internal/engine/scene"
)

func meshAt(z float32, m scene.Material) *scene.Node {
	g := &scene.Geometry{
		Positions: []float32{0, 0, z, 1, 0, z, 0, 1, z},
		Indices:   []uint32{0, 1, 2},
		Groups:    []scene.Group{{Start: 0, Count: 3, MaterialIndex: 0}},
	}
	g.ComputeBounds()
	return scene.NewMeshNode("m", &scene.Mesh{Geometry: g, Materials: []scene.Material{m}})
}

func TestCollectDrawsOrder(t *testing.T) {
	glassNear := scene.NewStandardMaterial("glass-near")
	glassNear.Opacity = 0.5
	glassFar := scene.NewStandardMaterial("glass-far")
	glassFar.Opacity = 0.5
	solid := scene.NewStandardMaterial("solid")

	root := scene.NewGroup("root")
	root.Add(meshAt(4, glassNear), meshAt(-10, glassFar), meshAt(0, solid))

	draws := collectDraws(root, mgl32.Vec3{0, 0, 5})
	if len(draws) != 3 {
		t.Fatalf("expected 3 draws, got %d", len(draws))
	}

	want := []string{"solid", "glass-far", "glass-near"}
	for i, name := range want {
		if got := draws[i].material.Name(); got != name {
			t.Errorf("draw %d: expected %s, got %s", i, name, got)
		}
	}
}

func TestCollectDrawsSkipsHidden(t *testing.T) {
	root := scene.NewGroup("root")
	hidden := meshAt(0, scene.NewStandardMaterial("a"))
	hidden.Visible = false
	root.Add(hidden, meshAt(0, scene.NewStandardMaterial("b")))

	draws := collectDraws(root, mgl32.Vec3{0, 0, 5})
	if len(draws) != 1 || draws[0].material.Name() != "b" {
		t.Errorf("expected only visible mesh drawn, got %d draws", len(draws))
	}
}
