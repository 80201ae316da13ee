package renderer

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/gas/components"
	"github.com/pthm-cable/gas/systems"
)

func TestNewWallRenderer_Normals(t *testing.T) {
	walls := systems.NewWallSystem(1.5)
	walls.AddSphere(components.WallSphere{Pos: r2.Vec{X: 10, Y: 20}, Normal: r2.Vec{X: 0, Y: -1}})
	walls.AddSphere(components.WallSphere{Pos: r2.Vec{X: 4, Y: 4}, Normal: r2.Vec{X: 0.6, Y: 0.8}})

	r := NewWallRenderer(walls)
	if len(r.points) != 2 || len(r.normals) != 2 {
		t.Fatalf("captured %d points and %d normals, want 2 each", len(r.points), len(r.normals))
	}
	for i := range r.points {
		dx := r.normals[i].X - r.points[i].X
		dy := r.normals[i].Y - r.points[i].Y
		l2 := dx*dx + dy*dy
		if l2 < WallNormalLength*WallNormalLength-1e-4 || l2 > WallNormalLength*WallNormalLength+1e-4 {
			t.Errorf("normal %d has squared length %v, want %v", i, l2, WallNormalLength*WallNormalLength)
		}
	}
}

func TestNormalTip(t *testing.T) {
	ws := &components.WallSphere{Pos: r2.Vec{X: 10, Y: 20}, Normal: r2.Vec{X: 0, Y: -1}}
	tip := normalTip(ws)
	if tip.X != 10 || tip.Y != 17 {
		t.Errorf("tip = (%v, %v), want (10, 17)", tip.X, tip.Y)
	}
}

func TestNewWallRenderer_Nil(t *testing.T) {
	r := NewWallRenderer(nil)
	if len(r.points) != 0 || len(r.normals) != 0 {
		t.Error("nil walls should capture nothing")
	}
}
