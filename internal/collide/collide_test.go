package collide

import (
	"testing"

	"github.com/spaceout/spacefit/internal/core"
)

func TestHitKind(t *testing.T) {
	tests := []struct {
		name string
		hit  Hit
		want Kind
	}{
		{"empty", Hit{}, KindNone},
		{"wall", Hit{Collider: Point{K: KindWall}}, KindWall},
		{"coin", Hit{Collider: Point{K: KindCoin}, Distance: 0.5}, KindCoin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.hit.Kind(); got != tt.want {
				t.Errorf("Kind() = %v, expected %v", got, tt.want)
			}
		})
	}
}

func TestKindString(t *testing.T) {
	if KindWall.String() != "Wall" || KindCoin.String() != "Coin" || Kind(42).String() != "None" {
		t.Error("Kind names do not match the collider tags")
	}
}

func TestProberFunc(t *testing.T) {
	wall := Point{K: KindWall, Pos: core.V(0, 0, 2)}
	var p Prober = ProberFunc(func(origin, dir core.Vec3, maxDist float64) (Hit, bool) {
		d := wall.Pos.Sub(origin).Dot(dir)
		if d < 0 || d > maxDist {
			return Hit{}, false
		}
		return Hit{Collider: wall, Distance: d}, true
	})

	if _, ok := p.Probe(core.Vec3{}, core.Forward, 1); ok {
		t.Error("wall at 2 should be out of reach of a 1 unit probe")
	}
	hit, ok := p.Probe(core.V(0, 0, 1.5), core.Forward, 1)
	if !ok || hit.Kind() != KindWall || hit.Distance != 0.5 {
		t.Errorf("Probe() = %+v, %v; expected wall at 0.5", hit, ok)
	}
}
