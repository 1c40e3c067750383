// Package collide defines what a forward probe can hit and how it reports it.
package collide

import "github.com/spaceout/spacefit/internal/core"

// Kind classifies a collider.
type Kind int

const (
	KindNone Kind = iota
	KindWall      // ends the run
	KindCoin      // collected for score
	KindOther     // blocks the probe with no effect
)

// String returns the tag name of the kind.
func (k Kind) String() string {
	switch k {
	case KindWall:
		return "Wall"
	case KindCoin:
		return "Coin"
	case KindOther:
		return "Other"
	default:
		return "None"
	}
}

// Collider is anything a probe can hit.
type Collider interface {
	Kind() Kind
	Position() core.Vec3
}

// Hit is the result of a successful probe.
type Hit struct {
	Collider Collider
	Distance float64
}

// Kind returns the kind of the hit collider, or KindNone for an empty hit.
func (h Hit) Kind() Kind {
	if h.Collider == nil {
		return KindNone
	}
	return h.Collider.Kind()
}

// Prober casts a ray from origin along dir and reports the nearest collider
// within maxDist.
type Prober interface {
	Probe(origin, dir core.Vec3, maxDist float64) (Hit, bool)
}

// ProberFunc adapts a function to the Prober interface.
type ProberFunc func(origin, dir core.Vec3, maxDist float64) (Hit, bool)

// Probe calls f.
func (f ProberFunc) Probe(origin, dir core.Vec3, maxDist float64) (Hit, bool) {
	return f(origin, dir, maxDist)
}

// Point is a collider fixed at a position.
type Point struct {
	K   Kind
	Pos core.Vec3
}

// Kind implements Collider.
func (p Point) Kind() Kind { return p.K }

// Position implements Collider.
func (p Point) Position() core.Vec3 { return p.Pos }
