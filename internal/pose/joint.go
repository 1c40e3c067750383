// Package pose drives the astronaut skeleton: a base pose captured once at
// startup plus a per-joint offset frame that changes on a timer.
package pose

import (
	"fmt"

	"github.com/spaceout/spacefit/internal/core"
)

// Joint identifies a skeletal landmark.
type Joint int

const (
	Head Joint = iota
	LeftHand
	LeftForearm
	RightHand
	RightForearm
	LeftLeg
	LeftFoot
	RightLeg
	RightFoot
)

// Joints lists every joint in declaration order.
var Joints = []Joint{
	Head,
	LeftHand, LeftForearm,
	RightHand, RightForearm,
	LeftLeg, LeftFoot,
	RightLeg, RightFoot,
}

var jointNames = map[Joint]string{
	Head:         "head",
	LeftHand:     "left_hand",
	LeftForearm:  "left_forearm",
	RightHand:    "right_hand",
	RightForearm: "right_forearm",
	LeftLeg:      "left_leg",
	LeftFoot:     "left_foot",
	RightLeg:     "right_leg",
	RightFoot:    "right_foot",
}

var jointsByName = func() map[string]Joint {
	m := make(map[string]Joint, len(jointNames))
	for j, n := range jointNames {
		m[n] = j
	}
	return m
}()

// String returns the wire name of the joint, e.g. "left_forearm".
func (j Joint) String() string {
	if n, ok := jointNames[j]; ok {
		return n
	}
	return fmt.Sprintf("joint(%d)", int(j))
}

// ParseJoint looks up a joint by its wire name.
func ParseJoint(name string) (Joint, bool) {
	j, ok := jointsByName[name]
	return j, ok
}

// Pose maps joints to world positions.
type Pose map[Joint]core.Vec3

// Clone returns a copy of p.
func (p Pose) Clone() Pose {
	out := make(Pose, len(p))
	for j, v := range p {
		out[j] = v
	}
	return out
}

// OffsetFrame maps joints to displacements from the base pose.
// Joints missing from a frame keep their previous position.
type OffsetFrame map[Joint]core.Vec3

// DefaultBase is the rest skeleton of the astronaut, standing at the origin
// and facing +Z. Units match the track.
func DefaultBase() Pose {
	return Pose{
		Head:         core.V(0, 1.7, 0),
		LeftForearm:  core.V(-0.45, 1.25, 0),
		LeftHand:     core.V(-0.55, 0.95, 0),
		RightForearm: core.V(0.45, 1.25, 0),
		RightHand:    core.V(0.55, 0.95, 0),
		LeftLeg:      core.V(-0.2, 0.5, 0),
		LeftFoot:     core.V(-0.2, 0.05, 0),
		RightLeg:     core.V(0.2, 0.5, 0),
		RightFoot:    core.V(0.2, 0.05, 0),
	}
}
