package pose

import (
	"errors"
	"testing"

	"github.com/spaceout/spacefit/internal/core"
)

func TestParseFrame(t *testing.T) {
	frame, err := ParseFrame([]byte(`{"head": {"x": 1, "y": 2, "z": 3}, "left_hand": {"y": -0.5}, "tail": {"x": 9}}`))
	if err != nil {
		t.Fatalf("ParseFrame() failed: %v", err)
	}
	if len(frame) != 2 {
		t.Errorf("expected 2 joints, got %d", len(frame))
	}
	if frame[Head] != core.V(1, 2, 3) {
		t.Errorf("head = %v, expected (1, 2, 3)", frame[Head])
	}
	if frame[LeftHand] != core.V(0, -0.5, 0) {
		t.Errorf("left_hand = %v, expected (0, -0.5, 0)", frame[LeftHand])
	}
}

func TestParseFrameSingleQuotes(t *testing.T) {
	frame, err := ParseFrame([]byte(`{'right_foot': {'x': 0.25, 'y': 0, 'z': -1}}`))
	if err != nil {
		t.Fatalf("ParseFrame() failed: %v", err)
	}
	if frame[RightFoot] != core.V(0.25, 0, -1) {
		t.Errorf("right_foot = %v", frame[RightFoot])
	}
}

func TestParseFrameMalformed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"empty", ""},
		{"whitespace", "   "},
		{"null", "null"},
		{"truncated", `{"head": {"x": 1`},
		{"wrong shape", `{"head": 5}`},
		{"array", `[1, 2, 3]`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseFrame([]byte(tc.data))
			if !errors.Is(err, ErrMalformedFrame) {
				t.Errorf("ParseFrame(%q) error = %v, expected ErrMalformedFrame", tc.data, err)
			}
		})
	}
}

func TestMockSourceFrames(t *testing.T) {
	src := NewMockSource()
	if src.FrameCount() != 3 {
		t.Fatalf("FrameCount() = %d, expected 3", src.FrameCount())
	}

	neutral, err := src.Frame(0)
	if err != nil {
		t.Fatalf("Frame(0) failed: %v", err)
	}
	if len(neutral) != 9 {
		t.Errorf("Frame(0) has %d joints, expected 9", len(neutral))
	}
	for j, v := range neutral {
		if v != (core.Vec3{}) {
			t.Errorf("neutral frame %s = %v, expected zero", j, v)
		}
	}

	raised, err := src.Frame(1)
	if err != nil {
		t.Fatalf("Frame(1) failed: %v", err)
	}
	if raised[LeftHand] != core.V(0.4, 1, 0) || raised[RightHand] != core.V(-0.4, 1, 0) {
		t.Errorf("raised hands = %v / %v", raised[LeftHand], raised[RightHand])
	}

	lowered, err := src.Frame(5) // wraps to 2
	if err != nil {
		t.Fatalf("Frame(5) failed: %v", err)
	}
	if lowered[LeftForearm] != core.V(0.2, -0.25, 0) {
		t.Errorf("lowered left forearm = %v", lowered[LeftForearm])
	}
}

func TestPayloadSourceRejectsEmpty(t *testing.T) {
	if _, err := NewPayloadSource(nil); err == nil {
		t.Error("NewPayloadSource(nil) should fail")
	}
}

func TestMockPayloadIsCopy(t *testing.T) {
	p := MockPayload(1)
	p[0] = 'X'
	if _, err := NewMockSource().Frame(1); err != nil {
		t.Errorf("mutating MockPayload copy broke the source: %v", err)
	}
}

func TestMockSourceReplaysPayloads(t *testing.T) {
	src := NewMockSource()
	for i := 0; i < src.FrameCount(); i++ {
		want, err := ParseFrame(MockPayload(i))
		if err != nil {
			t.Fatalf("payload %d: %v", i, err)
		}
		got, err := src.Frame(i)
		if err != nil {
			t.Fatalf("Frame(%d) failed: %v", i, err)
		}
		for _, j := range Joints {
			if got[j] != want[j] {
				t.Errorf("frame %d %s = %v, expected the payload value %v", i, j, got[j], want[j])
			}
		}
	}
}
