package pose

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spaceout/spacefit/internal/core"
	"github.com/spaceout/spacefit/internal/seq"
)

var (
	// ErrMalformedFrame reports an offset frame that is missing or cannot be
	// parsed. The driver skips the tick and keeps the previous joint positions.
	ErrMalformedFrame = errors.New("pose: malformed offset frame")

	// ErrAlreadyInitialized is returned when the base pose is captured twice.
	ErrAlreadyInitialized = errors.New("pose: base pose already captured")

	// ErrIncompleteBase is returned when the base pose lacks a joint.
	ErrIncompleteBase = errors.New("pose: base pose is missing joints")

	// ErrNotInitialized is returned when stepping before Initialize.
	ErrNotInitialized = errors.New("pose: driver not initialized")
)

// Source supplies the offset frame for a frame index.
type Source interface {
	Frame(index int) (OffsetFrame, error)
}

// FrameCounter is implemented by sources with a fixed number of frames.
type FrameCounter interface {
	FrameCount() int
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(index int) (OffsetFrame, error)

// Frame calls f.
func (f SourceFunc) Frame(index int) (OffsetFrame, error) {
	return f(index)
}

type wireVec struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// ParseFrame decodes a JSON object of joint name to {x, y, z}.
// Single-quoted payloads are accepted. Unknown joint names are ignored and
// missing coordinates default to zero.
func ParseFrame(data []byte) (OffsetFrame, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrMalformedFrame)
	}
	data = bytes.ReplaceAll(data, []byte("'"), []byte(`"`))

	var raw map[string]*wireVec
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: null payload", ErrMalformedFrame)
	}

	frame := make(OffsetFrame, len(raw))
	for name, v := range raw {
		j, ok := ParseJoint(name)
		if !ok || v == nil {
			continue
		}
		frame[j] = core.V(v.X, v.Y, v.Z)
	}
	return frame, nil
}

// mockPayloads are the three simulated motion-capture frames: neutral,
// arms raised, arms lowered.
var mockPayloads = [][]byte{
	[]byte(`{
		'head': {'x': 0.0, 'y': 0.0, 'z': 0.0},
		'left_hand': {'x': 0.0, 'y': 0.0, 'z': 0.0},
		'left_forearm': {'x': 0.0, 'y': 0.0, 'z': 0.0},
		'right_hand': {'x': 0.0, 'y': 0.0, 'z': 0.0},
		'right_forearm': {'x': 0.0, 'y': 0.0, 'z': 0.0},
		'left_leg': {'x': 0.0, 'y': 0.0, 'z': 0.0},
		'left_foot': {'x': 0.0, 'y': 0.0, 'z': 0.0},
		'right_leg': {'x': 0.0, 'y': 0.0, 'z': 0.0},
		'right_foot': {'x': 0.0, 'y': 0.0, 'z': 0.0}
	}`),
	[]byte(`{
		'head': {'x': 0.0, 'y': 0.0, 'z': 0.0},
		'left_hand': {'x': 0.4, 'y': 1, 'z': 0.0},
		'left_forearm': {'x': 0.2, 'y': 0.5, 'z': 0.0},
		'right_hand': {'x': -0.4, 'y': 1, 'z': 0.0},
		'right_forearm': {'x': -0.2, 'y': 0.5, 'z': 0.0},
		'left_leg': {'x': 0.0, 'y': 0.0, 'z': 0.0},
		'left_foot': {'x': 0.0, 'y': 0.0, 'z': 0.0},
		'right_leg': {'x': 0.0, 'y': 0.0, 'z': 0.0},
		'right_foot': {'x': 0.0, 'y': 0.0, 'z': 0.0}
	}`),
	[]byte(`{
		'head': {'x': 0.0, 'y': 0.0, 'z': 0.0},
		'left_hand': {'x': 0.4, 'y': -0.5, 'z': 0.0},
		'left_forearm': {'x': 0.2, 'y': -0.25, 'z': 0.0},
		'right_hand': {'x': -0.4, 'y': -0.5, 'z': 0.0},
		'right_forearm': {'x': -0.2, 'y': -0.25, 'z': 0.0},
		'left_leg': {'x': 0.0, 'y': 0.0, 'z': 0.0},
		'left_foot': {'x': 0.0, 'y': 0.0, 'z': 0.0},
		'right_leg': {'x': 0.0, 'y': 0.0, 'z': 0.0},
		'right_foot': {'x': 0.0, 'y': 0.0, 'z': 0.0}
	}`),
}

// MockPayload returns a copy of mock payload i modulo the payload count.
func MockPayload(i int) []byte {
	n := len(mockPayloads)
	return bytes.Clone(mockPayloads[((i%n)+n)%n])
}

// MockSource replays a fixed list of JSON payloads, standing in for a real
// motion-capture feed.
type MockSource struct {
	payloads *seq.Rotation[[]byte]
}

// NewMockSource creates a source over the built-in payloads.
func NewMockSource() *MockSource {
	s, _ := NewPayloadSource(mockPayloads)
	return s
}

// NewPayloadSource creates a source over custom payloads.
func NewPayloadSource(payloads [][]byte) (*MockSource, error) {
	rot, err := seq.New(payloads)
	if err != nil {
		return nil, fmt.Errorf("pose: payload source: %w", err)
	}
	return &MockSource{payloads: rot}, nil
}

// Frame parses the payload for index.
func (m *MockSource) Frame(index int) (OffsetFrame, error) {
	return ParseFrame(m.payloads.At(index))
}

// FrameCount implements FrameCounter.
func (m *MockSource) FrameCount() int {
	return m.payloads.Len()
}
