package pose

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/spaceout/spacefit/internal/core"
)

// LandmarkCount is the number of landmarks a pose landmarker reports.
const LandmarkCount = 33

// landmarkJoints maps landmarker indices to skeleton joints.
var landmarkJoints = map[int]Joint{
	0:  Head,         // nose
	13: LeftForearm,  // left elbow
	14: RightForearm, // right elbow
	15: LeftHand,     // left wrist
	16: RightHand,    // right wrist
	25: LeftLeg,      // left knee
	26: RightLeg,     // right knee
	27: LeftFoot,     // left ankle
	28: RightFoot,    // right ankle
}

// LandmarkIndex returns the landmark index that drives joint j.
func LandmarkIndex(j Joint) (int, bool) {
	for idx, lj := range landmarkJoints {
		if lj == j {
			return idx, true
		}
	}
	return 0, false
}

// LandmarksResponse is the body of GET /get_landmarks. Landmarks is either
// a list of 33 [x, y, z] triples or the number -1 when detection failed.
type LandmarksResponse struct {
	Landmarks json.RawMessage `json:"landmarks"`
}

// DecodeLandmarks validates a landmarks response body.
func DecodeLandmarks(body []byte) ([][3]float64, error) {
	var resp LandmarksResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
	}
	raw := bytes.TrimSpace(resp.Landmarks)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, fmt.Errorf("%w: no landmarks field", ErrMalformedFrame)
	}
	if raw[0] != '[' {
		return nil, fmt.Errorf("%w: detection failed", ErrMalformedFrame)
	}

	var pts [][]float64
	if err := json.Unmarshal(raw, &pts); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
	}
	if len(pts) != LandmarkCount {
		return nil, fmt.Errorf("%w: expected %d landmarks, got %d", ErrMalformedFrame, LandmarkCount, len(pts))
	}

	out := make([][3]float64, len(pts))
	for i, p := range pts {
		if len(p) != 3 {
			return nil, fmt.Errorf("%w: landmark %d has %d coordinates", ErrMalformedFrame, i, len(p))
		}
		out[i] = [3]float64{p[0], p[1], p[2]}
	}
	return out, nil
}

// HTTPSource polls a landmark endpoint in the background and serves the
// latest valid frame. The first valid response is the calibration pose;
// offsets are measured from it. Frame never blocks on the network.
type HTTPSource struct {
	url      string
	client   *http.Client
	interval time.Duration
	scale    float64
	logger   *log.Logger

	mu         sync.Mutex
	latest     OffsetFrame
	lastErr    error
	calib      [][3]float64
	lastUpdate time.Time
}

// HTTPOption configures an HTTPSource.
type HTTPOption func(*HTTPSource)

// WithPollInterval sets the delay between requests.
func WithPollInterval(d time.Duration) HTTPOption {
	return func(s *HTTPSource) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithScale sets the factor from normalized image units to world units.
func WithScale(scale float64) HTTPOption {
	return func(s *HTTPSource) {
		if scale != 0 {
			s.scale = scale
		}
	}
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(s *HTTPSource) {
		if c != nil {
			s.client = c
		}
	}
}

// WithHTTPLogger sets the logger.
func WithHTTPLogger(l *log.Logger) HTTPOption {
	return func(s *HTTPSource) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewHTTPSource creates a source for the landmarks endpoint at url.
func NewHTTPSource(url string, opts ...HTTPOption) *HTTPSource {
	s := &HTTPSource{
		url:      url,
		client:   &http.Client{Timeout: 2 * time.Second},
		interval: 100 * time.Millisecond,
		scale:    2.0,
		logger:   log.Default().WithPrefix("posefeed"),
		lastErr:  fmt.Errorf("%w: no landmarks received yet", ErrMalformedFrame),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run polls until ctx is cancelled.
func (s *HTTPSource) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		if err := s.Poll(ctx); err != nil && ctx.Err() == nil {
			s.logger.Debug("poll failed", "url", s.url, "error", err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Poll performs one request and stores the result.
func (s *HTTPSource) Poll(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return s.fail(fmt.Errorf("posefeed: build request: %w", err))
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return s.fail(fmt.Errorf("posefeed: request: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return s.fail(fmt.Errorf("posefeed: unexpected status %d", resp.StatusCode))
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return s.fail(fmt.Errorf("posefeed: read body: %w", err))
	}
	pts, err := DecodeLandmarks(buf.Bytes())
	if err != nil {
		return s.fail(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.calib == nil {
		s.calib = pts
		s.logger.Info("calibrated pose feed", "url", s.url)
	}
	s.latest = s.offsets(pts)
	s.lastErr = nil
	s.lastUpdate = time.Now()
	return nil
}

// fail records err for Frame and drops the previous frame, so the driver
// holds the last applied pose until the feed recovers.
func (s *HTTPSource) fail(err error) error {
	s.mu.Lock()
	s.latest = nil
	s.lastErr = err
	s.mu.Unlock()
	return err
}

// offsets converts landmarks to joint offsets from the calibration pose.
// Image y grows downward, world y grows upward.
func (s *HTTPSource) offsets(pts [][3]float64) OffsetFrame {
	frame := make(OffsetFrame, len(landmarkJoints))
	for idx, j := range landmarkJoints {
		p, c := pts[idx], s.calib[idx]
		frame[j] = core.V(
			(p[0]-c[0])*s.scale,
			-(p[1]-c[1])*s.scale,
			(p[2]-c[2])*s.scale,
		)
	}
	return frame
}

// Frame returns the latest frame. The index is ignored: a live feed has no
// frame sequence.
func (s *HTTPSource) Frame(int) (OffsetFrame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.latest == nil {
		if s.lastErr != nil {
			return nil, s.lastErr
		}
		return nil, fmt.Errorf("%w: no frame available", ErrMalformedFrame)
	}
	out := make(OffsetFrame, len(s.latest))
	for j, v := range s.latest {
		out[j] = v
	}
	return out, nil
}

// FrameCount implements FrameCounter.
func (s *HTTPSource) FrameCount() int { return 1 }

// Recalibrate makes the next valid response the new calibration pose.
func (s *HTTPSource) Recalibrate() {
	s.mu.Lock()
	s.calib = nil
	s.mu.Unlock()
}

// LastUpdate returns when the last valid frame arrived.
func (s *HTTPSource) LastUpdate() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUpdate
}
