package pose

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func landmarkBody(t *testing.T, shift float64) []byte {
	t.Helper()
	pts := make([][3]float64, LandmarkCount)
	for i := range pts {
		pts[i] = [3]float64{0.5, 0.5, 0}
	}
	pts[15] = [3]float64{0.5 + shift, 0.5 - shift, 0} // left wrist
	body, err := json.Marshal(map[string]any{"landmarks": pts})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return body
}

func TestDecodeLandmarks(t *testing.T) {
	pts, err := DecodeLandmarks(landmarkBody(t, 0))
	if err != nil {
		t.Fatalf("DecodeLandmarks() failed: %v", err)
	}
	if len(pts) != LandmarkCount {
		t.Errorf("got %d landmarks, expected %d", len(pts), LandmarkCount)
	}
}

func TestDecodeLandmarksRejects(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"detection failed", `{"landmarks": -1}`},
		{"missing field", `{}`},
		{"null", `{"landmarks": null}`},
		{"too few", `{"landmarks": [[0, 0, 0]]}`},
		{"not json", `oops`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := DecodeLandmarks([]byte(tc.body)); !errors.Is(err, ErrMalformedFrame) {
				t.Errorf("DecodeLandmarks(%s) error = %v, expected ErrMalformedFrame", tc.body, err)
			}
		})
	}
}

func TestHTTPSourceCalibratesOnFirstFrame(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		shift := 0.0
		if calls.Add(1) > 1 {
			shift = 0.1
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(landmarkBody(t, shift))
	}))
	defer srv.Close()

	src := NewHTTPSource(srv.URL, WithScale(10), WithHTTPLogger(log.New(io.Discard)))

	if _, err := src.Frame(0); !errors.Is(err, ErrMalformedFrame) {
		t.Errorf("Frame() before polling error = %v, expected ErrMalformedFrame", err)
	}

	ctx := context.Background()
	if err := src.Poll(ctx); err != nil {
		t.Fatalf("first Poll() failed: %v", err)
	}
	frame, err := src.Frame(0)
	if err != nil {
		t.Fatalf("Frame() failed: %v", err)
	}
	if frame[LeftHand].Len() != 0 {
		t.Errorf("calibration frame offset = %v, expected zero", frame[LeftHand])
	}

	if err := src.Poll(ctx); err != nil {
		t.Fatalf("second Poll() failed: %v", err)
	}
	frame, _ = src.Frame(7)
	got := frame[LeftHand]
	if math.Abs(got.X-1) > 1e-9 || math.Abs(got.Y-1) > 1e-9 {
		t.Errorf("left hand offset = %v, expected (1, 1, 0)", got)
	}
	if len(frame) != 9 {
		t.Errorf("frame has %d joints, expected 9", len(frame))
	}
	if src.LastUpdate().IsZero() {
		t.Error("LastUpdate() should be set after a valid poll")
	}
}

func TestHTTPSourceFailureClearsFrame(t *testing.T) {
	var fail atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			w.Write([]byte(`{"landmarks": -1}`))
			return
		}
		w.Write(landmarkBody(t, 0))
	}))
	defer srv.Close()

	src := NewHTTPSource(srv.URL, WithHTTPLogger(log.New(io.Discard)))
	if err := src.Poll(context.Background()); err != nil {
		t.Fatalf("Poll() failed: %v", err)
	}

	fail.Store(true)
	if err := src.Poll(context.Background()); err == nil {
		t.Fatal("Poll() should report the failed detection")
	}
	if _, err := src.Frame(0); !errors.Is(err, ErrMalformedFrame) {
		t.Errorf("Frame() error = %v, expected ErrMalformedFrame", err)
	}
}

func TestHTTPSourceBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	src := NewHTTPSource(srv.URL, WithHTTPLogger(log.New(io.Discard)))
	if err := src.Poll(context.Background()); err == nil {
		t.Error("Poll() should fail on a 500")
	}
	if _, err := src.Frame(0); err == nil {
		t.Error("Frame() should report the poll failure")
	}
}

func TestHTTPSourceRunStopsOnCancel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(landmarkBody(t, 0))
	}))
	defer srv.Close()

	src := NewHTTPSource(srv.URL, WithPollInterval(5*time.Millisecond), WithHTTPLogger(log.New(io.Discard)))
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- src.Run(ctx) }()

	deadline := time.After(2 * time.Second)
	for src.LastUpdate().IsZero() {
		select {
		case <-deadline:
			t.Fatal("Run() never produced a frame")
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run() = %v, expected context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run() did not stop after cancel")
	}
}

func TestHTTPSourceRecalibrate(t *testing.T) {
	var shift atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(landmarkBody(t, float64(shift.Load())/10))
	}))
	defer srv.Close()

	src := NewHTTPSource(srv.URL, WithHTTPLogger(log.New(io.Discard)))
	ctx := context.Background()
	src.Poll(ctx)

	shift.Store(2)
	src.Recalibrate()
	src.Poll(ctx)

	frame, err := src.Frame(0)
	if err != nil {
		t.Fatalf("Frame() failed: %v", err)
	}
	if frame[LeftHand].Len() != 0 {
		t.Errorf("offset after recalibration = %v, expected zero", frame[LeftHand])
	}
}
