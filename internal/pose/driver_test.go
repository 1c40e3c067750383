package pose

import (
	"errors"
	"io"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/spaceout/spacefit/internal/collide"
	"github.com/spaceout/spacefit/internal/core"
	"github.com/spaceout/spacefit/internal/session"
)

func zeroBase() Pose {
	p := make(Pose, len(Joints))
	for _, j := range Joints {
		p[j] = core.Vec3{}
	}
	return p
}

func staticSource(frame OffsetFrame) Source {
	return SourceFunc(func(int) (OffsetFrame, error) { return frame, nil })
}

func newTestDriver(t *testing.T, src Source, opts ...Option) *Driver {
	t.Helper()
	opts = append(opts, WithLogger(log.New(io.Discard)))
	d := NewDriver(src, opts...)
	if err := d.Initialize(zeroBase()); err != nil {
		t.Fatalf("Initialize() failed: %v", err)
	}
	return d
}

func TestInitializeOnce(t *testing.T) {
	d := NewDriver(NewMockSource(), WithLogger(log.New(io.Discard)))
	if err := d.Initialize(DefaultBase()); err != nil {
		t.Fatalf("Initialize() failed: %v", err)
	}
	if err := d.Initialize(DefaultBase()); !errors.Is(err, ErrAlreadyInitialized) {
		t.Errorf("second Initialize() error = %v, expected ErrAlreadyInitialized", err)
	}
}

func TestInitializeRequiresAllJoints(t *testing.T) {
	base := DefaultBase()
	delete(base, RightFoot)

	d := NewDriver(NewMockSource(), WithLogger(log.New(io.Discard)))
	if err := d.Initialize(base); !errors.Is(err, ErrIncompleteBase) {
		t.Errorf("Initialize() error = %v, expected ErrIncompleteBase", err)
	}
}

func TestInitializeCopiesBase(t *testing.T) {
	base := zeroBase()
	d := newTestDriver(t, staticSource(OffsetFrame{}))
	base[Head] = core.V(5, 5, 5)

	if d.Base()[Head] != (core.Vec3{}) {
		t.Error("driver base should not alias the caller's pose")
	}
}

func TestStepAppliesOffsets(t *testing.T) {
	d := newTestDriver(t, staticSource(OffsetFrame{Head: core.V(1, 2, 3)}))

	rep := d.Step(0.1, true)
	if rep.Err != nil {
		t.Fatalf("Step() error: %v", rep.Err)
	}
	if rep.Applied != 1 {
		t.Errorf("Applied = %d, expected 1", rep.Applied)
	}
	if got := d.Joints()[Head]; got != core.V(1, 2, 3) {
		t.Errorf("head = %v, expected (1, 2, 3)", got)
	}
}

func TestStepAbsentJointsKeepPosition(t *testing.T) {
	frames := []OffsetFrame{
		{Head: core.V(0, 1, 0), LeftHand: core.V(1, 0, 0)},
		{Head: core.V(0, 2, 0)},
	}
	src := SourceFunc(func(i int) (OffsetFrame, error) { return frames[i%2], nil })
	d := newTestDriver(t, src, WithSwitchTime(1), WithFrameCount(2))

	d.Step(0.5, true)
	d.Step(0.6, true) // timer 1.1 > 1: switch to frame 1

	joints := d.Joints()
	if joints[Head] != core.V(0, 2, 0) {
		t.Errorf("head = %v, expected (0, 2, 0)", joints[Head])
	}
	if joints[LeftHand] != core.V(1, 0, 0) {
		t.Errorf("left hand = %v, should keep frame 0 position", joints[LeftHand])
	}
}

func TestStepInactiveIsNoop(t *testing.T) {
	d := newTestDriver(t, staticSource(OffsetFrame{Head: core.V(1, 1, 1)}), WithSwitchTime(1))

	for i := 0; i < 10; i++ {
		rep := d.Step(5, false)
		if rep != (StepReport{}) {
			t.Fatalf("inactive Step() reported %+v", rep)
		}
	}
	if d.Timer() != 0 || d.FrameIndex() != 0 {
		t.Errorf("timer = %v, index = %d, expected untouched", d.Timer(), d.FrameIndex())
	}
	if d.Joints()[Head] != (core.Vec3{}) {
		t.Error("joints moved while inactive")
	}
}

func TestFrameSwitchBoundary(t *testing.T) {
	d := newTestDriver(t, staticSource(OffsetFrame{}), WithSwitchTime(1), WithFrameCount(3))

	// 4 x 0.25 sums to exactly 1.0: not past the interval yet.
	for i := 0; i < 4; i++ {
		if rep := d.Step(0.25, true); rep.Switched {
			t.Fatalf("switched on step %d at timer %v", i, d.Timer())
		}
	}
	if d.FrameIndex() != 0 {
		t.Fatalf("index = %d at timer == interval, expected 0", d.FrameIndex())
	}

	// The next epsilon crosses it exactly once.
	if rep := d.Step(1e-9, true); !rep.Switched {
		t.Fatal("expected a switch once the interval is exceeded")
	}
	if d.FrameIndex() != 1 || d.Timer() != 0 {
		t.Errorf("index = %d, timer = %v, expected 1 and 0", d.FrameIndex(), d.Timer())
	}

	// Timer restarted at zero; another full interval does not switch again.
	for i := 0; i < 4; i++ {
		d.Step(0.25, true)
	}
	if d.FrameIndex() != 1 {
		t.Errorf("index = %d, expected a single switch", d.FrameIndex())
	}
}

func TestFrameIndexWraps(t *testing.T) {
	d := newTestDriver(t, NewMockSource(), WithSwitchTime(1))

	for i := 0; i < 3; i++ {
		d.Step(1.5, true)
	}
	if d.FrameIndex() != 0 {
		t.Errorf("index = %d after 3 switches over 3 frames, expected 0", d.FrameIndex())
	}
}

func TestStepMalformedFrameLeavesJoints(t *testing.T) {
	calls := 0
	src := SourceFunc(func(int) (OffsetFrame, error) {
		calls++
		if calls == 1 {
			return OffsetFrame{Head: core.V(0, 1, 0)}, nil
		}
		return ParseFrame([]byte("{broken"))
	})
	d := newTestDriver(t, src)

	d.Step(0.1, true)
	rep := d.Step(0.1, true)

	if !errors.Is(rep.Err, ErrMalformedFrame) {
		t.Errorf("Step() error = %v, expected ErrMalformedFrame", rep.Err)
	}
	if rep.Applied != 0 {
		t.Errorf("Applied = %d, expected 0", rep.Applied)
	}
	if d.Joints()[Head] != core.V(0, 1, 0) {
		t.Errorf("head = %v, expected previous position", d.Joints()[Head])
	}
}

func TestStepNilFrame(t *testing.T) {
	d := newTestDriver(t, staticSource(nil))
	if rep := d.Step(0.1, true); !errors.Is(rep.Err, ErrMalformedFrame) {
		t.Errorf("Step() error = %v, expected ErrMalformedFrame", rep.Err)
	}
}

func TestStepBeforeInitialize(t *testing.T) {
	d := NewDriver(NewMockSource(), WithLogger(log.New(io.Discard)))
	if rep := d.Step(0.1, true); !errors.Is(rep.Err, ErrNotInitialized) {
		t.Errorf("Step() error = %v, expected ErrNotInitialized", rep.Err)
	}
}

type fakeProber struct {
	hit       collide.Hit
	ok        bool
	collected int
	lastDist  float64
}

func (f *fakeProber) Probe(_, _ core.Vec3, maxDist float64) (collide.Hit, bool) {
	f.lastDist = maxDist
	return f.hit, f.ok
}

func (f *fakeProber) Collect(collide.Hit) bool {
	f.collected++
	return f.collected == 1
}

func activeState() *session.RunState {
	return &session.RunState{Started: true}
}

func TestCheckCollisionWall(t *testing.T) {
	d := newTestDriver(t, NewMockSource())
	p := &fakeProber{hit: collide.Hit{Collider: collide.Point{K: collide.KindWall}}, ok: true}
	rs := activeState()

	if kind := d.CheckCollision(p, core.Vec3{}, rs); kind != collide.KindWall {
		t.Errorf("CheckCollision() = %v, expected Wall", kind)
	}
	if !rs.Over {
		t.Error("wall hit should end the run")
	}
	if d.Cue() != CueDie {
		t.Errorf("Cue() = %q, expected %q", d.Cue(), CueDie)
	}
	if p.lastDist != DefaultProbeDistance {
		t.Errorf("probe distance = %v, expected %v", p.lastDist, DefaultProbeDistance)
	}

	// Run is over: no further checks.
	if kind := d.CheckCollision(p, core.Vec3{}, rs); kind != collide.KindNone {
		t.Errorf("CheckCollision() after game over = %v, expected None", kind)
	}
}

func TestCheckCollisionCoin(t *testing.T) {
	d := newTestDriver(t, NewMockSource())
	p := &fakeProber{hit: collide.Hit{Collider: collide.Point{K: collide.KindCoin}}, ok: true}
	rs := activeState()

	d.CheckCollision(p, core.Vec3{}, rs)
	d.CheckCollision(p, core.Vec3{}, rs) // already collected

	if rs.Coins != 1 {
		t.Errorf("Coins = %d, expected 1", rs.Coins)
	}
	if rs.Over {
		t.Error("coin should not end the run")
	}
}

func TestCheckCollisionMissAndOther(t *testing.T) {
	d := newTestDriver(t, NewMockSource())
	rs := activeState()

	miss := collide.ProberFunc(func(_, _ core.Vec3, _ float64) (collide.Hit, bool) {
		return collide.Hit{}, false
	})
	if kind := d.CheckCollision(miss, core.Vec3{}, rs); kind != collide.KindNone {
		t.Errorf("miss = %v, expected None", kind)
	}

	other := &fakeProber{hit: collide.Hit{Collider: collide.Point{K: collide.KindOther}}, ok: true}
	if kind := d.CheckCollision(other, core.Vec3{}, rs); kind != collide.KindOther {
		t.Errorf("other = %v, expected Other", kind)
	}
	if rs.Over || rs.Coins != 0 {
		t.Errorf("run state changed on non-wall hit: %+v", rs)
	}
}

func TestCheckCollisionInactive(t *testing.T) {
	d := newTestDriver(t, NewMockSource())
	p := &fakeProber{hit: collide.Hit{Collider: collide.Point{K: collide.KindWall}}, ok: true}
	rs := &session.RunState{}

	if kind := d.CheckCollision(p, core.Vec3{}, rs); kind != collide.KindNone {
		t.Errorf("CheckCollision() before start = %v, expected None", kind)
	}
	if rs.Over {
		t.Error("idle run should not end")
	}
}
