package archive

import (
	"testing"
	"time"
)

// fakeClock drives a pacer deterministically: sleeping advances the clock.
type fakeClock struct {
	now    time.Time
	sleeps []time.Duration
}

func (f *fakeClock) Now() time.Time {
	return f.now
}

func (f *fakeClock) Sleep(d time.Duration) {
	f.sleeps = append(f.sleeps, d)
	f.now = f.now.Add(d)
}

func newTestPacer(interval time.Duration) (*pacer, *fakeClock) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	p := newPacer(interval)
	p.now = clock.Now
	p.sleep = clock.Sleep
	return p, clock
}

func TestPacerFirstCallDoesNotWait(t *testing.T) {
	p, clock := newTestPacer(time.Second)
	p.Wait()
	if len(clock.sleeps) != 0 {
		t.Errorf("expected no sleep on first call, got %v", clock.sleeps)
	}
}

func TestPacerEnforcesMinimumInterval(t *testing.T) {
	p, clock := newTestPacer(time.Second)

	p.Wait()
	clock.now = clock.now.Add(300 * time.Millisecond)
	p.Wait()

	if len(clock.sleeps) != 1 {
		t.Fatalf("expected one sleep, got %v", clock.sleeps)
	}
	if clock.sleeps[0] != 700*time.Millisecond {
		t.Errorf("expected 700ms sleep, got %s", clock.sleeps[0])
	}
}

func TestPacerSkipsWaitAfterLongGap(t *testing.T) {
	p, clock := newTestPacer(time.Second)

	p.Wait()
	clock.now = clock.now.Add(5 * time.Second)
	p.Wait()

	if len(clock.sleeps) != 0 {
		t.Errorf("expected no sleep after long gap, got %v", clock.sleeps)
	}
}
