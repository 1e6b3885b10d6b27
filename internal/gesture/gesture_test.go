package gesture

import (
	"testing"
	"time"
)

func TestFeedVertical_FiresAtThreshold(t *testing.T) {
	a := NewAccumulator()
	now := time.Unix(0, 0)

	if _, fired := a.FeedVertical(100, now); fired {
		t.Fatalf("gesture fired before threshold")
	}
	axis, fired := a.FeedVertical(260, now.Add(10*time.Millisecond))
	if !fired {
		t.Fatalf("expected gesture to fire once threshold crossed")
	}
	if axis != Up {
		t.Fatalf("expected Up, got %v", axis)
	}
}

func TestFeedVertical_Down(t *testing.T) {
	a := NewAccumulator()
	now := time.Unix(0, 0)
	axis, fired := a.FeedVertical(-500, now)
	if !fired || axis != Down {
		t.Fatalf("expected Down gesture, got axis=%v fired=%v", axis, fired)
	}
}

func TestFeedHorizontal_ResetsAfterStaleWindow(t *testing.T) {
	a := NewAccumulator()
	now := time.Unix(0, 0)
	a.FeedHorizontal(200, now)

	_, fired := a.FeedHorizontal(200, now.Add(400*time.Millisecond))
	if fired {
		t.Fatalf("stale accumulation should not fire without a fresh crossing")
	}
}

func TestFeedHorizontal_ContinuousActivityAccumulates(t *testing.T) {
	a := NewAccumulator()
	now := time.Unix(0, 0)
	a.FeedHorizontal(200, now)
	axis, fired := a.FeedHorizontal(200, now.Add(50*time.Millisecond))
	if !fired || axis != Right {
		t.Fatalf("expected Right gesture from accumulated deltas, got axis=%v fired=%v", axis, fired)
	}
}
