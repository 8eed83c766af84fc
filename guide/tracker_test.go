package guide

import (
	"errors"
	"sync"
	"testing"
)

func TestTracker_SetFromDetection(t *testing.T) {
	tr := NewTracker(newTestCatalog(t))

	if _, ok := tr.Snapshot(); ok {
		t.Error("tracker must report no state before the first detection")
	}

	state, err := tr.SetFromDetection("stairs_1")
	if err != nil {
		t.Fatalf("SetFromDetection: %v", err)
	}
	if state.LocationID != "stairs_1" || state.Floor != 1 {
		t.Errorf("state = %+v", state)
	}
	if state.FacingDirection != 180 {
		t.Errorf("facing = %v, want entrance direction 180", state.FacingDirection)
	}

	snap, ok := tr.Snapshot()
	if !ok {
		t.Fatal("tracker must report state after a detection")
	}
	if snap != state {
		t.Errorf("snapshot %+v differs from returned state %+v", snap, state)
	}
}

func TestTracker_SetFromDetectionUnknown(t *testing.T) {
	tr := NewTracker(newTestCatalog(t))

	_, err := tr.SetFromDetection("ghost")
	if !errors.Is(err, ErrUnknownWaypoint) {
		t.Errorf("err = %v, want ErrUnknownWaypoint", err)
	}
	if _, ok := tr.Snapshot(); ok {
		t.Error("failed detection must not establish state")
	}
}

func TestTracker_UpdateFacing(t *testing.T) {
	tr := NewTracker(newTestCatalog(t))
	tr.SetFromDetection("entrance_main")

	tr.UpdateFacing(-90)
	snap, _ := tr.Snapshot()
	if snap.FacingDirection != 270 {
		t.Errorf("facing = %v, want 270 (normalized)", snap.FacingDirection)
	}
}

func TestTracker_CommitRoute(t *testing.T) {
	c := newTestCatalog(t)
	tr := NewTracker(c)
	r := NewRouter(c)

	snap, err := tr.SetFromDetection("entrance_main")
	if err != nil {
		t.Fatalf("SetFromDetection: %v", err)
	}
	route, err := r.Route(snap, "office_010")
	if err != nil {
		t.Fatalf("Route: %v", err)
	}

	if tr.ActiveRoute() != nil {
		t.Error("no route should be active before commit")
	}
	tr.CommitRoute(route)
	if tr.ActiveRoute() != route {
		t.Error("committed route should be the active one")
	}

	after, _ := tr.Snapshot()
	if after.LastMovementDirection != "north" {
		t.Errorf("last movement = %q, want north from the first segment", after.LastMovementDirection)
	}

	// A fresh detection invalidates the route.
	tr.SetFromDetection("corridor_g1")
	if tr.ActiveRoute() != nil {
		t.Error("detection must clear the active route")
	}
}

func TestTracker_Clear(t *testing.T) {
	tr := NewTracker(newTestCatalog(t))
	tr.SetFromDetection("entrance_main")

	tr.Clear()
	if _, ok := tr.Snapshot(); ok {
		t.Error("cleared tracker must report no state")
	}
	if tr.ActiveRoute() != nil {
		t.Error("cleared tracker must have no route")
	}
}

func TestTracker_ConcurrentAccess(t *testing.T) {
	tr := NewTracker(newTestCatalog(t))
	ids := []string{"entrance_main", "corridor_g1", "office_010", "stairs_g"}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				switch j % 3 {
				case 0:
					if _, err := tr.SetFromDetection(ids[(n+j)%len(ids)]); err != nil {
						t.Errorf("SetFromDetection: %v", err)
					}
				case 1:
					tr.UpdateFacing(float64(j * 45))
				case 2:
					if snap, ok := tr.Snapshot(); ok && snap.LocationID == "" {
						t.Errorf("snapshot with empty location: %+v", snap)
					}
				}
			}
		}(i)
	}
	wg.Wait()

	if snap, ok := tr.Snapshot(); !ok || snap.LocationID == "" {
		t.Errorf("final snapshot = %+v, ok = %v", snap, ok)
	}
}
