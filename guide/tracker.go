package guide

import (
	"fmt"
	"sync"
)

// Tracker owns the shared user state. The detection loop and the request
// handlers touch the state only through these methods; route computation
// itself works on a Snapshot copy, so a detection landing mid-route cannot
// be clobbered by a restore step.
type Tracker struct {
	mu       sync.RWMutex
	catalog  *Catalog
	state    UserState
	hasState bool
	route    *NavigationRoute
}

// NewTracker returns a tracker with no known position.
func NewTracker(catalog *Catalog) *Tracker {
	return &Tracker{catalog: catalog}
}

// SetFromDetection moves the user to a detected waypoint. Facing is
// initialized to the waypoint's entrance direction, which models the
// direction a user faces when they walk up to the marker and scan it. This
// anchor is what makes downstream turn math meaningful. Returns a copy of
// the new state.
func (t *Tracker) SetFromDetection(waypointID string) (UserState, error) {
	w, err := t.catalog.Get(waypointID)
	if err != nil {
		return UserState{}, fmt.Errorf("detection: %w", err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.state = UserState{
		LocationID:      w.ID,
		Coordinates:     w.Coordinates,
		FacingDirection: w.EntranceDirection,
		Floor:           w.Floor,
	}
	t.hasState = true
	t.route = nil
	return t.state, nil
}

// UpdateFacing sets the user's compass facing, normalized to [0, 360).
func (t *Tracker) UpdateFacing(degrees float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state.FacingDirection = NormalizeAngle(degrees)
}

// Snapshot returns a copy of the current state. The second return is false
// until the first detection.
func (t *Tracker) Snapshot() (UserState, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.state, t.hasState
}

// CommitRoute records that the user is now following a route. The facing
// hint from the first geometric segment is folded into the state so a
// follow-up route starts from a sensible orientation.
func (t *Tracker) CommitRoute(route *NavigationRoute) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.route = route
	for _, s := range route.Segments {
		if s.FromNode != s.ToNode {
			t.state.LastMovementDirection = s.CardinalDirection
			break
		}
	}
}

// ActiveRoute returns the committed route, or nil when the user is not
// following one.
func (t *Tracker) ActiveRoute() *NavigationRoute {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.route
}

// Clear forgets the user's position and any active route.
func (t *Tracker) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state = UserState{}
	t.hasState = false
	t.route = nil
}
