package guide

import "errors"

// Sentinel errors for the route engine. Callers match with errors.Is; the
// engine wraps them with context via fmt.Errorf("...: %w", ...).
var (
	// ErrUnknownWaypoint means a requested id is absent from the catalog.
	ErrUnknownWaypoint = errors.New("unknown waypoint")

	// ErrNoPathFound means neither A* nor Dijkstra connected the endpoints.
	// Same-floor callers recover by substituting a direct-line segment.
	ErrNoPathFound = errors.New("no path found")

	// ErrNoFloorConnection means no stair pair is registered for a floor
	// pair. There is no fallback: a synthesized straight line would route
	// the user through a wall or floor slab.
	ErrNoFloorConnection = errors.New("no connection between floors")

	// ErrEmptyFloorGraph means a floor has no waypoints at all.
	ErrEmptyFloorGraph = errors.New("floor graph is empty")
)
