package guide

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/simplify"
)

// checkpointTolerance is the Douglas-Peucker tolerance for checkpoint
// extraction. Waypoints within this lateral distance of the straight line
// between their neighbors are not worth calling out.
const checkpointTolerance = 3.0

// Router computes navigation routes over the whole building. Floor graphs
// are built once at construction; Route works on a user-state snapshot and
// never touches shared state, so concurrent calls are safe.
type Router struct {
	catalog *Catalog
	floors  map[int]*FloorGraph
}

// NewRouter builds a Router with one graph per catalog floor.
func NewRouter(catalog *Catalog) *Router {
	r := &Router{
		catalog: catalog,
		floors:  make(map[int]*FloorGraph),
	}
	for _, f := range catalog.Floors() {
		r.floors[f] = BuildFloorGraph(catalog, f)
	}
	return r
}

// Catalog returns the catalog the router was built from.
func (r *Router) Catalog() *Catalog {
	return r.catalog
}

// FloorGraph returns the graph for a floor, building an empty one on demand
// for floors the catalog does not know.
func (r *Router) FloorGraph(floor int) *FloorGraph {
	if g, ok := r.floors[floor]; ok {
		return g
	}
	return BuildFloorGraph(r.catalog, floor)
}

// Route computes a navigation route from the user's snapshot position to a
// destination waypoint. The snapshot is a value copy taken by the caller
// under the tracker's lock; Route never mutates it. Routing to the current
// waypoint yields an empty route with no error.
func (r *Router) Route(snapshot UserState, destinationID string) (*NavigationRoute, error) {
	origin, err := r.catalog.Get(snapshot.LocationID)
	if err != nil {
		return nil, fmt.Errorf("route origin: %w", err)
	}
	dest, err := r.catalog.Get(destinationID)
	if err != nil {
		return nil, fmt.Errorf("route destination: %w", err)
	}

	route := &NavigationRoute{
		Origin:      origin.ID,
		Destination: dest.ID,
	}
	if origin.ID == dest.ID {
		return route, nil
	}

	var segments []RouteSegment
	if origin.Floor == dest.Floor {
		segments = r.sameFloorSegments(origin, dest, snapshot.FacingDirection)
	} else {
		segments, err = r.multiFloorSegments(origin, dest, snapshot.FacingDirection)
		if err != nil {
			return nil, err
		}
		route.FloorChangeNeeded = true
	}

	route.Segments = segments
	for _, s := range segments {
		route.TotalDistance += s.Distance
		route.TotalEstimatedTime += s.EstimatedTime
	}
	route.Checkpoints = r.checkpoints(segments)
	return route, nil
}

// sameFloorSegments routes within one floor. Pathfinding failure is not
// surfaced: the user always gets at least the direct-line fallback segment
// plus an arrival line.
func (r *Router) sameFloorSegments(origin, dest *Waypoint, facing float64) []RouteSegment {
	g := r.FloorGraph(origin.Floor)

	path, err := g.ShortestPath(origin.ID, dest.ID)
	if err != nil {
		segs := []RouteSegment{DirectInstruction(origin, dest)}
		return append(segs, arrivalSegment(dest))
	}
	return GenerateInstructions(g, path, facing)
}

// multiFloorSegments splices three legs: origin floor to the stairs, the
// fixed stair crossing, and destination stairs to the destination. The
// destination leg starts from a synthetic state at the destination stair
// with its catalog entrance direction as facing; the caller's snapshot is
// untouched throughout.
func (r *Router) multiFloorSegments(origin, dest *Waypoint, facing float64) ([]RouteSegment, error) {
	pairs := r.catalog.StairPairs(origin.Floor, dest.Floor)
	if len(pairs) == 0 {
		return nil, fmt.Errorf("floor %d to floor %d: %w", origin.Floor, dest.Floor, ErrNoFloorConnection)
	}
	pair := pairs[0]

	originStair, err := r.catalog.Get(pair.From)
	if err != nil {
		return nil, fmt.Errorf("stair pair: %w", err)
	}
	destStair, err := r.catalog.Get(pair.To)
	if err != nil {
		return nil, fmt.Errorf("stair pair: %w", err)
	}

	var segments []RouteSegment
	if origin.ID != originStair.ID {
		leg := r.sameFloorSegments(origin, originStair, facing)
		segments = append(segments, trimArrival(leg)...)
	}

	segments = append(segments, StairInstruction(originStair, destStair))

	if destStair.ID != dest.ID {
		leg := r.sameFloorSegments(destStair, dest, destStair.EntranceDirection)
		segments = append(segments, leg...)
	} else {
		segments = append(segments, arrivalSegment(dest))
	}
	return segments, nil
}

// trimArrival drops the arrival line from an intermediate leg so the route
// does not announce arrival at the stairs.
func trimArrival(segments []RouteSegment) []RouteSegment {
	if n := len(segments); n > 0 && segments[n-1].FromNode == segments[n-1].ToNode {
		return segments[:n-1]
	}
	return segments
}

// checkpoints reduces the route polyline to the waypoints worth announcing
// as progress markers: Douglas-Peucker keeps the corners and endpoints and
// drops near-collinear intermediate nodes. Floor-change segments break the
// polyline, with the stair endpoints always kept.
func (r *Router) checkpoints(segments []RouteSegment) []string {
	var out []string
	var ls orb.LineString
	var ids []string

	flush := func() {
		if len(ls) >= 2 {
			simplified := simplify.DouglasPeucker(checkpointTolerance).Simplify(ls.Clone())
			if kept, ok := simplified.(orb.LineString); ok {
				out = append(out, matchCheckpoints(ls, ids, kept)...)
			}
		} else {
			out = append(out, ids...)
		}
		ls = nil
		ids = nil
	}

	appendNode := func(id string) {
		w, err := r.catalog.Get(id)
		if err != nil {
			return
		}
		if n := len(ids); n > 0 && ids[n-1] == id {
			return
		}
		ls = append(ls, orb.Point{w.Coordinates.X, w.Coordinates.Y})
		ids = append(ids, id)
	}

	for _, s := range segments {
		if s.FromNode == s.ToNode {
			continue // arrival line
		}
		appendNode(s.FromNode)
		if s.FloorChange {
			flush()
			continue
		}
		appendNode(s.ToNode)
	}
	flush()
	return out
}

// matchCheckpoints maps simplified polyline points back to waypoint ids by
// exact coordinate match against the original sequence.
func matchCheckpoints(ls orb.LineString, ids []string, kept orb.LineString) []string {
	var out []string
	next := 0
	for _, p := range kept {
		for i := next; i < len(ls); i++ {
			if ls[i] == p {
				out = append(out, ids[i])
				next = i + 1
				break
			}
		}
	}
	return out
}
