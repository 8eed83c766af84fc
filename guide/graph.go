package guide

import "sort"

// Fallback-edge thresholds. A pair of waypoints with no explicit adjacency
// is linked when it is close enough: corridors reach further than rooms
// because they are the connective tissue of a floor.
const (
	fallbackMaxDistance      = 30.0
	fallbackCorridorDistance = 25.0
	fallbackSameTypeDistance = 15.0
)

// FloorGraph is the weighted, undirected waypoint graph for one floor.
// Edges are stored as two directed halves keyed by origin waypoint id.
type FloorGraph struct {
	Floor int
	nodes map[string]*Waypoint
	adj   map[string][]Edge
	order []string // node ids, sorted; fixes iteration order everywhere
}

// BuildFloorGraph converts the catalog waypoints on one floor into a
// weighted graph: explicit adjacency edges first, then proximity fallback
// edges, then corridor-hub edges. Building is deterministic because every
// pass iterates waypoints in sorted-id order and edge insertion is keyed by
// id pairs. A floor with no waypoints yields an empty graph, not an error;
// callers must check Empty before querying paths.
func BuildFloorGraph(catalog *Catalog, floor int) *FloorGraph {
	g := &FloorGraph{
		Floor: floor,
		nodes: make(map[string]*Waypoint),
		adj:   make(map[string][]Edge),
	}

	waypoints := catalog.ByFloor(floor)
	for _, w := range waypoints {
		g.nodes[w.ID] = w
		g.order = append(g.order, w.ID)
	}

	// Pass 1: explicit adjacency from the catalog.
	for _, w := range waypoints {
		for _, dir := range sortedKeys(w.Adjacent) {
			neighborID := w.Adjacent[dir]
			neighbor, ok := g.nodes[neighborID]
			if !ok {
				// Neighbor is missing or on another floor; stairs link
				// across floors via connects_to instead.
				continue
			}
			g.addEdge(w, neighbor, dir)
		}
	}

	// Pass 2: proximity fallback for waypoints the catalog left
	// unconnected. Keeps the graph connected when adjacency data is
	// incomplete.
	for i, a := range waypoints {
		for _, b := range waypoints[i+1:] {
			if g.HasEdge(a.ID, b.ID) {
				continue
			}
			d := Distance(a.Coordinates, b.Coordinates)
			if d > fallbackMaxDistance {
				continue
			}
			corridorPair := a.Type == TypeCorridor || b.Type == TypeCorridor
			switch {
			case corridorPair && d <= fallbackCorridorDistance:
				g.addEdge(a, b, "adjacent")
			case a.Type == b.Type && d <= fallbackSameTypeDistance:
				g.addEdge(a, b, "adjacent")
			}
		}
	}

	// Pass 3: corridor hubs. Rooms in a curated group must route through
	// their shared corridor rather than hop between unrelated rooms via
	// the generic fallback.
	for _, rule := range catalog.Hubs(floor) {
		hub, ok := g.nodes[rule.HubID]
		if !ok {
			continue
		}
		for _, id := range g.order {
			w := g.nodes[id]
			if w.Type != rule.RoomType || w.ID == hub.ID {
				continue
			}
			if !g.HasEdge(w.ID, hub.ID) {
				g.addEdge(w, hub, rule.Direction)
			}
		}
	}

	return g
}

// addEdge inserts both directed halves of an undirected edge. The reverse
// half gets the opposite direction label when the forward label is a
// cardinal, otherwise it reuses the forward label.
func (g *FloorGraph) addEdge(a, b *Waypoint, direction string) {
	if g.HasEdge(a.ID, b.ID) {
		return
	}
	d := Distance(a.Coordinates, b.Coordinates)
	penalty := accessibilityPenalty(a.Type, b.Type)
	weight := d + penalty

	g.adj[a.ID] = append(g.adj[a.ID], Edge{
		From:       a.ID,
		To:         b.ID,
		Distance:   d,
		Weight:     weight,
		Direction:  direction,
		Bearing:    Bearing(a.Coordinates, b.Coordinates),
		TravelTime: d / WalkingSpeedMPS,
	})
	g.adj[b.ID] = append(g.adj[b.ID], Edge{
		From:       b.ID,
		To:         a.ID,
		Distance:   d,
		Weight:     weight,
		Direction:  oppositeDirection(direction),
		Bearing:    Bearing(b.Coordinates, a.Coordinates),
		TravelTime: d / WalkingSpeedMPS,
	})
}

// accessibilityPenalty biases edge weight away from low-accessibility
// nodes. With the score table in types.go the penalty tops out at 5 units,
// so poorly accessible nodes get more expensive but never unreachable.
func accessibilityPenalty(a, b WaypointType) float64 {
	avg := (AccessibilityScore(a) + AccessibilityScore(b)) / 2
	return (1.0 - avg) * 5.0
}

var oppositeDirections = map[string]string{
	"north":     "south",
	"south":     "north",
	"east":      "west",
	"west":      "east",
	"northeast": "southwest",
	"southwest": "northeast",
	"northwest": "southeast",
	"southeast": "northwest",
}

func oppositeDirection(dir string) string {
	if opp, ok := oppositeDirections[dir]; ok {
		return opp
	}
	return dir
}

// Node returns the waypoint for an id, if present on this floor.
func (g *FloorGraph) Node(id string) (*Waypoint, bool) {
	w, ok := g.nodes[id]
	return w, ok
}

// Nodes returns the node ids in sorted order.
func (g *FloorGraph) Nodes() []string {
	return g.order
}

// Empty reports whether the floor has no waypoints.
func (g *FloorGraph) Empty() bool {
	return len(g.nodes) == 0
}

// Neighbors returns the outgoing edges from a node.
func (g *FloorGraph) Neighbors(id string) []Edge {
	return g.adj[id]
}

// HasEdge reports whether an edge exists between two nodes.
func (g *FloorGraph) HasEdge(from, to string) bool {
	for _, e := range g.adj[from] {
		if e.To == to {
			return true
		}
	}
	return false
}

// EdgeBetween returns the directed edge from one node to another.
func (g *FloorGraph) EdgeBetween(from, to string) (Edge, bool) {
	for _, e := range g.adj[from] {
		if e.To == to {
			return e, true
		}
	}
	return Edge{}, false
}

// EdgeCount returns the number of undirected edges.
func (g *FloorGraph) EdgeCount() int {
	total := 0
	for _, edges := range g.adj {
		total += len(edges)
	}
	return total / 2
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
