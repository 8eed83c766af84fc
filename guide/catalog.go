package guide

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// catalogEntry is the on-disk waypoint schema. Coordinates are a plain-text
// "x,y" pair and floor_level is a string, matching the payload embedded in
// the building's scannable markers.
type catalogEntry struct {
	LocationID        string            `yaml:"location_id" json:"location_id"`
	FloorLevel        string            `yaml:"floor_level" json:"floor_level"`
	Coordinates       string            `yaml:"coordinates" json:"coordinates"`
	Description       string            `yaml:"description" json:"description"`
	Type              string            `yaml:"type" json:"type"`
	WallOrientation   float64           `yaml:"wall_orientation,omitempty" json:"wall_orientation,omitempty"`
	EntranceDirection float64           `yaml:"entrance_direction,omitempty" json:"entrance_direction,omitempty"`
	Adjacent          map[string]string `yaml:"adjacent_locations,omitempty" json:"adjacent_locations,omitempty"`
	ConnectsTo        string            `yaml:"connects_to,omitempty" json:"connects_to,omitempty"`
}

// HubRule forces same-type rooms on a floor to route through a shared
// corridor node. Rooms matching (Floor, RoomType) get an edge to HubID with
// the given fixed cardinal direction unless they already reach it.
type HubRule struct {
	Floor     int          `yaml:"floor" json:"floor"`
	RoomType  WaypointType `yaml:"room_type" json:"room_type"`
	HubID     string       `yaml:"hub_id" json:"hub_id"`
	Direction string       `yaml:"direction" json:"direction"`
}

// catalogFile is the root of a catalog document.
type catalogFile struct {
	Locations []catalogEntry `yaml:"locations" json:"locations"`
	Hubs      []HubRule      `yaml:"corridor_hubs,omitempty" json:"corridor_hubs,omitempty"`
}

// StairPair links a staircase waypoint to its counterpart on another floor.
type StairPair struct {
	From string
	To   string
}

// Catalog is the static table of building waypoints, loaded once.
type Catalog struct {
	waypoints map[string]*Waypoint
	hubs      []HubRule

	// stairPairs is keyed by "fromFloor:toFloor". Pairs are registered in
	// ascending order of the origin stair id so lookups are deterministic.
	stairPairs map[string][]StairPair
}

// LoadCatalog reads a catalog file. YAML and JSON are both accepted; the
// format is chosen by file extension (.json parses as JSON, anything else
// as YAML).
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("catalog file not found: %s", path)
		}
		return nil, fmt.Errorf("reading catalog file: %w", err)
	}

	var file catalogFile
	if strings.EqualFold(filepath.Ext(path), ".json") {
		if err := json.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parsing catalog JSON: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parsing catalog YAML: %w", err)
		}
	}

	return NewCatalog(file.Locations, file.Hubs)
}

// NewCatalog builds and validates a catalog from raw entries.
func NewCatalog(entries []catalogEntry, hubs []HubRule) (*Catalog, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("catalog has no locations")
	}

	c := &Catalog{
		waypoints:  make(map[string]*Waypoint, len(entries)),
		hubs:       hubs,
		stairPairs: make(map[string][]StairPair),
	}

	for i, e := range entries {
		if e.LocationID == "" {
			return nil, fmt.Errorf("locations[%d]: location_id is required", i)
		}
		if _, dup := c.waypoints[e.LocationID]; dup {
			return nil, fmt.Errorf("duplicate location_id %q", e.LocationID)
		}

		floor, err := strconv.Atoi(strings.TrimSpace(e.FloorLevel))
		if err != nil {
			return nil, fmt.Errorf("location %s: bad floor_level %q", e.LocationID, e.FloorLevel)
		}

		coords, err := ParseCoordinates(e.Coordinates)
		if err != nil {
			return nil, fmt.Errorf("location %s: %w", e.LocationID, err)
		}

		c.waypoints[e.LocationID] = &Waypoint{
			ID:                e.LocationID,
			Coordinates:       coords,
			Floor:             floor,
			Type:              WaypointType(e.Type),
			Description:       e.Description,
			WallOrientation:   e.WallOrientation,
			EntranceDirection: e.EntranceDirection,
			Adjacent:          e.Adjacent,
			ConnectsTo:        e.ConnectsTo,
		}
	}

	c.registerStairPairs()
	return c, nil
}

// ParseCoordinates parses the "x,y" plain-text pair from the catalog schema.
func ParseCoordinates(s string) (Point, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return Point{}, fmt.Errorf("bad coordinates %q: want \"x,y\"", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return Point{}, fmt.Errorf("bad coordinates %q: %w", s, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return Point{}, fmt.Errorf("bad coordinates %q: %w", s, err)
	}
	return Point{X: x, Y: y}, nil
}

// registerStairPairs scans stairs with a connects_to link and indexes them
// by floor pair. Iteration is over sorted ids so the "first registered"
// pair for any floor pair is stable across loads.
func (c *Catalog) registerStairPairs() {
	for _, id := range c.sortedIDs() {
		w := c.waypoints[id]
		if w.Type != TypeStairs || w.ConnectsTo == "" {
			continue
		}
		other, ok := c.waypoints[w.ConnectsTo]
		if !ok || other.Floor == w.Floor {
			continue
		}
		key := stairKey(w.Floor, other.Floor)
		c.stairPairs[key] = append(c.stairPairs[key], StairPair{From: w.ID, To: other.ID})
	}
}

func stairKey(from, to int) string {
	return fmt.Sprintf("%d:%d", from, to)
}

// StairPairs returns the registered stair pairs from one floor to another,
// in registration order. The first pair is the one multi-floor routing uses.
func (c *Catalog) StairPairs(fromFloor, toFloor int) []StairPair {
	return c.stairPairs[stairKey(fromFloor, toFloor)]
}

// Get returns the waypoint for an id, or ErrUnknownWaypoint.
func (c *Catalog) Get(id string) (*Waypoint, error) {
	w, ok := c.waypoints[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownWaypoint, id)
	}
	return w, nil
}

// Has reports whether an id exists in the catalog.
func (c *Catalog) Has(id string) bool {
	_, ok := c.waypoints[id]
	return ok
}

// Len returns the number of waypoints in the catalog.
func (c *Catalog) Len() int {
	return len(c.waypoints)
}

// ByFloor returns all waypoints on a floor. The result is sorted by id so
// downstream graph construction is deterministic.
func (c *Catalog) ByFloor(floor int) []*Waypoint {
	var out []*Waypoint
	for _, id := range c.sortedIDs() {
		if c.waypoints[id].Floor == floor {
			out = append(out, c.waypoints[id])
		}
	}
	return out
}

// Floors returns the distinct floor numbers present, ascending.
func (c *Catalog) Floors() []int {
	seen := make(map[int]bool)
	for _, w := range c.waypoints {
		seen[w.Floor] = true
	}
	floors := make([]int, 0, len(seen))
	for f := range seen {
		floors = append(floors, f)
	}
	sort.Ints(floors)
	return floors
}

// IDs returns all waypoint ids, sorted.
func (c *Catalog) IDs() []string {
	return c.sortedIDs()
}

// Hubs returns the corridor-hub rules for a floor.
func (c *Catalog) Hubs(floor int) []HubRule {
	var out []HubRule
	for _, h := range c.hubs {
		if h.Floor == floor {
			out = append(out, h)
		}
	}
	return out
}

// Search finds waypoints whose id, description, or type contains the query,
// case-insensitively. Results are sorted by id.
func (c *Catalog) Search(query string) []*Waypoint {
	q := strings.ToLower(query)
	var out []*Waypoint
	for _, id := range c.sortedIDs() {
		w := c.waypoints[id]
		if strings.Contains(strings.ToLower(w.ID), q) ||
			strings.Contains(strings.ToLower(w.Description), q) ||
			strings.Contains(strings.ToLower(string(w.Type)), q) {
			out = append(out, w)
		}
	}
	return out
}

// FloorSummary describes one floor for the UI collaborator.
type FloorSummary struct {
	Floor     int      `json:"floor"`
	FloorName string   `json:"floorName"`
	Locations []string `json:"locations"`
	Stairs    []string `json:"stairs"`
}

// Summarize builds a FloorSummary for the given floor.
func (c *Catalog) Summarize(floor int) FloorSummary {
	s := FloorSummary{Floor: floor, FloorName: FloorName(floor)}
	for _, w := range c.ByFloor(floor) {
		s.Locations = append(s.Locations, w.ID)
		if w.Type == TypeStairs {
			s.Stairs = append(s.Stairs, w.ID)
		}
	}
	return s
}

func (c *Catalog) sortedIDs() []string {
	ids := make([]string, 0, len(c.waypoints))
	for id := range c.waypoints {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
