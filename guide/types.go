package guide

import "fmt"

// WaypointType classifies a catalog waypoint. The type drives the
// accessibility score used for edge weighting and decides whether a
// destination gets entrance-relative instruction phrasing.
type WaypointType string

const (
	TypeOffice      WaypointType = "office"
	TypeLectureRoom WaypointType = "lecture_room"
	TypeLaboratory  WaypointType = "laboratory"
	TypeFacility    WaypointType = "facility"
	TypeStairs      WaypointType = "stairs"
	TypeEntrance    WaypointType = "entrance"
	TypeCorridor    WaypointType = "corridor"
	TypeOpenSpace   WaypointType = "open_space"
	TypeMeetingRoom WaypointType = "meeting_room"
)

// accessibilityScores is a fixed lookup by waypoint type, 0..1, higher is
// easier to traverse. Stairs score lowest so pathfinding is biased away from
// them without making them unreachable.
var accessibilityScores = map[WaypointType]float64{
	TypeCorridor:    1.0,
	TypeOpenSpace:   0.95,
	TypeEntrance:    0.9,
	TypeOffice:      0.8,
	TypeLectureRoom: 0.8,
	TypeMeetingRoom: 0.8,
	TypeLaboratory:  0.75,
	TypeFacility:    0.7,
	TypeStairs:      0.4,
}

// AccessibilityScore returns the fixed accessibility score for a waypoint
// type, defaulting to 0.8 for unknown types.
func AccessibilityScore(t WaypointType) float64 {
	if s, ok := accessibilityScores[t]; ok {
		return s
	}
	return 0.8
}

// RoomLike reports whether the type is a room a user enters (office,
// laboratory, lecture room). Room-like destinations get entrance-relative
// instruction phrasing.
func (t WaypointType) RoomLike() bool {
	return t == TypeOffice || t == TypeLaboratory || t == TypeLectureRoom
}

// Point represents a 2D coordinate in building-local units.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Waypoint is a named, coordinate-located point in the building graph.
type Waypoint struct {
	ID          string `json:"locationId"`
	Coordinates Point  `json:"coordinates"`
	Floor       int    `json:"floor"`
	Type        WaypointType `json:"type"`
	Description string       `json:"description"`

	// WallOrientation and EntranceDirection are compass angles in degrees,
	// 0 = north, clockwise. EntranceDirection is the direction the user
	// faces immediately after scanning this waypoint's marker.
	WallOrientation   float64 `json:"wallOrientation,omitempty"`
	EntranceDirection float64 `json:"entranceDirection,omitempty"`

	// Adjacent maps a direction label ("north", "east", ...) to the id of
	// the neighboring waypoint on the same floor.
	Adjacent map[string]string `json:"adjacentLocations,omitempty"`

	// ConnectsTo names the paired staircase waypoint on another floor.
	// Only meaningful for TypeStairs.
	ConnectsTo string `json:"connectsTo,omitempty"`
}

// Edge is one directed half of an undirected floor-graph edge.
type Edge struct {
	From       string  `json:"from"`
	To         string  `json:"to"`
	Distance   float64 `json:"distance"`
	Weight     float64 `json:"weight"` // distance + accessibility penalty
	Direction  string  `json:"direction"`
	Bearing    float64 `json:"bearing"`
	TravelTime float64 `json:"travelTime"` // seconds at walking speed
}

// TurnDirection classifies the turn a user makes relative to their facing.
type TurnDirection string

const (
	TurnStraight   TurnDirection = "straight"
	TurnLeft       TurnDirection = "left"
	TurnRight      TurnDirection = "right"
	TurnSharpLeft  TurnDirection = "sharp_left"
	TurnSharpRight TurnDirection = "sharp_right"
	TurnAround     TurnDirection = "turn_around"
)

// RouteSegment is a single step of a navigation route.
type RouteSegment struct {
	FromNode          string        `json:"fromNode"`
	ToNode            string        `json:"toNode"`
	Distance          float64       `json:"distance"`
	TurnDirection     TurnDirection `json:"turnDirection"`
	CardinalDirection string        `json:"cardinalDirection"`
	InstructionText   string        `json:"instructionText"`
	EstimatedTime     float64       `json:"estimatedTime"` // seconds
	AccessibilityNote string        `json:"accessibilityNote,omitempty"`
	FloorChange       bool          `json:"floorChange,omitempty"`
}

// NavigationRoute is a complete, ordered route with aggregate metrics.
type NavigationRoute struct {
	Origin             string         `json:"origin"`
	Destination        string         `json:"destination"`
	Segments           []RouteSegment `json:"segments"`
	TotalDistance      float64        `json:"totalDistance"`
	TotalEstimatedTime float64        `json:"totalEstimatedTime"` // seconds
	FloorChangeNeeded  bool           `json:"floorChangeNeeded"`
	Checkpoints        []string       `json:"checkpoints"`
}

// Instructions returns the flattened, self-contained instruction strings in
// narration order.
func (r *NavigationRoute) Instructions() []string {
	out := make([]string, 0, len(r.Segments))
	for _, s := range r.Segments {
		out = append(out, s.InstructionText)
	}
	return out
}

// UserState records where the user is and which way they face. It is owned
// by a Tracker; route computation works on copies, never on the shared value.
type UserState struct {
	LocationID            string  `json:"locationId"`
	Coordinates           Point   `json:"coordinates"`
	FacingDirection       float64 `json:"facingDirection"` // degrees, 0 = north
	Floor                 int     `json:"floor"`
	LastMovementDirection string  `json:"lastMovementDirection,omitempty"`
}

// FloorName returns the spoken name for a floor number.
func FloorName(floor int) string {
	switch floor {
	case 0:
		return "Ground Floor"
	case 1:
		return "First Floor"
	case 2:
		return "Second Floor"
	default:
		return fmt.Sprintf("Floor %d", floor)
	}
}

// Navigation timing parameters. WalkingSpeed matches a comfortable indoor
// pace; the stair crossing uses fixed distance and time because stairwell
// geometry is not part of the planar catalog.
const (
	WalkingSpeedMPS    = 1.4
	TurnPenaltySec     = 2.0
	StairCrossDistance = 20.0
	StairCrossTimeSec  = 30.0
)
