package guide

import (
	"fmt"
	"strings"
)

// turnPhrases translates a turn classification into spoken text.
var turnPhrases = map[TurnDirection]string{
	TurnStraight:   "continue straight",
	TurnLeft:       "turn left",
	TurnRight:      "turn right",
	TurnSharpLeft:  "turn sharply left",
	TurnSharpRight: "turn sharply right",
	TurnAround:     "turn around",
}

// entranceRelative maps a cardinal adjacency label to the turn a user makes
// when their entrance direction is 0 (facing north). With entrance
// direction 180 the user faces south and the mapping mirrors.
var entranceRelative = map[string]TurnDirection{
	"east":  TurnRight,
	"west":  TurnLeft,
	"north": TurnStraight,
	"south": TurnAround,
}

var entranceRelativeMirror = map[string]TurnDirection{
	"east":  TurnLeft,
	"west":  TurnRight,
	"north": TurnAround,
	"south": TurnStraight,
}

// longHopMeters is the segment length above which the instruction text
// carries an explicit "walk N meters" annotation. Shorter hops stay
// unannotated to keep the narration terse.
const longHopMeters = 15.0

// accessibilityNoteThreshold marks segments whose weight penalty is high
// enough to warn about. Any segment touching stairs clears it; ordinary
// room-to-corridor hops do not.
const accessibilityNoteThreshold = 1.25

// GenerateInstructions turns a waypoint path into narrated route segments.
// initialFacing is the user's compass facing before the first step; after
// each segment the user is assumed to reorient along their direction of
// travel. The final arrival line names the destination's description.
func GenerateInstructions(g *FloorGraph, path []string, initialFacing float64) []RouteSegment {
	if len(path) < 2 {
		return nil
	}

	facing := initialFacing
	segments := make([]RouteSegment, 0, len(path))

	for i := 0; i < len(path)-1; i++ {
		from, fromOK := g.Node(path[i])
		to, toOK := g.Node(path[i+1])
		if !fromOK || !toOK {
			continue
		}

		edge, ok := g.EdgeBetween(from.ID, to.ID)
		if !ok {
			// Fallback direct segments have no graph edge.
			d := Distance(from.Coordinates, to.Coordinates)
			edge = Edge{
				From:       from.ID,
				To:         to.ID,
				Distance:   d,
				Weight:     d,
				Direction:  "direct",
				Bearing:    Bearing(from.Coordinates, to.Coordinates),
				TravelTime: d / WalkingSpeedMPS,
			}
		}

		movementBearing := Bearing(from.Coordinates, to.Coordinates)
		turn := TurnBetween(facing, movementBearing)
		spoken := spokenTurn(from, to, edge.Direction, turn)

		seg := RouteSegment{
			FromNode:          from.ID,
			ToNode:            to.ID,
			Distance:          edge.Distance,
			TurnDirection:     spoken,
			CardinalDirection: Cardinal(movementBearing),
			InstructionText:   instructionText(spoken, to, edge.Distance),
			EstimatedTime:     segmentTime(edge.Distance, spoken),
		}
		if penalty := edge.Weight - edge.Distance; penalty > accessibilityNoteThreshold {
			seg.AccessibilityNote = fmt.Sprintf("caution: reduced accessibility near %s", describeOrID(to))
		}
		segments = append(segments, seg)

		facing = movementBearing
	}

	if dest, ok := g.Node(path[len(path)-1]); ok {
		segments = append(segments, arrivalSegment(dest))
	}
	return segments
}

// spokenTurn picks the turn to narrate. Room-like destinations reached via
// a cardinal adjacency label use the entrance-relative mapping so the
// instruction matches how the room is actually entered from its doorway;
// everything else uses the geometric turn.
func spokenTurn(from, to *Waypoint, edgeDirection string, geometric TurnDirection) TurnDirection {
	if !to.Type.RoomLike() {
		return geometric
	}
	table := entranceRelative
	if from.EntranceDirection == 180 {
		table = entranceRelativeMirror
	}
	if mapped, ok := table[edgeDirection]; ok {
		return mapped
	}
	return geometric
}

func instructionText(turn TurnDirection, to *Waypoint, distance float64) string {
	var b strings.Builder
	if phrase, ok := turnPhrases[turn]; ok {
		b.WriteString(capitalize(phrase))
	} else {
		b.WriteString("Walk towards")
	}
	fmt.Fprintf(&b, " to reach %s", describeOrID(to))
	if distance > longHopMeters {
		fmt.Fprintf(&b, ", walk %.0f meters", distance)
	}
	b.WriteString(".")
	return b.String()
}

// arrivalSegment is the closing narration line. It carries no geometry.
func arrivalSegment(dest *Waypoint) RouteSegment {
	return RouteSegment{
		FromNode:        dest.ID,
		ToNode:          dest.ID,
		TurnDirection:   TurnStraight,
		InstructionText: fmt.Sprintf("You have arrived at %s.", describeOrID(dest)),
	}
}

// segmentTime estimates seconds for a segment: walking time plus a small
// constant when the user has to turn first.
func segmentTime(distance float64, turn TurnDirection) float64 {
	t := distance / WalkingSpeedMPS
	if turn != TurnStraight {
		t += TurnPenaltySec
	}
	return t
}

// DirectInstruction builds the single fallback segment used when the graph
// cannot connect two same-floor waypoints. It is a straight line with a
// generic "walk towards" phrasing so the user always gets some guidance.
func DirectInstruction(from, to *Waypoint) RouteSegment {
	d := Distance(from.Coordinates, to.Coordinates)
	bearing := Bearing(from.Coordinates, to.Coordinates)
	text := fmt.Sprintf("Walk towards %s", describeOrID(to))
	if d > longHopMeters {
		text += fmt.Sprintf(", about %.0f meters", d)
	}
	text += "."
	return RouteSegment{
		FromNode:          from.ID,
		ToNode:            to.ID,
		Distance:          d,
		TurnDirection:     TurnStraight,
		CardinalDirection: Cardinal(bearing),
		InstructionText:   text,
		EstimatedTime:     d / WalkingSpeedMPS,
	}
}

// StairInstruction builds the fixed stair-crossing segment between paired
// staircase waypoints. Stairwell geometry is not in the planar catalog, so
// distance and time are fixed constants.
func StairInstruction(fromStair, toStair *Waypoint) RouteSegment {
	verb := "up"
	if toStair.Floor < fromStair.Floor {
		verb = "down"
	}
	return RouteSegment{
		FromNode:      fromStair.ID,
		ToNode:        toStair.ID,
		Distance:      StairCrossDistance,
		TurnDirection: TurnStraight,
		InstructionText: fmt.Sprintf("Take the stairs %s to %s. Hold the handrail.",
			verb, FloorName(toStair.Floor)),
		EstimatedTime: StairCrossTimeSec,
		FloorChange:   true,
	}
}

func describeOrID(w *Waypoint) string {
	if w.Description != "" {
		return w.Description
	}
	return w.ID
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
