package guide

import (
	"strings"
	"testing"
)

// hallwayCatalog is a straight west-east corridor run ending at an office
// entered through a cardinal adjacency.
func hallwayCatalog(t *testing.T, entranceDirection float64) *Catalog {
	t.Helper()
	return buildCatalog(t, []catalogEntry{
		{LocationID: "start", FloorLevel: "0", Coordinates: "0,0", Type: "corridor",
			EntranceDirection: entranceDirection,
			Adjacent:          map[string]string{"east": "mid"}},
		{LocationID: "mid", FloorLevel: "0", Coordinates: "20,0", Type: "corridor",
			EntranceDirection: entranceDirection,
			Adjacent:          map[string]string{"east": "office"}},
		{LocationID: "office", FloorLevel: "0", Coordinates: "30,0", Type: "office",
			Description: "Office 1.23"},
	}, nil)
}

func TestGenerateInstructions_TurnsAndArrival(t *testing.T) {
	c := hallwayCatalog(t, 0)
	g := BuildFloorGraph(c, 0)

	// Facing north, moving east: first a right turn, then straight.
	segs := GenerateInstructions(g, []string{"start", "mid", "office"}, 0)
	if len(segs) != 3 {
		t.Fatalf("got %d segments, want 3 (2 moves + arrival)", len(segs))
	}

	if segs[0].TurnDirection != TurnRight {
		t.Errorf("first turn = %q, want right", segs[0].TurnDirection)
	}
	if segs[0].CardinalDirection != "east" {
		t.Errorf("first cardinal = %q, want east", segs[0].CardinalDirection)
	}

	last := segs[len(segs)-1]
	if !strings.Contains(last.InstructionText, "You have arrived at Office 1.23") {
		t.Errorf("arrival line = %q", last.InstructionText)
	}
}

func TestGenerateInstructions_FacingFollowsTravel(t *testing.T) {
	// L-shaped path: east then north. After the first leg the user faces
	// east, so the northward leg is a left turn, not a straight.
	c := buildCatalog(t, []catalogEntry{
		{LocationID: "a", FloorLevel: "0", Coordinates: "0,0", Type: "corridor",
			Adjacent: map[string]string{"east": "b"}},
		{LocationID: "b", FloorLevel: "0", Coordinates: "30,0", Type: "corridor",
			Adjacent: map[string]string{"north": "c"}},
		{LocationID: "c", FloorLevel: "0", Coordinates: "30,30", Type: "corridor"},
	}, nil)
	g := BuildFloorGraph(c, 0)

	segs := GenerateInstructions(g, []string{"a", "b", "c"}, 90)

	if segs[0].TurnDirection != TurnStraight {
		t.Errorf("first turn = %q, want straight (already facing east)", segs[0].TurnDirection)
	}
	if segs[1].TurnDirection != TurnLeft {
		t.Errorf("second turn = %q, want left (east to north)", segs[1].TurnDirection)
	}
}

func TestGenerateInstructions_DistanceAnnotation(t *testing.T) {
	c := hallwayCatalog(t, 0)
	g := BuildFloorGraph(c, 0)

	segs := GenerateInstructions(g, []string{"start", "mid", "office"}, 90)

	// start -> mid is 20 units: annotated.
	if !strings.Contains(segs[0].InstructionText, "walk 20 meters") {
		t.Errorf("long segment missing annotation: %q", segs[0].InstructionText)
	}
	// mid -> office is 10 units: no annotation.
	if strings.Contains(segs[1].InstructionText, "meters") {
		t.Errorf("short segment should not be annotated: %q", segs[1].InstructionText)
	}
}

// ---------------------------------------------------------------------------
// Entrance-relative mapping
// ---------------------------------------------------------------------------

func TestGenerateInstructions_EntranceRelative(t *testing.T) {
	t.Run("facing north", func(t *testing.T) {
		c := hallwayCatalog(t, 0)
		g := BuildFloorGraph(c, 0)

		// Final hop enters the office via the "east" label. With entrance
		// direction 0 that is spoken as a right turn even though the user
		// already travels east (geometrically straight).
		segs := GenerateInstructions(g, []string{"mid", "office"}, 90)
		if segs[0].TurnDirection != TurnRight {
			t.Errorf("turn = %q, want right via entrance-relative mapping", segs[0].TurnDirection)
		}
	})

	t.Run("facing south mirrors", func(t *testing.T) {
		c := hallwayCatalog(t, 180)
		g := BuildFloorGraph(c, 0)

		segs := GenerateInstructions(g, []string{"mid", "office"}, 90)
		if segs[0].TurnDirection != TurnLeft {
			t.Errorf("turn = %q, want left via mirrored mapping", segs[0].TurnDirection)
		}
	})

	t.Run("non-room destination uses geometry", func(t *testing.T) {
		c := buildCatalog(t, []catalogEntry{
			{LocationID: "a", FloorLevel: "0", Coordinates: "0,0", Type: "corridor",
				Adjacent: map[string]string{"east": "wc"}},
			{LocationID: "wc", FloorLevel: "0", Coordinates: "10,0", Type: "facility"},
		}, nil)
		g := BuildFloorGraph(c, 0)

		segs := GenerateInstructions(g, []string{"a", "wc"}, 90)
		if segs[0].TurnDirection != TurnStraight {
			t.Errorf("turn = %q, want straight (geometric)", segs[0].TurnDirection)
		}
	})
}

// ---------------------------------------------------------------------------
// Accessibility notes / timing
// ---------------------------------------------------------------------------

func TestGenerateInstructions_StairsNote(t *testing.T) {
	c := buildCatalog(t, []catalogEntry{
		{LocationID: "corr", FloorLevel: "0", Coordinates: "0,0", Type: "corridor",
			Adjacent: map[string]string{"north": "stairs"}},
		{LocationID: "stairs", FloorLevel: "0", Coordinates: "0,10", Type: "stairs",
			Description: "North stairwell"},
	}, nil)
	g := BuildFloorGraph(c, 0)

	segs := GenerateInstructions(g, []string{"corr", "stairs"}, 0)
	if segs[0].AccessibilityNote == "" {
		t.Error("segment into stairs should carry an accessibility note")
	}

	// Plain corridor hops stay silent.
	c2 := hallwayCatalog(t, 0)
	g2 := BuildFloorGraph(c2, 0)
	segs2 := GenerateInstructions(g2, []string{"start", "mid"}, 90)
	if segs2[0].AccessibilityNote != "" {
		t.Errorf("corridor hop should have no note, got %q", segs2[0].AccessibilityNote)
	}
}

func TestSegmentTime(t *testing.T) {
	straight := segmentTime(14, TurnStraight)
	if straight != 10 {
		t.Errorf("14m straight = %v s, want 10", straight)
	}
	turned := segmentTime(14, TurnLeft)
	if turned != 12 {
		t.Errorf("14m with turn = %v s, want 12", turned)
	}
}

// ---------------------------------------------------------------------------
// Direct and stair segments
// ---------------------------------------------------------------------------

func TestDirectInstruction(t *testing.T) {
	from := &Waypoint{ID: "a", Coordinates: Point{0, 0}}
	to := &Waypoint{ID: "b", Coordinates: Point{0, 30}, Description: "Lecture hall"}

	seg := DirectInstruction(from, to)
	if seg.Distance != 30 {
		t.Errorf("distance = %v, want 30", seg.Distance)
	}
	if !strings.Contains(seg.InstructionText, "Walk towards Lecture hall") {
		t.Errorf("text = %q", seg.InstructionText)
	}
	if !strings.Contains(seg.InstructionText, "about 30 meters") {
		t.Errorf("text missing distance hint: %q", seg.InstructionText)
	}
	if seg.CardinalDirection != "north" {
		t.Errorf("cardinal = %q, want north", seg.CardinalDirection)
	}
}

func TestStairInstruction(t *testing.T) {
	ground := &Waypoint{ID: "stairs_g", Floor: 0, Type: TypeStairs}
	first := &Waypoint{ID: "stairs_1", Floor: 1, Type: TypeStairs}

	up := StairInstruction(ground, first)
	if up.Distance != StairCrossDistance {
		t.Errorf("distance = %v, want %v", up.Distance, StairCrossDistance)
	}
	if up.EstimatedTime != StairCrossTimeSec {
		t.Errorf("time = %v, want %v", up.EstimatedTime, StairCrossTimeSec)
	}
	if !up.FloorChange {
		t.Error("stair segment must flag a floor change")
	}
	if !strings.Contains(up.InstructionText, "up to First Floor") {
		t.Errorf("text = %q", up.InstructionText)
	}

	down := StairInstruction(first, ground)
	if !strings.Contains(down.InstructionText, "down to Ground Floor") {
		t.Errorf("text = %q", down.InstructionText)
	}
}
