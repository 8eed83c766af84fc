package guide

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEntries() []catalogEntry {
	return []catalogEntry{
		{
			LocationID:  "entrance_main",
			FloorLevel:  "0",
			Coordinates: "0,0",
			Description: "Main entrance",
			Type:        "entrance",
			Adjacent:    map[string]string{"north": "corridor_g1"},
		},
		{
			LocationID:  "corridor_g1",
			FloorLevel:  "0",
			Coordinates: "0,20",
			Description: "Ground floor corridor",
			Type:        "corridor",
			Adjacent: map[string]string{
				"south": "entrance_main",
				"east":  "office_010",
				"north": "stairs_g",
			},
		},
		{
			LocationID:        "office_010",
			FloorLevel:        "0",
			Coordinates:       "15,20",
			Description:       "Office 0.10",
			Type:              "office",
			EntranceDirection: 0,
		},
		{
			LocationID:  "stairs_g",
			FloorLevel:  "0",
			Coordinates: "0,40",
			Description: "Ground floor stairs",
			Type:        "stairs",
			ConnectsTo:  "stairs_1",
			Adjacent:    map[string]string{"south": "corridor_g1"},
		},
		{
			LocationID:        "stairs_1",
			FloorLevel:        "1",
			Coordinates:       "0,40",
			Description:       "First floor stairs",
			Type:              "stairs",
			ConnectsTo:        "stairs_g",
			EntranceDirection: 180,
			Adjacent:          map[string]string{"south": "corridor_11"},
		},
		{
			LocationID:  "corridor_11",
			FloorLevel:  "1",
			Coordinates: "0,20",
			Description: "First floor corridor",
			Type:        "corridor",
			Adjacent: map[string]string{
				"north": "stairs_1",
				"east":  "lab_101",
			},
		},
		{
			LocationID:        "lab_101",
			FloorLevel:        "1",
			Coordinates:       "15,20",
			Description:       "Robotics laboratory",
			Type:              "laboratory",
			EntranceDirection: 0,
		},
	}
}

func newTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := NewCatalog(testEntries(), nil)
	require.NoError(t, err)
	return c
}

func TestNewCatalog_Validation(t *testing.T) {
	t.Run("empty catalog", func(t *testing.T) {
		_, err := NewCatalog(nil, nil)
		assert.Error(t, err)
	})

	t.Run("missing id", func(t *testing.T) {
		entries := []catalogEntry{{FloorLevel: "0", Coordinates: "0,0", Type: "office"}}
		_, err := NewCatalog(entries, nil)
		assert.ErrorContains(t, err, "location_id is required")
	})

	t.Run("duplicate id", func(t *testing.T) {
		entries := []catalogEntry{
			{LocationID: "a", FloorLevel: "0", Coordinates: "0,0", Type: "office"},
			{LocationID: "a", FloorLevel: "0", Coordinates: "1,1", Type: "office"},
		}
		_, err := NewCatalog(entries, nil)
		assert.ErrorContains(t, err, "duplicate location_id")
	})

	t.Run("bad floor", func(t *testing.T) {
		entries := []catalogEntry{{LocationID: "a", FloorLevel: "first", Coordinates: "0,0", Type: "office"}}
		_, err := NewCatalog(entries, nil)
		assert.ErrorContains(t, err, "bad floor_level")
	})

	t.Run("bad coordinates", func(t *testing.T) {
		entries := []catalogEntry{{LocationID: "a", FloorLevel: "0", Coordinates: "0;0", Type: "office"}}
		_, err := NewCatalog(entries, nil)
		assert.ErrorContains(t, err, "bad coordinates")
	})
}

func TestParseCoordinates(t *testing.T) {
	p, err := ParseCoordinates(" 12.5 , -3 ")
	require.NoError(t, err)
	assert.Equal(t, Point{X: 12.5, Y: -3}, p)

	_, err = ParseCoordinates("12.5")
	assert.Error(t, err)
}

func TestCatalog_Get(t *testing.T) {
	c := newTestCatalog(t)

	w, err := c.Get("office_010")
	require.NoError(t, err)
	assert.Equal(t, TypeOffice, w.Type)
	assert.Equal(t, 0, w.Floor)

	_, err = c.Get("nope")
	assert.ErrorIs(t, err, ErrUnknownWaypoint)
}

func TestCatalog_ByFloorSorted(t *testing.T) {
	c := newTestCatalog(t)

	ground := c.ByFloor(0)
	require.Len(t, ground, 4)
	for i := 1; i < len(ground); i++ {
		assert.Less(t, ground[i-1].ID, ground[i].ID)
	}

	assert.Empty(t, c.ByFloor(7))
	assert.Equal(t, []int{0, 1}, c.Floors())
}

func TestCatalog_StairPairs(t *testing.T) {
	c := newTestCatalog(t)

	up := c.StairPairs(0, 1)
	require.Len(t, up, 1)
	assert.Equal(t, StairPair{From: "stairs_g", To: "stairs_1"}, up[0])

	down := c.StairPairs(1, 0)
	require.Len(t, down, 1)
	assert.Equal(t, StairPair{From: "stairs_1", To: "stairs_g"}, down[0])

	assert.Empty(t, c.StairPairs(0, 5))
}

func TestCatalog_StairPairOrderIsStable(t *testing.T) {
	// Two stair pairs on the same floor pair: the first registered one is
	// chosen by id order, independent of entry order in the file.
	entries := testEntries()
	entries = append(entries,
		catalogEntry{LocationID: "stairs_b_g", FloorLevel: "0", Coordinates: "50,40", Type: "stairs", ConnectsTo: "stairs_b_1"},
		catalogEntry{LocationID: "stairs_b_1", FloorLevel: "1", Coordinates: "50,40", Type: "stairs", ConnectsTo: "stairs_b_g"},
	)

	c, err := NewCatalog(entries, nil)
	require.NoError(t, err)

	pairs := c.StairPairs(0, 1)
	require.Len(t, pairs, 2)
	assert.Equal(t, "stairs_b_g", pairs[0].From) // "stairs_b_g" < "stairs_g"
}

func TestCatalog_Search(t *testing.T) {
	c := newTestCatalog(t)

	byDesc := c.Search("robotics")
	require.Len(t, byDesc, 1)
	assert.Equal(t, "lab_101", byDesc[0].ID)

	byType := c.Search("corridor")
	assert.Len(t, byType, 2)

	assert.Empty(t, c.Search("cafeteria"))
}

func TestCatalog_Summarize(t *testing.T) {
	c := newTestCatalog(t)

	s := c.Summarize(0)
	assert.Equal(t, "Ground Floor", s.FloorName)
	assert.Len(t, s.Locations, 4)
	assert.Equal(t, []string{"stairs_g"}, s.Stairs)
}

func TestLoadCatalog_YAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")

	doc := `locations:
  - location_id: entrance_main
    floor_level: "0"
    coordinates: "0,0"
    description: Main entrance
    type: entrance
  - location_id: corridor_g1
    floor_level: "0"
    coordinates: "0,20"
    description: Corridor
    type: corridor
corridor_hubs:
  - floor: 0
    room_type: office
    hub_id: corridor_g1
    direction: west
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	c, err := LoadCatalog(path)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())
	require.Len(t, c.Hubs(0), 1)
	assert.Equal(t, "corridor_g1", c.Hubs(0)[0].HubID)
}

func TestLoadCatalog_JSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.json")

	doc := `{"locations": [
  {"location_id": "a", "floor_level": "0", "coordinates": "1,2", "type": "office", "description": "A"}
]}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	c, err := LoadCatalog(path)
	require.NoError(t, err)
	w, err := c.Get("a")
	require.NoError(t, err)
	assert.Equal(t, Point{X: 1, Y: 2}, w.Coordinates)
}

func TestLoadCatalog_Missing(t *testing.T) {
	_, err := LoadCatalog(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorContains(t, err, "not found")
}
