package guide

import (
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/rasterizer"
	"github.com/tdewolff/canvas/renderers/svg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// typeColors assigns a fill color per waypoint type so floor plans read at
// a glance: circulation in light grey, rooms in blue, stairs in orange.
var typeColors = map[WaypointType]color.RGBA{
	TypeCorridor:    {210, 210, 210, 255},
	TypeOpenSpace:   {230, 230, 230, 255},
	TypeEntrance:    {144, 238, 144, 255},
	TypeOffice:      {100, 149, 237, 255},
	TypeLectureRoom: {65, 105, 225, 255},
	TypeMeetingRoom: {123, 104, 238, 255},
	TypeLaboratory:  {72, 61, 139, 255},
	TypeFacility:    {188, 143, 143, 255},
	TypeStairs:      {255, 140, 0, 255},
}

var routeColor = color.RGBA{220, 20, 60, 255}

// FloorPlanRenderer draws one floor's waypoint graph as vector graphics,
// optionally with a route overlay. SVG output is for dashboards; PNG output
// additionally carries raster waypoint labels for quick inspection.
type FloorPlanRenderer struct {
	catalog *Catalog
	graph   *FloorGraph
	floor   int

	Padding     float64 // world units around the bounding box
	NodeRadius  float64
	Resolution  canvas.Resolution
	GridSpacing float64
}

// NewFloorPlanRenderer creates a renderer for one floor with default settings.
func NewFloorPlanRenderer(catalog *Catalog, floor int) *FloorPlanRenderer {
	return &FloorPlanRenderer{
		catalog:     catalog,
		graph:       BuildFloorGraph(catalog, floor),
		floor:       floor,
		Padding:     10.0,
		NodeRadius:  2.0,
		Resolution:  canvas.DPMM(8),
		GridSpacing: 10.0,
	}
}

// canvasRenderer is the subset both the svg and rasterizer backends implement.
type canvasRenderer interface {
	RenderPath(path *canvas.Path, style canvas.Style, m canvas.Matrix)
}

// RenderSVG writes the floor plan as an SVG. route may be nil.
func (r *FloorPlanRenderer) RenderSVG(w io.Writer, route *NavigationRoute) error {
	minX, minY, width, height := r.bounds()

	svgRenderer := svg.New(w, width, height, nil)
	r.renderToCanvas(svgRenderer, minX, minY, width, height, route)
	return svgRenderer.Close()
}

// RenderPNG writes the floor plan as a PNG with waypoint id labels.
func (r *FloorPlanRenderer) RenderPNG(w io.Writer, route *NavigationRoute) error {
	minX, minY, width, height := r.bounds()

	rast := rasterizer.New(width, height, r.Resolution, canvas.DefaultColorSpace)
	r.renderToCanvas(rast, minX, minY, width, height, route)

	r.drawLabels(rast, minX, minY, height)
	return png.Encode(w, rast)
}

// bounds computes the world-space bounding box of the floor plus padding.
func (r *FloorPlanRenderer) bounds() (minX, minY, width, height float64) {
	waypoints := r.catalog.ByFloor(r.floor)
	if len(waypoints) == 0 {
		return 0, 0, 2 * r.Padding, 2 * r.Padding
	}

	minX, minY = waypoints[0].Coordinates.X, waypoints[0].Coordinates.Y
	maxX, maxY := minX, minY
	for _, wp := range waypoints[1:] {
		if wp.Coordinates.X < minX {
			minX = wp.Coordinates.X
		}
		if wp.Coordinates.Y < minY {
			minY = wp.Coordinates.Y
		}
		if wp.Coordinates.X > maxX {
			maxX = wp.Coordinates.X
		}
		if wp.Coordinates.Y > maxY {
			maxY = wp.Coordinates.Y
		}
	}

	minX -= r.Padding
	minY -= r.Padding
	width = (maxX - minX) + r.Padding
	height = (maxY - minY) + r.Padding
	return minX, minY, width, height
}

func (r *FloorPlanRenderer) renderToCanvas(renderer canvasRenderer, minX, minY, width, height float64, route *NavigationRoute) {
	bgStyle := canvas.DefaultStyle
	bgStyle.Fill = canvas.Paint{Color: canvas.White}
	renderer.RenderPath(canvas.Rectangle(width, height), bgStyle, canvas.Identity)

	toCanvas := func(p Point) (float64, float64) {
		return p.X - minX, p.Y - minY
	}

	// Grid lines under everything else.
	if r.GridSpacing > 0 {
		gridStyle := canvas.DefaultStyle
		gridStyle.Fill = canvas.Paint{Color: canvas.Transparent}
		gridStyle.Stroke = canvas.Paint{Color: canvas.Gray}
		gridStyle.StrokeWidth = 0.2
		gridStyle.Dashes = []float64{1.0, 1.0}

		for x := 0.0; x <= width; x += r.GridSpacing {
			gridPath := &canvas.Path{}
			gridPath.MoveTo(x, 0)
			gridPath.LineTo(x, height)
			renderer.RenderPath(gridPath, gridStyle, canvas.Identity)
		}
		for y := 0.0; y <= height; y += r.GridSpacing {
			gridPath := &canvas.Path{}
			gridPath.MoveTo(0, y)
			gridPath.LineTo(width, y)
			renderer.RenderPath(gridPath, gridStyle, canvas.Identity)
		}
	}

	// Graph edges.
	edgeStyle := canvas.DefaultStyle
	edgeStyle.Fill = canvas.Paint{Color: canvas.Transparent}
	edgeStyle.Stroke = canvas.Paint{Color: canvas.Darkgray}
	edgeStyle.StrokeWidth = 0.4

	for _, id := range r.graph.Nodes() {
		from, _ := r.graph.Node(id)
		for _, e := range r.graph.Neighbors(id) {
			if e.To < id {
				continue // draw each undirected edge once
			}
			to, ok := r.graph.Node(e.To)
			if !ok {
				continue
			}
			x1, y1 := toCanvas(from.Coordinates)
			x2, y2 := toCanvas(to.Coordinates)
			edgePath := &canvas.Path{}
			edgePath.MoveTo(x1, y1)
			edgePath.LineTo(x2, y2)
			renderer.RenderPath(edgePath, edgeStyle, canvas.Identity)
		}
	}

	// Route overlay above the graph, below the nodes.
	if route != nil {
		routeStyle := canvas.DefaultStyle
		routeStyle.Fill = canvas.Paint{Color: canvas.Transparent}
		routeStyle.Stroke = canvas.Paint{Color: routeColor}
		routeStyle.StrokeWidth = 1.2

		routePath := &canvas.Path{}
		started := false
		for _, s := range route.Segments {
			if s.FromNode == s.ToNode || s.FloorChange {
				continue
			}
			from, okF := r.catalog.waypoints[s.FromNode]
			to, okT := r.catalog.waypoints[s.ToNode]
			if !okF || !okT || from.Floor != r.floor || to.Floor != r.floor {
				continue
			}
			x1, y1 := toCanvas(from.Coordinates)
			x2, y2 := toCanvas(to.Coordinates)
			if !started {
				routePath.MoveTo(x1, y1)
				started = true
			}
			routePath.LineTo(x2, y2)
		}
		if started {
			renderer.RenderPath(routePath, routeStyle, canvas.Identity)
		}
	}

	// Waypoint markers.
	for _, wp := range r.catalog.ByFloor(r.floor) {
		cx, cy := toCanvas(wp.Coordinates)

		nodeStyle := canvas.DefaultStyle
		nodeStyle.Fill = canvas.Paint{Color: r.nodeColor(wp.Type)}
		nodeStyle.Stroke = canvas.Paint{Color: canvas.Black}
		nodeStyle.StrokeWidth = 0.3

		nodePath := canvas.Circle(r.NodeRadius)
		nodePath = nodePath.Translate(cx, cy)
		renderer.RenderPath(nodePath, nodeStyle, canvas.Identity)
	}
}

func (r *FloorPlanRenderer) nodeColor(t WaypointType) color.RGBA {
	if c, ok := typeColors[t]; ok {
		return c
	}
	return color.RGBA{160, 160, 160, 255}
}

// drawLabels overlays waypoint ids on the rasterized image. Canvas has its
// origin bottom-left, images top-left, so y flips.
func (r *FloorPlanRenderer) drawLabels(img *rasterizer.Rasterizer, minX, minY, height float64) {
	dpmm := r.Resolution.DPMM()
	for _, wp := range r.catalog.ByFloor(r.floor) {
		px := int((wp.Coordinates.X - minX + r.NodeRadius) * dpmm)
		py := int((height - (wp.Coordinates.Y - minY) - r.NodeRadius) * dpmm)
		drawText(img, px, py, wp.ID, color.RGBA{0, 0, 0, 255})
	}
}

// drawText renders text onto an image at the specified position
func drawText(img *rasterizer.Rasterizer, x, y int, text string, c color.RGBA) {
	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(text)
}
