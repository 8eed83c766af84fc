package main

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/tactilenav/tactilenav/guide"
)

// newHTTPServer creates an HTTP server with all endpoints
func newHTTPServer(catalog *guide.Catalog, router *guide.Router, tracker *guide.Tracker, publisher *guide.GuidancePublisher) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, located := tracker.Snapshot()
		status := struct {
			Status    string    `json:"status"`
			Timestamp time.Time `json:"timestamp"`
			Locations int       `json:"locations"`
			Located   bool      `json:"located"`
		}{
			Status:    "ok",
			Timestamp: time.Now(),
			Locations: catalog.Len(),
			Located:   located,
		}
		if err := json.NewEncoder(w).Encode(status); err != nil {
			log.Printf("Error encoding health status: %v", err)
		}
	})

	// Location listing and search
	mux.HandleFunc("/locations", func(w http.ResponseWriter, r *http.Request) {
		var results []*guide.Waypoint
		if q := r.URL.Query().Get("q"); q != "" {
			results = catalog.Search(q)
		} else {
			for _, id := range catalog.IDs() {
				wp, _ := catalog.Get(id)
				results = append(results, wp)
			}
		}
		writeJSON(w, results)
	})

	// Single location details
	mux.HandleFunc("/locations/", func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimPrefix(r.URL.Path, "/locations/")
		wp, err := catalog.Get(id)
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		writeJSON(w, wp)
	})

	// Per-floor summaries
	mux.HandleFunc("/floors", func(w http.ResponseWriter, r *http.Request) {
		var summaries []guide.FloorSummary
		for _, f := range catalog.Floors() {
			summaries = append(summaries, catalog.Summarize(f))
		}
		writeJSON(w, summaries)
	})

	// Current user position
	mux.HandleFunc("/position", func(w http.ResponseWriter, r *http.Request) {
		state, ok := tracker.Snapshot()
		if !ok {
			http.Error(w, "No position yet: waiting for first detection", http.StatusNotFound)
			return
		}
		writeJSON(w, state)
	})

	// Report a scanned marker. Accepts the same payloads as the MQTT
	// detection topic.
	mux.HandleFunc("/detect", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "POST required", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(io.LimitReader(r.Body, 4096))
		if err != nil {
			http.Error(w, "Error reading body", http.StatusBadRequest)
			return
		}

		locationID, err := guide.DecodeDetection(body)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		state, err := tracker.SetFromDetection(locationID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}

		if publisher != nil {
			if err := publisher.PublishPosition(state); err != nil {
				log.Printf("Error publishing position: %v", err)
			}
		}
		writeJSON(w, state)
	})

	// Compute a route. ?to= is required; ?from= overrides the tracked
	// position for stateless clients.
	mux.HandleFunc("/route", func(w http.ResponseWriter, r *http.Request) {
		to := r.URL.Query().Get("to")
		if to == "" {
			http.Error(w, "Missing ?to= destination", http.StatusBadRequest)
			return
		}

		var snapshot guide.UserState
		if from := r.URL.Query().Get("from"); from != "" {
			wp, err := catalog.Get(from)
			if err != nil {
				http.Error(w, err.Error(), http.StatusNotFound)
				return
			}
			snapshot = guide.UserState{
				LocationID:      wp.ID,
				Coordinates:     wp.Coordinates,
				FacingDirection: wp.EntranceDirection,
				Floor:           wp.Floor,
			}
		} else {
			var ok bool
			snapshot, ok = tracker.Snapshot()
			if !ok {
				http.Error(w, "No position yet: pass ?from= or scan a marker first", http.StatusConflict)
				return
			}
		}

		route, err := router.Route(snapshot, to)
		if err != nil {
			http.Error(w, err.Error(), routeErrorStatus(err))
			return
		}

		// Only routes from the live position move the tracker.
		if r.URL.Query().Get("from") == "" {
			tracker.CommitRoute(route)
		}

		if publisher != nil {
			if err := publisher.PublishRoute(route); err != nil {
				log.Printf("Error publishing route: %v", err)
			}
		}
		writeJSON(w, route)
	})

	// Floor plan endpoints. ?floor= selects the floor (default 0);
	// ?from=&to= overlays a route.
	mux.HandleFunc("/floorplan.svg", func(w http.ResponseWriter, r *http.Request) {
		renderer, route, ok := floorPlanRequest(w, r, catalog, router)
		if !ok {
			return
		}
		w.Header().Set("Content-Type", "image/svg+xml")
		w.Header().Set("Cache-Control", "no-cache")
		if err := renderer.RenderSVG(w, route); err != nil {
			log.Printf("Error encoding floor plan SVG: %v", err)
		}
	})

	mux.HandleFunc("/floorplan.png", func(w http.ResponseWriter, r *http.Request) {
		renderer, route, ok := floorPlanRequest(w, r, catalog, router)
		if !ok {
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "no-cache")
		if err := renderer.RenderPNG(w, route); err != nil {
			log.Printf("Error encoding floor plan PNG: %v", err)
		}
	})

	return mux
}

// floorPlanRequest parses the shared query parameters of the floor plan
// endpoints and builds the renderer plus an optional route overlay.
func floorPlanRequest(w http.ResponseWriter, r *http.Request, catalog *guide.Catalog, router *guide.Router) (*guide.FloorPlanRenderer, *guide.NavigationRoute, bool) {
	floor := 0
	if s := r.URL.Query().Get("floor"); s != "" {
		f, err := strconv.Atoi(s)
		if err != nil {
			http.Error(w, "Bad ?floor= value", http.StatusBadRequest)
			return nil, nil, false
		}
		floor = f
	}

	var route *guide.NavigationRoute
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	if from != "" && to != "" {
		wp, err := catalog.Get(from)
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return nil, nil, false
		}
		snapshot := guide.UserState{
			LocationID:      wp.ID,
			Coordinates:     wp.Coordinates,
			FacingDirection: wp.EntranceDirection,
			Floor:           wp.Floor,
		}
		route, err = router.Route(snapshot, to)
		if err != nil {
			http.Error(w, err.Error(), routeErrorStatus(err))
			return nil, nil, false
		}
	}

	return guide.NewFloorPlanRenderer(catalog, floor), route, true
}

func routeErrorStatus(err error) int {
	switch {
	case errors.Is(err, guide.ErrUnknownWaypoint):
		return http.StatusNotFound
	case errors.Is(err, guide.ErrNoFloorConnection):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}
