package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/tactilenav/tactilenav/guide"
)

// App encapsulates the application state and dependencies
type App struct {
	Config    *guide.Config
	Catalog   *guide.Catalog
	Router    *guide.Router
	Tracker   *guide.Tracker
	Detection *guide.DetectionClient
	Publisher *guide.GuidancePublisher

	// CLI Flags (effectively dependencies)
	ConfigFile  string
	CatalogFile string
	OutputFile  string
	HttpPort    int
	MqttMode    bool
	HttpMode    bool
}

// NewApp creates a new App instance
func NewApp() *App {
	return &App{}
}

// ApplyOptions applies CLI options to the App instance
func (a *App) ApplyOptions(opts AppOptions) {
	a.ConfigFile = opts.ConfigFile
	a.CatalogFile = opts.CatalogFile
	a.OutputFile = opts.OutputFile
	a.HttpPort = opts.HttpPort
	a.MqttMode = opts.MqttMode
	a.HttpMode = opts.HttpMode
}

// loadCatalog resolves the catalog path (CLI flag beats config) and builds
// the catalog, router, and tracker. One-shot modes and service mode share it.
func (a *App) loadCatalog() {
	path := a.CatalogFile
	if path == "" {
		if _, err := os.Stat(a.ConfigFile); err == nil {
			config, err := guide.LoadConfig(a.ConfigFile)
			if err != nil {
				log.Fatalf("Failed to load config: %v", err)
			}
			a.Config = config
			path = config.CatalogPath
		}
	}
	if path == "" {
		log.Fatal("No catalog: pass --catalog or set catalogPath in config.yaml")
	}

	catalog, err := guide.LoadCatalog(path)
	if err != nil {
		log.Fatalf("Failed to load catalog: %v", err)
	}
	a.Catalog = catalog
	a.Router = guide.NewRouter(catalog)
	a.Tracker = guide.NewTracker(catalog)
	log.Printf("Loaded catalog from %s (%d locations, %d floors)",
		path, catalog.Len(), len(catalog.Floors()))
}

// RunRoute computes and prints a route between two waypoints
func (a *App) RunRoute(from, to string) {
	a.loadCatalog()

	state, err := a.Tracker.SetFromDetection(from)
	if err != nil {
		log.Fatalf("Unknown origin: %v", err)
	}

	route, err := a.Router.Route(state, to)
	if err != nil {
		log.Fatalf("Routing failed: %v", err)
	}
	a.Tracker.CommitRoute(route)

	fmt.Printf("\nRoute: %s -> %s\n", route.Origin, route.Destination)
	fmt.Println(strings.Repeat("-", 50))
	for i, line := range route.Instructions() {
		fmt.Printf("%2d. %s\n", i+1, line)
	}
	fmt.Println(strings.Repeat("-", 50))
	fmt.Printf("Total distance: %.1f m\n", route.TotalDistance)
	fmt.Printf("Estimated time: %.0f seconds\n", route.TotalEstimatedTime)
	if route.FloorChangeNeeded {
		fmt.Println("This route includes a floor change.")
	}
	if len(route.Checkpoints) > 0 {
		fmt.Printf("Checkpoints: %s\n", strings.Join(route.Checkpoints, " -> "))
	}
}

// RunSearch prints catalog entries matching a query
func (a *App) RunSearch(query string) {
	a.loadCatalog()

	results := a.Catalog.Search(query)
	if len(results) == 0 {
		fmt.Printf("No locations match %q\n", query)
		return
	}

	fmt.Printf("Found %d location(s):\n\n", len(results))
	for _, w := range results {
		fmt.Printf("  %-20s %-12s %s (%s)\n",
			w.ID, w.Type, w.Description, guide.FloorName(w.Floor))
	}
}

// RunFloors prints a per-floor summary of the catalog
func (a *App) RunFloors() {
	a.loadCatalog()

	for _, f := range a.Catalog.Floors() {
		s := a.Catalog.Summarize(f)
		fmt.Printf("\n=== %s ===\n", s.FloorName)
		fmt.Printf("Locations (%d): %s\n", len(s.Locations), strings.Join(s.Locations, ", "))
		if len(s.Stairs) > 0 {
			fmt.Printf("Stairs: %s\n", strings.Join(s.Stairs, ", "))
		}
	}
}

// RunRenderFloor renders one floor's plan to SVG or PNG by file extension
func (a *App) RunRenderFloor(floor int) {
	a.loadCatalog()

	renderer := guide.NewFloorPlanRenderer(a.Catalog, floor)

	outFile, err := os.Create(a.OutputFile)
	if err != nil {
		log.Fatalf("Error creating output file %s: %v", a.OutputFile, err)
	}
	defer func() {
		if err := outFile.Close(); err != nil {
			log.Printf("Warning: error closing output file %s: %v", a.OutputFile, err)
		}
	}()

	if strings.EqualFold(filepath.Ext(a.OutputFile), ".png") {
		err = renderer.RenderPNG(outFile, nil)
	} else {
		err = renderer.RenderSVG(outFile, nil)
	}
	if err != nil {
		log.Fatalf("Error rendering floor plan: %v", err)
	}
	fmt.Printf("Created: %s\n", a.OutputFile)
}

// RunService starts the combined MQTT and/or HTTP service
func (a *App) RunService() {
	fmt.Println("Starting tactilenav service...")

	if _, err := os.Stat(a.ConfigFile); err != nil {
		log.Fatalf("Config file required in service mode: %v", err)
	}
	config, err := guide.LoadConfig(a.ConfigFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	a.Config = config
	log.Printf("Loaded config from %s", a.ConfigFile)

	a.loadCatalog()

	if a.MqttMode {
		// Detections drive the tracker; each position is republished so
		// the audio frontend can confirm where the user is.
		detectionHandler := func(locationID string, err error) {
			if err != nil {
				log.Printf("Error decoding detection: %v", err)
				return
			}

			state, err := a.Tracker.SetFromDetection(locationID)
			if err != nil {
				log.Printf("Detection for unknown location %q: %v", locationID, err)
				return
			}
			log.Printf("Detected %s (floor %d, facing %.0f°)",
				state.LocationID, state.Floor, state.FacingDirection)

			if a.Publisher != nil {
				if err := a.Publisher.PublishPosition(state); err != nil {
					log.Printf("Error publishing position: %v", err)
				}
			}
		}

		detection, err := guide.InitDetection(config, detectionHandler)
		if err != nil {
			log.Fatalf("Failed to initialize MQTT: %v", err)
		}
		a.Detection = detection

		if detection == nil {
			log.Fatal("MQTT broker not configured in config.yaml")
		}

		a.Publisher = guide.NewGuidancePublisher(detection.Client(), config.MQTT.PublishPrefix)
		fmt.Println("MQTT guidance publisher initialized")
	}

	if a.HttpMode {
		httpServer := newHTTPServer(a.Catalog, a.Router, a.Tracker, a.Publisher)
		go func() {
			addr := fmt.Sprintf(":%d", a.HttpPort)
			log.Printf("[HTTP] Starting server on %s", addr)
			if err := http.ListenAndServe(addr, httpServer); err != nil {
				log.Fatalf("[HTTP] Server error: %v", err)
			}
		}()
	}

	fmt.Println("\nService Running")
	fmt.Println("===============")

	if a.MqttMode {
		fmt.Println("\nMQTT:")
		fmt.Printf("  Detection topic: %s\n", config.MQTT.DetectionTopic)
		fmt.Printf("  Publishing to: %s/position and %s/route\n",
			config.MQTT.PublishPrefix, config.MQTT.PublishPrefix)
	}

	if a.HttpMode {
		fmt.Printf("\nHTTP endpoints (port %d):\n", a.HttpPort)
		fmt.Println("  GET  /health           - Health check")
		fmt.Println("  GET  /locations        - List locations (?q= to search)")
		fmt.Println("  GET  /locations/{id}   - Location details")
		fmt.Println("  GET  /floors           - Per-floor summaries")
		fmt.Println("  GET  /position         - Current user position")
		fmt.Println("  POST /detect           - Report a scanned marker")
		fmt.Println("  GET  /route            - Compute a route (?to=, optional ?from=)")
		fmt.Println("  GET  /floorplan.svg    - Floor plan (?floor=, optional route overlay)")
		fmt.Println("  GET  /floorplan.png    - Floor plan raster with labels")
	}

	fmt.Println("\nPress Ctrl+C to stop")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan

	fmt.Println("\nShutting down service...")
	if a.Detection != nil {
		a.Detection.Disconnect()
	}
	fmt.Println("Service stopped")
}
