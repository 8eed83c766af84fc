package main

import (
	"flag"
	"fmt"
	"io"
	"os"
)

// Version is set at build time via -ldflags
var Version = "dev"

// AppOptions carries parsed CLI flags into the App.
type AppOptions struct {
	ConfigFile  string
	CatalogFile string
	FromID      string
	ToID        string
	SearchQuery string
	ListFloors  bool
	RenderFloor int
	OutputFile  string
	HttpPort    int
	MqttMode    bool
	HttpMode    bool
}

// appRunner is the surface main drives; App implements it.
type appRunner interface {
	ApplyOptions(opts AppOptions)
	RunSearch(query string)
	RunFloors()
	RunRenderFloor(floor int)
	RunRoute(from, to string)
	RunService()
}

func main() {
	app := NewApp()
	if err := run(os.Args[1:], os.Stdout, app); err != nil {
		os.Exit(2)
	}
}

// run parses flags and dispatches to the selected mode.
func run(args []string, out io.Writer, app appRunner) error {
	fs := flag.NewFlagSet("tactilenav", flag.ContinueOnError)
	fs.SetOutput(out)

	configFile := fs.String("config", "config.yaml", "Path to configuration file")
	catalogFile := fs.String("catalog", "", "Path to waypoint catalog (overrides config)")
	fromID := fs.String("from", "", "Origin waypoint id for one-shot route mode")
	toID := fs.String("to", "", "Destination waypoint id for one-shot route mode")
	searchQuery := fs.String("search", "", "Search locations by id, description, or type and exit")
	listFloors := fs.Bool("floors", false, "Print a per-floor summary of the catalog and exit")
	renderFloor := fs.Int("render-floor", -1, "Render a floor plan for the given floor and exit")
	outputFile := fs.String("output", "floorplan.svg", "Output file for --render-floor mode")
	mqttMode := fs.Bool("mqtt", false, "Run MQTT service mode (detection feed + guidance publishing)")
	httpMode := fs.Bool("http", false, "Enable HTTP API server")
	httpPort := fs.Int("http-port", 8080, "HTTP server port (default 8080)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	fmt.Fprintf(out, "tactilenav version: %s\n", Version)

	app.ApplyOptions(AppOptions{
		ConfigFile:  *configFile,
		CatalogFile: *catalogFile,
		FromID:      *fromID,
		ToID:        *toID,
		SearchQuery: *searchQuery,
		ListFloors:  *listFloors,
		RenderFloor: *renderFloor,
		OutputFile:  *outputFile,
		HttpPort:    *httpPort,
		MqttMode:    *mqttMode,
		HttpMode:    *httpMode,
	})

	if *searchQuery != "" {
		app.RunSearch(*searchQuery)
		return nil
	}

	if *listFloors {
		app.RunFloors()
		return nil
	}

	if *renderFloor >= 0 {
		app.RunRenderFloor(*renderFloor)
		return nil
	}

	if *fromID != "" && *toID != "" {
		app.RunRoute(*fromID, *toID)
		return nil
	}

	if *mqttMode || *httpMode {
		app.RunService()
		return nil
	}

	fmt.Fprintln(out, "tactilenav route guidance engine")
	fmt.Fprintln(out, "Use --from=ID --to=ID to compute a route on the command line")
	fmt.Fprintln(out, "Use --search=QUERY to look up locations")
	fmt.Fprintln(out, "Use --floors to list the catalog per floor")
	fmt.Fprintln(out, "Use --render-floor=N to render a floor plan")
	fmt.Fprintln(out, "Use --mqtt to run the detection/guidance MQTT service")
	fmt.Fprintln(out, "Use --http to run the HTTP API server")
	fmt.Fprintln(out, "Use --mqtt --http to run both together")
	fmt.Fprintln(out, "\nConfiguration:")
	fmt.Fprintln(out, "  config.yaml - MQTT settings and catalog path")
	return nil
}
