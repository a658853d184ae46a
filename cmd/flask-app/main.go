// Command flask-app is the framework-routed AnyRun fixture. It answers "/"
// and "/health" through a gorilla/mux router on net/http and listens on PORT
// (default 5000).
package main

import (
	"anyrun-fixtures/internal/app"
	"anyrun-fixtures/pkg/responder"
)

// set build metadata
var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	app.Main(responder.FlaskApp, app.TransportMux, app.BuildInfo{
		Version:   version,
		Commit:    commit,
		BuildDate: buildDate,
	})
}
