// Command simple-server is the AnyRun fixture built on a bare fasthttp
// request handler: "/" and "/health" plus a catch-all 404, on PORT
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
	app.Main(responder.SimpleServer, app.TransportFast, app.BuildInfo{
		Version:   version,
		Commit:    commit,
		BuildDate: buildDate,
	})
}
