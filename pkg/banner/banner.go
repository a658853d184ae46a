package banner

import (
	"fmt"
	"io"
	"net"
	"strconv"

	"anyrun-fixtures/pkg/responder"
)

// Info is what the banner shows about a started fixture.
type Info struct {
	Variant   responder.Variant
	Transport string
	Listen    net.Addr
	Metrics   string
	Version   string
	Routes    []responder.Route
}

// Print writes the startup banner. Supervisors scrape stdout for the final
// "Server running at" line.
func Print(w io.Writer, info Info) {
	fmt.Fprintf(w, "\n  AnyRun fixture :: %s\n\n", info.Variant.Name)
	fmt.Fprintln(w, "== Config =====================================================")
	fmt.Fprintf(w, "Service:   %s\n", info.Variant.ServiceID)
	fmt.Fprintf(w, "Transport: %s\n", info.Transport)
	if info.Listen != nil {
		fmt.Fprintf(w, "Listen:    %s\n", info.Listen.String())
	}
	if info.Version != "" {
		fmt.Fprintf(w, "Version:   %s\n", info.Version)
	}
	if info.Metrics != "" {
		fmt.Fprintf(w, "Metrics:   http://%s/metrics\n", info.Metrics)
	}
	fmt.Fprintln(w, "\n== Endpoints ==================================================")
	for _, rt := range info.Routes {
		fmt.Fprintf(w, "%-4s %s\n", rt.Method, rt.Path)
	}
	fmt.Fprintln(w, "*    anything else -> 404")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Server running at http://localhost:%s/\n", port(info.Listen))
}

func port(a net.Addr) string {
	if tcp, ok := a.(*net.TCPAddr); ok {
		return strconv.Itoa(tcp.Port)
	}
	if a == nil {
		return ""
	}
	if _, p, err := net.SplitHostPort(a.String()); err == nil {
		return p
	}
	return a.String()
}
