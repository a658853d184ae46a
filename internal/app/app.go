package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync/atomic"

	"github.com/valyala/fasthttp"

	"anyrun-fixtures/pkg/config"
	"anyrun-fixtures/pkg/responder"
	"anyrun-fixtures/pkg/telemetry"
)

// Transport selects the HTTP serving primitive behind a fixture.
type Transport string

const (
	// TransportMux serves through net/http with gorilla/mux routing.
	TransportMux Transport = "mux"
	// TransportFast serves straight from a fasthttp request handler.
	TransportFast Transport = "fasthttp"
)

// BuildInfo is set via ldflags in the cmd packages.
type BuildInfo struct {
	Version   string
	Commit    string
	BuildDate string
}

// String renders the version the way the banner shows it.
func (b BuildInfo) String() string {
	s := b.Version
	if s == "" {
		s = "dev"
	}
	if b.Commit != "" && b.Commit != "none" {
		s += " (" + b.Commit + ")"
	}
	if b.BuildDate != "" && b.BuildDate != "unknown" {
		s += " @ " + b.BuildDate
	}
	return s
}

// App groups the state of one fixture process.
type App struct {
	cfg       *config.Config
	transport Transport
	build     BuildInfo
	resp      *responder.Responder
	metrics   *telemetry.Metrics

	ln         net.Listener
	srv        *http.Server
	srvFast    *fasthttp.Server
	metricsLn  net.Listener
	metricsSrv *http.Server

	errCh    chan error
	stopping atomic.Bool
	state    atomic.Value // string
}

// New validates cfg and builds the responder for v. Nothing is bound until
// Start.
func New(cfg *config.Config, v responder.Variant, t Transport, build BuildInfo) (*App, error) {
	if err := config.ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	switch t {
	case TransportMux, TransportFast:
	default:
		return nil, fmt.Errorf("unknown transport %q", t)
	}
	resp := responder.New(v)
	a := &App{
		cfg:       cfg,
		transport: t,
		build:     build,
		resp:      resp,
		metrics:   telemetry.New(resp),
	}
	a.state.Store("initialized")
	return a, nil
}

// Start binds the listeners and begins serving in the background. Bind
// failures are returned here so callers can exit before printing a banner.
func (a *App) Start() error {
	if a.ln != nil {
		return fmt.Errorf("app already started")
	}
	addr := a.cfg.Addr()
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("bind %s: %w", addr, err)
	}
	if a.cfg.Metrics.Addr != "" {
		mln, err := net.Listen("tcp", a.cfg.Metrics.Addr)
		if err != nil {
			_ = ln.Close()
			return fmt.Errorf("bind metrics %s: %w", a.cfg.Metrics.Addr, err)
		}
		a.metricsLn = mln
	}
	a.ln = ln
	a.errCh = make(chan error, 2)

	switch a.transport {
	case TransportMux:
		a.serveMux()
	case TransportFast:
		a.serveFast()
	}
	if a.metricsLn != nil {
		a.serveMetrics()
	}
	a.state.Store("running")
	return nil
}

// Run starts the app if needed and blocks until ctx is cancelled or a server
// fails.
func (a *App) Run(ctx context.Context) error {
	if a.ln == nil {
		if err := a.Start(); err != nil {
			return err
		}
	}
	a.printBanner()
	select {
	case <-ctx.Done():
		return nil
	case err := <-a.errCh:
		return err
	}
}

// Addr returns the bound address, or nil before Start.
func (a *App) Addr() net.Addr {
	if a.ln == nil {
		return nil
	}
	return a.ln.Addr()
}

// MetricsAddr returns the bound metrics address, or nil when disabled.
func (a *App) MetricsAddr() net.Addr {
	if a.metricsLn == nil {
		return nil
	}
	return a.metricsLn.Addr()
}

// Responder returns the route table served by the app.
func (a *App) Responder() *responder.Responder { return a.resp }

// Metrics returns the app's collectors.
func (a *App) Metrics() *telemetry.Metrics { return a.metrics }

// State reports the lifecycle state: initialized, running, shutting_down or
// stopped.
func (a *App) State() string { return a.state.Load().(string) }

// report forwards a serve error unless it is the result of Shutdown.
func (a *App) report(err error) {
	if err == nil || errors.Is(err, http.ErrServerClosed) || a.stopping.Load() {
		return
	}
	a.errCh <- err
}
