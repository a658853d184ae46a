package app

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/valyala/fasthttp"

	"anyrun-fixtures/pkg/banner"
	"anyrun-fixtures/pkg/httpx"
	"anyrun-fixtures/pkg/logger"
	"anyrun-fixtures/pkg/router"
)

const (
	readBufferSize     = 4 * 1024         // request line and headers only
	writeBufferSize    = 4 * 1024         // responses are a few dozen bytes
	maxRequestBodySize = 1 << 20          // bodies are never read
	readTimeout        = 10 * time.Second // timeout for reading request
	writeTimeout       = 10 * time.Second // timeout for writing response
	idleTimeout        = 30 * time.Second // max keep-alive idle duration per connection
)

// printBanner prints the startup banner and build info.
func (a *App) printBanner() {
	info := banner.Info{
		Variant:   a.resp.Variant(),
		Transport: string(a.transport),
		Listen:    a.Addr(),
		Version:   a.build.String(),
		Routes:    a.resp.Routes(),
	}
	if ma := a.MetricsAddr(); ma != nil {
		info.Metrics = ma.String()
	}
	banner.Print(os.Stdout, info)
}

// serveMux runs the framework-routed variant on net/http.
func (a *App) serveMux() {
	a.srv = &http.Server{
		Handler:      a.metrics.Middleware(router.New(a.resp)),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
		ErrorLog:     logger.StdLogger(slog.LevelWarn),
	}
	logger.Info("http_server_starting", "transport", a.transport, "addr", a.ln.Addr().String(), "service", a.resp.Variant().ServiceID)
	go func() {
		a.report(a.srv.Serve(a.ln))
	}()
}

// serveFast runs the raw-handler variant on fasthttp. There is no router:
// the responder does the path dispatch itself.
func (a *App) serveFast() {
	handler := httpx.FastHTTPAdapter(a.resp)
	handler = a.metrics.MiddlewareFast(handler)
	handler = logRequestsFast(handler)

	a.srvFast = &fasthttp.Server{
		Handler:              handler,
		ErrorHandler:         fastErrorHandler,
		Name:                 "anyrun-fixture",
		ReadBufferSize:       readBufferSize,
		WriteBufferSize:      writeBufferSize,
		MaxRequestBodySize:   maxRequestBodySize,
		ReadTimeout:          readTimeout,
		WriteTimeout:         writeTimeout,
		IdleTimeout:          idleTimeout,
		NoDefaultContentType: true,
		CloseOnShutdown:      true,
		// broken pipe and reset errors are otherwise dropped by the worker pool
		LogAllErrors:         true,
		Logger:               logger.Printf{Level: slog.LevelWarn},
	}
	logger.Info("http_server_starting",
		"transport", a.transport,
		"addr", a.ln.Addr().String(),
		"service", a.resp.Variant().ServiceID,
		"read_buffer", humanize.IBytes(readBufferSize),
		"write_buffer", humanize.IBytes(writeBufferSize),
		"max_body", humanize.IBytes(maxRequestBodySize),
	)
	go func() {
		a.report(a.srvFast.Serve(a.ln))
	}()
}

// serveMetrics exposes the registry on its own listener; the fixture port
// only ever answers the route table.
func (a *App) serveMetrics() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", a.metrics.Handler())
	a.metricsSrv = &http.Server{
		Handler:      mux,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		ErrorLog:     logger.StdLogger(slog.LevelWarn),
	}
	logger.Info("metrics_server_starting", "addr", a.metricsLn.Addr().String())
	go func() {
		a.report(a.metricsSrv.Serve(a.metricsLn))
	}()
}

func logRequestsFast(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		logger.LogRequestFast(ctx)
		next(ctx)
	}
}

// fastErrorHandler handles requests fasthttp could not parse. The connection
// is answered with a bare 400 and dropped.
func fastErrorHandler(ctx *fasthttp.RequestCtx, err error) {
	logger.Warn("request_parse_failed", "remote", ctx.RemoteAddr().String(), "error", err)
	ctx.SetStatusCode(fasthttp.StatusBadRequest)
	ctx.SetConnectionClose()
}
