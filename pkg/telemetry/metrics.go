package telemetry

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp"

	"anyrun-fixtures/pkg/responder"
)

// Metrics holds the request collectors of one fixture process. Each instance
// owns its registry so tests and multiple apps in one process do not collide.
type Metrics struct {
	reg      *prometheus.Registry
	resp     *responder.Responder
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// New creates and registers the fixture collectors plus Go/process collectors.
func New(r *responder.Responder) *Metrics {
	m := &Metrics{
		reg:  prometheus.NewRegistry(),
		resp: r,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fixture_http_requests_total",
			Help: "HTTP requests served, by route and status code.",
		}, []string{"service", "method", "route", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fixture_http_request_duration_seconds",
			Help:    "Time spent producing a response.",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1},
		}, []string{"service", "route"}),
	}
	m.reg.MustRegister(
		m.requests,
		m.duration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

// Requests returns the request counter, mainly for tests.
func (m *Metrics) Requests() *prometheus.CounterVec { return m.requests }

func (m *Metrics) observe(method, path string, code int, started time.Time) {
	svc := m.resp.Variant().ServiceID
	route := m.resp.RouteLabel(path, method)
	m.requests.WithLabelValues(svc, method, route, strconv.Itoa(code)).Inc()
	m.duration.WithLabelValues(svc, route).Observe(time.Since(started).Seconds())
}

// Middleware instruments a net/http handler.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		sw := &statusWriter{ResponseWriter: w}
		next.ServeHTTP(sw, r)
		code := sw.status
		if code == 0 {
			code = http.StatusOK
		}
		m.observe(r.Method, r.URL.Path, code, started)
	})
}

// MiddlewareFast instruments a fasthttp handler.
func (m *Metrics) MiddlewareFast(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		started := time.Now()
		next(ctx)
		m.observe(string(ctx.Method()), string(ctx.Path()), ctx.Response.StatusCode(), started)
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (s *statusWriter) WriteHeader(code int) {
	if s.status == 0 {
		s.status = code
	}
	s.ResponseWriter.WriteHeader(code)
}

// Unwrap lets http.ResponseController reach the server's writer.
func (s *statusWriter) Unwrap() http.ResponseWriter { return s.ResponseWriter }

func (s *statusWriter) Write(b []byte) (int, error) {
	if s.status == 0 {
		s.status = http.StatusOK
	}
	return s.ResponseWriter.Write(b)
}
