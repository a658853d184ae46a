// Package responder implements the fixed route table served by every fixture
// variant: an HTML greeting at "/", a JSON health payload at "/health" and an
// empty 404 for anything else.
package responder

import (
	"bytes"
	"encoding/json"
	"net/http"
)

const (
	PathRoot   = "/"
	PathHealth = "/health"

	ContentTypeHTML = "text/html"
	ContentTypeJSON = "application/json"
)

// Variant names one fixture. Name appears in the greeting, ServiceID in the
// health payload. Both are golden values and must not change.
type Variant struct {
	Name      string
	ServiceID string
}

var (
	// FlaskApp is the framework-routed variant.
	FlaskApp = Variant{Name: "Flask App", ServiceID: "flask-test-app"}
	// SimpleServer is the variant built on the raw request handler.
	SimpleServer = Variant{Name: "Simple Python Server", ServiceID: "simple-python-test"}
)

// Variants returns the known fixture variants.
func Variants() []Variant {
	return []Variant{FlaskApp, SimpleServer}
}

// Lookup finds a variant by service id.
func Lookup(serviceID string) (Variant, bool) {
	for _, v := range Variants() {
		if v.ServiceID == serviceID {
			return v, true
		}
	}
	return Variant{}, false
}

// Response is a fully materialized reply. Each Response returned by Handle
// owns its Body.
type Response struct {
	Status      int
	ContentType string
	Body        []byte
}

// Route is a (method, path) pair with a fixed response.
type Route struct {
	Method string
	Path   string
}

// Responder answers requests from a fixed route table built once in New.
// It holds no mutable state and is safe for concurrent use.
type Responder struct {
	variant Variant
	routes  map[Route]Response
	order   []Route
}

// New builds the route table for v.
func New(v Variant) *Responder {
	r := &Responder{variant: v, routes: make(map[Route]Response, 2)}
	r.add(Route{Method: http.MethodGet, Path: PathRoot}, Response{
		Status:      http.StatusOK,
		ContentType: ContentTypeHTML,
		Body:        []byte("<h1>Hello from " + v.Name + " managed by AnyRun!</h1>"),
	})
	r.add(Route{Method: http.MethodGet, Path: PathHealth}, Response{
		Status:      http.StatusOK,
		ContentType: ContentTypeJSON,
		Body:        healthBody(v.ServiceID),
	})
	return r
}

func (r *Responder) add(rt Route, resp Response) {
	r.routes[rt] = resp
	r.order = append(r.order, rt)
}

// healthBody renders the health payload with the exact spacing of the
// reference fixtures; only the service id is JSON-escaped.
func healthBody(serviceID string) []byte {
	id, _ := json.Marshal(serviceID)
	return []byte(`{"status": "ok", "service": ` + string(id) + `}`)
}

// notFound is returned for every unmatched request.
var notFound = Response{Status: http.StatusNotFound}

// Handle returns the response for a request. Only the path component is
// matched; callers strip the query string.
func (r *Responder) Handle(path, method string) Response {
	if resp, ok := r.routes[Route{Method: method, Path: path}]; ok {
		resp.Body = bytes.Clone(resp.Body)
		return resp
	}
	return notFound
}

// Routes returns the route table in registration order.
func (r *Responder) Routes() []Route {
	return append([]Route(nil), r.order...)
}

// Variant returns the variant this responder serves.
func (r *Responder) Variant() Variant {
	return r.variant
}

// RouteLabel maps a path to a bounded label for metrics and logs.
func (r *Responder) RouteLabel(path, method string) string {
	if _, ok := r.routes[Route{Method: method, Path: path}]; ok {
		return path
	}
	return "unmatched"
}
