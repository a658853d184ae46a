// Package router builds the framework-routed handler used by the Flask App
// fixture. Routes come from the responder's table; gorilla/mux does the
// dispatch.
package router

import (
	"net/http"

	"github.com/gorilla/mux"

	"anyrun-fixtures/pkg/httpx"
	"anyrun-fixtures/pkg/logger"
	"anyrun-fixtures/pkg/responder"
)

// New registers every responder route on a mux router. Unmatched paths and
// known paths hit with another method both fall through to the responder so
// the reply is the same empty 404 the raw handler produces.
func New(r *responder.Responder) http.Handler {
	h := httpx.NetHTTPAdapter(r)

	m := mux.NewRouter()
	for _, rt := range r.Routes() {
		m.Handle(rt.Path, h).Methods(rt.Method)
	}
	m.NotFoundHandler = h
	m.MethodNotAllowedHandler = h
	// wrap outside the router so unmatched requests are logged too
	return logRequests(m)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.LogRequest(r)
		next.ServeHTTP(w, r)
	})
}
