package telemetry

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"anyrun-fixtures/pkg/httpx"
	"anyrun-fixtures/pkg/responder"
	"anyrun-fixtures/pkg/router"
)

func TestMiddleware_CountsByRoute(t *testing.T) {
	r := responder.New(responder.FlaskApp)
	m := New(r)
	h := m.Middleware(router.New(r))

	for _, target := range []string{"/", "/health", "/health", "/nope"} {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, target, nil))
	}

	svc := responder.FlaskApp.ServiceID
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Requests().WithLabelValues(svc, "GET", "/", "200")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Requests().WithLabelValues(svc, "GET", "/health", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Requests().WithLabelValues(svc, "GET", "unmatched", "404")))
}

func TestMiddlewareFast_CountsByRoute(t *testing.T) {
	r := responder.New(responder.SimpleServer)
	m := New(r)
	h := m.MiddlewareFast(httpx.FastHTTPAdapter(r))

	for _, target := range []string{"/", "/missing"} {
		var ctx fasthttp.RequestCtx
		var req fasthttp.Request
		req.SetRequestURI("http://localhost" + target)
		ctx.Init(&req, nil, nil)
		h(&ctx)
	}

	svc := responder.SimpleServer.ServiceID
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Requests().WithLabelValues(svc, "GET", "/", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Requests().WithLabelValues(svc, "GET", "unmatched", "404")))
}

func TestHandler_Exposition(t *testing.T) {
	r := responder.New(responder.FlaskApp)
	m := New(r)
	m.Middleware(router.New(r)).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "fixture_http_requests_total"))
	assert.True(t, strings.Contains(rec.Body.String(), "fixture_http_request_duration_seconds"))
}
