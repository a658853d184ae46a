package router

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"anyrun-fixtures/pkg/responder"
)

func do(t *testing.T, h http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestRouter_Routes(t *testing.T) {
	for _, v := range responder.Variants() {
		h := New(responder.New(v))

		rec := do(t, h, http.MethodGet, "/")
		if rec.Code != http.StatusOK {
			t.Fatalf("%s GET /: expected 200, got %d", v.ServiceID, rec.Code)
		}
		if ct := rec.Header().Get("Content-Type"); ct != "text/html" {
			t.Fatalf("%s GET /: unexpected content type %q", v.ServiceID, ct)
		}
		want := "<h1>Hello from " + v.Name + " managed by AnyRun!</h1>"
		if rec.Body.String() != want {
			t.Fatalf("%s GET /: got %q want %q", v.ServiceID, rec.Body.String(), want)
		}

		rec = do(t, h, http.MethodGet, "/health")
		if rec.Code != http.StatusOK {
			t.Fatalf("%s GET /health: expected 200, got %d", v.ServiceID, rec.Code)
		}
		if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
			t.Fatalf("%s GET /health: unexpected content type %q", v.ServiceID, ct)
		}
		want = `{"status": "ok", "service": "` + v.ServiceID + `"}`
		if rec.Body.String() != want {
			t.Fatalf("%s GET /health: got %q want %q", v.ServiceID, rec.Body.String(), want)
		}
	}
}

func TestRouter_QueryStringIgnored(t *testing.T) {
	h := New(responder.New(responder.FlaskApp))
	rec := do(t, h, http.MethodGet, "/health?verbose=1")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRouter_NotFound(t *testing.T) {
	h := New(responder.New(responder.FlaskApp))
	for _, target := range []string{"/missing", "/health/x", "/static/app.js"} {
		rec := do(t, h, http.MethodGet, target)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("GET %s: expected 404, got %d", target, rec.Code)
		}
		body, _ := io.ReadAll(rec.Body)
		if len(body) != 0 {
			t.Fatalf("GET %s: expected empty body, got %q", target, body)
		}
	}
}

func TestRouter_WrongMethodIsNotFound(t *testing.T) {
	h := New(responder.New(responder.FlaskApp))
	for _, m := range []string{http.MethodPost, http.MethodPut, http.MethodDelete} {
		rec := do(t, h, m, "/health")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("%s /health: expected 404, got %d", m, rec.Code)
		}
	}
}

func TestRouter_Idempotent(t *testing.T) {
	h := New(responder.New(responder.FlaskApp))
	first := do(t, h, http.MethodGet, "/health").Body.String()
	for i := 0; i < 20; i++ {
		if got := do(t, h, http.MethodGet, "/health").Body.String(); got != first {
			t.Fatalf("response changed between calls: %q vs %q", first, got)
		}
	}
}
