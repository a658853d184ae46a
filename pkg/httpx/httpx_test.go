package httpx

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"syscall"
	"testing"

	"github.com/valyala/fasthttp"
)

func echoHandler(w ResponseWriter, r *Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.Header().Set("X-Method", r.Method)
	w.Header().Set("X-Path", r.Path)
	w.WriteHeader(http.StatusTeapot)
	_, _ = w.Write([]byte("hi"))
}

func TestNetHTTPAdapter(t *testing.T) {
	h := NetHTTPAdapter(HandlerFunc(echoHandler))
	req := httptest.NewRequest(http.MethodPost, "/some/path?q=1", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusTeapot {
		t.Fatalf("expected 418, got %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "text/plain" {
		t.Fatalf("unexpected content type %q", got)
	}
	if got := rec.Header().Get("X-Path"); got != "/some/path" {
		t.Fatalf("expected path without query, got %q", got)
	}
	if got := rec.Header().Get("X-Method"); got != http.MethodPost {
		t.Fatalf("unexpected method %q", got)
	}
	if rec.Body.String() != "hi" {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}
}

func TestNetHTTPAdapter_DefaultsToOK(t *testing.T) {
	h := NetHTTPAdapter(HandlerFunc(func(w ResponseWriter, r *Request) {}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestNetHTTPAdapter_SecondWriteHeaderIgnored(t *testing.T) {
	h := NetHTTPAdapter(HandlerFunc(func(w ResponseWriter, r *Request) {
		w.WriteHeader(http.StatusNotFound)
		w.WriteHeader(http.StatusOK)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestFastHTTPAdapter(t *testing.T) {
	h := FastHTTPAdapter(HandlerFunc(echoHandler))

	var ctx fasthttp.RequestCtx
	var req fasthttp.Request
	req.Header.SetMethod(http.MethodPost)
	req.SetRequestURI("http://localhost/some/path?q=1")
	ctx.Init(&req, nil, nil)

	h(&ctx)

	if ctx.Response.StatusCode() != http.StatusTeapot {
		t.Fatalf("expected 418, got %d", ctx.Response.StatusCode())
	}
	if got := string(ctx.Response.Header.ContentType()); got != "text/plain" {
		t.Fatalf("unexpected content type %q", got)
	}
	if got := string(ctx.Response.Header.Peek("X-Path")); got != "/some/path" {
		t.Fatalf("expected path without query, got %q", got)
	}
	if got := string(ctx.Response.Body()); got != "hi" {
		t.Fatalf("unexpected body %q", got)
	}
}

// deadFlushWriter buffers writes like net/http does and fails on flush.
type deadFlushWriter struct {
	*httptest.ResponseRecorder
}

func (d deadFlushWriter) FlushError() error {
	return &os.SyscallError{Syscall: "write", Err: syscall.EPIPE}
}

func TestNetHTTPAdapter_FlushErrorReachesHandler(t *testing.T) {
	var writeErr error
	h := NetHTTPAdapter(HandlerFunc(func(w ResponseWriter, r *Request) {
		w.WriteHeader(http.StatusOK)
		_, writeErr = w.Write([]byte("ok"))
	}))
	h.ServeHTTP(deadFlushWriter{httptest.NewRecorder()}, httptest.NewRequest(http.MethodGet, "/", nil))
	if !errors.Is(writeErr, syscall.EPIPE) {
		t.Fatalf("expected broken pipe from Write, got %v", writeErr)
	}
}

// plainWriter hides the recorder's Flush so the writer cannot flush at all.
type plainWriter struct {
	rec *httptest.ResponseRecorder
}

func (p plainWriter) Header() http.Header         { return p.rec.Header() }
func (p plainWriter) Write(b []byte) (int, error) { return p.rec.Write(b) }
func (p plainWriter) WriteHeader(code int)        { p.rec.WriteHeader(code) }

func TestNetHTTPAdapter_UnflushableWriter(t *testing.T) {
	var writeErr error
	h := NetHTTPAdapter(HandlerFunc(func(w ResponseWriter, r *Request) {
		_, writeErr = w.Write([]byte("ok"))
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(plainWriter{rec}, httptest.NewRequest(http.MethodGet, "/", nil))
	if writeErr != nil {
		t.Fatalf("unexpected error %v", writeErr)
	}
	if rec.Body.String() != "ok" {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}
}
