package httpx

import (
	"errors"
	"net/http"
)

// NetHTTPAdapter adapts an httpx.Handler into a standard net/http handler.
func NetHTTPAdapter(h Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := &Request{
			Ctx:        r.Context(),
			Method:     r.Method,
			Path:       r.URL.Path,
			Header:     r.Header,
			RemoteAddr: r.RemoteAddr,
			Raw:        r,
		}

		rw := &netHTTPResponseWriter{w: w, header: make(http.Header)}
		// copy headers already set by outer middleware
		for k, v := range w.Header() {
			rw.header[k] = append([]string(nil), v...)
		}

		h.ServeHTTPX(rw, req)

		// a handler that wrote nothing still owes the client a status line
		if rw.status == 0 {
			rw.WriteHeader(http.StatusOK)
		}
	})
}

type netHTTPResponseWriter struct {
	w      http.ResponseWriter
	header http.Header
	status int
}

func (r *netHTTPResponseWriter) Header() http.Header { return r.header }

func (r *netHTTPResponseWriter) WriteHeader(status int) {
	if r.status != 0 {
		return
	}
	r.status = status
	// copy headers to underlying writer and call WriteHeader
	for k, v := range r.header {
		r.w.Header()[k] = append([]string(nil), v...)
	}
	r.w.WriteHeader(status)
}

func (r *netHTTPResponseWriter) Write(b []byte) (int, error) {
	// ensure headers flushed
	if r.status == 0 {
		r.WriteHeader(http.StatusOK)
	}
	n, err := r.w.Write(b)
	if err != nil {
		return n, err
	}
	// net/http buffers small bodies and drops the final flush error; flush
	// here so a dead connection surfaces to the handler.
	if err := http.NewResponseController(r.w).Flush(); err != nil && !errors.Is(err, http.ErrNotSupported) {
		return n, err
	}
	return n, nil
}
