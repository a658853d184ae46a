package responder

import (
	"strconv"

	"anyrun-fixtures/pkg/httpx"
	"anyrun-fixtures/pkg/logger"
)

// ServeHTTPX writes the response for req through any httpx transport.
func (r *Responder) ServeHTTPX(w httpx.ResponseWriter, req *httpx.Request) {
	resp := r.Handle(req.Path, req.Method)
	if err := Write(w, resp); err != nil {
		logger.WriteFailed(err, "service", r.variant.ServiceID, "path", req.Path, "remote", req.RemoteAddr)
	}
}

// Write emits resp on w. A 404 carries no Content-Type and no body. The body
// length is declared up front so transports that flush eagerly keep a
// fixed-length response.
func Write(w httpx.ResponseWriter, resp Response) error {
	if resp.ContentType != "" {
		w.Header().Set("Content-Type", resp.ContentType)
	}
	if len(resp.Body) > 0 {
		w.Header().Set("Content-Length", strconv.Itoa(len(resp.Body)))
	}
	w.WriteHeader(resp.Status)
	if len(resp.Body) == 0 {
		return nil
	}
	_, err := w.Write(resp.Body)
	return err
}
