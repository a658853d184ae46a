package app

import (
	"context"
	"errors"

	"anyrun-fixtures/pkg/logger"
)

// Shutdown stops accepting connections and waits for in-flight requests
// until ctx expires.
func (a *App) Shutdown(ctx context.Context) error {
	a.state.Store("shutting_down")
	a.stopping.Store(true)
	logger.Info("shutdown: requested", "service", a.resp.Variant().ServiceID)

	var errs []error
	if a.srv != nil {
		logger.Info("shutdown: stopping net/http server")
		if err := a.srv.Shutdown(ctx); err != nil {
			logger.Error("shutdown: http shutdown error", "error", err)
			errs = append(errs, err)
		}
	}
	if a.srvFast != nil {
		logger.Info("shutdown: stopping fasthttp server")
		done := make(chan error, 1)
		go func() { done <- a.srvFast.Shutdown() }()
		select {
		case err := <-done:
			if err != nil {
				logger.Error("shutdown: fasthttp shutdown error", "error", err)
				errs = append(errs, err)
			}
		case <-ctx.Done():
			logger.Error("shutdown: fasthttp shutdown timed out", "error", ctx.Err())
			errs = append(errs, ctx.Err())
		}
		// fasthttp only closes listeners Serve has already registered
		_ = a.ln.Close()
	}
	if a.metricsSrv != nil {
		if err := a.metricsSrv.Shutdown(ctx); err != nil {
			logger.Error("shutdown: metrics shutdown error", "error", err)
			errs = append(errs, err)
		}
	}

	if err := errors.Join(errs...); err != nil {
		return err
	}
	a.state.Store("stopped")
	logger.Info("shutdown: complete")
	return nil
}
