package shutdown

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"anyrun-fixtures/pkg/logger"
)

// ExitCode is the status used for fatal startup errors such as a bind failure.
const ExitCode = 2

// exit is swapped in tests.
var exit = os.Exit

// Abort logs a fatal startup error, mirrors it on stderr for supervisors that
// only capture the exit status and stderr, and exits non-zero.
func Abort(contextMsg string, err error) {
	logger.Error("startup_fatal", "msg", contextMsg, "error", err)
	fmt.Fprintf(os.Stderr, "%s: %v\n", contextMsg, err)
	logger.Sync()
	exit(ExitCode)
}

// SetupSignalHandler returns a context that is cancelled on SIGINT or
// SIGTERM. Use the cancel function to stop watching and release resources.
func SetupSignalHandler(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		defer signal.Stop(sigc)
		select {
		case s := <-sigc:
			logger.Info("signal_received", "signal", s.String(), "msg", "shutdown requested")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}
