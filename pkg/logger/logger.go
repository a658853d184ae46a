package logger

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

var Log *slog.Logger

// write failures are bursty when a client drops mid-response; keep at most a
// handful per second in the log.
var writeFailLimiter = rate.NewLimiter(rate.Every(time.Second), 5)

// ParseLevel maps a level name to a slog level. Unknown names map to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Init initializes the global slog logger. sink is either empty (stdout) or
// "file:<path>"; if the file cannot be opened logging falls back to stdout.
func Init(level, sink string) {
	var out io.Writer = os.Stdout
	if strings.HasPrefix(sink, "file:") {
		path := strings.TrimPrefix(sink, "file:")
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o640)
		if err == nil {
			out = f
		} else {
			fmt.Fprintf(os.Stderr, "failed to open log file %s: %v\n", path, err)
		}
	}
	Log = slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: ParseLevel(level)}))
}

// With returns a child of the global logger, or a discarding logger when
// Init has not been called.
func With(args ...any) *slog.Logger {
	if Log == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return Log.With(args...)
}

// StdLogger bridges the global logger into a *log.Logger for APIs such as
// http.Server.ErrorLog.
func StdLogger(level slog.Level) *log.Logger {
	return slog.NewLogLogger(With().Handler(), level)
}

// Printf satisfies fasthttp.Logger.
type Printf struct {
	Level slog.Level
}

func (p Printf) Printf(format string, args ...interface{}) {
	if Log == nil {
		return
	}
	Log.Log(context.Background(), p.Level, "fasthttp", "msg", fmt.Sprintf(format, args...))
}

// WriteFailed records a response that could not be delivered to the client.
// The connection is dropped by the transport; nothing is retried.
func WriteFailed(err error, args ...any) {
	if Log == nil || !writeFailLimiter.Allow() {
		return
	}
	Log.Warn("response_write_failed", append([]any{"error", err}, args...)...)
}

// Sync is a no-op for slog handlers used here.
func Sync() {}

func Debug(msg string, args ...any) {
	if Log == nil {
		return
	}
	Log.Debug(msg, args...)
}

func Info(msg string, args ...any) {
	if Log == nil {
		return
	}
	Log.Info(msg, args...)
}

func Warn(msg string, args ...any) {
	if Log == nil {
		return
	}
	Log.Warn(msg, args...)
}

func Error(msg string, args ...any) {
	if Log == nil {
		return
	}
	Log.Error(msg, args...)
}
