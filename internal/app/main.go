package app

import (
	"context"
	"time"

	"github.com/joho/godotenv"

	"anyrun-fixtures/pkg/config"
	"anyrun-fixtures/pkg/logger"
	"anyrun-fixtures/pkg/responder"
	"anyrun-fixtures/pkg/shutdown"
)

// shutdownTimeout bounds teardown so a stuck connection cannot hang exit.
const shutdownTimeout = 10 * time.Second

// Main is the shared process entry point of the fixture binaries. It returns
// only after a clean shutdown; fatal errors exit through shutdown.Abort.
func Main(v responder.Variant, t Transport, build BuildInfo) {
	// load .env file if present; real environment variables win
	_ = godotenv.Load(".env")

	cfg, envRes := config.ParseConfigEnvs()

	logger.Init(cfg.Logging.Level, cfg.Logging.Sink)
	defer logger.Sync()

	if envRes.RejectedPort != "" {
		logger.Warn("port_env_invalid", "value", envRes.RejectedPort, "fallback", config.DefaultPort)
	}
	logger.Info("effective_config_loaded", "addr", cfg.Addr(), "port_from_env", envRes.PortFromEnv, "service", v.ServiceID)

	a, err := New(cfg, v, t, build)
	if err != nil {
		shutdown.Abort("failed to initialize app", err)
		return
	}
	if err := a.Start(); err != nil {
		shutdown.Abort("failed to bind listener", err)
		return
	}

	ctx, cancel := shutdown.SetupSignalHandler(context.Background())
	defer cancel()

	if err := a.Run(ctx); err != nil {
		shutdown.Abort("server failed", err)
		return
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := a.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown_incomplete", "error", err)
	}
}
