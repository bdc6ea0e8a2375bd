// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"

	"github.com/movehq/moveboard/internal/app/resources"
)

// Startup runs once after DB connections and schema setup are complete,
// but before the HTTP handler is built and requests are served.
//
// Returning a non-nil error aborts startup; a degraded upstream is not an
// error here, since the console must come up even when the operations API
// is briefly down. The health endpoints report its state.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	resources.LoadSharedTemplates()

	if err := deps.Upstream.Ping(ctx); err != nil {
		logger.Warn("operations API unreachable at startup; continuing",
			zap.String("base_url", appCfg.UpstreamBaseURL),
			zap.Error(err))
	} else {
		logger.Info("operations API reachable")
	}

	return nil
}
