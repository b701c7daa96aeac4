// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/hearmeout/internal/app/system/ratelimit"
	"github.com/dalemusser/hearmeout/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// limiters holds the per-subject write limiters shared by the feature
// routers. Startup creates them; Shutdown stops their janitors.
var limiters struct {
	likes  *ratelimit.Limiter
	offers *ratelimit.Limiter
}

// newLimiter returns nil when perMinute is 0, which the features treat as
// "no limit".
func newLimiter(perMinute int) *ratelimit.Limiter {
	if perMinute <= 0 {
		return nil
	}
	return ratelimit.PerMinute(perMinute)
}

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if n := timeouts.ConfigureFromEnv(); n > 0 {
		t := timeouts.Current()
		logger.Info("timeouts overridden from environment",
			zap.Duration("ping", t.Ping),
			zap.Duration("short", t.Short),
			zap.Duration("medium", t.Medium),
			zap.Duration("long", t.Long))
	}

	limiters.likes = newLimiter(appCfg.LikeRatePerMinute)
	limiters.offers = newLimiter(appCfg.OfferRatePerMinute)

	if !appCfg.authEnabled() {
		logger.Warn("auth0 not configured; protected routes will answer 401")
	}
	return nil
}
