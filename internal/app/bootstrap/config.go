// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"

	"github.com/dalemusser/hearmeout/internal/app/system/auditlog"
	"github.com/dalemusser/hearmeout/internal/app/system/jwtauth"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for Hear Me Out.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, auth0_domain, etc.
//   - Environment variables: HEARMEOUT_MONGO_URI, HEARMEOUT_AUTH0_DOMAIN, etc.
//   - Command-line flags: --mongo_uri, --auth0_domain, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "hear_me_out", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 5, Desc: "MongoDB min connection pool size (default: 5)"},

	// Auth0
	{Name: "auth0_domain", Default: "", Desc: "Auth0 tenant domain (token issuer is https://<domain>/)"},
	{Name: "auth0_audience", Default: "", Desc: "Auth0 API audience"},
	{Name: "claims_namespace", Default: jwtauth.DefaultNamespace, Desc: "Prefix of the custom email/name/roles claims"},

	// HTTP
	{Name: "client_url", Default: "http://localhost:5173", Desc: "Allowed CORS origin"},

	// Moderation
	{Name: "admin_emails", Default: "", Desc: "Comma-separated emails granted moderator rights"},

	// Rate limits
	{Name: "like_rate_per_minute", Default: 60, Desc: "Like toggles allowed per user per minute (0 disables)"},
	{Name: "offer_rate_per_minute", Default: 10, Desc: "Contribution offers allowed per user per minute (0 disables)"},

	// Audit logging settings
	{Name: "audit_log_moderation", Default: "all", Desc: "Moderation event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_contribution", Default: "all", Desc: "Contribution event logging: 'all' (db+log), 'db', 'log', or 'off'"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig merges .env files, config files,
// HEARMEOUT_* environment variables and flags with precedence
// flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "HEARMEOUT", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		Auth0Domain:     appValues.String("auth0_domain"),
		Auth0Audience:   appValues.String("auth0_audience"),
		ClaimsNamespace: appValues.String("claims_namespace"),

		ClientURL:   appValues.String("client_url"),
		AdminEmails: appValues.String("admin_emails"),

		LikeRatePerMinute:  appValues.Int("like_rate_per_minute"),
		OfferRatePerMinute: appValues.Int("offer_rate_per_minute"),

		AuditLogModeration:   appValues.String("audit_log_moderation"),
		AuditLogContribution: appValues.String("audit_log_contribution"),
	}

	return coreCfg, appCfg, nil
}

// authEnabled reports whether Auth0 verification is configured.
func (c AppConfig) authEnabled() bool {
	return c.Auth0Domain != "" && c.Auth0Audience != ""
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	if appCfg.MongoDatabase == "" {
		return fmt.Errorf("mongo_database is required")
	}
	if appCfg.MongoMinPoolSize > appCfg.MongoMaxPoolSize {
		return fmt.Errorf("mongo_min_pool_size (%d) exceeds mongo_max_pool_size (%d)",
			appCfg.MongoMinPoolSize, appCfg.MongoMaxPoolSize)
	}

	if (appCfg.Auth0Domain == "") != (appCfg.Auth0Audience == "") {
		return fmt.Errorf("auth0_domain and auth0_audience must be set together")
	}
	if coreCfg.Env == "prod" && !appCfg.authEnabled() {
		return fmt.Errorf("auth0_domain and auth0_audience are required in prod")
	}

	if appCfg.LikeRatePerMinute < 0 || appCfg.OfferRatePerMinute < 0 {
		return fmt.Errorf("rate limits must not be negative")
	}

	for key, v := range map[string]string{
		"audit_log_moderation":   appCfg.AuditLogModeration,
		"audit_log_contribution": appCfg.AuditLogContribution,
	} {
		if !auditlog.ValidDest(v) {
			return fmt.Errorf("%s must be one of all, db, log, off (got %q)", key, v)
		}
	}

	return nil
}
