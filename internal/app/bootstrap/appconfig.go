// internal/app/bootstrap/appconfig.go
package bootstrap

// AppConfig holds service-specific configuration for Hear Me Out.
//
// WAFFLE's CoreConfig carries the framework settings (ports, TLS, log level,
// env). Everything below is loaded in LoadConfig from a config file,
// HEARMEOUT_* environment variables, or flags.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Auth0 token verification. Both blank disables authentication, which
	// is only accepted outside prod.
	Auth0Domain     string // tenant host, e.g. hearmeout.us.auth0.com
	Auth0Audience   string // API identifier
	ClaimsNamespace string // prefix of the custom email/name/roles claims

	// ClientURL is the single allowed CORS origin.
	ClientURL string

	// AdminEmails is a comma-separated moderator allow-list.
	AdminEmails string

	// Per-subject write limits.
	LikeRatePerMinute  int
	OfferRatePerMinute int

	// Audit logging: all | db | log | off
	AuditLogModeration   string
	AuditLogContribution string
}
