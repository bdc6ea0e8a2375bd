// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig handles framework-level settings (ports, TLS,
// logging, CORS, body limits); AppConfig is everything specific to the
// console: the console's own MongoDB, the session and CSRF secrets, the
// operations API the business data lives behind, and the export archive.
type AppConfig struct {
	// MongoDB connection configuration (console users, sessions state,
	// audit log, saved filters — business data stays upstream)
	MongoURI         string
	MongoDatabase    string
	MongoMaxPoolSize uint64 // Maximum connections in pool (default: 100)
	MongoMinPoolSize uint64 // Minimum connections to keep warm (default: 10)

	// Session management configuration
	SessionKey    string        // Secret key for signing session cookies (must be strong in production)
	SessionName   string        // Cookie name for sessions (default: moveboard-session)
	SessionDomain string        // Cookie domain (blank means current host)
	SessionMaxAge time.Duration // Maximum session cookie lifetime (default: 24h)

	// Rate limiting configuration
	RateLimitEnabled       bool          // Enable rate limiting for login attempts (default: true)
	RateLimitLoginAttempts int           // Max failed login attempts before lockout (default: 5)
	RateLimitLoginWindow   time.Duration // Time window for counting failed attempts (default: 15m)
	RateLimitLoginLockout  time.Duration // Lockout duration after exceeding limit (default: 15m)

	// CSRF protection configuration
	CSRFKey string // Secret key for CSRF token signing (32 bytes, must be strong in production)

	// Operations API (the upstream system of record for employees,
	// freelancers, teams, vehicles, requests, hours and payments)
	UpstreamBaseURL string        // e.g. "http://localhost:3333"
	UpstreamAPIKey  string        // bearer token for the operations API
	UpstreamTimeout time.Duration // per-request timeout (default: 10s)

	// Export archive storage configuration
	StorageType      string // Storage backend: "local" or "s3"
	StorageLocalPath string // Local storage path (e.g., "./exports")
	StorageLocalURL  string // URL prefix for serving local files

	// S3/CloudFront configuration (only used if StorageType is "s3")
	StorageS3Region    string // AWS region
	StorageS3Bucket    string // S3 bucket name
	StorageS3Prefix    string // Key prefix (e.g., "exports/")
	StorageCFURL       string // CloudFront distribution URL
	StorageCFKeyPairID string // CloudFront key pair ID
	StorageCFKeyPath   string // Path to CloudFront private key file

	// Audit logging configuration
	// Values: "all" (MongoDB + zap), "db" (MongoDB only), "log" (zap only), "off" (disabled)
	AuditLogAuth  string // Authentication events (login, logout, lockouts)
	AuditLogAdmin string // Admin actions (user lifecycle)
	AuditLogData  string // Data changes (payment edits and deletes)

	// Admin seeding configuration
	SeedAdminLoginID  string // Login e-mail of the admin user to create on startup (if set)
	SeedAdminName     string // Name of the admin user to create on startup
	SeedAdminPassword string // Initial password; required when SeedAdminLoginID is set
}
