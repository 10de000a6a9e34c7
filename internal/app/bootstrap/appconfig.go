// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for ChapterHub.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like HTTP/HTTPS
// ports, TLS, logging level, and request timeouts. AppConfig is where
// everything specific to this application lives: the MongoDB connection,
// session cookies, file storage, Google OAuth, and login-history policy.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connections in the driver pool
	MongoMinPoolSize uint64 // Min connections kept warm in the pool

	// Session management configuration
	SessionKey    string // Secret key for signing session cookies (must be strong in production)
	SessionName   string // Cookie name for sessions (default: chapterhub-session)
	SessionDomain string // Cookie domain (blank means current host)

	// File storage configuration (chapter logos and profile photos)
	StorageType      string // Storage backend: "local" or "s3"
	StorageLocalPath string // Local storage path (e.g., "./uploads")
	StorageLocalURL  string // URL prefix for serving local files (e.g., "/files")

	// S3/CloudFront configuration (only used if StorageType is "s3")
	StorageS3Region    string // AWS region
	StorageS3Bucket    string // S3 bucket name
	StorageS3Prefix    string // Key prefix (e.g., "chapterhub/")
	StorageCFURL       string // CloudFront distribution URL
	StorageCFKeyPairID string // CloudFront key pair ID
	StorageCFKeyPath   string // Path to CloudFront private key file

	// Google OAuth configuration. Both must be set for the Google
	// sign-in button to appear; password sign-in works regardless.
	GoogleClientID     string
	GoogleClientSecret string

	// Base URL for OAuth redirect URIs
	BaseURL string // e.g., "https://chapterhub.example.com" or "http://localhost:3000"

	// Mock auth (dev only): every request carries a fixed identity so the
	// UI can be exercised without Google credentials or a password.
	MockAuth      bool
	MockAuthEmail string // member email the mock identity resolves to

	// Login rate limiting
	LoginIPLimit     int           // failed attempts per IP before lockout
	LoginIPWindow    time.Duration // window for the per-IP counter
	LoginEmailLimit  int           // failed attempts per email before lockout
	LoginEmailWindow time.Duration // window for the per-email counter

	// Login history policy
	LoginHistoryRetention time.Duration // how long sign-in records are kept
	LoginPruneInterval    time.Duration // how often the prune worker runs
}
