// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like HTTP/HTTPS
// ports, TLS, logging level, CORS, and request body limits. AppConfig is
// everything specific to StudyBuddy.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Session management configuration
	SessionKey    string // Secret key for signing session cookies (must be strong in production)
	SessionName   string // Cookie name for sessions (default: studybuddy-session)
	SessionDomain string // Cookie domain (blank means current host)

	// Redis configuration. When RedisAddr is set the notification
	// broker and activity tracker run on Redis so multiple instances
	// share one event bus; when blank both fall back to in-process
	// implementations.
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Study club lifecycle tuning
	ClubLifetime      time.Duration // how long a club lives after creation
	InactiveThreshold time.Duration // admin silence before a club counts as abandoned
	ExpiryInterval    time.Duration // how often the expiry worker scans

	// Email/SMTP configuration (join-request and kick notifications)
	MailSMTPHost string // SMTP server host (blank disables outgoing mail)
	MailSMTPPort int    // SMTP server port
	MailSMTPUser string // SMTP username
	MailSMTPPass string // SMTP password
	MailFrom     string // From email address
	MailFromName string // From display name

	// Base URL for OAuth callbacks
	BaseURL string // e.g., "https://studybuddy.app" or "http://localhost:3000"

	// Google OAuth configuration
	GoogleClientID     string
	GoogleClientSecret string

	// Media token signing (study room audio/video)
	MediaTokenSecret string
	MediaTokenTTL    time.Duration

	// Display name used in outgoing email
	SiteName string
}
