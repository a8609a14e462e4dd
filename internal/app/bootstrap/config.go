// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for StudyBuddy.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, session_name, etc.
//   - Environment variables: STUDYBUDDY_MONGO_URI, STUDYBUDDY_SESSION_NAME, etc.
//   - Command-line flags: --mongo_uri, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "studybuddy", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size"},

	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "studybuddy-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},

	// Redis (optional); blank addr keeps everything in-process
	{Name: "redis_addr", Default: "", Desc: "Redis address for shared notifications and activity (blank = in-process)"},
	{Name: "redis_password", Default: "", Desc: "Redis password"},
	{Name: "redis_db", Default: 0, Desc: "Redis database number"},

	// Club lifecycle
	{Name: "club_lifetime", Default: "40m", Desc: "Study club lifetime after creation"},
	{Name: "inactive_threshold", Default: "3m", Desc: "Admin silence before a club counts as abandoned"},
	{Name: "expiry_interval", Default: "30s", Desc: "How often the expiry worker scans for dead clubs"},

	// Email/SMTP configuration
	{Name: "mail_smtp_host", Default: "", Desc: "SMTP server host (blank disables outgoing mail)"},
	{Name: "mail_smtp_port", Default: 587, Desc: "SMTP server port"},
	{Name: "mail_smtp_user", Default: "", Desc: "SMTP username"},
	{Name: "mail_smtp_pass", Default: "", Desc: "SMTP password"},
	{Name: "mail_from", Default: "noreply@studybuddy.app", Desc: "From email address"},
	{Name: "mail_from_name", Default: "StudyBuddy", Desc: "From display name"},

	{Name: "base_url", Default: "http://localhost:3000", Desc: "Base URL for OAuth callbacks"},

	// Google OAuth configuration
	{Name: "google_client_id", Default: "", Desc: "Google OAuth2 client ID"},
	{Name: "google_client_secret", Default: "", Desc: "Google OAuth2 client secret"},

	// Media tokens
	{Name: "media_token_secret", Default: "", Desc: "HMAC secret for media room tokens (blank disables the endpoint)"},
	{Name: "media_token_ttl", Default: "15m", Desc: "Media room token lifetime"},

	{Name: "site_name", Default: "StudyBuddy", Desc: "Display name used in outgoing email"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles .env files, config
// yaml/json/toml files, environment variables (WAFFLE_* for core,
// STUDYBUDDY_* for app), and command-line flags, merged with
// precedence flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "STUDYBUDDY", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),

		RedisAddr:     appValues.String("redis_addr"),
		RedisPassword: appValues.String("redis_password"),
		RedisDB:       appValues.Int("redis_db"),

		ClubLifetime:      appValues.Duration("club_lifetime", 40*time.Minute),
		InactiveThreshold: appValues.Duration("inactive_threshold", 3*time.Minute),
		ExpiryInterval:    appValues.Duration("expiry_interval", 30*time.Second),

		MailSMTPHost: appValues.String("mail_smtp_host"),
		MailSMTPPort: appValues.Int("mail_smtp_port"),
		MailSMTPUser: appValues.String("mail_smtp_user"),
		MailSMTPPass: appValues.String("mail_smtp_pass"),
		MailFrom:     appValues.String("mail_from"),
		MailFromName: appValues.String("mail_from_name"),

		BaseURL: appValues.String("base_url"),

		GoogleClientID:     appValues.String("google_client_id"),
		GoogleClientSecret: appValues.String("google_client_secret"),

		MediaTokenSecret: appValues.String("media_token_secret"),
		MediaTokenTTL:    appValues.Duration("media_token_ttl", 15*time.Minute),

		SiteName: appValues.String("site_name"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// StudyBuddy validates the MongoDB URI format and the lifecycle
// durations to catch configuration errors before connecting anywhere.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if appCfg.ClubLifetime <= 0 {
		return fmt.Errorf("club_lifetime must be positive, got %s", appCfg.ClubLifetime)
	}
	if appCfg.InactiveThreshold <= 0 {
		return fmt.Errorf("inactive_threshold must be positive, got %s", appCfg.InactiveThreshold)
	}
	if appCfg.ExpiryInterval <= 0 {
		return fmt.Errorf("expiry_interval must be positive, got %s", appCfg.ExpiryInterval)
	}

	return nil
}
