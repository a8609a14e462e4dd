// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	authgooglefeature "github.com/studybuddyhq/studybuddy/internal/app/features/authgoogle"
	healthfeature "github.com/studybuddyhq/studybuddy/internal/app/features/health"
	loginfeature "github.com/studybuddyhq/studybuddy/internal/app/features/login"
	logoutfeature "github.com/studybuddyhq/studybuddy/internal/app/features/logout"
	savedfeature "github.com/studybuddyhq/studybuddy/internal/app/features/saved"
	studyclubfeature "github.com/studybuddyhq/studybuddy/internal/app/features/studyclub"
	"github.com/studybuddyhq/studybuddy/internal/app/store/oauthstate"
	clubstore "github.com/studybuddyhq/studybuddy/internal/app/store/studyclubs"
	userstore "github.com/studybuddyhq/studybuddy/internal/app/store/users"
	"github.com/studybuddyhq/studybuddy/internal/app/system/auth"
	"github.com/studybuddyhq/studybuddy/internal/app/system/mailer"
	"github.com/studybuddyhq/studybuddy/internal/app/system/ratelimit"
)

// BuildHandler constructs the root HTTP handler (router) for this
// WAFFLE app. WAFFLE calls this after configuration, DB connections,
// schema setup, and Startup have completed.
//
// StudyBuddy is a JSON API: everything lives under /api except the
// health probe.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	users := userstore.New(deps.MongoDatabase)
	clubs := clubstore.NewWithLifetime(deps.MongoDatabase, appCfg.ClubLifetime)
	states := oauthstate.New(deps.MongoDatabase)

	mail := mailer.New(
		appCfg.MailSMTPHost, appCfg.MailSMTPPort,
		appCfg.MailSMTPUser, appCfg.MailSMTPPass,
		appCfg.MailFrom, appCfg.MailFromName,
		logger,
	)

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if logged in.
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	r.Route("/api", func(api chi.Router) {
		// Authentication
		loginHandler := loginfeature.NewHandler(users, sessionMgr, ratelimit.NewLoginLimiter(), logger)
		api.Mount("/auth", loginfeature.Routes(loginHandler))

		logoutHandler := logoutfeature.NewHandler(sessionMgr, logger)
		api.Mount("/auth/logout", logoutfeature.Routes(logoutHandler))

		googleHandler := authgooglefeature.NewHandler(
			users, states, sessionMgr,
			appCfg.GoogleClientID, appCfg.GoogleClientSecret, appCfg.BaseURL,
			logger,
		)
		api.Mount("/auth/google", authgooglefeature.Routes(googleHandler))

		// Study clubs
		clubHandler := studyclubfeature.NewHandler(clubs, users, services.broker, services.tracker, mail, logger)
		clubHandler.SiteName = appCfg.SiteName
		clubHandler.InactiveThreshold = appCfg.InactiveThreshold
		clubHandler.MediaSecret = appCfg.MediaTokenSecret
		clubHandler.MediaTokenTTL = appCfg.MediaTokenTTL
		api.Mount("/study-club", studyclubfeature.Routes(clubHandler, sessionMgr))

		// Saved snippets
		savedHandler := savedfeature.NewHandler(users, logger)
		api.Mount("/saved", savedfeature.Routes(savedHandler, sessionMgr))
	})

	return r, nil
}
