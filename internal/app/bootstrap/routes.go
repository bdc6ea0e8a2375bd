// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"time"

	awardsfeature "github.com/movehq/moveboard/internal/app/features/awards"
	errorsfeature "github.com/movehq/moveboard/internal/app/features/errors"
	healthfeature "github.com/movehq/moveboard/internal/app/features/health"
	homefeature "github.com/movehq/moveboard/internal/app/features/home"
	hoursfeature "github.com/movehq/moveboard/internal/app/features/hours"
	loginfeature "github.com/movehq/moveboard/internal/app/features/login"
	logoutfeature "github.com/movehq/moveboard/internal/app/features/logout"
	paymentsfeature "github.com/movehq/moveboard/internal/app/features/payments"
	requestsfeature "github.com/movehq/moveboard/internal/app/features/requests"
	rosterfeature "github.com/movehq/moveboard/internal/app/features/roster"
	appresources "github.com/movehq/moveboard/internal/app/resources"
	"github.com/movehq/moveboard/internal/app/store/audit"
	"github.com/movehq/moveboard/internal/app/store/ratelimit"
	savedfilterstore "github.com/movehq/moveboard/internal/app/store/savedfilters"
	userstore "github.com/movehq/moveboard/internal/app/store/users"
	"github.com/movehq/moveboard/internal/app/system/auditlog"
	"github.com/movehq/moveboard/internal/app/system/auth"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/middleware"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. Every route here is a browser route:
// session auth + CSRF. The operations API is an outbound dependency
// (deps.Upstream), not something this router exposes.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Create the session manager using app config.
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Set up the UserFetcher so LoadSessionUser fetches fresh user data on
	// each request. Role changes and disabled accounts take effect
	// immediately instead of riding out the cookie.
	sessionMgr.SetUserFetcher(userstore.NewFetcher(deps.MongoDatabase, logger))

	// Initialize and boot the template engine once at startup.
	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	// Create error logger for handlers.
	errLog := errorsfeature.NewErrorLogger(logger)

	// Create audit store and logger for security and data-change tracking.
	auditStore := audit.New(deps.MongoDatabase)
	auditLogger := auditlog.New(auditStore, logger, auditlog.Config{
		Auth:  appCfg.AuditLogAuth,
		Admin: appCfg.AuditLogAdmin,
		Data:  appCfg.AuditLogData,
	})

	// Rate limiting for login attempts (nil if disabled).
	var rateLimitStore *ratelimit.Store
	if appCfg.RateLimitEnabled {
		rateLimitStore = ratelimit.New(
			deps.MongoDatabase,
			appCfg.RateLimitLoginAttempts,
			appCfg.RateLimitLoginWindow,
			appCfg.RateLimitLoginLockout,
		)
	}

	// Per-user saved filters for the award report.
	filterStore := savedfilterstore.New(deps.MongoDatabase)

	r := chi.NewRouter()

	// ─────────────────────────────────────────────────────────────────────────
	// Global Middleware (applies to ALL routes)
	// ─────────────────────────────────────────────────────────────────────────

	// Request timeout middleware: prevents requests from hanging indefinitely.
	r.Use(chimw.Timeout(30 * time.Second))

	// CORS middleware: must be early in the chain to handle preflight requests.
	r.Use(middleware.CORSFromConfig(coreCfg))

	// Security headers middleware: adds X-Frame-Options, X-Content-Type-Options, etc.
	r.Use(middleware.SecurityHeadersFromConfig(coreCfg))

	// Session middleware: loads SessionUser into context if logged in.
	r.Use(sessionMgr.LoadSessionUser)

	// CSRF protection. The payment inline editor submits its PUT with the
	// X-CSRF-Token header, which gorilla/csrf accepts, so no route needs an
	// exemption. Cookie name is namespaced to avoid collisions with other
	// services on the same domain.
	csrfOpts := []csrf.Option{
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.CookieName("moveboard_csrf"),
		csrf.FieldName("csrf_token"),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			logger.Warn("CSRF validation failed",
				zap.String("path", req.URL.Path),
				zap.String("method", req.Method),
				zap.String("reason", csrf.FailureReason(req).Error()),
			)
			http.Error(w, "CSRF token invalid or missing", http.StatusForbidden)
		})),
	}
	// In dev mode, trust localhost origins for CSRF validation.
	if !secure {
		csrfOpts = append(csrfOpts, csrf.TrustedOrigins([]string{
			"localhost:8080",
			"localhost:3000",
			"127.0.0.1:8080",
			"127.0.0.1:3000",
		}))
	}
	if appCfg.SessionDomain != "" {
		csrfOpts = append(csrfOpts, csrf.Domain(appCfg.SessionDomain))
	}
	r.Use(csrf.Protect([]byte(appCfg.CSRFKey), csrfOpts...))

	// ─────────────────────────────────────────────────────────────────────────
	// Routes
	// ─────────────────────────────────────────────────────────────────────────

	// Health check endpoints for load balancers and orchestrators.
	healthHandler := healthfeature.NewHandler(deps.MongoClient, deps.Upstream, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))
	healthfeature.MountRootEndpoints(r, healthHandler)

	// /assets/* serves embedded assets (bundled into the binary).
	r.Handle("/assets/*", appresources.AssetsHandler("/assets"))

	// Archived report exports (local storage only). With S3 the archive URL
	// points at the bucket/CloudFront instead.
	if appCfg.StorageType == "local" || appCfg.StorageType == "" {
		r.Handle(appCfg.StorageLocalURL+"/*", fileserver.Handler(appCfg.StorageLocalURL, appCfg.StorageLocalPath))
	}

	// Authentication.
	loginHandler := loginfeature.NewHandler(
		deps.MongoDatabase,
		sessionMgr,
		errLog,
		auditLogger,
		rateLimitStore,
		logger,
	)
	r.Mount("/login", loginfeature.Routes(loginHandler))

	logoutHandler := logoutfeature.NewHandler(sessionMgr, auditLogger, logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler, sessionMgr))

	// Landing page with the register / manage / report hubs.
	homeHandler := homefeature.NewHandler()
	r.With(sessionMgr.RequireSignedIn).Mount("/", homefeature.Routes(homeHandler))

	// Roster registration and manage screens: employees, freelancers,
	// teams, and vehicles, each under its own slug.
	rosterHandler := rosterfeature.NewHandler(deps.Upstream, auditLogger, errLog, logger)
	rosterfeature.Mount(r, rosterHandler, sessionMgr)

	// Delivery requests.
	requestsHandler := requestsfeature.NewHandler(deps.Upstream, errLog, logger)
	r.Mount("/requests", requestsHandler.Routes(sessionMgr))

	// Award report with CSV/PDF export and saved filters.
	awardsHandler := awardsfeature.NewHandler(deps.Upstream, filterStore, errLog, logger)
	r.Mount("/awards", awardsHandler.Routes(sessionMgr))

	// Freelancer payment report with inline editing and archived PDF export.
	paymentsHandler := paymentsfeature.NewHandler(deps.Upstream, deps.FileStorage, auditLogger, errLog, logger)
	r.Mount("/payments", paymentsHandler.Routes(sessionMgr))

	// Hour entry forms and the per-freelancer summary report.
	hoursHandler := hoursfeature.NewHandler(deps.Upstream, errLog, logger)
	r.Mount("/hours", hoursHandler.Routes(sessionMgr))

	// Error pages.
	errorsHandler := errorsfeature.NewHandler()
	r.Get("/forbidden", errorsHandler.Forbidden)
	r.Get("/unauthorized", errorsHandler.Unauthorized)

	// 404 catch-all for unmatched routes.
	r.NotFound(errorsHandler.NotFound)

	return r, nil
}
