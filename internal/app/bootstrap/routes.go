// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"time"

	adminfeature "github.com/dalemusser/hearmeout/internal/app/features/admin"
	contributionsfeature "github.com/dalemusser/hearmeout/internal/app/features/contributions"
	healthfeature "github.com/dalemusser/hearmeout/internal/app/features/health"
	ideasfeature "github.com/dalemusser/hearmeout/internal/app/features/ideas"
	usersfeature "github.com/dalemusser/hearmeout/internal/app/features/users"
	"github.com/dalemusser/hearmeout/internal/app/store/audit"
	"github.com/dalemusser/hearmeout/internal/app/system/apiresp"
	"github.com/dalemusser/hearmeout/internal/app/system/auditlog"
	"github.com/dalemusser/hearmeout/internal/app/system/authz"
	"github.com/dalemusser/hearmeout/internal/app/system/jwtauth"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler for the API.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// Startup have completed. Every feature is mounted under /api.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	verifier, err := newVerifier(appCfg)
	if err != nil {
		logger.Error("jwt verifier init failed", zap.Error(err))
		return nil, err
	}

	db := deps.MongoDatabase
	errw := apiresp.NewErrorWriter(logger, coreCfg.Env != "prod")
	auditLog := auditlog.New(audit.New(db), logger, auditlog.Config{
		Moderation:   appCfg.AuditLogModeration,
		Contribution: appCfg.AuditLogContribution,
	})
	allow := authz.ParseAllowList(appCfg.AdminEmails)
	if allow.Len() > 0 {
		logger.Info("moderator allow-list loaded", zap.Int("emails", allow.Len()))
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(errw.Recoverer)
	r.Use(securityHeaders)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{appCfg.ClientURL},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.NotFound(errw.NotFound)
	r.MethodNotAllowed(errw.MethodNotAllowed)

	r.Route("/api", func(api chi.Router) {
		healthHandler := healthfeature.NewHandler(deps.MongoClient, appCfg.MongoDatabase, coreCfg.Env, logger)
		api.Mount("/health", healthfeature.Routes(healthHandler))

		usersHandler := usersfeature.NewHandler(db, errw, logger)
		api.Mount("/users", usersfeature.Routes(usersHandler, verifier))

		ideasHandler := ideasfeature.NewHandler(db, errw, auditLog, limiters.likes, logger)
		api.Mount("/ideas", ideasfeature.Routes(ideasHandler, verifier))

		contribHandler := contributionsfeature.NewHandler(db, errw, auditLog, limiters.offers, logger)
		api.Mount("/contributions", contributionsfeature.Routes(contribHandler, verifier))

		adminHandler := adminfeature.NewHandler(db, errw, auditLog, allow, logger)
		api.Mount("/admin", adminfeature.Routes(adminHandler, verifier))
	})

	return r, nil
}

// newVerifier returns nil when Auth0 is not configured. The jwtauth
// middleware treats a nil Verifier as "reject protected routes".
func newVerifier(appCfg AppConfig) (*jwtauth.Verifier, error) {
	if !appCfg.authEnabled() {
		return nil, nil
	}
	return jwtauth.NewVerifier(jwtauth.Config{
		Domain:    appCfg.Auth0Domain,
		Audience:  appCfg.Auth0Audience,
		Namespace: appCfg.ClaimsNamespace,
	})
}

// securityHeaders sets the response headers every API reply carries.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "SAMEORIGIN")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("Cross-Origin-Resource-Policy", "same-origin")
		next.ServeHTTP(w, r)
	})
}

// requestLogger writes one line per request.
func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Info("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())))
		})
	}
}
