package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/logistica/estoque-auth/internal/auth/service"
	"github.com/logistica/estoque-auth/internal/auth/store"
	"github.com/logistica/estoque-auth/pkg/httpx"
	"github.com/logistica/estoque-auth/pkg/slogx"

	_ "github.com/logistica/estoque-auth/api/auth" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store             store.Store
	AuthService       *service.AuthService
	GuardService      *service.GuardService
	CredentialService *service.CredentialService
	PermissionService *service.PermissionService
	BootstrapService  *service.BootstrapService
}

func NewRouter(buildVersion string, st store.Store, logger *slog.Logger) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerAdmin()
	r.registerSystem()
	r.registerBootstrap()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Estoque Authentication Service API
//	@version		0.1.0
//	@description	Identity, session, and authorization core for the internal inventory tooling.
//	@description
//	@description				Sessions are opaque server-tracked tokens: the server stores only a fingerprint,
//	@description				and revocation takes effect immediately. Administrators bypass permission grants
//	@description				but still need a valid session.
//
//	@contact.name				Logistica Platform Team
//	@contact.url				https://github.com/logistica/estoque-auth
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Opaque session token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	login := &LoginHandler{AuthService: r.AuthService}
	session := &SessionHandler{AuthService: r.AuthService, GuardService: r.GuardService}

	// POST /login - strict rate limit by IP to slow brute force
	r.Mux.Handle("POST /v1/auth/login",
		httpx.Chain(http.HandlerFunc(login.HandlePassword),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /token-login - strict rate limit by IP (credential guessing)
	r.Mux.Handle("POST /v1/auth/token-login",
		httpx.Chain(http.HandlerFunc(login.HandleToken),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /logout - moderate rate limit
	r.Mux.Handle("POST /v1/auth/logout",
		httpx.Chain(http.HandlerFunc(session.HandleLogout),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	// GET /check-session - lenient, UIs poll this
	r.Mux.Handle("GET /v1/auth/check-session",
		httpx.Chain(http.HandlerFunc(session.HandleCheck),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerAdmin() {
	users := &UsersAdminHandler{
		GuardService:      r.GuardService,
		CredentialService: r.CredentialService,
		PermissionService: r.PermissionService,
	}
	perms := &PermissionsAdminHandler{
		GuardService:      r.GuardService,
		PermissionService: r.PermissionService,
	}

	moderate := func(h http.HandlerFunc) http.Handler {
		return httpx.Chain(h, httpx.RateLimitByIP(httpx.ModerateLimit))
	}

	r.Mux.Handle("GET /v1/admin/users", moderate(users.HandleList))
	r.Mux.Handle("POST /v1/admin/users", moderate(users.HandleCreate))
	r.Mux.Handle("GET /v1/admin/users/{id}", moderate(users.HandleGet))
	r.Mux.Handle("PATCH /v1/admin/users/{id}", moderate(users.HandleUpdate))
	r.Mux.Handle("DELETE /v1/admin/users/{id}", moderate(users.HandleDeactivate))
	r.Mux.Handle("PUT /v1/admin/users/{id}/password", moderate(users.HandleSetPassword))
	r.Mux.Handle("PUT /v1/admin/users/{id}/permissions", moderate(users.HandleReplaceGrants))
	r.Mux.Handle("GET /v1/admin/permissions", moderate(perms.HandleList))
}

func (r *Router) registerBootstrap() {
	// POST /bootstrap - strict rate limit by IP (one-time setup endpoint)
	bootstrapHandler := &BootstrapHandler{BootstrapService: r.BootstrapService}
	r.Mux.Handle("POST /v1/bootstrap",
		httpx.Chain(bootstrapHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
