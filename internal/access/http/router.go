package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/techacademialendaria/lendarios-access/internal/access/service"
	"github.com/techacademialendaria/lendarios-access/internal/access/store"
	"github.com/techacademialendaria/lendarios-access/pkg/httpx"
	"github.com/techacademialendaria/lendarios-access/pkg/jwtx"
	"github.com/techacademialendaria/lendarios-access/pkg/slogx"

	_ "github.com/techacademialendaria/lendarios-access/api/access" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Scopes the platform auth provider mints for console ops tokens.
const (
	ScopeOpsRead  = "ops:read"
	ScopeOpsWrite = "ops:write"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	publicOrigin string
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store            store.Store
	InviteService    *service.InviteService
	UserService      *service.UserService
	RolesService     *service.RolesService
	BootstrapService *service.BootstrapService
}

func NewRouter(
	verifier jwtx.Verifier,
	publicOrigin, buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		publicOrigin: publicOrigin,
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
	r.registerInvites()
	r.registerSignup()
	r.registerUsers()
	r.registerRoles()
	r.registerBootstrap()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Lendár[IA]OS Access Service API
//	@version		0.1.0
//	@description	Access control for the Lendár[IA]OS console: role/area permission model, invite lifecycle,
//	@description	and user grant reconciliation. Session issuance is owned by the platform auth provider;
//	@description	this service verifies its bearer tokens.
//
//	@contact.name				Tech Academia Lendária
//	@contact.url				https://github.com/techacademialendaria/lendarios-access
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
//	@description				JWT access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerInvites() {
	h := &InvitesHandler{
		InviteService: r.InviteService,
		PublicOrigin:  r.publicOrigin,
	}

	// POST /v1/invites - moderate rate limit by user (ops write operation)
	securedCreate := httpx.Chain(http.HandlerFunc(h.HandleCreate),
		httpx.AuthnMiddleware(r.verifier),
		httpx.RequireAnyScope(ScopeOpsWrite),
		httpx.RateLimitByUser(httpx.ModerateLimit),
	)

	// GET /v1/invites - lenient rate limit by user (the console polls this)
	securedList := httpx.Chain(http.HandlerFunc(h.HandleList),
		httpx.AuthnMiddleware(r.verifier),
		httpx.RequireAnyScope(ScopeOpsRead),
		httpx.RateLimitByUser(httpx.LenientLimit),
	)

	// DELETE /v1/invites/{id} - moderate rate limit by user
	securedCancel := httpx.Chain(http.HandlerFunc(h.HandleCancel),
		httpx.AuthnMiddleware(r.verifier),
		httpx.RequireAnyScope(ScopeOpsWrite),
		httpx.RateLimitByUser(httpx.ModerateLimit),
	)

	r.Mux.Handle("POST /v1/invites", securedCreate)
	r.Mux.Handle("GET /v1/invites", securedList)
	r.Mux.Handle("DELETE /v1/invites/{id}", securedCancel)
}

func (r *Router) registerSignup() {
	// POST /v1/signup - strict rate limit by IP (public, consumes invite tokens)
	h := &SignupHandler{InviteService: r.InviteService}
	r.Mux.Handle("POST /v1/signup",
		httpx.Chain(h,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerUsers() {
	h := &UsersHandler{UserService: r.UserService}

	securedList := httpx.Chain(http.HandlerFunc(h.HandleList),
		httpx.AuthnMiddleware(r.verifier),
		httpx.RequireAnyScope(ScopeOpsRead),
		httpx.RateLimitByUser(httpx.LenientLimit),
	)

	securedGet := httpx.Chain(http.HandlerFunc(h.HandleGetAccess),
		httpx.AuthnMiddleware(r.verifier),
		httpx.RequireAnyScope(ScopeOpsRead),
		httpx.RateLimitByUser(httpx.LenientLimit),
	)

	securedUpdate := httpx.Chain(http.HandlerFunc(h.HandleUpdateAccess),
		httpx.AuthnMiddleware(r.verifier),
		httpx.RequireAnyScope(ScopeOpsWrite),
		httpx.RateLimitByUser(httpx.ModerateLimit),
	)

	securedDelete := httpx.Chain(http.HandlerFunc(h.HandleDelete),
		httpx.AuthnMiddleware(r.verifier),
		httpx.RequireAnyScope(ScopeOpsWrite),
		httpx.RateLimitByUser(httpx.ModerateLimit),
	)

	r.Mux.Handle("GET /v1/users", securedList)
	r.Mux.Handle("GET /v1/users/{id}/access", securedGet)
	r.Mux.Handle("PUT /v1/users/{id}/access", securedUpdate)
	r.Mux.Handle("DELETE /v1/users/{id}", securedDelete)
}

func (r *Router) registerRoles() {
	h := &RolesHandler{RolesService: r.RolesService}

	secured := httpx.Chain(h,
		httpx.AuthnMiddleware(r.verifier),
		httpx.RequireAnyScope(ScopeOpsRead),
		httpx.RateLimitByUser(httpx.LenientLimit),
	)

	r.Mux.Handle("GET /v1/roles", secured)
}

func (r *Router) registerBootstrap() {
	// POST /v1/bootstrap - strict rate limit by IP (one-time setup endpoint)
	h := &BootstrapHandler{BootstrapService: r.BootstrapService}
	r.Mux.Handle("POST /v1/bootstrap",
		httpx.Chain(h,
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
