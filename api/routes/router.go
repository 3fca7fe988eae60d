package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nomedigasn781-code/proyec/api/controllers"
	authcontrollers "github.com/nomedigasn781-code/proyec/api/controllers/auth"
	ordercontrollers "github.com/nomedigasn781-code/proyec/api/controllers/orders"
	"github.com/nomedigasn781-code/proyec/api/middleware"
	"github.com/nomedigasn781-code/proyec/api/responses"
	"github.com/nomedigasn781-code/proyec/internal/auth"
	"github.com/nomedigasn781-code/proyec/internal/orders"
	"github.com/nomedigasn781-code/proyec/pkg/auth/session"
	"github.com/nomedigasn781-code/proyec/pkg/config"
	pkgerrors "github.com/nomedigasn781-code/proyec/pkg/errors"
	"github.com/nomedigasn781-code/proyec/pkg/logger"
	"github.com/nomedigasn781-code/proyec/pkg/metrics"
	"github.com/nomedigasn781-code/proyec/pkg/redis"
)

// legacyPrefix serves the same handlers under their historical .php names.
const legacyPrefix = "/api"

// Deps are the services the router dispatches to. Redis and Metrics are
// optional: without Redis auth throttling is off, without Metrics /metrics is
// not mounted.
type Deps struct {
	DB              controllers.Pinger
	Redis           *redis.Client
	Sessions        session.Validator
	AuthService     auth.Service
	RegisterService auth.RegisterService
	OrdersService   orders.Service
	HTTPMetrics     *metrics.HTTPMetrics
	Metrics         prometheus.Gatherer
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTPMetrics),
		middleware.CORS(),
		middleware.Preflight,
		middleware.ExposeErrors(cfg.App.ExposeErrors),
	)
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		responses.WriteError(req.Context(), nil, w, pkgerrors.New(pkgerrors.CodeMethodNotAllowed, ""))
	})
	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		responses.WriteError(req.Context(), nil, w, pkgerrors.New(pkgerrors.CodeNotFound, ""))
	})

	loginLimit := rateLimit(middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	), deps.Redis, logg)
	registerLimit := rateLimit(middleware.NewAuthRateLimitPolicy(
		"registro",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	), deps.Redis, logg)
	requireSession := middleware.RequireSession(deps.Sessions, logg)

	readiness := map[string]controllers.Pinger{}
	if deps.DB != nil {
		readiness["database"] = deps.DB
	}
	if deps.Redis != nil {
		readiness["redis"] = deps.Redis
	}
	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readiness))
	})
	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Metrics, promhttp.HandlerOpts{}))
	}

	endpoints := []struct {
		name    string
		method  string
		handler http.Handler
	}{
		{"login", http.MethodPost, loginLimit(authcontrollers.AuthLogin(deps.AuthService, logg))},
		{"registro", http.MethodPost, registerLimit(authcontrollers.AuthRegister(deps.RegisterService, logg))},
		{"verificar_email", http.MethodPost, authcontrollers.AuthVerifyEmail(deps.RegisterService, logg)},
		{"guardar_pedido", http.MethodPost, requireSession(ordercontrollers.Submit(deps.OrdersService, logg))},
		{"obtener_historial", http.MethodGet, requireSession(ordercontrollers.History(deps.OrdersService, logg))},
	}
	for _, ep := range endpoints {
		r.Method(ep.method, "/"+ep.name, ep.handler)
		r.Method(ep.method, legacyPrefix+"/"+ep.name+".php", ep.handler)
	}

	return r
}

func rateLimit(policy middleware.AuthRateLimitPolicy, client *redis.Client, logg *logger.Logger) func(http.Handler) http.Handler {
	if client == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return middleware.AuthRateLimit(policy, client, logg)
}
