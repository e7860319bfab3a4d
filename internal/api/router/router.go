package router

import (
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"seaconnector/internal/api/health"
	"seaconnector/internal/api/reservation"
	"seaconnector/internal/api/user"
	"seaconnector/internal/pkg/logger"
	"seaconnector/internal/pkg/metrics"
	"seaconnector/internal/pkg/middleware"
)

// Deps reúne os handlers e middlewares já construídos no main.
type Deps struct {
	UserHandler        *user.Handler
	ReservationHandler *reservation.Handler
	HealthHandler      *health.Handler

	TokenService   middleware.TokenService
	AuthLimiter    middleware.Limiter
	RateLimitEvery time.Duration

	Logger         logger.Logger
	Metrics        metrics.Recorder
	MetricsHandler http.Handler // nil desativa /metrics

	CORSAllowedOrigin string
	RequestTimeout    time.Duration
	StaticDir         string // vazio desativa os arquivos estáticos
}

// NewRouter configura e retorna o roteador HTTP principal.
//
// Ordem dos middlewares globais:
//
//	RequestID → RealIP → Recovery → Logging → CORS → Timeout
//
// Registro e login passam pelo rate limit; perfil e reservas pelo AuthMiddleware.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.NewRecoveryMiddleware(deps.Logger))
	r.Use(middleware.NewLoggingMiddleware(deps.Logger, deps.Metrics))
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	if deps.RequestTimeout > 0 {
		r.Use(chimw.Timeout(deps.RequestTimeout))
	}

	// --- Health check ---
	r.Get("/", deps.HealthHandler.StatusHandler)
	r.Get("/ping", deps.HealthHandler.PingHandler)

	if deps.MetricsHandler != nil {
		r.Handle("/metrics", deps.MetricsHandler)
	}
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	r.Route("/api", func(r chi.Router) {
		// --- Rotas públicas (com rate limit) ---
		r.Group(func(r chi.Router) {
			if deps.AuthLimiter != nil {
				r.Use(middleware.NewRateLimitMiddleware(deps.AuthLimiter, deps.RateLimitEvery, deps.Logger, deps.Metrics))
			}
			r.Post("/register", deps.UserHandler.RegisterUserHandler)
			r.Post("/login", deps.UserHandler.LoginUserHandler)
		})

		// --- Rotas protegidas ---
		r.Group(func(r chi.Router) {
			r.Use(middleware.NewAuthMiddleware(deps.TokenService, deps.Logger, deps.Metrics))
			r.Get("/profile", deps.UserHandler.ProfileHandler)
			r.Post("/reservations", deps.ReservationHandler.CreateReservationHandler)
			r.Get("/reservations", deps.ReservationHandler.ListReservationsHandler)
		})
	})

	// Demais caminhos caem nos arquivos estáticos do front, quando configurados.
	if deps.StaticDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(deps.StaticDir)))
	}

	return r
}

// StaticDirExists informa se o diretório configurado pode ser servido.
func StaticDirExists(dir string) bool {
	info, err := os.Stat(dir)
	return err == nil && info.IsDir()
}
