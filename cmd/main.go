package main

import (
	"context"
	"errors"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	// Nossos pacotes de infraestrutura e utilitários
	"seaconnector/config"
	_ "seaconnector/docs"
	"seaconnector/internal/pkg/cache"
	"seaconnector/internal/pkg/database"
	"seaconnector/internal/pkg/logger"
	"seaconnector/internal/pkg/metrics"
	"seaconnector/internal/pkg/middleware"
	"seaconnector/internal/pkg/token"

	// Camadas para Injeção de Dependências
	"seaconnector/internal/api/health"
	"seaconnector/internal/api/reservation"
	"seaconnector/internal/api/router"
	"seaconnector/internal/api/user"
	"seaconnector/internal/repository/healthrepo"
	"seaconnector/internal/repository/reservationrepo"
	"seaconnector/internal/repository/userrepo"
	"seaconnector/internal/service/reservationservice"
	"seaconnector/internal/service/userservice"
)

// @title SeaConnector API
// @version 1.0
// @description Backend de reservas: registro, login com JWT, perfil e reservas.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// O .env é opcional: em produção as variáveis vêm do ambiente.
	if err := godotenv.Load(); err != nil {
		stdlog.Println("Aviso: arquivo .env não encontrado. Usando apenas o ambiente do sistema.")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		stdlog.Fatalf("Configuração inválida: %v", err)
	}

	log := logger.NewLogger(cfg.LogLevel)
	log.Info("Inicializando SeaConnector.", map[string]interface{}{"env": cfg.Environment, "port": cfg.Port})

	ctx := context.Background()

	// A. Banco de Dados (PostgreSQL)
	dbOpts := database.DefaultOptions()
	dbOpts.MaxOpenConns = cfg.DBMaxOpenConns
	db, err := database.NewPostgresDB(ctx, cfg.DatabaseURL, dbOpts)
	if err != nil {
		log.Fatal("Falha ao conectar ao banco de dados.", err)
	}
	defer db.Close()
	log.Info("Conexão PostgreSQL estabelecida.", nil)

	// B. Cache (Redis), opcional
	var cacheClient cache.Client
	if cfg.RedisAddr != "" {
		redisClient, err := cache.NewRedisClient(ctx, cfg.RedisAddr)
		if err != nil {
			log.Fatal("Falha ao conectar ao Redis.", err)
		}
		defer redisClient.Close()
		cacheClient = redisClient
		log.Info("Conexão Redis estabelecida.", map[string]interface{}{"addr": cfg.RedisAddr})
	} else {
		log.Warn("REDIS_ADDR vazio: sem cache de perfil e rate limit em memória.", nil)
	}

	// C. Métricas
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	rec := metrics.NewCollector(reg)

	// D. Serviço de Tokens (JWT)
	tokenSvc, err := token.NewService(cfg.JWTSecret, cfg.TokenExpiry)
	if err != nil {
		log.Fatal("Falha ao inicializar o serviço de tokens.", err)
	}

	// E. Repository -> Service -> Handler
	userRepo := userrepo.NewUserRepository(db, cacheClient, cfg.DBTimeout, cfg.CacheTTL, log)
	reservationRepo := reservationrepo.NewReservationRepository(db, cfg.DBTimeout, log)
	healthRepo := healthrepo.NewHealthRepository(db, cfg.DBTimeout)

	userSvc, err := userservice.NewService(userRepo, tokenSvc, log, rec)
	if err != nil {
		log.Fatal("Falha ao inicializar o serviço de usuários.", err)
	}
	reservationSvc := reservationservice.NewService(reservationRepo, log, rec)

	// F. Rate limit das rotas de autenticação
	var limiter middleware.Limiter
	if cacheClient != nil {
		limiter = middleware.NewRedisLimiter(cacheClient, cfg.RateLimitMaxRequests, cfg.RateLimitPeriod)
	} else {
		local := middleware.NewLocalLimiter(cfg.RateLimitMaxRequests, cfg.RateLimitPeriod)
		defer local.Stop()
		limiter = local
	}

	staticDir := cfg.StaticDir
	if staticDir != "" && !router.StaticDirExists(staticDir) {
		log.Warn("STATIC_DIR não existe, arquivos estáticos desativados.", map[string]interface{}{"dir": staticDir})
		staticDir = ""
	}

	handler := router.NewRouter(router.Deps{
		UserHandler:        user.NewHandler(userSvc, log),
		ReservationHandler: reservation.NewHandler(reservationSvc, log),
		HealthHandler:      health.NewHandler(healthRepo, log),
		TokenService:       tokenSvc,
		AuthLimiter:        limiter,
		RateLimitEvery:     cfg.RateLimitPeriod,
		Logger:             log,
		Metrics:            rec,
		MetricsHandler:     metrics.Handler(reg),
		CORSAllowedOrigin:  cfg.CORSAllowedOrigin,
		RequestTimeout:     cfg.RequestTimeout,
		StaticDir:          staticDir,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("Servidor SeaConnector ouvindo na porta", map[string]interface{}{"port": cfg.Port})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Servidor falhou.", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	log.Info("Sinal de encerramento recebido. Desligando servidor...", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Desligamento do servidor forçado.", err)
	}

	log.Info("Servidor encerrado com sucesso.", nil)
}
