package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/extra/redisotel/v8"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"google.golang.org/api/option"

	"github.com/2beens/calisthenics/internal/auth"
	"github.com/2beens/calisthenics/internal/backup"
	"github.com/2beens/calisthenics/internal/config"
	trackermcp "github.com/2beens/calisthenics/internal/mcp"
	"github.com/2beens/calisthenics/internal/middleware"
	"github.com/2beens/calisthenics/internal/misc"
	"github.com/2beens/calisthenics/internal/reminder"
	"github.com/2beens/calisthenics/internal/store/cache"
	"github.com/2beens/calisthenics/internal/telemetry/metrics"
	"github.com/2beens/calisthenics/internal/telemetry/tracing"
	"github.com/2beens/calisthenics/internal/tracker"
)

const authCleanupInterval = 8 * time.Hour

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	mcpSecret         string // used by MCP clients on /mcp
	versionInfo       string

	config    *config.Config
	storage   *Storage
	tracker   *tracker.Service
	scheduler *reminder.Scheduler

	redisClient *redis.Client
	authService *auth.Service

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	VersionInfo             string
	AdminUsername           string
	AdminPasswordHash       string
	RedisPassword           string
	PostgresUser            string
	PostgresPassword        string
	McpSecret               string
	TelegramBotToken        string
	DriveCredentialsJSON    []byte
	HoneycombTracingEnabled bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	cfg := params.Config

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "calisthenics-tracker")
	if err != nil {
		return nil, err
	}

	storage, err := OpenStore(ctx, cfg, OpenStoreParams{
		PostgresUser:     params.PostgresUser,
		PostgresPassword: params.PostgresPassword,
		TracingEnabled:   params.HoneycombTracingEnabled,
	})
	if err != nil {
		otelShutdown()
		return nil, err
	}

	var collectors []prometheus.Collector
	if storage.DBPool != nil {
		collectors = append(collectors, pgxpoolprometheus.NewCollector(
			storage.DBPool,
			map[string]string{"db_name": cfg.PostgresDBName},
		))
	}
	promRegistry := metrics.SetupPrometheus(collectors...)
	metricsManager := metrics.NewManager("calisthenics", "main", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0) // set to 1 once serving

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
		Password: params.RedisPassword,
		DB:       0, // use default DB
	})
	if params.HoneycombTracingEnabled {
		rdb.AddHook(redisotel.NewTracingHook())
	}

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	authService := auth.NewAuthService(&auth.Admin{
		Username:     params.AdminUsername,
		PasswordHash: params.AdminPasswordHash,
	}, auth.DefaultTTL, rdb)
	go func() {
		ticker := time.NewTicker(authCleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				authService.ScanAndClean(ctx)
			}
		}
	}()

	tracedHttpClient := &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}

	serviceParams := tracker.ServiceParams{
		Store:        storage.Store,
		Metrics:      metricsManager,
		StoreTimeout: cfg.StoreTimeout(),
		Location:     cfg.Location(),
	}

	switch cfg.StatsCache {
	case config.CacheRedis:
		serviceParams.StatsCache = cache.NewRedis(rdb)
	case config.CacheLocal:
		serviceParams.StatsCache = cache.NewLocal(cfg.StatsCacheSize)
	default:
		log.Debugln("stats cache disabled")
	}

	if len(params.DriveCredentialsJSON) > 0 {
		uploader, err := backup.NewDriveUploader(
			ctx,
			cfg.DriveBackupFolderID,
			option.WithCredentialsJSON(params.DriveCredentialsJSON),
		)
		if err != nil {
			log.Errorf("drive backups disabled, new drive uploader: %s", err)
		} else {
			serviceParams.Uploader = uploader
		}
	} else {
		log.Debugln("drive credentials not set, backups disabled")
	}

	trackerService := tracker.NewService(serviceParams)

	s := &Server{
		mcpSecret:   params.McpSecret,
		versionInfo: params.VersionInfo,

		config:  cfg,
		storage: storage,
		tracker: trackerService,

		redisClient: rdb,
		authService: authService,

		// telemetry
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}

	if cfg.NotificationsEnabled {
		notifiers := reminder.MultiNotifier{reminder.LogNotifier{}}
		if params.TelegramBotToken != "" && cfg.TelegramChatID != 0 {
			telegramNotifier, err := reminder.NewTelegramNotifier(params.TelegramBotToken, cfg.TelegramChatID, tracedHttpClient)
			if err != nil {
				log.Errorf("telegram notifications disabled: %s", err)
			} else {
				notifiers = append(notifiers, telegramNotifier)
			}
		}
		s.scheduler = reminder.NewScheduler(trackerService, notifiers, cfg.Location())
	}

	return s, nil
}

func (s *Server) routerSetup() *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("main-router"))

	reqRateLimiter := redis_rate.NewLimiter(s.redisClient)
	miscHandler := misc.NewHandler(s.versionInfo, s.authService)
	miscHandler.SetupRoutes(r, reqRateLimiter, s.metricsManager, s.config.LoginRateLimit)

	trackerHandler := tracker.NewHandler(s.tracker)
	trackerHandler.SetupRoutes(r)

	mcpServer := trackermcp.NewServer(s.tracker)
	r.PathPrefix("/mcp").Handler(trackermcp.NewHTTPHandler(mcpServer)).Name("mcp")

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "DELETE", "OPTIONS").Name("unknown")

	authMiddleware := middleware.NewAuthMiddlewareHandler(
		s.mcpSecret,
		s.authService,
	)

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors(s.config.AllowedOrigins))
	r.Use(authMiddleware.AuthCheck())
	r.Use(middleware.DrainAndCloseRequest())

	return r
}

func (s *Server) Serve() error {
	router := s.routerSetup()

	ipAndPort := net.JoinHostPort(s.config.Host, strconv.Itoa(s.config.Port))
	s.httpServer = &http.Server{
		Handler:      router,
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.HandlerFor(
		s.promRegistry,
		promhttp.HandlerOpts{},
	))
	metricsAddr := net.JoinHostPort(s.config.Host, strconv.Itoa(s.config.MetricsPort))
	s.metricsHttpServer = &http.Server{
		Addr:    metricsAddr,
		Handler: metricsRouter,
	}

	if s.scheduler != nil {
		if err := s.scheduler.Start(); err != nil {
			return fmt.Errorf("start reminder scheduler: %w", err)
		}
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	s.metricsManager.GaugeLifeSignal.Set(1)
	return nil
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")
	s.metricsManager.GaugeLifeSignal.Set(0)

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown http server")
		}
		log.Warnln("server shut down")
	}

	if s.scheduler != nil {
		s.scheduler.Stop()
	}

	s.otelShutdown()
	log.Trace("otel shut down ...")

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			log.Errorf("failed to close redis client conn: %s", err)
		}
	}

	if s.storage != nil {
		s.storage.Close()
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}

	if s.metricsHttpServer != nil {
		if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown metrics http server")
		}
		log.Warnln("metrics server shut down")
	}
}

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.metricsManager.GaugeRequests.Add(1)
	case http.StateClosed:
		s.metricsManager.GaugeRequests.Add(-1)
	default:
		// do nothing
	}
}
