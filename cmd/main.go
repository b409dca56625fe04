package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"

	"github.com/sbilibin2017/smart-todo/docs"
	"github.com/sbilibin2017/smart-todo/internal/facades"
	"github.com/sbilibin2017/smart-todo/internal/handlers"
	"github.com/sbilibin2017/smart-todo/internal/health"
	"github.com/sbilibin2017/smart-todo/internal/jwt"
	"github.com/sbilibin2017/smart-todo/internal/logger"
	"github.com/sbilibin2017/smart-todo/internal/middlewares"
	"github.com/sbilibin2017/smart-todo/internal/migrations"
	"github.com/sbilibin2017/smart-todo/internal/passwords"
	"github.com/sbilibin2017/smart-todo/internal/repositories"
	"github.com/sbilibin2017/smart-todo/internal/services"

	_ "github.com/jackc/pgx/v5/stdlib"
	httpSwagger "github.com/swaggo/http-swagger"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health/grpc_health_v1"
)

// Build info variables, set via ldflags at build time.
var (
	buildVersion = "N/A" // Version of the service
	buildDate    = "N/A" // Build date
	buildCommit  = "N/A" // Git commit hash
)

// @title smart-todo API
// @version 1.0.0
// @description Multi-tenant task service with bearer-token authentication
// @host localhost:8080
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	printBuildInfo()
	configPath, healthcheck := parseFlags()

	appHost, appPort, grpcPort, logLevel,
		pgHost, pgPort, pgUser, pgPassword, pgDB,
		pgMaxOpenConns, pgMaxIdleConns,
		redisHost, redisPort, redisDB, redisPassword,
		redisPoolSize, redisMinIdleConns, redisExpSecond,
		kafkaBrokers, kafkaTopic,
		jwtSecret, bcryptCost,
		err := parseConfig(configPath)
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}

	if healthcheck {
		if err := checkHealth(context.Background(), appHost, grpcPort); err != nil {
			log.Fatalf("healthcheck failed: %v", err)
		}
		fmt.Println("SERVING")
		return
	}

	if err := run(context.Background(),
		appHost, appPort, grpcPort, logLevel,
		pgHost, pgPort, pgUser, pgPassword, pgDB,
		pgMaxOpenConns, pgMaxIdleConns,
		redisHost, redisPort, redisDB, redisPassword,
		redisPoolSize, redisMinIdleConns, redisExpSecond,
		kafkaBrokers, kafkaTopic,
		jwtSecret, bcryptCost,
	); err != nil {
		log.Fatalf("application stopped with error: %v", err)
	}
}

// printBuildInfo prints the build version, commit hash, and build date.
func printBuildInfo() {
	fmt.Printf("Version: %s\nCommit: %s\nBuild: %s\n", buildVersion, buildCommit, buildDate)
}

// parseFlags parses command-line flags and returns the config file path
// and whether the process should only probe the health endpoint.
func parseFlags() (string, bool) {
	c := flag.String("c", "config.env", "Path to configuration file")
	hc := flag.Bool("healthcheck", false, "Query the gRPC health endpoint and exit")
	flag.Parse()
	return *c, *hc
}

// parseConfig loads environment variables from a file and returns
// all application, database, Redis, Kafka, logging, and auth configuration.
func parseConfig(path string) (
	appHost, appPort, grpcPort, logLevel string,
	pgHost string, pgPort int, pgUser, pgPassword, pgDB string,
	pgMaxOpenConns, pgMaxIdleConns int,
	redisHost string, redisPort int, redisDB int, redisPassword string,
	redisPoolSize, redisMinIdleConns, redisExpSecond int,
	kafkaBrokers, kafkaTopic string,
	jwtSecretKey string, bcryptCost int,
	err error,
) {
	_ = godotenv.Load(path)

	getEnv := func(key, defaultValue string) string {
		if val, ok := os.LookupEnv(key); ok && val != "" {
			return val
		}
		return defaultValue
	}

	// Application config
	appHost = getEnv("APP_HOST", "localhost")
	appPort = getEnv("APP_PORT", "8080")
	grpcPort = getEnv("GRPC_PORT", "50051")
	logLevel = getEnv("APP_LOG_LEVEL", "info")

	// PostgreSQL config
	pgHost = getEnv("POSTGRES_HOST", "localhost")
	pgUser = getEnv("POSTGRES_USER", "user")
	pgPassword = getEnv("POSTGRES_PASSWORD", "password")
	pgDB = getEnv("POSTGRES_DB", "database")
	if pgPort, err = strconv.Atoi(getEnv("POSTGRES_PORT", "5432")); err != nil {
		return
	}
	if pgMaxOpenConns, err = strconv.Atoi(getEnv("POSTGRES_MAX_OPEN_CONNS", "16")); err != nil {
		return
	}
	if pgMaxIdleConns, err = strconv.Atoi(getEnv("POSTGRES_MAX_IDLE_CONNS", "8")); err != nil {
		return
	}

	// Redis config
	redisHost = getEnv("REDIS_HOST", "localhost")
	if redisPort, err = strconv.Atoi(getEnv("REDIS_PORT", "6379")); err != nil {
		return
	}
	if redisDB, err = strconv.Atoi(getEnv("REDIS_DB", "0")); err != nil {
		return
	}
	redisPassword = getEnv("REDIS_PASSWORD", "")
	if redisPoolSize, err = strconv.Atoi(getEnv("REDIS_POOL_SIZE", "10")); err != nil {
		return
	}
	if redisMinIdleConns, err = strconv.Atoi(getEnv("REDIS_MIN_IDLE_CONNS", "2")); err != nil {
		return
	}
	if redisExpSecond, err = strconv.Atoi(getEnv("REDIS_EXP_SECOND", "60")); err != nil {
		return
	}

	// Kafka config, publishing is disabled when no brokers are set
	kafkaBrokers = getEnv("KAFKA_BROKERS", "")
	kafkaTopic = getEnv("KAFKA_TOPIC", "task-events")

	// Auth config
	jwtSecretKey = getEnv("JWT_SECRET_KEY", "my_super_secret_key")
	if bcryptCost, err = strconv.Atoi(getEnv("BCRYPT_COST", "10")); err != nil {
		return
	}

	return
}

// run initializes the logger, database, Redis, Kafka, the health server and the HTTP server.
// It sets up routes, applies middleware, and handles graceful shutdown.
func run(ctx context.Context,
	appHost, appPort, grpcPort, logLevel string,
	pgHost string, pgPort int, pgUser, pgPassword, pgDB string,
	pgMaxOpenConns, pgMaxIdleConns int,
	redisHost string, redisPort, redisDB int, redisPassword string,
	redisPoolSize, redisMinIdleConns, redisExpSecond int,
	kafkaBrokers, kafkaTopic string,
	jwtSecretKey string, bcryptCost int,
) error {
	// Initialize logger
	if err := logger.Initialize(logLevel); err != nil {
		fmt.Println("failed to initialize logger:", err)
		return err
	}
	defer logger.Sync()
	logger.Log.Infof("Logger initialized with level %s", logLevel)

	// Connect to PostgreSQL
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		pgUser, pgPassword, pgHost, pgPort, pgDB)
	logger.Log.Infow("Connecting to PostgreSQL", "host", pgHost, "port", pgPort, "db", pgDB)

	db, err := sqlx.ConnectContext(ctx, "pgx", dsn)
	if err != nil {
		return fmt.Errorf("PostgreSQL connection error: %w", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(pgMaxOpenConns)
	db.SetMaxIdleConns(pgMaxIdleConns)
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("PostgreSQL ping failed: %w", err)
	}

	if err := migrations.Up(ctx, db.DB); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	// Connect to Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", redisHost, redisPort),
		Password:     redisPassword,
		DB:           redisDB,
		PoolSize:     redisPoolSize,
		MinIdleConns: redisMinIdleConns,
	})
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis connection error: %w", err)
	}

	// Kafka writer for task events
	var taskEvents services.KafkaWriter
	if kafkaBrokers != "" {
		kw := &kafka.Writer{
			Addr:                   kafka.TCP(strings.Split(kafkaBrokers, ",")...),
			Topic:                  kafkaTopic,
			Balancer:               &kafka.Hash{},
			BatchTimeout:           10 * time.Millisecond,
			WriteTimeout:           services.DefaultPublishTimeout,
			MaxAttempts:            3,
			RequiredAcks:           kafka.RequireOne,
			AllowAutoTopicCreation: true,
		}
		defer kw.Close()
		taskEvents = kw
		logger.Log.Infow("Kafka publishing enabled", "brokers", kafkaBrokers, "topic", kafkaTopic)
	}

	// gRPC health server
	healthSrv := health.New()
	lis, err := net.Listen("tcp", net.JoinHostPort(appHost, grpcPort))
	if err != nil {
		return fmt.Errorf("failed to listen for gRPC health: %w", err)
	}
	go func() {
		if err := healthSrv.Serve(lis); err != nil {
			logger.Log.Errorw("gRPC health server stopped", "error", err)
		}
	}()
	defer healthSrv.Stop()

	// Initialize auth primitives
	tokens := jwt.New(jwt.WithSecretKey(jwtSecretKey))
	hasher := passwords.New(bcryptCost)

	// Initialize repositories
	userReadRepo := repositories.NewUserReadRepository(db)
	userWriteRepo := repositories.NewUserWriteRepository(db)
	userCacheRepo := repositories.NewUserCacheRepository(rdb, time.Duration(redisExpSecond)*time.Second)
	taskReadRepo := repositories.NewTaskReadRepository(db)
	taskWriteRepo := repositories.NewTaskWriteRepository(db, middlewares.GetTxFromContext)

	// Initialize services
	authService := services.NewAuthService(userReadRepo, userWriteRepo, userCacheRepo, hasher, tokens)
	taskService := services.NewTaskService(taskWriteRepo, taskReadRepo, taskEvents,
		services.WithAfterCommit(middlewares.AfterCommit))

	docs.SwaggerInfo.Host = net.JoinHostPort(appHost, appPort)
	r := newRouter(db, tokens, authService, taskService,
		fmt.Sprintf("http://%s/swagger/doc.json", net.JoinHostPort(appHost, appPort)))

	srv := &http.Server{
		Addr:              net.JoinHostPort(appHost, appPort),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	// Graceful shutdown
	errChan := make(chan error, 1)
	ctxShutdown, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	go func() {
		logger.Log.Infof("HTTP server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	healthSrv.SetServing(true)

	select {
	case <-ctxShutdown.Done():
		logger.Log.Info("Shutdown signal received, stopping HTTP server...")
	case serveErr := <-errChan:
		return serveErr
	}

	healthSrv.SetServing(false)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Errorw("HTTP server shutdown error", "error", err)
	}

	logger.Log.Info("HTTP server stopped gracefully")
	return nil
}

// newRouter wires handlers and middlewares into the HTTP routes.
func newRouter(
	db *sqlx.DB,
	tokener middlewares.Tokener,
	authService *services.AuthService,
	taskService *services.TaskService,
	swaggerURL string,
) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(middlewares.LoggingMiddleware)

	// Public routes
	r.Post("/register", handlers.NewRegisterHandler(authService))
	r.Post("/login", handlers.NewLoginHandler(authService))

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(middlewares.AuthMiddleware(tokener, authService))

		r.Get("/tasks", handlers.NewListTasksHandler(taskService))

		r.Group(func(r chi.Router) {
			r.Use(middlewares.TxMiddleware(db))
			r.Post("/tasks", handlers.NewCreateTaskHandler(taskService))
			r.Put("/tasks/{id}", handlers.NewUpdateTaskHandler(taskService))
			r.Delete("/tasks/{id}", handlers.NewDeleteTaskHandler(taskService))
		})
	})

	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL(swaggerURL)))

	return r
}

// checkHealth asks the running service's gRPC health endpoint whether it is serving.
func checkHealth(ctx context.Context, host, grpcPort string) error {
	conn, err := grpc.NewClient(net.JoinHostPort(host, grpcPort),
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return err
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	ok, err := facades.NewHealthGRPCFacade(grpc_health_v1.NewHealthClient(conn)).IsServing(ctx, health.ServiceName)
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("service is not serving")
	}
	return nil
}
