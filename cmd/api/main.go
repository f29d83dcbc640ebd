package main

import (
	"expvar"
	"fmt"
	"log"
	"os"
	"runtime"
	"strconv"
	"time"

	"foodstore/internal/auth"
	"foodstore/internal/db"
	"foodstore/internal/domain/orders"
	"foodstore/internal/domain/storage"
	"foodstore/internal/logging"
	"foodstore/internal/metrics"
	"foodstore/internal/ratelimiter"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// LoadRateLimiterConfig retrieves rate limiter settings from environment variables
func LoadRateLimiterConfig() ratelimiter.Config {
	defaultRequests := 200
	defaultEnabled := false

	requestsPerTimeFrame := defaultRequests
	if val, exists := os.LookupEnv("RATELIMITER_REQUESTS_COUNT"); exists {
		if parsedVal, err := strconv.Atoi(val); err == nil && parsedVal > 0 {
			requestsPerTimeFrame = parsedVal
		} else {
			fmt.Println("Invalid RATELIMITER_REQUESTS_COUNT, defaulting to", defaultRequests)
		}
	}

	enabled := defaultEnabled
	if val, exists := os.LookupEnv("RATE_LIMITER_ENABLED"); exists {
		if parsedVal, err := strconv.ParseBool(val); err == nil {
			enabled = parsedVal
		} else {
			fmt.Println("Invalid RATE_LIMITER_ENABLED, defaulting to", defaultEnabled)
		}
	}

	return ratelimiter.Config{
		RequestsPerTimeFrame: requestsPerTimeFrame,
		TimeFrame:            5 * time.Second,
		Enabled:              enabled,
	}
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}

var version = "1.0.0"

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	maxConns, err := strconv.ParseInt(getEnv("DB_MAX_CONNS", "10"), 10, 32)
	if err != nil {
		log.Fatalf("Invalid value for DB_MAX_CONNS: %v", err)
	}

	cfg := config{
		addr: getEnv("ADDR", ":8080"),
		env:  getEnv("ENV", "development"),
		db: dbConfig{
			addr:        os.Getenv("DB_ADDR"),
			maxConns:    int32(maxConns),
			maxIdleTime: getEnv("DB_MAX_IDLE_TIME", "15m"),
		},
		auth: authConfig{
			basic: basicConfig{
				user: os.Getenv("AUTH_BASIC_USER"),
				pass: os.Getenv("AUTH_BASIC_PASS"),
			},
			token: tokenConfig{
				secret:          os.Getenv("AUTH_TOKEN_SECRET"),
				refreshSecret:   os.Getenv("AUTH_TOKEN_REFRESH_SECRET"),
				accessTokenExp:  time.Hour * 12,     // one shift
				refreshTokenExp: time.Hour * 24 * 7, // 7 days
				iss:             "foodstore",
			},
		},
		orderSecret: os.Getenv("ORDER_NUMBER_SECRET"),
		rateLimiter: LoadRateLimiterConfig(),
	}

	logger, err := logging.NewLogger(os.Getenv("LOG_LEVEL"))
	if err != nil {
		log.Fatalf("Error creating logger: %v", err)
	}
	defer logger.Sync()

	if cfg.auth.token.secret == "" || cfg.auth.token.refreshSecret == "" {
		logger.Fatal("AUTH_TOKEN_SECRET and AUTH_TOKEN_REFRESH_SECRET must be set")
	}

	pool, err := db.New(cfg.db.addr, cfg.db.maxConns, cfg.db.maxIdleTime)
	if err != nil {
		logger.Fatal(err)
	}
	defer pool.Close()
	logger.Info("database connection pool established")

	store := storage.NewContainer(pool, orders.NewOrderNumberGenerator(cfg.orderSecret))

	jwtAuthenticator := auth.NewJWTAuthenticator(
		cfg.auth.token.secret,
		cfg.auth.token.refreshSecret,
		cfg.auth.token.iss,
		cfg.auth.token.iss,
		cfg.auth.token.accessTokenExp,
		cfg.auth.token.refreshTokenExp,
	)

	rateLimiter := ratelimiter.NewFixedWindowLimiter(
		cfg.rateLimiter.RequestsPerTimeFrame,
		cfg.rateLimiter.TimeFrame,
	)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	app := &application{
		config:        cfg,
		store:         store,
		logger:        logger,
		authenticator: jwtAuthenticator,
		rateLimiter:   rateLimiter,
		metrics:       metrics.NewOrders(registry),
		registry:      registry,
	}

	// Metrics collected http://localhost:8080/v1/debug/vars
	expvar.NewString("version").Set(version)
	expvar.Publish("database", expvar.Func(func() any {
		s := pool.Stat()
		return map[string]int64{
			"total_conns":    int64(s.TotalConns()),
			"idle_conns":     int64(s.IdleConns()),
			"acquired_conns": int64(s.AcquiredConns()),
			"acquire_count":  s.AcquireCount(),
		}
	}))
	expvar.Publish("goroutines", expvar.Func(func() any {
		return runtime.NumGoroutine()
	}))

	mux := app.mount()

	logger.Fatal(app.run(mux))
}
