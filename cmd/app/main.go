package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"delivery-sim/cmd"
	httpin "delivery-sim/internal/adapters/in/http"
	"delivery-sim/internal/adapters/out/postgres"
	"delivery-sim/internal/core/domain/services/dispatch"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/samber/lo"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		slog.Warn("No .env file loaded, using the environment", "error", err)
	}
	configs := getConfigs()

	logger := newLogger(configs.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, configs, logger)
	stop()
	if err != nil {
		logger.Error("Simulation service failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configs cmd.Config, logger *slog.Logger) error {
	gormDB, err := openDatabase(ctx, configs)
	if err != nil {
		return err
	}

	app, err := cmd.NewCompositionRoot(configs, gormDB, logger)
	if err != nil {
		return err
	}

	live, err := app.CreateLiveSimulation()
	if err != nil {
		return err
	}
	jobManager := app.CreateJobs(live)
	if err = jobManager.StartAll(); err != nil {
		return err
	}
	defer jobManager.StopAll()

	runHandler := app.CreateRunSimulationCommandHandler()
	getHandler := app.CreateGetRunResultQueryHandler()
	listHandler := app.CreateListRunResultsQueryHandler()
	server := httpin.NewServer(&runHandler, getHandler, listHandler, app.Catalog(), httpin.LiveSource(live))

	return startWebServer(ctx, server, configs.HTTPPort, logger)
}

func getConfigs() cmd.Config {
	config := cmd.Config{
		HTTPPort:   goDotEnvVariable("HTTP_PORT", "8080"),
		DBHost:     goDotEnvVariable("DB_HOST", "localhost"),
		DBPort:     goDotEnvVariable("DB_PORT", "5432"),
		DBUser:     goDotEnvVariable("DB_USER", ""),
		DBPassword: goDotEnvVariable("DB_PASSWORD", ""),
		DBName:     goDotEnvVariable("DB_NAME", ""),
		DBSslMode:  goDotEnvVariable("DB_SSLMODE", "disable"),
		LogLevel:   goDotEnvVariable("LOG_LEVEL", "info"),

		ScenarioDir: goDotEnvVariable("SCENARIO_DIR", "scenarios"),
		TickMillis:  int64(intVariable("TICK_MILLIS", 0)),

		LiveScenario:     goDotEnvVariable("LIVE_SCENARIO", ""),
		LiveService:      goDotEnvVariable("LIVE_SERVICE", dispatch.KindBasic),
		LiveTickSchedule: goDotEnvVariable("LIVE_TICK_SCHEDULE", "* * * * * *"),

		BenchmarkScenarios: listVariable("BENCHMARK_SCENARIOS"),
		BenchmarkService:   goDotEnvVariable("BENCHMARK_SERVICE", dispatch.KindBasic),
		BenchmarkRuns:      intVariable("BENCHMARK_RUNS", 1),
		BenchmarkSchedule:  goDotEnvVariable("BENCHMARK_SCHEDULE", "0 0 * * * *"),
	}
	return config
}

func goDotEnvVariable(key string, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func intVariable(key string, fallback int) int {
	value := goDotEnvVariable(key, "")
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		slog.Warn("Ignoring invalid integer variable", "key", key, "value", value)
		return fallback
	}
	return n
}

func listVariable(key string) []string {
	return lo.Compact(lo.Map(strings.Split(goDotEnvVariable(key, ""), ","), func(s string, _ int) string {
		return strings.TrimSpace(s)
	}))
}

func newLogger(level string) *slog.Logger {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		l = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: l}))
}

func openDatabase(ctx context.Context, configs cmd.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser, configs.DBPassword, configs.DBName, configs.DBSslMode)

	gormDB, err := gorm.Open(pgdriver.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err = postgres.Migrate(ctx, gormDB); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return gormDB, nil
}

func startWebServer(ctx context.Context, server *httpin.Server, port string, logger *slog.Logger) error {
	e := echo.New()
	e.HideBanner = true
	e.Logger.SetLevel(log.WARN)
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod: true,
		LogURI:    true,
		LogStatus: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.InfoContext(c.Request().Context(), "Request handled",
				"method", v.Method, "uri", v.URI, "status", v.Status)
			return nil
		},
	}))
	if err := server.RegisterRoutes(e); err != nil {
		return fmt.Errorf("register routes: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- e.Start(fmt.Sprintf("0.0.0.0:%s", port))
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
