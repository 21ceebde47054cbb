package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ReyXerxezz/genosentinel/internal/config"
	"github.com/ReyXerxezz/genosentinel/internal/domain/auth"
	"github.com/ReyXerxezz/genosentinel/internal/domain/clinicalrecord"
	"github.com/ReyXerxezz/genosentinel/internal/domain/patient"
	"github.com/ReyXerxezz/genosentinel/internal/domain/tumortype"
	"github.com/ReyXerxezz/genosentinel/internal/platform/apiclient"
	"github.com/ReyXerxezz/genosentinel/internal/platform/middleware"
	"github.com/ReyXerxezz/genosentinel/internal/platform/session"
	"github.com/ReyXerxezz/genosentinel/internal/platform/stats"
	"github.com/ReyXerxezz/genosentinel/internal/platform/web"
)

const (
	appPrefix = "/app"
	appHome   = appPrefix + "/patients"
	version   = "0.1.0"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "genosentinel-web",
		Short: "GenoSentinel clinical admin console",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(listCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the admin console",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func listCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "list <patients|clinical-records|tumor-types>",
		Short:     "Print a resource collection as JSON",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"patients", "clinical-records", "tumor-types"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cookies, _ := cmd.Flags().GetStringSlice("cookie")

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			creds, err := parseCookies(cookies)
			if err != nil {
				return err
			}
			ctx := apiclient.WithCredentials(cmd.Context(), creds)
			client := apiclient.New(cfg.APIBaseURL, apiclient.WithTimeout(cfg.APITimeout))
			return runList(ctx, cmd.OutOrStdout(), client, args[0])
		},
	}
	cmd.Flags().StringSlice("cookie", nil, "Backend cookie to send, as name=value (repeatable)")
	return cmd
}

func parseCookies(pairs []string) (*apiclient.Credentials, error) {
	cookies := make([]*http.Cookie, 0, len(pairs))
	for _, p := range pairs {
		name, value, ok := strings.Cut(p, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("--cookie must be name=value, got %q", p)
		}
		cookies = append(cookies, &http.Cookie{Name: name, Value: value})
	}
	return apiclient.NewCredentials(cookies), nil
}

func runList(ctx context.Context, out io.Writer, client *apiclient.Client, resource string) error {
	var items any
	switch resource {
	case "patients":
		list, err := patient.NewHTTPRepo(client).List(ctx)
		if err != nil {
			return err
		}
		items = list.Items
	case "clinical-records":
		list, err := clinicalrecord.NewHTTPRepo(client).List(ctx)
		if err != nil {
			return err
		}
		items = list.Items
	case "tumor-types":
		list, err := tumortype.NewHTTPRepo(client).List(ctx)
		if err != nil {
			return err
		}
		items = list.Items
	default:
		return fmt.Errorf("unknown resource %q", resource)
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(items)
}

func newLogger(env string) zerolog.Logger {
	if env == "development" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}

func runServer() error {
	// Logger
	logger := newLogger(os.Getenv("ENV"))

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// UI session store
	store, closeStore, err := newSessionStore(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open session store")
	}
	defer closeStore()
	logger.Info().Str("store", cfg.SessionStore).Msg("session store ready")

	e, err := newServer(cfg, logger, store, prometheus.DefaultRegisterer, promhttp.Handler())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build server")
	}

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Str("api", cfg.APIBaseURL).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}

// newSessionStore opens the configured UI session store. The returned func
// releases it.
func newSessionStore(ctx context.Context, cfg *config.Config) (session.Store, func(), error) {
	if cfg.SessionStore == "redis" {
		store, client, err := session.NewRedisStore(ctx, cfg.RedisURL, "genosentinel:session:")
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = client.Close() }, nil
	}
	store := session.NewMemoryStore()
	store.StartSweeper(ctx, time.Minute)
	return store, func() {}, nil
}

// newServer wires the console. metrics, when non-nil, is served on /metrics.
func newServer(cfg *config.Config, logger zerolog.Logger, store session.Store, reg prometheus.Registerer, metrics http.Handler) (*echo.Echo, error) {
	renderer, err := web.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = renderer
	e.HTTPErrorHandler = web.ErrorHandler(logger)

	// Backend client
	opts := []apiclient.Option{apiclient.WithTimeout(cfg.APITimeout), apiclient.WithLogger(logger)}
	if cfg.MetricsEnabled && reg != nil {
		opts = append(opts, apiclient.WithMetrics(apiclient.NewMetrics(reg)))
	}
	client := apiclient.New(cfg.APIBaseURL, opts...)

	// Global middleware
	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger, "/health", "/metrics"))
	e.Use(middleware.SecurityHeaders(cfg.CookieSecure))
	e.Use(echomw.GzipWithConfig(echomw.GzipConfig{
		Skipper: func(c echo.Context) bool { return c.Path() == "/metrics" },
	}))
	e.Use(middleware.RateLimit(rateLimitCfg))
	e.Use(middleware.BodyLimit("1M"))
	e.Use(web.CSRF(cfg.CookieSecure, "/health", "/metrics"))
	e.Use(middleware.RequestTimeout(cfg.RequestTimeout, "/metrics"))
	e.Use(middleware.ForwardCookies(middleware.CookieConfig{
		Exclude: []string{cfg.SessionCookieName, web.CSRFCookieName},
		Secure:  cfg.CookieSecure,
	}))
	e.Use(middleware.RedirectUnauthorized(logger))

	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": version,
		})
	})
	if cfg.MetricsEnabled && metrics != nil {
		e.GET("/metrics", echo.WrapHandler(metrics))
	}

	// Auth screens
	authAPI := auth.NewHTTPAPI(client)
	sessions := session.NewManager(store, session.ManagerConfig{
		CookieName: cfg.SessionCookieName,
		TTL:        cfg.SessionTTL,
		Secure:     cfg.CookieSecure,
	})
	auth.NewHandler(authAPI, sessions, logger, appHome).RegisterRoutes(e.Group(""))

	// App screens
	app := e.Group(appPrefix)
	app.Use(middleware.SessionRefresh(middleware.SessionRefreshConfig{
		AccessCookie:  cfg.AccessCookieName,
		RefreshCookie: cfg.RefreshCookieName,
		Refresher:     middleware.RefresherFunc(auth.Refresher(authAPI)),
		Leeway:        30 * time.Second,
		Logger:        logger,
	}))

	patientSvc := patient.NewService(patient.NewHTTPRepo(client))
	recordSvc := clinicalrecord.NewService(clinicalrecord.NewHTTPRepo(client))
	tumorSvc := tumortype.NewService(tumortype.NewHTTPRepo(client))

	nav := []web.NavItem{
		{Label: "Pacientes", Href: appPrefix + "/patients"},
		{Label: "Registros Clínicos", Href: appPrefix + "/clinical-records"},
		{Label: "Tipos de Tumor", Href: appPrefix + "/tumor-types"},
	}
	counts := stats.NewCollector(logger,
		stats.Source{Key: "patients", Label: "Pacientes", Count: patientSvc.Count},
		stats.Source{Key: "clinical-records", Label: "Registros Clínicos", Count: recordSvc.Count},
		stats.Source{Key: "tumor-types", Label: "Tipos de Tumor", Count: tumorSvc.Count},
	)

	patient.NewHandler(patientSvc, logger, appPrefix, nav, counts).RegisterRoutes(app)
	clinicalrecord.NewHandler(recordSvc, logger, appPrefix, nav, counts).RegisterRoutes(app)
	tumortype.NewHandler(tumorSvc, logger, appPrefix, nav, counts).RegisterRoutes(app)
	app.GET("", redirectTo(appHome))
	app.GET("/", redirectTo(appHome))
	app.Any("/*", redirectTo("/"))

	// Anything else goes to the login screen.
	e.Any("/*", redirectTo("/"))

	logger.Info().Str("api", cfg.APIBaseURL).Bool("metrics", cfg.MetricsEnabled).Msg("console wired")
	return e, nil
}

func redirectTo(path string) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.Redirect(http.StatusSeeOther, path)
	}
}
