package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/ardanlabs/conf/v3"
	"github.com/gin-gonic/gin"
	"github.com/hamidoujand/signup/internal/auth"
	"github.com/hamidoujand/signup/internal/debug"
	"github.com/hamidoujand/signup/internal/domains/account/bus"
	accountHandlers "github.com/hamidoujand/signup/internal/domains/account/handler"
	"github.com/hamidoujand/signup/internal/domains/account/store/accountdb"
	healthHandlers "github.com/hamidoujand/signup/internal/domains/health/handler"
	"github.com/hamidoujand/signup/internal/emailvalidator"
	"github.com/hamidoujand/signup/internal/metrics"
	"github.com/hamidoujand/signup/internal/mid"
	"github.com/hamidoujand/signup/internal/sqldb"
	"github.com/hamidoujand/signup/pkg/keystore"
	"github.com/hamidoujand/signup/pkg/logger"
	"github.com/hamidoujand/signup/pkg/telemetry"
)

//TODO: serve the API over TLS once certificates are provisioned per environment.

var build = "development"

func main() {
	//os.Interrupt is going to be platform independent for example on UNIX it mapped to "syscall.SIGINT" on Windows to
	//something else, so we need a flexibility in here so we use os.Interrupt as well.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env := logger.EnvironmentProd
	if build == "development" {
		env = logger.EnvironmentDev
	}

	log := logger.New(os.Stdout, logger.LevelDebug, env, "signup", telemetry.GetTraceID)

	if err := run(ctx, log); err != nil {
		log.Error(ctx, "main failed to execute run", "err", err.Error())
		os.Exit(1)
	}
}

func run(ctx context.Context, log *logger.Logger) error {
	log.Info(ctx, "run", "build", build, "GOMAXPROCS", runtime.GOMAXPROCS(0))

	//configuration
	cfg := struct {
		conf.Version
		Web struct {
			ReadTimeout       time.Duration `conf:"default:10s"`
			ReadHeaderTimeout time.Duration `conf:"default:5s"`
			WriteTimeout      time.Duration `conf:"default:30s"`
			IdleTimeout       time.Duration `conf:"default:120s"`
			ShutdownTimeout   time.Duration `conf:"default:20s"`
			DebugHost         string        `conf:"default:0.0.0.0:3000"`
			APIHost           string        `conf:"default:0.0.0.0:8000"`
			HealthHost        string        `conf:"default:0.0.0.0:9000"`
		}

		DB struct {
			User     string `conf:"default:postgres"`
			Password string `conf:"default:postgres,mask"`
			//the app and db running in the same namespace, no need for cross namespace service discovery.
			Host        string `conf:"default:database:5432"`
			Name        string `conf:"default:postgres"`
			MaxIdleConn int    `conf:"default:2"`
			MaxOpenConn int    `conf:"default:0"`
			DisableTLS  bool   `conf:"default:true"`
		}

		Auth struct {
			Keys        string        `conf:"default:/etc/rsa-keys"`
			ActiveKey   string        `conf:"default:f7b7936a-1ca3-4015-811b-ec31b61e3071"`
			Issuer      string        `conf:"default:signup service"`
			TokenMaxAge time.Duration `conf:"default:1h"`
		}

		Tempo struct {
			//empty disables tracing, "stdout" prints spans.
			Host        string  `conf:"default:tempo:4317"`
			ServiceName string  `conf:"default:signup-service"`
			Probability float64 `conf:"default:0.5"`
		}
	}{
		Version: conf.Version{
			Build: build,
			Desc:  "account signup service",
		},
	}

	const prefix = "SIGNUP"
	help, err := conf.Parse(prefix, &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
			return nil
		}
		return fmt.Errorf("parsing conf: %w", err)
	}

	out, err := conf.String(&cfg)
	if err != nil {
		return fmt.Errorf("conf to string: %w", err)
	}

	log.Info(ctx, "app configuration", "cfg", out)

	//==========================================================================
	// Trace init
	cleanup, err := telemetry.SetupOTelSDK(telemetry.Config{
		ServiceName: cfg.Tempo.ServiceName,
		Host:        cfg.Tempo.Host,
		ExcludedRoutes: map[string]struct{}{
			"/v1/liveness":  {},
			"/v1/readiness": {},
		},
		Probability: cfg.Tempo.Probability,
		Build:       build,
	})
	if err != nil {
		return fmt.Errorf("setupOTelSDK: %w", err)
	}

	defer cleanup(context.Background())

	tracer := telemetry.Tracer(cfg.Tempo.ServiceName)

	log.Info(ctx, "tracer initialized", "host", cfg.Tempo.Host, "probability", cfg.Tempo.Probability)

	//==========================================================================
	// Database init
	db, err := sqldb.Open(sqldb.Config{
		User:         cfg.DB.User,
		Password:     cfg.DB.Password,
		Host:         cfg.DB.Host,
		Name:         cfg.DB.Name,
		MaxIdleConns: cfg.DB.MaxIdleConn,
		MaxOpenConns: cfg.DB.MaxOpenConn,
		DisableTLS:   cfg.DB.DisableTLS,
	})
	if err != nil {
		return fmt.Errorf("failed to open connection to database: %w", err)
	}

	defer db.Close()

	log.Info(ctx, "database initialized", "host", cfg.DB.Host)

	//==========================================================================
	// Auth init
	ks := keystore.New()

	count, err := ks.LoadFromFileSystem(os.DirFS(cfg.Auth.Keys))
	if err != nil {
		return fmt.Errorf("loadFromFileSystem: %w", err)
	}

	if err := ks.SetActiveKey(cfg.Auth.ActiveKey); err != nil {
		return fmt.Errorf("setActiveKey: %w", err)
	}

	a := auth.New(ks, cfg.Auth.Issuer)

	log.Info(ctx, "auth initialized", "keyCount", count, "activeKID", ks.ActiveKid())

	//==========================================================================
	// Debug server
	go func() {
		log.Info(ctx, "debug server starting", "host", cfg.Web.DebugHost)
		if err := http.ListenAndServe(cfg.Web.DebugHost, debug.Mux(build)); err != nil {
			log.Error(ctx, "debug server failed", "host", cfg.Web.DebugHost, "err", err.Error())
		}
	}()

	//==========================================================================
	// Health server
	health := healthHandlers.RegisterRoutes(healthHandlers.Conf{
		DB:    db,
		Log:   log,
		Build: build,
	})

	go func() {
		log.Info(ctx, "health server starting", "host", cfg.Web.HealthHost)
		if err := http.ListenAndServe(cfg.Web.HealthHost, health); err != nil {
			log.Error(ctx, "health server failed", "host", cfg.Web.HealthHost, "err", err.Error())
		}
	}()

	//==========================================================================
	// Router init
	if build != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	//middleware stack, errors sits last so it runs first on the way out.
	r.Use(mid.Telemetry(tracer))
	r.Use(mid.Logger(log))
	r.Use(mid.Metrics(metrics.New()))
	r.Use(mid.Panic(log))
	r.Use(mid.Errors(log))

	accBus := bus.New(accountdb.NewStore(db, tracer))

	accountHandlers.RegisterRoutes(accountHandlers.Conf{
		Router:         r,
		AccountBus:     accBus,
		EmailValidator: emailvalidator.New(),
		Auth:           a,
		Kid:            ks.ActiveKid(),
		TokenMaxAge:    cfg.Auth.TokenMaxAge,
		Tracer:         tracer,
		Logger:         log,
	})

	//==========================================================================
	// API Server
	server := http.Server{
		Addr:              cfg.Web.APIHost,
		Handler:           r,
		ReadTimeout:       cfg.Web.ReadTimeout,
		ReadHeaderTimeout: cfg.Web.ReadHeaderTimeout,
		WriteTimeout:      cfg.Web.WriteTimeout,
		IdleTimeout:       cfg.Web.IdleTimeout,
		ErrorLog:          log.StdLogger(logger.LevelError),
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	serverErrs := make(chan error, 1)

	go func() {
		log.Info(ctx, "API server starting", "host", cfg.Web.APIHost)
		serverErrs <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErrs:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		log.Info(ctx, "server received a shutdown signal")
		defer log.Info(ctx, "server completed the shutdown process")

		//ctx is already cancelled here.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Web.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			server.Close()
			return fmt.Errorf("failed to gracefully shutdown the server: %w", err)
		}
	}

	return nil
}
