package checkout

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/exp/slog"
	"golang.org/x/time/rate"

	"github.com/novacart/checkout/internal/countdown"
	"github.com/novacart/checkout/internal/events"
	"github.com/novacart/checkout/internal/kv"
	"github.com/novacart/checkout/internal/metrics"
	"github.com/novacart/checkout/internal/middleware"
	"github.com/novacart/checkout/internal/sl"
)

// App is the main application, it contains all the components of the checkout
// service and is responsible for starting and stopping them.
type App struct {
	srv     *http.Server
	wg      *sync.WaitGroup
	Addr    string
	logger  *slog.Logger
	config  *Config
	closers []io.Closer

	// Store overrides the configured backend when set before Start.
	Store kv.Store
	// Publisher overrides the configured event publisher when set before Start.
	Publisher events.Publisher
	Metrics   *metrics.Metrics
}

func NewApp(logger *slog.Logger, config *Config) *App {
	logger = logger.With(slog.String("app", "checkout"))

	if config == nil {
		config = DefaultConfig()
	}

	return &App{
		wg:     &sync.WaitGroup{},
		logger: logger,
		config: config,
	}
}

func (a *App) Start() error {
	a.logger.Info("starting app...")

	if err := a.config.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	loc, err := a.config.Location()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if a.Store == nil {
		store, err := a.openStore(ctx)
		if err != nil {
			a.closeAll()
			return err
		}
		a.Store = store
	}
	if a.Publisher == nil {
		publisher, err := a.openPublisher()
		if err != nil {
			a.closeAll()
			return err
		}
		a.Publisher = publisher
	}
	if a.Metrics == nil {
		a.Metrics = metrics.New()
	}

	repository := NewRepository(a.Store)
	svc := NewService(a.logger, repository,
		WithPublisher(a.Publisher),
		WithMetrics(a.Metrics),
		WithLocation(loc),
	)
	timer := countdown.New(a.Store, a.logger)

	router := chi.NewRouter()
	router.Use(chimw.RequestID)
	router.Use(chimw.Recoverer)
	router.Use(middleware.NewStructuredLogger(a.logger))
	router.Use(middleware.Instrument(a.Metrics))

	router.Get("/-/live", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	router.Get("/-/ready", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := svc.Ping(ctx); err != nil {
			http.Error(w, "store not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	router.Handle("/metrics", a.Metrics.Handler())

	api := NewAPI(a.logger, svc, timer)
	router.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(a.logger, a.limiter()))
		api.AppendRoutes(r)
	})

	l, err := net.Listen("tcp", a.config.HTTPAddr)
	if err != nil {
		a.closeAll()
		return fmt.Errorf("listening tcp port: %w", err)
	}

	a.Addr = l.Addr().String()

	a.srv = &http.Server{
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		a.logger.Info("http server started", slog.String("addr", a.Addr))

		if err := a.srv.Serve(l); err != nil && err != http.ErrServerClosed {
			a.logger.Error("serving http", sl.Err(err))
		}
		a.logger.Info("http server stopped")
	}()

	return nil
}

func (a *App) openStore(ctx context.Context) (kv.Store, error) {
	cfg := a.config.Store
	switch cfg.Backend {
	case BackendMemory:
		return kv.NewMemory(), nil
	case BackendRedis:
		r := cfg.Redis
		store, err := kv.DialRedis(ctx, kv.RedisOptions{
			Addr:        r.Addr,
			Username:    r.Username,
			Password:    r.Password,
			DB:          r.DB,
			MaxRetries:  r.MaxRetries,
			DialTimeout: r.DialTimeout,
			Timeout:     r.Timeout,
			TTL:         r.TTL,
			Prefix:      r.Prefix,
		})
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, store)
		return store, nil
	case BackendPostgres:
		store, err := kv.OpenPostgres(ctx, cfg.DSN)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, store)
		if cfg.Migrate {
			if err := store.Migrate(); err != nil {
				return nil, err
			}
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported store backend %q", cfg.Backend)
	}
}

func (a *App) openPublisher() (events.Publisher, error) {
	if a.config.Events.AMQPURL == "" {
		a.logger.Info("no AMQP url configured, order events are dropped")
		return events.Nop{}, nil
	}
	p, err := events.DialAMQP(a.config.Events.AMQPURL, a.config.Events.Exchange, 3, time.Second)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, p)
	return p, nil
}

func (a *App) limiter() *rate.Limiter {
	rl := a.config.RateLimit
	if rl.RPS <= 0 {
		return nil
	}
	burst := rl.Burst
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(rl.RPS), burst)
}

func (a *App) closeAll() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			a.logger.Error("closing resource", sl.Err(err))
		}
	}
	a.closers = nil
}

func (a *App) Shutdown() {
	a.logger.Info("shutting down app...")

	timeout := a.config.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if a.srv != nil {
		if err := a.srv.Shutdown(ctx); err != nil {
			a.logger.Error("shutting down http server", sl.Err(err))
		}
	}
	a.wg.Wait()
	a.closeAll()

	a.logger.Info("app stopped")
}
