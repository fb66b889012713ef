// Package server wires the backing services and runs the public and
// private HTTP listeners.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ncobase/cargohold/concurrency"
	"github.com/ncobase/cargohold/concurrency/worker"
	"github.com/ncobase/cargohold/config"
	"github.com/ncobase/cargohold/data"
	"github.com/ncobase/cargohold/data/repository"
	"github.com/ncobase/cargohold/event"
	"github.com/ncobase/cargohold/handler"
	"github.com/ncobase/cargohold/logging/logger"
	"github.com/ncobase/cargohold/oss"
	"github.com/ncobase/cargohold/service"
	"github.com/ncobase/cargohold/snowflake"
	"github.com/ncobase/cargohold/tracing"

	// database, cache and message drivers
	_ "github.com/ncobase/cargohold/data/mysql"
	_ "github.com/ncobase/cargohold/data/postgres"
	_ "github.com/ncobase/cargohold/data/rabbitmq"
	_ "github.com/ncobase/cargohold/data/redis"
	_ "github.com/ncobase/cargohold/data/sqlite"
)

// App holds everything a running server owns.
type App struct {
	conf    *config.Config
	logger  *logger.Logger
	data    *data.Data
	svc     *service.Service
	handler *handler.Handler
	events  *event.Dispatcher

	public  *http.Server
	private *http.Server

	cleanups []func()
}

// New connects the backing services and builds both HTTP servers.
func New(ctx context.Context, conf *config.Config, log *logger.Logger) (_ *App, err error) {
	app := &App{conf: conf, logger: log}
	defer func() {
		if err != nil {
			app.Close()
		}
	}()

	shutdownTracer, err := tracing.NewProvider(ctx, conf.Tracer)
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}
	app.cleanups = append(app.cleanups, func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracer(sctx); err != nil {
			log.Warn(sctx, "failed to flush traces", "error", err)
		}
	})

	d, cleanupData, err := data.New(ctx, conf.Data, log)
	if err != nil {
		return nil, fmt.Errorf("init data: %w", err)
	}
	app.data = d
	app.cleanups = append(app.cleanups, cleanupData)

	storage, err := oss.NewStorage(ctx, conf.Storage)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}
	log.Info(ctx, "object storage ready", "provider", conf.Storage.Provider, "endpoint", storage.Endpoint())

	ids, err := snowflake.New(conf.Snowflake.WorkerID, conf.Snowflake.DatacenterID)
	if err != nil {
		return nil, err
	}

	opts := []event.Option{event.WithTimeout(conf.Events.PublishTimeout)}
	if conf.Events.Workers > 0 {
		pool, err := worker.NewPool(&worker.Config{
			MaxWorkers: conf.Events.Workers,
			QueueSize:  conf.Events.QueueSize,
		}, nil)
		if err != nil {
			return nil, fmt.Errorf("init event workers: %w", err)
		}
		opts = append(opts, event.WithPool(pool))
	}
	app.events = event.NewDispatcher(newPublisher(conf, d), log, opts...)
	app.cleanups = append(app.cleanups, func() {
		if err := app.events.Close(); err != nil {
			log.Warn(context.Background(), "failed to close event publisher", "error", err)
		}
	})

	app.svc = service.New(conf, &service.Deps{
		Data:    d,
		Repos:   repository.New(d),
		Storage: storage,
		IDs:     ids,
		Events:  app.events,
		Logger:  log,
	})

	purposes, err := app.svc.Purpose.Upsert(ctx, conf.Files.AllowedPurposes)
	if err != nil {
		return nil, fmt.Errorf("register purposes: %w", err)
	}
	log.Info(ctx, "purposes registered", "purposes", purposes)

	if conf.RunMode != "" {
		gin.SetMode(conf.RunMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	var hopts []handler.Option
	if n := conf.Files.MaxConcurrentUploads; n > 0 {
		limiter, err := concurrency.NewLimiter(int32(n))
		if err != nil {
			return nil, err
		}
		hopts = append(hopts, handler.WithUploadLimit(limiter, conf.Files.UploadWait))
	}
	app.handler = handler.NewHandler(app.svc, d, conf.Files.MaxFileSizeBytes, log, hopts...)
	app.public = app.newHTTPServer(conf.Server.Public, app.handler.Public())
	app.private = app.newHTTPServer(conf.Server.Private, app.handler.Private())
	return app, nil
}

func newPublisher(conf *config.Config, d *data.Data) event.Publisher {
	if d.AMQP == nil {
		return event.Noop{}
	}
	exchange := "cargohold.events"
	if conf.Data.RabbitMQ != nil && conf.Data.RabbitMQ.Exchange != "" {
		exchange = conf.Data.RabbitMQ.Exchange
	}
	return event.NewRabbitMQ(d.AMQP, exchange)
}

func (a *App) newHTTPServer(l *config.Listener, h http.Handler) *http.Server {
	return &http.Server{
		Addr:         l.Addr(),
		Handler:      h,
		ReadTimeout:  a.conf.Server.ReadTimeout,
		WriteTimeout: a.conf.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}
}

// Service returns the business services.
func (a *App) Service() *service.Service { return a.svc }

// Run serves both listeners until ctx is done or one of them fails, then
// shuts both down gracefully.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 2)
	serve := func(name string, srv *http.Server) {
		a.logger.Info(ctx, "starting server", "api", name, "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("%s server: %w", name, err)
			return
		}
		errCh <- nil
	}
	go serve("public", a.public)
	go serve("private", a.private)

	var runErr error
	select {
	case <-ctx.Done():
		a.logger.Info(context.Background(), "shutting down servers")
	case runErr = <-errCh:
		a.logger.Error(context.Background(), "server stopped unexpectedly", "error", runErr)
	}

	sctx, cancel := context.WithTimeout(context.Background(), a.conf.Server.ShutdownTimeout)
	defer cancel()
	if err := errors.Join(a.public.Shutdown(sctx), a.private.Shutdown(sctx)); err != nil {
		a.logger.Error(sctx, "server forced to shutdown", "error", err)
		runErr = errors.Join(runErr, err)
	}

	a.logger.Info(context.Background(), "servers exited")
	return runErr
}

// Close releases the backing services in reverse order of acquisition.
func (a *App) Close() {
	for i := len(a.cleanups) - 1; i >= 0; i-- {
		a.cleanups[i]()
	}
	a.cleanups = nil
}
