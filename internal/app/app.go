package app

import (
	"context"
	"os"
	"time"
	_ "time/tzdata"

	evbus "github.com/asaskevich/EventBus"
	"github.com/robfig/cron/v3"
	"github.com/storeops/storeconsole/config"
	"github.com/storeops/storeconsole/internal/backend"
	"github.com/storeops/storeconsole/internal/integrity"
	"github.com/storeops/storeconsole/internal/view"
	"github.com/storeops/storeconsole/pkg/metrics"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// TopicMutation is published after every successful mutation on either
// collection. The application listens and rebuilds the view, so the UI is
// never served a join computed before the mutation.
const TopicMutation = "console.mutation"

type Application struct {
	appConfig   *config.AppConfig
	products    *backend.ProductClient
	orders      *backend.OrderClient
	guard       *integrity.Guard
	coordinator *integrity.Coordinator
	refresher   *view.Refresher
	bus         evbus.Bus
	sched       *cron.Cron

	probes *probeBoard
}

// Ensure Application implements all provider interfaces
var (
	_ ConfigProvider    = (*Application)(nil)
	_ BackendProvider   = (*Application)(nil)
	_ IntegrityProvider = (*Application)(nil)
	_ ViewProvider      = (*Application)(nil)
	_ BusProvider       = (*Application)(nil)
	_ HealthProvider    = (*Application)(nil)
)

func NewApplication(appConfig *config.AppConfig) *Application {
	return &Application{appConfig: appConfig}
}

func (a *Application) Config() *config.AppConfig           { return a.appConfig }
func (a *Application) Products() *backend.ProductClient    { return a.products }
func (a *Application) Orders() *backend.OrderClient        { return a.orders }
func (a *Application) Guard() *integrity.Guard             { return a.guard }
func (a *Application) Coordinator() *integrity.Coordinator { return a.coordinator }
func (a *Application) Refresher() *view.Refresher          { return a.refresher }
func (a *Application) Bus() evbus.Bus                      { return a.bus }

// Scheduler returns the cron scheduler
func (a *Application) Scheduler() *cron.Cron { return a.sched }

func (a *Application) Init(cfg *config.AppConfig) {
	loc, err := time.LoadLocation(cfg.System.Location)
	if err != nil {
		zap.S().Error("timezone config error")
	} else {
		time.Local = loc
	}

	// Initialize zap logger
	var zapConfig zap.Config
	if cfg.Logger.Mode == "production" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}

	zapConfig.OutputPaths = []string{"stdout"}
	if cfg.Logger.FileEnable {
		zapConfig.OutputPaths = append(zapConfig.OutputPaths, cfg.Logger.Filename)
	}

	// Build logger with file rotation if enabled
	var logger *zap.Logger
	if cfg.Logger.FileEnable {
		lumberJackLogger := &lumberjack.Logger{
			Filename:   cfg.Logger.Filename,
			MaxSize:    64,
			MaxBackups: 7,
			MaxAge:     7,
			Compress:   false,
		}

		core := zapcore.NewTee(
			zapcore.NewCore(
				zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
				zapcore.AddSync(lumberJackLogger),
				zapConfig.Level,
			),
			zapcore.NewCore(
				zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
				zapcore.AddSync(os.Stdout),
				zapConfig.Level,
			),
		)
		logger = zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
	} else {
		logger, err = zapConfig.Build(zap.AddCaller(), zap.AddCallerSkip(1))
		if err != nil {
			panic(err)
		}
	}

	zap.ReplaceGlobals(logger)

	// Initialize metrics with workdir convention
	err = metrics.InitMetrics(cfg.System.Workdir)
	if err != nil {
		zap.S().Warn("Failed to initialize metrics:", err)
	}

	timeout := cfg.BackendTimeout()
	a.products = backend.NewProductClient(cfg.Backend.ProductURL, timeout)
	a.orders = backend.NewOrderClient(cfg.Backend.OrderURL, timeout)

	a.guard = integrity.NewGuard(a.orders)
	a.coordinator = integrity.NewCoordinator(a.guard, a.products)
	a.refresher = view.NewRefresher(a.products, a.orders)

	a.probes = newProbeBoard()

	a.bus = evbus.New()
	if err := a.bus.Subscribe(TopicMutation, a.onMutation); err != nil {
		zap.S().Errorf("subscribe mutation topic failed: %v", err)
	}

	a.initJob()
}

// onMutation rebuilds the view after any successful create/update/delete.
// A refresh failure here keeps the previous snapshot installed and is only
// logged; the next mutation or the periodic job will try again.
func (a *Application) onMutation(resource, action string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*a.appConfig.BackendTimeout())
	defer cancel()

	if _, err := a.refresher.RefreshAll(ctx); err != nil {
		zap.L().Warn("post-mutation refresh failed",
			zap.String("resource", resource),
			zap.String("action", action),
			zap.Error(err),
		)
		return
	}
	metrics.SetGauge("view_refresh_mutations", 1)
}

// NotifyMutation publishes a mutation event for the given resource/action.
func (a *Application) NotifyMutation(resource, action string) {
	a.bus.Publish(TopicMutation, resource, action)
}

// InitialLoad performs the first refresh so the console does not come up
// with an empty view. Failure is tolerated: the view stays nil and the UI
// sees an explicit refresh error until a retry succeeds.
func (a *Application) InitialLoad(ctx context.Context) {
	if _, err := a.refresher.RefreshAll(ctx); err != nil {
		zap.L().Warn("initial view load failed", zap.Error(err))
	}
}

// Release releases application resources
func (a *Application) Release() {
	if a.sched != nil {
		a.sched.Stop()
	}
	_ = metrics.Close()
	_ = zap.L().Sync()
}
