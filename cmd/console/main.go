package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/storeops/storeconsole/config"
	"github.com/storeops/storeconsole/internal/adminapi"
	"github.com/storeops/storeconsole/internal/app"
	"github.com/storeops/storeconsole/internal/webserver"
	"go.uber.org/zap"
)

var (
	showHelp = flag.Bool("h", false, "show help")
	conffile = flag.String("c", "/etc/storeconsole.yml", "config file path")
)

func main() {
	flag.Parse()
	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	cfg := config.LoadConfig(*conffile)

	application := app.NewApplication(cfg)
	application.Init(cfg)
	defer application.Release()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	loadCtx, loadCancel := context.WithTimeout(ctx, 2*cfg.BackendTimeout())
	application.InitialLoad(loadCtx)
	loadCancel()

	ws := webserver.Init(cfg)
	adminapi.Register(adminapi.NewHandlers(application))

	errCh := make(chan error, 1)
	go func() {
		errCh <- ws.Start()
	}()

	select {
	case <-ctx.Done():
		zap.S().Info("shutdown signal received")
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			zap.S().Errorf("web server error: %v", err)
			fmt.Fprintln(os.Stderr, err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := ws.Stop(shutdownCtx); err != nil {
		zap.S().Errorf("web server shutdown error: %v", err)
	}
}
