// Command server hosts the WebSocket session gateway and the
// matchmaker registry for every live room in the process.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/amalg016/bomb-arena/internal/config"
	"github.com/amalg016/bomb-arena/internal/logging"
	"github.com/amalg016/bomb-arena/internal/matchmaker"
	"github.com/amalg016/bomb-arena/internal/transport"
)

func main() {
	cfg := config.Load(os.Args[1:])
	log := logging.New()
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}
	if cfg.LogFormat == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	}

	registry := matchmaker.New(log.WithField("component", "matchmaker"))
	gateway := transport.NewGateway(registry, log.WithField("component", "gateway"))

	mux := transport.Router(gateway, registry, cfg.DevMode)

	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: mux,
	}

	go func() {
		log.WithField("addr", cfg.ListenAddr).Info("listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("server exited")
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info("shutting down http server")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
}
