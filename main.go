package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"cowrie/config"
	"cowrie/game"
	"cowrie/server"
)

// Cowrie 入口：启动 HTTP + WebSocket 服务，房间状态全部保存在本进程内存中
func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "path to YAML config file (optional)")
	flag.Parse()

	// 本地开发时读取 .env，文件不存在则忽略
	_ = godotenv.Load()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	logger, err := server.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	hub := server.NewHub(logger.Named("hub"))
	rooms := game.NewRegistry(hub, game.NewCryptoSource())
	metrics := server.NewMetrics(rooms)
	dispatcher := server.NewDispatcher(rooms, hub, game.NewCryptoSource(), metrics, logger.Named("dispatch"))
	ws := server.NewWSHandler(hub, dispatcher, cfg.WebSocket, logger.Named("ws"))

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           server.NewRouter(cfg.Server.StaticDir, ws, rooms, metrics),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Sugar().Infof("Cowrie listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("listen", zap.Error(err))
			stop()
		}
	}()

	// 优雅退出（Ctrl+C）
	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
	live, players := rooms.Stats()
	logger.Info("shutdown complete", zap.Int("rooms", live), zap.Int("players", players))
}
