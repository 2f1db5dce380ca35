package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/minaorangina/guinote/config"
	"github.com/minaorangina/guinote/server"
	"github.com/minaorangina/guinote/store"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err.Error())
	}

	logger, err := cfg.Logger()
	if err != nil {
		log.Fatal(err.Error())
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var str store.GameStore = store.NewInMemoryGameStore()
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, DB: cfg.RedisDB})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Fatal("redis unreachable", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		}
		defer rdb.Close()
		str = store.NewRedisGameStore(rdb, logger)
		logger.Info("storing games in redis", zap.String("addr", cfg.RedisAddr), zap.Int("db", cfg.RedisDB))
	}

	s := server.NewServer(str, server.ServerOpts{
		Logger:      logger,
		MatchOpts:   cfg.MatchOpts(),
		TurnTimeout: cfg.TurnTimeout,
		BotDelay:    cfg.BotDelay,
	})
	s.Addr = cfg.Addr

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown", zap.Error(err))
		}
	}()

	logger.Info("listening", zap.String("addr", cfg.Addr))
	if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("serve", zap.Error(err))
	}
	s.Close()
}
