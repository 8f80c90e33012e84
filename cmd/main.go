package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/avbaser/coldstore/internal/cache"
	"github.com/avbaser/coldstore/internal/db"
	"github.com/avbaser/coldstore/internal/kafka"
	"github.com/avbaser/coldstore/internal/logger"
	"github.com/avbaser/coldstore/internal/repository/postgresql"
	"github.com/avbaser/coldstore/internal/server"
	"github.com/avbaser/coldstore/internal/storage"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log := logger.New()
	defer func() {
		_ = log.Sync()
	}()

	database, err := db.NewDb(ctx)
	if err != nil {
		log.Fatal("database init failed", zap.Error(err))
	}
	defer database.Close()

	if err := db.InitAdmin(ctx, database); err != nil {
		log.Fatal("admin init failed", zap.Error(err))
	}

	itemRepo := postgresql.NewItemRepo(database)
	historyRepo := postgresql.NewHistoryRepo(database)
	outboxRepo := postgresql.NewOutboxTaskRepo()
	userRepo := postgresql.NewUserRepo(database)

	itemCache := cache.NewItemCache(itemRepo, log)
	if err := itemCache.LoadInitialData(ctx); err != nil {
		log.Warn("item cache preload failed", zap.Error(err))
	}

	stg := storage.NewStorage(database, itemRepo, historyRepo, outboxRepo, itemCache, log)

	var producer kafka.Producer
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		producer = kafka.NewKafkaProducer(strings.Split(brokers, ","), log)
	} else {
		producer = kafka.NewConsoleProducer(log)
	}

	publisher := kafka.NewPublisher(database, outboxRepo, producer, kafka.PublisherConfig{
		PollInterval: 2 * time.Second,
		BatchSize:    20,
		MaxAttempts:  5,
	}, log)

	srv := server.New(stg, userRepo, log)

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "9000"
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(port)
	})
	g.Go(func() error {
		publisher.Run(gctx)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("stopped with error", zap.Error(err))
		return
	}
	log.Info("gracefully stopped")
}
