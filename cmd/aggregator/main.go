package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/IBM/sarama"

	"github.com/gometeo/cityweather/internal/config"
	"github.com/gometeo/cityweather/internal/events"
)

func main() {
	cfg, err := config.LoadAggregator()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := setupLogger(cfg.Env, cfg.LogLevel)
	logger.Info("starting selection aggregator",
		"brokers", cfg.KafkaBrokers,
		"topic", cfg.KafkaTopic,
		"group", cfg.ConsumerGroup)

	// 1. Kafka consumer group
	saramaCfg := sarama.NewConfig()
	saramaCfg.Consumer.Return.Errors = true
	saramaCfg.Consumer.Offsets.Initial = sarama.OffsetOldest

	var consumer sarama.ConsumerGroup
	maxRetries := 5
	for i := 0; i < maxRetries; i++ {
		consumer, err = sarama.NewConsumerGroup(cfg.KafkaBrokers, cfg.ConsumerGroup, saramaCfg)
		if err == nil {
			break
		}
		logger.Warn("kafka not reachable, retrying in 3s",
			"attempt", i+1, "of", maxRetries, "error", err)
		time.Sleep(3 * time.Second)
	}
	if consumer == nil {
		logger.Error("failed to create kafka consumer", "error", err)
		os.Exit(1)
	}

	tally := events.NewTally()
	handler := events.NewTallyHandler(tally, logger)

	ctx, cancel := context.WithCancel(context.Background())
	wg := &sync.WaitGroup{}

	// 2. Consume loop
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			if err := consumer.Consume(ctx, []string{cfg.KafkaTopic}, handler); err != nil {
				logger.Error("kafka consume failed", "error", err)
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		for err := range consumer.Errors() {
			logger.Error("kafka consumer error", "error", err)
		}
	}()

	// 3. Periodic report
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(cfg.ReportEvery)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				report(logger, tally, cfg.TopN)
				return
			case <-ticker.C:
				report(logger, tally, cfg.TopN)
			}
		}
	}()

	// 4. Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("stopping aggregator")
	cancel()
	if err := consumer.Close(); err != nil {
		logger.Error("kafka consumer close failed", "error", err)
	}
	wg.Wait()
}

func report(logger *slog.Logger, tally *events.Tally, n int) {
	top := tally.Top(n)
	if len(top) == 0 {
		logger.Info("no selections yet")
		return
	}

	logger.Info("selection tally", "total", tally.Total(), "cities", len(top))
	for i, cc := range top {
		logger.Info("top city",
			"rank", i+1,
			"city_id", cc.CityID,
			"city", cc.City,
			"country", cc.Country,
			"count", cc.Count,
			"random", cc.Sources[events.SourceRandom],
			"search", cc.Sources[events.SourceSearch],
			"result", cc.Sources[events.SourceResult])
	}
}

func setupLogger(env, level string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if strings.EqualFold(level, "debug") {
		opts.Level = slog.LevelDebug
	}

	var handler slog.Handler = slog.NewTextHandler(os.Stdout, opts)
	if env == "production" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	return slog.New(handler)
}
