// Package main (in worker-subfolder) launches the gallery events audit worker
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/UnendingLoop/DroneGallery/internal/kafka"
	"github.com/UnendingLoop/DroneGallery/internal/worker"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/wb-go/wbf/config"
	wbfkafka "github.com/wb-go/wbf/kafka"
	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"
)

func main() {
	// инициализировать конфиг/ считать энвы
	appConfig := config.New()
	appConfig.EnableEnv("")
	if err := appConfig.LoadEnvFiles("./.env"); err != nil {
		log.Printf("No .env loaded (%v), using process environment", err)
	}

	zlog.InitConsole()
	if err := zlog.SetLevel(envOr(appConfig, "LOG_LEVEL", "info")); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}

	broker := appConfig.GetString("KAFKA_BROKER")
	if broker == "" {
		zlog.Logger.Fatal().Msg("KAFKA_BROKER is not set, nothing to consume")
	}
	topic := envOr(appConfig, "KAFKA_TOPIC", "gallery-events")
	groupID := envOr(appConfig, "KAFKA_GROUPID", "gallery-audit")

	// Listening to interruptions through context
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ждем пока кафка раздуплится
	if err := kafka.WaitKafkaReady(ctx, broker, 10, 5*time.Second); err != nil {
		zlog.Logger.Fatal().Err(err).Msg("Kafka is unavailable")
	}
	if err := kafka.InitKafkaTopics(ctx, broker, 5*time.Second, 5, topic); err != nil {
		zlog.Logger.Warn().Err(err).Msg("Failed to create gallery events topic")
	}

	// подключиться к кафке как читатель
	queue := make(chan kafkago.Message)
	retryStrategy := retry.Strategy{
		Attempts: 5,
		Delay:    2 * time.Second,
		Backoff:  1.5,
	}
	cons := wbfkafka.NewConsumer([]string{broker}, topic, groupID)
	cons.StartConsuming(ctx, queue, retryStrategy)

	w := worker.NewWorkerInstance(queue, cons)
	go w.StartWorker(ctx)

	<-ctx.Done()

	shutdown(cons, w)
	zlog.Logger.Info().Msg("Exiting worker...")
}

func envOr(cfg *config.Config, key, fallback string) string {
	if v := strings.TrimSpace(cfg.GetString(key)); v != "" {
		return v
	}
	return fallback
}

func shutdown(cons *wbfkafka.Consumer, w *worker.Worker) {
	zlog.Logger.Info().Msg("Interrupt received!!! Starting shutdown sequence...")

	if err := cons.Close(); err != nil {
		zlog.Logger.Error().Err(err).Msg("Failed to close Kafka-reader")
	}
	zlog.Logger.Info().Msg("Kafka-consumer connection closed.")

	st := w.Stats()
	zlog.Logger.Info().
		Int("uploaded", st.Uploaded).
		Int("deleted", st.Deleted).
		Int("malformed", st.Malformed).
		Msg("Gallery events processed")
}
