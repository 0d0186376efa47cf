// Package main (in web-subfolder) launches the gallery web UI
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

	appconfig "github.com/UnendingLoop/DroneGallery/internal/config"
	"github.com/UnendingLoop/DroneGallery/internal/imageapi"
	"github.com/UnendingLoop/DroneGallery/internal/kafka"
	"github.com/UnendingLoop/DroneGallery/internal/model"
	"github.com/UnendingLoop/DroneGallery/internal/mwlogger"
	"github.com/UnendingLoop/DroneGallery/internal/service"
	"github.com/UnendingLoop/DroneGallery/internal/storage"
	"github.com/UnendingLoop/DroneGallery/internal/transport"
	"github.com/UnendingLoop/DroneGallery/internal/web"
	"github.com/wb-go/wbf/config"
	wbfkafka "github.com/wb-go/wbf/kafka"
	"github.com/wb-go/wbf/zlog"
)

func main() {
	// инициализировать конфиг/ считать энвы
	rawConfig := config.New()
	rawConfig.EnableEnv("")
	if err := rawConfig.LoadEnvFiles("./.env"); err != nil {
		log.Printf("No .env loaded (%v), using process environment", err)
	}
	appConfig, err := appconfig.Load(rawConfig)
	if err != nil {
		log.Fatalf("Invalid configuration: %v\nExiting app...", err)
	}

	// стартуем логгер
	zlog.InitConsole()
	if err := zlog.SetLevel(appConfig.LogLevel); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}

	// готовим заранее слушатель прерываний - контекст для всего приложения
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// клиент сервиса фотографий
	client, err := imageapi.NewClient(appConfig.BackendAddr, appConfig.BackendTimeout)
	if err != nil {
		zlog.Logger.Fatal().Err(err).Msg("Invalid BACKEND_ADDR")
	}

	// хранилище выбранных файлов
	pending, err := storage.NewPendingStorage(ctx, appConfig, 5*time.Second, 10)
	if err != nil {
		zlog.Logger.Fatal().Err(err).Msg("Pending-upload storage is unavailable")
	}

	// паблишер событий: кафка если задана, иначе заглушка
	pub, producer := initPublisher(ctx, appConfig)

	msgs := model.MessagesFor(appConfig.Lang)
	sessions := service.NewSessions(func(id string) *service.GalleryService {
		return service.NewGalleryService(client, pending, pub, service.Options{
			Mode:          appConfig.UploadMode,
			FixedLocation: appConfig.FixedLocation,
			Messages:      msgs,
			SessionID:     id,
		})
	}, appConfig.SessionTTL)

	// cоздаем экземпляр хендлера HTTP
	handlers := transport.NewGalleryHandler(sessionProvider{sessions: sessions}, client)

	tmpl, err := web.Templates()
	if err != nil {
		zlog.Logger.Fatal().Err(err).Msg("Failed to parse templates")
	}

	// сетапим сервер
	engine := newRouter(appConfig, tmpl, handlers)

	srv := &http.Server{
		Addr:              ":" + appConfig.Port,
		Handler:           mwlogger.NewMWLogger(engine),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Server launch
	go func() {
		zlog.Logger.Info().Msgf("Server running on http://localhost%s", srv.Addr)
		err := srv.ListenAndServe()
		if err != nil {
			switch {
			case errors.Is(err, http.ErrServerClosed):
				zlog.Logger.Info().Msg("Server gracefully stopping...")
			default:
				zlog.Logger.Error().Err(err).Msg("Server stopped")
				stop()
			}
		}
	}()

	// фоновая чистка простаивающих сессий
	go janitorLoop(ctx, sessions, time.Minute)

	<-ctx.Done()

	shutdown(srv, sessions, producer)
	zlog.Logger.Info().Msg("Exiting web...")
}

func initPublisher(ctx context.Context, cfg *appconfig.AppConfig) (service.EventPublisher, *wbfkafka.Producer) {
	if cfg.KafkaBroker == "" {
		zlog.Logger.Info().Msg("KAFKA_BROKER is empty, gallery events are not published")
		return service.NoopPublisher{}, nil
	}

	// ждем пока кафка раздуплится
	if err := kafka.WaitKafkaReady(ctx, cfg.KafkaBroker, 10, 5*time.Second); err != nil {
		zlog.Logger.Warn().Err(err).Msg("Kafka is unavailable, gallery events are not published")
		return service.NoopPublisher{}, nil
	}
	if err := kafka.InitKafkaTopics(ctx, cfg.KafkaBroker, 5*time.Second, 5, cfg.KafkaTopic); err != nil {
		zlog.Logger.Warn().Err(err).Msg("Failed to create gallery events topic")
	}

	producer := wbfkafka.NewProducer([]string{cfg.KafkaBroker}, cfg.KafkaTopic)
	return producer, producer
}

func janitorLoop(ctx context.Context, j SessionJanitor, every time.Duration) {
	defer func() {
		if r := recover(); r != nil {
			zlog.Logger.Error().Msgf("Session janitor crashed: %v", r)
		}
	}()

	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := j.EvictIdle(context.Background()); n > 0 {
				zlog.Logger.Debug().Int("evicted", n).Msg("Idle gallery sessions dropped")
			}
		}
	}
}

func shutdown(srv *http.Server, sessions *service.Sessions, producer *wbfkafka.Producer) {
	zlog.Logger.Info().Msg("Interrupt received!!! Starting shutdown sequence...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zlog.Logger.Error().Err(err).Msg("Failed to shutdown HTTP server correctly")
	}

	// выбранные, но не загруженные файлы больше никому не нужны
	sessions.CloseAll(ctx)

	if producer != nil {
		if err := producer.Close(); err != nil {
			zlog.Logger.Error().Err(err).Msg("Failed to close Kafka-producer")
		}
		zlog.Logger.Info().Msg("Kafka-producer connection closed.")
	}
}
