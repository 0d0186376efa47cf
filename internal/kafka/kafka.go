// Package kafka bootstraps the gallery-events topic and waits for the broker to accept connections
package kafka

import (
	"context"
	"errors"
	"fmt"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/wb-go/wbf/zlog"
)

// InitKafkaTopics - creates topics in kafka, already existing topics are fine
func InitKafkaTopics(ctx context.Context, brokerAddr string, delay time.Duration, attempts int, topics ...string) error {
	client := &kafkago.Client{
		Addr:    kafkago.TCP(brokerAddr),
		Timeout: 10 * time.Second,
	}

	req := kafkago.CreateTopicsRequest{
		Topics: make([]kafkago.TopicConfig, 0, len(topics)),
	}
	for _, t := range topics {
		req.Topics = append(req.Topics, kafkago.TopicConfig{
			Topic:             t,
			NumPartitions:     1,
			ReplicationFactor: 1,
		})
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			if err := sleepCtx(ctx, delay); err != nil {
				return err
			}
		}

		resp, err := client.CreateTopics(ctx, &req)
		if err != nil {
			lastErr = err
			zlog.Logger.Warn().Err(err).Msgf("Failed to run topics creation request. Wait %v before next try...", delay)
			continue
		}

		failed := 0
		for k, v := range resp.Errors {
			if v == nil || errors.Is(v, kafkago.TopicAlreadyExists) {
				continue
			}
			failed++
			lastErr = v
			zlog.Logger.Warn().Err(v).Str("topic", k).Msg("Topic creation error")
		}
		if failed == 0 {
			zlog.Logger.Info().Strs("topics", topics).Msg("Kafka topics are ready")
			return nil
		}
	}
	return fmt.Errorf("create kafka topics: %w", lastErr)
}

// WaitKafkaReady - dials the broker until it answers or attempts run out
func WaitKafkaReady(ctx context.Context, brokerAddr string, attempts int, delay time.Duration) error {
	var lastErr error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			if err := sleepCtx(ctx, delay); err != nil {
				return err
			}
		}

		var d kafkago.Dialer
		conn, err := d.DialContext(ctx, "tcp", brokerAddr)
		if err != nil {
			lastErr = err
			zlog.Logger.Warn().Msgf("Kafka not ready, retrying in %v...", delay)
			continue
		}
		if errConn := conn.Close(); errConn != nil {
			zlog.Logger.Warn().Err(errConn).Msg("Failed to close connection after testing Kafka readiness")
		}
		zlog.Logger.Info().Msg("Kafka is ready!")
		return nil
	}
	return fmt.Errorf("kafka broker %s unreachable: %w", brokerAddr, lastErr)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
