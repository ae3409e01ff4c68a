package main

import (
	"context"
	"encoding/json"
	"os/signal"
	"syscall"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/custody/internal/config"
	"gitlab.ozon.dev/pupkingeorgij/custody/internal/logger"
	"gitlab.ozon.dev/pupkingeorgij/custody/internal/repository"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log := logger.New("info")
	cfg, err := config.Load(log)
	if err != nil {
		log.Fatal("config error", zap.Error(err))
	}
	if len(cfg.KafkaBrokers) == 0 {
		log.Fatal("KAFKA_BROKERS is not set")
	}

	log.Info("Starting Kafka Consumer...")

	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.KafkaBrokers,
		GroupID:        cfg.ConsumerGroup,
		Topic:          cfg.EventsTopic,
		MinBytes:       10e3,
		MaxBytes:       10e6,
		CommitInterval: time.Second,
		MaxWait:        3 * time.Second,
	})
	defer func() {
		log.Info("Closing Kafka reader...")
		if err := r.Close(); err != nil {
			log.Error("Error closing Kafka reader", zap.Error(err))
		}
	}()

	log.Info("Consumer connected",
		zap.String("topic", cfg.EventsTopic),
		zap.Strings("brokers", cfg.KafkaBrokers),
	)

	for {
		m, err := r.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("Context cancelled, exiting message loop.")
				return
			}
			log.Error("Error reading message", zap.Error(err))
			select {
			case <-ctx.Done():
				return
			case <-time.After(5 * time.Second):
			}
			continue
		}

		fields := []zap.Field{
			zap.Time("timestamp", m.Time),
			zap.Int("partition", m.Partition),
			zap.Int64("offset", m.Offset),
			zap.ByteString("key", m.Key),
		}

		var event repository.CustodyEventPayload
		if err := json.Unmarshal(m.Value, &event); err != nil {
			log.Warn("Undecodable custody event", append(fields, zap.ByteString("value", m.Value), zap.Error(err))...)
			continue
		}
		log.Info("Custody event", append(fields,
			zap.String("type", string(event.Type)),
			zap.Int64("device_id", event.DeviceID),
			zap.Int64("request_id", event.RequestID),
			zap.String("status", string(event.Status)),
		)...)
	}
}
