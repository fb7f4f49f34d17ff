// Worker tails session lifecycle events from Kafka and logs them as structured
// records, for operators watching a deployment without an OTLP pipeline.
// Set KAFKA_BROKERS and EVENT_KAFKA_TOPIC; KAFKA_GROUP_ID defaults to spinlink-event-worker.
package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"spinlink/internal/config"
	"spinlink/internal/logging"
	"spinlink/internal/telemetry/domain"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	brokers := cfg.EventKafkaBrokersList()
	if len(brokers) == 0 {
		log.Fatal("worker: KAFKA_BROKERS is required")
	}
	topic := cfg.EventKafkaTopic
	if topic == "" {
		topic = "spinlink-events"
	}
	groupID := os.Getenv("KAFKA_GROUP_ID")
	if groupID == "" {
		groupID = "spinlink-event-worker"
	}

	logger, err := logging.New(logging.FromEnv())
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logging.Sync(logger)
	logger = logger.With(logging.Component("event-worker"))

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       1,
		MaxBytes:       1 << 20,
		CommitInterval: time.Second,
	})
	defer reader.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("consuming events", zap.Strings("brokers", brokers), zap.String("topic", topic))
	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				logger.Info("shutting down")
				return
			}
			logger.Error("read message", zap.Error(err))
			continue
		}
		var event domain.SessionEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			logger.Warn("malformed event", zap.Error(err), zap.Int64("offset", msg.Offset))
			continue
		}
		logger.Info("event",
			zap.String("event_type", event.EventType),
			logging.Tenant(event.TenantID),
			logging.EndpointID(event.EndpointID),
			logging.ShowID(event.ShowID),
			logging.SessionID(event.SessionID),
			zap.Time("created_at", event.CreatedAt),
		)
	}
}
