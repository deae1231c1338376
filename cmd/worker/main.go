package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/verzia/verzia/internal/config"
	"github.com/verzia/verzia/pkg/logger"
	"github.com/verzia/verzia/pkg/queue"
)

// The worker tails the activity-event topic and logs each event. It never
// touches domain state; notifications are written synchronously by the API.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := logger.NewLogger()
	logger.Info("Starting Verzia activity worker...")

	consumer := queue.NewKafkaConsumer(cfg.Kafka.Brokers, cfg.Kafka.Topics.ActivityEvents, "activity-worker-group")
	defer consumer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		err := consumer.Subscribe(ctx, func(msg queue.Message) error {
			logger.WithFields(map[string]interface{}{
				"type": msg.Event.Type,
				"key":  msg.Key,
				"data": msg.Event.Data,
			}).Info("Activity event")
			return nil
		})
		if err != nil && err != context.Canceled {
			logger.WithError(err).Error("Activity consumer stopped with error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down worker...")
	cancel()
	logger.Info("Worker exited")
}
