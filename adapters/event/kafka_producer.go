package event

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/devang9890/resume/internal/config"
	"github.com/devang9890/resume/internal/domain/resume"
	"github.com/devang9890/resume/pkg/logger"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaProducerClient struct {
	writer messageWriter
	log    logger.Logger
}

func NewKafkaProducerClient(cfg config.Config, log logger.Logger) (*KafkaProducerClient, error) {
	brokers := cfg.Kafka.Brokers
	if len(brokers) == 0 {
		return nil, fmt.Errorf("config Kafka brokers not found")
	}

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  resume.EventsTopic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
	}

	log.Info("Initialize Kafka producer successfully.", zap.String("topic", resume.EventsTopic))
	return &KafkaProducerClient{writer: writer, log: log}, nil
}

// Publish keys messages by document id so every event for one document
// lands on the same partition in order.
func (c *KafkaProducerClient) Publish(ctx context.Context, evt resume.Event) error {
	value, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", evt.Type, err)
	}
	msg := kafka.Message{
		Key:   []byte(evt.ResumeID.String()),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(evt.Type)},
		},
	}
	if err := c.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish %s event: %w", evt.Type, err)
	}
	return nil
}

func (c *KafkaProducerClient) Close() {
	if c.writer != nil {
		if err := c.writer.Close(); err != nil {
			c.log.Warn("Closing Kafka producer failed", zap.Error(err))
		}
	}
	c.log.Info("Closed Kafka producer")
}
