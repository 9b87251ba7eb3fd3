package event

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/devang9890/resume/internal/config"
	"github.com/devang9890/resume/internal/domain/resume"
	"github.com/devang9890/resume/pkg/logger"
)

const ConsumerGroup = "resume-asset-janitor"

const handlerAttempts = 3

var handlerBackoff = 500 * time.Millisecond

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
}

type Handler func(ctx context.Context, evt resume.Event) error

func NewReader(cfg config.Config) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Kafka.Brokers,
		Topic:    resume.EventsTopic,
		GroupID:  ConsumerGroup,
		MinBytes: 10e3,
		MaxBytes: 10e6,
	})
}

// Consume reads events until ctx is cancelled. A failed handler is retried
// with backoff; after the last attempt the failure is logged and the
// message committed, since a later commit would skip past it anyway.
func Consume(ctx context.Context, reader messageReader, handle Handler, log logger.Logger) error {
	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
				return nil
			}
			log.Error("Failed to read message from Kafka", err)
			continue
		}

		var evt resume.Event
		if err := json.Unmarshal(msg.Value, &evt); err != nil {
			log.Warn("Skipping undecodable event", zap.String("key", string(msg.Key)), zap.Error(err))
			commit(ctx, reader, msg, log)
			continue
		}

		if err := handleWithRetry(ctx, handle, evt); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			log.Error("Dropping event after retries", err,
				zap.String("type", string(evt.Type)),
				zap.String("resume_id", evt.ResumeID.String()),
				zap.String("asset_id", evt.AssetID),
				zap.Int64("offset", msg.Offset))
		}

		commit(ctx, reader, msg, log)
	}
}

func handleWithRetry(ctx context.Context, handle Handler, evt resume.Event) error {
	backoff := handlerBackoff
	var err error
	for attempt := 1; ; attempt++ {
		if err = handle(ctx, evt); err == nil || attempt == handlerAttempts {
			return err
		}
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		backoff *= 2
	}
}

func commit(ctx context.Context, reader messageReader, msg kafka.Message, log logger.Logger) {
	if err := reader.CommitMessages(ctx, msg); err != nil {
		log.Error("Failed to commit message", err, zap.Int64("offset", msg.Offset))
	}
}
