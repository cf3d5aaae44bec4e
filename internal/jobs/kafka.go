package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

//go:generate mockgen -source internal/jobs/kafka.go -destination=internal/jobs/kafka_mock_test.go -package=jobs

type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
}

// KafkaTransport publishes jobs as JSON keyed by job id.
type KafkaTransport struct {
	writer Writer
	logger *zap.Logger
}

func NewKafkaTransport(writer Writer, logger *zap.Logger) *KafkaTransport {
	return &KafkaTransport{writer: writer, logger: logger}
}

func (t *KafkaTransport) Publish(ctx context.Context, job Job) error {
	b, err := json.Marshal(job)
	if err != nil {
		return err
	}
	msg := kafkago.Message{
		Key:   []byte(job.ID.String()),
		Value: b,
		Time:  job.EnqueuedAt,
	}
	if err := t.writer.WriteMessages(ctx, msg); err != nil {
		t.logger.Error("publish job failed", zap.String("job_id", job.ID.String()), zap.Error(err))
		return err
	}
	return nil
}

// MessageHandler decodes jobs fetched by the kafka consumer and processes
// them. Malformed messages are logged and committed so they do not block the
// partition. A job failure is terminal and also commits.
type MessageHandler struct {
	proc   Processor
	logger *zap.Logger
}

func NewMessageHandler(proc Processor, logger *zap.Logger) *MessageHandler {
	return &MessageHandler{proc: proc, logger: logger}
}

func (h *MessageHandler) Handle(ctx context.Context, message kafkago.Message) error {
	var job Job
	if err := json.Unmarshal(message.Value, &job); err != nil {
		h.logger.Error("bad job json, dropping",
			zap.Error(err),
			zap.Int("partition", message.Partition),
			zap.Int64("offset", message.Offset),
		)
		return nil
	}
	if err := job.validate(); err != nil {
		h.logger.Error("invalid job, dropping",
			zap.Error(err),
			zap.Int("partition", message.Partition),
			zap.Int64("offset", message.Offset),
		)
		return nil
	}

	res := h.proc.Process(ctx, job)
	if res.State == StateFailed && ctx.Err() != nil && errors.Is(res.Err, ctx.Err()) {
		// interrupted by shutdown; leave uncommitted for redelivery
		return res.Err
	}

	h.logger.Info("processed job",
		zap.String("job_id", job.ID.String()),
		zap.String("state", string(res.State)),
		zap.Int("attempts", res.Attempts),
		zap.Duration("queued", time.Since(job.EnqueuedAt)),
		zap.Int("partition", message.Partition),
		zap.Int64("offset", message.Offset),
	)
	return nil
}
