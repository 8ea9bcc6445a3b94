package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/couchcryptid/return-heatmap/internal/config"
	"github.com/couchcryptid/return-heatmap/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer publishes map layers to a Kafka topic, one message per layer.
// It implements pipeline.Loader.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured layer topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

func (w *Writer) Name() string { return "kafka" }

// Load serializes every layer of the view and publishes them in a single
// WriteMessages call. Layer names are message keys, so a layer always lands
// on the same partition.
func (w *Writer) Load(ctx context.Context, view domain.MapView) error {
	if len(view.Layers) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(view.Layers))
	for i := range view.Layers {
		msg, err := serializeToMessage(view.Layers[i], view.GeneratedAt)
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish layers: %w", err)
	}
	w.logger.Info("layers published", "topic", w.writer.Topic, "count", len(msgs))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a Layer into a Kafka message.
func serializeToMessage(layer domain.Layer, generatedAt time.Time) (kafkago.Message, error) {
	data, err := json.Marshal(layer)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize layer %q: %w", layer.Name, err)
	}
	return kafkago.Message{
		Key:   []byte(layer.Name),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "layer", Value: []byte(layer.Label)},
			{Key: "high_severity_count", Value: []byte(strconv.Itoa(layer.HighSeverityCount))},
			{Key: "generated_at", Value: []byte(generatedAt.Format(time.RFC3339))},
		},
	}, nil
}
