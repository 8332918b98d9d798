package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"prode-app-go/logging"

	"github.com/segmentio/kafka-go"
)

// WinnerChanged is published whenever a competition's stored winner changes
type WinnerChanged struct {
	CompetitionID    string `json:"competition_id"`
	PreviousWinnerID string `json:"previous_winner_id,omitempty"`
	WinnerID         string `json:"winner_id"`
	WinnerName       string `json:"winner_name"`
	TotalPoints      int    `json:"total_points"`
	TsUnixMs         int64  `json:"ts_unix_ms"`
}

// Publisher delivers winner changes to other systems
type Publisher interface {
	PublishWinnerChanged(ctx context.Context, e WinnerChanged) error
	Close() error
}

// messageWriter is the subset of *kafka.Writer the publisher needs
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes events as JSON, keyed by competition so a
// competition's changes stay ordered within one partition
type KafkaPublisher struct {
	writer messageWriter
	topic  string
}

// NewKafkaWriter builds a hash-balanced writer for the given brokers
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
		BatchTimeout:           50 * time.Millisecond,
	}
}

// NewKafkaPublisher wraps a writer
func NewKafkaPublisher(w messageWriter, topic string) *KafkaPublisher {
	return &KafkaPublisher{writer: w, topic: topic}
}

func (p *KafkaPublisher) PublishWinnerChanged(ctx context.Context, e WinnerChanged) error {
	if e.TsUnixMs == 0 {
		e.TsUnixMs = time.Now().UnixMilli()
	}
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode winner changed event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(e.CompetitionID),
		Value: payload,
		Time:  time.UnixMilli(e.TsUnixMs),
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish winner changed to %s: %w", p.topic, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// LogPublisher only logs events; used when no broker is configured
type LogPublisher struct {
	logger *logging.Logger
}

func NewLogPublisher() *LogPublisher {
	return &LogPublisher{logger: logging.WithPrefix("events")}
}

func (p *LogPublisher) PublishWinnerChanged(_ context.Context, e WinnerChanged) error {
	p.logger.WithFields(logging.Fields{
		"competition": e.CompetitionID,
		"winner":      e.WinnerID,
		"previous":    e.PreviousWinnerID,
	}).Infof("Winner changed: %s (%d pts)", e.WinnerName, e.TotalPoints)
	return nil
}

func (p *LogPublisher) Close() error { return nil }
