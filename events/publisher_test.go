package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestKafkaPublisherWritesKeyedJSON(t *testing.T) {
	writer := &fakeWriter{}
	publisher := NewKafkaPublisher(writer, "winners")

	err := publisher.PublishWinnerChanged(context.Background(), WinnerChanged{
		CompetitionID: "c1",
		WinnerID:      "u1",
		WinnerName:    "Alice",
		TotalPoints:   5,
	})
	require.NoError(t, err)
	require.Len(t, writer.messages, 1)

	msg := writer.messages[0]
	assert.Equal(t, "c1", string(msg.Key))

	var decoded WinnerChanged
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, "u1", decoded.WinnerID)
	assert.Equal(t, 5, decoded.TotalPoints)
	assert.NotZero(t, decoded.TsUnixMs)

	require.NoError(t, publisher.Close())
	assert.True(t, writer.closed)
}

func TestKafkaPublisherWrapsWriteErrors(t *testing.T) {
	writer := &fakeWriter{err: errors.New("broker down")}
	publisher := NewKafkaPublisher(writer, "winners")

	err := publisher.PublishWinnerChanged(context.Background(), WinnerChanged{CompetitionID: "c1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "winners")
	assert.Contains(t, err.Error(), "broker down")
}

func TestLogPublisher(t *testing.T) {
	p := NewLogPublisher()
	assert.NoError(t, p.PublishWinnerChanged(context.Background(), WinnerChanged{CompetitionID: "c1"}))
	assert.NoError(t, p.Close())
}
