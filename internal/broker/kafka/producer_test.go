package kafka

import (
	"context"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	last []kafka.Message
	err  error
}

func (w *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	w.last = append([]kafka.Message{}, msgs...)
	return w.err
}

func TestProducer_Publish(t *testing.T) {
	fw := &fakeWriter{}
	p := newProducerWithWriter(fw)

	err := p.Publish(context.Background(), "tracking.checked",
		[]byte("CJ:123456789013"), []byte(`{"success":true}`))
	require.NoError(t, err)
	require.Len(t, fw.last, 1)
	require.Equal(t, "tracking.checked", fw.last[0].Topic)
	require.Equal(t, []byte("CJ:123456789013"), fw.last[0].Key)
	require.Equal(t, []byte(`{"success":true}`), fw.last[0].Value)
}

func TestNewProducer(t *testing.T) {
	p := NewProducer([]string{"localhost:0"})
	require.NotNil(t, p)
}
