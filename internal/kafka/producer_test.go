package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/yourorg/storefront/internal/model"
)

type fakeWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
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

func newTestProducer(writers map[string]*fakeWriter) *Producer {
	p := NewProducer([]string{"localhost:9092"}, "storefront-test", zap.NewNop())
	p.newWriter = func(topic string) MessageWriter {
		w := &fakeWriter{}
		writers[topic] = w
		return w
	}
	return p
}

func TestPublishViewed(t *testing.T) {
	writers := map[string]*fakeWriter{}
	events := NewViewEvents(newTestProducer(writers), "storefront-events")

	err := events.PublishViewed(context.Background(), model.ViewEvent{
		Search: "jollof",
		Tags:   []string{"Rice"},
		Sort:   "Most Rated",
		Count:  4,
		State:  "success",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	w := writers["storefront-events"]
	if w == nil || len(w.messages) != 1 {
		t.Fatalf("expected one message on storefront-events")
	}
	msg := w.messages[0]
	if string(msg.Key) != "Most Rated" {
		t.Errorf("expected key Most Rated, got %s", msg.Key)
	}
	if len(msg.Headers) != 1 || string(msg.Headers[0].Value) != "catalog.viewed" {
		t.Errorf("unexpected headers %+v", msg.Headers)
	}

	var decoded model.ViewEvent
	if err := json.Unmarshal(msg.Value, &decoded); err != nil {
		t.Fatalf("message value is not JSON: %v", err)
	}
	if decoded.Search != "jollof" || decoded.Count != 4 {
		t.Errorf("unexpected payload %+v", decoded)
	}
}

func TestProducerReusesWriterPerTopic(t *testing.T) {
	writers := map[string]*fakeWriter{}
	p := newTestProducer(writers)

	for i := 0; i < 3; i++ {
		if err := p.Publish(context.Background(), "a", Message{Key: "k", Value: i}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if len(writers) != 1 || len(writers["a"].messages) != 3 {
		t.Errorf("expected a single writer with 3 messages")
	}

	p.Close()
	if !writers["a"].closed {
		t.Error("expected writer to be closed")
	}
}

func TestPublishReturnsWriterError(t *testing.T) {
	p := NewProducer(nil, "storefront-test", zap.NewNop())
	p.newWriter = func(topic string) MessageWriter {
		return &fakeWriter{err: errors.New("broker unavailable")}
	}

	if err := p.Publish(context.Background(), "a", Message{Value: "x"}); err == nil {
		t.Fatal("expected an error")
	}
}

func TestPublishRejectsUnmarshalableValue(t *testing.T) {
	writers := map[string]*fakeWriter{}
	p := newTestProducer(writers)

	if err := p.Publish(context.Background(), "a", Message{Value: make(chan int)}); err == nil {
		t.Fatal("expected a marshal error")
	}
	if len(writers["a"].messages) != 0 {
		t.Error("nothing should be written when marshaling fails")
	}
}
