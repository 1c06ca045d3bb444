package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rabbitmq/amqp091-go"
)

type publishedMessage struct {
	exchange string
	key      string
	msg      amqp091.Publishing
}

type fakeChannel struct {
	published []publishedMessage
	err       error
}

func (f *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp091.Publishing) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, publishedMessage{exchange: exchange, key: key, msg: msg})
	return nil
}

func TestPublisher_PublishesPersistentJSON(t *testing.T) {
	ch := &fakeChannel{}
	p := NewPublisher(ch, "")

	err := p.Publish(context.Background(), "ride.created", map[string]string{"ride_id": "r-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(ch.published) != 1 {
		t.Fatalf("expected 1 message, got %d", len(ch.published))
	}
	got := ch.published[0]
	if got.exchange != DefaultExchange {
		t.Errorf("expected exchange %s, got %s", DefaultExchange, got.exchange)
	}
	if got.key != "ride.created" {
		t.Errorf("expected routing key ride.created, got %s", got.key)
	}
	if got.msg.DeliveryMode != amqp091.Persistent {
		t.Errorf("expected persistent delivery, got %d", got.msg.DeliveryMode)
	}
	if got.msg.ContentType != "application/json" {
		t.Errorf("expected application/json, got %s", got.msg.ContentType)
	}

	var body map[string]string
	if err := json.Unmarshal(got.msg.Body, &body); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	if body["ride_id"] != "r-1" {
		t.Errorf("expected ride_id r-1, got %q", body["ride_id"])
	}
}

func TestPublisher_ReturnsChannelError(t *testing.T) {
	boom := errors.New("channel closed")
	p := NewPublisher(&fakeChannel{err: boom}, "custom")

	err := p.Publish(context.Background(), "payment.recorded", struct{}{})
	if !errors.Is(err, boom) {
		t.Errorf("expected wrapped channel error, got %v", err)
	}
}

func TestPublisher_RejectsUnmarshalablePayload(t *testing.T) {
	ch := &fakeChannel{}
	p := NewPublisher(ch, "custom")

	if err := p.Publish(context.Background(), "x", make(chan int)); err == nil {
		t.Error("expected marshal error")
	}
	if len(ch.published) != 0 {
		t.Errorf("expected nothing published, got %d", len(ch.published))
	}
}
