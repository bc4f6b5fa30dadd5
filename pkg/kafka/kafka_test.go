package kafka

import (
	"context"
	"testing"

	"github.com/Adithya-Monish-Kumar-K/abstract-search/pkg/config"
)

type doc struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

func TestEncodeDecode(t *testing.T) {
	msgs, err := encodeEvents([]Event{
		{Key: "a", Value: doc{Title: "Cat", Body: "The cat sat"}},
		{Key: "b", Value: doc{Title: "Dog"}},
	})
	if err != nil {
		t.Fatalf("encodeEvents: %v", err)
	}
	if len(msgs) != 2 || string(msgs[0].Key) != "a" {
		t.Fatalf("messages = %+v", msgs)
	}
	got, err := DecodeJSON[doc](msgs[0].Value)
	if err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}
	if got.Title != "Cat" || got.Body != "The cat sat" {
		t.Fatalf("decoded = %+v", got)
	}
}

func TestEncodeRejectsUnmarshalable(t *testing.T) {
	_, err := encodeEvents([]Event{{Key: "bad", Value: make(chan int)}})
	if err == nil {
		t.Fatal("expected marshal error")
	}
}

func TestDecodeJSONInvalid(t *testing.T) {
	if _, err := DecodeJSON[doc]([]byte("{not json")); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestDrainerWithoutBrokers(t *testing.T) {
	d := NewDrainer(config.KafkaConfig{}, "documents")
	if d.Topic() != "documents" {
		t.Fatalf("Topic() = %q", d.Topic())
	}
	err := d.Drain(context.Background(), func(context.Context, []byte, []byte) error { return nil })
	if err == nil {
		t.Fatal("expected error with no brokers")
	}
	if err := d.Ping(context.Background()); err == nil {
		t.Fatal("expected ping error with no brokers")
	}
}
