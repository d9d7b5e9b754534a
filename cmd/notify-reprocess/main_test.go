package main

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"

	"github.com/vladislavdragonenkov/restadmin/internal/messaging/kafka"
)

func TestParseBrokers(t *testing.T) {
	brokers := parseBrokers(" broker-1:9092, ,broker-2:9092 ")
	if len(brokers) != 2 {
		t.Fatalf("expected 2 brokers, got %v", brokers)
	}
	if brokers[0] != "broker-1:9092" || brokers[1] != "broker-2:9092" {
		t.Errorf("unexpected brokers: %v", brokers)
	}
}

func TestExtractReplayMessage(t *testing.T) {
	raw, err := json.Marshal(dlqPayload{
		OriginalTopic: kafka.TopicNotificationEvents,
		OriginalKey:   "notif-1",
		OriginalValue: `{"event_type":"notification.failed"}`,
		RetryCount:    3,
	})
	if err != nil {
		t.Fatal(err)
	}

	msg := &sarama.ConsumerMessage{Value: raw}
	replay, ok := extractReplayMessage(msg, "fallback-topic")
	if !ok {
		t.Fatal("expected message to be extractable")
	}
	if replay.topic != kafka.TopicNotificationEvents {
		t.Errorf("topic = %q", replay.topic)
	}
	if replay.key != "notif-1" {
		t.Errorf("key = %q", replay.key)
	}
	if replay.retryCount != 3 {
		t.Errorf("retryCount = %d", replay.retryCount)
	}
}

func TestExtractReplayMessageFallbackTopic(t *testing.T) {
	raw, err := json.Marshal(dlqPayload{
		OriginalKey:   "notif-2",
		OriginalValue: "{}",
	})
	if err != nil {
		t.Fatal(err)
	}

	replay, ok := extractReplayMessage(&sarama.ConsumerMessage{Value: raw}, "fallback-topic")
	if !ok {
		t.Fatal("expected message to be extractable")
	}
	if replay.topic != "fallback-topic" {
		t.Errorf("topic = %q, want fallback-topic", replay.topic)
	}
}

func TestExtractReplayMessageUnsupported(t *testing.T) {
	if _, ok := extractReplayMessage(&sarama.ConsumerMessage{Value: []byte("not json")}, "t"); ok {
		t.Error("expected non-json message to be skipped")
	}
	if _, ok := extractReplayMessage(&sarama.ConsumerMessage{Value: []byte(`{"foo":"bar"}`)}, "t"); ok {
		t.Error("expected message without original_value to be skipped")
	}
}

func TestPublishReplayIncrementsRetryHeader(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageAndSucceed()

	err := publishReplay(producer, replayMessage{
		topic:      kafka.TopicNotificationEvents,
		key:        "notif-1",
		value:      []byte("{}"),
		retryCount: 2,
	})
	if err != nil {
		t.Fatalf("publishReplay: %v", err)
	}
	if err := producer.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestPublishReplayNilProducer(t *testing.T) {
	if err := publishReplay(nil, replayMessage{}); err == nil {
		t.Error("expected error for nil producer")
	}
}

func TestReplayHandlerExecute(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageAndSucceed()

	handler := replayHandler(producer, config{
		execute:     true,
		targetTopic: kafka.TopicNotificationEvents,
	})

	raw, err := json.Marshal(dlqPayload{
		OriginalKey:   "notif-1",
		OriginalValue: `{"event_type":"notification.failed"}`,
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := handler(context.Background(), &sarama.ConsumerMessage{Value: raw}); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if err := producer.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestReplayHandlerDryRunDoesNotPublish(t *testing.T) {
	handler := replayHandler(nil, config{targetTopic: kafka.TopicNotificationEvents})

	raw, err := json.Marshal(dlqPayload{
		OriginalKey:   "notif-1",
		OriginalValue: "{}",
	})
	if err != nil {
		t.Fatal(err)
	}

	// nil producer: dry-run обязан обойтись без публикации
	if err := handler(context.Background(), &sarama.ConsumerMessage{Value: raw}); err != nil {
		t.Fatalf("handler: %v", err)
	}
}

func TestReplayHandlerSkipsUnsupported(t *testing.T) {
	handler := replayHandler(nil, config{execute: true, targetTopic: kafka.TopicNotificationEvents})

	// мусорная запись не должна приводить к бесконечному retry
	if err := handler(context.Background(), &sarama.ConsumerMessage{Value: []byte("not json")}); err != nil {
		t.Fatalf("handler: %v", err)
	}
}
