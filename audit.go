package tokencache

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	EventRefreshStarted   = "refresh_started"
	EventRefreshSucceeded = "refresh_succeeded"
	EventRefreshFailed    = "refresh_failed"
	EventProactiveFire    = "proactive_fire"
	EventCredentialClosed = "credential_closed"
)

type AuditEvent struct {
	Timestamp time.Time         `json:"timestamp"`
	EventType string            `json:"event_type"`
	CycleID   string            `json:"cycle_id,omitempty"`
	ExpiresOn time.Time         `json:"expires_on,omitzero"`
	Success   bool              `json:"success"`
	Error     string            `json:"error,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

type AuditSink interface {
	Emit(ctx context.Context, event AuditEvent)
}

type NoOpSink struct{}

func (NoOpSink) Emit(context.Context, AuditEvent) {}

type ChannelSink struct {
	events chan AuditEvent
}

func NewChannelSink(buffer int) *ChannelSink {
	if buffer <= 0 {
		buffer = 1
	}
	return &ChannelSink{
		events: make(chan AuditEvent, buffer),
	}
}

func (s *ChannelSink) Emit(ctx context.Context, event AuditEvent) {
	select {
	case s.events <- event:
	case <-ctx.Done():
	}
}

func (s *ChannelSink) Events() <-chan AuditEvent {
	return s.events
}

type JSONWriterSink struct {
	writer io.Writer
	mu     sync.Mutex
}

func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return &JSONWriterSink{
		writer: w,
	}
}

func (s *JSONWriterSink) Emit(ctx context.Context, event AuditEvent) {
	if s == nil || s.writer == nil {
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, _ = s.writer.Write(data)
	_, _ = s.writer.Write([]byte("\n"))
}

// RedisStreamSink appends audit events to a Redis stream via XADD so that
// refresh activity from many processes can be tailed in one place. Token
// values are never part of an event; only expiry instants and cycle IDs land
// in the stream.
type RedisStreamSink struct {
	client redis.UniversalClient
	stream string
	maxLen int64
}

func NewRedisStreamSink(client redis.UniversalClient, stream string, maxLen int64) *RedisStreamSink {
	if stream == "" {
		stream = "tokencache:audit"
	}
	return &RedisStreamSink{
		client: client,
		stream: stream,
		maxLen: maxLen,
	}
}

func (s *RedisStreamSink) Emit(ctx context.Context, event AuditEvent) {
	if s == nil || s.client == nil {
		return
	}

	values := map[string]interface{}{
		"timestamp":  event.Timestamp.UTC().Format(time.RFC3339Nano),
		"event_type": event.EventType,
		"success":    event.Success,
	}
	if event.CycleID != "" {
		values["cycle_id"] = event.CycleID
	}
	if !event.ExpiresOn.IsZero() {
		values["expires_on"] = event.ExpiresOn.UTC().Format(time.RFC3339Nano)
	}
	if event.Error != "" {
		values["error"] = event.Error
	}

	_ = s.client.XAdd(ctx, &redis.XAddArgs{
		Stream: s.stream,
		MaxLen: s.maxLen,
		Approx: true,
		Values: values,
	}).Err()
}
