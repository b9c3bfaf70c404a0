package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ogurasousui/codex-company-registry/internal/core/company"
	kafkago "github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Publisher は会社イベントを Kafka トピックへ JSON で発行します。
type Publisher struct {
	writer messageWriter
	now    func() time.Time
}

// 同期送信のためバッチ待ちを短くします。
const (
	writerBatchSize    = 1
	writerBatchTimeout = 5 * time.Millisecond
	writerTimeout      = 5 * time.Second
)

// NewPublisher は brokers と topic を指定して Publisher を生成します。
func NewPublisher(brokers []string, topic string) *Publisher {
	return newPublisher(newWriter(brokers, topic))
}

func newWriter(brokers []string, topic string) *kafkago.Writer {
	return &kafkago.Writer{
		Addr:                   kafkago.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireOne,
		AllowAutoTopicCreation: true,
		BatchSize:              writerBatchSize,
		BatchTimeout:           writerBatchTimeout,
		WriteTimeout:           writerTimeout,
	}
}

func newPublisher(w messageWriter) *Publisher {
	return &Publisher{writer: w, now: func() time.Time { return time.Now().UTC() }}
}

type envelope struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Code      string          `json:"code"`
	Payload   *companyPayload `json:"payload,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

type companyPayload struct {
	ID         string            `json:"id"`
	Code       string            `json:"code"`
	Name       string            `json:"name"`
	DirectorID string            `json:"director_id,omitempty"`
	Divisions  []divisionPayload `json:"divisions"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

type divisionPayload struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Publish はイベントを会社コードをキーとして書き込みます。
func (p *Publisher) Publish(ctx context.Context, event company.Event) error {
	value, err := json.Marshal(envelope{
		ID:        uuid.NewString(),
		Type:      string(event.Type),
		Code:      event.Code,
		Payload:   toPayload(event.Company),
		Timestamp: p.now(),
	})
	if err != nil {
		return fmt.Errorf("kafka: marshal %s: %w", event.Type, err)
	}

	if err := p.writer.WriteMessages(ctx, kafkago.Message{
		Key:   []byte(event.Code),
		Value: value,
		Headers: []kafkago.Header{
			{Key: "event-type", Value: []byte(event.Type)},
		},
	}); err != nil {
		return fmt.Errorf("kafka: write %s: %w", event.Type, err)
	}
	return nil
}

// Close は内部の writer を閉じます。
func (p *Publisher) Close() error {
	return p.writer.Close()
}

func toPayload(c *company.Company) *companyPayload {
	if c == nil {
		return nil
	}
	divisions := make([]divisionPayload, 0, len(c.Divisions))
	for _, d := range c.Divisions {
		divisions = append(divisions, divisionPayload{Code: d.Code, Name: d.Name})
	}
	return &companyPayload{
		ID:         c.ID,
		Code:       c.Code,
		Name:       c.Name,
		DirectorID: c.DirectorID,
		Divisions:  divisions,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}

// NoopPublisher は Kafka が無効な場合に使用する何もしない Publisher です。
type NoopPublisher struct{}

// Publish は何もしません。
func (NoopPublisher) Publish(context.Context, company.Event) error { return nil }

// Close は何もしません。
func (NoopPublisher) Close() error { return nil }
