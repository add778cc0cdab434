package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

// События жизненного цикла заявки на вывод
const (
	EventSubmitted = "submitted"
	EventApproved  = "approved"
	EventDenied    = "denied"
)

// WithdrawalEvent сообщение аудита по заявке на вывод
type WithdrawalEvent struct {
	RequestID    int64     `json:"request_id"`
	Player       string    `json:"player"`
	Amount       float64   `json:"amount"`
	CurrencyType string    `json:"currency_type"`
	Event        string    `json:"event"`
	Timestamp    time.Time `json:"timestamp"`
}

// Producer Kafka producer для отправки событий аудита
type Producer struct {
	writer    *kafka.Writer
	threshold float64
	logger    *logrus.Logger
}

// NewProducer создает новый Kafka producer
func NewProducer(brokers []string, topic string, threshold float64, logger *logrus.Logger) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
		Async:        true, // Асинхронная отправка для производительности
		Compression:  kafka.Snappy,
		BatchTimeout: 10 * time.Millisecond,
	}

	logger.Infof("Kafka producer initialized for topic: %s", topic)

	return &Producer{
		writer:    writer,
		threshold: threshold,
		logger:    logger,
	}
}

// SendWithdrawalEvent отправляет событие аудита. Подачи заявок ниже порога
// пропускаются; решения администратора отправляются всегда.
func (p *Producer) SendWithdrawalEvent(ctx context.Context, event WithdrawalEvent) error {
	if event.Event == EventSubmitted && event.Amount < p.threshold {
		p.logger.Debugf("Withdrawal amount %.2f is below threshold %.2f, skipping audit event", event.Amount, p.threshold)
		return nil
	}

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	// Сериализуем сообщение в JSON
	messageBytes, err := json.Marshal(event)
	if err != nil {
		p.logger.Errorf("Failed to marshal Kafka message: %v", err)
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	// Отправляем сообщение в Kafka
	kafkaMessage := kafka.Message{
		Key:   []byte(fmt.Sprintf("request_%d", event.RequestID)),
		Value: messageBytes,
		Time:  time.Now(),
	}

	err = p.writer.WriteMessages(ctx, kafkaMessage)
	if err != nil {
		p.logger.Errorf("Failed to send message to Kafka: %v", err)
		return fmt.Errorf("failed to send message: %w", err)
	}

	p.logger.Infof("Sent withdrawal audit event to Kafka: RequestID=%d, Event=%s, Amount=%.2f",
		event.RequestID, event.Event, event.Amount)

	return nil
}

// Close закрывает Kafka producer
func (p *Producer) Close() error {
	if p.writer != nil {
		p.logger.Info("Closing Kafka producer")
		return p.writer.Close()
	}
	return nil
}
