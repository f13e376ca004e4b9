package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// AuditConsumer listens to the account event queues and appends one line per
// event to an audit log.
type AuditConsumer struct {
	URL     string
	LogPath string
	Logger  *slog.Logger

	mu sync.Mutex // serializes writes from the per-queue goroutines
}

func NewAuditConsumer(url, logPath string, logger *slog.Logger) *AuditConsumer {
	return &AuditConsumer{URL: url, LogPath: logPath, Logger: logger}
}

// Run connects to RabbitMQ, declares both queues (durable) and consumes until
// ctx is cancelled.  Broker failures trigger a reconnect with exponential
// backoff capped at 30s; a message that cannot be handled is rejected
// without requeue so the consumer keeps operating.
func (a *AuditConsumer) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(a.URL)
		if err != nil {
			a.Logger.Warn("audit-consumer: failed to dial broker", "err", err, "retry_in", backoff)
			if !sleepCtx(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		err = a.consumeLoop(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		a.Logger.Warn("audit-consumer: consume loop ended, reconnecting", "err", err)
		if !sleepCtx(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func (a *AuditConsumer) consumeLoop(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		a.Logger.Warn("audit-consumer: set QoS failed", "err", err)
	}

	queues := []string{UserSignedUpQueue, PlanPurchasedQueue}
	deliveries := make([]<-chan amqp.Delivery, 0, len(queues))
	for _, q := range queues {
		if _, err := ch.QueueDeclare(q, true, false, false, false, nil); err != nil {
			return fmt.Errorf("queue declare %s: %w", q, err)
		}
		msgs, err := ch.ConsumeWithContext(ctx, q, "", false, false, false, false, nil)
		if err != nil {
			return fmt.Errorf("queue consume %s: %w", q, err)
		}
		deliveries = append(deliveries, msgs)
	}

	var wg sync.WaitGroup
	for i, msgs := range deliveries {
		wg.Add(1)
		go func(queue string, msgs <-chan amqp.Delivery) {
			defer wg.Done()
			for d := range msgs {
				if err := a.appendEvent(queue, d.Body); err != nil {
					a.Logger.Error("audit-consumer: handle message failed", "queue", queue, "err", err)
					_ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
					continue
				}
				_ = d.Ack(false)
			}
		}(queues[i], msgs)
	}
	wg.Wait()
	return errors.New("deliveries channel closed")
}

func (a *AuditConsumer) appendEvent(queue string, body []byte) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(a.LogPath), 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	f, err := os.OpenFile(a.LogPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	return WriteAuditLine(f, queue, body)
}

// WriteAuditLine decodes an event from queue and writes it to w as a single
// human-friendly line.
func WriteAuditLine(w io.Writer, queue string, body []byte) error {
	var line string
	switch queue {
	case UserSignedUpQueue:
		var ev UserSignedUpEvent
		if err := json.Unmarshal(body, &ev); err != nil {
			return fmt.Errorf("unmarshal: %w", err)
		}
		line = fmt.Sprintf("[%s] User signed up | user_id=%d | email=%q\n",
			ev.SignedUpAt, ev.UserID, ev.Email)
	case PlanPurchasedQueue:
		var ev PlanPurchasedEvent
		if err := json.Unmarshal(body, &ev); err != nil {
			return fmt.Errorf("unmarshal: %w", err)
		}
		line = fmt.Sprintf("[%s] Plan purchased | user_id=%d | email=%q | plan=%s\n",
			ev.PurchasedAt, ev.UserID, ev.Email, ev.Plan)
	default:
		return fmt.Errorf("unknown queue %q", queue)
	}

	if _, err := io.WriteString(w, line); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
