// Package service holds the account and subscription use cases.  Services
// validate input, talk to the credential store through UserStore, translate
// store errors into *apperror.AppError values and emit domain events.
package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/iliyamo/launchdev/internal/model"
)

// storeTimeout bounds every individual credential store call.
const storeTimeout = 5 * time.Second

// UserStore is the credential store contract shared by repository.UserRepo
// and repository.MemoryUserRepo.
type UserStore interface {
	Create(ctx context.Context, email, passwordHash string, name *string) (int64, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id int64) (model.User, error)
	SetPlan(ctx context.Context, id int64, plan model.Plan) error
}

// EventPublisher delivers a JSON payload to a named queue.
type EventPublisher interface {
	Publish(ctx context.Context, queue string, payload any) error
}

// Identity is the verified content of a session token.
type Identity struct {
	UserID int64
	Email  string
}

// Events publishes domain events in the background.  Publish failures are
// logged by the publisher and never reach the caller.
type Events struct {
	pub EventPublisher
	log *slog.Logger
	wg  sync.WaitGroup
}

// NewEvents returns an Events emitter.  A nil publisher disables events.
func NewEvents(pub EventPublisher, log *slog.Logger) *Events {
	return &Events{pub: pub, log: log}
}

func (e *Events) emit(ctx context.Context, queue string, payload any) {
	if e == nil || e.pub == nil {
		return
	}
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
		defer cancel()
		if err := e.pub.Publish(pctx, queue, payload); err != nil {
			e.log.Warn("event dropped", "queue", queue, "err", err)
		}
	}()
}

// Wait blocks until all in-flight events were handed to the publisher.
func (e *Events) Wait() {
	if e != nil {
		e.wg.Wait()
	}
}
