package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/iliyamo/launchdev/internal/apperror"
	"github.com/iliyamo/launchdev/internal/model"
	"github.com/iliyamo/launchdev/internal/queue"
	"github.com/iliyamo/launchdev/internal/repository"
)

// SubscriptionService moves a user from unpaid to paid.
type SubscriptionService struct {
	users  UserStore
	events *Events
	log    *slog.Logger
	now    func() time.Time
}

func NewSubscriptionService(users UserStore, events *Events, log *slog.Logger) *SubscriptionService {
	return &SubscriptionService{users: users, events: events, log: log, now: time.Now}
}

// Purchase records plan for the session's user.  Purchasing the current plan
// again changes nothing; a different plan replaces it.
func (s *SubscriptionService) Purchase(ctx context.Context, id Identity, rawPlan string) error {
	if strings.TrimSpace(rawPlan) == "" {
		return apperror.NewValidationError("Missing plan")
	}
	plan, ok := model.ParsePlan(rawPlan)
	if !ok {
		return apperror.NewValidationError("Unsupported plan")
	}

	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	if err := s.users.SetPlan(ctx, id.UserID, plan); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return apperror.NewNotFoundError(msgNoUser, err)
		}
		return apperror.NewInternalError(msgServerError, err)
	}

	s.log.InfoContext(ctx, "plan purchased", "user_id", id.UserID, "plan", plan)
	s.events.emit(ctx, queue.PlanPurchasedQueue, queue.PlanPurchasedEvent{
		UserID:      id.UserID,
		Email:       id.Email,
		Plan:        string(plan),
		PurchasedAt: s.now().UTC().Format(time.RFC3339),
	})
	return nil
}
