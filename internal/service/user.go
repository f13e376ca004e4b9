package service

import (
	"context"
	"errors"

	"github.com/iliyamo/launchdev/internal/apperror"
	"github.com/iliyamo/launchdev/internal/model"
	"github.com/iliyamo/launchdev/internal/repository"
)

const msgNoUser = "No user found"

// UserService reads account state for display.
type UserService struct {
	users UserStore
}

func NewUserService(users UserStore) *UserService {
	return &UserService{users: users}
}

// GetBySession loads the user behind a verified session.
func (s *UserService) GetBySession(ctx context.Context, id Identity) (model.UserView, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	u, err := s.users.GetByID(ctx, id.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.UserView{}, apperror.NewNotFoundError(msgNoUser, err)
		}
		return model.UserView{}, apperror.NewInternalError(msgServerError, err)
	}
	return u.View(), nil
}
