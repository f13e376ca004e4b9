package repository

import (
	"context"
	"sync"
	"time"

	"github.com/iliyamo/launchdev/internal/model"
)

// MemoryUserRepo is an in-process credential store with the same contract as
// UserRepo.  It backs tests and local demos that run without a database.
type MemoryUserRepo struct {
	mu     sync.RWMutex
	nextID int64
	byID   map[int64]model.User
	ids    map[string]int64 // normalized email -> id
}

func NewMemoryUserRepo() *MemoryUserRepo {
	return &MemoryUserRepo{
		byID: make(map[int64]model.User),
		ids:  make(map[string]int64),
	}
}

func (r *MemoryUserRepo) Create(_ context.Context, email, passwordHash string, name *string) (int64, error) {
	email = normalizeEmail(email)

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.ids[email]; ok {
		return 0, ErrEmailExists
	}
	r.nextID++
	now := time.Now().UTC()
	u := model.User{
		ID:           r.nextID,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if name != nil {
		n := *name
		u.Name = &n
	}
	r.byID[u.ID] = u
	r.ids[email] = u.ID
	return u.ID, nil
}

func (r *MemoryUserRepo) GetByEmail(_ context.Context, email string) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.ids[normalizeEmail(email)]
	if !ok {
		return model.User{}, ErrUserNotFound
	}
	return r.byID[id], nil
}

func (r *MemoryUserRepo) GetByID(_ context.Context, id int64) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byID[id]
	if !ok {
		return model.User{}, ErrUserNotFound
	}
	return u, nil
}

func (r *MemoryUserRepo) SetPlan(_ context.Context, id int64, plan model.Plan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return ErrUserNotFound
	}
	p := plan
	u.IsPaid = true
	u.Plan = &p
	u.UpdatedAt = time.Now().UTC()
	r.byID[id] = u
	return nil
}

func (r *MemoryUserRepo) Ping(context.Context) error { return nil }

// Count returns the number of stored users.
func (r *MemoryUserRepo) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}
