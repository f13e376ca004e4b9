package client

import (
	"context"
	"errors"
	"sync"

	"github.com/iliyamo/launchdev/internal/model"
)

// ErrEmptyCart is returned by Checkout when nothing was selected.
var ErrEmptyCart = errors.New("cart is empty")

// Purchaser submits a plan purchase.  *Client implements it.
type Purchaser interface {
	Subscribe(ctx context.Context, plan model.Plan) error
}

// Cart holds the pending plan selection of one client session.  It lives
// only in the client process; the server validates the plan again at
// checkout.  A cart holds at most one subscription: adding a plan replaces
// the previous selection.
type Cart struct {
	mu    sync.Mutex
	items []model.Plan
}

// Add selects plan, replacing any earlier selection.
func (c *Cart) Add(plan model.Plan) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = []model.Plan{plan}
}

// Items returns a copy of the cart contents.
func (c *Cart) Items() []model.Plan {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]model.Plan(nil), c.items...)
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
}

// Checkout submits the first cart entry and empties the cart on success.
// On failure the selection is kept so the user can retry.
func (c *Cart) Checkout(ctx context.Context, p Purchaser) (model.Plan, error) {
	items := c.Items()
	if len(items) == 0 {
		return "", ErrEmptyCart
	}
	plan := items[0]
	if err := p.Subscribe(ctx, plan); err != nil {
		return "", err
	}
	c.Clear()
	return plan, nil
}
