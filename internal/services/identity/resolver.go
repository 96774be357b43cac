package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/mcoot/spellfight/internal/model"
)

// Resolver turns a bearer credential into a player identity
type Resolver interface {
	Resolve(ctx context.Context, token string) (model.Player, error)
}

// Chain tries each resolver in order; the first success wins
type Chain []Resolver

// Resolve returns the first identity any resolver accepts. If every resolver
// rejects the token the result is ErrUnauthorized; if any of them could not
// be reached it is ErrIdentityUnavailable.
func (c Chain) Resolve(ctx context.Context, token string) (model.Player, error) {
	if token == "" {
		return model.Player{}, model.ErrUnauthorized
	}

	unavailable := false
	for _, r := range c {
		player, err := r.Resolve(ctx, token)
		if err == nil {
			return player, nil
		}
		if errors.Is(err, model.ErrIdentityUnavailable) {
			unavailable = true
		}
	}

	if unavailable {
		return model.Player{}, fmt.Errorf("%w: no resolver accepted the token", model.ErrIdentityUnavailable)
	}
	return model.Player{}, model.ErrUnauthorized
}

var _ Resolver = Chain(nil)
