package moderation

import (
	"context"
	"errors"

	"github.com/alphabot-ai/skillswap/internal/model"
	"github.com/alphabot-ai/skillswap/internal/store"
)

// Identity is an authenticated caller as established by the auth layer.
type Identity struct {
	AccountID int64
}

// Admin proves that a caller passed the Gateway. The zero value is not a valid
// admin and is refused by every Engine operation.
type Admin struct {
	id int64
}

func (a Admin) AccountID() int64 { return a.id }

// RoleLookup resolves the current role of an account.
type RoleLookup interface {
	GetAccountRole(ctx context.Context, id int64) (model.Role, error)
}

// Gateway checks that a caller holds the admin role. It has no side effects.
type Gateway struct {
	roles RoleLookup
}

func NewGateway(roles RoleLookup) *Gateway {
	return &Gateway{roles: roles}
}

// Authorize reads the caller's role on every call so that demotions take effect
// immediately.
func (g *Gateway) Authorize(ctx context.Context, caller *Identity) (Admin, error) {
	const op = "moderation.authorize"
	if caller == nil || caller.AccountID == 0 {
		return Admin{}, newError(ErrAuthenticationRequired, op, "", nil)
	}
	role, err := g.roles.GetAccountRole(ctx, caller.AccountID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Admin{}, newError(ErrAuthorizationDenied, op, "", err)
		}
		return Admin{}, newError(ErrServerFault, op, "", err)
	}
	if role != model.RoleAdmin {
		return Admin{}, newError(ErrAuthorizationDenied, op, "", nil)
	}
	return Admin{id: caller.AccountID}, nil
}
