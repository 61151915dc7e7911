// ABOUTME: User module: account lookups for external callers
// ABOUTME: Registers as user.* in the function catalogue

package functions

import (
	"context"
	"errors"

	"github.com/slugline-app/slugline-gateway/internal/registry"
	"github.com/slugline-app/slugline-gateway/internal/store"
)

// UserModule builds the user function module over the given store.
func UserModule(s store.UserStore) registry.Module {
	h := &userHandlers{store: s}
	return registry.Module{
		Key: "user",
		Functions: []registry.Function{
			{
				Name:        "getUserInfo",
				Description: "Fetch account information for a user",
				Parameters: map[string]registry.ParamSpec{
					"user_id": {Type: "string", Description: "User id", Required: true},
				},
				Handler: h.GetUserInfo,
			},
		},
	}
}

type userHandlers struct {
	store store.UserStore
}

func (h *userHandlers) GetUserInfo(ctx context.Context, args map[string]any) (any, error) {
	id := stringArg(args, "user_id")
	if id == "" {
		return nil, errors.New("User ID is required")
	}

	user, err := h.store.GetUser(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, errors.New("User not found")
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}
