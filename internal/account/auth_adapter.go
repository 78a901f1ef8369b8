package account

import (
	"context"

	"github.com/clubworks/clubd/internal/auth"
)

// AuthAdapter adapts account.Store to the auth.AccountLookup interface,
// projecting out the password hash and reset-token fields.
type AuthAdapter struct {
	store *Store
}

// NewAuthAdapter creates a new AuthAdapter wrapping the given account store.
func NewAuthAdapter(store *Store) *AuthAdapter {
	return &AuthAdapter{store: store}
}

// LookupAccount fetches the live account record and returns its sanitized view.
func (a *AuthAdapter) LookupAccount(ctx context.Context, id string) (*auth.Account, error) {
	acc, err := a.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return Sanitize(acc), nil
}

// Sanitize converts a stored account into the view attached to request
// contexts and returned by the API.
func Sanitize(a *Account) *auth.Account {
	return &auth.Account{
		ID:        a.ID,
		Username:  a.Username,
		Email:     a.Email,
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Role:      a.Role,
		Status:    a.Status,
		LastLogin: a.LastLogin,
	}
}
