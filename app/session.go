package app

import (
	"context"

	"github.com/while-siddiqh-in-programing/auction-web-with-blockchain-security/core"
	"github.com/while-siddiqh-in-programing/auction-web-with-blockchain-security/marketapi"
)

// Login authenticates against the backend and, on success, persists the
// authentication flag and the user profile before returning.
func (a *App) Login(ctx context.Context, username, password string) (marketapi.AuthResponse, error) {
	if username == "" {
		return marketapi.AuthResponse{}, &core.ValidationError{Field: "username", Reason: "required"}
	}
	if password == "" {
		return marketapi.AuthResponse{}, &core.ValidationError{Field: "password", Reason: "required"}
	}

	resp, err := a.api.Login(ctx, marketapi.LoginRequest{Username: username, Password: password})
	if err != nil {
		return marketapi.AuthResponse{}, err
	}

	if resp.Success && resp.User != nil && a.store != nil {
		if err := a.store.SetAuthenticated(true); err != nil {
			a.log.Warn("failed to persist authentication flag", "error", err)
		}
		if err := a.store.SaveUser(*resp.User); err != nil {
			a.log.Warn("failed to persist user profile", "error", err)
		}
	}
	return resp, nil
}

// Register creates an account. The backend reports failure in the body's
// Success flag, so a rejected registration is not an error here.
func (a *App) Register(ctx context.Context, req marketapi.RegisterRequest) (marketapi.AuthResponse, error) {
	for field, value := range map[string]string{
		"username":  req.Username,
		"email":     req.Email,
		"password":  req.Password,
		"firstName": req.FirstName,
		"lastName":  req.LastName,
	} {
		if value == "" {
			return marketapi.AuthResponse{}, &core.ValidationError{Field: field, Reason: "required"}
		}
	}
	return a.api.Register(ctx, req)
}

// Logout clears the persisted session. The currency preference survives.
func (a *App) Logout() error {
	if a.store == nil {
		return nil
	}
	return a.store.ClearSession()
}

// Authenticated reports whether a persisted session exists.
func (a *App) Authenticated() bool {
	return a.store != nil && a.store.Authenticated()
}

// CurrentUser returns the persisted profile, if a session exists.
func (a *App) CurrentUser() (marketapi.User, bool) {
	if a.store == nil || !a.store.Authenticated() {
		return marketapi.User{}, false
	}
	return a.store.LoadUser()
}
