package notify

import (
	"context"

	"github.com/verte-zerg/sleepdial/internal/store"
)

// Permission is the outcome of an authorization request.
type Permission int

const (
	PermissionGranted Permission = iota
	PermissionDenied
	PermissionError
)

func (p Permission) String() string {
	switch p {
	case PermissionGranted:
		return "granted"
	case PermissionDenied:
		return "denied"
	default:
		return "error"
	}
}

// Authorizer asks whether reminders may be delivered.
type Authorizer interface {
	RequestAuthorization(ctx context.Context) (Permission, error)
}

// AuthorizerFunc adapts a function to Authorizer.
type AuthorizerFunc func(ctx context.Context) (Permission, error)

func (f AuthorizerFunc) RequestAuthorization(ctx context.Context) (Permission, error) {
	return f(ctx)
}

// ProfileSource loads the stored profile.
type ProfileSource interface {
	LoadProfile(ctx context.Context, fallback store.Profile) (store.Profile, error)
}

// SettingsAuthorizer grants permission when the profile has notifications enabled.
type SettingsAuthorizer struct {
	Profiles ProfileSource
}

func (a SettingsAuthorizer) RequestAuthorization(ctx context.Context) (Permission, error) {
	if a.Profiles == nil {
		return PermissionDenied, nil
	}
	p, err := a.Profiles.LoadProfile(ctx, store.Profile{})
	if err != nil {
		return PermissionError, err
	}
	if !p.NotificationsEnabled {
		return PermissionDenied, nil
	}
	return PermissionGranted, nil
}
