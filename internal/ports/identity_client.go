package ports

import "context"

// IdentityLoginOptions configures one interactive identity login ceremony.
// Exactly one of OnSuccess or OnError is invoked when Login returns nil.
type IdentityLoginOptions struct {
	IdentityProvider string
	OnSuccess        func()
	OnError          func(error)
}

type IdentityClient interface {
	IsAuthenticated(ctx context.Context) (bool, error)
	Login(ctx context.Context, opts IdentityLoginOptions) error
	Logout(ctx context.Context) error
}
