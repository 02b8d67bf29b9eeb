package domain

import (
	"fmt"
	"strings"
)

type Provider string

const (
	ProviderNone     Provider = ""
	ProviderIdentity Provider = "identity"
	ProviderWallet   Provider = "wallet"
)

// ParseProvider accepts the canonical names plus the short aliases used on the command line.
func ParseProvider(raw string) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "identity", "ii", "a":
		return ProviderIdentity, nil
	case "wallet", "plug", "b":
		return ProviderWallet, nil
	default:
		return ProviderNone, fmt.Errorf("%w %q", ErrUnknownProvider, raw)
	}
}

func (p Provider) Label() string {
	switch p {
	case ProviderIdentity:
		return "Internet Identity"
	case ProviderWallet:
		return "Plug Wallet"
	case ProviderNone:
		return "none"
	default:
		return string(p)
	}
}

type SessionState string

const (
	StateInactive          SessionState = "inactive"
	StateActiveViaIdentity SessionState = "active_via_identity"
	StateActiveViaWallet   SessionState = "active_via_wallet"
)

// Session is the application's notion of "logged in, and via whom".
// An inactive session never carries a provider.
type Session struct {
	Active   bool
	Provider Provider
}

func InactiveSession() Session {
	return Session{}
}

func ActiveSession(provider Provider) Session {
	return Session{Active: true, Provider: provider}
}

func (s Session) State() SessionState {
	if !s.Active {
		return StateInactive
	}

	switch s.Provider {
	case ProviderIdentity:
		return StateActiveViaIdentity
	case ProviderWallet:
		return StateActiveViaWallet
	default:
		return StateInactive
	}
}

func (s Session) Validate() error {
	if !s.Active && s.Provider != ProviderNone {
		return fmt.Errorf("inactive session carries provider %q", s.Provider)
	}
	if s.Active && s.Provider != ProviderIdentity && s.Provider != ProviderWallet {
		return fmt.Errorf("%w %q", ErrUnknownProvider, s.Provider)
	}

	return nil
}
