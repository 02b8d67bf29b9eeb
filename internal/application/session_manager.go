package application

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/caffeine-labs/caff/internal/domain"
	"github.com/caffeine-labs/caff/internal/ports"
	"github.com/sirupsen/logrus"
)

const DefaultIdentityProvider = "https://identity.ic0.app"

type SessionManagerOptions struct {
	IdentityProvider string
	// Whitelist scopes every wallet connection request, typically to the backend canister.
	Whitelist        []string
	WalletInstallURL string
	Opener           ports.URLOpener
	Logger           logrus.FieldLogger
}

// SessionManager is the single writer of the application Session.
type SessionManager struct {
	identity ports.IdentityClient
	wallet   ports.WalletClient
	opts     SessionManagerOptions
	log      logrus.FieldLogger

	opMu    sync.Mutex
	mu      sync.RWMutex
	session domain.Session
}

// NewSessionManager wires both provider clients. wallet may be nil when the
// wallet extension is not installed.
func NewSessionManager(identity ports.IdentityClient, wallet ports.WalletClient, opts SessionManagerOptions) *SessionManager {
	if opts.IdentityProvider == "" {
		opts.IdentityProvider = DefaultIdentityProvider
	}
	opts.Whitelist = slices.Clone(opts.Whitelist)

	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &SessionManager{
		identity: identity,
		wallet:   wallet,
		opts:     opts,
		log:      logger.WithField("component", "session"),
		session:  domain.InactiveSession(),
	}
}

func (m *SessionManager) Session() domain.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.session
}

func (m *SessionManager) WalletAvailable() bool {
	return m.wallet != nil
}

// Restore looks for a pre-existing provider session, identity first.
// Provider failures only disqualify that provider.
func (m *SessionManager) Restore(ctx context.Context) domain.Session {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	if current := m.Session(); current.Active {
		return current
	}

	if m.restoreIdentity(ctx) {
		return m.set(domain.ActiveSession(domain.ProviderIdentity))
	}
	if m.restoreWallet(ctx) {
		return m.set(domain.ActiveSession(domain.ProviderWallet))
	}

	m.log.Debug("No restorable session")
	return m.Session()
}

func (m *SessionManager) restoreIdentity(ctx context.Context) bool {
	if m.identity == nil {
		return false
	}

	authenticated, err := m.identity.IsAuthenticated(ctx)
	if err != nil {
		m.log.WithError(err).WithField("provider", domain.ProviderIdentity).Warn("Failed to detect identity session")
		return false
	}

	return authenticated
}

func (m *SessionManager) restoreWallet(ctx context.Context) bool {
	if m.wallet == nil {
		return false
	}

	logger := m.log.WithField("provider", domain.ProviderWallet)

	connected, err := m.wallet.IsConnected(ctx)
	if err != nil {
		logger.WithError(err).Warn("Failed to detect wallet connection")
		return false
	}
	if !connected {
		return false
	}

	granted, err := m.wallet.RequestConnect(ctx, m.opts.Whitelist)
	if err != nil {
		logger.WithError(err).Warn("Wallet connection handshake failed")
		return false
	}
	if !granted {
		logger.Info("Wallet connection handshake denied")
		return false
	}

	return true
}

// Login runs the provider's interactive flow and blocks until it resolves.
// Logging in while a session is active is rejected with domain.ErrAlreadyActive.
// A missing wallet extension opens the install page and is not an error.
func (m *SessionManager) Login(ctx context.Context, provider domain.Provider) (domain.Session, error) {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	current := m.Session()
	if current.Active {
		return current, fmt.Errorf("login via %s: %w (active via %s)", provider, domain.ErrAlreadyActive, current.Provider)
	}

	logger := m.log.WithField("provider", provider)

	var err error
	switch provider {
	case domain.ProviderIdentity:
		err = m.loginIdentity(ctx)
	case domain.ProviderWallet:
		if m.wallet == nil {
			m.openWalletInstallPage(logger)
			return current, nil
		}
		err = m.loginWallet(ctx)
	default:
		return current, fmt.Errorf("login: %w %q", domain.ErrUnknownProvider, provider)
	}

	if err != nil {
		logger.WithError(err).Error("Login failed")
		return current, err
	}

	logger.Info("Logged in")
	return m.set(domain.ActiveSession(provider)), nil
}

func (m *SessionManager) loginIdentity(ctx context.Context) error {
	if m.identity == nil {
		return fmt.Errorf("%w: identity client not configured", domain.ErrLoginFailed)
	}

	succeeded := make(chan struct{}, 1)
	failed := make(chan error, 1)

	err := m.identity.Login(ctx, ports.IdentityLoginOptions{
		IdentityProvider: m.opts.IdentityProvider,
		OnSuccess: func() {
			select {
			case succeeded <- struct{}{}:
			default:
			}
		},
		OnError: func(err error) {
			select {
			case failed <- err:
			default:
			}
		},
	})
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrLoginFailed, err)
	}

	select {
	case <-succeeded:
		return nil
	case err := <-failed:
		return fmt.Errorf("%w: %w", domain.ErrLoginFailed, err)
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", domain.ErrLoginFailed, ctx.Err())
	}
}

func (m *SessionManager) loginWallet(ctx context.Context) error {
	granted, err := m.wallet.RequestConnect(ctx, m.opts.Whitelist)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrLoginFailed, err)
	}
	if !granted {
		return fmt.Errorf("%w: %w", domain.ErrLoginFailed, domain.ErrConnectionDenied)
	}

	return nil
}

func (m *SessionManager) openWalletInstallPage(logger logrus.FieldLogger) {
	if m.opts.WalletInstallURL == "" || m.opts.Opener == nil {
		logger.Warn("Wallet extension not installed")
		return
	}

	if err := m.opts.Opener.OpenURL(m.opts.WalletInstallURL); err != nil {
		logger.WithError(err).Warn("Failed to open wallet install page")
		return
	}

	logger.WithField("url", m.opts.WalletInstallURL).Info("Wallet extension not installed, opened install page")
}

// Logout disconnects the active provider and always ends inactive.
// It is a no-op when no session is active.
func (m *SessionManager) Logout(ctx context.Context) domain.Session {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	current := m.Session()
	if !current.Active {
		return current
	}

	logger := m.log.WithField("provider", current.Provider)

	var err error
	switch current.Provider {
	case domain.ProviderIdentity:
		if m.identity != nil {
			err = m.identity.Logout(ctx)
		}
	case domain.ProviderWallet:
		if m.wallet != nil {
			err = m.wallet.Disconnect(ctx)
		}
	}
	if err != nil {
		logger.WithError(err).Warn("Provider logout failed, clearing session anyway")
	} else {
		logger.Info("Logged out")
	}

	return m.set(domain.InactiveSession())
}

func (m *SessionManager) set(session domain.Session) domain.Session {
	if err := session.Validate(); err != nil {
		m.log.WithError(err).Error("Refusing invalid session transition")
		return m.Session()
	}

	m.mu.Lock()
	m.session = session
	m.mu.Unlock()

	return session
}

// IsLoginFailure reports whether err came out of a provider login ceremony
// rather than from a rejected request.
func IsLoginFailure(err error) bool {
	return errors.Is(err, domain.ErrLoginFailed)
}
