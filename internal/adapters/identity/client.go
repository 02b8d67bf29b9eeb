package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caffeine-labs/caff/internal/domain"
	"github.com/caffeine-labs/caff/internal/ports"
	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

const TokensSecretKey = "identity/tokens"

type Config struct {
	ClientID   string
	ListenAddr string
	Timeout    time.Duration
	Scopes     []string
}

type Options struct {
	Store  ports.SecretStore
	Opener ports.URLOpener
	HTTP   *resty.Client
	Clock  ports.Clock
	Logger logrus.FieldLogger
}

// Client is the identity provider's session client. Its session lives in the
// secret store and survives across processes.
type Client struct {
	cfg    Config
	store  ports.SecretStore
	opener ports.URLOpener
	http   *resty.Client
	clock  ports.Clock
	log    logrus.FieldLogger
}

var _ ports.IdentityClient = (*Client)(nil)

func NewClient(cfg Config, opts Options) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Minute
	}
	if len(cfg.Scopes) == 0 {
		cfg.Scopes = []string{"openid"}
	}
	if opts.HTTP == nil {
		opts.HTTP = resty.New()
	}
	if opts.Clock == nil {
		opts.Clock = ports.SystemClock{}
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}

	return &Client{
		cfg:    cfg,
		store:  opts.Store,
		opener: opts.Opener,
		http:   opts.HTTP,
		clock:  opts.Clock,
		log:    opts.Logger.WithField("component", "identity"),
	}
}

func (c *Client) IsAuthenticated(ctx context.Context) (bool, error) {
	secretValue, err := c.store.Get(ctx, TokensSecretKey)
	if err != nil {
		if errors.Is(err, domain.ErrSecretNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("load identity tokens: %w", err)
	}

	tokens, err := decodeStoredTokens(secretValue)
	if err != nil {
		return false, err
	}
	if tokens.expired(c.clock.Now()) {
		c.log.Debug("Stored identity session expired")
		return false, nil
	}

	return true, nil
}

// Login runs the PKCE browser ceremony against opts.IdentityProvider. Setup
// failures are returned; the outcome of the ceremony itself goes to the callbacks.
func (c *Client) Login(ctx context.Context, opts ports.IdentityLoginOptions) error {
	if opts.IdentityProvider == "" {
		return errors.New("identity provider is required")
	}
	if c.cfg.ClientID == "" {
		return errors.New("identity client id is required")
	}

	pkce, err := NewPKCEPair()
	if err != nil {
		return fmt.Errorf("generate pkce: %w", err)
	}
	state, err := NewState()
	if err != nil {
		return fmt.Errorf("generate state: %w", err)
	}

	server, err := StartCallbackServer(c.cfg.ListenAddr, state)
	if err != nil {
		return fmt.Errorf("start callback server: %w", err)
	}

	redirectURI := server.RedirectURI()
	authURL, err := BuildAuthorizationURL(AuthorizationRequest{
		AuthURL:       strings.TrimRight(opts.IdentityProvider, "/") + "/oauth/authorize",
		ClientID:      c.cfg.ClientID,
		RedirectURI:   redirectURI,
		Scopes:        c.cfg.Scopes,
		State:         state,
		CodeChallenge: pkce.Challenge,
	})
	if err != nil {
		_ = server.Close()
		return fmt.Errorf("build authorization url: %w", err)
	}

	if c.opener != nil {
		if err := c.opener.OpenURL(authURL); err != nil {
			c.log.WithError(err).Warn("Failed to open identity provider")
		}
	}

	if err := c.complete(ctx, server, opts.IdentityProvider, redirectURI, pkce); err != nil {
		notify(opts.OnError, err)
		return nil
	}

	if opts.OnSuccess != nil {
		opts.OnSuccess()
	}
	return nil
}

func (c *Client) complete(ctx context.Context, server *CallbackServer, issuer, redirectURI string, pkce PKCEPair) error {
	code, err := server.WaitForCode(ctx, c.cfg.Timeout)
	if err != nil {
		return fmt.Errorf("wait for identity callback: %w", err)
	}

	exchanged, err := ExchangeCodeForTokens(ctx, c.http, TokenExchangeRequest{
		Issuer:       issuer,
		ClientID:     c.cfg.ClientID,
		RedirectURI:  redirectURI,
		Code:         code,
		CodeVerifier: pkce.Verifier,
	})
	if err != nil {
		return err
	}

	secretValue, err := encodeStoredTokens(newStoredTokens(exchanged, c.clock.Now()))
	if err != nil {
		return err
	}
	if err := c.store.Put(ctx, TokensSecretKey, secretValue); err != nil {
		return fmt.Errorf("save identity tokens: %w", err)
	}

	return nil
}

func (c *Client) Logout(ctx context.Context) error {
	if err := c.store.Delete(ctx, TokensSecretKey); err != nil {
		return fmt.Errorf("clear identity tokens: %w", err)
	}

	return nil
}

func notify(onError func(error), err error) {
	if onError != nil {
		onError(err)
	}
}
