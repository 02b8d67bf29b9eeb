package wallet

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/caffeine-labs/caff/internal/domain"
	"github.com/caffeine-labs/caff/internal/ports"
	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

const (
	RecordFileName = "wallet.toml"

	statusPath     = "/status"
	connectPath    = "/connect"
	disconnectPath = "/disconnect"
	detectTimeout  = 2 * time.Second
)

type Config struct {
	BridgeURL string
	// Host is the backend the connection is granted for.
	Host     string
	StateDir string
}

type Options struct {
	HTTP   *resty.Client
	Clock  ports.Clock
	Logger logrus.FieldLogger
}

type statusResponse struct {
	Version string `json:"version"`
}

type connectRequest struct {
	Whitelist []string `json:"whitelist"`
	Host      string   `json:"host"`
}

type connectResponse struct {
	Connected bool `json:"connected"`
}

// Client talks to the wallet extension's local bridge. The bridge holds the
// wallet; the client only remembers whether a connection was granted.
type Client struct {
	baseURL    string
	host       string
	recordPath string
	http       *resty.Client
	clock      ports.Clock
	log        logrus.FieldLogger

	mu sync.Mutex
}

var _ ports.WalletClient = (*Client)(nil)

func NewClient(cfg Config, opts Options) *Client {
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
		baseURL:    strings.TrimRight(cfg.BridgeURL, "/"),
		host:       cfg.Host,
		recordPath: filepath.Join(cfg.StateDir, RecordFileName),
		http:       opts.HTTP,
		clock:      opts.Clock,
		log:        opts.Logger.WithField("component", "wallet"),
	}
}

// Detect probes the bridge once and returns nil when it is missing or unhealthy,
// meaning the wallet is not installed.
func Detect(ctx context.Context, cfg Config, opts Options) *Client {
	client := NewClient(cfg, opts)
	if client.baseURL == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, detectTimeout)
	defer cancel()

	var status statusResponse
	resp, err := client.http.R().
		SetContext(ctx).
		SetResult(&status).
		Get(client.baseURL + statusPath)
	if err != nil {
		client.log.WithError(err).Debug("Wallet bridge not reachable")
		return nil
	}
	if resp.IsError() {
		client.log.WithField("status", resp.StatusCode()).Debug("Wallet bridge unhealthy")
		return nil
	}

	client.log.WithField("bridge_version", status.Version).Debug("Wallet bridge detected")
	return client
}

func (c *Client) RecordPath() string {
	return c.recordPath
}

func (c *Client) IsConnected(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	record, ok, err := readRecord(c.recordPath)
	if err != nil || !ok {
		return false, err
	}

	return record.Connected && record.Host == c.host, nil
}

// RequestConnect asks the wallet to grant access to whitelist. The user may
// decline, which is reported as false with a nil error.
func (c *Client) RequestConnect(ctx context.Context, whitelist []string) (bool, error) {
	var result connectResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(connectRequest{Whitelist: whitelist, Host: c.host}).
		SetResult(&result).
		Post(c.baseURL + connectPath)
	if err != nil {
		return false, fmt.Errorf("%w: connect: %w", domain.ErrWalletUnavailable, err)
	}
	if resp.IsError() {
		return false, fmt.Errorf("wallet bridge connect returned status %d: %s", resp.StatusCode(), trimBody(resp))
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if !result.Connected {
		return false, removeRecord(c.recordPath)
	}

	if err := writeRecord(c.recordPath, newConnectionRecord(c.host, slices.Clone(whitelist), c.clock.Now())); err != nil {
		return false, err
	}

	return true, nil
}

// Disconnect forgets the local record even when the bridge call fails.
func (c *Client) Disconnect(ctx context.Context) error {
	var bridgeErr error
	resp, err := c.http.R().
		SetContext(ctx).
		Post(c.baseURL + disconnectPath)
	switch {
	case err != nil:
		bridgeErr = fmt.Errorf("%w: disconnect: %w", domain.ErrWalletUnavailable, err)
	case resp.IsError():
		bridgeErr = fmt.Errorf("wallet bridge disconnect returned status %d: %s", resp.StatusCode(), trimBody(resp))
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	return errors.Join(bridgeErr, removeRecord(c.recordPath))
}

func trimBody(resp *resty.Response) string {
	body := strings.TrimSpace(resp.String())
	if len(body) > 200 {
		body = body[:200]
	}
	return body
}
