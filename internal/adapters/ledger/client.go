package ledger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/caffeine-labs/caff/internal/ports"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	depositPath = "/api/deposit"
	rewardsPath = "/api/rewards"

	HeaderRequestID  = "X-Request-ID"
	HeaderCanisterID = "X-Canister-Id"

	defaultTimeout = 30 * time.Second
	maxErrorBody   = 200
)

type Config struct {
	BaseURL    string
	CanisterID string
	Timeout    time.Duration
}

type depositResponse struct {
	Deposit uint64 `json:"deposit"`
}

type rewardsResponse struct {
	Rewards float64 `json:"rewards"`
}

type depositRequest struct {
	Amount uint64 `json:"amount"`
}

type depositResult struct {
	OK bool `json:"ok"`
}

// Client is the miner backend's ledger over HTTP JSON. Calls are made once;
// the caller decides what a failure means.
type Client struct {
	http *resty.Client
	log  logrus.FieldLogger
}

var _ ports.Ledger = (*Client)(nil)

func NewClient(cfg Config, logger logrus.FieldLogger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json")
	if cfg.CanisterID != "" {
		httpClient.SetHeader(HeaderCanisterID, cfg.CanisterID)
	}

	return &Client{
		http: httpClient,
		log:  logger.WithField("component", "ledger"),
	}
}

func (c *Client) GetDeposit(ctx context.Context) (uint64, error) {
	var out depositResponse
	if err := c.call("getDeposit", c.request(ctx).SetResult(&out), resty.MethodGet, depositPath); err != nil {
		return 0, err
	}

	return out.Deposit, nil
}

func (c *Client) CalculateRewards(ctx context.Context) (float64, error) {
	var out rewardsResponse
	if err := c.call("calculateRewards", c.request(ctx).SetResult(&out), resty.MethodGet, rewardsPath); err != nil {
		return 0, err
	}

	return out.Rewards, nil
}

func (c *Client) Deposit(ctx context.Context, amount uint64) (bool, error) {
	var out depositResult
	req := c.request(ctx).
		SetBody(depositRequest{Amount: amount}).
		SetResult(&out)
	if err := c.call("deposit", req, resty.MethodPost, depositPath); err != nil {
		return false, err
	}

	return out.OK, nil
}

func (c *Client) request(ctx context.Context) *resty.Request {
	return c.http.R().
		SetContext(ctx).
		SetHeader(HeaderRequestID, uuid.NewString())
}

func (c *Client) call(method string, req *resty.Request, verb, path string) error {
	resp, err := req.Execute(verb, path)
	if err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}

	c.log.WithFields(logrus.Fields{
		"method":     method,
		"status":     resp.StatusCode(),
		"request_id": req.Header.Get(HeaderRequestID),
		"elapsed":    resp.Time(),
	}).Debug("Ledger call")

	if resp.IsError() {
		return fmt.Errorf("%s: ledger returned status %d: %s", method, resp.StatusCode(), trimBody(resp.String()))
	}

	return nil
}

func trimBody(body string) string {
	body = strings.TrimSpace(body)
	if len(body) > maxErrorBody {
		return body[:maxErrorBody]
	}
	return body
}
