package application

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/caffeine-labs/caff/internal/domain"
	"github.com/caffeine-labs/caff/internal/ports"
	"github.com/sirupsen/logrus"
)

// Controller drives the presenter and the poller from session transitions.
type Controller struct {
	sessions  *SessionManager
	poller    *Poller
	ledger    ports.Ledger
	presenter ports.Presenter
	log       logrus.FieldLogger

	// viewMu orders stats publication against the switch to the disconnected view.
	viewMu sync.Mutex
}

func NewController(sessions *SessionManager, poller *Poller, ledger ports.Ledger, presenter ports.Presenter, logger logrus.FieldLogger) *Controller {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &Controller{
		sessions:  sessions,
		poller:    poller,
		ledger:    ledger,
		presenter: presenter,
		log:       logger.WithField("component", "controller"),
	}
}

func (c *Controller) Session() domain.Session {
	return c.sessions.Session()
}

// Start restores any provider session and begins polling when one is found.
func (c *Controller) Start(ctx context.Context) domain.Session {
	session := c.sessions.Restore(ctx)
	if session.Active {
		c.activate(session)
		return session
	}

	c.presenter.ShowDisconnectedView()
	return session
}

// Login never surfaces provider failures; they are logged and the session is left unchanged.
func (c *Controller) Login(ctx context.Context, provider domain.Provider) domain.Session {
	c.presenter.ShowLoading()
	defer c.presenter.HideLoading()

	session, err := c.sessions.Login(ctx, provider)
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyActive) {
			c.log.WithError(err).Warn("Ignoring login request")
		}
		return session
	}

	if session.Active {
		c.activate(session)
	}

	return session
}

func (c *Controller) Logout(ctx context.Context) domain.Session {
	c.poller.Stop()

	c.viewMu.Lock()
	defer c.viewMu.Unlock()

	session := c.sessions.Logout(ctx)
	c.presenter.ShowDisconnectedView()

	return session
}

// Deposit validates raw locally before any remote call, then refreshes stats on
// success. The returned request carries the amount actually sent.
func (c *Controller) Deposit(ctx context.Context, raw string) (domain.DepositRequest, error) {
	request, err := domain.ParseDepositAmount(raw)
	if err != nil {
		return domain.DepositRequest{}, err
	}

	if !c.sessions.Session().Active {
		return domain.DepositRequest{}, domain.ErrNotConnected
	}

	c.presenter.ShowLoading()
	defer c.presenter.HideLoading()

	logger := c.log.WithField("amount", request.Amount)

	ok, err := c.ledger.Deposit(ctx, request.Amount)
	if err != nil {
		logger.WithError(err).Error("Deposit failed")
		return domain.DepositRequest{}, fmt.Errorf("deposit %d: %w", request.Amount, err)
	}
	if !ok {
		logger.Error("Deposit rejected")
		return domain.DepositRequest{}, fmt.Errorf("deposit %d: %w", request.Amount, domain.ErrDepositRejected)
	}

	logger.Info("Deposit recorded")
	c.Refresh(ctx)

	return request, nil
}

// Refresh performs one out-of-band stats fetch.
func (c *Controller) Refresh(ctx context.Context) {
	result, err := c.poller.FetchOnce(ctx)
	if err != nil {
		c.log.WithError(err).Warn("Failed to update stats")
		return
	}

	c.publish(result)
}

func (c *Controller) Stop() {
	c.poller.Stop()
}

func (c *Controller) activate(session domain.Session) {
	c.log.WithField("provider", session.Provider).Debug("Session active")
	c.presenter.ShowConnectedView()
	c.poller.Start(c.publish)
}

func (c *Controller) publish(result domain.PollResult) {
	c.viewMu.Lock()
	defer c.viewMu.Unlock()

	if !c.sessions.Session().Active {
		return
	}

	c.presenter.PublishStats(result.DepositLabel(), result.RewardsLabel())
}
