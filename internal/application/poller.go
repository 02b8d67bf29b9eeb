package application

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/caffeine-labs/caff/internal/domain"
	"github.com/caffeine-labs/caff/internal/ports"
	"github.com/sirupsen/logrus"
)

const DefaultPollInterval = 10 * time.Second

type PollerOptions struct {
	Interval time.Duration
	Logger   logrus.FieldLogger
}

// Poller owns one repeating stats fetch. At most one run is live at a time and
// no onTick delivery happens once Stop has returned.
type Poller struct {
	ledger   ports.Ledger
	interval time.Duration
	log      logrus.FieldLogger

	mu         sync.Mutex
	generation uint64
	cancel     context.CancelFunc
}

func NewPoller(ledger ports.Ledger, opts PollerOptions) *Poller {
	interval := opts.Interval
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &Poller{
		ledger:   ledger,
		interval: interval,
		log:      logger.WithField("component", "poller"),
	}
}

func (p *Poller) Interval() time.Duration {
	return p.interval
}

func (p *Poller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.cancel != nil
}

// Start replaces any previous run, fetches immediately, then every interval.
// onTick runs on the poll goroutine and must not call Start or Stop.
func (p *Poller) Start(onTick func(domain.PollResult)) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopLocked()

	ctx, cancel := context.WithCancel(context.Background())
	p.generation++
	p.cancel = cancel

	p.log.WithField("interval", p.interval).Debug("Starting stats polling")
	go p.run(ctx, p.generation, onTick)
}

func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopLocked()
}

func (p *Poller) stopLocked() {
	if p.cancel == nil {
		return
	}

	p.cancel()
	p.cancel = nil
	p.generation++
	p.log.Debug("Stopped stats polling")
}

func (p *Poller) run(ctx context.Context, generation uint64, onTick func(domain.PollResult)) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.tick(ctx, generation, onTick)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.tick(ctx, generation, onTick)
		}
	}
}

func (p *Poller) tick(ctx context.Context, generation uint64, onTick func(domain.PollResult)) {
	result, err := p.FetchOnce(ctx)
	if err != nil {
		if ctx.Err() == nil {
			p.log.WithError(err).Warn("Failed to update stats")
		}
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if generation != p.generation || ctx.Err() != nil {
		return
	}
	if onTick != nil {
		onTick(result)
	}
}

// FetchOnce queries deposit then rewards.
func (p *Poller) FetchOnce(ctx context.Context) (domain.PollResult, error) {
	deposit, err := p.ledger.GetDeposit(ctx)
	if err != nil {
		return domain.PollResult{}, fmt.Errorf("get deposit: %w", err)
	}

	rewards, err := p.ledger.CalculateRewards(ctx)
	if err != nil {
		return domain.PollResult{}, fmt.Errorf("calculate rewards: %w", err)
	}

	return domain.PollResult{Deposit: deposit, Rewards: rewards}, nil
}
