package application

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/caffeine-labs/caff/internal/ports"
)

var errBoom = errors.New("boom")

type fakeIdentity struct {
	mu sync.Mutex

	authenticated bool
	authErr       error
	loginErr      error
	callbackErr   error
	logoutErr     error

	authCalls   int
	loginCalls  int
	logoutCalls int
	lastLogin   ports.IdentityLoginOptions
}

func (f *fakeIdentity) IsAuthenticated(_ context.Context) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.authCalls++
	return f.authenticated, f.authErr
}

func (f *fakeIdentity) Login(_ context.Context, opts ports.IdentityLoginOptions) error {
	f.mu.Lock()
	f.loginCalls++
	f.lastLogin = opts
	loginErr, callbackErr := f.loginErr, f.callbackErr
	f.mu.Unlock()

	if loginErr != nil {
		return loginErr
	}
	if callbackErr != nil {
		opts.OnError(callbackErr)
		return nil
	}

	f.mu.Lock()
	f.authenticated = true
	f.mu.Unlock()
	opts.OnSuccess()
	return nil
}

func (f *fakeIdentity) Logout(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.logoutCalls++
	f.authenticated = false
	return f.logoutErr
}

type fakeWallet struct {
	mu sync.Mutex

	connected     bool
	connectedErr  error
	grant         bool
	grantErr      error
	disconnectErr error

	connectCalls    int
	disconnectCalls int
	whitelists      [][]string
}

func (f *fakeWallet) IsConnected(_ context.Context) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.connected, f.connectedErr
}

func (f *fakeWallet) RequestConnect(_ context.Context, whitelist []string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.connectCalls++
	f.whitelists = append(f.whitelists, slices.Clone(whitelist))
	if f.grantErr != nil {
		return false, f.grantErr
	}
	if f.grant {
		f.connected = true
	}
	return f.grant, nil
}

func (f *fakeWallet) Disconnect(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.disconnectCalls++
	f.connected = false
	return f.disconnectErr
}

type fakeOpener struct {
	mu     sync.Mutex
	opened []string
	err    error
}

func (f *fakeOpener) OpenURL(url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.opened = append(f.opened, url)
	return f.err
}

func (f *fakeOpener) Opened() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return slices.Clone(f.opened)
}

// fakeLedger answers from fixed values. When gate is set, GetDeposit blocks
// until a value is sent on it or the context ends.
type fakeLedger struct {
	mu sync.Mutex

	deposit    uint64
	rewards    float64
	queryErr   error
	depositOK  bool
	depositErr error
	gate       chan struct{}
	entered    chan struct{}

	depositQueries int
	rewardQueries  int
	deposits       []uint64
}

func (f *fakeLedger) GetDeposit(ctx context.Context) (uint64, error) {
	f.mu.Lock()
	f.depositQueries++
	gate, entered := f.gate, f.entered
	f.mu.Unlock()

	if entered != nil {
		select {
		case entered <- struct{}{}:
		default:
		}
	}
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	return f.deposit, f.queryErr
}

func (f *fakeLedger) CalculateRewards(_ context.Context) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.rewardQueries++
	return f.rewards, f.queryErr
}

func (f *fakeLedger) Deposit(_ context.Context, amount uint64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.deposits = append(f.deposits, amount)
	if f.depositErr != nil {
		return false, f.depositErr
	}
	if f.depositOK {
		f.deposit += amount
	}
	return f.depositOK, nil
}

func (f *fakeLedger) setQueryErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.queryErr = err
}

func (f *fakeLedger) counts() (deposits int, rewards int) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.depositQueries, f.rewardQueries
}

func (f *fakeLedger) depositCalls() []uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()

	return slices.Clone(f.deposits)
}

type publishedStats struct {
	deposit string
	rewards string
}

type recordingPresenter struct {
	mu     sync.Mutex
	events []string
	stats  []publishedStats
}

func (p *recordingPresenter) record(event string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.events = append(p.events, event)
}

func (p *recordingPresenter) ShowConnectedView()    { p.record("connected") }
func (p *recordingPresenter) ShowDisconnectedView() { p.record("disconnected") }
func (p *recordingPresenter) ShowLoading()          { p.record("loading") }
func (p *recordingPresenter) HideLoading()          { p.record("loaded") }

func (p *recordingPresenter) PublishStats(deposit, rewards string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.events = append(p.events, "stats")
	p.stats = append(p.stats, publishedStats{deposit: deposit, rewards: rewards})
}

func (p *recordingPresenter) Events() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	return slices.Clone(p.events)
}

func (p *recordingPresenter) Stats() []publishedStats {
	p.mu.Lock()
	defer p.mu.Unlock()

	return slices.Clone(p.stats)
}
