package dashboard

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/caffeine-labs/caff/internal/domain"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeActions struct {
	mu sync.Mutex

	startSession domain.Session
	loginSession domain.Session
	depositErr   error

	logins    []domain.Provider
	logouts   int
	deposits  []string
	refreshes int
}

func (f *fakeActions) Start(context.Context) domain.Session {
	return f.startSession
}

func (f *fakeActions) Login(_ context.Context, provider domain.Provider) domain.Session {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.logins = append(f.logins, provider)
	return f.loginSession
}

func (f *fakeActions) Logout(context.Context) domain.Session {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.logouts++
	return domain.InactiveSession()
}

func (f *fakeActions) Deposit(_ context.Context, raw string) (domain.DepositRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.deposits = append(f.deposits, raw)
	if f.depositErr != nil {
		return domain.DepositRequest{}, f.depositErr
	}
	return domain.ParseDepositAmount(raw)
}

func (f *fakeActions) Refresh(context.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.refreshes++
}

func keyPress(key string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
}

func update(t *testing.T, m model, msg tea.Msg) (model, tea.Cmd) {
	t.Helper()

	next, cmd := m.Update(msg)
	updated, ok := next.(model)
	require.True(t, ok)
	return updated, cmd
}

// press feeds a key and runs the resulting command back through the model.
func press(t *testing.T, m model, key string) model {
	t.Helper()

	m, cmd := update(t, m, keyPress(key))
	if cmd != nil {
		if msg := cmd(); msg != nil {
			m, _ = update(t, m, msg)
		}
	}
	return m
}

func TestModelShowsConnectedStats(t *testing.T) {
	t.Parallel()

	m := newModel(context.Background(), &fakeActions{}, Options{Version: "v1.0.0"})
	assert.Contains(t, m.View(), "Restoring session")

	m, _ = update(t, m, sessionMsg{session: domain.ActiveSession(domain.ProviderWallet)})
	m, _ = update(t, m, connectedMsg{})
	m, _ = update(t, m, statsMsg{deposit: "500 ICP", rewards: "12.3456 CAFF"})

	view := m.View()
	assert.Contains(t, view, "v1.0.0")
	assert.Contains(t, view, "Connected via Plug Wallet")
	assert.Contains(t, view, "500 ICP")
	assert.Contains(t, view, "12.3456 CAFF")
	assert.Contains(t, view, "x logout")
}

func TestModelDisconnectedViewClearsStats(t *testing.T) {
	t.Parallel()

	m := newModel(context.Background(), &fakeActions{}, Options{})
	m, _ = update(t, m, connectedMsg{})
	m, _ = update(t, m, statsMsg{deposit: "500 ICP", rewards: "1.0000 CAFF"})
	m, _ = update(t, m, disconnectedMsg{})

	view := m.View()
	assert.Contains(t, view, "Not connected")
	assert.NotContains(t, view, "500 ICP")
	assert.Contains(t, view, "w login with wallet (install)")
	assert.Equal(t, placeholderStat, m.deposit)
}

func TestModelLoginKeysDispatchProvider(t *testing.T) {
	t.Parallel()

	actions := &fakeActions{loginSession: domain.ActiveSession(domain.ProviderIdentity)}
	m := newModel(context.Background(), actions, Options{WalletAvailable: true})
	m, _ = update(t, m, disconnectedMsg{})

	m = press(t, m, "i")
	assert.Equal(t, domain.ActiveSession(domain.ProviderIdentity), m.session)

	m = press(t, m, "w")
	assert.Equal(t, []domain.Provider{domain.ProviderIdentity, domain.ProviderWallet}, actions.logins)

	// Connected-only keys do nothing while disconnected.
	press(t, m, "x")
	assert.Equal(t, 0, actions.logouts)
}

func TestModelIgnoresActionsWhileLoading(t *testing.T) {
	t.Parallel()

	actions := &fakeActions{}
	m := newModel(context.Background(), actions, Options{})
	m, _ = update(t, m, disconnectedMsg{})
	m, _ = update(t, m, loadingMsg{on: true})
	assert.Contains(t, m.View(), "Working...")

	_, cmd := update(t, m, keyPress("i"))
	assert.Nil(t, cmd)
	assert.Empty(t, actions.logins)
}

func TestModelDepositFlow(t *testing.T) {
	t.Parallel()

	actions := &fakeActions{}
	m := newModel(context.Background(), actions, Options{})
	m, _ = update(t, m, connectedMsg{})

	m, _ = update(t, m, keyPress("d"))
	require.True(t, m.entering)
	assert.Contains(t, m.View(), "enter confirm")

	m, _ = update(t, m, keyPress("2"))
	m, _ = update(t, m, keyPress("5"))
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.False(t, m.entering)

	m, _ = update(t, m, cmd())
	assert.Equal(t, []string{"25"}, actions.deposits)
	assert.Contains(t, m.View(), "Deposited 25 ICP")
}

func TestModelDepositNoticeShowsParsedAmount(t *testing.T) {
	t.Parallel()

	actions := &fakeActions{}
	m := newModel(context.Background(), actions, Options{})
	m, _ = update(t, m, connectedMsg{})
	m, _ = update(t, m, keyPress("d"))

	for _, key := range []string{"3", ".", "9"} {
		m, _ = update(t, m, keyPress(key))
	}
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	m, _ = update(t, m, cmd())
	assert.Equal(t, []string{"3.9"}, actions.deposits)
	assert.Contains(t, m.View(), "Deposited 3 ICP")
	assert.NotContains(t, m.View(), "3.9")
}

func TestModelDepositFailureIsShown(t *testing.T) {
	t.Parallel()

	actions := &fakeActions{depositErr: domain.ErrInvalidDepositAmount}
	m := newModel(context.Background(), actions, Options{})
	m, _ = update(t, m, connectedMsg{})
	m, _ = update(t, m, keyPress("d"))

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = update(t, m, cmd())

	assert.Equal(t, []string{""}, actions.deposits)
	assert.Contains(t, m.View(), domain.ErrInvalidDepositAmount.Error())
}

func TestModelEscapeCancelsDeposit(t *testing.T) {
	t.Parallel()

	actions := &fakeActions{}
	m := newModel(context.Background(), actions, Options{})
	m, _ = update(t, m, connectedMsg{})
	m, _ = update(t, m, keyPress("d"))

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Nil(t, cmd)
	assert.False(t, m.entering)
	assert.Empty(t, actions.deposits)
}

func TestModelLogoutAndRefreshKeys(t *testing.T) {
	t.Parallel()

	actions := &fakeActions{}
	m := newModel(context.Background(), actions, Options{})
	m, _ = update(t, m, connectedMsg{})

	m = press(t, m, "r")
	assert.Equal(t, 1, actions.refreshes)

	m = press(t, m, "x")
	assert.Equal(t, 1, actions.logouts)
	assert.False(t, m.session.Active)
}

func TestModelQuitKeys(t *testing.T) {
	t.Parallel()

	m := newModel(context.Background(), &fakeActions{}, Options{})

	_, cmd := update(t, m, keyPress("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())

	_, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestPresenterDropsCallsUntilAttached(t *testing.T) {
	t.Parallel()

	presenter := NewPresenter()
	presenter.ShowConnectedView()

	var got []tea.Msg
	presenter.Attach(func(msg tea.Msg) { got = append(got, msg) })
	presenter.ShowConnectedView()
	presenter.ShowLoading()
	presenter.PublishStats("1 ICP", "0.5000 CAFF")
	presenter.HideLoading()
	presenter.ShowDisconnectedView()
	presenter.Detach()
	presenter.ShowLoading()

	assert.Equal(t, []tea.Msg{
		connectedMsg{},
		loadingMsg{on: true},
		statsMsg{deposit: "1 ICP", rewards: "0.5000 CAFF"},
		loadingMsg{on: false},
		disconnectedMsg{},
	}, got)
}

func TestModelShowsDepositError(t *testing.T) {
	t.Parallel()

	m := newModel(context.Background(), &fakeActions{}, Options{})
	m, _ = update(t, m, depositDoneMsg{err: errors.New("deposit 5: rejected")})

	assert.Equal(t, "deposit 5: rejected", m.errText)
	assert.Empty(t, m.notice)
}

func TestPresenterNoticeReachesView(t *testing.T) {
	t.Parallel()

	presenter := NewPresenter()
	var got []tea.Msg
	presenter.Attach(func(msg tea.Msg) { got = append(got, msg) })
	presenter.ShowNotice("Open this URL to continue: https://plugwallet.ooo/")
	require.Len(t, got, 1)

	m := newModel(context.Background(), &fakeActions{}, Options{})
	m, _ = update(t, m, disconnectedMsg{})
	m, _ = update(t, m, got[0])

	assert.Contains(t, m.View(), "https://plugwallet.ooo/")

	m, _ = update(t, m, keyPress("i"))
	assert.Empty(t, m.notice)
}
