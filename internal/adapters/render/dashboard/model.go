package dashboard

import (
	"context"
	"fmt"
	"strings"

	"github.com/caffeine-labs/caff/internal/domain"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const placeholderStat = "-"

// Actions is the controller surface the dashboard drives. Every call runs
// outside the bubbletea event loop.
type Actions interface {
	Start(ctx context.Context) domain.Session
	Login(ctx context.Context, provider domain.Provider) domain.Session
	Logout(ctx context.Context) domain.Session
	Deposit(ctx context.Context, raw string) (domain.DepositRequest, error)
	Refresh(ctx context.Context)
}

type Options struct {
	Version         string
	WalletAvailable bool
}

type viewState int

const (
	viewStarting viewState = iota
	viewDisconnected
	viewConnected
)

type sessionMsg struct {
	session domain.Session
}

type depositDoneMsg struct {
	amount uint64
	err    error
}

type model struct {
	ctx     context.Context
	actions Actions
	opts    Options
	styles  styles
	spinner spinner.Model
	input   textinput.Model

	view     viewState
	session  domain.Session
	loading  bool
	entering bool
	deposit  string
	rewards  string
	notice   string
	errText  string
}

func newModel(ctx context.Context, actions Actions, opts Options) model {
	s := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("69"))),
	)

	input := textinput.New()
	input.Placeholder = "amount in ICP"
	input.Prompt = "deposit> "
	input.CharLimit = 20

	return model{
		ctx:     ctx,
		actions: actions,
		opts:    opts,
		styles:  newStyles(),
		spinner: s,
		input:   input,
		deposit: placeholderStat,
		rewards: placeholderStat,
	}
}

func (m model) Init() tea.Cmd {
	ctx, actions := m.ctx, m.actions
	start := func() tea.Msg {
		return sessionMsg{session: actions.Start(ctx)}
	}

	return tea.Batch(m.spinner.Tick, start)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		return m.handleKey(msg)
	case connectedMsg:
		m.view = viewConnected
		return m, nil
	case disconnectedMsg:
		m.view = viewDisconnected
		m.entering = false
		m.deposit, m.rewards = placeholderStat, placeholderStat
		return m, nil
	case loadingMsg:
		m.loading = msg.on
		return m, nil
	case statsMsg:
		m.deposit, m.rewards = msg.deposit, msg.rewards
		return m, nil
	case sessionMsg:
		m.session = msg.session
		return m, nil
	case noticeMsg:
		m.errText = ""
		m.notice = msg.text
		return m, nil
	case depositDoneMsg:
		if msg.err != nil {
			m.notice = ""
			m.errText = msg.err.Error()
			return m, nil
		}
		m.errText = ""
		m.notice = fmt.Sprintf("Deposited %d ICP", msg.amount)
		return m, nil
	default:
		if !m.entering {
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	if m.entering {
		return m.handleDepositInput(msg)
	}

	key := msg.String()
	if key == "q" {
		return m, tea.Quit
	}
	if m.loading {
		return m, nil
	}

	m.notice, m.errText = "", ""

	switch m.view {
	case viewDisconnected:
		switch key {
		case "i":
			return m, m.loginCmd(domain.ProviderIdentity)
		case "w":
			return m, m.loginCmd(domain.ProviderWallet)
		}
	case viewConnected:
		switch key {
		case "d":
			m.entering = true
			m.input.Reset()
			return m, m.input.Focus()
		case "r":
			return m, m.refreshCmd()
		case "x":
			return m, m.logoutCmd()
		}
	}

	return m, nil
}

func (m model) handleDepositInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.entering = false
		m.input.Blur()
		return m, nil
	case tea.KeyEnter:
		raw := strings.TrimSpace(m.input.Value())
		m.entering = false
		m.input.Blur()
		m.input.Reset()
		return m, m.depositCmd(raw)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) loginCmd(provider domain.Provider) tea.Cmd {
	ctx, actions := m.ctx, m.actions
	return func() tea.Msg {
		return sessionMsg{session: actions.Login(ctx, provider)}
	}
}

func (m model) logoutCmd() tea.Cmd {
	ctx, actions := m.ctx, m.actions
	return func() tea.Msg {
		return sessionMsg{session: actions.Logout(ctx)}
	}
}

func (m model) refreshCmd() tea.Cmd {
	ctx, actions := m.ctx, m.actions
	return func() tea.Msg {
		actions.Refresh(ctx)
		return nil
	}
}

func (m model) depositCmd(raw string) tea.Cmd {
	ctx, actions := m.ctx, m.actions
	return func() tea.Msg {
		request, err := actions.Deposit(ctx, raw)
		return depositDoneMsg{amount: request.Amount, err: err}
	}
}

func (m model) View() string {
	return renderView(m)
}

// Run blocks until the user quits or ctx ends. presenter is attached to the
// program for the duration of the run.
func Run(ctx context.Context, actions Actions, presenter *Presenter, opts Options, programOpts ...tea.ProgramOption) error {
	programOpts = append([]tea.ProgramOption{tea.WithContext(ctx)}, programOpts...)
	p := tea.NewProgram(newModel(ctx, actions, opts), programOpts...)

	presenter.Attach(p.Send)
	defer presenter.Detach()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run dashboard: %w", err)
	}

	return nil
}
