package text

import (
	"fmt"
	"io"
	"sync"

	"github.com/caffeine-labs/caff/internal/domain"
	"github.com/caffeine-labs/caff/internal/ports"
	"github.com/charmbracelet/lipgloss"
)

// Status is the summary printed by `caff status`.
type Status struct {
	Active          bool   `json:"active"`
	State           string `json:"state"`
	Provider        string `json:"provider,omitempty"`
	WalletInstalled bool   `json:"wallet_installed"`
}

func NewStatus(session domain.Session, walletInstalled bool) Status {
	status := Status{
		Active:          session.Active,
		State:           string(session.State()),
		WalletInstalled: walletInstalled,
	}
	if session.Active {
		status.Provider = string(session.Provider)
	}

	return status
}

var (
	keyStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Width(10)
	valueStyle   = lipgloss.NewStyle().Bold(true)
	activeStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	offlineStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

func RenderStatus(status Status) string {
	session := offlineStyle.Render("not connected")
	if status.Active {
		session = activeStyle.Render("connected via " + domain.Provider(status.Provider).Label())
	}

	wallet := "not installed"
	if status.WalletInstalled {
		wallet = "installed"
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		keyStyle.Render("session")+session,
		keyStyle.Render("wallet")+offlineStyle.Render(wallet),
	)
}

func RenderStats(deposit, rewards string) string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		keyStyle.Render("Deposit")+valueStyle.Render(deposit),
		keyStyle.Render("Rewards")+valueStyle.Render(rewards),
	)
}

// Presenter writes one line per presentation event for non-interactive commands.
// Loading has no line representation.
type Presenter struct {
	mu  sync.Mutex
	out io.Writer
}

var _ ports.Presenter = (*Presenter)(nil)

func NewPresenter(out io.Writer) *Presenter {
	return &Presenter{out: out}
}

func (p *Presenter) ShowConnectedView()    { p.println(activeStyle.Render("connected")) }
func (p *Presenter) ShowDisconnectedView() { p.println(offlineStyle.Render("not connected")) }
func (p *Presenter) ShowLoading()          {}
func (p *Presenter) HideLoading()          {}

func (p *Presenter) PublishStats(deposit, rewards string) {
	p.println(RenderStats(deposit, rewards))
}

func (p *Presenter) println(line string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	_, _ = fmt.Fprintln(p.out, line)
}
