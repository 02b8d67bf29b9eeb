package dashboard

import (
	"sync"

	"github.com/caffeine-labs/caff/internal/ports"
	tea "github.com/charmbracelet/bubbletea"
)

type connectedMsg struct{}

type disconnectedMsg struct{}

type loadingMsg struct {
	on bool
}

type noticeMsg struct {
	text string
}

type statsMsg struct {
	deposit string
	rewards string
}

// Presenter forwards presentation calls into a running bubbletea program.
// Calls made while no program is attached are dropped.
type Presenter struct {
	mu   sync.RWMutex
	send func(tea.Msg)
}

var _ ports.Presenter = (*Presenter)(nil)

func NewPresenter() *Presenter {
	return &Presenter{}
}

func (p *Presenter) Attach(send func(tea.Msg)) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.send = send
}

func (p *Presenter) Detach() {
	p.Attach(nil)
}

func (p *Presenter) ShowConnectedView()    { p.dispatch(connectedMsg{}) }
func (p *Presenter) ShowDisconnectedView() { p.dispatch(disconnectedMsg{}) }
func (p *Presenter) ShowLoading()          { p.dispatch(loadingMsg{on: true}) }
func (p *Presenter) HideLoading()          { p.dispatch(loadingMsg{on: false}) }

func (p *Presenter) PublishStats(deposit, rewards string) {
	p.dispatch(statsMsg{deposit: deposit, rewards: rewards})
}

// ShowNotice puts a one-line message under the dashboard until the next key press.
func (p *Presenter) ShowNotice(text string) {
	p.dispatch(noticeMsg{text: text})
}

func (p *Presenter) dispatch(msg tea.Msg) {
	p.mu.RLock()
	send := p.send
	p.mu.RUnlock()

	if send != nil {
		send(msg)
	}
}
