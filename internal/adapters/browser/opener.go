package browser

import (
	"fmt"
	"io"
	"sync"

	"github.com/caffeine-labs/caff/internal/ports"
	pkgbrowser "github.com/pkg/browser"
	"github.com/sirupsen/logrus"
)

// Opener opens URLs in the desktop browser and always shows them to the user,
// so headless sessions can copy the link by hand.
type Opener struct {
	out    io.Writer
	log    logrus.FieldLogger
	launch func(string) error

	mu     sync.Mutex
	notify func(url string)
}

var _ ports.URLOpener = (*Opener)(nil)

func NewOpener(out io.Writer, logger logrus.FieldLogger) *Opener {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &Opener{
		out:    out,
		log:    logger.WithField("component", "browser"),
		launch: pkgbrowser.OpenURL,
	}
}

// Redirect sends URLs to notify instead of out until the returned func is
// called. A full-screen program uses it to keep the terminal intact.
func (o *Opener) Redirect(notify func(url string)) (restore func()) {
	o.mu.Lock()
	previous := o.notify
	o.notify = notify
	o.mu.Unlock()

	return func() {
		o.mu.Lock()
		o.notify = previous
		o.mu.Unlock()
	}
}

func (o *Opener) OpenURL(url string) error {
	o.show(url)

	if err := o.launch(url); err != nil {
		o.log.WithError(err).WithField("url", url).Warn("Could not launch browser")
		return fmt.Errorf("open browser: %w", err)
	}

	return nil
}

func (o *Opener) show(url string) {
	o.mu.Lock()
	notify := o.notify
	o.mu.Unlock()

	if notify != nil {
		notify(url)
		return
	}
	if o.out != nil {
		_, _ = fmt.Fprintf(o.out, "Open this URL to continue:\n%s\n", url)
	}
}
