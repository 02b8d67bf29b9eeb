package browser

import (
	"bytes"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenerPrintsAndLaunches(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	logger, _ := logtest.NewNullLogger()
	opener := NewOpener(&out, logger)

	var launched []string
	opener.launch = func(url string) error {
		launched = append(launched, url)
		return nil
	}

	require.NoError(t, opener.OpenURL("https://plugwallet.ooo/"))
	assert.Equal(t, []string{"https://plugwallet.ooo/"}, launched)
	assert.Equal(t, "Open this URL to continue:\nhttps://plugwallet.ooo/\n", out.String())
}

func TestOpenerReportsLaunchFailureAfterPrinting(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	logger, hook := logtest.NewNullLogger()
	opener := NewOpener(&out, logger)
	opener.launch = func(string) error { return errors.New("no display") }

	err := opener.OpenURL("https://identity.ic0.app/oauth/authorize")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no display")
	assert.Contains(t, out.String(), "https://identity.ic0.app/oauth/authorize")
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.Equal(t, "Could not launch browser", hook.LastEntry().Message)
}

func TestOpenerRedirectKeepsTerminalClean(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	logger, _ := logtest.NewNullLogger()
	opener := NewOpener(&out, logger)
	opener.launch = func(string) error { return nil }

	var notified []string
	restore := opener.Redirect(func(url string) { notified = append(notified, url) })

	require.NoError(t, opener.OpenURL("https://plugwallet.ooo/"))
	assert.Empty(t, out.String())
	assert.Equal(t, []string{"https://plugwallet.ooo/"}, notified)

	restore()
	require.NoError(t, opener.OpenURL("https://plugwallet.ooo/"))
	assert.Contains(t, out.String(), "https://plugwallet.ooo/")
	assert.Len(t, notified, 1)
}
