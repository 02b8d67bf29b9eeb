package cmd

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchSpinnerFinalFrameKeepsLabel(t *testing.T) {
	t.Parallel()

	m := newFetchSpinnerModel("Fetching miner stats...", nil)
	assert.Contains(t, m.View(), "Fetching miner stats...")

	next, cmd := m.Update(fetchDoneMsg{})
	require.NotNil(t, cmd)
	assert.Equal(t, "Fetching miner stats... done\n", next.View())

	failed, _ := m.Update(fetchDoneMsg{err: errors.New("boom")})
	assert.Equal(t, "Fetching miner stats... failed\n", failed.View())
}

func TestRunFetchSpinnerWritesLabelForInstantFetch(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	err := runFetchSpinner(context.Background(), &out, "Fetching miner stats...", func(context.Context) error {
		return nil
	})

	require.NoError(t, err)
	assert.Contains(t, out.String(), "Fetching miner stats...")
}

func TestRunFetchSpinnerReturnsFetchError(t *testing.T) {
	t.Parallel()

	boom := errors.New("ledger down")
	err := runFetchSpinner(context.Background(), &bytes.Buffer{}, "Fetching miner stats...", func(context.Context) error {
		return boom
	})

	assert.ErrorIs(t, err, boom)
}
