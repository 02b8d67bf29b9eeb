package ledger

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCanister = "bkyz2-fmaaa-aaaaa-qaaaq-cai"

type recordedRequest struct {
	method    string
	path      string
	requestID string
	canister  string
	body      string
}

type fakeBackend struct {
	mu       sync.Mutex
	requests []recordedRequest
	deposit  uint64
}

func (b *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	b.mu.Lock()
	b.requests = append(b.requests, recordedRequest{
		method:    r.Method,
		path:      r.URL.Path,
		requestID: r.Header.Get(HeaderRequestID),
		canister:  r.Header.Get(HeaderCanisterID),
		body:      string(body),
	})
	b.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.Method == http.MethodGet && r.URL.Path == depositPath:
		b.mu.Lock()
		_ = json.NewEncoder(w).Encode(map[string]uint64{"deposit": b.deposit})
		b.mu.Unlock()
	case r.Method == http.MethodGet && r.URL.Path == rewardsPath:
		_, _ = w.Write([]byte(`{"rewards":12.3456}`))
	case r.Method == http.MethodPost && r.URL.Path == depositPath:
		var req depositRequest
		if err := json.Unmarshal(body, &req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		b.mu.Lock()
		b.deposit += req.Amount
		b.mu.Unlock()
		_, _ = w.Write([]byte(`{"ok":true}`))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (b *fakeBackend) Requests() []recordedRequest {
	b.mu.Lock()
	defer b.mu.Unlock()

	return append([]recordedRequest(nil), b.requests...)
}

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	logger, _ := logtest.NewNullLogger()
	return NewClient(Config{BaseURL: server.URL + "/", CanisterID: testCanister, Timeout: time.Second}, logger)
}

func TestClientQueriesDepositAndRewards(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{deposit: 500}
	client := newTestClient(t, backend)

	deposit, err := client.GetDeposit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(500), deposit)

	rewards, err := client.CalculateRewards(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 12.3456, rewards, 1e-9)

	requests := backend.Requests()
	require.Len(t, requests, 2)
	for _, req := range requests {
		assert.Equal(t, testCanister, req.canister)
		_, err := uuid.Parse(req.requestID)
		assert.NoError(t, err)
	}
	assert.NotEqual(t, requests[0].requestID, requests[1].requestID)
}

func TestClientDepositPostsAmount(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{deposit: 100}
	client := newTestClient(t, backend)

	ok, err := client.Deposit(context.Background(), 25)
	require.NoError(t, err)
	assert.True(t, ok)

	requests := backend.Requests()
	require.Len(t, requests, 1)
	assert.Equal(t, http.MethodPost, requests[0].method)
	assert.JSONEq(t, `{"amount":25}`, requests[0].body)

	deposit, err := client.GetDeposit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(125), deposit)
}

func TestClientDepositRejected(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":false}`))
	}))

	ok, err := client.Deposit(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestClientReportsStatusAndBody(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("  replica unavailable\n"))
	}))

	_, err := client.GetDeposit(context.Background())
	require.Error(t, err)
	assert.Equal(t, "getDeposit: ledger returned status 502: replica unavailable", err.Error())

	_, err = client.CalculateRewards(context.Background())
	assert.ErrorContains(t, err, "calculateRewards: ledger returned status 502")
}

func TestClientHonoursContextCancellation(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.GetDeposit(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
