package identity

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
)

const callbackPath = "/auth/callback"

var (
	ErrStateMismatch   = errors.New("identity callback state mismatch")
	ErrCallbackTimeout = errors.New("timed out waiting for identity callback")
	ErrMissingState    = errors.New("expected state is required")
)

type AuthorizationRequest struct {
	AuthURL       string
	ClientID      string
	RedirectURI   string
	Scopes        []string
	State         string
	CodeChallenge string
}

type TokenExchangeRequest struct {
	Issuer       string
	ClientID     string
	RedirectURI  string
	Code         string
	CodeVerifier string
}

type ExchangedTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	IDToken      string `json:"id_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

type tokenErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

func BuildAuthorizationURL(req AuthorizationRequest) (string, error) {
	if req.AuthURL == "" {
		return "", errors.New("auth url is required")
	}
	if req.ClientID == "" {
		return "", errors.New("client id is required")
	}
	if req.RedirectURI == "" {
		return "", errors.New("redirect uri is required")
	}
	if req.State == "" {
		return "", errors.New("state is required")
	}
	if req.CodeChallenge == "" {
		return "", errors.New("code challenge is required")
	}

	parsed, err := url.Parse(req.AuthURL)
	if err != nil {
		return "", fmt.Errorf("parse auth url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", errors.New("auth url must use http or https")
	}
	if parsed.Host == "" {
		return "", errors.New("auth url host is required")
	}

	q := parsed.Query()
	q.Set("response_type", "code")
	q.Set("client_id", req.ClientID)
	q.Set("redirect_uri", req.RedirectURI)
	if len(req.Scopes) > 0 {
		q.Set("scope", strings.Join(req.Scopes, " "))
	}
	q.Set("state", req.State)
	q.Set("code_challenge", req.CodeChallenge)
	q.Set("code_challenge_method", PKCEChallengeMethodS256)
	parsed.RawQuery = q.Encode()

	return parsed.String(), nil
}

// CallbackServer receives the single authorization redirect of one login ceremony.
type CallbackServer struct {
	expectedState string
	listener      net.Listener
	server        *http.Server
	resultCh      chan callbackResult
	resultOnce    sync.Once
	closeOnce     sync.Once
}

type callbackResult struct {
	code string
	err  error
}

func StartCallbackServer(listenAddr string, expectedState string) (*CallbackServer, error) {
	if expectedState == "" {
		return nil, ErrMissingState
	}
	if listenAddr == "" {
		listenAddr = "127.0.0.1:0"
	}

	listener, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return nil, fmt.Errorf("listen callback server: %w", err)
	}

	cb := &CallbackServer{
		expectedState: expectedState,
		listener:      listener,
		resultCh:      make(chan callbackResult, 1),
	}

	mux := http.NewServeMux()
	mux.HandleFunc(callbackPath, cb.handleCallback)
	cb.server = &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		if serveErr := cb.server.Serve(cb.listener); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			cb.trySendResult(callbackResult{err: serveErr})
		}
	}()

	return cb, nil
}

func (c *CallbackServer) RedirectURI() string {
	if tcpAddr, ok := c.listener.Addr().(*net.TCPAddr); ok {
		return fmt.Sprintf("http://localhost:%d%s", tcpAddr.Port, callbackPath)
	}
	return "http://localhost" + callbackPath
}

// WaitForCode blocks until the redirect arrives, the timeout elapses or ctx ends.
// The server is closed on return.
func (c *CallbackServer) WaitForCode(ctx context.Context, timeout time.Duration) (string, error) {
	defer func() { _ = c.Close() }()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case result := <-c.resultCh:
		return result.code, result.err
	case <-timer.C:
		return "", ErrCallbackTimeout
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (c *CallbackServer) Close() error {
	var closeErr error
	c.closeOnce.Do(func() {
		closeErr = c.server.Close()
	})
	return closeErr
}

func (c *CallbackServer) handleCallback(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	if query.Get("state") != c.expectedState {
		c.trySendResult(callbackResult{err: ErrStateMismatch})
		http.Error(w, "state mismatch", http.StatusBadRequest)
		return
	}
	if providerError := query.Get("error"); providerError != "" {
		if description := query.Get("error_description"); description != "" {
			providerError = providerError + ": " + description
		}
		c.trySendResult(callbackResult{err: errors.New(providerError)})
		http.Error(w, "login rejected", http.StatusBadRequest)
		return
	}
	code := query.Get("code")
	if code == "" {
		c.trySendResult(callbackResult{err: errors.New("missing authorization code")})
		http.Error(w, "missing code", http.StatusBadRequest)
		return
	}

	c.trySendResult(callbackResult{code: code})
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Login complete. You can close this window and return to caff."))
}

func (c *CallbackServer) trySendResult(result callbackResult) {
	c.resultOnce.Do(func() {
		c.resultCh <- result
	})
}

func ExchangeCodeForTokens(ctx context.Context, client *resty.Client, req TokenExchangeRequest) (ExchangedTokens, error) {
	if req.Issuer == "" {
		return ExchangedTokens{}, errors.New("issuer is required")
	}
	if req.ClientID == "" {
		return ExchangedTokens{}, errors.New("client id is required")
	}
	if req.RedirectURI == "" {
		return ExchangedTokens{}, errors.New("redirect uri is required")
	}
	if req.Code == "" {
		return ExchangedTokens{}, errors.New("authorization code is required")
	}
	if req.CodeVerifier == "" {
		return ExchangedTokens{}, errors.New("code verifier is required")
	}

	if client == nil {
		client = resty.New()
	}

	var tokens ExchangedTokens
	var failure tokenErrorResponse
	resp, err := client.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"grant_type":    "authorization_code",
			"code":          req.Code,
			"redirect_uri":  req.RedirectURI,
			"client_id":     req.ClientID,
			"code_verifier": req.CodeVerifier,
		}).
		SetResult(&tokens).
		SetError(&failure).
		Post(strings.TrimRight(req.Issuer, "/") + "/oauth/token")
	if err != nil {
		return ExchangedTokens{}, fmt.Errorf("exchange code for tokens: %w", err)
	}

	if resp.IsError() {
		if failure.Error != "" {
			return ExchangedTokens{}, fmt.Errorf("token endpoint returned status %d: %s", resp.StatusCode(), formatTokenError(failure))
		}
		return ExchangedTokens{}, fmt.Errorf("token endpoint returned status %d", resp.StatusCode())
	}
	if tokens.AccessToken == "" {
		return ExchangedTokens{}, errors.New("token response missing access token")
	}

	return tokens, nil
}

func formatTokenError(failure tokenErrorResponse) string {
	if failure.ErrorDescription != "" {
		return failure.Error + ": " + failure.ErrorDescription
	}
	return failure.Error
}
