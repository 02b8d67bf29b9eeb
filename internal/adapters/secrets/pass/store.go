package pass

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path"
	"strings"

	"github.com/caffeine-labs/caff/internal/domain"
	"github.com/caffeine-labs/caff/internal/ports"
)

// DefaultPrefix is the password-store folder that holds every caff entry.
const DefaultPrefix = "caff"

const notInStoreMarker = "is not in the password store"

var (
	ErrUnavailable = errors.New("pass command unavailable")
	ErrInvalidKey  = errors.New("invalid secret key")
)

type runFunc func(ctx context.Context, input string, args ...string) (stdout string, stderr string, err error)

// Store keeps secrets as pass(1) entries below prefix. Keys are relative
// slash-separated names such as "identity/tokens".
type Store struct {
	prefix string
	run    runFunc
}

var _ ports.SecretStore = (*Store)(nil)

func NewStore(prefix string) *Store {
	prefix = strings.Trim(strings.TrimSpace(prefix), "/")
	if prefix == "" {
		prefix = DefaultPrefix
	}

	return &Store{prefix: prefix, run: runPassCommand}
}

func (s *Store) Put(ctx context.Context, key string, value string) error {
	entry, err := s.entry(key)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if _, stderr, err := s.run(ctx, value+"\n", "insert", "--multiline", "--force", entry); err != nil {
		return commandError("store", entry, err, stderr)
	}

	return nil
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	entry, err := s.entry(key)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	stdout, stderr, err := s.run(ctx, "", "show", entry)
	switch {
	case err == nil:
		return strings.TrimRight(stdout, "\r\n"), nil
	case strings.Contains(stderr, notInStoreMarker):
		return "", fmt.Errorf("pass entry %s: %w", entry, domain.ErrSecretNotFound)
	default:
		return "", commandError("read", entry, err, stderr)
	}
}

// Delete removes the entry. A missing entry is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	entry, err := s.entry(key)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	_, stderr, err := s.run(ctx, "", "rm", "--force", entry)
	if err != nil && !strings.Contains(stderr, notInStoreMarker) {
		return commandError("remove", entry, err, stderr)
	}

	return nil
}

// entry maps key to its pass name, rejecting keys that would escape prefix.
func (s *Store) entry(key string) (string, error) {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidKey)
	}
	if strings.HasPrefix(trimmed, "/") || strings.ContainsAny(trimmed, "\\\n") {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	for _, segment := range strings.Split(trimmed, "/") {
		if segment == "" || segment == "." || segment == ".." {
			return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
		}
	}

	return path.Join(s.prefix, trimmed), nil
}

func runPassCommand(ctx context.Context, input string, args ...string) (string, string, error) {
	binary, err := exec.LookPath("pass")
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", "", ErrUnavailable
		}
		return "", "", fmt.Errorf("locate pass command: %w", err)
	}

	cmd := exec.CommandContext(ctx, binary, args...)
	if input != "" {
		cmd.Stdin = strings.NewReader(input)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err = cmd.Run()
	return stdout.String(), strings.TrimSpace(stderr.String()), err
}

func commandError(action string, entry string, err error, stderr string) error {
	if stderr == "" {
		return fmt.Errorf("%s pass entry %s: %w", action, entry, err)
	}

	return fmt.Errorf("%s pass entry %s: %w: %s", action, entry, err, stderr)
}
