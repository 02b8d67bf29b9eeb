package ports

import "context"

// WalletClient is only available when the wallet extension is installed;
// callers hold a nil WalletClient otherwise.
type WalletClient interface {
	IsConnected(ctx context.Context) (bool, error)
	RequestConnect(ctx context.Context, whitelist []string) (bool, error)
	Disconnect(ctx context.Context) error
}
