package cmd

import (
	"fmt"
	"os"

	"github.com/caffeine-labs/caff/internal/adapters/browser"
	"github.com/caffeine-labs/caff/internal/adapters/identity"
	"github.com/caffeine-labs/caff/internal/adapters/ledger"
	chainstore "github.com/caffeine-labs/caff/internal/adapters/secrets/chain"
	"github.com/caffeine-labs/caff/internal/adapters/wallet"
	"github.com/caffeine-labs/caff/internal/application"
	"github.com/caffeine-labs/caff/internal/config"
	"github.com/caffeine-labs/caff/internal/ports"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type app struct {
	cfg      *config.Config
	log      *logrus.Logger
	ledger   ports.Ledger
	opener   *browser.Opener
	sessions *application.SessionManager
	poller   *application.Poller
}

func (a *app) wire(cmd *cobra.Command, opts rootOptions) error {
	cfg, err := config.Load(viper.New(), opts.configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := config.NewLogger(cfg.Log, cmd.ErrOrStderr(), opts.verbose)
	if err != nil {
		return err
	}

	secretStore, err := chainstore.NewPassFirstWithFileFallback(cfg.SecretsDir())
	if err != nil {
		return fmt.Errorf("wire secret store chain: %w", err)
	}

	opener := browser.NewOpener(cmd.ErrOrStderr(), logger)

	identityClient := identity.NewClient(identity.Config{
		ClientID:   cfg.Identity.ClientID,
		ListenAddr: cfg.Identity.ListenAddr,
		Timeout:    cfg.Identity.Timeout,
	}, identity.Options{
		Store:  secretStore,
		Opener: opener,
		Logger: logger,
	})

	// A nil *wallet.Client must stay a nil interface for the session manager.
	var walletClient ports.WalletClient
	detected := wallet.Detect(cmd.Context(), wallet.Config{
		BridgeURL: cfg.Wallet.BridgeURL,
		Host:      cfg.Backend.CanisterID,
		StateDir:  cfg.State.Dir,
	}, wallet.Options{Logger: logger})
	if detected != nil {
		walletClient = detected
	}

	ledgerClient := ledger.NewClient(ledger.Config{
		BaseURL:    cfg.Backend.URL,
		CanisterID: cfg.Backend.CanisterID,
		Timeout:    cfg.Backend.Timeout,
	}, logger)

	a.cfg = cfg
	a.log = logger
	a.ledger = ledgerClient
	a.opener = opener
	a.sessions = application.NewSessionManager(identityClient, walletClient, application.SessionManagerOptions{
		IdentityProvider: cfg.Identity.ProviderURL,
		Whitelist:        []string{cfg.Backend.CanisterID},
		WalletInstallURL: cfg.Wallet.InstallURL,
		Opener:           opener,
		Logger:           logger,
	})
	a.poller = application.NewPoller(ledgerClient, application.PollerOptions{
		Interval: cfg.Poll.Interval,
		Logger:   logger,
	})

	return nil
}

func (a *app) newController(presenter ports.Presenter) *application.Controller {
	return application.NewController(a.sessions, a.poller, a.ledger, presenter, a.log)
}

// logToFile moves logging off the terminal while a full-screen program owns it.
func (a *app) logToFile() (func(), error) {
	path := a.cfg.LogFile()
	if err := os.MkdirAll(a.cfg.State.Dir, 0o700); err != nil {
		return nil, fmt.Errorf("create state directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	previous := a.log.Out
	a.log.SetOutput(file)

	return func() {
		a.log.SetOutput(previous)
		_ = file.Close()
	}, nil
}
