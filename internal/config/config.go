package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	configName = "config"
	configType = "toml"
	envPrefix  = "CAFF"
	appDirName = "caff"

	DefaultBackendURL       = "http://127.0.0.1:4943"
	DefaultCanisterID       = "bkyz2-fmaaa-aaaaa-qaaaq-cai"
	DefaultIdentityProvider = "https://identity.ic0.app"
	DefaultClientID         = "caff-cli"
	DefaultBridgeURL        = "http://127.0.0.1:9797"
	DefaultWalletInstallURL = "https://plugwallet.ooo/"
)

type Config struct {
	Backend  BackendConfig  `mapstructure:"backend"`
	Identity IdentityConfig `mapstructure:"identity"`
	Wallet   WalletConfig   `mapstructure:"wallet"`
	Poll     PollConfig     `mapstructure:"poll"`
	Log      LogConfig      `mapstructure:"log"`
	State    StateConfig    `mapstructure:"state"`
}

type BackendConfig struct {
	URL        string        `mapstructure:"url"`
	CanisterID string        `mapstructure:"canister_id"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

type IdentityConfig struct {
	ProviderURL string        `mapstructure:"provider_url"`
	ClientID    string        `mapstructure:"client_id"`
	ListenAddr  string        `mapstructure:"listen_addr"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

type WalletConfig struct {
	BridgeURL  string `mapstructure:"bridge_url"`
	InstallURL string `mapstructure:"install_url"`
}

type PollConfig struct {
	Interval time.Duration `mapstructure:"interval"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type StateConfig struct {
	Dir string `mapstructure:"dir"`
}

// Load reads configFile, or config.toml from the user config directory when
// configFile is empty. A missing default file is not an error; CAFF_* env
// variables override file values.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	if v == nil {
		v = viper.New()
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	v.SetConfigName(configName)
	v.SetConfigType(configType)
	v.AddConfigPath(filepath.Join(homeDir, ".config", appDirName))
	if configFile != "" {
		v.SetConfigFile(configFile)
	}

	setDefaults(v, homeDir)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	cfg.State.Dir, err = expandHome(cfg.State.Dir, homeDir)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper, homeDir string) {
	v.SetDefault("backend.url", DefaultBackendURL)
	v.SetDefault("backend.canister_id", DefaultCanisterID)
	v.SetDefault("backend.timeout", 30*time.Second)
	v.SetDefault("identity.provider_url", DefaultIdentityProvider)
	v.SetDefault("identity.client_id", DefaultClientID)
	v.SetDefault("identity.listen_addr", "127.0.0.1:0")
	v.SetDefault("identity.timeout", 5*time.Minute)
	v.SetDefault("wallet.bridge_url", DefaultBridgeURL)
	v.SetDefault("wallet.install_url", DefaultWalletInstallURL)
	v.SetDefault("poll.interval", 10*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("state.dir", filepath.Join(homeDir, ".local", "state", appDirName))
}

func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Backend.URL) == "" {
		errs = append(errs, errors.New("backend.url is required"))
	}
	if strings.TrimSpace(c.Backend.CanisterID) == "" {
		errs = append(errs, errors.New("backend.canister_id is required"))
	}
	if c.Poll.Interval <= 0 {
		errs = append(errs, fmt.Errorf("poll.interval must be positive, got %s", c.Poll.Interval))
	}
	if strings.TrimSpace(c.State.Dir) == "" {
		errs = append(errs, errors.New("state.dir is required"))
	}

	return errors.Join(errs...)
}

// SecretsDir holds the file fallback of the secret store.
func (c Config) SecretsDir() string {
	return filepath.Join(c.State.Dir, "secrets")
}

// LogFile receives logs while the dashboard owns the terminal.
func (c Config) LogFile() string {
	return filepath.Join(c.State.Dir, "caff.log")
}

func expandHome(path, homeDir string) (string, error) {
	switch {
	case path == "~":
		path = homeDir
	case strings.HasPrefix(path, "~/"):
		path = filepath.Join(homeDir, path[2:])
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve state dir: %w", err)
	}

	return filepath.Clean(absPath), nil
}
