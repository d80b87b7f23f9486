package app

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"walletbridge/internal/domain"
)

// Duration accepts "30s"-style values in YAML.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("parsing duration %q: %w", value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

// Config holds runtime wiring options.
type Config struct {
	// Home is the state directory, e.g. $HOME/.walletbridge.
	Home string `yaml:"home"`

	// Provider selects the wallet vendor (phantom, solflare). ProviderBase
	// overrides its universal-link base, e.g. for a local simulator.
	Provider     string `yaml:"provider"`
	ProviderBase string `yaml:"provider_base"`

	// Cluster is the target network identifier, e.g. mainnet-beta, devnet.
	Cluster string `yaml:"cluster"`
	// AppURL identifies this app to the wallet.
	AppURL string `yaml:"app_url"`
	// RedirectBase is the link base the wallet redirects back to; the
	// operation suffix (/onConnect, ...) is appended per request.
	RedirectBase string `yaml:"redirect_base"`

	// RPCURL is the ledger JSON-RPC endpoint used to relay signed
	// transactions. ConfirmTimeout bounds confirmation polling.
	RPCURL         string   `yaml:"rpc_url"`
	ConfirmTimeout Duration `yaml:"confirm_timeout"`

	// LogLevel is a logrus level name (debug, info, warn, error).
	LogLevel string `yaml:"log_level"`

	// OpenURLs shells out to the OS opener when true; otherwise outbound
	// URLs are printed for the user to carry to the wallet.
	OpenURLs bool `yaml:"open_urls"`

	// Optional injected collaborators; defaulted by NewWire when nil.
	HTTP   *http.Client     `yaml:"-"`
	Opener domain.URLOpener `yaml:"-"`
}

// DefaultConfig returns a devnet configuration against Phantom.
func DefaultConfig() Config {
	return Config{
		Provider:       "phantom",
		Cluster:        "devnet",
		AppURL:         "https://walletbridge.local",
		RedirectBase:   "walletbridge:/",
		RPCURL:         "https://api.devnet.solana.com",
		ConfirmTimeout: Duration(60 * time.Second),
		LogLevel:       "info",
	}
}

// LoadConfig reads a YAML config file over the defaults. A missing path
// returns the defaults unchanged.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}
