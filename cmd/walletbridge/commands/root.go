package commands

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"walletbridge/internal/app"
)

var (
	cfgPath  string
	home     string
	provider string
	cluster  string
	rpcURL   string
	openURLs bool

	wire *app.Wire
)

func Execute() error {
	root := &cobra.Command{
		Use:           "walletbridge",
		Short:         "Connect an external wallet over deeplinks and relay signed transactions",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.LoadConfig(cfgPath)
			if err != nil {
				return err
			}
			if home != "" {
				cfg.Home = home
			}
			if cfg.Home == "" {
				dir, err := os.UserHomeDir()
				if err != nil {
					return err
				}
				cfg.Home = filepath.Join(dir, ".walletbridge")
			}
			if err := os.MkdirAll(cfg.Home, 0o700); err != nil {
				return err
			}
			if provider != "" {
				cfg.Provider = provider
			}
			if cluster != "" {
				cfg.Cluster = cluster
			}
			if rpcURL != "" {
				cfg.RPCURL = rpcURL
			}
			if cmd.Flags().Changed("open") {
				cfg.OpenURLs = openURLs
			}

			wire, err = app.NewWire(cfg)
			return err
		},
	}

	root.PersistentFlags().StringVar(&cfgPath, "config", "", "config file (YAML)")
	root.PersistentFlags().StringVar(&home, "home", "", "state dir (default ~/.walletbridge)")
	root.PersistentFlags().StringVar(&provider, "provider", "", "wallet provider (phantom, solflare)")
	root.PersistentFlags().StringVar(&cluster, "cluster", "", "target cluster (e.g. devnet)")
	root.PersistentFlags().StringVar(&rpcURL, "rpc", "", "ledger JSON-RPC endpoint")
	root.PersistentFlags().BoolVar(&openURLs, "open", false, "open outbound URLs via the OS instead of printing them")

	root.AddCommand(
		sessionCmd(),
		statusCmd(),
	)
	return root.Execute()
}
