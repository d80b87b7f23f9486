package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// statusCmd reports the in-memory state machine and the persisted record.
func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show connection state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("State: %s\n", wire.Establisher.State())

			state, ok, err := wire.States.LoadWalletState()
			if err != nil {
				return fmt.Errorf("reading wallet state: %w", err)
			}
			if !ok || !state.Connected {
				fmt.Println("No wallet connected.")
				return nil
			}
			fmt.Printf("Wallet:   %s\n", state.WalletPublicKey)
			fmt.Printf("Provider: %s\n", state.Provider)
			return nil
		},
	}
}
