package main

import (
	"os"

	"walletbridge/cmd/walletbridge/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
