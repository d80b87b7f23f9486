// Package commands implements the walletbridge CLI: the demo app shell that
// drives the wallet-connect protocol from a terminal.
package commands
