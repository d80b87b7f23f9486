// Package ledger is the boundary to the Solana JSON-RPC node: it submits
// wallet-signed transactions and awaits confirmation.
package ledger
