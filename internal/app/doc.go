// Package app wires application dependencies for the CLI.
//
// It builds the key pair, stores, protocol services and ledger client from
// Config, and routes inbound redirects to the right service.
package app
