// Package domain holds the shared types, error taxonomy and service
// interfaces of the wallet-connect protocol.
package domain
