// Package session establishes and tracks the wallet session.
//
// It drives the connect handshake over redirect URLs, derives the shared
// secret, and owns the single session store the request service reads.
package session
