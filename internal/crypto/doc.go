// Package crypto implements the session key exchange and the authenticated
// envelope codec used on every encrypted redirect parameter.
package crypto
