// Package request builds the session-bound wallet operations (sign, batch
// sign, message sign, disconnect) and correlates their asynchronous
// responses back to caller callbacks.
package request
