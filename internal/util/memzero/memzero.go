// Package memzero wipes key material from byte slices.
package memzero

import "crypto/subtle"

// Zero overwrites b in place. subtle.ConstantTimeCopy keeps the write from
// being elided the way a plain assignment loop could be.
func Zero(b []byte) {
	if len(b) == 0 {
		return
	}
	subtle.ConstantTimeCopy(1, b, make([]byte, len(b)))
}
