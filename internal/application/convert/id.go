package convert

import (
	"crypto/rand"
	"fmt"
)

// recordIDAlphabet matches the identifier shape of the target contract:
// 24 lowercase base36 characters.
const (
	recordIDAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	recordIDLength   = 24
)

// NewRecordID draws a fresh opaque record identifier from crypto/rand.
// Identifiers are never derived from receipt content, so collision
// probability is negligible at any realistic request volume.
func NewRecordID() string {
	buf := make([]byte, recordIDLength)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms; if it does the
		// process cannot safely mint identifiers at all.
		panic(fmt.Sprintf("record id entropy unavailable: %v", err))
	}
	for i, b := range buf {
		buf[i] = recordIDAlphabet[int(b)%len(recordIDAlphabet)]
	}
	return string(buf)
}
