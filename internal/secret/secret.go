package secret

import (
	"crypto/rand"
	"encoding/base64"
)

// MustNew generates a cryptographically secure random key of the given byte length and returns it together with
// its base64 representation
func MustNew(len int) ([]byte, string) {
	bytes := make([]byte, len)
	if _, err := rand.Read(bytes); err != nil {
		panic(err)
	}
	return bytes, base64.StdEncoding.EncodeToString(bytes)
}
