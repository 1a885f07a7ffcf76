package osm

import (
	"crypto/rand"
	"encoding/base64"
)

const stateBytes = 32

// GenerateState returns an unguessable value for the OAuth2 state parameter.
// It is URL safe and unpadded so it can be placed in a query string verbatim.
func GenerateState() string {
	b := make([]byte, stateBytes)
	if _, err := rand.Read(b); err != nil {
		panic("osm: reading random bytes for state: " + err.Error())
	}
	return base64.RawURLEncoding.EncodeToString(b)
}
