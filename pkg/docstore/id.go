package docstore

import (
	"crypto/rand"
	"encoding/base32"
	"time"
)

// crockfordBase32 is a sortable base32 alphabet (digits before letters).
const crockfordBase32 = "0123456789abcdefghjkmnpqrstvwxyz"

//nolint:gochecknoglobals // package-level constant
var crockfordEncoding = base32.NewEncoding(crockfordBase32).WithPadding(base32.NoPadding)

const (
	timestampBytes = 4
	byteMask       = 0xFF
	suffixLen      = 5
)

// newID creates a record identifier: a base32-encoded timestamp (Unix
// seconds, 7 chars, lexicographically sortable, works until 2106) plus a
// random suffix so IDs minted in the same second stay distinct. Collision
// probability is treated as negligible, not eliminated.
func newID(now time.Time) string {
	sec := now.Unix()

	buf := make([]byte, timestampBytes)
	for i := timestampBytes - 1; i >= 0; i-- {
		buf[i] = byte(sec & byteMask)
		sec >>= 8
	}

	return crockfordEncoding.EncodeToString(buf) + "-" + randomSuffix()
}

func randomSuffix() string {
	buf := make([]byte, suffixLen)
	_, _ = rand.Read(buf) // never fails per crypto/rand docs

	out := make([]byte, suffixLen)
	for i, b := range buf {
		out[i] = crockfordBase32[int(b)%len(crockfordBase32)]
	}

	return string(out)
}
