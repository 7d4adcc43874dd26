package issue

import (
	"fmt"
	"strings"

	"github.com/minio/highwayhash"
)

// fingerprintVersion is part of the hash preimage. Bump only for intentional,
// incompatible fingerprint schema changes.
const fingerprintVersion = "1"

var fingerprintKey = []byte("boundlint.fingerprint.v1........")

// Fingerprint returns a deterministic identity for the semantic finding:
// rule id, file, and trigger token, but not the line number, so baselined
// findings survive unrelated edits above them.
func (i Issue) Fingerprint() string {
	h, err := highwayhash.New64(fingerprintKey)
	if err != nil {
		// The key is a compile-time constant of the required length; New64
		// can only fail on a malformed key.
		panic(fmt.Sprintf("issue: fingerprint key: %v", err))
	}
	preimage := strings.Join([]string{fingerprintVersion, i.RuleID, i.File, i.Trigger}, "\x1f")
	_, _ = h.Write([]byte(preimage))
	return fmt.Sprintf("bl%s_%016x", fingerprintVersion, h.Sum64())
}
