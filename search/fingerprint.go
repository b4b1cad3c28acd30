package search

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/jonwraymond/sqlanalytics/resource"
)

// computeFingerprint generates a stable hash of a resource snapshot's
// searchable content. The fingerprint changes when any document's text
// changes, enabling cheap cache invalidation for the bleve index. It is
// insensitive to candidate order and to tag order.
func computeFingerprint(candidates []resource.Resource) string {
	// Per-document hashes are XORed together so the result does not
	// depend on snapshot iteration order.
	var acc [sha256.Size]byte
	for i := range candidates {
		h := sha256.New()
		r := &candidates[i]

		h.Write([]byte(r.URI))
		h.Write([]byte{0})
		h.Write([]byte(r.Name))
		h.Write([]byte{0})
		h.Write([]byte(r.Description))
		h.Write([]byte{0})
		h.Write([]byte(strings.Join(resource.SortedTags(r.Tags), "\x01")))
		h.Write([]byte{0})
		if table, ok := r.Payload.(*resource.TablePayload); ok {
			h.Write([]byte(table.SQLQuery))
			h.Write([]byte{0})
			h.Write([]byte(strings.Join(table.Columns, "\x01")))
			h.Write([]byte{0})
		}

		var sum [sha256.Size]byte
		h.Sum(sum[:0])
		for j := range acc {
			acc[j] ^= sum[j]
		}
	}
	return hex.EncodeToString(acc[:])
}
