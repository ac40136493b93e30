package docs

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
)

// Hash computes a deterministic digest of the content set from each document's
// identifier, source path, route, title and fingerprint. It changes whenever a rebuild could
// produce a different bundle.
func (x *Index) Hash() string {
	entries := make([]string, 0, len(x.docs))
	for _, d := range x.docs {
		entries = append(entries, fmt.Sprintf("%s|%s|%s|%s|%s", d.ID, d.SourcePath, d.Route, d.Title, d.Fingerprint))
	}
	sort.Strings(entries)

	h := sha256.New()
	if len(entries) == 0 {
		h.Write([]byte("empty-docs-set"))
	}
	for _, e := range entries {
		h.Write([]byte(e))
		h.Write([]byte("\n"))
	}
	return hex.EncodeToString(h.Sum(nil))
}
