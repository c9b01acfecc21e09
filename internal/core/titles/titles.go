// Package titles turns stored page titles into display titles
// Pipeline order
// 1 UTF-8 repair drop invalid bytes
// 2 Unicode NFC normalization
// 3 Underscores to spaces, trim
package titles

import (
	"strings"
	"sync"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// pool of NFC transformers, transform.String needs a private one per call
var nfcPool = sync.Pool{
	New: func() any { return transform.Chain(norm.NFC) },
}

// Display returns the human form of a stored title
// "Ada_Lovelace" -> "Ada Lovelace"
func Display(raw string) string {
	if raw == "" {
		return ""
	}

	s := strings.ToValidUTF8(raw, "")

	if !norm.NFC.IsNormalString(s) {
		tr := nfcPool.Get().(transform.Transformer)
		if ns, _, err := transform.String(tr, s); err == nil {
			s = ns
		}
		tr.Reset()
		nfcPool.Put(tr)
	}

	return strings.TrimSpace(strings.ReplaceAll(s, "_", " "))
}
