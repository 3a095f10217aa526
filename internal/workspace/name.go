package workspace

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeName canonicalizes a workspace or folder name: Unicode NFC so
// composed and decomposed spellings of the same name compare equal, and
// interior runs of whitespace collapsed to single spaces.
func NormalizeName(name string) string {
	name = norm.NFC.String(name)

	return strings.Join(strings.Fields(name), " ")
}
