package helper

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// NormalizeSearch: trim + NFC. Input bahasa Vietnam dari macOS/iOS sering NFD,
// sementara data di DB disimpan NFC.
func NormalizeSearch(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// LikeContains → pola ILIKE "%s%" dengan wildcard user di-escape
func LikeContains(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
