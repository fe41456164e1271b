package message

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeAlias canonicalizes a string handler alias.
//
// Aliases are trimmed and NFC-normalized so that visually identical aliases
// (composed vs decomposed Unicode) collide at registration time instead of
// silently registering as two distinct keys.
func NormalizeAlias(alias string) (string, error) {
	a := strings.TrimSpace(alias)
	if a == "" {
		return "", fmt.Errorf("alias must not be empty")
	}
	return norm.NFC.String(a), nil
}
