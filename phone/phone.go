// Package phone builds the textual variants under which a phone number may have been stored.
package phone

import (
	"strings"
	"unicode"
)

// Normalizer knows the national conventions of the panel's numbers (France by default).
type Normalizer struct {
	CountryCode string // without "+", e.g. "33"
	TrunkPrefix string // national trunk digit, e.g. "0"
}

func NewNormalizer(countryCode, trunkPrefix string) Normalizer {
	n := Normalizer{CountryCode: countryCode, TrunkPrefix: trunkPrefix}
	if n.CountryCode == "" {
		n.CountryCode = "33"
	}
	if n.TrunkPrefix == "" {
		n.TrunkPrefix = "0"
	}
	return n
}

var separators = strings.NewReplacer(" ", "", "\t", "", "\u00a0", "", "-", "", ".", "")

// Strip removes whitespace, hyphen and dot separators.
func Strip(raw string) string {
	return separators.Replace(strings.TrimSpace(raw))
}

// Candidates returns the lookup forms of raw in the order they must be tried:
// raw, stripped, stripped with the trunk digit toggled, then for international
// senders the same forms with the country-code prefix replaced by the trunk digit.
// Duplicates and empty strings are dropped.
func (n Normalizer) Candidates(raw string) []string {
	out := make([]string, 0, 6)
	seen := make(map[string]struct{}, 6)
	add := func(s string) {
		if s == "" {
			return
		}
		if _, ok := seen[s]; ok {
			return
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}

	stripped := Strip(raw)
	add(raw)
	add(stripped)

	if rest, ok := n.cutInternational(stripped); ok {
		add(n.replaceInternational(raw))
		add(n.TrunkPrefix + rest)
		add(rest)
		return out
	}

	add(n.toggleTrunk(stripped))
	return out
}

// Key is the canonical comparison form: the national significant number, digits only.
// Numbers of another country keep their "+" and country code.
func (n Normalizer) Key(raw string) string {
	stripped := Strip(raw)
	if stripped == "" {
		return ""
	}
	if rest, ok := n.cutInternational(stripped); ok {
		return digitsOnly(rest)
	}
	if strings.HasPrefix(stripped, "+") || strings.HasPrefix(stripped, "00") {
		return "+" + strings.TrimPrefix(digitsOnly(stripped), "00")
	}
	return strings.TrimPrefix(digitsOnly(stripped), n.TrunkPrefix)
}

// E164 formats raw as +<cc><national number> for the messaging provider.
func (n Normalizer) E164(raw string) string {
	key := n.Key(raw)
	if key == "" || strings.HasPrefix(key, "+") {
		return key
	}
	return "+" + n.CountryCode + key
}

func (n Normalizer) cutInternational(stripped string) (string, bool) {
	for _, prefix := range []string{"+" + n.CountryCode, "00" + n.CountryCode} {
		if rest, ok := strings.CutPrefix(stripped, prefix); ok && rest != "" {
			return rest, true
		}
	}
	return "", false
}

// replaceInternational swaps a leading "+33" (or "0033") for the trunk digit and keeps the rest as typed.
func (n Normalizer) replaceInternational(raw string) string {
	trimmed := strings.TrimSpace(raw)
	for _, prefix := range []string{"+" + n.CountryCode, "00" + n.CountryCode} {
		if rest, ok := strings.CutPrefix(trimmed, prefix); ok {
			return n.TrunkPrefix + strings.TrimLeft(rest, " -.")
		}
	}
	return ""
}

func (n Normalizer) toggleTrunk(stripped string) string {
	if stripped == "" || strings.HasPrefix(stripped, "+") {
		return ""
	}
	if rest, ok := strings.CutPrefix(stripped, n.TrunkPrefix); ok {
		return rest
	}
	return n.TrunkPrefix + stripped
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
