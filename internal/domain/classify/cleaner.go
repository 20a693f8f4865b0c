// Package classify contains the transaction and account classification engine:
// description cleanup, the merchant dictionary, peer-to-peer counterparty
// extraction, the movement classifier and the account/balance rules.
package classify

import (
	"regexp"
	"strings"
	"unicode"
)

// FallbackName is the display name used when a description cleans down to nothing.
const FallbackName = "Desconocido"

var (
	// Low-information tokens banks prepend to card purchases.
	noiseTokens = []string{"CHECKCARD", "DEBIT CARD", "POS DEBIT", "PURCHASE"}

	longDigitsRe = regexp.MustCompile(`\d{4,}`)
	shortDateRe  = regexp.MustCompile(`\d{2}/\d{2}`)
	punctRe      = regexp.MustCompile(`[*#\-_]`)
	spacesRe     = regexp.MustCompile(`\s+`)
)

// CleanDescription strips processor noise from a raw transaction description
// and returns a title-cased, human-readable name. It is a pure function and
// idempotent: cleaning an already-cleaned string returns the same string.
func CleanDescription(raw string) string {
	t := strings.ToUpper(raw)

	for _, tok := range noiseTokens {
		t = strings.ReplaceAll(t, tok, "")
	}

	// Processor prefixes: keep the PayPal brand, drop Square/Toast markers.
	t = strings.ReplaceAll(t, "PAYPAL *", "PAYPAL ")
	t = strings.ReplaceAll(t, "SQ *", "")
	t = strings.ReplaceAll(t, "TST *", "")

	t = longDigitsRe.ReplaceAllString(t, "")
	t = shortDateRe.ReplaceAllString(t, "")
	t = punctRe.ReplaceAllString(t, " ")
	t = spacesRe.ReplaceAllString(strings.TrimSpace(t), " ")

	return Capitalize(t)
}

// Capitalize title-cases every whitespace-separated word: first letter upper,
// rest lower. Empty input yields FallbackName.
func Capitalize(s string) string {
	if s == "" {
		return FallbackName
	}

	words := strings.Split(strings.ToLower(s), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}

	return strings.Join(words, " ")
}
