package classify

import (
	"regexp"
	"strings"
)

// Counterparty extraction for Zelle/Venmo descriptions. The "to" form is
// tried first; the capture stops at a confirmation marker, "on", "#" or the
// end of the text.
var (
	p2pToRe   = regexp.MustCompile(`(?i)(?:Zelle payment to|Zelle to|Venmo payment to)\s+([A-Za-z\s]+?)(?:\s+Conf|#|\s+on|$)`)
	p2pFromRe = regexp.MustCompile(`(?i)(?:Zelle from|Zelle payment from|Venmo from)\s+([A-Za-z\s]+?)(?:\s+on|#|$)`)
)

// ExtractCounterparty recovers the person on the other side of a peer-to-peer
// transfer description. Returns "" when no name can be recovered.
func ExtractCounterparty(description string) string {
	if m := p2pToRe.FindStringSubmatch(description); len(m) > 1 {
		return strings.TrimSpace(m[1])
	}
	if m := p2pFromRe.FindStringSubmatch(description); len(m) > 1 {
		return strings.TrimSpace(m[1])
	}
	return ""
}
