// Package narrative interprets narrator text: inline dice-roll tokens,
// the embedded character mutation object and related-roll grouping.
package narrative

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const (
	// DefaultCount and DefaultSides are used when a token's expression does not parse
	DefaultCount = 1
	DefaultSides = 20

	maxDiceCount = 100
	maxDiceSides = 1000
)

var (
	// [DICE:<expr>:<reason>]; the reason runs to the first ']' and may contain ':'
	diceTokenRegex = regexp.MustCompile(`\[DICE:([^:\]]+):([^\]]+)\]`)

	// optional count, 'd', sides
	diceExprRegex = regexp.MustCompile(`(?i)^(\d+)?d(\d+)$`)

	dcRegex = regexp.MustCompile(`(?i)\bDC\s*(\d+)`)

	reasonPrefixes = []string{"Skill Check:", "Saving Throw:"}
)

// FragmentKind distinguishes literal text from roll requests
type FragmentKind string

// Fragment kinds
const (
	FragmentText FragmentKind = "text"
	FragmentRoll FragmentKind = "roll"
)

// Fragment is one ordered piece of scanned narrative
type Fragment struct {
	Kind FragmentKind `json:"kind"`
	Text string       `json:"text,omitempty"`
	Roll *RollRequest `json:"roll,omitempty"`
}

// RollRequest is a parsed [DICE:...] token
type RollRequest struct {
	// Raw is the token exactly as it appeared in the text
	Raw string `json:"raw"`
	// Expression is the normalized expression, e.g. "2d6"
	Expression string `json:"expression"`
	Count      int    `json:"count"`
	Sides      int    `json:"sides"`
	Reason     string `json:"reason"`
	DC         *int   `json:"dc,omitempty"`
	// Index is the position of this request among the text's roll requests
	Index int `json:"index"`
}

// Scan splits text into literal and roll-request fragments in order.
// Empty text yields no fragments.
func Scan(text string) []Fragment {
	if text == "" {
		return nil
	}

	matches := diceTokenRegex.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return []Fragment{{Kind: FragmentText, Text: text}}
	}

	fragments := make([]Fragment, 0, 2*len(matches)+1)
	last := 0
	for i, m := range matches {
		start, end := m[0], m[1]
		if start > last {
			fragments = append(fragments, Fragment{Kind: FragmentText, Text: text[last:start]})
		}

		req := newRollRequest(text[start:end], text[m[2]:m[3]], text[m[4]:m[5]])
		req.Index = i
		fragments = append(fragments, Fragment{Kind: FragmentRoll, Roll: req})
		last = end
	}
	if last < len(text) {
		fragments = append(fragments, Fragment{Kind: FragmentText, Text: text[last:]})
	}

	return fragments
}

// RollRequests returns the roll requests of a fragment list in order
func RollRequests(fragments []Fragment) []RollRequest {
	var out []RollRequest
	for _, f := range fragments {
		if f.Kind == FragmentRoll && f.Roll != nil {
			out = append(out, *f.Roll)
		}
	}
	return out
}

// Reconstruct concatenates fragments back into the scanned text
func Reconstruct(fragments []Fragment) string {
	var sb strings.Builder
	for _, f := range fragments {
		switch f.Kind {
		case FragmentText:
			sb.WriteString(f.Text)
		case FragmentRoll:
			if f.Roll != nil {
				sb.WriteString(f.Roll.Raw)
			}
		}
	}
	return sb.String()
}

// ParseExpression parses "XdY" / "dY". ok is false when the default 1d20 was substituted.
func ParseExpression(expr string) (count, sides int, ok bool) {
	m := diceExprRegex.FindStringSubmatch(strings.TrimSpace(expr))
	if m == nil {
		return DefaultCount, DefaultSides, false
	}

	count = DefaultCount
	if m[1] != "" {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return DefaultCount, DefaultSides, false
		}
		count = n
	}

	sides, err := strconv.Atoi(m[2])
	if err != nil {
		return DefaultCount, DefaultSides, false
	}

	if count < 1 || count > maxDiceCount || sides < 1 || sides > maxDiceSides {
		return DefaultCount, DefaultSides, false
	}

	return count, sides, true
}

// FormatExpression renders count and sides as "2d6"
func FormatExpression(count, sides int) string {
	return fmt.Sprintf("%dd%d", count, sides)
}

// SplitReason separates a DC<n> marker from the human-readable reason
func SplitReason(reason string) (string, *int) {
	var dc *int
	if m := dcRegex.FindStringSubmatch(reason); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			dc = &n
		}
		reason = dcRegex.ReplaceAllString(reason, "")
	}

	reason = strings.ReplaceAll(reason, "::", ":")
	reason = strings.Trim(strings.TrimSpace(reason), ":")
	return strings.TrimSpace(reason), dc
}

// DisplayReason strips "Skill Check:" and "Saving Throw:" prefixes for display
func DisplayReason(reason string) string {
	for _, prefix := range reasonPrefixes {
		if len(reason) >= len(prefix) && strings.EqualFold(reason[:len(prefix)], prefix) {
			return strings.TrimSpace(reason[len(prefix):])
		}
	}
	return reason
}

// StripTokens removes every dice token from text
func StripTokens(text string) string {
	return diceTokenRegex.ReplaceAllString(text, "")
}

func newRollRequest(raw, expr, reason string) *RollRequest {
	count, sides, _ := ParseExpression(expr)
	cleanReason, dc := SplitReason(reason)

	return &RollRequest{
		Raw:        raw,
		Expression: FormatExpression(count, sides),
		Count:      count,
		Sides:      sides,
		Reason:     cleanReason,
		DC:         dc,
	}
}
