package narrative

import (
	"encoding/json"
	"log/slog"
	"regexp"
	"strings"
)

var (
	// label immediately preceding the object, e.g. `characterUpdates:` or `"characterUpdates": `
	labelSuffixRegex = regexp.MustCompile(`(?i)["'*]*characterUpdates["'*]*\s*[:=]\s*$`)

	fenceOpenRegex  = regexp.MustCompile("(?i)```(?:json)?\\s*$")
	fenceCloseRegex = regexp.MustCompile("^\\s*```")

	blankLinesRegex = regexp.MustCompile(`\n{3,}`)
)

// ExtractMutation separates the embedded character mutation from narrative text.
//
// The object may appear anywhere, labelled (`characterUpdates: {...}`),
// wrapped (`{"characterUpdates": {...}}`) or bare (`{"hit_points": -3}`), with
// arbitrarily nested braces. The returned text has the object, its label and
// any code fence around it removed and is trimmed. A missing or unparseable
// object yields a nil mutation; extraction never fails.
func ExtractMutation(text string) (string, *Mutation) {
	for i := 0; i < len(text); i++ {
		if text[i] != '{' {
			continue
		}

		labelStart, labelled := findLabel(text[:i])
		end := matchBrace(text, i)
		if end < 0 {
			if labelled {
				slog.Warn("mutation object has no closing brace", "offset", i)
				return strings.TrimSpace(text), nil
			}
			continue
		}

		object := text[i:end]
		var raw map[string]json.RawMessage
		parsed := json.Unmarshal([]byte(object), &raw) == nil

		switch {
		case labelled:
			var m *Mutation
			if parsed {
				m = ParseMutation([]byte(object))
			}
			if m == nil {
				slog.Warn("discarding malformed mutation object", "object", truncate(object, 200))
			}
			return cut(text, labelStart, end), m

		case parsed && (raw[wrapperKey] != nil || hasMutationKey(raw)):
			m := ParseMutation([]byte(object))
			if m == nil {
				slog.Warn("discarding malformed mutation object", "object", truncate(object, 200))
			}
			return cut(text, i, end), m

		case parsed:
			// an unrelated JSON object, skip past it
			i = end - 1
		}
	}

	return strings.TrimSpace(text), nil
}

// matchBrace returns the index just past the brace matching text[start],
// or -1 if it never closes. Braces inside JSON strings are ignored.
func matchBrace(text string, start int) int {
	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(text); i++ {
		c := text[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}

	return -1
}

func findLabel(prefix string) (int, bool) {
	loc := labelSuffixRegex.FindStringIndex(prefix)
	if loc == nil {
		return len(prefix), false
	}
	return loc[0], true
}

// cut removes text[start:end] plus a code fence wrapped tightly around it
func cut(text string, start, end int) string {
	before, after := text[:start], text[end:]

	if loc := fenceOpenRegex.FindStringIndex(before); loc != nil {
		if closeLoc := fenceCloseRegex.FindStringIndex(after); closeLoc != nil {
			before = before[:loc[0]]
			after = after[closeLoc[1]:]
		}
	}

	before = strings.TrimRight(before, " \t")
	joined := before + after
	joined = blankLinesRegex.ReplaceAllString(joined, "\n\n")
	return strings.TrimSpace(joined)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
