package llm

import "strings"

// StripCodeFences removes a leading Markdown fence (```json or ```) and a
// trailing ``` from a model payload, along with surrounding whitespace.
// Payloads without fences are returned trimmed and otherwise unchanged.
func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if rest, ok := strings.CutPrefix(s, "```"); ok {
		// Drop the info string ("json", "JSON", ...) up to the first newline
		// or the opening brace, whichever comes first.
		if i := strings.IndexAny(rest, "\n{["); i >= 0 {
			if rest[i] == '\n' {
				rest = rest[i+1:]
			} else {
				rest = rest[i:]
			}
		} else {
			rest = strings.TrimLeft(rest, "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ")
		}
		s = strings.TrimSpace(rest)
	}
	if rest, ok := strings.CutSuffix(s, "```"); ok {
		s = strings.TrimSpace(rest)
	}
	return s
}
