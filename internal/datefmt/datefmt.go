// Package datefmt renders a point in time with a small token pattern
// (YYYY, MM, DD, HH, mm, ss).
package datefmt

import (
	"strconv"
	"strings"
	"time"
)

type token struct {
	text   string
	render func(t time.Time) string
}

// tokens is scanned in order at each position, so longer tokens come first.
var tokens = []token{
	{"YYYY", func(t time.Time) string { return strconv.Itoa(t.Year()) }},
	{"MM", func(t time.Time) string { return pad2(int(t.Month())) }},
	{"DD", func(t time.Time) string { return pad2(t.Day()) }},
	{"HH", func(t time.Time) string { return pad2(t.Hour()) }},
	{"mm", func(t time.Time) string { return pad2(t.Minute()) }},
	{"ss", func(t time.Time) string { return pad2(t.Second()) }},
}

// Tokens lists the recognized tokens.
func Tokens() []string {
	out := make([]string, len(tokens))
	for i, tk := range tokens {
		out[i] = tk.text
	}
	return out
}

// Format replaces every recognized token in pattern with the matching field of
// t in its local time zone. The pattern is scanned once from left to right, so
// text produced by one token is never substituted again. Anything else is
// copied through unchanged; an empty pattern yields "".
func Format(t time.Time, pattern string) string {
	t = t.Local()

	var b strings.Builder
	b.Grow(len(pattern) + 4)

	for i := 0; i < len(pattern); {
		matched := false
		for _, tk := range tokens {
			if strings.HasPrefix(pattern[i:], tk.text) {
				b.WriteString(tk.render(t))
				i += len(tk.text)
				matched = true
				break
			}
		}
		if !matched {
			b.WriteByte(pattern[i])
			i++
		}
	}
	return b.String()
}

func pad2(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}
