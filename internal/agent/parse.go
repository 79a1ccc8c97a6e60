package agent

import (
	"regexp"
	"strings"

	"github.com/robalobadob/decrypto/internal/game"
)

var (
	numberedLine = regexp.MustCompile(`^\s*\d[.、:：)\]]\s*(.+)`)
	answerLine   = regexp.MustCompile(`(?i)(?:answer|答案)\s*[:：]\s*([1-4])[\s,、-]+([1-4])[\s,、-]+([1-4])`)
	codeDigit    = regexp.MustCompile(`[1-4]`)
)

// ParseClues extracts three clues: numbered lines ("1. tide") first, then
// the first three non-empty lines.
func ParseClues(text string) (game.Clues, bool) {
	var lines []string
	for _, l := range strings.Split(strings.TrimSpace(text), "\n") {
		if strings.TrimSpace(l) != "" {
			lines = append(lines, l)
		}
	}

	var numbered []string
	for _, l := range lines {
		if m := numberedLine.FindStringSubmatch(l); m != nil {
			numbered = append(numbered, strings.TrimSpace(m[1]))
		}
	}
	if len(numbered) >= 3 {
		return game.Clues{numbered[0], numbered[1], numbered[2]}, true
	}
	if len(lines) >= 3 {
		return game.Clues{strings.TrimSpace(lines[0]), strings.TrimSpace(lines[1]), strings.TrimSpace(lines[2])}, true
	}
	return game.Clues{}, false
}

// ParseCode extracts a code, trying in order:
//  1. an "Answer: x y z" line,
//  2. the digits 1-4 on the last line,
//  3. the last three digits 1-4 anywhere in the text.
//
// A candidate is accepted only if its three values are distinct.
func ParseCode(text string) (game.Code, bool) {
	if m := answerLine.FindStringSubmatch(text); m != nil {
		if c, ok := codeFrom([]string{m[1], m[2], m[3]}); ok {
			return c, true
		}
	}

	trimmed := strings.TrimSpace(text)
	last := trimmed
	if i := strings.LastIndex(trimmed, "\n"); i >= 0 {
		last = trimmed[i+1:]
	}
	if digits := codeDigit.FindAllString(last, -1); len(digits) >= 3 {
		if c, ok := codeFrom(digits[:3]); ok {
			return c, true
		}
	}

	if digits := codeDigit.FindAllString(text, -1); len(digits) >= 3 {
		if c, ok := codeFrom(digits[len(digits)-3:]); ok {
			return c, true
		}
	}
	return game.Code{}, false
}

func codeFrom(digits []string) (game.Code, bool) {
	var c game.Code
	for i, d := range digits {
		c[i] = int(d[0] - '0')
	}
	return c, c.Valid()
}
