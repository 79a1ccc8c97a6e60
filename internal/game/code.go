// internal/game/code.go
//
// Secret codes: generation, validation, comparison and text round-tripping.
//
// Notes:
//   - Codes are permutations of three values from {1,2,3,4}.
//   - Randomness comes from crypto/rand, the same source the word lists use.

package game

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
	"strconv"
	"strings"
)

// GenerateCode returns a random Code: a shuffle of 1..4 truncated to three.
func GenerateCode() Code {
	pool := [4]int{1, 2, 3, 4}
	for i := len(pool) - 1; i > 0; i-- {
		j := randIntn(i + 1)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return Code{pool[0], pool[1], pool[2]}
}

// randIntn returns a uniform int in [0,n). On entropy failure it returns 0,
// which still yields a valid (if predictable) permutation.
func randIntn(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0
	}
	return int(v.Int64())
}

// Valid reports whether c holds three distinct values in 1..4.
func (c Code) Valid() bool {
	var seen [5]bool
	for _, v := range c {
		if v < 1 || v > 4 || seen[v] {
			return false
		}
		seen[v] = true
	}
	return true
}

// CheckGuess reports an exact, position-by-position match.
func CheckGuess(guess, code Code) bool {
	return guess[0] == code[0] && guess[1] == code[1] && guess[2] == code[2]
}

// String renders a code as "1 - 3 - 2".
func (c Code) String() string { return FormatCode(c) }

// FormatCode renders a code as "1 - 3 - 2".
func FormatCode(c Code) string {
	return fmt.Sprintf("%d - %d - %d", c[0], c[1], c[2])
}

var codeSeparators = regexp.MustCompile(`[,，\s-]+`)

// ParseCodeInput parses human text entry such as "1 3 2", "1,3,2" or "1-3-2".
// Returns ErrInvalidCode unless the input is exactly three distinct values in 1..4.
func ParseCodeInput(input string) (Code, error) {
	fields := strings.Fields(codeSeparators.ReplaceAllString(input, " "))
	if len(fields) != 3 {
		return Code{}, fmt.Errorf("%w: got %q", ErrInvalidCode, input)
	}
	var c Code
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return Code{}, fmt.Errorf("%w: got %q", ErrInvalidCode, input)
		}
		c[i] = n
	}
	if !c.Valid() {
		return Code{}, fmt.Errorf("%w: got %q", ErrInvalidCode, input)
	}
	return c, nil
}

// Blank reports the index of the first blank clue, or -1.
func (c Clues) Blank() int {
	for i, s := range c {
		if strings.TrimSpace(s) == "" {
			return i
		}
	}
	return -1
}

func (c Clues) trimmed() Clues {
	var out Clues
	for i, s := range c {
		out[i] = strings.TrimSpace(s)
	}
	return out
}
