// internal/words/words.go
//
// Keyword pool for game start.
//
// Responsibilities:
//   - Load keywords from a configured file, or fall back to the embedded default list.
//   - Normalise (trim, lowercase) and de-duplicate entries.
//   - Draw n distinct keywords uniformly at random (crypto/rand).
//
// File format:
//   One keyword per line. Blank lines and lines starting with "#" are ignored.
//   Multi-word keywords are allowed ("ice cream").

package words

import (
	"bufio"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/robalobadob/decrypto/assets"
)

// ErrTooFew is returned when a draw asks for more keywords than the pool holds.
var ErrTooFew = errors.New("words: not enough keywords")

// Pool is an immutable keyword list. It implements game.KeywordSource.
type Pool struct {
	words []string
}

// Load reads keywords from path, or the embedded default list if path is empty.
func Load(path string) (*Pool, error) {
	var (
		list []string
		err  error
	)
	if path != "" {
		list, err = readKeywordFile(path)
	} else {
		list, err = assets.KeywordList()
	}
	if err != nil {
		return nil, fmt.Errorf("words: load keywords: %w", err)
	}
	return New(list)
}

// New builds a Pool from an in-memory list.
func New(list []string) (*Pool, error) {
	p := &Pool{words: dedupe(list)}
	if len(p.words) == 0 {
		return nil, errors.New("words: keyword list is empty")
	}
	return p, nil
}

// Len reports how many distinct keywords the pool holds.
func (p *Pool) Len() int { return len(p.words) }

// Draw returns n distinct keywords in random order (partial Fisher–Yates).
func (p *Pool) Draw(n int) ([]string, error) {
	if n > len(p.words) {
		return nil, fmt.Errorf("%w: want %d, have %d", ErrTooFew, n, len(p.words))
	}
	idx := make([]int, len(p.words))
	for i := range idx {
		idx[i] = i
	}
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		j := i + randIntn(len(idx)-i)
		idx[i], idx[j] = idx[j], idx[i]
		out = append(out, p.words[idx[i]])
	}
	return out, nil
}

// readKeywordFile loads one keyword per line.
func readKeywordFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		w := strings.TrimSpace(sc.Text())
		if w == "" || strings.HasPrefix(w, "#") {
			continue
		}
		out = append(out, w)
	}
	return out, sc.Err()
}

// dedupe lowercases, trims and removes duplicates, keeping first occurrences.
func dedupe(list []string) []string {
	seen := make(map[string]struct{}, len(list))
	out := make([]string, 0, len(list))
	for _, w := range list {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out
}

// randIntn returns a uniform int in [0,n).
func randIntn(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0
	}
	return int(v.Int64())
}
