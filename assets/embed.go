package assets

import (
	"bufio"
	"embed"
	"strings"
)

//go:embed keywords.txt
var FS embed.FS

// ReadLines returns the trimmed, lowercased, non-comment lines of an
// embedded file.
func ReadLines(name string) ([]string, error) {
	f, err := FS.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		out = append(out, strings.ToLower(s))
	}
	return out, sc.Err()
}

// KeywordList returns the default keyword pool.
func KeywordList() ([]string, error) {
	return ReadLines("keywords.txt")
}
