package normalize

import (
	"bufio"
	"bytes"
	_ "embed"
	"strings"
)

//go:embed data/stopwords_en.txt
var englishStopwords []byte

var stopwordSet = loadStopwords(englishStopwords)

func loadStopwords(raw []byte) map[string]struct{} {
	set := make(map[string]struct{})
	scan := bufio.NewScanner(bytes.NewReader(raw))
	for scan.Scan() {
		w := strings.TrimSpace(scan.Text())
		if w != "" {
			set[w] = struct{}{}
		}
	}
	return set
}

// IsStopword reports whether the lowercase form of token is an English stopword.
func IsStopword(token string) bool {
	_, ok := stopwordSet[strings.ToLower(token)]
	return ok
}
