package normalize

import (
	"fmt"
	"slices"
	"strings"

	"github.com/aaaton/golem/v4"
	"github.com/aaaton/golem/v4/dicts/en"
)

type Lemmatizer interface {
	Lemma(token string) string
}

// MAX_LEMMA_ROUNDS bounds how far a lemma chain such as
// founded -> found -> find is followed.
const MAX_LEMMA_ROUNDS = 8

// GolemLemmatizer looks tokens up in the golem English dictionary. The
// dictionary covers every part of speech, so a lemma can itself have a
// lemma; lookups are repeated until the result stops changing.
type GolemLemmatizer struct {
	lookup func(word string) string
}

func NewGolemLemmatizer() (*GolemLemmatizer, error) {
	lem, err := golem.New(en.New())
	if err != nil {
		return nil, fmt.Errorf("failed to load english lemma dictionary: %w", err)
	}
	return &GolemLemmatizer{lookup: lem.Lemma}, nil
}

// Lemma returns the dictionary base form of token. Tokens that are already
// a base form, or unknown to the dictionary, come back unchanged so their
// casing survives.
func (g *GolemLemmatizer) Lemma(token string) string {
	lower := strings.ToLower(token)
	lemma := fixedPointLemma(g.lookup, lower)
	if lemma == lower {
		return token
	}
	return lemma
}

// fixedPointLemma follows lookup until it settles. When the chain loops
// back on itself the alphabetically first word of the loop is used, so
// every member of the loop resolves to the same lemma.
func fixedPointLemma(lookup func(string) string, word string) string {
	seen := []string{word}
	for i := 0; i < MAX_LEMMA_ROUNDS; i++ {
		next := strings.ToLower(lookup(word))
		if next == "" || next == word {
			return word
		}
		if at := slices.Index(seen, next); at >= 0 {
			return slices.Min(seen[at:])
		}
		seen = append(seen, next)
		word = next
	}
	return word
}

// MapLemmatizer is a fixed lookup table, mostly useful in tests.
type MapLemmatizer map[string]string

func (m MapLemmatizer) Lemma(token string) string {
	if lemma, ok := m[strings.ToLower(token)]; ok {
		return lemma
	}
	return token
}
