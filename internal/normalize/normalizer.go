// Package normalize cleans tweet text before it is scored: English
// stopwords are dropped and the remaining tokens are lemmatized.
package normalize

import "strings"

type Options struct {
	// StripMarkup renders markdown to plain text and removes links first.
	StripMarkup bool
}

type Normalizer struct {
	lemmatizer  Lemmatizer
	stripMarkup bool
}

func New(lemmatizer Lemmatizer, opts Options) *Normalizer {
	return &Normalizer{
		lemmatizer:  lemmatizer,
		stripMarkup: opts.StripMarkup,
	}
}

// Normalize splits text on whitespace, drops stopwords, lemmatizes what is
// left and joins it back with single spaces. A lemma that is itself a
// stopword is dropped too, so normalizing cleaned text is a no-op.
func (n *Normalizer) Normalize(text string) string {
	if n.stripMarkup {
		text = ConvertMarkdownToText(text)
	}

	words := strings.Fields(text)
	cleaned := make([]string, 0, len(words))
	for _, word := range words {
		if IsStopword(word) {
			continue
		}

		lemma := n.lemmatizer.Lemma(word)
		if lemma == "" || IsStopword(lemma) {
			continue
		}
		cleaned = append(cleaned, lemma)
	}

	return strings.Join(cleaned, " ")
}
