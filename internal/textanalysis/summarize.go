package textanalysis

import (
	"errors"
	"sort"
	"strings"
)

// ErrEmptyText indicates the input held no usable sentences.
var ErrEmptyText = errors.New("textanalysis: no sentences found in input")

// Summarize produces an extractive summary of text containing at most
// numSentences of the highest-scoring sentences, re-ordered by their
// original position. If the text has fewer sentences than requested the
// cleaned text is returned as-is.
func Summarize(text string, numSentences int) (string, error) {
	if numSentences < 1 {
		numSentences = 1
	}

	cleaned := CleanText(text)
	sentences := SplitSentences(cleaned)
	if len(sentences) == 0 {
		return "", ErrEmptyText
	}
	if len(sentences) <= numSentences {
		return strings.Join(sentences, " "), nil
	}

	freq := WordFrequency(sentences)
	scored := ScoreSentences(sentences, freq)

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	top := scored[:numSentences]

	sort.Slice(top, func(i, j int) bool {
		return top[i].Index < top[j].Index
	})

	parts := make([]string, len(top))
	for i, s := range top {
		parts[i] = s.Sentence
	}
	return strings.Join(parts, " "), nil
}

// SummarizeRecommended analyzes the text and summarizes it at the
// recommended length.
func SummarizeRecommended(text string) (string, *Analysis, error) {
	a := Analyze(text)
	summary, err := Summarize(text, a.RecommendedSummaryLength)
	if err != nil {
		return "", nil, err
	}
	return summary, a, nil
}
