// Package textanalysis provides local, non-LLM text analysis: sentence
// splitting, frequency-based sentence scoring, key-topic extraction,
// positional section analysis, and vocabulary metrics. It backs the
// extractive summarizer and supplies concept candidates when no LLM is
// available.
package textanalysis

import (
	"regexp"
	"sort"
	"strings"
)

// Minimum sentence lengths, in characters, below which fragments are
// discarded as noise.
const (
	minSummarySentenceLen  = 10
	minAnalysisSentenceLen = 5
)

var (
	whitespaceRe   = regexp.MustCompile(`\s+`)
	strippableRe   = regexp.MustCompile(`[^\w\s.!?,;:]`)
	sentenceEndRe  = regexp.MustCompile(`([.!?])\s+`)
	wordRe         = regexp.MustCompile(`\b\w+\b`)
	paragraphSepRe = regexp.MustCompile(`\n\s*\n`)
)

// stopWords are filtered out of key-topic counting.
var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {}, "in": {},
	"on": {}, "at": {}, "to": {}, "for": {}, "of": {}, "with": {}, "by": {},
	"is": {}, "are": {}, "was": {}, "were": {}, "be": {}, "been": {},
	"being": {}, "have": {}, "has": {}, "had": {}, "do": {}, "does": {},
	"did": {}, "will": {}, "would": {}, "should": {}, "could": {}, "can": {},
	"may": {}, "might": {}, "must": {}, "shall": {}, "this": {}, "that": {},
	"these": {}, "those": {}, "i": {}, "you": {}, "he": {}, "she": {},
	"it": {}, "we": {}, "they": {}, "me": {}, "him": {}, "her": {}, "us": {},
	"them": {}, "my": {}, "your": {}, "his": {}, "its": {}, "our": {},
	"their": {},
}

// CleanText normalizes whitespace and strips characters that are neither
// word characters nor sentence punctuation.
func CleanText(text string) string {
	text = whitespaceRe.ReplaceAllString(strings.TrimSpace(text), " ")
	return strippableRe.ReplaceAllString(text, "")
}

// SplitSentences splits text on terminal punctuation followed by
// whitespace, dropping fragments shorter than ten characters.
func SplitSentences(text string) []string {
	return splitSentences(text, minSummarySentenceLen)
}

func splitSentences(text string, minLen int) []string {
	marked := sentenceEndRe.ReplaceAllString(strings.TrimSpace(text), "$1\x00")
	parts := strings.Split(marked, "\x00")

	sentences := make([]string, 0, len(parts))
	for _, p := range parts {
		if len(strings.TrimSpace(p)) > minLen {
			sentences = append(sentences, p)
		}
	}
	return sentences
}

// Words extracts lowercase word tokens from text.
func Words(text string) []string {
	return wordRe.FindAllString(strings.ToLower(text), -1)
}

// Keywords extracts lowercase tokens with stop words removed. Used for
// keyword matching against free-text descriptions.
func Keywords(text string) []string {
	words := Words(text)
	out := words[:0]
	for _, w := range words {
		if _, stop := stopWords[w]; stop {
			continue
		}
		out = append(out, w)
	}
	return out
}

// WordFrequency counts word occurrences across all sentences.
func WordFrequency(sentences []string) map[string]int {
	freq := make(map[string]int)
	for _, s := range sentences {
		for _, w := range Words(s) {
			freq[w]++
		}
	}
	return freq
}

// ScoredSentence pairs a sentence with its importance score and original
// position.
type ScoredSentence struct {
	Index    int
	Sentence string
	Score    float64
}

// ScoreSentences scores each sentence by the average corpus frequency of
// its words, plus a small bonus per unique word. A sentence dense with
// frequent terms and varied vocabulary scores highest.
func ScoreSentences(sentences []string, freq map[string]int) []ScoredSentence {
	scored := make([]ScoredSentence, 0, len(sentences))
	for i, s := range sentences {
		words := Words(s)
		if len(words) == 0 {
			scored = append(scored, ScoredSentence{Index: i, Sentence: s})
			continue
		}

		sum := 0
		unique := make(map[string]struct{}, len(words))
		for _, w := range words {
			sum += freq[w]
			unique[w] = struct{}{}
		}

		score := float64(sum)/float64(len(words)) + float64(len(unique))*0.1
		scored = append(scored, ScoredSentence{Index: i, Sentence: s, Score: score})
	}
	return scored
}

// Topic is a key topic with its occurrence count.
type Topic struct {
	Word  string
	Count int
}

// KeyTopics returns the topN most frequent non-stop-words longer than
// three characters, by descending count with ties broken alphabetically.
func KeyTopics(freq map[string]int, topN int) []Topic {
	topics := make([]Topic, 0, len(freq))
	for w, c := range freq {
		if _, stop := stopWords[w]; stop || len(w) <= 3 {
			continue
		}
		topics = append(topics, Topic{Word: w, Count: c})
	}

	sort.Slice(topics, func(i, j int) bool {
		if topics[i].Count != topics[j].Count {
			return topics[i].Count > topics[j].Count
		}
		return topics[i].Word < topics[j].Word
	})

	if topN > 0 && len(topics) > topN {
		topics = topics[:topN]
	}
	return topics
}

// SectionStats describes one positional third of the text.
type SectionStats struct {
	Name          string
	Score         float64
	SentenceCount int
	KeyWords      []Topic
}

// VocabularyStats describes vocabulary complexity and usage.
type VocabularyStats struct {
	TotalWords            int
	UniqueWords           int
	Richness              float64
	LongWordPercentage    float64 // words of 6+ characters
	ComplexWordPercentage float64 // words of 8+ characters
	AverageSentenceLength float64
}

// Analysis is the full structural report for a text.
type Analysis struct {
	Sentences      []string
	ParagraphCount int
	Scored         []ScoredSentence // sorted by descending score
	Topics         []Topic
	Sections       []SectionStats
	Vocabulary     VocabularyStats

	// RecommendedSummaryLength is the suggested extractive summary length
	// in sentences: a quarter of the sentence count, clamped to 3..7.
	RecommendedSummaryLength int
}

// Analyze builds the structural report used for summary recommendations.
func Analyze(text string) *Analysis {
	sentences := splitSentences(strings.TrimSpace(text), minAnalysisSentenceLen)
	words := Words(text)
	freq := make(map[string]int, len(words))
	for _, w := range words {
		freq[w]++
	}

	scored := ScoreSentences(sentences, freq)
	ranked := make([]ScoredSentence, len(scored))
	copy(ranked, scored)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	a := &Analysis{
		Sentences:                sentences,
		ParagraphCount:           countParagraphs(text),
		Scored:                   ranked,
		Topics:                   KeyTopics(freq, 10),
		Sections:                 analyzeSections(sentences),
		Vocabulary:               vocabularyStats(words, len(sentences)),
		RecommendedSummaryLength: clamp(len(sentences)/4, 3, 7),
	}
	return a
}

// analyzeSections splits the sentence list into introduction, body, and
// conclusion thirds and scores each by average word frequency within the
// section.
func analyzeSections(sentences []string) []SectionStats {
	third := len(sentences) / 3
	bounds := []struct {
		name       string
		start, end int
	}{
		{"introduction", 0, minInt(3, third)},
		{"body", third, 2 * third},
		{"conclusion", 2 * third, len(sentences)},
	}

	stats := make([]SectionStats, 0, len(bounds))
	for _, b := range bounds {
		section := sentences[b.start:b.end]

		var words []string
		for _, s := range section {
			words = append(words, Words(s)...)
		}

		freq := make(map[string]int, len(words))
		for _, w := range words {
			freq[w]++
		}

		var score float64
		if len(words) > 0 {
			sum := 0
			for _, w := range words {
				sum += freq[w]
			}
			score = float64(sum) / float64(len(words))
		}

		keyWords := make([]Topic, 0, len(freq))
		for w, c := range freq {
			if len(w) > 3 {
				keyWords = append(keyWords, Topic{Word: w, Count: c})
			}
		}
		sort.Slice(keyWords, func(i, j int) bool {
			if keyWords[i].Count != keyWords[j].Count {
				return keyWords[i].Count > keyWords[j].Count
			}
			return keyWords[i].Word < keyWords[j].Word
		})
		if len(keyWords) > 5 {
			keyWords = keyWords[:5]
		}

		stats = append(stats, SectionStats{
			Name:          b.name,
			Score:         score,
			SentenceCount: len(section),
			KeyWords:      keyWords,
		})
	}
	return stats
}

func vocabularyStats(words []string, sentenceCount int) VocabularyStats {
	total := len(words)
	unique := make(map[string]struct{}, total)
	long, complex := 0, 0
	for _, w := range words {
		unique[w] = struct{}{}
		if len(w) >= 6 {
			long++
		}
		if len(w) >= 8 {
			complex++
		}
	}

	stats := VocabularyStats{
		TotalWords:  total,
		UniqueWords: len(unique),
	}
	if total > 0 {
		stats.Richness = float64(len(unique)) / float64(total)
		stats.LongWordPercentage = float64(long) / float64(total) * 100
		stats.ComplexWordPercentage = float64(complex) / float64(total) * 100
	}
	if sentenceCount > 0 {
		stats.AverageSentenceLength = float64(total) / float64(sentenceCount)
	}
	return stats
}

func countParagraphs(text string) int {
	count := 0
	for _, p := range paragraphSepRe.Split(text, -1) {
		if strings.TrimSpace(p) != "" {
			count++
		}
	}
	return count
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
