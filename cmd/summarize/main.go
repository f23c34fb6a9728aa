// Package main implements the summarize command line tool. It produces
// an extractive summary of a text file (or stdin) locally, or an
// abstractive summary through the Gemini API, and can print a structural
// analysis report instead.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/studygen/studygen-api/internal/config"
	"github.com/studygen/studygen-api/internal/domain"
	"github.com/studygen/studygen-api/internal/platform/gemini"
	"github.com/studygen/studygen-api/internal/textanalysis"
)

func main() {
	length := flag.Int("length", 0, "number of sentences in the summary (0 uses the recommended length)")
	output := flag.String("output", "", "write the summary to this file instead of stdout")
	method := flag.String("method", "extractive", "summarization method (extractive or abstractive)")
	analyze := flag.Bool("analyze", false, "print a structural analysis report instead of a summary")
	flag.Parse()

	if err := run(*length, *output, *method, *analyze, flag.Arg(0)); err != nil {
		fmt.Fprintf(os.Stderr, "summarize: %v\n", err)
		os.Exit(1)
	}
}

func run(length int, output, method string, analyze bool, inputPath string) error {
	text, err := readInput(inputPath)
	if err != nil {
		return err
	}

	if analyze {
		report, err := analysisReport(text)
		if err != nil {
			return err
		}
		return writeOutput(output, report)
	}

	var summary string
	switch method {
	case "extractive":
		summary, err = extractiveSummary(text, length)
	case "abstractive":
		summary, err = abstractiveSummary(context.Background(), text)
	default:
		return fmt.Errorf("unknown method %q (want extractive or abstractive)", method)
	}
	if err != nil {
		return err
	}

	return writeOutput(output, summary)
}

// readInput reads the named file, or stdin when no path is given.
func readInput(path string) (string, error) {
	if path == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

func extractiveSummary(text string, length int) (string, error) {
	if length > 0 {
		return textanalysis.Summarize(text, length)
	}
	summary, _, err := textanalysis.SummarizeRecommended(text)
	return summary, err
}

// abstractiveSummary sends the text to Gemini. The API key comes from
// GEMINI_API_KEY; the model defaults to gemini-2.0-flash unless
// GEMINI_MODEL overrides it.
func abstractiveSummary(ctx context.Context, text string) (string, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return "", fmt.Errorf("abstractive summarization requires GEMINI_API_KEY")
	}

	model := os.Getenv("GEMINI_MODEL")
	if model == "" {
		model = "gemini-2.0-flash"
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	generator, err := gemini.NewStudyMaterialGenerator(ctx, logger, config.LLMConfig{
		GeminiAPIKey:      apiKey,
		ModelName:         model,
		MaxRetries:        3,
		RetryDelaySeconds: 2,
	})
	if err != nil {
		return "", err
	}

	pageCount := domain.EstimatePageCount(text)
	summary, err := generator.GenerateSummary(ctx, text, pageCount, uuid.New(), uuid.New())
	if err != nil {
		return "", err
	}
	return strings.Join(summary.Paragraphs, "\n\n"), nil
}

// analysisReport formats the structural analysis the way the service
// reports it: topics, important sentences, section balance, vocabulary,
// and a recommended summary length.
func analysisReport(text string) (string, error) {
	a := textanalysis.Analyze(text)
	if len(a.Sentences) == 0 {
		return "", textanalysis.ErrEmptyText
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Text Analysis\n")
	fmt.Fprintf(&b, "  Sentences:  %d\n", len(a.Sentences))
	fmt.Fprintf(&b, "  Paragraphs: %d\n", a.ParagraphCount)
	fmt.Fprintf(&b, "  Words:      %d (%d unique, richness %.2f)\n",
		a.Vocabulary.TotalWords, a.Vocabulary.UniqueWords, a.Vocabulary.Richness)
	fmt.Fprintf(&b, "  Avg sentence length: %.1f words\n", a.Vocabulary.AverageSentenceLength)
	fmt.Fprintf(&b, "  Long words: %.1f%%, complex words: %.1f%%\n",
		a.Vocabulary.LongWordPercentage, a.Vocabulary.ComplexWordPercentage)

	if len(a.Topics) > 0 {
		b.WriteString("\nKey topics:\n")
		for _, t := range a.Topics {
			fmt.Fprintf(&b, "  %-20s %d\n", t.Word, t.Count)
		}
	}

	if len(a.Sections) > 0 {
		b.WriteString("\nSections:\n")
		for _, s := range a.Sections {
			fmt.Fprintf(&b, "  %-13s %d sentences, score %.2f\n",
				s.Name, s.SentenceCount, s.Score)
		}
	}

	important := a.Scored
	if len(important) > 3 {
		important = important[:3]
	}
	if len(important) > 0 {
		b.WriteString("\nMost important sentences:\n")
		for i, s := range important {
			fmt.Fprintf(&b, "  %d. %s\n", i+1, s.Sentence)
		}
	}

	fmt.Fprintf(&b, "\nRecommended summary length: %d sentences\n", a.RecommendedSummaryLength)
	return b.String(), nil
}

// writeOutput prints to stdout, or writes to the named file with a
// confirmation line on stdout.
func writeOutput(path, content string) error {
	if path == "" {
		fmt.Println(strings.TrimRight(content, "\n"))
		return nil
	}

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	fmt.Printf("Summary written to %s\n", path)
	return nil
}
