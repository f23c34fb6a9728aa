package generation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/studygen/studygen-api/internal/domain"
	"github.com/studygen/studygen-api/internal/domain/schema"
	"github.com/studygen/studygen-api/internal/textanalysis"
)

// ExtractiveSummarizer produces summaries by selecting sentences from the
// source text instead of calling a language model. It backs the extractive
// summary method: deterministic, offline, and cheap.
type ExtractiveSummarizer struct {
	logger *slog.Logger
	schema schema.Service
}

// NewExtractiveSummarizer creates an ExtractiveSummarizer.
func NewExtractiveSummarizer(logger *slog.Logger) *ExtractiveSummarizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExtractiveSummarizer{
		logger: logger.With(slog.String("component", "extractive_summarizer")),
		schema: schema.NewDefaultService(),
	}
}

// Summarize builds an extractive summary of the document text sized to its
// page count. The highest-scoring sentences are kept in document order and
// distributed over the paragraph count the page-ratio rule requires.
func (s *ExtractiveSummarizer) Summarize(
	ctx context.Context,
	documentText string,
	pageCount int,
	userID, documentID uuid.UUID,
) (*domain.Summary, error) {
	text, analysis, err := textanalysis.SummarizeRecommended(documentText)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	minParas, _ := schema.SummaryParagraphRange(pageCount)
	paragraphs := splitIntoParagraphs(text, minParas)

	summary, err := domain.NewSummary(userID, documentID, domain.SummaryMethodExtractive, paragraphs)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	if err := s.schema.ValidateSummary(summary, pageCount); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	s.logger.InfoContext(ctx, "extractive summary generated",
		"document_id", documentID.String(),
		"sentence_count", len(analysis.Sentences),
		"paragraph_count", len(paragraphs))

	return summary, nil
}

// splitIntoParagraphs distributes the summary sentences over the given
// paragraph count, keeping document order.
func splitIntoParagraphs(text string, paragraphCount int) []string {
	if paragraphCount <= 1 {
		return []string{text}
	}

	sentences := textanalysis.SplitSentences(text)
	if len(sentences) <= paragraphCount {
		return []string{text}
	}

	perParagraph := (len(sentences) + paragraphCount - 1) / paragraphCount
	paragraphs := make([]string, 0, paragraphCount)
	for start := 0; start < len(sentences); start += perParagraph {
		end := start + perParagraph
		if end > len(sentences) {
			end = len(sentences)
		}
		paragraphs = append(paragraphs, strings.Join(sentences[start:end], " "))
	}

	return paragraphs
}
