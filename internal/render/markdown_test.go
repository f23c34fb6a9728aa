package render

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studygen/studygen-api/internal/domain"
	"github.com/studygen/studygen-api/internal/domain/schema"
)

func TestRenderQuiz(t *testing.T) {
	t.Parallel()

	questions := []domain.QuizQuestion{
		{
			Ordinal: 1,
			Kind:    domain.QuestionKindMultipleChoice,
			Stem:    "What pigment captures light energy?",
			Options: []string{"Melanin", "Chlorophyll", "Keratin", "Hemoglobin"},
			CorrectAnswer: "B",
			Explanation:   "Chlorophyll absorbs light in the chloroplasts.",
		},
		{
			Ordinal:       2,
			Kind:          domain.QuestionKindShortAnswer,
			Stem:          "Name the gas released during photosynthesis.",
			CorrectAnswer: "Oxygen",
			Explanation:   "Splitting water releases oxygen.",
		},
	}

	out, err := RenderQuiz("Photosynthesis", questions)
	require.NoError(t, err)

	assert.Contains(t, out, "# Quiz: Photosynthesis")
	assert.Contains(t, out, "## Q1 (Multiple Choice)")
	assert.Contains(t, out, "A) Melanin")
	assert.Contains(t, out, "D) Hemoglobin")
	assert.Contains(t, out, "**Answer:** B) Chlorophyll")
	assert.Contains(t, out, "## Q2 (Short Answer)")
	assert.Contains(t, out, "**Answer:** Oxygen")
	assert.NotContains(t, out, "A) Oxygen", "short answer questions carry no options")
}

func TestRenderDeck(t *testing.T) {
	t.Parallel()

	cards := []domain.Flashcard{
		{Difficulty: domain.DifficultyEasy, Front: "What is photosynthesis?", Back: "Conversion of light to chemical energy.", ConceptTag: "Photosynthesis"},
		{Difficulty: domain.DifficultyHard, Front: "Why does oxygen evolve?", Back: "Water is split to replace lost electrons.", ConceptTag: "Light Reactions"},
	}

	out, err := RenderDeck("Photosynthesis", cards)
	require.NoError(t, err)

	assert.Contains(t, out, "# Flashcards: Photosynthesis")
	assert.Contains(t, out, "## Card 1 (Easy)")
	assert.Contains(t, out, "## Card 2 (Hard)")
	assert.Contains(t, out, "**Front:** What is photosynthesis?")
	assert.Contains(t, out, "**Concept:** Light Reactions")
}

func TestRenderSummary(t *testing.T) {
	t.Parallel()

	s := &domain.Summary{
		Method:     domain.SummaryMethodExtractive,
		Paragraphs: []string{"First paragraph.", "Second paragraph."},
	}
	out, err := RenderSummary("Photosynthesis", s)
	require.NoError(t, err)

	assert.Contains(t, out, "# Summary: Photosynthesis")
	assert.Contains(t, out, "First paragraph.\n\nSecond paragraph.")
}

func photosynthesisNotes(t *testing.T) *domain.StudyNotes {
	t.Helper()

	notes, err := domain.NewStudyNotes(uuid.New(), uuid.New(), "Photosynthesis",
		[]domain.NoteSection{
			{
				Heading:    "Light Reactions",
				Definition: "The stage that converts light energy into ATP and NADPH.",
				KeyPoints:  []string{"Occurs in thylakoid membranes", "Splits water molecules", "Produces ATP and NADPH"},
				Examples:   []string{"Photosystem II capturing photons"},
			},
			{
				Heading:    "Calvin Cycle",
				Definition: "The stage that fixes carbon dioxide into glucose.",
				KeyPoints:  []string{"Occurs in the stroma", "Uses ATP and NADPH", "Fixes CO2 via RuBisCO"},
				Examples:   []string{"Glucose synthesis in leaf cells"},
			},
		},
		[]domain.Concept{
			{Name: "Photosynthesis", Priority: domain.PriorityHigh, Definition: "Conversion of light energy into chemical energy"},
			{Name: "Chlorophyll", Priority: domain.PriorityHigh, Definition: "Pigment that captures light"},
			{Name: "Light Reactions", Priority: domain.PriorityHigh, Definition: "ATP and NADPH production stage"},
			{Name: "Calvin Cycle", Priority: domain.PriorityHigh, Definition: "Carbon fixation stage"},
			{Name: "RuBisCO", Priority: domain.PriorityHigh, Definition: "Enzyme that fixes carbon dioxide"},
			{Name: "Stomata", Priority: domain.PriorityMedium, Definition: "Pores for gas exchange"},
			{Name: "Thylakoid", Priority: domain.PriorityMedium, Definition: "Membrane compartment in chloroplasts"},
			{Name: "Stroma", Priority: domain.PriorityMedium, Definition: "Fluid surrounding thylakoids"},
		},
	)
	require.NoError(t, err)
	return notes
}

func TestRenderNotes(t *testing.T) {
	t.Parallel()

	out, err := RenderNotes(photosynthesisNotes(t))
	require.NoError(t, err)

	assert.Contains(t, out, "# Study Notes: Photosynthesis")
	assert.Contains(t, out, "## Light Reactions")
	assert.Contains(t, out, "**Definition:** The stage that converts light energy into ATP and NADPH.")
	assert.Contains(t, out, "- Occurs in thylakoid membranes")
	assert.Contains(t, out, "## Flagged Concepts")
	assert.Contains(t, out, "- 🔴 **Photosynthesis**: Conversion of light energy into chemical energy")
	assert.Contains(t, out, "- 🟡 **Stomata**: Pores for gas exchange")
}

func TestParseFlaggedConcepts(t *testing.T) {
	t.Parallel()

	out, err := RenderNotes(photosynthesisNotes(t))
	require.NoError(t, err)

	concepts, err := ParseFlaggedConcepts([]byte(out))
	require.NoError(t, err)
	require.Len(t, concepts, 8)

	assert.Equal(t, "Photosynthesis", concepts[0].Name)
	assert.Equal(t, domain.PriorityHigh, concepts[0].Priority)
	assert.Equal(t, "Conversion of light energy into chemical energy", concepts[0].Definition)
	assert.Equal(t, "Stomata", concepts[5].Name)
	assert.Equal(t, domain.PriorityMedium, concepts[5].Priority)
}

func TestParseFlaggedConceptsMissingSection(t *testing.T) {
	t.Parallel()

	_, err := ParseFlaggedConcepts([]byte("# Study Notes: X\n\n## Section\n\nBody.\n"))
	assert.ErrorIs(t, err, ErrNoFlaggedSection)
}

// Rendered notes feed flashcard generation: parsing the notes document and
// selecting concepts must pick all five high-priority entries first.
func TestNotesToFlashcardConceptRoundTrip(t *testing.T) {
	t.Parallel()

	out, err := RenderNotes(photosynthesisNotes(t))
	require.NoError(t, err)

	concepts, err := ParseFlaggedConcepts([]byte(out))
	require.NoError(t, err)

	selected, err := schema.NewDefaultService().SelectConcepts(concepts)
	require.NoError(t, err)
	require.Len(t, selected, 5)

	want := []string{"Photosynthesis", "Chlorophyll", "Light Reactions", "Calvin Cycle", "RuBisCO"}
	for i, name := range want {
		assert.Equal(t, name, selected[i].Name)
		assert.Equal(t, domain.PriorityHigh, selected[i].Priority)
	}
}

func TestRenderQuizOrdinalsSequential(t *testing.T) {
	t.Parallel()

	questions := []domain.QuizQuestion{
		{Ordinal: 1, Kind: domain.QuestionKindEssay, Stem: "Discuss.", CorrectAnswer: "Free response", Explanation: "Graded on depth."},
	}
	out, err := RenderQuiz("T", questions)
	require.NoError(t, err)
	assert.Contains(t, out, "## Q1 (Essay)")
	assert.Equal(t, 1, strings.Count(out, "## Q"))
}
