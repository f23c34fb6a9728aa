package skills

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSkill(t *testing.T, dir, name, description, body string) {
	t.Helper()

	skillDir := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(skillDir, 0o755))

	content := "---\nname: " + name + "\ndescription: " + description + "\n---\n\n" + body
	require.NoError(t, os.WriteFile(filepath.Join(skillDir, skillFileName), []byte(content), 0o644))
}

func testRegistry(t *testing.T) *Registry {
	t.Helper()

	dir := t.TempDir()
	writeSkill(t, dir, "quiz-generation", "Generate practice quizzes with multiple choice and essay questions from study material", "Produce five questions.")
	writeSkill(t, dir, "flashcards", "Create flashcard decks for spaced repetition study from notes or source text", "Produce five cards.")
	writeSkill(t, dir, "summary-creation", "Summarize long documents into concise paragraphs", "Condense the text.")

	r, err := NewRegistry(WithSkillDirs(dir))
	require.NoError(t, err)
	return r
}

func TestDiscover(t *testing.T) {
	t.Parallel()

	r := testRegistry(t)
	skills, err := r.Discover()
	require.NoError(t, err)
	require.Len(t, skills, 3)

	quiz := skills["quiz-generation"]
	require.NotNil(t, quiz)
	assert.Equal(t, "Produce five questions.", quiz.Content)
	assert.NotContains(t, quiz.Content, "---", "frontmatter must be stripped")
	assert.NotEmpty(t, quiz.Directory)
}

func TestDiscoverSkipsInvalidSkills(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeSkill(t, dir, "valid", "A valid skill for testing discovery", "Body.")

	// No frontmatter at all.
	badDir := filepath.Join(dir, "broken")
	require.NoError(t, os.MkdirAll(badDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(badDir, skillFileName), []byte("# Just a heading\n"), 0o644))

	r, err := NewRegistry(WithSkillDirs(dir))
	require.NoError(t, err)

	skills, err := r.Discover()
	require.NoError(t, err)
	assert.Len(t, skills, 1)
	assert.Contains(t, skills, "valid")
}

func TestGet(t *testing.T) {
	t.Parallel()

	r := testRegistry(t)

	skill, err := r.Get("flashcards")
	require.NoError(t, err)
	assert.Equal(t, "flashcards", skill.Name)

	_, err = r.Get("nonexistent")
	assert.ErrorIs(t, err, ErrSkillNotFound)
}

func TestNames(t *testing.T) {
	t.Parallel()

	r := testRegistry(t)
	names, err := r.Names()
	require.NoError(t, err)
	assert.Equal(t, []string{"flashcards", "quiz-generation", "summary-creation"}, names)
}

func TestMatch(t *testing.T) {
	t.Parallel()

	r := testRegistry(t)

	t.Run("quiz request", func(t *testing.T) {
		skill, err := r.Match("make me a practice quiz with essay questions")
		require.NoError(t, err)
		assert.Equal(t, "quiz-generation", skill.Name)
	})

	t.Run("flashcard request", func(t *testing.T) {
		skill, err := r.Match("turn these notes into flashcard decks for spaced repetition")
		require.NoError(t, err)
		assert.Equal(t, "flashcards", skill.Name)
	})

	t.Run("summary request", func(t *testing.T) {
		skill, err := r.Match("summarize this long document for me")
		require.NoError(t, err)
		assert.Equal(t, "summary-creation", skill.Name)
	})

	t.Run("no overlap", func(t *testing.T) {
		_, err := r.Match("bake sourdough bread")
		assert.ErrorIs(t, err, ErrNoMatch)
	})

	t.Run("stop words only", func(t *testing.T) {
		_, err := r.Match("the and of")
		assert.ErrorIs(t, err, ErrNoMatch)
	})
}
