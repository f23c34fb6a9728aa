package gemini

// promptData represents the data passed to the prompt templates
type promptData struct {
	// DocumentText is the source text the materials are generated from
	DocumentText string

	// MinParagraphs and MaxParagraphs bound the summary length. They are
	// only set for summary prompts.
	MinParagraphs int
	MaxParagraphs int
}

// quizResponse represents the expected structure of a quiz from the Gemini API
type quizResponse struct {
	Questions []questionSchema `json:"questions"`
}

// questionSchema represents a single quiz question in the API response
type questionSchema struct {
	// Kind is one of multiple_choice, short_answer, or essay
	Kind string `json:"kind"`

	// Stem is the question text
	Stem string `json:"stem"`

	// Options are the four lettered choices, present only on
	// multiple-choice questions
	Options []string `json:"options,omitempty"`

	// CorrectAnswer is an option letter for multiple-choice questions or a
	// model answer for the other kinds
	CorrectAnswer string `json:"correct_answer"`

	// Explanation says why the correct answer is correct
	Explanation string `json:"explanation"`
}

// deckResponse represents the expected structure of a flashcard deck from the API
type deckResponse struct {
	Cards []cardSchema `json:"cards"`
}

// cardSchema represents a single flashcard in the API response
type cardSchema struct {
	// Difficulty is one of easy, medium, or hard
	Difficulty string `json:"difficulty"`

	// Front is the question or prompt side of the flashcard
	Front string `json:"front"`

	// Back is the answer side of the flashcard
	Back string `json:"back"`

	// ConceptTag names the concept the card was derived from
	ConceptTag string `json:"concept_tag,omitempty"`
}

// notesResponse represents the expected structure of study notes from the API
type notesResponse struct {
	Title    string          `json:"title"`
	Sections []sectionSchema `json:"sections"`
	Flagged  []conceptSchema `json:"flagged"`
}

// sectionSchema represents one thematic note section in the API response
type sectionSchema struct {
	Heading    string   `json:"heading"`
	Definition string   `json:"definition"`
	KeyPoints  []string `json:"key_points"`
	Examples   []string `json:"examples"`
}

// conceptSchema represents one flagged concept in the API response
type conceptSchema struct {
	Name       string   `json:"name"`
	Priority   string   `json:"priority"`
	Definition string   `json:"definition,omitempty"`
	Examples   []string `json:"examples,omitempty"`
}

// summaryResponse represents the expected structure of a summary from the API
type summaryResponse struct {
	Paragraphs []string `json:"paragraphs"`
}
