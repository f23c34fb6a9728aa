// Package render emits study materials as fixed-layout Markdown documents
// and parses study-notes Markdown back into flagged concepts so a notes
// document can seed flashcard generation.
package render

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/studygen/studygen-api/internal/domain"
)

var funcs = template.FuncMap{
	"letter": func(i int) string {
		if i < 0 || i >= len(domain.OptionLetters) {
			return "?"
		}
		return domain.OptionLetters[i]
	},
	"kindLabel": func(k domain.QuestionKind) string {
		switch k {
		case domain.QuestionKindMultipleChoice:
			return "Multiple Choice"
		case domain.QuestionKindShortAnswer:
			return "Short Answer"
		case domain.QuestionKindEssay:
			return "Essay"
		default:
			return string(k)
		}
	},
	"title": func(s string) string {
		if s == "" {
			return s
		}
		return strings.ToUpper(s[:1]) + s[1:]
	},
}

var quizTmpl = template.Must(template.New("quiz").Funcs(funcs).Parse(
	`# Quiz: {{.Title}}
{{range .Questions}}
## Q{{.Ordinal}} ({{kindLabel .Kind}})

{{.Stem}}
{{if .Options}}{{range $i, $opt := .Options}}
{{letter $i}}) {{$opt}}{{end}}
{{end}}
**Answer:** {{.AnswerLine}}

**Explanation:** {{.Explanation}}
{{end}}`))

var deckTmpl = template.Must(template.New("deck").Funcs(funcs).Parse(
	`# Flashcards: {{.Title}}
{{range .Cards}}
## Card {{.Number}} ({{title (printf "%s" .Card.Difficulty)}})

**Front:** {{.Card.Front}}

**Back:** {{.Card.Back}}

**Concept:** {{.Card.ConceptTag}}
{{end}}`))

var notesTmpl = template.Must(template.New("notes").Funcs(funcs).Parse(
	`# Study Notes: {{.Title}}
{{range .Sections}}
## {{.Heading}}

**Definition:** {{.Definition}}

**Key Points:**
{{range .KeyPoints}}- {{.}}
{{end}}
**Examples:**
{{range .Examples}}- {{.}}
{{end}}{{end}}
## Flagged Concepts
{{range .Flagged}}
- {{.Marker}} **{{.Name}}**{{with .Definition}}: {{.}}{{end}}{{end}}
`))

type questionView struct {
	Ordinal     int
	Kind        domain.QuestionKind
	Stem        string
	Options     []string
	AnswerLine  string
	Explanation string
}

// RenderQuiz emits the Q1..Q5 quiz layout with lettered options and an
// answer key per question.
func RenderQuiz(title string, questions []domain.QuizQuestion) (string, error) {
	views := make([]questionView, 0, len(questions))
	for i := range questions {
		q := &questions[i]
		answer := q.CorrectAnswer
		if q.Kind == domain.QuestionKindMultipleChoice {
			answer = fmt.Sprintf("%s) %s", q.CorrectAnswer, q.AnswerText())
		}
		views = append(views, questionView{
			Ordinal:     q.Ordinal,
			Kind:        q.Kind,
			Stem:        q.Stem,
			Options:     q.Options,
			AnswerLine:  answer,
			Explanation: q.Explanation,
		})
	}

	data := struct {
		Title     string
		Questions []questionView
	}{title, views}
	return execute(quizTmpl, data)
}

// RenderDeck emits the Front/Back/Concept card blocks in deck order.
func RenderDeck(title string, cards []domain.Flashcard) (string, error) {
	type numbered struct {
		Number int
		Card   domain.Flashcard
	}
	data := struct {
		Title string
		Cards []numbered
	}{Title: title}
	for i, c := range cards {
		data.Cards = append(data.Cards, numbered{i + 1, c})
	}
	return execute(deckTmpl, data)
}

// RenderNotes emits the Section/Definition/Key Points/Examples blocks
// followed by the flagged-concept list.
func RenderNotes(notes *domain.StudyNotes) (string, error) {
	return execute(notesTmpl, struct {
		Title    string
		Sections []domain.NoteSection
		Flagged  []flaggedView
	}{notes.Title, notes.Sections, flaggedViews(notes.Flagged)})
}

type flaggedView struct {
	Marker     string
	Name       string
	Definition string
}

func flaggedViews(concepts []domain.Concept) []flaggedView {
	views := make([]flaggedView, 0, len(concepts))
	for i := range concepts {
		views = append(views, flaggedView{
			Marker:     concepts[i].Marker(),
			Name:       concepts[i].Name,
			Definition: concepts[i].Definition,
		})
	}
	return views
}

// RenderSummary emits the summary paragraphs separated by blank lines.
func RenderSummary(title string, summary *domain.Summary) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "# Summary: %s\n", title)
	for _, p := range summary.Paragraphs {
		b.WriteString("\n")
		b.WriteString(p)
		b.WriteString("\n")
	}
	return b.String(), nil
}

func execute(tmpl *template.Template, data any) (string, error) {
	var b strings.Builder
	if err := tmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("failed to render %s template: %w", tmpl.Name(), err)
	}
	return b.String(), nil
}
