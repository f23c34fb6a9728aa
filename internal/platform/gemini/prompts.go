package gemini

import "text/template"

// Prompt templates for each material kind. Each template instructs the
// model to answer with a bare JSON object matching the response schemas in
// types.go, and spells out the cardinality rules the schema service will
// enforce on the result.

var quizPromptTemplate = template.Must(template.New("quiz").Parse(`You are a study assistant. Generate a quiz from the study material below.

Requirements:
- Exactly 5 questions, in this order: 2 multiple-choice, then 2 short-answer, then 1 essay question.
- Multiple-choice questions have exactly 4 options. The correct_answer field holds the letter (A, B, C, or D) of the correct option.
- Short-answer and essay questions have no options. The correct_answer field holds a model answer.
- Every question has a one- or two-sentence explanation of the correct answer.
- All questions must be answerable from the material alone.

Respond with only a JSON object, no surrounding prose or code fences:
{"questions": [{"kind": "multiple_choice", "stem": "...", "options": ["...", "...", "...", "..."], "correct_answer": "A", "explanation": "..."}, {"kind": "short_answer", "stem": "...", "correct_answer": "...", "explanation": "..."}, {"kind": "essay", "stem": "...", "correct_answer": "...", "explanation": "..."}]}

Study material:
{{.DocumentText}}`))

var deckPromptTemplate = template.Must(template.New("deck").Parse(`You are a study assistant. Generate flashcards from the study material below.

Requirements:
- Exactly 5 cards: 2 easy, 2 medium, and 1 hard.
- Easy cards test recall of a single fact or definition. Medium cards test understanding of a relationship or process. Hard cards require synthesis across the material.
- The front is a question or prompt; the back is a complete answer.
- Each card names the concept it was derived from in concept_tag.

Respond with only a JSON object, no surrounding prose or code fences:
{"cards": [{"difficulty": "easy", "front": "...", "back": "...", "concept_tag": "..."}]}

Study material:
{{.DocumentText}}`))

var notesPromptTemplate = template.Must(template.New("notes").Parse(`You are a study assistant. Generate structured study notes from the material below.

Requirements:
- Between 5 and 7 thematic sections. Each section has a heading, a one-sentence definition, 3 to 4 key points, and 1 to 2 concrete examples.
- After the sections, flag between 5 and 8 concepts for focused study. Each flagged concept has a name, a priority of "high" or "medium", and a short definition. High priority means the concept is central to the material; medium means supporting.
- Give the notes a short descriptive title.

Respond with only a JSON object, no surrounding prose or code fences:
{"title": "...", "sections": [{"heading": "...", "definition": "...", "key_points": ["..."], "examples": ["..."]}], "flagged": [{"name": "...", "priority": "high", "definition": "..."}]}

Study material:
{{.DocumentText}}`))

var summaryPromptTemplate = template.Must(template.New("summary").Parse(`You are a study assistant. Summarize the study material below in your own words.

Requirements:
- Between {{.MinParagraphs}} and {{.MaxParagraphs}} paragraphs.
- Preserve the material's main claims and their order. Do not introduce facts the material does not contain.
- Write complete prose paragraphs, not bullet points.

Respond with only a JSON object, no surrounding prose or code fences:
{"paragraphs": ["..."]}

Study material:
{{.DocumentText}}`))
