package render

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/studygen/studygen-api/internal/domain"
)

// Heading that introduces the flagged-concept list in rendered notes.
const flaggedHeading = "Flagged Concepts"

// Parse errors for study-notes Markdown.
var (
	ErrNoFlaggedSection = errors.New("no flagged concepts section found in notes")
	ErrNoConceptList    = errors.New("flagged concepts heading has no list beneath it")
)

// ParseFlaggedConcepts extracts the flagged-concept list from a rendered
// study-notes Markdown document. Each list item must start with a priority
// marker followed by the concept name; a colon separates an optional
// definition. Items without a recognized marker are skipped.
func ParseFlaggedConcepts(source []byte) ([]domain.Concept, error) {
	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(source))

	list := findFlaggedList(doc, source)
	if list == nil {
		return nil, ErrNoFlaggedSection
	}

	var concepts []domain.Concept
	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		line := strings.TrimSpace(nodeText(item, source))
		concept, ok := parseConceptLine(line)
		if !ok {
			continue
		}
		concepts = append(concepts, concept)
	}
	if len(concepts) == 0 {
		return nil, fmt.Errorf("%w: list held no recognizable concepts", ErrNoConceptList)
	}
	return concepts, nil
}

// findFlaggedList locates the list that follows the flagged-concepts
// heading.
func findFlaggedList(doc ast.Node, source []byte) ast.Node {
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		h, ok := n.(*ast.Heading)
		if !ok || !strings.EqualFold(strings.TrimSpace(nodeText(h, source)), flaggedHeading) {
			continue
		}
		for sib := n.NextSibling(); sib != nil; sib = sib.NextSibling() {
			if _, isHeading := sib.(*ast.Heading); isHeading {
				return nil
			}
			if _, isList := sib.(*ast.List); isList {
				return sib
			}
		}
	}
	return nil
}

func parseConceptLine(line string) (domain.Concept, bool) {
	var priority domain.Priority
	switch {
	case strings.HasPrefix(line, domain.PriorityHighMarker):
		priority = domain.PriorityHigh
		line = strings.TrimPrefix(line, domain.PriorityHighMarker)
	case strings.HasPrefix(line, domain.PriorityMediumMarker):
		priority = domain.PriorityMedium
		line = strings.TrimPrefix(line, domain.PriorityMediumMarker)
	default:
		return domain.Concept{}, false
	}

	name := strings.TrimSpace(line)
	definition := ""
	if i := strings.Index(line, ":"); i >= 0 {
		name = strings.TrimSpace(line[:i])
		definition = strings.TrimSpace(line[i+1:])
	}
	if name == "" {
		return domain.Concept{}, false
	}
	return domain.Concept{Name: name, Priority: priority, Definition: definition}, true
}

// nodeText concatenates the raw text of every text node in the subtree,
// dropping inline formatting.
func nodeText(n ast.Node, source []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := node.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(source))
		case *ast.String:
			b.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return b.String()
}
