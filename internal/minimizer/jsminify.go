package minimizer

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
)

// JSMinifier shrinks JavaScript source with pattern-based passes. It is
// not a full parser; it targets the common declaration forms.
type JSMinifier struct {
	removeComments bool
	minifyVars     bool

	varMap  map[string]string
	counter int
}

// NewJSMinifier creates a minifier. Comment removal and identifier
// shortening can each be disabled.
func NewJSMinifier(removeComments, minifyVars bool) *JSMinifier {
	return &JSMinifier{
		removeComments: removeComments,
		minifyVars:     minifyVars,
		varMap:         make(map[string]string),
	}
}

var (
	jsLineCommentRe  = regexp.MustCompile(`(?m)//.*$`)
	jsBlockCommentRe = regexp.MustCompile(`(?s)/\*.*?\*/`)
	jsDeclRe         = regexp.MustCompile(`\b(?:var|let|const|function)\s+(\w+)`)
	jsOperatorRe     = regexp.MustCompile(`\s*([=+\-*/<>!&|])\s*`)
	jsCommaRe        = regexp.MustCompile(`,\s*`)
	jsOpenRe         = regexp.MustCompile(`([\[({])\s*`)
	jsCloseRe        = regexp.MustCompile(`\s*([\])}])`)
	jsSemiRe         = regexp.MustCompile(`\s*;\s*`)
	jsSpaceRe        = regexp.MustCompile(`\s+`)
	jsDoubleQuoteRe  = regexp.MustCompile(`"([^"]*)"`)
)

// Minify runs the enabled passes over src and returns the result.
func (m *JSMinifier) Minify(src string) *Result {
	res := &Result{OriginalSize: len(src)}

	out := src
	if m.removeComments {
		out = jsBlockCommentRe.ReplaceAllString(out, "")
		out = jsLineCommentRe.ReplaceAllString(out, "")
		res.Optimizations = append(res.Optimizations, "removed comments")
	}
	if m.minifyVars {
		out = m.shortenIdentifiers(out)
		if len(m.varMap) > 0 {
			res.Optimizations = append(res.Optimizations,
				fmt.Sprintf("shortened %d identifiers", len(m.varMap)))
		}
	}
	out = squeezeWhitespace(out)
	out = optimizeStrings(out)

	res.Content = out
	res.MinimizedSize = len(out)
	return res
}

// MinifyFile minifies inputPath into outputPath. An empty outputPath
// replaces the ".js" suffix with ".min.js".
func (m *JSMinifier) MinifyFile(inputPath, outputPath string) (*Result, error) {
	if outputPath == "" {
		outputPath = strings.TrimSuffix(inputPath, ".js") + ".min.js"
	}

	src, err := os.ReadFile(inputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", inputPath, err)
	}

	res := m.Minify(string(src))
	res.Path = outputPath

	if err := os.WriteFile(outputPath, []byte(res.Content), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", outputPath, err)
	}
	return res, nil
}

// shortenIdentifiers maps every declared name longer than two characters
// to a generated short name, longest first so overlapping names never
// corrupt one another.
func (m *JSMinifier) shortenIdentifiers(src string) string {
	names := make(map[string]struct{})
	for _, match := range jsDeclRe.FindAllStringSubmatch(src, -1) {
		if name := match[1]; len(name) > 2 {
			names[name] = struct{}{}
		}
	}

	ordered := make([]string, 0, len(names))
	for name := range names {
		ordered = append(ordered, name)
	}
	sort.Slice(ordered, func(i, j int) bool {
		if len(ordered[i]) != len(ordered[j]) {
			return len(ordered[i]) > len(ordered[j])
		}
		return ordered[i] < ordered[j]
	})

	for _, name := range ordered {
		m.varMap[name] = m.nextShortName()
	}

	out := src
	for _, name := range ordered {
		re := regexp.MustCompile(`\b` + regexp.QuoteMeta(name) + `\b`)
		out = re.ReplaceAllString(out, m.varMap[name])
	}
	return out
}

// nextShortName yields a, b, ..., z, aa, ab, and so on.
func (m *JSMinifier) nextShortName() string {
	defer func() { m.counter++ }()
	if m.counter < 26 {
		return string(rune('a' + m.counter))
	}
	base := m.counter - 26
	return string([]rune{rune('a' + base/26), rune('a' + base%26)})
}

func squeezeWhitespace(src string) string {
	src = jsOperatorRe.ReplaceAllString(src, "$1")
	src = jsCommaRe.ReplaceAllString(src, ",")
	src = jsOpenRe.ReplaceAllString(src, "$1")
	src = jsCloseRe.ReplaceAllString(src, "$1")
	src = jsSpaceRe.ReplaceAllString(src, " ")
	src = jsSemiRe.ReplaceAllString(src, ";")
	return strings.TrimSpace(src)
}

// optimizeStrings swaps double quotes for single quotes where the
// content allows it.
func optimizeStrings(src string) string {
	return jsDoubleQuoteRe.ReplaceAllStringFunc(src, func(s string) string {
		inner := s[1 : len(s)-1]
		if len(inner) > 1 && !strings.Contains(inner, "'") {
			return "'" + inner + "'"
		}
		return s
	})
}
