// Package minimizer removes dead code and tightens source files while
// preserving behavior. Go sources are rewritten through the go/ast
// toolchain; JavaScript and other languages use pattern-based passes.
package minimizer

import (
	"fmt"
	"go/ast"
	"go/format"
	"go/parser"
	"go/token"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// Options control which passes run during minimization.
type Options struct {
	// Aggressive enables passes that may change formatting heavily.
	Aggressive bool
	// RemoveComments strips comments from the output.
	RemoveComments bool
}

// Result reports what a minimization pass did to one file.
type Result struct {
	Path          string
	OriginalSize  int
	MinimizedSize int
	Content       string
	Optimizations []string
}

// Reduction returns the size reduction as a percentage of the original.
func (r *Result) Reduction() float64 {
	if r.OriginalSize == 0 {
		return 0
	}
	return float64(r.OriginalSize-r.MinimizedSize) / float64(r.OriginalSize) * 100
}

// Minimizer applies dead-code removal and logic simplification.
type Minimizer struct {
	opts Options
}

// New creates a Minimizer with the given options.
func New(opts Options) *Minimizer {
	return &Minimizer{opts: opts}
}

// MinimizeSource minimizes source text. Go files get AST-based dead
// import removal; everything else gets the pattern passes only.
func (m *Minimizer) MinimizeSource(path, src string) (*Result, error) {
	res := &Result{Path: path, OriginalSize: len(src)}

	out := src
	if strings.HasSuffix(path, ".go") {
		rewritten, applied, err := m.removeUnusedImports(path, out)
		if err == nil {
			out = rewritten
			res.Optimizations = append(res.Optimizations, applied...)
		}
		// On parse failure the source passes through untouched.
	}

	out, applied := m.simplifyLogic(out)
	res.Optimizations = append(res.Optimizations, applied...)

	out, applied = m.dedupeImportLines(out)
	res.Optimizations = append(res.Optimizations, applied...)

	if m.opts.RemoveComments {
		out = stripComments(out)
	}

	out = collapseWhitespace(out)

	res.Content = out
	res.MinimizedSize = len(out)
	return res, nil
}

// MinimizeFile minimizes the file at inputPath and writes the result to
// outputPath. An empty outputPath appends ".minimized" to the input.
func (m *Minimizer) MinimizeFile(inputPath, outputPath string) (*Result, error) {
	if outputPath == "" {
		outputPath = inputPath + ".minimized"
	}

	src, err := os.ReadFile(inputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", inputPath, err)
	}

	res, err := m.MinimizeSource(inputPath, string(src))
	if err != nil {
		return nil, err
	}

	if err := os.WriteFile(outputPath, []byte(res.Content), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", outputPath, err)
	}
	res.Path = outputPath
	return res, nil
}

// removeUnusedImports parses Go source and drops import specs whose
// package name never appears as a used identifier.
func (m *Minimizer) removeUnusedImports(path, src string) (string, []string, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, src, parser.ParseComments)
	if err != nil {
		return "", nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	used := usedIdentifiers(file)

	var applied []string
	for _, decl := range file.Decls {
		gen, ok := decl.(*ast.GenDecl)
		if !ok || gen.Tok != token.IMPORT {
			continue
		}
		kept := gen.Specs[:0]
		for _, spec := range gen.Specs {
			imp := spec.(*ast.ImportSpec)
			name := importRefName(imp)
			if name == "_" || name == "." || used[name] {
				kept = append(kept, spec)
				continue
			}
			applied = append(applied, "removed unused import: "+name)
		}
		gen.Specs = kept
	}
	if len(applied) == 0 {
		return src, nil, nil
	}

	var b strings.Builder
	if err := format.Node(&b, fset, file); err != nil {
		return "", nil, fmt.Errorf("failed to format %s: %w", path, err)
	}
	return b.String(), applied, nil
}

func importRefName(imp *ast.ImportSpec) string {
	if imp.Name != nil {
		return imp.Name.Name
	}
	p, err := strconv.Unquote(imp.Path.Value)
	if err != nil {
		return imp.Path.Value
	}
	if i := strings.LastIndex(p, "/"); i >= 0 {
		p = p[i+1:]
	}
	return p
}

// usedIdentifiers collects every identifier referenced in the file body,
// skipping the import declarations themselves.
func usedIdentifiers(file *ast.File) map[string]bool {
	used := make(map[string]bool)
	for _, decl := range file.Decls {
		if gen, ok := decl.(*ast.GenDecl); ok && gen.Tok == token.IMPORT {
			continue
		}
		ast.Inspect(decl, func(n ast.Node) bool {
			switch x := n.(type) {
			case *ast.Ident:
				used[x.Name] = true
			case *ast.SelectorExpr:
				if id, ok := x.X.(*ast.Ident); ok {
					used[id.Name] = true
				}
			}
			return true
		})
	}
	return used
}

var logicPatterns = []struct {
	re          *regexp.Regexp
	replacement string
	description string
}{
	{regexp.MustCompile(`!\s*!\s*(\w+)`), `$1`, "simplified double negation"},
	{regexp.MustCompile(`(\w+)\s*&&\s*true\b`), `$1`, "dropped redundant && true"},
	{regexp.MustCompile(`\btrue\s*&&\s*(\w+)`), `$1`, "dropped redundant true &&"},
	{regexp.MustCompile(`(\w+)\s*\|\|\s*false\b`), `$1`, "dropped redundant || false"},
	{regexp.MustCompile(`\bfalse\s*\|\|\s*(\w+)`), `$1`, "dropped redundant false ||"},
	{regexp.MustCompile(`(\w+)\s*==\s*true\b`), `$1`, "simplified == true"},
	{regexp.MustCompile(`(\w+)\s*==\s*false\b`), `!$1`, "simplified == false"},
	{regexp.MustCompile(`(\w+)\s*!=\s*true\b`), `!$1`, "simplified != true"},
	{regexp.MustCompile(`(\w+)\s*!=\s*false\b`), `$1`, "simplified != false"},
}

// simplifyLogic rewrites redundant boolean expressions.
func (m *Minimizer) simplifyLogic(src string) (string, []string) {
	var applied []string
	for _, p := range logicPatterns {
		if p.re.MatchString(src) {
			src = p.re.ReplaceAllString(src, p.replacement)
			applied = append(applied, p.description)
		}
	}
	return src, applied
}

var importLineRe = regexp.MustCompile(`^\s*(import\s|from\s)`)

// dedupeImportLines drops exact duplicate import lines, a pattern seen
// in generated or merged sources.
func (m *Minimizer) dedupeImportLines(src string) (string, []string) {
	lines := strings.Split(src, "\n")
	seen := make(map[string]bool)
	out := lines[:0]
	var applied []string

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if importLineRe.MatchString(line) {
			if seen[trimmed] {
				applied = append(applied, "removed duplicate import: "+trimmed)
				continue
			}
			seen[trimmed] = true
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n"), applied
}

var (
	lineCommentRe  = regexp.MustCompile(`(?m)(//|#).*$`)
	blockCommentRe = regexp.MustCompile(`(?s)/\*.*?\*/`)
)

func stripComments(src string) string {
	src = blockCommentRe.ReplaceAllString(src, "")
	return lineCommentRe.ReplaceAllString(src, "")
}

// collapseWhitespace trims trailing whitespace and allows at most two
// consecutive blank lines.
func collapseWhitespace(src string) string {
	lines := strings.Split(src, "\n")
	out := make([]string, 0, len(lines))

	blanks := 0
	for _, line := range lines {
		line = strings.TrimRight(line, " \t")
		if line == "" {
			blanks++
			if blanks > 2 {
				continue
			}
		} else {
			blanks = 0
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

// Backup copies the file to path+".backup" and returns the backup path.
func Backup(path string) (string, error) {
	src, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer src.Close()

	backupPath := path + ".backup"
	dst, err := os.Create(backupPath)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", backupPath, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("failed to copy to %s: %w", backupPath, err)
	}
	return backupPath, nil
}

// Verify checks that a minimized Go file still parses. Non-Go files
// pass as long as they are readable.
func Verify(path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if !strings.HasSuffix(path, ".go") {
		return nil
	}
	fset := token.NewFileSet()
	if _, err := parser.ParseFile(fset, path, src, 0); err != nil {
		return fmt.Errorf("minimized output no longer parses: %w", err)
	}
	return nil
}
