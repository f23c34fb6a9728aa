package minimizer

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"strings"
)

// Issue severities, ordered from most to least urgent.
const (
	SeverityHigh   = "high"
	SeverityMedium = "medium"
	SeverityLow    = "low"
)

// Issue kinds reported by analysis.
const (
	IssueUnusedImport    = "unused_import"
	IssueUnusedFunction  = "unused_function"
	IssueUnusedVariable  = "unused_variable"
	IssueUnreachableCode = "unreachable_code"
)

// Issue is a single finding in an analyzed file.
type Issue struct {
	Type        string `json:"type"`
	Line        int    `json:"line"`
	Description string `json:"description"`
	Severity    string `json:"severity"`
}

// FileStats counts structural elements of a source file.
type FileStats struct {
	TotalLines   int `json:"total_lines"`
	CodeLines    int `json:"code_lines"`
	CommentLines int `json:"comment_lines"`
	BlankLines   int `json:"blank_lines"`
	Functions    int `json:"functions"`
	Types        int `json:"types"`
	Imports      int `json:"imports"`
}

// Potential estimates how much an analyzed file could shrink.
type Potential struct {
	TotalIssues           int     `json:"total_issues"`
	HighPriority          int     `json:"high_priority"`
	MediumPriority        int     `json:"medium_priority"`
	LowPriority           int     `json:"low_priority"`
	EstimatedLines        int     `json:"estimated_lines_reducible"`
	EstimatedReductionPct float64 `json:"estimated_size_reduction_percent"`
}

// Report is the full analysis result for one file.
type Report struct {
	File      string    `json:"file"`
	Stats     FileStats `json:"stats"`
	Issues    []Issue   `json:"issues"`
	Potential Potential `json:"optimization_potential"`
}

// AnalyzeFile reads and analyzes the file at path.
func AnalyzeFile(path string) (*Report, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return AnalyzeSource(path, string(src)), nil
}

// AnalyzeSource analyzes source text. Go files get AST-based dead-code
// detection; other languages get heuristic line scanning.
func AnalyzeSource(path, src string) *Report {
	report := &Report{File: path, Stats: countLines(src)}

	if strings.HasSuffix(path, ".go") {
		analyzeGo(report, path, src)
	} else {
		analyzeGeneric(report, src)
	}

	report.Potential = estimatePotential(report.Issues, report.Stats.CodeLines)
	return report
}

func countLines(src string) FileStats {
	var stats FileStats
	for _, line := range strings.Split(src, "\n") {
		stats.TotalLines++
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			stats.BlankLines++
		case strings.HasPrefix(trimmed, "//"), strings.HasPrefix(trimmed, "#"),
			strings.HasPrefix(trimmed, "/*"), strings.HasPrefix(trimmed, "*"):
			stats.CommentLines++
		default:
			stats.CodeLines++
		}
	}
	return stats
}

func analyzeGo(report *Report, path, src string) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, src, parser.ParseComments)
	if err != nil {
		report.Issues = append(report.Issues, Issue{
			Type:        "parse_error",
			Description: err.Error(),
			Severity:    SeverityHigh,
		})
		return
	}

	used := usedIdentifiers(file)

	type definition struct {
		name string
		line int
	}
	var funcs []definition

	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			report.Stats.Functions++
			// Methods and exported functions are part of the surface;
			// only unexported package functions can be flagged.
			if d.Recv == nil && !d.Name.IsExported() && d.Name.Name != "main" && d.Name.Name != "init" {
				funcs = append(funcs, definition{d.Name.Name, fset.Position(d.Pos()).Line})
			}
		case *ast.GenDecl:
			switch d.Tok {
			case token.TYPE:
				report.Stats.Types += len(d.Specs)
			case token.IMPORT:
				for _, spec := range d.Specs {
					report.Stats.Imports++
					imp := spec.(*ast.ImportSpec)
					name := importRefName(imp)
					if name == "_" || name == "." || used[name] {
						continue
					}
					report.Issues = append(report.Issues, Issue{
						Type:        IssueUnusedImport,
						Line:        fset.Position(imp.Pos()).Line,
						Description: "unused import: " + name,
						Severity:    SeverityMedium,
					})
				}
			}
		}
	}

	refs := countIdentRefs(file)
	for _, fn := range funcs {
		// A single reference is the definition itself.
		if refs[fn.name] <= 1 {
			report.Issues = append(report.Issues, Issue{
				Type:        IssueUnusedFunction,
				Line:        fn.line,
				Description: "unused function: " + fn.name,
				Severity:    SeverityHigh,
			})
		}
	}
}

func countIdentRefs(file *ast.File) map[string]int {
	refs := make(map[string]int)
	ast.Inspect(file, func(n ast.Node) bool {
		if id, ok := n.(*ast.Ident); ok {
			refs[id.Name]++
		}
		return true
	})
	return refs
}

var terminators = []string{"return", "break", "continue", "throw"}

// analyzeGeneric flags code that follows a terminating statement in the
// same block, a common dead-code shape in any brace language.
func analyzeGeneric(report *Report, src string) {
	lines := strings.Split(src, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if !hasTerminator(trimmed) {
			continue
		}
		for j := i + 1; j < len(lines) && j <= i+10; j++ {
			next := strings.TrimSpace(lines[j])
			if next == "" || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/*") {
				continue
			}
			if strings.Contains(next, "}") || strings.Contains(next, "else") || strings.Contains(next, "catch") || strings.Contains(next, "case") {
				break
			}
			desc := next
			if len(desc) > 50 {
				desc = desc[:50]
			}
			report.Issues = append(report.Issues, Issue{
				Type:        IssueUnreachableCode,
				Line:        j + 1,
				Description: "potentially unreachable code: " + desc,
				Severity:    SeverityMedium,
			})
			break
		}
	}
}

func hasTerminator(line string) bool {
	for _, t := range terminators {
		if line == t || line == t+";" || strings.HasPrefix(line, t+" ") {
			return true
		}
	}
	return false
}

func estimatePotential(issues []Issue, codeLines int) Potential {
	p := Potential{TotalIssues: len(issues)}
	for _, issue := range issues {
		switch issue.Severity {
		case SeverityHigh:
			p.HighPriority++
		case SeverityMedium:
			p.MediumPriority++
		case SeverityLow:
			p.LowPriority++
		}
		switch issue.Type {
		case IssueUnusedFunction, IssueUnusedVariable:
			p.EstimatedLines += 5
		case IssueUnusedImport:
			p.EstimatedLines++
		case IssueUnreachableCode:
			p.EstimatedLines += 3
		}
	}

	if codeLines < 1 {
		codeLines = 1
	}
	pct := float64(p.EstimatedLines) / float64(codeLines) * 100
	if pct > 50 {
		pct = 50
	}
	p.EstimatedReductionPct = pct
	return p
}
