// Package main implements the minimize command line tool, which strips
// dead code and tightens source files. It can also analyze files for
// optimization potential without modifying them, and has a dedicated
// JavaScript mode.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/studygen/studygen-api/internal/minimizer"
)

type options struct {
	output         string
	backup         bool
	verify         bool
	aggressive     bool
	removeComments bool
	js             bool
	analyze        bool
}

func main() {
	var opts options
	flag.StringVar(&opts.output, "output", "", "output file, or directory when minimizing multiple files")
	flag.BoolVar(&opts.backup, "backup", false, "copy each input to <file>.backup before minimizing")
	flag.BoolVar(&opts.verify, "verify", false, "check that minimized Go output still parses")
	flag.BoolVar(&opts.aggressive, "aggressive", false, "apply aggressive optimizations")
	flag.BoolVar(&opts.removeComments, "remove-comments", false, "strip comments from the output")
	flag.BoolVar(&opts.js, "js", false, "use the JavaScript minifier (shortens identifiers)")
	flag.BoolVar(&opts.analyze, "analyze", false, "report optimization potential without modifying files")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "minimize: no input files")
		flag.Usage()
		os.Exit(2)
	}

	if err := run(opts, flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "minimize: %v\n", err)
		os.Exit(1)
	}
}

func run(opts options, files []string) error {
	if opts.analyze {
		return analyzeFiles(files)
	}

	processed := 0
	for _, path := range files {
		if _, err := os.Stat(path); err != nil {
			fmt.Fprintf(os.Stderr, "skipping %s: %v\n", path, err)
			continue
		}

		if opts.backup {
			backupPath, err := minimizer.Backup(path)
			if err != nil {
				return err
			}
			fmt.Printf("Backup created: %s\n", backupPath)
		}

		res, err := minimizeOne(opts, path, outputPathFor(opts, path, files))
		if err != nil {
			fmt.Fprintf(os.Stderr, "skipping %s: %v\n", path, err)
			continue
		}

		fmt.Printf("%s -> %s\n", path, res.Path)
		fmt.Printf("  Original:  %d bytes\n", res.OriginalSize)
		fmt.Printf("  Minimized: %d bytes\n", res.MinimizedSize)
		fmt.Printf("  Reduction: %.1f%%\n", res.Reduction())
		for _, opt := range res.Optimizations {
			fmt.Printf("  * %s\n", opt)
		}

		if opts.verify {
			if err := minimizer.Verify(res.Path); err != nil {
				return err
			}
			fmt.Println("  Verified")
		}
		processed++
	}

	fmt.Printf("\nProcessed %d/%d files\n", processed, len(files))
	if processed < len(files) {
		return fmt.Errorf("%d files failed", len(files)-processed)
	}
	return nil
}

func minimizeOne(opts options, inputPath, outputPath string) (*minimizer.Result, error) {
	if opts.js || strings.HasSuffix(inputPath, ".js") {
		jm := minimizer.NewJSMinifier(opts.removeComments, opts.aggressive)
		return jm.MinifyFile(inputPath, outputPath)
	}
	m := minimizer.New(minimizer.Options{
		Aggressive:     opts.aggressive,
		RemoveComments: opts.removeComments,
	})
	return m.MinimizeFile(inputPath, outputPath)
}

// outputPathFor resolves --output: a file path for a single input, a
// directory for multiple inputs, empty to use the minimizer's default.
func outputPathFor(opts options, inputPath string, files []string) string {
	if opts.output == "" {
		return ""
	}
	if len(files) == 1 {
		return opts.output
	}
	return filepath.Join(opts.output, filepath.Base(inputPath))
}

func analyzeFiles(files []string) error {
	for _, path := range files {
		report, err := minimizer.AnalyzeFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "skipping %s: %v\n", path, err)
			continue
		}
		printReport(report)
	}
	return nil
}

func printReport(r *minimizer.Report) {
	fmt.Printf("%s\n", r.File)
	fmt.Printf("  Lines: %d total, %d code, %d comment, %d blank\n",
		r.Stats.TotalLines, r.Stats.CodeLines, r.Stats.CommentLines, r.Stats.BlankLines)
	fmt.Printf("  Functions: %d, types: %d, imports: %d\n",
		r.Stats.Functions, r.Stats.Types, r.Stats.Imports)

	if len(r.Issues) == 0 {
		fmt.Println("  No issues found")
	} else {
		fmt.Printf("  Issues (%d):\n", len(r.Issues))
		for _, issue := range r.Issues {
			fmt.Printf("    [%s] line %d: %s\n", issue.Severity, issue.Line, issue.Description)
		}
	}

	p := r.Potential
	fmt.Printf("  Potential: %d lines reducible (%.1f%%), %d high / %d medium / %d low priority\n\n",
		p.EstimatedLines, p.EstimatedReductionPct,
		p.HighPriority, p.MediumPriority, p.LowPriority)
}
