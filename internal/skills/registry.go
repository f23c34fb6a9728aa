package skills

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/parser"

	"github.com/studygen/studygen-api/internal/textanalysis"
)

const skillFileName = "SKILL.md"

// Registry errors.
var (
	ErrSkillNotFound      = errors.New("skill not found")
	ErrMissingFrontmatter = errors.New("skill file has no YAML frontmatter")
	ErrMissingName        = errors.New("skill name is required in frontmatter")
	ErrMissingDescription = errors.New("skill description is required in frontmatter")
	ErrNoMatch            = errors.New("no skill matches the request")
)

// Registry discovers skills from configured directories.
type Registry struct {
	skillDirs []string
}

// Option configures a Registry.
type Option func(*Registry) error

// WithSkillDirs sets the directories scanned for skills.
func WithSkillDirs(dirs ...string) Option {
	return func(r *Registry) error {
		if len(dirs) == 0 {
			return errors.New("at least one skill directory must be specified")
		}
		r.skillDirs = dirs
		return nil
	}
}

// NewRegistry creates a Registry. Without options it scans ./skills.
func NewRegistry(opts ...Option) (*Registry, error) {
	r := &Registry{skillDirs: []string{"./skills"}}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Discover finds all skills in the configured directories. Directories
// without a parseable SKILL.md are skipped; an earlier directory wins on
// name collision.
func (r *Registry) Discover() (map[string]*Skill, error) {
	skills := make(map[string]*Skill)
	for _, dir := range r.skillDirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			entryPath := filepath.Join(dir, entry.Name())
			skill, err := loadSkill(filepath.Join(entryPath, skillFileName))
			if err != nil {
				continue
			}
			if _, exists := skills[skill.Name]; exists {
				continue
			}
			skill.Directory = entryPath
			skills[skill.Name] = skill
		}
	}
	return skills, nil
}

// Get returns a skill by name.
func (r *Registry) Get(name string) (*Skill, error) {
	skills, err := r.Discover()
	if err != nil {
		return nil, err
	}
	skill, ok := skills[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSkillNotFound, name)
	}
	return skill, nil
}

// Names returns the sorted names of all discovered skills.
func (r *Registry) Names() ([]string, error) {
	skills, err := r.Discover()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(skills))
	for name := range skills {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Match scores a free-text request against every skill's name and
// description by stop-word-filtered keyword overlap and returns the best
// scorer. Ties resolve to the lexically smaller name so matching is
// deterministic.
func (r *Registry) Match(request string) (*Skill, error) {
	skills, err := r.Discover()
	if err != nil {
		return nil, err
	}

	reqWords := textanalysis.Keywords(request)
	if len(reqWords) == 0 {
		return nil, ErrNoMatch
	}

	var best *Skill
	bestScore := 0
	for _, name := range sortedKeys(skills) {
		skill := skills[name]
		score := overlap(reqWords, textanalysis.Keywords(skill.Name+" "+skill.Description))
		if score > bestScore {
			best = skill
			bestScore = score
		}
	}
	if best == nil {
		return nil, ErrNoMatch
	}
	return best, nil
}

func sortedKeys(skills map[string]*Skill) []string {
	keys := make([]string, 0, len(skills))
	for k := range skills {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func overlap(request, description []string) int {
	set := make(map[string]struct{}, len(description))
	for _, w := range description {
		set[w] = struct{}{}
	}
	score := 0
	for _, w := range request {
		if _, ok := set[w]; ok {
			score++
		}
	}
	return score
}

// loadSkill parses one SKILL.md file: frontmatter for metadata, the rest
// as the body.
func loadSkill(path string) (*Skill, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read skill file: %w", err)
	}

	md := goldmark.New(goldmark.WithExtensions(meta.Meta))

	var buf bytes.Buffer
	pctx := parser.NewContext()
	if err := md.Convert(content, &buf, parser.WithContext(pctx)); err != nil {
		return nil, fmt.Errorf("failed to parse skill markdown: %w", err)
	}

	metaData := meta.Get(pctx)
	if metaData == nil {
		return nil, ErrMissingFrontmatter
	}

	name, _ := metaData["name"].(string)
	description, _ := metaData["description"].(string)
	if name == "" {
		return nil, ErrMissingName
	}
	if description == "" {
		return nil, ErrMissingDescription
	}

	return &Skill{
		Name:        name,
		Description: description,
		Content:     stripFrontmatter(string(content)),
	}, nil
}

func stripFrontmatter(content string) string {
	if !strings.HasPrefix(content, "---") {
		return content
	}
	lines := strings.Split(content, "\n")
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			return strings.TrimLeft(strings.Join(lines[i+1:], "\n"), "\n")
		}
	}
	return content
}
