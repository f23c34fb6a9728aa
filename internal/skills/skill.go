// Package skills discovers skill instruction documents from configured
// directories and matches free-text user requests against their
// descriptions. A skill is a directory holding a SKILL.md file whose YAML
// frontmatter carries a name and a description; the body is the procedure
// the skill documents.
package skills

// Skill is a discovered instruction document.
type Skill struct {
	Name        string // unique name from frontmatter
	Description string // what the skill does, used for request matching
	Directory   string // full path to the skill directory
	Content     string // SKILL.md body without the frontmatter
}
