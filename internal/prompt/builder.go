// Package prompt assembles system prompts for translation and evaluation
// requests. A Builder is an immutable ordered list of text sections; section
// content comes from pure functions, so no prompt state is shared between
// requests.
package prompt

import "strings"

// Builder accumulates ordered prompt sections.
type Builder struct {
	sections []string
}

// New creates a Builder seeded with the given sections.
func New(sections ...string) Builder {
	b := Builder{sections: make([]string, 0, len(sections))}
	for _, s := range sections {
		if s != "" {
			b.sections = append(b.sections, s)
		}
	}
	return b
}

// Append returns a new Builder with the section added. Empty sections are
// dropped so optional blocks can be appended unconditionally.
func (b Builder) Append(section string) Builder {
	if section == "" {
		return b
	}
	sections := make([]string, len(b.sections), len(b.sections)+1)
	copy(sections, b.sections)
	return Builder{sections: append(sections, section)}
}

// Build joins the sections with blank-line separators.
func (b Builder) Build() string {
	return strings.Join(b.sections, "\n\n")
}

// Len returns the number of accumulated sections.
func (b Builder) Len() int {
	return len(b.sections)
}
