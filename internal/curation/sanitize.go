package curation

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/unicode/norm"
)

// maxDecodePasses bounds how many layers of entity encoding are unwrapped.
const maxDecodePasses = 8

// Sanitizer reduces user input to a single line of plain text.
type Sanitizer struct {
	policy *bluemonday.Policy
}

// NewSanitizer returns a Sanitizer that strips all markup.
func NewSanitizer() *Sanitizer {
	return &Sanitizer{policy: bluemonday.StrictPolicy()}
}

// PlainText strips tags, decodes entities, composes to NFC, collapses whitespace and trims.
//
// Stripping and decoding repeat until the text stops changing, so entity-encoded
// markup such as "&lt;b&gt;" is removed rather than decoded into a tag, and
// sanitizing the result again returns it unchanged.
func (s *Sanitizer) PlainText(input string) string {
	if input == "" {
		return ""
	}

	text := strings.ToValidUTF8(input, "")
	for range maxDecodePasses {
		next := html.UnescapeString(s.policy.Sanitize(text))
		if next == text {
			return collapse(text)
		}
		text = next
	}

	// Still changing after every pass: drop anything that could open a tag.
	text = strings.NewReplacer("<", "", ">", "").Replace(text)
	return collapse(text)
}

func collapse(text string) string {
	return strings.Join(strings.Fields(norm.NFC.String(text)), " ")
}
