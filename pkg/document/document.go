// Package document locates release blocks in an endoflife.date product page.
//
// A block starts at a line of the form
//
//	  - releaseCycle: "10.2"
//
// and runs up to, but not including, the newline before the next block or
// the closing "---" of the frontmatter. Blocks are located by offset so that
// callers can splice replacement text into the original document.
package document

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrUnterminatedBlock is returned when a release block is not followed by
// another block or by the "---" document marker.
var ErrUnterminatedBlock = errors.New("release block has no terminator")

var (
	headerPattern = regexp.MustCompile(`(?m)^  - releaseCycle: "([^"]+)"`)

	latestPattern      = fieldPattern("latest")
	releaseDatePattern = fieldPattern("latestReleaseDate")
	linkPattern        = fieldPattern("link")
)

var terminators = []string{"\n  - releaseCycle:", "\n---"}

func fieldPattern(name string) *regexp.Regexp {
	return regexp.MustCompile(`    ` + regexp.QuoteMeta(name) + `: (.+)`)
}

// Block is one release cycle section of the document.
type Block struct {
	ReleaseCycle      string
	Latest            *string
	LatestReleaseDate *string
	Link              *string

	// Start and End delimit Text within the document: content[Start:End].
	Start int
	End   int
	Text  string
}

// HasLink reports whether the block carries a link field.
func (b Block) HasLink() bool {
	return b.Link != nil
}

// Parse returns the release blocks of content in document order. A document
// without any release block yields no blocks and no error.
func Parse(content string) ([]Block, error) {
	var blocks []Block

	for _, m := range headerPattern.FindAllStringSubmatchIndex(content, -1) {
		start, headerEnd := m[0], m[1]
		if len(blocks) > 0 && start < blocks[len(blocks)-1].End {
			continue
		}

		end := terminatorIndex(content, headerEnd)
		if end < 0 {
			return nil, fmt.Errorf("%w: releaseCycle %q at line %d", ErrUnterminatedBlock, content[m[2]:m[3]], lineOf(content, start))
		}

		text := content[start:end]
		blocks = append(blocks, Block{
			ReleaseCycle:      content[m[2]:m[3]],
			Latest:            extract(latestPattern, text),
			LatestReleaseDate: extract(releaseDatePattern, text),
			Link:              extract(linkPattern, text),
			Start:             start,
			End:               end,
			Text:              text,
		})
	}

	return blocks, nil
}

// terminatorIndex returns the offset of the earliest terminator at or after
// from, or -1.
func terminatorIndex(content string, from int) int {
	end := -1
	for _, term := range terminators {
		idx := strings.Index(content[from:], term)
		if idx < 0 {
			continue
		}
		if end < 0 || from+idx < end {
			end = from + idx
		}
	}
	return end
}

func extract(re *regexp.Regexp, text string) *string {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	v := strings.Trim(strings.TrimSpace(m[1]), `"`)
	return &v
}

// lineOf converts a byte offset to a 1-based line number.
func lineOf(content string, offset int) int {
	return strings.Count(content[:offset], "\n") + 1
}
