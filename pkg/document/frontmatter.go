package document

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrMissingClosingDelimiter indicates the document opens a YAML frontmatter
// block that is never closed.
var ErrMissingClosingDelimiter = errors.New("yaml frontmatter start delimiter found but closing delimiter is missing")

// SplitFrontmatter separates `---` delimited YAML frontmatter from the body.
// had is false when the document does not open with a delimiter.
func SplitFrontmatter(content string) (frontmatter, body string, had bool, err error) {
	nl := "\n"
	if i := strings.Index(content, "\n"); i > 0 && content[i-1] == '\r' {
		nl = "\r\n"
	}

	open := "---" + nl
	if !strings.HasPrefix(content, open) {
		return "", content, false, nil
	}

	rest := content[len(open):]
	if strings.HasPrefix(rest, open) {
		return "", rest[len(open):], true, nil
	}

	closeSeq := nl + "---" + nl
	idx := strings.Index(rest, closeSeq)
	if idx < 0 {
		// A closing delimiter on the last line has no trailing newline.
		if strings.HasSuffix(rest, nl+"---") {
			return rest[:len(rest)-len("---")], "", true, nil
		}
		return "", "", false, ErrMissingClosingDelimiter
	}
	return rest[:idx+len(nl)], rest[idx+len(closeSeq):], true, nil
}

// VerifyFrontmatter checks that the document's frontmatter, if any, is
// well-formed YAML.
func VerifyFrontmatter(content string) error {
	fm, _, had, err := SplitFrontmatter(content)
	if err != nil {
		return err
	}
	if !had {
		return nil
	}

	var root yaml.Node
	if err := yaml.Unmarshal([]byte(fm), &root); err != nil {
		return fmt.Errorf("invalid yaml frontmatter: %w", err)
	}
	return nil
}
