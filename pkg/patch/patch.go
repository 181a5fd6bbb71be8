// Package patch rewrites release blocks whose latest version is behind the
// feed.
package patch

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/grovetools/panos-eol/pkg/docurl"
	"github.com/grovetools/panos-eol/pkg/document"
	"github.com/grovetools/panos-eol/pkg/feed"
	"github.com/grovetools/panos-eol/pkg/logger"
	"github.com/grovetools/panos-eol/pkg/version"
	"github.com/sirupsen/logrus"
)

var (
	// The value may follow the colon after any run of spaces, as in the parser.
	latestField      = regexp.MustCompile(`(    latest: +)("[^"]*"|\S+)`)
	releaseDateField = regexp.MustCompile(`(    latestReleaseDate: +)\S+`)
	linkField        = regexp.MustCompile(`(    link: +)\S+`)
)

// Change describes one updated release cycle.
type Change struct {
	Cycle string `json:"cycle"`
	From  string `json:"from"`
	To    string `json:"to"`
}

func (c Change) String() string {
	return fmt.Sprintf("%s: %s -> %s", c.Cycle, c.From, c.To)
}

// Result is the outcome of Apply.
type Result struct {
	Content string
	// Changes are in processing order, i.e. reverse document order.
	Changes []Change
}

// Updated reports whether any block was rewritten.
func (r Result) Updated() bool {
	return len(r.Changes) > 0
}

// Applier compares document blocks against feed cycles and rewrites the
// blocks that are behind.
type Applier struct {
	URLs   *docurl.Builder
	Logger *logrus.Entry
}

// NewApplier creates an Applier.
func NewApplier(urls *docurl.Builder, log *logrus.Entry) *Applier {
	return &Applier{URLs: urls, Logger: log}
}

// Apply returns content with every outdated block rewritten. Blocks are
// processed from the end of the document backwards so the offsets of the
// blocks still to be processed stay valid. Cycles missing from the feed are
// left untouched.
func (a *Applier) Apply(content string, blocks []document.Block, cycles feed.Cycles) Result {
	log := a.Logger
	if log == nil {
		log = logger.Discard()
	}
	urls := a.URLs
	if urls == nil {
		urls = docurl.New("")
	}

	var changes []Change
	for i := len(blocks) - 1; i >= 0; i-- {
		block := blocks[i]
		fields := logrus.Fields{"cycle": block.ReleaseCycle}

		candidate, ok := cycles[block.ReleaseCycle]
		if !ok {
			log.WithFields(fields).Debug("Cycle not in feed, skipping")
			continue
		}

		current := ""
		if block.Latest != nil {
			current = *block.Latest
		}
		currentParsed := version.Zero
		if parsed, ok := version.Parse(current); ok {
			currentParsed = parsed
		}

		candidateParsed, ok := version.Parse(candidate.Version)
		if !ok || !currentParsed.Less(candidateParsed) {
			log.WithFields(fields).WithField("latest", current).Debug("Block is up to date")
			continue
		}

		updated := rewriteBlock(block, candidate, urls)
		content = content[:block.Start] + updated + content[block.End:]

		change := Change{Cycle: block.ReleaseCycle, From: current, To: candidate.Version}
		changes = append(changes, change)
		log.WithFields(logrus.Fields{
			"cycle": change.Cycle,
			"from":  change.From,
			"to":    change.To,
		}).Info("Updated release block")
	}

	return Result{Content: content, Changes: changes}
}

// rewriteBlock returns the block text with latest, latestReleaseDate and,
// when the block already has one and a URL can be derived, link replaced.
func rewriteBlock(block document.Block, candidate feed.Entry, urls *docurl.Builder) string {
	text := replaceField(latestField, block.Text, func(old string) string {
		if strings.HasPrefix(old, `"`) {
			return `"` + candidate.Version + `"`
		}
		return candidate.Version
	})
	text = replaceField(releaseDateField, text, func(string) string {
		return candidate.Date
	})

	if url, ok := urls.Build(candidate.Version); ok && block.HasLink() {
		text = replaceField(linkField, text, func(string) string {
			return url
		})
	}
	return text
}

// replaceField replaces the value of every match of re, keeping the field
// prefix captured in group 1. value receives the old value.
func replaceField(re *regexp.Regexp, text string, value func(old string) string) string {
	return re.ReplaceAllStringFunc(text, func(match string) string {
		sub := re.FindStringSubmatch(match)
		return sub[1] + value(match[len(sub[1]):])
	})
}
