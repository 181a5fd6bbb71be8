package patch

import (
	"strings"
	"testing"

	"github.com/grovetools/panos-eol/pkg/docurl"
	"github.com/grovetools/panos-eol/pkg/document"
	"github.com/grovetools/panos-eol/pkg/feed"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const doc = `---
title: Palo Alto Networks PAN-OS
releases:
  - releaseCycle: "12.1"
    releaseDate: 2025-08-28
    latest: "12.1.4-h2"
    latestReleaseDate: 2026-02-04
    link: https://docs.paloaltonetworks.com/ngfw/release-notes/12-1/pan-os-12-1-4-known-and-addressed-issues/pan-os-12-1-4-h2-addressed-issues

  - releaseCycle: "11.2"
    latest: "11.2.7"
    latestReleaseDate: 2025-06-20

  - releaseCycle: "10.2"
    latest: "10.2.3"
    latestReleaseDate: 2025-01-01
    link: "https://example.com/old-url"

  - releaseCycle: "7.1"
    latest: "7.1.26"
    latestReleaseDate: 2020-01-21
    link: https://www.paloaltonetworks.com/pan-os-release-notes.pdf

---

Body text.
`

func newApplier() *Applier {
	l := logrus.New()
	l.SetLevel(logrus.FatalLevel)
	return NewApplier(docurl.New(""), logrus.NewEntry(l))
}

func apply(t *testing.T, content string, cycles feed.Cycles) Result {
	t.Helper()
	blocks, err := document.Parse(content)
	require.NoError(t, err)
	return newApplier().Apply(content, blocks, cycles)
}

func TestApplyUpdatesOutdatedBlock(t *testing.T) {
	res := apply(t, doc, feed.Cycles{
		"10.2": {Version: "10.2.4-h1", Date: "2025-06-01"},
	})

	require.True(t, res.Updated())
	require.Equal(t, []Change{{Cycle: "10.2", From: "10.2.3", To: "10.2.4-h1"}}, res.Changes)
	assert.Equal(t, "10.2: 10.2.3 -> 10.2.4-h1", res.Changes[0].String())

	assert.Contains(t, res.Content, `    latest: "10.2.4-h1"`)
	assert.Contains(t, res.Content, "    latestReleaseDate: 2025-06-01\n")
	assert.Contains(t, res.Content, "    link: https://docs.paloaltonetworks.com/pan-os/10-2/pan-os-release-notes/pan-os-10-2-4-known-and-addressed-issues/pan-os-10-2-4-h1-addressed-issues\n")
	assert.NotContains(t, res.Content, "old-url")

	// Everything outside the 10.2 block is untouched.
	assert.Contains(t, res.Content, `    latest: "12.1.4-h2"`)
	assert.True(t, strings.HasSuffix(res.Content, "---\n\nBody text.\n"))
}

func TestApplyNoChangesWhenCurrent(t *testing.T) {
	res := apply(t, doc, feed.Cycles{
		"12.1": {Version: "12.1.4-h2", Date: "2026-02-04"},
		"11.2": {Version: "11.2.7", Date: "2025-06-20"},
		"10.2": {Version: "10.2.3", Date: "2025-01-01"},
		"7.1":  {Version: "7.1.26", Date: "2020-01-21"},
	})

	assert.False(t, res.Updated())
	assert.Empty(t, res.Changes)
	assert.Equal(t, doc, res.Content)
}

func TestApplyLeavesNewerBlockUntouched(t *testing.T) {
	res := apply(t, doc, feed.Cycles{
		"12.1": {Version: "12.1.3", Date: "2025-12-01"},
	})

	assert.False(t, res.Updated())
	assert.Equal(t, doc, res.Content)
}

func TestApplySkipsCyclesMissingFromFeed(t *testing.T) {
	res := apply(t, doc, feed.Cycles{
		"11.1": {Version: "11.1.9", Date: "2025-09-09"},
	})

	assert.False(t, res.Updated())
	assert.Equal(t, doc, res.Content)
}

func TestApplyNeverAddsLink(t *testing.T) {
	res := apply(t, doc, feed.Cycles{
		"11.2": {Version: "11.2.8", Date: "2025-09-01"},
	})

	require.Len(t, res.Changes, 1)
	blocks, err := document.Parse(res.Content)
	require.NoError(t, err)
	assert.Equal(t, "11.2.8", *blocks[1].Latest)
	assert.Nil(t, blocks[1].Link)
}

func TestApplyKeepsLinkWhenNoURLCanBeBuilt(t *testing.T) {
	res := apply(t, doc, feed.Cycles{
		"7.1": {Version: "7.1.27", Date: "2021-01-01"},
	})

	require.Len(t, res.Changes, 1)
	assert.Contains(t, res.Content, "    latest: \"7.1.27\"")
	assert.Contains(t, res.Content, "    link: https://www.paloaltonetworks.com/pan-os-release-notes.pdf\n")
}

func TestApplyMultipleBlocksReverseOrder(t *testing.T) {
	res := apply(t, doc, feed.Cycles{
		"12.1": {Version: "12.1.5", Date: "2026-03-01"},
		"11.2": {Version: "11.2.10-h2", Date: "2026-02-01"},
		"10.2": {Version: "10.2.4-h1", Date: "2025-06-01"},
	})

	require.Equal(t, []string{
		"10.2: 10.2.3 -> 10.2.4-h1",
		"11.2: 11.2.7 -> 11.2.10-h2",
		"12.1: 12.1.4-h2 -> 12.1.5",
	}, changeStrings(res.Changes))

	blocks, err := document.Parse(res.Content)
	require.NoError(t, err)
	require.Len(t, blocks, 4)
	assert.Equal(t, "12.1.5", *blocks[0].Latest)
	assert.Equal(t, "2026-03-01", *blocks[0].LatestReleaseDate)
	assert.Equal(t, "https://docs.paloaltonetworks.com/ngfw/release-notes/12-1/pan-os-12-1-5-known-and-addressed-issues/pan-os-12-1-5-addressed-issues", *blocks[0].Link)
	assert.Equal(t, "11.2.10-h2", *blocks[1].Latest)
	assert.Equal(t, "10.2.4-h1", *blocks[2].Latest)
	assert.Equal(t, "7.1.26", *blocks[3].Latest)
	require.NoError(t, document.VerifyFrontmatter(res.Content))
}

func TestApplyBlockWithoutLatest(t *testing.T) {
	content := "releases:\n  - releaseCycle: \"11.0\"\n    latestReleaseDate: 2023-01-01\n---\n"

	res := apply(t, content, feed.Cycles{"11.0": {Version: "11.0.0", Date: "2023-02-02"}})

	require.Equal(t, []Change{{Cycle: "11.0", From: "", To: "11.0.0"}}, res.Changes)
	assert.Contains(t, res.Content, "latestReleaseDate: 2023-02-02")
}

func TestApplyBareLatestKeepsStyle(t *testing.T) {
	content := "  - releaseCycle: \"11.1\"\n    latest: 11.1.6-h3\n    latestReleaseDate: 2025-03-03\n---\n"

	res := apply(t, content, feed.Cycles{"11.1": {Version: "11.1.6-h7", Date: "2025-05-05"}})

	require.True(t, res.Updated())
	assert.Equal(t, "  - releaseCycle: \"11.1\"\n    latest: 11.1.6-h7\n    latestReleaseDate: 2025-05-05\n---\n", res.Content)
}

func TestApplyExtraSpaceBeforeValues(t *testing.T) {
	content := "  - releaseCycle: \"10.2\"\n    latest:  \"10.2.2\"\n    latestReleaseDate:   2025-03-03\n    link:  https://example.com/old\n---\n"

	res := apply(t, content, feed.Cycles{"10.2": {Version: "10.2.3", Date: "2025-05-05"}})

	require.Equal(t, []Change{{Cycle: "10.2", From: "10.2.2", To: "10.2.3"}}, res.Changes)
	assert.Contains(t, res.Content, "    latest:  \"10.2.3\"\n")
	assert.Contains(t, res.Content, "    latestReleaseDate:   2025-05-05\n")
	assert.Contains(t, res.Content, "    link:  https://docs.paloaltonetworks.com/pan-os/10-2/")
	assert.NotContains(t, res.Content, "10.2.2")

	// A second pass over the output finds nothing left to do.
	blocks, err := document.Parse(res.Content)
	require.NoError(t, err)
	again := newApplier().Apply(res.Content, blocks, feed.Cycles{"10.2": {Version: "10.2.3", Date: "2025-05-05"}})
	assert.False(t, again.Updated())
}

func TestApplyUnparseableCurrentTreatedAsZero(t *testing.T) {
	content := "  - releaseCycle: \"11.1\"\n    latest: \"TBD\"\n---\n"

	res := apply(t, content, feed.Cycles{"11.1": {Version: "11.1.0", Date: "2024-05-05"}})

	require.Equal(t, []Change{{Cycle: "11.1", From: "TBD", To: "11.1.0"}}, res.Changes)
	assert.Contains(t, res.Content, `latest: "11.1.0"`)
}

func TestApplyNilDependencies(t *testing.T) {
	blocks, err := document.Parse(doc)
	require.NoError(t, err)

	res := (&Applier{}).Apply(doc, blocks, feed.Cycles{"10.2": {Version: "10.2.5", Date: "2025-07-07"}})
	assert.True(t, res.Updated())
}

func changeStrings(changes []Change) []string {
	var out []string
	for _, c := range changes {
		out = append(out, c.String())
	}
	return out
}
