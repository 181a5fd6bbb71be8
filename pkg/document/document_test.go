package document

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadFixture(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile("testdata/pan-os.md")
	require.NoError(t, err)
	return string(data)
}

func TestParseFixture(t *testing.T) {
	content := loadFixture(t)

	blocks, err := Parse(content)
	require.NoError(t, err)
	require.Len(t, blocks, 4)

	var cycles []string
	for _, b := range blocks {
		cycles = append(cycles, b.ReleaseCycle)
	}
	assert.Equal(t, []string{"12.1", "11.2", "10.2", "7.1"}, cycles)

	b := blocks[2]
	require.NotNil(t, b.Latest)
	assert.Equal(t, "10.2.3", *b.Latest)
	require.NotNil(t, b.LatestReleaseDate)
	assert.Equal(t, "2025-01-01", *b.LatestReleaseDate)
	require.True(t, b.HasLink())
	assert.Contains(t, *b.Link, "pan-os-10-2-3-addressed-issues")

	assert.False(t, blocks[1].HasLink())
}

func TestParseOffsetsReconstructDocument(t *testing.T) {
	content := loadFixture(t)

	blocks, err := Parse(content)
	require.NoError(t, err)

	for _, b := range blocks {
		assert.Equal(t, b.Text, content[b.Start:b.End])
		assert.Equal(t, content, content[:b.Start]+b.Text+content[b.End:])
	}

	// Blocks end before the newline of the following block or marker.
	last := blocks[len(blocks)-1]
	assert.Equal(t, "\n---", content[last.End:last.End+4])
	for i := 0; i < len(blocks)-1; i++ {
		assert.LessOrEqual(t, blocks[i].End, blocks[i+1].Start)
	}
}

func TestParseMissingFieldsAreNil(t *testing.T) {
	content := "releases:\n  - releaseCycle: \"9.0\"\n    eol: 2020-03-01\n---\n"

	blocks, err := Parse(content)
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.Nil(t, blocks[0].Latest)
	assert.Nil(t, blocks[0].LatestReleaseDate)
	assert.Nil(t, blocks[0].Link)
}

func TestParseBareAndQuotedValues(t *testing.T) {
	content := "  - releaseCycle: \"11.1\"\n    latest: 11.1.6-h3  \n    latestReleaseDate: \"2025-03-03\"\n---\n"

	blocks, err := Parse(content)
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.Equal(t, "11.1.6-h3", *blocks[0].Latest)
	assert.Equal(t, "2025-03-03", *blocks[0].LatestReleaseDate)
}

func TestParseNoBlocks(t *testing.T) {
	blocks, err := Parse("---\ntitle: Something else\n---\n# body\n")
	require.NoError(t, err)
	assert.Empty(t, blocks)
}

func TestParseUnterminatedBlock(t *testing.T) {
	content := "releases:\n  - releaseCycle: \"10.1\"\n    latest: \"10.1.0\"\n"

	_, err := Parse(content)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnterminatedBlock))
	assert.Contains(t, err.Error(), "line 2")
}

func TestParseCRLF(t *testing.T) {
	content := "releases:\r\n  - releaseCycle: \"10.1\"\r\n    latest: \"10.1.0\"\r\n---\r\n"

	blocks, err := Parse(content)
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.Equal(t, "10.1.0", *blocks[0].Latest)
}
