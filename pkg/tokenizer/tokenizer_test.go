package tokenizer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCount(t *testing.T) {
	assert.Equal(t, 0, Count("   "))
	assert.Equal(t, 1, Count("shingles"))
	assert.Equal(t, 4, Count("ten bundles of shingles"))
}

func TestTruncate(t *testing.T) {
	text := strings.Repeat("word ", 300)

	out, cut := Truncate(text, 100)
	assert.True(t, cut)
	assert.Len(t, strings.Fields(out), 75)
	assert.LessOrEqual(t, Count(out), 100)
	assert.False(t, strings.HasSuffix(out, " "))

	out, cut = Truncate("short text", 100)
	assert.False(t, cut)
	assert.Equal(t, "short text", out)

	out, cut = Truncate(text, 0)
	assert.False(t, cut)
	assert.Equal(t, text, out)
}
