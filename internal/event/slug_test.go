package event

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Sarah's Wedding", "sarah-s-wedding"},
		{"  Ben & Jo's 30th!! ", "ben-jo-s-30th"},
		{"already-slugged", "already-slugged"},
		{"¡¡¡", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Slugify(tt.title), "Slugify(%q)", tt.title)
	}
}

func TestGenerateSlug(t *testing.T) {
	pattern := regexp.MustCompile(`^sarah-s-wedding-[0-9a-z]{8}$`)

	a, err := GenerateSlug("Sarah's Wedding")
	require.NoError(t, err)
	b, err := GenerateSlug("Sarah's Wedding")
	require.NoError(t, err)

	assert.Regexp(t, pattern, a)
	assert.Regexp(t, pattern, b)
	assert.NotEqual(t, a, b)

	bare, err := GenerateSlug("!!!")
	require.NoError(t, err)
	assert.Regexp(t, `^[0-9a-z]{8}$`, bare)
}
