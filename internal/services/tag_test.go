package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeTag(t *testing.T) {
	cases := []struct {
		raw    string
		want   string
		wantOK bool
	}{
		{"python", "python", true},
		{"  Python ", "python", true},
		{"go-lang", "go-lang", true},
		{"C999", "c999", true},
		{"", "", false},
		{"   ", "", false},
		{"c++", "", false},
		{"two words", "", false},
		{strings.Repeat("a", 31), "", false},
		{strings.Repeat("a", 30), strings.Repeat("a", 30), true},
	}
	for _, tc := range cases {
		got, err := NormalizeTag(tc.raw)
		if tc.wantOK {
			require.NoError(t, err, "raw=%q", tc.raw)
			assert.Equal(t, tc.want, got)
		} else {
			assert.ErrorIs(t, err, ErrValidation, "raw=%q", tc.raw)
		}
	}
}

func TestResolveSetDeduplicates(t *testing.T) {
	f := newFixture(t)

	tags, err := f.tags.ResolveSet([]string{"Go", "go", " GO "})
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, "go", tags[0].Name)
}

func TestResolveSetBounds(t *testing.T) {
	f := newFixture(t)

	_, err := f.tags.ResolveSet(nil)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.tags.ResolveSet([]string{"a", "b", "c", "d", "e", "f"})
	assert.ErrorIs(t, err, ErrValidation)

	tags, err := f.tags.ResolveSet([]string{"a", "b", "c", "d", "e"})
	require.NoError(t, err)
	assert.Len(t, tags, 5)
}

func TestResolveSetRegistersVocabulary(t *testing.T) {
	f := newFixture(t)

	_, err := f.tags.ResolveSet([]string{"concurrency"})
	require.NoError(t, err)

	names, err := f.tags.List()
	require.NoError(t, err)
	assert.Contains(t, names, "concurrency")
}
