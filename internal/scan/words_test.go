package scan

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collectWords(input string) []Substr {
	var words []Substr
	for word := range Words(NewSubstr(input)) {
		words = append(words, word)
	}
	return words
}

func TestWords(t *testing.T) {
	words := collectWords("a boy \n named \"Johnny Cash\"")
	require.Len(t, words, 4)

	assert.Equal(t, "a", words[0].Str())
	assert.Equal(t, "boy", words[1].Str())
	assert.Equal(t, "named", words[2].Str())
	assert.Equal(t, "Johnny Cash", words[3].Str())
	assert.Equal(t, `"Johnny Cash"`, words[3].OuterStr())

	start, end := words[3].Range()
	assert.Equal(t, 14, start)
	assert.Equal(t, 27, end)
}

func TestWordsQuotedFlavors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		inner  []string
		outer  []string
	}{
		{
			name:  "empty quotes",
			input: `""`,
			inner: []string{""},
			outer: []string{`""`},
		},
		{
			name:  "empty quotes mid word",
			input: `  bl""ah `,
			inner: []string{"bl", "", "ah"},
			outer: []string{"bl", `""`, "ah"},
		},
		{
			name:  "unclosed quote",
			input: `  bl"ah `,
			inner: []string{"bl", "ah "},
			outer: []string{"bl", `"ah `},
		},
		{
			name:  "unclosed quote at end",
			input: ` "`,
			inner: []string{""},
			outer: []string{`"`},
		},
		{
			name:  "trailing quote",
			input: `  bl"`,
			inner: []string{"bl", ""},
			outer: []string{"bl", `"`},
		},
		{
			name:  "quote closes preceding fragment",
			input: `"Legolas", an elf`,
			inner: []string{"Legolas", ",", "an", "elf"},
			outer: []string{`"Legolas"`, ",", "an", "elf"},
		},
		{
			name:  "multibyte rune",
			input: "élan vital",
			inner: []string{"élan", "vital"},
			outer: []string{"élan", "vital"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			words := collectWords(tt.input)
			var inner, outer []string
			for _, w := range words {
				inner = append(inner, w.Str())
				outer = append(outer, w.OuterStr())
			}
			assert.Equal(t, tt.inner, inner)
			assert.Equal(t, tt.outer, outer)
		})
	}
}

func TestWordsEmpty(t *testing.T) {
	assert.Empty(t, collectWords(""))
	assert.Empty(t, collectWords("   "))
	assert.Empty(t, collectWords("\t\n"))
}

func TestWordsRoundTrip(t *testing.T) {
	// Concatenating outer strings plus the interstitial whitespace must
	// reconstruct the input exactly.
	inputs := []string{
		"create an elf named Legolas",
		`  "Medium"  Dave Lily  `,
		"a  b\tc",
		`one "two three" four`,
		`x""y`,
	}

	for _, input := range inputs {
		words := collectWords(input)
		var b strings.Builder
		prev := 0
		for _, w := range words {
			start, end := w.Range()
			b.WriteString(input[prev:start])
			b.WriteString(w.OuterStr())
			prev = end
		}
		b.WriteString(input[prev:])
		assert.Equal(t, input, b.String())
	}
}

func TestPhrases(t *testing.T) {
	var phrases []string
	for phrase := range Phrases(NewSubstr(`  "Medium"  Dave Lily  `)) {
		phrases = append(phrases, phrase.Str())
	}

	want := []string{"Medium", `"Medium"  Dave`, `"Medium"  Dave Lily`}
	if diff := cmp.Diff(want, phrases); diff != "" {
		t.Errorf("phrases mismatch (-want +got):\n%s", diff)
	}
}

func TestPhrasesRepeated(t *testing.T) {
	var phrases []string
	for phrase := range Phrases(NewSubstr("badger badger badger")) {
		phrases = append(phrases, phrase.Str())
	}

	want := []string{"badger", "badger badger", "badger badger badger"}
	if diff := cmp.Diff(want, phrases); diff != "" {
		t.Errorf("phrases mismatch (-want +got):\n%s", diff)
	}
}

func TestSubstrAfter(t *testing.T) {
	words := collectWords("badger mushroom snake")
	require.Len(t, words, 3)

	assert.Equal(t, " mushroom snake", words[0].After().Str())
	assert.Equal(t, "", words[2].After().Str())
	assert.True(t, words[2].IsAtEnd())
	assert.False(t, words[0].IsAtEnd())
}

func TestSubstrCanComplete(t *testing.T) {
	word, ok := FirstWord(NewSubstr(" badg"))
	require.True(t, ok)
	assert.True(t, word.CanComplete())

	word, ok = FirstWord(NewSubstr(" badg "))
	require.True(t, ok)
	assert.False(t, word.CanComplete())

	// A closed quote ends the word even at the end of input.
	word, ok = FirstWord(NewSubstr(`"badg"`))
	require.True(t, ok)
	assert.False(t, word.CanComplete())

	// An unterminated quote is still being typed.
	word, ok = FirstWord(NewSubstr(`"badg`))
	require.True(t, ok)
	assert.True(t, word.CanComplete())
}

func TestSubstrIsAtEndTrailingWhitespace(t *testing.T) {
	word, ok := FirstWord(NewSubstr("badger  "))
	require.True(t, ok)
	assert.True(t, word.IsAtEnd())
	assert.False(t, word.CanComplete())
}
