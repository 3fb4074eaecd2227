package sanitize

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestClean(t *testing.T) {
	s := New()

	t.Run("empty input", func(t *testing.T) {
		assert.Equal(t, "", s.Clean(""))
	})

	t.Run("valid text passes through unchanged", func(t *testing.T) {
		text := "Señor developer — 5 years of Go, 日本語 OK."
		assert.Equal(t, text, s.Clean(text))
	})

	t.Run("invalid bytes are replaced", func(t *testing.T) {
		out := s.Clean("abc\xffdef")
		assert.Equal(t, "abc�def", out)
		assert.True(t, utf8.ValidString(out))
	})

	t.Run("truncated multi-byte sequence", func(t *testing.T) {
		// 0xE4 0xB8 is the first two bytes of a three-byte rune.
		out := s.Clean("resume\xe4\xb8 text")
		assert.True(t, utf8.ValidString(out))
		assert.Contains(t, out, "resume")
		assert.Contains(t, out, "text")
	})

	t.Run("CESU-8 encoded surrogate is repaired", func(t *testing.T) {
		// 0xED 0xA0 0x80 is U+D800 encoded as if it were a valid rune.
		out := s.Clean("before \xed\xa0\x80 after")
		assert.True(t, utf8.ValidString(out))
		for _, r := range out {
			assert.False(t, r >= 0xD800 && r <= 0xDFFF, "surrogate survived sanitization")
		}
	})

	t.Run("strip policy drops invalid bytes", func(t *testing.T) {
		stripper := New(WithPolicy(PolicyStrip))
		assert.Equal(t, "abcdef", stripper.Clean("abc\xff\xfedef"))
	})
}

func TestCleanIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"plain ascii",
		"abc\xffdef",
		"\xed\xa0\x80\xed\xb0\x80",
		"mixed \xc3\x28 and valid é",
		strings.Repeat("\x80", 64),
		"\xf4\x90\x80\x80", // above U+10FFFF
	}

	for _, policy := range []Policy{PolicyReplace, PolicyStrip} {
		s := New(WithPolicy(policy))
		for _, in := range inputs {
			once := s.Clean(in)
			twice := s.Clean(once)
			assert.Equal(t, once, twice, "policy %d input %q", policy, in)
		}
	}
}

func TestCleanTotality(t *testing.T) {
	// Every possible single byte, and a few adversarial sequences: Clean
	// must never panic and must always return valid UTF-8.
	s := New()
	for b := 0; b < 256; b++ {
		out := s.Clean(string([]byte{byte(b)}))
		assert.True(t, utf8.ValidString(out), "byte 0x%02x", b)
	}

	sequences := [][]byte{
		{0xc0, 0xaf},             // overlong '/'
		{0xe0, 0x80, 0xaf},       // overlong, 3 bytes
		{0xf0, 0x80, 0x80, 0xaf}, // overlong, 4 bytes
		{0xfe, 0xff},             // invalid lead bytes
		{0xed, 0xbf, 0xbf},       // U+DFFF
	}
	for _, seq := range sequences {
		out := s.Clean(string(seq))
		assert.True(t, utf8.ValidString(out), "sequence %x", seq)
	}
}
