package sanitize

import (
	"strings"
	"unicode/utf8"
)

// Policy controls how invalid byte sequences are handled.
type Policy int

const (
	// PolicyReplace substitutes each invalid byte with U+FFFD. This is the
	// default: lossy repair keeps as much of the document as possible.
	PolicyReplace Policy = iota

	// PolicyStrip drops invalid bytes entirely.
	PolicyStrip
)

// Sanitizer repairs text extracted from documents so that it is always valid
// UTF-8 with no surrogate code points. The policy is fixed at construction,
// so every document in a batch is repaired the same way.
//
// Clean is total: it never fails, for any input.
type Sanitizer struct {
	policy Policy
}

// Option configures a Sanitizer.
type Option func(*Sanitizer)

// WithPolicy sets the repair policy. Default is PolicyReplace.
func WithPolicy(policy Policy) Option {
	return func(s *Sanitizer) {
		s.policy = policy
	}
}

// New creates a Sanitizer with the given options.
func New(opts ...Option) *Sanitizer {
	s := &Sanitizer{policy: PolicyReplace}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Clean returns text with every invalid byte sequence repaired according to
// the sanitizer's policy. Empty input returns the empty string. The output
// always round-trips as valid UTF-8 and contains no surrogate code points,
// and Clean is idempotent: Clean(Clean(s)) == Clean(s).
func (s *Sanitizer) Clean(text string) string {
	if text == "" {
		return ""
	}
	if utf8.ValidString(text) {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		if r == utf8.RuneError && size == 1 {
			// Invalid byte: a stray continuation byte, an overlong or
			// truncated sequence, or a CESU-8 encoded surrogate.
			if s.policy == PolicyReplace {
				b.WriteRune(utf8.RuneError)
			}
			i++
			continue
		}
		b.WriteRune(r)
		i += size
	}
	return b.String()
}

// Policy returns the configured repair policy.
func (s *Sanitizer) Policy() Policy {
	return s.policy
}
